package viamsudoku

import (
	"bytes"
	"image"
	"math/rand"
	"testing"

	"go.viam.com/test"
)

func TestLabelRegions(t *testing.T) {
	mask := maskFromRows(
		"##....",
		"..#...",
		"......",
		"...##.",
		"....#.",
	)

	labels, regions := LabelRegions(mask)
	test.That(t, len(regions), test.ShouldEqual, 2)

	// the diagonal step joins (1,0) and (2,1)
	test.That(t, regions[0].Size, test.ShouldEqual, 3)
	test.That(t, regions[0].Bounds, test.ShouldResemble, image.Rect(0, 0, 3, 2))
	test.That(t, regions[1].Size, test.ShouldEqual, 3)
	test.That(t, regions[1].Bounds, test.ShouldResemble, image.Rect(3, 3, 5, 5))

	test.That(t, labels[0], test.ShouldEqual, 1)
	test.That(t, labels[1*6+2], test.ShouldEqual, 1)
	test.That(t, labels[4*6+4], test.ShouldEqual, 2)
	test.That(t, labels[2*6+2], test.ShouldEqual, 0)
}

func TestClearBorder(t *testing.T) {
	mask := maskFromRows(
		"#.......",
		"#..##...",
		"#..##...",
		"........",
		".....#..",
		"......#.",
		".......#",
		"........",
	)

	out := ClearBorder(mask)
	test.That(t, countForeground(out), test.ShouldEqual, 4)
	for _, p := range []image.Point{{3, 1}, {4, 1}, {3, 2}, {4, 2}} {
		test.That(t, out.GrayAt(p.X, p.Y).Y, test.ShouldEqual, uint8(255))
	}
	// the diagonal run is one region reaching the right edge
	test.That(t, out.GrayAt(5, 4).Y, test.ShouldEqual, uint8(0))

	// the input is left alone
	test.That(t, countForeground(mask), test.ShouldEqual, 10)
}

func TestClearBorderKeepsValues(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 6, 6))
	fillGray(img, image.Rect(2, 2, 4, 4), 90)
	fillGray(img, image.Rect(0, 5, 6, 6), 30)

	out := ClearBorder(img)
	test.That(t, out.GrayAt(2, 2).Y, test.ShouldEqual, uint8(90))
	test.That(t, out.GrayAt(3, 5).Y, test.ShouldEqual, uint8(0))
}

func TestClearBorderEverythingTouches(t *testing.T) {
	mask := maskFromRows(
		"######",
		"#....#",
		"#.##.#",
		"#....#",
		"######",
	)
	// the inner block is not connected to the frame
	test.That(t, countForeground(ClearBorder(mask)), test.ShouldEqual, 2)

	full := maskFromRows("###", "###", "###")
	test.That(t, countForeground(ClearBorder(full)), test.ShouldEqual, 0)
}

func TestClearBorderIdempotent(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		img := image.NewGray(image.Rect(0, 0, 20, 20))
		for j := range img.Pix {
			if rng.Float64() < 0.3 {
				img.Pix[j] = 255
			}
		}

		once := ClearBorder(img)
		twice := ClearBorder(once)
		test.That(t, bytes.Equal(once.Pix, twice.Pix), test.ShouldBeTrue)
	}
}
