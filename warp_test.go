package viamsudoku

import (
	"image"
	"image/color"
	"testing"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"go.viam.com/test"
)

func TestWarpPerspectiveIdentitySquare(t *testing.T) {
	// symmetric in x and y, so the swapped axes of the raw warp do not matter
	src := image.NewGray(image.Rect(0, 0, 801, 801))
	for y := 0; y < 801; y++ {
		for x := 0; x < 801; x++ {
			src.SetGray(x, y, color.Gray{uint8((x + y) / 8)})
		}
	}

	q, err := OrderCorners([]r2.Point{pt(0, 0), pt(800, 0), pt(0, 800), pt(800, 800)})
	test.That(t, err, test.ShouldBeNil)
	h, w, ht, err := EstimateHomography(q)
	test.That(t, err, test.ShouldBeNil)

	out, err := WarpPerspective(src, h, w, ht)
	test.That(t, err, test.ShouldBeNil)
	warped, ok := out.(*image.Gray)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, warped.Bounds(), test.ShouldResemble, image.Rect(0, 0, 800, 800))

	worst := 0
	for y := 0; y < 800; y++ {
		for x := 0; x < 800; x++ {
			worst = max(worst, absDiff(warped.GrayAt(x, y).Y, src.GrayAt(x, y).Y))
		}
	}
	test.That(t, worst, test.ShouldBeLessThanOrEqualTo, 2)
}

func TestRectifyKeepsOrientation(t *testing.T) {
	// brightness grows left to right only
	src := image.NewGray(image.Rect(0, 0, 801, 801))
	for y := 0; y < 801; y++ {
		for x := 0; x < 801; x++ {
			src.SetGray(x, y, color.Gray{uint8(x / 4)})
		}
	}

	q, err := OrderCorners([]r2.Point{pt(0, 0), pt(800, 0), pt(0, 800), pt(800, 800)})
	test.That(t, err, test.ShouldBeNil)
	h, w, ht, err := EstimateHomography(q)
	test.That(t, err, test.ShouldBeNil)
	out, err := WarpPerspective(src, h, w, ht)
	test.That(t, err, test.ShouldBeNil)

	upright := TransposeGray(out.(*image.Gray))
	for _, p := range []image.Point{{0, 0}, {100, 700}, {400, 400}, {799, 10}, {640, 799}} {
		test.That(t, absDiff(upright.GrayAt(p.X, p.Y).Y, uint8(p.X/4)), test.ShouldBeLessThanOrEqualTo, 2)
	}
}

func TestWarpPerspectiveOutsideIsBlack(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 100, 100))
	fillGray(src, src.Bounds(), 255)

	// shifts the source 50 pixels to the right
	h := Homography{1, 0, 50, 0, 1, 0, 0, 0, 1}
	out, err := WarpPerspective(src, h, 100, 100)
	test.That(t, err, test.ShouldBeNil)

	g := out.(*image.Gray)
	test.That(t, g.GrayAt(10, 10).Y, test.ShouldEqual, uint8(0))
	test.That(t, g.GrayAt(49, 90).Y, test.ShouldEqual, uint8(0))
	test.That(t, g.GrayAt(50, 10).Y, test.ShouldEqual, uint8(255))
	test.That(t, g.GrayAt(99, 99).Y, test.ShouldEqual, uint8(255))
}

func TestWarpPerspectiveColor(t *testing.T) {
	identity := Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}
	red := color.RGBA{200, 10, 20, 255}

	src := image.NewNRGBA(image.Rect(10, 10, 50, 40))
	for y := 10; y < 40; y++ {
		for x := 10; x < 50; x++ {
			src.Set(x, y, red)
		}
	}

	out, err := WarpPerspective(src, identity, 40, 30)
	test.That(t, err, test.ShouldBeNil)
	rgba, ok := out.(*image.RGBA)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, rgba.Bounds(), test.ShouldResemble, image.Rect(0, 0, 40, 30))
	test.That(t, rgba.RGBAAt(0, 0), test.ShouldResemble, red)
	test.That(t, rgba.RGBAAt(39, 29), test.ShouldResemble, red)
}

func TestWarpPerspectiveErrors(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 10, 10))
	identity := Homography{1, 0, 0, 0, 1, 0, 0, 0, 1}

	_, err := WarpPerspective(src, identity, 0, 10)
	test.That(t, errors.Is(err, ErrInvalidInput), test.ShouldBeTrue)

	_, err = WarpPerspective(src, Homography{}, 10, 10)
	test.That(t, errors.Is(err, ErrSingularSystem), test.ShouldBeTrue)
}

func TestTranspose(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 3, 2))
	copy(src.Pix, []uint8{
		1, 2, 3,
		4, 5, 6,
	})

	out := TransposeGray(src)
	test.That(t, out.Bounds(), test.ShouldResemble, image.Rect(0, 0, 2, 3))
	test.That(t, out.Pix, test.ShouldResemble, []uint8{
		1, 4,
		2, 5,
		3, 6,
	})

	rgba := image.NewRGBA(image.Rect(0, 0, 3, 2))
	rgba.SetRGBA(2, 0, color.RGBA{9, 8, 7, 255})
	tr := Transpose(rgba).(*image.RGBA)
	test.That(t, tr.Bounds(), test.ShouldResemble, image.Rect(0, 0, 2, 3))
	test.That(t, tr.RGBAAt(0, 2), test.ShouldResemble, color.RGBA{9, 8, 7, 255})
}
