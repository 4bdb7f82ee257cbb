package viamsudoku

import (
	"image"
	"testing"

	"go.viam.com/test"
)

func whiteCell(size int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, size, size))
	fillGray(img, img.Bounds(), 255)
	return img
}

func TestExtractDigitEmpty(t *testing.T) {
	t.Run("blank", func(t *testing.T) {
		_, ok := ExtractDigit(whiteCell(60))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("black", func(t *testing.T) {
		_, ok := ExtractDigit(image.NewGray(image.Rect(0, 0, 60, 60)))
		test.That(t, ok, test.ShouldBeFalse)
	})

	t.Run("grid lines only", func(t *testing.T) {
		cell := whiteCell(60)
		fillGray(cell, image.Rect(0, 0, 3, 60), 0)
		fillGray(cell, image.Rect(0, 58, 60, 60), 20)
		_, ok := ExtractDigit(cell)
		test.That(t, ok, test.ShouldBeFalse)
	})
}

func TestExtractDigitGlyph(t *testing.T) {
	cell := whiteCell(60)
	fillGray(cell, image.Rect(0, 0, 3, 60), 0)
	fillGray(cell, image.Rect(0, 0, 60, 2), 0)
	fillGray(cell, image.Rect(20, 15, 40, 45), 0)

	mask, ok := ExtractDigit(cell)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, mask.Bounds(), test.ShouldResemble, image.Rect(0, 0, 60, 60))
	test.That(t, countForeground(mask), test.ShouldEqual, 20*30)
	test.That(t, mask.GrayAt(30, 30).Y, test.ShouldEqual, uint8(255))
	test.That(t, mask.GrayAt(1, 30).Y, test.ShouldEqual, uint8(0))
	test.That(t, mask.GrayAt(10, 10).Y, test.ShouldEqual, uint8(0))
}

func TestExtractDigitLowContrast(t *testing.T) {
	cell := image.NewGray(image.Rect(0, 0, 40, 40))
	fillGray(cell, cell.Bounds(), 140)
	fillGray(cell, image.Rect(15, 10, 25, 30), 110)

	mask, ok := ExtractDigit(cell)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, countForeground(mask), test.ShouldEqual, 10*20)
}

func TestNormalizeMinMax(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	copy(img.Pix, []uint8{100, 140, 200})

	out, ok := NormalizeMinMax(img)
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, out.Pix, test.ShouldResemble, []uint8{0, 102, 255})

	_, ok = NormalizeMinMax(whiteCell(4))
	test.That(t, ok, test.ShouldBeFalse)
}

func TestOtsuThreshold(t *testing.T) {
	var hist [256]int
	hist[10] = 100
	hist[200] = 100
	test.That(t, OtsuThreshold(hist), test.ShouldEqual, uint8(10))

	var skewed [256]int
	skewed[30] = 50
	skewed[40] = 50
	skewed[220] = 400
	th := OtsuThreshold(skewed)
	test.That(t, th, test.ShouldBeGreaterThanOrEqualTo, uint8(40))
	test.That(t, th, test.ShouldBeLessThan, uint8(220))
}

func TestBinarizeInverse(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	copy(img.Pix, []uint8{0, 99, 100, 255})

	out := BinarizeInverse(img, 99)
	test.That(t, out.Pix, test.ShouldResemble, []uint8{255, 255, 0, 0})
}
