package viamsudoku

import (
	"image"
	"image/color"

	"github.com/golang/geo/r2"
)

func pt(x, y float64) r2.Point {
	return r2.Point{X: x, Y: y}
}

// maskFromRows builds a binary image where '#' is foreground.
func maskFromRows(rows ...string) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, len(rows[0]), len(rows)))
	for y, row := range rows {
		for x, ch := range row {
			if ch == '#' {
				img.SetGray(x, y, color.Gray{255})
			}
		}
	}
	return img
}

func fillGray(img *image.Gray, r image.Rectangle, v uint8) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetGray(x, y, color.Gray{v})
		}
	}
}

func fillRGBA(img *image.RGBA, r image.Rectangle, c color.RGBA) {
	r = r.Intersect(img.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			img.SetRGBA(x, y, c)
		}
	}
}

func countForeground(img *image.Gray) int {
	n := 0
	for _, v := range img.Pix {
		if v != 0 {
			n++
		}
	}
	return n
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}

const testPitch = 67

// sudokuImage draws a 9x9 grid of 4 pixel black lines on white with a 67 pixel pitch, starting
// margin pixels in, and a solid block in each listed cell (X is the column, Y the row).
func sudokuImage(margin int, glyphs ...image.Point) *image.RGBA {
	side := 9*testPitch + 1 + 2*margin
	img := image.NewRGBA(image.Rect(0, 0, side, side))
	white := color.RGBA{255, 255, 255, 255}
	black := color.RGBA{0, 0, 0, 255}
	fillRGBA(img, img.Bounds(), white)

	lo, hi := margin-2, margin+9*testPitch+2
	for i := 0; i <= 9; i++ {
		p := margin + i*testPitch
		fillRGBA(img, image.Rect(p-2, lo, p+2, hi), black)
		fillRGBA(img, image.Rect(lo, p-2, hi, p+2), black)
	}

	for _, g := range glyphs {
		x := margin + g.X*testPitch
		y := margin + g.Y*testPitch
		fillRGBA(img, image.Rect(x+24, y+18, x+44, y+50), black)
	}
	return img
}

func squareCandidate(lo, hi float64) Candidate {
	return Candidate{
		Polygon:   []r2.Point{pt(lo, lo), pt(hi, lo), pt(hi, hi), pt(lo, hi)},
		Perimeter: 4 * (hi - lo),
	}
}
