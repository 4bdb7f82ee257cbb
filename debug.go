package viamsudoku

import (
	"image"
	"image/color"
	"strconv"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// BoardDebugImage draws a rows x cols grid over a rectified board and, when board is not nil,
// writes each recognized digit in its cell with a hue per digit.
func BoardDebugImage(src image.Image, board *BoardMatrix, rows, cols int) image.Image {
	if board != nil {
		rows, cols = board.Rows(), board.Cols()
	}

	bounds := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(dst, dst.Bounds(), src, bounds.Min, draw.Src)

	width := bounds.Dx()
	height := bounds.Dy()
	if rows <= 0 || cols <= 0 || width < cols || height < rows {
		return dst
	}
	cellW := width / cols
	cellH := height / rows
	gridColor := color.RGBA{255, 0, 0, 255}

	// vertical lines
	for i := 0; i <= cols; i++ {
		x := min(i*cellW, width-1)
		for y := 0; y < height; y++ {
			dst.Set(x, y, gridColor)
		}
	}

	// horizontal lines
	for i := 0; i <= rows; i++ {
		y := min(i*cellH, height-1)
		for x := 0; x < width; x++ {
			dst.Set(x, y, gridColor)
		}
	}

	if board == nil {
		return dst
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			d := board.At(r, c)
			if d == 0 {
				continue
			}
			// 7x13 face, so a digit is about 7 wide and sits 10 above the baseline
			textX := c*cellW + cellW/2 - 3
			textY := r*cellH + cellH/2 + 5
			drawString(dst, textX, textY, strconv.Itoa(d), colorful.Hsv(float64(d)*36, 1, 1))
		}
	}
	return dst
}

func drawString(dst *image.RGBA, x, y int, s string, c color.Color) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}
