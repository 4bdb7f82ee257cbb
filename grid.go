package viamsudoku

import (
	"image"

	"github.com/pkg/errors"
)

// Cell is one window of the rectified board.
type Cell struct {
	Row, Col int
	Rect     image.Rectangle

	// Glyph is the isolated digit mask, nil when the cell is empty.
	Glyph *image.Gray
}

// SplitGrid cuts img into rows x cols equal cells, returned in row-major order.
// Cells are floor(w/cols) x floor(h/rows); leftover pixels on the right and bottom belong to no cell.
func SplitGrid(img image.Image, rows, cols int) ([]Cell, error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "bad grid %dx%d", rows, cols)
	}

	bounds := img.Bounds()
	cellW := bounds.Dx() / cols
	cellH := bounds.Dy() / rows
	if cellW == 0 || cellH == 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "image %dx%d too small for a %dx%d grid",
			bounds.Dx(), bounds.Dy(), rows, cols)
	}

	cells := make([]Cell, 0, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			minPt := bounds.Min.Add(image.Pt(col*cellW, row*cellH))
			cells = append(cells, Cell{
				Row:  row,
				Col:  col,
				Rect: image.Rectangle{Min: minPt, Max: minPt.Add(image.Pt(cellW, cellH))},
			})
		}
	}
	return cells, nil
}

// CropGray copies the r window of img into a new image whose origin is (0, 0).
func CropGray(img *image.Gray, r image.Rectangle) *image.Gray {
	r = r.Intersect(img.Bounds())
	out := image.NewGray(image.Rect(0, 0, r.Dx(), r.Dy()))
	for y := 0; y < r.Dy(); y++ {
		start := img.PixOffset(r.Min.X, r.Min.Y+y)
		copy(out.Pix[y*out.Stride:y*out.Stride+r.Dx()], img.Pix[start:start+r.Dx()])
	}
	return out
}
