package viamsudoku

import (
	"context"
	"image"

	"golang.org/x/image/draw"
)

// DefaultPatchSize is the side of the square patch handed to a Classifier.
const DefaultPatchSize = 28

// Patch is a square grayscale glyph scaled for a classifier. Pix is row-major with values in [0,1],
// where 1 is ink.
type Patch struct {
	Size int
	Pix  []float32
}

// NewPatch scales an isolated glyph mask to a size x size patch.
func NewPatch(mask *image.Gray, size int) *Patch {
	scaled := image.NewGray(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), draw.Src, nil)

	p := &Patch{Size: size, Pix: make([]float32, size*size)}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			p.Pix[y*size+x] = float32(scaled.Pix[y*scaled.Stride+x]) / 255
		}
	}
	return p
}

// At returns the value at (x, y).
func (p *Patch) At(x, y int) float32 {
	return p.Pix[y*p.Size+x]
}

// Image converts the patch back to an 8-bit grayscale image.
func (p *Patch) Image() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Size, p.Size))
	for i, v := range p.Pix {
		img.Pix[i] = clampUint8(float64(v) * 255)
	}
	return img
}

// Prediction is a classifier's answer for one patch.
type Prediction struct {
	Digit int
	Score float64
}

// A Classifier recognizes the digit in a patch. Implementations used with more than one pipeline
// worker must be safe for concurrent use.
type Classifier interface {
	Classify(ctx context.Context, patch *Patch) (Prediction, error)
}

// ClassifierFunc adapts a function to Classifier.
type ClassifierFunc func(ctx context.Context, patch *Patch) (Prediction, error)

// Classify calls f.
func (f ClassifierFunc) Classify(ctx context.Context, patch *Patch) (Prediction, error) {
	return f(ctx, patch)
}
