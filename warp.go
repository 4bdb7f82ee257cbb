package viamsudoku

import (
	"image"
	"math"

	"github.com/pkg/errors"
	"golang.org/x/image/draw"
)

// WarpPerspective resamples img into a width x height image. h maps source coordinates to
// destination coordinates; every destination pixel is pulled back through its inverse and sampled
// bilinearly. Pixels that land outside the source are left black.
//
// A *image.Gray source produces a *image.Gray; anything else produces a *image.RGBA.
func WarpPerspective(img image.Image, h Homography, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errors.Wrapf(ErrInvalidInput, "bad output size %dx%d", width, height)
	}

	inv, err := h.Inverse()
	if err != nil {
		return nil, err
	}

	if g, ok := img.(*image.Gray); ok {
		return warpGray(g, inv, width, height), nil
	}
	return warpRGBA(toRGBA(img), inv, width, height), nil
}

func warpGray(src *image.Gray, inv Homography, width, height int) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, width, height))
	bounds := src.Bounds()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy, ok := inv.Apply(float64(x), float64(y))
			if !ok || !insideSource(sx, sy, bounds) {
				continue
			}
			t := newTaps(sx, sy, bounds)
			v := t.mix(
				float64(src.GrayAt(t.x0, t.y0).Y),
				float64(src.GrayAt(t.x1, t.y0).Y),
				float64(src.GrayAt(t.x0, t.y1).Y),
				float64(src.GrayAt(t.x1, t.y1).Y),
			)
			dst.Pix[y*dst.Stride+x] = clampUint8(v)
		}
	}
	return dst
}

func warpRGBA(src *image.RGBA, inv Homography, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	bounds := src.Bounds()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			sx, sy, ok := inv.Apply(float64(x), float64(y))
			if !ok || !insideSource(sx, sy, bounds) {
				continue
			}
			t := newTaps(sx, sy, bounds)
			c00 := src.RGBAAt(t.x0, t.y0)
			c10 := src.RGBAAt(t.x1, t.y0)
			c01 := src.RGBAAt(t.x0, t.y1)
			c11 := src.RGBAAt(t.x1, t.y1)

			off := y*dst.Stride + x*4
			dst.Pix[off+0] = clampUint8(t.mix(float64(c00.R), float64(c10.R), float64(c01.R), float64(c11.R)))
			dst.Pix[off+1] = clampUint8(t.mix(float64(c00.G), float64(c10.G), float64(c01.G), float64(c11.G)))
			dst.Pix[off+2] = clampUint8(t.mix(float64(c00.B), float64(c10.B), float64(c01.B), float64(c11.B)))
			dst.Pix[off+3] = clampUint8(t.mix(float64(c00.A), float64(c10.A), float64(c01.A), float64(c11.A)))
		}
	}
	return dst
}

// insideSource reports whether (x, y), relative to bounds.Min, lies in [0, w) x [0, h).
func insideSource(x, y float64, bounds image.Rectangle) bool {
	return x >= 0 && y >= 0 && x < float64(bounds.Dx()) && y < float64(bounds.Dy())
}

// taps are the four neighbouring source pixels of a sample point and its fractional offsets.
type taps struct {
	x0, y0, x1, y1 int
	fx, fy         float64
}

func newTaps(x, y float64, bounds image.Rectangle) taps {
	ix := int(x)
	iy := int(y)
	return taps{
		x0: bounds.Min.X + ix,
		y0: bounds.Min.Y + iy,
		x1: bounds.Min.X + min(ix+1, bounds.Dx()-1),
		y1: bounds.Min.Y + min(iy+1, bounds.Dy()-1),
		fx: x - float64(ix),
		fy: y - float64(iy),
	}
}

func (t taps) mix(v00, v10, v01, v11 float64) float64 {
	return v00*(1-t.fx)*(1-t.fy) + v10*t.fx*(1-t.fy) + v01*(1-t.fx)*t.fy + v11*t.fx*t.fy
}

func clampUint8(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Transpose swaps the x and y axes of img.
func Transpose(img image.Image) image.Image {
	switch src := img.(type) {
	case *image.Gray:
		return TransposeGray(src)
	default:
		in := toRGBA(img)
		b := in.Bounds()
		out := image.NewRGBA(image.Rect(0, 0, b.Dy(), b.Dx()))
		for y := 0; y < b.Dy(); y++ {
			for x := 0; x < b.Dx(); x++ {
				out.SetRGBA(y, x, in.RGBAAt(b.Min.X+x, b.Min.Y+y))
			}
		}
		return out
	}
}

// TransposeGray swaps the x and y axes of a grayscale image.
func TransposeGray(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dy(), b.Dx()))
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			out.Pix[x*out.Stride+y] = src.GrayAt(b.Min.X+x, b.Min.Y+y).Y
		}
	}
	return out
}

// toGray returns img as a grayscale image with its origin at (0, 0).
func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok && g.Bounds().Min == (image.Point{}) {
		return g
	}
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
