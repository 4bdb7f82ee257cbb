package viamsudoku

import (
	"image"
)

// ExtractDigit isolates the glyph in a single grayscale cell.
// The cell is stretched to [0,255], binarized with Otsu's threshold so that dark ink becomes
// foreground, and cleared of every region touching the cell edge (grid line fragments).
// ok is false when nothing is left.
func ExtractDigit(cell *image.Gray) (*image.Gray, bool) {
	norm, ok := NormalizeMinMax(cell)
	if !ok {
		return nil, false
	}

	mask := ClearBorder(BinarizeInverse(norm, OtsuThreshold(Histogram(norm))))

	_, regions := LabelRegions(mask)
	if len(regions) == 0 {
		return nil, false
	}
	return mask, true
}

// NormalizeMinMax linearly stretches img so its darkest pixel is 0 and its brightest 255.
// It returns false for a flat image, which has no range to stretch.
func NormalizeMinMax(img *image.Gray) (*image.Gray, bool) {
	b := img.Bounds()
	if b.Empty() {
		return nil, false
	}

	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)] {
			lo = min(lo, v)
			hi = max(hi, v)
		}
	}
	if lo == hi {
		return nil, false
	}

	scale := 255 / float64(hi-lo)
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			out.Pix[y*out.Stride+x] = clampUint8(float64(row[x]-lo) * scale)
		}
	}
	return out, true
}

// Histogram counts the pixels at each gray level.
func Histogram(img *image.Gray) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for _, v := range img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)] {
			hist[v]++
		}
	}
	return hist
}

// OtsuThreshold picks the level t that maximizes the between-class variance of {v <= t} and
// {v > t}. The lowest such level wins on ties.
//
// https://en.wikipedia.org/wiki/Otsu%27s_method
func OtsuThreshold(hist [256]int) uint8 {
	total := 0
	sum := 0.0
	for i, n := range hist {
		total += n
		sum += float64(i * n)
	}

	best := 0
	bestVar := -1.0
	wB := 0
	sumB := 0.0
	for t := range 256 {
		wB += hist[t]
		sumB += float64(t * hist[t])
		if wB == 0 {
			continue
		}
		wF := total - wB
		if wF == 0 {
			break
		}

		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)
		between := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if between > bestVar {
			bestVar = between
			best = t
		}
	}
	return uint8(best)
}

// BinarizeInverse marks pixels at or below threshold as foreground (255) and the rest as 0.
func BinarizeInverse(img *image.Gray, threshold uint8) *image.Gray {
	b := img.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		row := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		for x := 0; x < b.Dx(); x++ {
			if row[x] <= threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}
