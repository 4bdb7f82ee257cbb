package viamsudoku

import (
	"image"
)

// Region is a maximal 8-connected set of foreground (non-zero) pixels.
type Region struct {
	Label  int
	Bounds image.Rectangle
	Size   int
}

// TouchesBorder reports whether the region's bounding box reaches any edge of frame.
func (r Region) TouchesBorder(frame image.Rectangle) bool {
	return r.Bounds.Min.X == frame.Min.X ||
		r.Bounds.Min.Y == frame.Min.Y ||
		r.Bounds.Max.X == frame.Max.X ||
		r.Bounds.Max.Y == frame.Max.Y
}

// LabelRegions finds the 8-connected foreground regions of img.
// labels is row-major over img.Bounds(), 0 for background; regions[i].Label == i+1.
func LabelRegions(img *image.Gray) ([]int, []Region) {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	labels := make([]int, width*height)

	var regions []Region
	for y := range height {
		for x := range width {
			if labels[y*width+x] != 0 || img.Pix[y*img.Stride+x] == 0 {
				continue
			}
			region := floodFill(img, labels, x, y, len(regions)+1)
			region.Bounds = region.Bounds.Add(bounds.Min)
			regions = append(regions, region)
		}
	}
	return labels, regions
}

func floodFill(img *image.Gray, labels []int, startX, startY, label int) Region {
	width, height := img.Bounds().Dx(), img.Bounds().Dy()

	region := Region{
		Label:  label,
		Bounds: image.Rect(startX, startY, startX+1, startY+1),
	}

	labels[startY*width+startX] = label
	stack := []image.Point{{startX, startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		region.Size++
		region.Bounds = region.Bounds.Union(image.Rect(p.X, p.Y, p.X+1, p.Y+1))

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				nx, ny := p.X+dx, p.Y+dy
				if nx < 0 || nx >= width || ny < 0 || ny >= height {
					continue
				}
				if labels[ny*width+nx] != 0 || img.Pix[ny*img.Stride+nx] == 0 {
					continue
				}
				labels[ny*width+nx] = label
				stack = append(stack, image.Point{nx, ny})
			}
		}
	}

	return region
}

// ClearBorder returns a copy of img without the foreground regions whose bounding box touches
// the image edge. Interior regions keep their pixel values.
func ClearBorder(img *image.Gray) *image.Gray {
	bounds := img.Bounds()
	labels, regions := LabelRegions(img)

	keep := make([]bool, len(regions)+1)
	for _, r := range regions {
		keep[r.Label] = !r.TouchesBorder(bounds)
	}

	out := image.NewGray(bounds)
	width := bounds.Dx()
	for y := range bounds.Dy() {
		for x := range width {
			if l := labels[y*width+x]; l != 0 && keep[l] {
				out.Pix[y*out.Stride+x] = img.Pix[y*img.Stride+x]
			}
		}
	}
	return out
}
