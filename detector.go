package viamsudoku

import (
	"context"
	"image"
	"math"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Candidate is a polygon found by a QuadDetector along with the perimeter of the contour it
// approximates.
type Candidate struct {
	Polygon   []r2.Point
	Perimeter float64
}

// A QuadDetector finds polygon candidates for the board outline.
type QuadDetector interface {
	Detect(ctx context.Context, img image.Image) ([]Candidate, error)
}

// SelectQuad picks the board outline: among candidates with exactly four vertices the one with
// the largest perimeter, keeping the earliest on ties.
func SelectQuad(candidates []Candidate) ([]r2.Point, error) {
	best := -1
	for i, c := range candidates {
		if len(c.Polygon) != 4 {
			continue
		}
		if best < 0 || c.Perimeter > candidates[best].Perimeter {
			best = i
		}
	}
	if best < 0 {
		return nil, errors.Wrapf(ErrPuzzleNotFound, "no 4-vertex outline among %d candidates", len(candidates))
	}
	return candidates[best].Polygon, nil
}

// MaskQuadDetector finds dark outlines: the image is blurred and adaptively thresholded, every
// 8-connected dark region is reduced to its convex hull, and the hull is simplified to a polygon.
type MaskQuadDetector struct {
	// Sigma is the gaussian blur applied before thresholding.
	Sigma float64
	// Window is the side of the adaptive threshold neighbourhood; forced odd and at least 3.
	Window int
	// Bias is subtracted from the neighbourhood mean.
	Bias int
	// Epsilon is the polygon simplification tolerance as a fraction of the perimeter.
	Epsilon float64
	// MinArea skips regions with fewer pixels.
	MinArea int
}

// NewMaskQuadDetector returns a detector with the usual settings for a printed puzzle.
func NewMaskQuadDetector() *MaskQuadDetector {
	return &MaskQuadDetector{
		Sigma:   1.1,
		Window:  11,
		Bias:    2,
		Epsilon: 0.02,
		MinArea: 100,
	}
}

// Detect implements QuadDetector.
func (d *MaskQuadDetector) Detect(ctx context.Context, img image.Image) ([]Candidate, error) {
	if img.Bounds().Empty() {
		return nil, errors.Wrap(ErrInvalidInput, "empty image")
	}

	gray := toGray(imaging.Blur(imaging.Grayscale(img), d.Sigma))
	mask := adaptiveThresholdInv(gray, d.Window, d.Bias)

	labels, regions := LabelRegions(mask)
	width := mask.Bounds().Dx()

	var candidates []Candidate
	for _, r := range regions {
		if r.Size < d.MinArea {
			continue
		}

		hull := convexHull(regionBoundary(labels, width, r))
		if len(hull) < 3 {
			continue
		}

		peri := closedPerimeter(hull)
		poly := approxPolygon(hull, d.Epsilon*peri)
		candidates = append(candidates, Candidate{
			Polygon:   PointsFromImage(poly),
			Perimeter: peri,
		})
	}

	return candidates, nil
}

// adaptiveThresholdInv marks as foreground every pixel at or below its neighbourhood mean minus
// bias. Means come from an integral image.
func adaptiveThresholdInv(img *image.Gray, window, bias int) *image.Gray {
	if window < 3 {
		window = 3
	}
	if window%2 == 0 {
		window++
	}
	half := window / 2

	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	ints := make([]int, (w+1)*(h+1))
	for y := 0; y < h; y++ {
		rowSum := 0
		for x := 0; x < w; x++ {
			rowSum += int(img.Pix[y*img.Stride+x])
			ints[(y+1)*(w+1)+x+1] = ints[y*(w+1)+x+1] + rowSum
		}
	}

	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		y0, y1 := max(y-half, 0), min(y+half+1, h)
		for x := 0; x < w; x++ {
			x0, x1 := max(x-half, 0), min(x+half+1, w)
			sum := ints[y1*(w+1)+x1] - ints[y0*(w+1)+x1] - ints[y1*(w+1)+x0] + ints[y0*(w+1)+x0]
			mean := sum / ((x1 - x0) * (y1 - y0))
			if int(img.Pix[y*img.Stride+x]) <= mean-bias {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// regionBoundary returns the pixels of r that have a 4-neighbour outside r.
func regionBoundary(labels []int, width int, r Region) []image.Point {
	height := len(labels) / width
	in := func(x, y int) bool {
		return x >= 0 && x < width && y >= 0 && y < height && labels[y*width+x] == r.Label
	}

	var boundary []image.Point
	for y := r.Bounds.Min.Y; y < r.Bounds.Max.Y; y++ {
		for x := r.Bounds.Min.X; x < r.Bounds.Max.X; x++ {
			if !in(x, y) {
				continue
			}
			if !in(x-1, y) || !in(x+1, y) || !in(x, y-1) || !in(x, y+1) {
				boundary = append(boundary, image.Point{x, y})
			}
		}
	}
	return boundary
}

func convexHull(points []image.Point) []image.Point {
	if len(points) < 3 {
		return points
	}

	sorted := make([]image.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].X != sorted[j].X {
			return sorted[i].X < sorted[j].X
		}
		return sorted[i].Y < sorted[j].Y
	})

	cross := func(o, a, b image.Point) int {
		return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
	}

	var lower []image.Point
	for _, p := range sorted {
		for len(lower) >= 2 && cross(lower[len(lower)-2], lower[len(lower)-1], p) <= 0 {
			lower = lower[:len(lower)-1]
		}
		lower = append(lower, p)
	}

	var upper []image.Point
	for i := len(sorted) - 1; i >= 0; i-- {
		p := sorted[i]
		for len(upper) >= 2 && cross(upper[len(upper)-2], upper[len(upper)-1], p) <= 0 {
			upper = upper[:len(upper)-1]
		}
		upper = append(upper, p)
	}

	return append(lower[:len(lower)-1], upper[:len(upper)-1]...)
}

func closedPerimeter(poly []image.Point) float64 {
	peri := 0.0
	for i, p := range poly {
		peri += pointDistance(p, poly[(i+1)%len(poly)])
	}
	return peri
}

// approxPolygon simplifies a closed polygon with Ramer-Douglas-Peucker. The ring is split at the
// vertex farthest from the first one and each half is simplified on its own.
func approxPolygon(ring []image.Point, epsilon float64) []image.Point {
	if len(ring) < 3 {
		return append([]image.Point(nil), ring...)
	}

	far, farDist := 0, -1.0
	for i, p := range ring {
		if d := pointDistance(ring[0], p); d > farDist {
			far, farDist = i, d
		}
	}

	first := simplifyChain(ring[:far+1], epsilon)
	rest := append(append([]image.Point(nil), ring[far:]...), ring[0])
	second := simplifyChain(rest, epsilon)

	return append(first[:len(first)-1], second[:len(second)-1]...)
}

func simplifyChain(pts []image.Point, epsilon float64) []image.Point {
	if len(pts) < 3 {
		return append([]image.Point(nil), pts...)
	}

	a, b := pts[0], pts[len(pts)-1]
	idx, maxDist := 0, 0.0
	for i := 1; i < len(pts)-1; i++ {
		if d := segmentDistance(pts[i], a, b); d > maxDist {
			idx, maxDist = i, d
		}
	}
	if maxDist <= epsilon {
		return []image.Point{a, b}
	}

	left := simplifyChain(pts[:idx+1], epsilon)
	right := simplifyChain(pts[idx:], epsilon)
	return append(left[:len(left)-1], right...)
}

// segmentDistance is the distance from p to the line through a and b.
func segmentDistance(p, a, b image.Point) float64 {
	if a == b {
		return pointDistance(p, a)
	}
	cross := (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
	return math.Abs(float64(cross)) / pointDistance(a, b)
}

func pointDistance(a, b image.Point) float64 {
	return math.Hypot(float64(a.X-b.X), float64(a.Y-b.Y))
}
