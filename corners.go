package viamsudoku

import (
	"image"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
)

// Quad is a quadrilateral in canonical role order: top-left, top-right, bottom-right, bottom-left.
type Quad [4]r2.Point

// Corner roles, used to index a Quad.
const (
	TopLeft = iota
	TopRight
	BottomRight
	BottomLeft
)

// PointsFromImage converts integer pixel coordinates to r2 points.
func PointsFromImage(pts []image.Point) []r2.Point {
	out := make([]r2.Point, len(pts))
	for i, p := range pts {
		out[i] = r2.Point{X: float64(p.X), Y: float64(p.Y)}
	}
	return out
}

// SumRows returns x+y for every point.
func SumRows(pts []r2.Point) []float64 {
	sum := make([]float64, len(pts))
	for i, p := range pts {
		sum[i] = p.X + p.Y
	}
	return sum
}

// DiffRows returns x-y for every point.
func DiffRows(pts []r2.Point) []float64 {
	diff := make([]float64, len(pts))
	for i, p := range pts {
		diff[i] = p.X - p.Y
	}
	return diff
}

// MinIndex returns the index of the smallest value, the first one on ties, or -1 for an empty slice.
func MinIndex(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i, v := range values {
		if v < values[best] {
			best = i
		}
	}
	return best
}

// MaxIndex returns the index of the largest value, the first one on ties, or -1 for an empty slice.
func MaxIndex(values []float64) int {
	if len(values) == 0 {
		return -1
	}
	best := 0
	for i, v := range values {
		if v > values[best] {
			best = i
		}
	}
	return best
}

// OrderCorners puts four unordered corners into Quad role order.
// The top-left corner has the smallest x+y and the bottom-right the largest. The top-right slot
// takes the smallest x-y and the bottom-left slot the largest. Roles are not checked for
// distinctness; degenerate input is caught later by EstimateHomography.
func OrderCorners(pts []r2.Point) (Quad, error) {
	if len(pts) != 4 {
		return Quad{}, errors.Wrapf(ErrInvalidInput, "expected 4 corners, got %d", len(pts))
	}

	sum := SumRows(pts)
	diff := DiffRows(pts)

	var q Quad
	q[TopLeft] = pts[MinIndex(sum)]
	q[BottomRight] = pts[MaxIndex(sum)]
	q[TopRight] = pts[MinIndex(diff)]
	q[BottomLeft] = pts[MaxIndex(diff)]
	return q, nil
}

// Distance is the euclidean distance between two points.
func Distance(a, b r2.Point) float64 {
	return a.Sub(b).Norm()
}
