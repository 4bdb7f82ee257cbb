package viamsudoku

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// collinearTolerance bounds |sin| of the angle between two edges before three corners are treated
// as collinear.
const collinearTolerance = 1e-9

// Homography is a row-major 3x3 projective transform. Estimated transforms have h[8] == 1.
type Homography [9]float64

// Apply maps (x, y) through h, including the perspective divide.
// ok is false when the point maps to infinity.
func (h Homography) Apply(x, y float64) (float64, float64, bool) {
	w := h[6]*x + h[7]*y + h[8]
	if math.Abs(w) < 1e-12 {
		return 0, 0, false
	}
	return (h[0]*x + h[1]*y + h[2]) / w, (h[3]*x + h[4]*y + h[5]) / w, true
}

// Inverse returns the transform mapping destination coordinates back to the source.
func (h Homography) Inverse() (Homography, error) {
	var inv mat.Dense
	if err := inv.Inverse(mat.NewDense(3, 3, h[:])); err != nil {
		return Homography{}, errors.Wrapf(ErrSingularSystem, "cannot invert homography: %v", err)
	}

	var out Homography
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = inv.At(r, c)
		}
	}
	if s := out[8]; math.Abs(s) > 1e-12 {
		for i := range out {
			out[i] /= s
		}
	}
	return out, nil
}

// EstimateHomography computes the transform taking q onto an upright rectangle and returns it with
// the rectangle size. The width is the longer of the two horizontal edges and the height the
// longer of the two vertical edges, truncated to whole pixels.
func EstimateHomography(q Quad) (Homography, int, int, error) {
	if err := checkDegenerate(q); err != nil {
		return Homography{}, 0, 0, err
	}

	width := int(math.Max(Distance(q[BottomRight], q[BottomLeft]), Distance(q[TopRight], q[TopLeft])))
	height := int(math.Max(Distance(q[TopRight], q[BottomRight]), Distance(q[TopLeft], q[BottomLeft])))

	w, h := float64(width-1), float64(height-1)
	dst := Quad{
		{X: 0, Y: 0},
		{X: w, Y: 0},
		{X: w, Y: h},
		{X: 0, Y: h},
	}

	m, err := PerspectiveMatrix(q, dst)
	if err != nil {
		return Homography{}, 0, 0, err
	}
	return m, width, height, nil
}

// PerspectiveMatrix solves the 3x3 transform mapping each src corner to the matching dst corner.
//
// For each pair:
//
//	x' = (h0*x + h1*y + h2) / (h6*x + h7*y + 1)
//	y' = (h3*x + h4*y + h5) / (h6*x + h7*y + 1)
//
// which gives two linear equations per corner and an 8x8 system in h0..h7.
func PerspectiveMatrix(src, dst Quad) (Homography, error) {
	if err := checkDegenerate(src); err != nil {
		return Homography{}, err
	}
	if err := checkDegenerate(dst); err != nil {
		return Homography{}, errors.Wrap(err, "destination")
	}

	a := mat.NewDense(8, 8, nil)
	b := mat.NewVecDense(8, nil)

	for i := 0; i < 4; i++ {
		sx, sy := src[i].X, src[i].Y
		dx, dy := dst[i].X, dst[i].Y

		a.SetRow(i*2, []float64{sx, sy, 1, 0, 0, 0, -dx * sx, -dx * sy})
		b.SetVec(i*2, dx)

		a.SetRow(i*2+1, []float64{0, 0, 0, sx, sy, 1, -dy * sx, -dy * sy})
		b.SetVec(i*2+1, dy)
	}

	var x mat.VecDense
	if err := x.SolveVec(a, b); err != nil {
		return Homography{}, errors.Wrapf(ErrSingularSystem, "%v", err)
	}

	var h Homography
	for i := 0; i < 8; i++ {
		h[i] = x.AtVec(i)
	}
	h[8] = 1
	return h, nil
}

// checkDegenerate rejects corner sets for which no invertible projective transform exists.
func checkDegenerate(q Quad) error {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if q[i] == q[j] {
				return errors.Wrapf(ErrSingularSystem, "corners %d and %d coincide at %v", i, j, q[i])
			}
		}
	}

	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			for k := j + 1; k < 4; k++ {
				if collinear(q[i], q[j], q[k]) {
					return errors.Wrapf(ErrSingularSystem, "corners %d, %d and %d are collinear", i, j, k)
				}
			}
		}
	}
	return nil
}

func collinear(a, b, c r2.Point) bool {
	ab := b.Sub(a)
	ac := c.Sub(a)
	return math.Abs(ab.Cross(ac)) <= collinearTolerance*ab.Norm()*ac.Norm()
}
