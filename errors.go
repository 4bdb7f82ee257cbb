package viamsudoku

import "github.com/pkg/errors"

var (
	// ErrInvalidInput is returned when a stage is handed malformed input, e.g. a corner set that
	// does not have exactly four points.
	ErrInvalidInput = errors.New("invalid input")

	// ErrSingularSystem is returned when the perspective system cannot be solved: coincident
	// corners, three collinear corners, or an ill-conditioned matrix.
	ErrSingularSystem = errors.New("singular system")

	// ErrPuzzleNotFound is returned when the detector produced no four-vertex candidate.
	ErrPuzzleNotFound = errors.New("could not find puzzle")
)
