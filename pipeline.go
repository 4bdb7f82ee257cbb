package viamsudoku

import (
	"context"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"go.viam.com/rdk/logging"
	"go.viam.com/utils/trace"
)

// Config tunes a Pipeline. Zero values take the defaults.
type Config struct {
	Rows int `json:"rows,omitempty"`
	Cols int `json:"cols,omitempty"`

	// ResizeTo squashes the input to ResizeTo x ResizeTo before detection; 0 keeps the input size.
	ResizeTo int `json:"resize_to,omitempty"`

	PatchSize int `json:"patch_size,omitempty"`

	// MinScore is the lowest classifier score accepted; weaker predictions leave the cell empty.
	MinScore float64 `json:"min_score,omitempty"`

	// Workers > 1 evaluates cells concurrently.
	Workers int `json:"workers,omitempty"`
}

// DefaultConfig is a 9x9 board with 28x28 patches, evaluated sequentially.
func DefaultConfig() Config {
	return Config{
		Rows:      9,
		Cols:      9,
		PatchSize: DefaultPatchSize,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Rows == 0 {
		c.Rows = def.Rows
	}
	if c.Cols == 0 {
		c.Cols = def.Cols
	}
	if c.PatchSize == 0 {
		c.PatchSize = def.PatchSize
	}
	return c
}

// Validate reports every bad setting at once.
func (c Config) Validate() error {
	var err error
	if c.Rows < 0 {
		err = multierr.Append(err, errors.Errorf("rows cannot be negative, got %d", c.Rows))
	}
	if c.Cols < 0 {
		err = multierr.Append(err, errors.Errorf("cols cannot be negative, got %d", c.Cols))
	}
	if c.ResizeTo < 0 {
		err = multierr.Append(err, errors.Errorf("resize_to cannot be negative, got %d", c.ResizeTo))
	}
	if c.PatchSize < 0 {
		err = multierr.Append(err, errors.Errorf("patch_size cannot be negative, got %d", c.PatchSize))
	}
	if c.MinScore < 0 || c.MinScore > 1 {
		err = multierr.Append(err, errors.Errorf("min_score must be in [0,1], got %v", c.MinScore))
	}
	if c.Workers < 0 {
		err = multierr.Append(err, errors.Errorf("workers cannot be negative, got %d", c.Workers))
	}
	return err
}

// Stage is a step of a pipeline run. Runs only move forward; Failed and Done are terminal.
type Stage int

// Pipeline stages in execution order.
const (
	StageDetecting Stage = iota
	StageOrdering
	StageEstimating
	StageWarping
	StageSplitting
	StageIsolating
	StageClassifying
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageDetecting:
		return "detecting"
	case StageOrdering:
		return "ordering"
	case StageEstimating:
		return "estimating"
	case StageWarping:
		return "warping"
	case StageSplitting:
		return "splitting"
	case StageIsolating:
		return "isolating"
	case StageClassifying:
		return "classifying"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type runState struct {
	logger logging.Logger
	stage  Stage
}

func (s *runState) enter(next Stage) {
	s.logger.Debugf("board pipeline %v -> %v", s.stage, next)
	s.stage = next
}

// fail moves the run to StageFailed and tags err with the stage it failed in.
func (s *runState) fail(err error) error {
	at := s.stage
	s.enter(StageFailed)
	return errors.Wrap(err, at.String())
}

// Rectified is the board cut out of the input and mapped to an upright rectangle.
type Rectified struct {
	// Corners is the detected outline in the coordinates of the (resized) input.
	Corners    Quad
	Homography Homography

	Color image.Image
	Gray  *image.Gray
}

// Result is a finished pipeline run.
type Result struct {
	Rectified
	Cells []Cell
	Board *BoardMatrix
}

// Pipeline reads a board: detect the outline, rectify it, split it into cells, isolate and
// classify the glyph in each cell.
type Pipeline struct {
	conf       Config
	detector   QuadDetector
	classifier Classifier
	logger     logging.Logger
}

// NewPipeline builds a pipeline. classifier may be nil for a pipeline only used to Rectify.
func NewPipeline(conf Config, detector QuadDetector, classifier Classifier, logger logging.Logger) (*Pipeline, error) {
	conf = conf.withDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	if detector == nil {
		return nil, errors.New("need a quadrilateral detector")
	}
	if logger == nil {
		logger = logging.NewLogger("viam-sudoku")
	}
	return &Pipeline{
		conf:       conf,
		detector:   detector,
		classifier: classifier,
		logger:     logger,
	}, nil
}

// RunPipeline reads a board from img with the default configuration.
func RunPipeline(ctx context.Context, img image.Image, detector QuadDetector, classifier Classifier) (*BoardMatrix, error) {
	p, err := NewPipeline(DefaultConfig(), detector, classifier, nil)
	if err != nil {
		return nil, err
	}
	res, err := p.Run(ctx, img)
	if err != nil {
		return nil, err
	}
	return res.Board, nil
}

// Rectify runs the detecting, ordering, estimating and warping stages.
func (p *Pipeline) Rectify(ctx context.Context, img image.Image) (*Rectified, error) {
	st := &runState{logger: p.logger, stage: StageDetecting}
	return p.rectify(ctx, img, st)
}

func (p *Pipeline) rectify(ctx context.Context, img image.Image, st *runState) (*Rectified, error) {
	if p.conf.ResizeTo > 0 {
		img = imaging.Resize(img, p.conf.ResizeTo, p.conf.ResizeTo, imaging.Box)
	}

	candidates, err := p.detector.Detect(ctx, img)
	if err != nil {
		return nil, st.fail(fmt.Errorf("%w: %w", ErrPuzzleNotFound, err))
	}
	outline, err := SelectQuad(candidates)
	if err != nil {
		return nil, st.fail(err)
	}

	st.enter(StageOrdering)
	corners, err := OrderCorners(outline)
	if err != nil {
		return nil, st.fail(err)
	}

	st.enter(StageEstimating)
	h, width, height, err := EstimateHomography(corners)
	if err != nil {
		return nil, st.fail(err)
	}
	p.logger.Debugf("corners %v -> %dx%d", corners, width, height)

	st.enter(StageWarping)
	color, err := WarpPerspective(img, h, width, height)
	if err != nil {
		return nil, st.fail(err)
	}
	gray, err := WarpPerspective(toGray(img), h, width, height)
	if err != nil {
		return nil, st.fail(err)
	}

	// The corner order maps the outline onto the rectangle with x and y swapped.
	return &Rectified{
		Corners:    corners,
		Homography: h,
		Color:      Transpose(color),
		Gray:       TransposeGray(gray.(*image.Gray)),
	}, nil
}

// Run reads the board in img.
func (p *Pipeline) Run(ctx context.Context, img image.Image) (*Result, error) {
	ctx, span := trace.StartSpan(ctx, "viamsudoku::Pipeline::Run")
	defer span.End()

	st := &runState{logger: p.logger, stage: StageDetecting}
	if p.classifier == nil {
		return nil, st.fail(errors.Wrap(ErrInvalidInput, "pipeline has no classifier"))
	}

	rect, err := p.rectify(ctx, img, st)
	if err != nil {
		return nil, err
	}

	st.enter(StageSplitting)
	cells, err := SplitGrid(rect.Gray, p.conf.Rows, p.conf.Cols)
	if err != nil {
		return nil, st.fail(err)
	}

	board := NewBoardMatrix(p.conf.Rows, p.conf.Cols)
	if p.conf.Workers <= 1 {
		for i := range cells {
			p.readCell(ctx, rect.Gray, &cells[i], board)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(p.conf.Workers)
		for i := range cells {
			g.Go(func() error {
				p.readCell(ctx, rect.Gray, &cells[i], board)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, st.fail(err)
		}
	}

	st.enter(StageDone)
	return &Result{Rectified: *rect, Cells: cells, Board: board}, nil
}

// readCell isolates and classifies one cell. Every per-cell problem leaves the cell at 0.
// Each call writes only its own cell and board slot.
func (p *Pipeline) readCell(ctx context.Context, gray *image.Gray, cell *Cell, board *BoardMatrix) {
	p.logger.Debugf("%v(%d,%d)", StageIsolating, cell.Row, cell.Col)
	glyph, ok := ExtractDigit(CropGray(gray, cell.Rect))
	if !ok {
		return
	}
	cell.Glyph = glyph

	p.logger.Debugf("%v(%d,%d)", StageClassifying, cell.Row, cell.Col)
	pred, err := p.classifier.Classify(ctx, NewPatch(glyph, p.conf.PatchSize))
	if err != nil {
		p.logger.Warnf("cell %d,%d: classifier failed, leaving it empty: %v", cell.Row, cell.Col, err)
		return
	}
	if pred.Digit < 0 || pred.Digit > 9 {
		p.logger.Warnf("cell %d,%d: classifier returned %d, leaving it empty", cell.Row, cell.Col, pred.Digit)
		return
	}
	if pred.Score < p.conf.MinScore {
		p.logger.Debugf("cell %d,%d: score %.2f below %.2f", cell.Row, cell.Col, pred.Score, p.conf.MinScore)
		return
	}
	board.set(cell.Row, cell.Col, pred.Digit)
}
