package viamsudoku

import (
	"context"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	generic "go.viam.com/rdk/services/generic"
	"go.viam.com/rdk/services/vision"
)

var BoardReaderModel = family.WithModel("board-reader")

func init() {
	resource.RegisterService(generic.API, BoardReaderModel,
		resource.Registration[resource.Resource, *BoardReaderConfig]{
			Constructor: newBoardReader,
		},
	)
}

type BoardReaderConfig struct {
	Camera     string `json:"camera"`
	Classifier string `json:"classifier"` // vision service whose labels are "0".."9"

	Rows      int     `json:"rows,omitempty"`
	Cols      int     `json:"cols,omitempty"`
	ResizeTo  int     `json:"resize_to,omitempty"`
	PatchSize int     `json:"patch_size,omitempty"`
	MinScore  float64 `json:"min_score,omitempty"`
	Workers   int     `json:"workers,omitempty"`
	MinArea   int     `json:"min_area,omitempty"`
}

func (cfg *BoardReaderConfig) Validate(path string) ([]string, []string, error) {
	var err error
	if cfg.Camera == "" {
		err = multierr.Append(err, errors.New("need a camera"))
	}
	if cfg.Classifier == "" {
		err = multierr.Append(err, errors.New("need a classifier"))
	}
	if cfg.MinArea < 0 {
		err = multierr.Append(err, errors.Errorf("min_area cannot be negative, got %d", cfg.MinArea))
	}
	err = multierr.Append(err, cfg.pipelineConfig().Validate())
	if err != nil {
		return nil, nil, err
	}

	return []string{cfg.Camera, cfg.Classifier}, nil, nil
}

func (cfg *BoardReaderConfig) pipelineConfig() Config {
	return Config{
		Rows:      cfg.Rows,
		Cols:      cfg.Cols,
		ResizeTo:  cfg.ResizeTo,
		PatchSize: cfg.PatchSize,
		MinScore:  cfg.MinScore,
		Workers:   cfg.Workers,
	}
}

func (cfg *BoardReaderConfig) detector() *MaskQuadDetector {
	d := NewMaskQuadDetector()
	if cfg.MinArea > 0 {
		d.MinArea = cfg.MinArea
	}
	return d
}

type boardReader struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *BoardReaderConfig
	logger logging.Logger

	cam      camera.Camera
	pipeline *Pipeline
}

func newBoardReader(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	conf, err := resource.NativeConfig[*BoardReaderConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewBoardReader(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewBoardReader(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *BoardReaderConfig, logger logging.Logger) (resource.Resource, error) {
	var err error

	br := &boardReader{
		name:   name,
		conf:   conf,
		logger: logger,
	}

	br.cam, err = camera.FromProvider(deps, conf.Camera)
	if err != nil {
		return nil, err
	}

	classifier, err := vision.FromProvider(deps, conf.Classifier)
	if err != nil {
		return nil, err
	}

	br.pipeline, err = NewPipeline(conf.pipelineConfig(), conf.detector(), NewVisionClassifier(classifier), logger)
	if err != nil {
		return nil, err
	}

	return br, nil
}

func (br *boardReader) Name() resource.Name {
	return br.name
}

// ----

type readCmd struct {
	Read bool
}

// DoCommand supports {"read": true}, which captures an image and returns the board as
// {"board": [][]int, "text": "<canonical text>"}.
func (br *boardReader) DoCommand(ctx context.Context, cmdMap map[string]interface{}) (map[string]interface{}, error) {
	var cmd readCmd
	err := mapstructure.Decode(cmdMap, &cmd)
	if err != nil {
		return nil, err
	}

	if !cmd.Read {
		return nil, fmt.Errorf("bad cmd %v", cmdMap)
	}

	img, _, err := captureImage(ctx, br.cam, nil)
	if err != nil {
		return nil, err
	}

	res, err := br.pipeline.Run(ctx, img)
	if err != nil {
		return nil, err
	}
	br.logger.Infof("read board:\n%s", res.Board)

	return map[string]interface{}{
		"board": res.Board.Values(),
		"text":  res.Board.String(),
	}, nil
}
