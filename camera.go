package viamsudoku

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/data"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/pointcloud"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/spatialmath"
)

var BoardCameraModel = family.WithModel("board-camera")

func init() {
	resource.RegisterComponent(camera.API, BoardCameraModel,
		resource.Registration[camera.Camera, *BoardCameraConfig]{
			Constructor: newBoardCamera,
		},
	)
}

// BoardCameraConfig configures a camera that serves the rectified board with its grid drawn.
type BoardCameraConfig struct {
	Input    string `json:"input"`
	Rows     int    `json:"rows,omitempty"`
	Cols     int    `json:"cols,omitempty"`
	ResizeTo int    `json:"resize_to,omitempty"`
}

func (cfg *BoardCameraConfig) Validate(path string) ([]string, []string, error) {
	if cfg.Input == "" {
		return nil, nil, errors.New("need an input")
	}
	pc := Config{Rows: cfg.Rows, Cols: cfg.Cols, ResizeTo: cfg.ResizeTo}
	if err := pc.Validate(); err != nil {
		return nil, nil, err
	}
	return []string{cfg.Input}, nil, nil
}

func newBoardCamera(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (camera.Camera, error) {
	conf, err := resource.NativeConfig[*BoardCameraConfig](rawConf)
	if err != nil {
		return nil, err
	}

	return NewBoardCamera(ctx, deps, rawConf.ResourceName(), conf, logger)
}

func NewBoardCamera(ctx context.Context, deps resource.Dependencies, name resource.Name, conf *BoardCameraConfig, logger logging.Logger) (camera.Camera, error) {
	var err error

	bc := &BoardCamera{
		name:   name,
		conf:   conf,
		logger: logger,
	}

	bc.input, err = camera.FromProvider(deps, conf.Input)
	if err != nil {
		return nil, err
	}

	pc := Config{Rows: conf.Rows, Cols: conf.Cols, ResizeTo: conf.ResizeTo}
	bc.pipeline, err = NewPipeline(pc, NewMaskQuadDetector(), nil, logger)
	if err != nil {
		return nil, err
	}

	return bc, nil
}

type BoardCamera struct {
	resource.AlwaysRebuild
	resource.TriviallyCloseable

	name   resource.Name
	conf   *BoardCameraConfig
	logger logging.Logger

	input    camera.Camera
	pipeline *Pipeline
}

func (bc *BoardCamera) Image(ctx context.Context, mimeType string, extra map[string]interface{}) ([]byte, camera.ImageMetadata, error) {
	return camera.GetImageFromGetImages(ctx, nil, bc, extra, nil)
}

func (bc *BoardCamera) Images(ctx context.Context, filterSourceNames []string, extra map[string]interface{}) ([]camera.NamedImage, resource.ResponseMetadata, error) {
	srcImg, sourceName, err := captureImage(ctx, bc.input, extra)
	if err != nil {
		return nil, resource.ResponseMetadata{}, err
	}

	rect, err := bc.pipeline.Rectify(ctx, srcImg)
	if err != nil {
		return nil, resource.ResponseMetadata{}, err
	}

	dst := BoardDebugImage(rect.Color, nil, bc.pipeline.conf.Rows, bc.pipeline.conf.Cols)

	result, err := camera.NamedImageFromImage(dst, sourceName, "", data.Annotations{})
	if err != nil {
		return nil, resource.ResponseMetadata{}, err
	}
	return []camera.NamedImage{result}, resource.ResponseMetadata{}, nil
}

func (bc *BoardCamera) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	return nil, fmt.Errorf("DoCommand not supported")
}

func (bc *BoardCamera) NextPointCloud(ctx context.Context, extra map[string]interface{}) (pointcloud.PointCloud, error) {
	return nil, fmt.Errorf("NextPointCloud not supported")
}

func (bc *BoardCamera) Properties(ctx context.Context) (camera.Properties, error) {
	return camera.Properties{}, nil
}

func (bc *BoardCamera) Geometries(ctx context.Context, extra map[string]interface{}) ([]spatialmath.Geometry, error) {
	return nil, nil
}

func (bc *BoardCamera) Name() resource.Name {
	return bc.name
}
