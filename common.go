package viamsudoku

import (
	"context"
	"image"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"

	"go.viam.com/rdk/components/camera"
	"go.viam.com/rdk/resource"
	"go.viam.com/utils/trace"
)

var family = resource.ModelNamespace("erh").WithFamily("viam-sudoku")

func init() {
	exporter, err := otlptracegrpc.New(context.Background())
	if err == nil {
		trace.AddExporters(exporter)
	}
}

// captureImage grabs the first image from cam.
func captureImage(ctx context.Context, cam camera.Camera, extra map[string]interface{}) (image.Image, string, error) {
	ni, _, err := cam.Images(ctx, nil, extra)
	if err != nil {
		return nil, "", err
	}
	if len(ni) == 0 {
		return nil, "", errors.New("no images returned from input camera")
	}

	img, err := ni[0].Image(ctx)
	if err != nil {
		return nil, "", err
	}
	return img, ni[0].SourceName, nil
}
