package viamsudoku

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"go.viam.com/rdk/services/vision"
)

// VisionClassifier classifies patches with a Viam vision service whose labels are the digits
// "0".."9". Any backend the vision service wraps (tflite, onnx, a remote model) works the same.
type VisionClassifier struct {
	svc vision.Service
}

// NewVisionClassifier wraps svc.
func NewVisionClassifier(svc vision.Service) *VisionClassifier {
	return &VisionClassifier{svc: svc}
}

// Classify returns the highest scoring classification. An empty answer is digit 0 with score 0.
func (vc *VisionClassifier) Classify(ctx context.Context, patch *Patch) (Prediction, error) {
	classifications, err := vc.svc.Classifications(ctx, patch.Image(), 1, nil)
	if err != nil {
		return Prediction{}, err
	}
	if len(classifications) == 0 {
		return Prediction{}, nil
	}

	top := classifications[0]
	for _, c := range classifications[1:] {
		if c.Score() > top.Score() {
			top = c
		}
	}

	digit, err := strconv.Atoi(strings.TrimSpace(top.Label()))
	if err != nil {
		return Prediction{}, errors.Wrapf(err, "label %q is not a digit", top.Label())
	}
	return Prediction{Digit: digit, Score: top.Score()}, nil
}
