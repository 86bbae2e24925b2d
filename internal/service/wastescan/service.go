package wastescan

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/service/emissions"
)

const estimateNote = "Values are AI-estimated"

// ErrEmptyImage indicates no image bytes were uploaded.
var ErrEmptyImage = errors.New("no image uploaded")

// Classifier infers material and weight from a photo of waste.
type Classifier interface {
	Classify(ctx context.Context, image []byte) (models.WasteClassification, error)
}

// StaticClassifier always returns the same classification. It stands in until
// a vision model is wired.
type StaticClassifier struct {
	Result models.WasteClassification
}

// NewStaticClassifier returns the placeholder classifier.
func NewStaticClassifier() StaticClassifier {
	return StaticClassifier{Result: models.WasteClassification{
		Material:       "Plastic",
		WeightKg:       1.2,
		EmissionFactor: 6.0,
	}}
}

// Classify implements Classifier.
func (c StaticClassifier) Classify(_ context.Context, _ []byte) (models.WasteClassification, error) {
	return c.Result, nil
}

// Service turns a classification into a carbon estimate.
type Service struct {
	classifier Classifier
	logger     *zap.Logger
}

// NewService wires a scan service around classifier.
func NewService(classifier Classifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{classifier: classifier, logger: logger}
}

// Scan classifies image and estimates its carbon as weight times factor.
func (s *Service) Scan(ctx context.Context, image []byte) (models.WasteScanResult, error) {
	if len(image) == 0 {
		return models.WasteScanResult{}, ErrEmptyImage
	}

	class, err := s.classifier.Classify(ctx, image)
	if err != nil {
		return models.WasteScanResult{}, fmt.Errorf("classify waste image: %w", err)
	}

	carbon, err := emissions.MaterialCarbon(class.WeightKg, class.EmissionFactor)
	if err != nil {
		return models.WasteScanResult{}, fmt.Errorf("classifier returned %s: %w", class.Material, err)
	}

	s.logger.Debug("waste image classified",
		zap.String("material", class.Material),
		zap.Int("image_bytes", len(image)),
		zap.Float64("carbon_kg", carbon))

	return models.WasteScanResult{
		WasteClassification: class,
		CarbonKg:            carbon,
		Note:                estimateNote,
	}, nil
}
