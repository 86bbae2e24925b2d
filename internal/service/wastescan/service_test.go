package wastescan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

type classifierFunc func(ctx context.Context, image []byte) (models.WasteClassification, error)

func (f classifierFunc) Classify(ctx context.Context, image []byte) (models.WasteClassification, error) {
	return f(ctx, image)
}

func TestService_ScanWithStaticClassifier(t *testing.T) {
	svc := NewService(NewStaticClassifier(), nil)

	result, err := svc.Scan(context.Background(), []byte{0x89, 0x50, 0x4e, 0x47})
	require.NoError(t, err)
	assert.Equal(t, "Plastic", result.Material)
	assert.Equal(t, 1.2, result.WeightKg)
	assert.Equal(t, 6.0, result.EmissionFactor)
	assert.InDelta(t, 7.2, result.CarbonKg, 1e-9)
	assert.Equal(t, estimateNote, result.Note)
}

func TestService_ScanUsesInjectedClassifier(t *testing.T) {
	var seen int
	svc := NewService(classifierFunc(func(_ context.Context, image []byte) (models.WasteClassification, error) {
		seen = len(image)
		return models.WasteClassification{Material: "Glass", WeightKg: 2, EmissionFactor: 0.9}, nil
	}), nil)

	result, err := svc.Scan(context.Background(), []byte("jpeg"))
	require.NoError(t, err)
	assert.Equal(t, 4, seen)
	assert.Equal(t, "Glass", result.Material)
	assert.InDelta(t, 1.8, result.CarbonKg, 1e-9)
}

func TestService_ScanFailures(t *testing.T) {
	svc := NewService(NewStaticClassifier(), nil)
	_, err := svc.Scan(context.Background(), nil)
	assert.ErrorIs(t, err, ErrEmptyImage)

	boom := errors.New("vision model down")
	svc = NewService(classifierFunc(func(context.Context, []byte) (models.WasteClassification, error) {
		return models.WasteClassification{}, boom
	}), nil)
	_, err = svc.Scan(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, boom)

	svc = NewService(classifierFunc(func(context.Context, []byte) (models.WasteClassification, error) {
		return models.WasteClassification{Material: "Paper", WeightKg: -1, EmissionFactor: 1}, nil
	}), nil)
	_, err = svc.Scan(context.Background(), []byte("x"))
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)
}
