package emissions

import (
	"context"
	"strings"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

const (
	// ElectricityFactor is kg CO₂ per kWh.
	ElectricityFactor = 0.82

	// WasteFactor is kg CO₂ per kg of waste.
	WasteFactor = 1.2

	// DefaultTravelFactor applies to any mode outside TravelFactors.
	DefaultTravelFactor = 0.10
)

// TravelFactors holds kg CO₂ per km for each recognised travel mode.
var TravelFactors = map[string]float64{
	"car":    0.21,
	"bus":    0.05,
	"train":  0.03,
	"flight": 0.15,
}

// FoodFactorLookup resolves a food name to its emission factor. Implementations
// return models.ErrUnknownFoodItem when no entry exists.
type FoodFactorLookup interface {
	LookupFood(ctx context.Context, name string) (models.EmissionFactor, error)
}

// TravelFactor returns the factor for mode and whether the mode is recognised.
// Unrecognised modes get DefaultTravelFactor.
func TravelFactor(mode string) (float64, bool) {
	factor, ok := TravelFactors[normalizeMode(mode)]
	if !ok {
		return DefaultTravelFactor, false
	}
	return factor, true
}

func normalizeMode(mode string) string {
	return strings.ToLower(strings.TrimSpace(mode))
}
