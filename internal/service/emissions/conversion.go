package emissions

import (
	"fmt"
	"math"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

// FoodCarbon returns quantityKg * factor.
func FoodCarbon(quantityKg, factor float64) (float64, error) {
	return MaterialCarbon(quantityKg, factor)
}

// MaterialCarbon returns quantityKg * factor for any per-kg factor.
func MaterialCarbon(quantityKg, factor float64) (float64, error) {
	if err := checkQuantity("quantity_kg", quantityKg); err != nil {
		return 0, err
	}
	if err := checkQuantity("emission_factor", factor); err != nil {
		return 0, err
	}
	return quantityKg * factor, nil
}

// ElectricityCarbon returns unitsKWh * ElectricityFactor.
func ElectricityCarbon(unitsKWh float64) (float64, error) {
	if err := checkQuantity("units_kwh", unitsKWh); err != nil {
		return 0, err
	}
	return unitsKWh * ElectricityFactor, nil
}

// TravelCarbon returns distanceKm times the factor of mode, falling back to
// DefaultTravelFactor for unrecognised modes.
func TravelCarbon(distanceKm float64, mode string) (float64, error) {
	if err := checkQuantity("distance_km", distanceKm); err != nil {
		return 0, err
	}
	factor, _ := TravelFactor(mode)
	return distanceKm * factor, nil
}

// WasteCarbon returns quantityKg * WasteFactor.
func WasteCarbon(quantityKg float64) (float64, error) {
	if err := checkQuantity("quantity_kg", quantityKg); err != nil {
		return 0, err
	}
	return quantityKg * WasteFactor, nil
}

func checkQuantity(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s is not a finite number", models.ErrInvalidQuantity, field)
	}
	if value < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %v", models.ErrInvalidQuantity, field, value)
	}
	return nil
}
