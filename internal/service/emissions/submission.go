package emissions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

// Submission is one activity entered by a user. The concrete types below are
// the only implementations.
type Submission interface {
	Category() models.Category
	isSubmission()
}

// FoodSubmission logs an amount of a food item from the factor table.
type FoodSubmission struct {
	FoodName   string
	QuantityKg float64
}

// ElectricitySubmission logs consumed electricity.
type ElectricitySubmission struct {
	UnitsKWh float64
}

// TravelSubmission logs a trip.
type TravelSubmission struct {
	Mode       string
	DistanceKm float64
}

// WasteSubmission logs produced waste.
type WasteSubmission struct {
	QuantityKg float64
}

func (FoodSubmission) Category() models.Category        { return models.CategoryFood }
func (ElectricitySubmission) Category() models.Category { return models.CategoryElectricity }
func (TravelSubmission) Category() models.Category      { return models.CategoryTravel }
func (WasteSubmission) Category() models.Category       { return models.CategoryWaste }

func (FoodSubmission) isSubmission()        {}
func (ElectricitySubmission) isSubmission() {}
func (TravelSubmission) isSubmission()      {}
func (WasteSubmission) isSubmission()       {}

// Evaluator validates submissions and materializes the record to persist.
type Evaluator struct {
	foods             FoodFactorLookup
	strictTravelModes bool
	location          *time.Location
	now               func() time.Time
}

// EvaluatorOption customizes an Evaluator.
type EvaluatorOption func(*Evaluator)

// WithStrictTravelModes rejects unrecognised travel modes instead of applying
// DefaultTravelFactor.
func WithStrictTravelModes(strict bool) EvaluatorOption {
	return func(e *Evaluator) { e.strictTravelModes = strict }
}

// WithLocation sets the timezone used to derive a record's calendar day.
func WithLocation(loc *time.Location) EvaluatorOption {
	return func(e *Evaluator) {
		if loc != nil {
			e.location = loc
		}
	}
}

// WithClock overrides the record creation clock.
func WithClock(now func() time.Time) EvaluatorOption {
	return func(e *Evaluator) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEvaluator builds an Evaluator resolving food factors through foods.
func NewEvaluator(foods FoodFactorLookup, opts ...EvaluatorOption) *Evaluator {
	e := &Evaluator{
		foods:    foods,
		location: time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate computes the carbon of sub and returns the record to be appended
// for userID. Nothing is written; the result can be discarded freely.
func (e *Evaluator) Evaluate(ctx context.Context, userID string, sub Submission) (models.ActivityRecord, error) {
	if strings.TrimSpace(userID) == "" {
		return models.ActivityRecord{}, errors.New("user id must not be empty")
	}
	if sub == nil {
		return models.ActivityRecord{}, errors.New("submission must not be nil")
	}

	createdAt := e.now().UTC()
	record := models.ActivityRecord{
		UserID:    userID,
		Category:  sub.Category(),
		Date:      models.DateOf(createdAt, e.location),
		CreatedAt: createdAt,
	}

	var err error
	switch s := sub.(type) {
	case FoodSubmission:
		err = e.evaluateFood(ctx, s, &record)
	case ElectricitySubmission:
		if err = requirePositive("units_kwh", s.UnitsKWh); err == nil {
			record.UnitsKWh = s.UnitsKWh
			record.CarbonKg, err = ElectricityCarbon(s.UnitsKWh)
		}
	case TravelSubmission:
		err = e.evaluateTravel(s, &record)
	case WasteSubmission:
		if err = requirePositive("quantity_kg", s.QuantityKg); err == nil {
			record.QuantityKg = s.QuantityKg
			record.CarbonKg, err = WasteCarbon(s.QuantityKg)
		}
	default:
		err = fmt.Errorf("unsupported submission %T", sub)
	}
	if err != nil {
		return models.ActivityRecord{}, err
	}

	return record, nil
}

func (e *Evaluator) evaluateFood(ctx context.Context, s FoodSubmission, record *models.ActivityRecord) error {
	name := models.NormalizeFoodName(s.FoodName)
	if name == "" {
		return fmt.Errorf("%w: food name is empty", models.ErrUnknownFoodItem)
	}
	if err := requirePositive("quantity_kg", s.QuantityKg); err != nil {
		return err
	}
	if e.foods == nil {
		return fmt.Errorf("%w: %s", models.ErrUnknownFoodItem, name)
	}

	factor, err := e.foods.LookupFood(ctx, name)
	if err != nil {
		return err
	}

	carbon, err := FoodCarbon(s.QuantityKg, factor.KgCO2PerKg)
	if err != nil {
		return err
	}

	record.FoodName = factor.FoodName
	record.EmissionFactor = factor.KgCO2PerKg
	record.QuantityKg = s.QuantityKg
	record.CarbonKg = carbon
	return nil
}

func (e *Evaluator) evaluateTravel(s TravelSubmission, record *models.ActivityRecord) error {
	if err := requirePositive("distance_km", s.DistanceKm); err != nil {
		return err
	}

	mode := normalizeMode(s.Mode)
	if _, known := TravelFactor(mode); !known && e.strictTravelModes {
		return fmt.Errorf("%w: %q", models.ErrUnknownTravelMode, s.Mode)
	}

	carbon, err := TravelCarbon(s.DistanceKm, mode)
	if err != nil {
		return err
	}

	record.Mode = mode
	record.DistanceKm = s.DistanceKm
	record.CarbonKg = carbon
	return nil
}

func requirePositive(field string, value float64) error {
	if err := checkQuantity(field, value); err != nil {
		return err
	}
	if value == 0 {
		return fmt.Errorf("%w: %s must be greater than zero", models.ErrInvalidQuantity, field)
	}
	return nil
}
