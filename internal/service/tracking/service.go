package tracking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/repository/mongodb"
	"github.com/mamadbah2/zerocarbon/internal/service/aggregation"
	"github.com/mamadbah2/zerocarbon/internal/service/emissions"
)

// ErrEmptyUser indicates the caller did not identify a user.
var ErrEmptyUser = errors.New("user id must not be empty")

// Ledger is the append-only activity storage the service writes to.
type Ledger interface {
	Append(ctx context.Context, record models.ActivityRecord) (string, error)
	ListByUser(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error)
	DeleteUserActivities(ctx context.Context, userID string) (int64, error)
	Snapshot(ctx context.Context, fn func(reader mongodb.LedgerReader) error) error
}

// FoodCatalog exposes the food emission factor table.
type FoodCatalog interface {
	emissions.FoodFactorLookup
	ListFoods(ctx context.Context) ([]models.EmissionFactor, error)
	UpsertFood(ctx context.Context, factor models.EmissionFactor) error
}

// Service records activities and builds per-user summaries.
type Service struct {
	ledger    Ledger
	foods     FoodCatalog
	evaluator *emissions.Evaluator
	logger    *zap.Logger
}

// NewService wires a tracking service. The evaluator should resolve food
// factors through the same catalog.
func NewService(ledger Ledger, foods FoodCatalog, evaluator *emissions.Evaluator, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if evaluator == nil {
		evaluator = emissions.NewEvaluator(foods)
	}
	return &Service{
		ledger:    ledger,
		foods:     foods,
		evaluator: evaluator,
		logger:    logger,
	}
}

// Submit validates sub, computes its carbon and appends the record. On any
// failure nothing is persisted.
func (s *Service) Submit(ctx context.Context, userID string, sub emissions.Submission) (models.ActivityRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.ActivityRecord{}, ErrEmptyUser
	}

	record, err := s.evaluator.Evaluate(ctx, userID, sub)
	if err != nil {
		return models.ActivityRecord{}, err
	}

	id, err := s.ledger.Append(ctx, record)
	if err != nil {
		return models.ActivityRecord{}, fmt.Errorf("append %s activity: %w", record.Category, err)
	}
	record.ID = id

	s.logger.Debug("activity recorded",
		zap.String("user_id", record.UserID),
		zap.String("category", string(record.Category)),
		zap.Float64("carbon_kg", record.CarbonKg))
	return record, nil
}

// Activities lists one category of a user's ledger.
func (s *Service) Activities(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrEmptyUser
	}
	return s.ledger.ListByUser(ctx, userID, category)
}

// Summary reads every category of the user's ledger inside one snapshot and
// aggregates it. Users without records get a zero summary.
func (s *Service) Summary(ctx context.Context, userID string) (models.AggregateSummary, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.AggregateSummary{}, ErrEmptyUser
	}

	set := make(aggregation.RecordSet, len(models.Categories))
	err := s.ledger.Snapshot(ctx, func(reader mongodb.LedgerReader) error {
		for _, c := range models.Categories {
			records, err := reader.ListByUser(ctx, userID, c)
			if err != nil {
				return fmt.Errorf("load %s records: %w", c, err)
			}
			set[c] = records
		}
		return nil
	})
	if err != nil {
		return models.AggregateSummary{}, err
	}

	return aggregation.Summarize(userID, set), nil
}

// DeleteUser removes every record owned by the user.
func (s *Service) DeleteUser(ctx context.Context, userID string) (int64, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return 0, ErrEmptyUser
	}

	deleted, err := s.ledger.DeleteUserActivities(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.logger.Info("user activities deleted", zap.String("user_id", userID), zap.Int64("deleted", deleted))
	return deleted, nil
}

// Foods lists the emission factor table.
func (s *Service) Foods(ctx context.Context) ([]models.EmissionFactor, error) {
	return s.foods.ListFoods(ctx)
}

// SetFoodFactor creates or replaces a food factor. Factors must be positive.
func (s *Service) SetFoodFactor(ctx context.Context, name string, kgCO2PerKg float64) (models.EmissionFactor, error) {
	factor := models.EmissionFactor{FoodName: models.NormalizeFoodName(name), KgCO2PerKg: kgCO2PerKg}
	if factor.FoodName == "" {
		return models.EmissionFactor{}, errors.New("food name must not be empty")
	}
	if kgCO2PerKg <= 0 || math.IsNaN(kgCO2PerKg) || math.IsInf(kgCO2PerKg, 0) {
		return models.EmissionFactor{}, fmt.Errorf("%w: emission factor must be greater than zero", models.ErrInvalidQuantity)
	}
	if err := s.foods.UpsertFood(ctx, factor); err != nil {
		return models.EmissionFactor{}, err
	}
	return factor, nil
}
