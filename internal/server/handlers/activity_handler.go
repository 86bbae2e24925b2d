package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/service/emissions"
)

// TrackingService is the activity and summary boundary used by the HTTP layer.
type TrackingService interface {
	Submit(ctx context.Context, userID string, sub emissions.Submission) (models.ActivityRecord, error)
	Activities(ctx context.Context, userID string, category models.Category) ([]models.ActivityRecord, error)
	Summary(ctx context.Context, userID string) (models.AggregateSummary, error)
	DeleteUser(ctx context.Context, userID string) (int64, error)
	Foods(ctx context.Context) ([]models.EmissionFactor, error)
	SetFoodFactor(ctx context.Context, name string, kgCO2PerKg float64) (models.EmissionFactor, error)
}

// ActivityHandler exposes activity submission, listing and summaries.
type ActivityHandler struct {
	svc    TrackingService
	logger *zap.Logger
}

// NewActivityHandler constructs the HTTP handler adapter.
func NewActivityHandler(svc TrackingService, logger *zap.Logger) *ActivityHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityHandler{svc: svc, logger: logger}
}

// Submit records one activity of the category named in the path.
func (h *ActivityHandler) Submit(c *gin.Context) {
	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	sub, err := bindSubmission(c, category)
	if err != nil {
		h.logger.Warn("invalid activity payload", zap.String("category", string(category)), zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	record, err := h.svc.Submit(c.Request.Context(), c.Param("userID"), sub)
	if err != nil {
		respondError(c, h.logger, "failed to record activity", err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// List returns the user's records of one category.
func (h *ActivityHandler) List(c *gin.Context) {
	category, ok := models.ParseCategory(c.Param("category"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown category"})
		return
	}

	records, err := h.svc.Activities(c.Request.Context(), c.Param("userID"), category)
	if err != nil {
		respondError(c, h.logger, "failed to list activities", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"category": category, "records": records})
}

// Summary returns the user's aggregate summary.
func (h *ActivityHandler) Summary(c *gin.Context) {
	summary, err := h.svc.Summary(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, h.logger, "failed to build summary", err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// DeleteUser removes every record the user owns.
func (h *ActivityHandler) DeleteUser(c *gin.Context) {
	deleted, err := h.svc.DeleteUser(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, h.logger, "failed to delete user activities", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}

// ListFoods returns the emission factor table.
func (h *ActivityHandler) ListFoods(c *gin.Context) {
	foods, err := h.svc.Foods(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to list food factors", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"foods": foods})
}

// UpsertFood creates or replaces one food factor.
func (h *ActivityHandler) UpsertFood(c *gin.Context) {
	var req models.EmissionFactorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid emission factor payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	factor, err := h.svc.SetFoodFactor(c.Request.Context(), c.Param("name"), req.KgCO2PerKg)
	if err != nil {
		respondError(c, h.logger, "failed to store food factor", err)
		return
	}

	c.JSON(http.StatusOK, factor)
}

// bindSubmission decodes the body into the submission variant of category.
func bindSubmission(c *gin.Context, category models.Category) (emissions.Submission, error) {
	switch category {
	case models.CategoryFood:
		var req models.FoodActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return emissions.FoodSubmission{FoodName: req.FoodName, QuantityKg: req.QuantityKg}, nil
	case models.CategoryElectricity:
		var req models.ElectricityActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return emissions.ElectricitySubmission{UnitsKWh: req.UnitsKWh}, nil
	case models.CategoryTravel:
		var req models.TravelActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return emissions.TravelSubmission{Mode: req.Mode, DistanceKm: req.DistanceKm}, nil
	case models.CategoryWaste:
		var req models.WasteActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			return nil, err
		}
		return emissions.WasteSubmission{QuantityKg: req.QuantityKg}, nil
	default:
		return nil, fmt.Errorf("unsupported category %q", category)
	}
}
