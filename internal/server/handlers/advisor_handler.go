package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

const maxImageBytes = 10 << 20

// Advisor answers free-text questions about a user's footprint.
type Advisor interface {
	Enabled() bool
	Advise(ctx context.Context, userID, question string) (string, error)
}

// WasteScanner estimates carbon from a waste photo.
type WasteScanner interface {
	Scan(ctx context.Context, image []byte) (models.WasteScanResult, error)
}

// DigestHistory reads back stored weekly digests.
type DigestHistory interface {
	History(ctx context.Context, userID string) ([]models.DigestRow, error)
}

// InsightsHandler serves the advisor chat, waste scans and digest history.
type InsightsHandler struct {
	advisor Advisor
	scanner WasteScanner
	digests DigestHistory
	logger  *zap.Logger
}

// NewInsightsHandler constructs the HTTP handler adapter.
func NewInsightsHandler(advisor Advisor, scanner WasteScanner, digests DigestHistory, logger *zap.Logger) *InsightsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InsightsHandler{advisor: advisor, scanner: scanner, digests: digests, logger: logger}
}

// Chat proxies the question and the user's totals to the advisor. Advisor
// failures answer with a generic reply.
func (h *InsightsHandler) Chat(c *gin.Context) {
	if h.advisor == nil || !h.advisor.Enabled() {
		c.JSON(http.StatusServiceUnavailable, models.AdviceResponse{Reply: "Advisor is not available."})
		return
	}

	var req models.AdviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.AdviceResponse{Reply: "Invalid request"})
		return
	}

	reply, err := h.advisor.Advise(c.Request.Context(), c.Param("userID"), req.Message)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusBadRequest {
			c.JSON(status, models.AdviceResponse{Reply: "Invalid request"})
			return
		}
		h.logger.Error("advisor chat failed", zap.String("user_id", c.Param("userID")), zap.Error(err))
		c.JSON(status, models.AdviceResponse{Reply: genericAdvisorReply})
		return
	}

	c.JSON(http.StatusOK, models.AdviceResponse{Reply: reply})
}

// ScanWaste classifies the uploaded "image" form file.
func (h *InsightsHandler) ScanWaste(c *gin.Context) {
	header, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image uploaded"})
		return
	}
	if header.Size > maxImageBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}

	file, err := header.Open()
	if err != nil {
		respondError(c, h.logger, "failed to open uploaded image", err)
		return
	}
	defer file.Close()

	image, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		respondError(c, h.logger, "failed to read uploaded image", err)
		return
	}

	result, err := h.scanner.Scan(c.Request.Context(), image)
	if err != nil {
		respondError(c, h.logger, "failed to scan waste image", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Digests lists the stored weekly digests of the user.
func (h *InsightsHandler) Digests(c *gin.Context) {
	rows, err := h.digests.History(c.Request.Context(), c.Param("userID"))
	if err != nil {
		respondError(c, h.logger, "failed to read digests", errors.Join(models.ErrPersistence, err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"digests": rows})
}
