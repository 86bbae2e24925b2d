package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/service/advisor"
	"github.com/mamadbah2/zerocarbon/internal/service/tracking"
	"github.com/mamadbah2/zerocarbon/internal/service/wastescan"
)

const genericAdvisorReply = "Server error occurred."

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidQuantity),
		errors.Is(err, models.ErrUnknownTravelMode),
		errors.Is(err, tracking.ErrEmptyUser),
		errors.Is(err, advisor.ErrEmptyQuestion),
		errors.Is(err, wastescan.ErrEmptyImage):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnknownFoodItem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, models.ErrAdvisorService):
		return http.StatusBadGateway
	case errors.Is(err, models.ErrPersistence):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs server-side failures and writes the error body. Client
// errors echo the message so the input can be corrected.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error(msg, zap.Error(err), zap.String("path", c.FullPath()))
		c.JSON(status, gin.H{"error": msg})
		return
	}
	logger.Warn(msg, zap.Error(err))
	c.JSON(status, gin.H{"error": err.Error()})
}
