package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/pkg/clients/anthropic"
)

const systemPrompt = "You are a helpful sustainability advisor."

// ErrEmptyQuestion indicates the user sent no question.
var ErrEmptyQuestion = errors.New("question must not be empty")

// SummaryProvider builds the aggregate summary the advice is based on.
type SummaryProvider interface {
	Summary(ctx context.Context, userID string) (models.AggregateSummary, error)
}

// Service answers sustainability questions using the user's totals.
type Service struct {
	summaries SummaryProvider
	ai        anthropic.Client
	timeout   time.Duration
	logger    *zap.Logger
}

// NewService wires the advisor. A nil ai client disables advice.
func NewService(summaries SummaryProvider, ai anthropic.Client, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Service{summaries: summaries, ai: ai, timeout: timeout, logger: logger}
}

// Enabled reports whether a language model is configured.
func (s *Service) Enabled() bool {
	return s != nil && s.ai != nil
}

// Advise returns personalized advice for question. Language-model failures
// are wrapped in models.ErrAdvisorService.
func (s *Service) Advise(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", ErrEmptyQuestion
	}
	if !s.Enabled() {
		return "", fmt.Errorf("%w: advisor is not configured", models.ErrAdvisorService)
	}

	summary, err := s.summaries.Summary(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("load summary: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	reply, err := s.ai.Complete(ctxWithTimeout, systemPrompt, BuildPrompt(summary, question))
	if err != nil {
		s.logger.Error("advisor completion failed", zap.String("user_id", userID), zap.Error(err))
		return "", fmt.Errorf("%w: %w", models.ErrAdvisorService, err)
	}
	return reply, nil
}

// BuildPrompt renders the user's category totals and question.
func BuildPrompt(summary models.AggregateSummary, question string) string {
	var b strings.Builder
	b.WriteString("You are a sustainability advisor.\n\n")
	b.WriteString("User carbon emissions (kg CO₂):\n")
	fmt.Fprintf(&b, "Food: %.2f\n", summary.Total(models.CategoryFood))
	fmt.Fprintf(&b, "Electricity: %.2f\n", summary.Total(models.CategoryElectricity))
	fmt.Fprintf(&b, "Travel: %.2f\n", summary.Total(models.CategoryTravel))
	fmt.Fprintf(&b, "Waste: %.2f\n", summary.Total(models.CategoryWaste))
	fmt.Fprintf(&b, "Trend: %s\n", summary.Trend.Message())
	b.WriteString("\nUser question:\n")
	b.WriteString(question)
	b.WriteString("\n\nGive clear, practical, personalized advice.\n")
	return b.String()
}
