package reporting

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mamadbah2/zerocarbon/internal/domain/models"
)

const digestConcurrency = 4

// UserLister enumerates users that own ledger records.
type UserLister interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// SummaryProvider builds one user's aggregate summary.
type SummaryProvider interface {
	Summary(ctx context.Context, userID string) (models.AggregateSummary, error)
}

// DigestStore persists digest rows.
type DigestStore interface {
	AppendDigest(ctx context.Context, row models.DigestRow) error
	ListDigests(ctx context.Context, userID string) ([]models.DigestRow, error)
}

// DigestResult reports the outcome of one digest run.
type DigestResult struct {
	Users   int
	Written int
	Failed  int
}

// Service produces the weekly per-user digest.
type Service struct {
	users     UserLister
	summaries SummaryProvider
	store     DigestStore
	logger    *zap.Logger
}

// NewService wires a new reporting service instance.
func NewService(users UserLister, summaries SummaryProvider, store DigestStore, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if store == nil {
		store = NewLogStore(logger)
	}
	return &Service{users: users, summaries: summaries, store: store, logger: logger}
}

// GenerateWeeklyDigest summarizes every user's ledger and stores one row per
// user dated at. A failing user is logged and skipped. At most
// digestConcurrency users are processed at once.
func (s *Service) GenerateWeeklyDigest(ctx context.Context, at time.Time) (DigestResult, error) {
	ids, err := s.users.ListUserIDs(ctx)
	if err != nil {
		return DigestResult{}, fmt.Errorf("list users: %w", err)
	}

	var written, failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(digestConcurrency)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if s.digestUser(gctx, id, at) {
				written.Add(1)
			} else {
				failed.Add(1)
			}
			return nil
		})
	}

	err = g.Wait()
	result := DigestResult{Users: len(ids), Written: int(written.Load()), Failed: int(failed.Load())}
	if err != nil {
		return result, err
	}
	if result.Users > 0 && result.Written == 0 {
		return result, errors.New("no digest row could be written")
	}
	return result, nil
}

func (s *Service) digestUser(ctx context.Context, userID string, at time.Time) bool {
	summary, err := s.summaries.Summary(ctx, userID)
	if err != nil {
		s.logger.Warn("skip digest for user", zap.String("user_id", userID), zap.Error(err))
		return false
	}

	if err := s.store.AppendDigest(ctx, models.NewDigestRow(at, summary)); err != nil {
		s.logger.Warn("failed to store digest", zap.String("user_id", userID), zap.Error(err))
		return false
	}
	return true
}

// History returns the stored digests of one user.
func (s *Service) History(ctx context.Context, userID string) ([]models.DigestRow, error) {
	return s.store.ListDigests(ctx, userID)
}

// LogStore writes digests to the log. It keeps no history.
type LogStore struct {
	logger *zap.Logger
}

// NewLogStore returns a DigestStore backed by logger.
func NewLogStore(logger *zap.Logger) *LogStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogStore{logger: logger}
}

// AppendDigest implements DigestStore.
func (l *LogStore) AppendDigest(_ context.Context, row models.DigestRow) error {
	l.logger.Info("weekly digest",
		zap.String("user_id", row.UserID),
		zap.Time("date", row.Date),
		zap.Float64("food", row.Food),
		zap.Float64("electricity", row.Electricity),
		zap.Float64("travel", row.Travel),
		zap.Float64("waste", row.Waste),
		zap.Float64("total", row.Total),
		zap.String("trend", string(row.TrendStatus)),
		zap.Float64("trend_percent", row.TrendPercent))
	return nil
}

// ListDigests implements DigestStore.
func (l *LogStore) ListDigests(_ context.Context, _ string) ([]models.DigestRow, error) {
	return []models.DigestRow{}, nil
}
