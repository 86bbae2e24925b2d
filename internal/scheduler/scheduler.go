package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/service/reporting"
)

const digestTimeout = 5 * time.Minute

// DigestGenerator produces the weekly digest.
type DigestGenerator interface {
	GenerateWeeklyDigest(ctx context.Context, at time.Time) (reporting.DigestResult, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	location *time.Location
	digests  DigestGenerator
	logger   *zap.Logger
}

// NewScheduler creates a scheduler running the digest on spec, a standard
// 5-field cron expression evaluated in loc.
func NewScheduler(spec string, loc *time.Location, digests DigestGenerator, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     spec,
		location: loc,
		digests:  digests,
		logger:   logger,
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("digest_schedule", s.spec), zap.String("timezone", s.location.String()))

	if _, err := s.cron.AddFunc(s.spec, s.runWeeklyDigest); err != nil {
		return fmt.Errorf("schedule weekly digest %q: %w", s.spec, err)
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) runWeeklyDigest() {
	s.logger.Info("generating weekly digest")
	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	result, err := s.digests.GenerateWeeklyDigest(ctx, time.Now().In(s.location))
	if err != nil {
		s.logger.Error("failed to generate weekly digest", zap.Error(err),
			zap.Int("users", result.Users), zap.Int("failed", result.Failed))
		return
	}

	s.logger.Info("weekly digest generated",
		zap.Int("users", result.Users),
		zap.Int("written", result.Written),
		zap.Int("failed", result.Failed))
}
