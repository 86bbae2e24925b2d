package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/zerocarbon/internal/config"
	"github.com/mamadbah2/zerocarbon/internal/domain/models"
	"github.com/mamadbah2/zerocarbon/internal/repository/mongodb"
	"github.com/mamadbah2/zerocarbon/internal/repository/sheets"
	"github.com/mamadbah2/zerocarbon/internal/scheduler"
	"github.com/mamadbah2/zerocarbon/internal/server/handlers"
	"github.com/mamadbah2/zerocarbon/internal/server/router"
	advisorsvc "github.com/mamadbah2/zerocarbon/internal/service/advisor"
	"github.com/mamadbah2/zerocarbon/internal/service/emissions"
	reportingsvc "github.com/mamadbah2/zerocarbon/internal/service/reporting"
	trackingsvc "github.com/mamadbah2/zerocarbon/internal/service/tracking"
	"github.com/mamadbah2/zerocarbon/internal/service/wastescan"
	"github.com/mamadbah2/zerocarbon/pkg/clients/anthropic"
	"github.com/mamadbah2/zerocarbon/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB.URI, cfg.MongoDB.DBName, cfg.MongoDB.Timeout)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Fatal("failed to create mongodb indexes", zap.Error(err))
	}
	if cfg.Tracking.SeedFoodFactors {
		seeded, err := mongoRepo.SeedFoods(startupCtx, models.DefaultEmissionFactors)
		if err != nil {
			baseLogger.Fatal("failed to seed food emission factors", zap.Error(err))
		}
		baseLogger.Info("food emission factors ready", zap.Int("seeded", seeded))
	}

	evaluator := emissions.NewEvaluator(mongoRepo,
		emissions.WithStrictTravelModes(cfg.Tracking.StrictTravelModes),
		emissions.WithLocation(cfg.Location()))
	trackingSvc := trackingsvc.NewService(mongoRepo, mongoRepo, evaluator, baseLogger.Named("svc.tracking"))

	var aiClient anthropic.Client
	if cfg.AdvisorEnabled() {
		aiClient = anthropic.NewClient(anthropic.Options{
			APIKey:  cfg.AI.AnthropicKey,
			BaseURL: cfg.AI.BaseURL,
			Model:   cfg.AI.Model,
			Timeout: cfg.AI.Timeout,
		})
		baseLogger.Info("anthropic ai client enabled")
	} else {
		baseLogger.Warn("anthropic api key missing, advisor chat disabled")
	}
	advisor := advisorsvc.NewService(trackingSvc, aiClient, cfg.AI.Timeout, baseLogger.Named("svc.advisor"))
	scanner := wastescan.NewService(wastescan.NewStaticClassifier(), baseLogger.Named("svc.wastescan"))

	var digestStore reportingsvc.DigestStore
	if cfg.SheetsEnabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		digestStore = sheetsRepo
	} else {
		baseLogger.Warn("google sheet id missing, weekly digests go to the log only")
	}
	reportingSvc := reportingsvc.NewService(mongoRepo, trackingSvc, digestStore, baseLogger.Named("svc.reporting"))

	activityHandler := handlers.NewActivityHandler(trackingSvc, baseLogger.Named("handlers.activities"))
	insightsHandler := handlers.NewInsightsHandler(advisor, scanner, reportingSvc, baseLogger.Named("handlers.insights"))
	engine := router.New(activityHandler, insightsHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Reporting.CronSchedule, cfg.Location(), reportingSvc, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
