package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/campuscore/placement-backend/internal/config"
	"github.com/campuscore/placement-backend/internal/database"
	"github.com/campuscore/placement-backend/internal/handler"
	"github.com/campuscore/placement-backend/internal/logger"
	"github.com/campuscore/placement-backend/internal/repository"
	"github.com/campuscore/placement-backend/internal/router"
	"github.com/campuscore/placement-backend/internal/service"
	"github.com/campuscore/placement-backend/internal/validator"
	"github.com/campuscore/placement-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Placement Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	courseRepo := repository.NewCourseRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	questionRepo := repository.NewQuestionRepository(pool)
	cohortRepo := repository.NewCohortRepository(pool)
	attemptRepo := repository.NewAttemptRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)
	directoryRepo := repository.NewDirectoryRepository(pool)
	eligibilityRepo := repository.NewEligibilityRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	identityService := service.NewIdentityService(cfg.JWTSecret)
	courseService := service.NewCourseService(courseRepo, cohortRepo, log)
	testService := service.NewTestService(testRepo, questionRepo, courseRepo, cohortRepo, rdb, log)
	questionService := service.NewQuestionService(questionRepo, testRepo, courseRepo, log)
	assignmentService := service.NewAssignmentService(cohortRepo, courseRepo, testRepo, questionRepo, rdb, log)
	eligibilityService := service.NewEligibilityService(eligibilityRepo, directoryRepo, attemptRepo, log)
	attemptService := service.NewAttemptService(pool, attemptRepo, testRepo, questionRepo, cohortRepo, directoryRepo, rdb, log)
	analyticsService := service.NewAnalyticsService(analyticsRepo, courseRepo, rdb, log)
	directoryService := service.NewDirectoryService(directoryRepo)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Course:        handler.NewCourseHandler(courseService),
		Test:          handler.NewTestHandler(testService, attemptService),
		Question:      handler.NewQuestionHandler(questionService),
		Assignment:    handler.NewAssignmentHandler(assignmentService),
		Directory:     handler.NewDirectoryHandler(directoryService),
		StudentPortal: handler.NewStudentPortalHandler(eligibilityService, attemptService),
		Analytics:     handler.NewAnalyticsHandler(analyticsService),
		Monitor:       handler.NewMonitorHandler(rdb, testRepo, courseRepo, log, cfg.AllowedOrigins),
		Health:        handler.NewHealthHandler(pool, rdb),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	snapshotWorker := worker.NewSnapshotWorker(analyticsService, cfg.SnapshotInterval, log)
	go snapshotWorker.Start(workerCtx)

	// ─── Prewarm Redis Caches ─────────────────────────────────────────
	// Load every published test's paper into Redis BEFORE accepting
	// traffic, so attempt starts never race a cold cache.
	if err := testService.PrewarmPaperCaches(ctx); err != nil {
		log.Warn().Err(err).Msg("Paper cache prewarm failed")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(identityService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: r,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	workerCancel()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
