package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vaultexam/vaultexam-backend/internal/config"
	"github.com/vaultexam/vaultexam-backend/internal/database"
	"github.com/vaultexam/vaultexam-backend/internal/handler"
	"github.com/vaultexam/vaultexam-backend/internal/logger"
	"github.com/vaultexam/vaultexam-backend/internal/repository"
	"github.com/vaultexam/vaultexam-backend/internal/router"
	"github.com/vaultexam/vaultexam-backend/internal/service"
	"github.com/vaultexam/vaultexam-backend/internal/validator"
	"github.com/vaultexam/vaultexam-backend/internal/worker"
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
		Msg("Starting VaultExam Backend")

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
	teacherRepo := repository.NewTeacherRepository(pool)
	testRepo := repository.NewTestRepository(pool)
	submissionRepo := repository.NewSubmissionRepository(pool)
	correctionRepo := repository.NewCorrectionRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	testCache := service.NewRedisTestCache(rdb, log)
	monitor := service.NewRedisMonitorPublisher(rdb, log)

	authService := service.NewAuthService(cfg, teacherRepo)
	testService := service.NewTestService(testRepo, testCache, log)
	submissionService := service.NewSubmissionService(submissionRepo, testRepo, monitor, log)
	correctionService := service.NewCorrectionService(correctionRepo, submissionRepo, testRepo, log)
	purgeService := service.NewPurgeService(testRepo, submissionRepo, correctionRepo, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Test:          handler.NewTestHandler(testService),
		Submission:    handler.NewSubmissionHandler(submissionService),
		Correction:    handler.NewCorrectionHandler(correctionService),
		TeacherPortal: handler.NewTeacherPortalHandler(testService, submissionService, correctionService),
		Admin:         handler.NewAdminHandler(purgeService),
		WS:            handler.NewWSHandler(rdb, testService, log, cfg.AllowedOrigins),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	purgeWorker := worker.NewPurgeWorker(purgeService, cfg.PurgeSchedule, log)
	if err := purgeWorker.Start(workerCtx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start purge worker")
	}

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, handlers, cfg)

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

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the purge worker and wait for an in-flight run.
	workerCancel()
	purgeWorker.Stop()

	log.Info().Msg("Shutdown complete")
}
