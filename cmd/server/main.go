package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/unach/escuela-backend/internal/cache"
	"github.com/unach/escuela-backend/internal/config"
	"github.com/unach/escuela-backend/internal/database"
	"github.com/unach/escuela-backend/internal/handler"
	"github.com/unach/escuela-backend/internal/logger"
	"github.com/unach/escuela-backend/internal/repository"
	"github.com/unach/escuela-backend/internal/router"
	"github.com/unach/escuela-backend/internal/service"
	"github.com/unach/escuela-backend/internal/validator"
	"github.com/unach/escuela-backend/internal/worker"
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
		Msg("Starting Escuela Backend")

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
	studentRepo := repository.NewStudentRepository(pool)
	teacherRepo := repository.NewTeacherRepository(pool)
	subjectRepo := repository.NewSubjectRepository(pool)
	relationRepo := repository.NewRelationRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	store := cache.NewRedisStore(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	verifier, err := service.NewStaticCredentialVerifier(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid admin credentials configuration")
	}

	eventService := service.NewEventService(rdb, log)
	authService := service.NewAuthService(cfg, verifier, store)
	studentService := service.NewStudentService(studentRepo, eventService, eventService, log)
	teacherService := service.NewTeacherService(teacherRepo, eventService, eventService, log)
	subjectService := service.NewSubjectService(subjectRepo, eventService, log)
	relationService := service.NewRelationService(relationRepo, eventService, log)
	reportService := service.NewReportService(reportRepo, store, cfg.ReportCacheTTL, log)
	exportService := service.NewExportService(reportRepo, cfg.ReportFontPath, log)
	mediaService := service.NewMediaService(cfg)
	schemaService := service.NewSchemaService(cfg.DatabaseURL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:     handler.NewAuthHandler(authService, log),
		Student:  handler.NewStudentHandler(studentService, log),
		Teacher:  handler.NewTeacherHandler(teacherService, log),
		Subject:  handler.NewSubjectHandler(subjectService, log),
		Relation: handler.NewRelationHandler(relationService, log),
		Report:   handler.NewReportHandler(reportService, log),
		Export:   handler.NewExportHandler(exportService, log),
		Media:    handler.NewMediaHandler(mediaService, log),
		Schema:   handler.NewSchemaHandler(schemaService, log),
		WS:       handler.NewWSHandler(eventService, log, cfg.AllowedOrigins),
		Health: handler.NewHealthHandler(map[string]handler.HealthCheck{
			"postgres": pool.Ping,
			"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		}, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())

	cleanupWorker := worker.NewPhotoCleanupWorker(rdb, reportRepo, mediaService, log)
	go cleanupWorker.Start(workerCtx)

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(authService, store, handlers, cfg, log)

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

	// 2. Stop the cleanup worker and let it finish the URL in hand.
	workerCancel()
	time.Sleep(2 * time.Second)

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
