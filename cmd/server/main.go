package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/scholartrack/registrar-backend/internal/config"
	"github.com/scholartrack/registrar-backend/internal/database"
	"github.com/scholartrack/registrar-backend/internal/handler"
	"github.com/scholartrack/registrar-backend/internal/logger"
	"github.com/scholartrack/registrar-backend/internal/repository"
	"github.com/scholartrack/registrar-backend/internal/router"
	"github.com/scholartrack/registrar-backend/internal/service"
	"github.com/scholartrack/registrar-backend/internal/validator"
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
		Msg("Starting Registrar Backend")

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
	collegeRepo := repository.NewCollegeRepository(pool)
	courseRepo := repository.NewCourseRepository(pool)
	campusRepo := repository.NewLookupRepository(pool, repository.CampusTable)
	scholarshipRepo := repository.NewLookupRepository(pool, repository.ScholarshipTable)
	yearLevelRepo := repository.NewLookupRepository(pool, repository.YearLevelTable)
	sectionRepo := repository.NewSectionRepository(pool)
	userRepo := repository.NewUserRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, userRepo)
	studentService := service.NewStudentService(studentRepo, cfg.ImportBatch, log)
	collegeService := service.NewCollegeService(collegeRepo)
	courseService := service.NewCourseService(courseRepo, collegeRepo)
	campusService := service.NewLookupService(campusRepo)
	scholarshipService := service.NewLookupService(scholarshipRepo)
	yearLevelService := service.NewLookupService(yearLevelRepo)
	sectionService := service.NewSectionService(sectionRepo)
	dashboardService := service.NewDashboardService(dashboardRepo, rdb, cfg.DashboardCacheTTL, log)
	psgcService := service.NewPSGCService(cfg, rdb, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(authService),
		Student:     handler.NewStudentHandler(studentService, dashboardService, cfg.MaxUploadBytes, log),
		College:     handler.NewCollegeHandler(collegeService),
		Course:      handler.NewCourseHandler(courseService),
		Campus:      handler.NewLookupHandler(campusService, "campus", "campuses"),
		Scholarship: handler.NewLookupHandler(scholarshipService, "scholarship", "scholarships"),
		YearLevel:   handler.NewLookupHandler(yearLevelService, "year_level", "year_levels"),
		Section:     handler.NewSectionHandler(sectionService),
		PSGC:        handler.NewPSGCHandler(psgcService),
		Health:      handler.NewHealthHandler(pool, rdb),
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
