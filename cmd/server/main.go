package main

import (
	"Testify/internal/cache"
	"Testify/internal/config"
	"Testify/internal/handlers"
	"Testify/internal/middleware"
	"Testify/internal/ratelimit"
	"Testify/internal/repo"
	"Testify/internal/service"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Debugw("Failed to sync logger", "error", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		sugar.Fatalw("failed to get sql.DB", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	spaceRepo := repo.NewSpaceRepository(gormDB)
	testimonialRepo := repo.NewTestimonialRepository(gormDB)

	limiter := ratelimit.NewSlidingWindow(cfg.RateLimitRequests, cfg.RateLimitWindow)

	userService := service.NewUserService(userRepo)
	spaceService := service.NewSpaceService(spaceRepo, testimonialRepo, limiter, sugar,
		service.WithReadCache(cache.NewInMemory(), cfg.CacheTTL))

	h := handlers.NewHandler(userService, spaceService, sugar, cfg)

	srv := &http.Server{
		Addr:              cfg.BaseURL,
		Handler:           h.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sugar.Infow("Starting server", "addr", srv.Addr)
	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"AppURL", cfg.AppURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"AllowedOrigins", cfg.AllowedOrigins,
		"RateLimit", cfg.RateLimitRequests,
		"RateWindow", cfg.RateLimitWindow,
		"CacheTTL", cfg.CacheTTL,
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrCh <- err
		}
		close(serverErrCh)
	}()

	exitCode := 0
	select {
	case <-ctx.Done():
		sugar.Infow("Shutdown signal received")
	case err := <-serverErrCh:
		if err != nil {
			sugar.Errorw("Server failed", "error", err)
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		sugar.Errorw("Graceful shutdown failed", "error", err)
		exitCode = 1
	}
	if err := sqlDB.Close(); err != nil {
		sugar.Errorw("Failed to close database", "error", err)
		exitCode = 1
	}

	if exitCode != 0 {
		_ = logger.Sync()
		os.Exit(exitCode)
	}
	sugar.Infow("Server stopped")
}
