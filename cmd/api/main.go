package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/suar-net/usage-pricing-be/internal/config"
	"github.com/suar-net/usage-pricing-be/internal/database"
	"github.com/suar-net/usage-pricing-be/internal/handler"
	"github.com/suar-net/usage-pricing-be/internal/logging"
	"github.com/suar-net/usage-pricing-be/internal/metrics"
	"github.com/suar-net/usage-pricing-be/internal/observability"
	"github.com/suar-net/usage-pricing-be/internal/repository"
	"github.com/suar-net/usage-pricing-be/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables from OS")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	logger := logging.New(cfg)

	if err := observability.InitSentry(cfg.Sentry.DSN, cfg.Environment); err != nil {
		logger.WithError(err).Error("Failed to initialize sentry")
	}
	defer observability.FlushSentry()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.ConnectDB(ctx, cfg.DB)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Successfully connected to database")

	if err := database.EnsureSchema(ctx, db); err != nil {
		logger.Fatalf("Failed to create database schema: %v", err)
	}

	repo := repository.NewRepository(db)
	authService := service.NewAuthService(repo.User(), cfg.JWT)
	usageService := service.NewUsageService(repo.Event())

	if cfg.Seed.Enabled() {
		user, err := authService.SeedUser(ctx, cfg.Seed.Username, cfg.Seed.Password, cfg.Seed.UserID)
		if err != nil {
			logger.Fatalf("Failed to seed user: %v", err)
		}
		logging.WithUserID(logger, user.UserID).WithField("username", user.Username).Info("Seed user ready")
	}

	router := handler.SetupRouter(handler.RouterDeps{
		AuthService:  authService,
		UsageService: usageService,
		DB:           db,
		Metrics:      metrics.New(),
		Logger:       logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		err := server.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Cannot run server on port %s: %v", cfg.Server.Port, err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
		return
	}
	logger.Info("Server successfully shut down")
}
