// @title           Docflow API
// @version         1.0
// @description     Commercial documents, payments and recurring billing.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"docflow/internal/app"
	"docflow/internal/config"
	"docflow/internal/handler"
	"docflow/internal/logger"
	"docflow/internal/router"
	"docflow/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger.Setup(logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	checks := map[string]handler.Check{"database": a.DB.PingContext}
	if a.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return a.Redis.Ping(ctx).Err() }
	}
	if a.Broker != nil {
		checks["rabbitmq"] = a.Broker.Check
	}

	r := router.Setup(
		a.Auth,
		cfg.CORS.AllowedOrigins,
		handler.NewClientHandler(a.Clients),
		handler.NewDocumentHandler(a.Documents, a.Clients),
		handler.NewRecurringHandler(a.Recurring),
		handler.NewDashboardHandler(a.Dashboard),
		handler.NewHealthHandler(checks),
	)

	var worker *service.RecurringWorker
	if cfg.Recurring.Enabled {
		worker = service.NewRecurringWorker(a.Recurring, cfg.Recurring.PollInterval)
		go worker.Start(ctx)
	}

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Port).Str("env", cfg.Server.Environment).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	if worker != nil {
		select {
		case <-worker.Done():
		case <-shutdownCtx.Done():
			log.Warn().Msg("recurring worker did not stop in time")
		}
	}
	log.Info().Msg("server stopped")
	return nil
}
