// Package app wires configuration into repositories, adapters and services.
package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"docflow/internal/cache"
	"docflow/internal/config"
	"docflow/internal/email/noop"
	"docflow/internal/email/ses"
	"docflow/internal/email/smtp"
	"docflow/internal/event"
	"docflow/internal/logger"
	"docflow/internal/numbering"
	"docflow/internal/port"
	"docflow/internal/render/pdf"
	"docflow/internal/repository/postgres"
	"docflow/internal/service"
	s3storage "docflow/internal/storage/s3"
)

// App holds the wired services and the resources that must be released.
type App struct {
	Config *config.Config
	DB     *sqlx.DB
	Redis  *redis.Client
	// Broker is set when events go to RabbitMQ.
	Broker *event.RabbitMQPublisher

	Auth      service.AuthService
	Clients   service.ClientService
	Documents service.DocumentService
	Recurring service.RecurringService
	Dashboard service.DashboardService

	closers []func() error
	log     zerolog.Logger
}

// New connects to the database and the configured providers and builds the
// services. Call Close when done.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, log: logger.WithComponent("app")}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if err := a.build(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) build(ctx context.Context) error {
	cfg := a.Config

	docRepo := postgres.NewDocumentRepo(a.DB)
	clientRepo := postgres.NewClientRepo(a.DB)
	paymentRepo := postgres.NewPaymentRepo(a.DB)
	configRepo := postgres.NewRecurringConfigRepo(a.DB)
	statsRepo := postgres.NewStatsRepo(a.DB)

	numbers, err := a.numberGenerator(ctx, docRepo)
	if err != nil {
		return err
	}
	sender, err := a.emailSender(ctx)
	if err != nil {
		return err
	}
	events, err := a.eventPublisher()
	if err != nil {
		return err
	}

	var storage port.ObjectStorage
	if cfg.PDF.ArchiveS3 {
		store, err := s3storage.NewStore(ctx, &cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
		storage = store
	}

	a.Auth = service.NewAuthService(cfg.JWT)
	a.Clients = service.NewClientService(clientRepo)
	a.Documents = service.NewDocumentService(
		docRepo, clientRepo, paymentRepo, numbers, pdf.NewRenderer(), storage, sender, events,
		service.DocumentServiceConfig{
			MaxNumberAttempts: cfg.Numbering.MaxAttempts,
			Issuer:            cfg.PDF.Issuer,
			ArchivePDF:        cfg.PDF.ArchiveS3,
			ArchiveBucket:     cfg.S3.Bucket,
		},
	)
	a.Recurring = service.NewRecurringService(configRepo, docRepo, a.Documents, events, nil)
	a.Dashboard = service.NewDashboardService(statsRepo, nil)
	return nil
}

func (a *App) numberGenerator(ctx context.Context, docRepo port.DocumentRepository) (port.NumberGenerator, error) {
	if a.Config.Numbering.Strategy != "redis" {
		return numbering.NewSequentialGenerator(docRepo), nil
	}
	rdb, err := cache.NewRedisClient(ctx, &a.Config.Redis)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	a.Redis = rdb
	a.closers = append(a.closers, rdb.Close)
	a.log.Info().Str("addr", a.Config.Redis.Addr).Msg("document numbers use redis counters")
	return numbering.NewRedisGenerator(rdb, docRepo), nil
}

func (a *App) emailSender(ctx context.Context) (port.EmailSender, error) {
	cfg := a.Config.Email
	switch cfg.Provider {
	case "ses":
		sender, err := ses.NewSESSender(ctx, cfg.Region, cfg.FromAddress, cfg.FromName)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SES sender: %w", err)
		}
		return sender, nil
	case "smtp":
		return smtp.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.FromAddress, cfg.FromName), nil
	default:
		return noop.NewNoopSender(), nil
	}
}

func (a *App) eventPublisher() (port.EventPublisher, error) {
	cfg := a.Config.Events
	if cfg.Provider != "rabbitmq" {
		return event.NewNoopPublisher(), nil
	}
	pub, err := event.DialRabbitMQ(cfg.RabbitMQURL, cfg.Queue)
	if err != nil {
		return nil, err
	}
	a.Broker = pub
	a.closers = append(a.closers, pub.Close)
	return pub, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.log.Warn().Err(err).Msg("error during shutdown")
		}
	}
	a.closers = nil
}
