package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"docflow/internal/domain"
	"docflow/internal/lifecycle"
	"docflow/internal/logger"
	"docflow/internal/port"
	"docflow/internal/recurrence"
)

// SetupRecurringInput is the DTO for scheduling a recurring document.
type SetupRecurringInput struct {
	TenantID           uuid.UUID
	CreatedBy          uuid.UUID
	TemplateDocumentID uuid.UUID
	Frequency          domain.Frequency
	// DayOfMonth and Month default to the template's issue date when zero.
	DayOfMonth int
	Month      int
	EndDate    *time.Time
}

// ProcessResult tallies one batch of recurring document generation. Skipped counts
// due configs another runner claimed first.
type ProcessResult struct {
	Processed int      `json:"processed"`
	Skipped   int      `json:"skipped"`
	Errors    []string `json:"errors"`
}

// RecurringService defines the recurring document contract.
type RecurringService interface {
	Setup(ctx context.Context, input *SetupRecurringInput) (*domain.RecurringDocumentConfig, error)
	GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error)
	List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error)
	Deactivate(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error)
	ProcessRecurringDocuments(ctx context.Context) (*ProcessResult, error)
}

type recurringService struct {
	configRepo port.RecurringConfigRepository
	docRepo    port.DocumentRepository
	docSvc     DocumentService
	events     port.EventPublisher
	clock      func() time.Time
	log        zerolog.Logger
}

// NewRecurringService creates a new RecurringService implementation.
// clock and events may be nil.
func NewRecurringService(
	configRepo port.RecurringConfigRepository,
	docRepo port.DocumentRepository,
	docSvc DocumentService,
	events port.EventPublisher,
	clock func() time.Time,
) RecurringService {
	if clock == nil {
		clock = time.Now
	}
	return &recurringService{
		configRepo: configRepo,
		docRepo:    docRepo,
		docSvc:     docSvc,
		events:     events,
		clock:      clock,
		log:        logger.WithComponent("recurringService"),
	}
}

func (s *recurringService) today() time.Time {
	return lifecycle.StartOfDay(s.clock())
}

func (s *recurringService) Setup(ctx context.Context, input *SetupRecurringInput) (*domain.RecurringDocumentConfig, error) {
	if !domain.ValidFrequencies[input.Frequency] {
		return nil, domain.NewValidationError("frequency", fmt.Sprintf("unknown frequency %q", input.Frequency))
	}
	if input.DayOfMonth < 0 || input.DayOfMonth > 31 {
		return nil, domain.NewValidationError("day_of_month", "must be between 1 and 31")
	}
	if input.Month < 0 || input.Month > 12 {
		return nil, domain.NewValidationError("month", "must be between 1 and 12")
	}

	template, err := s.docRepo.GetByID(ctx, input.TenantID, input.TemplateDocumentID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return nil, domain.ErrTemplateNotFound
		}
		return nil, err
	}

	anchor := recurrence.AnchorOf(template.IssueDate)
	if input.DayOfMonth != 0 {
		anchor.Day = input.DayOfMonth
	}
	if input.Month != 0 {
		anchor.Month = time.Month(input.Month)
	}

	today := s.today()
	next := recurrence.Project(input.Frequency, today, anchor)
	if input.EndDate != nil && input.EndDate.Before(today) {
		return nil, domain.NewValidationError("end_date", "must not be in the past")
	}

	cfg := &domain.RecurringDocumentConfig{
		ID:                 uuid.New(),
		TenantID:           input.TenantID,
		TemplateDocumentID: template.ID,
		Frequency:          input.Frequency,
		DayOfMonth:         anchor.Day,
		Month:              int(anchor.Month),
		NextDate:           next,
		EndDate:            input.EndDate,
		IsActive:           !recurrence.Exhausted(next, input.EndDate),
		CreatedBy:          input.CreatedBy,
	}
	if err := s.configRepo.Create(ctx, cfg); err != nil {
		return nil, fmt.Errorf("creating recurring config: %w", err)
	}
	s.log.Info().Str("config_id", cfg.ID.String()).Str("frequency", string(cfg.Frequency)).
		Time("next_date", cfg.NextDate).Msg("recurring document scheduled")
	return cfg, nil
}

func (s *recurringService) GetByID(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	return s.configRepo.GetByID(ctx, tenantID, configID)
}

func (s *recurringService) List(ctx context.Context, tenantID uuid.UUID, offset, limit int) ([]domain.RecurringDocumentConfig, int, error) {
	return s.configRepo.ListByTenant(ctx, tenantID, offset, limit)
}

func (s *recurringService) Deactivate(ctx context.Context, tenantID, configID uuid.UUID) (*domain.RecurringDocumentConfig, error) {
	cfg, err := s.configRepo.GetByID(ctx, tenantID, configID)
	if err != nil {
		return nil, err
	}
	if !cfg.IsActive {
		return cfg, nil
	}
	cfg.IsActive = false
	if err := s.configRepo.UpdateSchedule(ctx, cfg); err != nil {
		return nil, fmt.Errorf("deactivating recurring config: %w", err)
	}
	return cfg, nil
}

// ProcessRecurringDocuments generates one document for every due config of every
// tenant. A failing config is reported in the result and does not stop the batch.
// The returned error is non-nil only when the due configs cannot be listed.
func (s *recurringService) ProcessRecurringDocuments(ctx context.Context) (*ProcessResult, error) {
	today := s.today()
	due, err := s.configRepo.ListDue(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("listing due recurring configs: %w", err)
	}

	result := &ProcessResult{Errors: []string{}}
	for i := range due {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("batch interrupted: %v", ctx.Err()))
			break
		}
		cfg := &due[i]
		err := s.processOne(ctx, cfg, today)
		if errors.Is(err, domain.ErrRecurringRunClaimed) {
			s.log.Debug().Str("config_id", cfg.ID.String()).Msg("recurring config claimed by another run")
			result.Skipped++
			continue
		}
		if err != nil {
			s.log.Error().Err(err).Str("config_id", cfg.ID.String()).Msg("recurring document failed")
			result.Errors = append(result.Errors, fmt.Sprintf("recurring config %s: %v", cfg.ID, err))
			continue
		}
		result.Processed++
	}

	s.log.Info().Int("due", len(due)).Int("processed", result.Processed).
		Int("skipped", result.Skipped).Int("failed", len(result.Errors)).Msg("recurring batch finished")
	return result, nil
}

func (s *recurringService) processOne(ctx context.Context, cfg *domain.RecurringDocumentConfig, today time.Time) error {
	template, err := s.docRepo.GetByID(ctx, cfg.TenantID, cfg.TemplateDocumentID)
	if err != nil {
		if errors.Is(err, domain.ErrDocumentNotFound) {
			return fmt.Errorf("%w: %s", domain.ErrTemplateNotFound, cfg.TemplateDocumentID)
		}
		return fmt.Errorf("loading template: %w", err)
	}

	items := make([]ItemInput, len(template.Items))
	for i, it := range template.Items {
		items[i] = ItemInput{
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TaxRate:     it.TaxRate,
		}
	}
	// Claim the period before generating so that neither a second runner nor a
	// retry after a failed write can produce another document for it.
	prior := *cfg
	anchor := recurrence.Anchor{Day: cfg.DayOfMonth, Month: time.Month(cfg.Month)}
	runAt := s.clock().UTC()
	cfg.NextDate = recurrence.Project(cfg.Frequency, cfg.NextDate, anchor)
	cfg.LastRunAt = &runAt
	if recurrence.Exhausted(cfg.NextDate, cfg.EndDate) {
		cfg.IsActive = false
	}
	if err := s.configRepo.ClaimRun(ctx, cfg, prior.NextDate); err != nil {
		if errors.Is(err, domain.ErrRecurringRunClaimed) {
			return err
		}
		return fmt.Errorf("claiming schedule: %w", err)
	}

	due := recurrence.DueDate(template.Type, today)
	doc, err := s.docSvc.Create(ctx, &CreateDocumentInput{
		TenantID:          cfg.TenantID,
		CreatedBy:         cfg.CreatedBy,
		ClientID:          template.ClientID,
		Type:              template.Type,
		IssueDate:         &today,
		DueDate:           &due,
		Currency:          template.Currency,
		Notes:             template.Notes,
		Items:             items,
		RecurringConfigID: &cfg.ID,
	})
	if err != nil {
		if rerr := s.configRepo.ReleaseRun(ctx, &prior, cfg.NextDate); rerr != nil {
			s.log.Error().Err(rerr).Str("config_id", cfg.ID.String()).
				Time("next_date", prior.NextDate).Msg("failed to release recurring schedule, period will be skipped")
		}
		return fmt.Errorf("creating document: %w", err)
	}

	cfg.LastDocumentID = &doc.ID
	if err := s.configRepo.UpdateSchedule(ctx, cfg); err != nil {
		s.log.Warn().Err(err).Str("config_id", cfg.ID.String()).
			Str("document_number", doc.DocumentNumber).Msg("failed to record last generated document")
	}

	if s.events != nil {
		event := domain.Event{
			ID:         uuid.New(),
			Type:       domain.EventRecurringDocumentGenerated,
			TenantID:   cfg.TenantID,
			DocumentID: doc.ID,
			OccurredAt: runAt,
			Data: map[string]interface{}{
				"config_id":       cfg.ID,
				"document_number": doc.DocumentNumber,
				"next_date":       cfg.NextDate.Format(dateLayout),
				"is_active":       cfg.IsActive,
			},
		}
		if err := s.events.Publish(ctx, event); err != nil {
			s.log.Warn().Err(err).Str("config_id", cfg.ID.String()).Msg("failed to publish event")
		}
	}
	return nil
}
