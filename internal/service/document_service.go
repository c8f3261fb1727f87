package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"docflow/internal/domain"
	"docflow/internal/lifecycle"
	"docflow/internal/logger"
	"docflow/internal/numbering"
	"docflow/internal/port"
	"docflow/internal/recurrence"
	"docflow/internal/totals"
)

const defaultCurrency = "EUR"

// ItemInput is one line item supplied by a caller.
type ItemInput struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
}

// CreateDocumentInput is the DTO for creating a document.
type CreateDocumentInput struct {
	TenantID  uuid.UUID
	CreatedBy uuid.UUID
	ClientID  uuid.UUID
	Type      domain.DocumentType
	// DocumentNumber is generated when empty. A supplied number is never retried.
	DocumentNumber    string
	IssueDate         *time.Time
	DueDate           *time.Time
	Currency          string
	Notes             string
	Items             []ItemInput
	RecurringConfigID *uuid.UUID
}

// UpdateItemsInput is the DTO for replacing a document's items.
type UpdateItemsInput struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	Items      []ItemInput
	Notes      *string
	DueDate    *time.Time
}

// RecordPaymentInput is the DTO for recording a payment against a document.
type RecordPaymentInput struct {
	TenantID    uuid.UUID
	DocumentID  uuid.UUID
	UserID      uuid.UUID
	Amount      decimal.Decimal
	PaymentDate *time.Time
	Method      domain.PaymentMethod
	Reference   string
}

// PaymentResult is the stored payment and the document as it stands afterwards.
type PaymentResult struct {
	Payment  *domain.Payment  `json:"payment"`
	Document *domain.Document `json:"document"`
}

// SendEmailInput is the DTO for emailing a document to its client.
type SendEmailInput struct {
	TenantID   uuid.UUID
	DocumentID uuid.UUID
	UserID     uuid.UUID
	// To overrides the client's address when set.
	To      []string
	Subject string
	Message string
}

// RenderedDocument is a rendered PDF ready to be served.
type RenderedDocument struct {
	Filename    string
	ContentType string
	Data        []byte
	// ArchiveKey is the object key of the archived copy, empty when not archived.
	ArchiveKey string
	// ArchiveURL is a presigned download link for the archived copy.
	ArchiveURL string
}

// DocumentServiceConfig holds document service settings.
type DocumentServiceConfig struct {
	MaxNumberAttempts int
	Issuer            string
	ArchivePDF        bool
	ArchiveBucket     string
	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time
}

// DocumentService defines the document management contract.
type DocumentService interface {
	Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error)
	GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error)
	List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error)
	UpdateItems(ctx context.Context, input *UpdateItemsInput) (*domain.Document, error)
	Delete(ctx context.Context, tenantID, docID uuid.UUID) error

	MarkSent(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error)
	Accept(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error)
	MarkPaid(ctx context.Context, tenantID, docID, userID uuid.UUID, paidDate *time.Time) (*domain.Document, error)
	Cancel(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error)

	RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error)
	ListPayments(ctx context.Context, tenantID, docID uuid.UUID) ([]domain.Payment, error)

	RenderPDF(ctx context.Context, tenantID, docID uuid.UUID) (*RenderedDocument, error)
	SendByEmail(ctx context.Context, input *SendEmailInput) (*domain.Document, error)
	SendReminder(ctx context.Context, tenantID, docID, userID uuid.UUID) error
}

type documentService struct {
	docRepo     port.DocumentRepository
	clientRepo  port.ClientRepository
	paymentRepo port.PaymentRepository
	numbers     port.NumberGenerator
	renderer    port.DocumentRenderer
	storage     port.ObjectStorage
	email       port.EmailSender
	events      port.EventPublisher
	cfg         DocumentServiceConfig
	log         zerolog.Logger
}

// NewDocumentService creates a new DocumentService implementation.
// storage and events may be nil.
func NewDocumentService(
	docRepo port.DocumentRepository,
	clientRepo port.ClientRepository,
	paymentRepo port.PaymentRepository,
	numbers port.NumberGenerator,
	renderer port.DocumentRenderer,
	storage port.ObjectStorage,
	email port.EmailSender,
	events port.EventPublisher,
	cfg DocumentServiceConfig,
) DocumentService {
	if cfg.MaxNumberAttempts < 1 {
		cfg.MaxNumberAttempts = 1
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	return &documentService{
		docRepo:     docRepo,
		clientRepo:  clientRepo,
		paymentRepo: paymentRepo,
		numbers:     numbers,
		renderer:    renderer,
		storage:     storage,
		email:       email,
		events:      events,
		cfg:         cfg,
		log:         logger.WithComponent("documentService"),
	}
}

func (s *documentService) now() time.Time {
	return s.cfg.Clock().UTC()
}

func (s *documentService) today() time.Time {
	return lifecycle.StartOfDay(s.now())
}

// publish sends a lifecycle event. Failures are logged but never block business logic.
func (s *documentService) publish(ctx context.Context, eventType domain.EventType, doc *domain.Document, data map[string]interface{}) {
	if s.events == nil {
		return
	}
	event := domain.Event{
		ID:         uuid.New(),
		Type:       eventType,
		TenantID:   doc.TenantID,
		DocumentID: doc.ID,
		OccurredAt: s.now(),
		Data:       data,
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("event", string(eventType)).Str("document_id", doc.ID.String()).
			Msg("failed to publish event")
	}
}

func buildItems(inputs []ItemInput) []domain.DocumentItem {
	items := make([]domain.DocumentItem, len(inputs))
	for i, in := range inputs {
		items[i] = domain.DocumentItem{
			ID:          uuid.New(),
			Position:    i + 1,
			Description: strings.TrimSpace(in.Description),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     in.TaxRate,
		}
	}
	return items
}

func (s *documentService) Create(ctx context.Context, input *CreateDocumentInput) (*domain.Document, error) {
	if !domain.ValidDocumentTypes[input.Type] {
		return nil, domain.NewValidationError("type", fmt.Sprintf("unknown document type %q", input.Type))
	}
	items := buildItems(input.Items)
	sums, err := totals.Calculate(items)
	if err != nil {
		return nil, err
	}
	if _, err := s.clientRepo.GetByID(ctx, input.TenantID, input.ClientID); err != nil {
		return nil, err
	}

	issue := s.today()
	if input.IssueDate != nil {
		issue = lifecycle.StartOfDay(*input.IssueDate)
	}
	due := input.DueDate
	if due == nil {
		d := recurrence.DueDate(input.Type, issue)
		due = &d
	} else if due.Before(issue) {
		return nil, domain.NewValidationError("due_date", "must not be before the issue date")
	}
	currency := strings.ToUpper(strings.TrimSpace(input.Currency))
	if currency == "" {
		currency = defaultCurrency
	}
	if len(currency) != 3 {
		return nil, domain.NewValidationError("currency", "must be a three-letter ISO code")
	}

	doc := &domain.Document{
		ID:                uuid.New(),
		TenantID:          input.TenantID,
		ClientID:          input.ClientID,
		Type:              input.Type,
		Status:            domain.DocumentStatusDraft,
		IssueDate:         issue,
		DueDate:           due,
		Currency:          currency,
		Notes:             input.Notes,
		RecurringConfigID: input.RecurringConfigID,
		CreatedBy:         input.CreatedBy,
		Items:             items,
	}
	sums.Apply(doc)

	if err := s.insertWithNumber(ctx, doc, strings.TrimSpace(input.DocumentNumber)); err != nil {
		return nil, err
	}

	s.log.Info().Str("document_id", doc.ID.String()).Str("number", doc.DocumentNumber).
		Str("tenant_id", doc.TenantID.String()).Msg("document created")
	s.publish(ctx, domain.EventDocumentCreated, doc, map[string]interface{}{
		"document_number": doc.DocumentNumber,
		"type":            doc.Type,
		"total_amount":    doc.TotalAmount.String(),
	})

	lifecycle.Decorate(doc, s.now())
	return doc, nil
}

// insertWithNumber persists doc. Generated numbers are retried on a uniqueness
// conflict, since two writers can observe the same last number.
func (s *documentService) insertWithNumber(ctx context.Context, doc *domain.Document, supplied string) error {
	if supplied != "" {
		if err := numbering.CheckSupplied(doc.Type, supplied); err != nil {
			return err
		}
		doc.DocumentNumber = supplied
		if err := s.docRepo.Create(ctx, doc); err != nil {
			return fmt.Errorf("creating document: %w", err)
		}
		return nil
	}

	var lastErr error
	for attempt := 1; attempt <= s.cfg.MaxNumberAttempts; attempt++ {
		number, err := s.numbers.Next(ctx, doc.TenantID, doc.Type, doc.IssueDate.Year())
		if err != nil {
			return fmt.Errorf("generating document number: %w", err)
		}
		doc.DocumentNumber = number

		err = s.docRepo.Create(ctx, doc)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrDuplicateDocumentNumber) {
			return fmt.Errorf("creating document: %w", err)
		}
		lastErr = err
		s.log.Debug().Str("number", number).Int("attempt", attempt).Msg("document number taken, retrying")
	}
	return fmt.Errorf("creating document after %d attempts: %w", s.cfg.MaxNumberAttempts, lastErr)
}

func (s *documentService) GetByID(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	lifecycle.Decorate(doc, s.now())
	return doc, nil
}

func (s *documentService) List(ctx context.Context, tenantID uuid.UUID, filter domain.DocumentFilter, offset, limit int) ([]domain.Document, int, error) {
	if filter.Type != "" && !domain.ValidDocumentTypes[filter.Type] {
		return nil, 0, domain.NewValidationError("type", fmt.Sprintf("unknown document type %q", filter.Type))
	}
	if filter.Status != "" && !domain.ValidDocumentStatuses[filter.Status] {
		return nil, 0, domain.NewValidationError("status", fmt.Sprintf("unknown status %q", filter.Status))
	}
	filter.AsOf = s.today()

	docs, total, err := s.docRepo.List(ctx, tenantID, filter, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range docs {
		lifecycle.Decorate(&docs[i], now)
	}
	return docs, total, nil
}

func (s *documentService) UpdateItems(ctx context.Context, input *UpdateItemsInput) (*domain.Document, error) {
	items := buildItems(input.Items)
	sums, err := totals.Calculate(items)
	if err != nil {
		return nil, err
	}

	doc, err := s.docRepo.GetByID(ctx, input.TenantID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status.IsTerminal() {
		return nil, fmt.Errorf("%w: status %s", domain.ErrDocumentLocked, doc.Status)
	}

	doc.Items = items
	if input.Notes != nil {
		doc.Notes = *input.Notes
	}
	if input.DueDate != nil {
		if input.DueDate.Before(doc.IssueDate) {
			return nil, domain.NewValidationError("due_date", "must not be before the issue date")
		}
		doc.DueDate = input.DueDate
	}
	sums.Apply(doc)

	if err := s.docRepo.UpdateItems(ctx, doc); err != nil {
		return nil, fmt.Errorf("updating document items: %w", err)
	}
	lifecycle.Decorate(doc, s.now())
	return doc, nil
}

func (s *documentService) Delete(ctx context.Context, tenantID, docID uuid.UUID) error {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return err
	}
	if doc.Status != domain.DocumentStatusDraft {
		return fmt.Errorf("%w: only drafts can be deleted", domain.ErrDocumentLocked)
	}
	return s.docRepo.Delete(ctx, tenantID, docID)
}

func (s *documentService) MarkSent(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return s.transition(ctx, tenantID, docID, userID, domain.DocumentStatusSent, nil)
}

func (s *documentService) Accept(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return s.transition(ctx, tenantID, docID, userID, domain.DocumentStatusAccepted, nil)
}

func (s *documentService) MarkPaid(ctx context.Context, tenantID, docID, userID uuid.UUID, paidDate *time.Time) (*domain.Document, error) {
	date := s.today()
	if paidDate != nil {
		date = lifecycle.StartOfDay(*paidDate)
	}
	return s.transition(ctx, tenantID, docID, userID, domain.DocumentStatusPaid, &date)
}

func (s *documentService) Cancel(ctx context.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
	return s.transition(ctx, tenantID, docID, userID, domain.DocumentStatusCancelled, nil)
}

func (s *documentService) transition(ctx context.Context, tenantID, docID, userID uuid.UUID, to domain.DocumentStatus, paidDate *time.Time) (*domain.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	if err := lifecycle.Transition(doc.Status, to); err != nil {
		return nil, err
	}

	change := domain.StatusChange{
		TenantID:   tenantID,
		DocumentID: docID,
		From:       doc.Status,
		To:         to,
		PaidDate:   paidDate,
	}
	if err := s.docRepo.UpdateStatus(ctx, change); err != nil {
		return nil, fmt.Errorf("changing status to %s: %w", to, err)
	}

	doc.Status = to
	if paidDate != nil {
		doc.PaidDate = paidDate
	}
	s.log.Info().Str("document_id", docID.String()).Str("from", string(change.From)).
		Str("to", string(to)).Str("user_id", userID.String()).Msg("document status changed")
	s.publish(ctx, domain.EventDocumentStatusChanged, doc, map[string]interface{}{
		"from":    change.From,
		"to":      to,
		"user_id": userID,
	})

	lifecycle.Decorate(doc, s.now())
	return doc, nil
}

func (s *documentService) RecordPayment(ctx context.Context, input *RecordPaymentInput) (*PaymentResult, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.NewValidationError("amount", "must be greater than zero")
	}
	if !totals.FitsScale(input.Amount, totals.AmountScale) {
		return nil, domain.NewValidationError("amount", fmt.Sprintf("must have at most %d decimal places", totals.AmountScale))
	}
	method := input.Method
	if method == "" {
		method = domain.PaymentMethodBankTransfer
	}
	if !domain.ValidPaymentMethods[method] {
		return nil, domain.NewValidationError("payment_method", fmt.Sprintf("unknown payment method %q", method))
	}

	doc, err := s.docRepo.GetByID(ctx, input.TenantID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCancelled {
		return nil, domain.ErrDocumentCancelled
	}

	paid, err := s.paymentRepo.SumByDocument(ctx, input.TenantID, input.DocumentID)
	if err != nil {
		return nil, fmt.Errorf("summing payments: %w", err)
	}

	date := s.today()
	if input.PaymentDate != nil {
		date = lifecycle.StartOfDay(*input.PaymentDate)
	}
	payment := &domain.Payment{
		ID:            uuid.New(),
		TenantID:      input.TenantID,
		DocumentID:    input.DocumentID,
		Amount:        input.Amount,
		PaymentDate:   date,
		PaymentMethod: method,
		Reference:     strings.TrimSpace(input.Reference),
		CreatedBy:     input.UserID,
	}

	change := lifecycle.Reconcile(doc, paid.Amount, payment)
	if err := s.paymentRepo.CreateWithTransition(ctx, payment, change); err != nil {
		return nil, fmt.Errorf("recording payment: %w", err)
	}

	doc.PaidAmount = paid.Amount.Add(payment.Amount)
	s.publish(ctx, domain.EventPaymentRecorded, doc, map[string]interface{}{
		"payment_id": payment.ID,
		"amount":     payment.Amount.String(),
		"method":     payment.PaymentMethod,
	})
	if change != nil {
		doc.Status = change.To
		doc.PaidDate = change.PaidDate
		s.log.Info().Str("document_id", doc.ID.String()).Msg("document settled by payment")
		s.publish(ctx, domain.EventDocumentStatusChanged, doc, map[string]interface{}{
			"from":    change.From,
			"to":      change.To,
			"user_id": input.UserID,
		})
	}

	lifecycle.Decorate(doc, s.now())
	return &PaymentResult{Payment: payment, Document: doc}, nil
}

func (s *documentService) ListPayments(ctx context.Context, tenantID, docID uuid.UUID) ([]domain.Payment, error) {
	if _, err := s.docRepo.GetByID(ctx, tenantID, docID); err != nil {
		return nil, err
	}
	return s.paymentRepo.ListByDocument(ctx, tenantID, docID)
}

// load fetches a decorated document together with its client.
func (s *documentService) load(ctx context.Context, tenantID, docID uuid.UUID) (*domain.Document, *domain.Client, error) {
	doc, err := s.GetByID(ctx, tenantID, docID)
	if err != nil {
		return nil, nil, err
	}
	client, err := s.clientRepo.GetByID(ctx, tenantID, doc.ClientID)
	if err != nil {
		return nil, nil, err
	}
	return doc, client, nil
}

func (s *documentService) render(ctx context.Context, doc *domain.Document, client *domain.Client) (*RenderedDocument, error) {
	data, err := s.renderer.Render(ctx, port.RenderInput{Document: doc, Client: client, Issuer: s.cfg.Issuer})
	if err != nil {
		return nil, fmt.Errorf("rendering document %s: %w", doc.DocumentNumber, err)
	}
	return &RenderedDocument{
		Filename:    doc.DocumentNumber + ".pdf",
		ContentType: s.renderer.ContentType(),
		Data:        data,
	}, nil
}

func (s *documentService) RenderPDF(ctx context.Context, tenantID, docID uuid.UUID) (*RenderedDocument, error) {
	doc, client, err := s.load(ctx, tenantID, docID)
	if err != nil {
		return nil, err
	}
	out, err := s.render(ctx, doc, client)
	if err != nil {
		return nil, err
	}

	if s.cfg.ArchivePDF && s.storage != nil {
		key := fmt.Sprintf("tenants/%s/documents/%s/%s", tenantID, doc.ID, out.Filename)
		_, err := s.storage.Upload(ctx, port.UploadInput{
			Bucket:      s.cfg.ArchiveBucket,
			Key:         key,
			Body:        bytes.NewReader(out.Data),
			ContentType: out.ContentType,
			Size:        int64(len(out.Data)),
		})
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to archive rendered PDF")
			return out, nil
		}
		out.ArchiveKey = key
		url, err := s.storage.GetPresignedURL(ctx, s.cfg.ArchiveBucket, key, 0)
		if err != nil {
			s.log.Warn().Err(err).Str("key", key).Msg("failed to presign archived PDF")
			return out, nil
		}
		out.ArchiveURL = url
	}
	return out, nil
}

func (s *documentService) SendByEmail(ctx context.Context, input *SendEmailInput) (*domain.Document, error) {
	doc, client, err := s.load(ctx, input.TenantID, input.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.DocumentStatusCancelled {
		return nil, domain.ErrDocumentCancelled
	}
	to := input.To
	if len(to) == 0 {
		if client.Email == "" {
			return nil, domain.ErrClientHasNoEmail
		}
		to = []string{client.Email}
	}

	pdf, err := s.render(ctx, doc, client)
	if err != nil {
		return nil, err
	}
	msg := buildDocumentEmail(doc, client, s.cfg.Issuer, input.Subject, input.Message)
	msg.To = to
	msg.Attachments = []port.Attachment{{Filename: pdf.Filename, ContentType: pdf.ContentType, Data: pdf.Data}}
	if err := s.email.Send(ctx, msg); err != nil {
		return nil, fmt.Errorf("emailing document %s: %w", doc.DocumentNumber, err)
	}
	s.log.Info().Str("document_id", doc.ID.String()).Strs("to", to).Msg("document emailed")

	if doc.Status == domain.DocumentStatusDraft {
		return s.transition(ctx, input.TenantID, input.DocumentID, input.UserID, domain.DocumentStatusSent, nil)
	}
	return doc, nil
}

func (s *documentService) SendReminder(ctx context.Context, tenantID, docID, userID uuid.UUID) error {
	doc, client, err := s.load(ctx, tenantID, docID)
	if err != nil {
		return err
	}
	if doc.EffectiveStatus != domain.DocumentStatusOverdue {
		return domain.ErrDocumentNotOverdue
	}
	if client.Email == "" {
		return domain.ErrClientHasNoEmail
	}

	pdf, err := s.render(ctx, doc, client)
	if err != nil {
		return err
	}
	msg := buildReminderEmail(doc, client, s.cfg.Issuer, s.today())
	msg.To = []string{client.Email}
	msg.Attachments = []port.Attachment{{Filename: pdf.Filename, ContentType: pdf.ContentType, Data: pdf.Data}}
	if err := s.email.Send(ctx, msg); err != nil {
		return fmt.Errorf("sending reminder for %s: %w", doc.DocumentNumber, err)
	}
	s.log.Info().Str("document_id", doc.ID.String()).Str("user_id", userID.String()).Msg("payment reminder sent")
	return nil
}
