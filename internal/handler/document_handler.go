package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docflow/internal/domain"
	"docflow/internal/export"
	"docflow/internal/logger"
	"docflow/internal/middleware"
	"docflow/internal/service"
)

const (
	exportPageSize = 100
	exportMaxRows  = 10000
)

// DocumentHandler handles document, lifecycle and payment endpoints.
type DocumentHandler struct {
	documentService service.DocumentService
	clientService   service.ClientService
	now             func() time.Time
}

// NewDocumentHandler creates a new DocumentHandler.
func NewDocumentHandler(documentService service.DocumentService, clientService service.ClientService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService, clientService: clientService, now: time.Now}
}

// Create handles POST /api/v1/documents
// @Summary Create a document
// @Description Creates a draft document. Totals are computed from the items and the number is generated unless supplied.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body CreateDocumentRequest true "Document details"
// @Success 201 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Failure 409 {object} ErrorResponseBody "Document number already exists"
// @Security BearerAuth
// @Router /documents [post]
func (h *DocumentHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "client_id, type and items are required")
		return
	}
	issue, err := parseDate("issue_date", req.IssueDate)
	if err != nil {
		HandleError(c, err)
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), &service.CreateDocumentInput{
		TenantID:       tenantID,
		CreatedBy:      userID,
		ClientID:       req.ClientID,
		Type:           req.Type,
		DocumentNumber: req.DocumentNumber,
		IssueDate:      issue,
		DueDate:        due,
		Currency:       req.Currency,
		Notes:          req.Notes,
		Items:          req.Items,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, doc)
}

func documentFilter(c *gin.Context) (domain.DocumentFilter, error) {
	filter := domain.DocumentFilter{
		Type:   domain.DocumentType(c.Query("type")),
		Status: domain.DocumentStatus(c.Query("status")),
	}
	if raw := c.Query("client_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return filter, domain.NewValidationError("client_id", "must be a UUID")
		}
		filter.ClientID = &id
	}
	return filter, nil
}

// List handles GET /api/v1/documents
// @Summary List documents
// @Description Status filters use the effective status, so status=overdue returns sent or accepted documents past their due date.
// @Tags documents
// @Produce json
// @Param type query string false "Document type" Enums(invoice, quote, delivery_note, po, reminder, receipt)
// @Param status query string false "Effective status" Enums(draft, sent, accepted, overdue, paid, cancelled)
// @Param client_id query string false "Client ID (UUID)"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid filter"
// @Security BearerAuth
// @Router /documents [get]
func (h *DocumentHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	filter, err := documentFilter(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	offset, limit := parsePagination(c)

	docs, total, err := h.documentService.List(c.Request.Context(), tenantID, filter, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, docs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/documents/:id
// @Summary Get a document
// @Description Returns the document with its items, paid amount, remaining balance and effective status
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id} [get]
func (h *DocumentHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// UpdateItems handles PUT /api/v1/documents/:id/items
// @Summary Replace document items
// @Description Replaces all items and recomputes totals. Paid and cancelled documents are locked.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body UpdateItemsRequest true "New items"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "Document locked"
// @Security BearerAuth
// @Router /documents/{id}/items [put]
func (h *DocumentHandler) UpdateItems(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	var req UpdateItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "items are required")
		return
	}
	due, err := parseDate("due_date", req.DueDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	doc, err := h.documentService.UpdateItems(c.Request.Context(), &service.UpdateItemsInput{
		TenantID:   tenantID,
		DocumentID: docID,
		UserID:     userID,
		Items:      req.Items,
		Notes:      req.Notes,
		DueDate:    due,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

type transitionFunc func(c *gin.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error)

func (h *DocumentHandler) transition(c *gin.Context, fn transitionFunc) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}
	doc, err := fn(c, tenantID, docID, userID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Send handles POST /api/v1/documents/:id/send
// @Summary Mark a document as sent
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Invalid status transition"
// @Security BearerAuth
// @Router /documents/{id}/send [post]
func (h *DocumentHandler) Send(c *gin.Context) {
	h.transition(c, func(c *gin.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
		return h.documentService.MarkSent(c.Request.Context(), tenantID, docID, userID)
	})
}

// Accept handles POST /api/v1/documents/:id/accept
// @Summary Mark a document as accepted
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Invalid status transition"
// @Security BearerAuth
// @Router /documents/{id}/accept [post]
func (h *DocumentHandler) Accept(c *gin.Context) {
	h.transition(c, func(c *gin.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
		return h.documentService.Accept(c.Request.Context(), tenantID, docID, userID)
	})
}

// Pay handles POST /api/v1/documents/:id/pay
// @Summary Mark a document as paid
// @Description Marks the document paid without recording a payment. paid_date defaults to today.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body MarkPaidRequest false "Paid date"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Invalid status transition"
// @Security BearerAuth
// @Router /documents/{id}/pay [post]
func (h *DocumentHandler) Pay(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	paid, err := parseDate("paid_date", req.PaidDate)
	if err != nil {
		HandleError(c, err)
		return
	}
	h.transition(c, func(c *gin.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
		return h.documentService.MarkPaid(c.Request.Context(), tenantID, docID, userID, paid)
	})
}

// Cancel handles POST /api/v1/documents/:id/cancel
// @Summary Cancel a document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 409 {object} ErrorResponseBody "Invalid status transition"
// @Security BearerAuth
// @Router /documents/{id}/cancel [post]
func (h *DocumentHandler) Cancel(c *gin.Context) {
	h.transition(c, func(c *gin.Context, tenantID, docID, userID uuid.UUID) (*domain.Document, error) {
		return h.documentService.Cancel(c.Request.Context(), tenantID, docID, userID)
	})
}

// Delete handles DELETE /api/v1/documents/:id
// @Summary Delete a draft document
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "Only drafts can be deleted"
// @Security BearerAuth
// @Router /documents/{id} [delete]
func (h *DocumentHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), tenantID, docID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "document deleted"})
}

// RecordPayment handles POST /api/v1/documents/:id/payments
// @Summary Record a payment
// @Description Stores the payment and moves the document to paid once payments cover the total
// @Tags payments
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body RecordPaymentRequest true "Payment details"
// @Success 201 {object} Response{data=service.PaymentResult}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "Document cancelled"
// @Security BearerAuth
// @Router /documents/{id}/payments [post]
func (h *DocumentHandler) RecordPayment(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}
	paymentDate, err := parseDate("payment_date", req.PaymentDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.documentService.RecordPayment(c.Request.Context(), &service.RecordPaymentInput{
		TenantID:    tenantID,
		DocumentID:  docID,
		UserID:      userID,
		Amount:      req.Amount,
		PaymentDate: paymentDate,
		Method:      req.Method,
		Reference:   req.Reference,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}

// ListPayments handles GET /api/v1/documents/:id/payments
// @Summary List payments of a document
// @Tags payments
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=[]domain.Payment}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/payments [get]
func (h *DocumentHandler) ListPayments(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	payments, err := h.documentService.ListPayments(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, payments)
}

// PDF handles GET /api/v1/documents/:id/pdf
// @Summary Download the document as PDF
// @Tags documents
// @Produce application/pdf
// @Param id path string true "Document ID (UUID)"
// @Success 200 {file} binary
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Security BearerAuth
// @Router /documents/{id}/pdf [get]
func (h *DocumentHandler) PDF(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	rendered, err := h.documentService.RenderPDF(c.Request.Context(), tenantID, docID)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, rendered.Filename))
	if rendered.ArchiveURL != "" {
		c.Header("X-Archive-URL", rendered.ArchiveURL)
	}
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}

// Email handles POST /api/v1/documents/:id/email
// @Summary Email the document to its client
// @Description Sends the PDF to the client's address or the given recipients. Drafts are marked sent.
// @Tags documents
// @Accept json
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Param request body SendEmailRequest false "Recipients and message"
// @Success 200 {object} Response{data=domain.Document}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "Document cancelled or client has no email"
// @Security BearerAuth
// @Router /documents/{id}/email [post]
func (h *DocumentHandler) Email(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	var req SendEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "invalid request body")
		return
	}

	doc, err := h.documentService.SendByEmail(c.Request.Context(), &service.SendEmailInput{
		TenantID:   tenantID,
		DocumentID: docID,
		UserID:     userID,
		To:         req.To,
		Subject:    req.Subject,
		Message:    req.Message,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, doc)
}

// Reminder handles POST /api/v1/documents/:id/reminder
// @Summary Send a payment reminder
// @Tags documents
// @Produce json
// @Param id path string true "Document ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Document not found"
// @Failure 422 {object} ErrorResponseBody "Document not overdue"
// @Security BearerAuth
// @Router /documents/{id}/reminder [post]
func (h *DocumentHandler) Reminder(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	docID, ok := parseIDParam(c, "document")
	if !ok {
		return
	}

	if err := h.documentService.SendReminder(c.Request.Context(), tenantID, docID, userID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "reminder sent"})
}

// Export handles GET /api/v1/documents/export
// @Summary Export documents
// @Description Exports the filtered documents as CSV or XLSX
// @Tags documents
// @Produce text/csv
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "Export format" Enums(csv, xlsx) default(csv)
// @Param type query string false "Document type"
// @Param status query string false "Effective status"
// @Param client_id query string false "Client ID (UUID)"
// @Success 200 {file} binary
// @Failure 400 {object} ErrorResponseBody "Invalid format or filter"
// @Security BearerAuth
// @Router /documents/export [get]
func (h *DocumentHandler) Export(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}
	filter, err := documentFilter(c)
	if err != nil {
		HandleError(c, err)
		return
	}

	ctx := c.Request.Context()
	docs, err := h.collectDocuments(c, tenantID, filter)
	if err != nil {
		HandleError(c, err)
		return
	}
	names := h.clientNames(c, tenantID, docs)

	c.Header("Content-Type", format.ContentType())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.BuildFilename("documents", format, h.now())))
	c.Status(http.StatusOK)

	w, err := export.NewWriter(format, c.Writer)
	if err == nil {
		err = w.WriteHeader()
	}
	if err == nil {
		err = w.WriteDocuments(docs, names)
	}
	if err == nil {
		err = w.Close()
	}
	if err != nil && ctx.Err() == nil {
		l := logger.WithRequestID(c.GetString(middleware.ContextKeyRequestID))
		l.Error().Err(err).Msg("document export failed mid-stream")
	}
}

func (h *DocumentHandler) collectDocuments(c *gin.Context, tenantID uuid.UUID, filter domain.DocumentFilter) ([]domain.Document, error) {
	var all []domain.Document
	for offset := 0; offset < exportMaxRows; offset += exportPageSize {
		page, total, err := h.documentService.List(c.Request.Context(), tenantID, filter, offset, exportPageSize)
		if err != nil {
			return nil, err
		}
		all = append(all, page...)
		if len(page) < exportPageSize || len(all) >= total {
			break
		}
	}
	return all, nil
}

// clientNames resolves the client of every document. Lookups that fail leave
// the name empty.
func (h *DocumentHandler) clientNames(c *gin.Context, tenantID uuid.UUID, docs []domain.Document) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string)
	for i := range docs {
		id := docs[i].ClientID
		if _, seen := names[id]; seen {
			continue
		}
		names[id] = ""
		client, err := h.clientService.GetByID(c.Request.Context(), tenantID, id)
		if err != nil {
			continue
		}
		names[id] = client.Name
	}
	return names
}
