package handler_test

import (
	"encoding/csv"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"docflow/internal/domain"
	"docflow/internal/export"
	"docflow/internal/handler"
	"docflow/internal/service"
	"docflow/mocks"
)

func newDocumentHandler() (*handler.DocumentHandler, *mocks.MockDocumentService, *mocks.MockClientService) {
	docSvc := new(mocks.MockDocumentService)
	clientSvc := new(mocks.MockClientService)
	return handler.NewDocumentHandler(docSvc, clientSvc), docSvc, clientSvc
}

// --- Create ---

func TestDocumentHandler_Create_Success(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	clientID := uuid.New()
	body := map[string]interface{}{
		"client_id":  clientID.String(),
		"type":       "invoice",
		"issue_date": "2024-03-01",
		"items": []map[string]interface{}{
			{"description": "Consulting", "quantity": "2", "unit_price": "50", "tax_rate": "21"},
		},
	}
	c, w, tenantID, userID := newContext(http.MethodPost, "/api/v1/documents", body, "")

	docSvc.On("Create", mock.Anything, mock.MatchedBy(func(in *service.CreateDocumentInput) bool {
		return in.TenantID == tenantID && in.CreatedBy == userID && in.ClientID == clientID &&
			in.Type == domain.DocumentTypeInvoice &&
			in.IssueDate != nil && in.IssueDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) &&
			in.DueDate == nil &&
			len(in.Items) == 1 && in.Items[0].UnitPrice.Equal(decimal.NewFromInt(50))
	})).Return(&domain.Document{ID: uuid.New(), DocumentNumber: "INV-2024-0001"}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, decode(t, w).Success)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_Create_MissingFields(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	c, w, _, _ := newContext(http.MethodPost, "/api/v1/documents", map[string]string{"type": "invoice"}, "")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "Create")
}

func TestDocumentHandler_Create_BadDate(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	body := map[string]interface{}{
		"client_id": uuid.New().String(),
		"type":      "invoice",
		"due_date":  "31/03/2024",
		"items":     []map[string]string{{"description": "x", "quantity": "1", "unit_price": "1"}},
	}
	c, w, _, _ := newContext(http.MethodPost, "/api/v1/documents", body, "")

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_FAILED", decode(t, w).Error.Code)
	docSvc.AssertNotCalled(t, "Create")
}

func TestDocumentHandler_Create_ServiceValidationError(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	body := map[string]interface{}{
		"client_id": uuid.New().String(),
		"type":      "invoice",
		"items":     []map[string]string{{"description": "x", "quantity": "-1", "unit_price": "1"}},
	}
	c, w, _, _ := newContext(http.MethodPost, "/api/v1/documents", body, "")
	docSvc.On("Create", mock.Anything, mock.Anything).
		Return(nil, domain.NewValidationError("items[0].quantity", "must be positive"))

	h.Create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, "quantity")
}

// --- List / Get ---

func TestDocumentHandler_List_Filters(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	clientID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodGet,
		"/api/v1/documents?type=invoice&status=overdue&client_id="+clientID.String()+"&offset=20&limit=10", nil, "")

	docSvc.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f domain.DocumentFilter) bool {
		return f.Type == domain.DocumentTypeInvoice && f.Status == domain.DocumentStatusOverdue &&
			f.ClientID != nil && *f.ClientID == clientID
	}), 20, 10).Return([]domain.Document{{ID: uuid.New()}}, 21, nil)

	h.List(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 21, resp.Meta.Total)
	assert.Equal(t, 10, resp.Meta.Limit)
}

func TestDocumentHandler_List_BadClientID(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	c, w, _, _ := newContext(http.MethodGet, "/api/v1/documents?client_id=nope", nil, "")

	h.List(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "List")
}

func TestDocumentHandler_GetByID_NotFound(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodGet, "/api/v1/documents/"+docID.String(), nil, docID.String())
	docSvc.On("GetByID", mock.Anything, tenantID, docID).Return(nil, domain.ErrDocumentNotFound)

	h.GetByID(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_FOUND", decode(t, w).Error.Code)
}

func TestDocumentHandler_GetByID_InvalidID(t *testing.T) {
	h, _, _ := newDocumentHandler()
	c, w, _, _ := newContext(http.MethodGet, "/api/v1/documents/abc", nil, "abc")

	h.GetByID(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "INVALID_ID", decode(t, w).Error.Code)
}

// --- Items ---

func TestDocumentHandler_UpdateItems_Locked(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	body := map[string]interface{}{
		"items": []map[string]string{{"description": "x", "quantity": "1", "unit_price": "10"}},
		"notes": "revised",
	}
	c, w, tenantID, _ := newContext(http.MethodPut, "/api/v1/documents/"+docID.String()+"/items", body, docID.String())
	docSvc.On("UpdateItems", mock.Anything, mock.MatchedBy(func(in *service.UpdateItemsInput) bool {
		return in.TenantID == tenantID && in.DocumentID == docID && in.Notes != nil && *in.Notes == "revised"
	})).Return(nil, domain.ErrDocumentLocked)

	h.UpdateItems(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DOCUMENT_LOCKED", decode(t, w).Error.Code)
}

// --- Transitions ---

func TestDocumentHandler_Send(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("MarkSent", mock.Anything, tenantID, docID, userID).
		Return(&domain.Document{ID: docID, Status: domain.DocumentStatusSent}, nil)

	h.Send(c)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_Accept_InvalidTransition(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("Accept", mock.Anything, tenantID, docID, userID).Return(nil, domain.ErrInvalidTransition)

	h.Accept(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestDocumentHandler_Pay_WithDate(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", map[string]string{"paid_date": "2024-03-20"}, docID.String())
	docSvc.On("MarkPaid", mock.Anything, tenantID, docID, userID, mock.MatchedBy(func(d *time.Time) bool {
		return d != nil && d.Equal(time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC))
	})).Return(&domain.Document{ID: docID, Status: domain.DocumentStatusPaid}, nil)

	h.Pay(c)

	assert.Equal(t, http.StatusOK, w.Code)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_Pay_EmptyBody(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("MarkPaid", mock.Anything, tenantID, docID, userID, (*time.Time)(nil)).
		Return(&domain.Document{ID: docID, Status: domain.DocumentStatusPaid}, nil)

	h.Pay(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentHandler_Cancel(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("Cancel", mock.Anything, tenantID, docID, userID).
		Return(&domain.Document{ID: docID, Status: domain.DocumentStatusCancelled}, nil)

	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentHandler_Delete_NotDraft(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodDelete, "/x", nil, docID.String())
	docSvc.On("Delete", mock.Anything, tenantID, docID).Return(domain.ErrDocumentLocked)

	h.Delete(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

// --- Payments ---

func TestDocumentHandler_RecordPayment(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	body := map[string]string{"amount": "60.50", "method": "card", "reference": "r1"}
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", body, docID.String())
	docSvc.On("RecordPayment", mock.Anything, mock.MatchedBy(func(in *service.RecordPaymentInput) bool {
		return in.TenantID == tenantID && in.UserID == userID && in.DocumentID == docID &&
			in.Amount.Equal(decimal.RequireFromString("60.50")) && in.Method == domain.PaymentMethodCard &&
			in.PaymentDate == nil
	})).Return(&service.PaymentResult{
		Payment:  &domain.Payment{ID: uuid.New()},
		Document: &domain.Document{ID: docID, Status: domain.DocumentStatusSent},
	}, nil)

	h.RecordPayment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	docSvc.AssertExpectations(t)
}

func TestDocumentHandler_RecordPayment_Cancelled(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, _, _ := newContext(http.MethodPost, "/x", map[string]string{"amount": "10"}, docID.String())
	docSvc.On("RecordPayment", mock.Anything, mock.Anything).Return(nil, domain.ErrDocumentCancelled)

	h.RecordPayment(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DOCUMENT_CANCELLED", decode(t, w).Error.Code)
}

func TestDocumentHandler_ListPayments(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodGet, "/x", nil, docID.String())
	docSvc.On("ListPayments", mock.Anything, tenantID, docID).Return([]domain.Payment{{ID: uuid.New()}, {ID: uuid.New()}}, nil)

	h.ListPayments(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w).Data, 2)
}

// --- PDF / email / reminder ---

func TestDocumentHandler_PDF(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodGet, "/x", nil, docID.String())
	docSvc.On("RenderPDF", mock.Anything, tenantID, docID).Return(&service.RenderedDocument{
		Filename: "INV-2024-0001.pdf", ContentType: "application/pdf", Data: []byte("%PDF-1.7"),
		ArchiveURL: "https://docs.s3.test/signed",
	}, nil)

	h.PDF(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "INV-2024-0001.pdf")
	assert.Equal(t, "%PDF-1.7", w.Body.String())
	assert.Equal(t, "https://docs.s3.test/signed", w.Header().Get("X-Archive-URL"))
}

func TestDocumentHandler_Email_NoClientEmail(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, _, _ := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("SendByEmail", mock.Anything, mock.MatchedBy(func(in *service.SendEmailInput) bool {
		return in.DocumentID == docID && len(in.To) == 0
	})).Return(nil, domain.ErrClientHasNoEmail)

	h.Email(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDocumentHandler_Email_OverrideRecipients(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	body := map[string]interface{}{"to": []string{"ap@acme.example"}, "subject": "Invoice"}
	c, w, _, _ := newContext(http.MethodPost, "/x", body, docID.String())
	docSvc.On("SendByEmail", mock.Anything, mock.MatchedBy(func(in *service.SendEmailInput) bool {
		return len(in.To) == 1 && in.To[0] == "ap@acme.example" && in.Subject == "Invoice"
	})).Return(&domain.Document{ID: docID, Status: domain.DocumentStatusSent}, nil)

	h.Email(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDocumentHandler_Reminder_NotOverdue(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	docID := uuid.New()
	c, w, tenantID, userID := newContext(http.MethodPost, "/x", nil, docID.String())
	docSvc.On("SendReminder", mock.Anything, tenantID, docID, userID).Return(domain.ErrDocumentNotOverdue)

	h.Reminder(c)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "DOCUMENT_NOT_OVERDUE", decode(t, w).Error.Code)
}

// --- Export ---

func TestDocumentHandler_Export_CSV(t *testing.T) {
	h, docSvc, clientSvc := newDocumentHandler()
	c, w, tenantID, _ := newContext(http.MethodGet, "/api/v1/documents/export?format=csv&status=paid", nil, "")

	clientID := uuid.New()
	docs := []domain.Document{
		{ID: uuid.New(), ClientID: clientID, DocumentNumber: "INV-2024-0001", Type: domain.DocumentTypeInvoice,
			Status: domain.DocumentStatusPaid, EffectiveStatus: domain.DocumentStatusPaid, Currency: "EUR",
			TotalAmount: decimal.NewFromInt(121), PaidAmount: decimal.NewFromInt(121)},
		{ID: uuid.New(), ClientID: clientID, DocumentNumber: "INV-2024-0002", Type: domain.DocumentTypeInvoice,
			Status: domain.DocumentStatusPaid, EffectiveStatus: domain.DocumentStatusPaid, Currency: "EUR"},
	}
	docSvc.On("List", mock.Anything, tenantID, mock.MatchedBy(func(f domain.DocumentFilter) bool {
		return f.Status == domain.DocumentStatusPaid
	}), 0, 100).Return(docs, 2, nil)
	clientSvc.On("GetByID", mock.Anything, tenantID, clientID).Return(&domain.Client{ID: clientID, Name: "Acme BV"}, nil).Once()

	h.Export(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "documents_")
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	body := w.Body.Bytes()
	require.True(t, len(body) >= 3)
	assert.Equal(t, export.BOM, body[:3])
	records, err := csv.NewReader(strings.NewReader(string(body[3:]))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "INV-2024-0001", records[1][0])
	assert.Equal(t, "Acme BV", records[1][3])
	clientSvc.AssertExpectations(t)
}

func TestDocumentHandler_Export_BadFormat(t *testing.T) {
	h, docSvc, _ := newDocumentHandler()
	c, w, _, _ := newContext(http.MethodGet, "/api/v1/documents/export?format=pdf", nil, "")

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docSvc.AssertNotCalled(t, "List")
}
