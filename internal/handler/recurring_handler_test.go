package handler_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docflow/internal/domain"
	"docflow/internal/handler"
	"docflow/internal/service"
	"docflow/mocks"
)

func TestRecurringHandler_Create(t *testing.T) {
	svc := new(mocks.MockRecurringService)
	h := handler.NewRecurringHandler(svc)
	templateID := uuid.New()
	body := map[string]interface{}{
		"template_document_id": templateID.String(),
		"frequency":            "quarterly",
		"day_of_month":         31,
		"end_date":             "2025-12-31",
	}
	c, w, tenantID, userID := newContext(http.MethodPost, "/api/v1/recurring", body, "")

	svc.On("Setup", mock.Anything, mock.MatchedBy(func(in *service.SetupRecurringInput) bool {
		return in.TenantID == tenantID && in.CreatedBy == userID && in.TemplateDocumentID == templateID &&
			in.Frequency == domain.FrequencyQuarterly && in.DayOfMonth == 31 &&
			in.EndDate != nil && in.EndDate.Equal(time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	})).Return(&domain.RecurringDocumentConfig{ID: uuid.New(), IsActive: true}, nil)

	h.Create(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestRecurringHandler_Create_TemplateNotFound(t *testing.T) {
	svc := new(mocks.MockRecurringService)
	h := handler.NewRecurringHandler(svc)
	body := map[string]string{"template_document_id": uuid.New().String(), "frequency": "monthly"}
	c, w, _, _ := newContext(http.MethodPost, "/api/v1/recurring", body, "")
	svc.On("Setup", mock.Anything, mock.Anything).Return(nil, domain.ErrTemplateNotFound)

	h.Create(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TEMPLATE_NOT_FOUND", decode(t, w).Error.Code)
}

func TestRecurringHandler_Deactivate(t *testing.T) {
	svc := new(mocks.MockRecurringService)
	h := handler.NewRecurringHandler(svc)
	configID := uuid.New()
	c, w, tenantID, _ := newContext(http.MethodPost, "/x", nil, configID.String())
	svc.On("Deactivate", mock.Anything, tenantID, configID).
		Return(&domain.RecurringDocumentConfig{ID: configID, IsActive: false}, nil)

	h.Deactivate(c)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRecurringHandler_Run(t *testing.T) {
	svc := new(mocks.MockRecurringService)
	h := handler.NewRecurringHandler(svc)
	c, w, _, _ := newContext(http.MethodPost, "/api/v1/recurring/run", nil, "")
	svc.On("ProcessRecurringDocuments", mock.Anything).
		Return(&service.ProcessResult{Processed: 2, Errors: []string{"recurring config x: boom"}}, nil)

	h.Run(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(2), data["processed"])
	assert.Len(t, data["errors"], 1)
}

func TestDashboardHandler_Summary(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	h := handler.NewDashboardHandler(svc)
	c, w, tenantID, _ := newContext(http.MethodGet, "/api/v1/dashboard", nil, "")
	svc.On("Summary", mock.Anything, tenantID).Return(&domain.DashboardSummary{
		Outstanding: domain.AmountSummary{Count: 3, Amount: decimal.RequireFromString("300.00")},
		ClientCount: 4,
	}, nil)

	h.Summary(c)

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w).Data.(map[string]interface{})
	assert.Equal(t, float64(4), data["client_count"])
}
