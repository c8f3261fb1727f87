package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docflow/internal/service"
)

// RecurringHandler handles recurring document schedules.
type RecurringHandler struct {
	recurringService service.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler.
func NewRecurringHandler(recurringService service.RecurringService) *RecurringHandler {
	return &RecurringHandler{recurringService: recurringService}
}

// Create handles POST /api/v1/recurring
// @Summary Schedule a recurring document
// @Description Clones the template document on every period. day_of_month and month default to the template's issue date.
// @Tags recurring
// @Accept json
// @Produce json
// @Param request body SetupRecurringRequest true "Schedule"
// @Success 201 {object} Response{data=domain.RecurringDocumentConfig}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Template document not found"
// @Security BearerAuth
// @Router /recurring [post]
func (h *RecurringHandler) Create(c *gin.Context) {
	tenantID, userID, _, ok := extractAuthContext(c)
	if !ok {
		return
	}

	var req SetupRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "template_document_id and frequency are required")
		return
	}
	end, err := parseDate("end_date", req.EndDate)
	if err != nil {
		HandleError(c, err)
		return
	}

	cfg, err := h.recurringService.Setup(c.Request.Context(), &service.SetupRecurringInput{
		TenantID:           tenantID,
		CreatedBy:          userID,
		TemplateDocumentID: req.TemplateDocumentID,
		Frequency:          req.Frequency,
		DayOfMonth:         req.DayOfMonth,
		Month:              req.Month,
		EndDate:            end,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, cfg)
}

// List handles GET /api/v1/recurring
// @Summary List recurring schedules
// @Tags recurring
// @Produce json
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.RecurringDocumentConfig}
// @Security BearerAuth
// @Router /recurring [get]
func (h *RecurringHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	configs, total, err := h.recurringService.List(c.Request.Context(), tenantID, offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, configs, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/recurring/:id
// @Summary Get a recurring schedule
// @Tags recurring
// @Produce json
// @Param id path string true "Recurring config ID (UUID)"
// @Success 200 {object} Response{data=domain.RecurringDocumentConfig}
// @Failure 404 {object} ErrorResponseBody "Recurring config not found"
// @Security BearerAuth
// @Router /recurring/{id} [get]
func (h *RecurringHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	configID, ok := parseIDParam(c, "recurring config")
	if !ok {
		return
	}

	cfg, err := h.recurringService.GetByID(c.Request.Context(), tenantID, configID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// Deactivate handles POST /api/v1/recurring/:id/deactivate
// @Summary Stop a recurring schedule
// @Tags recurring
// @Produce json
// @Param id path string true "Recurring config ID (UUID)"
// @Success 200 {object} Response{data=domain.RecurringDocumentConfig}
// @Failure 404 {object} ErrorResponseBody "Recurring config not found"
// @Security BearerAuth
// @Router /recurring/{id}/deactivate [post]
func (h *RecurringHandler) Deactivate(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	configID, ok := parseIDParam(c, "recurring config")
	if !ok {
		return
	}

	cfg, err := h.recurringService.Deactivate(c.Request.Context(), tenantID, configID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, cfg)
}

// Run handles POST /api/v1/recurring/run
// @Summary Run the recurring batch now
// @Description Generates every due document across all tenants. Failures of single schedules are listed in errors.
// @Tags recurring
// @Produce json
// @Success 200 {object} Response{data=service.ProcessResult}
// @Failure 403 {object} ErrorResponseBody "Admin only"
// @Security BearerAuth
// @Router /recurring/run [post]
func (h *RecurringHandler) Run(c *gin.Context) {
	if _, _, _, ok := extractAuthContext(c); !ok {
		return
	}
	result, err := h.recurringService.ProcessRecurringDocuments(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}
