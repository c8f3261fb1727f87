package handler

import (
	"github.com/gin-gonic/gin"

	"docflow/internal/service"
)

// DashboardHandler serves the tenant overview.
type DashboardHandler struct {
	dashboardService service.DashboardService
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(dashboardService service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary handles GET /api/v1/dashboard
// @Summary Tenant dashboard
// @Description Status counts, outstanding and overdue balances, and this month's invoicing and payments
// @Tags dashboard
// @Produce json
// @Success 200 {object} Response{data=domain.DashboardSummary}
// @Security BearerAuth
// @Router /dashboard [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	summary, err := h.dashboardService.Summary(c.Request.Context(), tenantID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, summary)
}
