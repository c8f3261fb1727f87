package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"docflow/internal/service"
)

// ClientHandler handles client management endpoints.
type ClientHandler struct {
	clientService service.ClientService
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

func bindClient(c *gin.Context) (*ClientRequest, bool) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "name is required")
		return nil, false
	}
	return &req, true
}

// Create handles POST /api/v1/clients
// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Param request body ClientRequest true "Client details"
// @Success 201 {object} Response{data=domain.Client}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /clients [post]
func (h *ClientHandler) Create(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	req, ok := bindClient(c)
	if !ok {
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &service.ClientInput{
		TenantID:  tenantID,
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		VATNumber: req.VATNumber,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, client)
}

// List handles GET /api/v1/clients
// @Summary List clients
// @Description Lists clients of the tenant, optionally filtered by a name or email search
// @Tags clients
// @Produce json
// @Param search query string false "Case-insensitive name or email fragment"
// @Param offset query int false "Offset" default(0)
// @Param limit query int false "Limit" default(20)
// @Success 200 {object} Response{data=[]domain.Client}
// @Failure 401 {object} ErrorResponseBody "Unauthorized"
// @Security BearerAuth
// @Router /clients [get]
func (h *ClientHandler) List(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	offset, limit := parsePagination(c)

	clients, total, err := h.clientService.List(c.Request.Context(), tenantID, c.Query("search"), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondPaginated(c, clients, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/clients/:id
// @Summary Get a client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} Response{data=domain.Client}
// @Failure 400 {object} ErrorResponseBody "Invalid ID"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [get]
func (h *ClientHandler) GetByID(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "client")
	if !ok {
		return
	}

	client, err := h.clientService.GetByID(c.Request.Context(), tenantID, clientID)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Update handles PUT /api/v1/clients/:id
// @Summary Update a client
// @Tags clients
// @Accept json
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Param request body ClientRequest true "Client details"
// @Success 200 {object} Response{data=domain.Client}
// @Failure 400 {object} ErrorResponseBody "Invalid request"
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Security BearerAuth
// @Router /clients/{id} [put]
func (h *ClientHandler) Update(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "client")
	if !ok {
		return
	}
	req, ok := bindClient(c)
	if !ok {
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), &service.ClientInput{
		TenantID:  tenantID,
		ClientID:  clientID,
		Name:      req.Name,
		Email:     req.Email,
		Address:   req.Address,
		VATNumber: req.VATNumber,
	})
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, client)
}

// Delete handles DELETE /api/v1/clients/:id
// @Summary Delete a client
// @Description Fails with 409 while documents still reference the client
// @Tags clients
// @Produce json
// @Param id path string true "Client ID (UUID)"
// @Success 200 {object} Response{data=MessageResponse}
// @Failure 404 {object} ErrorResponseBody "Client not found"
// @Failure 409 {object} ErrorResponseBody "Client in use"
// @Security BearerAuth
// @Router /clients/{id} [delete]
func (h *ClientHandler) Delete(c *gin.Context) {
	tenantID, _, _, ok := extractAuthContext(c)
	if !ok {
		return
	}
	clientID, ok := parseIDParam(c, "client")
	if !ok {
		return
	}

	if err := h.clientService.Delete(c.Request.Context(), tenantID, clientID); err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, gin.H{"message": "client deleted"})
}
