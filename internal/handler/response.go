package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"docflow/internal/domain"
	"docflow/internal/logger"
	"docflow/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// Validation messages are passed through since they describe caller input.
func MapDomainError(err error) (status int, code, msg string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, "VALIDATION_FAILED", verr.Error()
	case errors.Is(err, domain.ErrTemplateNotFound):
		return http.StatusNotFound, "TEMPLATE_NOT_FOUND", "template document not found"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "DOCUMENT_NOT_FOUND", "document not found"
	case errors.Is(err, domain.ErrClientNotFound):
		return http.StatusNotFound, "CLIENT_NOT_FOUND", "client not found"
	case errors.Is(err, domain.ErrRecurringConfigNotFound):
		return http.StatusNotFound, "RECURRING_CONFIG_NOT_FOUND", "recurring config not found"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrDuplicateDocumentNumber):
		return http.StatusConflict, "DUPLICATE_DOCUMENT_NUMBER", "document number already exists"
	case errors.Is(err, domain.ErrClientInUse):
		return http.StatusConflict, "CLIENT_IN_USE", "client is referenced by documents"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "INVALID_TRANSITION", err.Error()
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, "CONFLICT", "conflict"
	case errors.Is(err, domain.ErrDocumentCancelled):
		return http.StatusUnprocessableEntity, "DOCUMENT_CANCELLED", "document is cancelled"
	case errors.Is(err, domain.ErrDocumentLocked):
		return http.StatusUnprocessableEntity, "DOCUMENT_LOCKED", "document is paid or cancelled and can no longer be edited"
	case errors.Is(err, domain.ErrDocumentNotOverdue):
		return http.StatusUnprocessableEntity, "DOCUMENT_NOT_OVERDUE", "document is not overdue"
	case errors.Is(err, domain.ErrClientHasNoEmail):
		return http.StatusUnprocessableEntity, "CLIENT_HAS_NO_EMAIL", "client has no email address"
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "UNAUTHORIZED", "unauthorized"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "FORBIDDEN", "forbidden"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= http.StatusInternalServerError {
		l := logger.WithRequestID(c.GetString(middleware.ContextKeyRequestID))
		l.Error().Err(err).
			Str("path", c.Request.URL.Path).Msg("internal error")
	}
	RespondError(c, status, code, msg)
}

// extractAuthContext extracts tenant ID, user ID, and role from the request context.
// Returns false if auth context is missing (error response already written).
func extractAuthContext(c *gin.Context) (tenantID, userID uuid.UUID, role domain.UserRole, ok bool) {
	var err error
	tenantID, err = middleware.GetTenantID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing tenant context")
		return uuid.Nil, uuid.Nil, "", false
	}
	userID, err = middleware.GetUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing user context")
		return uuid.Nil, uuid.Nil, "", false
	}
	return tenantID, userID, middleware.GetRole(c), true
}

// parseIDParam parses the :id path parameter. On failure a 400 is written.
func parseIDParam(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}

const dateLayout = "2006-01-02"

// parseDate parses an optional YYYY-MM-DD value.
func parseDate(field string, s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, *s)
	if err != nil {
		return nil, domain.NewValidationError(field, "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
