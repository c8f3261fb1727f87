package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"docflow/internal/middleware"
)

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger())
	r.GET("/x", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(middleware.ContextKeyRequestID))
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", http.NoBody)
	r.ServeHTTP(w, req)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	assert.Equal(t, w.Header().Get("X-Request-ID"), w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/boom", http.NoBody)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_ERROR")
}
