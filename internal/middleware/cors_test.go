package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"docflow/internal/middleware"
)

func corsRouter(origins ...string) *gin.Engine {
	r := gin.New()
	r.Use(middleware.CORS(origins))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	return r
}

func TestCORS_AllowedOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("Origin", "https://app.docflow.test")
	corsRouter("https://app.docflow.test").ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://app.docflow.test", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "Content-Disposition")
}

func TestCORS_UnknownOrigin(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("Origin", "https://evil.test")
	corsRouter("https://app.docflow.test").ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Wildcard(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", http.NoBody)
	req.Header.Set("Origin", "https://any.test")
	corsRouter("*").ServeHTTP(w, req)

	assert.Equal(t, "https://any.test", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodOptions, "/x", http.NoBody)
	req.Header.Set("Origin", "https://app.docflow.test")
	corsRouter("https://app.docflow.test").ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
