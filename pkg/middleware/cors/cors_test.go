package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func serve(t *testing.T, origins []string, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(New(origins))
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(method, "/ping", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoopbackOriginsAllowedByDefault(t *testing.T) {
	w := serve(t, nil, http.MethodGet, "http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(t, nil, http.MethodGet, "http://127.0.0.1:3000")
	assert.Equal(t, "http://127.0.0.1:3000", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(t, nil, http.MethodGet, "https://evil.example")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestConfiguredOrigins(t *testing.T) {
	w := serve(t, []string{"https://sis.example/"}, http.MethodGet, "https://sis.example")
	assert.Equal(t, "https://sis.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = serve(t, []string{"https://sis.example"}, http.MethodGet, "http://localhost:5173")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestPreflightShortCircuits(t *testing.T) {
	w := serve(t, nil, http.MethodOptions, "http://localhost")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
