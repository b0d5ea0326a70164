package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger(), ErrorLogger())
	r.POST("/echo", func(c *gin.Context) {
		body, _ := c.GetRawData()
		c.String(http.StatusOK, GetRequestID(c)+"|"+string(body))
	})
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("boom"))
		c.Status(http.StatusInternalServerError)
	})
	return r
}

func TestRequestIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("hi")))

	id := w.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id+"|hi", w.Body.String())
}

func TestRequestIDReused(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/echo", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLoggerKeepsBodyAndLogs(t *testing.T) {
	var out bytes.Buffer
	logger.Configure(logger.Options{Level: "debug", Output: &out})
	t.Cleanup(func() { logger.Configure(logger.Options{Level: "info"}) })

	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`)))
	assert.Contains(t, w.Body.String(), `{"a":1}`)
	assert.Contains(t, out.String(), "path=/echo")
	assert.Contains(t, out.String(), "status=200")

	out.Reset()
	w = httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, out.String(), "Request error")
	assert.Contains(t, out.String(), "boom")
}
