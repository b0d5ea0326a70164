package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/middleware"
	"github.com/mantonx/moviecatalog/internal/modules/modulemanager"
	"github.com/mantonx/moviecatalog/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestRouter loads the registered modules against a fresh database. The
// module registry is process-wide, so each call starts from a clean copy
// holding only the catalog module.
func newTestRouter(t *testing.T, mutate ...func(*config.Config)) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	modules := modulemanager.ListModules()
	modulemanager.ClearForTesting()
	for _, m := range modules {
		modulemanager.Register(m)
	}

	dir := t.TempDir()
	db, err := database.Initialize(config.DatabaseFullConfig{Type: "sqlite", DataDir: dir})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	mediaRoot := filepath.Join(dir, "media")
	store, err := storage.NewLocalStore(mediaRoot, "/media/")
	require.NoError(t, err)

	cfg := config.DefaultConfig()
	for _, fn := range mutate {
		fn(cfg)
	}
	modulemanager.Provide("storage", store)
	modulemanager.Provide("config", cfg)
	require.NoError(t, modulemanager.LoadAll(db))

	return SetupRouter(cfg, store), mediaRoot
}

func TestHealthAndReady(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ready", nil))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ready", body["status"])
	assert.Equal(t, "ok", body["database"])
	assert.Contains(t, body["modules"], "system.catalog")
}

func TestCatalogRoutesMounted(t *testing.T) {
	r, _ := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/rating-stars", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Stars []json.RawMessage `json:"stars"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Stars, 5)
}

func TestMediaServedFromLocalStore(t *testing.T) {
	r, root := newTestRouter(t)
	require.NoError(t, os.MkdirAll(filepath.Join(root, "movies"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "movies", "p.jpg"), []byte("jpeg"), 0644))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/media/movies/p.jpg", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "jpeg", w.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/movies", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestClientIPIgnoresForwardedHeaderFromUntrustedPeer(t *testing.T) {
	clientIP := func(r *gin.Engine) string {
		r.GET("/whoami", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.RemoteAddr = "192.0.2.10:5000"
		req.Header.Set("X-Forwarded-For", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return w.Body.String()
	}

	r, _ := newTestRouter(t)
	assert.Equal(t, "192.0.2.10", clientIP(r))

	r, _ = newTestRouter(t, func(cfg *config.Config) {
		cfg.Server.TrustedProxies = []string{"192.0.2.0/24"}
	})
	assert.Equal(t, "203.0.113.7", clientIP(r))
}
