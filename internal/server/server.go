package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/mantonx/moviecatalog/internal/middleware"
	"github.com/mantonx/moviecatalog/internal/modules/modulemanager"
	"github.com/mantonx/moviecatalog/internal/storage"

	// Import all modules to trigger their registration
	_ "github.com/mantonx/moviecatalog/internal/modules/catalogmodule"
)

// SetupRouter configures and returns the main router. Modules must already
// be loaded; their routes are mounted last.
func SetupRouter(cfg *config.Config, store storage.Store) *gin.Engine {
	r := gin.New()
	// gin believes X-Forwarded-For from any peer by default; ratings are
	// keyed on the client address, so only configured proxies are trusted
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Warn("Ignoring invalid trusted proxies: %v", err)
		_ = r.SetTrustedProxies(nil)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.ErrorLogger())
	r.Use(cors.New(corsConfig(cfg.Server)))

	setupHealthRoutes(r.Group("/api"))
	setupMediaRoutes(r, store)

	modulemanager.RegisterRoutes(r)
	logModuleStatus()
	return r
}

func corsConfig(cfg config.ServerConfig) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders: []string{middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// setupMediaRoutes serves uploaded images straight from disk when the local
// store is in use and its base URL is a path on this server
func setupMediaRoutes(r *gin.Engine, store storage.Store) {
	local, ok := store.(*storage.LocalStore)
	if !ok {
		return
	}
	prefix := local.BaseURL()
	if !strings.HasPrefix(prefix, "/") {
		return
	}
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		logger.Warn("Media base URL is the site root; not serving media files")
		return
	}
	r.Static(prefix, local.Root())
	logger.Info("Serving media files", []logger.Field{
		logger.String("prefix", prefix),
		logger.String("root", local.Root()),
	})
}

// NewHTTPServer wraps handler in an http.Server using the configured limits
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:           fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:        handler,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		MaxHeaderBytes: cfg.MaxHeaderBytes,
	}
}

// logModuleStatus logs the loaded modules
func logModuleStatus() {
	for _, module := range modulemanager.ListModules() {
		logger.Info("Module loaded", []logger.Field{
			logger.String("name", module.Name()),
			logger.String("id", module.ID()),
			logger.Bool("core", module.Core()),
		})
	}
}
