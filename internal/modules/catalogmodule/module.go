package catalogmodule

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/api"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule/service"
	"github.com/mantonx/moviecatalog/internal/modules/modulemanager"
	"github.com/mantonx/moviecatalog/internal/storage"
	"gorm.io/gorm"
)

// Auto-register the module when imported
func init() {
	Register()
}

const (
	// ModuleID is the unique identifier for the catalog module
	ModuleID = "system.catalog"

	// ModuleName is the display name for the catalog module
	ModuleName = "Movie Catalog"

	// ServiceStorage and ServiceConfig are the names the module expects
	// shared services under
	ServiceStorage = "storage"
	ServiceConfig  = "config"
)

// Module wires the catalog repositories, service and HTTP handlers
type Module struct {
	db      *gorm.DB
	store   storage.Store
	cfg     *config.Config
	service *service.CatalogService
	handler *api.Handler
}

// Register registers the catalog module with the module system
func Register() {
	modulemanager.Register(&Module{})
}

func (m *Module) ID() string   { return ModuleID }
func (m *Module) Name() string { return ModuleName }
func (m *Module) Core() bool   { return true }

// InjectServices picks up the image store and configuration
func (m *Module) InjectServices(services map[string]interface{}) error {
	if s, ok := services[ServiceStorage]; ok {
		store, ok := s.(storage.Store)
		if !ok {
			return fmt.Errorf("service %q is %T, not a storage.Store", ServiceStorage, s)
		}
		m.store = store
	}
	if c, ok := services[ServiceConfig]; ok {
		cfg, ok := c.(*config.Config)
		if !ok {
			return fmt.Errorf("service %q is %T, not *config.Config", ServiceConfig, c)
		}
		m.cfg = cfg
	}
	return nil
}

// Migrate creates or updates the catalog tables
func (m *Module) Migrate(db *gorm.DB) error {
	logger.Info("Migrating catalog database schema")
	m.db = db
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("failed to migrate catalog models: %w", err)
	}
	return nil
}

// Init builds the catalog service
func (m *Module) Init() error {
	logger.Info("Initializing catalog module")

	if m.db == nil {
		m.db = database.GetDB()
	}
	if m.db == nil {
		return fmt.Errorf("catalog module has no database")
	}
	if m.store == nil {
		logger.Warn("No media store provided; image uploads are disabled")
	}

	cfg := m.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m.service = service.NewCatalogService(m.db, m.store, service.Options{
		DefaultPageSize: cfg.Catalog.DefaultPageSize,
		MaxPageSize:     cfg.Catalog.MaxPageSize,
		MaxUploadSize:   cfg.Media.MaxFileSize,
	})
	m.handler = api.NewHandler(m.service)

	if len(cfg.Catalog.SeedStars) > 0 {
		values := make([]int16, len(cfg.Catalog.SeedStars))
		for i, v := range cfg.Catalog.SeedStars {
			values[i] = int16(v)
		}
		if _, err := m.service.SeedRatingStars(context.Background(), values...); err != nil {
			return fmt.Errorf("failed to seed rating stars: %w", err)
		}
	}
	return nil
}

// Service returns the catalog service once the module is initialized
func (m *Module) Service() *service.CatalogService {
	return m.service
}

// RegisterRoutes registers HTTP routes
func (m *Module) RegisterRoutes(router *gin.Engine) {
	logger.Info("Registering catalog module routes")
	api.RegisterRoutes(router, m.handler)
}

// HealthCheck pings the catalog database
func (m *Module) HealthCheck(ctx context.Context) modulemanager.HealthStatus {
	status := modulemanager.HealthStatus{Status: modulemanager.HealthStateHealthy, LastChecked: time.Now()}
	if m.service == nil {
		status.Status = modulemanager.HealthStateUnhealthy
		status.Message = "not initialized"
		return status
	}
	if err := m.service.Ping(ctx); err != nil {
		status.Status = modulemanager.HealthStateUnhealthy
		status.Message = err.Error()
		return status
	}
	if m.store == nil {
		status.Status = modulemanager.HealthStateDegraded
		status.Message = "no media store"
	}
	return status
}

// Shutdown releases nothing of its own; the database is closed by main
func (m *Module) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down catalog module")
	return nil
}
