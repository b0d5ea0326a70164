package modulemanager

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/logger"
	"gorm.io/gorm"
)

// ModuleRegistry manages module registration and initialization
type ModuleRegistry struct {
	modules         []Module
	disabledModules map[string]bool
	services        map[string]interface{}
	loaded          []Module
	mu              sync.RWMutex
	initialized     bool
}

// Registry is the global module registry
var Registry = NewRegistry()

// NewRegistry returns an empty registry
func NewRegistry() *ModuleRegistry {
	return &ModuleRegistry{
		disabledModules: make(map[string]bool),
		services:        make(map[string]interface{}),
	}
}

// Register adds a module to the registry
func Register(m Module) {
	Registry.Register(m)
}

// Register adds a module to the registry. Registering an ID twice replaces the
// earlier module in place.
func (r *ModuleRegistry) Register(m Module) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module %s (%s) registered after initialization", m.Name(), m.ID())
	}

	for i, existing := range r.modules {
		if existing.ID() == m.ID() {
			r.modules[i] = m
			return
		}
	}
	r.modules = append(r.modules, m)
	logger.Debug("Module registered: %s (%s)", m.Name(), m.ID())
}

// Provide makes a shared service available to modules implementing ServiceInjector
func Provide(name string, service interface{}) {
	Registry.Provide(name, service)
}

// Provide makes a shared service available to modules implementing ServiceInjector
func (r *ModuleRegistry) Provide(name string, service interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services[name] = service
}

// LoadAll initializes all registered modules
func LoadAll(db *gorm.DB) error {
	return Registry.LoadAll(db)
}

// LoadAll migrates and initializes every enabled module in dependency order
func (r *ModuleRegistry) LoadAll(db *gorm.DB) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		logger.Warn("Module system already initialized")
		return nil
	}

	enabled := make([]Module, 0, len(r.modules))
	for _, module := range r.modules {
		if r.disabledModules[module.ID()] {
			if module.Core() {
				return fmt.Errorf("attempted to disable core module: %s", module.ID())
			}
			logger.Warn("Skipping module %s (disabled)", module.Name())
			continue
		}
		enabled = append(enabled, module)
	}

	order, err := initializationOrder(enabled)
	if err != nil {
		return fmt.Errorf("failed to determine initialization order: %w", err)
	}

	logger.Info("Loading %d modules", len(order))

	services := make(map[string]interface{}, len(r.services))
	for k, v := range r.services {
		services[k] = v
	}

	for i, module := range order {
		logger.Info("[%d/%d] Initializing module: %s", i+1, len(order), module.Name())

		if injector, ok := module.(ServiceInjector); ok {
			if err := injector.InjectServices(services); err != nil {
				return fmt.Errorf("failed to inject services for %s: %w", module.Name(), err)
			}
		}

		if err := module.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", module.Name(), err)
		}

		if err := module.Init(); err != nil {
			return fmt.Errorf("failed to initialize %s: %w", module.Name(), err)
		}

		r.loaded = append(r.loaded, module)
	}

	r.initialized = true
	return nil
}

// DisableModule marks a module as disabled (for development/testing only)
func DisableModule(id string) {
	Registry.DisableModule(id)
}

// DisableModule marks a module as disabled
func (r *ModuleRegistry) DisableModule(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	module := r.find(id)
	if module == nil {
		logger.Warn("Attempted to disable non-existent module: %s", id)
		return
	}
	if module.Core() {
		logger.Error("Cannot disable core module: %s", id)
		return
	}

	r.disabledModules[id] = true
	logger.Info("Module disabled: %s", id)
}

func (r *ModuleRegistry) find(id string) Module {
	for _, m := range r.modules {
		if m.ID() == id {
			return m
		}
	}
	return nil
}

// GetModule returns a module by ID
func GetModule(id string) (Module, bool) {
	return Registry.GetModule(id)
}

// GetModule returns a module by ID
func (r *ModuleRegistry) GetModule(id string) (Module, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m := r.find(id)
	return m, m != nil
}

// ListModules returns all registered modules in registration order
func ListModules() []Module {
	return Registry.ListModules()
}

// ListModules returns all registered modules in registration order
func (r *ModuleRegistry) ListModules() []Module {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Module(nil), r.modules...)
}

// RegisterRoutes registers routes for all modules that implement RouteRegistrar
func RegisterRoutes(router *gin.Engine) {
	Registry.RegisterRoutes(router)
}

// RegisterRoutes registers routes for all loaded modules that implement RouteRegistrar
func (r *ModuleRegistry) RegisterRoutes(router *gin.Engine) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, module := range r.loaded {
		if routeRegistrar, ok := module.(RouteRegistrar); ok {
			logger.Info("Registering routes for module: %s", module.Name())
			routeRegistrar.RegisterRoutes(router)
		}
	}
}

// HealthAll collects the status of every loaded module that reports one
func HealthAll(ctx context.Context) map[string]HealthStatus {
	return Registry.HealthAll(ctx)
}

// HealthAll collects the status of every loaded module that reports one
func (r *ModuleRegistry) HealthAll(ctx context.Context) map[string]HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]HealthStatus)
	for _, module := range r.loaded {
		if hc, ok := module.(HealthChecker); ok {
			status := hc.HealthCheck(ctx)
			if status.LastChecked.IsZero() {
				status.LastChecked = time.Now()
			}
			out[module.ID()] = status
		}
	}
	return out
}

// ShutdownAll stops loaded modules in reverse initialization order
func ShutdownAll(ctx context.Context) error {
	return Registry.ShutdownAll(ctx)
}

// ShutdownAll stops loaded modules in reverse initialization order
func (r *ModuleRegistry) ShutdownAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var errs []error
	for i := len(r.loaded) - 1; i >= 0; i-- {
		module := r.loaded[i]
		s, ok := module.(Shutdowner)
		if !ok {
			continue
		}
		if err := s.Shutdown(ctx); err != nil {
			logger.Error("Module shutdown failed", []logger.Field{
				logger.String("module", module.ID()),
				logger.Err("error", err),
			})
			errs = append(errs, fmt.Errorf("%s: %w", module.ID(), err))
		}
	}
	r.loaded = nil
	r.initialized = false
	return errors.Join(errs...)
}

// ClearForTesting resets the global registry
func ClearForTesting() {
	Registry = NewRegistry()
}
