// Package modulemanager provides interfaces for the module system
package modulemanager

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Module defines the interface that all modules must implement
type Module interface {
	ID() string                // Unique identifier for the module
	Name() string              // Display name for the module
	Core() bool                // Whether this is a core module (cannot be disabled)
	Migrate(db *gorm.DB) error // Run database migrations
	Init() error               // Initialize the module
}

// RouteRegistrar is an optional interface for modules that need to register routes
type RouteRegistrar interface {
	RegisterRoutes(router *gin.Engine)
}

// Shutdowner is an optional interface for modules holding resources that must
// be released when the process stops
type Shutdowner interface {
	Shutdown(ctx context.Context) error
}

// DependencyProvider is an optional interface for modules that declare dependencies
type DependencyProvider interface {
	// Dependencies returns the list of module IDs this module depends on
	Dependencies() []string
}

// ServiceInjector is an optional interface for modules that need services injected
type ServiceInjector interface {
	// InjectServices is called after ordering but before Init().
	// The services map holds everything passed to Provide, keyed by name
	InjectServices(services map[string]interface{}) error
}

// HealthChecker is an optional interface for modules that can report health status
type HealthChecker interface {
	HealthCheck(ctx context.Context) HealthStatus
}

// HealthStatus represents the health of a module
type HealthStatus struct {
	Status      HealthState            `json:"status"`
	Message     string                 `json:"message,omitempty"`
	LastChecked time.Time              `json:"last_checked"`
	Details     map[string]interface{} `json:"details,omitempty"`
}

// HealthState represents the state of a module's health
type HealthState string

const (
	HealthStateHealthy   HealthState = "healthy"
	HealthStateDegraded  HealthState = "degraded"
	HealthStateUnhealthy HealthState = "unhealthy"
)
