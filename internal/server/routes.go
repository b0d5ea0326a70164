package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/modules/modulemanager"
)

const readyTimeout = 2 * time.Second

var errNoDatabase = errors.New("database not initialized")

// setupHealthRoutes configures health check and status endpoints
func setupHealthRoutes(api *gin.RouterGroup) {
	api.GET("/health", handleHealth)
	api.GET("/ready", handleReady)
}

// handleHealth reports that the process is serving requests
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleReady pings the database and asks every module for its status
func handleReady(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
	defer cancel()

	response := gin.H{"status": "ready"}
	status := http.StatusOK

	if err := pingDatabase(ctx); err != nil {
		response["status"] = "unavailable"
		response["database"] = err.Error()
		status = http.StatusServiceUnavailable
	} else {
		response["database"] = "ok"
	}

	modules := modulemanager.HealthAll(ctx)
	for _, h := range modules {
		if h.Status == modulemanager.HealthStateUnhealthy {
			response["status"] = "unavailable"
			status = http.StatusServiceUnavailable
		}
	}
	response["modules"] = modules

	c.JSON(status, response)
}

func pingDatabase(ctx context.Context) error {
	db := database.GetDB()
	if db == nil {
		return errNoDatabase
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
