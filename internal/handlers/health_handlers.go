package handlers

import (
	"context"
	"net/http"
	"time"

	"invoicedash/internal/caching"
	"invoicedash/internal/logger"

	"github.com/labstack/echo/v4"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandlers handles health check endpoints
type HealthHandlers struct {
	db       Pinger
	cacheSvc caching.CacheService
	version  string
	log      *logger.Logger
}

// NewHealthHandlers creates a new health handlers instance
func NewHealthHandlers(db Pinger, cacheSvc caching.CacheService, version string, log *logger.Logger) *HealthHandlers {
	return &HealthHandlers{
		db:       db,
		cacheSvc: cacheSvc,
		version:  version,
		log:      log,
	}
}

// HealthStatus represents the overall health status
type HealthStatus struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Services  map[string]string `json:"services"`
	Version   string            `json:"version"`
}

// HealthCheck handles GET /health
func (h *HealthHandlers) HealthCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	health := &HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Services:  make(map[string]string),
		Version:   h.version,
	}

	checks := map[string]func(context.Context) error{
		"database": h.db.Ping,
		"cache":    h.cacheSvc.Ping,
	}
	for name, check := range checks {
		if err := check(ctx); err != nil {
			h.log.Warnw("health check failed", "service", name, "error", err)
			health.Services[name] = "unhealthy"
			health.Status = "degraded"
			continue
		}
		health.Services[name] = "healthy"
	}

	statusCode := http.StatusOK
	if health.Status == "degraded" {
		statusCode = http.StatusServiceUnavailable
	}

	return c.JSON(statusCode, health)
}
