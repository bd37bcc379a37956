package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const serviceName = "cap-order-service"

var errDatabaseNotConfigured = errors.New("database not configured")

// ConnectionChecker reports the state of an optional connection
type ConnectionChecker interface {
	IsConnected() bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db     *gorm.DB
	events ConnectionChecker
}

// NewHealthHandler creates a new health handler. events may be nil when the event bus is off.
func NewHealthHandler(db *gorm.DB, events ConnectionChecker) *HealthHandler {
	return &HealthHandler{db: db, events: events}
}

// Health returns basic health status
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Livez returns liveness status
func (h *HealthHandler) Livez(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// Readyz returns readiness status. The event bus is reported but never blocks readiness.
func (h *HealthHandler) Readyz(c *gin.Context) {
	status := "ready"
	httpStatus := http.StatusOK

	checks := make(map[string]string)

	if err := h.pingDatabase(c.Request.Context()); err != nil {
		checks["database"] = "error: " + err.Error()
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["database"] = "connected"
	}

	switch {
	case h.events == nil:
		checks["nats"] = "disabled"
	case h.events.IsConnected():
		checks["nats"] = "connected"
	default:
		checks["nats"] = "disconnected"
	}

	c.JSON(httpStatus, gin.H{
		"status": status,
		"checks": checks,
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) error {
	if h.db == nil {
		return errDatabaseNotConfigured
	}
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
