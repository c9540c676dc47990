package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"fintrack/internal/cache"
	"fintrack/internal/report"
)

// HealthHandler reports service health for probes and dashboards.
type HealthHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	report *report.Client
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *gorm.DB, c *cache.Cache, r *report.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: c, report: r}
}

// Health is the basic health check.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Live is the liveness probe; it answers as long as the process runs.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Ready is the readiness probe; it requires a working database.
func (h *HealthHandler) Ready(c *gin.Context) {
	if err := h.pingDB(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "error": "database unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// Detailed reports per-dependency health. Optional dependencies (redis,
// report service) degrade the report but never the status code.
func (h *HealthHandler) Detailed(c *gin.Context) {
	checks := gin.H{}

	if err := h.pingDB(); err != nil {
		checks["database"] = gin.H{"status": "down", "error": err.Error()}
	} else {
		checks["database"] = gin.H{"status": "up"}
	}

	if h.cache.Enabled() {
		if err := h.cache.Ping(c.Request.Context()); err != nil {
			checks["redis"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["redis"] = gin.H{"status": "up"}
		}
	} else {
		checks["redis"] = gin.H{"status": "disabled"}
	}

	if h.report.Enabled() {
		if err := h.report.Health(c.Request.Context()); err != nil {
			checks["report_service"] = gin.H{"status": "down", "error": err.Error()}
		} else {
			checks["report_service"] = gin.H{"status": "up"}
		}
	} else {
		checks["report_service"] = gin.H{"status": "disabled"}
	}

	status := http.StatusOK
	overall := "ok"
	if checks["database"].(gin.H)["status"] == "down" {
		status = http.StatusServiceUnavailable
		overall = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    overall,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"checks":    checks,
	})
}

func (h *HealthHandler) pingDB() error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}
