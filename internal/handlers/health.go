package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sarkargroup/smd-backend/internal/models"
	"github.com/sarkargroup/smd-backend/internal/services"
	"gorm.io/gorm"
)

// HealthHandler reports the status of the process and its backing stores.
type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// CheckHealth returns the health status of all subsystems.
// GET /smd/api/v1/health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	status := http.StatusOK

	// Database check
	dbStatus := "ok"
	sqlDB, err := h.db.DB()
	if err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	// Queue mode
	queueMode := "sync"
	if q := services.GetTaskQueue(); q != nil && q.IsAsync() {
		queueMode = "async (Redis)"
	}

	projectStatus := "ok"
	var projects int64
	if err := h.db.WithContext(c.Request.Context()).Model(&models.Project{}).
		Where("status <> ?", models.ProjectCompleted).
		Count(&projects).Error; err != nil {
		projectStatus = "error: " + err.Error()
		overall = "unhealthy"
	}

	if overall != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":  overall,
		"service": "smd",
		"components": gin.H{
			"database":        dbStatus,
			"queue_mode":      queueMode,
			"projects":        projectStatus,
			"active_projects": projects,
		},
	})
}
