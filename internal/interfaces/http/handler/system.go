package handler

import (
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports backing-store connectivity
type Pinger interface {
	Ping() error
}

// SystemHandler handles health and status endpoints
type SystemHandler struct {
	*BaseHandler
	db        Pinger
	appName   string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db Pinger, appName, version string) *SystemHandler {
	return &SystemHandler{
		BaseHandler: NewBaseHandler(),
		db:          db,
		appName:     appName,
		version:     version,
		startTime:   time.Now(),
	}
}

// RegisterRoutes registers system routes on the given router group
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health reports service and database status
func (h *SystemHandler) Health(c *gin.Context) {
	dbStatus := "ok"
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			dbStatus = "unavailable"
		}
	}

	h.Success(c, gin.H{
		"service":  h.appName,
		"version":  h.version,
		"status":   "ok",
		"database": dbStatus,
		"uptime":   time.Since(h.startTime).Round(time.Second).String(),
	})
}
