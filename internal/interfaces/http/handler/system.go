package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/erp/accounting/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// SystemInfoResponse reports service identity and runtime details.
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// PingResponse is the liveness probe payload.
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SystemHandler serves the unauthenticated service endpoints.
type SystemHandler struct {
	BaseHandler
	startTime time.Time
}

// NewSystemHandler creates a SystemHandler anchored at the current time,
// which GetSystemInfo uses to report uptime.
func NewSystemHandler() *SystemHandler {
	return &SystemHandler{startTime: time.Now()}
}

// RegisterRoutes registers system routes on the given group. Both endpoints
// are public and expected to be on the authentication skip list.
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	system := rg.Group("/system")
	system.GET("/ping", h.Ping)
	system.GET("/info", h.GetSystemInfo)
}

// GetSystemInfo returns the service name, version and uptime.
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(SystemInfoResponse{
		Name:      "Accounting API",
		Version:   "1.0.0",
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	}))
}

// Ping answers liveness checks.
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: time.Now().Format(time.RFC3339),
	}))
}
