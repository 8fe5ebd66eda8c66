package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const healthCheckTimeout = 2 * time.Second

// Pinger reports whether a backing service is reachable.
type Pinger func(ctx context.Context) error

// HealthController handles health check endpoints.
type HealthController struct {
	database Pinger
	redis    Pinger
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	Status    string `json:"status"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
	Timestamp string `json:"timestamp"`
}

// NewHealthController creates a new health controller instance.
func NewHealthController(database, redis Pinger) *HealthController {
	return &HealthController{
		database: database,
		redis:    redis,
	}
}

// Check handles GET /health requests.
// It answers 503 when the database is unreachable. Redis is reported but
// does not fail the check.
func (h *HealthController) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthCheckTimeout)
	defer cancel()

	response := HealthResponse{
		Status:    "ok",
		Database:  probe(ctx, h.database),
		Redis:     probe(ctx, h.redis),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}

	status := http.StatusOK
	if response.Database != "connected" {
		response.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, response)
}

func probe(ctx context.Context, ping Pinger) string {
	if ping == nil || ping(ctx) != nil {
		return "disconnected"
	}
	return "connected"
}
