package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/observability"
)

// HealthResponse is the /health body.
type HealthResponse struct {
	*observability.ServiceHealth
	Timestamp string `json:"timestamp"`
}

// Health reports service and component health. It answers 503 when any
// component is unhealthy. src may be nil.
func Health(service, version string, src observability.HealthSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.Check(c.Request.Context(), service, version, src)
		status := http.StatusOK
		if !sh.Healthy() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, HealthResponse{
			ServiceHealth: sh,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// Liveness confirms the process can serve HTTP.
func Liveness(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "alive", "service": service})
	}
}

// Readiness answers 503 while any component is unhealthy.
func Readiness(service string, src observability.HealthSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		sh := observability.Check(c.Request.Context(), service, "", src)
		if !sh.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "service": service})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready", "service": service})
	}
}
