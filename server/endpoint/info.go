package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/typedflow/observability"
	"github.com/kbukum/typedflow/version"
)

var startTime = time.Now()

// InfoResponse is the /info body.
type InfoResponse struct {
	Service string       `json:"service"`
	Build   version.Info `json:"build"`
	Uptime  string       `json:"uptime"`
}

// Info reports build information and uptime.
func Info(service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: service,
			Build:   version.Get(),
			Uptime:  time.Since(startTime).Round(time.Second).String(),
		})
	}
}

// Register mounts /health, /alive, /ready and /info on r.
func Register(r gin.IRoutes, service, ver string, src observability.HealthSource) {
	r.GET("/health", Health(service, ver, src))
	r.GET("/alive", Liveness(service))
	r.GET("/ready", Readiness(service, src))
	r.GET("/info", Info(service))
}
