package health_check_api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/prospectdial/config"
	"github.com/prospectdial/pkg/commons"
	"github.com/prospectdial/pkg/connectors"
)

type healthCheckApi struct {
	cfg      *config.AppConfig
	logger   commons.Logger
	postgres connectors.PostgresConnector
}

// New creates the health check api.
func New(cfg *config.AppConfig, logger commons.Logger, postgres connectors.PostgresConnector) *healthCheckApi {
	return &healthCheckApi{cfg: cfg, logger: logger, postgres: postgres}
}

// Healthz reports process liveness.
func (h *healthCheckApi) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": h.cfg.Name,
		"version": h.cfg.Version,
		"status":  "ok",
	})
}

// Readiness reports whether the store is reachable.
func (h *healthCheckApi) Readiness(c *gin.Context) {
	if h.postgres != nil {
		if err := h.postgres.Ping(c.Request.Context()); err != nil {
			h.logger.Warnf("readiness: postgres unreachable: %v", err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "postgres unreachable"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}
