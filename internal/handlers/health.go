package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	body := gin.H{"status": "ok", "environment": h.cfg.Environment}
	for _, check := range h.checks {
		result := "ok"
		if err := check.Ping(ctx); err != nil {
			result = "error"
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			h.log.Error().Err(err).Str("dependency", check.Name).Msg("health check failed")
		}
		body[check.Name] = result
	}

	c.JSON(status, body)
}
