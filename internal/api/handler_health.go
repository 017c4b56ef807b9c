package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetHealth reports liveness and aggregate storage counts.
func (h *Handler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"ok":        true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.startedAt).Round(time.Second).String(),
		"storage":   h.store.Stats(),
	})
}
