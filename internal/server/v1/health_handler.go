package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health is used by load balancers and the CLI to check the service is up.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.started).Round(time.Second).String(),
	})
}
