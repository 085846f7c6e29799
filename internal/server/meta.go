package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// MetaHandler serves the health, version, and favicon endpoints.
type MetaHandler struct {
	Commit string
}

func (h *MetaHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *MetaHandler) Version(c *gin.Context) {
	commit := h.Commit
	if commit == "" {
		commit = "dev"
	}
	c.JSON(http.StatusOK, gin.H{
		"service": "skilltree",
		"commit":  commit,
	})
}

func (h *MetaHandler) Favicon(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
