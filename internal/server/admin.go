package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/internal/skill"
)

// AdminHandler serves the administrative endpoints.
type AdminHandler struct {
	svc *skill.Service
	log *zap.SugaredLogger
}

// DELETE /api/admin/data wipes every skill and counter; the next
// allocated IDs return to 1.
func (h *AdminHandler) Clear(c *gin.Context) {
	if err := h.svc.Clear(); err != nil {
		respondError(c, h.log, err)
		return
	}
	if h.log != nil {
		h.log.Infow("all data cleared")
	}
	c.Status(http.StatusNoContent)
}
