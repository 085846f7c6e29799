package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"skilltree/internal/skill"
)

// detail mirrors the error body shape clients already consume:
// {"detail": "..."}.
type detail struct {
	Detail string `json:"detail"`
}

// respondError maps the service's typed errors onto status codes:
// NotFound 404, Validation 400, Conflict 409. Anything else is a
// persistence or internal failure and surfaces as 500.
func respondError(c *gin.Context, log *zap.SugaredLogger, err error) {
	var nf *skill.NotFoundError
	var ve *skill.ValidationError
	var ce *skill.ConflictError
	switch {
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, detail{Detail: nf.Msg})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, detail{Detail: ve.Msg})
	case errors.As(err, &ce):
		c.JSON(http.StatusConflict, detail{Detail: ce.Msg})
	default:
		if log != nil {
			log.Errorw("internal error", "error", err, "path", c.Request.URL.Path)
		}
		c.JSON(http.StatusInternalServerError, detail{Detail: "internal server error"})
	}
}

// respondBadBody reports a request body that failed decoding or binding
// validation. 422, matching the contract of the original service.
func respondBadBody(c *gin.Context, err error) {
	c.JSON(http.StatusUnprocessableEntity, detail{Detail: err.Error()})
}
