package handlers

import (
	"errors"
	"net/http"

	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/Dhoini/customer-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// Envelope messages
const (
	MsgValidationFailed = "Validation failed"
	MsgMalformedRequest = "Malformed JSON request"
	MsgUnexpectedError  = "An unexpected error occurred"
	MsgRouteNotFound    = "Resource not found"
)

// respondError maps the service error taxonomy onto status codes and envelopes.
// Anything outside the taxonomy is logged and hidden behind a generic 500.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	var verrs domain.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		c.JSON(http.StatusBadRequest, res.Error(MsgValidationFailed, verrs.Map()))
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, res.Error(err.Error(), nil))
	case errors.Is(err, domain.ErrDuplicate):
		c.JSON(http.StatusConflict, res.Error(err.Error(), nil))
	default:
		_ = c.Error(err)
		log.Errorw("Unexpected error while handling request", "error", err, "path", c.Request.URL.Path)
		c.JSON(http.StatusInternalServerError, res.Error(MsgUnexpectedError, nil))
	}
}

// NotFound answers requests that match no route
func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, res.Error(MsgRouteNotFound, nil))
}
