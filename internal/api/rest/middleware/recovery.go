package middleware

import (
	"net/http"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/Dhoini/customer-service/pkg/res"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a 500 envelope and logs the value
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.Errorw("Panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"requestID", RequestIDFrom(c),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, res.Error("An unexpected error occurred", nil))
	})
}
