package middleware

import (
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// LoggerMiddleware создает middleware для логирования запросов
func LoggerMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Время начала запроса
		startTime := time.Now()

		// Обработка запроса
		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", statusCode,
			"latency", latency.String(),
			"clientIP", c.ClientIP(),
			"requestID", RequestIDFrom(c),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		// Логируем информацию о запросе
		switch {
		case statusCode >= 500:
			log.Errorw("Request failed", fields...)
		case statusCode >= 400:
			log.Warnw("Request rejected", fields...)
		default:
			log.Infow("Request handled", fields...)
		}
	}
}
