package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Pinger reports whether a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler обработчик для проверки работоспособности сервиса
type HealthHandler struct {
	storage Pinger
	timeout time.Duration
	log     *logger.Logger
}

// NewHealthHandler checks storage with the given timeout per request
func NewHealthHandler(storage Pinger, timeout time.Duration, log *logger.Logger) *HealthHandler {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &HealthHandler{storage: storage, timeout: timeout, log: log}
}

// HealthCheck отвечает 200, если хранилище доступно, иначе 503
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	if err := h.storage.Ping(ctx); err != nil {
		h.log.Warnw("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"storage": "DOWN",
			"time":    time.Now().UTC().Format(time.RFC3339),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "OK",
		"storage": "UP",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}
