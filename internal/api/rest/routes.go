package rest

import (
	"github.com/Dhoini/customer-service/internal/api/rest/handlers"
	"github.com/Dhoini/customer-service/internal/api/rest/middleware"
	"github.com/Dhoini/customer-service/internal/metrics"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterDeps собирает зависимости маршрутизатора
type RouterDeps struct {
	Customers   *handlers.CustomerHandler
	Health      *handlers.HealthHandler
	HTTPMetrics metrics.HTTPMetrics
	Registry    *prometheus.Registry
	Log         *logger.Logger
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(middleware.RequestID())
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}
	r.Use(middleware.LoggerMiddleware(deps.Log))
	r.Use(middleware.Recovery(deps.Log))

	r.NoRoute(handlers.NotFound)

	// Endpoint для проверки работоспособности сервиса
	if deps.Health != nil {
		r.GET("/health", deps.Health.HealthCheck)
	}

	// Prometheus метрики
	if deps.Registry != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{})))
	}

	v1 := r.Group("/api/v1")
	{
		// Клиенты
		customers := v1.Group("/customers")
		{
			customers.POST("", deps.Customers.CreateCustomer)
			customers.GET("", deps.Customers.GetCustomers)
			customers.GET("/search", deps.Customers.SearchCustomers)
			customers.GET("/lookup", deps.Customers.LookupCustomer)
			customers.GET("/:id", deps.Customers.GetCustomer)
			customers.PUT("/:id", deps.Customers.UpdateCustomer)
			customers.PATCH("/:id", deps.Customers.UpdateCustomer)
			customers.DELETE("/:id", deps.Customers.DeleteCustomer)
		}
	}

	return r
}
