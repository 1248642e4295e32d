// Package app wires configuration, storage, the customer service and the
// HTTP/gRPC servers together.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	grpcapi "github.com/Dhoini/customer-service/internal/api/grpc"
	"github.com/Dhoini/customer-service/internal/api/rest"
	"github.com/Dhoini/customer-service/internal/api/rest/handlers"
	"github.com/Dhoini/customer-service/internal/config"
	"github.com/Dhoini/customer-service/internal/domain"
	"github.com/Dhoini/customer-service/internal/metrics"
	"github.com/Dhoini/customer-service/internal/repository"
	mongorepo "github.com/Dhoini/customer-service/internal/repository/mongo"
	"github.com/Dhoini/customer-service/internal/repository/postgres"
	"github.com/Dhoini/customer-service/internal/repository/sqlite"
	"github.com/Dhoini/customer-service/internal/service"
	"github.com/Dhoini/customer-service/internal/validation"
	"github.com/Dhoini/customer-service/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

const (
	healthTimeout      = 2 * time.Second
	storageWatchPeriod = 10 * time.Second
)

// App представляет собой контейнер для всех компонентов приложения
type App struct {
	cfg      *config.Config
	log      *logger.Logger
	registry *prometheus.Registry

	repo    repository.CustomerRepository
	service service.CustomerService
	router  *gin.Engine
	http    *rest.Server
	grpc    *grpcapi.Server
	runtime metrics.RuntimeMetrics

	closers []func() error
}

// New создает и инициализирует новый экземпляр приложения.
// On error everything opened so far is closed again.
func New(ctx context.Context, cfg *config.Config, log *logger.Logger) (a *App, err error) {
	a = &App{
		cfg:      cfg,
		log:      log,
		registry: prometheus.NewRegistry(),
	}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	repo, err := a.openStorage(ctx)
	if err != nil {
		return nil, err
	}
	a.repo = a.withCache(ctx, repo)

	a.service = service.NewCustomerService(
		a.repo,
		validation.New(),
		metrics.NewCustomerMetrics(a.registry, log),
		log,
	)

	a.router = rest.SetupRouter(rest.RouterDeps{
		Customers:   handlers.NewCustomerHandler(a.service, log),
		Health:      handlers.NewHealthHandler(a.repo, healthTimeout, log),
		HTTPMetrics: metrics.NewHTTPMetrics(a.registry),
		Registry:    a.registry,
		Log:         log,
	})
	a.http = rest.NewServer(a.router, cfg, log)

	if cfg.GRPCEnabled() {
		a.grpc, err = grpcapi.NewServer(cfg, log)
		if err != nil {
			return nil, err
		}
	}

	a.runtime = metrics.NewRuntimeMetrics(a.registry, log, a.countCustomers)

	return a, nil
}

// openStorage connects the configured driver and registers its cleanup
func (a *App) openStorage(ctx context.Context) (repository.CustomerRepository, error) {
	cfg := a.cfg
	a.log.Infow("Opening customer storage", "driver", cfg.Storage.Driver)

	switch cfg.Storage.Driver {
	case config.DriverMemory:
		return repository.NewInMemoryCustomerRepository(), nil

	case config.DriverPostgres:
		opts := postgres.DefaultPoolOptions()
		if cfg.Database.MaxConns > 0 {
			opts.MaxConns = cfg.Database.MaxConns
		}
		if cfg.Database.MinConns > 0 {
			opts.MinConns = cfg.Database.MinConns
		}
		opts.ConnectTimeout = cfg.Storage.ConnectTimeout

		pool, err := postgres.NewConnection(ctx, cfg.Database.DSN, opts, a.log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })

		if err := postgres.Migrate(ctx, pool); err != nil {
			return nil, err
		}
		return postgres.NewPostgresCustomerRepository(pool, a.log), nil

	case config.DriverMongo:
		client, err := mongorepo.Connect(ctx, cfg.Mongo.URI, cfg.Storage.ConnectTimeout, a.log)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		a.closers = append(a.closers, func() error { return client.Disconnect(context.Background()) })

		repo := mongorepo.NewMongoCustomerRepository(client, cfg.Mongo.Database, a.log)
		if err := repo.EnsureIndexes(ctx); err != nil {
			return nil, err
		}
		return repo, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(cfg.SQLite.DSN, a.log)
		if err != nil {
			return nil, err
		}
		repo := sqlite.NewSQLiteCustomerRepository(db, a.log)
		a.closers = append(a.closers, repo.Close)
		return repo, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
}

// withCache wraps repo with the Redis read-through cache when one is configured.
// An unreachable Redis is not fatal.
func (a *App) withCache(ctx context.Context, repo repository.CustomerRepository) repository.CustomerRepository {
	if !a.cfg.CacheEnabled() {
		a.log.Infow("Using non-cached customer repository")
		return repo
	}

	client, err := repository.NewRedisClient(ctx, a.cfg.Redis.Addr, a.cfg.Redis.Password, a.cfg.Redis.DB, a.log)
	if err != nil {
		a.log.Warnw("Failed to initialize Redis cache, continuing without caching", "error", err)
		return repo
	}

	cache := repository.NewRedisCustomerCache(client, a.cfg.Redis.TTL, a.log)
	a.closers = append(a.closers, cache.Close)
	a.log.Infow("Using cached customer repository", "ttl", a.cfg.Redis.TTL)
	return repository.NewCachedCustomerRepository(repo, cache, a.log)
}

// countCustomers reads the store size from a one-item page
func (a *App) countCustomers(ctx context.Context) (int64, error) {
	page, err := a.repo.FindAll(ctx, domain.NewPageRequest(0, 1))
	if err != nil {
		return 0, err
	}
	return page.TotalElements, nil
}

// Router returns the HTTP handler
func (a *App) Router() *gin.Engine {
	return a.router
}

// Service returns the customer service
func (a *App) Service() service.CustomerService {
	return a.service
}

// Run starts the servers and blocks until ctx is cancelled or a server fails,
// then shuts everything down within the configured timeout
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(a.http.Start)
	g.Go(func() error {
		a.runtime.Run(gctx, a.cfg.Metrics.SystemInterval)
		return nil
	})

	if a.grpc != nil {
		g.Go(a.grpc.Start)
		g.Go(func() error {
			a.grpc.WatchStorage(gctx, a.repo, storageWatchPeriod)
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.log.Infow("Shutting down servers")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()

		if a.grpc != nil {
			a.grpc.Stop()
		}
		if err := a.http.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases storage and cache connections in reverse order of opening
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
