package grpc

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/Dhoini/customer-service/internal/config"
	"github.com/Dhoini/customer-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the name the customer service reports its health under
const ServiceName = "customer.v1.CustomerService"

// Pinger reports whether the storage backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server gRPC сервер
type Server struct {
	grpcServer *grpc.Server
	health     *health.Server
	addr       string
	log        *logger.Logger
}

// NewServer создает новый gRPC сервер с health и reflection сервисами
func NewServer(cfg *config.Config, log *logger.Logger) (*Server, error) {
	// Опции для gRPC
	var opts []grpc.ServerOption

	// Настройки keepalive для gRPC
	kaParams := keepalive.ServerParameters{
		MaxConnectionIdle:     time.Minute * 5,  // Максимальное время простоя соединения
		MaxConnectionAge:      time.Hour,        // Максимальное время жизни соединения
		MaxConnectionAgeGrace: time.Minute * 5,  // Дополнительное время для завершения запросов при закрытии соединения
		Time:                  time.Minute * 2,  // Время между пингами для проверки активности
		Timeout:               time.Second * 20, // Таймаут после которого соединение закрывается если нет ответа на пинг
	}
	opts = append(opts, grpc.KeepaliveParams(kaParams))

	// Настройка TLS, если необходимо
	if cfg.GRPC.UseTLS {
		creds, err := credentials.NewServerTLSFromFile(cfg.GRPC.CertFile, cfg.GRPC.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load TLS credentials: %w", err)
		}
		opts = append(opts, grpc.Creds(creds))
	}

	grpcServer := grpc.NewServer(opts...)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(grpcServer, hs)

	// Включаем reflection для удобства отладки (например, с помощью grpcurl)
	reflection.Register(grpcServer)

	return &Server{
		grpcServer: grpcServer,
		health:     hs,
		addr:       ":" + cfg.GRPC.Port,
		log:        log,
	}, nil
}

// SetServing switches the reported status of both the server and ServiceName
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// WatchStorage pings storage every interval and mirrors the result into the
// health status until ctx is done
func (s *Server) WatchStorage(ctx context.Context, storage Pinger, interval time.Duration) {
	check := func() {
		pingCtx, cancel := context.WithTimeout(ctx, interval)
		defer cancel()
		err := storage.Ping(pingCtx)
		if err != nil && ctx.Err() == nil {
			s.log.Warnw("Storage ping failed, reporting NOT_SERVING", "error", err)
		}
		s.SetServing(err == nil)
	}

	check()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			check()
		}
	}
}

// Start запускает gRPC сервер
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.Serve(listener)
}

// Serve accepts connections on listener and blocks until Stop
func (s *Server) Serve(listener net.Listener) error {
	s.log.Infow("Starting gRPC server", "addr", listener.Addr().String())
	s.SetServing(true)
	if err := s.grpcServer.Serve(listener); err != nil {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Stop останавливает gRPC сервер
func (s *Server) Stop() {
	s.log.Info("Stopping gRPC server")
	s.health.Shutdown()
	s.grpcServer.GracefulStop()
}
