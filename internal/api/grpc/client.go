package grpc

import (
	"context"
	"crypto/tls"
	"fmt"
	"time"

	"github.com/Dhoini/customer-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

// Client представляет gRPC клиент health-сервиса
type Client struct {
	conn    *grpc.ClientConn
	health  healthpb.HealthClient
	timeout time.Duration
	log     *logger.Logger
}

// ClientOptions настройки для gRPC клиента
type ClientOptions struct {
	Address          string
	Timeout          time.Duration
	UseTLS           bool
	KeepAlive        bool
	KeepAliveTime    time.Duration
	KeepAliveTimeout time.Duration
}

// DefaultClientOptions возвращает настройки по умолчанию
func DefaultClientOptions() *ClientOptions {
	return &ClientOptions{
		Address:          "localhost:50051",
		Timeout:          time.Second * 10,
		UseTLS:           false,
		KeepAlive:        true,
		KeepAliveTime:    time.Minute,
		KeepAliveTimeout: time.Second * 20,
	}
}

// NewClient создает новый gRPC клиент. The connection is established lazily
// on the first call; extra dial options are appended last.
func NewClient(opts *ClientOptions, log *logger.Logger, extra ...grpc.DialOption) (*Client, error) {
	log.Debugw("Creating gRPC client", "address", opts.Address)

	var dialOpts []grpc.DialOption

	// Настройка TLS
	if opts.UseTLS {
		creds := credentials.NewTLS(&tls.Config{MinVersion: tls.VersionTLS12})
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(creds))
	} else {
		dialOpts = append(dialOpts, grpc.WithTransportCredentials(insecure.NewCredentials()))
	}

	// Настройка KeepAlive
	if opts.KeepAlive {
		kacp := keepalive.ClientParameters{
			Time:                opts.KeepAliveTime,    // Интервал для пингов
			Timeout:             opts.KeepAliveTimeout, // Таймаут для пингов
			PermitWithoutStream: true,                  // Разрешить пинги без активных стримов
		}
		dialOpts = append(dialOpts, grpc.WithKeepaliveParams(kacp))
	}
	dialOpts = append(dialOpts, extra...)

	conn, err := grpc.NewClient(opts.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC client: %w", err)
	}

	return &Client{
		conn:    conn,
		health:  healthpb.NewHealthClient(conn),
		timeout: opts.Timeout,
		log:     log,
	}, nil
}

// Check asks the server for the status of service ("" means the whole server)
func (c *Client) Check(ctx context.Context, service string) (healthpb.HealthCheckResponse_ServingStatus, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
	if err != nil {
		return healthpb.HealthCheckResponse_UNKNOWN, fmt.Errorf("health check failed: %w", err)
	}
	return resp.GetStatus(), nil
}

// Close закрывает соединение с gRPC сервером
func (c *Client) Close() error {
	if c.conn != nil {
		c.log.Debug("Closing gRPC client connection")
		return c.conn.Close()
	}
	return nil
}
