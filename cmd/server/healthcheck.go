package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	grpcapi "github.com/Dhoini/customer-service/internal/api/grpc"
	"github.com/Dhoini/customer-service/internal/config"
	"github.com/Dhoini/customer-service/pkg/logger"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

const healthCheckTimeout = 3 * time.Second

// checkHealth asks the local gRPC health service whether the customer
// service is SERVING. Used by container health checks.
func checkHealth(ctx context.Context, cfg *config.Config, log *logger.Logger, extra ...grpc.DialOption) error {
	if !cfg.GRPCEnabled() {
		return errors.New("healthcheck needs GRPC_PORT to be set")
	}

	opts := grpcapi.DefaultClientOptions()
	opts.Address = "localhost:" + cfg.GRPC.Port
	opts.UseTLS = cfg.GRPC.UseTLS
	opts.Timeout = healthCheckTimeout
	opts.KeepAlive = false

	client, err := grpcapi.NewClient(opts, log, extra...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	status, err := client.Check(ctx, grpcapi.ServiceName)
	if err != nil {
		return err
	}
	if status != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("service status is %s", status)
	}
	return nil
}
