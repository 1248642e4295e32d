package main

import (
	"context"
	"net"
	"strings"
	"testing"

	grpcapi "github.com/Dhoini/customer-service/internal/api/grpc"
	"github.com/Dhoini/customer-service/internal/config"
	"github.com/Dhoini/customer-service/pkg/logger"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

func startHealthServer(t *testing.T, cfg *config.Config) (*grpcapi.Server, grpc.DialOption) {
	t.Helper()
	srv, err := grpcapi.NewServer(cfg, logger.NewNop())
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	return srv, grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})
}

func TestCheckHealth(t *testing.T) {
	var cfg config.Config
	cfg.GRPC.Port = "50051"
	srv, dialer := startHealthServer(t, &cfg)

	srv.SetServing(true)
	if err := checkHealth(context.Background(), &cfg, logger.NewNop(), dialer); err != nil {
		t.Fatalf("serving server reported unhealthy: %v", err)
	}

	srv.SetServing(false)
	err := checkHealth(context.Background(), &cfg, logger.NewNop(), dialer)
	if err == nil || !strings.Contains(err.Error(), "NOT_SERVING") {
		t.Fatalf("got %v, want a NOT_SERVING error", err)
	}
}

func TestCheckHealthNeedsGRPCPort(t *testing.T) {
	var cfg config.Config
	if err := checkHealth(context.Background(), &cfg, logger.NewNop()); err == nil {
		t.Fatal("expected an error without GRPC_PORT")
	}
}
