package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Dhoini/customer-service/internal/app"
	"github.com/Dhoini/customer-service/internal/config"
	"github.com/Dhoini/customer-service/pkg/logger"
)

func main() {
	configDir := flag.String("config", ".", "directory containing config.yml")
	envFile := flag.String("env", ".env", "dotenv file loaded outside production")
	healthcheck := flag.Bool("healthcheck", false, "query the local gRPC health service and exit")
	flag.Parse()

	// Загрузка конфигурации
	cfg, err := config.LoadConfig(*configDir, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Инициализация логгера
	log := initLogger(cfg)
	defer func() { _ = log.Sync() }()

	if *healthcheck {
		if err := checkHealth(context.Background(), cfg, log); err != nil {
			fmt.Fprintf(os.Stderr, "unhealthy: %v\n", err)
			os.Exit(1)
		}
		return
	}

	log.Infow("Customer service starting up...", "env", cfg.App.Env, "driver", cfg.Storage.Driver)

	// Контекст отменяется по SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Fatalw("Failed to initialize application", "error", err)
	}
	defer func() {
		if err := application.Close(); err != nil {
			log.Errorw("Error closing application resources", "error", err)
		}
	}()

	if err := application.Run(ctx); err != nil {
		log.Errorw("Server stopped with error", "error", err)
		return
	}

	log.Info("Server stopped gracefully")
}

// initLogger выбирает формат логов по окружению
func initLogger(cfg *config.Config) *logger.Logger {
	level := logger.ParseLevel(cfg.Log.Level)
	if cfg.IsProduction() {
		return logger.NewProduction(level)
	}
	return logger.New(level)
}
