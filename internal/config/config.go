package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers
const (
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverSQLite   = "sqlite"
)

// Config представляет структуру конфигурации для приложения.
type Config struct {
	App struct {
		Name string `mapstructure:"name"`
		Port string `mapstructure:"port"`
		Env  string `mapstructure:"env"`
	} `mapstructure:"app"`
	Server struct {
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		IdleTimeout     time.Duration `mapstructure:"idleTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
	} `mapstructure:"server"`
	Log struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"log"`
	Storage struct {
		Driver         string        `mapstructure:"driver"`
		ConnectTimeout time.Duration `mapstructure:"connectTimeout"`
	} `mapstructure:"storage"`
	Database struct {
		DSN      string `mapstructure:"dsn"`
		MaxConns int32  `mapstructure:"maxConns"`
		MinConns int32  `mapstructure:"minConns"`
	} `mapstructure:"database"`
	Mongo struct {
		URI      string `mapstructure:"uri"`
		Database string `mapstructure:"database"`
	} `mapstructure:"mongo"`
	SQLite struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"sqlite"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	GRPC struct {
		Port     string `mapstructure:"port"`
		UseTLS   bool   `mapstructure:"useTls"`
		CertFile string `mapstructure:"certFile"`
		KeyFile  string `mapstructure:"keyFile"`
	} `mapstructure:"grpc"`
	Metrics struct {
		SystemInterval time.Duration `mapstructure:"systemInterval"`
	} `mapstructure:"metrics"`
}

// IsProduction reports whether APP_ENV is production
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// CacheEnabled reports whether a Redis address is configured
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != ""
}

// GRPCEnabled reports whether the gRPC health endpoint should be served
func (c *Config) GRPCEnabled() bool {
	return c.GRPC.Port != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "customer-service")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.env", "development")

	v.SetDefault("server.readTimeout", 10*time.Second)
	v.SetDefault("server.writeTimeout", 10*time.Second)
	v.SetDefault("server.idleTimeout", 60*time.Second)
	v.SetDefault("server.shutdownTimeout", 15*time.Second)

	v.SetDefault("log.level", "info")

	v.SetDefault("storage.driver", DriverMemory)
	v.SetDefault("storage.connectTimeout", 30*time.Second)

	v.SetDefault("database.dsn", "")
	v.SetDefault("database.maxConns", 10)
	v.SetDefault("database.minConns", 2)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "customer_service")

	v.SetDefault("sqlite.dsn", "file:customers.db?_busy_timeout=5000")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.ttl", 15*time.Minute)

	v.SetDefault("grpc.port", "")
	v.SetDefault("grpc.useTls", false)
	v.SetDefault("grpc.certFile", "")
	v.SetDefault("grpc.keyFile", "")

	v.SetDefault("metrics.systemInterval", 15*time.Second)
}

// LoadConfig загружает конфигурацию из файла или переменных окружения.
//
// Sources in increasing priority: defaults, config.yml in dir, the .env file
// at envFile (skipped in production) and the process environment. Nested keys
// map to upper-case variables joined by underscores, e.g. storage.driver is
// STORAGE_DRIVER.
func LoadConfig(dir, envFile string) (*Config, error) {
	if os.Getenv("APP_ENV") != "production" && envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if dir == "" {
		dir = "."
	}
	v.AddConfigPath(dir)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv() // Чтение переменных окружения

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that the selected storage driver has what it needs
func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Database.DSN == "" {
			return errors.New("config: DATABASE_DSN is required for the postgres driver")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("config: MONGO_URI is required for the mongo driver")
		}
	case DriverSQLite:
		if c.SQLite.DSN == "" {
			return errors.New("config: SQLITE_DSN is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("config: unknown storage driver %q", c.Storage.Driver)
	}

	if c.App.Port == "" {
		return errors.New("config: APP_PORT must not be empty")
	}
	if c.GRPC.UseTLS && (c.GRPC.CertFile == "" || c.GRPC.KeyFile == "") {
		return errors.New("config: GRPC_CERTFILE and GRPC_KEYFILE are required when GRPC_USETLS is set")
	}
	return nil
}
