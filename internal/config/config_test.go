package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "8080" || cfg.Storage.Driver != DriverMemory {
		t.Errorf("unexpected defaults %+v", cfg.App)
	}
	if cfg.Server.ShutdownTimeout != 15*time.Second || cfg.Redis.TTL != 15*time.Minute {
		t.Errorf("durations not decoded: %+v %+v", cfg.Server, cfg.Redis)
	}
	if cfg.CacheEnabled() || cfg.GRPCEnabled() || cfg.IsProduction() {
		t.Error("optional components must be off by default")
	}
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := `
app:
  port: "9090"
storage:
  driver: postgres
database:
  dsn: postgres://file
  maxConns: 4
server:
  readTimeout: 3s
`
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DATABASE_DSN", "postgres://env")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig(dir, "")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if cfg.App.Port != "9090" || cfg.Database.MaxConns != 4 || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Database.DSN != "postgres://env" {
		t.Errorf("env must override the file, dsn = %q", cfg.Database.DSN)
	}
	if !cfg.CacheEnabled() {
		t.Error("REDIS_ADDR must enable the cache")
	}
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("STORAGE_DRIVER=sqlite\nSQLITE_DSN=:memory:\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	t.Setenv("STORAGE_DRIVER", "")
	os.Unsetenv("STORAGE_DRIVER")
	t.Cleanup(func() {
		os.Unsetenv("STORAGE_DRIVER")
		os.Unsetenv("SQLITE_DSN")
	})

	cfg, err := LoadConfig(dir, envFile)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Storage.Driver != DriverSQLite || cfg.SQLite.DSN != ":memory:" {
		t.Errorf("dotenv not applied: %+v %+v", cfg.Storage, cfg.SQLite)
	}
}

func TestLoadConfigMissingDotEnvIsIgnored(t *testing.T) {
	if _, err := LoadConfig(t.TempDir(), filepath.Join(t.TempDir(), "missing.env")); err != nil {
		t.Fatalf("a missing .env must be ignored: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"memory", func(c *Config) { c.Storage.Driver = "MEMORY" }, false},
		{"postgres without dsn", func(c *Config) { c.Storage.Driver = DriverPostgres }, true},
		{"mongo without uri", func(c *Config) { c.Storage.Driver = DriverMongo }, true},
		{"mongo", func(c *Config) { c.Storage.Driver = DriverMongo; c.Mongo.URI = "mongodb://x" }, false},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "cassandra" }, true},
		{"tls without cert", func(c *Config) { c.Storage.Driver = DriverMemory; c.GRPC.UseTLS = true }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Config
			c.App.Port = "8080"
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
