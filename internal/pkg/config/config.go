package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Storage drivers.
const (
	StorageSpanner = "spanner"
	StorageMemory  = "memory"
)

// Push drivers.
const (
	PushFCM = "fcm"
	PushLog = "log"
)

// Config holds all service configuration
type Config struct {
	App         AppConfig
	HTTP        HTTPConfig
	GRPC        GRPCConfig
	Storage     StorageConfig
	Redis       RedisConfig
	JWT         JWTConfig
	Push        PushConfig
	Log         LogConfig
	SideEffects SideEffectsConfig
	Relay       RelayConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CORSOrigins     []string
}

type GRPCConfig struct {
	Port string
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver          string // spanner, memory
	SpannerDatabase string // projects/P/instances/I/databases/D
}

// RedisConfig configures the product read cache. Empty Addr disables it.
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	ProductTTL time.Duration
}

type JWTConfig struct {
	Secret string
	Issuer string
}

// PushConfig configures the device push transport
type PushConfig struct {
	Driver          string // fcm, log
	ProjectID       string
	CredentialsFile string
	RatePerSecond   float64
	Burst           int
	Concurrency     int
}

type LogConfig struct {
	Level  string
	Format string
	Output string
}

// SideEffectsConfig sizes the background runner for notifications
type SideEffectsConfig struct {
	Workers     int
	QueueSize   int
	TaskTimeout time.Duration
}

// RelayConfig drives the outbox relay. An empty Stream publishes to the log.
type RelayConfig struct {
	Enabled      bool
	BatchSize    int
	PollInterval time.Duration
	MaxRetries   int
	Stream       string
	StreamMaxLen int64
}

// Load reads configuration from .env, config.toml and RAWSY_* environment variables.
// Priority (highest to lowest):
// 1. Environment variables with RAWSY_ prefix (e.g., RAWSY_JWT_SECRET)
// 2. config.toml
// 3. Built-in defaults
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load(".env")

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("/app")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	v.SetEnvPrefix("RAWSY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		HTTP: HTTPConfig{
			Port:            v.GetString("http.port"),
			ReadTimeout:     v.GetDuration("http.read_timeout"),
			WriteTimeout:    v.GetDuration("http.write_timeout"),
			ShutdownTimeout: v.GetDuration("http.shutdown_timeout"),
			CORSOrigins:     v.GetStringSlice("http.cors_origins"),
		},
		GRPC: GRPCConfig{
			Port: v.GetString("grpc.port"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("storage.driver"),
			SpannerDatabase: v.GetString("storage.spanner_database"),
		},
		Redis: RedisConfig{
			Addr:       v.GetString("redis.addr"),
			Password:   v.GetString("redis.password"),
			DB:         v.GetInt("redis.db"),
			ProductTTL: v.GetDuration("redis.product_ttl"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("jwt.secret"),
			Issuer: v.GetString("jwt.issuer"),
		},
		Push: PushConfig{
			Driver:          v.GetString("push.driver"),
			ProjectID:       v.GetString("push.project_id"),
			CredentialsFile: v.GetString("push.credentials_file"),
			RatePerSecond:   v.GetFloat64("push.rate_per_second"),
			Burst:           v.GetInt("push.burst"),
			Concurrency:     v.GetInt("push.concurrency"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		SideEffects: SideEffectsConfig{
			Workers:     v.GetInt("side_effects.workers"),
			QueueSize:   v.GetInt("side_effects.queue_size"),
			TaskTimeout: v.GetDuration("side_effects.task_timeout"),
		},
		Relay: RelayConfig{
			Enabled:      v.GetBool("relay.enabled"),
			BatchSize:    v.GetInt("relay.batch_size"),
			PollInterval: v.GetDuration("relay.poll_interval"),
			MaxRetries:   v.GetInt("relay.max_retries"),
			Stream:       v.GetString("relay.stream"),
			StreamMaxLen: v.GetInt64("relay.stream_max_len"),
		},
	}

	applyDefaults(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "rawsy-service"
	}
	if cfg.App.Env == "" {
		cfg.App.Env = "development"
	}
	if cfg.HTTP.Port == "" {
		cfg.HTTP.Port = "8080"
	}
	if cfg.HTTP.ReadTimeout == 0 {
		cfg.HTTP.ReadTimeout = 15 * time.Second
	}
	if cfg.HTTP.WriteTimeout == 0 {
		cfg.HTTP.WriteTimeout = 15 * time.Second
	}
	if cfg.HTTP.ShutdownTimeout == 0 {
		cfg.HTTP.ShutdownTimeout = 20 * time.Second
	}
	if cfg.GRPC.Port == "" {
		cfg.GRPC.Port = "9090"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = StorageSpanner
	}
	if cfg.Storage.SpannerDatabase == "" {
		cfg.Storage.SpannerDatabase = "projects/test-project/instances/dev-instance/databases/rawsy-db"
	}
	if cfg.Redis.ProductTTL == 0 {
		cfg.Redis.ProductTTL = 5 * time.Minute
	}
	if cfg.JWT.Issuer == "" {
		cfg.JWT.Issuer = "rawsy"
	}
	if cfg.Push.Driver == "" {
		cfg.Push.Driver = PushLog
	}
	if cfg.Push.RatePerSecond == 0 {
		cfg.Push.RatePerSecond = 50
	}
	if cfg.Push.Burst == 0 {
		cfg.Push.Burst = 10
	}
	if cfg.Push.Concurrency == 0 {
		cfg.Push.Concurrency = 8
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}
	if cfg.SideEffects.Workers == 0 {
		cfg.SideEffects.Workers = 4
	}
	if cfg.SideEffects.QueueSize == 0 {
		cfg.SideEffects.QueueSize = 256
	}
	if cfg.SideEffects.TaskTimeout == 0 {
		cfg.SideEffects.TaskTimeout = 30 * time.Second
	}
	if cfg.Relay.BatchSize == 0 {
		cfg.Relay.BatchSize = 100
	}
	if cfg.Relay.PollInterval == 0 {
		cfg.Relay.PollInterval = 5 * time.Second
	}
	if cfg.Relay.MaxRetries == 0 {
		cfg.Relay.MaxRetries = 5
	}
	if cfg.Relay.StreamMaxLen == 0 {
		cfg.Relay.StreamMaxLen = 100000
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageSpanner, StorageMemory:
	default:
		return fmt.Errorf("invalid storage driver %q", c.Storage.Driver)
	}

	switch c.Push.Driver {
	case PushFCM:
		if c.Push.ProjectID == "" {
			return errors.New("push.project_id is required for the fcm driver")
		}
	case PushLog:
	default:
		return fmt.Errorf("invalid push driver %q", c.Push.Driver)
	}

	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("jwt.secret is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}

	if c.SideEffects.Workers < 0 || c.SideEffects.QueueSize < 0 {
		return errors.New("side_effects workers and queue_size must be non-negative")
	}
	for _, origin := range c.HTTP.CORSOrigins {
		switch {
		case origin == "*":
			if c.IsProduction() {
				return errors.New("http.cors_origins cannot be '*' in production")
			}
		case !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://"):
			return fmt.Errorf("invalid cors origin %q", origin)
		}
	}
	if c.Relay.Enabled && c.Relay.Stream != "" && c.Redis.Addr == "" {
		return errors.New("relay.stream requires redis.addr")
	}
	return nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}
