package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

const (
	// DriverSQLite selects the embedded single-file store.
	DriverSQLite = "sqlite"
	// DriverPostgres selects the networked PostgreSQL store.
	DriverPostgres = "postgres"
)

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	DBDriver    string
	SQLitePath  string
	DatabaseURL string

	RateLimit          limiter.Rate
	CORSAllowedOrigins []string

	// Events are disabled when AMQPURL is empty.
	AMQPURL        string
	AMQPExchange   string
	AMQPRoutingKey string

	ShutdownTimeout time.Duration
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "4000")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("ENABLE_DB_CHECK", false)
	v.SetDefault("DB_DRIVER", DriverSQLite)
	v.SetDefault("SQLITE_PATH", "data/expenses.db")
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("RATE_LIMIT", "300-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "expenses")
	v.SetDefault("AMQP_ROUTING_KEY", "expense.changed")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:           v.GetString("PORT"),
		IsProduction:   v.GetBool("IS_PRODUCTION"),
		EnableDBCheck:  v.GetBool("ENABLE_DB_CHECK"),
		DBDriver:       strings.ToLower(strings.TrimSpace(v.GetString("DB_DRIVER"))),
		SQLitePath:     v.GetString("SQLITE_PATH"),
		DatabaseURL:    v.GetString("PGSQL_URL"),
		AMQPURL:        v.GetString("AMQP_URL"),
		AMQPExchange:   v.GetString("AMQP_EXCHANGE"),
		AMQPRoutingKey: v.GetString("AMQP_ROUTING_KEY"),
	}

	if cfg.Port == "" {
		cfg.Port = "4000"
		slog.Warn("PORT environment variable not set", slog.String("default", cfg.Port))
	}

	switch cfg.DBDriver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			return nil, errors.New("SQLITE_PATH must be set when DB_DRIVER is sqlite")
		}
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, errors.New("PGSQL_URL must be set when DB_DRIVER is postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q (want %q or %q)", cfg.DBDriver, DriverSQLite, DriverPostgres)
	}

	rate, err := limiter.NewRateFromFormatted(v.GetString("RATE_LIMIT"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT: %w", err)
	}
	cfg.RateLimit = rate

	cfg.CORSAllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{"*"}
	}

	shutdownTimeoutStr := v.GetString("SHUTDOWN_TIMEOUT")
	cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr)
	if err != nil || cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 15 * time.Second
		slog.Warn("Invalid SHUTDOWN_TIMEOUT, using default",
			slog.String("value", shutdownTimeoutStr),
			slog.Duration("default", cfg.ShutdownTimeout))
	}

	if cfg.AMQPURL == "" {
		slog.Info("AMQP_URL not set, expense events are disabled")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
