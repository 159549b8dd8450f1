package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Addr           string
	DBDriver       string
	DBPath         string
	DatabaseURL    string
	LogLevel       string
	RequestTimeout time.Duration
	MetricsEnabled bool
	ServiceName    string
	OTLPEndpoint   string
	OTLPInsecure   bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying defaults when values are missing or unparsable.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:           envOr("ADDR", ":8080"),
		DBDriver:       strings.ToLower(envOr("DB_DRIVER", DriverSQLite)),
		DBPath:         envOr("DB_PATH", "file:squadpick.db"),
		DatabaseURL:    envOr("DATABASE_URL", ""),
		LogLevel:       strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		RequestTimeout: time.Duration(envIntOr("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
		MetricsEnabled: envBoolOr("METRICS_ENABLED", true),
		ServiceName:    envOr("SERVICE_NAME", "squadpick"),
		OTLPEndpoint:   envOr("OTLP_ENDPOINT", ""),
		OTLPInsecure:   envBoolOr("OTLP_INSECURE", false),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}

	switch c.DBDriver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("DB_PATH cannot be empty"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL cannot be empty when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, c.DBDriver))
	}

	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("REQUEST_TIMEOUT_SECONDS must be positive, got %v", c.RequestTimeout))
	}

	if c.MetricsEnabled && c.ServiceName == "" {
		errs = append(errs, errors.New("SERVICE_NAME cannot be empty when metrics are enabled"))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
