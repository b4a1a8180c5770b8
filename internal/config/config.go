package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultAddr            = "127.0.0.1:8082"
	defaultWriteRateBurst  = 10
	defaultShutdownTimeout = 10 * time.Second
)

type Config struct {
	Addr     string
	LogLevel string

	MetricsEnabled bool
	MetricsToken   string

	// WriteRateRPS limits POST/PUT/DELETE per client IP. Zero disables it.
	WriteRateRPS   float64
	WriteRateBurst int

	ShutdownTimeout time.Duration
}

// Load reads the environment through getenv. Unset variables keep the
// defaults, so an empty environment binds 127.0.0.1:8082 with no limiter.
func Load(getenv func(string) string) (Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Config{
		Addr:            valueOr(getenv("ADDR"), defaultAddr),
		LogLevel:        getenv("LOG_LEVEL"),
		MetricsEnabled:  true,
		MetricsToken:    getenv("METRICS_TOKEN"),
		WriteRateBurst:  defaultWriteRateBurst,
		ShutdownTimeout: defaultShutdownTimeout,
	}

	var err error
	if v := getenv("METRICS_ENABLED"); v != "" {
		if cfg.MetricsEnabled, err = strconv.ParseBool(v); err != nil {
			return Config{}, fmt.Errorf("METRICS_ENABLED: %w", err)
		}
	}
	if v := getenv("WRITE_RATE_RPS"); v != "" {
		if cfg.WriteRateRPS, err = strconv.ParseFloat(v, 64); err != nil {
			return Config{}, fmt.Errorf("WRITE_RATE_RPS: %w", err)
		}
		if cfg.WriteRateRPS < 0 {
			return Config{}, fmt.Errorf("WRITE_RATE_RPS: must be >= 0, got %v", cfg.WriteRateRPS)
		}
	}
	if v := getenv("WRITE_RATE_BURST"); v != "" {
		if cfg.WriteRateBurst, err = strconv.Atoi(v); err != nil {
			return Config{}, fmt.Errorf("WRITE_RATE_BURST: %w", err)
		}
		if cfg.WriteRateBurst < 1 {
			return Config{}, fmt.Errorf("WRITE_RATE_BURST: must be >= 1, got %d", cfg.WriteRateBurst)
		}
	}
	if v := getenv("SHUTDOWN_TIMEOUT"); v != "" {
		if cfg.ShutdownTimeout, err = time.ParseDuration(v); err != nil {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
		}
	}

	return cfg, nil
}

func valueOr(v, def string) string {
	if v != "" {
		return v
	}
	return def
}
