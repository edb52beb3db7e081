package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	defaultPort      = "8080"
	defaultDSN       = "excursia.db"
	defaultJWTSecret = "change-me-jwt-secret"
	defaultJWTTTL    = "24h"
	defaultRateRPS   = "5"
	defaultRateBurst = "10"
)

type Config struct {
	AppEnv      string
	Port        string
	DatabaseDSN string
	JWTSecret   string
	JWTTTL      time.Duration
	// Per-IP booking rate limit.
	RateRPS   float64
	RateBurst int
}

func Load() (*Config, error) {
	cfg := &Config{}

	appEnv := strings.TrimSpace(os.Getenv("APP_ENV"))
	if appEnv == "" {
		appEnv = "dev"
	}
	cfg.AppEnv = strings.ToLower(appEnv)

	cfg.Port = getEnv("PORT", defaultPort)
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", defaultDSN)
	cfg.JWTSecret = strings.TrimSpace(getEnv("JWT_SECRET", defaultJWTSecret))

	var err error
	cfg.JWTTTL, err = parseDurationEnv("JWT_TTL", defaultJWTTTL)
	if err != nil {
		return nil, err
	}

	if _, err := fmt.Sscanf(getEnv("RATE_RPS", defaultRateRPS), "%f", &cfg.RateRPS); err != nil || cfg.RateRPS <= 0 {
		return nil, fmt.Errorf("invalid RATE_RPS value")
	}
	if _, err := fmt.Sscanf(getEnv("RATE_BURST", defaultRateBurst), "%d", &cfg.RateBurst); err != nil || cfg.RateBurst <= 0 {
		return nil, fmt.Errorf("invalid RATE_BURST value")
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validate(cfg *Config) error {
	if cfg.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be > 0")
	}
	if isProdLike(cfg.AppEnv) && cfg.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("in prod/release JWT_SECRET must be set and not default")
	}
	return nil
}

func isProdLike(env string) bool {
	return env == "prod" || env == "production" || env == "release"
}

func parseDurationEnv(name, fallback string) (time.Duration, error) {
	value := strings.TrimSpace(getEnv(name, fallback))
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", name, value, err)
	}
	return d, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}
