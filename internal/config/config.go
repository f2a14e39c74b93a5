// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds the process settings read from the environment.
type Config struct {
	HTTPAddr      string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	DatabaseURL   string // Empty disables result persistence.
	JWTSecret     string
	JWTIssuer     string
	StateTTL      time.Duration
	LogLevel      logrus.Level
	LogFormat     string // "text" or "json"
	ExposeAudit   bool   // Include audit reports in move responses.

	CardsPerPlayer       int
	PenalizeInvalidDrops bool
}

// Load reads an optional .env file (files listed in envFiles, or ".env"),
// then the process environment. Variables already set in the environment
// win over the file.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":8080"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTIssuer:     getEnv("JWT_ISSUER", "crazy"),
		LogFormat:     getEnv("LOG_FORMAT", "text"),
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return Config{}, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	var err error
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return Config{}, err
	}
	if cfg.CardsPerPlayer, err = getInt("CARDS_PER_PLAYER", 5); err != nil {
		return Config{}, err
	}
	if cfg.CardsPerPlayer < 1 {
		return Config{}, fmt.Errorf("CARDS_PER_PLAYER must be positive, got %d", cfg.CardsPerPlayer)
	}
	if cfg.PenalizeInvalidDrops, err = getBool("PENALIZE_INVALID_DROPS", true); err != nil {
		return Config{}, err
	}
	if cfg.ExposeAudit, err = getBool("EXPOSE_AUDIT", false); err != nil {
		return Config{}, err
	}
	if cfg.StateTTL, err = time.ParseDuration(getEnv("STATE_TTL", "24h")); err != nil {
		return Config{}, fmt.Errorf("STATE_TTL: %w", err)
	}
	if cfg.LogLevel, err = logrus.ParseLevel(getEnv("LOG_LEVEL", "info")); err != nil {
		return Config{}, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
