package main

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// serverConfig holds everything the demo server reads from the
// environment. Auth tuning (lockout threshold, session TTL) rides on
// the library defaults unless overridden here.
type serverConfig struct {
	Host            string
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabasePath string
	SeedFile     string

	LockoutThreshold int
	LockoutDuration  time.Duration
	SessionTTL       time.Duration

	LogLevel string
}

func loadConfig() (serverConfig, error) {
	cfg := serverConfig{
		Host:            getEnv("AUTHGATE_HOST", "0.0.0.0"),
		Port:            getEnv("AUTHGATE_PORT", "8080"),
		ReadTimeout:     getEnvDuration("AUTHGATE_READ_TIMEOUT", 15*time.Second),
		WriteTimeout:    getEnvDuration("AUTHGATE_WRITE_TIMEOUT", 15*time.Second),
		ShutdownTimeout: getEnvDuration("AUTHGATE_SHUTDOWN_TIMEOUT", 30*time.Second),

		RedisAddr:     getEnv("AUTHGATE_REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword: getEnv("AUTHGATE_REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("AUTHGATE_REDIS_DB", 0),

		DatabasePath: getEnv("AUTHGATE_DB_PATH", "authgate.db"),
		SeedFile:     getEnv("AUTHGATE_SEED_FILE", ""),

		LockoutThreshold: getEnvInt("AUTHGATE_LOCKOUT_THRESHOLD", 3),
		LockoutDuration:  getEnvDuration("AUTHGATE_LOCKOUT_DURATION", 5*time.Minute),
		SessionTTL:       getEnvDuration("AUTHGATE_SESSION_TTL", 24*time.Hour),

		LogLevel: getEnv("AUTHGATE_LOG_LEVEL", "info"),
	}

	if cfg.LockoutThreshold < 1 {
		return cfg, fmt.Errorf("AUTHGATE_LOCKOUT_THRESHOLD must be at least 1, got %d", cfg.LockoutThreshold)
	}
	if _, err := strconv.Atoi(cfg.Port); err != nil {
		return cfg, fmt.Errorf("AUTHGATE_PORT is not a port number: %q", cfg.Port)
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
