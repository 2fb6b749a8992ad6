package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server  ServerConfig
	DB      DatabaseConfig
	Auth    AuthConfig
	HTTP    HTTPConfig
	Logging LoggingConfig
}

type ServerConfig struct {
	Host string
	Port int
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type HTTPConfig struct {
	RateLimitRPS int
	CORSOrigins  []string
}

type LoggingConfig struct {
	Level string
}

func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "localhost"),
			Port: getEnvInt("SERVER_PORT", 5000),
		},
		DB: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/floodwatch.db"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			TokenTTL:  getEnvDuration("TOKEN_TTL", 24*time.Hour),
		},
		HTTP: HTTPConfig{
			RateLimitRPS: getEnvInt("RATE_LIMIT_RPS", 10),
			CORSOrigins:  getEnvList("CORS_ORIGINS", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.TokenTTL < time.Minute {
		return fmt.Errorf("token TTL must be at least 1 minute")
	}
	if c.HTTP.RateLimitRPS < 1 {
		return fmt.Errorf("rate limit must be at least 1 req/s")
	}

	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	if val := os.Getenv(key); val != "" {
		parts := strings.Split(val, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return fallback
}
