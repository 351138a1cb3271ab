package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Secrets SecretsConfig
	Logger  LoggerConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port        int
	Host        string
	MetricsPort int

	// Per-IP rate limit for the public form/callback endpoints
	RateLimitRPS   float64
	RateLimitBurst int
}

// GatewayConfig holds Vinti4 gateway configuration
type GatewayConfig struct {
	PostURL    string // Vinti4 card payment endpoint
	PosID      string // POS terminal identifier (public)
	PosAutCode string // POS authentication code; empty when resolved from a secret backend
	Currency   string // ISO 4217 numeric code, default "132" (CVE)
	Language   string // Gateway UI language
}

// SecretsConfig selects where the POS authentication code is resolved from
type SecretsConfig struct {
	// Backend: "env" (POS_AUT_CODE directly), "local", "vault" or "aws"
	Backend string

	// Path of the auth code secret within the chosen backend
	SecretPath string

	// Local backend
	LocalPath string

	// Vault backend
	VaultAddress   string
	VaultToken     string
	VaultMountPath string

	// AWS backend
	AWSRegion string
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// LoadFromEnv loads configuration from environment variables
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnvAsInt("SERVER_PORT", 8080),
			Host:           getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:    getEnvAsInt("METRICS_PORT", 9090),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 10),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 20),
		},
		Gateway: GatewayConfig{
			PostURL:    getEnv("VINTI4_POST_URL", "https://mc.vinti4net.cv/BizMPIOnUs/CardPayment"),
			PosID:      getEnv("VINTI4_POS_ID", ""),
			PosAutCode: getEnv("VINTI4_POS_AUT_CODE", ""),
			Currency:   getEnv("VINTI4_CURRENCY", "132"),
			Language:   getEnv("VINTI4_LANGUAGE", "pt"),
		},
		Secrets: SecretsConfig{
			Backend:        getEnv("SECRET_BACKEND", "env"),
			SecretPath:     getEnv("SECRET_PATH", ""),
			LocalPath:      getEnv("SECRET_LOCAL_PATH", "./secrets"),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			AWSRegion:      getEnv("AWS_REGION", ""),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
	}

	// Validate required fields
	if cfg.Gateway.PosID == "" {
		return nil, fmt.Errorf("VINTI4_POS_ID is required")
	}

	switch cfg.Secrets.Backend {
	case "env":
		if cfg.Gateway.PosAutCode == "" {
			return nil, fmt.Errorf("VINTI4_POS_AUT_CODE is required when SECRET_BACKEND=env")
		}
	case "local", "vault", "aws":
		if cfg.Secrets.SecretPath == "" {
			return nil, fmt.Errorf("SECRET_PATH is required when SECRET_BACKEND=%s", cfg.Secrets.Backend)
		}
		if cfg.Secrets.Backend == "vault" && cfg.Secrets.VaultAddress == "" {
			return nil, fmt.Errorf("VAULT_ADDR is required when SECRET_BACKEND=vault")
		}
		if cfg.Secrets.Backend == "aws" && cfg.Secrets.AWSRegion == "" {
			return nil, fmt.Errorf("AWS_REGION is required when SECRET_BACKEND=aws")
		}
	default:
		return nil, fmt.Errorf("unsupported SECRET_BACKEND: %s", cfg.Secrets.Backend)
	}

	return cfg, nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
