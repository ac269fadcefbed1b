package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	DSN string
}

type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
}

type IdentityConfig struct {
	// ProviderURL points at an optional external profile provider. Empty
	// means login and registration fabricate profiles locally.
	ProviderURL string
}

type AuditConfig struct {
	Interval time.Duration
}

type SeedConfig struct {
	AccountName     string
	AccountBalance  float64
	AccountCurrency string
}

type LoggingConfig struct {
	Level string
}

type AppConfig struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Identity IdentityConfig
	Audit    AuditConfig
	Seed     SeedConfig
	Logging  LoggingConfig
}

func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "3000")
	viper.SetDefault("DATABASE_DSN", "data/journal.db")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "insecure-dev-secret")
	viper.SetDefault("JWT_TTL", "24h")
	viper.SetDefault("PROFILE_PROVIDER_URL", "")
	viper.SetDefault("AUDIT_INTERVAL", "1h")
	viper.SetDefault("DEFAULT_ACCOUNT_NAME", "Main Trading Account")
	viper.SetDefault("DEFAULT_ACCOUNT_BALANCE", 10000.0)
	viper.SetDefault("DEFAULT_ACCOUNT_CURRENCY", "USD")

	tokenTTL, err := time.ParseDuration(viper.GetString("JWT_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid jwt ttl: %w", err)
	}

	auditInterval, err := time.ParseDuration(viper.GetString("AUDIT_INTERVAL"))
	if err != nil {
		return nil, fmt.Errorf("invalid audit interval: %w", err)
	}

	cfg := &AppConfig{
		Server: ServerConfig{
			Port: viper.GetString("SERVER_PORT"),
		},
		Database: DatabaseConfig{
			DSN: viper.GetString("DATABASE_DSN"),
		},
		Auth: AuthConfig{
			JWTSecret: viper.GetString("JWT_SECRET"),
			TokenTTL:  tokenTTL,
		},
		Identity: IdentityConfig{
			ProviderURL: viper.GetString("PROFILE_PROVIDER_URL"),
		},
		Audit: AuditConfig{
			Interval: auditInterval,
		},
		Seed: SeedConfig{
			AccountName:     viper.GetString("DEFAULT_ACCOUNT_NAME"),
			AccountBalance:  viper.GetFloat64("DEFAULT_ACCOUNT_BALANCE"),
			AccountCurrency: viper.GetString("DEFAULT_ACCOUNT_CURRENCY"),
		},
		Logging: LoggingConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
	}

	if cfg.Database.DSN == "" {
		return nil, fmt.Errorf("DATABASE_DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}
