package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// envConfig lists the variables read from the environment. The unprefixed
// names are kept for deployments that already set them.
type envConfig struct {
	HTTPAddr           string        `env:"AUTHCORE_HTTP_ADDR"`
	Port               string        `env:"PORT"`
	GRPCAddr           string        `env:"AUTHCORE_GRPC_ADDR"`
	DatabaseDSN        string        `env:"AUTHCORE_DATABASE_DSN"`
	StoreBackend       string        `env:"AUTHCORE_STORE"`
	SecretKey          string        `env:"AUTHCORE_SECRET_KEY"`
	JWTSecret          string        `env:"JWT_SECRET"`
	TokenTTL           time.Duration `env:"AUTHCORE_TOKEN_TTL"`
	BcryptCost         int           `env:"AUTHCORE_BCRYPT_COST"`
	GoogleClientID     string        `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string        `env:"GOOGLE_CLIENT_SECRET"`
	GoogleCallbackURL  string        `env:"GOOGLE_CALLBACK_URL"`
	FrontendURL        string        `env:"FRONTEND_URL"`
	LogLevel           string        `env:"AUTHCORE_LOG_LEVEL"`
}

func parseEnv(config *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if e.Port != "" {
		config.HTTPAddr = ":" + e.Port
	}
	setString(&config.HTTPAddr, e.HTTPAddr)
	setString(&config.GRPCAddr, e.GRPCAddr)
	setString(&config.DatabaseDSN, e.DatabaseDSN)
	setString(&config.StoreBackend, e.StoreBackend)
	setString(&config.SecretKey, e.JWTSecret)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.GoogleClientID, e.GoogleClientID)
	setString(&config.GoogleClientSecret, e.GoogleClientSecret)
	setString(&config.GoogleCallbackURL, e.GoogleCallbackURL)
	setString(&config.FrontendURL, e.FrontendURL)
	setString(&config.LogLevel, e.LogLevel)
	if e.TokenTTL != 0 {
		config.TokenTTL = e.TokenTTL
	}
	if e.BcryptCost != 0 {
		config.BcryptCost = e.BcryptCost
	}
	return nil
}
