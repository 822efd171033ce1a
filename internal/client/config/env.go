package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type envConfig struct {
	ServerURL string        `env:"AUTHCTL_SERVER_URL"`
	GRPCAddr  string        `env:"AUTHCTL_GRPC_ADDR"`
	TokenFile string        `env:"AUTHCTL_TOKEN_FILE"`
	Timeout   time.Duration `env:"AUTHCTL_TIMEOUT"`
}

func parseEnv(cfg *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	setString(&cfg.ServerURL, e.ServerURL)
	setString(&cfg.GRPCAddr, e.GRPCAddr)
	setString(&cfg.TokenFile, e.TokenFile)
	if e.Timeout != 0 {
		cfg.Timeout = e.Timeout
	}
	return nil
}
