package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rcornejom06/authcore/internal/flagx"
	"github.com/rcornejom06/authcore/internal/timex"
)

// JSONConfig is used only for unmarshalling the config file. Timeout accepts
// "5s" style strings or integer nanoseconds.
type JSONConfig struct {
	ServerURL string         `json:"server_url"`
	GRPCAddr  string         `json:"grpc_addr"`
	TokenFile string         `json:"token_file"`
	Timeout   timex.Duration `json:"timeout"`
}

func parseJSON(cfg *Config, args []string) error {
	path := flagx.ConfigFilePath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var jc JSONConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&cfg.ServerURL, jc.ServerURL)
	setString(&cfg.GRPCAddr, jc.GRPCAddr)
	setString(&cfg.TokenFile, jc.TokenFile)
	if jc.Timeout.Duration != 0 {
		cfg.Timeout = jc.Timeout.Duration
	}
	return nil
}
