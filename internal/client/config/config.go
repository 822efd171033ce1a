// Package config loads settings for the authctl command-line client.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for authctl.
//
// Fields:
//   - ServerURL: base URL of the authcore HTTP API.
//   - GRPCAddr: host:port of the authcore gRPC endpoint, used by health probes.
//   - TokenFile: where the session token is kept between invocations.
//   - Timeout: upper bound for a single request.
type Config struct {
	ServerURL string
	GRPCAddr  string
	TokenFile string
	Timeout   time.Duration
}

// LoadDefaults populates c with values suitable for a local server.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:5000"
	c.GRPCAddr = "localhost:50051"
	c.TokenFile = defaultTokenFile()
	c.Timeout = 10 * time.Second
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".authctl_token"
	}
	return filepath.Join(dir, "authcore", "token")
}

// LoadConfig builds a Config from defaults, then the JSON file named by -c,
// then the environment, then flags. It returns the arguments left after the
// flags, the first of which is the command to run.
func LoadConfig(args []string) (*Config, []string, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, nil, err
	}
	rest, err := parseFlags(cfg, args)
	if err != nil {
		return nil, nil, err
	}
	return cfg, rest, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
