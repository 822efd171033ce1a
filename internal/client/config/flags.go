package config

import (
	"flag"
	"fmt"
	"io"
)

// parseFlags overlays flags onto cfg and returns the non-flag arguments.
//
// Supported flags:
//
//	-c string     JSON config file (read by parseJSON)
//	-u string     base URL of the HTTP API
//	-g string     gRPC address
//	-f string     token file
//	-t duration   request timeout
//
// Flags must come before the command, as with the standard flag package.
func parseFlags(cfg *Config, args []string) ([]string, error) {
	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var ignored string
	fs.StringVar(&ignored, "c", "", "JSON config file")
	fs.StringVar(&ignored, "config", "", "JSON config file")
	fs.StringVar(&cfg.ServerURL, "u", cfg.ServerURL, "server URL")
	fs.StringVar(&cfg.GRPCAddr, "g", cfg.GRPCAddr, "gRPC address")
	fs.StringVar(&cfg.TokenFile, "f", cfg.TokenFile, "token file")
	fs.DurationVar(&cfg.Timeout, "t", cfg.Timeout, "request timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}
	return fs.Args(), nil
}
