package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/rcornejom06/authcore/internal/flagx"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags:
//
//	-a string     HTTP listen address (e.g. ":5000")
//	-g string     gRPC listen address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-b string     store backend: postgres or memory
//	-s string     token signing secret
//	-t duration   token validity (e.g. "24h")
//	-l string     log level
//
// args is filtered through flagx.FilterArgs first so flags owned by other
// parsers (such as -c) are ignored.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-d", "-b", "-s", "-t", "-l"})

	fs := flag.NewFlagSet("authcore", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "HTTP listen address")
	fs.StringVar(&config.GRPCAddr, "g", config.GRPCAddr, "gRPC listen address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.StoreBackend, "b", config.StoreBackend, "store backend (postgres|memory)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "token signing secret")
	fs.DurationVar(&config.TokenTTL, "t", config.TokenTTL, "token validity")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
