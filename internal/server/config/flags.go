package config

import (
	"flag"
	"fmt"
	"io"

	"github.com/dmitrijs2005/accountd/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-g string   gRPC health bind address (e.g., ":50051")
//	-r string   database driver: pgx or sqlite
//	-d string   database DSN
//	-s string   JWT signing secret
//	-i string   JWT issuer
//	-u string   JWT audience
//	-l string   log level
//
// Unknown arguments are filtered out first with flagx.FilterArgs, so -c and
// flags owned by other components do not cause a parse error.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-g", "-r", "-d", "-s", "-i", "-u", "-l"})

	fs := flag.NewFlagSet("accountd", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.EndpointAddrGRPC, "g", config.EndpointAddrGRPC, "gRPC health address and port")
	fs.StringVar(&config.DatabaseDriver, "r", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT signing secret")
	fs.StringVar(&config.Issuer, "i", config.Issuer, "JWT issuer")
	fs.StringVar(&config.Audience, "u", config.Audience, "JWT audience")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}
	return nil
}
