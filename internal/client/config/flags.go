package config

import (
	"flag"
	"io"

	"github.com/passy1977/pocket-web-backend/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short and long forms):
//
//	-a, --addr string               address and port of the backend server
//	-d, --dsn string                local database DSN
//	-t, --timeout duration          push timeout, e.g. 10s
//	-T, --connect-timeout duration  connect timeout
//
// The args are filtered with flagx.FilterArgs first, so flags owned by other
// components do not interfere.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "--addr", "-d", "--dsn", "-t", "--timeout", "-T", "--connect-timeout",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	for _, name := range []string{"a", "addr"} {
		fs.StringVar(&cfg.ServerEndpointAddr, name, cfg.ServerEndpointAddr, "address and port to access server")
	}
	for _, name := range []string{"d", "dsn"} {
		fs.StringVar(&cfg.DatabaseDSN, name, cfg.DatabaseDSN, "local database DSN")
	}
	for _, name := range []string{"t", "timeout"} {
		fs.DurationVar(&cfg.PushTimeout, name, cfg.PushTimeout, "push timeout")
	}
	for _, name := range []string{"T", "connect-timeout"} {
		fs.DurationVar(&cfg.ConnectTimeout, name, cfg.ConnectTimeout, "connect timeout")
	}

	return fs.Parse(args)
}
