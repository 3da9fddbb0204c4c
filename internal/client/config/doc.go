// Package config loads runtime configuration for the pocket CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Environment variables prefixed POCKET_, after loading a .env file.
//  4. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a, --addr string               address:port of the backend gRPC endpoint
//	-d, --dsn string                local database DSN
//	-t, --timeout duration          push timeout
//	-T, --connect-timeout duration  connect timeout
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be either
// strings like "3s" or integer nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "database_driver": "sqlite",
//	  "database_dsn": "pocket.db",
//	  "push_timeout": "10s",
//	  "connect_timeout": "5s"
//	}
//
// Backup credentials are read from the environment only.
package config
