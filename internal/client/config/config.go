package config

import (
	"fmt"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/client/backup"
	"github.com/passy1977/pocket-web-backend/internal/client/client"
)

// Config holds runtime settings for the pocket CLI.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DatabaseDriver / DatabaseDSN: local store, "sqlite" or "pgx".
//   - PushTimeout / ConnectTimeout: defaults of the sync coordinator.
//   - SessionExpiration: idle time after which a session is dropped.
//   - HeartbeatInterval: how often the CLI checks the token and user version.
//   - Backup*: object storage used after export, disabled without a bucket.
type Config struct {
	ServerEndpointAddr string
	DatabaseDriver     string
	DatabaseDSN        string
	DataDir            string
	UseAES             bool

	PushTimeout       time.Duration
	ConnectTimeout    time.Duration
	SessionExpiration time.Duration
	HeartbeatInterval time.Duration

	LogLevel  string
	LogFormat string

	BackupBucket    string
	BackupRegion    string
	BackupEndpoint  string
	BackupAccessKey string
	BackupSecretKey string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DatabaseDriver = "sqlite"
	c.DatabaseDSN = "pocket.db"
	c.DataDir = ".pocket"
	c.PushTimeout = 10 * time.Second
	c.ConnectTimeout = 5 * time.Second
	c.SessionExpiration = 5 * time.Minute
	c.HeartbeatInterval = 30 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Timeouts returns the default timeouts of a push.
func (c *Config) Timeouts() client.Timeouts {
	return client.Timeouts{Request: c.PushTimeout, Connect: c.ConnectTimeout}
}

func (c *Config) Backup() backup.Config {
	return backup.Config{
		Bucket:    c.BackupBucket,
		Region:    c.BackupRegion,
		Endpoint:  c.BackupEndpoint,
		AccessKey: c.BackupAccessKey,
		SecretKey: c.BackupSecretKey,
	}
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json config error: %w", err)
	}
	if err := parseEnv(cfg); err != nil {
		return nil, fmt.Errorf("env config error: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags error: %w", err)
	}
	return cfg, nil
}
