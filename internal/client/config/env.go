package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// envConfig mirrors the settings that may come from the environment. Empty
// values leave the current setting alone.
type envConfig struct {
	ServerEndpointAddr string        `env:"POCKET_ADDR" env-description:"address:port of the backend gRPC endpoint"`
	DatabaseDriver     string        `env:"POCKET_DB_DRIVER" env-description:"local database driver, sqlite or pgx"`
	DatabaseDSN        string        `env:"POCKET_DSN" env-description:"local database DSN"`
	DataDir            string        `env:"POCKET_DATA_DIR" env-description:"directory for exported archives"`
	UseAES             string        `env:"POCKET_USE_AES" env-description:"seal passwords and archives with the device secret"`
	PushTimeout        time.Duration `env:"POCKET_PUSH_TIMEOUT" env-description:"push timeout"`
	ConnectTimeout     time.Duration `env:"POCKET_CONNECT_TIMEOUT" env-description:"connect timeout"`
	SessionExpiration  time.Duration `env:"POCKET_SESSION_EXPIRATION" env-description:"idle session expiration"`
	HeartbeatInterval  time.Duration `env:"POCKET_HEARTBEAT_INTERVAL" env-description:"heartbeat interval"`
	LogLevel           string        `env:"POCKET_LOG_LEVEL" env-description:"debug, info, warn or error"`
	LogFormat          string        `env:"POCKET_LOG_FORMAT" env-description:"text or json"`
	BackupBucket       string        `env:"POCKET_BACKUP_BUCKET" env-description:"S3 bucket for exported archives"`
	BackupRegion       string        `env:"POCKET_BACKUP_REGION" env-description:"S3 region"`
	BackupEndpoint     string        `env:"POCKET_BACKUP_ENDPOINT" env-description:"S3 endpoint, for MinIO and similar"`
	BackupAccessKey    string        `env:"POCKET_BACKUP_ACCESS_KEY" env-description:"S3 access key"`
	BackupSecretKey    string        `env:"POCKET_BACKUP_SECRET_KEY" env-description:"S3 secret key"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

// parseEnv overlays Config with POCKET_* variables. A .env file in the
// working directory is loaded first; it never overrides the real environment.
func parseEnv(cfg *Config) error {
	_ = godotenv.Load()

	var ec envConfig
	if err := cleanenv.ReadEnv(&ec); err != nil {
		return err
	}

	setString(&cfg.ServerEndpointAddr, ec.ServerEndpointAddr)
	setString(&cfg.DatabaseDriver, ec.DatabaseDriver)
	setString(&cfg.DatabaseDSN, ec.DatabaseDSN)
	setString(&cfg.DataDir, ec.DataDir)
	if ec.UseAES != "" {
		v, err := strconv.ParseBool(ec.UseAES)
		if err != nil {
			return fmt.Errorf("POCKET_USE_AES: %w", err)
		}
		cfg.UseAES = v
	}
	setDuration(&cfg.PushTimeout, ec.PushTimeout)
	setDuration(&cfg.ConnectTimeout, ec.ConnectTimeout)
	setDuration(&cfg.SessionExpiration, ec.SessionExpiration)
	setDuration(&cfg.HeartbeatInterval, ec.HeartbeatInterval)
	setString(&cfg.LogLevel, ec.LogLevel)
	setString(&cfg.LogFormat, ec.LogFormat)
	setString(&cfg.BackupBucket, ec.BackupBucket)
	setString(&cfg.BackupRegion, ec.BackupRegion)
	setString(&cfg.BackupEndpoint, ec.BackupEndpoint)
	setString(&cfg.BackupAccessKey, ec.BackupAccessKey)
	setString(&cfg.BackupSecretKey, ec.BackupSecretKey)
	return nil
}

// EnvUsage describes the recognised environment variables.
func EnvUsage() string {
	text, err := cleanenv.GetDescription(&envConfig{}, nil)
	if err != nil {
		return ""
	}
	return text
}
