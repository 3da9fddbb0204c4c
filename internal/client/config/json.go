package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/passy1977/pocket-web-backend/internal/flagx"
	"github.com/passy1977/pocket-web-backend/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "3s" or as integer nanoseconds. Absent keys leave the
// current value alone.
type JsonConfig struct {
	ServerEndpointAddr *string         `json:"server_endpoint_addr"`
	DatabaseDriver     *string         `json:"database_driver"`
	DatabaseDSN        *string         `json:"database_dsn"`
	DataDir            *string         `json:"data_dir"`
	UseAES             *bool           `json:"use_aes"`
	PushTimeout        *timex.Duration `json:"push_timeout"`
	ConnectTimeout     *timex.Duration `json:"connect_timeout"`
	SessionExpiration  *timex.Duration `json:"session_expiration"`
	HeartbeatInterval  *timex.Duration `json:"heartbeat_interval"`
	LogLevel           *string         `json:"log_level"`
	LogFormat          *string         `json:"log_format"`
	BackupBucket       *string         `json:"backup_bucket"`
	BackupRegion       *string         `json:"backup_region"`
	BackupEndpoint     *string         `json:"backup_endpoint"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func setDurationIf(dst *time.Duration, src *timex.Duration) {
	if src != nil {
		*dst = src.Duration
	}
}

// parseJson overlays Config with values loaded from the JSON file named by
// -c or -config. Without the flag nothing is loaded.
func parseJson(cfg *Config, args []string) error {
	jsonConfigFile := flagx.JsonConfigFlags(args)
	if jsonConfigFile == "" {
		return nil
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		return err
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return err
	}

	setIf(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setIf(&cfg.DatabaseDriver, jc.DatabaseDriver)
	setIf(&cfg.DatabaseDSN, jc.DatabaseDSN)
	setIf(&cfg.DataDir, jc.DataDir)
	setIf(&cfg.UseAES, jc.UseAES)
	setDurationIf(&cfg.PushTimeout, jc.PushTimeout)
	setDurationIf(&cfg.ConnectTimeout, jc.ConnectTimeout)
	setDurationIf(&cfg.SessionExpiration, jc.SessionExpiration)
	setDurationIf(&cfg.HeartbeatInterval, jc.HeartbeatInterval)
	setIf(&cfg.LogLevel, jc.LogLevel)
	setIf(&cfg.LogFormat, jc.LogFormat)
	setIf(&cfg.BackupBucket, jc.BackupBucket)
	setIf(&cfg.BackupRegion, jc.BackupRegion)
	setIf(&cfg.BackupEndpoint, jc.BackupEndpoint)
	return nil
}
