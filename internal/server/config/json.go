package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/accountd/internal/flagx"
	"github.com/dmitrijs2005/accountd/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "10s" and integer nanoseconds are accepted.
// Only fields present in the file override the current Config.
type JsonConfig struct {
	EndpointAddrHTTP    string          `json:"endpoint_addr_http"`
	EndpointAddrGRPC    string          `json:"endpoint_addr_grpc"`
	DatabaseDriver      string          `json:"database_driver"`
	DatabaseDSN         string          `json:"database_dsn"`
	SecretKey           string          `json:"secret_key"`
	Issuer              string          `json:"issuer"`
	Audience            string          `json:"audience"`
	LogLevel            string          `json:"log_level"`
	HealthCheckInterval *timex.Duration `json:"health_check_interval"`
	ShutdownTimeout     *timex.Duration `json:"shutdown_timeout"`
}

// parseJson loads the file named by -c/-config in args, if any.
func parseJson(config *Config, args []string) error {
	path := flagx.ConfigPath(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.Issuer, c.Issuer)
	setString(&config.Audience, c.Audience)
	setString(&config.LogLevel, c.LogLevel)
	if c.HealthCheckInterval != nil {
		config.HealthCheckInterval = c.HealthCheckInterval.Duration
	}
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
