package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/masterrol/internal/flagx"
	"github.com/dmitrijs2005/masterrol/internal/timex"
)

// JsonConfig is the on-disk form of Config. Durations use timex.Duration, so
// both "1h" and integer nanoseconds are accepted. Pointer fields distinguish
// "not set" from a zero value.
type JsonConfig struct {
	EndpointAddrHTTP            string         `json:"endpoint_addr_http"`
	EndpointAddrGRPC            *string        `json:"endpoint_addr_grpc"`
	DatabaseDriver              string         `json:"database_driver"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	CORSAllowedOrigins          []string       `json:"cors_allowed_origins"`
	AuthRateLimit               *float64       `json:"auth_rate_limit"`
	AuthRateBurst               *int           `json:"auth_rate_burst"`
	LogFormat                   string         `json:"log_format"`
	LogLevel                    string         `json:"log_level"`
	LegacyPlaintextPasswords    *bool          `json:"legacy_plaintext_passwords"`
	HealthProbeInterval         timex.Duration `json:"health_probe_interval"`
}

// parseJson overlays values from the JSON file named by -c or -config.
// Nothing happens when neither flag is given. Fields absent from the file
// keep their current value. An unreadable or invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	c.apply(config)
}

func (c *JsonConfig) apply(config *Config) {
	if c.EndpointAddrHTTP != "" {
		config.EndpointAddrHTTP = c.EndpointAddrHTTP
	}
	if c.EndpointAddrGRPC != nil {
		config.EndpointAddrGRPC = *c.EndpointAddrGRPC
	}
	if c.DatabaseDriver != "" {
		config.DatabaseDriver = c.DatabaseDriver
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.AccessTokenValidityDuration.Duration != 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.CORSAllowedOrigins != nil {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
	if c.AuthRateLimit != nil {
		config.AuthRateLimit = *c.AuthRateLimit
	}
	if c.AuthRateBurst != nil {
		config.AuthRateBurst = *c.AuthRateBurst
	}
	if c.LogFormat != "" {
		config.LogFormat = c.LogFormat
	}
	if c.LogLevel != "" {
		config.LogLevel = c.LogLevel
	}
	if c.LegacyPlaintextPasswords != nil {
		config.LegacyPlaintextPasswords = *c.LegacyPlaintextPasswords
	}
	if c.HealthProbeInterval.Duration != 0 {
		config.HealthProbeInterval = c.HealthProbeInterval.Duration
	}
}
