// Package config handles configuration for the server component,
// including defaults, JSON overlay, environment variables and command-line
// flags.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Supported database drivers.
const (
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds runtime settings for the masterrol server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the JSON API.
//   - EndpointAddrGRPC: bind address for the gRPC health service; empty disables it.
//   - DatabaseDriver / DatabaseDSN: backing store selection and its DSN.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - CORSAllowedOrigins: browser origins allowed to call the API with credentials.
//   - AuthRateLimit / AuthRateBurst: per-client limit on /login and registration.
//   - LogFormat / LogLevel: see logging.New.
//   - LegacyPlaintextPasswords: accept stored secrets that were never hashed.
//   - HealthProbeInterval: how often the store is pinged for health reporting.
type Config struct {
	EndpointAddrHTTP            string
	EndpointAddrGRPC            string
	DatabaseDriver              string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	CORSAllowedOrigins          []string
	AuthRateLimit               float64
	AuthRateBurst               int
	LogFormat                   string
	LogLevel                    string
	LegacyPlaintextPasswords    bool
	HealthProbeInterval         time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":5001"
	c.EndpointAddrGRPC = ":50051"
	c.DatabaseDriver = DriverSQLite
	c.DatabaseDSN = "file:masterrol.db"
	c.SecretKey = "clave-super-secreta-de-master-rol"
	c.AccessTokenValidityDuration = 1 * time.Hour
	c.CORSAllowedOrigins = []string{"http://localhost:5000"}
	c.AuthRateLimit = 1
	c.AuthRateBurst = 5
	c.LogFormat = "json"
	c.LogLevel = "info"
	c.LegacyPlaintextPasswords = false
	c.HealthProbeInterval = 10 * time.Second
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	switch c.DatabaseDriver {
	case DriverMySQL, DriverSQLite, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.DatabaseDriver))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is empty"))
	}
	if c.SecretKey == "" {
		errs = append(errs, errors.New("secret key is empty"))
	}
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, errors.New("access token validity must be positive"))
	}
	if c.EndpointAddrHTTP == "" {
		errs = append(errs, errors.New("http address is empty"))
	}

	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment, and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// splitList splits a comma separated list, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
