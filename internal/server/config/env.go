package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// dotEnvFile is read before the environment is consulted. Variables already
// present in the process environment take precedence over the file.
var dotEnvFile = ".env"

// parseEnv overlays values from environment variables. A malformed value panics.
//
//	HTTP_ADDR, GRPC_ADDR, DATABASE_DRIVER, DATABASE_DSN, SECRET_KEY,
//	ACCESS_TOKEN_TTL (duration), CORS_ALLOWED_ORIGINS (comma list),
//	AUTH_RATE_LIMIT, AUTH_RATE_BURST, LOG_FORMAT, LOG_LEVEL,
//	LEGACY_PLAINTEXT_PASSWORDS, HEALTH_PROBE_INTERVAL (duration)
func parseEnv(config *Config) {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv("HTTP_ADDR"); ok && v != "" {
		config.EndpointAddrHTTP = v
	}
	if v, ok := os.LookupEnv("GRPC_ADDR"); ok {
		config.EndpointAddrGRPC = v
	}
	if v, ok := os.LookupEnv("DATABASE_DRIVER"); ok && v != "" {
		config.DatabaseDriver = v
	}
	if v, ok := os.LookupEnv("DATABASE_DSN"); ok && v != "" {
		config.DatabaseDSN = v
	}
	if v, ok := os.LookupEnv("SECRET_KEY"); ok && v != "" {
		config.SecretKey = v
	}
	if v, ok := os.LookupEnv("ACCESS_TOKEN_TTL"); ok && v != "" {
		config.AccessTokenValidityDuration = mustDuration("ACCESS_TOKEN_TTL", v)
	}
	if v, ok := os.LookupEnv("CORS_ALLOWED_ORIGINS"); ok && v != "" {
		config.CORSAllowedOrigins = splitList(v)
	}
	if v, ok := os.LookupEnv("AUTH_RATE_LIMIT"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(fmt.Errorf("AUTH_RATE_LIMIT: %w", err))
		}
		config.AuthRateLimit = f
	}
	if v, ok := os.LookupEnv("AUTH_RATE_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			panic(fmt.Errorf("AUTH_RATE_BURST: %w", err))
		}
		config.AuthRateBurst = n
	}
	if v, ok := os.LookupEnv("LOG_FORMAT"); ok && v != "" {
		config.LogFormat = v
	}
	if v, ok := os.LookupEnv("LOG_LEVEL"); ok && v != "" {
		config.LogLevel = v
	}
	if v, ok := os.LookupEnv("LEGACY_PLAINTEXT_PASSWORDS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			panic(fmt.Errorf("LEGACY_PLAINTEXT_PASSWORDS: %w", err))
		}
		config.LegacyPlaintextPasswords = b
	}
	if v, ok := os.LookupEnv("HEALTH_PROBE_INTERVAL"); ok && v != "" {
		config.HealthProbeInterval = mustDuration("HEALTH_PROBE_INTERVAL", v)
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("%s: %w", name, err))
	}
	return d
}
