package app

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Issuer   string // Issuer claim expected on service tokens (default: assetdeck-auth)
	Audience string // Audience claim expected on service tokens (default: entitlements)

	TokenSecret string // Required: HS256 shared secret for service tokens (min 32 bytes)
	LinkSecret  string // Required: HMAC secret for signed download links

	DatabaseFile string // Optional: path to SQLite database file (default: ./entitlements.db)
	GeoIPFile    string // Optional: path to a MaxMind mmdb for download geo enrichment

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Lapsed-record sweep interval (default: 1h)
}

func LoadConfig() Config {
	return Config{
		Issuer:               getEnvOrDefault("ENTITLEMENTS_ISSUER", "assetdeck-auth"),
		Audience:             getEnvOrDefault("ENTITLEMENTS_AUDIENCE", "entitlements"),
		TokenSecret:          os.Getenv("ENTITLEMENTS_TOKEN_SECRET"),
		LinkSecret:           os.Getenv("ENTITLEMENTS_LINK_SECRET"),
		DatabaseFile:         getEnvOrDefault("ENTITLEMENTS_DATABASE_FILE", "entitlements.db"),
		GeoIPFile:            os.Getenv("ENTITLEMENTS_GEOIP_FILE"), // Optional
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Try parsing as integer minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
