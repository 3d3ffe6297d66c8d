// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// LogFormat is "json" (default) or "text" for colourised local output.
	LogFormat string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// StoreDriver selects the trip document store: postgres or mongo.
	StoreDriver string

	// DatabaseURL is the Postgres connection string. Required for postgres.
	DatabaseURL string

	// MongoURI and MongoDatabase locate the Mongo store. Required for mongo.
	MongoURI      string
	MongoDatabase string

	// MigrateOnStart runs goose migrations before serving (postgres only).
	MigrateOnStart bool

	MetadataEndpoint  string
	MetadataTimeout   time.Duration
	MetadataCacheSize int
	MetadataCacheTTL  time.Duration

	// WriteRetries bounds how often a conflicting trip write is re-applied.
	WriteRetries int

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64

	// Discord notifications are enabled when both are set.
	DiscordBotToken  string
	DiscordChannelID string
}

// NotificationsEnabled reports whether Discord credentials are configured.
func (c Config) NotificationsEnabled() bool {
	return c.DiscordBotToken != "" && c.DiscordChannelID != ""
}

var defaults = map[string]any{
	"PORT":                "8080",
	"LOG_LEVEL":           "info",
	"LOG_FORMAT":          "json",
	"CORS_ORIGINS":        "http://localhost:5173",
	"STORE_DRIVER":        DriverPostgres,
	"MONGO_DATABASE":      "tripplanner",
	"MIGRATE_ON_START":    true,
	"METADATA_ENDPOINT":   "https://api.microlink.io/",
	"METADATA_TIMEOUT":    "5s",
	"METADATA_CACHE_SIZE": 256,
	"METADATA_CACHE_TTL":  "1h",
	"WRITE_RETRIES":       3,
	"MAX_BODY_BYTES":      1 << 20,
}

var unset = []string{"DATABASE_URL", "MONGO_URI", "DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID"}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	v := viper.New()
	for k, d := range defaults {
		v.SetDefault(k, d)
	}
	for _, k := range unset {
		_ = v.BindEnv(k)
	}
	v.AutomaticEnv()

	cfg := Config{
		Port:              v.GetString("PORT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         strings.ToLower(v.GetString("LOG_FORMAT")),
		CORSOrigins:       splitCSV(v.GetString("CORS_ORIGINS")),
		StoreDriver:       strings.ToLower(v.GetString("STORE_DRIVER")),
		DatabaseURL:       v.GetString("DATABASE_URL"),
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDatabase:     v.GetString("MONGO_DATABASE"),
		MigrateOnStart:    v.GetBool("MIGRATE_ON_START"),
		MetadataEndpoint:  v.GetString("METADATA_ENDPOINT"),
		MetadataTimeout:   v.GetDuration("METADATA_TIMEOUT"),
		MetadataCacheSize: v.GetInt("METADATA_CACHE_SIZE"),
		MetadataCacheTTL:  v.GetDuration("METADATA_CACHE_TTL"),
		WriteRetries:      v.GetInt("WRITE_RETRIES"),
		MaxBodyBytes:      v.GetInt64("MAX_BODY_BYTES"),
		DiscordBotToken:   v.GetString("DISCORD_BOT_TOKEN"),
		DiscordChannelID:  v.GetString("DISCORD_CHANNEL_ID"),
	}

	var missing []string
	switch cfg.StoreDriver {
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			missing = append(missing, "DATABASE_URL")
		}
	case DriverMongo:
		if cfg.MongoURI == "" {
			missing = append(missing, "MONGO_URI")
		}
		if cfg.MongoDatabase == "" {
			missing = append(missing, "MONGO_DATABASE")
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverPostgres, DriverMongo, cfg.StoreDriver)
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.WriteRetries < 0 {
		return Config{}, fmt.Errorf("WRITE_RETRIES must not be negative")
	}
	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be positive")
	}

	return cfg, nil
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
