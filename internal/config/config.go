// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Flat koanf keys; env vars map MARQUEE_CACHE_TTL_SECONDS -> cache_ttl_seconds.
// - New() returns defaults; Load(ctx) layers file and env on top.
package config

import (
	"strings"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBDriver is "postgres" or "sqlite".
	DBDriver string `koanf:"db_driver"`

	// DBDSN is the driver-specific connection string.
	DBDSN string `koanf:"db_dsn"`

	// SeedOnStart inserts the starter catalog into empty tables.
	SeedOnStart bool `koanf:"seed_on_start"`

	// Redis mirror for the question snapshot. Empty address disables it.
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`

	// Firestore document source. Empty project disables the question cache.
	// Without a credentials file, application default credentials are used;
	// FIRESTORE_EMULATOR_HOST targets an emulator.
	FirestoreProjectID       string `koanf:"firestore_project_id"`
	FirestoreCollection      string `koanf:"firestore_collection"`
	FirestoreCredentialsFile string `koanf:"firestore_credentials_file"`

	// CacheTTLSeconds is the question cache freshness window.
	CacheTTLSeconds int `koanf:"cache_ttl_seconds"`

	// MaxQuestionLimit caps GET /api/trivia/questions?limit.
	MaxQuestionLimit int `koanf:"max_question_limit"`

	// DefaultQuestionLimit applies when limit is omitted.
	DefaultQuestionLimit int `koanf:"default_question_limit"`

	// BattleRecordQueueSize bounds the battle session recorder queue.
	BattleRecordQueueSize int `koanf:"battle_record_queue_size"`

	// BattleRecordWorkers sets the number of recorder workers.
	BattleRecordWorkers int `koanf:"battle_record_workers"`

	// CORSAllowedOrigins is a comma separated origin list; "*" allows all.
	CORSAllowedOrigins string `koanf:"cors_allowed_origins"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:              "info",
		LogFormat:             "text",
		Addr:                  ":8080",
		DBDriver:              "postgres",
		DBDSN:                 "host=localhost user=postgres password=postgres dbname=marquee port=5432 sslmode=disable",
		SeedOnStart:           true,
		RedisDB:               0,
		FirestoreCollection:   "trivia_questions",
		CacheTTLSeconds:       1800,
		MaxQuestionLimit:      50,
		DefaultQuestionLimit:  10,
		BattleRecordQueueSize: 1024,
		BattleRecordWorkers:   2,
		CORSAllowedOrigins:    "*",
	}
}

// CacheTTL returns the freshness window as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}

// AllowedOrigins splits CORSAllowedOrigins into trimmed, non-empty entries.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
