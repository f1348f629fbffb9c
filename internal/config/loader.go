package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "MARQUEE_"
	envConfigFile = "MARQUEE_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New())
//  2. file (YAML) if MARQUEE_CONFIG is set
//  3. env (prefix MARQUEE_)
func Load(_ context.Context) (*Config, error) {
	base := New()

	k := koanf.New(".")

	if path := os.Getenv(envConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: file %s: %w", ErrLoadConfig, path, err)
		}
	}

	// MARQUEE_CACHE_TTL_SECONDS -> cache_ttl_seconds; underscores are kept to match the tags.
	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(envPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: unmarshal: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports the first invalid field, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case c.DBDriver != "postgres" && c.DBDriver != "sqlite":
		return fmt.Errorf("%w: db_driver must be postgres or sqlite, got %q", ErrInvalidConfig, c.DBDriver)
	case c.CacheTTLSeconds <= 0:
		return fmt.Errorf("%w: cache_ttl_seconds must be positive", ErrInvalidConfig)
	case c.MaxQuestionLimit <= 0:
		return fmt.Errorf("%w: max_question_limit must be positive", ErrInvalidConfig)
	case c.DefaultQuestionLimit <= 0 || c.DefaultQuestionLimit > c.MaxQuestionLimit:
		return fmt.Errorf("%w: default_question_limit must be in [1, max_question_limit]", ErrInvalidConfig)
	case c.FirestoreProjectID != "" && c.FirestoreCollection == "":
		return fmt.Errorf("%w: firestore_collection must be set with firestore_project_id", ErrInvalidConfig)
	case c.BattleRecordQueueSize <= 0:
		return fmt.Errorf("%w: battle_record_queue_size must be positive", ErrInvalidConfig)
	case c.BattleRecordWorkers <= 0:
		return fmt.Errorf("%w: battle_record_workers must be positive", ErrInvalidConfig)
	}
	return nil
}
