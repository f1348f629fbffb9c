// Package redismirror keeps the last good question snapshot in Redis so a
// restarted process can serve questions before its first fetch completes.
package redismirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/marquee/internal/domain/model"
)

const (
	defaultKey = "trivia:snapshot"
	defaultTTL = 24 * time.Hour
)

// ErrCorrupt is returned when the stored snapshot cannot be decoded.
var ErrCorrupt = errors.New("redis snapshot corrupt")

// Option applies a configuration option to the Mirror.
type Option func(*Mirror)

// WithKey sets the Redis key.
func WithKey(key string) Option {
	return func(m *Mirror) {
		if key != "" {
			m.key = key
		}
	}
}

// WithTTL sets how long a saved snapshot lives.
func WithTTL(ttl time.Duration) Option {
	return func(m *Mirror) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

type payload struct {
	SavedAt   time.Time        `json:"savedAt"`
	Questions []model.Question `json:"questions"`
}

// Mirror stores snapshots as one JSON value.
type Mirror struct {
	client redis.Cmdable
	key    string
	ttl    time.Duration
	now    func() time.Time
}

// New creates a Mirror over client.
func New(client redis.Cmdable, opts ...Option) *Mirror {
	m := &Mirror{client: client, key: defaultKey, ttl: defaultTTL, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Load returns the mirrored questions; a missing key yields (nil, nil).
func (m *Mirror) Load(ctx context.Context) ([]model.Question, error) {
	b, err := m.client.Get(ctx, m.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redismirror: get %s: %w", m.key, err)
	}
	var p payload
	if err := json.Unmarshal(b, &p); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	return p.Questions, nil
}

// Save replaces the mirrored snapshot.
func (m *Mirror) Save(ctx context.Context, qs []model.Question) error {
	b, err := json.Marshal(payload{SavedAt: m.now().UTC(), Questions: qs})
	if err != nil {
		return fmt.Errorf("redismirror: encode: %w", err)
	}
	if err := m.client.Set(ctx, m.key, b, m.ttl).Err(); err != nil {
		return fmt.Errorf("redismirror: set %s: %w", m.key, err)
	}
	return nil
}
