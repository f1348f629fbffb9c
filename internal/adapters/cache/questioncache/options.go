package questioncache

import (
	"math/rand/v2"
	"time"

	"github.com/okian/marquee/pkg/logger"
)

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithTTL sets the freshness window after which a populated cache is refreshed in the background.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithFetchTimeout bounds a single bulk fetch.
func WithFetchTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.fetchTimeout = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithMirror mirrors every installed snapshot and seeds Init from it.
func WithMirror(mirror Mirror) Option {
	return func(m *Manager) {
		if mirror != nil {
			m.mirror = mirror
		}
	}
}

// WithRand makes sampling reproducible. Access is serialized internally.
func WithRand(r *rand.Rand) Option {
	return func(m *Manager) {
		if r != nil {
			m.rng = r
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		if now != nil {
			m.now = now
		}
	}
}
