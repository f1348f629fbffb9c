// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okian/marquee/internal/adapters/cache/questioncache"
	"github.com/okian/marquee/internal/adapters/mq/queue"
	"github.com/okian/marquee/internal/adapters/mq/worker"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/trivia"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// Service configuration defaults.
const (
	defaultWorkerCount = 2
	defaultQueueSize   = 1024
	stopTimeout        = 30 * time.Second
)

// ErrNoStore is returned by Start when the service has no relational store.
var ErrNoStore = errors.New("service: no store configured")

// Store is the relational backend the service reads and writes.
type Store interface {
	RandomMovieAthletes(ctx context.Context, limit int) ([]model.Character, error)
	MovieAthletesByArchetype(ctx context.Context, a model.Archetype) ([]model.Character, error)
	CreateGameSession(ctx context.Context, gs model.GameSession) (model.GameSession, error)
	CountTriviaQuestions(ctx context.Context) (int64, error)
	QuestionProvider() trivia.Provider
}

// Service implements the API dependencies for the trivia and battle system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   Store
	cache   *questioncache.Manager
	chain   *trivia.Chain
	records *queue.InMemoryQueue
	pool    *worker.Pool
	closers []func() error

	// Configuration
	workerCount int
	queueSize   int

	started bool
	logger  logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of battle recorder workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the battle record queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithQuestionCache puts the document cache in front of the store.
func WithQuestionCache(c *questioncache.Manager) Option {
	return func(s *Service) {
		s.cache = c
	}
}

// WithCloser registers a release hook run by Stop, in reverse order.
func WithCloser(fn func() error) Option {
	return func(s *Service) {
		if fn != nil {
			s.closers = append(s.closers, fn)
		}
	}
}

// New constructs a Service over store.
func New(store Store, opts ...Option) *Service {
	s := &Service{
		store:       store,
		workerCount: defaultWorkerCount,
		queueSize:   defaultQueueSize,
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start seeds and warms the question cache, builds the provider chain and
// starts the battle recorder. It is a no-op when already started.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return ErrNoStore
	}

	s.logger.Info(ctx, "starting marquee service...")

	providers := make([]trivia.Provider, 0, 2)
	if s.cache != nil {
		if err := s.cache.Init(ctx); err != nil {
			s.logger.Warn(ctx, "question cache mirror unavailable", logger.Error(err))
		}
		s.cache.Warm(ctx)
		providers = append(providers, s.cache)
	}
	providers = append(providers, s.store.QuestionProvider())
	s.chain = trivia.NewChain(s.logger.Named("trivia"), providers...)

	s.records = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.records, s.store, worker.WithLogger(s.logger))
	// Workers outlive request cancellation so Stop can drain the queue.
	s.pool.Start(context.WithoutCancel(ctx))

	s.started = true
	s.logger.Info(ctx, "marquee service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("questionCache", s.cache != nil),
	)
	return nil
}

// Stop drains the recorder, stops the cache and releases registered resources.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping marquee service...")

	ctx, cancel := context.WithTimeout(ctx, stopTimeout)
	defer cancel()

	var errs []error
	if err := s.pool.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	if s.cache != nil {
		if err := s.cache.Shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}

	s.started = false
	s.logger.Info(ctx, "marquee service stopped")
	return errors.Join(errs...)
}

// Questions serves trivia questions from the provider chain.
func (s *Service) Questions(ctx context.Context, q model.QuestionQuery) trivia.Result {
	s.mu.RLock()
	chain := s.chain
	s.mu.RUnlock()
	if chain == nil {
		return trivia.Result{Questions: []model.Question{}}
	}
	return chain.Questions(ctx, q)
}

// TriviaStats reports the cache size when it holds questions, otherwise the
// relational row count.
func (s *Service) TriviaStats(ctx context.Context) (model.TriviaStats, error) {
	if s.cache != nil {
		if n := s.cache.Size(); n > 0 {
			return model.TriviaStats{TotalQuestions: int64(n), Source: s.cache.Name()}, nil
		}
	}
	n, err := s.store.CountTriviaQuestions(ctx)
	if err != nil {
		return model.TriviaStats{}, err
	}
	return model.TriviaStats{TotalQuestions: n, Source: s.store.QuestionProvider().Name()}, nil
}

// RecordBattle queues a resolved battle for persistence. Returns false when
// the service is stopped or the queue is full.
func (s *Service) RecordBattle(ctx context.Context, r model.BattleRecord) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return false
	}
	return s.records.Enqueue(ctx, r)
}

// RandomMovieAthletes returns up to limit random athletes.
func (s *Service) RandomMovieAthletes(ctx context.Context, limit int) ([]model.Character, error) {
	return s.store.RandomMovieAthletes(ctx, limit)
}

// MovieAthletesByArchetype returns every athlete of archetype a.
func (s *Service) MovieAthletesByArchetype(ctx context.Context, a model.Archetype) ([]model.Character, error) {
	return s.store.MovieAthletesByArchetype(ctx, a)
}

// CreateGameSession persists a finished game.
func (s *Service) CreateGameSession(ctx context.Context, gs model.GameSession) (model.GameSession, error) {
	return s.store.CreateGameSession(ctx, gs)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
	}
	if s.started {
		queueLen := s.records.Len(context.Background())
		stats["queueLength"] = queueLen
		metrics.UpdateQueueSize(queueLen)
	}
	if s.cache != nil {
		size := s.cache.Size()
		stats["cacheState"] = string(s.cache.State())
		stats["cacheSize"] = size
		if t := s.cache.LastRefresh(); !t.IsZero() {
			stats["cacheLastRefresh"] = t.UTC().Format(time.RFC3339)
		}
		metrics.UpdateCacheSize(size)
	}
	return stats
}
