// Package questioncache keeps an in-memory pool of trivia questions bulk-fetched
// from the document store.
//
// Readers are served from an immutable snapshot swapped atomically. At most one
// refresh runs at a time; it runs on the manager's lifetime context so it
// outlives the request that triggered it. A reader waits only when the cache is
// empty and a refresh is already in flight.
package questioncache

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/trivia"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

const (
	defaultTTL          = 30 * time.Minute
	defaultFetchTimeout = 2 * time.Minute
	mirrorTimeout       = 5 * time.Second
	refreshKey          = "refresh"

	// SourceName labels questions served from the cache.
	SourceName = "firebase"
)

// Fetcher bulk-reads raw question documents. On a mid-pagination failure it
// returns the records gathered so far together with the error.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]model.RawQuestion, error)
}

// Mirror persists the last installed snapshot outside the process.
type Mirror interface {
	Load(ctx context.Context) ([]model.Question, error)
	Save(ctx context.Context, qs []model.Question) error
}

// State describes the cache lifecycle.
type State string

// Cache states.
const (
	StateEmpty      State = "EMPTY"
	StateWarming    State = "WARMING"
	StateWarm       State = "WARM"
	StateRefreshing State = "REFRESHING"
)

type snapshot struct {
	questions []model.Question
	// refreshedAt is zero for snapshots that should be refreshed on next read.
	refreshedAt time.Time
}

// Manager owns the question cache.
type Manager struct {
	fetcher      Fetcher
	mirror       Mirror
	log          logger.Logger
	ttl          time.Duration
	fetchTimeout time.Duration
	now          func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand

	snap  atomic.Pointer[snapshot]
	group singleflight.Group
	// pending counts Warm calls whose refresh outcome has not been delivered.
	pending atomic.Int32

	life   context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// New creates a Manager over fetcher.
func New(fetcher Fetcher, opts ...Option) *Manager {
	m := &Manager{
		fetcher:      fetcher,
		log:          logger.Nop(),
		ttl:          defaultTTL,
		fetchTimeout: defaultFetchTimeout,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.life, m.cancel = context.WithCancel(context.Background())
	return m
}

// Init seeds the snapshot from the mirror, if one is configured. The seeded
// snapshot is treated as stale so the first read triggers a refresh.
func (m *Manager) Init(ctx context.Context) error {
	if m.mirror == nil {
		return nil
	}
	qs, err := m.mirror.Load(ctx)
	if err != nil {
		metrics.RecordMirrorError("load")
		return fmt.Errorf("questioncache: init from mirror: %w", err)
	}
	if len(qs) == 0 {
		return nil
	}
	if m.snap.CompareAndSwap(nil, &snapshot{questions: qs}) {
		metrics.UpdateCacheSize(len(qs))
		m.log.Info(ctx, "question cache seeded from mirror", logger.Int("questions", len(qs)))
	}
	return nil
}

// Warm starts a refresh unless one is already running, in which case the
// caller attaches to it. The returned channel yields the refresh outcome and
// may be ignored.
func (m *Manager) Warm(_ context.Context) <-chan singleflight.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(chan singleflight.Result, 1)
	if m.closed {
		out <- singleflight.Result{Err: ErrClosed}
		return out
	}
	// Counted before returning so a reader right after Warm sees the flight.
	m.pending.Add(1)
	res := m.group.DoChan(refreshKey, m.refresh)
	go func() {
		r := <-res
		m.pending.Add(-1)
		out <- r
	}()
	return out
}

// Get returns up to limit questions sampled uniformly from the snapshot.
// It never returns an error; an empty result means the caller should fall back.
func (m *Manager) Get(ctx context.Context, limit int) []model.Question {
	// pending is read first: a flight that settles in between has already
	// stored its snapshot.
	pending := m.inFlight()
	s := m.snap.Load()
	switch {
	case s.empty() && pending:
		select {
		case <-m.Warm(ctx):
		case <-ctx.Done():
		}
		s = m.snap.Load()
	case s.empty() || m.stale(s):
		m.Warm(ctx)
	}

	if s.empty() || limit <= 0 {
		return []model.Question{}
	}
	return m.sample(s.questions, limit)
}

// Name implements trivia.Provider.
func (m *Manager) Name() string { return SourceName }

// Questions implements trivia.Provider. Seed and tier only apply to the relational store.
func (m *Manager) Questions(ctx context.Context, q model.QuestionQuery) ([]model.Question, error) {
	return m.Get(ctx, q.Limit), nil
}

// State reports the current lifecycle state.
func (m *Manager) State() State {
	populated := !m.snap.Load().empty()
	refreshing := m.inFlight()
	switch {
	case !populated && !refreshing:
		return StateEmpty
	case !populated:
		return StateWarming
	case refreshing:
		return StateRefreshing
	default:
		return StateWarm
	}
}

// Size returns the number of cached questions.
func (m *Manager) Size() int {
	s := m.snap.Load()
	if s == nil {
		return 0
	}
	return len(s.questions)
}

// LastRefresh returns when the current snapshot was fetched; zero if never.
func (m *Manager) LastRefresh() time.Time {
	s := m.snap.Load()
	if s == nil {
		return time.Time{}
	}
	return s.refreshedAt
}

// Shutdown cancels any in-flight refresh and waits for it to finish or for ctx to expire.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	m.cancel()

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("questioncache: shutdown: %w", ctx.Err())
	}
}

func (m *Manager) refresh() (any, error) {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, ErrClosed
	}
	m.wg.Add(1)
	m.mu.Unlock()
	defer m.wg.Done()

	ctx, cancel := context.WithTimeout(m.life, m.fetchTimeout)
	defer cancel()

	start := m.now()
	raws, fetchErr := m.fetcher.FetchAll(ctx)
	qs, rejected := trivia.Ingest(raws)
	elapsed := float64(m.now().Sub(start).Milliseconds())
	if rejected > 0 {
		metrics.RecordCacheRecordsRejected(rejected)
		m.log.Debug(ctx, "discarded malformed question records", logger.Int("rejected", rejected))
	}

	current := m.snap.Load()
	if fetchErr != nil {
		metrics.RecordErrorByComponent("question_cache", "fetch")
		// A partial set only replaces an empty cache, and stays stale.
		if len(qs) > 0 && current.empty() && m.snap.CompareAndSwap(current, &snapshot{questions: qs}) {
			metrics.RecordCacheRefresh("partial", elapsed)
			metrics.UpdateCacheSize(len(qs))
			m.log.Warn(ctx, "question fetch failed mid-way, installed partial set",
				logger.Int("questions", len(qs)), logger.Error(fetchErr))
			return nil, fetchErr
		}
		metrics.RecordCacheRefresh("failure", elapsed)
		m.log.Error(ctx, "question fetch failed, keeping current cache",
			logger.Int("cached", m.Size()), logger.Error(fetchErr))
		return nil, fetchErr
	}

	if len(qs) == 0 && !current.empty() {
		// Keep serving what we have, but do not refetch on every read.
		m.snap.Store(&snapshot{questions: current.questions, refreshedAt: m.now()})
		metrics.RecordCacheRefresh("empty", elapsed)
		m.log.Warn(ctx, "question fetch returned nothing, keeping current cache", logger.Int("cached", len(current.questions)))
		return nil, nil
	}

	m.snap.Store(&snapshot{questions: qs, refreshedAt: m.now()})
	metrics.RecordCacheRefresh("success", elapsed)
	metrics.UpdateCacheSize(len(qs))
	m.log.Info(ctx, "question cache refreshed",
		logger.Int("questions", len(qs)), logger.Float64("took_ms", elapsed))

	if m.mirror != nil && len(qs) > 0 {
		mctx, mcancel := context.WithTimeout(m.life, mirrorTimeout)
		defer mcancel()
		if err := m.mirror.Save(mctx, qs); err != nil {
			metrics.RecordMirrorError("save")
			m.log.Warn(ctx, "mirroring question snapshot failed", logger.Error(err))
		}
	}
	return len(qs), nil
}

func (m *Manager) inFlight() bool {
	return m.pending.Load() > 0
}

func (m *Manager) stale(s *snapshot) bool {
	return s.refreshedAt.IsZero() || m.now().Sub(s.refreshedAt) > m.ttl
}

func (m *Manager) sample(qs []model.Question, limit int) []model.Question {
	if m.rng == nil {
		return trivia.Sample(qs, limit, nil)
	}
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	return trivia.Sample(qs, limit, m.rng)
}

func (s *snapshot) empty() bool {
	return s == nil || len(s.questions) == 0
}
