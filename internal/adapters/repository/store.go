// Package repository is the relational store for trivia questions, movie
// athletes and game sessions, backed by gorm.
package repository

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/trivia"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// SourceName labels questions served from the relational store.
	SourceName = "postgresql"
)

// pcgStream is the second PCG word for seeded samples.
const pcgStream = 0x9e3779b97f4a7c15

// Store implements the relational collaborator interface.
type Store struct {
	db    *gorm.DB
	log   logger.Logger
	newID func() string
}

// Open connects with the named driver and returns a Store.
func Open(_ context.Context, driver, dsn string, opts ...Option) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: gormlogger.Discard})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if driver == DriverSQLite {
		// Every connection to :memory: is a separate database.
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to configure sqlite pool: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	return New(db, opts...), nil
}

// New wraps an existing gorm handle.
func New(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db, log: logger.Nop(), newID: uuid.NewString}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Migrate creates or updates the tables.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&TriviaQuestionRow{}, &MovieAthleteRow{}, &GameSessionRow{}); err != nil {
		return fmt.Errorf("repository: migrate: %w", err)
	}
	return nil
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close releases the connection pool.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// RandomTriviaQuestions samples up to q.Limit questions. Without a seed the
// database picks; with a seed the same seed always yields the same questions.
func (s *Store) RandomTriviaQuestions(ctx context.Context, q model.QuestionQuery) ([]model.Question, error) {
	if q.Limit <= 0 {
		return []model.Question{}, nil
	}
	defer observe("random_questions", time.Now())

	var rows []TriviaQuestionRow
	if q.Seed == "" {
		err := s.db.WithContext(ctx).Scopes(tierScope(q.Tier)).
			Order("RANDOM()").Limit(q.Limit).Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("%w: random questions: %w", ErrQuery, err)
		}
		return questionsOf(rows), nil
	}

	var ids []uint
	err := s.db.WithContext(ctx).Model(&TriviaQuestionRow{}).Scopes(tierScope(q.Tier)).
		Order("id").Pluck("id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("%w: question ids: %w", ErrQuery, err)
	}
	picked := trivia.Sample(ids, q.Limit, seededRand(q.Seed))
	if len(picked) == 0 {
		return []model.Question{}, nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", picked).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: seeded questions: %w", ErrQuery, err)
	}
	pos := make(map[uint]int, len(picked))
	for i, id := range picked {
		pos[id] = i
	}
	slices.SortFunc(rows, func(a, b TriviaQuestionRow) int { return pos[a.ID] - pos[b.ID] })
	return questionsOf(rows), nil
}

// CountTriviaQuestions returns the number of stored questions.
func (s *Store) CountTriviaQuestions(ctx context.Context) (int64, error) {
	defer observe("count_questions", time.Now())
	var n int64
	if err := s.db.WithContext(ctx).Model(&TriviaQuestionRow{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: count questions: %w", ErrQuery, err)
	}
	return n, nil
}

// RandomMovieAthletes samples up to limit athletes.
func (s *Store) RandomMovieAthletes(ctx context.Context, limit int) ([]model.Character, error) {
	if limit <= 0 {
		return []model.Character{}, nil
	}
	defer observe("random_athletes", time.Now())
	var rows []MovieAthleteRow
	if err := s.db.WithContext(ctx).Order("RANDOM()").Limit(limit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: random athletes: %w", ErrQuery, err)
	}
	return charactersOf(rows), nil
}

// MovieAthletesByArchetype lists athletes of one archetype ordered by name.
func (s *Store) MovieAthletesByArchetype(ctx context.Context, archetype model.Archetype) ([]model.Character, error) {
	defer observe("athletes_by_archetype", time.Now())
	var rows []MovieAthleteRow
	err := s.db.WithContext(ctx).Where("archetype = ?", string(archetype.Normalized())).
		Order("name").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: athletes by archetype: %w", ErrQuery, err)
	}
	return charactersOf(rows), nil
}

// CreateGameSession persists a session and returns it with id and timestamp set.
func (s *Store) CreateGameSession(ctx context.Context, gs model.GameSession) (model.GameSession, error) {
	defer observe("create_session", time.Now())
	row := GameSessionRow{
		ID:             gs.ID,
		ProfileID:      gs.ProfileID,
		GameType:       gs.GameType,
		Score:          gs.Score,
		TotalQuestions: gs.TotalQuestions,
		CreatedAt:      gs.CreatedAt,
	}
	if row.ID == "" {
		row.ID = s.newID()
	}
	if row.CreatedAt.IsZero() {
		row.CreatedAt = time.Now().UTC()
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return model.GameSession{}, fmt.Errorf("%w: create session: %w", ErrQuery, err)
	}
	return row.toModel(), nil
}

// QuestionProvider exposes the store as the fallback question source.
func (s *Store) QuestionProvider() trivia.Provider {
	return questionSource{store: s}
}

type questionSource struct {
	store *Store
}

func (questionSource) Name() string { return SourceName }

func (p questionSource) Questions(ctx context.Context, q model.QuestionQuery) ([]model.Question, error) {
	return p.store.RandomTriviaQuestions(ctx, q)
}

func tierScope(t model.Tier) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if t == model.TierPopular {
			return db.Where("tier = ?", tierPopular)
		}
		return db
	}
}

// seededRand derives a deterministic PCG source from seed.
func seededRand(seed string) *rand.Rand {
	h := xxhash.Sum64String(seed)
	return rand.New(rand.NewPCG(h, h^pcgStream))
}

func observe(op string, start time.Time) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Milliseconds()))
}

func questionsOf(rows []TriviaQuestionRow) []model.Question {
	out := make([]model.Question, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out
}

func charactersOf(rows []MovieAthleteRow) []model.Character {
	out := make([]model.Character, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out
}

func idString(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
