// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/trivia"
	"github.com/okian/marquee/pkg/logger"
)

// Default question limits used when the server is built without WithQuestionLimits.
const (
	defaultQuestionLimit = 10
	maxQuestionLimit     = 50
	maxBodyBytes         = 1 << 20
)

// QuestionSource serves trivia questions from the provider chain.
type QuestionSource interface {
	Questions(ctx context.Context, q model.QuestionQuery) trivia.Result
}

// TriviaStatsSource reports the size and origin of the question pool.
type TriviaStatsSource interface {
	TriviaStats(ctx context.Context) (model.TriviaStats, error)
}

// BattleRecorder queues resolved battles for persistence. Returns false on backpressure.
type BattleRecorder interface {
	RecordBattle(ctx context.Context, r model.BattleRecord) bool
}

// AthleteStore reads the movie athlete roster.
type AthleteStore interface {
	RandomMovieAthletes(ctx context.Context, limit int) ([]model.Character, error)
	MovieAthletesByArchetype(ctx context.Context, a model.Archetype) ([]model.Character, error)
}

// SessionStore persists finished games.
type SessionStore interface {
	CreateGameSession(ctx context.Context, gs model.GameSession) (model.GameSession, error)
}

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	QuestionSource
	TriviaStatsSource
	BattleRecorder
	AthleteStore
	SessionStore
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	triviaHandler   *TriviaHandler
	battleHandler   *BattleHandler
	athletesHandler *AthletesHandler
	gamesHandler    *GamesHandler
}

type serverOptions struct {
	log          logger.Logger
	defaultLimit int
	maxLimit     int
}

// Option configures NewServer.
type Option func(*serverOptions)

// WithLogger sets the logger handlers use for server-side failures.
func WithLogger(l logger.Logger) Option {
	return func(o *serverOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithQuestionLimits sets the default and maximum question count per request.
func WithQuestionLimits(def, maxLimit int) Option {
	return func(o *serverOptions) {
		if def > 0 && maxLimit >= def {
			o.defaultLimit = def
			o.maxLimit = maxLimit
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	o := serverOptions{
		log:          logger.Nop(),
		defaultLimit: defaultQuestionLimit,
		maxLimit:     maxQuestionLimit,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		triviaHandler:   NewTriviaHandler(deps, deps, o.defaultLimit, o.maxLimit, o.log),
		battleHandler:   NewBattleHandler(deps, o.log),
		athletesHandler: NewAthletesHandler(deps, o.maxLimit, o.log),
		gamesHandler:    NewGamesHandler(deps, o.log),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /api/trivia/questions", MetricsMiddleware(s.triviaHandler.HandleGetQuestions, "trivia_questions"))
	mux.HandleFunc("GET /api/trivia/stats", MetricsMiddleware(s.triviaHandler.HandleGetStats, "trivia_stats"))
	mux.HandleFunc("POST /api/athletes/battle", MetricsMiddleware(s.battleHandler.HandlePostBattle, "athletes_battle"))
	mux.HandleFunc("GET /api/athletes/random", MetricsMiddleware(s.athletesHandler.HandleGetRandom, "athletes_random"))
	mux.HandleFunc("GET /api/athletes/archetype/{name}", MetricsMiddleware(s.athletesHandler.HandleGetByArchetype, "athletes_archetype"))
	mux.HandleFunc("POST /api/games", MetricsMiddleware(s.gamesHandler.HandlePostGame, "games"))
}

// errorResponse is the JSON body of every non-2xx answer.
type errorResponse struct {
	Error   string        `json:"error"`
	Code    string        `json:"code,omitempty"`
	Details []fieldDetail `json:"details,omitempty"`
}

// fieldDetail describes one failed validation rule.
type fieldDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error, details ...fieldDetail) {
	writeJSON(w, status, errorResponse{Error: publicMessage(err), Code: code, Details: details})
}

// writeInternal logs the cause and answers with an opaque 500.
func writeInternal(ctx context.Context, w http.ResponseWriter, log logger.Logger, op string, err error) {
	log.Error(ctx, "request failed", logger.String("op", op), logger.Error(Wrap(op, err)))
	writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
}
