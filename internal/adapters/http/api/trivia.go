package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

// TriviaHandler serves questions and pool statistics.
type TriviaHandler struct {
	questions    QuestionSource
	stats        TriviaStatsSource
	defaultLimit int
	maxLimit     int
	log          logger.Logger
}

// NewTriviaHandler creates a trivia handler. Limits above maxLimit are capped.
func NewTriviaHandler(q QuestionSource, s TriviaStatsSource, defaultLimit, maxLimit int, log logger.Logger) *TriviaHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &TriviaHandler{questions: q, stats: s, defaultLimit: defaultLimit, maxLimit: maxLimit, log: log}
}

// HandleGetQuestions handles GET /api/trivia/questions?limit=&tier=&seed=.
// The response is always a JSON array; the serving source is echoed in X-Question-Source.
func (h *TriviaHandler) HandleGetQuestions(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trivia_questions"
	query := r.URL.Query()

	limit, err := parseLimit(query.Get("limit"), h.defaultLimit, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_limit", NewKind(op, ErrInvalidLimit))
		return
	}

	tier, ok := parseTier(query.Get("tier"))
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_tier", NewKind(op, ErrInvalidTier))
		return
	}

	res := h.questions.Questions(r.Context(), model.QuestionQuery{
		Limit: limit,
		Tier:  tier,
		Seed:  strings.TrimSpace(query.Get("seed")),
	})
	if res.Source != "" {
		w.Header().Set("X-Question-Source", res.Source)
	}
	qs := res.Questions
	if qs == nil {
		qs = []model.Question{}
	}
	writeJSON(w, http.StatusOK, qs)
}

// HandleGetStats handles GET /api/trivia/stats.
func (h *TriviaHandler) HandleGetStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_trivia_stats"
	st, err := h.stats.TriviaStats(r.Context())
	if err != nil {
		writeInternal(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// parseLimit returns def for an empty value and caps anything above maxLimit.
func parseLimit(raw string, def, maxLimit int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, ErrInvalidLimit
	}
	if n > maxLimit {
		n = maxLimit
	}
	return n, nil
}

func parseTier(raw string) (model.Tier, bool) {
	switch model.Tier(strings.ToLower(strings.TrimSpace(raw))) {
	case "", model.TierAll:
		return model.TierAll, true
	case model.TierPopular:
		return model.TierPopular, true
	default:
		return "", false
	}
}
