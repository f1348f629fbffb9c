package api

import (
	"net/http"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

const defaultAthleteLimit = 10

// AthletesHandler serves the movie athlete roster.
type AthletesHandler struct {
	store    AthleteStore
	maxLimit int
	log      logger.Logger
}

// NewAthletesHandler creates an athletes handler.
func NewAthletesHandler(store AthleteStore, maxLimit int, log logger.Logger) *AthletesHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &AthletesHandler{store: store, maxLimit: maxLimit, log: log}
}

// HandleGetRandom handles GET /api/athletes/random?limit=.
func (h *AthletesHandler) HandleGetRandom(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_random_athletes"
	limit, err := parseLimit(r.URL.Query().Get("limit"), min(defaultAthleteLimit, h.maxLimit), h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_limit", NewKind(op, ErrInvalidLimit))
		return
	}
	athletes, err := h.store.RandomMovieAthletes(r.Context(), limit)
	if err != nil {
		writeInternal(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(athletes))
}

// HandleGetByArchetype handles GET /api/athletes/archetype/{name}.
func (h *AthletesHandler) HandleGetByArchetype(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_athletes_by_archetype"
	a, ok := model.ParseArchetype(r.PathValue("name"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown_archetype", NewKind(op, ErrUnknownArchetype))
		return
	}
	athletes, err := h.store.MovieAthletesByArchetype(r.Context(), a)
	if err != nil {
		writeInternal(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNil(athletes))
}

func nonNil(cs []model.Character) []model.Character {
	if cs == nil {
		return []model.Character{}
	}
	return cs
}
