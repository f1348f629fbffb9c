package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

// createGameRequest mirrors the POST /api/games body.
type createGameRequest struct {
	ProfileID      *string `json:"profileId" validate:"omitempty,min=1,max=128"`
	GameType       string  `json:"gameType" validate:"required,oneof=trivia battle box_office daily_challenge"`
	Score          *int    `json:"score" validate:"required,gte=0"`
	TotalQuestions *int    `json:"totalQuestions" validate:"required,gte=0"`
}

// GamesHandler records finished game sessions.
type GamesHandler struct {
	store    SessionStore
	validate *validator.Validate
	log      logger.Logger
	now      func() time.Time
}

// NewGamesHandler creates a games handler.
func NewGamesHandler(store SessionStore, log logger.Logger) *GamesHandler {
	if log == nil {
		log = logger.Nop()
	}
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return &GamesHandler{store: store, validate: v, log: log, now: time.Now}
}

// HandlePostGame handles POST /api/games.
func (h *GamesHandler) HandlePostGame(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_game"

	var req createGameRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", WrapKind(op, ErrInvalidJSON, err))
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", NewKind(op, ErrValidation), validationDetails(err)...)
		return
	}

	gs := model.GameSession{
		GameType:       req.GameType,
		Score:          *req.Score,
		TotalQuestions: *req.TotalQuestions,
		CreatedAt:      h.now().UTC(),
	}
	if req.ProfileID != nil {
		pid := strings.TrimSpace(*req.ProfileID)
		if pid != "" {
			gs.ProfileID = &pid
		}
	}

	saved, err := h.store.CreateGameSession(r.Context(), gs)
	if err != nil {
		writeInternal(r.Context(), w, h.log, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, saved)
}

func validationDetails(err error) []fieldDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []fieldDetail{{Message: err.Error()}}
	}
	out := make([]fieldDetail, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, fieldDetail{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return out
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "min":
		return "must have at least " + fe.Param() + " characters"
	case "max":
		return "must have at most " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag()
	}
}

func jsonFieldName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
