package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/okian/marquee/internal/domain/battle"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
	"github.com/okian/marquee/pkg/metrics"
)

// battleRequest mirrors the POST /api/athletes/battle body. Teams stay raw so
// that non-array values can be told apart from malformed athletes.
type battleRequest struct {
	PlayerTeam   json.RawMessage `json:"playerTeam"`
	OpponentTeam json.RawMessage `json:"opponentTeam"`
	ProfileID    string          `json:"profileId"`
}

// BattleHandler resolves team battles.
type BattleHandler struct {
	recorder BattleRecorder
	log      logger.Logger
	now      func() time.Time
}

// NewBattleHandler creates a battle handler. recorder may be nil.
func NewBattleHandler(recorder BattleRecorder, log logger.Logger) *BattleHandler {
	if log == nil {
		log = logger.Nop()
	}
	return &BattleHandler{recorder: recorder, log: log, now: time.Now}
}

// HandlePostBattle handles POST /api/athletes/battle.
func (h *BattleHandler) HandlePostBattle(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_battle"
	ctx := r.Context()

	var req battleRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", WrapKind(op, ErrInvalidJSON, err))
		return
	}
	if !isArray(req.PlayerTeam) || !isArray(req.OpponentTeam) {
		writeError(w, http.StatusBadRequest, "invalid_teams", NewKind(op, ErrTeamsNotArrays))
		return
	}

	var player, opponent []model.Character
	if err := json.Unmarshal(req.PlayerTeam, &player); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_athlete", WrapKind(op, ErrInvalidAthlete, err))
		return
	}
	if err := json.Unmarshal(req.OpponentTeam, &opponent); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_athlete", WrapKind(op, ErrInvalidAthlete, err))
		return
	}
	if len(player) == 0 || len(opponent) == 0 {
		writeError(w, http.StatusBadRequest, "empty_team", NewKind(op, ErrEmptyTeam))
		return
	}

	res := battle.Resolve(player, opponent)
	metrics.RecordBattleResolved(string(res.Winner))
	metrics.RecordBattleTeamSize(len(player))
	metrics.RecordBattleTeamSize(len(opponent))

	if pid := strings.TrimSpace(req.ProfileID); pid != "" && h.recorder != nil {
		rec := model.BattleRecord{
			ProfileID:     pid,
			PlayerScore:   res.PlayerScore,
			OpponentScore: res.OpponentScore,
			Winner:        res.Winner,
			ResolvedAt:    h.now().UTC(),
		}
		if !h.recorder.RecordBattle(ctx, rec) {
			h.log.Warn(ctx, "battle record dropped", logger.String("profile_id", pid))
		}
	}

	writeJSON(w, http.StatusOK, res)
}

func isArray(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
