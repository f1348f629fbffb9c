package model

import "time"

// GameTypeBattle marks sessions recorded from team battles.
const GameTypeBattle = "battle"

// GameSession is a persisted record of one finished game.
type GameSession struct {
	ID             string    `json:"id"`
	ProfileID      *string   `json:"profileId,omitempty"`
	GameType       string    `json:"gameType"`
	Score          int       `json:"score"`
	TotalQuestions int       `json:"totalQuestions"`
	CreatedAt      time.Time `json:"createdAt"`
}

// SessionFromBattle converts a battle record into the session persisted for it.
func SessionFromBattle(r BattleRecord) GameSession {
	s := GameSession{
		GameType:       GameTypeBattle,
		Score:          r.PlayerScore,
		TotalQuestions: 0,
		CreatedAt:      r.ResolvedAt,
	}
	if r.ProfileID != "" {
		pid := r.ProfileID
		s.ProfileID = &pid
	}
	return s
}
