package model

import "time"

// Winner names the side that won a battle.
type Winner string

// Battle outcomes.
const (
	WinnerPlayer   Winner = "player"
	WinnerOpponent Winner = "opponent"
	WinnerTie      Winner = "tie"
)

// BreakdownEntry is one member's rounded individual score.
type BreakdownEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// BattleResult is the computed outcome of a team battle.
type BattleResult struct {
	PlayerScore       int              `json:"playerScore"`
	OpponentScore     int              `json:"opponentScore"`
	Winner            Winner           `json:"winner"`
	PlayerBreakdown   []BreakdownEntry `json:"playerBreakdown"`
	OpponentBreakdown []BreakdownEntry `json:"opponentBreakdown"`
}

// BattleRecord is a resolved battle queued for persistence as a game session.
type BattleRecord struct {
	ProfileID     string
	PlayerScore   int
	OpponentScore int
	Winner        Winner
	ResolvedAt    time.Time
}
