// Package smoke drives a running marquee service end to end: it resolves
// concurrent battles, samples trivia and records a game session.
package smoke

import (
	"time"

	"github.com/okian/marquee/internal/domain/model"
)

// Config holds configuration for a smoke run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Battles   int           // Number of battles to submit
	MaxTeam   int           // Largest team size drawn from the roster
	Questions int           // Questions requested per trivia call
	Workers   int           // Number of concurrent workers
	Timeout   time.Duration // HTTP request timeout
	Seed      string        // Seed used for the determinism check
	Verbose   bool          // Enable verbose logging
}

// battleRequest is the POST /api/athletes/battle body.
type battleRequest struct {
	PlayerTeam   []model.Character `json:"playerTeam"`
	OpponentTeam []model.Character `json:"opponentTeam"`
	ProfileID    string            `json:"profileId,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	RosterSize          int
	BattlesSubmitted    int
	BattlesSuccessful   int
	BattlesFailed       int
	BattlesInconsistent int
	PlayerWins          int
	OpponentWins        int
	Ties                int
	QuestionsServed     int
	QuestionSource      string
	SeedDeterministic   bool
	SessionID           string
	StartTime           time.Time
	EndTime             time.Time
	Duration            time.Duration
}
