package smoke

import (
	"context"
	"fmt"
	"math/rand/v2"
	"net/http"
	"time"

	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/pkg/logger"
)

const rosterLimit = 50

// Run executes the complete smoke scenario.
func Run(ctx context.Context, cfg *Config) error {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("smoke")

	log.Info(ctx, "starting marquee smoke run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("battles", cfg.Battles),
		logger.Int("workers", cfg.Workers),
		logger.String("timeout", cfg.Timeout.String()))

	c := newClient(cfg.BaseURL, cfg.Timeout)

	// Step 1: service is up
	if _, err := c.getJSON(ctx, "/stats", &map[string]any{}); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: roster
	var roster []model.Character
	if _, err := c.getJSON(ctx, fmt.Sprintf("/api/athletes/random?limit=%d", rosterLimit), &roster); err != nil {
		return fmt.Errorf("roster retrieval failed: %w", err)
	}
	if len(roster) == 0 {
		return fmt.Errorf("roster is empty")
	}
	stats.RosterSize = len(roster)

	// Step 3: battles
	rng := rand.New(rand.NewPCG(uint64(stats.StartTime.UnixNano()), 0))
	submitBattles(ctx, cfg, c, generateBattles(roster, cfg.Battles, cfg.MaxTeam, rng), stats)

	// Step 4: trivia
	if err := checkTrivia(ctx, cfg, c, stats); err != nil {
		return fmt.Errorf("trivia check failed: %w", err)
	}

	// Step 5: a finished trivia game
	var session model.GameSession
	game := map[string]any{"gameType": "trivia", "score": stats.QuestionsServed, "totalQuestions": cfg.Questions}
	if err := c.postJSON(ctx, "/api/games", game, http.StatusCreated, &session); err != nil {
		return fmt.Errorf("game session failed: %w", err)
	}
	stats.SessionID = session.ID

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, log, stats)

	if stats.BattlesInconsistent > 0 {
		return fmt.Errorf("%d inconsistent battle results", stats.BattlesInconsistent)
	}
	log.Info(ctx, "smoke run completed successfully")
	return nil
}

func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.BattlesSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("rosterSize", stats.RosterSize),
		logger.Int("battlesSubmitted", stats.BattlesSubmitted),
		logger.Int("battlesSuccessful", stats.BattlesSuccessful),
		logger.Int("battlesFailed", stats.BattlesFailed),
		logger.Int("playerWins", stats.PlayerWins),
		logger.Int("opponentWins", stats.OpponentWins),
		logger.Int("ties", stats.Ties),
		logger.Int("questionsServed", stats.QuestionsServed),
		logger.String("questionSource", stats.QuestionSource),
		logger.String("sessionID", stats.SessionID),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("battlesPerSecond", perSecond))
}
