package smoke

import (
	"context"
	"fmt"
	"log"
	"math/rand/v2"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okian/marquee/internal/domain/model"
)

// generateBattles draws two disjoint-by-position teams per battle from roster.
func generateBattles(roster []model.Character, n, maxTeam int, rng *rand.Rand) []battleRequest {
	if maxTeam < 1 {
		maxTeam = 1
	}
	out := make([]battleRequest, n)
	for i := range out {
		out[i] = battleRequest{
			PlayerTeam:   pickTeam(roster, 1+rng.IntN(maxTeam), rng),
			OpponentTeam: pickTeam(roster, 1+rng.IntN(maxTeam), rng),
			ProfileID:    uuid.NewString(),
		}
	}
	return out
}

func pickTeam(roster []model.Character, size int, rng *rand.Rand) []model.Character {
	if size > len(roster) {
		size = len(roster)
	}
	idx := rng.Perm(len(roster))[:size]
	team := make([]model.Character, size)
	for i, j := range idx {
		team[i] = roster[j]
	}
	return team
}

// submitBattles posts battles with a pool of workers and verifies each result.
func submitBattles(ctx context.Context, cfg *Config, c *client, battles []battleRequest, stats *Stats) {
	log.Printf("⚔️  Submitting %d battles with %d workers...", len(battles), cfg.Workers)

	var (
		submitted, successful, failed, inconsistent atomic.Int64
		player, opponent, tie                       atomic.Int64
	)

	jobs := make(chan battleRequest, cfg.Workers*2)
	var wg sync.WaitGroup
	for i := 0; i < cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for b := range jobs {
				submitted.Add(1)
				var res model.BattleResult
				if err := c.postJSON(ctx, "/api/athletes/battle", b, http.StatusOK, &res); err != nil {
					failed.Add(1)
					if cfg.Verbose {
						log.Printf("❌ battle failed: %v", err)
					}
					continue
				}
				if err := verifyBattle(b, res); err != nil {
					inconsistent.Add(1)
					log.Printf("⚠️  inconsistent battle: %v", err)
					continue
				}
				successful.Add(1)
				switch res.Winner {
				case model.WinnerPlayer:
					player.Add(1)
				case model.WinnerOpponent:
					opponent.Add(1)
				default:
					tie.Add(1)
				}
			}
		}()
	}

feed:
	for _, b := range battles {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- b:
		}
	}
	close(jobs)
	wg.Wait()

	stats.BattlesSubmitted = int(submitted.Load())
	stats.BattlesSuccessful = int(successful.Load())
	stats.BattlesFailed = int(failed.Load())
	stats.BattlesInconsistent = int(inconsistent.Load())
	stats.PlayerWins = int(player.Load())
	stats.OpponentWins = int(opponent.Load())
	stats.Ties = int(tie.Load())

	log.Printf("✅ Battles done: %d ok, %d failed, %d inconsistent", stats.BattlesSuccessful, stats.BattlesFailed, stats.BattlesInconsistent)
}

// verifyBattle checks what a client can see: breakdown sizes and a
// winner consistent with the rounded totals.
func verifyBattle(req battleRequest, res model.BattleResult) error {
	if len(res.PlayerBreakdown) != len(req.PlayerTeam) || len(res.OpponentBreakdown) != len(req.OpponentTeam) {
		return fmt.Errorf("breakdown sizes %d/%d for teams %d/%d",
			len(res.PlayerBreakdown), len(res.OpponentBreakdown), len(req.PlayerTeam), len(req.OpponentTeam))
	}
	for i, e := range res.PlayerBreakdown {
		if e.Name != req.PlayerTeam[i].Name {
			return fmt.Errorf("player breakdown %d is %q, want %q", i, e.Name, req.PlayerTeam[i].Name)
		}
	}
	switch {
	case res.PlayerScore > res.OpponentScore && res.Winner != model.WinnerPlayer:
		return fmt.Errorf("player leads %d-%d but winner is %s", res.PlayerScore, res.OpponentScore, res.Winner)
	case res.PlayerScore < res.OpponentScore && res.Winner != model.WinnerOpponent:
		return fmt.Errorf("opponent leads %d-%d but winner is %s", res.OpponentScore, res.PlayerScore, res.Winner)
	}
	return nil
}
