// Package battle resolves team battles between two rosters.
package battle

import (
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/scoring"
)

// Resolve scores both teams and decides the winner.
//
// The winner is decided on the exact unrounded totals; displayed team scores are
// rounded once after synergy is added. Breakdown entries keep input order and
// carry individual scores without synergy.
func Resolve(player, opponent []model.Character) model.BattleResult {
	playerRaw := scoring.TeamTenths(player)
	opponentRaw := scoring.TeamTenths(opponent)

	winner := model.WinnerTie
	switch {
	case playerRaw > opponentRaw:
		winner = model.WinnerPlayer
	case playerRaw < opponentRaw:
		winner = model.WinnerOpponent
	}

	return model.BattleResult{
		PlayerScore:       scoring.RoundTenths(playerRaw),
		OpponentScore:     scoring.RoundTenths(opponentRaw),
		Winner:            winner,
		PlayerBreakdown:   breakdown(player),
		OpponentBreakdown: breakdown(opponent),
	}
}

func breakdown(team []model.Character) []model.BreakdownEntry {
	out := make([]model.BreakdownEntry, len(team))
	for i, m := range team {
		out[i] = model.BreakdownEntry{Name: m.Name, Score: scoring.RoundTenths(scoring.WeightedTenths(m))}
	}
	return out
}
