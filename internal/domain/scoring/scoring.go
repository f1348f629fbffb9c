// Package scoring computes character and team scores for battles.
//
// Weights are held as integer tenths so sums over integer stats stay exact;
// float results are tenths/10 and comparisons should use the Tenths variants.
package scoring

import (
	"math"

	"github.com/okian/marquee/internal/domain/model"
)

// Per-stat weights in tenths. Heart and clutch outrank charisma and intimidation.
const (
	athleticismWeight  = 10
	clutchWeight       = 12
	leadershipWeight   = 11
	heartWeight        = 13
	skillWeight        = 10
	intimidationWeight = 8
	teamworkWeight     = 12
	charismaWeight     = 7
	wildcardWeight     = 5
)

// Synergy bonuses in tenths.
const (
	captainBonus          = 500
	veteranUnderdogBonus  = 300
	naturalTeammateBonus  = 250
	diverseRosterBonus    = 400
	diverseRosterMinTypes = 4
)

// WeightedTenths returns a character's weighted score in tenths of a point.
// Sums clamp at the int64 range instead of wrapping.
func WeightedTenths(c model.Character) int64 {
	terms := [...]int64{
		mulWeight(c.Athleticism, athleticismWeight),
		mulWeight(c.Clutch, clutchWeight),
		mulWeight(c.Leadership, leadershipWeight),
		mulWeight(c.Heart, heartWeight),
		mulWeight(c.Skill, skillWeight),
		mulWeight(c.Intimidation, intimidationWeight),
		mulWeight(c.Teamwork, teamworkWeight),
		mulWeight(c.Charisma, charismaWeight),
		mulWeight(c.Wildcard(), wildcardWeight),
	}
	var total int64
	for _, t := range terms {
		total = addSat(total, t)
	}
	return total
}

// WeightedScore returns the unrounded weighted score of a character.
func WeightedScore(c model.Character) float64 {
	return float64(WeightedTenths(c)) / 10
}

// SynergyTenths returns the archetype bonus for a team in tenths.
// Bonuses are cumulative; member order is irrelevant.
func SynergyTenths(team []model.Character) int64 {
	present := make(map[model.Archetype]struct{}, len(team))
	for _, m := range team {
		if a := m.Archetype.Normalized(); a != "" {
			present[a] = struct{}{}
		}
	}
	has := func(a model.Archetype) bool {
		_, ok := present[a]
		return ok
	}

	var bonus int64
	if has(model.ArchetypeCaptain) {
		bonus += captainBonus
	}
	if has(model.ArchetypeVeteran) && has(model.ArchetypeUnderdog) {
		bonus += veteranUnderdogBonus
	}
	if has(model.ArchetypeNatural) && has(model.ArchetypeTeammate) {
		bonus += naturalTeammateBonus
	}
	if len(present) >= diverseRosterMinTypes {
		bonus += diverseRosterBonus
	}
	return bonus
}

// SynergyBonus returns the archetype bonus for a team in points.
func SynergyBonus(team []model.Character) float64 {
	return float64(SynergyTenths(team)) / 10
}

// TeamTenths is the summed weighted score of every member plus synergy, in tenths.
// An empty team scores 0.
func TeamTenths(team []model.Character) int64 {
	if len(team) == 0 {
		return 0
	}
	var total int64
	for _, m := range team {
		total = addSat(total, WeightedTenths(m))
	}
	return addSat(total, SynergyTenths(team))
}

// TeamScore returns the unrounded team score in points.
func TeamScore(team []model.Character) float64 {
	return float64(TeamTenths(team)) / 10
}

// RoundTenths rounds a tenths value half-up to whole points.
func RoundTenths(tenths int64) int {
	q, r := tenths/10, tenths%10
	if r < 0 {
		q--
		r += 10
	}
	if r >= 5 {
		q++
	}
	return int(q)
}

// mulWeight multiplies a stat by a positive weight, clamping on overflow.
func mulWeight(stat int, weight int64) int64 {
	v := int64(stat)
	switch {
	case v > math.MaxInt64/weight:
		return math.MaxInt64
	case v < math.MinInt64/weight:
		return math.MinInt64
	}
	return v * weight
}

func addSat(a, b int64) int64 {
	switch {
	case b > 0 && a > math.MaxInt64-b:
		return math.MaxInt64
	case b < 0 && a < math.MinInt64-b:
		return math.MinInt64
	}
	return a + b
}
