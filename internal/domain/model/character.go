// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Archetype labels a character's narrative role. Synergy bonuses key off it.
type Archetype string

// Known archetypes.
const (
	ArchetypeCaptain  Archetype = "captain"
	ArchetypeNatural  Archetype = "natural"
	ArchetypeUnderdog Archetype = "underdog"
	ArchetypeVeteran  Archetype = "veteran"
	ArchetypeVillain  Archetype = "villain"
	ArchetypeTeammate Archetype = "teammate"
	ArchetypeWildcard Archetype = "wildcard"
)

// Archetypes lists every known archetype in display order.
var Archetypes = []Archetype{ //nolint:gochecknoglobals // fixed enumeration
	ArchetypeCaptain, ArchetypeNatural, ArchetypeUnderdog, ArchetypeVeteran,
	ArchetypeVillain, ArchetypeTeammate, ArchetypeWildcard,
}

// ParseArchetype normalizes s and reports whether it names a known archetype.
func ParseArchetype(s string) (Archetype, bool) {
	a := Archetype(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Archetypes {
		if a == known {
			return a, true
		}
	}
	return a, false
}

// Normalized returns the lowercased, trimmed archetype.
func (a Archetype) Normalized() Archetype {
	return Archetype(strings.ToLower(strings.TrimSpace(string(a))))
}

// CharacterID accepts either a JSON string or a JSON number and always encodes as a string.
type CharacterID string

// UnmarshalJSON implements json.Unmarshaler.
func (id *CharacterID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = CharacterID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("character id must be a string or number: %w", err)
	}
	*id = CharacterID(n.String())
	return nil
}

// Character is a movie athlete stat block. Stats are integers in [0, 99].
type Character struct {
	ID         CharacterID `json:"id"`
	Name       string      `json:"name"`
	Archetype  Archetype   `json:"archetype"`
	MovieTitle string      `json:"movieTitle,omitempty"`

	Athleticism  int `json:"athleticism"`
	Clutch       int `json:"clutch"`
	Leadership   int `json:"leadership"`
	Heart        int `json:"heart"`
	Skill        int `json:"skill"`
	Intimidation int `json:"intimidation"`
	Teamwork     int `json:"teamwork"`
	Charisma     int `json:"charisma"`

	// WildcardValue is optional; nil contributes nothing to the score.
	WildcardValue    *int   `json:"wildcardValue"`
	WildcardName     string `json:"wildcardName,omitempty"`
	WildcardCategory string `json:"wildcardCategory,omitempty"`
}

// Wildcard returns the wildcard stat, treating an absent value as 0.
func (c Character) Wildcard() int {
	if c.WildcardValue == nil {
		return 0
	}
	return *c.WildcardValue
}
