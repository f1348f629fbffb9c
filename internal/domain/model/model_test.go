package model

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestCharacterDecoding(t *testing.T) {
	Convey("Given character JSON from a client", t, func() {
		Convey("When the id is a number and the wildcard is absent", func() {
			var c Character
			err := json.Unmarshal([]byte(`{"id": 42, "name": "Rocky", "archetype": "underdog", "heart": 99}`), &c)

			Convey("Then the id is kept as text and the wildcard reads as zero", func() {
				So(err, ShouldBeNil)
				So(c.ID, ShouldEqual, CharacterID("42"))
				So(c.WildcardValue, ShouldBeNil)
				So(c.Wildcard(), ShouldEqual, 0)
				So(c.Heart, ShouldEqual, 99)
			})
		})

		Convey("When the id is a string and the wildcard is null", func() {
			var c Character
			err := json.Unmarshal([]byte(`{"id": "ath-7", "name": "Apollo", "wildcardValue": null}`), &c)

			Convey("Then both decode cleanly", func() {
				So(err, ShouldBeNil)
				So(c.ID, ShouldEqual, CharacterID("ath-7"))
				So(c.Wildcard(), ShouldEqual, 0)
			})
		})

		Convey("When the id is an object", func() {
			var c Character
			err := json.Unmarshal([]byte(`{"id": {"x": 1}}`), &c)

			Convey("Then decoding fails", func() {
				So(err, ShouldNotBeNil)
			})
		})
	})
}

func TestParseArchetype(t *testing.T) {
	Convey("Given archetype names", t, func() {
		a, ok := ParseArchetype("  Captain ")
		So(ok, ShouldBeTrue)
		So(a, ShouldEqual, ArchetypeCaptain)

		_, ok = ParseArchetype("goalkeeper")
		So(ok, ShouldBeFalse)
	})
}

func TestSessionFromBattle(t *testing.T) {
	Convey("Given a battle record", t, func() {
		at := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
		s := SessionFromBattle(BattleRecord{ProfileID: "p-1", PlayerScore: 812, OpponentScore: 790, Winner: WinnerPlayer, ResolvedAt: at})

		Convey("Then it becomes a battle session scored by the player total", func() {
			So(s.GameType, ShouldEqual, GameTypeBattle)
			So(s.Score, ShouldEqual, 812)
			So(s.TotalQuestions, ShouldEqual, 0)
			So(*s.ProfileID, ShouldEqual, "p-1")
			So(s.CreatedAt, ShouldEqual, at)
		})

		Convey("Then an anonymous record has no profile id", func() {
			So(SessionFromBattle(BattleRecord{PlayerScore: 1}).ProfileID, ShouldBeNil)
		})
	})
}
