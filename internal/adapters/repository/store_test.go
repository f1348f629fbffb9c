package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/marquee/internal/adapters/repository"
	"github.com/okian/marquee/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func openSeeded(ctx context.Context) *repository.Store {
	s, err := repository.Open(ctx, repository.DriverSQLite, ":memory:",
		repository.WithIDGenerator(func() string { return "00000000-0000-0000-0000-000000000001" }))
	So(err, ShouldBeNil)
	So(s.Migrate(ctx), ShouldBeNil)
	So(s.Seed(ctx), ShouldBeNil)
	return s
}

func TestOpen(t *testing.T) {
	Convey("Given an unknown driver", t, func() {
		_, err := repository.Open(context.Background(), "oracle", "")

		Convey("Then Open refuses it", func() {
			So(errors.Is(err, repository.ErrUnsupportedDriver), ShouldBeTrue)
		})
	})
}

func TestTriviaQuestions(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		s := openSeeded(ctx)
		defer func() { _ = s.Close() }()

		Convey("When seeding again", func() {
			before, err := s.CountTriviaQuestions(ctx)
			So(err, ShouldBeNil)
			So(s.Seed(ctx), ShouldBeNil)
			after, err := s.CountTriviaQuestions(ctx)
			So(err, ShouldBeNil)

			Convey("Then nothing is duplicated", func() {
				So(before, ShouldEqual, 12)
				So(after, ShouldEqual, before)
			})
		})

		Convey("When sampling without a seed", func() {
			qs, err := s.RandomTriviaQuestions(ctx, model.QuestionQuery{Limit: 5})

			Convey("Then at most limit complete questions come back", func() {
				So(err, ShouldBeNil)
				So(len(qs), ShouldEqual, 5)
				for _, q := range qs {
					So(q.ID, ShouldNotBeEmpty)
					So(q.Question, ShouldNotBeEmpty)
					So(q.CorrectAnswer, ShouldNotBeEmpty)
					So(q.WrongAnswer3, ShouldNotBeEmpty)
					So(q.Category, ShouldNotBeEmpty)
					So(q.Difficulty, ShouldNotBeEmpty)
				}
			})
		})

		Convey("When sampling the popular tier", func() {
			qs, err := s.RandomTriviaQuestions(ctx, model.QuestionQuery{Limit: 50, Tier: model.TierPopular})
			So(err, ShouldBeNil)
			So(len(qs), ShouldEqual, 6)
		})

		Convey("When sampling twice with the same seed", func() {
			q := model.QuestionQuery{Limit: 4, Seed: "2026-10-18"}
			first, err := s.RandomTriviaQuestions(ctx, q)
			So(err, ShouldBeNil)
			second, err := s.RandomTriviaQuestions(ctx, q)
			So(err, ShouldBeNil)

			Convey("Then both samples match in content and order", func() {
				So(len(first), ShouldEqual, 4)
				So(second, ShouldResemble, first)
			})

			Convey("Then a different seed usually differs", func() {
				other, err := s.RandomTriviaQuestions(ctx, model.QuestionQuery{Limit: 12, Seed: "2026-10-19"})
				So(err, ShouldBeNil)
				all, err := s.RandomTriviaQuestions(ctx, model.QuestionQuery{Limit: 12, Seed: "2026-10-18"})
				So(err, ShouldBeNil)
				So(len(other), ShouldEqual, 12)
				So(other, ShouldNotResemble, all)
			})
		})

		Convey("When the limit is zero", func() {
			qs, err := s.RandomTriviaQuestions(ctx, model.QuestionQuery{})
			So(err, ShouldBeNil)
			So(qs, ShouldBeEmpty)
		})

		Convey("When used as a question provider", func() {
			p := s.QuestionProvider()
			qs, err := p.Questions(ctx, model.QuestionQuery{Limit: 3})
			So(err, ShouldBeNil)
			So(p.Name(), ShouldEqual, "postgresql")
			So(len(qs), ShouldEqual, 3)
		})
	})
}

func TestMovieAthletes(t *testing.T) {
	Convey("Given a seeded store", t, func() {
		ctx := context.Background()
		s := openSeeded(ctx)
		defer func() { _ = s.Close() }()

		Convey("When drafting random athletes", func() {
			cs, err := s.RandomMovieAthletes(ctx, 4)
			So(err, ShouldBeNil)
			So(len(cs), ShouldEqual, 4)
		})

		Convey("When listing one archetype", func() {
			cs, err := s.MovieAthletesByArchetype(ctx, "Natural")

			Convey("Then only that archetype is returned, ordered by name", func() {
				So(err, ShouldBeNil)
				So(len(cs), ShouldEqual, 3)
				So(cs[0].Name, ShouldEqual, "Apollo Creed")
				for _, c := range cs {
					So(c.Archetype, ShouldEqual, model.ArchetypeNatural)
				}
			})

			Convey("Then wildcard values survive the round trip", func() {
				var hobbs model.Character
				for _, c := range cs {
					if c.Name == "Roy Hobbs" {
						hobbs = c
					}
				}
				So(hobbs.Wildcard(), ShouldEqual, 80)
				So(hobbs.WildcardName, ShouldEqual, "Wonderboy")
			})
		})
	})
}

func TestCreateGameSession(t *testing.T) {
	Convey("Given a migrated store", t, func() {
		ctx := context.Background()
		s := openSeeded(ctx)
		defer func() { _ = s.Close() }()

		Convey("When a session without id is created", func() {
			pid := "profile-9"
			gs, err := s.CreateGameSession(ctx, model.GameSession{ProfileID: &pid, GameType: "trivia", Score: 7, TotalQuestions: 10})

			Convey("Then id and timestamp are filled in", func() {
				So(err, ShouldBeNil)
				So(gs.ID, ShouldEqual, "00000000-0000-0000-0000-000000000001")
				So(gs.CreatedAt.IsZero(), ShouldBeFalse)
				So(*gs.ProfileID, ShouldEqual, "profile-9")
				So(gs.Score, ShouldEqual, 7)
			})

			Convey("Then reusing the id fails", func() {
				_, err := s.CreateGameSession(ctx, model.GameSession{GameType: "trivia"})
				So(errors.Is(err, repository.ErrQuery), ShouldBeTrue)
			})
		})
	})
}
