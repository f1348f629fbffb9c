package redismirror_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/okian/marquee/internal/adapters/redismirror"
	"github.com/okian/marquee/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMirror(t *testing.T) {
	Convey("Given a mirror over an in-memory redis", t, func() {
		ctx := context.Background()
		srv := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
		defer func() { _ = client.Close() }()
		m := redismirror.New(client, redismirror.WithKey("test:snapshot"), redismirror.WithTTL(time.Hour))

		Convey("When nothing was saved", func() {
			qs, err := m.Load(ctx)

			Convey("Then Load reports a clean miss", func() {
				So(err, ShouldBeNil)
				So(qs, ShouldBeNil)
			})
		})

		Convey("When a snapshot is saved", func() {
			saved := []model.Question{
				{ID: "q1", Question: "Who directed Jaws?", CorrectAnswer: "Spielberg", WrongAnswer1: "Lucas", WrongAnswer2: "Scorsese", WrongAnswer3: "Coppola", Category: "Jaws", Difficulty: "easy"},
			}
			So(m.Save(ctx, saved), ShouldBeNil)

			Convey("Then it loads back intact with a TTL", func() {
				qs, err := m.Load(ctx)
				So(err, ShouldBeNil)
				So(qs, ShouldResemble, saved)
				So(srv.TTL("test:snapshot"), ShouldEqual, time.Hour)
			})

			Convey("Then it expires with its TTL", func() {
				srv.FastForward(2 * time.Hour)
				qs, err := m.Load(ctx)
				So(err, ShouldBeNil)
				So(qs, ShouldBeNil)
			})
		})

		Convey("When the stored value is not JSON", func() {
			So(srv.Set("test:snapshot", "garbage"), ShouldBeNil)
			_, err := m.Load(ctx)
			So(errors.Is(err, redismirror.ErrCorrupt), ShouldBeTrue)
		})

		Convey("When redis is down", func() {
			srv.Close()
			err := m.Save(ctx, nil)
			So(err, ShouldNotBeNil)
		})
	})
}
