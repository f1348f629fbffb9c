package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/okian/marquee/internal/adapters/http/api"
	"github.com/okian/marquee/internal/domain/model"
	"github.com/okian/marquee/internal/domain/trivia"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeDeps struct {
	mu sync.Mutex

	result    trivia.Result
	lastQuery model.QuestionQuery

	stats    model.TriviaStats
	statsErr error

	accept   bool
	recorded []model.BattleRecord

	athletes    []model.Character
	athleteErr  error
	lastLimit   int
	lastArchety model.Archetype

	sessions   []model.GameSession
	sessionErr error
}

func (f *fakeDeps) Questions(_ context.Context, q model.QuestionQuery) trivia.Result {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	return f.result
}

func (f *fakeDeps) TriviaStats(context.Context) (model.TriviaStats, error) {
	return f.stats, f.statsErr
}

func (f *fakeDeps) RecordBattle(_ context.Context, r model.BattleRecord) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.accept {
		return false
	}
	f.recorded = append(f.recorded, r)
	return true
}

func (f *fakeDeps) RandomMovieAthletes(_ context.Context, limit int) ([]model.Character, error) {
	f.lastLimit = limit
	return f.athletes, f.athleteErr
}

func (f *fakeDeps) MovieAthletesByArchetype(_ context.Context, a model.Archetype) ([]model.Character, error) {
	f.lastArchety = a
	return f.athletes, f.athleteErr
}

func (f *fakeDeps) CreateGameSession(_ context.Context, gs model.GameSession) (model.GameSession, error) {
	if f.sessionErr != nil {
		return model.GameSession{}, f.sessionErr
	}
	gs.ID = "session-1"
	f.sessions = append(f.sessions, gs)
	return gs, nil
}

type fakeStats struct{}

func (fakeStats) GetStats() map[string]any { return map[string]any{"cache_state": "WARM"} }

func newMux(deps *fakeDeps) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, fakeStats{}, api.WithQuestionLimits(10, 50)).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func errorBody(rr *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	So(json.Unmarshal(rr.Body.Bytes(), &body), ShouldBeNil)
	return body
}

const athlete = `{"id":%s,"name":"Rocky","archetype":"underdog","athleticism":80,"clutch":85,"leadership":60,"heart":99,"skill":70,"intimidation":50,"teamwork":65,"charisma":75}`

func rocky(id string) string { return strings.Replace(athlete, "%s", id, 1) }

func TestBattleEndpoint(t *testing.T) {
	Convey("Given the battle endpoint", t, func() {
		deps := &fakeDeps{accept: true}
		mux := newMux(deps)

		Convey("When both teams are valid", func() {
			body := `{"playerTeam":[` + rocky(`"1"`) + `],"opponentTeam":[` + rocky(`2`) + `],"profileId":"p-1"}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)

			Convey("Then the result is returned and the battle is recorded", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var res model.BattleResult
				So(json.Unmarshal(rr.Body.Bytes(), &res), ShouldBeNil)
				So(res.Winner, ShouldEqual, model.WinnerTie)
				So(res.PlayerScore, ShouldEqual, res.OpponentScore)
				So(res.PlayerBreakdown, ShouldHaveLength, 1)
				So(res.PlayerBreakdown[0].Name, ShouldEqual, "Rocky")
				So(deps.recorded, ShouldHaveLength, 1)
				So(deps.recorded[0].ProfileID, ShouldEqual, "p-1")
				So(deps.recorded[0].PlayerScore, ShouldEqual, res.PlayerScore)
			})
		})

		Convey("When no profile id is sent", func() {
			body := `{"playerTeam":[` + rocky(`1`) + `],"opponentTeam":[` + rocky(`2`) + `]}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)

			Convey("Then nothing is recorded", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(deps.recorded, ShouldBeEmpty)
			})
		})

		Convey("When the recorder is full", func() {
			deps.accept = false
			body := `{"playerTeam":[` + rocky(`1`) + `],"opponentTeam":[` + rocky(`2`) + `],"profileId":"p-2"}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)

			Convey("Then the battle still resolves", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When a team is not an array", func() {
			rr := do(mux, http.MethodPost, "/api/athletes/battle", `{"playerTeam":{},"opponentTeam":[]}`)

			Convey("Then it is rejected with 400", func() {
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(rr)["error"], ShouldContainSubstring, "must be arrays")
			})
		})

		Convey("When a team is sent as a string", func() {
			body := `{"playerTeam":"rocky","opponentTeam":[` + rocky(`2`) + `]}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)

			Convey("Then it is rejected with 400", func() {
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(rr)["error"], ShouldContainSubstring, "must be arrays")
				So(errorBody(rr)["code"], ShouldEqual, "invalid_teams")
			})
		})

		Convey("When a team is missing", func() {
			rr := do(mux, http.MethodPost, "/api/athletes/battle", `{"playerTeam":[]}`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
			So(errorBody(rr)["error"], ShouldContainSubstring, "must be arrays")
		})

		Convey("When a team is empty", func() {
			body := `{"playerTeam":[],"opponentTeam":[` + rocky(`2`) + `]}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)

			Convey("Then it is rejected with 400", func() {
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(rr)["error"], ShouldContainSubstring, "at least one athlete")
			})
		})

		Convey("When the body is not JSON", func() {
			rr := do(mux, http.MethodPost, "/api/athletes/battle", `nope`)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
			So(errorBody(rr)["code"], ShouldEqual, "invalid_json")
		})

		Convey("When an athlete has a malformed stat", func() {
			body := `{"playerTeam":[{"name":"x","heart":"high"}],"opponentTeam":[` + rocky(`2`) + `]}`
			rr := do(mux, http.MethodPost, "/api/athletes/battle", body)
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
			So(errorBody(rr)["code"], ShouldEqual, "invalid_athlete")
		})

		Convey("When the method is GET", func() {
			rr := do(mux, http.MethodGet, "/api/athletes/battle", "")
			So(rr.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestTriviaEndpoints(t *testing.T) {
	Convey("Given the trivia endpoints", t, func() {
		deps := &fakeDeps{
			result: trivia.Result{
				Questions: []model.Question{{ID: "q1", Question: "Who?", CorrectAnswer: "a", WrongAnswer1: "b", WrongAnswer2: "c", WrongAnswer3: "d"}},
				Source:    "firebase",
			},
			stats: model.TriviaStats{TotalQuestions: 120, Source: "firebase"},
		}
		mux := newMux(deps)

		Convey("When questions are requested without a limit", func() {
			rr := do(mux, http.MethodGet, "/api/trivia/questions", "")

			Convey("Then the default limit is used and the source header is set", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Limit, ShouldEqual, 10)
				So(deps.lastQuery.Tier, ShouldEqual, model.TierAll)
				So(rr.Header().Get("X-Question-Source"), ShouldEqual, "firebase")
				var qs []model.Question
				So(json.Unmarshal(rr.Body.Bytes(), &qs), ShouldBeNil)
				So(qs, ShouldHaveLength, 1)
			})
		})

		Convey("When a large limit, tier and seed are requested", func() {
			rr := do(mux, http.MethodGet, "/api/trivia/questions?limit=500&tier=popular&seed=daily-1", "")

			Convey("Then the limit is capped and the query is forwarded", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(deps.lastQuery.Limit, ShouldEqual, 50)
				So(deps.lastQuery.Tier, ShouldEqual, model.TierPopular)
				So(deps.lastQuery.Seed, ShouldEqual, "daily-1")
			})
		})

		Convey("When the limit is invalid", func() {
			for _, l := range []string{"0", "-3", "ten"} {
				rr := do(mux, http.MethodGet, "/api/trivia/questions?limit="+l, "")
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				So(errorBody(rr)["code"], ShouldEqual, "invalid_limit")
			}
		})

		Convey("When the tier is unknown", func() {
			rr := do(mux, http.MethodGet, "/api/trivia/questions?tier=obscure", "")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When every source is empty", func() {
			deps.result = trivia.Result{}
			rr := do(mux, http.MethodGet, "/api/trivia/questions", "")

			Convey("Then an empty array is returned", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(rr.Body.String()), ShouldEqual, "[]")
				So(rr.Header().Get("X-Question-Source"), ShouldBeEmpty)
			})
		})

		Convey("When stats are requested", func() {
			rr := do(mux, http.MethodGet, "/api/trivia/stats", "")

			Convey("Then the count and source are returned", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				var st model.TriviaStats
				So(json.Unmarshal(rr.Body.Bytes(), &st), ShouldBeNil)
				So(st.TotalQuestions, ShouldEqual, 120)
				So(st.Source, ShouldEqual, "firebase")
			})
		})

		Convey("When stats fail", func() {
			deps.statsErr = errors.New("db down")
			rr := do(mux, http.MethodGet, "/api/trivia/stats", "")

			Convey("Then a 500 without internals is returned", func() {
				So(rr.Code, ShouldEqual, http.StatusInternalServerError)
				So(rr.Body.String(), ShouldNotContainSubstring, "db down")
			})
		})
	})
}

func TestAthleteEndpoints(t *testing.T) {
	Convey("Given the athlete endpoints", t, func() {
		deps := &fakeDeps{athletes: []model.Character{{ID: "7", Name: "Roy Hobbs", Archetype: model.ArchetypeNatural}}}
		mux := newMux(deps)

		Convey("When random athletes are requested", func() {
			rr := do(mux, http.MethodGet, "/api/athletes/random?limit=3", "")
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(deps.lastLimit, ShouldEqual, 3)
		})

		Convey("When athletes are filtered by a known archetype", func() {
			rr := do(mux, http.MethodGet, "/api/athletes/archetype/Natural", "")

			Convey("Then the archetype is normalized", func() {
				So(rr.Code, ShouldEqual, http.StatusOK)
				So(deps.lastArchety, ShouldEqual, model.ArchetypeNatural)
				var cs []model.Character
				So(json.Unmarshal(rr.Body.Bytes(), &cs), ShouldBeNil)
				So(cs[0].ID, ShouldEqual, model.CharacterID("7"))
			})
		})

		Convey("When the archetype is unknown", func() {
			rr := do(mux, http.MethodGet, "/api/athletes/archetype/wizard", "")
			So(rr.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When the store has nothing", func() {
			deps.athletes = nil
			rr := do(mux, http.MethodGet, "/api/athletes/random", "")
			So(strings.TrimSpace(rr.Body.String()), ShouldEqual, "[]")
		})
	})
}

func TestGamesEndpoint(t *testing.T) {
	Convey("Given the games endpoint", t, func() {
		deps := &fakeDeps{}
		mux := newMux(deps)

		Convey("When a valid session is posted", func() {
			rr := do(mux, http.MethodPost, "/api/games", `{"profileId":"p-9","gameType":"trivia","score":7,"totalQuestions":10}`)

			Convey("Then it is created", func() {
				So(rr.Code, ShouldEqual, http.StatusCreated)
				var gs model.GameSession
				So(json.Unmarshal(rr.Body.Bytes(), &gs), ShouldBeNil)
				So(gs.ID, ShouldEqual, "session-1")
				So(*gs.ProfileID, ShouldEqual, "p-9")
				So(gs.CreatedAt.After(time.Time{}), ShouldBeTrue)
			})
		})

		Convey("When required fields are missing", func() {
			rr := do(mux, http.MethodPost, "/api/games", `{"gameType":"poker","score":-1}`)

			Convey("Then every failed field is listed", func() {
				So(rr.Code, ShouldEqual, http.StatusBadRequest)
				body := errorBody(rr)
				So(body["code"], ShouldEqual, "validation_failed")
				details, ok := body["details"].([]any)
				So(ok, ShouldBeTrue)
				fields := map[string]bool{}
				for _, d := range details {
					fields[d.(map[string]any)["field"].(string)] = true
				}
				So(fields["gameType"], ShouldBeTrue)
				So(fields["score"], ShouldBeTrue)
				So(fields["totalQuestions"], ShouldBeTrue)
				So(deps.sessions, ShouldBeEmpty)
			})
		})

		Convey("When the store fails", func() {
			deps.sessionErr = errors.New("insert failed")
			rr := do(mux, http.MethodPost, "/api/games", `{"gameType":"battle","score":1,"totalQuestions":0}`)
			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}

func TestOperationalEndpoints(t *testing.T) {
	Convey("Given the operational endpoints", t, func() {
		mux := newMux(&fakeDeps{})

		Convey("When stats are requested", func() {
			rr := do(mux, http.MethodGet, "/stats", "")
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(rr.Body.String(), ShouldContainSubstring, "cache_state")
		})

		Convey("When health is scraped after a request", func() {
			do(mux, http.MethodGet, "/stats", "")
			rr := do(mux, http.MethodGet, "/healthz", "")
			So(rr.Code, ShouldEqual, http.StatusOK)
			So(rr.Body.String(), ShouldContainSubstring, "marquee_api_http_requests_total")
		})

		Convey("When the outer middleware handles a preflight", func() {
			h := api.WrapHandler(mux, []string{"https://marquee.example"})
			req := httptest.NewRequest(http.MethodOptions, "/api/trivia/questions", nil)
			req.Header.Set("Origin", "https://marquee.example")
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)
			So(rr.Header().Get("Access-Control-Allow-Origin"), ShouldEqual, "https://marquee.example")
		})

		Convey("When a handler panics behind the outer middleware", func() {
			boom := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") })
			rr := httptest.NewRecorder()
			api.WrapHandler(boom, nil).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
			So(rr.Code, ShouldEqual, http.StatusInternalServerError)
		})
	})
}
