package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	service "github.com/okian/scoutdb/internal/app"
	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/types"
	"github.com/okian/scoutdb/pkg/logger"
)

type fakeBackend struct {
	players map[uint32]model.Player
	results map[string]types.Result
	queries []string
}

func newFakeBackend() *fakeBackend {
	messi := model.Player{ID: 158023, Name: "Lionel Messi", Positions: []string{"RW", "ST"},
		Rating: 4.5, RatingCount: 2000, Tags: []string{"Dribbler", "Playmaker"}}
	jon := model.Player{ID: 7, Name: "Jonas Hofmann", Positions: []string{"CAM"}, Rating: 3.25, RatingCount: 40}
	jonny := model.Player{ID: 8, Name: "Jonny Evans", Positions: []string{"CB"}, Rating: 2.75, RatingCount: 12}
	return &fakeBackend{
		players: map[uint32]model.Player{messi.ID: messi, jon.ID: jon, jonny.ID: jonny},
		results: map[string]types.Result{
			"player messi": types.SinglePlayer(messi),
			"player jon":   types.PlayerList([]model.Player{jon, jonny}),
			"user 42": types.UserResult(model.User{ID: 42, Ratings: []model.Rating{
				{UserID: 42, PlayerID: 8, Score: 2.0},
				{UserID: 42, PlayerID: 158023, Score: 5.0},
				{UserID: 42, PlayerID: 999, Score: 3.0},
			}}),
		},
	}
}

func (f *fakeBackend) Query(_ context.Context, text string) (types.Result, error) {
	f.queries = append(f.queries, text)
	if _, err := query.Parse(text); err != nil {
		return types.Result{}, err
	}
	res, ok := f.results[strings.ToLower(text)]
	if !ok {
		return types.Result{}, fmt.Errorf("%w: 1", repository.ErrUserNotFound)
	}
	return res, nil
}

func (f *fakeBackend) Player(id uint32) (model.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return model.Player{}, repository.ErrPlayerNotFound
	}
	return p, nil
}

func (f *fakeBackend) GetStats() service.Stats {
	return service.Stats{
		Loaded:       true,
		LoadDuration: 1500 * time.Millisecond,
		Applied:      10,
		Skipped:      2,
		Dataset:      repository.Stats{Players: 3, Users: 1, Tags: 2, Positions: 4},
	}
}

func TestREPL(t *testing.T) {
	Convey("Given a REPL over a fake backend", t, func() {
		backend := newFakeBackend()
		var out bytes.Buffer
		r := New(backend, &out, WithLogger(logger.Nop()), WithPrompt(""))
		ctx := context.Background()

		Convey("A single match renders as a panel with tags", func() {
			So(r.Run(ctx, strings.NewReader("player Messi\n")), ShouldBeNil)
			s := out.String()
			So(s, ShouldContainSubstring, "Lionel Messi")
			So(s, ShouldContainSubstring, "158023")
			So(s, ShouldContainSubstring, "RW, ST")
			So(s, ShouldContainSubstring, "4.5000")
			So(s, ShouldContainSubstring, "Dribbler")
			So(s, ShouldContainSubstring, "query ran in")
		})

		Convey("Several matches render as a table", func() {
			So(r.Run(ctx, strings.NewReader("player Jon\n")), ShouldBeNil)
			s := out.String()
			So(s, ShouldContainSubstring, "Jonas Hofmann")
			So(s, ShouldContainSubstring, "Jonny Evans")
			So(s, ShouldContainSubstring, "2 players")
		})

		Convey("A user renders highest score first with player names", func() {
			So(r.Run(ctx, strings.NewReader("user 42\n")), ShouldBeNil)
			s := out.String()
			So(s, ShouldContainSubstring, "User 42")
			So(s, ShouldContainSubstring, "rated 3 players")
			So(strings.Index(s, "Lionel Messi"), ShouldBeLessThan, strings.Index(s, "Jonny Evans"))
			So(s, ShouldContainSubstring, "?")
		})

		Convey("Failures are printed and the loop continues", func() {
			So(r.Run(ctx, strings.NewReader("bogus\nuser 1\nplayer jon\n")), ShouldBeNil)
			s := out.String()
			So(s, ShouldContainSubstring, "invalid query")
			So(s, ShouldContainSubstring, "query failed")
			So(s, ShouldContainSubstring, "Jonas Hofmann")
			So(backend.queries, ShouldHaveLength, 3)
		})

		Convey("Quit stops reading", func() {
			So(r.Run(ctx, strings.NewReader("\n  \nquit\nplayer jon\n")), ShouldBeNil)
			So(backend.queries, ShouldBeEmpty)
		})

		Convey("Commands do not reach the backend", func() {
			So(r.Run(ctx, strings.NewReader("\\help\n\\stats\n\\metrics\n\\nope\n")), ShouldBeNil)
			s := out.String()
			So(s, ShouldContainSubstring, "top<N> '<POS>'")
			So(s, ShouldContainSubstring, "DATASET")
			So(s, ShouldContainSubstring, "1.5s")
			So(s, ShouldContainSubstring, "scoutdb_index_")
			So(s, ShouldContainSubstring, "unknown command")
			So(backend.queries, ShouldBeEmpty)
		})

		Convey("A canceled context ends the loop", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			So(r.Run(cctx, strings.NewReader("player jon\n")), ShouldBeNil)
			So(backend.queries, ShouldBeEmpty)
		})

		Convey("The prompt is printed before each line", func() {
			pr := New(backend, &out, WithLogger(logger.Nop()))
			So(pr.Run(ctx, strings.NewReader("q\n")), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, strings.TrimSpace(DefaultPrompt))
		})
	})
}

func TestExecute(t *testing.T) {
	Convey("Given a REPL", t, func() {
		backend := newFakeBackend()
		var out bytes.Buffer
		ctx := context.Background()

		Convey("Execute returns the query error after rendering it", func() {
			r := New(backend, &out, WithLogger(logger.Nop()))
			err := r.Execute(ctx, "user 1")
			So(errors.Is(err, repository.ErrNotFound), ShouldBeTrue)
			So(out.String(), ShouldContainSubstring, "query failed")
		})

		Convey("JSON mode writes one document per query", func() {
			r := New(backend, &out, WithLogger(logger.Nop()), WithJSON(true))
			So(r.Execute(ctx, "player messi"), ShouldBeNil)

			var doc struct {
				Query  string `json:"query"`
				Result struct {
					Kind   string       `json:"kind"`
					Player model.Player `json:"player"`
				} `json:"result"`
				Error string `json:"error"`
			}
			So(json.Unmarshal(out.Bytes(), &doc), ShouldBeNil)
			So(doc.Query, ShouldEqual, "player messi")
			So(doc.Result.Kind, ShouldEqual, "single_player")
			So(doc.Result.Player.ID, ShouldEqual, uint32(158023))
			So(doc.Error, ShouldBeEmpty)
		})

		Convey("JSON mode reports errors in the document", func() {
			r := New(backend, &out, WithLogger(logger.Nop()), WithJSON(true))
			So(r.Execute(ctx, "top"), ShouldNotBeNil)
			var doc map[string]any
			So(json.Unmarshal(out.Bytes(), &doc), ShouldBeNil)
			So(doc["error"], ShouldNotBeEmpty)
			So(doc, ShouldNotContainKey, "result")
		})
	})
}
