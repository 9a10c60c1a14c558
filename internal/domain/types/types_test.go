package types_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestResult(t *testing.T) {
	Convey("Given result constructors", t, func() {
		Convey("When wrapping a single player", func() {
			r := types.SinglePlayer(model.Player{ID: 1, Name: "Pele"})
			So(r.Kind, ShouldEqual, types.KindSinglePlayer)
			So(r.Player.Name, ShouldEqual, "Pele")
			So(r.Len(), ShouldEqual, 1)
		})

		Convey("When wrapping a nil player list", func() {
			r := types.PlayerList(nil)
			So(r.Kind, ShouldEqual, types.KindPlayerList)
			So(r.Players, ShouldNotBeNil)
			So(r.Len(), ShouldEqual, 0)
		})

		Convey("When wrapping a user", func() {
			r := types.UserResult(model.User{ID: 9, Ratings: []model.Rating{{UserID: 9, PlayerID: 1, Score: 3}}})
			So(r.Kind, ShouldEqual, types.KindUser)
			So(r.Len(), ShouldEqual, 1)
		})

		Convey("When encoding to JSON", func() {
			b, err := json.Marshal(types.SinglePlayer(model.Player{ID: 1, Name: "Pele"}))
			So(err, ShouldBeNil)
			So(string(b), ShouldContainSubstring, `"kind":"single_player"`)
			So(string(b), ShouldNotContainSubstring, `"user"`)
		})
	})
}
