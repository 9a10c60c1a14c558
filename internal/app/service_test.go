package service_test

import (
	"context"
	"errors"
	"io"
	"testing"

	service "github.com/okian/scoutdb/internal/app"
	"github.com/okian/scoutdb/internal/adapters/repository"
	"github.com/okian/scoutdb/internal/adapters/source"
	"github.com/okian/scoutdb/internal/domain/model"
	"github.com/okian/scoutdb/internal/domain/query"
	"github.com/okian/scoutdb/internal/domain/scoring"
	"github.com/okian/scoutdb/internal/domain/types"
	"github.com/okian/scoutdb/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithWriter(io.Discard)); err != nil {
		panic(err)
	}
}

func smallDB() service.Option {
	return service.WithDatabaseOptions(
		repository.WithPlayerCapacity(31),
		repository.WithUserCapacity(31),
		repository.WithTagCapacity(31),
		repository.WithPositionCapacity(7),
		repository.WithBTreeOrder(4),
	)
}

// fixture builds a dataset where players 1 and 3 are popular strikers.
func fixture() *source.Memory {
	m := &source.Memory{
		PlayerRows: []model.Player{
			{ID: 1, Name: "Jon Doe", Positions: []string{"ST"}},
			{ID: 2, Name: "Jonas", Positions: []string{"CB"}},
			{ID: 3, Name: "Pele", Positions: []string{"ST", "CF"}},
			{ID: 5, Name: "Zico", Positions: []string{"CAM"}},
			{ID: 7, Name: "Romario", Positions: []string{"ST"}},
			{ID: 9, Name: "Ronaldo", Positions: []string{"ST"}},
		},
		TagRows: []model.Tag{
			{PlayerID: 5, Text: "Brazil"},
			{PlayerID: 7, Text: "Brazil"},
			{PlayerID: 7, Text: "Striker"},
			{PlayerID: 9, Text: "Striker"},
			{PlayerID: 404, Text: "Ghost"},
		},
	}
	for u := uint32(0); u < 1500; u++ {
		m.RatingRows = append(m.RatingRows,
			model.Rating{UserID: u, PlayerID: 1, Score: 4.0},
			model.Rating{UserID: u, PlayerID: 3, Score: 4.5},
		)
	}
	m.RatingRows = append(m.RatingRows,
		model.Rating{UserID: 9000, PlayerID: 9, Score: 5.0},
		model.Rating{UserID: 9000, PlayerID: 9, Score: 7.5},
	)
	return m
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc, err := service.New()
		So(err, ShouldBeNil)
		defer svc.Close()

		Convey("Then it is not loaded yet", func() {
			So(svc.GetStats().Loaded, ShouldBeFalse)
			_, err := svc.Query(context.Background(), "player jon")
			So(errors.Is(err, service.ErrNotLoaded), ShouldBeTrue)
		})
	})

	Convey("Given an invalid tree order", t, func() {
		_, err := service.New(service.WithDatabaseOptions(repository.WithBTreeOrder(2)))
		So(err, ShouldNotBeNil)
	})
}

func TestService_LoadAndQuery(t *testing.T) {
	Convey("Given a loaded service", t, func() {
		ctx := context.Background()
		svc, err := service.New(smallDB(), service.WithQueueSize(16), service.WithCacheSize(32))
		So(err, ShouldBeNil)
		defer svc.Close()
		So(svc.Load(ctx, fixture()), ShouldBeNil)

		Convey("Then stats reflect the lenient load", func() {
			st := svc.GetStats()
			So(st.Loaded, ShouldBeTrue)
			So(st.Dataset.Players, ShouldEqual, 6)
			So(st.Dataset.Users, ShouldEqual, 1501)
			So(st.Dataset.Positions, ShouldEqual, 2)
			So(st.Skipped, ShouldEqual, 2)
		})

		Convey("When searching by name prefix", func() {
			res, err := svc.Query(ctx, "player jon")

			Convey("Then both matches come back as a list", func() {
				So(err, ShouldBeNil)
				So(res.Kind, ShouldEqual, types.KindPlayerList)
				So(res.Players, ShouldHaveLength, 2)
			})
		})

		Convey("When asking for the top strikers", func() {
			res, err := svc.Query(ctx, "top3 'ST'")

			Convey("Then only popular players are ranked, best first", func() {
				So(err, ShouldBeNil)
				So(res.Players, ShouldHaveLength, 2)
				So(res.Players[0].ID, ShouldEqual, uint32(3))
				So(res.Players[1].ID, ShouldEqual, uint32(1))
			})
		})

		Convey("When intersecting tags", func() {
			res, err := svc.Run(ctx, query.WithTags("Brazil", "Striker"))

			Convey("Then only the player with both is returned", func() {
				So(err, ShouldBeNil)
				So(res.Players, ShouldHaveLength, 1)
				So(res.Players[0].ID, ShouldEqual, uint32(7))
			})
		})

		Convey("When the same query runs twice", func() {
			first, err1 := svc.Query(ctx, "user 9000")
			second, err2 := svc.Query(ctx, "USER 9000")

			Convey("Then both answers agree", func() {
				So(err1, ShouldBeNil)
				So(err2, ShouldBeNil)
				So(second, ShouldResemble, first)
				So(first.User.Ratings, ShouldHaveLength, 1)
			})
		})

		Convey("When the user does not exist", func() {
			_, err := svc.Query(ctx, "user 424242")
			So(errors.Is(err, repository.ErrUserNotFound), ShouldBeTrue)

			Convey("Then the error is not cached", func() {
				_, err := svc.Query(ctx, "user 424242")
				So(errors.Is(err, repository.ErrUserNotFound), ShouldBeTrue)
			})
		})

		Convey("When the query text is invalid", func() {
			_, err := svc.Query(ctx, "delete everything")
			So(errors.Is(err, query.ErrInvalidQuery), ShouldBeTrue)
		})

		Convey("When loading again", func() {
			So(errors.Is(svc.Load(ctx, fixture()), service.ErrAlreadyLoaded), ShouldBeTrue)
		})

		Convey("When the service is closed", func() {
			So(svc.Close(), ShouldBeNil)
			_, err := svc.Query(ctx, "player jon")
			So(errors.Is(err, service.ErrClosed), ShouldBeTrue)
		})
	})
}

func TestService_StrictLoad(t *testing.T) {
	Convey("Given a strict service and a dataset with an out of range rating", t, func() {
		ctx := context.Background()
		svc, err := service.New(smallDB(), service.WithStrictIngest(true), service.WithCacheSize(0))
		So(err, ShouldBeNil)
		defer svc.Close()

		err = svc.Load(ctx, fixture())

		Convey("Then loading fails and the service stays unloaded", func() {
			So(errors.Is(err, scoring.ErrScoreOutOfRange), ShouldBeTrue)
			So(svc.GetStats().Loaded, ShouldBeFalse)
			So(svc.GetStats().Dataset.Players, ShouldEqual, 0)
		})

		Convey("Then a clean dataset can still be loaded", func() {
			clean := fixture()
			clean.TagRows = clean.TagRows[:4]
			clean.RatingRows = clean.RatingRows[:len(clean.RatingRows)-1]
			So(svc.Load(ctx, clean), ShouldBeNil)
			So(svc.GetStats().Dataset.Players, ShouldEqual, 6)
		})
	})
}

func TestService_Cancelled(t *testing.T) {
	Convey("Given a cancelled context", t, func() {
		svc, err := service.New(smallDB(), service.WithQueueSize(1))
		So(err, ShouldBeNil)
		defer svc.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		Convey("Then Load stops with the context error", func() {
			So(errors.Is(svc.Load(ctx, fixture()), context.Canceled), ShouldBeTrue)
		})
	})
}
