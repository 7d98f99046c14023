package replay_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/kickout/internal/adapters/http/api"
	"github.com/okian/kickout/internal/adapters/repository"
	service "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/replay"
	"github.com/okian/kickout/pkg/logger"
)

func newBoardServer(t *testing.T) (*httptest.Server, *service.Service) {
	t.Helper()
	svc := service.New(
		service.WithStore(repository.NewMemoryStore()),
		service.WithClock(clockwork.NewFakeClock()),
	)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return httptest.NewServer(mux), svc
}

func testConfig(url string) replay.Config {
	cfg := replay.DefaultConfig()
	cfg.BaseURL = url
	cfg.Rate = 0
	cfg.Kickouts = 40
	return cfg
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := replay.NewGenerator(7, replay.DefaultCalls, replay.DefaultSetups, 0.7, 30).Generate(50)
		b := replay.NewGenerator(7, replay.DefaultCalls, replay.DefaultSetups, 0.7, 30).Generate(50)

		Convey("Then they produce the same match", func() {
			So(a, ShouldResemble, b)
		})

		Convey("And lost kickouts carry no player", func() {
			for _, k := range a {
				if !k.Won {
					So(k.Player, ShouldBeNil)
				} else {
					So(*k.Player, ShouldBeBetweenOrEqual, 1, 30)
				}
			}
		})
	})

	Convey("Given a fully biased generator", t, func() {
		g := replay.NewGenerator(3, []string{"RIGHT"}, []string{"short"}, 1, 30)
		ks := g.Generate(20)

		Convey("Then every kickout lands in the preferred zone", func() {
			want := g.Preferred("RIGHT", "short")
			for _, k := range ks {
				So(k.Zone, ShouldEqual, want)
			}
		})
	})
}

func TestVerify(t *testing.T) {
	Convey("Given a log and a matching board prediction", t, func() {
		p := 4
		log := []model.Record{
			{Call: "RIGHT", Setup: "short", Zone: "2", Player: &p, Won: true},
			{Call: "RIGHT", Setup: "short", Zone: "2", Player: &p, Won: true},
			{Call: "RIGHT", Setup: "short", Zone: "2", Player: &p, Won: true},
		}
		board := prediction.Predict(log, "RIGHT", "short")

		Convey("Then no mismatch is reported", func() {
			So(replay.VerifyPrediction(log, "RIGHT", "short", board), ShouldBeEmpty)
		})

		Convey("When the board disagrees on the zone", func() {
			board.Zone = "5"
			ms := replay.VerifyPrediction(log, "RIGHT", "short", board)
			So(ms, ShouldHaveLength, 1)
			So(ms[0].Field, ShouldEqual, "zone")
		})

		Convey("When the log tail differs from what was submitted", func() {
			ms := replay.VerifyLog(log, []replay.Kickout{{Call: "right", Setup: "short", Zone: "3", Player: &p, Won: true}})
			So(ms, ShouldHaveLength, 1)
			So(ms[0].Record, ShouldEqual, 2)
		})
	})
}

func TestRun(t *testing.T) {
	_ = logger.Init()

	Convey("Given a running board", t, func() {
		srv, svc := newBoardServer(t)
		Reset(func() {
			srv.Close()
			svc.Stop()
		})

		Convey("When a match is replayed", func() {
			stats, err := replay.Run(context.Background(), testConfig(srv.URL))

			Convey("Then every kickout lands and predictions agree", func() {
				So(err, ShouldBeNil)
				So(stats.Submitted, ShouldEqual, 40)
				So(stats.Rejected, ShouldEqual, 0)
				So(stats.Checked, ShouldBeGreaterThan, 0)
				So(stats.Mismatches, ShouldBeEmpty)
			})
		})

		Convey("When the board is in the second half", func() {
			_, _ = svc.ToggleHalf(context.Background())
			_, err := replay.Run(context.Background(), testConfig(srv.URL))

			Convey("Then the replay switches back and still agrees", func() {
				So(err, ShouldBeNil)
				snap, _ := svc.Snapshot(context.Background())
				So(snap.SecondHalf, ShouldBeFalse)
			})
		})
	})

	Convey("Given an invalid config", t, func() {
		cfg := replay.DefaultConfig()
		cfg.Kickouts = 0
		_, err := replay.Run(context.Background(), cfg)
		So(errors.Is(err, replay.ErrInvalidConfig), ShouldBeTrue)
	})

	Convey("Given no board at the address", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		_, err := replay.Run(context.Background(), testConfig(srv.URL))
		So(errors.Is(err, replay.ErrUnhealthy), ShouldBeTrue)
	})
}
