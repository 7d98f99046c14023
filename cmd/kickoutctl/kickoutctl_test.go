package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tealeg/xlsx/v2"

	"github.com/okian/kickout/internal/adapters/http/api"
	"github.com/okian/kickout/internal/adapters/repository"
	app "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/pkg/logger"
)

func seedFileStore(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	store, err := repository.NewFileStore(dir, "")
	if err != nil {
		t.Fatalf("file store: %v", err)
	}
	p := 9
	log := []model.Record{
		{Call: "RIGHT", Setup: "short", Zone: "4", Player: &p, Won: true, Time: 1},
		{Call: "RIGHT", Setup: "short", Zone: "4", Player: &p, Won: true, Time: 2},
		{Call: "RIGHT", Setup: "short", Zone: "1", Player: &p, Won: true, Time: 3},
		{Call: "RIGHT", Setup: "short", Zone: "4", Won: false, Time: 4},
	}
	if err := store.Save(context.Background(), log); err != nil {
		t.Fatalf("save: %v", err)
	}
	t.Setenv("KICKOUT_STORAGE__DRIVER", repository.DriverFile)
	t.Setenv("KICKOUT_STORAGE__PATH", dir)
	return dir
}

func execute(args ...string) (string, error) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPredictCommand(t *testing.T) {
	Convey("Given a stored log", t, func() {
		seedFileStore(t)

		Convey("When predict is run for the logged pair", func() {
			out, err := execute("predict", "right", "short")

			Convey("Then the majority zone is printed", func() {
				So(err, ShouldBeNil)
				So(out, ShouldEqual, "RIGHT → Zone 4 (67%)\n")
			})
		})

		Convey("When predict is run for an unseen pair", func() {
			out, err := execute("predict", "left", "long")
			So(err, ShouldBeNil)
			So(out, ShouldContainSubstring, "Building pattern")
		})

		Convey("When arguments are missing", func() {
			_, err := execute("predict", "right")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestExportCommand(t *testing.T) {
	Convey("Given a stored log", t, func() {
		dir := seedFileStore(t)
		target := filepath.Join(dir, "match.xlsx")

		Convey("When export is run", func() {
			out, err := execute("export", "--out", target)

			Convey("Then a workbook with every kickout is written", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "wrote 4 kickouts")
				data, err := os.ReadFile(target)
				So(err, ShouldBeNil)
				f, err := xlsx.OpenBinary(data)
				So(err, ShouldBeNil)
				So(f.Sheet["Kickouts"].Rows, ShouldHaveLength, 5)
			})
		})
	})
}

func TestReplayCommand(t *testing.T) {
	_ = logger.Init()

	Convey("Given a running board", t, func() {
		svc := app.New(
			app.WithStore(repository.NewMemoryStore()),
			app.WithClock(clockwork.NewFakeClock()),
		)
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)
		srv := httptest.NewServer(mux)
		Reset(func() {
			srv.Close()
			svc.Stop()
		})

		Convey("When replay is run against it", func() {
			So(svc.Start(context.Background()), ShouldBeNil)
			out, err := execute("replay", "--url", srv.URL, "-n", "25", "--rate", "0")

			Convey("Then the summary reports no mismatches", func() {
				So(err, ShouldBeNil)
				So(out, ShouldContainSubstring, "submitted 25")
				So(out, ShouldContainSubstring, "mismatches 0")
			})
		})
	})
}
