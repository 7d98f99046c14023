package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/okian/kickout/internal/adapters/notify"
	"github.com/okian/kickout/internal/adapters/repository"
	app "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/config"
	"github.com/okian/kickout/pkg/logger"
	"github.com/smartystreets/goconvey/convey"
)

func TestMainFunction(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given the main application", t, func() {
		convey.Convey("When configuration comes from the environment", func() {
			t.Setenv("KICKOUT_ADDR", ":8080")
			t.Setenv("KICKOUT_STORAGE__DRIVER", "memory")
			t.Setenv("KICKOUT_PLAYER_COUNT", "15")

			convey.Convey("Then configuration should be loadable", func() {
				cfg, err := config.Load()
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.Storage.Driver, convey.ShouldEqual, "memory")
				convey.So(cfg.PlayerCount, convey.ShouldEqual, 15)
			})
		})

		convey.Convey("When no broker is configured", func() {
			n, err := buildNotifier(context.Background(), config.New(), logger.Get())

			convey.Convey("Then only the log notifier is used", func() {
				convey.So(err, convey.ShouldBeNil)
				_, ok := n.(*notify.Log)
				convey.So(ok, convey.ShouldBeTrue)
			})
		})
	})
}

func TestNewHandler(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given a started board behind the full handler", t, func() {
		ctx := context.Background()
		svc := app.New(app.WithStore(repository.NewMemoryStore()))
		convey.So(svc.Start(ctx), convey.ShouldBeNil)
		defer svc.Stop()
		h := newHandler(ctx, svc)

		get := func(path string) *httptest.ResponseRecorder {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
			return w
		}

		convey.Convey("Then the API, docs and board page are all mounted", func() {
			convey.So(get("/state").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/openapi.yaml").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/api-docs").Code, convey.ShouldEqual, http.StatusOK)
			convey.So(get("/").Body.String(), convey.ShouldContainSubstring, "Kickout Board")
		})

		convey.Convey("And responses carry a request id", func() {
			convey.So(get("/state").Header().Get("X-Request-ID"), convey.ShouldNotBeEmpty)
		})
	})
}

func TestMetricsUpdaters(t *testing.T) {
	_ = logger.Init()

	convey.Convey("Given the metrics updaters", t, func() {
		convey.Convey("When the system updater runs until its context ends", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startSystemMetricsUpdater(ctx) }, convey.ShouldNotPanic)
		})

		convey.Convey("When the service updater runs on a stopped service", func() {
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()

			convey.So(func() { startServiceMetricsUpdater(ctx, app.New()) }, convey.ShouldNotPanic)
		})

		convey.Convey("When updates are applied directly", func() {
			svc := app.New(app.WithStore(repository.NewMemoryStore()))
			convey.So(svc.Start(context.Background()), convey.ShouldBeNil)
			defer svc.Stop()

			convey.So(updateSystemMetrics, convey.ShouldNotPanic)
			convey.So(func() { updateServiceMetrics(svc) }, convey.ShouldNotPanic)
		})
	})
}
