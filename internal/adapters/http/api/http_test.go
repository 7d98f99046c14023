package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/tealeg/xlsx/v2"

	"github.com/okian/kickout/internal/adapters/http/api"
	"github.com/okian/kickout/internal/adapters/repository"
	service "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/pkg/logger"
)

type board struct {
	handler http.Handler
	svc     *service.Service
}

func newBoard(t *testing.T, opts ...service.Option) *board {
	t.Helper()
	opts = append([]service.Option{
		service.WithStore(repository.NewMemoryStore()),
		service.WithClock(clockwork.NewFakeClock()),
	}, opts...)
	svc := service.New(opts...)
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	return &board{handler: api.CorrelationMiddleware(mux), svc: svc}
}

func (b *board) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, path, nil)
	} else {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		r.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	b.handler.ServeHTTP(w, r)
	return w
}

func decode[T any](w *httptest.ResponseRecorder) T {
	var v T
	_ = json.Unmarshal(w.Body.Bytes(), &v)
	return v
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func TestBoardAPI(t *testing.T) {
	_ = logger.Init()

	Convey("Given a running board", t, func() {
		b := newBoard(t, service.WithPlayerCount(20))
		Reset(b.svc.Stop)

		Convey("When the state is requested", func() {
			w := b.do(http.MethodGet, "/state", "")
			snap := decode[service.Snapshot](w)

			Convey("Then it returns the initial snapshot with a request id", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)
				So(snap.Half, ShouldEqual, "First Half")
				So(snap.PlayerCount, ShouldEqual, 20)
				So(snap.Prediction.Text, ShouldEqual, prediction.BuildingText)
			})
		})

		Convey("When the client sends its own request id", func() {
			w := b.do(http.MethodGet, "/state", "", api.RequestIDHeader, "bench-42")
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "bench-42")
		})

		Convey("When a won kickout is posted with a player override", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":"right","setup":"short","zone":2,"player":7}`)
			res := decode[service.RecordResult](w)

			Convey("Then it is created and normalized", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)
				So(res.Record.Call, ShouldEqual, "RIGHT")
				So(res.Record.Zone, ShouldEqual, model.Zone("2"))
				So(*res.Record.Player, ShouldEqual, 7)
				So(res.State.LogSize, ShouldEqual, 1)
			})

			Convey("And the log lists it in persisted form", func() {
				w := b.do(http.MethodGet, "/kickouts", "")
				var raw []map[string]any
				So(json.Unmarshal(w.Body.Bytes(), &raw), ShouldBeNil)
				So(raw, ShouldHaveLength, 1)
				So(raw[0]["zone"], ShouldEqual, "2")
				So(raw[0]["player"], ShouldEqual, 7.0)
				So(raw[0]["won"], ShouldEqual, true)
			})
		})

		Convey("When the same Idempotency-Key is posted twice", func() {
			body := `{"call":"A","setup":"short","zone":"1","player":3}`
			first := b.do(http.MethodPost, "/kickouts", body, api.IdempotencyHeader, "tap-1")
			second := b.do(http.MethodPost, "/kickouts", body, api.IdempotencyHeader, "tap-1")

			Convey("Then the second is acknowledged as a duplicate", func() {
				So(first.Code, ShouldEqual, http.StatusCreated)
				So(second.Code, ShouldEqual, http.StatusOK)
				res := decode[service.RecordResult](second)
				So(res.Duplicate, ShouldBeTrue)
				So(res.State.LogSize, ShouldEqual, 1)
			})
		})

		Convey("When a won kickout has no player", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":"A","setup":"short","zone":"1"}`)
			body := decode[errorBody](w)

			Convey("Then it is rejected with the board prompt", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(body.Code, ShouldEqual, "validation")
				So(body.Message, ShouldEqual, "select the winning player")
			})
		})

		Convey("When the call is blank", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":"  ","setup":"short","zone":"1","player":1}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
			So(decode[errorBody](w).Message, ShouldEqual, "enter a call")
		})

		Convey("When the zone is unknown", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":"A","setup":"short","zone":"9","player":1}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("When the body is malformed", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
			So(decode[errorBody](w).Code, ShouldEqual, "bad_request")
		})

		Convey("When the body has unknown fields", func() {
			w := b.do(http.MethodPost, "/kickouts", `{"call":"A","setup":"s","zone":"1","player":1,"score":3}`)
			So(w.Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("When a player is selected", func() {
			ok := b.do(http.MethodPost, "/players/5/select", "")
			bad := b.do(http.MethodPost, "/players/21/select", "")
			nan := b.do(http.MethodPost, "/players/five/select", "")

			Convey("Then only grid players are accepted", func() {
				So(ok.Code, ShouldEqual, http.StatusOK)
				So(decode[service.Snapshot](ok).Player, ShouldEqual, 5)
				So(bad.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(nan.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the toggles are used", func() {
			half := decode[service.Snapshot](b.do(http.MethodPost, "/half/toggle", ""))
			outcome := decode[service.Snapshot](b.do(http.MethodPost, "/outcome/toggle", ""))
			simple := decode[service.Snapshot](b.do(http.MethodPost, "/view/simple/toggle", ""))

			Convey("Then each returns the updated texts", func() {
				So(half.Half, ShouldEqual, "Second Half")
				So(outcome.OutcomeText, ShouldEqual, "Kickout LOST")
				So(simple.SimpleViewText, ShouldEqual, "Exit Simple View")
			})
		})

		Convey("When a pattern is established and then broken", func() {
			for range 3 {
				b.do(http.MethodPost, "/kickouts", `{"call":"R","setup":"short","zone":"3","player":2}`)
			}
			pred := decode[prediction.Result](b.do(http.MethodGet, "/prediction?call=r&setup=short", ""))
			w := b.do(http.MethodPost, "/kickouts", `{"call":"R","setup":"short","zone":"1","player":2}`)
			res := decode[service.RecordResult](w)

			Convey("Then the alert fires and can be dismissed", func() {
				So(pred.Zone, ShouldEqual, model.Zone("3"))
				So(pred.Confidence, ShouldEqual, 100)
				So(res.PatternBroken, ShouldBeTrue)
				So(res.State.Alert.Visible, ShouldBeTrue)

				snap := decode[service.Snapshot](b.do(http.MethodPost, "/alert/dismiss", ""))
				So(snap.Alert.Visible, ShouldBeFalse)
				So(snap.Alert.Active, ShouldBeTrue)
			})
		})

		Convey("When clearing without confirmation", func() {
			w := b.do(http.MethodDelete, "/kickouts", "")

			Convey("Then the prompt is returned and nothing changes", func() {
				So(w.Code, ShouldEqual, http.StatusPreconditionFailed)
				So(decode[errorBody](w).Message, ShouldEqual, "Clear all match data?")
			})
		})

		Convey("When clearing with confirmation", func() {
			b.do(http.MethodPost, "/kickouts", `{"call":"A","setup":"short","zone":"1","player":3}`)
			w := b.do(http.MethodDelete, "/kickouts?confirm=true", "")
			snap := decode[service.Snapshot](w)

			Convey("Then the board is reset", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(snap.LogSize, ShouldEqual, 0)
				So(snap.Prediction.Text, ShouldEqual, prediction.ClearedText)
				So(b.do(http.MethodGet, "/kickouts", "").Body.String(), ShouldEqual, "[]\n")
			})
		})

		Convey("When the log is exported", func() {
			b.do(http.MethodPost, "/kickouts", `{"call":"A","setup":"short","zone":"4","player":3}`)
			w := b.do(http.MethodGet, "/kickouts/export.xlsx", "")

			Convey("Then a workbook is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Disposition"), ShouldContainSubstring, "kickouts.xlsx")
				f, err := xlsx.OpenBinary(w.Body.Bytes())
				So(err, ShouldBeNil)
				So(f.Sheet["Kickouts"].Rows, ShouldHaveLength, 2)
			})
		})

		Convey("When setups and stats are requested", func() {
			setups := b.do(http.MethodGet, "/setups", "")
			stats := b.do(http.MethodGet, "/stats", "")

			Convey("Then both are JSON", func() {
				So(setups.Code, ShouldEqual, http.StatusOK)
				So(setups.Body.String(), ShouldContainSubstring, `"player_count":20`)
				So(stats.Code, ShouldEqual, http.StatusOK)
				So(decode[map[string]any](stats)["started"], ShouldEqual, true)
			})
		})

		Convey("When the metrics endpoint is scraped", func() {
			b.do(http.MethodGet, "/state", "")
			w := b.do(http.MethodGet, "/metrics", "")

			Convey("Then kickout metrics are exposed", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "kickout_board_http_requests_total")
			})
		})

		Convey("When an unknown method is used on a route", func() {
			w := b.do(http.MethodPut, "/state", "")
			So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
		})
	})
}

func TestBoardAPINotStarted(t *testing.T) {
	_ = logger.Init()

	Convey("Given a board that was never started", t, func() {
		svc := service.New()
		mux := http.NewServeMux()
		api.NewServer(svc, svc).Register(context.Background(), mux)

		Convey("Then board routes report unavailable", func() {
			r := httptest.NewRequest(http.MethodPost, "/kickouts", bytes.NewBufferString(`{"call":"A","setup":"s","zone":"1","player":1}`))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)
			So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
		})
	})
}
