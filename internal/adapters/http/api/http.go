// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/kickout/internal/app"
	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/domain/session"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 64 << 10

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Record(ctx context.Context, in session.Input, key string) (service.RecordResult, error)
	Predict(ctx context.Context, call, setup string) (prediction.Result, error)
	Snapshot(ctx context.Context) (service.Snapshot, error)
	Log(ctx context.Context) ([]model.Record, error)

	ToggleHalf(ctx context.Context) (service.Snapshot, error)
	ToggleOutcome(ctx context.Context) (service.Snapshot, error)
	ToggleSimpleView(ctx context.Context) (service.Snapshot, error)
	SelectPlayer(ctx context.Context, n int) (service.Snapshot, error)
	DismissAlert(ctx context.Context) (service.Snapshot, error)
	Clear(ctx context.Context, confirm bool) (service.Snapshot, error)

	Setups() ([]string, int)
}

// Server wires HTTP routes for the board API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	boardHandler    *BoardHandler
	kickoutsHandler *KickoutsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		boardHandler:    NewBoardHandler(deps),
		kickoutsHandler: NewKickoutsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /metrics", MetricsMiddleware(s.healthHandler.HandleHealth, "metrics"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("GET /state", MetricsMiddleware(s.boardHandler.HandleState, "state"))
	mux.HandleFunc("GET /prediction", MetricsMiddleware(s.boardHandler.HandlePrediction, "prediction"))
	mux.HandleFunc("GET /setups", MetricsMiddleware(s.boardHandler.HandleSetups, "setups"))
	mux.HandleFunc("POST /half/toggle", MetricsMiddleware(s.boardHandler.HandleToggleHalf, "half_toggle"))
	mux.HandleFunc("POST /outcome/toggle", MetricsMiddleware(s.boardHandler.HandleToggleOutcome, "outcome_toggle"))
	mux.HandleFunc("POST /view/simple/toggle", MetricsMiddleware(s.boardHandler.HandleToggleSimpleView, "simple_view_toggle"))
	mux.HandleFunc("POST /players/{n}/select", MetricsMiddleware(s.boardHandler.HandleSelectPlayer, "player_select"))
	mux.HandleFunc("POST /alert/dismiss", MetricsMiddleware(s.boardHandler.HandleDismissAlert, "alert_dismiss"))

	mux.HandleFunc("POST /kickouts", MetricsMiddleware(s.kickoutsHandler.HandlePost, "kickouts_post"))
	mux.HandleFunc("GET /kickouts", MetricsMiddleware(s.kickoutsHandler.HandleList, "kickouts_list"))
	mux.HandleFunc("DELETE /kickouts", MetricsMiddleware(s.kickoutsHandler.HandleClear, "kickouts_clear"))
	mux.HandleFunc("GET /kickouts/export.xlsx", MetricsMiddleware(s.kickoutsHandler.HandleExport, "kickouts_export"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// classify tags a service error with the API kind that selects its status.
func classify(op string, err error) error {
	switch {
	case session.IsValidation(err):
		return WrapKind(op, ErrValidation, err)
	case errors.Is(err, service.ErrConfirmationRequired):
		return WrapKind(op, ErrPrecondition, err)
	case errors.Is(err, service.ErrNotStarted):
		return WrapKind(op, ErrUnavailable, err)
	default:
		return WrapKind(op, ErrInternal, err)
	}
}

// writeServiceError maps a service error to a status and error code.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	kerr := classify(op, err)
	switch {
	case errors.Is(kerr, ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Code: "validation", Message: validationMessage(err)})
	case errors.Is(kerr, ErrPrecondition):
		writeJSON(w, http.StatusPreconditionFailed, errorResponse{Code: "confirmation_required", Message: session.ClearPrompt})
	case errors.Is(kerr, ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, "unavailable", kerr)
	case errors.Is(kerr, service.ErrPersist):
		writeError(w, http.StatusInternalServerError, "persist_failed", kerr)
	default:
		writeError(w, http.StatusInternalServerError, "internal", kerr)
	}
}

// validationMessage returns the user-facing prompt for a validation error.
func validationMessage(err error) string {
	for _, target := range []error{
		session.ErrMissingCall, session.ErrMissingSetup, session.ErrMissingPlayer,
	} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return err.Error()
}
