package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/kickout/internal/domain/session"
)

// BoardHandler serves the board state and its toggles.
type BoardHandler struct {
	deps Dependencies
}

// NewBoardHandler creates a new board handler.
func NewBoardHandler(deps Dependencies) *BoardHandler {
	return &BoardHandler{deps: deps}
}

type setupsResponse struct {
	Setups      []string `json:"setups"`
	PlayerCount int      `json:"player_count"`
	ClearPrompt string   `json:"clear_prompt"`
}

// HandleState handles GET /state.
func (h *BoardHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.Snapshot(r.Context())
	if err != nil {
		writeServiceError(w, "api.state", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandlePrediction handles GET /prediction?call=&setup=. It never changes state.
func (h *BoardHandler) HandlePrediction(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.deps.Predict(r.Context(), q.Get("call"), q.Get("setup"))
	if err != nil {
		writeServiceError(w, "api.prediction", err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleSetups handles GET /setups.
func (h *BoardHandler) HandleSetups(w http.ResponseWriter, _ *http.Request) {
	setups, players := h.deps.Setups()
	if setups == nil {
		setups = []string{}
	}
	writeJSON(w, http.StatusOK, setupsResponse{Setups: setups, PlayerCount: players, ClearPrompt: session.ClearPrompt})
}

// HandleToggleHalf handles POST /half/toggle.
func (h *BoardHandler) HandleToggleHalf(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.ToggleHalf(r.Context())
	if err != nil {
		writeServiceError(w, "api.half_toggle", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleToggleOutcome handles POST /outcome/toggle.
func (h *BoardHandler) HandleToggleOutcome(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.ToggleOutcome(r.Context())
	if err != nil {
		writeServiceError(w, "api.outcome_toggle", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleToggleSimpleView handles POST /view/simple/toggle.
func (h *BoardHandler) HandleToggleSimpleView(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.ToggleSimpleView(r.Context())
	if err != nil {
		writeServiceError(w, "api.simple_view_toggle", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleSelectPlayer handles POST /players/{n}/select.
func (h *BoardHandler) HandleSelectPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.player_select"
	n, err := strconv.Atoi(r.PathValue("n"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, fmt.Errorf("player must be a number: %q", r.PathValue("n"))))
		return
	}
	snap, err := h.deps.SelectPlayer(r.Context(), n)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleDismissAlert handles POST /alert/dismiss.
func (h *BoardHandler) HandleDismissAlert(w http.ResponseWriter, r *http.Request) {
	snap, err := h.deps.DismissAlert(r.Context())
	if err != nil {
		writeServiceError(w, "api.alert_dismiss", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}
