package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/session"
	"github.com/okian/kickout/internal/export"
)

// IdempotencyHeader carries the client's idempotency key for POST /kickouts.
const IdempotencyHeader = "Idempotency-Key"

// KickoutsHandler serves the kickout log.
type KickoutsHandler struct {
	deps Dependencies
}

// NewKickoutsHandler creates a new kickouts handler.
func NewKickoutsHandler(deps Dependencies) *KickoutsHandler {
	return &KickoutsHandler{deps: deps}
}

// zoneParam accepts a zone as a JSON string or number.
type zoneParam string

func (z *zoneParam) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*z = zoneParam(s)
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("zone must be a string or number: %s", b)
	}
	*z = zoneParam(strconv.Itoa(n))
	return nil
}

// kickoutRequest mirrors the OpenAPI schema for POST /kickouts.
type kickoutRequest struct {
	Call   string    `json:"call"`
	Setup  string    `json:"setup"`
	Zone   zoneParam `json:"zone"`
	Player *int      `json:"player,omitempty"`
	Won    *bool     `json:"won,omitempty"`
}

func (k kickoutRequest) input() session.Input {
	return session.Input{
		Call:   k.Call,
		Setup:  k.Setup,
		Zone:   model.Zone(strings.TrimSpace(string(k.Zone))),
		Player: k.Player,
		Won:    k.Won,
	}
}

// HandlePost handles POST /kickouts.
func (h *KickoutsHandler) HandlePost(w http.ResponseWriter, r *http.Request) {
	const op = "api.record_kickout"
	var req kickoutRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	key := strings.TrimSpace(r.Header.Get(IdempotencyHeader))
	res, err := h.deps.Record(r.Context(), req.input(), key)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	if res.Duplicate {
		writeJSON(w, http.StatusOK, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// HandleList handles GET /kickouts. The body is the log in its persisted form.
func (h *KickoutsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	log, err := h.deps.Log(r.Context())
	if err != nil {
		writeServiceError(w, "api.list_kickouts", err)
		return
	}
	if log == nil {
		log = []model.Record{}
	}
	writeJSON(w, http.StatusOK, log)
}

// HandleClear handles DELETE /kickouts?confirm=true.
func (h *KickoutsHandler) HandleClear(w http.ResponseWriter, r *http.Request) {
	confirm, _ := strconv.ParseBool(r.URL.Query().Get("confirm"))
	snap, err := h.deps.Clear(r.Context(), confirm)
	if err != nil {
		writeServiceError(w, "api.clear_kickouts", err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// HandleExport handles GET /kickouts/export.xlsx.
func (h *KickoutsHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export_kickouts"
	log, err := h.deps.Log(r.Context())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, log); err != nil {
		writeError(w, http.StatusInternalServerError, "export_failed", WrapKind(op, ErrInternal, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="kickouts.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
