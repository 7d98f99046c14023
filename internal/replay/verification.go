package replay

import (
	"fmt"

	"github.com/okian/kickout/internal/domain/model"
	"github.com/okian/kickout/internal/domain/prediction"
	"github.com/okian/kickout/internal/domain/session"
)

// Mismatch describes one disagreement between the board and the local
// computation.
type Mismatch struct {
	Call   string
	Setup  string
	Field  string
	Board  string
	Local  string
	Record int // index into the log for log mismatches, -1 otherwise
}

func (m Mismatch) String() string {
	if m.Record >= 0 {
		return fmt.Sprintf("record %d %s: board=%s local=%s", m.Record, m.Field, m.Board, m.Local)
	}
	return fmt.Sprintf("%s/%s %s: board=%s local=%s", m.Call, m.Setup, m.Field, m.Board, m.Local)
}

// Pairs returns the distinct normalized call/setup pairs of ks in first
// appearance order.
func Pairs(ks []Kickout) [][2]string {
	seen := make(map[[2]string]bool)
	var out [][2]string
	for _, k := range ks {
		p := [2]string{session.NormalizeCall(k.Call), session.NormalizeSetup(k.Setup)}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out
}

// VerifyLog checks that the tail of log holds the submitted kickouts.
func VerifyLog(log []model.Record, submitted []Kickout) []Mismatch {
	if len(log) < len(submitted) {
		return []Mismatch{{
			Field: "length", Board: fmt.Sprint(len(log)), Local: fmt.Sprint(len(submitted)), Record: -1,
		}}
	}
	var out []Mismatch
	base := len(log) - len(submitted)
	for i, k := range submitted {
		r := log[base+i]
		check := func(field, board, local string) {
			if board != local {
				out = append(out, Mismatch{Field: field, Board: board, Local: local, Record: base + i})
			}
		}
		check("call", r.Call, session.NormalizeCall(k.Call))
		check("setup", r.Setup, session.NormalizeSetup(k.Setup))
		check("zone", string(r.Zone), string(k.Zone))
		check("won", fmt.Sprint(r.Won), fmt.Sprint(k.Won))
		check("player", playerString(r.Player), playerString(k.Player))
	}
	return out
}

// VerifyPrediction compares a board prediction with one computed locally
// from log.
func VerifyPrediction(log []model.Record, call, setup string, board prediction.Result) []Mismatch {
	local := prediction.Predict(log, call, setup)
	var out []Mismatch
	check := func(field, b, l string) {
		if b != l {
			out = append(out, Mismatch{Call: call, Setup: setup, Field: field, Board: b, Local: l, Record: -1})
		}
	}
	check("building", fmt.Sprint(board.Building), fmt.Sprint(local.Building))
	check("zone", string(board.Zone), string(local.Zone))
	check("confidence", fmt.Sprint(board.Confidence), fmt.Sprint(local.Confidence))
	check("samples", fmt.Sprint(board.Samples), fmt.Sprint(local.Samples))
	check("text", board.Text, local.Text)
	return out
}

func playerString(p *int) string {
	if p == nil {
		return "null"
	}
	return fmt.Sprint(*p)
}
