// Package model contains domain models passed between layers.
package model

import "time"

// Zone identifies one of the six fixed field regions receiving a kickout.
// Stored zones are always expressed in first-half orientation.
type Zone string

// Half is the match half a kickout was taken in.
type Half int

// Match halves.
const (
	FirstHalf Half = iota
	SecondHalf
)

// String returns the status text shown for the half.
func (h Half) String() string {
	if h == SecondHalf {
		return "Second Half"
	}
	return "First Half"
}

// Flip returns the other half.
func (h Half) Flip() Half {
	if h == SecondHalf {
		return FirstHalf
	}
	return SecondHalf
}

// Record is one logged kickout. JSON keys match the persisted log entry.
type Record struct {
	Call   string `json:"call"`   // upper-cased play call
	Setup  string `json:"setup"`  // setup category
	Zone   Zone   `json:"zone"`   // canonical zone
	Player *int   `json:"player"` // receiving player, set only when won
	Won    bool   `json:"won"`
	Time   int64  `json:"time"` // creation time in Unix milliseconds
}

// Timestamp returns the record creation time.
func (r Record) Timestamp() time.Time {
	return time.UnixMilli(r.Time)
}

// PlayerID returns the receiving player and whether one was recorded.
func (r Record) PlayerID() (int, bool) {
	if r.Player == nil {
		return 0, false
	}
	return *r.Player, true
}
