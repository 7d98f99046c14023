// Package site serves the embedded board page.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded board page and its assets to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
