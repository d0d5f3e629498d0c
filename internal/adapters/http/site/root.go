// Package site serves the embedded browser front-end.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded front-end at / to mux. Paths without a
// matching asset fall through to a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", http.FileServer(FS()))
}
