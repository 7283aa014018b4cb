// Package site serves the service root.
package site

import (
	"context"
	"net/http"
)

// DocsPath is where the root redirects browsers.
const DocsPath = "/api-docs"

// Register attaches the root route to mux. Only "/" itself is answered;
// every other unmatched path is a 404.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests.
type RootHandler struct{}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// HandleRoot redirects GET / to the API reference.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	http.Redirect(w, r, DocsPath, http.StatusFound)
}
