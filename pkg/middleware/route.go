package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routePattern returns the chi route pattern that matched r, or "unmatched".
// It must be called after the handler ran, once chi has filled the route
// context.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}
