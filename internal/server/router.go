package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dropgate-systems/dropgate/internal/auth"
	"github.com/dropgate-systems/dropgate/internal/handlers"
	"github.com/dropgate-systems/dropgate/internal/middleware"
)

// NewRouter constructs a ServeMux with relay API routes registered.
// When verifier is non-nil, the webhook endpoint requires a bearer token.
func NewRouter(h *handlers.EventHandler, verifier *auth.Verifier) http.Handler {
	mux := http.NewServeMux()

	var events http.Handler = http.HandlerFunc(h.HandleEvents)
	if verifier != nil {
		events = verifier.Middleware(events)
	}
	mux.Handle("/api/events", events)

	// Health endpoints
	mux.HandleFunc("/healthz", h.Health)
	mux.HandleFunc("/readyz", h.Ready)

	// Prometheus metrics
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(mux)
}
