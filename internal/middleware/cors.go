// Package middleware provides reusable HTTP middleware for the back-office API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, a browser may reuse a preflight.
const preflightMaxAge = 600

// NewCORSHandler lets the UI shell served from origins call the API with the
// agent identity headers. Origins are exact scheme+host values. With no
// origins the handler adds no CORS headers at all, leaving the API same-origin
// only; rs/cors would otherwise read an empty list as "allow any origin".
func NewCORSHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", AgentIDHeader, AgentNameHeader},
		MaxAge:         preflightMaxAge,
	})
	return c.Handler
}
