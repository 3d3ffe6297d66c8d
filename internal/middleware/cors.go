// Package middleware provides reusable HTTP middleware for the trip planner API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// preflightMaxAge is how long, in seconds, browsers may cache a preflight answer.
const preflightMaxAge = 600

// NewCORSHandler lets the web client at allowedOrigins call the API. Origins
// are full scheme+host strings without a trailing slash.
//
// Writes carry the identity headers read by NewActorHandler, so those are
// accepted on preflight. Content-Disposition is exposed so the client can
// name CSV exports.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowedHeaders: []string{"Content-Type", HeaderUserID, HeaderUserName},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         preflightMaxAge,
	}).Handler
}
