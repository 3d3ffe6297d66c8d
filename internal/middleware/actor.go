package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Identity headers. The name is percent-encoded so any display name survives
// the trip through HTTP headers.
const (
	HeaderUserID   = "X-User-Id"
	HeaderUserName = "X-User-Name"
)

type actorKey struct{}

// WithActor returns a copy of ctx carrying a.
func WithActor(ctx context.Context, a domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom returns the actor stored by NewActorHandler, if any.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	a, ok := ctx.Value(actorKey{}).(domain.Actor)
	return a, ok && a.Valid()
}

// NewActorHandler reads the identity headers into the request context.
// Requests without them pass through anonymously.
func NewActorHandler() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := strings.TrimSpace(r.Header.Get(HeaderUserID))
			name := r.Header.Get(HeaderUserName)
			if decoded, err := url.QueryUnescape(name); err == nil {
				name = decoded
			}
			a := domain.Actor{ID: id, Name: strings.TrimSpace(name)}
			if a.Valid() {
				r = r.WithContext(WithActor(r.Context(), a))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireActor rejects requests that carry no identity with 401.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFrom(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, "identity_required",
				"log in first: "+HeaderUserID+" and "+HeaderUserName+" headers are required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// writeError emits the API's JSON error envelope.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
