package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// actorEcho reports the actor found in the request context.
func actorEcho(got *domain.Actor, found *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got, *found = middleware.ActorFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestActorHandler_ReadsHeaders(t *testing.T) {
	var (
		got   domain.Actor
		found bool
	)
	h := middleware.NewActorHandler()(actorEcho(&got, &found))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderUserID, "1700000000001")
	req.Header.Set(middleware.HeaderUserName, url.QueryEscape("José Ñúñez"))
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, found)
	assert.Equal(t, domain.Actor{ID: "1700000000001", Name: "José Ñúñez"}, got)
}

func TestActorHandler_Anonymous(t *testing.T) {
	tests := map[string]map[string]string{
		"no headers": {},
		"id only":    {middleware.HeaderUserID: "1"},
		"blank name": {middleware.HeaderUserID: "1", middleware.HeaderUserName: "  "},
		"name only":  {middleware.HeaderUserName: "Alice"},
	}
	for name, headers := range tests {
		t.Run(name, func(t *testing.T) {
			var (
				got   domain.Actor
				found bool
			)
			h := middleware.NewActorHandler()(actorEcho(&got, &found))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range headers {
				req.Header.Set(k, v)
			}
			h.ServeHTTP(httptest.NewRecorder(), req)

			assert.False(t, found)
		})
	}
}

func TestRequireActor(t *testing.T) {
	h := middleware.NewActorHandler()(middleware.RequireActor(okHandler))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/trips", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), `"identity_required"`)

	req := httptest.NewRequest(http.MethodPost, "/trips", nil)
	req.Header.Set(middleware.HeaderUserID, "1")
	req.Header.Set(middleware.HeaderUserName, "Alice")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
