package handler_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/idgen"
	"github.com/pkordes/trip-planner/internal/metrics"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

func newRouter(t *testing.T, svc handler.TripServicer, maxBody int64) (http.Handler, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	log := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))
	return handler.NewRouter(handler.NewServer(svc, log), handler.RouterOptions{
		Logger:       log,
		CORSOrigins:  []string{"http://localhost:5173"},
		MaxBodyBytes: maxBody,
		Gatherer:     reg,
	}), reg
}

func TestRouter_BodyTooLarge(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Actor, service.NewTrip) (domain.Trip, error) {
			t.Fatal("service must not be reached")
			return domain.Trip{}, nil
		},
	}
	h, _ := newRouter(t, svc, 64)

	body := `{"title":"` + strings.Repeat("x", 200) + `","destination":"Lisbon"}`
	rec := do(t, h, http.MethodPost, "/trips", strings.NewReader(body), true)

	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "body_too_large", decodeError(t, rec).Error.Code)
}

func TestRouter_Metrics(t *testing.T) {
	h, reg := newRouter(t, &mockTripServicer{}, 1<<20)
	m := metrics.New(reg)
	m.Mutation("vote_hotel")

	rec := do(t, h, http.MethodGet, "/metrics", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tripplanner_trip_mutations_total{op="vote_hotel"} 1`)
}

func TestRouter_CORSPreflightAllowsIdentityHeaders(t *testing.T) {
	h, _ := newRouter(t, &mockTripServicer{}, 1<<20)

	req := httptest.NewRequest(http.MethodOptions, "/trips/abc/hotels/h1/vote", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "PUT")
	req.Header.Set("Access-Control-Request-Headers", "content-type,x-user-id,x-user-name")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

// TestRouter_EndToEnd drives the real service over an in-memory store.
func TestRouter_EndToEnd(t *testing.T) {
	svc := service.NewTripService(repo.NewMemoryTripStore(), service.Options{IDs: &idgen.Sequence{}})
	h, _ := newRouter(t, svc, 1<<20)

	rec := do(t, h, http.MethodPost, "/trips", strings.NewReader(`{"title":"Lisbon","destination":"Lisbon"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	trip := decodeTrip(t, rec)

	rec = do(t, h, http.MethodPost, "/trips/"+trip.ID+"/hotels", strings.NewReader(`{"url":"booking.com/hotel/us/example-inn.html"}`), true)
	require.Equal(t, http.StatusCreated, rec.Code)
	hotelID := decodeTrip(t, rec).Hotels[0].ID

	rec = do(t, h, http.MethodPut, "/trips/"+trip.ID+"/hotels/"+hotelID+"/vote", strings.NewReader(`{"choice":"like"}`), true)
	require.Equal(t, http.StatusOK, rec.Code)

	req := httptest.NewRequest(http.MethodPut, "/trips/"+trip.ID+"/hotels/"+hotelID+"/vote", strings.NewReader(`{"choice":"awesome"}`))
	req.Header.Set(middleware.HeaderUserID, "1700000000002")
	req.Header.Set(middleware.HeaderUserName, "Bob")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeTrip(t, rec)
	assert.Equal(t, map[domain.VoteType]int{domain.VoteDontLike: 0, domain.VoteLike: 1, domain.VoteAwesome: 1}, got.Hotels[0].Votes)
	assert.Len(t, got.Hotels[0].UserVotes, 2)

	rec = do(t, h, http.MethodGet, "/trips/unknown", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
