package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// mockTripServicer is a test double for handler.TripServicer.
// Set only the method fields your test needs.
type mockTripServicer struct {
	create         func(ctx context.Context, actor domain.Actor, in service.NewTrip) (domain.Trip, error)
	get            func(ctx context.Context, tripID string) (domain.Trip, error)
	addHotel       func(ctx context.Context, actor domain.Actor, tripID, url string) (domain.Trip, error)
	voteHotel      func(ctx context.Context, actor domain.Actor, tripID, hotelID string, vote *domain.VoteType) (domain.Trip, error)
	rankedHotels   func(ctx context.Context, tripID string) ([]collab.RankedHotel, error)
	hotelPreview   func(ctx context.Context, tripID, hotelID string) (domain.LinkMetadata, error)
	preview        func(ctx context.Context, rawURL string) (domain.LinkMetadata, error)
	addActivity    func(ctx context.Context, actor domain.Actor, tripID string, in service.NewActivity) (domain.Trip, error)
	rateActivity   func(ctx context.Context, actor domain.Actor, tripID, activityID string, rating *int) (domain.Trip, error)
	addPackingItem func(ctx context.Context, actor domain.Actor, tripID, name string) (domain.Trip, error)
	togglePacking  func(ctx context.Context, actor domain.Actor, tripID, itemID string) (domain.Trip, error)
	addComment     func(ctx context.Context, actor domain.Actor, tripID string, kind domain.ItemKind, itemID, text string) (domain.Trip, error)
	export         func(ctx context.Context, tripID string) ([]domain.ExportRow, error)
}

func (m *mockTripServicer) Create(ctx context.Context, actor domain.Actor, in service.NewTrip) (domain.Trip, error) {
	return m.create(ctx, actor, in)
}
func (m *mockTripServicer) Get(ctx context.Context, tripID string) (domain.Trip, error) {
	return m.get(ctx, tripID)
}
func (m *mockTripServicer) AddHotel(ctx context.Context, actor domain.Actor, tripID, url string) (domain.Trip, error) {
	return m.addHotel(ctx, actor, tripID, url)
}
func (m *mockTripServicer) VoteHotel(ctx context.Context, actor domain.Actor, tripID, hotelID string, vote *domain.VoteType) (domain.Trip, error) {
	return m.voteHotel(ctx, actor, tripID, hotelID, vote)
}
func (m *mockTripServicer) RankedHotels(ctx context.Context, tripID string) ([]collab.RankedHotel, error) {
	return m.rankedHotels(ctx, tripID)
}
func (m *mockTripServicer) HotelPreview(ctx context.Context, tripID, hotelID string) (domain.LinkMetadata, error) {
	return m.hotelPreview(ctx, tripID, hotelID)
}
func (m *mockTripServicer) Preview(ctx context.Context, rawURL string) (domain.LinkMetadata, error) {
	return m.preview(ctx, rawURL)
}
func (m *mockTripServicer) AddActivity(ctx context.Context, actor domain.Actor, tripID string, in service.NewActivity) (domain.Trip, error) {
	return m.addActivity(ctx, actor, tripID, in)
}
func (m *mockTripServicer) RateActivity(ctx context.Context, actor domain.Actor, tripID, activityID string, rating *int) (domain.Trip, error) {
	return m.rateActivity(ctx, actor, tripID, activityID, rating)
}
func (m *mockTripServicer) AddPackingItem(ctx context.Context, actor domain.Actor, tripID, name string) (domain.Trip, error) {
	return m.addPackingItem(ctx, actor, tripID, name)
}
func (m *mockTripServicer) TogglePacking(ctx context.Context, actor domain.Actor, tripID, itemID string) (domain.Trip, error) {
	return m.togglePacking(ctx, actor, tripID, itemID)
}
func (m *mockTripServicer) AddComment(ctx context.Context, actor domain.Actor, tripID string, kind domain.ItemKind, itemID, text string) (domain.Trip, error) {
	return m.addComment(ctx, actor, tripID, kind, itemID, text)
}

func (m *mockTripServicer) Export(ctx context.Context, tripID string) ([]domain.ExportRow, error) {
	return m.export(ctx, tripID)
}

// compile-time check: mockTripServicer must satisfy handler.TripServicer.
var _ handler.TripServicer = (*mockTripServicer)(nil)

// ---- helpers ---------------------------------------------------------------

var alice = domain.Actor{ID: "1700000000001", Name: "Alice"}

// newHTTPHandler wires a Server with the given mock into a chi router the
// same way NewRouter does, minus logging and metrics.
func newHTTPHandler(svc handler.TripServicer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.NewActorHandler())
	handler.NewServer(svc, nil).Routes(r)
	return r
}

func tripFixture() domain.Trip {
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	return domain.Trip{
		ID:          "k3x9q0abc",
		Title:       "Summer in Lisbon",
		Destination: "Lisbon",
		StartDate:   &start,
		EndDate:     &end,
		CreatedAt:   time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC),
		Hotels:      []domain.HotelOption{domain.NewHotelOption("h1", "https://example.com/inn", time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC))},
	}
}

func jsonBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewReader(b)
}

// do performs a request, optionally as alice.
func do(t *testing.T, h http.Handler, method, path string, body io.Reader, asAlice bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if asAlice {
		req.Header.Set(middleware.HeaderUserID, alice.ID)
		req.Header.Set(middleware.HeaderUserName, alice.Name)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var body api.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func decodeTrip(t *testing.T, rec *httptest.ResponseRecorder) api.Trip {
	t.Helper()
	var body api.Trip
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}
