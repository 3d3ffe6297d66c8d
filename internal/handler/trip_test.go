package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// ---- POST /trips -----------------------------------------------------------

func TestCreateTrip_201(t *testing.T) {
	var (
		gotActor domain.Actor
		gotIn    service.NewTrip
	)
	svc := &mockTripServicer{
		create: func(_ context.Context, actor domain.Actor, in service.NewTrip) (domain.Trip, error) {
			gotActor, gotIn = actor, in
			return tripFixture(), nil
		},
	}

	body := map[string]any{
		"title":       "Summer in Lisbon",
		"destination": "Lisbon",
		"startDate":   "2025-06-01",
		"endDate":     "2025-06-15",
		"url":         "visitlisbon.com",
	}
	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", jsonBody(t, body), true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, alice, gotActor)
	assert.Equal(t, "Lisbon", gotIn.Destination)
	assert.Equal(t, "visitlisbon.com", gotIn.URL)
	require.NotNil(t, gotIn.StartDate)
	assert.True(t, gotIn.StartDate.Equal(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)))

	got := decodeTrip(t, rec)
	assert.Equal(t, "k3x9q0abc", got.ID)
	require.NotNil(t, got.StartDate)
	assert.Equal(t, "2025-06-01", got.StartDate.String())
	assert.NotNil(t, got.Activities, "nil collections render as empty arrays")
}

func TestCreateTrip_401_WithoutIdentity(t *testing.T) {
	svc := &mockTripServicer{}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", jsonBody(t, map[string]string{"title": "x"}), false)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "identity_required", decodeError(t, rec).Error.Code)
}

func TestCreateTrip_422_ValidationError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Actor, service.NewTrip) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", jsonBody(t, map[string]string{"destination": "Lisbon"}), true)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "validation_error", body.Error.Code)
	assert.Equal(t, "title is required", body.Error.Message)
}

func TestCreateTrip_422_MalformedJSON(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPost, "/trips", strings.NewReader("{not json"), true)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_error", decodeError(t, rec).Error.Code)
}

func TestCreateTrip_422_BadDate(t *testing.T) {
	body := map[string]any{"title": "x", "destination": "y", "startDate": "June first"}

	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPost, "/trips", jsonBody(t, body), true)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCreateTrip_500_HidesInternalError(t *testing.T) {
	svc := &mockTripServicer{
		create: func(context.Context, domain.Actor, service.NewTrip) (domain.Trip, error) {
			return domain.Trip{}, errors.New("pq: password authentication failed")
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips", jsonBody(t, map[string]string{"title": "x"}), true)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "internal_error", body.Error.Code)
	assert.NotContains(t, body.Error.Message, "password")
}

// ---- GET /trips/{tripID} ---------------------------------------------------

func TestGetTrip_200(t *testing.T) {
	var gotID string
	svc := &mockTripServicer{
		get: func(_ context.Context, tripID string) (domain.Trip, error) {
			gotID = tripID
			return tripFixture(), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/k3x9q0abc", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "k3x9q0abc", gotID)
	got := decodeTrip(t, rec)
	assert.Equal(t, "Summer in Lisbon", got.Title)
	require.Len(t, got.Hotels, 1)
	assert.Equal(t, 0, got.Hotels[0].Votes[domain.VoteLike])
}

func TestGetTrip_404(t *testing.T) {
	svc := &mockTripServicer{
		get: func(_ context.Context, tripID string) (domain.Trip, error) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w: trip %q", domain.ErrNotFound, tripID)
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/nope", nil, false)

	require.Equal(t, http.StatusNotFound, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "not_found", body.Error.Code)
	assert.Equal(t, `trip "nope"`, body.Error.Message)
}
