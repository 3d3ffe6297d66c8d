package handler_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
)

func TestAddHotel_201(t *testing.T) {
	var gotURL, gotTrip string
	svc := &mockTripServicer{
		addHotel: func(_ context.Context, _ domain.Actor, tripID, url string) (domain.Trip, error) {
			gotTrip, gotURL = tripID, url
			return tripFixture(), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/k3x9q0abc/hotels",
		jsonBody(t, api.AddHotelRequest{URL: "https://example.com/inn"}), true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "k3x9q0abc", gotTrip)
	assert.Equal(t, "https://example.com/inn", gotURL)
}

func TestAddHotel_401(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPost, "/trips/k3x9q0abc/hotels",
		jsonBody(t, api.AddHotelRequest{URL: "x"}), false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestVoteHotel(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *domain.VoteType
	}{
		{"like", `{"choice":"like"}`, ptr(domain.VoteLike)},
		{"retract with null", `{"choice":null}`, nil},
		{"retract with empty body object", `{}`, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got *domain.VoteType
			called := false
			svc := &mockTripServicer{
				voteHotel: func(_ context.Context, actor domain.Actor, tripID, hotelID string, vote *domain.VoteType) (domain.Trip, error) {
					called = true
					assert.Equal(t, alice, actor)
					assert.Equal(t, "h1", hotelID)
					got = vote
					return tripFixture(), nil
				},
			}

			rec := do(t, newHTTPHandler(svc), http.MethodPut, "/trips/k3x9q0abc/hotels/h1/vote", strings.NewReader(tc.body), true)

			require.Equal(t, http.StatusOK, rec.Code)
			require.True(t, called)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestVoteHotel_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"unknown vote", fmt.Errorf("%w: unknown vote type", domain.ErrValidation), http.StatusUnprocessableEntity, "validation_error"},
		{"unknown hotel", fmt.Errorf("%w: hotel", domain.ErrNotFound), http.StatusNotFound, "not_found"},
		{"lost race", fmt.Errorf("%w: stale", domain.ErrConflict), http.StatusConflict, "conflict"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc := &mockTripServicer{
				voteHotel: func(context.Context, domain.Actor, string, string, *domain.VoteType) (domain.Trip, error) {
					return domain.Trip{}, tc.err
				},
			}

			rec := do(t, newHTTPHandler(svc), http.MethodPut, "/trips/k3x9q0abc/hotels/h1/vote", strings.NewReader(`{"choice":"meh"}`), true)

			require.Equal(t, tc.status, rec.Code)
			assert.Equal(t, tc.code, decodeError(t, rec).Error.Code)
		})
	}
}

func TestRankHotels_200(t *testing.T) {
	a := domain.NewHotelOption("a", "https://a.example", tripFixture().CreatedAt)
	b := domain.NewHotelOption("b", "https://b.example", tripFixture().CreatedAt)
	b.Votes[domain.VoteLike] = 3
	svc := &mockTripServicer{
		rankedHotels: func(context.Context, string) ([]collab.RankedHotel, error) {
			return collab.RankHotels([]domain.HotelOption{a, b}), nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/k3x9q0abc/hotels/ranked", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var got []api.RankedHotel
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Hotel.ID)
	assert.Equal(t, 6, got[0].Score)
	assert.True(t, got[0].MostPopular)
	assert.False(t, got[1].MostPopular)
}

func TestPreviewHotel_200(t *testing.T) {
	svc := &mockTripServicer{
		hotelPreview: func(_ context.Context, tripID, hotelID string) (domain.LinkMetadata, error) {
			return domain.LinkMetadata{Title: "Example Inn", URL: "https://www.booking.com/hotel/us/example-inn.html"}, nil
		},
	}

	rec := do(t, newHTTPHandler(svc), http.MethodGet, "/trips/k3x9q0abc/hotels/h1/preview", nil, false)

	require.Equal(t, http.StatusOK, rec.Code)
	var got domain.LinkMetadata
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Example Inn", got.Title)
}

func TestGetLinkPreview(t *testing.T) {
	var asked string
	svc := &mockTripServicer{
		preview: func(_ context.Context, rawURL string) (domain.LinkMetadata, error) {
			asked = rawURL
			if rawURL == "" {
				return domain.LinkMetadata{}, fmt.Errorf("%w: url is required", domain.ErrValidation)
			}
			return domain.LinkMetadata{Title: "Airbnb"}, nil
		},
	}
	h := newHTTPHandler(svc)

	rec := do(t, h, http.MethodGet, "/link-preview?url=https%3A%2F%2Fwww.airbnb.com%2Frooms%2F42%3Fx%3D1", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://www.airbnb.com/rooms/42?x=1", asked)

	rec = do(t, h, http.MethodGet, "/link-preview", nil, false)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func ptr[T any](v T) *T { return &v }
