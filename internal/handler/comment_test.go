package handler_test

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
)

func TestAddComment_RoutesEveryKind(t *testing.T) {
	for _, kind := range []domain.ItemKind{domain.KindHotel, domain.KindActivity, domain.KindPacking} {
		t.Run(string(kind), func(t *testing.T) {
			var gotKind domain.ItemKind
			var gotItem, gotText string
			svc := &mockTripServicer{
				addComment: func(_ context.Context, _ domain.Actor, _ string, k domain.ItemKind, itemID, text string) (domain.Trip, error) {
					gotKind, gotItem, gotText = k, itemID, text
					return tripFixture(), nil
				},
			}

			rec := do(t, newHTTPHandler(svc), http.MethodPost, "/trips/k3x9q0abc/"+string(kind)+"/x1/comments",
				strings.NewReader(`{"text":"Looks great"}`), true)

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, kind, gotKind)
			assert.Equal(t, "x1", gotItem)
			assert.Equal(t, "Looks great", gotText)
		})
	}
}

func TestAddComment_UnknownKind_404(t *testing.T) {
	rec := do(t, newHTTPHandler(&mockTripServicer{}), http.MethodPost, "/trips/k3x9q0abc/stops/x1/comments",
		strings.NewReader(`{"text":"hi"}`), true)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decodeError(t, rec).Error.Code)
}
