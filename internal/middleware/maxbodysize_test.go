package middleware_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pkordes/trip-planner/internal/middleware"
)

func TestMaxBodySizeHandler(t *testing.T) {
	const limit = 100

	tests := []struct {
		name          string
		size          int
		contentLength int64 // -1 means unknown, as with chunked uploads
		wantStatus    int
		wantReached   bool
	}{
		{"within limit", 50, 50, http.StatusOK, true},
		{"exactly the limit", limit, limit, http.StatusOK, true},
		{"declared too large", 200, 200, http.StatusRequestEntityTooLarge, false},
		{"streamed too large", 200, -1, http.StatusRequestEntityTooLarge, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			reached := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached = true
				if _, err := io.ReadAll(r.Body); err != nil {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			h := middleware.NewMaxBodySizeHandler(limit)(next)

			req := httptest.NewRequest(http.MethodPost, "/trips/k3x9q0abc/packing", strings.NewReader(strings.Repeat("x", tc.size)))
			req.ContentLength = tc.contentLength
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.Equal(t, tc.wantReached, reached)
		})
	}
}

func TestMaxBodySizeHandler_RejectionUsesErrorEnvelope(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(10)(okHandler)

	req := httptest.NewRequest(http.MethodPost, "/trips", strings.NewReader(`{"title":"a long trip title"}`))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":{"code":"body_too_large","message":"request body too large"}}`, rec.Body.String())
}
