package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// AddComment handles POST /trips/{tripID}/{kind}/{itemID}/comments,
// where kind is hotels, activities or packing.
func (s *Server) AddComment(w http.ResponseWriter, r *http.Request) {
	kind, ok := domain.ParseItemKind(chi.URLParam(r, "kind"))
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "unknown item kind")
		return
	}
	var body api.AddCommentRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.AddComment(r.Context(), actor, chi.URLParam(r, "tripID"), kind, chi.URLParam(r, "itemID"), body.Text)
	s.respondTrip(w, r, http.StatusCreated, trip, err)
}
