package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// AddPackingItem handles POST /trips/{tripID}/packing.
func (s *Server) AddPackingItem(w http.ResponseWriter, r *http.Request) {
	var body api.AddPackingItemRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.AddPackingItem(r.Context(), actor, chi.URLParam(r, "tripID"), body.Name)
	s.respondTrip(w, r, http.StatusCreated, trip, err)
}

// TogglePacking handles POST /trips/{tripID}/packing/{itemID}/toggle.
func (s *Server) TogglePacking(w http.ResponseWriter, r *http.Request) {
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.TogglePacking(r.Context(), actor, chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID"))
	s.respondTrip(w, r, http.StatusOK, trip, err)
}
