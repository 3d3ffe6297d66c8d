package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// AddActivity handles POST /trips/{tripID}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	var body api.AddActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}
	in := service.NewActivity{Name: body.Name}
	if body.Description != nil {
		in.Description = *body.Description
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.AddActivity(r.Context(), actor, chi.URLParam(r, "tripID"), in)
	s.respondTrip(w, r, http.StatusCreated, trip, err)
}

// RateActivity handles PUT /trips/{tripID}/activities/{itemID}/rating.
func (s *Server) RateActivity(w http.ResponseWriter, r *http.Request) {
	var body api.RatingRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.RateActivity(r.Context(), actor, chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID"), body.Rating)
	s.respondTrip(w, r, http.StatusOK, trip, err)
}
