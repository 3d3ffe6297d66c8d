package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body api.CreateTripRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())

	created, err := s.trips.Create(r.Context(), actor, requestToNewTrip(body))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.Get(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// respondTrip writes the outcome of a trip mutation.
func (s *Server) respondTrip(w http.ResponseWriter, r *http.Request, status int, trip domain.Trip, err error) {
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, status, tripToResponse(trip))
}

// --- mapping helpers --------------------------------------------------------

func requestToNewTrip(body api.CreateTripRequest) service.NewTrip {
	in := service.NewTrip{
		Title:       body.Title,
		Destination: body.Destination,
	}
	if body.Description != nil {
		in.Description = *body.Description
	}
	if body.StartDate != nil {
		sd := body.StartDate.Time
		in.StartDate = &sd
	}
	if body.EndDate != nil {
		ed := body.EndDate.Time
		in.EndDate = &ed
	}
	if body.URL != nil {
		in.URL = *body.URL
	}
	return in
}

// tripToResponse converts a domain.Trip into its wire form. Nil collections
// are rendered as empty arrays.
func tripToResponse(t domain.Trip) api.Trip {
	resp := api.Trip{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Destination: t.Destination,
		CreatedAt:   t.CreatedAt,
		Hotels:      t.Hotels,
		Activities:  t.Activities,
		PackingList: t.PackingList,
		URLMetadata: t.URLMetadata,
	}
	if t.StartDate != nil {
		resp.StartDate = &openapi_types.Date{Time: *t.StartDate}
	}
	if t.EndDate != nil {
		resp.EndDate = &openapi_types.Date{Time: *t.EndDate}
	}
	if resp.Hotels == nil {
		resp.Hotels = []domain.HotelOption{}
	}
	if resp.Activities == nil {
		resp.Activities = []domain.Activity{}
	}
	if resp.PackingList == nil {
		resp.PackingList = []domain.PackingItem{}
	}
	return resp
}
