package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/trip-planner/api"
	"github.com/pkordes/trip-planner/internal/middleware"
)

// AddHotel handles POST /trips/{tripID}/hotels.
func (s *Server) AddHotel(w http.ResponseWriter, r *http.Request) {
	var body api.AddHotelRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.AddHotel(r.Context(), actor, chi.URLParam(r, "tripID"), body.URL)
	s.respondTrip(w, r, http.StatusCreated, trip, err)
}

// VoteHotel handles PUT /trips/{tripID}/hotels/{itemID}/vote.
func (s *Server) VoteHotel(w http.ResponseWriter, r *http.Request) {
	var body api.VoteRequest
	if !decodeBody(w, r, &body) {
		return
	}
	actor, _ := middleware.ActorFrom(r.Context())
	trip, err := s.trips.VoteHotel(r.Context(), actor, chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID"), body.Choice)
	s.respondTrip(w, r, http.StatusOK, trip, err)
}

// RankHotels handles GET /trips/{tripID}/hotels/ranked.
func (s *Server) RankHotels(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.trips.RankedHotels(r.Context(), chi.URLParam(r, "tripID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	out := make([]api.RankedHotel, len(ranked))
	for i, rh := range ranked {
		out[i] = api.RankedHotel{Hotel: rh.Hotel, Score: rh.Score, MostPopular: rh.MostPopular}
	}
	writeJSON(w, http.StatusOK, out)
}

// PreviewHotel handles GET /trips/{tripID}/hotels/{itemID}/preview.
func (s *Server) PreviewHotel(w http.ResponseWriter, r *http.Request) {
	md, err := s.trips.HotelPreview(r.Context(), chi.URLParam(r, "tripID"), chi.URLParam(r, "itemID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}

// GetLinkPreview handles GET /link-preview?url=.
func (s *Server) GetLinkPreview(w http.ResponseWriter, r *http.Request) {
	md, err := s.trips.Preview(r.Context(), r.URL.Query().Get("url"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, md)
}
