package service

import (
	"context"
	"time"

	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
)

// Export flattens a trip into one row per item: hotels in rank order, then
// activities and packing items in insertion order.
func (s *TripService) Export(ctx context.Context, tripID string) ([]domain.ExportRow, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}

	rows := make([]domain.ExportRow, 0, len(trip.Hotels)+len(trip.Activities)+len(trip.PackingList))
	row := func(kind domain.ItemKind, id, item string, comments []domain.Comment, addedAt time.Time) domain.ExportRow {
		r := domain.ExportRow{
			TripID:    trip.ID,
			TripTitle: trip.Title,
			Kind:      kind,
			ItemID:    id,
			Item:      item,
			Comments:  len(comments),
			AddedAt:   addedAt,
		}
		if latest, _ := collab.Preview(comments); latest != nil {
			r.LatestComment = latest.Author + ": " + latest.Text
		}
		return r
	}

	for _, rh := range collab.RankHotels(trip.Hotels) {
		r := row(domain.KindHotel, rh.Hotel.ID, rh.Hotel.URL, rh.Hotel.Comments, rh.Hotel.AddedAt)
		score := rh.Score
		r.Score = &score
		rows = append(rows, r)
	}
	for _, a := range trip.Activities {
		r := row(domain.KindActivity, a.ID, a.Name, a.Comments, a.AddedAt)
		avg := a.AverageRating
		r.AverageRating = &avg
		rows = append(rows, r)
	}
	for _, p := range trip.PackingList {
		r := row(domain.KindPacking, p.ID, p.Name, p.Comments, p.AddedAt)
		if p.AssignedTo != nil {
			r.AssignedTo = *p.AssignedTo
		}
		rows = append(rows, r)
	}
	return rows, nil
}
