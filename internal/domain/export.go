package domain

import "time"

// ExportRow is a single row in a trip export.
// It is a flat, denormalized view: one row per hotel, activity or packing
// item, with the trip fields repeated on every row. A trip with no items
// yields no rows.
//
// Score is set for hotels only, AverageRating for activities only.
type ExportRow struct {
	TripID    string   `json:"tripId"`
	TripTitle string   `json:"tripTitle"`
	Kind      ItemKind `json:"kind"`
	ItemID    string   `json:"itemId"`
	// Item is the hotel URL or the activity / packing item name.
	Item          string    `json:"item"`
	Score         *int      `json:"score,omitempty"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AssignedTo    string    `json:"assignedTo,omitempty"`
	Comments      int       `json:"comments"`
	LatestComment string    `json:"latestComment,omitempty"`
	AddedAt       time.Time `json:"addedAt"`
}
