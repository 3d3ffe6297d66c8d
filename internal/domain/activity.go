package domain

import "time"

// Rating bounds for activities.
const (
	MinRating = 1
	MaxRating = 5
)

// Activity is a proposed thing to do, rated 1..5 by collaborators.
// Ratings maps a rating level to the number of users who chose it;
// AverageRating is recomputed on every change and is 0 when nobody rated.
type Activity struct {
	ID            string         `json:"id" bson:"id"`
	Name          string         `json:"name" bson:"name"`
	Description   string         `json:"description" bson:"description"`
	Ratings       map[int]int    `json:"ratings" bson:"ratings"`
	UserRatings   map[string]int `json:"userRatings" bson:"userRatings"`
	AverageRating float64        `json:"averageRating" bson:"averageRating"`
	Comments      []Comment      `json:"comments" bson:"comments"`
	AddedAt       time.Time      `json:"addedAt" bson:"addedAt"`
}

// NewActivity returns an unrated activity.
func NewActivity(id, name, description string, addedAt time.Time) Activity {
	return Activity{
		ID:          id,
		Name:        name,
		Description: description,
		Ratings:     map[int]int{},
		UserRatings: map[string]int{},
		Comments:    []Comment{},
		AddedAt:     addedAt,
	}
}

// ItemID returns the activity id.
func (a *Activity) ItemID() string { return a.ID }

// Thread returns the activity's comment list for in-place appends.
func (a *Activity) Thread() *[]Comment { return &a.Comments }

func (a Activity) clone() Activity {
	out := a
	out.Ratings = make(map[int]int, len(a.Ratings))
	for k, v := range a.Ratings {
		out.Ratings[k] = v
	}
	out.UserRatings = make(map[string]int, len(a.UserRatings))
	for k, v := range a.UserRatings {
		out.UserRatings[k] = v
	}
	out.Comments = cloneComments(a.Comments)
	return out
}
