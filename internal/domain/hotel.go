package domain

import "time"

// VoteType is a collaborator's reaction to a hotel option.
type VoteType string

const (
	VoteDontLike VoteType = "dontLike"
	VoteLike     VoteType = "like"
	VoteAwesome  VoteType = "awesome"
)

// VoteTypes lists every valid vote, in display order.
var VoteTypes = []VoteType{VoteDontLike, VoteLike, VoteAwesome}

// Valid reports whether v is one of VoteTypes.
func (v VoteType) Valid() bool {
	for _, t := range VoteTypes {
		if v == t {
			return true
		}
	}
	return false
}

// HotelOption is a hotel link proposed for the trip.
// UserVotes maps a user id to that user's current vote; Votes holds the
// per-type tallies and must never go negative.
type HotelOption struct {
	ID        string              `json:"id" bson:"id"`
	URL       string              `json:"url" bson:"url"`
	Votes     map[VoteType]int    `json:"votes" bson:"votes"`
	UserVotes map[string]VoteType `json:"userVotes" bson:"userVotes"`
	Comments  []Comment           `json:"comments" bson:"comments"`
	AddedAt   time.Time           `json:"addedAt" bson:"addedAt"`
}

// NewHotelOption returns a hotel with zeroed tallies for every vote type.
func NewHotelOption(id, url string, addedAt time.Time) HotelOption {
	votes := make(map[VoteType]int, len(VoteTypes))
	for _, t := range VoteTypes {
		votes[t] = 0
	}
	return HotelOption{
		ID:        id,
		URL:       url,
		Votes:     votes,
		UserVotes: map[string]VoteType{},
		Comments:  []Comment{},
		AddedAt:   addedAt,
	}
}

// ItemID returns the hotel id.
func (h *HotelOption) ItemID() string { return h.ID }

// Thread returns the hotel's comment list for in-place appends.
func (h *HotelOption) Thread() *[]Comment { return &h.Comments }

func (h HotelOption) clone() HotelOption {
	out := h
	out.Votes = make(map[VoteType]int, len(h.Votes))
	for k, v := range h.Votes {
		out.Votes[k] = v
	}
	out.UserVotes = make(map[string]VoteType, len(h.UserVotes))
	for k, v := range h.UserVotes {
		out.UserVotes[k] = v
	}
	out.Comments = cloneComments(h.Comments)
	return out
}
