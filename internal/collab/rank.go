package collab

import (
	"sort"

	"github.com/pkordes/trip-planner/internal/domain"
)

// RankedHotel is a hotel with its popularity score and position flag.
type RankedHotel struct {
	Hotel       domain.HotelOption
	Score       int
	MostPopular bool
}

// Score weighs awesome votes 3, likes 2 and dislikes -1.
func Score(h domain.HotelOption) int {
	return h.Votes[domain.VoteAwesome]*3 + h.Votes[domain.VoteLike]*2 - h.Votes[domain.VoteDontLike]
}

// RankHotels orders hotels by descending score. Equal scores keep their
// insertion order. The leader is flagged MostPopular only when there is
// something to beat.
func RankHotels(hotels []domain.HotelOption) []RankedHotel {
	ranked := make([]RankedHotel, len(hotels))
	for i, h := range hotels {
		ranked[i] = RankedHotel{Hotel: h, Score: Score(h)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > 1 {
		ranked[0].MostPopular = true
	}
	return ranked
}
