// Package collab holds the pure rules that merge collaborators' votes,
// ratings, comments and packing claims into shared per-item state.
// Nothing here touches storage or the clock; callers persist the results.
package collab

import "github.com/pkordes/trip-planner/internal/domain"

// Cast applies one user's choice to a tally and returns fresh maps.
// The inputs are never modified.
//
// A prior choice by userID is withdrawn first (its count floored at zero).
// A non-nil next is then counted and recorded; a nil next removes the user's
// entry. Retracting when the user never chose anything changes nothing.
func Cast[C comparable](counts map[C]int, choices map[string]C, userID string, next *C) (map[C]int, map[string]C) {
	outCounts := make(map[C]int, len(counts)+1)
	for k, v := range counts {
		outCounts[k] = v
	}
	outChoices := make(map[string]C, len(choices)+1)
	for k, v := range choices {
		outChoices[k] = v
	}

	if prev, ok := outChoices[userID]; ok {
		outCounts[prev] = max(0, outCounts[prev]-1)
	}

	if next != nil {
		outCounts[*next]++
		outChoices[userID] = *next
	} else {
		delete(outChoices, userID)
	}
	return outCounts, outChoices
}

// Average returns the weighted mean rating over levels MinRating..MaxRating,
// or 0 when no ratings exist.
func Average(ratings map[int]int) float64 {
	var total, weighted int
	for level := domain.MinRating; level <= domain.MaxRating; level++ {
		n := ratings[level]
		total += n
		weighted += level * n
	}
	if total == 0 {
		return 0
	}
	return float64(weighted) / float64(total)
}

// VoteHotel returns h with userID's vote replaced by vote (nil retracts).
func VoteHotel(h domain.HotelOption, userID string, vote *domain.VoteType) domain.HotelOption {
	h.Votes, h.UserVotes = Cast(h.Votes, h.UserVotes, userID, vote)
	return h
}

// RateActivity returns a with userID's rating replaced by rating (nil
// retracts) and the average recomputed.
func RateActivity(a domain.Activity, userID string, rating *int) domain.Activity {
	a.Ratings, a.UserRatings = Cast(a.Ratings, a.UserRatings, userID, rating)
	a.AverageRating = Average(a.Ratings)
	return a
}
