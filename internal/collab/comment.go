package collab

import (
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Thread is implemented by the pointer types of items that carry comments.
type Thread interface {
	ItemID() string
	Thread() *[]domain.Comment
}

// AppendComment returns a copy of items with c appended to the thread of the
// item whose id is itemID. It reports false, returning items unchanged, when
// the comment text is blank or no item matches.
func AppendComment[T any, PT interface {
	*T
	Thread
}](items []T, itemID string, c domain.Comment) ([]T, bool) {
	if strings.TrimSpace(c.Text) == "" {
		return items, false
	}
	for i := range items {
		if PT(&items[i]).ItemID() != itemID {
			continue
		}
		out := make([]T, len(items))
		copy(out, items)

		thread := PT(&out[i]).Thread()
		comments := make([]domain.Comment, len(*thread), len(*thread)+1)
		copy(comments, *thread)
		*thread = append(comments, c)
		return out, true
	}
	return items, false
}

// Preview returns the most recent comment and how many older ones are
// collapsed behind it. latest is nil for an empty thread.
func Preview(comments []domain.Comment) (latest *domain.Comment, hidden int) {
	if len(comments) == 0 {
		return nil, 0
	}
	c := comments[len(comments)-1]
	return &c, len(comments) - 1
}
