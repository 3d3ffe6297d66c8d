package collab

import "github.com/pkordes/trip-planner/internal/domain"

// ToggleAssignment flips the item with id itemID between free and claimed.
// An item held by anyone is released; a free item is claimed by name. It
// reports false when no item matches.
func ToggleAssignment(items []domain.PackingItem, itemID, name string) ([]domain.PackingItem, bool) {
	for i := range items {
		if items[i].ID != itemID {
			continue
		}
		out := make([]domain.PackingItem, len(items))
		copy(out, items)
		if out[i].AssignedTo != nil {
			out[i].AssignedTo = nil
		} else {
			n := name
			out[i].AssignedTo = &n
		}
		return out, true
	}
	return items, false
}
