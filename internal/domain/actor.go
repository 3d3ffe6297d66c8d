package domain

import "strings"

// Actor is the collaborator performing an operation. It is passed explicitly
// to every call that records who did something; there is no ambient user.
type Actor struct {
	ID   string
	Name string
}

// Valid reports whether both the id and the display name are set.
func (a Actor) Valid() bool {
	return strings.TrimSpace(a.ID) != "" && strings.TrimSpace(a.Name) != ""
}

// ItemKind names one of the trip's collaborative collections.
type ItemKind string

const (
	KindHotel    ItemKind = "hotels"
	KindActivity ItemKind = "activities"
	KindPacking  ItemKind = "packing"
)

// ParseItemKind maps a path segment to an ItemKind.
func ParseItemKind(s string) (ItemKind, bool) {
	switch k := ItemKind(s); k {
	case KindHotel, KindActivity, KindPacking:
		return k, true
	}
	return "", false
}
