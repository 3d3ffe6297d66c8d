package domain

import "time"

// PackingItem is something someone needs to bring.
// AssignedTo is the display name of the single assignee, nil when unclaimed.
type PackingItem struct {
	ID         string    `json:"id" bson:"id"`
	Name       string    `json:"name" bson:"name"`
	AssignedTo *string   `json:"assignedTo" bson:"assignedTo"`
	Comments   []Comment `json:"comments" bson:"comments"`
	AddedAt    time.Time `json:"addedAt" bson:"addedAt"`
}

// NewPackingItem returns an unassigned packing item.
func NewPackingItem(id, name string, addedAt time.Time) PackingItem {
	return PackingItem{ID: id, Name: name, Comments: []Comment{}, AddedAt: addedAt}
}

// ItemID returns the packing item id.
func (p *PackingItem) ItemID() string { return p.ID }

// Thread returns the item's comment list for in-place appends.
func (p *PackingItem) Thread() *[]Comment { return &p.Comments }

func (p PackingItem) clone() PackingItem {
	out := p
	if p.AssignedTo != nil {
		name := *p.AssignedTo
		out.AssignedTo = &name
	}
	out.Comments = cloneComments(p.Comments)
	return out
}
