// Package domain contains the core data types for the trip planner.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Trip is the trip aggregate: a single document holding the trip and every
// collaborative entity attached to it. It is always persisted as a whole.
//
// ID is the application-level identifier embedded in share links. It is
// distinct from the store's native document id (see StoredTrip.DocID).
type Trip struct {
	ID          string        `json:"id" bson:"id"`
	Title       string        `json:"title" bson:"title"`
	Description string        `json:"description" bson:"description"`
	Destination string        `json:"destination" bson:"destination"`
	StartDate   *time.Time    `json:"startDate,omitempty" bson:"startDate,omitempty"`
	EndDate     *time.Time    `json:"endDate,omitempty" bson:"endDate,omitempty"`
	CreatedAt   time.Time     `json:"createdAt" bson:"createdAt"`
	Hotels      []HotelOption `json:"hotels" bson:"hotels"`
	Activities  []Activity    `json:"activities" bson:"activities"`
	PackingList []PackingItem `json:"packingList" bson:"packingList"`
	// Comments is kept for document compatibility; trip-level comments are
	// never written.
	Comments    []Comment     `json:"comments" bson:"comments"`
	URLMetadata *LinkMetadata `json:"urlMetadata,omitempty" bson:"urlMetadata,omitempty"`
}

// StoredTrip pairs a Trip with the store bookkeeping needed to write it back:
// the native document id and the version read alongside it.
type StoredTrip struct {
	DocID   string
	Version int64
	Trip    Trip
}

// Clone returns a deep copy of t so a mutation can be applied without
// touching the caller's confirmed state.
func (t Trip) Clone() Trip {
	out := t
	if t.StartDate != nil {
		sd := *t.StartDate
		out.StartDate = &sd
	}
	if t.EndDate != nil {
		ed := *t.EndDate
		out.EndDate = &ed
	}
	if t.URLMetadata != nil {
		md := *t.URLMetadata
		out.URLMetadata = &md
	}
	out.Hotels = make([]HotelOption, len(t.Hotels))
	for i, h := range t.Hotels {
		out.Hotels[i] = h.clone()
	}
	out.Activities = make([]Activity, len(t.Activities))
	for i, a := range t.Activities {
		out.Activities[i] = a.clone()
	}
	out.PackingList = make([]PackingItem, len(t.PackingList))
	for i, p := range t.PackingList {
		out.PackingList[i] = p.clone()
	}
	out.Comments = cloneComments(t.Comments)
	return out
}

// Comment is a single authored entry in an item's thread.
// Author is the free-text display name of whoever wrote it.
type Comment struct {
	ID        string    `json:"id" bson:"id"`
	Text      string    `json:"text" bson:"text"`
	Author    string    `json:"author" bson:"author"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
}

func cloneComments(cs []Comment) []Comment {
	if cs == nil {
		return []Comment{}
	}
	out := make([]Comment, len(cs))
	copy(out, cs)
	return out
}

// LinkMetadata is the best-effort preview of a URL.
// Every field may be empty except Title.
type LinkMetadata struct {
	Title         string `json:"title" bson:"title"`
	Description   string `json:"description" bson:"description"`
	Image         string `json:"image" bson:"image"`
	URL           string `json:"url" bson:"url"`
	Site          string `json:"site" bson:"site"`
	Author        string `json:"author" bson:"author"`
	PublishedDate string `json:"publishedDate" bson:"publishedDate"`
}
