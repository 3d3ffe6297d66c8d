package repo

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/pkordes/trip-planner/internal/domain"
)

// MemoryTripStore is an in-process TripStore with the same conflict
// semantics as the database-backed stores. Documents are deep-copied on the
// way in and out.
type MemoryTripStore struct {
	mu    sync.Mutex
	seq   int
	order []string
	docs  map[string]domain.StoredTrip
}

var _ TripStore = (*MemoryTripStore)(nil)

func NewMemoryTripStore() *MemoryTripStore {
	return &MemoryTripStore{docs: map[string]domain.StoredTrip{}}
}

func (s *MemoryTripStore) Insert(_ context.Context, trip domain.Trip) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken(trip.ID, "") {
		return "", fmt.Errorf("repo.TripStore.Insert: %w: trip id %q", domain.ErrConflict, trip.ID)
	}
	s.seq++
	docID := "doc-" + strconv.Itoa(s.seq)
	s.docs[docID] = domain.StoredTrip{DocID: docID, Version: 1, Trip: trip.Clone()}
	s.order = append(s.order, docID)
	return docID, nil
}

// QueryByField supports the top-level string fields id, title and destination.
func (s *MemoryTripStore) QueryByField(_ context.Context, field, value string) ([]domain.StoredTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.StoredTrip
	for _, docID := range s.order {
		st := s.docs[docID]
		var got string
		switch field {
		case "id":
			got = st.Trip.ID
		case "title":
			got = st.Trip.Title
		case "destination":
			got = st.Trip.Destination
		default:
			return nil, fmt.Errorf("repo.TripStore.QueryByField: unsupported field %q", field)
		}
		if got == value {
			st.Trip = st.Trip.Clone()
			out = append(out, st)
		}
	}
	return out, nil
}

func (s *MemoryTripStore) Replace(_ context.Context, docID string, trip domain.Trip, expectedVersion int64) (domain.StoredTrip, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.docs[docID]
	if !ok {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", domain.ErrNotFound)
	}
	if cur.Version != expectedVersion {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w: version %d is stale", domain.ErrConflict, expectedVersion)
	}
	if s.taken(trip.ID, docID) {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w: trip id %q", domain.ErrConflict, trip.ID)
	}

	next := domain.StoredTrip{DocID: docID, Version: cur.Version + 1, Trip: trip.Clone()}
	s.docs[docID] = next
	next.Trip = next.Trip.Clone()
	return next, nil
}

// taken reports whether another document already uses tripID.
func (s *MemoryTripStore) taken(tripID, exceptDocID string) bool {
	for docID, st := range s.docs {
		if docID != exceptDocID && st.Trip.ID == tripID {
			return true
		}
	}
	return false
}
