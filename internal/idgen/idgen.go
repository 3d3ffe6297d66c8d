// Package idgen produces identifiers for trips and their nested items.
// The service receives a Generator so tests can swap in a deterministic one.
package idgen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"

	"github.com/google/uuid"
)

// Generator yields identifiers.
// TripID is the short token embedded in share links; ItemID identifies
// hotels, activities, packing items and comments.
type Generator interface {
	TripID() string
	ItemID() string
}

const (
	base36    = "0123456789abcdefghijklmnopqrstuvwxyz"
	tripIDLen = 9
)

// Random is the production Generator: 9-character base-36 trip tokens and
// random UUIDs for items. Trip tokens are not guaranteed unique; the store
// rejects duplicates and the caller retries.
type Random struct{}

// TripID returns a random 9-character base-36 token.
func (Random) TripID() string {
	buf := make([]byte, tripIDLen)
	limit := big.NewInt(int64(len(base36)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand only fails when the OS entropy source is gone.
			panic(fmt.Sprintf("idgen: read random: %v", err))
		}
		buf[i] = base36[n.Int64()]
	}
	return string(buf)
}

// ItemID returns a random UUID string.
func (Random) ItemID() string {
	return uuid.NewString()
}

// Sequence is a deterministic Generator for tests: trip-1, item-1, item-2...
type Sequence struct {
	mu    sync.Mutex
	trips uint64
	items uint64
}

// TripID returns the next trip identifier in the sequence.
func (s *Sequence) TripID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips++
	return fmt.Sprintf("trip-%d", s.trips)
}

// ItemID returns the next item identifier in the sequence.
func (s *Sequence) ItemID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items++
	return fmt.Sprintf("item-%d", s.items)
}
