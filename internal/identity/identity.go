// Package identity keeps the locally persisted "who am I" record for a
// client. An identity is created once from a display name and reused until
// the user explicitly logs out.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// SlotKey is the key the identity is persisted under.
const SlotKey = "tripAppUser"

// Identity is the persisted record. ID is the creation time in Unix
// milliseconds.
type Identity struct {
	Name      string    `json:"name"`
	ID        string    `json:"id"`
	LoginTime time.Time `json:"loginTime"`
}

// Actor returns the session value passed to trip operations.
func (i Identity) Actor() domain.Actor {
	return domain.Actor{ID: i.ID, Name: i.Name}
}

// Store resolves and persists the local identity.
type Store struct {
	slot Slot
	now  func() time.Time
	log  *slog.Logger
}

// NewStore returns a Store over slot. A nil now uses time.Now.
func NewStore(slot Slot, now func() time.Time, log *slog.Logger) *Store {
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Store{slot: slot, now: now, log: log}
}

// Resolve returns the persisted identity, or nil when none is stored.
// A corrupt record is discarded and treated as absent.
func (s *Store) Resolve(ctx context.Context) (*Identity, error) {
	raw, ok, err := s.slot.Load(ctx, SlotKey)
	if err != nil {
		return nil, fmt.Errorf("identity.Store.Resolve: %w", err)
	}
	if !ok {
		return nil, nil
	}

	var id Identity
	if err := json.Unmarshal([]byte(raw), &id); err != nil || id.ID == "" || strings.TrimSpace(id.Name) == "" {
		s.log.WarnContext(ctx, "discarding malformed stored identity", "error", err)
		if err := s.slot.Clear(ctx, SlotKey); err != nil {
			return nil, fmt.Errorf("identity.Store.Resolve: clear: %w", err)
		}
		return nil, nil
	}
	return &id, nil
}

// Login returns the existing identity if one is stored; otherwise it creates
// and persists a new one for name.
func (s *Store) Login(ctx context.Context, name string) (Identity, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}

	existing, err := s.Resolve(ctx)
	if err != nil {
		return Identity{}, fmt.Errorf("identity.Store.Login: %w", err)
	}
	if existing != nil {
		return *existing, nil
	}

	now := s.now()
	id := Identity{
		Name:      name,
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		LoginTime: now.UTC(),
	}
	b, err := json.Marshal(id)
	if err != nil {
		return Identity{}, fmt.Errorf("identity.Store.Login: encode: %w", err)
	}
	if err := s.slot.Store(ctx, SlotKey, string(b)); err != nil {
		return Identity{}, fmt.Errorf("identity.Store.Login: %w", err)
	}
	return id, nil
}

// Clear forgets the stored identity.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.slot.Clear(ctx, SlotKey); err != nil {
		return fmt.Errorf("identity.Store.Clear: %w", err)
	}
	return nil
}
