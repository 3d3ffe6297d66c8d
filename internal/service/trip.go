// Package service contains the business logic for the trip planner.
// Services validate inputs, run collaborative edits against the trip document,
// and orchestrate store, metadata and notification calls.
// No storage details live here: services depend on repo interfaces.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/collab"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/idgen"
	"github.com/pkordes/trip-planner/internal/linkmeta"
	"github.com/pkordes/trip-planner/internal/metrics"
	"github.com/pkordes/trip-planner/internal/notifier"
	"github.com/pkordes/trip-planner/internal/repo"
)

// MetadataResolver produces link previews. It never fails; see linkmeta.Resolver.
type MetadataResolver interface {
	Resolve(ctx context.Context, rawURL string) domain.LinkMetadata
}

// Options carries the optional collaborators of a TripService.
// Zero values are replaced with production defaults.
type Options struct {
	Resolver     MetadataResolver
	Notifier     notifier.Notifier
	IDs          idgen.Generator
	Now          func() time.Time
	WriteRetries int
	Logger       *slog.Logger
	Metrics      *metrics.Metrics
}

// TripService implements every trip operation.
type TripService struct {
	store   repo.TripStore
	meta    MetadataResolver
	notify  notifier.Notifier
	ids     idgen.Generator
	now     func() time.Time
	retries int
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewTripService constructs a TripService backed by the provided TripStore.
func NewTripService(store repo.TripStore, opts Options) *TripService {
	if opts.Notifier == nil {
		opts.Notifier = notifier.Nop{}
	}
	if opts.IDs == nil {
		opts.IDs = idgen.Random{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &TripService{
		store:   store,
		meta:    opts.Resolver,
		notify:  opts.Notifier,
		ids:     opts.IDs,
		now:     opts.Now,
		retries: max(opts.WriteRetries, 0),
		log:     opts.Logger,
		metrics: opts.Metrics,
	}
}

// NewTrip is the input to Create.
type NewTrip struct {
	Title       string
	Description string
	Destination string
	StartDate   *time.Time
	EndDate     *time.Time
	// URL, when set, is resolved to a preview stored on the trip.
	URL string
}

// NewActivity is the input to AddActivity.
type NewActivity struct {
	Name        string
	Description string
}

// Create validates and persists a new trip.
func (s *TripService) Create(ctx context.Context, actor domain.Actor, in NewTrip) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	if err := validateNewTrip(in); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Destination: strings.TrimSpace(in.Destination),
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		CreatedAt:   s.now().UTC(),
		Hotels:      []domain.HotelOption{},
		Activities:  []domain.Activity{},
		PackingList: []domain.PackingItem{},
		Comments:    []domain.Comment{},
	}
	if u := strings.TrimSpace(in.URL); u != "" && s.meta != nil {
		md := s.meta.Resolve(ctx, u)
		trip.URLMetadata = &md
	}

	// Trip ids are short random tokens; on the rare collision draw another.
	for attempt := 0; ; attempt++ {
		trip.ID = s.ids.TripID()
		_, err := s.store.Insert(ctx, trip)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= s.retries {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		s.log.WarnContext(ctx, "trip id collision, retrying", "trip_id", trip.ID)
	}

	s.metrics.Mutation("create_trip")
	s.emit(ctx, trip, actor, notifier.ActionTripCreated, trip.Destination)
	return trip, nil
}

// Get returns the trip with the given application-level id.
func (s *TripService) Get(ctx context.Context, tripID string) (domain.Trip, error) {
	st, err := s.load(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return st.Trip, nil
}

// AddHotel appends a hotel option with zeroed votes.
func (s *TripService) AddHotel(ctx context.Context, actor domain.Actor, tripID, url string) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	url = strings.TrimSpace(url)
	if url == "" {
		return domain.Trip{}, fmt.Errorf("%w: hotel url is required", domain.ErrValidation)
	}

	hotel := domain.NewHotelOption(s.ids.ItemID(), url, s.now().UTC())
	trip, err := s.mutate(ctx, tripID, "add_hotel", func(t *domain.Trip) error {
		t.Hotels = append(t.Hotels, hotel)
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.emit(ctx, trip, actor, notifier.ActionHotelAdded, url)
	return trip, nil
}

// VoteHotel records, changes or (with a nil vote) retracts actor's vote.
func (s *TripService) VoteHotel(ctx context.Context, actor domain.Actor, tripID, hotelID string, vote *domain.VoteType) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	if vote != nil && !vote.Valid() {
		return domain.Trip{}, fmt.Errorf("%w: unknown vote type %q", domain.ErrValidation, *vote)
	}

	trip, err := s.mutate(ctx, tripID, "vote_hotel", func(t *domain.Trip) error {
		i := indexOf(t.Hotels, hotelID, func(h domain.HotelOption) string { return h.ID })
		if i < 0 {
			return fmt.Errorf("%w: hotel %q", domain.ErrNotFound, hotelID)
		}
		t.Hotels[i] = collab.VoteHotel(t.Hotels[i], actor.ID, vote)
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	detail := "retracted"
	if vote != nil {
		detail = string(*vote)
	}
	s.emit(ctx, trip, actor, notifier.ActionHotelVoted, detail)
	return trip, nil
}

// RankedHotels returns the trip's hotels ordered by score.
func (s *TripService) RankedHotels(ctx context.Context, tripID string) ([]collab.RankedHotel, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return nil, err
	}
	return collab.RankHotels(trip.Hotels), nil
}

// HotelPreview resolves the link preview for one hotel option.
func (s *TripService) HotelPreview(ctx context.Context, tripID, hotelID string) (domain.LinkMetadata, error) {
	trip, err := s.Get(ctx, tripID)
	if err != nil {
		return domain.LinkMetadata{}, err
	}
	i := indexOf(trip.Hotels, hotelID, func(h domain.HotelOption) string { return h.ID })
	if i < 0 {
		return domain.LinkMetadata{}, fmt.Errorf("service.TripService.HotelPreview: %w: hotel %q", domain.ErrNotFound, hotelID)
	}
	return s.Preview(ctx, trip.Hotels[i].URL)
}

// Preview resolves an arbitrary URL.
func (s *TripService) Preview(ctx context.Context, rawURL string) (domain.LinkMetadata, error) {
	if strings.TrimSpace(rawURL) == "" {
		return domain.LinkMetadata{}, fmt.Errorf("%w: url is required", domain.ErrValidation)
	}
	if s.meta == nil {
		u := linkmeta.Normalize(rawURL)
		return domain.LinkMetadata{
			Title: linkmeta.FallbackTitle(u, linkmeta.DefaultRules),
			URL:   linkmeta.Canonicalize(u, linkmeta.DefaultRules),
		}, nil
	}
	return s.meta.Resolve(ctx, rawURL), nil
}

// AddActivity appends an unrated activity.
func (s *TripService) AddActivity(ctx context.Context, actor domain.Actor, tripID string, in NewActivity) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: activity name is required", domain.ErrValidation)
	}

	activity := domain.NewActivity(s.ids.ItemID(), name, strings.TrimSpace(in.Description), s.now().UTC())
	trip, err := s.mutate(ctx, tripID, "add_activity", func(t *domain.Trip) error {
		t.Activities = append(t.Activities, activity)
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.emit(ctx, trip, actor, notifier.ActionActivityAdded, name)
	return trip, nil
}

// RateActivity records, changes or (with a nil rating) retracts actor's rating.
func (s *TripService) RateActivity(ctx context.Context, actor domain.Actor, tripID, activityID string, rating *int) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	if rating != nil && (*rating < domain.MinRating || *rating > domain.MaxRating) {
		return domain.Trip{}, fmt.Errorf("%w: rating must be between %d and %d", domain.ErrValidation, domain.MinRating, domain.MaxRating)
	}

	trip, err := s.mutate(ctx, tripID, "rate_activity", func(t *domain.Trip) error {
		i := indexOf(t.Activities, activityID, func(a domain.Activity) string { return a.ID })
		if i < 0 {
			return fmt.Errorf("%w: activity %q", domain.ErrNotFound, activityID)
		}
		t.Activities[i] = collab.RateActivity(t.Activities[i], actor.ID, rating)
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	detail := "retracted"
	if rating != nil {
		detail = strconv.Itoa(*rating) + "/5"
	}
	s.emit(ctx, trip, actor, notifier.ActionActivityRated, detail)
	return trip, nil
}

// AddPackingItem appends an unassigned packing item.
func (s *TripService) AddPackingItem(ctx context.Context, actor domain.Actor, tripID, name string) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Trip{}, fmt.Errorf("%w: packing item name is required", domain.ErrValidation)
	}

	item := domain.NewPackingItem(s.ids.ItemID(), name, s.now().UTC())
	trip, err := s.mutate(ctx, tripID, "add_packing_item", func(t *domain.Trip) error {
		t.PackingList = append(t.PackingList, item)
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.emit(ctx, trip, actor, notifier.ActionPackingAdded, name)
	return trip, nil
}

// TogglePacking releases the item if anyone holds it, otherwise assigns it to actor.
func (s *TripService) TogglePacking(ctx context.Context, actor domain.Actor, tripID, itemID string) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}

	trip, err := s.mutate(ctx, tripID, "toggle_packing", func(t *domain.Trip) error {
		items, ok := collab.ToggleAssignment(t.PackingList, itemID, actor.Name)
		if !ok {
			return fmt.Errorf("%w: packing item %q", domain.ErrNotFound, itemID)
		}
		t.PackingList = items
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.emit(ctx, trip, actor, notifier.ActionPackingToggle, "")
	return trip, nil
}

// AddComment appends a comment by actor to the thread of one item.
func (s *TripService) AddComment(ctx context.Context, actor domain.Actor, tripID string, kind domain.ItemKind, itemID, text string) (domain.Trip, error) {
	if err := validateActor(actor); err != nil {
		return domain.Trip{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Trip{}, fmt.Errorf("%w: comment text is required", domain.ErrValidation)
	}
	if _, ok := domain.ParseItemKind(string(kind)); !ok {
		return domain.Trip{}, fmt.Errorf("%w: unknown item kind %q", domain.ErrValidation, kind)
	}

	comment := domain.Comment{
		ID:        s.ids.ItemID(),
		Text:      text,
		Author:    actor.Name,
		CreatedAt: s.now().UTC(),
	}
	trip, err := s.mutate(ctx, tripID, "add_comment", func(t *domain.Trip) error {
		var ok bool
		switch kind {
		case domain.KindHotel:
			t.Hotels, ok = collab.AppendComment(t.Hotels, itemID, comment)
		case domain.KindActivity:
			t.Activities, ok = collab.AppendComment(t.Activities, itemID, comment)
		case domain.KindPacking:
			t.PackingList, ok = collab.AppendComment(t.PackingList, itemID, comment)
		}
		if !ok {
			return fmt.Errorf("%w: %s item %q", domain.ErrNotFound, kind, itemID)
		}
		return nil
	})
	if err != nil {
		return domain.Trip{}, err
	}
	s.emit(ctx, trip, actor, notifier.ActionCommented, text)
	return trip, nil
}

// load fetches the stored document for tripID.
func (s *TripService) load(ctx context.Context, tripID string) (domain.StoredTrip, error) {
	if strings.TrimSpace(tripID) == "" {
		return domain.StoredTrip{}, fmt.Errorf("%w: trip", domain.ErrNotFound)
	}
	found, err := s.store.QueryByField(ctx, "id", tripID)
	if err != nil {
		return domain.StoredTrip{}, err
	}
	if len(found) == 0 {
		return domain.StoredTrip{}, fmt.Errorf("%w: trip %q", domain.ErrNotFound, tripID)
	}
	return found[0], nil
}

// mutate runs a read-modify-write cycle: fn is applied to a copy of the
// current trip, which then replaces the stored document only if nobody else
// wrote in between. On a lost race fn is re-applied to fresh state, up to
// the configured number of retries. fn must be deterministic.
func (s *TripService) mutate(ctx context.Context, tripID, op string, fn func(*domain.Trip) error) (domain.Trip, error) {
	for attempt := 0; ; attempt++ {
		st, err := s.load(ctx, tripID)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
		}

		next := st.Trip.Clone()
		if err := fn(&next); err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
		}

		saved, err := s.store.Replace(ctx, st.DocID, next, st.Version)
		if err == nil {
			s.metrics.Mutation(op)
			return saved.Trip, nil
		}
		if !errors.Is(err, domain.ErrConflict) || attempt >= s.retries {
			return domain.Trip{}, fmt.Errorf("service.TripService.%s: %w", op, err)
		}
		s.metrics.WriteConflict()
		s.log.DebugContext(ctx, "trip write conflict, retrying",
			"trip_id", tripID, "op", op, "attempt", attempt+1)
	}
}

// emit sends an activity event. Delivery problems never fail the operation.
func (s *TripService) emit(ctx context.Context, trip domain.Trip, actor domain.Actor, action notifier.Action, detail string) {
	err := s.notify.Notify(ctx, notifier.Event{
		TripID:    trip.ID,
		TripTitle: trip.Title,
		Actor:     actor,
		Action:    action,
		Detail:    detail,
	})
	if err != nil {
		s.metrics.NotificationError()
		s.log.WarnContext(ctx, "notification failed", "trip_id", trip.ID, "error", err)
	}
}

func validateActor(a domain.Actor) error {
	if !a.Valid() {
		return fmt.Errorf("%w: an identity (id and name) is required", domain.ErrValidation)
	}
	return nil
}

func validateNewTrip(in NewTrip) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if strings.TrimSpace(in.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if in.StartDate != nil && in.EndDate != nil && in.EndDate.Before(*in.StartDate) {
		return fmt.Errorf("%w: end date must not be before start date", domain.ErrValidation)
	}
	return nil
}

func indexOf[T any](items []T, id string, key func(T) string) int {
	for i, it := range items {
		if key(it) == id {
			return i
		}
	}
	return -1
}
