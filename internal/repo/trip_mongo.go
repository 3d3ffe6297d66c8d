package repo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkordes/trip-planner/internal/domain"
)

// TripsCollection is the Mongo collection holding trip documents.
const TripsCollection = "trips"

// tripDocument is the on-disk shape: the trip's own fields inline next to
// the native id and the version stamp.
type tripDocument struct {
	DocID   primitive.ObjectID `bson:"_id,omitempty"`
	Version int64              `bson:"version"`
	Trip    domain.Trip        `bson:",inline"`
}

type mongoTripStore struct {
	coll *mongo.Collection
}

// NewMongoTripStore constructs a TripStore over the trips collection of database.
// It ensures the unique index on the application-level trip id.
func NewMongoTripStore(ctx context.Context, database *mongo.Database) (TripStore, error) {
	coll := database.Collection(TripsCollection)
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("trips_trip_id_key"),
	})
	if err != nil {
		return nil, fmt.Errorf("repo.NewMongoTripStore: create index: %w", err)
	}
	return &mongoTripStore{coll: coll}, nil
}

func (r *mongoTripStore) Insert(ctx context.Context, trip domain.Trip) (string, error) {
	res, err := r.coll.InsertOne(ctx, tripDocument{Version: 1, Trip: trip})
	if err != nil {
		return "", fmt.Errorf("repo.TripStore.Insert: %w", mapMongoError(err))
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("repo.TripStore.Insert: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (r *mongoTripStore) QueryByField(ctx context.Context, field, value string) ([]domain.StoredTrip, error) {
	cur, err := r.coll.Find(ctx, bson.D{{Key: field, Value: value}},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("repo.TripStore.QueryByField: %w", err)
	}

	var docs []tripDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("repo.TripStore.QueryByField: decode: %w", err)
	}

	out := make([]domain.StoredTrip, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.stored())
	}
	return out, nil
}

func (r *mongoTripStore) Replace(ctx context.Context, docID string, trip domain.Trip, expectedVersion int64) (domain.StoredTrip, error) {
	oid, err := primitive.ObjectIDFromHex(docID)
	if err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", domain.ErrNotFound)
	}

	next := tripDocument{DocID: oid, Version: expectedVersion + 1, Trip: trip}
	filter := bson.D{{Key: "_id", Value: oid}, {Key: "version", Value: expectedVersion}}
	res, err := r.coll.ReplaceOne(ctx, filter, next)
	if err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", mapMongoError(err))
	}
	if res.MatchedCount == 1 {
		return next.stored(), nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: count: %w", err)
	}
	if n > 0 {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w: version %d is stale", domain.ErrConflict, expectedVersion)
	}
	return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", domain.ErrNotFound)
}

func (d tripDocument) stored() domain.StoredTrip {
	return domain.StoredTrip{DocID: d.DocID.Hex(), Version: d.Version, Trip: d.Trip}
}

func mapMongoError(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", domain.ErrConflict, err)
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
