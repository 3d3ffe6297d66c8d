// Package repo contains the trip document store.
// The store is deliberately dumb: it inserts, finds and conditionally replaces
// whole trip documents. All collaborative logic lives in collab and service.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trip-planner/internal/domain"
)

// pgUniqueViolation is the SQLSTATE raised when the unique trip id index rejects a write.
const pgUniqueViolation = "23505"

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripStore persists whole trip documents.
// The service layer depends on this interface, not on a concrete backend.
type TripStore interface {
	// Insert stores a new document and returns its native document id.
	// Returns domain.ErrConflict if the trip id is already taken.
	Insert(ctx context.Context, trip domain.Trip) (string, error)

	// QueryByField returns every document whose top-level field equals value.
	QueryByField(ctx context.Context, field, value string) ([]domain.StoredTrip, error)

	// Replace overwrites the document if its version still equals
	// expectedVersion, returning the stored result with the bumped version.
	// Returns domain.ErrConflict when the version moved on and
	// domain.ErrNotFound when the document is gone.
	Replace(ctx context.Context, docID string, trip domain.Trip, expectedVersion int64) (domain.StoredTrip, error)
}

// pgTripStore keeps trips in a JSONB column.
type pgTripStore struct {
	db db
}

// NewPostgresTripStore constructs a TripStore backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewPostgresTripStore(db db) TripStore {
	return &pgTripStore{db: db}
}

func (r *pgTripStore) Insert(ctx context.Context, trip domain.Trip) (string, error) {
	const q = `
		INSERT INTO trips (doc)
		VALUES (@doc)
		RETURNING doc_id`

	doc, err := json.Marshal(trip)
	if err != nil {
		return "", fmt.Errorf("repo.TripStore.Insert: encode: %w", err)
	}

	var id pgtype.UUID
	if err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"doc": string(doc)}).Scan(&id); err != nil {
		return "", fmt.Errorf("repo.TripStore.Insert: %w", mapPgError(err))
	}
	return uuid.UUID(id.Bytes).String(), nil
}

func (r *pgTripStore) QueryByField(ctx context.Context, field, value string) ([]domain.StoredTrip, error) {
	const q = `
		SELECT doc_id, version, doc
		FROM trips
		WHERE doc->>@field = @value
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"field": field, "value": value})
	if err != nil {
		return nil, fmt.Errorf("repo.TripStore.QueryByField: %w", err)
	}
	defer rows.Close()

	var out []domain.StoredTrip
	for rows.Next() {
		st, err := scanStoredTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripStore.QueryByField: scan: %w", err)
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripStore.QueryByField: rows: %w", err)
	}
	return out, nil
}

func (r *pgTripStore) Replace(ctx context.Context, docID string, trip domain.Trip, expectedVersion int64) (domain.StoredTrip, error) {
	const q = `
		UPDATE trips
		SET doc        = @doc,
		    version    = version + 1,
		    updated_at = now()
		WHERE doc_id = @doc_id AND version = @version
		RETURNING doc_id, version, doc`

	id, err := uuid.Parse(docID)
	if err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", domain.ErrNotFound)
	}
	doc, err := json.Marshal(trip)
	if err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: encode: %w", err)
	}

	args := pgx.NamedArgs{"doc": string(doc), "doc_id": id, "version": expectedVersion}
	st, err := scanStoredTrip(r.db.QueryRow(ctx, q, args))
	if err == nil {
		return st, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", mapPgError(err))
	}

	// Nothing matched: either the version moved on or the row is gone.
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM trips WHERE doc_id = @doc_id)`,
		pgx.NamedArgs{"doc_id": id}).Scan(&exists); err != nil {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: exists: %w", err)
	}
	if exists {
		return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w: version %d is stale", domain.ErrConflict, expectedVersion)
	}
	return domain.StoredTrip{}, fmt.Errorf("repo.TripStore.Replace: %w", domain.ErrNotFound)
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanStoredTrip
// to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

func scanStoredTrip(s scanner) (domain.StoredTrip, error) {
	var (
		st  domain.StoredTrip
		id  pgtype.UUID
		doc []byte
	)
	if err := s.Scan(&id, &st.Version, &doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.StoredTrip{}, domain.ErrNotFound
		}
		return domain.StoredTrip{}, err
	}
	if err := json.Unmarshal(doc, &st.Trip); err != nil {
		return domain.StoredTrip{}, fmt.Errorf("decode document: %w", err)
	}
	st.DocID = uuid.UUID(id.Bytes).String()
	return st, nil
}

// mapPgError turns a unique violation into domain.ErrConflict.
func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", domain.ErrConflict, pgErr.ConstraintName)
	}
	return err
}
