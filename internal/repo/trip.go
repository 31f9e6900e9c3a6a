// Package repo contains all database access logic for the Easytrip API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here, only SQL and type mapping.
package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup. Begin on a pgx.Tx opens a
// savepoint, so nested transactions behave the same under test.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TripRepo defines the persistence operations for Trips and their days.
// The service layer depends on this interface, not the concrete Postgres implementation,
// which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a trip together with its itinerary days in one
	// transaction and returns the persisted trip (with DB-generated id and
	// created_at populated). Either everything is written or nothing is.
	Create(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// ListByOwner returns the owner's trips ordered by created_at descending.
	// limit <= 0 returns every trip.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Trip, error)

	// Delete removes a trip by ID; its days go with it via ON DELETE CASCADE.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, user_id, destination, trip_length, group_size, start_date, end_date,
		interests, title, overview, image_url, latitude, longitude, created_at`

// Create inserts the trip row, then queues one insert per day in a single
// batch on the same transaction.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip, days []domain.ItineraryDay) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (user_id, destination, trip_length, group_size, start_date, end_date,
		                   interests, title, overview, image_url, latitude, longitude)
		VALUES (@user_id, @destination, @trip_length, @group_size, @start_date, @end_date,
		        @interests, @title, @overview, @image_url, @latitude, @longitude)
		RETURNING ` + tripColumns

	const dayQ = `
		INSERT INTO itinerary_days (trip_id, day_number, description)
		VALUES ($1, $2, $3)`

	interests := trip.Interests
	if interests == nil {
		interests = []string{} // column is NOT NULL
	}

	args := pgx.NamedArgs{
		"user_id":     trip.OwnerID, // nil becomes NULL
		"destination": trip.Destination,
		"trip_length": trip.TripLength,
		"group_size":  trip.GroupSize,
		"start_date":  trip.StartDate,
		"end_date":    trip.EndDate,
		"interests":   interests,
		"title":       trip.Title,
		"overview":    trip.Overview,
		"image_url":   trip.ImageURL,
		"latitude":    trip.Latitude,
		"longitude":   trip.Longitude,
	}

	var created domain.Trip
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		t, err := scanTrip(tx.QueryRow(ctx, q, args))
		if err != nil {
			return err
		}

		if len(days) > 0 {
			batch := &pgx.Batch{}
			for _, d := range days {
				batch.Queue(dayQ, t.ID, d.DayNumber, d.Description)
			}
			if err := tx.SendBatch(ctx, batch).Close(); err != nil {
				return fmt.Errorf("insert days: %w", err)
			}
		}

		created = t
		return nil
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return created, nil
}

// GetByID retrieves a trip by primary key.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanTrip(row)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListByOwner returns the owner's trips, most recent first.
// LIMIT NULL is Postgres for "no limit".
func (r *pgTripRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]domain.Trip, error) {
	const q = `
		SELECT ` + tripColumns + `
		FROM trips
		WHERE user_id = @user_id
		ORDER BY created_at DESC, id
		LIMIT @limit`

	var lim any
	if limit > 0 {
		lim = limit
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": ownerID, "limit": lim})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListByOwner: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListByOwner: rows: %w", err)
	}

	return trips, nil
}

// Delete removes a trip by primary key.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the scan
// helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID, nullable owner and nullable date conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t         domain.Trip
		id        pgtype.UUID
		owner     pgtype.UUID
		startDate pgtype.Date
		endDate   pgtype.Date
	)

	err := s.Scan(&id, &owner, &t.Destination, &t.TripLength, &t.GroupSize, &startDate, &endDate,
		&t.Interests, &t.Title, &t.Overview, &t.ImageURL, &t.Latitude, &t.Longitude, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	if owner.Valid {
		o := uuid.UUID(owner.Bytes)
		t.OwnerID = &o
	}
	if startDate.Valid {
		sd := startDate.Time
		t.StartDate = &sd
	}
	if endDate.Valid {
		ed := endDate.Time
		t.EndDate = &ed
	}

	return t, nil
}
