package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// DayRepo reads the itinerary days of a trip. Days are written only by
// TripRepo.Create and removed only by cascade, so there is no write API here.
type DayRepo interface {
	// ListByTripID returns the trip's days ordered by day_number ascending.
	// An unknown trip yields an empty result, not an error.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error)
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

func (r *pgDayRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.ItineraryDay, error) {
	const q = `
		SELECT id, trip_id, day_number, description
		FROM itinerary_days
		WHERE trip_id = @trip_id
		ORDER BY day_number`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var days []domain.ItineraryDay
	for rows.Next() {
		var (
			d      domain.ItineraryDay
			id     pgtype.UUID
			parent pgtype.UUID
		)
		if err := rows.Scan(&id, &parent, &d.DayNumber, &d.Description); err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListByTripID: scan: %w", err)
		}
		d.ID = uuid.UUID(id.Bytes)
		d.TripID = uuid.UUID(parent.Bytes)
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListByTripID: rows: %w", err)
	}

	return days, nil
}
