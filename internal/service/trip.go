// Package service contains the business logic for the Easytrip API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/easytrip/backend/internal/domain"
	"github.com/pkordes/easytrip/backend/internal/enrich"
	"github.com/pkordes/easytrip/backend/internal/itinerary"
	"github.com/pkordes/easytrip/backend/internal/metrics"
	"github.com/pkordes/easytrip/backend/internal/repo"
)

// Enricher produces the generated content for a destination.
// *enrich.Pipeline satisfies it; it never fails.
type Enricher interface {
	Enrich(ctx context.Context, destination string, interests []string) enrich.Result
}

// TripService implements business logic for Trip operations.
type TripService struct {
	trips    repo.TripRepo
	days     repo.DayRepo
	enricher Enricher
	log      *slog.Logger
	metrics  *metrics.Metrics
}

// NewTripService constructs a TripService. m may be nil.
func NewTripService(trips repo.TripRepo, days repo.DayRepo, enricher Enricher, log *slog.Logger, m *metrics.Metrics) *TripService {
	return &TripService{trips: trips, days: days, enricher: enricher, log: log, metrics: m}
}

// Plan validates the request, enriches the destination, generates the
// itinerary and persists the trip with its days. requester becomes the owner;
// nil creates an anonymous trip.
// Returns domain.ErrValidation if the request breaks a business rule.
func (s *TripService) Plan(ctx context.Context, req domain.PlanRequest, requester *domain.User) (domain.Trip, error) {
	if err := validatePlan(&req); err != nil {
		return domain.Trip{}, err
	}

	res := s.enricher.Enrich(ctx, req.Destination, req.Interests)

	trip := domain.Trip{
		Destination: res.SearchQuery,
		TripLength:  req.TripLength,
		GroupSize:   req.GroupSize,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Interests:   req.Interests,
		Title:       tripTitle(req.TripLength, res.SearchQuery),
		Overview:    res.Overview,
		ImageURL:    res.ImageURL,
		Latitude:    res.Latitude,
		Longitude:   res.Longitude,
	}
	if requester != nil {
		owner := requester.ID
		trip.OwnerID = &owner
	}

	days := itinerary.GenerateDays(trip.Destination, trip.TripLength)

	created, err := s.trips.Create(ctx, trip, days)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Plan: %w", err)
	}

	if s.metrics != nil {
		s.metrics.IncTripsCreated(created.IsAnonymous())
	}
	s.log.InfoContext(ctx, "trip planned",
		"trip_id", created.ID,
		"destination", created.Destination,
		"days", len(days),
		"anonymous", created.IsAnonymous(),
	)
	return created, nil
}

// Get returns a trip and its days ordered by day number.
// Returns domain.ErrNotFound if the trip does not exist.
func (s *TripService) Get(ctx context.Context, id uuid.UUID) (domain.TripDetail, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	days, err := s.days.ListByTripID(ctx, id)
	if err != nil {
		return domain.TripDetail{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	if days == nil {
		days = []domain.ItineraryDay{}
	}
	return domain.TripDetail{Trip: trip, Days: days}, nil
}

// ListForUser returns the user's trips, most recent first, at most limit
// of them (limit <= 0 means all). Anonymous requesters have no list.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, requester *domain.User, limit int) ([]domain.Trip, error) {
	if requester == nil {
		return []domain.Trip{}, nil
	}
	trips, err := s.trips.ListByOwner(ctx, requester.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// Delete removes a trip if the requester may delete it: the requester owns
// it, or the trip is anonymous. Anonymous trips are deletable by anyone,
// signed in or not.
// Returns domain.ErrNotFound if the trip does not exist and
// domain.ErrForbidden if it belongs to someone else.
func (s *TripService) Delete(ctx context.Context, id uuid.UUID, requester *domain.User) error {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !trip.IsAnonymous() && !trip.OwnedBy(requester) {
		return fmt.Errorf("service.TripService.Delete: trip %s: %w", id, domain.ErrForbidden)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if s.metrics != nil {
		s.metrics.TripsDeleted.Inc()
	}
	return nil
}

// validatePlan enforces the rules for a new trip and normalizes req in place.
//   - Destination must be non-empty after trimming.
//   - TripLength must be within 1..domain.MaxTripLength.
//   - Blank interests are dropped; order is preserved.
func validatePlan(req *domain.PlanRequest) error {
	req.Destination = strings.TrimSpace(req.Destination)
	if req.Destination == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrValidation)
	}
	if req.TripLength < 1 || req.TripLength > domain.MaxTripLength {
		return fmt.Errorf("%w: trip length must be between 1 and %d days", domain.ErrValidation, domain.MaxTripLength)
	}
	req.GroupSize = strings.TrimSpace(req.GroupSize)

	interests := make([]string, 0, len(req.Interests))
	for _, i := range req.Interests {
		if t := strings.TrimSpace(i); t != "" {
			interests = append(interests, t)
		}
	}
	req.Interests = interests
	return nil
}

func tripTitle(days int, destination string) string {
	if days == 1 {
		return "1 day in " + destination
	}
	return fmt.Sprintf("%d days in %s", days, destination)
}
