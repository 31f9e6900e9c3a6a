// Package domain contains the core data types for the Easytrip application.
// This package depends only on uuid and is imported by every other
// internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTripLength is used when the submitted form leaves trip_length empty.
const DefaultTripLength = 3

// MaxTripLength bounds how many itinerary days a single submission can create.
const MaxTripLength = 90

// Trip is a planned journey: the user's submitted parameters plus the content
// produced by enrichment. A trip is the top-level aggregate; days belong to it.
type Trip struct {
	ID uuid.UUID
	// OwnerID is nil for anonymous trips.
	OwnerID     *uuid.UUID
	Destination string
	TripLength  int
	GroupSize   string
	StartDate   *time.Time
	EndDate     *time.Time
	Interests   []string

	Title     string
	Overview  string
	ImageURL  string
	Latitude  float64
	Longitude float64

	CreatedAt time.Time
}

// IsAnonymous reports whether the trip was created without a signed-in user.
func (t Trip) IsAnonymous() bool {
	return t.OwnerID == nil
}

// OwnedBy reports whether u owns the trip. A nil user owns nothing.
func (t Trip) OwnedBy(u *User) bool {
	return u != nil && t.OwnerID != nil && *t.OwnerID == u.ID
}

// ItineraryDay is one day's activity description within a Trip.
// DayNumber is 1-based and unique within its trip.
type ItineraryDay struct {
	ID          uuid.UUID
	TripID      uuid.UUID
	DayNumber   int
	Description string
}

// TripDetail is a trip together with its days ordered by DayNumber.
type TripDetail struct {
	Trip Trip
	Days []ItineraryDay
}

// PlanRequest carries the parsed submit-trip form into the service layer.
// Dates that failed to parse arrive here as nil.
type PlanRequest struct {
	Destination string
	TripLength  int
	GroupSize   string
	StartDate   *time.Time
	EndDate     *time.Time
	Interests   []string
}
