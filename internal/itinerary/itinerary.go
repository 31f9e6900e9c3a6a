// Package itinerary produces the placeholder day-by-day plan for a trip.
package itinerary

import (
	"fmt"

	"github.com/pkordes/easytrip/backend/internal/domain"
)

// GenerateDays returns exactly length days numbered 1..length, each with a
// templated description for destination. A length of zero or less yields no
// days. TripID is left for the repo to fill in.
func GenerateDays(destination string, length int) []domain.ItineraryDay {
	if length <= 0 {
		return []domain.ItineraryDay{}
	}
	days := make([]domain.ItineraryDay, length)
	for i := range days {
		n := i + 1
		days[i] = domain.ItineraryDay{
			DayNumber:   n,
			Description: fmt.Sprintf("Day %d in %s. Explore the top sights and enjoy local cuisine.", n, destination),
		}
	}
	return days
}
