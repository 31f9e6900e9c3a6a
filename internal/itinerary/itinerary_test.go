package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/easytrip/backend/internal/itinerary"
)

func TestGenerateDays_ContiguousNumbering(t *testing.T) {
	for _, length := range []int{1, 3, 7, 30} {
		days := itinerary.GenerateDays("Lisbon", length)

		require.Len(t, days, length)
		for i, d := range days {
			assert.Equal(t, i+1, d.DayNumber, "length=%d", length)
		}
	}
}

func TestGenerateDays_Description(t *testing.T) {
	days := itinerary.GenerateDays("Paris", 2)

	require.Len(t, days, 2)
	assert.Equal(t, "Day 1 in Paris. Explore the top sights and enjoy local cuisine.", days[0].Description)
	assert.Equal(t, "Day 2 in Paris. Explore the top sights and enjoy local cuisine.", days[1].Description)
}

func TestGenerateDays_NonPositiveLength(t *testing.T) {
	for _, length := range []int{0, -4} {
		days := itinerary.GenerateDays("Nowhere", length)

		assert.NotNil(t, days)
		assert.Empty(t, days)
	}
}
