package enrich_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/easytrip/backend/internal/enrich"
	"github.com/pkordes/easytrip/backend/internal/metrics"
)

// fakeSummaries and fakeGeocoder are function-field test doubles.
type fakeSummaries struct {
	fetch func(ctx context.Context, query string) (enrich.Summary, error)
	calls []string
}

func (f *fakeSummaries) FetchSummary(ctx context.Context, query string) (enrich.Summary, error) {
	f.calls = append(f.calls, query)
	return f.fetch(ctx, query)
}

type fakeGeocoder struct {
	geocode func(ctx context.Context, query string) (*enrich.Coordinates, error)
	calls   []string
}

func (f *fakeGeocoder) Geocode(ctx context.Context, query string) (*enrich.Coordinates, error) {
	f.calls = append(f.calls, query)
	return f.geocode(ctx, query)
}

var (
	_ enrich.SummaryFetcher = (*fakeSummaries)(nil)
	_ enrich.Geocoder       = (*fakeGeocoder)(nil)
)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func failingSummaries() *fakeSummaries {
	return &fakeSummaries{fetch: func(context.Context, string) (enrich.Summary, error) {
		return enrich.Summary{}, errors.New("connection refused")
	}}
}

func failingGeocoder() *fakeGeocoder {
	return &fakeGeocoder{geocode: func(context.Context, string) (*enrich.Coordinates, error) {
		return nil, errors.New("connection refused")
	}}
}

func newPipeline(s enrich.SummaryFetcher, g enrich.Geocoder, m *metrics.Metrics) *enrich.Pipeline {
	return enrich.NewPipeline(s, g, enrich.Options{
		ImageBaseURL: "https://img.example",
		Timeout:      time.Second,
		Logger:       discardLogger(),
		Metrics:      m,
	})
}

// ---- fallback behaviour ----------------------------------------------------

func TestEnrich_AllLookupsFail(t *testing.T) {
	p := newPipeline(failingSummaries(), failingGeocoder(), nil)

	got := p.Enrich(context.Background(), "Atlantis", []string{"history", "diving"})

	assert.Equal(t, "Atlantis", got.SearchQuery)
	assert.Equal(t,
		"Get ready for an amazing adventure in Atlantis. This itinerary is tailored to your interests: history, diving.",
		got.Overview)
	assert.Zero(t, got.Latitude)
	assert.Zero(t, got.Longitude)
	assert.Equal(t, "https://img.example/1200/400/Atlantis,city/all", got.ImageURL)
}

func TestEnrich_NoInterestsSaysEverything(t *testing.T) {
	p := newPipeline(failingSummaries(), failingGeocoder(), nil)

	got := p.Enrich(context.Background(), "Oslo", nil)

	assert.True(t, strings.HasSuffix(got.Overview, "tailored to your interests: everything."), got.Overview)
}

func TestEnrich_SummaryCorrectsQueryForLaterSteps(t *testing.T) {
	summaries := &fakeSummaries{fetch: func(_ context.Context, q string) (enrich.Summary, error) {
		return enrich.Summary{Title: "Paris", Extract: "Paris is the capital of France."}, nil
	}}
	geo := &fakeGeocoder{geocode: func(_ context.Context, q string) (*enrich.Coordinates, error) {
		return &enrich.Coordinates{Latitude: 48.85, Longitude: 2.35}, nil
	}}
	p := newPipeline(summaries, geo, nil)

	got := p.Enrich(context.Background(), "Pariz", nil)

	assert.Equal(t, []string{"Pariz"}, summaries.calls)
	assert.Equal(t, []string{"Paris"}, geo.calls, "geocoding uses the corrected title")
	assert.Equal(t, "Paris", got.SearchQuery)
	assert.Equal(t, "Paris is the capital of France.", got.Overview)
	assert.Contains(t, got.ImageURL, "/Paris,city/")
}

func TestEnrich_GeocodeOverridesSummaryCoordinates(t *testing.T) {
	summaries := &fakeSummaries{fetch: func(context.Context, string) (enrich.Summary, error) {
		return enrich.Summary{Coordinates: &enrich.Coordinates{Latitude: 1, Longitude: 2}}, nil
	}}
	geo := &fakeGeocoder{geocode: func(context.Context, string) (*enrich.Coordinates, error) {
		return &enrich.Coordinates{Latitude: 10.5, Longitude: -20.25}, nil
	}}

	got := newPipeline(summaries, geo, nil).Enrich(context.Background(), "Somewhere", nil)

	assert.Equal(t, 10.5, got.Latitude)
	assert.Equal(t, -20.25, got.Longitude)
}

func TestEnrich_GeocodeFailureKeepsSummaryCoordinates(t *testing.T) {
	summaries := &fakeSummaries{fetch: func(context.Context, string) (enrich.Summary, error) {
		return enrich.Summary{Coordinates: &enrich.Coordinates{Latitude: 1, Longitude: 2}}, nil
	}}

	got := newPipeline(summaries, failingGeocoder(), nil).Enrich(context.Background(), "Somewhere", nil)

	assert.Equal(t, 1.0, got.Latitude)
	assert.Equal(t, 2.0, got.Longitude)
}

func TestEnrich_GeocodeNoMatchKeepsSummaryCoordinates(t *testing.T) {
	summaries := &fakeSummaries{fetch: func(context.Context, string) (enrich.Summary, error) {
		return enrich.Summary{Coordinates: &enrich.Coordinates{Latitude: 3, Longitude: 4}}, nil
	}}
	geo := &fakeGeocoder{geocode: func(context.Context, string) (*enrich.Coordinates, error) {
		return nil, nil
	}}

	got := newPipeline(summaries, geo, nil).Enrich(context.Background(), "Somewhere", nil)

	assert.Equal(t, 3.0, got.Latitude)
	assert.Equal(t, 4.0, got.Longitude)
}

func TestEnrich_EmptySummaryFieldsKeepDefaults(t *testing.T) {
	summaries := &fakeSummaries{fetch: func(context.Context, string) (enrich.Summary, error) {
		return enrich.Summary{}, nil
	}}

	got := newPipeline(summaries, failingGeocoder(), nil).Enrich(context.Background(), "Quito", []string{"hiking"})

	assert.Equal(t, "Quito", got.SearchQuery)
	assert.Equal(t, enrich.DefaultOverview("Quito", []string{"hiking"}), got.Overview)
}

func TestEnrich_EachStepGetsItsOwnDeadline(t *testing.T) {
	var deadlines []time.Time
	summaries := &fakeSummaries{fetch: func(ctx context.Context, _ string) (enrich.Summary, error) {
		d, ok := ctx.Deadline()
		require.True(t, ok, "summary step must run with a deadline")
		deadlines = append(deadlines, d)
		return enrich.Summary{}, nil
	}}
	geo := &fakeGeocoder{geocode: func(ctx context.Context, _ string) (*enrich.Coordinates, error) {
		d, ok := ctx.Deadline()
		require.True(t, ok, "geocode step must run with a deadline")
		deadlines = append(deadlines, d)
		return nil, nil
	}}

	newPipeline(summaries, geo, nil).Enrich(context.Background(), "Kyoto", nil)

	require.Len(t, deadlines, 2)
	assert.False(t, deadlines[1].Before(deadlines[0]), "second step's deadline starts when it starts")
}

func TestEnrich_RecordsStepOutcomes(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	geo := &fakeGeocoder{geocode: func(context.Context, string) (*enrich.Coordinates, error) { return nil, nil }}

	newPipeline(failingSummaries(), geo, m).Enrich(context.Background(), "Bern", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnrichSteps.WithLabelValues(enrich.StepSummary, metrics.OutcomeError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EnrichSteps.WithLabelValues(enrich.StepGeocode, metrics.OutcomeMiss)))
}

// ---- image URL -------------------------------------------------------------

func TestImageURL_EscapesQuery(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"Paris", "https://img.example/1200/400/Paris,city/all"},
		{"New York City", "https://img.example/1200/400/New%20York%20City,city/all"},
		{"São Paulo", "https://img.example/1200/400/S%C3%A3o%20Paulo,city/all"},
		{"AC/DC", "https://img.example/1200/400/AC%2FDC,city/all"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, enrich.ImageURL("https://img.example/", tt.query))
		})
	}
}
