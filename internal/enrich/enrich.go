// Package enrich turns a free-text destination into the generated content of
// a trip: an overview, a canonical name, coordinates and a cover image URL.
//
// Every lookup is best-effort. A failing step is logged and skipped, and the
// pipeline always returns a usable Result built from the defaults and
// whatever the successful steps produced.
package enrich

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/pkordes/easytrip/backend/internal/metrics"
)

// Step names used in logs and metrics.
const (
	StepSummary = "summary"
	StepGeocode = "geocode"
)

// Coordinates is a WGS84 position in decimal degrees.
type Coordinates struct {
	Latitude  float64
	Longitude float64
}

// Summary is what the encyclopedia returns for a destination.
// Empty strings and nil Coordinates mean the field was absent.
type Summary struct {
	Title       string
	Extract     string
	Coordinates *Coordinates
}

// SummaryFetcher looks up an encyclopedia summary for a destination.
type SummaryFetcher interface {
	FetchSummary(ctx context.Context, query string) (Summary, error)
}

// Geocoder resolves a place name. It returns nil coordinates and a nil
// error when the service has no match.
type Geocoder interface {
	Geocode(ctx context.Context, query string) (*Coordinates, error)
}

// Result is the enriched view of a destination.
type Result struct {
	// SearchQuery is the canonical destination name: the encyclopedia title
	// when the summary lookup succeeded, the raw input otherwise.
	SearchQuery string
	Overview    string
	ImageURL    string
	Latitude    float64
	Longitude   float64
}

// update is the partial result of one step. Nil fields leave the
// accumulated Result untouched.
type update struct {
	searchQuery *string
	overview    *string
	coordinates *Coordinates
}

func (r *Result) apply(u update) {
	if u.searchQuery != nil {
		r.SearchQuery = *u.searchQuery
	}
	if u.overview != nil {
		r.Overview = *u.overview
	}
	if u.coordinates != nil {
		r.Latitude = u.coordinates.Latitude
		r.Longitude = u.coordinates.Longitude
	}
}

// Options configures a Pipeline.
type Options struct {
	// ImageBaseURL is the root of the placeholder image service.
	ImageBaseURL string
	// Timeout bounds each network step independently.
	Timeout time.Duration
	Logger  *slog.Logger
	// Metrics is optional.
	Metrics *metrics.Metrics
}

// Pipeline runs the summary and geocode lookups in order and builds the
// image URL from the final search query.
type Pipeline struct {
	summaries SummaryFetcher
	geocoder  Geocoder
	imageBase string
	timeout   time.Duration
	log       *slog.Logger
	metrics   *metrics.Metrics
}

// NewPipeline constructs a Pipeline. A zero Timeout falls back to 5s and a
// nil Logger to slog.Default().
func NewPipeline(summaries SummaryFetcher, geocoder Geocoder, opts Options) *Pipeline {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Pipeline{
		summaries: summaries,
		geocoder:  geocoder,
		imageBase: strings.TrimRight(opts.ImageBaseURL, "/"),
		timeout:   opts.Timeout,
		log:       opts.Logger,
		metrics:   opts.Metrics,
	}
}

// Enrich never fails. The steps run strictly one after another, each under
// its own timeout derived from ctx.
func (p *Pipeline) Enrich(ctx context.Context, destination string, interests []string) Result {
	start := time.Now()

	res := Result{
		SearchQuery: destination,
		Overview:    DefaultOverview(destination, interests),
	}
	res.apply(p.summaryStep(ctx, res.SearchQuery))
	res.apply(p.geocodeStep(ctx, res.SearchQuery))
	res.ImageURL = ImageURL(p.imageBase, res.SearchQuery)

	if p.metrics != nil {
		p.metrics.ObserveEnrich(time.Since(start))
	}
	return res
}

func (p *Pipeline) summaryStep(ctx context.Context, query string) update {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	s, err := p.summaries.FetchSummary(ctx, query)
	if err != nil {
		p.log.WarnContext(ctx, "summary lookup failed, using default overview",
			"destination", query, "error", err)
		p.observe(StepSummary, metrics.OutcomeError)
		return update{}
	}
	p.observe(StepSummary, metrics.OutcomeOK)

	var u update
	if s.Extract != "" {
		u.overview = &s.Extract
	}
	if s.Title != "" {
		u.searchQuery = &s.Title
	}
	u.coordinates = s.Coordinates
	return u
}

func (p *Pipeline) geocodeStep(ctx context.Context, query string) update {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	c, err := p.geocoder.Geocode(ctx, query)
	if err != nil {
		p.log.WarnContext(ctx, "geocoding failed, keeping previous coordinates",
			"query", query, "error", err)
		p.observe(StepGeocode, metrics.OutcomeError)
		return update{}
	}
	if c == nil {
		p.log.DebugContext(ctx, "geocoding returned no match", "query", query)
		p.observe(StepGeocode, metrics.OutcomeMiss)
		return update{}
	}
	p.observe(StepGeocode, metrics.OutcomeOK)
	return update{coordinates: c}
}

func (p *Pipeline) observe(step, outcome string) {
	if p.metrics != nil {
		p.metrics.ObserveStep(step, outcome)
	}
}

// DefaultOverview is the overview used when no encyclopedia extract is available.
func DefaultOverview(destination string, interests []string) string {
	tailored := "everything"
	if len(interests) > 0 {
		tailored = strings.Join(interests, ", ")
	}
	return fmt.Sprintf("Get ready for an amazing adventure in %s. This itinerary is tailored to your interests: %s.",
		destination, tailored)
}

// ImageURL builds the placeholder cover image URL for query.
// The service picks a photo matching both the query and the "city" tag.
func ImageURL(base, query string) string {
	return strings.TrimRight(base, "/") + "/1200/400/" + url.PathEscape(query) + ",city/all"
}
