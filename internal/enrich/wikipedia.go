package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// WikipediaClient reads page summaries from the Wikipedia REST API.
// Redirects are followed, which is how misspelled or ambiguous names come
// back with their canonical title.
type WikipediaClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewWikipediaClient constructs a client for baseURL, e.g.
// "https://en.wikipedia.org/api/rest_v1". A nil client uses http.DefaultClient.
func NewWikipediaClient(baseURL, userAgent string, client *http.Client) *WikipediaClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &WikipediaClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      client,
	}
}

type wikiSummary struct {
	Title       string `json:"title"`
	Extract     string `json:"extract"`
	Coordinates *struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coordinates"`
}

// FetchSummary implements SummaryFetcher.
func (c *WikipediaClient) FetchSummary(ctx context.Context, query string) (Summary, error) {
	u := c.baseURL + "/page/summary/" + url.PathEscape(query)

	var body wikiSummary
	if err := getJSON(ctx, c.http, u, c.userAgent, &body); err != nil {
		return Summary{}, fmt.Errorf("enrich.WikipediaClient.FetchSummary: %w", err)
	}

	s := Summary{Title: body.Title, Extract: body.Extract}
	if body.Coordinates != nil {
		s.Coordinates = &Coordinates{Latitude: body.Coordinates.Lat, Longitude: body.Coordinates.Lon}
	}
	return s, nil
}
