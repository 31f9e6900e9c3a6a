package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// NominatimClient geocodes place names with the OpenStreetMap Nominatim API.
type NominatimClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewNominatimClient constructs a client for baseURL, e.g.
// "https://nominatim.openstreetmap.org". Nominatim's usage policy requires
// an identifying userAgent. A nil client uses http.DefaultClient.
func NewNominatimClient(baseURL, userAgent string, client *http.Client) *NominatimClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &NominatimClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		http:      client,
	}
}

// Nominatim returns coordinates as strings.
type nominatimPlace struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// Geocode implements Geocoder. Only the best match is requested.
func (c *NominatimClient) Geocode(ctx context.Context, query string) (*Coordinates, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	var places []nominatimPlace
	if err := getJSON(ctx, c.http, c.baseURL+"/search?"+params.Encode(), c.userAgent, &places); err != nil {
		return nil, fmt.Errorf("enrich.NominatimClient.Geocode: %w", err)
	}
	if len(places) == 0 {
		return nil, nil
	}

	// Parse both before returning so a bad lon never leaves a half-updated position.
	lat, err := strconv.ParseFloat(places[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("enrich.NominatimClient.Geocode: lat %q: %w", places[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(places[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("enrich.NominatimClient.Geocode: lon %q: %w", places[0].Lon, err)
	}
	return &Coordinates{Latitude: lat, Longitude: lon}, nil
}
