package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// Geocoder resolves a free-text address to coordinates.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}

type GeocodeResult struct {
	Latitude         float64
	Longitude        float64
	FormattedAddress string
}

// Geocoding failure kinds. A ZERO_RESULTS response is the caller's input
// problem; anything else from the API is an upstream problem.
type GeocodeError struct {
	Status       string
	ErrorMessage string
}

func (e *GeocodeError) Error() string {
	if e.ErrorMessage != "" {
		return fmt.Sprintf("geocoding failed: %s (%s)", e.Status, e.ErrorMessage)
	}
	return fmt.Sprintf("geocoding failed: %s", e.Status)
}

// NoResults reports whether the address simply did not resolve, as opposed to
// the API being unavailable or rejecting the request.
func (e *GeocodeError) NoResults() bool {
	return e.Status == "ZERO_RESULTS"
}

type GoogleGeocoder struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	return &GoogleGeocoder{
		APIKey:  apiKey,
		BaseURL: "https://maps.googleapis.com/maps/api/geocode/json",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type geocodeResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message"`
	Results      []struct {
		FormattedAddress string `json:"formatted_address"`
		Geometry         struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"results"`
}

var zipPattern = regexp.MustCompile(`\d{5}`)

// normalizeAddress biases ambiguous input toward the service region before
// geocoding.
func normalizeAddress(address string) string {
	search := address
	lower := strings.ToLower(search)
	if !strings.Contains(lower, "ohio") && !strings.Contains(lower, "oh") {
		search += ", Ohio"
	}
	if !zipPattern.MatchString(search) && !strings.Contains(search, "Cleveland") {
		search += ", Cleveland area"
	}
	return search
}

func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	q := url.Values{}
	q.Set("address", normalizeAddress(address))
	q.Set("key", g.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geocoding request failed: %w", err)
	}
	defer resp.Body.Close()

	var body geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode geocoding response: %w", err)
	}

	if body.Status != "OK" || len(body.Results) == 0 {
		return nil, &GeocodeError{Status: body.Status, ErrorMessage: body.ErrorMessage}
	}

	loc := body.Results[0]
	return &GeocodeResult{
		Latitude:         loc.Geometry.Location.Lat,
		Longitude:        loc.Geometry.Location.Lng,
		FormattedAddress: loc.FormattedAddress,
	}, nil
}
