package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func geocoderAgainst(t *testing.T, handler http.HandlerFunc) (*GoogleGeocoder, func()) {
	t.Helper()
	srv := httptest.NewServer(handler)
	g := NewGoogleGeocoder("test-key")
	g.BaseURL = srv.URL
	return g, srv.Close
}

func TestGeocode_Success(t *testing.T) {
	g, done := geocoderAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected api key in query, got %q", got)
		}
		fmt.Fprint(w, `{
			"status": "OK",
			"results": [{
				"formatted_address": "123 Main St, Parma, OH 44129, USA",
				"geometry": {"location": {"lat": 41.4048, "lng": -81.7229}}
			}]
		}`)
	})
	defer done()

	result, err := g.Geocode(context.Background(), "123 Main St, Parma, OH")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Latitude != 41.4048 || result.Longitude != -81.7229 {
		t.Fatalf("unexpected coordinates: %v, %v", result.Latitude, result.Longitude)
	}
	if result.FormattedAddress != "123 Main St, Parma, OH 44129, USA" {
		t.Fatalf("unexpected formatted address: %s", result.FormattedAddress)
	}
}

func TestGeocode_ZeroResults(t *testing.T) {
	g, done := geocoderAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "ZERO_RESULTS", "results": []}`)
	})
	defer done()

	_, err := g.Geocode(context.Background(), "nowhere at all")
	var geoErr *GeocodeError
	if !errors.As(err, &geoErr) {
		t.Fatalf("expected GeocodeError, got %v", err)
	}
	if !geoErr.NoResults() {
		t.Fatal("expected NoResults to be true for ZERO_RESULTS")
	}
}

func TestGeocode_APIError(t *testing.T) {
	g, done := geocoderAgainst(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status": "REQUEST_DENIED", "error_message": "bad key", "results": []}`)
	})
	defer done()

	_, err := g.Geocode(context.Background(), "123 Main St")
	var geoErr *GeocodeError
	if !errors.As(err, &geoErr) {
		t.Fatalf("expected GeocodeError, got %v", err)
	}
	if geoErr.NoResults() {
		t.Fatal("REQUEST_DENIED is not a zero-results outcome")
	}
}

func TestNormalizeAddress(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123 Main St, Parma, OH 44129", "123 Main St, Parma, OH 44129"},
		{"123 Main St, Cleveland", "123 Main St, Cleveland, Ohio"},
		{"123 Main St", "123 Main St, Ohio, Cleveland area"},
	}
	for _, tc := range cases {
		if got := normalizeAddress(tc.in); got != tc.want {
			t.Errorf("normalizeAddress(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
