package geocode

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGoogleGeocode_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"status": "OK",
			"results": [{
				"geometry": {
					"location": {"lat": 40.7484, "lng": -73.9857},
					"location_type": "RANGE_INTERPOLATED"
				},
				"formatted_address": "350 5th Ave, New York, NY 10118"
			}]
		}`)
	}))
	defer srv.Close()

	g := &geocoder{
		httpClient: providerClient(srv.URL, googleGeocodeURL),
		limiter:    newTestLimiter(),
		googleKey:  "test-key",
	}

	result, err := g.geocodeGoogle(context.Background(), "350 5th Ave, New York, NY")
	require.NoError(t, err)
	assert.True(t, result.Matched)
	assert.InDelta(t, 40.7484, result.Latitude, 0.0001)
	assert.InDelta(t, -73.9857, result.Longitude, 0.0001)
	assert.Equal(t, "google", result.Source)
	assert.Equal(t, "range", result.Quality)
}

func TestGoogleGeocode_ZeroResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"status": "ZERO_RESULTS", "results": []}`)
	}))
	defer srv.Close()

	g := &geocoder{
		httpClient: providerClient(srv.URL, googleGeocodeURL),
		limiter:    newTestLimiter(),
		googleKey:  "test-key",
	}

	result, err := g.geocodeGoogle(context.Background(), "gibberish")
	require.NoError(t, err)
	assert.False(t, result.Matched)
	assert.Equal(t, "google", result.Source)
}

func TestGoogleGeocode_NoKey(t *testing.T) {
	g := &geocoder{limiter: newTestLimiter()}
	_, err := g.geocodeGoogle(context.Background(), "100 Main St")
	assert.Error(t, err)
}

func TestGoogleLocationTypeToQuality(t *testing.T) {
	tests := []struct {
		locType string
		want    string
	}{
		{"ROOFTOP", "rooftop"},
		{"rooftop", "rooftop"},
		{"RANGE_INTERPOLATED", "range"},
		{"GEOMETRIC_CENTER", "centroid"},
		{"APPROXIMATE", "approximate"},
		{"SOMETHING_NEW", "approximate"},
		{"", "approximate"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, googleLocationTypeToQuality(tt.locType), tt.locType)
	}
}
