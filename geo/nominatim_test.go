package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNominatimGeocoder_Lookup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "48.85837", r.URL.Query().Get("lat"))
		assert.Equal(t, "2.29448", r.URL.Query().Get("lon"))
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"display_name": "Tour Eiffel, Paris, France"}`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(WithBaseURL(server.URL))
	place, err := geocoder.Lookup(context.Background(), 48.85837, 2.29448)
	require.NoError(t, err)
	assert.Equal(t, "Tour Eiffel, Paris, France", place)
}

func TestNominatimGeocoder_NoResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"error": "Unable to geocode"}`))
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(WithBaseURL(server.URL))
	_, err := geocoder.Lookup(context.Background(), 0, 0)
	assert.ErrorIs(t, err, ErrNoResult)
}

func TestNominatimGeocoder_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	geocoder := NewNominatimGeocoder(WithBaseURL(server.URL))
	_, err := geocoder.Lookup(context.Background(), 1, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}

func TestNominatimGeocoder_Unreachable(t *testing.T) {
	// Closed server: transport error must surface, not ErrNoResult
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	geocoder := NewNominatimGeocoder(WithBaseURL(server.URL))
	_, err := geocoder.Lookup(context.Background(), 1, 1)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoResult)
}
