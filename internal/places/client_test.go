package places_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/places"
)

func geocodeServer(t *testing.T, body map[string]any) *places.MapsClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/geocode/json", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return places.NewMapsClientWithURL(srv.URL, "test-key")
}

func component(name string, types ...string) map[string]any {
	return map[string]any{"long_name": name, "types": types}
}

func TestReverseGeocode_FirstMatchingComponent(t *testing.T) {
	c := geocodeServer(t, map[string]any{
		"status": "OK",
		"results": []map[string]any{{
			"formatted_address": "12 Anna Salai, Chennai, Tamil Nadu",
			"address_components": []map[string]any{
				component("12", "street_number"),
				component("Tamil Nadu", "administrative_area_level_1", "political"),
				component("Chennai", "locality", "political"),
			},
		}},
	})

	name, err := c.ReverseGeocode(context.Background(), chennai)
	require.NoError(t, err)
	// Components are scanned in order, so the state comes before the city here.
	assert.Equal(t, "Tamil Nadu", name)
}

func TestReverseGeocode_FormattedAddressFallback(t *testing.T) {
	c := geocodeServer(t, map[string]any{
		"status": "OK",
		"results": []map[string]any{{
			"formatted_address": " Marina Beach , Chennai",
			"address_components": []map[string]any{
				component("Beach Road", "route"),
			},
		}},
	})

	name, err := c.ReverseGeocode(context.Background(), chennai)
	require.NoError(t, err)
	assert.Equal(t, "Marina Beach", name)
}

func TestReverseGeocode_NoResults(t *testing.T) {
	c := geocodeServer(t, map[string]any{"status": "ZERO_RESULTS", "results": []any{}})

	_, err := c.ReverseGeocode(context.Background(), chennai)
	require.Error(t, err)
	assert.True(t, errors.Is(err, places.ErrNoLocationName))
}

func TestReverseGeocode_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	c := places.NewMapsClientWithURL(srv.URL, "secret-key")

	_, err := c.ReverseGeocode(context.Background(), chennai)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret-key")
}

func TestPing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Punjaipuliampatti", r.URL.Query().Get("address"))
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OK"})
	}))
	t.Cleanup(srv.Close)

	status, err := places.NewMapsClientWithURL(srv.URL, "k").Ping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "OK", status)
}

func TestNearbySearch_ProviderErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "REQUEST_DENIED", "error_message": "bad key"})
	}))
	t.Cleanup(srv.Close)

	_, err := places.NewMapsClientWithURL(srv.URL, "k").NearbySearch(context.Background(), places.NearbyRequest{
		Location:     geo.Coordinate{Lat: 1, Lng: 2},
		RadiusMeters: 1000,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_DENIED")
}

func TestPhotoURL(t *testing.T) {
	c := places.NewMapsClientWithURL("https://maps.test/api", "k")

	assert.Equal(t, "https://maps.test/api/place/photo?key=k&maxwidth=400&photoreference=abc", c.PhotoURL("abc"))
	assert.Empty(t, c.PhotoURL(""))
}
