package navigation_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/navigation"
)

func TestBuild_MissingCoordinate(t *testing.T) {
	b := navigation.NewBuilder("maps-key")
	origin := &geo.Coordinate{Lat: 13.0827, Lng: 80.2707}

	assert.True(t, b.Build(nil, origin).IsZero())
	assert.True(t, b.Build(origin, nil).IsZero())

	raw, err := json.Marshal(b.Build(nil, nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(raw))
}

func TestBuild_Links(t *testing.T) {
	b := navigation.NewBuilder("maps-key")
	origin := &geo.Coordinate{Lat: 13.0827, Lng: 80.2707}
	dest := &geo.Coordinate{Lat: 13.06, Lng: 80.25}

	got := b.Build(origin, dest)
	require.False(t, got.IsZero())

	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&origin=13.0827,80.2707&destination=13.06,80.25&travelmode=driving", got.GoogleMapsDrive)
	assert.Equal(t, "https://www.google.com/maps/dir/?api=1&origin=13.0827,80.2707&destination=13.06,80.25&travelmode=walking", got.GoogleMapsWalk)
	assert.Equal(t, "http://maps.apple.com/?daddr=13.06,80.25&saddr=13.0827,80.2707", got.AppleMaps)
	assert.Equal(t, "https://waze.com/ul?ll=13.06,80.25&navigate=yes", got.Waze)
	assert.Equal(t, "https://www.openstreetmap.org/directions?engine=graphhopper_foot&route=13.0827%2C80.2707%3B13.06%2C80.25", got.OpenStreetMap)
	assert.Contains(t, got.EmbeddedMap, "key=maps-key")
	assert.Contains(t, got.EmbeddedMap, "mode=driving")
}

func TestBuild_Summary(t *testing.T) {
	b := navigation.NewBuilder("k")
	origin := &geo.Coordinate{Lat: 13.0827, Lng: 80.2707}
	dest := &geo.Coordinate{Lat: 13.06, Lng: 80.25}

	got := b.Build(origin, dest)

	assert.Equal(t, 3.4, got.DistanceKM)
	require.NotNil(t, got.EstimatedTime)
	assert.Equal(t, "5 mins", got.EstimatedTime.Driving)
	assert.Equal(t, "40 mins", got.EstimatedTime.Walking)
	assert.Equal(t, "3.4 km away • 5 mins by car • 40 mins walking", got.DirectionsText)
}

func TestBuild_SamePoint(t *testing.T) {
	b := navigation.NewBuilder("k")
	p := &geo.Coordinate{Lat: 10, Lng: 20}

	got := b.Build(p, p)
	assert.Equal(t, "0.0 km away • Less than 1 min by car • Less than 1 min walking", got.DirectionsText)
}
