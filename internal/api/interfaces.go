package api

import (
	"context"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/intent"
	"github.com/neexbeast/geoguide/internal/narrate"
	"github.com/neexbeast/geoguide/internal/places"
)

// PlaceSearcher defines the place lookups needed by handlers.
type PlaceSearcher interface {
	Search(ctx context.Context, origin geo.Coordinate, params intent.SearchParams) []places.Place
	Detail(ctx context.Context, placeID string, origin *geo.Coordinate) (*places.Detail, error)
}

// LocationNamer turns coordinates into a display name. It never fails.
type LocationNamer interface {
	Name(ctx context.Context, at geo.Coordinate) string
}

// Narrator defines the text generation needed by handlers.
type Narrator interface {
	Compose(ctx context.Context, in narrate.ComposeInput) (string, bool)
	Greeting(ctx context.Context, username, location string) (string, bool)
	PlaceDetail(ctx context.Context, p places.Place, location string) (string, bool)
	Probe(ctx context.Context) (string, error)
	Available() bool
	Model() string
}

// MapsProber checks the maps provider for the status endpoint.
type MapsProber interface {
	Ping(ctx context.Context) (string, error)
}

// Pinger is a dependency checked by the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}
