package places

import (
	"context"
	"log/slog"

	"github.com/neexbeast/geoguide/internal/geo"
)

// UnknownLocation is shown when coordinates cannot be named.
const UnknownLocation = "your location"

// NameCache stores reverse-geocoded names. Get returns "" on a miss.
type NameCache interface {
	Get(ctx context.Context, at geo.Coordinate) (string, error)
	Set(ctx context.Context, at geo.Coordinate, name string) error
}

// geocoder is the interface satisfied by MapsClient.
type geocoder interface {
	ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error)
}

// Locator names coordinates, consulting an optional cache first.
type Locator struct {
	geocoder geocoder
	cache    NameCache
	logger   *slog.Logger
}

// NewLocator constructs a Locator. cache may be nil.
func NewLocator(g geocoder, cache NameCache, logger *slog.Logger) *Locator {
	return &Locator{geocoder: g, cache: cache, logger: logger}
}

// Name returns a human-readable name for at, or UnknownLocation. It never fails.
func (l *Locator) Name(ctx context.Context, at geo.Coordinate) string {
	if l.cache != nil {
		cached, err := l.cache.Get(ctx, at)
		if err != nil {
			l.logger.Warn("location cache get failed", "at", at.String(), "err", err)
		} else if cached != "" {
			return cached
		}
	}

	name, err := l.geocoder.ReverseGeocode(ctx, at)
	if err != nil {
		l.logger.Warn("reverse geocode failed", "at", at.String(), "err", err)
		return UnknownLocation
	}

	if l.cache != nil {
		if err := l.cache.Set(ctx, at, name); err != nil {
			l.logger.Warn("location cache set failed", "at", at.String(), "err", err)
		}
	}

	return name
}
