package navigation

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/neexbeast/geoguide/internal/geo"
)

// EstimatedTime holds ETAs for each travel mode.
type EstimatedTime struct {
	Driving string `json:"driving"`
	Walking string `json:"walking"`
}

// Bundle is the set of deep links and the distance summary for one origin/destination pair.
// The zero value is the "no navigation" bundle and serializes to {}.
type Bundle struct {
	GoogleMapsDrive string         `json:"google_maps_drive,omitempty"`
	GoogleMapsWalk  string         `json:"google_maps_walk,omitempty"`
	AppleMaps       string         `json:"apple_maps,omitempty"`
	Waze            string         `json:"waze,omitempty"`
	OpenStreetMap   string         `json:"openstreetmap,omitempty"`
	EmbeddedMap     string         `json:"embedded_map,omitempty"`
	DistanceKM      float64        `json:"distance_km,omitempty"`
	EstimatedTime   *EstimatedTime `json:"estimated_time,omitempty"`
	DirectionsText  string         `json:"directions_text,omitempty"`
}

// IsZero reports whether the bundle carries no navigation data.
func (b Bundle) IsZero() bool {
	return b.GoogleMapsDrive == "" && b.EstimatedTime == nil
}

// Builder produces navigation bundles. The maps key is only needed for the embed link.
type Builder struct {
	embedKey string
}

// NewBuilder constructs a Builder using mapsKey for embeddable map links.
func NewBuilder(mapsKey string) *Builder {
	return &Builder{embedKey: mapsKey}
}

// Build returns deep links from origin to dest. Either side missing yields an empty bundle.
func (b *Builder) Build(origin, dest *geo.Coordinate) Bundle {
	if origin == nil || dest == nil {
		return Bundle{}
	}

	from := origin.String()
	to := dest.String()

	km := geo.HaversineKM(*origin, *dest)
	drive := geo.ETA(km, geo.Driving)
	walk := geo.ETA(km, geo.Walking)
	rounded := geo.Round(km, 1)

	return Bundle{
		GoogleMapsDrive: googleDirections(from, to, "driving"),
		GoogleMapsWalk:  googleDirections(from, to, "walking"),
		AppleMaps:       "http://maps.apple.com/?daddr=" + to + "&saddr=" + from,
		Waze:            "https://waze.com/ul?ll=" + to + "&navigate=yes",
		OpenStreetMap: "https://www.openstreetmap.org/directions?engine=graphhopper_foot&route=" +
			url.QueryEscape(from+";"+to),
		EmbeddedMap: fmt.Sprintf(
			"https://www.google.com/maps/embed/v1/directions?key=%s&origin=%s&destination=%s&mode=driving",
			url.QueryEscape(b.embedKey), from, to,
		),
		DistanceKM:     rounded,
		EstimatedTime:  &EstimatedTime{Driving: drive, Walking: walk},
		DirectionsText: fmt.Sprintf("%s km away • %s by car • %s walking", strconv.FormatFloat(rounded, 'f', 1, 64), drive, walk),
	}
}

func googleDirections(from, to, mode string) string {
	return "https://www.google.com/maps/dir/?api=1&origin=" + from + "&destination=" + to + "&travelmode=" + mode
}
