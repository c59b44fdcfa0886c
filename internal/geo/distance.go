package geo

import (
	"fmt"
	"math"
	"strconv"
)

const earthRadiusKM = 6371.0

// Coordinate is a WGS 84 latitude/longitude pair.
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Valid reports whether both components are inside their legal ranges.
func (c Coordinate) Valid() bool {
	return c.Lat >= -90 && c.Lat <= 90 && c.Lng >= -180 && c.Lng <= 180
}

// String formats the coordinate as "lat,lng" without trailing zeros.
func (c Coordinate) String() string {
	return FormatDegrees(c.Lat) + "," + FormatDegrees(c.Lng)
}

// FormatDegrees renders a coordinate component with the shortest exact representation.
func FormatDegrees(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// HaversineKM returns the great-circle distance between a and b in kilometers.
func HaversineKM(a, b Coordinate) float64 {
	lat1 := radians(a.Lat)
	lat2 := radians(b.Lat)
	dLat := radians(b.Lat - a.Lat)
	dLng := radians(b.Lng - a.Lng)

	h := math.Pow(math.Sin(dLat/2), 2) + math.Cos(lat1)*math.Cos(lat2)*math.Pow(math.Sin(dLng/2), 2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKM * c
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}

// Mode is a travel mode used for ETA estimates.
type Mode string

const (
	Driving Mode = "driving"
	Walking Mode = "walking"
)

// Average city speeds in km/h.
const (
	drivingSpeedKMH = 40.0
	walkingSpeedKMH = 5.0
)

// ETA estimates travel time for distanceKM. Unknown modes are treated as driving.
func ETA(distanceKM float64, mode Mode) string {
	speed := drivingSpeedKMH
	if mode == Walking {
		speed = walkingSpeedKMH
	}

	minutes := distanceKM / speed * 60
	switch {
	case minutes < 1:
		return "Less than 1 min"
	case minutes < 60:
		return fmt.Sprintf("%d mins", int(minutes))
	}

	hours := int(minutes / 60)
	mins := int(math.Mod(minutes, 60))
	if mins > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dh", hours)
}

// DistanceText renders a distance for people: meters under 1 km,
// one decimal under 10 km, whole kilometers beyond.
func DistanceText(distanceKM float64) string {
	switch {
	case distanceKM < 1:
		return fmt.Sprintf("%dm", int(distanceKM*1000))
	case distanceKM < 10:
		return strconv.FormatFloat(Round(distanceKM, 1), 'f', 1, 64) + "km"
	default:
		return fmt.Sprintf("%dkm", int(distanceKM))
	}
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
