package places

import (
	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/navigation"
)

// Display defaults for fields the provider left empty.
const (
	DefaultName    = "Unnamed Place"
	DefaultAddress = "Address not available"
	PhoneMissing   = "Not available"
)

// ---- provider wire types ----

type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress  string `json:"formatted_address"`
		AddressComponents []struct {
			LongName string   `json:"long_name"`
			Types    []string `json:"types"`
		} `json:"address_components"`
	} `json:"results"`
	ErrorMessage string `json:"error_message,omitempty"`
}

type nearbyResponse struct {
	Status       string     `json:"status"`
	Results      []RawPlace `json:"results"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

type detailsResponse struct {
	Status string   `json:"status"`
	Result RawPlace `json:"result"`
}

// RawPlace is a place record as returned by the nearby search and details endpoints.
// Pointer fields distinguish "absent" from zero.
type RawPlace struct {
	PlaceID              string        `json:"place_id"`
	Name                 string        `json:"name"`
	Vicinity             string        `json:"vicinity,omitempty"`
	FormattedAddress     string        `json:"formatted_address,omitempty"`
	FormattedPhoneNumber string        `json:"formatted_phone_number,omitempty"`
	Website              string        `json:"website,omitempty"`
	PriceLevel           *int          `json:"price_level,omitempty"`
	Rating               *float64      `json:"rating,omitempty"`
	UserRatingsTotal     int           `json:"user_ratings_total,omitempty"`
	Geometry             *Geometry     `json:"geometry,omitempty"`
	OpeningHours         *OpeningHours `json:"opening_hours,omitempty"`
	Photos               []Photo       `json:"photos,omitempty"`
	Types                []string      `json:"types,omitempty"`
}

// Geometry holds the place's position.
type Geometry struct {
	Location *geo.Coordinate `json:"location,omitempty"`
}

// OpeningHours is the provider's opening-hours block.
type OpeningHours struct {
	OpenNow     *bool    `json:"open_now,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

// Photo is a photo reference.
type Photo struct {
	Height           int      `json:"height"`
	Width            int      `json:"width"`
	PhotoReference   string   `json:"photo_reference"`
	HTMLAttributions []string `json:"html_attributions"`
}

// NearbyRequest are the parameters of a single nearby search call.
type NearbyRequest struct {
	Location     geo.Coordinate
	RadiusMeters int
	Type         string
	Keyword      string
}

// ---- domain types ----

// Place is a ranked, enriched search result.
type Place struct {
	Name            string            `json:"name"`
	Address         string            `json:"address"`
	Rating          *float64          `json:"rating"`
	TotalRatings    int               `json:"total_ratings"`
	PriceLevel      *int              `json:"price_level"`
	PriceText       string            `json:"price_text"`
	Location        geo.Coordinate    `json:"location"`
	PlaceID         string            `json:"place_id"`
	Types           []string          `json:"types"`
	PhotoURL        string            `json:"photo_url,omitempty"`
	OpenNow         *bool             `json:"open_now"`
	Phone           string            `json:"phone"`
	PhoneE164       string            `json:"phone_e164,omitempty"`
	Website         string            `json:"website"`
	DistanceKM      float64           `json:"distance_km"`
	DistanceText    string            `json:"distance_text"`
	PopularityScore float64           `json:"popularity_score"`
	Navigation      navigation.Bundle `json:"navigation_url"`
}

// HasPhone reports whether the place has a usable phone number.
func (p Place) HasPhone() bool {
	return p.Phone != "" && p.Phone != PhoneMissing
}

// Detail is the full record served by the place-details endpoint.
type Detail struct {
	Name         string            `json:"name"`
	Address      string            `json:"address"`
	Phone        string            `json:"phone"`
	PhoneE164    string            `json:"phone_e164,omitempty"`
	Website      string            `json:"website"`
	Rating       float64           `json:"rating"`
	TotalRatings int               `json:"total_ratings"`
	PriceLevel   *int              `json:"price_level"`
	PriceText    string            `json:"price_text"`
	OpeningHours []string          `json:"opening_hours"`
	Photos       []Photo           `json:"photos"`
	Location     *geo.Coordinate   `json:"location"`
	Navigation   navigation.Bundle `json:"navigation"`
}
