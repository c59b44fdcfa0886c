package intent

// Search radii in meters.
const (
	RadiusNearbyMeters  = 2000
	RadiusDefaultMeters = 10000
	RadiusFarMeters     = 20000
)

// providerTypes lists the place types the places provider accepts as a type filter.
var providerTypes = map[string]struct{}{
	"restaurant":    {},
	"cafe":          {},
	"lodging":       {},
	"park":          {},
	"shopping_mall": {},
	"movie_theater": {},
	"pharmacy":      {},
	"hospital":      {},
	"atm":           {},
	"bank":          {},
	"gas_station":   {},
	"bus_station":   {},
}

// SearchParams are the provider-facing parameters derived from a Result.
type SearchParams struct {
	Query             string   `json:"query"`
	ProviderType      string   `json:"type"`
	PlaceType         string   `json:"place_type"`
	Category          Category `json:"category"`
	PricePreference   string   `json:"price_preference,omitempty"`
	RadiusMeters      int      `json:"radius"`
	AdditionalContext string   `json:"additional_context"`
	ShouldSearch      bool     `json:"should_search"`
}

// BuildParams translates a classified intent into search parameters.
func BuildParams(r Result) SearchParams {
	providerType := ""
	if _, ok := providerTypes[r.PlaceType]; ok {
		providerType = r.PlaceType
	}

	category := r.Category
	if category == "" {
		category = General
	}

	return SearchParams{
		Query:             r.SearchQuery,
		ProviderType:      providerType,
		PlaceType:         r.PlaceType,
		Category:          category,
		PricePreference:   r.PricePreference,
		RadiusMeters:      radiusMeters(r.RadiusPreference),
		AdditionalContext: r.AdditionalContext,
		ShouldSearch:      true,
	}
}

func radiusMeters(pref string) int {
	switch pref {
	case RadiusNearby:
		return RadiusNearbyMeters
	case RadiusFar:
		return RadiusFarMeters
	default:
		return RadiusDefaultMeters
	}
}
