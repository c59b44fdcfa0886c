package intent

import (
	"strings"
	"unicode/utf8"
)

// Category is the high-level purpose of a query.
type Category string

const (
	Food           Category = "food"
	Drink          Category = "drink"
	Accommodation  Category = "accommodation"
	Entertainment  Category = "entertainment"
	Shopping       Category = "shopping"
	Health         Category = "health"
	Services       Category = "services"
	Transport      Category = "transport"
	Recreation     Category = "recreation"
	Recommendation Category = "recommendation"
	General        Category = "general"
)

// Price preferences. Empty means no preference.
const (
	PriceBudget    = "budget"
	PriceExpensive = "expensive"
)

// Radius preferences. Empty means no preference.
const (
	RadiusNearby = "nearby"
	RadiusFar    = "far"
)

// DefaultQuery is used when nothing meaningful survives stop-word removal.
const DefaultQuery = "places"

// Result is the classified intent of one chat turn.
type Result struct {
	IntentType        string   `json:"intent_type"`
	PlaceType         string   `json:"place_type"`
	SearchQuery       string   `json:"search_query"`
	Category          Category `json:"category"`
	PricePreference   string   `json:"price_preference,omitempty"`
	RadiusPreference  string   `json:"radius_preference,omitempty"`
	AdditionalContext string   `json:"additional_context"`
	ShouldSearch      bool     `json:"should_search"`
}

type rule struct {
	keyword   string
	placeType string
	query     string
	category  Category
}

// rules are evaluated in order and the first keyword contained in the text wins,
// so broader keywords must stay below the specific ones they overlap with.
var rules = []rule{
	{"biryani", "restaurant", "biryani", Food},
	{"biriyani", "restaurant", "biriyani", Food},
	{"pizza", "restaurant", "pizza", Food},
	{"coffee", "cafe", "coffee", Drink},
	{"tea", "cafe", "tea", Drink},
	{"restaurant", "restaurant", "restaurant", Food},
	{"food", "restaurant", "food", Food},
	{"dinner", "restaurant", "dinner", Food},
	{"lunch", "restaurant", "lunch", Food},
	{"breakfast", "restaurant", "breakfast", Food},

	{"hotel", "lodging", "hotel", Accommodation},
	{"stay", "lodging", "hotel", Accommodation},
	{"lodging", "lodging", "lodging", Accommodation},

	{"movie", "movie_theater", "cinema", Entertainment},
	{"theater", "movie_theater", "theater", Entertainment},
	{"cinema", "movie_theater", "cinema", Entertainment},

	{"park", "park", "park", Recreation},
	{"garden", "park", "garden", Recreation},

	{"mall", "shopping_mall", "shopping mall", Shopping},
	{"shopping", "shopping_mall", "shopping", Shopping},
	{"market", "shopping_mall", "market", Shopping},

	{"pharmacy", "pharmacy", "pharmacy", Health},
	{"hospital", "hospital", "hospital", Health},
	{"doctor", "hospital", "hospital", Health},

	{"atm", "atm", "atm", Services},
	{"bank", "bank", "bank", Services},

	{"gas", "gas_station", "petrol pump", Transport},
	{"petrol", "gas_station", "petrol pump", Transport},
	{"bus", "bus_station", "bus station", Transport},

	{"best", "", "popular places", Recommendation},
	{"top", "", "best places", Recommendation},
	{"recommend", "", "recommended places", Recommendation},
	{"popular", "", "popular places", Recommendation},
	{"nearby", "", "nearby places", General},
	{"near", "", "places", General},
	{"around", "", "places", General},
	{"places", "", "places", General},
}

var stopWords = map[string]struct{}{
	"find": {}, "search": {}, "look": {}, "for": {}, "me": {}, "i": {}, "want": {},
	"to": {}, "go": {}, "the": {}, "a": {}, "an": {}, "and": {}, "or": {},
	"please": {}, "can": {}, "you": {}, "help": {}, "show": {}, "tell": {},
}

var (
	budgetTerms    = []string{"cheap", "budget", "low price", "affordable", "under", "less than"}
	expensiveTerms = []string{"expensive", "luxury", "premium", "high end"}
	nearbyTerms    = []string{"nearby", "close", "walking", "within walking"}
	farTerms       = []string{"far", "distant", "drive"}
)

// Classify maps free text to a search intent using keyword containment.
func Classify(text string) Result {
	lower := strings.ToLower(text)

	matched, ok := firstRule(lower)
	if !ok {
		matched = rule{query: fallbackQuery(lower), category: General}
	}

	return Result{
		IntentType:        "search_places",
		PlaceType:         matched.placeType,
		SearchQuery:       matched.query,
		Category:          matched.category,
		PricePreference:   pricePreference(lower),
		RadiusPreference:  radiusPreference(lower),
		AdditionalContext: "looking for " + string(matched.category) + " options",
		ShouldSearch:      true,
	}
}

func firstRule(lower string) (rule, bool) {
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			return r, true
		}
	}
	return rule{}, false
}

func fallbackQuery(lower string) string {
	var kept []string
	for _, w := range strings.Fields(lower) {
		if _, stop := stopWords[w]; stop || utf8.RuneCountInString(w) <= 2 {
			continue
		}
		kept = append(kept, w)
		if len(kept) == 3 {
			break
		}
	}
	if len(kept) == 0 {
		return DefaultQuery
	}
	return strings.Join(kept, " ")
}

func pricePreference(lower string) string {
	switch {
	case containsAny(lower, budgetTerms):
		return PriceBudget
	case containsAny(lower, expensiveTerms):
		return PriceExpensive
	}
	return ""
}

func radiusPreference(lower string) string {
	switch {
	case containsAny(lower, nearbyTerms):
		return RadiusNearby
	case containsAny(lower, farTerms):
		return RadiusFar
	}
	return ""
}

func containsAny(s string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}
