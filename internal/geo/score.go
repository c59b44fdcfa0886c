package geo

import (
	"math"
	"strings"
)

var priceLevels = [...]string{
	"Free",
	"Very affordable (under ₹200)",
	"Moderate (₹200-500)",
	"Expensive (₹500-1000)",
	"Premium (₹1000+)",
}

// PriceText maps a provider price level (0-4) to a human label.
func PriceText(level *int) string {
	if level == nil {
		return "Price not available"
	}
	if *level < 0 || *level >= len(priceLevels) {
		return "Price varies"
	}
	return priceLevels[*level]
}

// Score component caps.
const (
	maxRatingScore  = 40.0
	maxReviewScore  = 30.0
	categoryBonus   = 5.0
	maxProviderStar = 5.0
)

// PopularityScore ranks a place by rating, review volume, proximity and category.
// A nil rating counts as zero.
func PopularityScore(rating *float64, totalRatings int, distanceKM float64, category string) float64 {
	var r float64
	if rating != nil {
		r = *rating
	}
	ratingScore := r / maxProviderStar * maxRatingScore

	var reviewScore float64
	if totalRatings > 0 {
		reviewScore = math.Min(maxReviewScore, math.Sqrt(float64(totalRatings)))
	}

	var bonus float64
	// Only "restaurant" satisfies both checks; kept as shipped, pending product review.
	if (category == "food" || category == "restaurant") && strings.Contains(category, "restaurant") {
		bonus = categoryBonus
	}

	return ratingScore + reviewScore + distanceScore(distanceKM) + bonus
}

func distanceScore(km float64) float64 {
	switch {
	case km < 1:
		return 30
	case km < 3:
		return 25
	case km < 5:
		return 20
	case km < 10:
		return 15
	case km < 20:
		return 10
	default:
		return 5
	}
}
