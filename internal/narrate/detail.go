package narrate

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/neexbeast/geoguide/internal/places"
)

var detailPhrases = []string{
	"tell me more about",
	"more about",
	"details about",
	"info about",
	"information about",
	"tell me about",
}

var detailPattern = regexp.MustCompile(`(?i)(?:tell me more about|more about|details about|info about|information about|tell me about)\s+(.+)`)

// IsDetailQuery reports whether msg asks about a specific, already listed place.
func IsDetailQuery(msg string) bool {
	lower := strings.ToLower(msg)
	for _, phrase := range detailPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

// ExtractPlaceName pulls the place name out of a detail query. The result is lowercased
// unless no phrase is found, in which case the trimmed message is returned as is.
func ExtractPlaceName(msg string) string {
	msg = strings.TrimSpace(msg)
	lower := strings.ToLower(msg)

	if m := detailPattern.FindStringSubmatch(lower); m != nil {
		return strings.TrimSpace(m[1])
	}

	for _, phrase := range detailPhrases {
		if strings.Contains(lower, phrase) {
			return strings.TrimSpace(strings.ReplaceAll(lower, phrase, ""))
		}
	}

	return msg
}

// MatchPlace finds the first place in list whose name matches name. The predicates are
// tried together per place, in list order: containment either way, containment with
// spaces removed, then any word longer than two letters appearing in the place name.
func MatchPlace(name string, list []places.Place) (places.Place, bool) {
	query := strings.ToLower(name)
	squashedQuery := strings.ReplaceAll(query, " ", "")

	for _, p := range list {
		candidate := strings.ToLower(p.Name)
		if strings.Contains(candidate, query) ||
			strings.Contains(query, candidate) ||
			strings.Contains(strings.ReplaceAll(candidate, " ", ""), squashedQuery) ||
			anyWordIn(query, candidate) {
			return p, true
		}
	}
	return places.Place{}, false
}

func anyWordIn(query, candidate string) bool {
	for _, w := range strings.Fields(query) {
		if utf8.RuneCountInString(w) > 2 && strings.Contains(candidate, w) {
			return true
		}
	}
	return false
}

// NotInListMessage tells the traveler name is not among the listed places.
func NotInListMessage(name string, list []places.Place) string {
	var b strings.Builder
	fmt.Fprintf(&b, "I don't have **%s** in the current list. ", name)

	names := make([]string, 0, 3)
	for _, p := range list[:min(3, len(list))] {
		names = append(names, p.Name)
	}
	if len(names) > 0 {
		fmt.Fprintf(&b, "The places I showed you are: %s. ", strings.Join(names, ", "))
	}
	b.WriteString("Would you like details about any of these?")
	return b.String()
}

// PlaceDetail describes one place. The bool reports whether the generator produced it.
func (c *Composer) PlaceDetail(ctx context.Context, p places.Place, location string) (string, bool) {
	if c.gen != nil {
		text, err := c.generate(ctx, placePrompt(p, location))
		if err == nil {
			return text, true
		}
		c.logger.Warn("place description failed, using template", "model", c.gen.Model(), "place", p.Name, "err", err)
	}
	return placeDescription(p), false
}

func openStatus(p places.Place) string {
	switch {
	case p.OpenNow == nil:
		return "Hours not available"
	case *p.OpenNow:
		return "Open 🟢"
	default:
		return "Closed 🔴"
	}
}

func placePrompt(p places.Place, location string) string {
	return fmt.Sprintf(`You are a knowledgeable local guide in %s. A traveler is asking for more information about:

Place: %s

Details:
- Address: %s
- Rating: %s/5 stars (%d reviews)
- Price: %s
- Distance: %s away
- Status: %s
- Phone: %s
- Website: %s

Create a helpful, engaging description with:
1. A friendly introduction to the place
2. Key highlights (rating, price, distance)
3. Practical information (status, contact)
4. A recommendation or tip about visiting
5. End with an open-ended question to continue conversation
6. Use natural language with occasional emojis
7. Keep it conversational (150-200 words)

Make it sound like you're personally recommending this place to a friend!`,
		location,
		orDefault(p.Name, "Unknown Place"),
		orDefault(p.Address, places.DefaultAddress),
		ratingOr(p.Rating, "Not rated"),
		p.TotalRatings,
		orDefault(p.PriceText, "Price information not available"),
		orDefault(p.DistanceText, "Distance not available"),
		openStatus(p),
		orDefault(p.Phone, places.PhoneMissing),
		orDefault(p.Website, "Not available"),
	)
}

func placeDescription(p places.Place) string {
	parts := []string{fmt.Sprintf("**%s** is located at %s.", p.Name, p.Address)}

	if p.Rating != nil && *p.Rating > 0 {
		parts = append(parts, fmt.Sprintf("It has a rating of **%s/5 ⭐** from %d reviews.", formatRating(*p.Rating), p.TotalRatings))
	}
	if p.PriceText != "" {
		parts = append(parts, fmt.Sprintf("Price range: **%s**", p.PriceText))
	}
	if p.OpenNow != nil {
		status := "**currently closed 🔴**"
		if *p.OpenNow {
			status = "**currently open 🟢**"
		}
		parts = append(parts, "Status: "+status)
	}
	if p.HasPhone() {
		parts = append(parts, "📞 Phone: "+p.Phone)
	}
	if p.Website != "" {
		parts = append(parts, "🌐 Website: "+p.Website)
	}
	if p.DistanceText != "" {
		parts = append(parts, "📍 Distance: "+p.DistanceText)
	}

	return strings.Join(parts, " ") + "\n\nWould you like to know about any other place?"
}
