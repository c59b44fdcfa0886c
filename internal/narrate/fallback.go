package narrate

import (
	"fmt"
	"strings"

	"github.com/neexbeast/geoguide/internal/intent"
	"github.com/neexbeast/geoguide/internal/places"
)

const (
	tableNameChars  = 20
	tablePriceChars = 10

	// BudgetNote is appended to template replies for budget searches.
	BudgetNote = "\n\n💰 *Note: Showing budget-friendly options as requested*"
)

var categoryEmoji = map[intent.Category]string{
	intent.Food:           "🍽️",
	intent.Drink:          "☕",
	intent.Accommodation:  "🏨",
	intent.Entertainment:  "🎬",
	intent.Shopping:       "🛍️",
	intent.Health:         "🏥",
	intent.Services:       "🏦",
	intent.Transport:      "🚗",
	intent.Recreation:     "🌳",
	intent.Recommendation: "⭐",
	intent.General:        "📍",
}

// Emoji returns the icon for a category, defaulting to a map pin.
func Emoji(c intent.Category) string {
	if e, ok := categoryEmoji[c]; ok {
		return e
	}
	return categoryEmoji[intent.General]
}

// fallbackReply renders the template reply used when generation is unavailable.
func fallbackReply(in ComposeInput) string {
	emoji := Emoji(in.Params.Category)

	if len(in.Places) == 0 {
		return notFound(emoji, in.Params.Category, in.Params.Query, in.Location)
	}

	var reply string
	switch n := len(in.Places); {
	case n == 1:
		reply = singlePlace(emoji, in.Places[0], in.Location)
	case n <= 3:
		reply = shortList(emoji, in.Places, in.Location)
	default:
		reply = table(emoji, in.Places, in.Location)
	}

	if in.Params.PricePreference == intent.PriceBudget {
		reply += BudgetNote
	}
	return reply
}

func notFound(emoji string, category intent.Category, query, location string) string {
	switch category {
	case intent.Food:
		return fmt.Sprintf("%s I couldn't find specific food places in %s. Try searching for 'restaurants' or ask for local cuisine suggestions.", emoji, location)
	case intent.Drink:
		return fmt.Sprintf("%s No specific drink spots found in %s. You might find cafes in restaurants or try asking for 'cafes'.", emoji, location)
	case intent.Accommodation:
		return fmt.Sprintf("%s Couldn't find hotels right in %s. Try searching in nearby towns or increase search radius.", emoji, location)
	case intent.Entertainment:
		return fmt.Sprintf("%s No entertainment venues found in %s. You might find options in larger nearby cities.", emoji, location)
	case intent.Shopping:
		return fmt.Sprintf("%s Couldn't find shopping centers in %s. Try local markets or general stores.", emoji, location)
	default:
		return fmt.Sprintf("%s I couldn't find specific places for '%s' in %s. Try more specific terms like 'restaurants', 'hotels', or 'shops'.", emoji, query, location)
	}
}

func singlePlace(emoji string, p places.Place, location string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s Found **%s** in %s!\n\n", emoji, p.Name, location)
	fmt.Fprintf(&b, "⭐ Rating: %s/5\n", ratingOr(p.Rating, "0"))
	fmt.Fprintf(&b, "📍 Distance: %s\n", orDefault(p.DistanceText, "N/A"))
	if p.PriceText != "" {
		fmt.Fprintf(&b, "💰 Price: %s\n", p.PriceText)
	}
	fmt.Fprintf(&b, "🏠 Address: %s\n\n", p.Address)
	fmt.Fprintf(&b, "🔗 [Get Directions](javascript:showDirections('%s')) | ", p.PlaceID)
	fmt.Fprintf(&b, "📞 [Call](tel:%s)\n\n", dialable(p))
	b.WriteString("Click on the map marker for more details!")
	return b.String()
}

// dialable prefers the normalized number for tel: links.
func dialable(p places.Place) string {
	if p.PhoneE164 != "" {
		return p.PhoneE164
	}
	return p.Phone
}

func shortList(emoji string, list []places.Place, location string) string {
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, "**"+p.Name+"**")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s Found %d great places in %s!\n\n", emoji, len(list), location)
	fmt.Fprintf(&b, "**Top recommendations:** %s\n\n", strings.Join(names, ", "))
	for i, p := range list {
		fmt.Fprintf(&b, "%d. %s - %s/5 ⭐ - %s away\n", i+1, p.Name, ratingOr(p.Rating, "0"), orDefault(p.DistanceText, "N/A"))
	}
	b.WriteString("\nClick any place on the map or in the sidebar for directions!")
	return b.String()
}

func table(emoji string, list []places.Place, location string) string {
	top := list[:3]

	var b strings.Builder
	fmt.Fprintf(&b, "%s Found %d places in %s!\n\n", emoji, len(list), location)
	fmt.Fprintf(&b, "**Top picks:** **%s** and **%s**\n\n", top[0].Name, top[1].Name)
	b.WriteString("**Top Recommendations:**\n")
	b.WriteString("| Name | Rating | Distance | Price |\n")
	b.WriteString("|------|--------|----------|-------|\n")
	for _, p := range top {
		name := p.Name
		if len([]rune(name)) > tableNameChars {
			name = truncate(name, tableNameChars) + "..."
		}
		fmt.Fprintf(&b, "| %s | %s/5 | %s | %s |\n",
			name,
			ratingOr(p.Rating, "0"),
			orDefault(p.DistanceText, "N/A"),
			truncate(orDefault(p.PriceText, "N/A"), tablePriceChars),
		)
	}
	fmt.Fprintf(&b, "\n**And %d more options...**\n\n", len(list)-3)
	b.WriteString("Click any place on the map for directions and details!")
	return b.String()
}
