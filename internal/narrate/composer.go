package narrate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/neexbeast/geoguide/internal/intent"
	"github.com/neexbeast/geoguide/internal/places"
)

const (
	// DefaultTimeout bounds each generation call.
	DefaultTimeout = 20 * time.Second

	historyTurns    = 4
	historyMaxChars = 100
	promptPlaces    = 5

	// PlacesHint is appended to generated chat replies that come with places.
	PlacesHint = "\n\n💡 *Click on any place in the sidebar or map for detailed information and directions!*"
)

// Turn is one caller-supplied conversation message.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ComposeInput is everything a chat reply is built from.
type ComposeInput struct {
	Message  string
	Location string
	Places   []places.Place
	Params   intent.SearchParams
	History  []Turn
}

// Composer narrates search results, greetings and place details.
// A nil Generator always takes the template path.
type Composer struct {
	gen     Generator
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// Option configures a Composer.
type Option func(*Composer)

// WithClock sets the time source used for time-of-day greetings.
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithRand sets the randomness source used to pick fallback greetings.
func WithRand(r *rand.Rand) Option {
	return func(c *Composer) { c.rng = r }
}

// WithTimeout bounds each generation call.
func WithTimeout(d time.Duration) Option {
	return func(c *Composer) { c.timeout = d }
}

// NewComposer constructs a Composer. gen may be nil.
func NewComposer(gen Generator, logger *slog.Logger, opts ...Option) *Composer {
	c := &Composer{
		gen:     gen,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  logger,
		rng:     rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Available reports whether a text generator is configured.
func (c *Composer) Available() bool { return c.gen != nil }

// Model returns the generator's model name, or "" without one.
func (c *Composer) Model() string {
	if c.gen == nil {
		return ""
	}
	return c.gen.Model()
}

// Probe runs a tiny generation to check the provider end to end.
func (c *Composer) Probe(ctx context.Context) (string, error) {
	if c.gen == nil {
		return "", fmt.Errorf("probing text generator: %w", ErrNoGenerator)
	}
	return c.generate(ctx, "Say 'Hello' in one word")
}

// generate calls the generator under the configured timeout.
func (c *Composer) generate(ctx context.Context, prompt string) (string, error) {
	if c.gen == nil {
		return "", ErrNoGenerator
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Compose writes the chat reply. The bool reports whether the generator produced it.
func (c *Composer) Compose(ctx context.Context, in ComposeInput) (string, bool) {
	if c.gen != nil {
		text, err := c.generate(ctx, chatPrompt(in))
		if err == nil {
			if len(in.Places) > 0 {
				text += PlacesHint
			}
			return text, true
		}
		c.logger.Warn("chat generation failed, using template", "model", c.gen.Model(), "err", err)
	}
	return fallbackReply(in), false
}

func chatPrompt(in ComposeInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are GeoGuide, a friendly and knowledgeable AI travel assistant. You're helping a traveler in %s.\n\n", in.Location)

	if len(in.History) > 0 {
		b.WriteString("**Recent conversation history:**\n")
		start := max(0, len(in.History)-historyTurns)
		for _, t := range in.History[start:] {
			role := "You"
			if t.Role == "user" {
				role = "Traveler"
			}
			fmt.Fprintf(&b, "%s: %s...\n", role, truncate(t.Content, historyMaxChars))
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "**Traveler's current request:** \"%s\"\n\n", in.Message)

	b.WriteString("**Search Context:**\n")
	fmt.Fprintf(&b, "- User is in: %s\n", in.Location)
	fmt.Fprintf(&b, "- Looking for: %s\n", orDefault(in.Params.Query, "places"))
	fmt.Fprintf(&b, "- Category: %s\n", orDefault(string(in.Params.Category), string(intent.General)))
	fmt.Fprintf(&b, "- Price preference: %s\n", orDefault(in.Params.PricePreference, "None"))
	fmt.Fprintf(&b, "- Number of places found: %d\n\n", len(in.Places))

	if len(in.Places) == 0 {
		b.WriteString("**No specific places found for this query.**\n\n")
	} else {
		b.WriteString("**Places I found for you:**\n\n")
		for i, p := range in.Places[:min(promptPlaces, len(in.Places))] {
			fmt.Fprintf(&b, "%d. **%s**\n", i+1, p.Name)
			fmt.Fprintf(&b, "   ⭐ Rating: %s/5", ratingOr(p.Rating, "N/A"))
			if p.TotalRatings > 0 {
				fmt.Fprintf(&b, " (%d reviews)", p.TotalRatings)
			}
			fmt.Fprintf(&b, "\n   📍 Distance: %s", orDefault(p.DistanceText, "N/A"))
			if p.PriceText != "" {
				fmt.Fprintf(&b, "\n   💰 Price: %s", p.PriceText)
			}
			b.WriteString("\n\n")
		}
	}

	b.WriteString(`**Your response should:**
1. Acknowledge the traveler's request naturally
2. If places were found: highlight 2-3 top recommendations with brief reasons why they're good
3. If no places found: suggest alternatives or ask clarifying questions
4. Include practical tips (distance, price, current status if available)
5. Use a warm, enthusiastic tone with occasional emojis
6. Ask a follow-up question to keep the conversation going
7. Keep it concise but informative (150-250 words)
8. Sound like a local friend giving advice

**Important:** Reference specific places by name if available. Don't just list facts - explain why they're good options!

Your response:`)

	return b.String()
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// formatRating renders a provider rating as given: 4 stays "4", 4.5 stays "4.5".
func formatRating(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func ratingOr(r *float64, missing string) string {
	if r == nil {
		return missing
	}
	return formatRating(*r)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
