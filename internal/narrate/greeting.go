package narrate

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// DefaultUsername is used when the caller does not name the traveler.
const DefaultUsername = "Traveler"

var locationFacts = map[string]string{
	"Punjaipuliampatti": "a lovely town in Tamil Nadu",
	"Chennai":           "the cultural capital of South India",
	"Bangalore":         "India's Silicon Valley",
	"Mumbai":            "the city that never sleeps",
	"Delhi":             "the heart of India",
	"Kolkata":           "the City of Joy",
	"Hyderabad":         "famous for its biryani and pearls",
}

// timeOfDay buckets an hour into morning, afternoon, evening or night.
func timeOfDay(t time.Time) string {
	switch h := t.Hour(); {
	case h < 12:
		return "morning"
	case h < 17:
		return "afternoon"
	case h < 21:
		return "evening"
	default:
		return "night"
	}
}

// Greeting welcomes a traveler to location. The bool reports whether the generator produced it.
func (c *Composer) Greeting(ctx context.Context, username, location string) (string, bool) {
	if username == "" {
		username = DefaultUsername
	}
	period := timeOfDay(c.now())

	if c.gen != nil {
		text, err := c.generate(ctx, greetingPrompt(username, location, period))
		if err == nil {
			if !strings.Contains(strings.ToLower(text), strings.ToLower(username)) {
				text = fmt.Sprintf("Hello %s! %s", username, text)
			}
			return text, true
		}
		c.logger.Warn("greeting generation failed, using template", "model", c.gen.Model(), "err", err)
	}

	return c.fallbackGreeting(username, location, period), false
}

func greetingPrompt(username, location, period string) string {
	return fmt.Sprintf(`You are a friendly travel assistant. Create a warm, engaging welcome message for:

Traveler name: %[1]s
Location: %[2]s
Time of day: %[3]s

Requirements:
1. Start with a time-appropriate greeting
2. Mention the location in a positive way
3. Include one interesting fact about %[2]s if you know any
4. Express excitement about helping them explore
5. Use 1-2 relevant emojis naturally
6. Keep it under 80 words
7. Sound enthusiastic but not overly formal

Example style: "Good morning Sarah! 🌟 Welcome to Chennai - the cultural capital of South India! Did you know it's famous for its beautiful beaches and filter coffee? I'm excited to help you explore this amazing city!"

Now create your greeting:`, username, location, period)
}

func (c *Composer) fallbackGreeting(username, location, period string) string {
	salute := "Good " + period

	fact, ok := locationFacts[location]
	if !ok {
		fact = "your location"
	}

	templates := []string{
		fmt.Sprintf("%s %s! 🌟 Welcome to %s, %s. Ready to explore?", salute, username, location, fact),
		fmt.Sprintf("Hello %s! 👋 Great to have you in %s. How can I assist you today?", username, location),
		fmt.Sprintf("%s! Welcome to %s, %s. 🗺️ What would you like to discover?", salute, location, username),
		fmt.Sprintf("Hey %s! 😊 Enjoying %s? Let me help you find amazing local spots!", username, location),
		fmt.Sprintf("%s %s! 🎉 Welcome to %s - let's start your adventure!", salute, username, location),
	}

	c.mu.Lock()
	i := c.rng.IntN(len(templates))
	c.mu.Unlock()

	return templates[i]
}
