package narrate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"google.golang.org/genai"
)

// Default model names per provider.
const (
	DefaultGeminiModel = "gemini-2.0-flash"
	DefaultClaudeModel = "claude-3-5-haiku-latest"

	claudeMaxTokens = 1024
)

var (
	// ErrEmptyResponse is returned when a provider answers without any text.
	ErrEmptyResponse = errors.New("empty response from text generator")
	// ErrNoGenerator is returned when no provider is configured.
	ErrNoGenerator = errors.New("no text generator configured")
)

// Generator produces free text from a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// ---- Gemini ----

// GeminiGenerator generates text with the Gemini API.
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator constructs a GeminiGenerator. An empty model selects DefaultGeminiModel.
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	return newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}, model)
}

// NewGeminiGeneratorWithURL constructs a GeminiGenerator pointing at a custom base URL (for tests).
func NewGeminiGeneratorWithURL(ctx context.Context, baseURL, apiKey, model string) (*GeminiGenerator, error) {
	return newGeminiGenerator(ctx, &genai.ClientConfig{
		APIKey:      apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: baseURL},
	}, model)
}

func newGeminiGenerator(ctx context.Context, cfg *genai.ClientConfig, model string) (*GeminiGenerator, error) {
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing genai client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate sends prompt as a single user turn.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// Model returns the configured model name.
func (g *GeminiGenerator) Model() string { return g.model }

// ---- Claude ----

// ClaudeGenerator generates text with the Anthropic Messages API.
type ClaudeGenerator struct {
	client anthropic.Client
	model  string
}

// NewClaudeGenerator constructs a ClaudeGenerator. An empty model selects DefaultClaudeModel.
func NewClaudeGenerator(apiKey, model string, opts ...option.RequestOption) *ClaudeGenerator {
	if model == "" {
		model = DefaultClaudeModel
	}
	opts = append([]option.RequestOption{option.WithAPIKey(apiKey)}, opts...)
	return &ClaudeGenerator{client: anthropic.NewClient(opts...), model: model}
}

// Generate sends prompt as a single user message.
func (c *ClaudeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: claudeMaxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("claude generate: %w", err)
	}

	var text strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}

	out := strings.TrimSpace(text.String())
	if out == "" {
		return "", ErrEmptyResponse
	}
	return out, nil
}

// Model returns the configured model name.
func (c *ClaudeGenerator) Model() string { return c.model }
