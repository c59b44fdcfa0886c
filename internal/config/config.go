package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Text generation providers.
const (
	ProviderAuto   = "auto"
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
	ProviderNone   = "none"
)

// Config is the service configuration.
type Config struct {
	Server ServerConfig `toml:"server"`
	Maps   MapsConfig   `toml:"maps"`
	LLM    LLMConfig    `toml:"llm"`
	Redis  RedisConfig  `toml:"redis"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port               string `toml:"port" validate:"required,numeric"`
	LogLevel           string `toml:"log_level" validate:"oneof=debug info warn error"`
	RateLimitPerMinute int    `toml:"rate_limit_per_minute" validate:"gte=0"`
}

// MapsConfig holds Google Maps settings.
type MapsConfig struct {
	APIKey            string `toml:"api_key" validate:"required"`
	QPS               int    `toml:"qps" validate:"gte=0"`
	DetailConcurrency int    `toml:"detail_concurrency" validate:"gte=1,lte=20"`
	PhoneRegion       string `toml:"phone_region" validate:"len=2,alpha"`
}

// LLMConfig holds text generation settings.
type LLMConfig struct {
	Provider        string `toml:"provider" validate:"oneof=auto gemini claude none"`
	Model           string `toml:"model"`
	Timeout         string `toml:"timeout" validate:"required"`
	GeminiAPIKey    string `toml:"gemini_api_key"`
	AnthropicAPIKey string `toml:"anthropic_api_key"`
}

// RedisConfig holds the optional location-name cache settings. An empty URL disables it.
type RedisConfig struct {
	URL string `toml:"url"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:     "8080",
			LogLevel: "info",
		},
		Maps: MapsConfig{
			DetailConcurrency: 5,
			PhoneRegion:       "IN",
		},
		LLM: LLMConfig{
			Provider: ProviderAuto,
			Timeout:  "20s",
		},
	}
}

// LoadDotenv loads environment variables from path. A missing file is not an error.
func LoadDotenv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Load builds the configuration from defaults, an optional TOML file, then the environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	var errs []error
	setInt := func(key string, dst *int) {
		v := os.Getenv(key)
		if v == "" {
			return
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
			return
		}
		*dst = n
	}

	setString("PORT", &cfg.Server.Port)
	setString("LOG_LEVEL", &cfg.Server.LogLevel)
	setInt("RATE_LIMIT_PER_MINUTE", &cfg.Server.RateLimitPerMinute)

	setString("GOOGLE_MAPS_API_KEY", &cfg.Maps.APIKey)
	setInt("MAPS_QPS", &cfg.Maps.QPS)
	setInt("DETAIL_CONCURRENCY", &cfg.Maps.DetailConcurrency)
	setString("PHONE_REGION", &cfg.Maps.PhoneRegion)

	setString("LLM_PROVIDER", &cfg.LLM.Provider)
	setString("LLM_MODEL", &cfg.LLM.Model)
	setString("LLM_TIMEOUT", &cfg.LLM.Timeout)
	setString("GEMINI_API_KEY", &cfg.LLM.GeminiAPIKey)
	setString("ANTHROPIC_API_KEY", &cfg.LLM.AnthropicAPIKey)

	setString("REDIS_URL", &cfg.Redis.URL)

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %w", errors.Join(errs...))
	}

	cfg.Server.LogLevel = strings.ToLower(cfg.Server.LogLevel)
	cfg.LLM.Provider = strings.ToLower(cfg.LLM.Provider)
	cfg.Maps.PhoneRegion = strings.ToUpper(cfg.Maps.PhoneRegion)
	return nil
}

// Validate checks field constraints and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	if _, err := c.LLM.TimeoutDuration(); err != nil {
		return fmt.Errorf("validating config: %w", err)
	}

	switch c.LLM.Provider {
	case ProviderGemini:
		if c.LLM.GeminiAPIKey == "" {
			return errors.New("validating config: llm provider gemini requires GEMINI_API_KEY")
		}
	case ProviderClaude:
		if c.LLM.AnthropicAPIKey == "" {
			return errors.New("validating config: llm provider claude requires ANTHROPIC_API_KEY")
		}
	}

	return nil
}

// TimeoutDuration parses the generation timeout.
func (l LLMConfig) TimeoutDuration() (time.Duration, error) {
	d, err := time.ParseDuration(l.Timeout)
	if err != nil {
		return 0, fmt.Errorf("invalid llm timeout %q: %w", l.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid llm timeout %q: must be positive", l.Timeout)
	}
	return d, nil
}

// ResolvedProvider picks the provider to use. "auto" prefers Gemini, then Claude, then none.
func (l LLMConfig) ResolvedProvider() string {
	if l.Provider != ProviderAuto && l.Provider != "" {
		return l.Provider
	}
	switch {
	case l.GeminiAPIKey != "":
		return ProviderGemini
	case l.AnthropicAPIKey != "":
		return ProviderClaude
	default:
		return ProviderNone
	}
}

// SlogLevel maps the configured log level onto slog.
func (s ServerConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}
