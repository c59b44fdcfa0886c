package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neexbeast/geoguide/internal/config"
)

var envKeys = []string{
	"PORT", "LOG_LEVEL", "RATE_LIMIT_PER_MINUTE",
	"GOOGLE_MAPS_API_KEY", "MAPS_QPS", "DETAIL_CONCURRENCY", "PHONE_REGION",
	"LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT", "GEMINI_API_KEY", "ANTHROPIC_API_KEY",
	"REDIS_URL",
}

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_MAPS_API_KEY", "maps-key")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 0, cfg.Server.RateLimitPerMinute)
	assert.Equal(t, 5, cfg.Maps.DetailConcurrency)
	assert.Equal(t, "IN", cfg.Maps.PhoneRegion)
	assert.Equal(t, config.ProviderNone, cfg.LLM.ResolvedProvider())
	assert.Empty(t, cfg.Redis.URL)

	d, err := cfg.LLM.TimeoutDuration()
	require.NoError(t, err)
	assert.Equal(t, 20*time.Second, d)
	assert.Equal(t, slog.LevelInfo, cfg.Server.SlogLevel())
}

func TestLoad_MissingMapsKey(t *testing.T) {
	clearEnv(t)

	_, err := config.Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIKey")
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := writeFile(t, "geoguide.toml", `
[server]
port = "9000"
log_level = "debug"

[maps]
api_key = "file-key"
detail_concurrency = 3
phone_region = "us"

[llm]
provider = "claude"
anthropic_api_key = "file-anthropic"
timeout = "5s"
`)
	t.Setenv("PORT", "9100")
	t.Setenv("MAPS_QPS", "10")

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port, "env overrides file")
	assert.Equal(t, slog.LevelDebug, cfg.Server.SlogLevel())
	assert.Equal(t, "file-key", cfg.Maps.APIKey)
	assert.Equal(t, 3, cfg.Maps.DetailConcurrency)
	assert.Equal(t, 10, cfg.Maps.QPS)
	assert.Equal(t, "US", cfg.Maps.PhoneRegion)
	assert.Equal(t, config.ProviderClaude, cfg.LLM.ResolvedProvider())
}

func TestLoad_BadFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_MAPS_API_KEY", "k")

	_, err := config.Load(writeFile(t, "bad.toml", "[server\nport ="))
	require.Error(t, err)

	_, err = config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := map[string]map[string]string{
		"non-numeric int":     {"MAPS_QPS": "fast"},
		"bad provider":        {"LLM_PROVIDER": "openai"},
		"bad timeout":         {"LLM_TIMEOUT": "soon"},
		"negative timeout":    {"LLM_TIMEOUT": "-1s"},
		"gemini without key":  {"LLM_PROVIDER": "gemini"},
		"claude without key":  {"LLM_PROVIDER": "claude"},
		"zero concurrency":    {"DETAIL_CONCURRENCY": "0"},
		"bad log level":       {"LOG_LEVEL": "chatty"},
		"negative rate limit": {"RATE_LIMIT_PER_MINUTE": "-5"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("GOOGLE_MAPS_API_KEY", "k")
			for k, v := range env {
				t.Setenv(k, v)
			}

			_, err := config.Load("")
			require.Error(t, err)
		})
	}
}

func TestResolvedProvider(t *testing.T) {
	tests := []struct {
		cfg  config.LLMConfig
		want string
	}{
		{config.LLMConfig{Provider: config.ProviderAuto, GeminiAPIKey: "g", AnthropicAPIKey: "a"}, config.ProviderGemini},
		{config.LLMConfig{Provider: config.ProviderAuto, AnthropicAPIKey: "a"}, config.ProviderClaude},
		{config.LLMConfig{Provider: config.ProviderAuto}, config.ProviderNone},
		{config.LLMConfig{Provider: config.ProviderNone, GeminiAPIKey: "g"}, config.ProviderNone},
		{config.LLMConfig{Provider: config.ProviderClaude, GeminiAPIKey: "g", AnthropicAPIKey: "a"}, config.ProviderClaude},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.cfg.ResolvedProvider())
	}
}

func TestLoadDotenv(t *testing.T) {
	clearEnv(t)
	// godotenv never overrides a variable that is already set, even to "".
	require.NoError(t, os.Unsetenv("GOOGLE_MAPS_API_KEY"))
	path := writeFile(t, ".env", "GOOGLE_MAPS_API_KEY=from-dotenv\n")

	require.NoError(t, config.LoadDotenv(path))

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Maps.APIKey)

	require.NoError(t, config.LoadDotenv(filepath.Join(t.TempDir(), "absent.env")))
}
