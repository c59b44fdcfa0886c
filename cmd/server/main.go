package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/neexbeast/geoguide/internal/api"
	"github.com/neexbeast/geoguide/internal/cache"
	"github.com/neexbeast/geoguide/internal/config"
	"github.com/neexbeast/geoguide/internal/narrate"
	"github.com/neexbeast/geoguide/internal/navigation"
	"github.com/neexbeast/geoguide/internal/places"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotenv(".env"); err != nil {
		log.Error("loading .env", "err", err)
		os.Exit(1)
	}

	cfg, err := config.Load(os.Getenv("GEOGUIDE_CONFIG"))
	if err != nil {
		log.Error("loading config", "err", err)
		os.Exit(1)
	}

	log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Server.SlogLevel()}))

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx := context.Background()

	// Location names are cached only when Redis is configured.
	var (
		nameCache places.NameCache
		cachePing api.Pinger
	)
	if cfg.Redis.URL != "" {
		redisClient, err := cache.Connect(ctx, cfg.Redis.URL)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisClient.Close() }()

		c := cache.NewCache(redisClient)
		nameCache = c
		cachePing = c
		log.Info("location name cache enabled")
	}

	gen, err := newGenerator(ctx, cfg.LLM)
	if err != nil {
		return fmt.Errorf("creating text generator: %w", err)
	}
	timeout, err := cfg.LLM.TimeoutDuration()
	if err != nil {
		return err
	}

	// Wire dependencies.
	maps := places.NewMapsClient(cfg.Maps.APIKey, cfg.Maps.QPS)
	engine := places.NewEngine(maps, navigation.NewBuilder(cfg.Maps.APIKey), places.EngineConfig{
		DetailConcurrency: cfg.Maps.DetailConcurrency,
		PhoneRegion:       cfg.Maps.PhoneRegion,
	}, log)
	locator := places.NewLocator(maps, nameCache, log)
	composer := narrate.NewComposer(gen, log, narrate.WithTimeout(timeout))
	handlers := api.NewHandlers(engine, locator, composer, maps, log)

	router := api.NewRouter(handlers, cachePing, api.RouterConfig{
		RateLimitPerMinute: cfg.Server.RateLimitPerMinute,
	}, log)

	// A chat turn may chain a search, detail lookups and a generation call.
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("server goroutine panicked", "recover", r)
				errCh <- fmt.Errorf("server panicked: %v", r)
			}
		}()
		log.Info("server starting",
			"port", cfg.Server.Port,
			"llm_provider", cfg.LLM.ResolvedProvider(),
			"llm_model", composer.Model(),
			"rate_limit_per_minute", cfg.Server.RateLimitPerMinute,
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("listening: %w", err)
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown signal received", "signal", sig)
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("server shut down cleanly")
	return nil
}

// newGenerator returns the configured text generator, or nil when generation is off.
func newGenerator(ctx context.Context, cfg config.LLMConfig) (narrate.Generator, error) {
	switch cfg.ResolvedProvider() {
	case config.ProviderGemini:
		g, err := narrate.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.ProviderClaude:
		return narrate.NewClaudeGenerator(cfg.AnthropicAPIKey, cfg.Model), nil
	default:
		return nil, nil
	}
}
