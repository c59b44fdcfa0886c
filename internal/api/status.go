package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/geoguide/internal/geo"
)

// Version is reported by the status endpoints.
const Version = "2.0.0"

const probeTimeout = 10 * time.Second

var features = []string{
	"AI-Powered Chat",
	"Smart Search",
	"Location Detection",
	"Place Recommendations",
	"Navigation",
}

// sampleOrigin is geocoded by the status probe.
var sampleOrigin = geo.Coordinate{Lat: 11.336198, Lng: 77.149347}

// Root handles GET /.
func (h *Handlers) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "GeoGuide",
		"version": Version,
		"status":  "running",
		"endpoints": []string{
			"POST /api/location-greeting/",
			"POST /api/chat/",
			"POST /api/place-details/",
			"POST /api/enhanced-search/",
			"GET|POST /api/test/",
			"GET /api/test-llm/",
			"POST /api/clear-chat/",
			"GET /api/v1/health",
		},
	})
}

// APIStatus handles GET|POST /api/test/. Each collaborator is probed concurrently.
func (h *Handlers) APIStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	var (
		g      errgroup.Group
		maps   map[string]any
		llm    map[string]any
		sample map[string]any
	)

	g.Go(func() error {
		status, err := h.maps.Ping(ctx)
		if err != nil {
			h.log.Warn("status probe: maps failed", "err", err)
			maps = map[string]any{"status": "Error", "error": err.Error()}
			return nil
		}
		maps = map[string]any{"status": status, "working": status == "OK"}
		return nil
	})

	g.Go(func() error {
		if !h.narrator.Available() {
			llm = map[string]any{"status": "Not configured", "error": "text generator not initialized"}
			return nil
		}
		text, err := h.narrator.Probe(ctx)
		if err != nil {
			h.log.Warn("status probe: text generator failed", "err", err)
			llm = map[string]any{"status": "Error", "error": err.Error()}
			return nil
		}
		llm = map[string]any{"status": "Working", "response": clip(text, 100), "model": h.narrator.Model()}
		return nil
	})

	g.Go(func() error {
		sample = map[string]any{
			"location":    h.namer.Name(ctx, sampleOrigin),
			"coordinates": fmt.Sprintf("%v, %v", sampleOrigin.Lat, sampleOrigin.Lng),
		}
		return nil
	})

	_ = g.Wait()

	writeJSON(w, http.StatusOK, map[string]any{
		"server":        "Running",
		"google_maps":   maps,
		"llm":           llm,
		"version":       Version,
		"features":      features,
		"sample_search": sample,
	})
}

// TestLLM handles GET /api/test-llm/ with a direct generation round trip.
func (h *Handlers) TestLLM(w http.ResponseWriter, r *http.Request) {
	if !h.narrator.Available() {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Text generator not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), probeTimeout)
	defer cancel()

	text, err := h.narrator.Probe(ctx)
	if err != nil {
		h.log.Warn("text generator probe failed", "err", err)
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"response":  text,
		"model":     h.narrator.Model(),
		"timestamp": unixSeconds(h.now()),
	})
}

// ClearChat handles POST /api/clear-chat/. History lives with the caller, so nothing is cleared here.
func (h *Handlers) ClearChat(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"message":   "Conversation cleared",
		"timestamp": unixSeconds(h.now()),
	})
}

// HealthHandlerFunc returns an http.HandlerFunc that checks cache connectivity.
// A nil cache reports "disabled" and does not degrade the status.
func HealthHandlerFunc(cache Pinger, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		status := http.StatusOK
		cacheStatus := "disabled"

		if cache != nil {
			cacheStatus = "ok"
			if err := cache.Ping(ctx); err != nil {
				log.Error("health check: cache ping failed", "err", err)
				cacheStatus = "error"
				status = http.StatusServiceUnavailable
			}
		}

		overall := "ok"
		if status != http.StatusOK {
			overall = "degraded"
		}
		writeJSON(w, status, map[string]string{
			"status":  overall,
			"cache":   cacheStatus,
			"version": Version,
		})
	}
}

func unixSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// clip shortens s to at most n runes.
func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
