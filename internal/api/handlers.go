package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/intent"
	"github.com/neexbeast/geoguide/internal/narrate"
	"github.com/neexbeast/geoguide/internal/places"
)

// intentPlaceDetails marks chat turns answered from the caller's current places.
const intentPlaceDetails = "place_details"

// Handlers holds the dependencies for all HTTP handlers.
type Handlers struct {
	searcher PlaceSearcher
	namer    LocationNamer
	narrator Narrator
	maps     MapsProber
	validate *validator.Validate
	now      func() time.Time
	log      *slog.Logger
}

// NewHandlers constructs Handlers with all required dependencies.
func NewHandlers(searcher PlaceSearcher, namer LocationNamer, narrator Narrator, maps MapsProber, log *slog.Logger) *Handlers {
	return &Handlers{
		searcher: searcher,
		namer:    namer,
		narrator: narrator,
		maps:     maps,
		validate: newValidator(),
		now:      time.Now,
		log:      log,
	}
}

// writeJSON encodes v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes the failure envelope.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

type greetingResponse struct {
	Success     bool           `json:"success"`
	Greeting    string         `json:"greeting"`
	Location    string         `json:"location"`
	Coordinates geo.Coordinate `json:"coordinates"`
	AIUsed      bool           `json:"ai_used"`
}

// LocationGreeting handles POST /api/location-greeting/.
func (h *Handlers) LocationGreeting(w http.ResponseWriter, r *http.Request) {
	var req greetingRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	at := *coordinate(req.Latitude, req.Longitude)
	location := h.namer.Name(r.Context(), at)
	greeting, aiUsed := h.narrator.Greeting(r.Context(), req.Username, location)

	writeJSON(w, http.StatusOK, greetingResponse{
		Success:     true,
		Greeting:    greeting,
		Location:    location,
		Coordinates: at,
		AIUsed:      aiUsed,
	})
}

type detailQueryParams struct {
	IsDetailQuery bool   `json:"is_detail_query"`
	Query         string `json:"query"`
}

type detailIntent struct {
	IntentType string `json:"intent_type"`
}

type chatResponse struct {
	Success        bool           `json:"success"`
	Message        string         `json:"message"`
	Places         []places.Place `json:"places"`
	Location       string         `json:"location"`
	SearchParams   any            `json:"search_params"`
	IntentAnalysis any            `json:"intent_analysis"`
	AIUsed         bool           `json:"ai_used"`
}

// Chat handles POST /api/chat/.
// A "tell me more" turn is answered from current_places without searching.
func (h *Handlers) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	ctx := r.Context()
	origin := *coordinate(req.Latitude, req.Longitude)

	if narrate.IsDetailQuery(req.Message) && len(req.CurrentPlaces) > 0 {
		location := h.namer.Name(ctx, origin)
		name := narrate.ExtractPlaceName(req.Message)

		var (
			message string
			aiUsed  bool
		)
		if match, ok := narrate.MatchPlace(name, req.CurrentPlaces); ok {
			message, aiUsed = h.narrator.PlaceDetail(ctx, match, location)
		} else {
			message = narrate.NotInListMessage(name, req.CurrentPlaces)
		}

		h.log.Info("chat detail query", "place", name, "ai_used", aiUsed)
		writeJSON(w, http.StatusOK, chatResponse{
			Success:        true,
			Message:        message,
			Places:         req.CurrentPlaces,
			Location:       location,
			SearchParams:   detailQueryParams{IsDetailQuery: true, Query: name},
			IntentAnalysis: detailIntent{IntentType: intentPlaceDetails},
			AIUsed:         aiUsed,
		})
		return
	}

	analysis := intent.Classify(req.Message)
	params := intent.BuildParams(analysis)
	location, found := h.lookup(r, origin, params)

	message, aiUsed := h.narrator.Compose(ctx, narrate.ComposeInput{
		Message:  req.Message,
		Location: location,
		Places:   found,
		Params:   params,
		History:  req.ConversationHistory,
	})

	h.log.Info("chat search",
		"category", params.Category,
		"query", params.Query,
		"places", len(found),
		"ai_used", aiUsed,
	)
	writeJSON(w, http.StatusOK, chatResponse{
		Success:        true,
		Message:        message,
		Places:         found,
		Location:       location,
		SearchParams:   params,
		IntentAnalysis: analysis,
		AIUsed:         aiUsed,
	})
}

// lookup names the origin and searches around it concurrently.
// Neither call can fail, so the group is only used for fan-out.
func (h *Handlers) lookup(r *http.Request, origin geo.Coordinate, params intent.SearchParams) (string, []places.Place) {
	ctx := r.Context()
	var (
		g        errgroup.Group
		location string
		found    = []places.Place{}
	)

	g.Go(func() error {
		location = h.namer.Name(ctx, origin)
		return nil
	})
	if params.ShouldSearch {
		g.Go(func() error {
			found = h.searcher.Search(ctx, origin, params)
			return nil
		})
	}
	_ = g.Wait()

	if found == nil {
		found = []places.Place{}
	}
	return location, found
}

// PlaceDetails handles POST /api/place-details/.
func (h *Handlers) PlaceDetails(w http.ResponseWriter, r *http.Request) {
	var req placeDetailsRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	detail, err := h.searcher.Detail(r.Context(), req.PlaceID, coordinate(req.Latitude, req.Longitude))
	if err != nil {
		if !errors.Is(err, places.ErrPlaceNotFound) {
			h.log.Error("place details failed", "place_id", req.PlaceID, "err", err)
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Place not found"})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"success": true, "place": detail})
}

type enhancedSearchResponse struct {
	Success  bool           `json:"success"`
	Message  string         `json:"message"`
	Places   []places.Place `json:"places"`
	Location string         `json:"location"`
	Count    int            `json:"count"`
	Query    string         `json:"query"`
}

// EnhancedSearch handles POST /api/enhanced-search/.
func (h *Handlers) EnhancedSearch(w http.ResponseWriter, r *http.Request) {
	var req enhancedSearchRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Missing data")
		return
	}
	origin := *coordinate(req.Latitude, req.Longitude)

	params := intent.BuildParams(intent.Classify(req.Query))
	location, found := h.lookup(r, origin, params)

	message, _ := h.narrator.Compose(r.Context(), narrate.ComposeInput{
		Message:  req.Query,
		Location: location,
		Places:   found,
		Params:   params,
	})

	writeJSON(w, http.StatusOK, enhancedSearchResponse{
		Success:  true,
		Message:  message,
		Places:   found,
		Location: location,
		Count:    len(found),
		Query:    req.Query,
	})
}
