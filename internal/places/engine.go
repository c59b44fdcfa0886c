package places

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/neexbeast/geoguide/internal/geo"
	"github.com/neexbeast/geoguide/internal/intent"
	"github.com/neexbeast/geoguide/internal/navigation"
)

// Search limits.
const (
	MaxRadiusMeters  = 50000
	MaxDistanceKM    = 30.0
	MaxResults       = 8
	maxDetailLookups = 20

	DefaultDetailConcurrency = 5
)

// genericQueries are too vague to send to the provider as a keyword.
var genericQueries = map[string]struct{}{
	"places":             {},
	"popular places":     {},
	"best places":        {},
	"recommended places": {},
	"nearby places":      {},
}

// mapsAPI is the interface satisfied by MapsClient.
type mapsAPI interface {
	NearbySearch(ctx context.Context, req NearbyRequest) ([]RawPlace, error)
	Details(ctx context.Context, placeID string) (*RawPlace, error)
	PhotoURL(ref string) string
}

// EngineConfig tunes the search engine.
type EngineConfig struct {
	DetailConcurrency int
	PhoneRegion       string
}

// Engine finds, enriches, scores and ranks places around a point.
type Engine struct {
	maps   mapsAPI
	nav    *navigation.Builder
	cfg    EngineConfig
	logger *slog.Logger
}

// NewEngine constructs an Engine.
func NewEngine(maps mapsAPI, nav *navigation.Builder, cfg EngineConfig, logger *slog.Logger) *Engine {
	if cfg.DetailConcurrency <= 0 {
		cfg.DetailConcurrency = DefaultDetailConcurrency
	}
	if cfg.PhoneRegion == "" {
		cfg.PhoneRegion = DefaultPhoneRegion
	}
	return &Engine{maps: maps, nav: nav, cfg: cfg, logger: logger}
}

// Search returns up to MaxResults places near origin, best first.
// Provider failures degrade to an empty, non-nil slice.
func (e *Engine) Search(ctx context.Context, origin geo.Coordinate, params intent.SearchParams) (result []Place) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("place search panicked", "recover", r, "query", params.Query)
			result = []Place{}
		}
	}()

	raws, err := e.maps.NearbySearch(ctx, nearbyRequest(origin, params))
	if err != nil {
		e.logger.Warn("nearby search failed", "query", params.Query, "err", err)
		return []Place{}
	}

	if len(raws) > maxDetailLookups {
		raws = raws[:maxDetailLookups]
	}

	for _, raw := range raws {
		if raw.Geometry == nil || raw.Geometry.Location == nil {
			e.logger.Warn("nearby result without geometry", "place_id", raw.PlaceID, "query", params.Query)
			return []Place{}
		}
	}

	details := e.fetchDetails(ctx, raws)

	candidates := make([]Place, 0, len(raws))
	for i, raw := range raws {
		place, ok := e.assemble(origin, raw, details[i], params)
		if !ok {
			continue
		}
		candidates = append(candidates, place)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].PopularityScore > candidates[j].PopularityScore
	})

	result = dedupeByName(candidates, MaxResults)
	e.logger.Debug("place search done",
		"query", params.Query,
		"candidates", len(raws),
		"returned", len(result),
	)
	return result
}

func nearbyRequest(origin geo.Coordinate, params intent.SearchParams) NearbyRequest {
	radius := params.RadiusMeters
	if radius <= 0 || radius > MaxRadiusMeters {
		radius = MaxRadiusMeters
	}

	keyword := ""
	if _, generic := genericQueries[params.Query]; !generic {
		keyword = params.Query
	}

	return NearbyRequest{
		Location:     origin,
		RadiusMeters: radius,
		Type:         params.ProviderType,
		Keyword:      keyword,
	}
}

// fetchDetails looks up each raw place concurrently. The result is indexed like raws;
// a failed lookup leaves a nil entry.
func (e *Engine) fetchDetails(ctx context.Context, raws []RawPlace) []*RawPlace {
	details := make([]*RawPlace, len(raws))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.DetailConcurrency)

	for i, raw := range raws {
		if raw.PlaceID == "" {
			continue
		}
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					e.logger.Error("place details panicked", "place_id", raw.PlaceID, "recover", r)
					err = fmt.Errorf("place details panicked: %v", r)
				}
			}()
			d, fetchErr := e.maps.Details(gCtx, raw.PlaceID)
			if fetchErr != nil {
				e.logger.Warn("place details failed", "place_id", raw.PlaceID, "err", fetchErr)
				return nil
			}
			details[i] = d
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		e.logger.Warn("place details incomplete", "err", err)
	}

	return details
}

// assemble merges a nearby result with its details. It reports false when the place
// falls outside the distance or price constraints.
func (e *Engine) assemble(origin geo.Coordinate, raw RawPlace, detail *RawPlace, params intent.SearchParams) (Place, bool) {
	if detail == nil {
		detail = &RawPlace{}
	}

	loc := *raw.Geometry.Location
	distance := geo.HaversineKM(origin, loc)
	if distance > MaxDistanceKM {
		return Place{}, false
	}

	priceLevel := raw.PriceLevel
	if priceLevel == nil {
		priceLevel = detail.PriceLevel
	}
	if params.PricePreference == intent.PriceBudget && priceLevel != nil && *priceLevel > 2 {
		return Place{}, false
	}

	rating := raw.Rating
	if rating == nil {
		rating = detail.Rating
	}

	total := raw.UserRatingsTotal
	if total == 0 {
		total = detail.UserRatingsTotal
	}

	var openNow *bool
	if detail.OpeningHours != nil {
		openNow = detail.OpeningHours.OpenNow
	}

	photoURL := ""
	if len(raw.Photos) > 0 {
		photoURL = e.maps.PhotoURL(raw.Photos[0].PhotoReference)
	}

	phone := detail.FormattedPhoneNumber
	if phone == "" {
		phone = PhoneMissing
	}

	types := raw.Types
	if types == nil {
		types = []string{}
	}

	return Place{
		Name:            orDefault(raw.Name, DefaultName),
		Address:         orDefault(raw.Vicinity, DefaultAddress),
		Rating:          rating,
		TotalRatings:    total,
		PriceLevel:      priceLevel,
		PriceText:       geo.PriceText(priceLevel),
		Location:        loc,
		PlaceID:         raw.PlaceID,
		Types:           types,
		PhotoURL:        photoURL,
		OpenNow:         openNow,
		Phone:           phone,
		PhoneE164:       normalizePhone(phone, e.cfg.PhoneRegion),
		Website:         detail.Website,
		DistanceKM:      geo.Round(distance, 2),
		DistanceText:    geo.DistanceText(distance),
		PopularityScore: geo.PopularityScore(rating, total, distance, string(params.Category)),
		Navigation:      e.nav.Build(&origin, &loc),
	}, true
}

// dedupeByName keeps the first place for each case-insensitive name, up to limit.
func dedupeByName(sorted []Place, limit int) []Place {
	out := make([]Place, 0, min(limit, len(sorted)))
	seen := make(map[string]struct{}, len(sorted))
	for _, p := range sorted {
		if len(out) == limit {
			break
		}
		key := strings.ToLower(p.Name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, p)
	}
	return out
}

// Detail fetches a single place with navigation from origin. A nil origin yields no links.
func (e *Engine) Detail(ctx context.Context, placeID string, origin *geo.Coordinate) (*Detail, error) {
	raw, err := e.maps.Details(ctx, placeID)
	if err != nil {
		return nil, fmt.Errorf("loading place %s: %w", placeID, err)
	}

	var loc *geo.Coordinate
	if raw.Geometry != nil {
		loc = raw.Geometry.Location
	}

	rating := 0.0
	if raw.Rating != nil {
		rating = *raw.Rating
	}

	var hours []string
	if raw.OpeningHours != nil {
		hours = raw.OpeningHours.WeekdayText
	}
	if hours == nil {
		hours = []string{}
	}

	photos := raw.Photos
	if photos == nil {
		photos = []Photo{}
	}

	phone := orDefault(raw.FormattedPhoneNumber, PhoneMissing)

	return &Detail{
		Name:         raw.Name,
		Address:      raw.FormattedAddress,
		Phone:        phone,
		PhoneE164:    normalizePhone(phone, e.cfg.PhoneRegion),
		Website:      raw.Website,
		Rating:       rating,
		TotalRatings: raw.UserRatingsTotal,
		PriceLevel:   raw.PriceLevel,
		PriceText:    geo.PriceText(raw.PriceLevel),
		OpeningHours: hours,
		Photos:       photos,
		Location:     loc,
		Navigation:   e.nav.Build(origin, loc),
	}, nil
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
