package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/neexbeast/geoguide/internal/geo"
)

const (
	httpTimeout   = 10 * time.Second
	searchTimeout = 15 * time.Second

	mapsDefaultURL = "https://maps.googleapis.com/maps/api"

	detailFields = "name,formatted_address,formatted_phone_number,website,price_level,rating,user_ratings_total,opening_hours,geometry,photos,types"

	// pingAddress is geocoded by Ping to verify the key works.
	pingAddress = "Punjaipuliampatti"
)

var (
	// ErrPlaceNotFound is returned by Details when the provider does not answer OK.
	ErrPlaceNotFound = errors.New("place not found")
	// ErrNoLocationName is returned by ReverseGeocode when nothing usable comes back.
	ErrNoLocationName = errors.New("no location name")
)

// MapsClient talks to the Google Maps geocoding and places endpoints.
type MapsClient struct {
	apiKey       string
	baseURL      string
	client       *http.Client
	searchClient *http.Client
	limiter      *rate.Limiter
}

// NewMapsClient constructs a MapsClient. A positive qps paces outbound calls.
func NewMapsClient(apiKey string, qps int) *MapsClient {
	c := NewMapsClientWithURL(mapsDefaultURL, apiKey)
	if qps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(qps), qps)
	}
	return c
}

// NewMapsClientWithURL constructs a MapsClient pointing at a custom base URL (for tests).
func NewMapsClientWithURL(baseURL, apiKey string) *MapsClient {
	return &MapsClient{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		client:       &http.Client{Timeout: httpTimeout},
		searchClient: &http.Client{Timeout: searchTimeout},
	}
}

// doGet performs a GET request and decodes the JSON response into dst.
// name identifies the endpoint in errors so the key never leaks into logs.
func (c *MapsClient) doGet(ctx context.Context, client *http.Client, name, rawURL string, dst any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("waiting for %s rate limit: %w", name, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("creating request for %s: %w", name, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("GET %s: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s returned status %d", name, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decoding response from %s: %w", name, err)
	}

	return nil
}

// ReverseGeocode resolves coordinates to a short human-readable place name.
func (c *MapsClient) ReverseGeocode(ctx context.Context, at geo.Coordinate) (string, error) {
	params := url.Values{}
	params.Set("latlng", at.String())
	params.Set("key", c.apiKey)
	params.Set("language", "en")

	var raw geocodeResponse
	if err := c.doGet(ctx, c.client, "geocode", c.baseURL+"/geocode/json?"+params.Encode(), &raw); err != nil {
		return "", fmt.Errorf("reverse geocoding %s: %w", at, err)
	}

	if raw.Status != "OK" || len(raw.Results) == 0 {
		return "", fmt.Errorf("reverse geocoding %s: status %s: %w", at, raw.Status, ErrNoLocationName)
	}

	first := raw.Results[0]
	for _, comp := range first.AddressComponents {
		if slices.Contains(comp.Types, "locality") ||
			slices.Contains(comp.Types, "administrative_area_level_2") ||
			slices.Contains(comp.Types, "administrative_area_level_1") {
			return comp.LongName, nil
		}
	}

	if first.FormattedAddress != "" {
		head, _, _ := strings.Cut(first.FormattedAddress, ",")
		return strings.TrimSpace(head), nil
	}

	return "", fmt.Errorf("reverse geocoding %s: %w", at, ErrNoLocationName)
}

// NearbySearch runs a prominence-ranked nearby search.
func (c *MapsClient) NearbySearch(ctx context.Context, req NearbyRequest) ([]RawPlace, error) {
	params := url.Values{}
	params.Set("location", req.Location.String())
	params.Set("radius", strconv.Itoa(req.RadiusMeters))
	params.Set("key", c.apiKey)
	params.Set("rankby", "prominence")
	if req.Type != "" {
		params.Set("type", req.Type)
	}
	if req.Keyword != "" {
		params.Set("keyword", req.Keyword)
	}

	var raw nearbyResponse
	if err := c.doGet(ctx, c.searchClient, "nearbysearch", c.baseURL+"/place/nearbysearch/json?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("nearby search %q: %w", req.Keyword, err)
	}

	if raw.Status != "OK" && raw.Status != "ZERO_RESULTS" {
		return nil, fmt.Errorf("nearby search %q: status %s: %s", req.Keyword, raw.Status, raw.ErrorMessage)
	}

	return raw.Results, nil
}

// Details fetches the full record for placeID.
func (c *MapsClient) Details(ctx context.Context, placeID string) (*RawPlace, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("key", c.apiKey)
	params.Set("fields", detailFields)

	var raw detailsResponse
	if err := c.doGet(ctx, c.client, "details", c.baseURL+"/place/details/json?"+params.Encode(), &raw); err != nil {
		return nil, fmt.Errorf("place details for %s: %w", placeID, err)
	}

	if raw.Status != "OK" {
		return nil, fmt.Errorf("place details for %s: status %s: %w", placeID, raw.Status, ErrPlaceNotFound)
	}

	return &raw.Result, nil
}

// PhotoURL builds a 400px-wide photo link for a photo reference.
func (c *MapsClient) PhotoURL(ref string) string {
	if ref == "" {
		return ""
	}
	params := url.Values{}
	params.Set("maxwidth", "400")
	params.Set("photoreference", ref)
	params.Set("key", c.apiKey)
	return c.baseURL + "/place/photo?" + params.Encode()
}

// Ping geocodes a fixed address and returns the provider status.
func (c *MapsClient) Ping(ctx context.Context) (string, error) {
	params := url.Values{}
	params.Set("address", pingAddress)
	params.Set("key", c.apiKey)

	var raw geocodeResponse
	if err := c.doGet(ctx, c.client, "geocode", c.baseURL+"/geocode/json?"+params.Encode(), &raw); err != nil {
		return "", fmt.Errorf("maps ping: %w", err)
	}
	return raw.Status, nil
}
