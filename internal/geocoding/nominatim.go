package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/UnknownOlympus/proteus/internal/models"
	"golang.org/x/time/rate"
)

// NominatimProvider implements the Provider interface using OpenStreetMap's
// Nominatim API. This is a free service with usage limits (1 request/second
// for fair use), so autocomplete traffic passes through a rate limiter.
type NominatimProvider struct {
	client  HTTPClient    // HTTP client for making requests
	baseURL string        // Base URL for the Nominatim API
	log     *slog.Logger  // Logger for logging operations
	limiter *rate.Limiter // Limiter keeping type-ahead traffic within fair use
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// nominatimResult represents one entry of the JSON response from the
// Nominatim search and lookup endpoints.
type nominatimResult struct {
	OSMType     string `json:"osm_type"`     // node, way or relation
	OSMID       int64  `json:"osm_id"`       // OSM object identifier
	DisplayName string `json:"display_name"` // Formatted address line
	Lat         string `json:"lat"`          // Latitude as string
	Lon         string `json:"lon"`          // Longitude as string
}

// Common errors for Nominatim provider.
var (
	ErrNominatimInvalidCoords  = errors.New("nominatim API returned invalid coordinates")
	ErrNominatimInvalidPlaceID = errors.New("invalid nominatim place identifier")
)

const (
	nominatimBaseURL = "https://nominatim.openstreetmap.org"
	nominatimTimeout = 10 * time.Second
	nominatimLimit   = 5 // suggestions per autocomplete query
)

// NewNominatimProvider creates a new Nominatim provider against the public
// API endpoint, throttled to the given requests per second.
func NewNominatimProvider(rateLimit int, log *slog.Logger) *NominatimProvider {
	if rateLimit <= 0 {
		rateLimit = 1
	}
	return &NominatimProvider{
		client: &http.Client{
			Timeout: nominatimTimeout,
		},
		baseURL: nominatimBaseURL,
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(rateLimit), rateLimit),
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "Proteus-Form-Toolkit/1.0 (https://github.com/UnknownOlympus/proteus)",
	}
}

// NewNominatimProviderWithClient creates a Nominatim provider with a custom
// HTTP client and limiter. Useful for testing with mocked HTTP clients.
func NewNominatimProviderWithClient(client HTTPClient, limiter *rate.Limiter, log *slog.Logger) *NominatimProvider {
	return &NominatimProvider{
		client:    client,
		baseURL:   nominatimBaseURL,
		log:       log,
		limiter:   limiter,
		userAgent: "Proteus-Form-Toolkit/1.0 (https://github.com/UnknownOlympus/proteus)",
	}
}

// Autocomplete returns suggestion candidates for a partial address query via
// the /search endpoint. The suggestion PlaceID encodes the OSM object as the
// type initial plus identifier (e.g. "N240109189") so that ResolvePlace can
// exchange it through /lookup later.
func (np *NominatimProvider) Autocomplete(ctx context.Context, query string) ([]models.Suggestion, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Autocomplete using Nominatim", "query", query)

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", fmt.Sprintf("%d", nominatimLimit))
	params.Set("addressdetails", "1")

	results, err := np.fetchResults(ctx, "/search", params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	suggestions := make([]models.Suggestion, 0, len(results))
	for _, result := range results {
		suggestions = append(suggestions, models.Suggestion{
			PlaceID:     osmPlaceID(result.OSMType, result.OSMID),
			Description: result.DisplayName,
		})
	}

	return suggestions, nil
}

// ResolvePlace exchanges an OSM place identifier for the formatted address
// and coordinates of the place via the /lookup endpoint.
func (np *NominatimProvider) ResolvePlace(ctx context.Context, placeID string) (*models.Place, error) {
	if placeID == "" {
		return nil, ErrEmptyQuery
	}
	if !validOSMPlaceID(placeID) {
		return nil, fmt.Errorf("%w: %s", ErrNominatimInvalidPlaceID, placeID)
	}

	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Resolving place using Nominatim", "place_id", placeID)

	params := url.Values{}
	params.Set("osm_ids", placeID)
	params.Set("format", "json")

	results, err := np.fetchResults(ctx, "/lookup", params)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, ErrNoResults
	}

	place, err := np.toPlace(results[0])
	if err != nil {
		return nil, err
	}

	return place, nil
}

// ReverseGeocode resolves a coordinate pair to the address located there via
// the /reverse endpoint. Nominatim returns at most one match for a reverse
// lookup, so the slice holds zero or one place.
func (np *NominatimProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) ([]models.Place, error) {
	if err := np.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit exceeded: %w", err)
	}

	np.log.DebugContext(ctx, "Reverse geocoding using Nominatim",
		"lat", coords.Latitude, "lon", coords.Longitude)

	reqURL, err := url.Parse(np.baseURL + "/reverse")
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	query := reqURL.Query()
	query.Set("lat", fmt.Sprintf("%f", coords.Latitude))
	query.Set("lon", fmt.Sprintf("%f", coords.Longitude))
	query.Set("format", "json")
	reqURL.RawQuery = query.Encode()

	body, err := np.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	// The reverse endpoint returns a single object, not an array.
	var result nominatimResult
	if err = json.Unmarshal(body, &result); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	if result.DisplayName == "" {
		return nil, ErrNoResults
	}

	place, err := np.toPlace(result)
	if err != nil {
		return nil, err
	}

	return []models.Place{*place}, nil
}

// fetchResults performs a GET against the given endpoint and decodes the
// array-shaped response common to /search and /lookup.
func (np *NominatimProvider) fetchResults(
	ctx context.Context,
	endpoint string,
	params url.Values,
) ([]nominatimResult, error) {
	reqURL, err := url.Parse(np.baseURL + endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	reqURL.RawQuery = params.Encode()

	np.log.DebugContext(ctx, "Nominatim request URL", "url", reqURL.String())

	body, err := np.get(ctx, reqURL.String())
	if err != nil {
		return nil, err
	}

	var results []nominatimResult
	if err = json.Unmarshal(body, &results); err != nil {
		np.log.ErrorContext(ctx, "Failed to parse Nominatim response", "error", err, "body", string(body))
		return nil, fmt.Errorf("failed to decode nominatim response: %w", err)
	}

	return results, nil
}

// get executes a single request with the headers the Nominatim usage policy
// requires and returns the raw response body.
func (np *NominatimProvider) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", np.userAgent)

	resp, err := np.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %w", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		np.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return nil, fmt.Errorf("%w: nominatim API returned status %d: %s", ErrProviderUnavailable, resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}

// toPlace converts a raw result into a Place, parsing the string coordinates.
func (np *NominatimProvider) toPlace(result nominatimResult) (*models.Place, error) {
	var lat, lon float64
	if _, err := fmt.Sscanf(result.Lat, "%f", &lat); err != nil {
		return nil, fmt.Errorf("%w: invalid latitude: %s", ErrNominatimInvalidCoords, result.Lat)
	}
	if _, err := fmt.Sscanf(result.Lon, "%f", &lon); err != nil {
		return nil, fmt.Errorf("%w: invalid longitude: %s", ErrNominatimInvalidCoords, result.Lon)
	}

	return &models.Place{
		FormattedAddress: result.DisplayName,
		Location:         models.Coordinates{Latitude: lat, Longitude: lon},
	}, nil
}

// osmPlaceID encodes an OSM object reference in the form /lookup accepts.
func osmPlaceID(osmType string, osmID int64) string {
	switch strings.ToLower(osmType) {
	case "node":
		return fmt.Sprintf("N%d", osmID)
	case "way":
		return fmt.Sprintf("W%d", osmID)
	case "relation":
		return fmt.Sprintf("R%d", osmID)
	default:
		return fmt.Sprintf("N%d", osmID)
	}
}

// validOSMPlaceID reports whether the identifier looks like a lookup token.
func validOSMPlaceID(placeID string) bool {
	if len(placeID) < 2 {
		return false
	}
	switch placeID[0] {
	case 'N', 'W', 'R':
	default:
		return false
	}
	for _, r := range placeID[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
