package geolocate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/UnknownOlympus/proteus/internal/models"
	gocache "github.com/patrickmn/go-cache"
)

// IPLocator implements Locator by geolocating the machine's public IP
// address through the ip-api.com JSON endpoint. IP positioning is
// coarse (city level at best), which is fine for prefilling an address
// field the user confirms anyway.
type IPLocator struct {
	client  HTTPClient     // HTTP client for making requests
	baseURL string         // Base URL for the ip-api endpoint
	consent bool           // Whether the user granted location lookups
	cache   *gocache.Cache // Holds the last fix for FixMaxAge
	log     *slog.Logger   // Logger for logging operations
}

// ipAPIResponse represents the JSON response from the ip-api.com endpoint.
type ipAPIResponse struct {
	Status  string  `json:"status"`  // "success" or "fail"
	Message string  `json:"message"` // Failure reason, set when status is "fail"
	Lat     float64 `json:"lat"`     // Latitude
	Lon     float64 `json:"lon"`     // Longitude
}

const (
	ipAPIBaseURL = "http://ip-api.com"
	fixCacheKey  = "fix"
)

// NewIPLocator creates a locator against the public ip-api.com endpoint.
// The consent flag is the terminal analog of a browser location permission:
// when false, Locate fails immediately with ErrPermissionDenied and no
// network request is ever made.
func NewIPLocator(consent bool, log *slog.Logger) *IPLocator {
	return &IPLocator{
		client:  &http.Client{Timeout: LocateTimeout},
		baseURL: ipAPIBaseURL,
		consent: consent,
		cache:   gocache.New(FixMaxAge, time.Minute),
		log:     log,
	}
}

// NewIPLocatorWithClient creates a locator with a custom HTTP client.
// Useful for testing with mocked HTTP clients.
func NewIPLocatorWithClient(client HTTPClient, consent bool, log *slog.Logger) *IPLocator {
	return &IPLocator{
		client:  client,
		baseURL: ipAPIBaseURL,
		consent: consent,
		cache:   gocache.New(FixMaxAge, time.Minute),
		log:     log,
	}
}

// Locate returns the device coordinates, serving a cached fix when one is
// fresh enough. The request is bounded by LocateTimeout regardless of the
// caller's context.
func (il *IPLocator) Locate(ctx context.Context) (models.Coordinates, error) {
	if !il.consent {
		return models.Coordinates{}, ErrPermissionDenied
	}

	if cached, found := il.cache.Get(fixCacheKey); found {
		if coords, ok := cached.(models.Coordinates); ok {
			il.log.DebugContext(ctx, "Serving cached location fix",
				"lat", coords.Latitude, "lon", coords.Longitude)
			return coords, nil
		}
	}

	ctx, cancel := context.WithTimeout(ctx, LocateTimeout)
	defer cancel()

	coords, err := il.fetchFix(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return models.Coordinates{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return models.Coordinates{}, err
	}

	il.cache.Set(fixCacheKey, coords, gocache.DefaultExpiration)

	return coords, nil
}

// fetchFix performs the actual ip-api request and maps its failure modes.
func (il *IPLocator) fetchFix(ctx context.Context) (models.Coordinates, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, il.baseURL+"/json/", nil)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to create request: %w", err)
	}

	il.log.DebugContext(ctx, "Requesting location fix", "url", req.URL.String())

	resp, err := il.client.Do(req)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		il.log.ErrorContext(ctx, "ip-api error", "status", resp.StatusCode, "body", string(body))
		return models.Coordinates{}, fmt.Errorf("%w: ip-api returned status %d", ErrUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return models.Coordinates{}, fmt.Errorf("failed to read response body: %w", err)
	}

	var result ipAPIResponse
	if err = json.Unmarshal(body, &result); err != nil {
		il.log.ErrorContext(ctx, "Failed to parse ip-api response", "error", err, "body", string(body))
		return models.Coordinates{}, fmt.Errorf("failed to decode ip-api response: %w", err)
	}

	if result.Status != "success" {
		il.log.WarnContext(ctx, "ip-api could not determine position", "message", result.Message)
		return models.Coordinates{}, fmt.Errorf("%w: %s", ErrUnavailable, result.Message)
	}

	coords := models.Coordinates{Latitude: result.Lat, Longitude: result.Lon}
	il.log.DebugContext(ctx, "Acquired location fix", "lat", coords.Latitude, "lon", coords.Longitude)

	return coords, nil
}
