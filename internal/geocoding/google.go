package geocoding

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/proteus/internal/models"
	"googlemaps.github.io/maps"
)

// GoogleProvider is a struct that holds the client for Google Maps API
// and a logger for logging purposes. It is used to interact with the
// Google Maps places and geocoding services.
type GoogleProvider struct {
	client GoogleAPIClient // client is the Google Maps API client
	log    *slog.Logger    // log is the logger for logging operations
}

// GoogleAPIClient narrows the Google Maps client to the calls the provider
// makes, which keeps it easy to mock in tests.
type GoogleAPIClient interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
	PlaceDetails(ctx context.Context, r *maps.PlaceDetailsRequest) (maps.PlaceDetailsResult, error)
	ReverseGeocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// NewGoogleProvider initializes a new GoogleProvider with the given API client and logger.
func NewGoogleProvider(client GoogleAPIClient, log *slog.Logger) *GoogleProvider {
	return &GoogleProvider{client: client, log: log}
}

// Autocomplete returns place suggestions for a partial address query using the
// Google Places Autocomplete API. It returns ErrNoResults when the API has no
// predictions for the query.
func (gp *GoogleProvider) Autocomplete(ctx context.Context, query string) ([]models.Suggestion, error) {
	if query == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Autocomplete using Google Places", "query", query)

	req := maps.PlaceAutocompleteRequest{Input: query}
	resp, err := gp.client.PlaceAutocomplete(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to autocomplete query: %w", ErrProviderUnavailable, err)
	}

	if len(resp.Predictions) == 0 {
		return nil, ErrNoResults
	}

	suggestions := make([]models.Suggestion, 0, len(resp.Predictions))
	for _, prediction := range resp.Predictions {
		suggestions = append(suggestions, models.Suggestion{
			PlaceID:     prediction.PlaceID,
			Description: prediction.Description,
		})
	}

	return suggestions, nil
}

// ResolvePlace exchanges a place identifier for the formatted address and
// location of the place using the Google Place Details API.
func (gp *GoogleProvider) ResolvePlace(ctx context.Context, placeID string) (*models.Place, error) {
	if placeID == "" {
		return nil, ErrEmptyQuery
	}

	gp.log.DebugContext(ctx, "Resolving place using Google Place Details", "place_id", placeID)

	req := maps.PlaceDetailsRequest{
		PlaceID: placeID,
		Fields: []maps.PlaceDetailsFieldMask{
			maps.PlaceDetailsFieldMaskFormattedAddress,
			maps.PlaceDetailsFieldMaskGeometry,
		},
	}
	details, err := gp.client.PlaceDetails(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to resolve place: %w", ErrProviderUnavailable, err)
	}

	if details.FormattedAddress == "" {
		return nil, ErrNoResults
	}
	location := details.Geometry.Location

	return &models.Place{
		FormattedAddress: details.FormattedAddress,
		Location:         models.Coordinates{Latitude: location.Lat, Longitude: location.Lng},
	}, nil
}

// ReverseGeocode resolves a coordinate pair to the addresses located there
// using the Google Maps Geocoding API, best match first.
func (gp *GoogleProvider) ReverseGeocode(ctx context.Context, coords models.Coordinates) ([]models.Place, error) {
	gp.log.DebugContext(ctx, "Reverse geocoding using Google Maps",
		"lat", coords.Latitude, "lon", coords.Longitude)

	req := maps.GeocodingRequest{
		LatLng: &maps.LatLng{Lat: coords.Latitude, Lng: coords.Longitude},
	}
	results, err := gp.client.ReverseGeocode(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to reverse geocode: %w", ErrProviderUnavailable, err)
	}

	if len(results) == 0 {
		return nil, ErrNoResults
	}

	places := make([]models.Place, 0, len(results))
	for _, result := range results {
		places = append(places, models.Place{
			FormattedAddress: result.FormattedAddress,
			Location: models.Coordinates{
				Latitude:  result.Geometry.Location.Lat,
				Longitude: result.Geometry.Location.Lng,
			},
		})
	}

	return places, nil
}
