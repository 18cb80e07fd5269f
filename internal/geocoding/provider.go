package geocoding

import (
	"context"
	"errors"
	"net/http"

	"github.com/UnknownOlympus/proteus/internal/models"
)

// Provider is the places/geocoding adapter the address field is built on.
// Implementations exchange free text for suggestions, a place identifier for a
// resolved place, and a coordinate pair for the places found at that location.
type Provider interface {
	// Autocomplete returns suggestion candidates for a partial address query.
	Autocomplete(ctx context.Context, query string) ([]models.Suggestion, error)
	// ResolvePlace exchanges an opaque place identifier for the formatted
	// address and coordinates of the place.
	ResolvePlace(ctx context.Context, placeID string) (*models.Place, error)
	// ReverseGeocode resolves a coordinate pair to the places located there,
	// best match first.
	ReverseGeocode(ctx context.Context, coords models.Coordinates) ([]models.Place, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Common errors shared by all providers.
var (
	// ErrNoResults is returned when the provider has nothing for the query,
	// place identifier, or coordinates.
	ErrNoResults = errors.New("provider returned no results")
	// ErrEmptyQuery is returned when an operation is called with empty input.
	ErrEmptyQuery = errors.New("provider got empty input")
	// ErrProviderUnavailable is returned when the provider cannot be reached
	// or answers with a failure status. The address field reacts by latching
	// manual entry; nothing is surfaced to the user.
	ErrProviderUnavailable = errors.New("places provider unavailable")
)
