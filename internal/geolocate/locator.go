// Package geolocate resolves the approximate position of the machine the
// program runs on. It is the terminal counterpart of a one-shot device
// location request: callers ask once, get a coordinate pair or a typed
// error, and never receive position updates.
package geolocate

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/UnknownOlympus/proteus/internal/models"
)

// Locator acquires the current position of the device.
type Locator interface {
	// Locate returns the current device coordinates. A fix obtained within
	// FixMaxAge may be served from cache instead of a fresh lookup.
	Locate(ctx context.Context) (models.Coordinates, error)
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Typed errors callers can branch on. The address field treats all of them
// the same way (reset without surfacing a message), but logs and metrics
// distinguish them.
var (
	// ErrPermissionDenied is returned when the user has not consented to
	// location lookups.
	ErrPermissionDenied = errors.New("location permission denied")
	// ErrTimeout is returned when no fix could be acquired within LocateTimeout.
	ErrTimeout = errors.New("location request timed out")
	// ErrUnavailable is returned when the position cannot be determined.
	ErrUnavailable = errors.New("location unavailable")
)

const (
	// LocateTimeout bounds a single location request.
	LocateTimeout = 10 * time.Second
	// FixMaxAge is how old a cached fix may be and still be served.
	FixMaxAge = 5 * time.Minute
)
