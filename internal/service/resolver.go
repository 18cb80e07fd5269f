package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/UnknownOlympus/proteus/internal/geocoding"
	"github.com/UnknownOlympus/proteus/internal/geolocate"
	"github.com/UnknownOlympus/proteus/internal/metrics"
	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
)

// Resolver coordinates the places provider and the device locator on behalf
// of the address field, including logging, metrics tracking, and the
// fallback rules for failed lookups.
type Resolver struct {
	log          *slog.Logger       // Logger for logging service activities
	provider     geocoding.Provider // Places provider for suggestions and place details
	providerName string             // Name of the provider for metrics labeling
	locator      geolocate.Locator  // Locator for one-shot device positioning
	metrics      *metrics.Metrics   // Metrics for tracking service performance
}

// NewResolver creates a new instance of Resolver. It takes a logger, a
// places provider, the provider name for metrics labeling, a device locator,
// and metrics for monitoring. It returns a pointer to the newly created
// Resolver. A nil metrics set is replaced by one on a private registry, so
// callers embedding the toolkit may skip the monitoring wiring entirely.
func NewResolver(
	log *slog.Logger,
	provider geocoding.Provider,
	providerName string,
	locator geolocate.Locator,
	metrics *metrics.Metrics,
) *Resolver {
	return &Resolver{
		log:          log,
		provider:     provider,
		providerName: providerName,
		locator:      locator,
		metrics:      ensureMetrics(metrics),
	}
}

// ensureMetrics returns the given metrics, or a set registered on a private
// registry when none were provided.
func ensureMetrics(m *metrics.Metrics) *metrics.Metrics {
	if m != nil {
		return m
	}
	return metrics.NewMetrics(prometheus.NewRegistry())
}

// Suggest returns autocomplete suggestions for a partial address query.
// A blank query and a query with no matches both yield an empty slice and
// no error. Any other provider failure is returned to the caller, which
// switches the field into manual entry for the rest of the session.
func (rs *Resolver) Suggest(ctx context.Context, query string) ([]models.Suggestion, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	rs.log.DebugContext(ctx, "Fetching suggestions", "query", query)

	rs.metrics.ActiveLookups.Inc()
	startTime := time.Now()
	suggestions, err := rs.provider.Autocomplete(ctx, query)
	duration := time.Since(startTime).Seconds()
	rs.metrics.ActiveLookups.Dec()
	rs.metrics.RequestSeconds.WithLabelValues(rs.providerName, "autocomplete").Observe(duration)

	if err != nil {
		if errors.Is(err, geocoding.ErrNoResults) {
			rs.metrics.SuggestionQueries.WithLabelValues("empty").Inc()
			return []models.Suggestion{}, nil
		}

		rs.log.ErrorContext(ctx, "Failed to fetch suggestions", "query", query, "error", err)
		rs.metrics.SuggestionQueries.WithLabelValues("error").Inc()
		rs.metrics.APIErrors.WithLabelValues(rs.providerName).Inc()
		return nil, err
	}

	rs.metrics.SuggestionQueries.WithLabelValues("success").Inc()

	return suggestions, nil
}

// Resolve commits a selected suggestion to an address value. It never fails:
// when place details cannot be fetched, the suggestion description is kept
// as the address with an undefined position, on the grounds that a readable
// address the user picked beats an error message.
func (rs *Resolver) Resolve(ctx context.Context, sug models.Suggestion) models.AddressValue {
	if sug.PlaceID == "" && sug.Description == "" {
		return models.ClearedAddressValue()
	}

	rs.log.DebugContext(ctx, "Resolving suggestion", "place_id", sug.PlaceID)

	rs.metrics.ActiveLookups.Inc()
	startTime := time.Now()
	place, err := rs.provider.ResolvePlace(ctx, sug.PlaceID)
	duration := time.Since(startTime).Seconds()
	rs.metrics.ActiveLookups.Dec()
	rs.metrics.RequestSeconds.WithLabelValues(rs.providerName, "details").Observe(duration)

	if err != nil {
		rs.log.WarnContext(ctx, "Falling back to suggestion text",
			"place_id", sug.PlaceID, "error", err)
		rs.metrics.PlacesResolved.WithLabelValues("fallback").Inc()
		rs.metrics.APIErrors.WithLabelValues(rs.providerName).Inc()
		return models.NewAddressValue(sug.Description, models.Coordinates{})
	}

	rs.metrics.PlacesResolved.WithLabelValues("success").Inc()

	return models.NewAddressValue(place.FormattedAddress, place.Location)
}

// Position acquires one device position fix. Failures are classified into
// the geolocation outcome metric before being returned.
func (rs *Resolver) Position(ctx context.Context) (models.Coordinates, error) {
	coords, err := rs.locator.Locate(ctx)
	if err != nil {
		rs.log.WarnContext(ctx, "Failed to locate device", "error", err)
		rs.metrics.GeolocationAttempts.WithLabelValues(locateOutcome(err)).Inc()
		return models.Coordinates{}, err
	}

	rs.log.DebugContext(ctx, "Device located", "lat", coords.Latitude, "lon", coords.Longitude)

	return coords, nil
}

// AddressAt reverse geocodes a position fix into an address value plus a
// synthetic suggestion the field can show as the selected entry.
func (rs *Resolver) AddressAt(ctx context.Context, coords models.Coordinates) (models.AddressValue, models.Suggestion, error) {
	rs.metrics.ActiveLookups.Inc()
	startTime := time.Now()
	places, err := rs.provider.ReverseGeocode(ctx, coords)
	duration := time.Since(startTime).Seconds()
	rs.metrics.ActiveLookups.Dec()
	rs.metrics.RequestSeconds.WithLabelValues(rs.providerName, "reverse").Observe(duration)

	if err != nil {
		rs.log.WarnContext(ctx, "Failed to reverse geocode device position", "error", err)
		rs.metrics.GeolocationAttempts.WithLabelValues("no_address").Inc()
		rs.metrics.APIErrors.WithLabelValues(rs.providerName).Inc()
		return models.AddressValue{}, models.Suggestion{}, err
	}
	if len(places) == 0 {
		rs.metrics.GeolocationAttempts.WithLabelValues("no_address").Inc()
		return models.AddressValue{}, models.Suggestion{}, geocoding.ErrNoResults
	}

	best := places[0]
	rs.metrics.GeolocationAttempts.WithLabelValues("success").Inc()

	// The detected place never came from an autocomplete query, so it gets
	// a synthetic suggestion entry with a generated identifier.
	sug := models.Suggestion{
		PlaceID:     uuid.NewString(),
		Description: best.FormattedAddress,
	}

	return models.NewAddressValue(best.FormattedAddress, best.Location), sug, nil
}

// Locate acquires the device position and reverse geocodes it in one step.
// Every failure is reported through the returned error and metrics only;
// callers reset to idle without surfacing anything.
func (rs *Resolver) Locate(ctx context.Context) (models.AddressValue, models.Suggestion, error) {
	coords, err := rs.Position(ctx)
	if err != nil {
		return models.AddressValue{}, models.Suggestion{}, err
	}

	return rs.AddressAt(ctx, coords)
}

// locateOutcome maps locator errors to their metrics label.
func locateOutcome(err error) string {
	switch {
	case errors.Is(err, geolocate.ErrPermissionDenied):
		return "denied"
	case errors.Is(err, geolocate.ErrTimeout):
		return "timeout"
	default:
		return "unavailable"
	}
}
