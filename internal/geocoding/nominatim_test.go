package geocoding_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"github.com/UnknownOlympus/proteus/internal/geocoding"
	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"
)

// mockHTTPClient is a mock implementation of HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

// testLimiter never blocks, so tests are not throttled.
func testLimiter() *rate.Limiter {
	return rate.NewLimiter(rate.Inf, 1)
}

func TestNominatimProvider_Autocomplete(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful autocomplete", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				// Verify request parameters
				assert.Equal(t, "GET", req.Method)
				assert.Contains(t, req.URL.String(), "nominatim.openstreetmap.org")
				assert.Contains(t, req.URL.Path, "/search")
				assert.Equal(t, "1600 Amphitheatre", req.URL.Query().Get("q"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.Equal(t, "5", req.URL.Query().Get("limit"))
				assert.Equal(t, "1", req.URL.Query().Get("addressdetails"))
				assert.Equal(
					t,
					"Proteus-Form-Toolkit/1.0 (https://github.com/UnknownOlympus/proteus)",
					req.Header.Get("User-Agent"),
				)

				// Return mock response
				responseBody := `[
					{"osm_type":"way","osm_id":23733659,"display_name":"1600 Amphitheatre Parkway, Mountain View, CA","lat":"37.4224764","lon":"-122.0842499"},
					{"osm_type":"node","osm_id":240109189,"display_name":"Amphitheatre Parkway, Mountain View, CA","lat":"37.4230000","lon":"-122.0850000"}
				]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "1600 Amphitheatre")

		require.NoError(t, err)
		require.Len(t, suggestions, 2)
		assert.Equal(t, "W23733659", suggestions[0].PlaceID)
		assert.Equal(t, "1600 Amphitheatre Parkway, Mountain View, CA", suggestions[0].Description)
		assert.Equal(t, "N240109189", suggestions[1].PlaceID)
	})

	t.Run("empty query", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called for empty query")
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "")

		require.Error(t, err)
		require.Nil(t, suggestions)
		assert.ErrorIs(t, err, geocoding.ErrEmptyQuery)
	})

	t.Run("empty response from API", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `[]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "nowhere at all")

		require.Error(t, err)
		require.Nil(t, suggestions)
		assert.ErrorIs(t, err, geocoding.ErrNoResults)
	})

	t.Run("HTTP error status", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"error":"Rate limit exceeded"}`
				return &http.Response{
					StatusCode: http.StatusTooManyRequests,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, suggestions)
		assert.ErrorIs(t, err, geocoding.ErrProviderUnavailable)
		assert.Contains(t, err.Error(), "nominatim API returned status 429")
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `invalid json`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, suggestions)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})

	t.Run("HTTP client returns error", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(ctx, "some address")

		require.Error(t, err)
		require.Nil(t, suggestions)
		assert.ErrorIs(t, err, geocoding.ErrProviderUnavailable)
		assert.Contains(t, err.Error(), "failed to execute request")
	})

	t.Run("context cancellation", func(t *testing.T) {
		newCtx, cancel := context.WithCancel(context.Background())
		cancel() // Cancel immediately

		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				return nil, req.Context().Err()
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		suggestions, err := provider.Autocomplete(newCtx, "some address")

		require.Error(t, err)
		require.Nil(t, suggestions)
	})
}

func TestNominatimProvider_ResolvePlace(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful place lookup", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Contains(t, req.URL.Path, "/lookup")
				assert.Equal(t, "W23733659", req.URL.Query().Get("osm_ids"))
				assert.Equal(t, "json", req.URL.Query().Get("format"))

				responseBody := `[{"osm_type":"way","osm_id":23733659,"display_name":"1600 Amphitheatre Parkway, Mountain View, CA","lat":"37.4224764","lon":"-122.0842499"}]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		place, err := provider.ResolvePlace(ctx, "W23733659")

		require.NoError(t, err)
		require.NotNil(t, place)
		assert.Equal(t, "1600 Amphitheatre Parkway, Mountain View, CA", place.FormattedAddress)
		assert.InEpsilon(t, 37.4224764, place.Location.Latitude, 0.0001)
		assert.InEpsilon(t, -122.0842499, place.Location.Longitude, 0.0001)
	})

	t.Run("invalid place identifier", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				t.Fatal("HTTP client should not be called for invalid identifier")
				return nil, assert.AnError
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		place, err := provider.ResolvePlace(ctx, "not-an-osm-id")

		require.Error(t, err)
		require.Nil(t, place)
		assert.ErrorIs(t, err, geocoding.ErrNominatimInvalidPlaceID)
	})

	t.Run("empty response from API", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`[]`)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		place, err := provider.ResolvePlace(ctx, "N999999999")

		require.Error(t, err)
		require.Nil(t, place)
		assert.ErrorIs(t, err, geocoding.ErrNoResults)
	})

	t.Run("invalid latitude in response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `[{"osm_type":"node","osm_id":1,"display_name":"Somewhere","lat":"invalid","lon":"-122.0842499"}]`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		place, err := provider.ResolvePlace(ctx, "N1")

		require.Error(t, err)
		require.Nil(t, place)
		require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
		assert.Contains(t, err.Error(), "invalid latitude")
	})
}

func TestNominatimProvider_ReverseGeocode(t *testing.T) {
	ctx := context.Background()
	logger := slog.Default()

	t.Run("successful reverse geocoding", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(req *http.Request) (*http.Response, error) {
				assert.Contains(t, req.URL.Path, "/reverse")
				assert.Equal(t, "json", req.URL.Query().Get("format"))
				assert.NotEmpty(t, req.URL.Query().Get("lat"))
				assert.NotEmpty(t, req.URL.Query().Get("lon"))

				// The reverse endpoint returns a single object
				responseBody := `{"osm_type":"way","osm_id":23733659,"display_name":"1600 Amphitheatre Parkway, Mountain View, CA","lat":"37.4224764","lon":"-122.0842499"}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		places, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 37.4224764, Longitude: -122.0842499})

		require.NoError(t, err)
		require.Len(t, places, 1)
		assert.Equal(t, "1600 Amphitheatre Parkway, Mountain View, CA", places[0].FormattedAddress)
		assert.InEpsilon(t, 37.4224764, places[0].Location.Latitude, 0.0001)
	})

	t.Run("no address at coordinates", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				responseBody := `{"error":"Unable to geocode"}`
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(responseBody)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		places, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 89.9, Longitude: 0.1})

		require.Error(t, err)
		require.Nil(t, places)
		assert.ErrorIs(t, err, geocoding.ErrNoResults)
	})

	t.Run("invalid JSON response", func(t *testing.T) {
		mockClient := &mockHTTPClient{
			doFunc: func(_ *http.Request) (*http.Response, error) {
				return &http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(bytes.NewBufferString(`[not json`)),
				}, nil
			},
		}

		provider := geocoding.NewNominatimProviderWithClient(mockClient, testLimiter(), logger)
		places, err := provider.ReverseGeocode(ctx, models.Coordinates{Latitude: 50.45, Longitude: 30.52})

		require.Error(t, err)
		require.Nil(t, places)
		assert.Contains(t, err.Error(), "failed to decode nominatim response")
	})
}

func TestNewNominatimProvider(t *testing.T) {
	logger := slog.Default()

	provider := geocoding.NewNominatimProvider(1, logger)

	require.NotNil(t, provider)
}
