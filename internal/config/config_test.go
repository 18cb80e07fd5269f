package config_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/proteus/internal/config"
	"github.com/stretchr/testify/assert"
)

func Test_MustLoadFromFile(t *testing.T) {
	t.Setenv("PROTEUS_ENV", "local")
	t.Setenv("PROTEUS_PROVIDER_TYPE", "nominatim")
	t.Setenv("PROTEUS_PROVIDER_KEY", "testAPIKey")
	t.Setenv("PROTEUS_GEOLOCATE_CONSENT", "true")
	t.Setenv("PROTEUS_ASSIST_KEY", "testAssistKey")
	t.Setenv("PROTEUS_ASSIST_MODEL", "gemini-2.5-pro")
	t.Setenv("PROTEUS_THEME", "dark")
	t.Setenv("PROTEUS_DEBOUNCE", "150ms")
	t.Setenv("PROTEUS_CACHE_TTL", "10m")

	cfg := config.MustLoad()

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, 0, cfg.MetricsPort)
	assert.Equal(t, "nominatim", cfg.ProviderType)
	assert.Equal(t, "testAPIKey", cfg.APIKey)
	assert.Equal(t, 10, cfg.RateLimit)
	assert.True(t, cfg.LocateConsent)
	assert.Equal(t, "testAssistKey", cfg.AssistKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.AssistModel)
	assert.Equal(t, "dark", cfg.Theme)
	assert.Equal(t, 150*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
}

func TestMustLoad_DebounceError(t *testing.T) {
	t.Setenv("PROTEUS_DEBOUNCE", "error_value")

	assert.PanicsWithValue(t, "failed to parse debounce from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_CacheTTLError(t *testing.T) {
	t.Setenv("PROTEUS_CACHE_TTL", "error_value")

	assert.PanicsWithValue(t, "failed to parse cache ttl from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_PortError(t *testing.T) {
	t.Setenv("PROTEUS_METRICS_PORT", "error_value")

	assert.PanicsWithValue(t, "failed to parse port for monitoring server from configuration", func() {
		config.MustLoad()
	})
}

func TestMustLoad_RateLimitError(t *testing.T) {
	t.Setenv("PROTEUS_PROVIDER_RATE_LIMIT", "error_value")

	assert.PanicsWithValue(t, "failed to parse provider rate limit from configuration, must be an integer types", func() {
		config.MustLoad()
	})
}

func TestMustLoad_ConsentError(t *testing.T) {
	t.Setenv("PROTEUS_GEOLOCATE_CONSENT", "error_value")

	assert.PanicsWithValue(t, "failed to parse geolocation consent from configuration", func() {
		config.MustLoad()
	})
}
