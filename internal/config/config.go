package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the configuration settings for the form toolkit.
// It includes the environment, the places provider selection, geolocation
// consent, the writing assistant, and the UI tuning knobs.
//
// Fields:
// - Env: The current environment (e.g., local, dev, prod).
// - MetricsPort: The port for the monitoring server (0 keeps it off).
// - ProviderType: The type of places provider to use (google, nominatim).
// - APIKey: The API key for accessing external services (required for Google).
// - RateLimit: The number of provider requests allowed per second.
// - LocateConsent: Whether reading the device location was consented to.
// - AssistKey: The API key for the writing assistant (empty disables it).
// - AssistModel: The model the writing assistant calls.
// - Theme: The color theme: light, dark, or auto.
// - Debounce: The delay between typing and the suggestion query.
// - CacheTTL: How long provider responses are reused.
type Config struct {
	Env           string        `yaml:"env"`                 // Env is the current environment: local, dev, prod.
	MetricsPort   int           `yaml:"metrics.port"`        // MetricsPort is the monitoring server port, 0 disables it.
	ProviderType  string        `yaml:"provider.type"`       // ProviderType specifies which places provider to use.
	APIKey        string        `yaml:"provider.api_key"`    // The API key for accessing external services.
	RateLimit     int           `yaml:"provider.rate_limit"` // Provider requests allowed per second.
	LocateConsent bool          `yaml:"locate.consent"`      // Consent for reading the device location.
	AssistKey     string        `yaml:"assist.api_key"`      // The API key for the writing assistant.
	AssistModel   string        `yaml:"assist.model"`        // The model the writing assistant calls.
	Theme         string        `yaml:"ui.theme"`            // Theme selects the color scheme: light, dark, auto.
	Debounce      time.Duration `yaml:"ui.debounce"`         // Debounce between typing and suggestion queries.
	CacheTTL      time.Duration `yaml:"provider.cache_ttl"`  // How long provider responses are reused.
}

// MustLoad loads the configuration from the environment and returns a Config struct.
func MustLoad() *Config {
	_ = godotenv.Load()

	debounce, err := time.ParseDuration(setDeafultEnv("PROTEUS_DEBOUNCE", "300ms"))
	if err != nil {
		panic("failed to parse debounce from configuration")
	}

	cacheTTL, err := time.ParseDuration(setDeafultEnv("PROTEUS_CACHE_TTL", "5m"))
	if err != nil {
		panic("failed to parse cache ttl from configuration")
	}

	metricsPort, err := strconv.Atoi(setDeafultEnv("PROTEUS_METRICS_PORT", "0"))
	if err != nil {
		panic("failed to parse port for monitoring server from configuration")
	}

	rateLimit, err := strconv.Atoi(setDeafultEnv("PROTEUS_PROVIDER_RATE_LIMIT", "10"))
	if err != nil {
		panic("failed to parse provider rate limit from configuration, must be an integer types")
	}

	consent, err := strconv.ParseBool(setDeafultEnv("PROTEUS_GEOLOCATE_CONSENT", "false"))
	if err != nil {
		panic("failed to parse geolocation consent from configuration")
	}

	return &Config{
		Env:           setDeafultEnv("PROTEUS_ENV", "production"),
		MetricsPort:   metricsPort,
		ProviderType:  setDeafultEnv("PROTEUS_PROVIDER_TYPE", "google"), // Default to Google for backward compatibility
		APIKey:        os.Getenv("PROTEUS_PROVIDER_KEY"),
		RateLimit:     rateLimit,
		LocateConsent: consent,
		AssistKey:     os.Getenv("PROTEUS_ASSIST_KEY"),
		AssistModel:   setDeafultEnv("PROTEUS_ASSIST_MODEL", "gemini-2.0-flash"),
		Theme:         setDeafultEnv("PROTEUS_THEME", "auto"),
		Debounce:      debounce,
		CacheTTL:      cacheTTL,
	}
}

func setDeafultEnv(key, override string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		value = override
	}

	return value
}
