package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/UnknownOlympus/proteus/internal/assist"
	"github.com/UnknownOlympus/proteus/internal/config"
	"github.com/UnknownOlympus/proteus/internal/field"
	"github.com/UnknownOlympus/proteus/internal/form"
	"github.com/UnknownOlympus/proteus/internal/geocoding"
	"github.com/UnknownOlympus/proteus/internal/geolocate"
	"github.com/UnknownOlympus/proteus/internal/metrics"
	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/UnknownOlympus/proteus/internal/service"
	"github.com/UnknownOlympus/proteus/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Constants for different environment types.
const (
	envLocal = "local"
	envDev   = "development"
	envProd  = "production"
)

// main is the entry point of the application.
func main() {
	// Create a context that will be canceled when an interrupt signal is received.
	// This allows for graceful shutdown.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	// Load application configuration.
	cfg := config.MustLoad()

	// Set up the logger based on the environment.
	logger := setupLogger(cfg.Env)

	// Create a separate registry for metrics with exemplar
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	appMetrics := metrics.NewMetrics(reg)

	// Create places provider using factory pattern based on configuration
	// This allows runtime selection between different providers (Google, Nominatim, etc.)
	providerConfig := geocoding.ProviderConfig{
		Type:      geocoding.ProviderType(cfg.ProviderType),
		APIKey:    cfg.APIKey,
		RateLimit: cfg.RateLimit,
		Logger:    logger,
	}

	geoProvider, err := geocoding.NewProvider(providerConfig)
	if err != nil {
		log.Fatalf("Failed to create places provider: %v", err)
	}
	defer stop()

	logger.InfoContext(ctx, "Places provider initialized", "type", cfg.ProviderType)

	// Wrap the provider with a TTL cache and wire the resolver the address
	// field talks to: cached provider lookups plus one-shot IP geolocation.
	cached := geocoding.NewCachedProvider(geoProvider, cfg.CacheTTL, logger)
	locator := geolocate.NewIPLocator(cfg.LocateConsent, logger)
	resolver := service.NewResolver(logger, cached, cfg.ProviderType, locator, appMetrics)

	// The writing assistant is optional: without a key the assisted field
	// degrades to a plain textarea.
	var assistClient assist.Client
	if cfg.AssistKey != "" {
		gemini, aerr := assist.NewGeminiClient(ctx, cfg.AssistKey, cfg.AssistModel, logger)
		if aerr != nil {
			logger.WarnContext(ctx, "Writing assistant disabled", "error", aerr)
		} else {
			assistClient = gemini
		}
	}

	styles := ui.NewStyles(ui.ThemeFor(cfg.Theme))

	model, err := newDemoForm(ctx, resolver, assistClient, &styles, cfg.Debounce)
	if err != nil {
		log.Fatalf("Failed to build form: %v", err)
	}

	// Start the monitoring server in a goroutine when a port is configured.
	if cfg.MetricsPort > 0 {
		go startMonitoringServer(ctx, logger, reg, cfg.MetricsPort)
	}

	program := tea.NewProgram(model, tea.WithContext(ctx))

	finalModel, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			logger.InfoContext(ctx, "Shutdown signal received. Stopping application...")
			return
		}
		log.Fatalf("Failed to run form: %v", err)
	}

	final, ok := finalModel.(*form.Model)
	if !ok || !final.Submitted() {
		return
	}

	// Print the submitted values so the demo is pipeable.
	out, err := json.MarshalIndent(final.State().Values(), "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode submitted values: %v", err)
	}
	fmt.Println(string(out))
}

// newDemoForm assembles the intake form the demo runs: one field per
// variant, bound to a shared state tree, with the validation schema the
// submit step checks.
func newDemoForm(
	ctx context.Context,
	resolver *service.Resolver,
	assistClient assist.Client,
	styles *ui.Styles,
	debounce time.Duration,
) (*form.Model, error) {
	state := form.NewState()

	schema := form.Schema{
		"profile.name":     "required",
		"profile.email":    "required,email",
		"profile.password": "omitempty,min=8",
		"profile.website":  "omitempty,url",
		"profile.phone":    "omitempty,e164",
		"work.role":        "required",
		"work.team_size":   "omitempty,gte=1,lte=500",
		"work.start":       "omitempty,datetime=2006-01-02",
		"shipping.address": "required",
		"extras.color":     "omitempty,hexcolor",
		"extras.invite":    "omitempty,numeric,len=6",
		"legal.terms":      "required",
	}

	defs := []field.Config{
		{
			Kind:        field.KindText,
			Binding:     state.Bind("profile.name"),
			Title:       "Full name",
			Placeholder: "Ada Lovelace",
			Required:    true,
			CharLimit:   64,
		},
		{
			Kind:        field.KindEmail,
			Binding:     state.Bind("profile.email"),
			Title:       "Email",
			Placeholder: "ada@example.com",
			Required:    true,
		},
		{
			Kind:        field.KindPassword,
			Binding:     state.Bind("profile.password"),
			Title:       "Passphrase",
			Description: "Eight characters minimum.",
		},
		{
			Kind:        field.KindURL,
			Binding:     state.Bind("profile.website"),
			Title:       "Website",
			Placeholder: "https://",
		},
		{
			Kind:        field.KindPhone,
			Binding:     state.Bind("profile.phone"),
			Title:       "Phone",
			Placeholder: "(555) 010-0123",
		},
		{
			Kind:        field.KindTextarea,
			Binding:     state.Bind("profile.bio"),
			Title:       "Short bio",
			Description: "A few sentences about yourself.",
			CharLimit:   500,
		},
		{
			Kind:    field.KindSelect,
			Binding: state.Bind("work.role"),
			Title:   "Role",
			Options: []models.Option{
				{Label: "Backend engineer", Value: "backend"},
				{Label: "Frontend engineer", Value: "frontend"},
				{Label: "Site reliability", Value: "sre"},
				{Label: "Product manager", Value: "pm"},
			},
			Required: true,
		},
		{
			Kind:    field.KindMultiSelect,
			Binding: state.Bind("work.languages"),
			Title:   "Languages",
			Options: models.OptionsFrom("go", "rust", "python", "typescript"),
		},
		{
			Kind:        field.KindTags,
			Binding:     state.Bind("work.skills"),
			Title:       "Skills",
			Description: "Comma separated.",
			Placeholder: "tui, forms, maps",
		},
		{
			Kind:        field.KindInteger,
			Binding:     state.Bind("work.team_size"),
			Title:       "Team size",
			Placeholder: "4",
		},
		{
			Kind:        field.KindNumber,
			Binding:     state.Bind("work.rate"),
			Title:       "Hourly rate",
			Placeholder: "120.50",
		},
		{
			Kind:    field.KindSlider,
			Binding: state.Bind("work.experience"),
			Title:   "Years of experience",
			Min:     0,
			Max:     30,
			Step:    1,
		},
		{
			Kind:        field.KindDate,
			Binding:     state.Bind("work.start"),
			Title:       "Start date",
			Description: "YYYY-MM-DD, arrows step by day.",
		},
		{
			Kind:    field.KindTime,
			Binding: state.Bind("work.standup"),
			Title:   "Daily standup",
		},
		{
			Kind:        field.KindAddress,
			Binding:     state.Bind("shipping.address"),
			Title:       "Mailing address",
			Description: "Start typing to search, or ctrl+l to use your location.",
			Placeholder: "123 Main St",
			Required:    true,
			Resolver:    resolver,
			Debounce:    debounce,
			Context:     ctx,
		},
		{
			Kind:         field.KindFile,
			Binding:      state.Bind("extras.resume"),
			Title:        "Resume",
			AllowedTypes: []string{".pdf", ".md", ".txt"},
		},
		{
			Kind:        field.KindColor,
			Binding:     state.Bind("extras.color"),
			Title:       "Accent color",
			Placeholder: "#7d79ff",
		},
		{
			Kind:    field.KindOTP,
			Binding: state.Bind("extras.invite"),
			Title:   "Invite code",
		},
		{
			Kind:    field.KindRating,
			Binding: state.Bind("extras.rating"),
			Title:   "Rate this form",
		},
		{
			Kind:        field.KindCheckbox,
			Binding:     state.Bind("extras.updates"),
			Title:       "Updates",
			Placeholder: "Email me occasional release notes",
		},
		{
			Kind:     field.KindConfirm,
			Binding:  state.Bind("legal.terms"),
			Title:    "Accept the terms?",
			Required: true,
		},
	}

	// The assisted variant needs a configured client; slot it in after the
	// bio when one is available.
	if assistClient != nil {
		defs = append(defs, field.Config{
			Kind:         field.KindAssisted,
			Binding:      state.Bind("profile.pitch"),
			Title:        "Elevator pitch",
			Description:  "ctrl+g asks the assistant to tighten your draft.",
			AssistPrompt: "You polish short professional pitches. Keep the writer's voice.",
			Assist:       assistClient,
			Context:      ctx,
		})
	}

	fields := make([]field.Input, 0, len(defs))
	for _, def := range defs {
		def.Styles = styles
		built, err := field.New(def)
		if err != nil {
			return nil, fmt.Errorf("failed to build field %q: %w", def.Binding.Name(), err)
		}
		fields = append(fields, built)
	}

	return form.New(form.Config{
		Title:  "New teammate intake",
		State:  state,
		Schema: schema,
		Fields: fields,
		Styles: styles,
	})
}

// startMonitoringServer starts an HTTP server that provides health check and metrics endpoints.
// It listens on the specified port and logs the server's status and any errors encountered.
//
// Parameters:
// - ctx: A context.Context for managing cancellation and timeouts.
// - log: A logger for logging server events and errors.
// - reg: A registry with Prometheus collectors.
// - port: The port number on which the server will listen.
func startMonitoringServer(
	ctx context.Context,
	log *slog.Logger,
	reg *prometheus.Registry,
	port int,
) {
	http.HandleFunc("/healthz", func(writer http.ResponseWriter, _ *http.Request) {
		log.DebugContext(ctx, "Performing health checks...")
		writer.WriteHeader(http.StatusOK)
		_, err := writer.Write([]byte("OK"))
		if err != nil {
			log.ErrorContext(ctx, "failed to write reply", "error", err)
		}

		log.DebugContext(ctx, "Health checks completed", "status", http.StatusOK)
	})
	http.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	log.InfoContext(ctx, "Starting monitoring server", "port", port)
	readTimeout := 5
	writeTimeout := 10
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      http.DefaultServeMux,
		ReadTimeout:  time.Duration(readTimeout) * time.Second,
		WriteTimeout: time.Duration(writeTimeout) * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.ErrorContext(ctx, "Monitoring server failed", "error", err)
	}
}

// setupLogger initializes and returns a logger based on the environment provided.
// The form owns the terminal while it runs, so local mode logs to a file and
// the other modes log to stderr, where output is rare (warnings and up).
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		sink, err := os.OpenFile("proteus.log", os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			sink = os.Stderr
		}
		log = slog.New(
			slog.NewTextHandler(sink, &slog.HandlerOptions{
				Level:     slog.LevelDebug,
				AddSource: true,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelInfo,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					return a
				},
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelWarn,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
				Level:     slog.LevelError,
				AddSource: false,
				ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
					if a.Key == slog.TimeKey {
						return slog.Attr{}
					}
					return a
				},
			}),
		)

		log.Error(
			"The env parameter was not specified	 or was invalid. Logging will be minimal, by default.",
			slog.String("available_envs", "local, development, production"))
	}

	return log
}
