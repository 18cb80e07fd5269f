// Package field implements the polymorphic form input: one component that
// renders as one of the visual variants selected by a Kind discriminator.
// Every variant binds to form state through a Binding and follows the
// bubbletea model contract.
package field

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/UnknownOlympus/proteus/internal/assist"
	"github.com/UnknownOlympus/proteus/internal/models"
	"github.com/UnknownOlympus/proteus/internal/ui"
)

// Kind selects the visual variant of a field.
type Kind string

const (
	KindText        Kind = "text"
	KindTextarea    Kind = "textarea"
	KindPassword    Kind = "password"
	KindEmail       Kind = "email"
	KindURL         Kind = "url"
	KindPhone       Kind = "phone"
	KindInteger     Kind = "integer"
	KindNumber      Kind = "number"
	KindDate        Kind = "date"
	KindTime        Kind = "time"
	KindSelect      Kind = "select"
	KindMultiSelect Kind = "multiselect"
	KindCheckbox    Kind = "checkbox"
	KindConfirm     Kind = "confirm"
	KindSlider      Kind = "slider"
	KindRating      Kind = "rating"
	KindOTP         Kind = "otp"
	KindFile        Kind = "file"
	KindTags        Kind = "tags"
	KindColor       Kind = "color"
	KindAddress     Kind = "address"
	KindAssisted    Kind = "assisted"
)

// Binding is the form-context contract a field consumes: the bound path,
// the committed value, the change callback, and the validation error lookup.
type Binding interface {
	Name() string
	Value() (any, bool)
	OnChange(value any)
	Error() string
}

// AddressResolver is the collaborator behind the address variant. It is the
// staged flow the field drives: suggestion queries, selection commits, and
// the two geolocation stages (position fix, then reverse geocoding).
type AddressResolver interface {
	Suggest(ctx context.Context, query string) ([]models.Suggestion, error)
	Resolve(ctx context.Context, sug models.Suggestion) models.AddressValue
	Position(ctx context.Context) (models.Coordinates, error)
	AddressAt(ctx context.Context, coords models.Coordinates) (models.AddressValue, models.Suggestion, error)
}

// Input is the interface every field variant implements. The form model
// routes key messages to the focused field and broadcasts everything else.
type Input interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (Input, tea.Cmd)
	View() string
	Focus() tea.Cmd
	Blur()
	Name() string
}

// Common errors for field construction.
var (
	ErrUnsupportedKind = errors.New("unsupported field kind")
	ErrMissingBinding  = errors.New("field requires a binding")
	ErrMissingResolver = errors.New("address field requires a resolver")
	ErrMissingAssist   = errors.New("assisted field requires an assist client")
)

// Defaults applied by New when the corresponding Config value is zero.
const (
	DefaultDebounce    = 300 * time.Millisecond
	DefaultMinQueryLen = 3
	DefaultMaxStars    = 5
	DefaultOTPDigits   = 6
	DefaultDateLayout  = "2006-01-02"
	DefaultTimeLayout  = "15:04"
	DefaultPhoneRegion = "US"
)

// Config describes one field. Kind and Binding are mandatory; the remaining
// knobs apply to the variants that understand them.
type Config struct {
	Kind        Kind
	Binding     Binding
	Title       string
	Description string
	Placeholder string
	Required    bool // rendering hint only; the actual rule lives in the form schema

	CharLimit int             // single-line and textarea kinds
	Options   []models.Option // select, multiselect

	Min  float64 // slider, number
	Max  float64 // slider, number
	Step float64 // slider

	MaxStars int    // rating
	Digits   int    // otp
	Layout   string // date, time
	Region   string // phone parsing region

	AllowedTypes []string // file
	Directory    string   // file starting directory

	AssistPrompt string        // assisted rewrite instruction
	Assist       assist.Client // assisted collaborator

	Resolver    AddressResolver // address collaborator
	AutoLocate  bool            // address: trigger geolocation on first focus
	Debounce    time.Duration   // address: suggestion query debounce
	MinQueryLen int             // address: shortest query sent to the provider

	Styles  *ui.Styles      // nil means auto-detected theme
	Context context.Context // nil means context.Background()
}

// New creates the field variant selected by cfg.Kind. It applies the
// Factory pattern so callers declare fields by configuration alone.
func New(cfg Config) (Input, error) {
	if cfg.Binding == nil {
		return nil, ErrMissingBinding
	}
	if cfg.Styles == nil {
		styles := ui.DefaultStyles()
		cfg.Styles = &styles
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}

	switch cfg.Kind {
	case KindText, KindPassword, KindEmail, KindURL, KindPhone,
		KindInteger, KindNumber, KindColor, KindTags:
		return newText(cfg), nil
	case KindTextarea:
		return newTextArea(cfg), nil
	case KindDate, KindTime:
		return newDate(cfg), nil
	case KindSelect:
		return newChoose(cfg), nil
	case KindMultiSelect:
		return newMultiChoose(cfg), nil
	case KindCheckbox, KindConfirm:
		return newToggle(cfg), nil
	case KindSlider:
		return newSlider(cfg), nil
	case KindRating:
		return newRating(cfg), nil
	case KindOTP:
		return newOTP(cfg), nil
	case KindFile:
		return newFile(cfg), nil
	case KindAddress:
		if cfg.Resolver == nil {
			return nil, ErrMissingResolver
		}
		return newAddress(cfg), nil
	case KindAssisted:
		if cfg.Assist == nil {
			return nil, ErrMissingAssist
		}
		return newAssisted(cfg), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedKind, cfg.Kind)
	}
}

// render assembles the shared field layout: title, optional description,
// the control body, an optional status line, and the bound validation error.
func render(cfg Config, focused bool, body, status string) string {
	st := cfg.Styles
	var b strings.Builder

	title := cfg.Title
	if cfg.Required && title != "" {
		title += " *"
	}
	if title != "" {
		b.WriteString(st.Title.Render(title))
		b.WriteByte('\n')
	}
	if cfg.Description != "" {
		b.WriteString(st.Description.Render(cfg.Description))
		b.WriteByte('\n')
	}

	b.WriteString(body)

	if status != "" {
		b.WriteByte('\n')
		b.WriteString(st.StatusLine.Render(status))
	}
	if msg := cfg.Binding.Error(); msg != "" {
		b.WriteByte('\n')
		b.WriteString(st.ErrorText.Render(msg))
	}

	frame := st.BlurredFrame
	if focused {
		frame = st.FocusedFrame
	}
	return frame.Render(b.String())
}
