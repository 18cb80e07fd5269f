// Package ui provides the visual styling shared by all field variants,
// with light/dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#1a1d23")
	LightPrimary    = lipgloss.Color("#5a56e0")
	LightAccent     = lipgloss.Color("#00897b")
	LightMuted      = lipgloss.Color("#8c919c")
	LightBorder     = lipgloss.Color("#d6dae0")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#e8eaf0")
	DarkPrimary    = lipgloss.Color("#7d79ff")
	DarkAccent     = lipgloss.Color("#26c6ae")
	DarkMuted      = lipgloss.Color("#6b7280")
	DarkBorder     = lipgloss.Color("#3a4150")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#e53935")
	Success     = lipgloss.Color("#43a047")
	Warning     = lipgloss.Color("#FFC107")
)

// Theme holds the current color scheme.
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
		IsDark:     false,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// ThemeFor resolves a theme name ("light", "dark", anything else = auto).
func ThemeFor(name string) Theme {
	switch strings.ToLower(name) {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme auto-detects based on terminal hints or returns dark mode.
func DetectTheme() Theme {
	// Format of COLORFGBG is usually "foreground;background".
	// Background indexes 0-6 and 8 are the common dark backgrounds.
	colorTerm := os.Getenv("COLORFGBG")
	if colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if bgIdx == 7 || bgIdx >= 9 {
					return LightTheme()
				}
				return DarkTheme()
			}
		}
	}

	// Dark terminals are the common case.
	return DarkTheme()
}

// Styles holds all the styled components a field renders.
type Styles struct {
	Theme Theme

	// Text
	Title       lipgloss.Style
	Description lipgloss.Style
	Placeholder lipgloss.Style
	Muted       lipgloss.Style

	// Field chrome
	FocusedFrame lipgloss.Style
	BlurredFrame lipgloss.Style
	Prompt       lipgloss.Style

	// Choices
	Option         lipgloss.Style
	SelectedOption lipgloss.Style
	Cursor         lipgloss.Style

	// Status
	ErrorText  lipgloss.Style
	Success    lipgloss.Style
	Warning    lipgloss.Style
	Spinner    lipgloss.Style
	StatusLine lipgloss.Style

	// Help
	Help lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		// Text styles
		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Description: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Placeholder: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		// Field chrome
		FocusedFrame: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(theme.Primary).
			PaddingLeft(1),

		BlurredFrame: lipgloss.NewStyle().
			BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(theme.Border).
			PaddingLeft(1),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		// Choice styles
		Option: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		SelectedOption: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Cursor: lipgloss.NewStyle().
			Foreground(theme.Accent),

		// Status styles
		ErrorText: lipgloss.NewStyle().
			Foreground(Destructive),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Warning: lipgloss.NewStyle().
			Foreground(Warning),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),

		StatusLine: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		// Help style
		Help: lipgloss.NewStyle().
			Foreground(theme.Muted),
	}
}

// DefaultStyles returns styles for the auto-detected theme.
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}
