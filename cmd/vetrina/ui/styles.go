// Package ui provides the visual styling and presentational primitives for
// the vetrina storefront.
// Light/dark palette with terminal background detection.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightBackground = lipgloss.Color("#f9fafb") // gray-50
	LightForeground = lipgloss.Color("#111827") // gray-900
	LightPrimary    = lipgloss.Color("#2563eb") // blue-600
	LightAccent     = lipgloss.Color("#1d4ed8") // blue-700
	LightSecondary  = lipgloss.Color("#f3f4f6") // gray-100
	LightMuted      = lipgloss.Color("#6b7280") // gray-500
	LightBorder     = lipgloss.Color("#e5e7eb") // gray-200
	LightCard       = lipgloss.Color("#ffffff")

	// Dark Mode Colors
	DarkBackground = lipgloss.Color("#111827")
	DarkForeground = lipgloss.Color("#f3f4f6")
	DarkPrimary    = lipgloss.Color("#3b82f6") // blue-500
	DarkAccent     = lipgloss.Color("#60a5fa") // blue-400
	DarkSecondary  = lipgloss.Color("#1f2937")
	DarkMuted      = lipgloss.Color("#9ca3af")
	DarkBorder     = lipgloss.Color("#374151")
	DarkCard       = lipgloss.Color("#1f2937")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#dc2626") // red-600
	Success     = lipgloss.Color("#16a34a") // green-600
	Warning     = lipgloss.Color("#ca8a04")
)

// Theme holds the current color scheme
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeFor resolves a configured theme name ("light", "dark", "auto").
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

// DetectTheme auto-detects based on terminal or returns light mode
func DetectTheme() Theme {
	// COLORFGBG is "foreground;background"; background 0-6 or 8 is dark.
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if bgIdx, err := strconv.Atoi(parts[len(parts)-1]); err == nil {
			if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
				return DarkTheme()
			}
		}
	}

	if os.Getenv("VETRINA_DARK_MODE") == "1" {
		return DarkTheme()
	}

	return LightTheme()
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header lipgloss.Style
	Footer lipgloss.Style
	Panel  lipgloss.Style

	// Text
	Title   lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Price   lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Badge   lipgloss.Style
	Divider lipgloss.Style

	// Card primitives
	Card        lipgloss.Style
	CardFocused lipgloss.Style
	CardHeader  lipgloss.Style
	CardTitle   lipgloss.Style
	CardContent lipgloss.Style
	CardFooter  lipgloss.Style

	// Buttons
	ButtonPrimary     lipgloss.Style
	ButtonDestructive lipgloss.Style
	ButtonDisabled    lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	white := lipgloss.Color("#ffffff")

	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(0, 1).
			MarginBottom(1),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Title: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Price: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(Success),

		Error: lipgloss.NewStyle().
			Foreground(Destructive),

		Badge: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white).
			Padding(0, 1).
			Bold(true),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border),

		CardFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary),

		CardHeader: lipgloss.NewStyle().
			Padding(0, 1),

		CardTitle: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		CardContent: lipgloss.NewStyle().
			Padding(0, 1),

		CardFooter: lipgloss.NewStyle().
			Padding(0, 1),

		ButtonPrimary: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(white).
			Padding(0, 2),

		ButtonDestructive: lipgloss.NewStyle().
			Background(Destructive).
			Foreground(white).
			Padding(0, 1),

		ButtonDisabled: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Muted).
			Padding(0, 2),
	}
}

// DefaultStyles returns styles for the detected theme
func DefaultStyles() Styles {
	return NewStyles(DetectTheme())
}

// RenderDivider returns a horizontal divider
func (s Styles) RenderDivider(width int) string {
	if width <= 0 {
		return ""
	}
	return s.Divider.Render(strings.Repeat("─", width))
}
