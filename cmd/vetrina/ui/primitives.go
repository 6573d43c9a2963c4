package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Attrs are extra presentation attributes forwarded to a primitive's
// outer container. Zero values leave the primitive's own style alone.
type Attrs struct {
	Width       int
	Margin      []int // lipgloss shorthand: 1, 2 or 4 values
	BorderColor lipgloss.TerminalColor
	Align       lipgloss.Position
	Classes     []string
}

// Apply returns base with the attributes layered on top.
func (a Attrs) Apply(s Styles, base lipgloss.Style) lipgloss.Style {
	st := base
	if a.Width > 0 {
		st = st.Width(a.Width)
	}
	if len(a.Margin) > 0 {
		st = st.Margin(a.Margin...)
	}
	if a.BorderColor != nil {
		st = st.BorderForeground(a.BorderColor)
	}
	if a.Align != 0 {
		st = st.Align(a.Align)
	}
	for _, class := range a.Classes {
		st = applyClass(s, st, class)
	}
	return st
}

// applyClass maps a class name to a style override. Unknown names are
// ignored.
func applyClass(s Styles, st lipgloss.Style, class string) lipgloss.Style {
	switch strings.TrimSpace(class) {
	case "bold", "font-bold":
		return st.Bold(true)
	case "italic":
		return st.Italic(true)
	case "muted", "text-gray-600":
		return st.Foreground(s.Theme.Muted)
	case "text-red-500", "error":
		return st.Foreground(Destructive)
	case "text-center":
		return st.Align(lipgloss.Center)
	case "text-right":
		return st.Align(lipgloss.Right)
	case "underline":
		return st.Underline(true)
	case "mb-4":
		return st.MarginBottom(1)
	case "mt-4":
		return st.MarginTop(1)
	}
	return st
}

func stack(children []string) string {
	return lipgloss.JoinVertical(lipgloss.Left, children...)
}

// Card renders the bordered card container.
func Card(s Styles, focused bool, a Attrs, children ...string) string {
	base := s.Card
	if focused {
		base = s.CardFocused
	}
	st := a.Apply(s, base)
	if a.Width > 0 {
		// Width includes the border on the outside.
		st = st.Width(max(a.Width-st.GetHorizontalBorderSize(), 1))
	}
	return st.Render(stack(children))
}

// CardHeader renders the card's header region.
func CardHeader(s Styles, a Attrs, children ...string) string {
	return a.Apply(s, s.CardHeader).Render(stack(children))
}

// CardTitle renders the card's title text.
func CardTitle(s Styles, a Attrs, text string) string {
	return a.Apply(s, s.CardTitle).Render(text)
}

// CardContent renders the card's body region.
func CardContent(s Styles, a Attrs, children ...string) string {
	return a.Apply(s, s.CardContent).Render(stack(children))
}

// CardFooter renders the card's footer region.
func CardFooter(s Styles, a Attrs, children ...string) string {
	return a.Apply(s, s.CardFooter).Render(stack(children))
}

// ButtonVariant selects a button look.
type ButtonVariant string

const (
	ButtonPrimary     ButtonVariant = "primary"
	ButtonDestructive ButtonVariant = "destructive"
)

// ButtonOpts controls how a button is drawn.
type ButtonOpts struct {
	Variant  ButtonVariant
	Focused  bool
	Disabled bool
	Attrs    Attrs
}

// Button renders a clickable-looking label. A focused button is wrapped in
// angle markers and underlined.
func Button(s Styles, label string, opts ButtonOpts) string {
	var base lipgloss.Style
	switch {
	case opts.Disabled:
		base = s.ButtonDisabled
	case opts.Variant == ButtonDestructive:
		base = s.ButtonDestructive
	default:
		base = s.ButtonPrimary
	}
	if opts.Focused && !opts.Disabled {
		base = base.Bold(true).Underline(true)
		label = "▸ " + label + " ◂"
	}
	return opts.Attrs.Apply(s, base).Render(label)
}
