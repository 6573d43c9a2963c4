package shop

import (
	"strings"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/ui"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DebugPanel shows the debug log in a scrollable viewport with a clear
// control.
type DebugPanel struct {
	viewport viewport.Model
	styles   ui.Styles
	lines    []string
	width    int
	height   int
}

// NewDebugPanel creates the panel.
func NewDebugPanel(styles ui.Styles) DebugPanel {
	vp := viewport.New(80, ui.LogPanelLines)
	return DebugPanel{viewport: vp, styles: styles}
}

// SetSize updates the size of the viewport.
func (p *DebugPanel) SetSize(w, h int) {
	p.width = w
	p.height = h
	p.viewport.Width = max(w-4, 10)
	p.viewport.Height = max(h, 1)
	p.refresh(false)
}

// SetLines replaces the shown lines. The view follows the tail when new
// lines arrive.
func (p *DebugPanel) SetLines(lines []string) {
	grew := len(lines) > len(p.lines)
	p.lines = lines
	p.refresh(grew)
}

// Lines returns the lines currently shown.
func (p DebugPanel) Lines() []string { return p.lines }

func (p *DebugPanel) refresh(follow bool) {
	if len(p.lines) == 0 {
		p.viewport.SetContent(p.styles.Muted.Render("Nessun messaggio"))
		p.viewport.GotoTop()
		return
	}
	p.viewport.SetContent(strings.Join(p.lines, "\n"))
	if follow {
		p.viewport.GotoBottom()
	}
}

// Update scrolls the viewport.
func (p DebugPanel) Update(msg tea.Msg) (DebugPanel, tea.Cmd) {
	var cmd tea.Cmd
	p.viewport, cmd = p.viewport.Update(msg)
	return p, cmd
}

// View renders the panel.
func (p DebugPanel) View(focused bool) string {
	s := p.styles
	title := ui.CardTitle(s, ui.Attrs{}, "Debug log")
	clearBtn := ui.Button(s, "Pulisci log", ui.ButtonOpts{Variant: ui.ButtonDestructive, Focused: focused})

	gap := max(p.viewport.Width-lipgloss.Width(title)-lipgloss.Width(clearBtn), 1)
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, strings.Repeat(" ", gap), clearBtn)

	width := p.width
	if width <= 0 {
		width = p.viewport.Width + 4
	}
	return ui.Card(s, focused, ui.Attrs{Width: width},
		ui.CardHeader(s, ui.Attrs{}, header),
		ui.CardContent(s, ui.Attrs{}, p.viewport.View()),
	)
}
