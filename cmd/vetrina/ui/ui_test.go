package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
)

func TestDetectTheme(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("VETRINA_DARK_MODE", "1")
	dark := DetectTheme()
	if !dark.IsDark {
		t.Fatalf("expected dark theme when VETRINA_DARK_MODE=1")
	}

	t.Setenv("VETRINA_DARK_MODE", "")
	light := DetectTheme()
	if light.IsDark {
		t.Fatalf("expected light theme when VETRINA_DARK_MODE is unset")
	}

	t.Setenv("COLORFGBG", "15;0")
	if !DetectTheme().IsDark {
		t.Fatalf("expected dark theme for COLORFGBG background 0")
	}
	t.Setenv("COLORFGBG", "0;15")
	if DetectTheme().IsDark {
		t.Fatalf("expected light theme for COLORFGBG background 15")
	}
}

func TestThemeFor(t *testing.T) {
	t.Setenv("COLORFGBG", "")
	t.Setenv("VETRINA_DARK_MODE", "")
	assert.True(t, ThemeFor("dark").IsDark)
	assert.False(t, ThemeFor("LIGHT").IsDark)
	assert.False(t, ThemeFor("auto").IsDark)
}

func TestColumns(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{40, 1},
		{TwoColumnWidth - 1, 1},
		{TwoColumnWidth, 2},
		{ThreeColumnWidth - 1, 2},
		{ThreeColumnWidth, 3},
		{300, 3},
	}
	for _, tt := range tests {
		if got := Columns(tt.width); got != tt.want {
			t.Errorf("Columns(%d) = %d, want %d", tt.width, got, tt.want)
		}
	}
}

func TestLayoutConfigCardWidth(t *testing.T) {
	narrow := NewLayoutConfig(50, 30)
	assert.False(t, narrow.ShowCartBeside)
	assert.Equal(t, 50, narrow.CardWidth())

	wide := NewLayoutConfig(160, 40)
	assert.True(t, wide.ShowCartBeside)
	grid := 160 - CartPanelWidth - GridGap
	assert.Equal(t, grid, wide.GridWidth())
	assert.Equal(t, (grid-2*GridGap)/3, wide.CardWidth())

	tiny := NewLayoutConfig(5, 5)
	assert.Equal(t, MinCardWidth, tiny.CardWidth())
}

func TestLayoutConfigColumnsFitGrid(t *testing.T) {
	tests := []struct {
		width int
		want  int
	}{
		{100, 2},
		{110, 2},
		{114, 2},
		{116, 3},
		{140, 3},
		{200, 3},
	}
	for _, tt := range tests {
		l := NewLayoutConfig(tt.width, 40)
		cols := l.Columns()
		if cols != tt.want {
			t.Errorf("width %d: Columns() = %d, want %d", tt.width, cols, tt.want)
		}
		if used := cols*l.CardWidth() + (cols-1)*GridGap; used > l.GridWidth() {
			t.Errorf("width %d: %d columns need %d, grid has %d", tt.width, cols, used, l.GridWidth())
		}
	}
}

func TestJoinGrid(t *testing.T) {
	assert.Equal(t, "", JoinGrid(nil, 3, 2))

	out := JoinGrid([]string{"a", "b", "c", "d"}, 3, 1)
	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 3)
	assert.Equal(t, "a b c", strings.TrimRight(lines[0], " "))
	assert.Equal(t, "", strings.TrimSpace(lines[1]))
	assert.Equal(t, "d", strings.TrimRight(lines[2], " "))

	single := JoinGrid([]string{"x", "y"}, 0, 0)
	assert.Equal(t, []string{"x", "y"}, strings.Split(single, "\n"))
}

func TestCardPrimitives(t *testing.T) {
	s := NewStyles(LightTheme())

	card := Card(s, false, Attrs{Width: 30},
		CardHeader(s, Attrs{}, CardTitle(s, Attrs{}, "Prodotto 1")),
		CardContent(s, Attrs{}, "immagine"),
		CardFooter(s, Attrs{}, Button(s, "Aggiungi al carrello", ButtonOpts{Variant: ButtonPrimary})),
	)
	assert.Contains(t, card, "Prodotto 1")
	assert.Contains(t, card, "immagine")
	assert.Contains(t, card, "Aggiungi al carrello")
	assert.Equal(t, 30, lipgloss.Width(card))

	titleIdx := strings.Index(card, "Prodotto 1")
	buttonIdx := strings.Index(card, "Aggiungi al carrello")
	assert.Less(t, titleIdx, buttonIdx)
}

func TestButtonStates(t *testing.T) {
	s := NewStyles(LightTheme())

	plain := Button(s, "Rimuovi", ButtonOpts{Variant: ButtonDestructive})
	assert.Contains(t, plain, "Rimuovi")
	assert.NotContains(t, plain, "▸")

	focused := Button(s, "Rimuovi", ButtonOpts{Variant: ButtonDestructive, Focused: true})
	assert.Contains(t, focused, "▸ Rimuovi ◂")

	disabled := Button(s, "Rimuovi", ButtonOpts{Focused: true, Disabled: true})
	assert.NotContains(t, disabled, "▸")
}

func TestAttrsApply(t *testing.T) {
	s := NewStyles(LightTheme())

	st := Attrs{Width: 12, Margin: []int{1, 2}, Classes: []string{"font-bold", "text-center", "unknown"}}.Apply(s, lipgloss.NewStyle())
	assert.Equal(t, 12, st.GetWidth())
	assert.Equal(t, 1, st.GetMarginTop())
	assert.Equal(t, 2, st.GetMarginLeft())
	assert.True(t, st.GetBold())
	assert.Equal(t, lipgloss.Center, st.GetAlignHorizontal())

	bare := Attrs{}.Apply(s, s.CardTitle)
	assert.Equal(t, s.CardTitle.GetBold(), bare.GetBold())
	assert.Equal(t, 0, bare.GetWidth())
}

func TestRenderDivider(t *testing.T) {
	s := NewStyles(DarkTheme())
	assert.Equal(t, "", s.RenderDivider(0))
	assert.Equal(t, 5, lipgloss.Width(s.RenderDivider(5)))
}
