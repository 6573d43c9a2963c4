// Package ui layout constants for consistent spacing and dimensions
package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Layout constants
const (
	// Responsive breakpoints for the product grid
	TwoColumnWidth   = 72
	ThreeColumnWidth = 110

	GridGap        = 2
	MinCardWidth   = 24
	CartPanelWidth = 38
	LogPanelLines  = 8
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	ShowCartBeside bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		ShowCartBeside: width >= ThreeColumnWidth,
	}
}

// GridWidth returns the width available to the product grid.
func (l LayoutConfig) GridWidth() int {
	if l.ShowCartBeside {
		return max(l.TerminalWidth-CartPanelWidth-GridGap, MinCardWidth)
	}
	return max(l.TerminalWidth, MinCardWidth)
}

// Columns returns the grid column count: one column on narrow terminals,
// two on medium, three on wide.
func Columns(width int) int {
	switch {
	case width >= ThreeColumnWidth:
		return 3
	case width >= TwoColumnWidth:
		return 2
	default:
		return 1
	}
}

// Columns is the grid column count for this terminal, reduced until
// cards of MinCardWidth fit inside GridWidth.
func (l LayoutConfig) Columns() int {
	cols := Columns(l.TerminalWidth)
	for cols > 1 && cols*MinCardWidth+(cols-1)*GridGap > l.GridWidth() {
		cols--
	}
	return cols
}

// CardWidth is the width of one card when the grid is cols wide.
func (l LayoutConfig) CardWidth() int {
	cols := l.Columns()
	w := (l.GridWidth() - GridGap*(cols-1)) / cols
	return max(w, MinCardWidth)
}

// JoinGrid lays cells out in rows of cols, separated by gap spaces.
func JoinGrid(cells []string, cols, gap int) string {
	if len(cells) == 0 {
		return ""
	}
	if cols < 1 {
		cols = 1
	}
	spacer := strings.Repeat(" ", max(gap, 0))

	var rows []string
	for start := 0; start < len(cells); start += cols {
		end := min(start+cols, len(cells))
		var row []string
		for i, cell := range cells[start:end] {
			if i > 0 && gap > 0 {
				row = append(row, spacer)
			}
			row = append(row, cell)
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}

	if gap > 0 {
		spaced := make([]string, 0, len(rows)*2)
		for i, r := range rows {
			if i > 0 {
				spaced = append(spaced, "")
			}
			spaced = append(spaced, r)
		}
		rows = spaced
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
