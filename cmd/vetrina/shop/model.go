// Package shop implements the interactive storefront: product cards, the
// cart panel and the debug log, driven by a single bubbletea loop.
package shop

import (
	"context"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/ui"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/cart"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/debuglog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

type focusArea int

const (
	focusGrid focusArea = iota
	focusCart
	focusLog
)

func (f focusArea) String() string {
	switch f {
	case focusCart:
		return "cart"
	case focusLog:
		return "log"
	default:
		return "grid"
	}
}

// mediaChangedMsg reports a settled change under the media root.
type mediaChangedMsg struct {
	Change media.Change
}

// watchClosedMsg is sent once the change channel is closed.
type watchClosedMsg struct{}

// Options configures the storefront.
type Options struct {
	Title      string
	Currency   string
	Products   []catalog.Product
	Loader     *media.Loader
	Timeout    time.Duration
	DebugPanel bool
	SeedLog    bool
	Theme      string
	AltScreen  bool

	// Fallback receives card diagnostics when the debug panel is off.
	Fallback *zap.Logger
	// Changes, when set, triggers remounts of cards whose media changed.
	Changes <-chan media.Change
	// Clock drives debug log timestamps.
	Clock func() time.Time
}

// Model is the application root. It owns the catalog, the cart and the
// optional debug log; child views reach them only through callbacks.
type Model struct {
	ctx    context.Context
	opts   Options
	styles ui.Styles
	keys   keyMap
	help   help.Model

	products []catalog.Product
	cards    []*ProductCard
	cart     *cart.Cart
	log      *debuglog.Log
	panel    DebugPanel

	focus      focusArea
	gridCursor int
	cartCursor int

	layout   ui.LayoutConfig
	showHelp bool
	helpView string
	quitting bool
}

// New builds the root model. Cards are mounted by Init.
func New(ctx context.Context, opts Options) Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.Title == "" {
		opts.Title = "Il nostro Ecommerce"
	}
	if opts.Currency == "" {
		opts.Currency = "$"
	}
	if opts.Products == nil {
		opts.Products = catalog.Products()
	}
	if opts.Fallback == nil {
		opts.Fallback = zap.NewNop()
	}

	styles := ui.NewStyles(ui.ThemeFor(opts.Theme))
	m := Model{
		ctx:      ctx,
		opts:     opts,
		styles:   styles,
		keys:     defaultKeyMap(),
		help:     help.New(),
		products: opts.Products,
		cart:     cart.New(),
		panel:    NewDebugPanel(styles),
		layout:   ui.NewLayoutConfig(80, 24),
	}

	var sink debuglog.Sink
	if opts.DebugPanel {
		m.log = debuglog.NewWithClock(opts.Clock)
		if opts.SeedLog {
			debuglog.Seed(m.log, len(m.products))
		}
		sink = m.log.Sink()
		m.panel.SetLines(m.log.Lines())
	}

	m.cards = make([]*ProductCard, len(m.products))
	for i, p := range m.products {
		m.cards[i] = NewProductCard(p, opts.Currency, m.addToCart, sink, opts.Fallback)
	}
	m.panel.SetSize(m.layout.TerminalWidth, ui.LogPanelLines)
	return m
}

// Cart exposes the cart state holder.
func (m Model) Cart() *cart.Cart { return m.cart }

// Log exposes the debug log, nil when the panel is disabled.
func (m Model) Log() *debuglog.Log { return m.log }

// Cards exposes the product cards in catalog order.
func (m Model) Cards() []*ProductCard { return m.cards }

func (m Model) addToCart(p catalog.Product) {
	m.cart.Add(p)
	logging.Cart("add %d %q (items=%d)", p.ID, p.Name, m.cart.Len())
}

func (m Model) removeFromCart(item cart.Item) {
	n := m.cart.Remove(item)
	logging.Cart("remove %d %q (removed=%d, items=%d)", item.ID, item.Name, n, m.cart.Len())
}

func (m Model) shoppingCart() ShoppingCart {
	return NewShoppingCart(m.cart, m.opts.Currency, m.removeFromCart)
}

// Init mounts every card and starts its media load.
func (m Model) Init() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.cards)+1)
	for i := range m.cards {
		cmds = append(cmds, m.mountCard(i))
	}
	if m.opts.Changes != nil {
		cmds = append(cmds, waitForChange(m.opts.Changes))
	}
	return tea.Batch(cmds...)
}

func (m Model) mountCard(i int) tea.Cmd {
	c := m.cards[i]
	id := c.Mount()
	logging.UIDebug("mount %s as %s", c.Product.Name, id)
	return c.LoadCmd(m.ctx, m.opts.Loader, m.opts.Timeout, i)
}

func (m Model) remountAll() tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.cards))
	for i := range m.cards {
		cmds = append(cmds, m.mountCard(i))
	}
	return tea.Batch(cmds...)
}

func waitForChange(ch <-chan media.Change) tea.Cmd {
	return func() tea.Msg {
		c, ok := <-ch
		if !ok {
			return watchClosedMsg{}
		}
		return mediaChangedMsg{Change: c}
	}
}

// affectedCards returns the cards whose resolved local media path equals path.
func (m Model) affectedCards(path string) []int {
	if m.opts.Loader == nil {
		return nil
	}
	target := absPath(path)
	var out []int
	for i, p := range m.products {
		src, err := m.opts.Loader.Resolve(p)
		if err != nil || src.Kind != media.SourceLocal {
			continue
		}
		if absPath(src.Path) == target {
			out = append(out, i)
		}
	}
	return out
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayoutConfig(msg.Width, msg.Height)
		m.help.Width = msg.Width
		m.panel.SetSize(msg.Width, ui.LogPanelLines)
		if m.showHelp {
			m.helpView = renderHelp(msg.Width, m.styles.Theme.IsDark)
		}
		m.clampCursors()
		return m, nil

	case mediaResultMsg:
		if msg.Index < 0 || msg.Index >= len(m.cards) {
			return m, nil
		}
		m.cards[msg.Index].HandleResult(msg)
		m.syncPanel()
		return m, nil

	case mediaChangedMsg:
		affected := m.affectedCards(msg.Change.Path)
		cmds := []tea.Cmd{waitForChange(m.opts.Changes)}
		for _, i := range affected {
			logging.UI("remount %s after %s of %s", m.products[i].Name, msg.Change.Op, msg.Change.Path)
			cmds = append(cmds, m.mountCard(i))
		}
		return m, tea.Batch(cmds...)

	case watchClosedMsg:
		logging.UIDebug("media watcher closed")
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if m.focus == focusLog && m.log != nil {
			var cmd tea.Cmd
			m.panel, cmd = m.panel.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		m.quitting = true
		return m, tea.Quit
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Close) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		m.helpView = renderHelp(m.layout.TerminalWidth, m.styles.Theme.IsDark)
		return m, nil

	case key.Matches(msg, m.keys.Tab):
		m.cycleFocus(msg.String() == "shift+tab")
		return m, nil

	case key.Matches(msg, m.keys.Clear):
		m.clearLog()
		return m, nil

	case key.Matches(msg, m.keys.Remount):
		logging.UI("remount all cards")
		return m, m.remountAll()
	}

	switch m.focus {
	case focusGrid:
		m.handleGridKey(msg)
	case focusCart:
		m.handleCartKey(msg)
	case focusLog:
		if key.Matches(msg, m.keys.Enter) {
			m.clearLog()
			return m, nil
		}
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleGridKey(msg tea.KeyMsg) {
	if len(m.cards) == 0 {
		return
	}
	cols := m.layout.Columns()
	switch {
	case key.Matches(msg, m.keys.Left):
		if m.gridCursor > 0 {
			m.gridCursor--
		}
	case key.Matches(msg, m.keys.Right):
		if m.gridCursor < len(m.cards)-1 {
			m.gridCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.gridCursor-cols >= 0 {
			m.gridCursor -= cols
		}
	case key.Matches(msg, m.keys.Down):
		if m.gridCursor+cols < len(m.cards) {
			m.gridCursor += cols
		}
	case key.Matches(msg, m.keys.Enter, m.keys.Add):
		m.cards[m.gridCursor].AddToCart()
	}
}

func (m *Model) handleCartKey(msg tea.KeyMsg) {
	n := m.cart.Len()
	switch {
	case key.Matches(msg, m.keys.Up, m.keys.Left):
		if m.cartCursor > 0 {
			m.cartCursor--
		}
	case key.Matches(msg, m.keys.Down, m.keys.Right):
		if m.cartCursor < n-1 {
			m.cartCursor++
		}
	case key.Matches(msg, m.keys.Enter, m.keys.Remove):
		m.shoppingCart().Remove(m.cartCursor)
		m.clampCursors()
	}
}

func (m *Model) cycleFocus(back bool) {
	areas := []focusArea{focusGrid, focusCart}
	if m.log != nil {
		areas = append(areas, focusLog)
	}
	idx := 0
	for i, a := range areas {
		if a == m.focus {
			idx = i
		}
	}
	if back {
		idx = (idx - 1 + len(areas)) % len(areas)
	} else {
		idx = (idx + 1) % len(areas)
	}
	m.focus = areas[idx]
	m.clampCursors()
	logging.UIDebug("focus %s", m.focus)
}

func (m *Model) clearLog() {
	if m.log == nil {
		return
	}
	m.log.Clear()
	m.syncPanel()
	logging.UI("debug log cleared")
}

func (m *Model) syncPanel() {
	if m.log == nil {
		return
	}
	m.panel.SetLines(m.log.Lines())
}

func (m *Model) clampCursors() {
	if n := m.cart.Len(); m.cartCursor >= n {
		m.cartCursor = max(n-1, 0)
	}
	if m.gridCursor >= len(m.cards) {
		m.gridCursor = max(len(m.cards)-1, 0)
	}
}

// View renders the storefront.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	s := m.styles

	header := lipgloss.JoinHorizontal(lipgloss.Center,
		s.Header.Render(m.opts.Title),
		s.Badge.Render(cartBadge(m.cart.Len())),
	)

	if m.showHelp {
		return lipgloss.JoinVertical(lipgloss.Left, header, m.helpView, s.Footer.Render("esc per chiudere"))
	}

	cardWidth := m.layout.CardWidth()
	cells := make([]string, len(m.cards))
	for i, c := range m.cards {
		cells[i] = c.View(s, cardWidth, m.focus == focusGrid && i == m.gridCursor)
	}
	grid := ui.JoinGrid(cells, m.layout.Columns(), ui.GridGap)

	cartWidth := ui.CartPanelWidth
	if !m.layout.ShowCartBeside {
		cartWidth = max(m.layout.GridWidth(), ui.MinCardWidth)
	}
	cartView := m.shoppingCart().View(s, cartWidth, m.cartCursor, m.focus == focusCart)

	var body string
	if m.layout.ShowCartBeside {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, strings.Repeat(" ", ui.GridGap), cartView)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, grid, "", cartView)
	}

	sections := []string{header, body}
	if m.log != nil {
		sections = append(sections, "", m.panel.View(m.focus == focusLog))
	}
	sections = append(sections, s.Footer.Render(m.help.View(m.keys)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func cartBadge(n int) string {
	if n == 1 {
		return "🛒 1 articolo"
	}
	return "🛒 " + strconv.Itoa(n) + " articoli"
}
