package shop

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/ui"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/cart"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/config"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/debuglog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 9, 14, 5, 7, 123_000_000, time.UTC)

// mediaRoot creates a root where product 1's image exists and the
// placeholder locator is missing.
func mediaRoot(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	path := filepath.Join(dir, "assets", "IMG_0281")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return dir
}

func newTestModel(t *testing.T, mutate func(*Options)) (Model, string) {
	t.Helper()
	root := mediaRoot(t)
	opts := Options{
		Loader:     media.NewLoader(root, media.Fetcher{}),
		DebugPanel: true,
		SeedLog:    true,
		Theme:      "light",
		Clock:      func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&opts)
	}
	return New(context.Background(), opts), root
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case nil:
		return nil
	case tea.BatchMsg:
		var out []tea.Msg
		for _, c := range msg {
			out = append(out, collect(c)...)
		}
		return out
	default:
		return []tea.Msg{msg}
	}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func deliver(t *testing.T, m Model, msgs []tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		m, _ = update(t, m, msg)
	}
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func cartIDs(c *cart.Cart) []int {
	var ids []int
	for _, it := range c.Items() {
		ids = append(ids, it.ID)
	}
	return ids
}

func messagesWithPrefix(l *debuglog.Log, prefix string) []string {
	var out []string
	for _, e := range l.Entries() {
		if strings.HasPrefix(e.Message, prefix) {
			out = append(out, e.Message)
		}
	}
	return out
}

func TestModel_ExampleScenario(t *testing.T) {
	m, _ := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // add Prodotto 1
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // add Prodotto 2
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.focus != focusCart {
		t.Fatalf("expected cart focus after tab, got %s", m.focus)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter}) // remove Prodotto 1

	if diff := cmp.Diff([]int{2}, cartIDs(m.Cart())); diff != "" {
		t.Fatalf("cart ids mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "29.99", m.Cart().FormattedTotal(""))
	assert.Contains(t, m.View(), "Totale: $29.99")
}

func TestModel_EmptyCartView(t *testing.T) {
	m, _ := newTestModel(t, nil)
	view := m.View()
	assert.Contains(t, view, "Carrello")
	assert.Contains(t, view, "Il carrello è vuoto")
	assert.Contains(t, view, "Totale: $0.00")
	assert.Contains(t, view, "Il nostro Ecommerce")
}

func TestModel_RemoveDeletesEveryCopy(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, keyRunes("a"))
	m, _ = update(t, m, keyRunes("a"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, keyRunes("a"))
	require.Equal(t, []int{1, 1, 2}, cartIDs(m.Cart()))

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, keyRunes("x"))
	assert.Equal(t, []int{2}, cartIDs(m.Cart()))
	assert.Equal(t, 0, m.cartCursor)
}

func TestModel_SeededLog(t *testing.T) {
	m, _ := newTestModel(t, nil)
	lines := m.Log().Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "2024-03-09T14:05:07.123Z: Applicazione montata", lines[0])
	assert.Equal(t, "2024-03-09T14:05:07.123Z: Numero di prodotti nel catalogo: 6", lines[1])
	assert.Equal(t, lines, m.panel.Lines())
}

func TestModel_MediaFailureKeepsAddButton(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = deliver(t, m, collect(m.Init()))

	card := m.Cards()[1]
	require.Equal(t, "Prodotto 2", card.Product.Name)
	assert.True(t, strings.HasPrefix(card.MediaError(), "Errore nel caricamento del media per Prodotto 2: "), card.MediaError())
	assert.Contains(t, m.View(), "Errore nel caricamento")

	failures := messagesWithPrefix(m.Log(), "Errore nel caricamento del media per Prodotto 2")
	assert.Len(t, failures, 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []int{2}, cartIDs(m.Cart()))
}

func TestModel_MediaSuccessLogsOnce(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = deliver(t, m, collect(m.Init()))

	card := m.Cards()[0]
	assert.True(t, card.Loaded())
	assert.Empty(t, card.MediaError())

	got := messagesWithPrefix(m.Log(), "Media caricato con successo: Prodotto 1")
	assert.Equal(t, []string{"Media caricato con successo: Prodotto 1 (png, 2x2)"}, got)

	// 2 seed notices plus one entry per card.
	assert.Equal(t, 2+len(m.Cards()), m.Log().Len())
	assert.Equal(t, m.Log().Lines(), m.panel.Lines())
}

func TestModel_ClearLog(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m = deliver(t, m, collect(m.Init()))
	require.NotZero(t, m.Log().Len())

	m, _ = update(t, m, keyRunes("c"))
	assert.Zero(t, m.Log().Len())
	assert.Empty(t, m.panel.Lines())

	// Clearing an empty log is fine; so is the enter key on the focused panel.
	m.Log().Append("x")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusLog, m.focus)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Zero(t, m.Log().Len())
}

func TestModel_StaleResultsIgnored(t *testing.T) {
	m, _ := newTestModel(t, nil)
	first := collect(m.Init())
	require.Len(t, first, len(m.Cards()))

	m, cmd := update(t, m, keyRunes("r"))
	second := collect(cmd)
	require.Len(t, second, len(m.Cards()))

	m = deliver(t, m, first)
	assert.Equal(t, 2, m.Log().Len(), "results from the previous mount must be dropped")
	for _, c := range m.Cards() {
		assert.Empty(t, c.MediaError())
	}

	m = deliver(t, m, second)
	assert.Equal(t, 2+len(m.Cards()), m.Log().Len())

	// A duplicate delivery for the current mount does not notify twice.
	m = deliver(t, m, second)
	assert.Equal(t, 2+len(m.Cards()), m.Log().Len())
}

func TestModel_FallbackDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	m, _ := newTestModel(t, func(o *Options) {
		o.DebugPanel = false
		o.Fallback = debuglog.Diagnostics(&buf)
	})
	require.Nil(t, m.Log())

	m = deliver(t, m, collect(m.Init()))
	out := buf.String()
	assert.Contains(t, out, ": Media caricato con successo: Prodotto 1")
	assert.Contains(t, out, ": Errore nel caricamento del media per Prodotto 2: ")
	assert.NotContains(t, m.View(), "Pulisci log")

	// Without a log panel tab only toggles grid and cart.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusGrid, m.focus)
}

func TestModel_GridNavigation(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 200, Height: 60})
	require.Equal(t, 3, m.layout.Columns())

	m, _ = update(t, m, keyRunes("j"))
	assert.Equal(t, 3, m.gridCursor)
	m, _ = update(t, m, keyRunes("j"))
	assert.Equal(t, 3, m.gridCursor, "cannot move below the last row")
	m, _ = update(t, m, keyRunes("l"))
	m, _ = update(t, m, keyRunes("l"))
	m, _ = update(t, m, keyRunes("l"))
	assert.Equal(t, 5, m.gridCursor)
	m, _ = update(t, m, keyRunes("k"))
	assert.Equal(t, 2, m.gridCursor)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 1, m.gridCursor)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, focusLog, m.focus)
}

func TestModel_ViewFitsTerminalWidth(t *testing.T) {
	for _, width := range []int{100, 110, 114, 117, 140} {
		m, _ := newTestModel(t, nil)
		m, _ = update(t, m, tea.WindowSizeMsg{Width: width, Height: 60})

		widest := 0
		for _, line := range strings.Split(m.View(), "\n") {
			widest = max(widest, lipgloss.Width(line))
		}
		assert.LessOrEqual(t, widest, width, "terminal width %d", width)
	}
}

func TestModel_Help(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, _ = update(t, m, keyRunes("?"))
	require.True(t, m.showHelp)
	assert.Contains(t, m.View(), "Aiuto")

	// Keys other than close are swallowed while help is open.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.Cart().IsEmpty())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.showHelp)
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t, nil)
	m, cmd := update(t, m, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, "", m.View())
}

func TestModel_MediaChangeRemountsAffectedCards(t *testing.T) {
	changes := make(chan media.Change)
	m, root := newTestModel(t, func(o *Options) { o.Changes = changes })
	// Mount without running the load commands.
	_ = m.Init()

	before := make([]string, len(m.Cards()))
	for i, c := range m.Cards() {
		before[i] = c.MountID()
	}

	changed := filepath.Join(root, "assets", "IMG_0281")
	m, cmd := update(t, m, mediaChangedMsg{Change: media.Change{Path: changed, Op: "modify"}})
	require.NotNil(t, cmd)

	assert.NotEqual(t, before[0], m.Cards()[0].MountID())
	for i := 1; i < len(before); i++ {
		assert.Equal(t, before[i], m.Cards()[i].MountID(), "card %d should keep its mount", i)
	}
}

func TestProductCard_ObserverOnce(t *testing.T) {
	var logged []string
	var added []catalog.Product
	p := catalog.Products()[0]
	c := NewProductCard(p, "€", func(p catalog.Product) { added = append(added, p) }, func(s string) { logged = append(logged, s) }, nil)

	id := c.Mount()
	assert.True(t, c.HandleResult(mediaResultMsg{MountID: id, Err: errors.New("boom")}))
	assert.False(t, c.HandleResult(mediaResultMsg{MountID: id, Info: media.Info{Format: "png"}}))
	assert.Equal(t, []string{"Errore nel caricamento del media per Prodotto 1: boom"}, logged)
	assert.False(t, c.Loaded())

	c.AddToCart()
	require.Len(t, added, 1)
	assert.Equal(t, p, added[0])

	// Remount clears the error.
	c.Mount()
	assert.Empty(t, c.MediaError())
	view := c.View(ui.NewStyles(ui.LightTheme()), 40, true)
	assert.Contains(t, view, "€19.99")
	assert.Contains(t, view, "Aggiungi al carrello")
}

func TestShoppingCart_Remove(t *testing.T) {
	c := cart.New()
	products := catalog.Products()
	c.Add(products[0])
	c.Add(products[1])

	var removed []cart.Item
	sc := NewShoppingCart(c, "$", func(it cart.Item) { removed = append(removed, it) })
	assert.True(t, sc.Remove(1))
	assert.False(t, sc.Remove(5))
	assert.Equal(t, []cart.Item{products[1]}, removed)

	view := sc.View(ui.NewStyles(ui.LightTheme()), 40, 0, true)
	assert.Contains(t, view, "Prodotto 1")
	assert.Contains(t, view, "Rimuovi")
	assert.Contains(t, view, "Totale: $49.98")
}

func TestProductCard_FailureWritesMediaLog(t *testing.T) {
	logging.CloseAll()
	t.Cleanup(logging.CloseAll)

	dir := t.TempDir()
	require.NoError(t, logging.Initialize(dir, config.LoggingConfig{DebugMode: true, Level: "debug", Format: "json"}))

	p, ok := catalog.Lookup(catalog.Products(), 2)
	require.True(t, ok)
	card := NewProductCard(p, "$", nil, nil, nil)
	id := card.Mount()
	require.True(t, card.HandleResult(mediaResultMsg{MountID: id, Err: errors.New("boom")}))
	logging.CloseAll()

	matches, err := filepath.Glob(filepath.Join(dir, "logs", "*_media.log"))
	require.NoError(t, err)
	require.Len(t, matches, 1)
	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)

	line := strings.TrimSpace(string(data))
	idx := strings.Index(line, "{")
	require.GreaterOrEqual(t, idx, 0, "no JSON payload in %q", line)

	var entry logging.StructuredLogEntry
	require.NoError(t, json.Unmarshal([]byte(line[idx:]), &entry))
	assert.Equal(t, "warn", entry.Level)
	assert.Equal(t, "media load failed", entry.Message)
	assert.Equal(t, float64(2), entry.Fields["product"])
	assert.Equal(t, "/api/placeholder/400/300", entry.Fields["locator"])
	assert.Equal(t, id, entry.Fields["mount"])
	assert.Equal(t, "boom", entry.Fields["error"])
}
