package shop

import (
	"context"
	"fmt"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/ui"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/debuglog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mediaState int

const (
	mediaLoading mediaState = iota
	mediaReady
	mediaFailed
)

// mediaResultMsg carries the outcome of one card's media load back to the
// UI loop.
type mediaResultMsg struct {
	Index   int
	MountID string
	Info    media.Info
	Err     error
}

// FailureMessage is the diagnostic for a failed media load.
func FailureMessage(name string, err error) string {
	return fmt.Sprintf("Errore nel caricamento del media per %s: %s", name, media.Description(err))
}

// SuccessMessage is the diagnostic for a loaded media element.
func SuccessMessage(name string, info media.Info) string {
	msg := fmt.Sprintf("Media caricato con successo: %s", name)
	if d := info.Describe(); d != "" && d != info.Player {
		msg = fmt.Sprintf("%s (%s)", msg, d)
	}
	return msg
}

// ProductCard renders one product and observes its media load.
type ProductCard struct {
	Product catalog.Product

	onAdd    func(catalog.Product)
	sink     debuglog.Sink
	fallback *zap.Logger
	currency string

	mountID  string
	state    mediaState
	info     media.Info
	mediaErr string
}

// NewProductCard returns an unmounted card. sink may be nil, in which case
// diagnostics go to fallback.
func NewProductCard(p catalog.Product, currency string, onAdd func(catalog.Product), sink debuglog.Sink, fallback *zap.Logger) *ProductCard {
	if fallback == nil {
		fallback = zap.NewNop()
	}
	return &ProductCard{
		Product:  p,
		onAdd:    onAdd,
		sink:     sink,
		fallback: fallback,
		currency: currency,
	}
}

// Mount starts a fresh card instance: new id, no error, loading state.
// Results addressed to earlier mounts are ignored afterwards.
func (c *ProductCard) Mount() string {
	c.mountID = uuid.NewString()
	c.state = mediaLoading
	c.info = media.Info{}
	c.mediaErr = ""
	return c.mountID
}

// MountID identifies the current instance.
func (c *ProductCard) MountID() string { return c.mountID }

// MediaError is the inline failure text, empty unless the load failed.
func (c *ProductCard) MediaError() string { return c.mediaErr }

// Loaded reports whether the media load succeeded for this mount.
func (c *ProductCard) Loaded() bool { return c.state == mediaReady }

// AddToCart invokes the add callback with the full product. It works in
// every media state.
func (c *ProductCard) AddToCart() {
	if c.onAdd != nil {
		c.onAdd(c.Product)
	}
}

// LoadCmd loads the media for the current mount off the UI loop.
func (c *ProductCard) LoadCmd(ctx context.Context, loader *media.Loader, timeout time.Duration, index int) tea.Cmd {
	p := c.Product
	mountID := c.mountID
	return func() tea.Msg {
		if loader == nil {
			return mediaResultMsg{Index: index, MountID: mountID, Err: fmt.Errorf("nessun caricatore media configurato")}
		}
		lctx := ctx
		if timeout > 0 {
			var cancel context.CancelFunc
			lctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		logging.MediaDebug("loading %s as %s (mount %s)", p.Media, p.MediaType.Label(), mountID)
		info, err := loader.Load(lctx, p)
		return mediaResultMsg{Index: index, MountID: mountID, Info: info, Err: err}
	}
}

// HandleResult delivers a load outcome to the card's observers. It reports
// false when the result belongs to a previous mount.
func (c *ProductCard) HandleResult(msg mediaResultMsg) bool {
	if msg.MountID != c.mountID || c.state != mediaLoading {
		logging.UIDebug("ignoring stale media result for %s (mount %s)", c.Product.Name, msg.MountID)
		return false
	}
	c.observer().Notify(msg.Info, msg.Err)
	return true
}

func (c *ProductCard) observer() media.Observer {
	return media.Observer{
		OnLoad:  c.onMediaLoad,
		OnError: c.onMediaError,
	}
}

func (c *ProductCard) onMediaLoad(info media.Info) {
	c.state = mediaReady
	c.info = info
	logging.Media("loaded %s: %s", c.Product.Media, info.Describe())

	c.report(SuccessMessage(c.Product.Name, info), false)
}

func (c *ProductCard) onMediaError(err error) {
	c.state = mediaFailed
	c.mediaErr = FailureMessage(c.Product.Name, err)
	logging.Get(logging.CategoryMedia).StructuredLog("warn", "media load failed", map[string]interface{}{
		"product": c.Product.ID,
		"locator": c.Product.Media,
		"mount":   c.mountID,
		"error":   media.Description(err),
	})
	c.report(c.mediaErr, true)
}

func (c *ProductCard) report(msg string, failure bool) {
	if c.sink != nil {
		c.sink(msg)
		return
	}
	if failure {
		c.fallback.Warn(msg)
		return
	}
	c.fallback.Info(msg)
}

// View renders the card at the given width.
func (c *ProductCard) View(s ui.Styles, width int, focused bool) string {
	inner := max(width-4, 10)

	header := ui.CardHeader(s, ui.Attrs{}, ui.CardTitle(s, ui.Attrs{}, c.Product.Name))

	content := []string{c.mediaView(s, inner)}
	if c.mediaErr != "" {
		content = append(content, s.Error.Width(inner).Render(c.mediaErr))
	}
	content = append(content, s.Price.Render(catalog.FormatPrice(c.currency, c.Product.Price)))
	body := ui.CardContent(s, ui.Attrs{}, content...)

	footer := ui.CardFooter(s, ui.Attrs{},
		ui.Button(s, "Aggiungi al carrello", ui.ButtonOpts{Variant: ui.ButtonPrimary, Focused: focused}),
	)

	return ui.Card(s, focused, ui.Attrs{Width: width}, header, body, footer)
}

func (c *ProductCard) mediaView(s ui.Styles, width int) string {
	label := "▣ " + c.Product.MediaType.Label()
	if c.Product.IsVideo() {
		label = "▶ " + c.Product.MediaType.Label()
	}

	var status string
	switch c.state {
	case mediaReady:
		status = s.Success.Render("✓ " + c.info.Describe())
	case mediaFailed:
		status = s.Error.Render("✗ non disponibile")
	default:
		status = s.Muted.Render("caricamento…")
	}

	lines := []string{
		s.Bold.Render(label),
		s.Muted.Render(truncate(c.Product.Media, width)),
		status,
	}
	if c.Product.IsVideo() {
		lines = append(lines, s.Muted.Render("⏮  ▶  ⏸  ⏭  🔊"))
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(s.Theme.Border).
		Width(max(width-2, 1))
	return box.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 || len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}
