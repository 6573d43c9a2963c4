package media

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
)

// Backend selects the loading mechanism.
type Backend string

const (
	BackendHTTP    Backend = "http"
	BackendBrowser Backend = "browser"
)

// Info describes a successfully loaded element.
type Info struct {
	Player      string
	Source      string
	ContentType string
	Format      string
	Width       int
	Height      int
	Detail      string
}

// Describe renders a short human-readable summary.
func (i Info) Describe() string {
	var parts []string
	if i.Format != "" {
		parts = append(parts, i.Format)
	}
	if i.Width > 0 && i.Height > 0 {
		parts = append(parts, fmt.Sprintf("%dx%d", i.Width, i.Height))
	}
	if i.Detail != "" {
		parts = append(parts, i.Detail)
	}
	if len(parts) == 0 {
		return i.Player
	}
	return strings.Join(parts, ", ")
}

// Player is the media-loading capability of one element kind.
type Player interface {
	Kind() string
	Load(ctx context.Context, src Source) (Info, error)
}

// LoadError is a media load failure scoped to one element.
type LoadError struct {
	Player  string
	Locator string
	Err     error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Player, e.Locator, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// Description is the best-effort failure text shown to the user.
func Description(err error) string {
	var le *LoadError
	if errors.As(err, &le) {
		return le.Err.Error()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// Observer receives the outcome of one load.
type Observer struct {
	OnLoad  func(Info)
	OnError func(error)
}

// Notify invokes exactly one callback for the outcome.
func (o Observer) Notify(info Info, err error) {
	if err != nil {
		if o.OnError != nil {
			o.OnError(err)
		}
		return
	}
	if o.OnLoad != nil {
		o.OnLoad(info)
	}
}

// Observe loads src with p and notifies obs. The error is returned too.
func Observe(ctx context.Context, p Player, src Source, obs Observer) (Info, error) {
	info, err := p.Load(ctx, src)
	if err != nil {
		err = &LoadError{Player: p.Kind(), Locator: src.Locator, Err: err}
	}
	obs.Notify(info, err)
	return info, err
}

// Loader resolves product locators and picks a player per element.
type Loader struct {
	Root    string
	Backend Backend
	Fetcher Fetcher
	Browser *BrowserPlayer
}

// NewLoader builds an HTTP-backend loader rooted at root.
func NewLoader(root string, fetcher Fetcher) *Loader {
	return &Loader{Root: root, Backend: BackendHTTP, Fetcher: fetcher}
}

// Resolve resolves the product's locator against the loader root.
func (l *Loader) Resolve(p catalog.Product) (Source, error) {
	return Resolve(l.Root, p.Media)
}

// PlayerFor selects the element implementation: images use ImageLoader,
// HLS playlists use AdaptivePlayer, other video uses NativePlayer. The
// browser backend renders every element in headless Chromium instead.
func (l *Loader) PlayerFor(mt catalog.MediaType, src Source) Player {
	if l.Backend == BackendBrowser && l.Browser != nil {
		if mt == catalog.MediaVideo {
			return l.Browser.Video()
		}
		return l.Browser.Image()
	}
	if mt == catalog.MediaVideo {
		if IsPlaylist(src) {
			return AdaptivePlayer{Fetcher: l.Fetcher}
		}
		return NativePlayer{Fetcher: l.Fetcher}
	}
	return ImageLoader{Fetcher: l.Fetcher}
}

// Load resolves and loads the product's media. Every failure, including
// resolution, is returned as a *LoadError.
func (l *Loader) Load(ctx context.Context, p catalog.Product) (Info, error) {
	src, err := l.Resolve(p)
	if err != nil {
		return Info{}, &LoadError{Player: p.MediaType.Label(), Locator: p.Media, Err: err}
	}
	player := l.PlayerFor(p.MediaType, src)
	info, err := player.Load(ctx, src)
	if err != nil {
		return Info{}, &LoadError{Player: player.Kind(), Locator: p.Media, Err: err}
	}
	return info, nil
}

// Observe loads the product's media and notifies obs.
func (l *Loader) Observe(ctx context.Context, p catalog.Product, obs Observer) (Info, error) {
	info, err := l.Load(ctx, p)
	obs.Notify(info, err)
	return info, err
}
