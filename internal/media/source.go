// Package media loads product media and reports the outcome to observers.
//
// A locator is resolved into a Source, a Player is selected by media type
// and source, and the Player's Load result is delivered to exactly one of
// the observer callbacks. Failures are terminal for that load; there is no
// retry.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyLocator      = errors.New("locator vuoto")
	ErrOutsideRoot       = errors.New("percorso fuori dalla cartella media")
	ErrUnsupportedFormat = errors.New("formato non supportato")
	ErrNotPlaylist       = errors.New("playlist HLS non valida")
	ErrEmptyResource     = errors.New("risorsa vuota")
	ErrTooLarge          = errors.New("risorsa troppo grande")
	ErrWatcherClosed     = errors.New("watcher chiuso")
)

// SourceKind distinguishes filesystem and network sources.
type SourceKind int

const (
	SourceLocal SourceKind = iota
	SourceRemote
)

func (k SourceKind) String() string {
	if k == SourceRemote {
		return "remote"
	}
	return "local"
}

// Source is a resolved media locator.
type Source struct {
	Locator string
	Kind    SourceKind
	Path    string   // absolute or root-joined path for local sources
	URL     *url.URL // set for remote sources
}

func (s Source) String() string {
	if s.Kind == SourceRemote && s.URL != nil {
		return s.URL.String()
	}
	return s.Path
}

// Ext returns the lower-cased extension of the source path.
func (s Source) Ext() string {
	if s.Kind == SourceRemote && s.URL != nil {
		return strings.ToLower(filepath.Ext(s.URL.Path))
	}
	return strings.ToLower(filepath.Ext(s.Path))
}

// Resolve maps a locator onto a Source. http(s) URLs stay remote; file://
// URLs use their path verbatim; root-relative ("/assets/x") and relative
// ("assets/x") paths are joined under root and may not escape it.
func Resolve(root, locator string) (Source, error) {
	loc := strings.TrimSpace(locator)
	if loc == "" {
		return Source{}, ErrEmptyLocator
	}

	if u, err := url.Parse(loc); err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			if u.Host == "" {
				return Source{}, fmt.Errorf("URL senza host: %q", loc)
			}
			return Source{Locator: locator, Kind: SourceRemote, URL: u}, nil
		case "file":
			return Source{Locator: locator, Kind: SourceLocal, Path: filepath.Clean(filepath.FromSlash(u.Path))}, nil
		}
		// Windows drive letters parse as a scheme; treat anything else as a path.
	}

	if root == "" {
		root = "."
	}
	rel := filepath.FromSlash(strings.TrimPrefix(loc, "/"))
	joined := filepath.Join(root, rel)

	back, err := filepath.Rel(root, joined)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return Source{}, fmt.Errorf("%w: %s", ErrOutsideRoot, locator)
	}
	return Source{Locator: locator, Kind: SourceLocal, Path: joined}, nil
}
