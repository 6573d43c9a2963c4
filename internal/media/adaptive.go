package media

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// IsPlaylist reports whether the source names an HLS playlist.
func IsPlaylist(src Source) bool {
	ext := src.Ext()
	return ext == ".m3u8" || ext == ".m3u"
}

// Playlist is the subset of an HLS playlist the adaptive player needs.
type Playlist struct {
	Variants int
	Segments int
	URIs     []string
}

// ParsePlaylist parses an HLS playlist body.
func ParsePlaylist(data []byte) (Playlist, error) {
	var pl Playlist
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 64*1024), 1024*1024)

	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if first {
			first = false
			if !strings.HasPrefix(line, "#EXTM3U") {
				return Playlist{}, ErrNotPlaylist
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, "#EXT-X-STREAM-INF"):
			pl.Variants++
		case strings.HasPrefix(line, "#EXTINF"):
			pl.Segments++
		case strings.HasPrefix(line, "#"):
		default:
			pl.URIs = append(pl.URIs, line)
		}
	}
	if err := sc.Err(); err != nil {
		return Playlist{}, err
	}
	if first {
		return Playlist{}, ErrNotPlaylist
	}
	if len(pl.URIs) == 0 {
		return Playlist{}, fmt.Errorf("%w: nessun segmento", ErrNotPlaylist)
	}
	return pl, nil
}

// AdaptivePlayer is the adaptive-streaming element: it fetches the HLS
// playlist, validates it and reaches the first variant or segment.
type AdaptivePlayer struct {
	Fetcher Fetcher
}

func (AdaptivePlayer) Kind() string { return "video adattivo" }

func (p AdaptivePlayer) Load(ctx context.Context, src Source) (Info, error) {
	data, ctype, err := p.Fetcher.ReadAll(ctx, src)
	if err != nil {
		return Info{}, err
	}
	pl, err := ParsePlaylist(data)
	if err != nil {
		return Info{}, err
	}

	next, err := resolveRef(src, pl.URIs[0])
	if err != nil {
		return Info{}, err
	}
	if _, _, err := p.Fetcher.ReadHead(ctx, next, 1); err != nil {
		return Info{}, fmt.Errorf("primo elemento della playlist non raggiungibile (%s): %w", pl.URIs[0], err)
	}

	detail := fmt.Sprintf("%d segmenti", pl.Segments)
	if pl.Variants > 0 {
		detail = fmt.Sprintf("%d varianti", pl.Variants)
	}
	return Info{
		Player:      p.Kind(),
		Source:      src.String(),
		ContentType: ctype,
		Format:      "hls",
		Detail:      detail,
	}, nil
}

// resolveRef resolves a playlist entry relative to the playlist itself.
func resolveRef(base Source, ref string) (Source, error) {
	if u, err := url.Parse(ref); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		return Source{Locator: ref, Kind: SourceRemote, URL: u}, nil
	}
	switch base.Kind {
	case SourceRemote:
		u, err := base.URL.Parse(ref)
		if err != nil {
			return Source{}, fmt.Errorf("riferimento non valido %q: %w", ref, err)
		}
		return Source{Locator: ref, Kind: SourceRemote, URL: u}, nil
	default:
		path := filepath.FromSlash(ref)
		if !filepath.IsAbs(path) {
			path = filepath.Join(filepath.Dir(base.Path), path)
		}
		return Source{Locator: ref, Kind: SourceLocal, Path: path}, nil
	}
}
