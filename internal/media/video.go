package media

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
)

const sniffLen = 512

// NativePlayer is the native playback element: it reads the first bytes of
// the resource and accepts known video containers.
type NativePlayer struct {
	Fetcher Fetcher
}

func (NativePlayer) Kind() string { return "video" }

func (p NativePlayer) Load(ctx context.Context, src Source) (Info, error) {
	head, ctype, err := p.Fetcher.ReadHead(ctx, src, sniffLen)
	if err != nil {
		return Info{}, err
	}
	if len(head) == 0 {
		return Info{}, ErrEmptyResource
	}

	container, ok := sniffContainer(head)
	if !ok {
		detected := http.DetectContentType(head)
		return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, detected)
	}

	return Info{
		Player:      p.Kind(),
		Source:      src.String(),
		ContentType: ctype,
		Format:      container,
		Detail:      "controlli attivi",
	}, nil
}

// sniffContainer recognises common video containers by signature, then
// falls back to the standard content sniffer.
func sniffContainer(head []byte) (string, bool) {
	switch {
	case len(head) >= 12 && bytes.Equal(head[4:8], []byte("ftyp")):
		if bytes.Equal(head[8:12], []byte("qt  ")) {
			return "quicktime", true
		}
		return "mp4", true
	case bytes.HasPrefix(head, []byte{0x1A, 0x45, 0xDF, 0xA3}):
		return "webm", true
	case bytes.HasPrefix(head, []byte("OggS")):
		return "ogg", true
	case len(head) >= 12 && bytes.HasPrefix(head, []byte("RIFF")) && bytes.Equal(head[8:12], []byte("AVI ")):
		return "avi", true
	}
	detected := http.DetectContentType(head)
	if strings.HasPrefix(detected, "video/") {
		return strings.TrimPrefix(detected, "video/"), true
	}
	return "", false
}
