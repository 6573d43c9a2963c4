package media

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
)

// ImageLoader is the image element: it reads the resource header and
// decodes the image configuration.
type ImageLoader struct {
	Fetcher Fetcher
}

func (ImageLoader) Kind() string { return "immagine" }

func (l ImageLoader) Load(ctx context.Context, src Source) (Info, error) {
	rc, ctype, err := l.Fetcher.Open(ctx, src)
	if err != nil {
		return Info{}, err
	}
	defer rc.Close()

	br := bufio.NewReader(rc)
	if _, err := br.Peek(1); err != nil {
		return Info{}, ErrEmptyResource
	}

	cfg, format, err := image.DecodeConfig(br)
	if err != nil {
		if errors.Is(err, image.ErrFormat) {
			return Info{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, describeType(ctype))
		}
		return Info{}, fmt.Errorf("immagine non decodificabile: %w", err)
	}

	return Info{
		Player:      l.Kind(),
		Source:      src.String(),
		ContentType: ctype,
		Format:      format,
		Width:       cfg.Width,
		Height:      cfg.Height,
	}, nil
}

func describeType(ctype string) string {
	if ctype == "" {
		return "contenuto sconosciuto"
	}
	return ctype
}
