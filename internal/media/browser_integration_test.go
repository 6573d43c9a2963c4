//go:build integration

package media

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserPlayer_Integration(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "ok.png", pngBytes(t, 5, 7))
	writeFile(t, dir, "bad.png", []byte("nope"))

	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	bp := NewBrowserPlayer(BrowserOptions{Headless: true})
	defer func() {
		require.NoError(t, bp.Close())
	}()

	l := NewLoader(dir, Fetcher{})
	l.Backend = BackendBrowser
	l.Browser = bp

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	info, err := l.Load(ctx, catalog.Product{ID: 1, Media: "/ok.png", MediaType: catalog.MediaImage})
	require.NoError(t, err)
	assert.Equal(t, 5, info.Width)
	assert.Equal(t, 7, info.Height)

	info, err = l.Load(ctx, catalog.Product{ID: 2, Media: srv.URL + "/ok.png", MediaType: catalog.MediaImage})
	require.NoError(t, err)
	assert.Equal(t, "browser:immagine", info.Player)

	_, err = l.Load(ctx, catalog.Product{ID: 3, Media: "/bad.png", MediaType: catalog.MediaImage})
	assert.Error(t, err)

	_, err = l.Load(ctx, catalog.Product{ID: 4, Media: filepath.ToSlash("/ok.png"), MediaType: catalog.MediaVideo})
	assert.Error(t, err)
}
