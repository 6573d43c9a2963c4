package media

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
)

// DefaultMaxBytes bounds a single resource read.
const DefaultMaxBytes = 8 << 20

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// Fetcher opens local files and remote URLs.
type Fetcher struct {
	Client   *http.Client
	MaxBytes int64
}

func (f Fetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

func (f Fetcher) limit() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return DefaultMaxBytes
}

// Open returns a reader bounded by MaxBytes+1 plus the declared content type
// (empty for local files).
func (f Fetcher) Open(ctx context.Context, src Source) (io.ReadCloser, string, error) {
	switch src.Kind {
	case SourceRemote:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL.String(), nil)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("User-Agent", "vetrina/1.0")
		req.Header.Set("Accept", "image/*,video/*,application/vnd.apple.mpegurl,*/*;q=0.8")

		resp, err := f.client().Do(req)
		if err != nil {
			return nil, "", err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, "", &StatusError{URL: src.URL.String(), StatusCode: resp.StatusCode}
		}
		return limitedCloser{io.LimitReader(resp.Body, f.limit()+1), resp.Body}, resp.Header.Get("Content-Type"), nil

	default:
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}
		info, err := os.Stat(src.Path)
		if err != nil {
			return nil, "", err
		}
		if info.IsDir() {
			return nil, "", fmt.Errorf("%s è una cartella", src.Path)
		}
		file, err := os.Open(src.Path)
		if err != nil {
			return nil, "", err
		}
		return limitedCloser{io.LimitReader(file, f.limit()+1), file}, "", nil
	}
}

// ReadHead reads at most n bytes from the start of the resource.
func (f Fetcher) ReadHead(ctx context.Context, src Source, n int) ([]byte, string, error) {
	rc, ctype, err := f.Open(ctx, src)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	buf := make([]byte, n)
	read, err := io.ReadFull(rc, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	return buf[:read], ctype, nil
}

// ReadAll reads the whole resource, failing with ErrTooLarge past MaxBytes.
func (f Fetcher) ReadAll(ctx context.Context, src Source) ([]byte, string, error) {
	rc, ctype, err := f.Open(ctx, src)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.limit() {
		return nil, "", ErrTooLarge
	}
	return data, ctype, nil
}

type limitedCloser struct {
	io.Reader
	io.Closer
}
