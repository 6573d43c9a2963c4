package media

import (
	"context"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"

	"golang.org/x/sync/errgroup"
)

// Result is the outcome of loading one product's media outside the UI.
type Result struct {
	Product catalog.Product
	Info    Info
	Err     error
	Elapsed time.Duration
}

// OK reports whether the load succeeded.
func (r Result) OK() bool { return r.Err == nil }

// ProbeAll loads every product's media with at most concurrency loads in
// flight. Results keep catalog order. Load failures are recorded per
// result; only context cancellation aborts the probe.
func ProbeAll(ctx context.Context, loader *Loader, products []catalog.Product, concurrency int) ([]Result, error) {
	if concurrency <= 0 {
		concurrency = 1
	}
	results := make([]Result, len(products))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, p := range products {
		i, p := i, p
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			info, err := loader.Load(gctx, p)
			results[i] = Result{Product: p, Info: info, Err: err, Elapsed: time.Since(start)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, ctx.Err()
}
