package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/shop"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/debuglog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var probeStrict bool

// probeCmd loads every product's media without the UI
var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Load every product's media and report failures",
	Long: `Loads the media of every catalog product concurrently, using the same
players as the storefront, and writes one diagnostic line per product to
stderr in "<timestamp>: <message>" form.`,
	RunE: runProbe,
}

func runProbe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(stateDir(), cfg.Logging); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, closeLoader := newLoader(cfg)
	defer closeLoader()

	products := catalog.Products()
	logger.Debug("probing catalog",
		zap.Int("products", len(products)),
		zap.String("root", cfg.Media.Root),
		zap.String("backend", cfg.Media.Backend),
		zap.Int("concurrency", cfg.ProbeConcurrency()),
	)

	budget := cfg.MediaTimeout() * (rounds(len(products), cfg.ProbeConcurrency()) + 1)
	probeCtx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	results, err := media.ProbeAll(probeCtx, loader, products, cfg.ProbeConcurrency())
	if err != nil {
		return fmt.Errorf("probe interrupted: %w", err)
	}

	diag := debuglog.Diagnostics(cmd.ErrOrStderr())
	defer func() { _ = diag.Sync() }()

	failed := 0
	for _, r := range results {
		if r.OK() {
			diag.Info(shop.SuccessMessage(r.Product.Name, r.Info))
		} else {
			failed++
			diag.Warn(shop.FailureMessage(r.Product.Name, r.Err))
		}
		logger.Debug("probed",
			zap.Int("id", r.Product.ID),
			zap.Duration("elapsed", r.Elapsed),
			zap.Error(r.Err),
		)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%d/%d media caricati\n", len(results)-failed, len(results))
	if probeStrict && failed > 0 {
		return fmt.Errorf("%d media non caricati", failed)
	}
	return nil
}

// rounds is how many sequential load rounds the probe needs.
func rounds(n, concurrency int) time.Duration {
	if concurrency <= 0 {
		concurrency = 1
	}
	return time.Duration((n + concurrency - 1) / concurrency)
}
