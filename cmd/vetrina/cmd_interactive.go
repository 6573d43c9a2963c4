package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/AlessioCavassi/Sito-mio-instagram/cmd/vetrina/shop"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/catalog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/config"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/debuglog"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runInteractive opens the storefront.
func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if err := logging.Initialize(stateDir(), cfg.Logging); err != nil {
		return err
	}
	logging.Boot("config %s, media root %s, backend %s", configPath, cfg.Media.Root, cfg.Media.Backend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, closeLoader := newLoader(cfg)
	defer closeLoader()

	fallback, closeFallback := interactiveDiagnostics(diagnosticsPath(cfg.Logging))
	defer closeFallback()

	opts := shop.Options{
		Title:      cfg.Shop.Title,
		Currency:   cfg.Shop.CurrencySymbol,
		Products:   catalog.Products(),
		Loader:     loader,
		Timeout:    cfg.MediaTimeout(),
		DebugPanel: cfg.UI.DebugPanel,
		SeedLog:    cfg.UI.SeedLog,
		Theme:      cfg.UI.Theme,
		AltScreen:  cfg.UI.AltScreen,
		Fallback:   fallback,
	}

	if cfg.Media.Watch {
		if w := startWatcher(ctx, cfg.Media.Root); w != nil {
			defer w.Stop()
			opts.Changes = w.Changes()
		}
	}

	return shop.Run(ctx, opts)
}

// diagnosticsPath is logging.file when set, else logs/diagnostics.log.
// Relative paths are taken from the state directory.
func diagnosticsPath(cfg config.LoggingConfig) string {
	path := cfg.File
	if path == "" {
		path = filepath.Join("logs", "diagnostics.log")
	}
	if !filepath.IsAbs(path) {
		path = filepath.Join(stateDir(), path)
	}
	return path
}

// interactiveDiagnostics opens the fallback diagnostic stream for card
// messages. The terminal belongs to the UI, so it is a file.
func interactiveDiagnostics(path string) (*zap.Logger, func()) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		logging.Get(logging.CategoryBoot).Warn("diagnostics disabled: %v", err)
		return zap.NewNop(), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		logging.Get(logging.CategoryBoot).Warn("diagnostics disabled: %v", err)
		return zap.NewNop(), func() {}
	}
	l := debuglog.Diagnostics(f)
	return l, func() {
		_ = l.Sync()
		_ = f.Close()
	}
}

func startWatcher(ctx context.Context, root string) *media.Watcher {
	if fi, err := os.Stat(root); err != nil || !fi.IsDir() {
		logging.Watcher("media root %s not a directory; watcher off", root)
		return nil
	}
	w, err := media.NewWatcher(root, 0)
	if err != nil {
		logging.Get(logging.CategoryWatcher).Warn("watcher unavailable: %v", err)
		return nil
	}
	if err := w.Start(ctx); err != nil {
		logging.Get(logging.CategoryWatcher).Warn("watcher start failed: %v", err)
		return nil
	}
	return w
}
