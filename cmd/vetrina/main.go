package main

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/AlessioCavassi/Sito-mio-instagram/internal/config"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/logging"
	"github.com/AlessioCavassi/Sito-mio-instagram/internal/media"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "dev"

var (
	// Global flags
	verbose       bool
	configPath    string
	mediaRootFlag string
	backendFlag   string
	noDebugPanel  bool
	timeout       time.Duration

	// Logger
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "vetrina",
	Short: "vetrina - terminal storefront",
	Long: `vetrina renders the product catalog as a grid of cards with a running
cart, loads every product's media in the background and reports load
failures inline and in the debug log panel.

Run without arguments to open the interactive storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The interactive storefront owns the terminal; it logs to files only.
		if cmd == cmd.Root() {
			logger = zap.NewNop()
			return nil
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		logging.CloseAll()
	},
	RunE: runInteractive,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "vetrina %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", config.DefaultPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&mediaRootFlag, "media-root", "", "Directory that root-relative media locators resolve under")
	rootCmd.PersistentFlags().StringVar(&backendFlag, "backend", "", "Media backend: http or browser")
	rootCmd.PersistentFlags().BoolVar(&noDebugPanel, "no-debug-panel", false, "Hide the debug log panel; diagnostics go to the log file")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-media load timeout (default from config)")

	probeCmd.Flags().BoolVar(&probeStrict, "strict", false, "Exit non-zero if any media fails to load")
	catalogCmd.Flags().BoolVar(&catalogYAML, "yaml", false, "Print the catalog as YAML")

	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if mediaRootFlag != "" {
		cfg.Media.Root = mediaRootFlag
	}
	if backendFlag != "" {
		cfg.Media.Backend = backendFlag
	}
	if timeout > 0 {
		cfg.Media.Timeout = timeout.String()
	}
	if noDebugPanel {
		cfg.UI.DebugPanel = false
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}
	return cfg, nil
}

// stateDir is the directory holding the config file and logs.
func stateDir() string {
	return filepath.Dir(configPath)
}

// newLoader builds the media loader for cfg. The returned cleanup closes
// the browser backend, if one was started.
func newLoader(cfg *config.Config) (*media.Loader, func()) {
	fetcher := media.Fetcher{
		Client:   &http.Client{Timeout: cfg.MediaTimeout()},
		MaxBytes: cfg.Media.MaxBytes,
	}
	loader := media.NewLoader(cfg.Media.Root, fetcher)
	loader.Backend = media.Backend(cfg.Media.Backend)

	if loader.Backend != media.BackendBrowser {
		return loader, func() {}
	}
	loader.Browser = media.NewBrowserPlayer(media.BrowserOptions{
		Headless:    cfg.Browser.Headless,
		Bin:         cfg.Browser.Bin,
		DebuggerURL: cfg.Browser.DebuggerURL,
	})
	return loader, func() {
		if err := loader.Browser.Close(); err != nil {
			logging.Get(logging.CategoryBrowser).Error("close browser: %v", err)
		}
	}
}
