package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/feedcheck-cli/internal/config"
	"github.com/KaramelBytes/feedcheck-cli/internal/logging"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	logger = logging.Default
)

var rootCmd = &cobra.Command{
	Use:   "feedcheck",
	Short: "feedcheck: validate product feeds and profile their costs and margins",
	Long: `feedcheck reads CSV, TSV and XLSX product feeds, checks their columns against a catalog of
required, preferred and optional fields, and reports shipping cost, COGS and margin
distributions together with the products sold at a negative margin.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the entry point called by main.main()
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.feedcheck/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func loadConfig() {
	if debug {
		logger.SetLevel(logging.LevelDebug)
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults for this run
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		cfg = nil
		return
	}
	cfg = c
	logger.Debug("config loaded: format=%s alias_mode=%s workers=%d", cfg.Format, cfg.AliasMode, cfg.Workers)
}

// settings returns the loaded config, or built-in defaults when none could be loaded.
func settings() *cfgpkg.Global {
	if cfg != nil {
		return cfg
	}
	return &cfgpkg.Global{
		AliasMode:           "aliases",
		Format:              "markdown",
		NegativeMarginLimit: 20,
		Workers:             4,
		MaxRows:             100000,
		SheetIndex:          1,
	}
}
