package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cfgpkg "github.com/yangshao2/deq-stats/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	// Loaded configuration
	cfg *cfgpkg.Global

	// Logger and per-invocation run ID, shared by all subcommands.
	zapLogger *zap.Logger
	log       *zap.SugaredLogger
	runID     string
)

var rootCmd = &cobra.Command{
	Use:   "deq-stats",
	Short: "Batch analysis of water-quality monitoring data",
	Long: `deq-stats processes tabular water-quality monitoring data: it splits a
master dataset into per-station files, computes long-term trends (Theil-Sen
slope, Mann-Kendall significance) per station and depth band, and computes
Spearman correlation matrices among monitoring variables.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(initLogger, loadConfig)
	err := rootCmd.Execute()
	flushLogs()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// flushLogs drains buffered log output before the process exits. Syncing a
// terminal stderr can fail; that is not worth reporting.
func flushLogs() {
	if zapLogger != nil {
		_ = zapLogger.Sync()
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.deq-stats/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
}

func initLogger() {
	var err error
	if debug {
		zapLogger, err = zap.NewDevelopment()
	} else {
		zapLogger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "can't initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	runID = uuid.NewString()
	log = zapLogger.Sugar().With("run_id", runID)
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: every setting has a flag or default.
		log.Warnf("failed to load config: %v", err)
		cfg = &cfgpkg.Global{}
		return
	}
	cfg = c
}
