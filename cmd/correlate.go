package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yangshao2/deq-stats/internal/corr"
)

var (
	coInputDir  string
	coOutputDir string
	coVariables []string
	coDelimiter string
)

var correlateCmd = &cobra.Command{
	Use:   "correlate [files...]",
	Short: "Compute per-station Spearman correlation matrices",
	Long: `Correlate computes, for each station file, the pairwise Spearman rank
correlation among the configured water-quality variables over
pairwise-complete observations, writing one matrix CSV per station.
Variables missing from a station's schema are logged and left out of that
station's matrix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := collectStationFiles(args, coInputDir)
		if err != nil {
			return err
		}
		delim, err := parseDelimiter(coDelimiter)
		if err != nil {
			return err
		}
		variables := coVariables
		if len(variables) == 0 {
			variables = cfg.Variables
		}
		if len(variables) == 0 {
			return fmt.Errorf("no variables configured; set 'variables' in config or pass --variables")
		}
		outDir := coOutputDir
		if outDir == "" {
			outDir = cfg.CorrDir
		}
		if outDir == "" {
			outDir = "spearman_corr"
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		for i, path := range files {
			station := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			log.Infof("[%d/%d] correlating station %s", i+1, len(files), station)

			tbl, err := readStationTable(path, delim, "", 0)
			if err != nil {
				log.Errorw("failed to read station file", "station", station, "error", err)
				continue
			}
			m, missing := corr.Spearman(tbl, variables)
			if len(missing) > 0 {
				log.Infow("variables missing from station schema", "station", station, "missing", missing)
			}
			if len(m.Columns) == 0 {
				log.Infow("no configured variables present, skipping station", "station", station)
				continue
			}
			out := filepath.Join(outDir, station+"_spearman.csv")
			if err := m.WriteCSV(out); err != nil {
				log.Errorw("failed to write correlation matrix", "station", station, "error", err)
				continue
			}
			log.Infof("correlation matrix saved to %s", out)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(correlateCmd)
	correlateCmd.Flags().StringVarP(&coInputDir, "input-dir", "i", "", "folder with station CSV files (default from config: station_csvs)")
	correlateCmd.Flags().StringVarP(&coOutputDir, "output-dir", "o", "", "folder for correlation matrices (default from config: spearman_corr)")
	correlateCmd.Flags().StringSliceVar(&coVariables, "variables", nil, "variables to correlate (default from config)")
	correlateCmd.Flags().StringVar(&coDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
}
