package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yangshao2/deq-stats/internal/report"
	"github.com/yangshao2/deq-stats/internal/table"
	"github.com/yangshao2/deq-stats/internal/trend"
)

var (
	trInputDir    string
	trVariable    string
	trPlotDir     string
	trNoPlots     bool
	trSummaryCSV  string
	trDBPath      string
	trAggregation string
	trThreshold   float64
	trConfidence  float64
	trEncoding    string
	trLayout      string
	trDelimiter   string
)

var trendCmd = &cobra.Command{
	Use:   "trend [files...]",
	Short: "Fit per-station, per-depth-band trends for one variable",
	Long: `Trend runs the estimator over every station CSV in the input directory (or
over explicit file arguments), collecting one summary row per station and
depth band. A station that fails (missing columns, no usable data, too few
points) is logged and skipped; the run continues and exits successfully once
every file has been visited.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if trVariable == "" {
			return fmt.Errorf("--variable is required (e.g. FDT_FIELD_PH)")
		}
		files, err := collectStationFiles(args, trInputDir)
		if err != nil {
			return err
		}

		delim, err := parseDelimiter(trDelimiter)
		if err != nil {
			return err
		}
		est := trend.NewEstimator(estimatorConfig(cmd))

		plotDir := trPlotDir
		if plotDir == "" {
			plotDir = trVariable
		}
		if !trNoPlots {
			if err := os.MkdirAll(plotDir, 0o755); err != nil {
				return fmt.Errorf("create plot dir: %w", err)
			}
		}

		var summary []report.SummaryRow
		for i, path := range files {
			station := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
			log.Infof("[%d/%d] processing station %s", i+1, len(files), station)

			tbl, err := readStationTable(path, delim, "", 0)
			if err != nil {
				log.Errorw("failed to read station file", "station", station, "error", err)
				continue
			}
			st, err := est.Estimate(tbl)
			if err != nil {
				var cfgErr *trend.ConfigurationError
				switch {
				case errors.As(err, &cfgErr):
					log.Errorw("station table misconfigured", "station", station, "missing_column", cfgErr.Column)
				case errors.Is(err, trend.ErrNoData):
					log.Infow("no usable data for variable, skipping station", "station", station, "variable", trVariable)
				default:
					log.Errorw("trend estimation failed", "station", station, "error", err)
				}
				continue
			}
			for band, skipErr := range st.Skipped {
				log.Infow("depth band skipped", "station", station, "band", string(band), "reason", skipErr.Error())
			}
			for _, r := range st.Results {
				summary = append(summary, report.NewSummaryRow(station, r))
			}
			if !trNoPlots && len(st.Results) > 0 {
				out := filepath.Join(plotDir, station+"_trend.png")
				if err := report.SaveTrendPlot(out, trVariable, station, st.Results); err != nil {
					log.Errorw("failed to save plot", "station", station, "error", err)
				}
			}
		}

		sort.Slice(summary, func(i, j int) bool {
			if summary[i].StationID == summary[j].StationID {
				return summary[i].Band < summary[j].Band
			}
			return summary[i].StationID < summary[j].StationID
		})

		summaryPath := trSummaryCSV
		if summaryPath == "" {
			summaryPath = trVariable + "_summary.csv"
		}
		if err := report.WriteSummaryCSV(summaryPath, trVariable, summary); err != nil {
			return err
		}
		log.Infof("summary written to %s (%d rows)", summaryPath, len(summary))

		if trDBPath != "" {
			sink, err := report.NewSQLiteSink(trDBPath)
			if err != nil {
				return err
			}
			defer sink.Close()
			if err := sink.Append(runID, trVariable, summary); err != nil {
				return fmt.Errorf("append to results database: %w", err)
			}
			log.Infof("summary appended to %s", trDBPath)
		}
		return nil
	},
}

// estimatorConfig merges flags over config-file values; flag defaults are
// "unset" so the config file wins only when a flag was not provided. The
// depth threshold uses flag Changed state so an explicit zero is honored.
func estimatorConfig(cmd *cobra.Command) trend.Config {
	c := trend.Config{
		DateColumn:  cfg.DateColumn,
		DepthColumn: cfg.DepthColumn,
		ValueColumn: trVariable,
		Encoding:    trend.DateEncoding(cfg.DateEncoding),
		DateLayout:  cfg.DateLayout,

		Aggregation: trend.Aggregation(cfg.Aggregation),
		Confidence:  cfg.Confidence,
	}
	if cfg.DepthThreshold > 0 {
		c.DepthThreshold = &cfg.DepthThreshold
	}
	if cmd.Flags().Changed("depth-threshold") {
		c.DepthThreshold = &trThreshold
	}
	if trAggregation != "" {
		c.Aggregation = trend.Aggregation(trAggregation)
	}
	if trConfidence > 0 {
		c.Confidence = trConfidence
	}
	if trEncoding != "" {
		c.Encoding = trend.DateEncoding(trEncoding)
	}
	if trLayout != "" {
		c.DateLayout = trLayout
	}
	return c
}

// readStationTable loads one station file, dispatching on extension: .xlsx
// workbooks go through the spreadsheet reader, anything else through the CSV
// reader. Sheet selection only applies to workbooks.
func readStationTable(path string, delim rune, sheetName string, sheetIndex int) (*table.Table, error) {
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		return table.ReadXLSX(path, sheetName, sheetIndex)
	}
	return table.ReadCSV(path, table.CSVOptions{Delimiter: delim})
}

// collectStationFiles expands args as globs, or falls back to station files
// in dir (or the configured station directory when dir is empty). Duplicates
// are dropped, order is sorted for a deterministic run.
func collectStationFiles(args []string, dir string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	add := func(m string) {
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		files = append(files, m)
	}
	if len(args) > 0 {
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				add(m)
			}
		}
	} else {
		if dir == "" {
			dir = cfg.StationDir
		}
		if dir == "" {
			dir = "station_csvs"
		}
		for _, pat := range []string{"*.csv", "*.xlsx"} {
			matches, err := filepath.Glob(filepath.Join(dir, pat))
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				add(m)
			}
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no station files matched")
	}
	sort.Strings(files)
	return files, nil
}

func parseDelimiter(s string) (rune, error) {
	switch s {
	case "":
		return 0, nil
	case ",":
		return ',', nil
	case ";":
		return ';', nil
	case "\t", "tab":
		return '\t', nil
	}
	return 0, fmt.Errorf("unsupported --delimiter: %s", s)
}

func init() {
	rootCmd.AddCommand(trendCmd)
	trendCmd.Flags().StringVarP(&trInputDir, "input-dir", "i", "", "folder with station CSV files (default from config: station_csvs)")
	trendCmd.Flags().StringVarP(&trVariable, "variable", "v", "", "column name to analyze (e.g. FDT_FIELD_PH, FDT_TEMP_CELCIUS)")
	trendCmd.Flags().StringVarP(&trPlotDir, "plot-dir", "p", "", "output folder for plots (defaults to the variable name)")
	trendCmd.Flags().BoolVar(&trNoPlots, "no-plots", false, "skip PNG plot output")
	trendCmd.Flags().StringVar(&trSummaryCSV, "summary", "", "summary CSV path (defaults to <variable>_summary.csv)")
	trendCmd.Flags().StringVar(&trDBPath, "db", "", "optional SQLite results database to append summary rows to")
	trendCmd.Flags().StringVar(&trAggregation, "aggregation", "", "monthly statistic: 'mean' | 'median'")
	trendCmd.Flags().Float64Var(&trThreshold, "depth-threshold", 1, "depth band boundary in meters")
	trendCmd.Flags().Float64Var(&trConfidence, "confidence", 0, "slope confidence level (default 0.95)")
	trendCmd.Flags().StringVar(&trEncoding, "date-encoding", "", "date column encoding: 'layout' | 'serial'")
	trendCmd.Flags().StringVar(&trLayout, "date-layout", "", "Go time layout for date parsing (default '1/2/06 15:04')")
	trendCmd.Flags().StringVar(&trDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
}
