package cmd

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var (
	spOutputDir  string
	spStationCol string
	spSheetName  string
	spSheetIndex int
	spDelimiter  string
)

var splitCmd = &cobra.Command{
	Use:   "split <master-file>",
	Short: "Split a master dataset into one CSV per monitoring station",
	Long: `Split reads a master dataset (CSV or XLSX, chosen by file extension) and
writes one CSV per distinct value of the station-ID column, keeping the full
header and the original row order within each station.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		input := args[0]
		stationCol := spStationCol
		if stationCol == "" {
			stationCol = cfg.StationColumn
		}
		if stationCol == "" {
			stationCol = "FDT_STA_ID"
		}

		delim, err := parseDelimiter(spDelimiter)
		if err != nil {
			return err
		}
		tbl, err := readStationTable(input, delim, spSheetName, spSheetIndex)
		if err != nil {
			return err
		}

		colIdx := tbl.ColumnIndex(stationCol)
		if colIdx < 0 {
			return fmt.Errorf("station column %q not present in %s", stationCol, input)
		}

		if err := os.MkdirAll(spOutputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}

		// Group rows by station, preserving input order within each group.
		groups := map[string][][]string{}
		var order []string
		for i := range tbl.Rows {
			id := sanitizeStationID(tbl.Cell(i, colIdx))
			if id == "" {
				continue
			}
			if _, ok := groups[id]; !ok {
				order = append(order, id)
			}
			groups[id] = append(groups[id], tbl.Rows[i])
		}
		if len(groups) == 0 {
			return fmt.Errorf("no station IDs found in column %q", stationCol)
		}
		sort.Strings(order)

		for _, id := range order {
			out := filepath.Join(spOutputDir, id+".csv")
			if err := writeStationCSV(out, tbl.Columns, groups[id]); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Infof("wrote %d rows to %s", len(groups[id]), out)
		}
		log.Infof("split %d rows into %d station files under %s", len(tbl.Rows), len(order), spOutputDir)
		return nil
	},
}

// sanitizeStationID makes a station ID safe for a filename.
func sanitizeStationID(id string) string {
	id = strings.TrimSpace(id)
	id = strings.ReplaceAll(id, "/", "_")
	id = strings.ReplaceAll(id, " ", "_")
	return id
}

func writeStationCSV(path string, header []string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		// Pad short rows so every record has the header width.
		if len(row) < len(header) {
			tmp := make([]string, len(header))
			copy(tmp, row)
			row = tmp
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func init() {
	rootCmd.AddCommand(splitCmd)
	splitCmd.Flags().StringVarP(&spOutputDir, "output-dir", "o", "station_csvs", "folder for per-station CSV files")
	splitCmd.Flags().StringVar(&spStationCol, "station-column", "", "station ID column name (default from config: FDT_STA_ID)")
	splitCmd.Flags().StringVar(&spSheetName, "sheet-name", "", "XLSX: sheet name to read")
	splitCmd.Flags().IntVar(&spSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	splitCmd.Flags().StringVar(&spDelimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab'")
}
