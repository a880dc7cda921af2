// Package report renders trend results into their output artifacts: the
// cross-station summary CSV, an optional SQLite results database, and
// per-station trend plots.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/yangshao2/deq-stats/internal/trend"
)

// SummaryRow is one line of the cross-station summary: one trend result for
// one (station, depth band) pair.
type SummaryRow struct {
	StationID    string
	Band         trend.Band
	StartYear    int
	EndYear      int
	Months       int
	SlopePerYear float64
	LowPerYear   float64
	HighPerYear  float64
	Tau          float64
	PValue       float64
	Significance string // "sig" | "ns"
}

// NewSummaryRow flattens a trend result for the summary table.
func NewSummaryRow(station string, r trend.Result) SummaryRow {
	sig := "ns"
	if r.Significant {
		sig = "sig"
	}
	return SummaryRow{
		StationID:    station,
		Band:         r.Band,
		StartYear:    r.StartYear,
		EndYear:      r.EndYear,
		Months:       r.Months,
		SlopePerYear: r.SlopePerYear,
		LowPerYear:   r.LowPerYear,
		HighPerYear:  r.HighPerYear,
		Tau:          r.Tau,
		PValue:       r.PValue,
		Significance: sig,
	}
}

// WriteSummaryCSV writes all rows to a single CSV. The slope and
// significance headers carry the variable name so summaries for different
// variables stay self-describing.
func WriteSummaryCSV(path, variable string, rows []SummaryRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create summary: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"station_id", "depth_band", "start_year", "end_year", "months",
		variable + "_sen_slope_per_year", variable + "_kendall_sig",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.StationID,
			string(r.Band),
			strconv.Itoa(r.StartYear),
			strconv.Itoa(r.EndYear),
			strconv.Itoa(r.Months),
			strconv.FormatFloat(r.SlopePerYear, 'g', -1, 64),
			r.Significance,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
