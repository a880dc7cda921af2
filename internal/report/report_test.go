package report

import (
	"database/sql"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/yangshao2/deq-stats/internal/trend"
)

func sampleRows() []SummaryRow {
	return []SummaryRow{
		{
			StationID: "2-XYZ000.42", Band: trend.BandShallow,
			StartYear: 1994, EndYear: 2009, Months: 181,
			SlopePerYear: 0.0123, LowPerYear: 0.002, HighPerYear: 0.021,
			Tau: 0.31, PValue: 0.004, Significance: "sig",
		},
		{
			StationID: "2-XYZ000.42", Band: trend.BandDeep,
			StartYear: 1994, EndYear: 2009, Months: 181,
			SlopePerYear: -0.0005, LowPerYear: -0.01, HighPerYear: 0.008,
			Tau: -0.02, PValue: 0.71, Significance: "ns",
		},
	}
}

func TestNewSummaryRowSignificance(t *testing.T) {
	sig := NewSummaryRow("s", trend.Result{Band: trend.BandShallow, Significant: true})
	if sig.Significance != "sig" {
		t.Errorf("Significance = %q, want sig", sig.Significance)
	}
	ns := NewSummaryRow("s", trend.Result{Band: trend.BandDeep})
	if ns.Significance != "ns" {
		t.Errorf("Significance = %q, want ns", ns.Significance)
	}
	if ns.Band != trend.BandDeep {
		t.Errorf("Band = %q, want %q", ns.Band, trend.BandDeep)
	}
}

func TestWriteSummaryCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ph_summary.csv")
	if err := WriteSummaryCSV(path, "FDT_FIELD_PH", sampleRows()); err != nil {
		t.Fatalf("WriteSummaryCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	recs, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("got %d records, want header + 2 rows", len(recs))
	}
	if recs[0][5] != "FDT_FIELD_PH_sen_slope_per_year" || recs[0][6] != "FDT_FIELD_PH_kendall_sig" {
		t.Errorf("variable headers wrong: %v", recs[0])
	}
	if recs[1][1] != "0-1 m" || recs[2][1] != ">1 m" {
		t.Errorf("band cells wrong: %q %q", recs[1][1], recs[2][1])
	}
	if recs[1][6] != "sig" || recs[2][6] != "ns" {
		t.Errorf("significance cells wrong: %q %q", recs[1][6], recs[2][6])
	}
	if recs[1][2] != "1994" || recs[1][4] != "181" {
		t.Errorf("year/month cells wrong: %v", recs[1])
	}
}

func TestSQLiteSinkAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")
	sink, err := NewSQLiteSink(path)
	if err != nil {
		t.Fatalf("NewSQLiteSink failed: %v", err)
	}
	defer sink.Close()

	if err := sink.Append("run-1", "FDT_FIELD_PH", sampleRows()); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	// A second run for another variable accumulates rather than replacing.
	if err := sink.Append("run-2", "DO_mg_L", sampleRows()[:1]); err != nil {
		t.Fatalf("second Append failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	var total int
	if err := db.QueryRow(`SELECT COUNT(*) FROM trend_summary`).Scan(&total); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if total != 3 {
		t.Errorf("row count = %d, want 3", total)
	}

	var band, sig string
	var slope float64
	err = db.QueryRow(`
		SELECT depth_band, significance, slope_per_year
		FROM trend_summary
		WHERE run_id = 'run-1' AND depth_band = '>1 m'`).Scan(&band, &sig, &slope)
	if err != nil {
		t.Fatalf("query deep-band row: %v", err)
	}
	if sig != "ns" || slope != -0.0005 {
		t.Errorf("stored row wrong: sig=%q slope=%v", sig, slope)
	}
}

func TestSaveTrendPlot(t *testing.T) {
	months := []trend.MonthlyPoint{
		{Month: time.Date(2020, 1, 31, 0, 0, 0, 0, time.UTC), Value: 7.0},
		{Month: time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), Value: 7.1},
		{Month: time.Date(2020, 3, 31, 0, 0, 0, 0, time.UTC), Value: 7.2},
	}
	r := trend.Result{
		Band:         trend.BandShallow,
		Series:       months,
		Slope:        0.003,
		Intercept:    6.9,
		SlopePerYear: 1.1,
	}

	path := filepath.Join(t.TempDir(), "station.png")
	if err := SaveTrendPlot(path, "FDT_FIELD_PH", "2-XYZ000.42", []trend.Result{r}); err != nil {
		t.Fatalf("SaveTrendPlot failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat plot: %v", err)
	}
	if info.Size() == 0 {
		t.Error("plot file is empty")
	}
}
