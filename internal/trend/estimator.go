// Package trend computes long-term water-quality trends for one monitoring
// station: observations are cleaned, split into depth bands, aggregated to
// monthly series, interpolated onto a regular month-end grid, and fitted with
// a Theil-Sen slope plus a Mann-Kendall significance test.
package trend

import (
	"strconv"
	"strings"
	"time"

	"github.com/yangshao2/deq-stats/internal/table"
)

// Band labels a fixed depth partition of the water column.
type Band string

const (
	BandShallow Band = "0-1 m"
	BandDeep    Band = ">1 m"
)

// Bands lists the depth bands in reporting order.
var Bands = []Band{BandShallow, BandDeep}

// Aggregation selects the monthly reduction statistic.
type Aggregation string

const (
	AggMean   Aggregation = "mean"
	AggMedian Aggregation = "median"
)

// DateEncoding selects how the date column is interpreted.
type DateEncoding string

const (
	// DateLayout parses date strings against Config.DateLayout.
	DateLayout DateEncoding = "layout"
	// DateSerial interprets the column as Excel serial day numbers.
	DateSerial DateEncoding = "serial"
)

// serialEpoch is the Excel 1900 date system origin.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// defaultDateLayout matches source timestamps like "6/30/94 11:00".
const defaultDateLayout = "1/2/06 15:04"

// Config parameterizes the estimator. Zero values fall back to the source
// dataset's conventions.
type Config struct {
	DateColumn  string
	DepthColumn string
	ValueColumn string

	Encoding   DateEncoding // default DateLayout
	DateLayout string       // default "1/2/06 15:04"

	DepthThreshold *float64    // band boundary, nil means 1.0; equal depth is shallow
	Aggregation    Aggregation // default AggMean
	Confidence     float64     // slope CI level, default 0.95
}

func (c Config) withDefaults() Config {
	if c.DateColumn == "" {
		c.DateColumn = "FDT_DATE_TIME"
	}
	if c.DepthColumn == "" {
		c.DepthColumn = "FDT_DEPTH"
	}
	if c.Encoding == "" {
		c.Encoding = DateLayout
	}
	if c.DateLayout == "" {
		c.DateLayout = defaultDateLayout
	}
	if c.DepthThreshold == nil {
		v := 1.0
		c.DepthThreshold = &v
	}
	if c.Aggregation == "" {
		c.Aggregation = AggMean
	}
	if c.Confidence == 0 {
		c.Confidence = 0.95
	}
	return c
}

// Observation is one cleaned measurement event.
type Observation struct {
	Date  time.Time // truncated to day
	Depth float64
	Value float64
}

// Result is the fitted trend for one (station, depth band) pair.
type Result struct {
	Band Band

	StartYear int // first year with aggregated data
	EndYear   int // last year with aggregated data
	Months    int // aggregated months before interpolation

	Series []MonthlyPoint // interpolated monthly series

	Slope        float64 // per ordinal day
	Intercept    float64
	SlopePerYear float64
	LowPerYear   float64 // CI bounds on SlopePerYear
	HighPerYear  float64

	Tau         float64
	PValue      float64
	Significant bool // PValue < 0.05
}

// StationTrend collects per-band outcomes for one station. A band may
// succeed while its sibling is skipped; Skipped records why.
type StationTrend struct {
	Station string
	Results []Result
	Skipped map[Band]error
}

// Estimator runs the trend pipeline over one station table at a time. It is
// stateless between calls and safe to reuse across stations.
type Estimator struct {
	cfg Config
}

// NewEstimator returns an estimator with defaults applied to cfg.
func NewEstimator(cfg Config) *Estimator {
	return &Estimator{cfg: cfg.withDefaults()}
}

// Estimate cleans the table and fits a trend per depth band.
//
// It fails with *ConfigurationError when a required column is absent and with
// ErrNoData when cleaning discards every row. Per-band failures are reported
// in StationTrend.Skipped and never abort the other band.
func (e *Estimator) Estimate(tbl *table.Table) (*StationTrend, error) {
	cfg := e.cfg
	dateIdx := tbl.ColumnIndex(cfg.DateColumn)
	depthIdx := tbl.ColumnIndex(cfg.DepthColumn)
	valIdx := tbl.ColumnIndex(cfg.ValueColumn)
	switch {
	case dateIdx < 0:
		return nil, &ConfigurationError{Column: cfg.DateColumn}
	case depthIdx < 0:
		return nil, &ConfigurationError{Column: cfg.DepthColumn}
	case valIdx < 0:
		return nil, &ConfigurationError{Column: cfg.ValueColumn}
	}

	byBand := map[Band][]Observation{}
	for i := range tbl.Rows {
		date, ok := e.parseDate(tbl.Cell(i, dateIdx))
		if !ok {
			continue
		}
		depth, err := parseFloat(tbl.Cell(i, depthIdx))
		if err != nil {
			continue
		}
		value, err := parseFloat(tbl.Cell(i, valIdx))
		if err != nil {
			continue
		}
		band := BandDeep
		if depth <= *cfg.DepthThreshold {
			band = BandShallow
		}
		byBand[band] = append(byBand[band], Observation{Date: date, Depth: depth, Value: value})
	}
	if len(byBand[BandShallow])+len(byBand[BandDeep]) == 0 {
		return nil, ErrNoData
	}

	st := &StationTrend{Station: tbl.Name, Skipped: map[Band]error{}}
	for _, band := range Bands {
		obs := byBand[band]
		if len(obs) == 0 {
			// Band never sampled; not an error.
			continue
		}
		res, err := e.fitBand(band, obs)
		if err != nil {
			st.Skipped[band] = err
			continue
		}
		st.Results = append(st.Results, *res)
	}
	return st, nil
}

func (e *Estimator) fitBand(band Band, obs []Observation) (*Result, error) {
	monthly := aggregateMonthly(obs, e.cfg.Aggregation)
	series := interpolateMonthly(monthly)
	if len(series) < 2 {
		return nil, &InsufficientDataError{Band: band, Points: len(series)}
	}

	x := make([]float64, len(series))
	y := make([]float64, len(series))
	idx := make([]float64, len(series))
	for i, p := range series {
		x[i] = ordinalDay(p.Month)
		y[i] = p.Value
		idx[i] = float64(i)
	}

	fit, err := TheilSen(x, y, e.cfg.Confidence)
	if err != nil {
		return nil, &InsufficientDataError{Band: band, Points: len(series)}
	}
	mk := KendallTau(idx, y)

	return &Result{
		Band:         band,
		StartYear:    monthly[0].Month.Year(),
		EndYear:      monthly[len(monthly)-1].Month.Year(),
		Months:       len(monthly),
		Series:       series,
		Slope:        fit.Slope,
		Intercept:    fit.Intercept,
		SlopePerYear: fit.Slope * 365,
		LowPerYear:   fit.Low * 365,
		HighPerYear:  fit.High * 365,
		Tau:          mk.Tau,
		PValue:       mk.PValue,
		Significant:  mk.PValue < 0.05,
	}, nil
}

// parseDate interprets a raw date cell per the configured encoding. An
// unparseable value marks the row as missing rather than failing the run.
func (e *Estimator) parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	switch e.cfg.Encoding {
	case DateSerial:
		serial, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return time.Time{}, false
		}
		t := serialEpoch.Add(time.Duration(serial * float64(24*time.Hour)))
		return truncateToDay(t), true
	default:
		t, err := time.ParseInLocation(e.cfg.DateLayout, raw, time.UTC)
		if err != nil {
			return time.Time{}, false
		}
		return truncateToDay(t), true
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseFloat(raw string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(raw), 64)
}
