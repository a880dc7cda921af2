package report

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/yangshao2/deq-stats/internal/trend"
)

// SaveTrendPlot renders one station's trend chart to a PNG: a solid line per
// depth band for the interpolated monthly series and a dashed line per band
// for the fitted Theil-Sen trend.
func SaveTrendPlot(path, variable, station string, results []trend.Result) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s trend at %s", variable, station)
	p.X.Label.Text = "Date"
	p.Y.Label.Text = variable
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01"}
	p.Legend.Top = true

	for i, r := range results {
		series := make(plotter.XYs, len(r.Series))
		fitted := make(plotter.XYs, len(r.Series))
		for j, pt := range r.Series {
			x := float64(pt.Month.Unix())
			series[j].X = x
			series[j].Y = pt.Value
			fitted[j].X = x
			// The fit abscissa is ordinal days, not Unix seconds.
			fitted[j].Y = r.Intercept + r.Slope*(x/86400.0)
		}

		line, err := plotter.NewLine(series)
		if err != nil {
			return fmt.Errorf("plot series for %s: %w", r.Band, err)
		}
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%s monthly", r.Band), line)

		tl, err := plotter.NewLine(fitted)
		if err != nil {
			return fmt.Errorf("plot trend for %s: %w", r.Band, err)
		}
		tl.Color = plotutil.Color(i)
		tl.Dashes = []vg.Length{vg.Points(6), vg.Points(3)}
		p.Add(tl)
		p.Legend.Add(fmt.Sprintf("%s trend (%.3f/yr)", r.Band, r.SlopePerYear), tl)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
