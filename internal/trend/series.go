package trend

import (
	"sort"
	"time"
)

// MonthlyPoint is one month-end sample of an aggregated series.
type MonthlyPoint struct {
	Month time.Time
	Value float64
}

// monthEnd returns the last day of t's calendar month, at midnight UTC.
func monthEnd(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
}

// ordinalDay converts a date to a day count usable as the regression
// abscissa. The origin (Unix epoch) is arbitrary; only differences matter.
func ordinalDay(t time.Time) float64 {
	return float64(t.Unix()) / 86400.0
}

// aggregateMonthly buckets observations by calendar month and reduces each
// bucket with the given policy, returning month-end points in time order.
func aggregateMonthly(obs []Observation, agg Aggregation) []MonthlyPoint {
	buckets := map[int][]float64{}
	for _, o := range obs {
		key := o.Date.Year()*12 + int(o.Date.Month()) - 1
		buckets[key] = append(buckets[key], o.Value)
	}
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	pts := make([]MonthlyPoint, 0, len(keys))
	for _, k := range keys {
		vals := buckets[k]
		var v float64
		if agg == AggMedian {
			v = median(vals)
		} else {
			v = mean(vals)
		}
		month := time.Date(k/12, time.Month(k%12+1), 1, 0, 0, 0, 0, time.UTC)
		pts = append(pts, MonthlyPoint{Month: monthEnd(month), Value: v})
	}
	return pts
}

// interpolateMonthly reindexes sparse month-end points onto the full grid of
// month-ends between the first and last sample, filling gaps by linear
// interpolation in elapsed days. Months have unequal lengths, so the fill is
// time-weighted rather than positional. A length-0 or length-1 input is
// returned as-is.
func interpolateMonthly(pts []MonthlyPoint) []MonthlyPoint {
	if len(pts) < 2 {
		return pts
	}
	have := map[int]float64{}
	for _, p := range pts {
		have[p.Month.Year()*12+int(p.Month.Month())-1] = p.Value
	}
	first := pts[0].Month
	last := pts[len(pts)-1].Month
	firstKey := first.Year()*12 + int(first.Month()) - 1
	lastKey := last.Year()*12 + int(last.Month()) - 1

	out := make([]MonthlyPoint, 0, lastKey-firstKey+1)
	for k := firstKey; k <= lastKey; k++ {
		m := monthEnd(time.Date(k/12, time.Month(k%12+1), 1, 0, 0, 0, 0, time.UTC))
		if v, ok := have[k]; ok {
			out = append(out, MonthlyPoint{Month: m, Value: v})
			continue
		}
		out = append(out, MonthlyPoint{Month: m, Value: fillValue(pts, m)})
	}
	return out
}

// fillValue linearly interpolates the value at month m between its nearest
// populated neighbors, weighting by elapsed days. m is strictly inside the
// populated range, so both neighbors exist.
func fillValue(pts []MonthlyPoint, m time.Time) float64 {
	t := ordinalDay(m)
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Month.After(m) })
	prev, next := pts[i-1], pts[i]
	t0, t1 := ordinalDay(prev.Month), ordinalDay(next.Month)
	return prev.Value + (next.Value-prev.Value)*(t-t0)/(t1-t0)
}

func mean(vals []float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

func median(vals []float64) float64 {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	n := len(cp)
	if n%2 == 0 {
		return (cp[n/2-1] + cp[n/2]) / 2
	}
	return cp[n/2]
}
