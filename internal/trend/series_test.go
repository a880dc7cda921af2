package trend

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthEnd(t *testing.T) {
	cases := []struct {
		in, want time.Time
	}{
		{day(2019, time.January, 5), day(2019, time.January, 31)},
		{day(2019, time.February, 28), day(2019, time.February, 28)},
		{day(2020, time.February, 1), day(2020, time.February, 29)}, // leap year
		{day(2019, time.December, 31), day(2019, time.December, 31)},
	}
	for _, c := range cases {
		if got := monthEnd(c.in); !got.Equal(c.want) {
			t.Errorf("monthEnd(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestAggregateMonthlyMeanAndMedian(t *testing.T) {
	obs := []Observation{
		{Date: day(2019, time.March, 2), Value: 1},
		{Date: day(2019, time.March, 15), Value: 2},
		{Date: day(2019, time.March, 28), Value: 9},
		{Date: day(2019, time.May, 1), Value: 5},
	}

	means := aggregateMonthly(obs, AggMean)
	if len(means) != 2 {
		t.Fatalf("got %d monthly points, want 2", len(means))
	}
	if !means[0].Month.Equal(day(2019, time.March, 31)) {
		t.Errorf("first month = %v, want 2019-03-31", means[0].Month)
	}
	if means[0].Value != 4 {
		t.Errorf("march mean = %v, want 4", means[0].Value)
	}

	medians := aggregateMonthly(obs, AggMedian)
	if medians[0].Value != 2 {
		t.Errorf("march median = %v, want 2", medians[0].Value)
	}
}

func TestInterpolateTimeWeightedAcrossUnequalMonths(t *testing.T) {
	// Jan 31 -> Mar 31 spans 59 days; Feb 28 sits 28 days in. The fill
	// must be the elapsed-time interpolation, not the midpoint.
	pts := []MonthlyPoint{
		{Month: day(2019, time.January, 31), Value: 1},
		{Month: day(2019, time.March, 31), Value: 2},
	}
	out := interpolateMonthly(pts)
	if len(out) != 3 {
		t.Fatalf("got %d points, want 3", len(out))
	}
	if !out[1].Month.Equal(day(2019, time.February, 28)) {
		t.Errorf("gap month = %v, want 2019-02-28", out[1].Month)
	}
	want := 1 + 28.0/59.0
	if math.Abs(out[1].Value-want) > 1e-12 {
		t.Errorf("gap value = %v, want %v (time-weighted)", out[1].Value, want)
	}
	if out[1].Value == 1.5 {
		t.Error("gap value is the midpoint; interpolation must weight by elapsed days")
	}
}

func TestInterpolateNoGapsNoChange(t *testing.T) {
	pts := []MonthlyPoint{
		{Month: day(2019, time.June, 30), Value: 1},
		{Month: day(2019, time.July, 31), Value: 2},
		{Month: day(2019, time.August, 31), Value: 3},
	}
	out := interpolateMonthly(pts)
	if len(out) != 3 {
		t.Fatalf("got %d points, want 3", len(out))
	}
	for i := range pts {
		if out[i] != pts[i] {
			t.Errorf("point %d changed: %v -> %v", i, pts[i], out[i])
		}
	}
}

func TestInterpolateDegenerate(t *testing.T) {
	if out := interpolateMonthly(nil); len(out) != 0 {
		t.Errorf("empty input produced %d points", len(out))
	}
	one := []MonthlyPoint{{Month: day(2019, time.June, 30), Value: 1}}
	out := interpolateMonthly(one)
	if len(out) != 1 || out[0] != one[0] {
		t.Errorf("single point altered: %v", out)
	}
}

func TestInterpolateLongGap(t *testing.T) {
	pts := []MonthlyPoint{
		{Month: day(2018, time.October, 31), Value: 0},
		{Month: day(2019, time.February, 28), Value: 4},
	}
	out := interpolateMonthly(pts)
	if len(out) != 5 {
		t.Fatalf("got %d points, want 5 (Oct..Feb)", len(out))
	}
	// Values must rise monotonically along the straight fill.
	for i := 1; i < len(out); i++ {
		if out[i].Value <= out[i-1].Value {
			t.Errorf("fill not increasing at %d: %v <= %v", i, out[i].Value, out[i-1].Value)
		}
	}
}
