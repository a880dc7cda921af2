package trend

import (
	"math"
	"testing"
)

func TestTheilSenExactOnNoiselessLine(t *testing.T) {
	// y = 3 + 0.01*x: every pairwise slope is identical, so the median
	// must recover it without estimator noise.
	x := []float64{10958, 10989, 11017, 11048, 11078, 11109}
	y := make([]float64, len(x))
	for i, xi := range x {
		y[i] = 3 + 0.01*xi
	}

	res, err := TheilSen(x, y, 0.95)
	if err != nil {
		t.Fatalf("TheilSen failed: %v", err)
	}
	if math.Abs(res.Slope-0.01) > 1e-12 {
		t.Errorf("slope = %v, want 0.01", res.Slope)
	}
	if math.Abs(res.Intercept-3) > 1e-9 {
		t.Errorf("intercept = %v, want 3", res.Intercept)
	}
	if math.Abs(res.Low-0.01) > 1e-12 || math.Abs(res.High-0.01) > 1e-12 {
		t.Errorf("CI = [%v, %v], want degenerate at 0.01", res.Low, res.High)
	}
}

func TestTheilSenBoundsOrdered(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}
	y := []float64{1.0, 1.4, 0.9, 1.8, 2.2, 1.7, 2.9, 2.4, 3.1, 3.6}

	res, err := TheilSen(x, y, 0.95)
	if err != nil {
		t.Fatalf("TheilSen failed: %v", err)
	}
	if !(res.Low <= res.Slope && res.Slope <= res.High) {
		t.Errorf("bounds not ordered: low=%v slope=%v high=%v", res.Low, res.Slope, res.High)
	}
	if res.Slope <= 0 {
		t.Errorf("slope = %v, want positive for rising data", res.Slope)
	}
}

func TestTheilSenRejectsDegenerateInput(t *testing.T) {
	if _, err := TheilSen([]float64{1}, []float64{2}, 0.95); err == nil {
		t.Error("expected error for a single point")
	}
	if _, err := TheilSen([]float64{5, 5, 5}, []float64{1, 2, 3}, 0.95); err == nil {
		t.Error("expected error for identical x values")
	}
	if _, err := TheilSen([]float64{1, 2}, []float64{1}, 0.95); err == nil {
		t.Error("expected error for length mismatch")
	}
}

func TestKendallTauPerfectlyIncreasing(t *testing.T) {
	x := []float64{0, 1, 2, 3}
	y := []float64{7.0, 7.2, 7.4, 7.6}

	res := KendallTau(x, y)
	if res.Tau != 1.0 {
		t.Errorf("tau = %v, want exactly 1", res.Tau)
	}
	// Normal approximation: S=6, var=8.667, z=2.038, p=0.0415.
	if !(res.PValue < 0.05) {
		t.Errorf("p = %v, want < 0.05", res.PValue)
	}
	if math.Abs(res.PValue-0.0415) > 0.001 {
		t.Errorf("p = %v, want ~0.0415", res.PValue)
	}
}

func TestKendallTauPerfectlyDecreasing(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4}
	y := []float64{10, 8, 6, 4, 2}

	res := KendallTau(x, y)
	if res.Tau != -1.0 {
		t.Errorf("tau = %v, want exactly -1", res.Tau)
	}
}

func TestKendallTauWithTies(t *testing.T) {
	x := []float64{0, 1, 2, 3, 4, 5}
	y := []float64{1, 2, 2, 3, 3, 4}

	res := KendallTau(x, y)
	if !(res.Tau > 0 && res.Tau < 1) {
		t.Errorf("tau = %v, want in (0, 1) with tied y values", res.Tau)
	}
	if math.IsNaN(res.PValue) {
		t.Error("p-value is NaN with ties present")
	}
}

func TestKendallTauConstantSeries(t *testing.T) {
	res := KendallTau([]float64{0, 1, 2}, []float64{5, 5, 5})
	if !math.IsNaN(res.Tau) {
		t.Errorf("tau = %v, want NaN for constant y", res.Tau)
	}
}
