package trend

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// TheilSenResult holds a robust linear fit: the median of pairwise slopes
// with a nonparametric confidence interval on the slope.
type TheilSenResult struct {
	Slope     float64
	Intercept float64
	Low       float64 // lower confidence bound on Slope
	High      float64 // upper confidence bound on Slope
}

// TheilSen fits y against x using the Theil-Sen estimator. The slope is the
// median of all pairwise slopes; the confidence bounds are rank positions in
// the sorted slope list chosen from the Kendall S variance (Sen 1968), with
// tie corrections on both variables. confidence is the two-sided level,
// e.g. 0.95; values outside (0,1) fall back to 0.95.
func TheilSen(x, y []float64, confidence float64) (TheilSenResult, error) {
	n := len(x)
	if n != len(y) {
		return TheilSenResult{}, errors.New("theil-sen: x and y length mismatch")
	}
	if n < 2 {
		return TheilSenResult{}, errors.New("theil-sen: need at least 2 points")
	}

	slopes := make([]float64, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			dx := x[j] - x[i]
			if dx != 0 {
				slopes = append(slopes, (y[j]-y[i])/dx)
			}
		}
	}
	if len(slopes) == 0 {
		return TheilSenResult{}, errors.New("theil-sen: all x values identical")
	}
	sort.Float64s(slopes)
	slope := median(slopes)
	intercept := median(y) - slope*median(x)

	if confidence <= 0 || confidence >= 1 {
		confidence = 0.95
	}
	alpha := 1 - confidence
	z := distuv.UnitNormal.Quantile(alpha / 2) // negative

	nf := float64(n)
	sigsq := nf * (nf - 1) * (2*nf + 5)
	for _, k := range tieCounts(x) {
		kf := float64(k)
		sigsq -= kf * (kf - 1) * (2*kf + 5)
	}
	for _, k := range tieCounts(y) {
		kf := float64(k)
		sigsq -= kf * (kf - 1) * (2*kf + 5)
	}
	sigsq /= 18
	sigma := math.Sqrt(sigsq)

	nt := float64(len(slopes))
	ru := int(math.Round((nt - z*sigma) / 2))
	rl := int(math.Round((nt+z*sigma)/2)) - 1
	if ru > len(slopes)-1 {
		ru = len(slopes) - 1
	}
	if rl < 0 {
		rl = 0
	}

	return TheilSenResult{
		Slope:     slope,
		Intercept: intercept,
		Low:       slopes[rl],
		High:      slopes[ru],
	}, nil
}

// KendallResult holds Kendall's rank correlation between two sequences with
// its two-sided significance.
type KendallResult struct {
	Tau    float64
	S      float64 // concordant minus discordant pairs
	PValue float64
}

// KendallTau computes the tau-b rank correlation between x and y with a
// two-sided p-value from the tie-corrected normal approximation of the S
// statistic. No continuity correction is applied.
func KendallTau(x, y []float64) KendallResult {
	n := len(x)
	if n != len(y) || n < 2 {
		return KendallResult{Tau: math.NaN(), PValue: math.NaN()}
	}

	var s float64
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			s += sign(x[j]-x[i]) * sign(y[j]-y[i])
		}
	}

	xt := tieCounts(x)
	yt := tieCounts(y)
	nf := float64(n)
	n0 := nf * (nf - 1) / 2

	var n1, n2 float64
	var xt1, xt2, xt3 float64 // Σt(t-1)/2, Σt(t-1)(2t+5), Σt(t-1)(t-2)
	var yt1, yt2, yt3 float64
	for _, t := range xt {
		tf := float64(t)
		n1 += tf * (tf - 1) / 2
		xt1 += tf * (tf - 1)
		xt2 += tf * (tf - 1) * (2*tf + 5)
		xt3 += tf * (tf - 1) * (tf - 2)
	}
	for _, t := range yt {
		tf := float64(t)
		n2 += tf * (tf - 1) / 2
		yt1 += tf * (tf - 1)
		yt2 += tf * (tf - 1) * (2*tf + 5)
		yt3 += tf * (tf - 1) * (tf - 2)
	}

	denom := math.Sqrt((n0 - n1) * (n0 - n2))
	if denom == 0 {
		return KendallResult{Tau: math.NaN(), S: s, PValue: math.NaN()}
	}
	tau := s / denom

	v := (nf*(nf-1)*(2*nf+5) - xt2 - yt2) / 18
	if n > 2 {
		v += xt3 * yt3 / (9 * nf * (nf - 1) * (nf - 2))
	}
	v += xt1 * yt1 / (2 * nf * (nf - 1))
	if v <= 0 {
		return KendallResult{Tau: tau, S: s, PValue: math.NaN()}
	}

	z := s / math.Sqrt(v)
	p := 2 * distuv.UnitNormal.Survival(math.Abs(z))
	if p > 1 {
		p = 1
	}
	return KendallResult{Tau: tau, S: s, PValue: p}
}

// tieCounts returns the multiplicity of each repeated value, in value order
// so downstream float accumulation is deterministic. Groups of size 1 are
// omitted since they contribute nothing to tie corrections.
func tieCounts(vals []float64) []int {
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	var out []int
	for i := 0; i < len(cp); {
		j := i
		for j+1 < len(cp) && cp[j+1] == cp[i] {
			j++
		}
		if j > i {
			out = append(out, j-i+1)
		}
		i = j + 1
	}
	return out
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
