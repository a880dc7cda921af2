// Package corr computes pairwise Spearman rank correlations among
// water-quality variables within one station table.
package corr

import (
	"encoding/csv"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/yangshao2/deq-stats/internal/table"
)

// Matrix is a symmetric Spearman correlation matrix. Entries with fewer than
// two pairwise-complete observations are NaN.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// Spearman computes the correlation matrix over the listed columns,
// restricted to those present in the table. Each pair is correlated on its
// pairwise-complete observations: rows where both cells parse as numbers.
// The second return value lists requested columns absent from the table.
func Spearman(tbl *table.Table, columns []string) (*Matrix, []string) {
	var present []string
	var missing []string
	idx := map[string]int{}
	for _, c := range columns {
		if i := tbl.ColumnIndex(c); i >= 0 {
			idx[c] = i
			present = append(present, c)
		} else {
			missing = append(missing, c)
		}
	}

	// Parse each selected column once; NaN marks missing cells.
	vals := make([][]float64, len(present))
	for ci, c := range present {
		col := make([]float64, len(tbl.Rows))
		for ri := range tbl.Rows {
			v, err := strconv.ParseFloat(strings.TrimSpace(tbl.Cell(ri, idx[c])), 64)
			if err != nil {
				v = math.NaN()
			}
			col[ri] = v
		}
		vals[ci] = col
	}

	n := len(present)
	m := &Matrix{Columns: present, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
		m.Values[i][i] = 1
	}
	for a := 0; a < n; a++ {
		for b := a + 1; b < n; b++ {
			r := spearmanPair(vals[a], vals[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m, missing
}

// spearmanPair ranks the pairwise-complete observations of two columns and
// returns the Pearson correlation of the ranks.
func spearmanPair(x, y []float64) float64 {
	var xs, ys []float64
	for i := range x {
		if !math.IsNaN(x[i]) && !math.IsNaN(y[i]) {
			xs = append(xs, x[i])
			ys = append(ys, y[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	return stat.Correlation(ranks(xs), ranks(ys), nil)
}

// ranks assigns 1-based ranks with ties sharing their average rank.
func ranks(vals []float64) []float64 {
	n := len(vals)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return vals[order[i]] < vals[order[j]] })

	out := make([]float64, n)
	for i := 0; i < n; {
		j := i
		for j+1 < n && vals[order[j+1]] == vals[order[i]] {
			j++
		}
		avg := float64(i+j)/2 + 1
		for k := i; k <= j; k++ {
			out[order[k]] = avg
		}
		i = j + 1
	}
	return out
}

// WriteCSV writes the matrix with variable names as both header and row
// labels. NaN entries are written empty.
func (m *Matrix) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := append([]string{""}, m.Columns...)
	if err := w.Write(header); err != nil {
		return err
	}
	for i, name := range m.Columns {
		rec := make([]string, len(m.Columns)+1)
		rec[0] = name
		for j, v := range m.Values[i] {
			if math.IsNaN(v) {
				continue
			}
			rec[j+1] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
