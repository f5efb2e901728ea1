// Package profile computes the exploratory summaries of a frame: column
// statistics, missingness, duplicates, correlation and association
// matrices, outlier counts and category cardinality.
package profile

import (
	"math"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/stats"
)

// NumericSummary is one column of a numeric describe table.
type NumericSummary struct {
	Name                     string
	Count                    int
	Mean, Std                float64
	Min, Q1, Median, Q3, Max float64
}

// CategoricalSummary is one column of a categorical describe table.
type CategoricalSummary struct {
	Name   string
	Count  int
	Unique int
	Top    string
	Freq   int
}

// Describe summarises every numeric column over its present values. Std
// uses the sample (n-1) denominator.
func Describe(f *frame.Frame) []NumericSummary {
	var out []NumericSummary
	for _, c := range f.Columns() {
		if c.Kind != frame.Numeric {
			continue
		}
		v := c.Present()
		s := NumericSummary{Name: c.Name, Count: len(v)}
		s.Mean = stats.Mean(v)
		s.Std = stats.SampleStd(v)
		s.Min, s.Max = math.NaN(), math.NaN()
		if len(v) > 0 {
			s.Min, s.Max = stats.MinMax(v)
		}
		s.Q1 = stats.Percentile(v, 25)
		s.Median = stats.Percentile(v, 50)
		s.Q3 = stats.Percentile(v, 75)
		out = append(out, s)
	}
	return out
}

// DescribeCategorical summarises every categorical column. Top is the most
// frequent value; ties resolve to the smallest.
func DescribeCategorical(f *frame.Frame) []CategoricalSummary {
	var out []CategoricalSummary
	for _, c := range f.Columns() {
		if c.Kind != frame.Categorical {
			continue
		}
		v := c.PresentStrings()
		counts := make(map[string]int, 16)
		for _, s := range v {
			counts[s]++
		}
		top, _ := stats.ModeString(v)
		out = append(out, CategoricalSummary{
			Name:   c.Name,
			Count:  len(v),
			Unique: len(counts),
			Top:    top,
			Freq:   counts[top],
		})
	}
	return out
}

// MissingRow reports the missing values of one column.
type MissingRow struct {
	Name    string
	Count   int
	Percent float64
}

// Missing lists the columns with at least one missing value, most missing
// first. Equal counts keep column order.
func Missing(f *frame.Frame) []MissingRow {
	var out []MissingRow
	n := f.Len()
	for _, c := range f.Columns() {
		if k := c.NullCount(); k > 0 {
			out = append(out, MissingRow{Name: c.Name, Count: k, Percent: 100 * float64(k) / float64(n)})
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// Duplicates returns the number of rows identical to an earlier row.
func Duplicates(f *frame.Frame) int { return f.Duplicated() }

// Matrix is a square, labelled matrix of pairwise scores.
type Matrix struct {
	Names  []string
	Values [][]float64
}

// At returns the score of names[i] against names[j].
func (m Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Pair is one off-diagonal entry of a Matrix.
type Pair struct {
	A, B  string
	Value float64
}

// TopPairs returns at most n distinct pairs, strongest absolute score
// first. NaN entries are skipped; n <= 0 returns every pair.
func (m Matrix) TopPairs(n int) []Pair {
	var out []Pair
	for i := range m.Names {
		for j := i + 1; j < len(m.Names); j++ {
			v := m.Values[i][j]
			if math.IsNaN(v) {
				continue
			}
			out = append(out, Pair{A: m.Names[i], B: m.Names[j], Value: v})
		}
	}
	sort.SliceStable(out, func(a, b int) bool { return math.Abs(out[a].Value) > math.Abs(out[b].Value) })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out
}

// Correlation computes the Pearson correlation between every pair of the
// named numeric columns using pairwise complete observations.
func Correlation(f *frame.Frame, names []string) (Matrix, error) {
	cols := make([][]float64, len(names))
	for i, n := range names {
		c, err := f.Col(n)
		if err != nil {
			return Matrix{}, err
		}
		cols[i] = c.Floats
	}
	m := newMatrix(names)
	for i := range cols {
		for j := 0; j <= i; j++ {
			r := stats.Correlation(cols[i], cols[j])
			m.Values[i][j], m.Values[j][i] = r, r
		}
	}
	return m, nil
}

// PairError records a pair whose association could not be computed.
type PairError struct {
	A, B string
	Err  error
}

// Association computes bias-corrected Cramér's V between every pair of the
// named categorical columns. A pair that fails yields NaN and is reported
// in the returned errors. Rows and columns are reordered by descending
// mean association, NaN skipped.
func Association(f *frame.Frame, names []string) (Matrix, []PairError, error) {
	cols := make([]*frame.Column, len(names))
	for i, n := range names {
		c, err := f.Col(n)
		if err != nil {
			return Matrix{}, nil, err
		}
		cols[i] = c
	}
	m := newMatrix(names)
	pairErrs := make([][]PairError, len(cols))

	// one goroutine per row of the matrix
	var wg sync.WaitGroup
	for i := range cols {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			a := cols[i]
			for j, b := range cols {
				v, err := stats.CramersV(a.Strings, b.Strings, nullMask(a), nullMask(b))
				if err != nil {
					pairErrs[i] = append(pairErrs[i], PairError{A: a.Name, B: b.Name, Err: err})
					v = math.NaN()
				}
				m.Values[i][j] = v
			}
		}(i)
	}
	wg.Wait()

	var errs []PairError
	for _, pe := range pairErrs {
		errs = append(errs, pe...)
	}
	return orderByMean(m), errs, nil
}

func nullMask(c *frame.Column) []bool {
	out := make([]bool, c.Len())
	for i := range out {
		out[i] = c.IsNull(i)
	}
	return out
}

// orderByMean permutes rows and columns so that the column with the
// highest NaN-skipping mean comes first. Columns that are entirely NaN go
// last.
func orderByMean(m Matrix) Matrix {
	k := len(m.Names)
	means := make([]float64, k)
	for j := 0; j < k; j++ {
		col := make([]float64, k)
		for i := 0; i < k; i++ {
			col[i] = m.Values[i][j]
		}
		means[j] = stats.Mean(stats.DropNaN(col))
	}
	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ma, mb := means[order[a]], means[order[b]]
		if math.IsNaN(mb) {
			return !math.IsNaN(ma)
		}
		return ma > mb
	})
	out := newMatrix(nil)
	for _, o := range order {
		out.Names = append(out.Names, m.Names[o])
	}
	out.Values = make([][]float64, k)
	for i, oi := range order {
		out.Values[i] = make([]float64, k)
		for j, oj := range order {
			out.Values[i][j] = m.Values[oi][oj]
		}
	}
	return out
}

func newMatrix(names []string) Matrix {
	m := Matrix{Names: append([]string(nil), names...), Values: make([][]float64, len(names))}
	for i := range m.Values {
		m.Values[i] = make([]float64, len(names))
	}
	return m
}

// OutlierRow reports the IQR outliers of one numeric column.
type OutlierRow struct {
	Name    string
	Count   int
	Percent float64 // rounded to two decimals
	Bounds  stats.Bounds
}

// Outliers counts, per named numeric column, the values outside
// [Q1 - k·IQR, Q3 + k·IQR]. Only columns with outliers are listed, highest
// percentage first.
func Outliers(f *frame.Frame, names []string, k float64) ([]OutlierRow, error) {
	var out []OutlierRow
	n := f.Len()
	for _, name := range names {
		c, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		if c.Kind != frame.Numeric {
			continue
		}
		b := stats.IQRBounds(c.Floats, k)
		cnt := stats.CountOutliers(c.Floats, b)
		if cnt == 0 {
			continue
		}
		pct := decimal.NewFromInt(int64(100*cnt)).
			DivRound(decimal.NewFromInt(int64(n)), 2).
			InexactFloat64()
		out = append(out, OutlierRow{Name: name, Count: cnt, Percent: pct, Bounds: b})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Percent > out[j].Percent })
	return out, nil
}

// CardinalityRow is the number of distinct present values of a column.
type CardinalityRow struct {
	Name   string
	Unique int
}

// Cardinality counts distinct non-missing values per categorical column.
func Cardinality(f *frame.Frame) []CardinalityRow {
	var out []CardinalityRow
	for _, c := range f.Columns() {
		if c.Kind != frame.Categorical {
			continue
		}
		seen := make(map[string]struct{})
		for _, s := range c.PresentStrings() {
			seen[s] = struct{}{}
		}
		out = append(out, CardinalityRow{Name: c.Name, Unique: len(seen)})
	}
	return out
}

// ValueCounts returns the distinct present values of a categorical column
// and their counts, most frequent first. Ties keep the smaller value first.
func ValueCounts(c *frame.Column) ([]string, []int) {
	counts := make(map[string]int)
	for _, s := range c.PresentStrings() {
		counts[s]++
	}
	labels := make([]string, 0, len(counts))
	for s := range counts {
		labels = append(labels, s)
	}
	sort.Slice(labels, func(i, j int) bool {
		if counts[labels[i]] != counts[labels[j]] {
			return counts[labels[i]] > counts[labels[j]]
		}
		return labels[i] < labels[j]
	})
	freq := make([]int, len(labels))
	for i, s := range labels {
		freq[i] = counts[s]
	}
	return labels, freq
}
