package stats

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

var (
	ErrEmptyTable     = errors.New("stats: empty contingency table")
	ErrZeroExpected   = errors.New("stats: contingency table has a zero expected frequency")
	ErrDegenerateV    = errors.New("stats: cramér's v undefined for this table")
	ErrLengthMismatch = errors.New("stats: input length mismatch")
)

// Table is a contingency table of observed counts.
type Table struct {
	Rows, Cols []string
	Counts     [][]float64
	N          float64
}

// Crosstab counts co-occurrences of x and y. Pairs where either side is
// missing are skipped. Row and column labels are sorted.
func Crosstab(x, y []string, xNull, yNull []bool) (*Table, error) {
	if len(x) != len(y) {
		return nil, ErrLengthMismatch
	}
	type key struct{ a, b string }
	cells := make(map[key]float64)
	rs, cs := map[string]bool{}, map[string]bool{}
	n := 0.0
	for i := range x {
		if (xNull != nil && xNull[i]) || (yNull != nil && yNull[i]) {
			continue
		}
		cells[key{x[i], y[i]}]++
		rs[x[i]], cs[y[i]] = true, true
		n++
	}
	if n == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{Rows: sortedKeys(rs), Cols: sortedKeys(cs), N: n}
	t.Counts = make([][]float64, len(t.Rows))
	for i, r := range t.Rows {
		t.Counts[i] = make([]float64, len(t.Cols))
		for j, c := range t.Cols {
			t.Counts[i][j] = cells[key{r, c}]
		}
	}
	return t, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ChiSquareResult holds Pearson's chi-square test of independence.
type ChiSquareResult struct {
	Chi2     float64
	PValue   float64
	DOF      int
	Expected [][]float64
}

// ChiSquareTest runs the chi-square test of independence on t. With one
// degree of freedom the Yates continuity correction is applied.
func ChiSquareTest(t *Table) (ChiSquareResult, error) {
	r, k := len(t.Rows), len(t.Cols)
	if r == 0 || k == 0 || t.N == 0 {
		return ChiSquareResult{}, ErrEmptyTable
	}
	rowSum := make([]float64, r)
	colSum := make([]float64, k)
	for i := range t.Counts {
		for j, v := range t.Counts[i] {
			rowSum[i] += v
			colSum[j] += v
		}
	}
	res := ChiSquareResult{DOF: (r - 1) * (k - 1), Expected: make([][]float64, r)}
	for i := range res.Expected {
		res.Expected[i] = make([]float64, k)
		for j := range res.Expected[i] {
			e := rowSum[i] * colSum[j] / t.N
			if e == 0 {
				return ChiSquareResult{}, ErrZeroExpected
			}
			res.Expected[i][j] = e
		}
	}
	if res.DOF == 0 {
		res.PValue = 1
		return res, nil
	}
	for i := range t.Counts {
		for j, o := range t.Counts[i] {
			e := res.Expected[i][j]
			if res.DOF == 1 {
				d := e - o
				o += math.Copysign(math.Min(0.5, math.Abs(d)), d)
			}
			res.Chi2 += (o - e) * (o - e) / e
		}
	}
	res.PValue = distuv.ChiSquared{K: float64(res.DOF)}.Survival(res.Chi2)
	return res, nil
}

// CramersV returns the bias-corrected Cramér's V between two categorical
// variables.
func CramersV(x, y []string, xNull, yNull []bool) (float64, error) {
	t, err := Crosstab(x, y, xNull, yNull)
	if err != nil {
		return math.NaN(), err
	}
	chi, err := ChiSquareTest(t)
	if err != nil {
		return math.NaN(), err
	}
	n := t.N
	if n <= 1 {
		return math.NaN(), fmt.Errorf("%w: %v observations", ErrDegenerateV, n)
	}
	r, k := float64(len(t.Rows)), float64(len(t.Cols))
	phi2 := chi.Chi2 / n
	phi2corr := math.Max(0, phi2-(k-1)*(r-1)/(n-1))
	rcorr := r - (r-1)*(r-1)/(n-1)
	kcorr := k - (k-1)*(k-1)/(n-1)
	den := math.Min(kcorr-1, rcorr-1)
	if den <= 0 {
		return math.NaN(), fmt.Errorf("%w: %dx%d table", ErrDegenerateV, len(t.Rows), len(t.Cols))
	}
	return math.Sqrt(phi2corr / den), nil
}
