package stats

import (
	"errors"
	"math"
	"testing"
)

func near(a, b, tol float64) bool { return math.Abs(a-b) <= tol }

func TestPercentileLinear(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	cases := []struct {
		p, want float64
	}{
		{0, 1}, {25, 3.25}, {50, 5.5}, {75, 7.75}, {100, 10},
	}
	for _, c := range cases {
		if got := Percentile(x, c.p); !near(got, c.want, 1e-12) {
			t.Errorf("Percentile(%v) = %v, want %v", c.p, got, c.want)
		}
	}
	if !math.IsNaN(Percentile(nil, 50)) {
		t.Error("Percentile of empty slice should be NaN")
	}
}

func TestModeTiesPickSmallest(t *testing.T) {
	if got := Mode([]float64{3, 1, 3, 1, 2}); got != 1 {
		t.Errorf("Mode = %v, want 1", got)
	}
	got, ok := ModeString([]string{"SBrkr", "FuseA", "FuseA", "SBrkr"})
	if !ok || got != "FuseA" {
		t.Errorf("ModeString = %q, want FuseA", got)
	}
	if _, ok := ModeString(nil); ok {
		t.Error("ModeString(nil) should report !ok")
	}
}

func TestSampleStd(t *testing.T) {
	x := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	if got := Std(x); !near(got, 2, 1e-12) {
		t.Errorf("Std = %v, want 2", got)
	}
	if got := SampleStd(x); !near(got, 2.138089935299395, 1e-12) {
		t.Errorf("SampleStd = %v", got)
	}
}

func TestCorrelationPairwiseComplete(t *testing.T) {
	x := []float64{1, 2, math.NaN(), 4, 5}
	y := []float64{2, 4, 100, 8, 10}
	if got := Correlation(x, y); !near(got, 1, 1e-12) {
		t.Errorf("Correlation = %v, want 1", got)
	}
	if got := Correlation([]float64{1, 1, 1}, []float64{1, 2, 3}); !math.IsNaN(got) {
		t.Errorf("Correlation with constant column = %v, want NaN", got)
	}
}

func TestIQRBounds(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 100, math.NaN()}
	b := IQRBounds(x, IQRMultiplier)
	if !near(b.Q1, 3.25, 1e-12) || !near(b.Q3, 7.75, 1e-12) {
		t.Fatalf("quartiles = %v, %v", b.Q1, b.Q3)
	}
	if !near(b.Lower, -3.5, 1e-12) || !near(b.Upper, 14.5, 1e-12) {
		t.Errorf("bounds = [%v, %v]", b.Lower, b.Upper)
	}
	if got := CountOutliers(x, b); got != 1 {
		t.Errorf("CountOutliers = %d, want 1", got)
	}
	if b.Contains(math.NaN()) {
		t.Error("NaN must not be contained")
	}
}

func TestChiSquareYates(t *testing.T) {
	// 2x2 table [[10, 20], [30, 40]]
	var x, y []string
	add := func(a, b string, n int) {
		for i := 0; i < n; i++ {
			x = append(x, a)
			y = append(y, b)
		}
	}
	add("a", "c", 10)
	add("a", "d", 20)
	add("b", "c", 30)
	add("b", "d", 40)
	tbl, err := Crosstab(x, y, nil, nil)
	if err != nil {
		t.Fatalf("Crosstab: %v", err)
	}
	res, err := ChiSquareTest(tbl)
	if err != nil {
		t.Fatalf("ChiSquareTest: %v", err)
	}
	// scipy.stats.chi2_contingency([[10,20],[30,40]]) -> 0.44642857, p 0.50397
	if !near(res.Chi2, 0.4464285714285714, 1e-9) {
		t.Errorf("chi2 = %v", res.Chi2)
	}
	if !near(res.PValue, 0.5040, 1e-3) {
		t.Errorf("p = %v", res.PValue)
	}
	if res.DOF != 1 {
		t.Errorf("dof = %d", res.DOF)
	}
}

func TestCramersV(t *testing.T) {
	x := []string{"a", "a", "b", "b", "c", "c", "a", "b", "c", "a"}
	v, err := CramersV(x, x, nil, nil)
	if err != nil {
		t.Fatalf("CramersV: %v", err)
	}
	if v < 0.9 || v > 1.0+1e-12 {
		t.Errorf("self association = %v, want close to 1", v)
	}

	one := []string{"x", "x", "x"}
	v, err = CramersV(one, one, nil, nil)
	if !errors.Is(err, ErrDegenerateV) || !math.IsNaN(v) {
		t.Errorf("single category = %v, %v; want NaN, ErrDegenerateV", v, err)
	}

	null := []bool{true, true, true}
	if _, err := CramersV(one, one, null, nil); !errors.Is(err, ErrEmptyTable) {
		t.Errorf("all-null err = %v, want ErrEmptyTable", err)
	}
}
