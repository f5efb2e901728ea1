package plots

import (
	"errors"
	"io"
	"log/slog"
	"math"
	"os"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/profile"
)

func TestKDEIntegratesToOne(t *testing.T) {
	v := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	kde := KDE(v)
	if kde == nil {
		t.Fatal("nil kde")
	}
	// trapezoid over a wide range
	sum, step := 0.0, 0.01
	for x := -10.0; x <= 16; x += step {
		sum += kde(x) * step
	}
	if math.Abs(sum-1) > 1e-3 {
		t.Errorf("integral = %v, want ~1", sum)
	}
	if KDE([]float64{2, 2, 2}) != nil {
		t.Error("constant values should give nil kde")
	}
}

func TestGridLowerTriangle(t *testing.T) {
	m := profile.Matrix{
		Names:  []string{"a", "b", "c"},
		Values: [][]float64{{1, 0.5, 0.2}, {0.5, 1, 0.3}, {0.2, 0.3, 1}},
	}
	g := grid{m: m, lower: true}
	// r=0 is the bottom row, i.e. matrix row "c"
	if got := g.Z(0, 0); got != 0.2 {
		t.Errorf("Z(0,0) = %v, want 0.2", got)
	}
	if got := g.Z(2, 0); !math.IsNaN(got) {
		t.Errorf("diagonal should be masked, got %v", got)
	}
	if got := g.Z(0, 2); !math.IsNaN(got) {
		t.Errorf("top row (a) should be fully masked, got %v", got)
	}
}

func TestSaverWritesPNGs(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("Area", []float64{10, 20, 20, 30, math.NaN(), 50}),
		frame.NewNumeric("Empty", []float64{math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN(), math.NaN()}),
		frame.NewNumeric("Price", []float64{1, 3, 2, 5, 4, 8}),
		frame.NewCategorical("Zone", []string{"A", "B", "A", "C", "A", "B"}, nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	s, err := NewSaver(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	hist, err := s.Histograms(f, []string{"Area", "Empty"}, log)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 {
		t.Errorf("histograms = %v, want only Area", hist)
	}
	counts, err := s.CountPlots(f, []string{"Zone"})
	if err != nil {
		t.Fatal(err)
	}
	corr, err := profile.Correlation(f, []string{"Area", "Price"})
	if err != nil {
		t.Fatal(err)
	}
	heat, err := s.CorrelationHeatmap(corr)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range append(append(hist, counts...), heat) {
		if st, err := os.Stat(p); err != nil || st.Size() == 0 {
			t.Errorf("%s not written: %v", p, err)
		}
	}
}

func TestEmptyInputs(t *testing.T) {
	if _, err := Histogram([]float64{math.NaN()}, "x", 10); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v", err)
	}
	if _, err := CountPlot(nil, nil, "x"); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v", err)
	}
	if _, err := Heatmap(profile.Matrix{}, "x", CorrelationPalette(), -1, 1, true); !errors.Is(err, ErrNoData) {
		t.Errorf("err = %v", err)
	}
}
