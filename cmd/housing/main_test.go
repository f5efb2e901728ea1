package main

import (
	"bytes"
	"io"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/report"
)

func TestTargetValues(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("SalePrice", []float64{100, 200}),
		frame.NewNumeric("Partial", []float64{100, math.NaN()}),
		frame.NewCategorical("Grade", []string{"A", "B"}, nil),
	)
	if err != nil {
		t.Fatal(err)
	}

	y, err := targetValues(f, "SalePrice")
	if err != nil || !reflect.DeepEqual(y, []float64{100, 200}) {
		t.Errorf("SalePrice = %v, %v", y, err)
	}
	for _, name := range []string{"Partial", "Grade", "Missing"} {
		if _, err := targetValues(f, name); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestExplorePrintsMatricesWithoutPlots(t *testing.T) {
	f, err := frame.New(
		frame.NewNumeric("Area", []float64{10, 20, 30, 40, 50, 60}),
		frame.NewNumeric("Price", []float64{1, 2, 3, 4, 5, 7}),
		frame.NewCategorical("Zone", []string{"A", "A", "B", "B", "A", "B"}, nil),
		frame.NewCategorical("Shape", []string{"x", "x", "y", "y", "x", "y"}, nil),
	)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	a := &app{
		log: slog.New(slog.NewTextHandler(io.Discard, nil)),
		rep: report.New(&buf, false),
	}
	if err := a.explore(f); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Strongest correlations", "Strongest associations", "Area", "Zone"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in report", want)
		}
	}
	i := strings.Index(out, "Strongest correlations")
	if !strings.Contains(out[i:], "Price") {
		t.Error("correlation pair Area/Price not printed")
	}
}
