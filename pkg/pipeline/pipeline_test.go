package pipeline

import (
	"bytes"
	"errors"
	"log/slog"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/config"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

const testPlan = `
target: Price
id: Id
drop: [Junk, Ghost]
fill:
  - columns: [Qual]
    strategy: constant
    value: None
  - columns: [Area]
    strategy: median
outliers:
  enabled: true
  multiplier: 1.5
ordinal:
  - {column: Qual, categories: [Po, Fa, TA, Gd, Ex]}
onehot:
  columns: [Zone]
  drop_first: true
`

func houses(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.New(
		frame.NewNumeric("Id", []float64{1, 2, 3, 4, 5, 6, 7, 8}),
		frame.NewNumeric("Price", []float64{100, 110, 120, 130, 140, 150, 160, 5000}),
		frame.NewCategorical("Zone", []string{"RL", "RL", "RM", "RL", "RM", "RL", "RL", "RM"}, nil),
		frame.NewCategorical("Qual", []string{"Gd", "TA", "Ex", "", "Gd", "TA", "Fa", "Gd"},
			[]bool{false, false, false, true, false, false, false, false}),
		frame.NewCategorical("Junk", []string{"x", "x", "x", "x", "x", "x", "x", "x"}, nil),
		frame.NewNumeric("Area", []float64{50, math.NaN(), 60, 70, 80, 90, 100, 110}),
	)
	if err != nil {
		t.Fatal(err)
	}
	return f
}

func TestFromPlanRunsInOrder(t *testing.T) {
	plan, err := config.ParsePlan([]byte(testPlan))
	if err != nil {
		t.Fatal(err)
	}
	f := houses(t)
	var logs bytes.Buffer
	log := slog.New(slog.NewTextHandler(&logs, nil))
	p := NewPipeline(log, FromPlan(plan, f.NumericNames(), log)...)

	wantStages := []string{StageDrop, StageFill, StageOutliers, StageOrdinal, StageOneHot}
	if !reflect.DeepEqual(p.Names(), wantStages) {
		t.Fatalf("stages = %v, want %v", p.Names(), wantStages)
	}

	var before, after int
	p.Before(StageOutliers, func(f *frame.Frame) error { before = f.Len(); return nil })
	p.After(StageOutliers, func(f *frame.Frame) error { after = f.Len(); return nil })

	if err := p.Run(f); err != nil {
		t.Fatal(err)
	}
	if before != 8 || after != 7 {
		t.Errorf("rows around outliers = %d -> %d, want 8 -> 7", before, after)
	}
	if want := []string{"Id", "Price", "Qual", "Area", "Zone_RM"}; !reflect.DeepEqual(f.Names(), want) {
		t.Errorf("columns = %v, want %v", f.Names(), want)
	}
	q, _ := f.Col("Qual")
	if want := []float64{3, 2, 4, -1, 3, 2, 1}; !reflect.DeepEqual(q.Floats, want) {
		t.Errorf("Qual = %v, want %v", q.Floats, want)
	}
	z, _ := f.Col("Zone_RM")
	if want := []float64{0, 0, 1, 0, 1, 0, 0}; !reflect.DeepEqual(z.Floats, want) {
		t.Errorf("Zone_RM = %v, want %v", z.Floats, want)
	}
	a, _ := f.Col("Area")
	if a.Floats[1] != 80 {
		t.Errorf("Area fill = %v, want median 80", a.Floats[1])
	}
	if _, _, err := f.Matrix("Id", "Price"); err != nil {
		t.Errorf("encoded frame not numeric: %v", err)
	}
	if !strings.Contains(logs.String(), "Ghost") {
		t.Error("missing drop column was not logged")
	}
}

func TestRunStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	p := NewPipeline(nil,
		Func{StageName: "fail", Fn: func(*frame.Frame) error { return boom }},
		Func{StageName: "next", Fn: func(*frame.Frame) error { ran = true; return nil }},
	)
	err := p.Run(houses(t))
	if !errors.Is(err, boom) || !strings.Contains(err.Error(), "stage fail") {
		t.Errorf("err = %v", err)
	}
	if ran {
		t.Error("stage after failure ran")
	}
}

func TestHookErrorAborts(t *testing.T) {
	boom := errors.New("hook")
	p := NewPipeline(nil, Func{StageName: "s", Fn: func(*frame.Frame) error { return nil }})
	p.After("s", func(*frame.Frame) error { return boom })
	if err := p.Run(houses(t)); !errors.Is(err, boom) {
		t.Errorf("err = %v", err)
	}
}
