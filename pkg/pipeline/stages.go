package pipeline

import (
	"log/slog"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/config"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/dataprep"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

// Stage names used by the plan.
const (
	StageDrop            = "drop"
	StageFill            = "fill"
	StageOutliers        = "outliers"
	StageDropLowVariance = "drop_low_variance"
	StageOrdinal         = "ordinal"
	StageOneHot          = "onehot"
	StageFrequency       = "frequency"
	StageLabel           = "label"
)

// Func adapts a function to a Stage.
type Func struct {
	StageName string
	Fn        func(f *frame.Frame) error
}

func (s Func) Name() string               { return s.StageName }
func (s Func) Apply(f *frame.Frame) error { return s.Fn(f) }

// Drop removes columns. Columns already absent are logged, not fatal.
type Drop struct {
	StageName string
	Columns   []string
	Log       *slog.Logger
}

func (s Drop) Name() string { return s.StageName }

func (s Drop) Apply(f *frame.Frame) error {
	missing, err := dataprep.DropColumns(f, s.Columns)
	if len(missing) > 0 && s.Log != nil {
		s.Log.Warn("columns to drop not found", "stage", s.StageName, "columns", missing)
	}
	return err
}

// Fill applies fill rules in order.
type Fill struct {
	Rules []dataprep.FillRule
	Log   *slog.Logger
}

func (Fill) Name() string { return StageFill }

func (s Fill) Apply(f *frame.Frame) error {
	for _, r := range s.Rules {
		n, err := dataprep.ApplyFill(f, r)
		if err != nil {
			return err
		}
		if s.Log != nil {
			s.Log.Debug("filled missing values", "strategy", r.Strategy, "columns", r.Columns, "filled", n)
		}
	}
	return nil
}

// Outliers removes IQR outlier rows, column by column.
type Outliers struct {
	Columns    []string
	Multiplier float64
}

func (Outliers) Name() string { return StageOutliers }

func (s Outliers) Apply(f *frame.Frame) error {
	_, err := dataprep.RemoveOutliersIQR(f, s.Columns, s.Multiplier)
	return err
}

// Ordinal encodes columns by their position in a fixed category list.
type Ordinal struct{ Maps []config.OrdinalMap }

func (Ordinal) Name() string { return StageOrdinal }

func (s Ordinal) Apply(f *frame.Frame) error {
	for _, m := range s.Maps {
		if err := dataprep.OrdinalEncodeColumn(f, m.Column, m.Categories); err != nil {
			return err
		}
	}
	return nil
}

// OneHot replaces columns by indicator columns.
type OneHot struct {
	Columns   []string
	DropFirst bool
}

func (OneHot) Name() string { return StageOneHot }

func (s OneHot) Apply(f *frame.Frame) error {
	_, err := dataprep.OneHotColumns(f, s.Columns, s.DropFirst)
	return err
}

// Frequency replaces columns by their relative value frequency.
type Frequency struct{ Columns []string }

func (Frequency) Name() string { return StageFrequency }

func (s Frequency) Apply(f *frame.Frame) error {
	for _, c := range s.Columns {
		if _, err := dataprep.FrequencyEncodeColumn(f, c); err != nil {
			return err
		}
	}
	return nil
}

// Label replaces columns by the index of their value among the sorted
// distinct values.
type Label struct{ Columns []string }

func (Label) Name() string { return StageLabel }

func (s Label) Apply(f *frame.Frame) error {
	for _, c := range s.Columns {
		if _, err := dataprep.LabelEncodeColumn(f, c); err != nil {
			return err
		}
	}
	return nil
}

// FromPlan builds the preprocessing stages of plan. numeric lists the
// numeric columns of the freshly loaded frame; it is used for outlier
// filtering when the plan names no columns.
func FromPlan(plan *config.Plan, numeric []string, log *slog.Logger) []Stage {
	var stages []Stage
	if len(plan.Drop) > 0 {
		stages = append(stages, Drop{StageName: StageDrop, Columns: plan.Drop, Log: log})
	}
	if len(plan.Fill) > 0 {
		stages = append(stages, Fill{Rules: plan.Fill, Log: log})
	}
	if plan.Outliers.Enabled {
		cols := plan.Outliers.Columns
		if len(cols) == 0 {
			cols = numeric
		}
		stages = append(stages, Outliers{Columns: cols, Multiplier: plan.Outliers.Multiplier})
	}
	if len(plan.DropLowVariance) > 0 {
		stages = append(stages, Drop{StageName: StageDropLowVariance, Columns: plan.DropLowVariance, Log: log})
	}
	if len(plan.Ordinal) > 0 {
		stages = append(stages, Ordinal{Maps: plan.Ordinal})
	}
	if len(plan.OneHot.Columns) > 0 {
		stages = append(stages, OneHot{Columns: plan.OneHot.Columns, DropFirst: plan.OneHot.DropFirst})
	}
	if len(plan.Frequency) > 0 {
		stages = append(stages, Frequency{Columns: plan.Frequency})
	}
	if len(plan.Label) > 0 {
		stages = append(stages, Label{Columns: plan.Label})
	}
	return stages
}
