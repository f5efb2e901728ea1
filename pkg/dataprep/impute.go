package dataprep

import (
	"fmt"
	"math"
	"strconv"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/stats"
)

// Strategy names a fill rule for missing values.
type Strategy string

const (
	Constant    Strategy = "constant"
	Mean        Strategy = "mean"
	Median      Strategy = "median"
	Mode        Strategy = "mode"
	GroupMedian Strategy = "group_median"
)

// FillRule describes how to fill missing values of one or more columns.
// Value is used by Constant, Group by GroupMedian.
type FillRule struct {
	Columns  []string `yaml:"columns"`
	Strategy Strategy `yaml:"strategy"`
	Value    string   `yaml:"value,omitempty"`
	Group    string   `yaml:"group,omitempty"`
}

// ApplyFill fills the rule's columns in place and returns the number of
// values filled.
func ApplyFill(f *frame.Frame, rule FillRule) (int, error) {
	total := 0
	for _, name := range rule.Columns {
		col, err := f.Col(name)
		if err != nil {
			return total, err
		}
		var n int
		switch rule.Strategy {
		case Constant:
			n, err = ImputeConstant(col, rule.Value)
		case Mean:
			n, err = ImputeMean(col)
		case Median:
			n, err = ImputeMedian(col)
		case Mode:
			n, err = ImputeMode(col)
		case GroupMedian:
			var group *frame.Column
			if group, err = f.Col(rule.Group); err == nil {
				n, err = ImputeGroupMedian(col, group)
			}
		default:
			err = fmt.Errorf("dataprep: unknown fill strategy %q", rule.Strategy)
		}
		if err != nil {
			return total, fmt.Errorf("fill %q: %w", name, err)
		}
		total += n
	}
	return total, nil
}

// ImputeConstant replaces missing values with a fixed constant. For a
// numeric column the constant must parse as a float.
func ImputeConstant(col *frame.Column, constant string) (int, error) {
	if col.Kind == frame.Numeric {
		v, err := strconv.ParseFloat(constant, 64)
		if err != nil {
			return 0, fmt.Errorf("dataprep: constant %q for numeric column: %w", constant, err)
		}
		return fillNumeric(col, v), nil
	}
	n := 0
	for i := range col.Strings {
		if col.IsNull(i) {
			col.SetString(i, constant)
			n++
		}
	}
	return n, nil
}

// ImputeMean replaces missing numeric values with the column mean.
func ImputeMean(col *frame.Column) (int, error) {
	if col.Kind != frame.Numeric {
		return 0, fmt.Errorf("dataprep: mean of categorical column %q", col.Name)
	}
	return fillNumeric(col, stats.Mean(col.Present())), nil
}

// ImputeMedian replaces missing numeric values with the column median.
func ImputeMedian(col *frame.Column) (int, error) {
	if col.Kind != frame.Numeric {
		return 0, fmt.Errorf("dataprep: median of categorical column %q", col.Name)
	}
	return fillNumeric(col, stats.Median(col.Present())), nil
}

// ImputeMode replaces missing values with the most frequent value.
func ImputeMode(col *frame.Column) (int, error) {
	if col.Kind == frame.Numeric {
		return fillNumeric(col, stats.Mode(col.Present())), nil
	}
	mode, ok := stats.ModeString(col.PresentStrings())
	if !ok {
		return 0, fmt.Errorf("dataprep: column %q has no values", col.Name)
	}
	return ImputeConstant(col, mode)
}

// ImputeGroupMedian fills missing values of col with the median of the
// rows sharing the same group value. Groups without any present value and
// rows with a missing group stay missing.
func ImputeGroupMedian(col, group *frame.Column) (int, error) {
	if col.Kind != frame.Numeric {
		return 0, fmt.Errorf("dataprep: group median of categorical column %q", col.Name)
	}
	members := make(map[string][]float64)
	for i, v := range col.Floats {
		if group.IsNull(i) || math.IsNaN(v) {
			continue
		}
		k := group.Format(i)
		members[k] = append(members[k], v)
	}
	medians := make(map[string]float64, len(members))
	for k, vals := range members {
		medians[k] = stats.Median(vals)
	}
	n := 0
	for i, v := range col.Floats {
		if !math.IsNaN(v) || group.IsNull(i) {
			continue
		}
		if m, ok := medians[group.Format(i)]; ok {
			col.Floats[i] = m
			n++
		}
	}
	return n, nil
}

func fillNumeric(col *frame.Column, v float64) int {
	n := 0
	for i, x := range col.Floats {
		if math.IsNaN(x) {
			col.Floats[i] = v
			n++
		}
	}
	return n
}
