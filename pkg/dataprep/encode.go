package dataprep

import (
	"fmt"
	"math"
	"sort"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
)

// EncodeCategorical one-hot encodes a slice of categories against a fixed
// category list. Values outside the list encode as all zeros.
func EncodeCategorical(data []string, categories []string) [][]float64 {
	index := make(map[string]int, len(categories))
	for i, c := range categories {
		index[c] = i
	}
	out := make([][]float64, len(data))
	for i, v := range data {
		vec := make([]float64, len(categories))
		if j, ok := index[v]; ok {
			vec[j] = 1
		}
		out[i] = vec
	}
	return out
}

// LabelEncode encodes categories as their position in the sorted set of
// distinct values.
func LabelEncode(data []string) ([]int, []string) {
	seen := map[string]bool{}
	var classes []string
	for _, v := range data {
		if !seen[v] {
			seen[v] = true
			classes = append(classes, v)
		}
	}
	sort.Strings(classes)
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		index[c] = i
	}
	out := make([]int, len(data))
	for i, v := range data {
		out[i] = index[v]
	}
	return out, classes
}

// FrequencyEncode encodes categories by their relative frequency.
func FrequencyEncode(data []string) ([]float64, map[string]float64) {
	freq := map[string]float64{}
	for _, v := range data {
		freq[v]++
	}
	for k := range freq {
		freq[k] /= float64(len(data))
	}
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = freq[v]
	}
	return out, freq
}

// OrdinalEncodeColumn replaces a categorical column with each value's
// position in categories. Unknown values become -1, missing values NaN.
func OrdinalEncodeColumn(f *frame.Frame, name string, categories []string) error {
	col, err := categorical(f, name)
	if err != nil {
		return err
	}
	pos := make(map[string]float64, len(categories))
	for i, c := range categories {
		pos[c] = float64(i)
	}
	out := make([]float64, col.Len())
	for i, v := range col.Strings {
		switch p, ok := pos[v]; {
		case col.IsNull(i):
			out[i] = math.NaN()
		case ok:
			out[i] = p
		default:
			out[i] = -1
		}
	}
	return f.Replace(name, frame.NewNumeric(name, out))
}

// OneHotColumns replaces each listed column by indicator columns named
// <column>_<category>, appended after the remaining columns in list order.
// Categories are sorted (numerically for numeric columns); with dropFirst
// the first category gets no indicator. Missing values encode as all
// zeros.
func OneHotColumns(f *frame.Frame, names []string, dropFirst bool) ([]string, error) {
	var added []*frame.Column
	for _, name := range names {
		col, err := f.Col(name)
		if err != nil {
			return nil, err
		}
		labels, present := categoryLabels(col)
		cats := distinctSorted(col, labels, present)
		if dropFirst && len(cats) > 0 {
			cats = cats[1:]
		}
		for i := range labels {
			if !present[i] {
				labels[i] = missingLabel
			}
		}
		enc := EncodeCategorical(labels, cats)
		for j, c := range cats {
			vals := make([]float64, col.Len())
			for i := range vals {
				vals[i] = enc[i][j]
			}
			added = append(added, frame.NewNumeric(name+"_"+c, vals))
		}
	}
	if err := f.Drop(names...); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(added))
	for _, c := range added {
		if err := f.Add(c); err != nil {
			return nil, err
		}
		out = append(out, c.Name)
	}
	return out, nil
}

const missingLabel = "\x00missing"

func categoryLabels(col *frame.Column) ([]string, []bool) {
	labels := make([]string, col.Len())
	present := make([]bool, col.Len())
	for i := range labels {
		if col.IsNull(i) {
			continue
		}
		present[i] = true
		if col.Kind == frame.Numeric {
			labels[i] = frame.FormatFloat(col.Floats[i])
		} else {
			labels[i] = col.Strings[i]
		}
	}
	return labels, present
}

func distinctSorted(col *frame.Column, labels []string, present []bool) []string {
	if col.Kind == frame.Numeric {
		seen := map[float64]bool{}
		var vals []float64
		for i, v := range col.Floats {
			if present[i] && !seen[v] {
				seen[v] = true
				vals = append(vals, v)
			}
		}
		sort.Float64s(vals)
		out := make([]string, len(vals))
		for i, v := range vals {
			out[i] = frame.FormatFloat(v)
		}
		return out
	}
	seen := map[string]bool{}
	var out []string
	for i, l := range labels {
		if present[i] && !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	sort.Strings(out)
	return out
}

// FrequencyEncodeColumn adds <column>_freq holding the relative frequency
// of each row's category among present values, then drops the source
// column.
func FrequencyEncodeColumn(f *frame.Frame, name string) (string, error) {
	col, err := categorical(f, name)
	if err != nil {
		return "", err
	}
	present := col.PresentStrings()
	_, freq := FrequencyEncode(present)
	out := make([]float64, col.Len())
	for i, v := range col.Strings {
		if col.IsNull(i) {
			out[i] = math.NaN()
			continue
		}
		out[i] = freq[v]
	}
	newName := name + "_freq"
	if err := f.Add(frame.NewNumeric(newName, out)); err != nil {
		return "", err
	}
	return newName, f.Drop(name)
}

// LabelEncodeColumn replaces a categorical column with integer codes in
// sorted category order. Missing values are an error.
func LabelEncodeColumn(f *frame.Frame, name string) ([]string, error) {
	col, err := categorical(f, name)
	if err != nil {
		return nil, err
	}
	if n := col.NullCount(); n > 0 {
		return nil, fmt.Errorf("dataprep: label encoding %q with %d missing values", name, n)
	}
	codes, classes := LabelEncode(col.Strings)
	out := make([]float64, len(codes))
	for i, c := range codes {
		out[i] = float64(c)
	}
	return classes, f.Replace(name, frame.NewNumeric(name, out))
}

func categorical(f *frame.Frame, name string) (*frame.Column, error) {
	col, err := f.Col(name)
	if err != nil {
		return nil, err
	}
	if col.Kind != frame.Categorical {
		return nil, fmt.Errorf("dataprep: column %q is already numeric", name)
	}
	return col, nil
}
