package dataprep

import (
	"fmt"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/frame"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/stats"
)

// DropColumns removes columns that are present; names already gone are
// reported back so callers can log them.
func DropColumns(f *frame.Frame, names []string) (missing []string, err error) {
	var present []string
	for _, n := range names {
		if f.Has(n) {
			present = append(present, n)
		} else {
			missing = append(missing, n)
		}
	}
	return missing, f.Drop(present...)
}

// RemoveOutliersIQR filters rows column by column. For each column the
// bounds are computed on the rows that survived the previous columns and
// rows outside [Q1-k*IQR, Q3+k*IQR] are removed; a missing value is never
// inside the bounds. It returns the number of rows removed.
func RemoveOutliersIQR(f *frame.Frame, columns []string, k float64) (int, error) {
	before := f.Len()
	for _, name := range columns {
		col, err := f.Col(name)
		if err != nil {
			return before - f.Len(), err
		}
		if col.Kind != frame.Numeric {
			return before - f.Len(), fmt.Errorf("dataprep: outlier filter on categorical column %q", name)
		}
		b := stats.IQRBounds(col.Floats, k)
		keep := make([]bool, f.Len())
		for i, v := range col.Floats {
			keep[i] = b.Contains(v)
		}
		if err := f.Filter(keep); err != nil {
			return before - f.Len(), err
		}
	}
	return before - f.Len(), nil
}
