package stats

// IQRMultiplier is the fence width used for outlier detection.
const IQRMultiplier = 1.5

// Bounds is a closed interval of accepted values.
type Bounds struct {
	Q1, Q3       float64
	Lower, Upper float64
}

// Contains reports whether v lies inside the bounds. NaN is never
// contained.
func (b Bounds) Contains(v float64) bool {
	return v >= b.Lower && v <= b.Upper
}

// IQRBounds computes [Q1 - k*IQR, Q3 + k*IQR] over the non-NaN values.
func IQRBounds(x []float64, k float64) Bounds {
	vals := DropNaN(x)
	q1 := Percentile(vals, 25)
	q3 := Percentile(vals, 75)
	iqr := q3 - q1
	return Bounds{Q1: q1, Q3: q3, Lower: q1 - k*iqr, Upper: q3 + k*iqr}
}

// CountOutliers returns the number of present values outside b.
func CountOutliers(x []float64, b Bounds) int {
	n := 0
	for _, v := range x {
		if v < b.Lower || v > b.Upper {
			n++
		}
	}
	return n
}
