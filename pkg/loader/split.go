package loader

import (
	"math"
	"math/rand"
)

// TrainTestSplit shuffles rows with rng and splits X, Y into train and test
// sets. The test set holds ceil(n*testRatio) rows.
func TrainTestSplit(X [][]float64, Y []float64, testRatio float64, rng *rand.Rand) (XTrain, XTest [][]float64, YTrain, YTest []float64) {
	n := len(X)
	indices := rng.Perm(n)
	nTest := int(math.Ceil(float64(n) * testRatio))
	if nTest > n {
		nTest = n
	}
	XTest, YTest = SelectRows(X, Y, indices[:nTest])
	XTrain, YTrain = SelectRows(X, Y, indices[nTest:])
	return
}

// SelectRows returns the rows of X and Y at the given indices. Rows are
// shared, not copied.
func SelectRows(X [][]float64, Y []float64, indices []int) ([][]float64, []float64) {
	xs := make([][]float64, len(indices))
	ys := make([]float64, len(indices))
	for i, idx := range indices {
		xs[i] = X[idx]
		ys[i] = Y[idx]
	}
	return xs, ys
}

// Fold is one cross-validation split.
type Fold struct {
	Train, Test []int
}

// KFold splits 0..n-1 into k contiguous test folds without shuffling. The
// first n%k folds get one extra row.
func KFold(n, k int) []Fold {
	if k < 2 || k > n {
		return nil
	}
	folds := make([]Fold, k)
	start := 0
	for f := 0; f < k; f++ {
		size := n / k
		if f < n%k {
			size++
		}
		end := start + size
		for i := 0; i < n; i++ {
			if i >= start && i < end {
				folds[f].Test = append(folds[f].Test, i)
			} else {
				folds[f].Train = append(folds[f].Train, i)
			}
		}
		start = end
	}
	return folds
}
