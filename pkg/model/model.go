package model

import "errors"

var (
	ErrEmpty    = errors.New("model: empty X")
	ErrMismatch = errors.New("model: X and y length mismatch")
	ErrRagged   = errors.New("model: inconsistent number of features in X rows")
	ErrNotFit   = errors.New("model: not fitted")
)

// Model is a generic supervised regression interface.
type Model interface {
	Fit(X [][]float64, y []float64) error
	Predict(X [][]float64) []float64
}

// Fitter reports whether Fit has completed on a model.
type Fitter interface {
	Fitted() bool
}

// Importancer exposes normalised per-feature importances after Fit.
type Importancer interface {
	Model
	FeatureImportances() []float64
}

// Factory builds a fresh, unfitted model.
type Factory func() Model

func checkXY(X [][]float64, y []float64) (n, p int, err error) {
	n = len(X)
	if n == 0 {
		return 0, 0, ErrEmpty
	}
	if len(y) != n {
		return 0, 0, ErrMismatch
	}
	p = len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return 0, 0, ErrRagged
		}
	}
	return n, p, nil
}
