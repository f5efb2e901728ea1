package model

import (
	"fmt"
	"math"
)

// Score is the held-out accuracy of a fitted regressor.
type Score struct {
	RMSE float64
	R2   float64
}

func (s Score) String() string { return fmt.Sprintf("RMSE: %.2f, R²: %.2f", s.RMSE, s.R2) }

// Evaluate fits m on the training rows and scores it on the test rows.
func Evaluate(m Model, Xtr [][]float64, ytr []float64, Xte [][]float64, yte []float64) (Score, error) {
	if err := m.Fit(Xtr, ytr); err != nil {
		return Score{}, err
	}
	return ScoreFitted(m, Xte, yte)
}

// ScoreFitted scores an already fitted model. Models implementing Fitter
// that were never fitted yield ErrNotFit.
func ScoreFitted(m Model, X [][]float64, y []float64) (Score, error) {
	if f, ok := m.(Fitter); ok && !f.Fitted() {
		return Score{}, ErrNotFit
	}
	if _, _, err := checkXY(X, y); err != nil {
		return Score{}, err
	}
	pred := m.Predict(X)
	return Score{RMSE: RMSE(y, pred), R2: R2(y, pred)}, nil
}

// SelectAboveMean returns the names whose importance is strictly greater
// than the mean importance, in their original order.
func SelectAboveMean(names []string, importances []float64) []string {
	if len(importances) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range importances {
		mean += v
	}
	mean /= float64(len(importances))
	var out []string
	for i, v := range importances {
		if v > mean {
			out = append(out, names[i])
		}
	}
	return out
}

// SelectNonZero returns the names whose coefficient magnitude exceeds tol.
func SelectNonZero(names []string, coef []float64, tol float64) []string {
	var out []string
	for i, c := range coef {
		if math.Abs(c) > tol {
			out = append(out, names[i])
		}
	}
	return out
}
