package model

import (
	"errors"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/mat"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/loader"
	"github.com/RefaMuhammad/Predictive-Analytics/pkg/optim"
)

var ErrNoFolds = errors.New("model: need at least two folds and one alpha")

// LinearRegression is ordinary least squares with an intercept. Rank
// deficient designs get the minimum-norm solution.
type LinearRegression struct {
	W []float64 // weights
	b float64   // bias
}

func NewLinearRegression() *LinearRegression { return &LinearRegression{} }

// Fit centres X and y and solves the least squares problem through a thin
// SVD of the centred design.
func (m *LinearRegression) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	xMean, yMean := columnMeans(X, p), mean(y)

	A := mat.NewDense(n, p, nil)
	for i, row := range X {
		for j, v := range row {
			A.Set(i, j, v-xMean[j])
		}
	}
	b := mat.NewVecDense(n, nil)
	for i, v := range y {
		b.SetVec(i, v-yMean)
	}

	var svd mat.SVD
	if ok := svd.Factorize(A, mat.SVDThin); !ok {
		return errors.New("model: SVD factorisation failed")
	}
	rcond := math.Nextafter(1, 2) - 1
	rank := svd.Rank(rcond * float64(max(n, p)))
	if rank == 0 {
		m.W = make([]float64, p)
		m.b = yMean
		return nil
	}
	var w mat.VecDense
	svd.SolveVecTo(&w, b, rank)

	m.W = make([]float64, p)
	m.b = yMean
	for j := 0; j < p; j++ {
		m.W[j] = w.AtVec(j)
		m.b -= m.W[j] * xMean[j]
	}
	return nil
}

// Predict returns predictions for rows in X (rows of features).
// Rows are split across CPU cores.
func (m *LinearRegression) Predict(X [][]float64) []float64 {
	return linearPredict(X, m.W, m.b)
}

// Bias returns the fitted intercept.
func (m *LinearRegression) Bias() float64 { return m.b }

func (m *LinearRegression) Fitted() bool { return m.W != nil }

// Lasso is L1-regularised least squares with an intercept, solved by
// coordinate descent.
type Lasso struct {
	Alpha   float64
	MaxIter int
	Tol     float64

	W         []float64
	b         float64
	Iter      int
	Converged bool
}

func NewLasso(alpha float64) *Lasso {
	return &Lasso{Alpha: alpha, MaxIter: 10000, Tol: 1e-4}
}

func (l *Lasso) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	xMean, yMean := columnMeans(X, p), mean(y)
	cols := make([][]float64, p)
	for j := range cols {
		cols[j] = make([]float64, n)
		for i := 0; i < n; i++ {
			cols[j][i] = X[i][j] - xMean[j]
		}
	}
	yc := make([]float64, n)
	for i, v := range y {
		yc[i] = v - yMean
	}

	cd := &optim.CoordinateDescent{Alpha: l.Alpha, MaxIter: l.MaxIter, Tol: l.Tol}
	res := cd.Solve(cols, yc)
	l.W, l.Iter, l.Converged = res.W, res.Iter, res.Converged
	l.b = yMean
	for j, w := range l.W {
		l.b -= w * xMean[j]
	}
	return nil
}

func (l *Lasso) Predict(X [][]float64) []float64 { return linearPredict(X, l.W, l.b) }

// Coef returns a copy of the fitted weights.
func (l *Lasso) Coef() []float64 { return append([]float64(nil), l.W...) }

func (l *Lasso) Intercept() float64 { return l.b }

func (l *Lasso) Fitted() bool { return l.W != nil }

// GridResult holds the cross-validated score of each candidate alpha.
type GridResult struct {
	Alphas     []float64
	MeanScores []float64 // mean R² over folds, aligned with Alphas
	BestAlpha  float64
	BestScore  float64
}

// GridSearchLasso scores each alpha by mean R² over k contiguous folds.
// The first alpha wins ties.
func GridSearchLasso(X [][]float64, y []float64, alphas []float64, k int) (GridResult, error) {
	if _, _, err := checkXY(X, y); err != nil {
		return GridResult{}, err
	}
	folds := loader.KFold(len(X), k)
	if folds == nil || len(alphas) == 0 {
		return GridResult{}, ErrNoFolds
	}
	res := GridResult{Alphas: alphas, MeanScores: make([]float64, len(alphas)), BestScore: math.Inf(-1)}
	for a, alpha := range alphas {
		total := 0.0
		for _, f := range folds {
			Xtr, ytr := loader.SelectRows(X, y, f.Train)
			Xte, yte := loader.SelectRows(X, y, f.Test)
			l := NewLasso(alpha)
			if err := l.Fit(Xtr, ytr); err != nil {
				return GridResult{}, err
			}
			total += R2(yte, l.Predict(Xte))
		}
		res.MeanScores[a] = total / float64(len(folds))
		if res.MeanScores[a] > res.BestScore {
			res.BestScore = res.MeanScores[a]
			res.BestAlpha = alpha
		}
	}
	return res, nil
}

func linearPredict(X [][]float64, w []float64, b float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	pred := make([]float64, len(X))
	var wg sync.WaitGroup

	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers

	for k := 0; k < workers; k++ {
		s := k * rowsPerWorker
		e := min(s+rowsPerWorker, len(X))
		if s >= e {
			continue
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				sum := b
				for j, v := range X[i] {
					sum += w[j] * v
				}
				pred[i] = sum
			}
		}(s, e)
	}
	wg.Wait()
	return pred
}

func columnMeans(X [][]float64, p int) []float64 {
	out := make([]float64, p)
	for _, row := range X {
		for j, v := range row {
			out[j] += v
		}
	}
	for j := range out {
		out[j] /= float64(len(X))
	}
	return out
}

func mean(v []float64) float64 {
	s := 0.0
	for _, x := range v {
		s += x
	}
	return s / float64(len(v))
}
