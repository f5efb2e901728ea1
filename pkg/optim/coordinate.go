package optim

import "math"

// CoordinateDescent minimises (1/2n)||y - Xw||² + Alpha·||w||₁ one
// coordinate at a time. X and y are expected to be centred; the caller
// recovers the intercept.
type CoordinateDescent struct {
	Alpha   float64
	MaxIter int
	Tol     float64
}

// Result of a solve.
type Result struct {
	W         []float64
	Iter      int
	Gap       float64 // duality gap at exit
	Converged bool
}

func NewCoordinateDescent(alpha float64) *CoordinateDescent {
	return &CoordinateDescent{Alpha: alpha, MaxIter: 10000, Tol: 1e-4}
}

// Solve runs on column-major data: cols[j] is feature j over all n rows.
// Convergence is checked with the duality gap once the largest coordinate
// update falls below Tol relative to the largest weight.
func (cd *CoordinateDescent) Solve(cols [][]float64, y []float64) Result {
	p := len(cols)
	n := len(y)
	w := make([]float64, p)
	res := Result{W: w}
	if n == 0 || p == 0 {
		res.Converged = true
		return res
	}

	alpha := cd.Alpha * float64(n)
	norms := make([]float64, p)
	for j, c := range cols {
		norms[j] = dot(c, c)
	}
	r := append([]float64(nil), y...)
	tol := cd.Tol * dot(y, y)

	for it := 0; it < cd.MaxIter; it++ {
		res.Iter = it + 1
		wMax, dMax := 0.0, 0.0
		for j, c := range cols {
			if norms[j] == 0 {
				continue
			}
			old := w[j]
			if old != 0 {
				axpy(old, c, r)
			}
			tmp := dot(c, r)
			w[j] = softThreshold(tmp, alpha) / norms[j]
			if w[j] != 0 {
				axpy(-w[j], c, r)
			}
			dMax = math.Max(dMax, math.Abs(w[j]-old))
			wMax = math.Max(wMax, math.Abs(w[j]))
		}
		if wMax == 0 || dMax/wMax < cd.Tol || it == cd.MaxIter-1 {
			res.Gap = dualityGap(cols, y, r, w, alpha)
			if res.Gap < tol {
				res.Converged = true
				return res
			}
		}
	}
	return res
}

func dualityGap(cols [][]float64, y, r, w []float64, alpha float64) float64 {
	dualNorm := 0.0
	for _, c := range cols {
		dualNorm = math.Max(dualNorm, math.Abs(dot(c, r)))
	}
	rNorm2 := dot(r, r)
	scale, gap := 1.0, rNorm2
	if dualNorm > alpha {
		scale = alpha / dualNorm
		gap = 0.5 * (rNorm2 + rNorm2*scale*scale)
	}
	l1 := 0.0
	for _, v := range w {
		l1 += math.Abs(v)
	}
	return gap + alpha*l1 - scale*dot(r, y)
}

func softThreshold(z, g float64) float64 {
	switch {
	case z > g:
		return z - g
	case z < -g:
		return z + g
	}
	return 0
}

func dot(a, b []float64) float64 {
	s := 0.0
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

// axpy computes y += a*x in place.
func axpy(a float64, x, y []float64) {
	for i := range x {
		y[i] += a * x[i]
	}
}
