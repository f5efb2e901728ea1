package loss

// Loss is a differentiable regression loss used by boosting.
type Loss interface {
	// Init returns the constant prediction minimising the loss.
	Init(y []float64) float64
	// Value returns the loss of yPred against yTrue.
	Value(yTrue, yPred []float64) float64
	// NegativeGradient returns the per-sample pseudo residuals.
	NegativeGradient(yTrue, yPred []float64) []float64
}

// Mean Squared Error(MSE) and its gradient for regression
func MSE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		e := yPred[i] - yTrue[i]
		s += e * e
		grad[i] = 2 * e / float64(n)
	}
	return s / float64(n), grad
}

// SquaredError is half the squared error; its negative gradient is the
// plain residual.
type SquaredError struct{}

func (SquaredError) Init(y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	s := 0.0
	for _, v := range y {
		s += v
	}
	return s / float64(len(y))
}

func (SquaredError) Value(yTrue, yPred []float64) float64 {
	v, _ := MSE(yTrue, yPred)
	return v / 2
}

func (SquaredError) NegativeGradient(yTrue, yPred []float64) []float64 {
	_, grad := MSE(yTrue, yPred)
	n := float64(len(yTrue))
	for i := range grad {
		grad[i] *= -n / 2
	}
	return grad
}
