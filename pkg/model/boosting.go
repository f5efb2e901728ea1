package model

import (
	"time"

	"github.com/RefaMuhammad/Predictive-Analytics/pkg/loss"
)

// GradientBoostingRegressor fits shallow regression trees to the negative
// gradient of the loss, stage by stage.
type GradientBoostingRegressor struct {
	NEstimators     int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	RandomState     int64
	Loss            loss.Loss

	init        float64
	Trees       []*DecisionTreeRegressor
	TrainScore  []float64 // training loss after each stage
	importances []float64
}

// BoostingOption functional config for GradientBoostingRegressor
type BoostingOption func(*GradientBoostingRegressor)

func WithStages(n int) BoostingOption {
	return func(g *GradientBoostingRegressor) { g.NEstimators = n }
}
func WithLearningRate(lr float64) BoostingOption {
	return func(g *GradientBoostingRegressor) { g.LearningRate = lr }
}
func WithStageDepth(d int) BoostingOption {
	return func(g *GradientBoostingRegressor) { g.MaxDepth = d }
}
func WithBoostingSeed(seed int64) BoostingOption {
	return func(g *GradientBoostingRegressor) { g.RandomState = seed }
}

// NewGradientBoostingRegressor returns a booster with 100 depth-3 stages
// and learning rate 0.1.
func NewGradientBoostingRegressor(opts ...BoostingOption) *GradientBoostingRegressor {
	g := &GradientBoostingRegressor{
		NEstimators:     100,
		LearningRate:    0.1,
		MaxDepth:        3,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		RandomState:     time.Now().UnixNano(),
		Loss:            loss.SquaredError{},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Fit trains all stages sequentially; each stage depends on the previous
// predictions.
func (g *GradientBoostingRegressor) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	g.init = g.Loss.Init(y)
	pred := make([]float64, n)
	for i := range pred {
		pred[i] = g.init
	}
	g.Trees = make([]*DecisionTreeRegressor, 0, g.NEstimators)
	g.TrainScore = make([]float64, 0, g.NEstimators)
	g.importances = make([]float64, p)

	for m := 0; m < g.NEstimators; m++ {
		residual := g.Loss.NegativeGradient(y, pred)
		tree := NewDecisionTreeRegressor(
			WithMaxDepth(g.MaxDepth),
			WithMinSamplesSplit(g.MinSamplesSplit),
			WithMinSamplesLeaf(g.MinSamplesLeaf),
			WithRandomState(g.RandomState+int64(m)),
		)
		if err := tree.Fit(X, residual); err != nil {
			return err
		}
		step := tree.Predict(X)
		for i := range pred {
			pred[i] += g.LearningRate * step[i]
		}
		// raw gains, so late residual stages weigh what they actually explain
		for j, v := range tree.rawGain {
			g.importances[j] += v
		}
		g.Trees = append(g.Trees, tree)
		g.TrainScore = append(g.TrainScore, g.Loss.Value(y, pred))
	}
	normalize(g.importances)
	return nil
}

// Predict returns the initial estimate plus the shrunken stage outputs.
func (g *GradientBoostingRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range out {
		out[i] = g.init
	}
	for _, t := range g.Trees {
		step := t.Predict(X)
		for i := range out {
			out[i] += g.LearningRate * step[i]
		}
	}
	return out
}

// Fitted reports whether Fit has run; a zero-stage booster is fitted to
// the mean.
func (g *GradientBoostingRegressor) Fitted() bool { return g.Trees != nil }

// FeatureImportances returns the squared-error decrease summed over all
// stages, normalised once to sum to one.
func (g *GradientBoostingRegressor) FeatureImportances() []float64 {
	return append([]float64(nil), g.importances...)
}
