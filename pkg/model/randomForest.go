package model

import (
	"math/rand"
	"runtime"
	"sync"
	"time"
)

// RandomForestRegressor averages bootstrapped regression trees.
type RandomForestRegressor struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     int
	Bootstrap       bool
	RandomState     int64
	Workers         int

	// Internal state
	Trees       []*DecisionTreeRegressor
	importances []float64
}

// RandomForestOption functional config for RandomForestRegressor
type RandomForestOption func(*RandomForestRegressor)

func WithNEstimators(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.NEstimators = n }
}
func WithBootstrap(b bool) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.Bootstrap = b }
}
func WithForestSeed(seed int64) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.RandomState = seed }
}
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxDepth = d }
}
func WithForestMaxFeatures(k int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.MaxFeatures = k }
}
func WithWorkers(n int) RandomForestOption {
	return func(rf *RandomForestRegressor) { rf.Workers = n }
}

// NewRandomForestRegressor initializes the forest with sensible defaults.
func NewRandomForestRegressor(opts ...RandomForestOption) *RandomForestRegressor {
	rf := &RandomForestRegressor{
		NEstimators:     100,
		MaxDepth:        0,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     0,
		Bootstrap:       true,
		RandomState:     time.Now().UnixNano(),
		Workers:         runtime.GOMAXPROCS(0),
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains the random forest. Trees are fit concurrently on bootstrap
// index samples; each tree owns a seed derived from RandomState.
func (rf *RandomForestRegressor) Fit(X [][]float64, y []float64) error {
	n, p, err := checkXY(X, y)
	if err != nil {
		return err
	}

	rf.Trees = make([]*DecisionTreeRegressor, rf.NEstimators)
	var wg sync.WaitGroup
	errCh := make(chan error, rf.NEstimators)
	sem := make(chan struct{}, max(rf.Workers, 1))

	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			// Use a new rand source for each goroutine to avoid contention
			treeRand := rand.New(rand.NewSource(rf.RandomState + int64(idx)))

			// Bootstrap sampling: create an index slice, not a copy of the data.
			sampleIndices := make([]int, n)
			for j := 0; j < n; j++ {
				if rf.Bootstrap {
					sampleIndices[j] = treeRand.Intn(n)
				} else {
					sampleIndices[j] = j
				}
			}

			tree := NewDecisionTreeRegressor(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(rf.MaxFeatures),
				WithRandomState(treeRand.Int63()),
			)
			if err := tree.FitIndices(X, y, sampleIndices); err != nil {
				errCh <- err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()
	close(errCh)

	// Check for any errors from goroutines.
	for err := range errCh {
		if err != nil {
			return err
		}
	}

	rf.importances = make([]float64, p)
	for _, t := range rf.Trees {
		for j, v := range t.importances {
			rf.importances[j] += v
		}
	}
	normalize(rf.importances)
	return nil
}

// Predict returns the mean prediction of all trees.
func (rf *RandomForestRegressor) Predict(X [][]float64) []float64 {
	n := len(X)
	finalPred := make([]float64, n)
	if len(rf.Trees) == 0 {
		return finalPred
	}

	// Fan out per tree, then sum in tree order so results do not depend on
	// scheduling.
	preds := make([][]float64, len(rf.Trees))
	var wg sync.WaitGroup
	for i, tree := range rf.Trees {
		wg.Add(1)
		go func(i int, t *DecisionTreeRegressor) {
			defer wg.Done()
			preds[i] = t.Predict(X)
		}(i, tree)
	}
	wg.Wait()

	for _, p := range preds {
		for i, v := range p {
			finalPred[i] += v
		}
	}
	for i := range finalPred {
		finalPred[i] /= float64(len(rf.Trees))
	}
	return finalPred
}

// FeatureImportances returns the mean of the per-tree importances,
// normalised to sum to one.
func (rf *RandomForestRegressor) FeatureImportances() []float64 {
	return append([]float64(nil), rf.importances...)
}

func (rf *RandomForestRegressor) Fitted() bool { return len(rf.Trees) > 0 }

func normalize(v []float64) {
	total := 0.0
	for _, x := range v {
		total += x
	}
	if total == 0 {
		return
	}
	for i := range v {
		v[i] /= total
	}
}
