package model

import (
	"math"
	"math/rand"
	"sort"
	"sync"
	"time"
)

// ---------------------------
// Types & options
// ---------------------------

// DecisionTreeRegressor is a CART-style regressor using squared error.
type DecisionTreeRegressor struct {
	// Hyperparameters / options
	MaxDepth            int     // maximum depth (root depth = 0). 0 => no limit
	MinSamplesSplit     int     // minimum samples to attempt a split
	MinSamplesLeaf      int     // minimum samples required in each leaf
	MaxFeatures         int     // 0 => use all features, >0 => number of features to sample when looking for split
	MinImpurityDecrease float64 // minimal weighted impurity decrease to accept a split
	RandomState         int64   // seed for randomness (feature subsampling)

	// internals
	root        *dtNode
	nFeatures   int
	importances []float64
	rawGain     []float64 // total squared-error decrease per feature, unnormalised
}

// dtNode holds a node in the tree.
type dtNode struct {
	isLeaf    bool
	feature   int
	threshold float64 // x <= threshold => left
	left      *dtNode
	right     *dtNode

	n     int
	value float64 // mean target of the samples reaching the node
}

// parallelSplitMin is the node size from which features are searched
// concurrently.
const parallelSplitMin = 512

// Option functional config
type Option func(*DecisionTreeRegressor)

func WithMaxDepth(d int) Option { return func(t *DecisionTreeRegressor) { t.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesSplit = n }
}
func WithMinSamplesLeaf(n int) Option {
	return func(t *DecisionTreeRegressor) { t.MinSamplesLeaf = n }
}
func WithMaxFeatures(k int) Option { return func(t *DecisionTreeRegressor) { t.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(t *DecisionTreeRegressor) { t.MinImpurityDecrease = v }
}
func WithRandomState(seed int64) Option {
	return func(t *DecisionTreeRegressor) { t.RandomState = seed }
}

// NewDecisionTreeRegressor returns a regressor with sensible defaults.
func NewDecisionTreeRegressor(opts ...Option) *DecisionTreeRegressor {
	d := &DecisionTreeRegressor{
		MaxDepth:            0,
		MinSamplesSplit:     2,
		MinSamplesLeaf:      1,
		MaxFeatures:         0,
		MinImpurityDecrease: 0.0,
		RandomState:         time.Now().UnixNano(),
	}
	for _, o := range opts {
		o(d)
	}
	return d
}

// ---------------------------
// Public API
// ---------------------------

// Fit trains the tree on X (n x p) and continuous targets y.
func (t *DecisionTreeRegressor) Fit(X [][]float64, y []float64) error {
	n, _, err := checkXY(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return t.FitIndices(X, y, idx)
}

// FitIndices trains on the rows listed in idx. Repeated indices weigh a
// row more, which is how bootstrap samples are passed in without copying X.
func (t *DecisionTreeRegressor) FitIndices(X [][]float64, y []float64, idx []int) error {
	_, p, err := checkXY(X, y)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		return ErrEmpty
	}
	t.nFeatures = p
	t.importances = make([]float64, p)
	rnd := rand.New(rand.NewSource(t.RandomState))
	t.root = t.buildNode(X, y, append([]int(nil), idx...), 0, rnd)

	t.rawGain = append([]float64(nil), t.importances...)
	normalize(t.importances)
	return nil
}

// Predict returns the leaf mean reached by every row of X.
func (t *DecisionTreeRegressor) Predict(X [][]float64) []float64 {
	out := make([]float64, len(X))
	for i := range X {
		out[i] = t.predictSingle(X[i])
	}
	return out
}

// FeatureImportances returns the total squared-error decrease contributed
// by each feature, normalised to sum to one.
func (t *DecisionTreeRegressor) FeatureImportances() []float64 {
	return append([]float64(nil), t.importances...)
}

// Fitted reports whether the tree has been grown.
func (t *DecisionTreeRegressor) Fitted() bool { return t.root != nil }

// Depth returns the depth of the fitted tree.
func (t *DecisionTreeRegressor) Depth() int { return depthOf(t.root) }

// Leaves returns the number of leaves of the fitted tree.
func (t *DecisionTreeRegressor) Leaves() int { return leavesOf(t.root) }

// ---------------------------
// Internal builders & helpers
// ---------------------------

// A struct to hold the results of a single feature's best split search.
type splitResult struct {
	gain      float64
	feature   int
	threshold float64
	nLeft     int
}

func (t *DecisionTreeRegressor) buildNode(X [][]float64, y []float64, idx []int, depth int, rnd *rand.Rand) *dtNode {
	n := len(idx)
	mean, sse := meanSSE(y, idx)
	node := &dtNode{n: n, value: mean, isLeaf: true}

	minLeaf := max(t.MinSamplesLeaf, 1)
	if n < t.MinSamplesSplit || n < 2*minLeaf || sse <= 1e-12*math.Max(1, mean*mean)*float64(n) {
		return node
	}
	if t.MaxDepth > 0 && depth >= t.MaxDepth {
		return node
	}

	// determine features to try
	p := t.nFeatures
	featIndices := make([]int, p)
	for j := 0; j < p; j++ {
		featIndices[j] = j
	}
	if t.MaxFeatures > 0 && t.MaxFeatures < p {
		for i := 0; i < t.MaxFeatures; i++ {
			j := i + rnd.Intn(p-i)
			featIndices[i], featIndices[j] = featIndices[j], featIndices[i]
		}
		featIndices = featIndices[:t.MaxFeatures]
		sort.Ints(featIndices)
	}

	best := splitResult{feature: -1}
	consider := func(r splitResult) {
		if r.feature < 0 {
			return
		}
		// ties go to the lowest feature index so concurrent search is deterministic
		if best.feature < 0 || r.gain > best.gain || (r.gain == best.gain && r.feature < best.feature) {
			best = r
		}
	}

	if n >= parallelSplitMin && len(featIndices) > 1 {
		// Channel to receive results from goroutines.
		results := make(chan splitResult, len(featIndices))
		var wg sync.WaitGroup
		for _, f := range featIndices {
			wg.Add(1)
			go func(f int) {
				defer wg.Done()
				results <- t.findBestSplitForFeature(X, y, idx, f, mean, minLeaf)
			}(f)
		}
		wg.Wait()
		close(results)
		for r := range results {
			consider(r)
		}
	} else {
		for _, f := range featIndices {
			consider(t.findBestSplitForFeature(X, y, idx, f, mean, minLeaf))
		}
	}

	if best.feature < 0 || best.gain <= 0 || best.gain/float64(n) < t.MinImpurityDecrease {
		return node
	}

	// partition around the threshold
	left := make([]int, 0, best.nLeft)
	right := make([]int, 0, n-best.nLeft)
	for _, ii := range idx {
		if X[ii][best.feature] <= best.threshold {
			left = append(left, ii)
		} else {
			right = append(right, ii)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return node
	}

	t.importances[best.feature] += best.gain
	node.isLeaf = false
	node.feature = best.feature
	node.threshold = best.threshold
	node.left = t.buildNode(X, y, left, depth+1, rnd)
	node.right = t.buildNode(X, y, right, depth+1, rnd)
	return node
}

// pair is a named type for a value and its target.
type pair struct {
	v float64
	y float64
}

// findBestSplitForFeature scans every threshold between distinct sorted
// values of feature f. Targets are centred on the node mean so the running
// sums stay well conditioned. It is safe to call concurrently.
func (t *DecisionTreeRegressor) findBestSplitForFeature(X [][]float64, y []float64, idx []int, f int, mean float64, minLeaf int) splitResult {
	result := splitResult{feature: -1}
	n := len(idx)
	pairs := make([]pair, n)
	totalSum, totalSq := 0.0, 0.0
	for k, ii := range idx {
		d := y[ii] - mean
		pairs[k] = pair{X[ii][f], d}
		totalSum += d
		totalSq += d * d
	}
	sort.Slice(pairs, func(a, b int) bool { return pairs[a].v < pairs[b].v })
	if pairs[0].v == pairs[n-1].v {
		return result
	}
	parent := totalSq - totalSum*totalSum/float64(n)

	sumL, sqL := 0.0, 0.0
	for s := 1; s < n; s++ {
		sumL += pairs[s-1].y
		sqL += pairs[s-1].y * pairs[s-1].y
		if pairs[s].v == pairs[s-1].v {
			continue
		}
		nL, nR := float64(s), float64(n-s)
		if s < minLeaf || n-s < minLeaf {
			continue
		}
		sumR, sqR := totalSum-sumL, totalSq-sqL
		sse := (sqL - sumL*sumL/nL) + (sqR - sumR*sumR/nR)
		gain := parent - sse
		if result.feature < 0 || gain > result.gain {
			thr := (pairs[s-1].v + pairs[s].v) / 2.0
			if thr >= pairs[s].v {
				thr = pairs[s-1].v
			}
			result = splitResult{gain: gain, feature: f, threshold: thr, nLeft: s}
		}
	}
	return result
}

func meanSSE(y []float64, idx []int) (float64, float64) {
	mean := 0.0
	for _, ii := range idx {
		mean += y[ii]
	}
	mean /= float64(len(idx))
	sse := 0.0
	for _, ii := range idx {
		d := y[ii] - mean
		sse += d * d
	}
	return mean, sse
}

// ---------------------------
// Prediction helper
// ---------------------------

func (t *DecisionTreeRegressor) predictSingle(x []float64) float64 {
	if t.root == nil {
		return math.NaN()
	}
	node := t.root
	for !node.isLeaf {
		if x[node.feature] <= node.threshold {
			node = node.left
		} else {
			node = node.right
		}
	}
	return node.value
}

func depthOf(n *dtNode) int {
	if n == nil || n.isLeaf {
		return 0
	}
	return 1 + max(depthOf(n.left), depthOf(n.right))
}

func leavesOf(n *dtNode) int {
	if n == nil {
		return 0
	}
	if n.isLeaf {
		return 1
	}
	return leavesOf(n.left) + leavesOf(n.right)
}
