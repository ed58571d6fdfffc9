/*
Package boost implements gradient-boosted regression trees for the
squared-error objective, with XGBoost-style L1/L2 regularized leaf
weights and row/column subsampling, plus the hyperparameter grid tuner.

No trainable boosting library exists in the Go ecosystem this project
draws on (pure-Go LightGBM ports are inference-only), so the ensemble
is built here on top of gonum primitives.
*/
package boost

import (
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/stat"

	"go-ml.dev/pkg/zorros"
)

/*
Config is one ensemble configuration. Alpha and Lambda are the fixed
L1/L2 regularization weights; the grid varies only depth, learning rate,
tree count and subsampling.
*/
type Config struct {
	MaxDepth     int
	LearningRate float64
	Trees        int
	Subsample    float64
	ColSample    float64
	Alpha        float64
	Lambda       float64
	MinSamples   int
	Seed         int64
}

// DefaultConfig is the known-good configuration used when tuning is off
func DefaultConfig() Config {
	return Config{
		MaxDepth:     5,
		LearningRate: 0.1,
		Trees:        200,
		Subsample:    0.8,
		ColSample:    0.8,
		Alpha:        0.1,
		Lambda:       1.0,
		MinSamples:   5,
		Seed:         42,
	}
}

/*
Regressor is a fitted ensemble. Immutable after Fit.
*/
type Regressor struct {
	cfg   Config
	base  float64
	trees []*tree
	gain  []float64
}

// Config returns the configuration the ensemble was fitted with
func (r *Regressor) Config() Config { return r.cfg }

// FeatureGain returns the total split gain accumulated per feature index
func (r *Regressor) FeatureGain() []float64 {
	out := make([]float64, len(r.gain))
	copy(out, r.gain)
	return out
}

/*
Fit trains the ensemble on a row-major matrix. Deterministic for a fixed
Config: all randomness comes from the config seed.
*/
func Fit(x [][]float64, y []float64, cfg Config) (*Regressor, error) {
	if len(x) == 0 {
		return nil, zorros.Errorf("boost: empty training matrix")
	}
	if len(x) != len(y) {
		return nil, zorros.Errorf("boost: %d rows but %d targets", len(x), len(y))
	}
	if cfg.MaxDepth < 1 || cfg.Trees < 1 || cfg.LearningRate <= 0 {
		return nil, zorros.Errorf("boost: bad config %+v", cfg)
	}
	if cfg.MinSamples < 1 {
		cfg.MinSamples = 1
	}
	nFeat := len(x[0])
	rng := rand.New(rand.NewSource(cfg.Seed))
	r := &Regressor{
		cfg:  cfg,
		base: stat.Mean(y, nil),
		gain: make([]float64, nFeat),
	}
	pred := make([]float64, len(y))
	for i := range pred {
		pred[i] = r.base
	}
	grad := make([]float64, len(y))
	for k := 0; k < cfg.Trees; k++ {
		// squared-error gradient; hessian is identically 1
		for i := range grad {
			grad[i] = pred[i] - y[i]
		}
		rows := sampleIndices(rng, len(y), cfg.Subsample)
		cols := sampleIndices(rng, nFeat, cfg.ColSample)
		tr := growTree(x, grad, rows, cols, cfg, r.gain)
		r.trees = append(r.trees, tr)
		for i := range x {
			pred[i] += cfg.LearningRate * tr.predict(x[i])
		}
	}
	return r, nil
}

// Predict returns the raw ensemble output for one feature row
func (r *Regressor) Predict(row []float64) float64 {
	out := r.base
	for _, t := range r.trees {
		out += r.cfg.LearningRate * t.predict(row)
	}
	return out
}

// PredictAll returns the raw ensemble output for every row
func (r *Regressor) PredictAll(x [][]float64) []float64 {
	out := make([]float64, len(x))
	for i, row := range x {
		out[i] = r.Predict(row)
	}
	return out
}

// sampleIndices draws a sorted fraction of [0,n) without replacement
func sampleIndices(rng *rand.Rand, n int, fraction float64) []int {
	if fraction >= 1 || fraction <= 0 {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}
		return idx
	}
	m := int(fraction * float64(n))
	if m < 1 {
		m = 1
	}
	idx := append([]int(nil), rng.Perm(n)[:m]...)
	sort.Ints(idx)
	return idx
}

type node struct {
	feature     int
	thresh      float64
	left, right int
	value       float64
	leaf        bool
}

type tree struct {
	nodes []node
}

func (t *tree) predict(row []float64) float64 {
	i := 0
	for !t.nodes[i].leaf {
		if row[t.nodes[i].feature] < t.nodes[i].thresh {
			i = t.nodes[i].left
		} else {
			i = t.nodes[i].right
		}
	}
	return t.nodes[i].value
}

func growTree(x [][]float64, grad []float64, rows, cols []int, cfg Config, gain []float64) *tree {
	t := &tree{}
	t.grow(x, grad, rows, cols, cfg, gain, 0)
	return t
}

// grow appends the subtree for rows and returns its root node index
func (t *tree) grow(x [][]float64, grad []float64, rows, cols []int, cfg Config, gain []float64, depth int) int {
	var gSum float64
	for _, i := range rows {
		gSum += grad[i]
	}
	hSum := float64(len(rows))
	self := len(t.nodes)
	t.nodes = append(t.nodes, node{leaf: true, value: leafWeight(gSum, hSum, cfg)})
	if depth >= cfg.MaxDepth || len(rows) < 2*cfg.MinSamples {
		return self
	}

	parent := splitScore(gSum, hSum, cfg)
	bestGain := 0.0
	bestFeat, bestPos := -1, 0
	bestThresh := 0.0
	var bestOrder []int
	order := make([]int, len(rows))
	for _, f := range cols {
		copy(order, rows)
		f := f
		sort.SliceStable(order, func(a, b int) bool { return x[order[a]][f] < x[order[b]][f] })
		var gl float64
		for pos := 0; pos < len(order)-1; pos++ {
			gl += grad[order[pos]]
			if pos+1 < cfg.MinSamples || len(order)-pos-1 < cfg.MinSamples {
				continue
			}
			v, vn := x[order[pos]][f], x[order[pos+1]][f]
			if vn <= v {
				continue
			}
			hl := float64(pos + 1)
			g := 0.5 * (splitScore(gl, hl, cfg) + splitScore(gSum-gl, hSum-hl, cfg) - parent)
			if g > bestGain {
				bestGain, bestFeat, bestPos = g, f, pos
				bestThresh = (v + vn) / 2
				bestOrder = append(bestOrder[:0], order...)
			}
		}
	}
	if bestFeat < 0 {
		return self
	}
	gain[bestFeat] += bestGain
	left := append([]int(nil), bestOrder[:bestPos+1]...)
	right := append([]int(nil), bestOrder[bestPos+1:]...)
	l := t.grow(x, grad, left, cols, cfg, gain, depth+1)
	r := t.grow(x, grad, right, cols, cfg, gain, depth+1)
	t.nodes[self] = node{feature: bestFeat, thresh: bestThresh, left: l, right: r}
	return self
}

// leafWeight is the L1/L2 regularized optimal leaf value -S(G)/(H+lambda)
func leafWeight(g, h float64, cfg Config) float64 {
	return -shrink(g, cfg.Alpha) / (h + cfg.Lambda)
}

// splitScore is S(G)^2/(H+lambda), the structure score of a node
func splitScore(g, h float64, cfg Config) float64 {
	s := shrink(g, cfg.Alpha)
	return s * s / (h + cfg.Lambda)
}

// shrink applies L1 soft-thresholding to the gradient sum
func shrink(g, alpha float64) float64 {
	switch {
	case g > alpha:
		return g - alpha
	case g < -alpha:
		return g + alpha
	}
	return 0
}
