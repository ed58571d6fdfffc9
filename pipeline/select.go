/*
Package pipeline threads the training flow through immutable stage
records: RawData -> FeaturizedData -> SelectedFeatures -> PreparedData ->
TrainedModel. Each stage is a pure function of the previous one, so a
repeated run can never pick up stale state.
*/
package pipeline

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/features"
	"go-ml.dev/pkg/zorros"
)

const (
	// DefaultTopFeatures is the default size of the selected subset
	DefaultTopFeatures = 25

	corrWeight = 0.4
	cvWeight   = 0.3
	miWeight   = 0.3
	cvCap      = 2.0
	miBins     = 10
)

/*
FeatureScore is the composite selection score of one candidate column
*/
type FeatureScore struct {
	Name  string
	Score float64
}

/*
ScoreFeatures scores every frame column against the target:
0.4*|pearson| + 0.3*min(|cv|,2) + 0.3*|corr(bin index, target)|.
Undefined statistics coerce to 0. Columns with at most one distinct
value carry no information and are excluded outright. The result is
sorted by descending score, ties keeping original column order.
*/
func ScoreFeatures(f *features.Frame) ([]FeatureScore, error) {
	if len(f.Target) != f.Rows() {
		return nil, zorros.Errorf("feature scoring requires a target per row")
	}
	var scores []FeatureScore
	for i, name := range f.Names {
		col := f.Cols[i]
		distinct := distinctCount(col)
		if distinct <= 1 {
			continue
		}
		corr := absOrZero(stat.Correlation(col, f.Target, nil))
		mean, std := stat.MeanStdDev(col, nil)
		cv := math.Abs(std / (mean + features.Epsilon))
		if math.IsNaN(cv) {
			cv = 0
		}
		if cv > cvCap {
			cv = cvCap
		}
		mi := miProxy(col, f.Target, distinct)
		scores = append(scores, FeatureScore{
			Name:  name,
			Score: corrWeight*corr + cvWeight*cv + miWeight*mi,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores, nil
}

/*
SelectFeatures returns the n highest-scoring column names in descending
score order. Selection runs once on training data; the returned list is
frozen and reused verbatim for every later dataset.
*/
func SelectFeatures(f *features.Frame, n int) ([]string, []FeatureScore, error) {
	scores, err := ScoreFeatures(f)
	if err != nil {
		return nil, nil, err
	}
	if len(scores) == 0 {
		return nil, nil, zorros.Errorf("no informative feature columns")
	}
	if n > len(scores) {
		n = len(scores)
	}
	names := make([]string, n)
	for i := range names {
		names[i] = scores[i].Name
	}
	return names, scores, nil
}

// miProxy discretizes the column into equal-width bins and uses the
// absolute correlation of bin index with the target as a cheap stand-in
// for mutual information. Any binning failure yields 0.
func miProxy(col, target []float64, distinct int) float64 {
	bins := miBins
	if distinct < bins {
		bins = distinct
	}
	if bins < 2 {
		return 0
	}
	lo, hi := col[0], col[0]
	for _, v := range col {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	width := (hi - lo) / float64(bins)
	if width <= 0 || math.IsNaN(width) || math.IsInf(width, 0) {
		return 0
	}
	idx := make([]float64, len(col))
	for i, v := range col {
		k := int((v - lo) / width)
		if k < 0 {
			k = 0
		}
		if k >= bins {
			k = bins - 1
		}
		idx[i] = float64(k)
	}
	return absOrZero(stat.Correlation(idx, target, nil))
}

func distinctCount(col []float64) int {
	seen := make(map[float64]struct{}, 16)
	for _, v := range col {
		seen[v] = struct{}{}
		if len(seen) > miBins {
			// enough to size the bins, no need to count further
			break
		}
	}
	if len(seen) <= miBins {
		return len(seen)
	}
	return miBins + 1
}

func absOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Abs(v)
}
