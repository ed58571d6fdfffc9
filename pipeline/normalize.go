package pipeline

import (
	"math"

	"go-ml.dev/pkg/zorros"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/features"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
)

/*
Normalizer holds frozen z-score parameters for the selected columns.
Fit once on training data; Transform never recomputes anything.
*/
type Normalizer struct {
	Names []string
	Mean  []float64
	Std   []float64
}

/*
FitNormalizer computes per-column mean and sample standard deviation on
the training frame restricted to names. Missing and infinite values are
imputed with the mean of the column's finite values before the moments
are taken. A column without a single finite value cannot be imputed and
fails loudly.
*/
func FitNormalizer(f *features.Frame, names []string) (*Normalizer, error) {
	n := &Normalizer{
		Names: names,
		Mean:  make([]float64, len(names)),
		Std:   make([]float64, len(names)),
	}
	for j, name := range names {
		col := f.Col(name)
		if col == nil {
			return nil, zorros.Errorf("normalizer: no column `%v`", name)
		}
		var sum float64
		count := 0
		for _, v := range col {
			if fu.IsFin(v) {
				sum += v
				count++
			}
		}
		if count == 0 {
			return nil, zorros.Errorf("normalizer: column `%v` has no finite values", name)
		}
		mean := sum / float64(count)
		var ss float64
		for _, v := range col {
			if !fu.IsFin(v) {
				v = mean
			}
			ss += (v - mean) * (v - mean)
		}
		std := 0.0
		if len(col) > 1 {
			std = math.Sqrt(ss / float64(len(col)-1))
		}
		n.Mean[j] = mean
		n.Std[j] = std
	}
	return n, nil
}

/*
Transform applies the frozen parameters to a frame: non-finite values
are imputed with the training mean, then each column is centered and
scaled. A zero-variance column is left centered but unscaled instead of
producing non-finite output.
*/
func (n *Normalizer) Transform(f *features.Frame) ([][]float64, error) {
	x, err := f.Matrix(n.Names)
	if err != nil {
		return nil, err
	}
	for i := range x {
		for j := range n.Names {
			v := x[i][j]
			if !fu.IsFin(v) {
				v = n.Mean[j]
			}
			d := n.Std[j]
			if d == 0 {
				d = 1
			}
			x[i][j] = (v - n.Mean[j]) / d
		}
	}
	return x, nil
}
