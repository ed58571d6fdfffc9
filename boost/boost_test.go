package boost

import (
	"math"
	"testing"

	"gotest.tools/assert"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
)

func linearData(n int) ([][]float64, []float64) {
	x := make([][]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		a := float64(i) / float64(n)
		b := math.Sin(float64(i) * 7.13)
		x[i] = []float64{a, b}
		y[i] = 10 * a
	}
	return x, y
}

func smallConfig() Config {
	c := DefaultConfig()
	c.MaxDepth = 3
	c.Trees = 100
	c.LearningRate = 0.3
	c.Subsample = 1
	c.ColSample = 1
	c.Alpha = 0
	return c
}

func Test_FitLearnsLinearTarget(t *testing.T) {
	x, y := linearData(200)
	m, err := Fit(x, y, smallConfig())
	assert.NilError(t, err)
	mse := fu.Mse(m.PredictAll(x), y)
	assert.Assert(t, mse < 0.5)
}

func Test_FitDeterministic(t *testing.T) {
	x, y := linearData(150)
	cfg := DefaultConfig()
	cfg.Trees = 30
	a, err := Fit(x, y, cfg)
	assert.NilError(t, err)
	b, err := Fit(x, y, cfg)
	assert.NilError(t, err)
	pa, pb := a.PredictAll(x), b.PredictAll(x)
	for i := range pa {
		assert.Assert(t, pa[i] == pb[i])
	}
}

func Test_FitRejectsBadInput(t *testing.T) {
	_, err := Fit(nil, nil, DefaultConfig())
	assert.Assert(t, err != nil)
	x, y := linearData(10)
	_, err = Fit(x, y[:5], DefaultConfig())
	assert.Assert(t, err != nil)
	bad := DefaultConfig()
	bad.MaxDepth = 0
	_, err = Fit(x, y, bad)
	assert.Assert(t, err != nil)
}

func Test_FeatureGainFavorsInformative(t *testing.T) {
	x, y := linearData(200)
	m, err := Fit(x, y, smallConfig())
	assert.NilError(t, err)
	gain := m.FeatureGain()
	assert.Equal(t, len(gain), 2)
	assert.Assert(t, gain[0] > gain[1]) // the target is a function of feature 0
}

func splitRows(n int) (train, val []int) {
	for i := 0; i < n; i++ {
		if i%5 == 0 {
			val = append(val, i)
		} else {
			train = append(train, i)
		}
	}
	return
}

func Test_TunePicksLowerMse(t *testing.T) {
	x, y := linearData(200)
	train, val := splitRows(200)
	weak := smallConfig()
	weak.Trees = 1
	weak.LearningRate = 0.01
	strong := smallConfig()
	best, scores, err := Tune(x, y, train, val, []Config{weak, strong}, 2, nil)
	assert.NilError(t, err)
	assert.Equal(t, len(scores), 2)
	assert.Assert(t, scores[1] < scores[0])
	assert.Equal(t, best.Trees, strong.Trees)
}

func Test_TuneFirstWinsTies(t *testing.T) {
	x, y := linearData(100)
	train, val := splitRows(100)
	c := smallConfig()
	best, scores, err := Tune(x, y, train, val, []Config{c, c, c}, 3, nil)
	assert.NilError(t, err)
	assert.Assert(t, scores[0] == scores[1] && scores[1] == scores[2])
	assert.Equal(t, best, c)
	assert.Equal(t, fu.Indmind(scores), 0)
}

func Test_TunePropagatesCandidateFailure(t *testing.T) {
	x, y := linearData(50)
	train, val := splitRows(50)
	bad := smallConfig()
	bad.Trees = 0
	_, _, err := Tune(x, y, train, val, []Config{smallConfig(), bad}, 2, nil)
	assert.Assert(t, err != nil)
}

func Test_TuneRejectsEmptyGridOrSplit(t *testing.T) {
	x, y := linearData(50)
	train, val := splitRows(50)
	_, _, err := Tune(x, y, train, val, nil, 1, nil)
	assert.Assert(t, err != nil)
	_, _, err = Tune(x, y, train, nil, []Config{smallConfig()}, 1, nil)
	assert.Assert(t, err != nil)
}

func Test_GridIsCurated(t *testing.T) {
	grid := Grid()
	assert.Assert(t, len(grid) >= 4)
	for _, c := range grid {
		// regularization stays fixed across candidates
		assert.Equal(t, c.Alpha, DefaultConfig().Alpha)
		assert.Equal(t, c.Lambda, DefaultConfig().Lambda)
	}
}
