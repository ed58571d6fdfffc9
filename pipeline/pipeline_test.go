package pipeline

import (
	"math"
	"testing"

	"gotest.tools/assert"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

func trainStore(t *testing.T, units int) *telemetry.Store {
	var recs []telemetry.Record
	for u := 1; u <= units; u++ {
		n := 40 + u*4
		for c := 1; c <= n; c++ {
			r := telemetry.Record{Unit: u, Cycle: c}
			for i := range r.Sensors {
				drift := 0.05 * float64(i%5+1)
				r.Sensors[i] = 100 + 10*float64(i) + drift*float64(c) + 0.3*math.Sin(float64(c*(i+1)+u))
			}
			recs = append(recs, r)
		}
	}
	s, err := telemetry.NewStore(recs)
	assert.NilError(t, err)
	return s
}

func Test_FitEndToEnd(t *testing.T) {
	s := trainStore(t, 5)
	m, err := Fit(s, Options{TopFeatures: 10, DisableTuning: true})
	assert.NilError(t, err)
	assert.Assert(t, len(m.Features) <= 10)
	assert.Equal(t, len(m.Features), len(m.Norm.Names))
	assert.Equal(t, len(m.Importance), len(m.Features))
	for i := 1; i < len(m.Importance); i++ {
		assert.Assert(t, m.Importance[i-1].Score >= m.Importance[i].Score)
	}

	preds, err := m.Predict(s)
	assert.NilError(t, err)
	assert.Equal(t, len(preds), s.Rows())
	for _, p := range preds {
		assert.Assert(t, p >= 0)
	}
}

func Test_FitRequiresData(t *testing.T) {
	_, err := Fit(nil, Options{})
	assert.Assert(t, err != nil)
}

func Test_FitFrozenFeatureList(t *testing.T) {
	s := trainStore(t, 5)
	a, err := Fit(s, Options{TopFeatures: 8, DisableTuning: true})
	assert.NilError(t, err)
	b, err := Fit(s, Options{TopFeatures: 8, DisableTuning: true})
	assert.NilError(t, err)
	assert.Equal(t, len(a.Features), len(b.Features))
	for i := range a.Features {
		assert.Equal(t, a.Features[i], b.Features[i])
	}
}

func Test_TargetCapFlowsIntoTraining(t *testing.T) {
	s := trainStore(t, 4)
	raw, err := Featurize(s, 3)
	assert.NilError(t, err)
	for _, v := range raw.Frame.Target {
		assert.Assert(t, v <= 3)
	}
	uncapped, err := Featurize(s, -1)
	assert.NilError(t, err)
	hi := 0.0
	for _, v := range uncapped.Frame.Target {
		if v > hi {
			hi = v
		}
	}
	assert.Assert(t, hi > 3)
}

func Test_PredictMissingColumnsFail(t *testing.T) {
	s := trainStore(t, 4)
	m, err := Fit(s, Options{TopFeatures: 5, DisableTuning: true})
	assert.NilError(t, err)
	// a model asked for a column the frame cannot provide must error,
	// not silently reselect
	m.Norm.Names = append([]string{"no_such_column"}, m.Norm.Names[1:]...)
	_, err = m.Predict(s)
	assert.Assert(t, err != nil)
}
