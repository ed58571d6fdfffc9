package evaluate

import (
	"math"
	"testing"

	"gotest.tools/assert"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

func Test_PenaltyAsymmetry(t *testing.T) {
	// a late prediction always costs strictly more than an equally
	// wrong early one
	for _, e := range []float64{0.5, 1, 5, 13, 40} {
		late := Penalty(e)
		early := Penalty(-e)
		assert.Assert(t, late > early)
		assert.Assert(t, early > 0)
	}
	assert.Equal(t, Penalty(0), 0.0)
	assert.Assert(t, math.Abs(Penalty(10)-(math.E-1)) < 1e-12)
	assert.Assert(t, math.Abs(Penalty(-13)-(math.E-1)) < 1e-12)
}

func Test_AccuracyMetrics(t *testing.T) {
	results := []UnitResult{
		{Unit: 1, TrueRUL: 10, PredictedRUL: 12, Error: 2},
		{Unit: 2, TrueRUL: 20, PredictedRUL: 18, Error: -2},
	}
	rmse, mae, r2 := accuracy(results)
	assert.Equal(t, rmse, 2.0)
	assert.Equal(t, mae, 2.0)
	// ssRes = 8, ssTot = 50
	assert.Assert(t, math.Abs(r2-(1-8.0/50.0)) < 1e-12)
}

func Test_AccuracyConstantTruth(t *testing.T) {
	results := []UnitResult{
		{Unit: 1, TrueRUL: 10, PredictedRUL: 11, Error: 1},
		{Unit: 2, TrueRUL: 10, PredictedRUL: 9, Error: -1},
	}
	_, _, r2 := accuracy(results)
	assert.Equal(t, r2, 0.0)
}

func trainedOnRamp(t *testing.T) (*pipeline.TrainedModel, *telemetry.Store) {
	var train, test []telemetry.Record
	for u := 1; u <= 6; u++ {
		n := 40 + u*5
		for c := 1; c <= n; c++ {
			train = append(train, rampRecord(u, c))
		}
	}
	for u := 1; u <= 3; u++ {
		for c := 1; c <= 25+u; c++ {
			test = append(test, rampRecord(u, c))
		}
	}
	trainStore, err := telemetry.NewStore(train)
	assert.NilError(t, err)
	testStore, err := telemetry.NewStore(test)
	assert.NilError(t, err)
	m, err := pipeline.Fit(trainStore, pipeline.Options{DisableTuning: true})
	assert.NilError(t, err)
	return m, testStore
}

func rampRecord(u, c int) telemetry.Record {
	r := telemetry.Record{Unit: u, Cycle: c}
	for i := range r.Sensors {
		drift := 0.05 * float64(i%5+1)
		r.Sensors[i] = 100 + 10*float64(i) + drift*float64(c) + 0.3*math.Sin(float64(c*(i+1)+u))
	}
	return r
}

func Test_EvaluateTerminalPredictions(t *testing.T) {
	m, testStore := trainedOnRamp(t)
	truth := map[int]int{1: 30, 2: 25, 3: 40}
	r, err := Evaluate(m, testStore, truth)
	assert.NilError(t, err)
	assert.Equal(t, len(r.Results), 3)
	for _, u := range r.Results {
		assert.Assert(t, u.PredictedRUL >= 0)
		assert.Equal(t, u.Error, u.PredictedRUL-u.TrueRUL)
	}
	assert.Assert(t, r.RMSE >= r.MAE)
	assert.Assert(t, !math.IsNaN(r.Score))
}

func Test_EvaluateRequiresTruth(t *testing.T) {
	m, testStore := trainedOnRamp(t)
	_, err := Evaluate(m, testStore, nil)
	assert.Assert(t, err != nil)
	_, err = Evaluate(m, testStore, map[int]int{1: 30})
	assert.Assert(t, err != nil)
}
