/*
Package evaluate scores a trained model on truncated evaluation units.
Ground truth is one RUL per unit at its last observed cycle, so the
per-unit terminal prediction is what gets scored.
*/
package evaluate

import (
	"fmt"
	"math"
	"strings"

	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/features"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

/*
UnitResult is one evaluated unit: truth, terminal prediction and the
signed error (predicted - true)
*/
type UnitResult struct {
	Unit         int
	TrueRUL      float64
	PredictedRUL float64
	Error        float64
}

/*
Report aggregates the per-unit results and the four metrics
*/
type Report struct {
	Results []UnitResult
	RMSE    float64
	MAE     float64
	R2      float64
	Score   float64
}

/*
Evaluate predicts every row of every evaluation unit and scores the
per-unit terminal predictions against the supplied ground truth.
*/
func Evaluate(m *pipeline.TrainedModel, store *telemetry.Store, truth map[int]int) (*Report, error) {
	if len(truth) == 0 {
		return nil, zorros.Errorf("evaluate: no ground-truth RUL values")
	}
	frame := features.Build(store)
	preds, err := m.PredictFrame(frame)
	if err != nil {
		return nil, err
	}
	units, rows := frame.TerminalRows()
	results := make([]UnitResult, 0, len(units))
	for k, unit := range units {
		tv, ok := truth[unit]
		if !ok {
			return nil, zorros.Errorf("evaluate: no ground truth for unit %d", unit)
		}
		p := preds[rows[k]]
		results = append(results, UnitResult{
			Unit:         unit,
			TrueRUL:      float64(tv),
			PredictedRUL: p,
			Error:        p - float64(tv),
		})
	}
	r := &Report{Results: results}
	r.RMSE, r.MAE, r.R2 = accuracy(results)
	r.Score = AsymmetricScore(results)
	return r, nil
}

func accuracy(results []UnitResult) (rmse, mae, r2 float64) {
	var se, ae, tsum float64
	for _, u := range results {
		se += u.Error * u.Error
		ae += math.Abs(u.Error)
		tsum += u.TrueRUL
	}
	n := float64(len(results))
	rmse = math.Sqrt(se / n)
	mae = ae / n
	tmean := tsum / n
	var ssTot float64
	for _, u := range results {
		ssTot += (u.TrueRUL - tmean) * (u.TrueRUL - tmean)
	}
	if ssTot == 0 {
		zlog.Warning("R2 undefined for constant ground truth, reporting 0")
		return rmse, mae, 0
	}
	return rmse, mae, 1 - se/ssTot
}

/*
AsymmetricScore sums the domain penalty over units: late (optimistic)
predictions grow as exp(e/10), early (pessimistic) ones as exp(-e/13).
Overestimating remaining life before a failure is operationally worse
than underestimating it.
*/
func AsymmetricScore(results []UnitResult) float64 {
	var s float64
	for _, u := range results {
		s += Penalty(u.Error)
	}
	return s
}

// Penalty is the per-unit contribution for a signed error
func Penalty(e float64) float64 {
	if e < 0 {
		return math.Exp(-e/13) - 1
	}
	return math.Exp(e/10) - 1
}

// String renders the aggregate metrics on one line per metric
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "units:      %d\n", len(r.Results))
	fmt.Fprintf(&b, "RMSE:       %.3f\n", r.RMSE)
	fmt.Fprintf(&b, "MAE:        %.3f\n", r.MAE)
	fmt.Fprintf(&b, "R2:         %.3f\n", r.R2)
	fmt.Fprintf(&b, "asym score: %.3f", r.Score)
	return b.String()
}
