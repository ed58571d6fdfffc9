/*
Package plot renders run diagnostics as PNG charts.
*/
package plot

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/evaluate"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/features"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/pipeline"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

/*
PredictedVsTrue draws the per-unit terminal predictions against ground
truth with the identity line for reference
*/
func PredictedVsTrue(path string, r *evaluate.Report) error {
	p := plot.New()
	p.Title.Text = "Terminal RUL: predicted vs true"
	p.X.Label.Text = "true RUL"
	p.Y.Label.Text = "predicted RUL"

	xys := make(plotter.XYs, len(r.Results))
	hi := 0.0
	for i, u := range r.Results {
		xys[i].X = u.TrueRUL
		xys[i].Y = u.PredictedRUL
		if u.TrueRUL > hi {
			hi = u.TrueRUL
		}
		if u.PredictedRUL > hi {
			hi = u.PredictedRUL
		}
	}
	sc, err := plotter.NewScatter(xys)
	if err != nil {
		return err
	}
	sc.GlyphStyle.Color = color.RGBA{R: 20, G: 80, B: 200, A: 220}
	sc.GlyphStyle.Radius = vg.Points(2.4)
	p.Add(sc)
	p.Legend.Add("units", sc)

	ident, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: hi, Y: hi}})
	if err != nil {
		return err
	}
	ident.Color = color.RGBA{R: 120, G: 120, B: 120, A: 180}
	p.Add(ident, plotter.NewGrid())

	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}

/*
ImportanceBars draws the top-n selected features by split gain
*/
func ImportanceBars(path string, imp []pipeline.Importance, n int) error {
	if n > len(imp) {
		n = len(imp)
	}
	vals := make(plotter.Values, n)
	names := make([]string, n)
	for i := 0; i < n; i++ {
		vals[i] = imp[i].Score
		names[i] = imp[i].Name
	}
	p := plot.New()
	p.Title.Text = "Feature importance (split gain)"
	p.Y.Label.Text = "gain"
	bars, err := plotter.NewBarChart(vals, vg.Points(14))
	if err != nil {
		return err
	}
	bars.Color = color.RGBA{R: 40, G: 120, B: 40, A: 255}
	p.Add(bars)
	p.NominalX(names...)
	p.X.Tick.Label.Rotation = 1.2
	p.X.Tick.Label.XAlign = -0.9
	return p.Save(10*vg.Inch, 6*vg.Inch, path)
}

/*
Trajectories draws predicted RUL against cycle for the first maxUnits
evaluation units
*/
func Trajectories(path string, m *pipeline.TrainedModel, store *telemetry.Store, maxUnits int) error {
	frame := features.Build(store)
	preds, err := m.PredictFrame(frame)
	if err != nil {
		return err
	}
	p := plot.New()
	p.Title.Text = "Predicted RUL trajectories"
	p.X.Label.Text = "cycle"
	p.Y.Label.Text = "predicted RUL"

	drawn := 0
	for i := 0; i < frame.Rows() && drawn < maxUnits; {
		j := i
		for j < frame.Rows() && frame.Units[j] == frame.Units[i] {
			j++
		}
		xys := make(plotter.XYs, j-i)
		for k := i; k < j; k++ {
			xys[k-i].X = float64(frame.Cycles[k])
			xys[k-i].Y = preds[k]
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return err
		}
		line.Color = color.RGBA{R: 40, G: 120, B: 40, A: uint8(100 + (drawn%5)*30)}
		line.Width = vg.Points(0.8)
		p.Add(line)
		if drawn == 0 {
			p.Legend.Add("units (sample)", line)
		}
		drawn++
		i = j
	}
	p.Add(plotter.NewGrid())
	return p.Save(8*vg.Inch, 6*vg.Inch, path)
}
