package pipeline

import (
	"sort"

	"go-ml.dev/pkg/zorros"
	"go-ml.dev/pkg/zorros/zlog"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/boost"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/features"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

const (
	// DefaultValidationFraction of units held out for tuning
	DefaultValidationFraction = 0.2
	// DefaultSeed for the unit-level split shuffle
	DefaultSeed = 42
)

/*
Options configure a training run. Zero values take the documented defaults.
*/
type Options struct {
	RULCap             int     // training target ceiling, <0 disables capping
	TopFeatures        int     // selected feature count
	ValidationFraction float64 // fraction of units held out
	Seed               int64   // split shuffle seed
	DisableTuning      bool    // use boost.DefaultConfig directly
	Workers            int     // tuning fan-out, 0 = NumCPU
}

func (o Options) withDefaults() Options {
	if o.RULCap == 0 {
		o.RULCap = telemetry.DefaultRULCap
	}
	o.TopFeatures = fu.Fnzi(o.TopFeatures, DefaultTopFeatures)
	o.ValidationFraction = fu.Fnzd(o.ValidationFraction, DefaultValidationFraction)
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	return o
}

/*
FeaturizedData is the engineered frame with training targets attached
*/
type FeaturizedData struct {
	Frame *features.Frame
}

/*
SelectedFeatures freezes the feature subset chosen on training data
*/
type SelectedFeatures struct {
	FeaturizedData
	Names  []string
	Scores []FeatureScore
}

/*
PreparedData carries the normalized matrix and the unit-level split
*/
type PreparedData struct {
	SelectedFeatures
	Norm  *Normalizer
	X     [][]float64
	Split Split
}

/*
Importance pairs a selected feature with its split-gain score
*/
type Importance struct {
	Name  string
	Score float64
}

/*
TrainedModel owns the frozen state inference depends on: the selected
feature names, the fitted normalization parameters and the fitted
ensemble. Nothing here is mutated after Fit returns.
*/
type TrainedModel struct {
	Features   []string
	Scores     []FeatureScore
	Norm       *Normalizer
	Ensemble   *boost.Regressor
	Config     boost.Config
	Importance []Importance
}

/*
Featurize builds the feature frame and capped RUL targets for a
training store
*/
func Featurize(store *telemetry.Store, rulCap int) (FeaturizedData, error) {
	if store == nil || store.Rows() == 0 {
		return FeaturizedData{}, zorros.Errorf("featurize: no training data")
	}
	frame := features.Build(store)
	if rulCap < 0 {
		rulCap = 0
	}
	frame.Target = telemetry.Targets(store, rulCap)
	return FeaturizedData{Frame: frame}, nil
}

/*
Select scores every candidate column and keeps the top n
*/
func Select(d FeaturizedData, n int) (SelectedFeatures, error) {
	names, scores, err := SelectFeatures(d.Frame, n)
	if err != nil {
		return SelectedFeatures{}, err
	}
	return SelectedFeatures{FeaturizedData: d, Names: names, Scores: scores}, nil
}

/*
Prepare fits the normalizer on the selected columns and plans the
unit-level split
*/
func Prepare(d SelectedFeatures, fraction float64, seed int64) (PreparedData, error) {
	norm, err := FitNormalizer(d.Frame, d.Names)
	if err != nil {
		return PreparedData{}, err
	}
	x, err := norm.Transform(d.Frame)
	if err != nil {
		return PreparedData{}, err
	}
	return PreparedData{
		SelectedFeatures: d,
		Norm:             norm,
		X:                x,
		Split:            PlanSplit(d.Frame.Units, fraction, seed),
	}, nil
}

/*
Train tunes the ensemble on the split (unless tuning is disabled) and
refits the winning configuration on every training row
*/
func Train(d PreparedData, opt Options) (*TrainedModel, error) {
	cfg := boost.DefaultConfig()
	if !opt.DisableTuning {
		var err error
		cfg, _, err = boost.Tune(d.X, d.Frame.Target, d.Split.TrainRows, d.Split.ValRows,
			boost.Grid(), opt.Workers, func(s string) { zlog.Info(s) })
		if err != nil {
			return nil, err
		}
		zlog.Infof("tuning winner: depth=%d lr=%.2f trees=%d", cfg.MaxDepth, cfg.LearningRate, cfg.Trees)
	}
	ens, err := boost.Fit(d.X, d.Frame.Target, cfg)
	if err != nil {
		return nil, err
	}
	imp := make([]Importance, len(d.Names))
	for i, g := range ens.FeatureGain() {
		imp[i] = Importance{Name: d.Names[i], Score: g}
	}
	sort.SliceStable(imp, func(i, j int) bool { return imp[i].Score > imp[j].Score })
	return &TrainedModel{
		Features:   d.Names,
		Scores:     d.Scores,
		Norm:       d.Norm,
		Ensemble:   ens,
		Config:     cfg,
		Importance: imp,
	}, nil
}

/*
Fit runs the whole training flow: featurize, select, normalize, split,
tune, train
*/
func Fit(store *telemetry.Store, opt Options) (*TrainedModel, error) {
	opt = opt.withDefaults()
	raw, err := Featurize(store, opt.RULCap)
	if err != nil {
		return nil, err
	}
	zlog.Infof("featurized %d rows across %d units into %d candidate columns",
		raw.Frame.Rows(), store.Len(), len(raw.Frame.Names))
	sel, err := Select(raw, opt.TopFeatures)
	if err != nil {
		return nil, err
	}
	zlog.Infof("selected %d features, best `%v` (%.3f)", len(sel.Names), sel.Names[0], sel.Scores[0].Score)
	prep, err := Prepare(sel, opt.ValidationFraction, opt.Seed)
	if err != nil {
		return nil, err
	}
	zlog.Infof("split: %d train rows, %d validation rows over units %v",
		len(prep.Split.TrainRows), len(prep.Split.ValRows), prep.Split.ValUnits)
	return Train(prep, opt)
}

/*
LuckyFit is like Fit but throws occurred errors as a panic
*/
func LuckyFit(store *telemetry.Store, opt Options) *TrainedModel {
	m, err := Fit(store, opt)
	if err != nil {
		panic(zorros.Panic(err))
	}
	return m
}

/*
Predict runs inference over every row of a store using the frozen
feature list and normalization parameters, clipping predictions to be
non-negative.
*/
func (m *TrainedModel) Predict(store *telemetry.Store) ([]float64, error) {
	if store == nil || store.Rows() == 0 {
		return nil, zorros.Errorf("predict: no data")
	}
	return m.PredictFrame(features.Build(store))
}

/*
PredictFrame is Predict over an already engineered frame
*/
func (m *TrainedModel) PredictFrame(f *features.Frame) ([]float64, error) {
	x, err := m.Norm.Transform(f)
	if err != nil {
		return nil, err
	}
	preds := m.Ensemble.PredictAll(x)
	for i, p := range preds {
		preds[i] = fu.ClipMin(p, 0)
	}
	return preds, nil
}
