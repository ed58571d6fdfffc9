package features

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/telemetry"
)

// Epsilon guards every ratio denominator in the engine
const Epsilon = 1e-8

const (
	rollingChannels     = 8
	degradationChannels = 10
	trendChannels       = 8
	unitStatChannels    = 6
	baselineCycles      = 5
	minStdWindow        = 5
)

var (
	rollingWindows = []int{3, 5, 7}
	trendLags      = []int{1, 3, 5}
)

// unitView is the per-unit slice of the store the column builders consume
type unitView struct {
	cycles  []float64
	sensors [telemetry.SensorCount][]float64
}

type columnSpec struct {
	name  string
	build func(u unitView) []float64
}

/*
Build computes the feature frame for a store. Rolling, trend and
degradation columns are causal: the value at cycle t of a unit depends
only on that unit's records at cycles <= t. Cycle-position and per-unit
statistic columns use the unit's observed extent, which for evaluation
units is the truncation point, never the true failure cycle.
*/
func Build(s *telemetry.Store) *Frame {
	f := NewFrame(s.Rows())
	views := make([]unitView, 0, s.Len())
	for _, u := range s.Units() {
		v := unitView{cycles: make([]float64, u.Len())}
		for i := range v.sensors {
			v.sensors[i] = make([]float64, u.Len())
		}
		for t, r := range u.Records {
			v.cycles[t] = float64(r.Cycle)
			for i, x := range r.Sensors {
				v.sensors[i][t] = x
			}
			f.Units = append(f.Units, u.Unit)
			f.Cycles = append(f.Cycles, r.Cycle)
		}
		views = append(views, v)
	}

	for i := 0; i < telemetry.SettingCount; i++ {
		col := make([]float64, 0, s.Rows())
		for _, u := range s.Units() {
			for _, r := range u.Records {
				col = append(col, r.Settings[i])
			}
		}
		f.Add(fmt.Sprintf("setting_%d", i+1), col)
	}
	for i := 0; i < telemetry.SensorCount; i++ {
		col := make([]float64, 0, s.Rows())
		for _, v := range views {
			col = append(col, v.sensors[i]...)
		}
		f.Add(fmt.Sprintf("sensor_%d", i+1), col)
	}

	for _, spec := range columnSpecs() {
		col := make([]float64, 0, s.Rows())
		for _, v := range views {
			col = append(col, spec.build(v)...)
		}
		f.Add(spec.name, col)
	}
	return f
}

/*
columnSpecs enumerates every derived column: the feature set is fixed at
compile time, only the data varies.
*/
func columnSpecs() (specs []columnSpec) {
	for ch := 0; ch < rollingChannels; ch++ {
		ch := ch
		for _, w := range rollingWindows {
			w := w
			specs = append(specs, columnSpec{
				name:  fmt.Sprintf("sensor_%d_rmean_%d", ch+1, w),
				build: func(u unitView) []float64 { return rollingMean(u.sensors[ch], w) },
			})
			if w >= minStdWindow {
				specs = append(specs, columnSpec{
					name:  fmt.Sprintf("sensor_%d_rstd_%d", ch+1, w),
					build: func(u unitView) []float64 { return rollingStd(u.sensors[ch], w) },
				})
			}
		}
	}
	for ch := 0; ch < degradationChannels; ch++ {
		ch := ch
		specs = append(specs,
			columnSpec{
				name:  fmt.Sprintf("sensor_%d_deg", ch+1),
				build: func(u unitView) []float64 { return degradation(u.sensors[ch], false) },
			},
			columnSpec{
				name:  fmt.Sprintf("sensor_%d_deg_rel", ch+1),
				build: func(u unitView) []float64 { return degradation(u.sensors[ch], true) },
			})
	}
	for ch := 0; ch < trendChannels; ch++ {
		ch := ch
		for _, lag := range trendLags {
			lag := lag
			specs = append(specs, columnSpec{
				name:  fmt.Sprintf("sensor_%d_pct_%d", ch+1, lag),
				build: func(u unitView) []float64 { return pctChange(u.sensors[ch], lag) },
			})
		}
	}
	specs = append(specs,
		columnSpec{name: "cycle_norm", build: cycleNorm},
		columnSpec{name: "unit_max_cycle", build: unitMaxCycle},
		columnSpec{name: "cycles_remaining_frac", build: cyclesRemainingFrac},
		// cross-sensor physics ratios over fixed channel pairs:
		// T24/T30, T30/T50, P15/P30 and the Nf*Nc vs corrected speeds indicator
		columnSpec{name: "temp_ratio_1", build: func(u unitView) []float64 { return ratio(u.sensors[1], u.sensors[2]) }},
		columnSpec{name: "temp_ratio_2", build: func(u unitView) []float64 { return ratio(u.sensors[2], u.sensors[3]) }},
		columnSpec{name: "pressure_ratio", build: func(u unitView) []float64 { return ratio(u.sensors[5], u.sensors[6]) }},
		columnSpec{name: "efficiency_ind", build: efficiencyInd},
	)
	for ch := 0; ch < unitStatChannels; ch++ {
		ch := ch
		specs = append(specs,
			columnSpec{
				name:  fmt.Sprintf("sensor_%d_umean", ch+1),
				build: func(u unitView) []float64 { return unitStat(u.sensors[ch], statMean) },
			},
			columnSpec{
				name:  fmt.Sprintf("sensor_%d_ustd", ch+1),
				build: func(u unitView) []float64 { return unitStat(u.sensors[ch], statStd) },
			},
			columnSpec{
				name:  fmt.Sprintf("sensor_%d_udev", ch+1),
				build: func(u unitView) []float64 { return unitStat(u.sensors[ch], statDev) },
			})
	}
	return
}

// rollingMean is the causal rolling mean over the trailing window,
// shrinking to the available history at the start of the unit.
func rollingMean(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for t := range series {
		lo := fu.Maxi(0, t-window+1)
		out[t] = stat.Mean(series[lo:t+1], nil)
	}
	return out
}

// rollingStd is the causal sample standard deviation over the trailing
// window; a single-sample window yields 0, not NaN.
func rollingStd(series []float64, window int) []float64 {
	out := make([]float64, len(series))
	for t := range series {
		lo := fu.Maxi(0, t-window+1)
		if t+1-lo < 2 {
			out[t] = 0
			continue
		}
		out[t] = stat.StdDev(series[lo:t+1], nil)
	}
	return out
}

// degradation measures drift from the unit's early-life baseline,
// the mean of the first min(5, len) cycles.
func degradation(series []float64, relative bool) []float64 {
	n := fu.Mini(baselineCycles, len(series))
	base := stat.Mean(series[:n], nil)
	out := make([]float64, len(series))
	for t, x := range series {
		if relative {
			out[t] = (x - base) / (base + Epsilon)
		} else {
			out[t] = x - base
		}
	}
	return out
}

// pctChange is the causal percent change over lag cycles; the first lag
// cycles have no reference and default to 0.
func pctChange(series []float64, lag int) []float64 {
	out := make([]float64, len(series))
	for t := lag; t < len(series); t++ {
		prev := series[t-lag]
		out[t] = (series[t] - prev) / (prev + Epsilon)
	}
	return out
}

func cycleNorm(u unitView) []float64 {
	lo, hi := u.cycles[0], u.cycles[len(u.cycles)-1]
	out := make([]float64, len(u.cycles))
	for t, c := range u.cycles {
		out[t] = (c - lo) / (hi - lo + Epsilon)
	}
	return out
}

func unitMaxCycle(u unitView) []float64 {
	hi := u.cycles[len(u.cycles)-1]
	out := make([]float64, len(u.cycles))
	for t := range out {
		out[t] = hi
	}
	return out
}

func cyclesRemainingFrac(u unitView) []float64 {
	hi := u.cycles[len(u.cycles)-1]
	out := make([]float64, len(u.cycles))
	for t, c := range u.cycles {
		out[t] = (hi - c) / (hi + Epsilon)
	}
	return out
}

func ratio(num, den []float64) []float64 {
	out := make([]float64, len(num))
	for t := range num {
		out[t] = num[t] / (den[t] + Epsilon)
	}
	return out
}

func efficiencyInd(u unitView) []float64 {
	nf, nc := u.sensors[7], u.sensors[8]
	nfc, ncc := u.sensors[12], u.sensors[13]
	out := make([]float64, len(nf))
	for t := range out {
		out[t] = nf[t] * nc[t] / (nfc[t]*ncc[t] + Epsilon)
	}
	return out
}

type statKind int

const (
	statMean statKind = iota
	statStd
	statDev
)

func unitStat(series []float64, kind statKind) []float64 {
	mean, std := stat.MeanStdDev(series, nil)
	if len(series) < 2 {
		std = 0
	}
	out := make([]float64, len(series))
	for t, x := range series {
		switch kind {
		case statMean:
			out[t] = mean
		case statStd:
			out[t] = std
		default:
			out[t] = x - mean
		}
	}
	return out
}
