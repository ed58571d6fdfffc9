package pipeline

import (
	"math/rand"
	"sort"

	"github.com/LCal-20/Predicitive-Maintenance-Engine-Degradation/fu"
)

/*
Split partitions training rows at the unit level: every row of a
validation unit is a validation row, so no degradation trajectory leaks
across the boundary.
*/
type Split struct {
	TrainRows []int
	ValRows   []int
	ValUnits  []int
}

/*
PlanSplit assigns max(1, int(fraction*units)) whole units to validation
using a seeded shuffle; rowUnits is the per-row unit id sequence.
*/
func PlanSplit(rowUnits []int, fraction float64, seed int64) Split {
	var units []int
	seen := map[int]bool{}
	for _, u := range rowUnits {
		if !seen[u] {
			seen[u] = true
			units = append(units, u)
		}
	}
	k := fu.Maxi(1, int(fraction*float64(len(units))))
	if k > len(units) {
		k = len(units)
	}
	rng := rand.New(rand.NewSource(seed))
	perm := rng.Perm(len(units))
	val := map[int]bool{}
	s := Split{}
	for _, p := range perm[:k] {
		val[units[p]] = true
		s.ValUnits = append(s.ValUnits, units[p])
	}
	sort.Ints(s.ValUnits)
	for i, u := range rowUnits {
		if val[u] {
			s.ValRows = append(s.ValRows, i)
		} else {
			s.TrainRows = append(s.TrainRows, i)
		}
	}
	return s
}
