package pipeline

import (
	"testing"

	"gotest.tools/assert"
)

func rowUnits(counts ...int) []int {
	var rows []int
	for u, n := range counts {
		for i := 0; i < n; i++ {
			rows = append(rows, u+1)
		}
	}
	return rows
}

func Test_SplitDisjointAndCovering(t *testing.T) {
	rows := rowUnits(10, 12, 8, 15, 9)
	s := PlanSplit(rows, 0.2, 42)

	seen := make(map[int]int)
	for _, i := range s.TrainRows {
		seen[i]++
	}
	for _, i := range s.ValRows {
		seen[i]++
	}
	assert.Equal(t, len(seen), len(rows))
	for _, c := range seen {
		assert.Equal(t, c, 1)
	}

	val := map[int]bool{}
	for _, u := range s.ValUnits {
		val[u] = true
	}
	for _, i := range s.TrainRows {
		assert.Assert(t, !val[rows[i]])
	}
	for _, i := range s.ValRows {
		assert.Assert(t, val[rows[i]])
	}
}

func Test_SplitWholeUnits(t *testing.T) {
	rows := rowUnits(5, 5, 5, 5)
	s := PlanSplit(rows, 0.25, 7)
	assert.Equal(t, len(s.ValUnits), 1)
	assert.Equal(t, len(s.ValRows), 5) // all of that unit's rows, never a subset
}

func Test_SplitMinimumOneUnit(t *testing.T) {
	// 0.2 of 3 units floors to 0 and is lifted to 1
	s := PlanSplit(rowUnits(4, 4, 4), 0.2, 1)
	assert.Equal(t, len(s.ValUnits), 1)
	assert.Equal(t, len(s.ValRows), 4)
	assert.Equal(t, len(s.TrainRows), 8)
}

func Test_SplitDeterministic(t *testing.T) {
	rows := rowUnits(3, 4, 5, 6, 7)
	a := PlanSplit(rows, 0.4, 99)
	b := PlanSplit(rows, 0.4, 99)
	assert.Equal(t, len(a.ValUnits), len(b.ValUnits))
	for i := range a.ValUnits {
		assert.Equal(t, a.ValUnits[i], b.ValUnits[i])
	}
}
