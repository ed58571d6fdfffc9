/*
Package features turns raw unit timelines into a flat feature frame:
the original setting/sensor columns plus rolling, degradation, trend,
cycle-position, cross-sensor and per-unit statistical columns.
*/
package features

import (
	"go-ml.dev/pkg/zorros"
)

/*
Frame is a column-major feature matrix. Identifiers (unit, cycle) and the
target live outside the named columns, so every named column is a model
feature candidate by construction.
*/
type Frame struct {
	Units  []int
	Cycles []int
	Names  []string
	Cols   [][]float64
	Target []float64
	index  map[string]int
}

// NewFrame returns an empty frame with row capacity for rows records
func NewFrame(rows int) *Frame {
	return &Frame{
		Units:  make([]int, 0, rows),
		Cycles: make([]int, 0, rows),
		index:  map[string]int{},
	}
}

// Rows returns the number of rows in the frame
func (f *Frame) Rows() int { return len(f.Units) }

// Col returns the column values by name, nil if absent
func (f *Frame) Col(name string) []float64 {
	if i, ok := f.index[name]; ok {
		return f.Cols[i]
	}
	return nil
}

// Add appends a named column; duplicate names are a programming error
func (f *Frame) Add(name string, col []float64) {
	if _, ok := f.index[name]; ok {
		panic(zorros.Panic(zorros.Errorf("duplicate feature column `%v`", name)))
	}
	f.index[name] = len(f.Names)
	f.Names = append(f.Names, name)
	f.Cols = append(f.Cols, col)
}

/*
Matrix materializes a row-major matrix restricted to the named columns,
in the given order. A missing column is an error: inference must use
exactly the columns selected at training time.
*/
func (f *Frame) Matrix(names []string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for j, name := range names {
		c := f.Col(name)
		if c == nil {
			return nil, zorros.Errorf("feature frame has no column `%v`", name)
		}
		cols[j] = c
	}
	x := make([][]float64, f.Rows())
	for i := range x {
		row := make([]float64, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		x[i] = row
	}
	return x, nil
}

/*
TerminalRows returns, per unit in row order, the index of the unit's last
row together with the unit id.
*/
func (f *Frame) TerminalRows() (units []int, rows []int) {
	for i := 0; i < len(f.Units); i++ {
		if i == len(f.Units)-1 || f.Units[i+1] != f.Units[i] {
			units = append(units, f.Units[i])
			rows = append(rows, i)
		}
	}
	return
}
