/*
Package telemetry holds per-unit run-to-failure sensor timelines and
their RUL (remaining useful life) labels.
*/
package telemetry

import (
	"sort"

	"go-ml.dev/pkg/zorros"
)

const (
	// SettingCount is the number of operational setting channels per record
	SettingCount = 3
	// SensorCount is the number of sensor channels per record
	SensorCount = 21
	// DefaultRULCap is the default ceiling applied to training RUL targets
	DefaultRULCap = 125
)

/*
Record is one per-cycle telemetry row of one unit. Immutable once loaded.
*/
type Record struct {
	Unit     int
	Cycle    int
	Settings [SettingCount]float64
	Sensors  [SensorCount]float64
}

/*
UnitTimeline is the ordered cycle history of a single unit
*/
type UnitTimeline struct {
	Unit    int
	Records []Record
}

func (u UnitTimeline) Len() int { return len(u.Records) }

// MaxCycle returns the last observed cycle of the unit
func (u UnitTimeline) MaxCycle() int {
	return u.Records[len(u.Records)-1].Cycle
}

// MinCycle returns the first observed cycle of the unit
func (u UnitTimeline) MinCycle() int {
	return u.Records[0].Cycle
}

/*
Store keeps unit timelines ordered by ascending unit id.
It is the foundation every grouped computation iterates over.
*/
type Store struct {
	units []UnitTimeline
	index map[int]int
	rows  int
}

/*
NewStore groups records into per-unit timelines. Records must be sortable
by (unit, cycle); within a unit cycles must be strictly increasing.
*/
func NewStore(records []Record) (*Store, error) {
	if len(records) == 0 {
		return nil, zorros.Errorf("telemetry store: no records")
	}
	rs := make([]Record, len(records))
	copy(rs, records)
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Unit != rs[j].Unit {
			return rs[i].Unit < rs[j].Unit
		}
		return rs[i].Cycle < rs[j].Cycle
	})
	s := &Store{index: map[int]int{}}
	for i := 0; i < len(rs); {
		j := i
		for j < len(rs) && rs[j].Unit == rs[i].Unit {
			if j > i && rs[j].Cycle <= rs[j-1].Cycle {
				return nil, zorros.Errorf("telemetry store: unit %d has duplicate cycle %d", rs[j].Unit, rs[j].Cycle)
			}
			j++
		}
		s.index[rs[i].Unit] = len(s.units)
		s.units = append(s.units, UnitTimeline{Unit: rs[i].Unit, Records: rs[i:j]})
		i = j
	}
	s.rows = len(rs)
	return s, nil
}

// Units returns the timelines in ascending unit id order
func (s *Store) Units() []UnitTimeline { return s.units }

// Unit returns the timeline of one unit if present
func (s *Store) Unit(id int) (UnitTimeline, bool) {
	if i, ok := s.index[id]; ok {
		return s.units[i], true
	}
	return UnitTimeline{}, false
}

// Len returns the number of units
func (s *Store) Len() int { return len(s.units) }

// Rows returns the total number of records across all units
func (s *Store) Rows() int { return s.rows }

/*
Targets computes the per-row training RUL labels in store row order:
maxCycle - cycle, capped at capAt when capAt > 0. The cap applies to
training targets only, never to evaluation ground truth.
*/
func Targets(s *Store, capAt int) []float64 {
	t := make([]float64, 0, s.Rows())
	for _, u := range s.units {
		m := u.MaxCycle()
		for _, r := range u.Records {
			rul := m - r.Cycle
			if capAt > 0 && rul > capAt {
				rul = capAt
			}
			t = append(t, float64(rul))
		}
	}
	return t
}

/*
TerminalLabels pairs one ground-truth RUL per unit with the store's units.
The label file is positional: value k belongs to unit id k+1, so the store
must hold exactly len(ruls) units with contiguous ids starting at 1 —
anything else is a label misalignment and fails loudly.
*/
func (s *Store) TerminalLabels(ruls []int) (map[int]int, error) {
	if len(ruls) != s.Len() {
		return nil, zorros.Errorf("terminal labels: %d labels for %d units", len(ruls), s.Len())
	}
	truth := make(map[int]int, len(ruls))
	for i, u := range s.units {
		if u.Unit != i+1 {
			return nil, zorros.Errorf("terminal labels: unit ids not contiguous from 1, found %d at position %d", u.Unit, i)
		}
		if ruls[i] < 0 {
			return nil, zorros.Errorf("terminal labels: negative RUL %d for unit %d", ruls[i], u.Unit)
		}
		truth[u.Unit] = ruls[i]
	}
	return truth, nil
}
