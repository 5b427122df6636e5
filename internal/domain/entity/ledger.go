package entity

import "sort"

// PlannedStep amount added by a single "+" press, in ml
const PlannedStep = 10

// PlannedReader read side of the planned-quantity ledger
type PlannedReader interface {
	Get(rowID int) int
}

// PlannedLedger session-scoped planned quantities keyed by row id.
// Absent entries read as 0. Entries are never removed; Set(row, 0) clears a plan.
type PlannedLedger struct {
	planned map[int]int
}

// NewPlannedLedger empty ledger
func NewPlannedLedger() *PlannedLedger {
	return &PlannedLedger{planned: make(map[int]int)}
}

// Increment adds PlannedStep to the row and returns the new value.
func (l *PlannedLedger) Increment(rowID int) int {
	if l.planned == nil {
		l.planned = make(map[int]int)
	}
	l.planned[rowID] += PlannedStep
	return l.planned[rowID]
}

// Set replaces the planned value; negative input is clamped to 0.
func (l *PlannedLedger) Set(rowID, value int) int {
	if l.planned == nil {
		l.planned = make(map[int]int)
	}
	if value < 0 {
		value = 0
	}
	l.planned[rowID] = value
	return value
}

// Get returns the planned value, 0 when unset.
func (l *PlannedLedger) Get(rowID int) int {
	if l == nil {
		return 0
	}
	return l.planned[rowID]
}

// Positive row ids with a positive plan, ascending.
func (l *PlannedLedger) Positive() []int {
	if l == nil {
		return nil
	}
	ids := make([]int, 0, len(l.planned))
	for id, v := range l.planned {
		if v > 0 {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Clone returns an independent copy.
func (l *PlannedLedger) Clone() *PlannedLedger {
	out := NewPlannedLedger()
	if l == nil {
		return out
	}
	for id, v := range l.planned {
		out.planned[id] = v
	}
	return out
}
