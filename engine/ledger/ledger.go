// Package ledger holds per-player resource counters with guarded decrement.
package ledger

import (
	"errors"
	"fmt"

	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// ErrInsufficient is returned when a decrement would take a counter below
// its floor. The ledger is left unchanged.
var ErrInsufficient = errors.New("insufficient resources")

// Ledger is a set of counters, one per standard resource, each with a floor.
type Ledger struct {
	values types.Units
	floors types.Units
}

// New creates an empty ledger whose floors are all zero.
func New() *Ledger {
	return &Ledger{}
}

// WithFloors creates an empty ledger with the given per-resource floors.
// Floors above zero are treated as zero.
func WithFloors(floors types.Units) *Ledger {
	l := &Ledger{}
	for _, r := range units.Resources() {
		if f := units.Get(floors, r); f < 0 {
			l.floors = units.With(l.floors, r, f)
		}
	}
	return l
}

// Get returns the current counter for r.
func (l *Ledger) Get(r types.Resource) int {
	return units.Get(l.values, r)
}

// Floor returns the lowest value the counter for r may reach.
func (l *Ledger) Floor(r types.Resource) int {
	return units.Get(l.floors, r)
}

// Units returns a snapshot of every counter.
func (l *Ledger) Units() types.Units {
	return l.values
}

// CanAdd reports whether applying delta keeps every counter at or above
// its floor.
func (l *Ledger) CanAdd(delta types.Units) bool {
	for _, r := range units.Resources() {
		if units.Get(l.values, r)+units.Get(delta, r) < units.Get(l.floors, r) {
			return false
		}
	}
	return true
}

// Add changes the counter for r by n. A change that would go below the
// floor is refused.
func (l *Ledger) Add(r types.Resource, n int) error {
	next := units.Get(l.values, r) + n
	if n < 0 && next < units.Get(l.floors, r) {
		return fmt.Errorf("%s: have %d, need %d: %w", r, units.Get(l.values, r), -n, ErrInsufficient)
	}
	l.values = units.With(l.values, r, next)
	return nil
}

// AddUnits applies delta atomically: either every component is applied or
// none is.
func (l *Ledger) AddUnits(delta types.Units) error {
	if !l.CanAdd(delta) {
		return fmt.Errorf("applying %s to %s: %w", units.String(delta), units.String(l.values), ErrInsufficient)
	}
	l.values = units.Add(l.values, delta)
	return nil
}

// Set overwrites the counter for r. Used when restoring saved games and in
// test setup.
func (l *Ledger) Set(r types.Resource, n int) {
	l.values = units.With(l.values, r, n)
}

// Restore overwrites every counter.
func (l *Ledger) Restore(values types.Units) {
	l.values = values
}
