// Package units implements arithmetic over types.Units, the fixed vector of
// standard resources.
package units

import (
	"fmt"
	"strings"

	"github.com/nathoo/terracore/types"
)

// Empty is the zero vector.
var Empty = types.Units{}

// resources lists every resource in display order.
var resources = []types.Resource{
	types.MegaCredits,
	types.Steel,
	types.Titanium,
	types.Plants,
	types.Energy,
	types.Heat,
}

// Resources returns every standard resource in a stable order.
func Resources() []types.Resource {
	out := make([]types.Resource, len(resources))
	copy(out, resources)
	return out
}

// IsResource reports whether name is a standard resource.
func IsResource(name string) bool {
	for _, r := range resources {
		if string(r) == name {
			return true
		}
	}
	return false
}

// Of builds a vector from a partial mapping. Missing keys are zero.
// Unknown keys are rejected.
func Of(partial map[string]int) (types.Units, error) {
	var u types.Units
	for k, v := range partial {
		if !IsResource(k) {
			return Empty, fmt.Errorf("unknown resource %q", k)
		}
		u = With(u, types.Resource(k), v)
	}
	return u, nil
}

// Get returns the component for r.
func Get(u types.Units, r types.Resource) int {
	switch r {
	case types.MegaCredits:
		return u.MegaCredits
	case types.Steel:
		return u.Steel
	case types.Titanium:
		return u.Titanium
	case types.Plants:
		return u.Plants
	case types.Energy:
		return u.Energy
	case types.Heat:
		return u.Heat
	default:
		return 0
	}
}

// With returns a copy of u with the component for r set to n.
func With(u types.Units, r types.Resource, n int) types.Units {
	switch r {
	case types.MegaCredits:
		u.MegaCredits = n
	case types.Steel:
		u.Steel = n
	case types.Titanium:
		u.Titanium = n
	case types.Plants:
		u.Plants = n
	case types.Energy:
		u.Energy = n
	case types.Heat:
		u.Heat = n
	}
	return u
}

// Add returns the componentwise sum a + b.
func Add(a, b types.Units) types.Units {
	return types.Units{
		MegaCredits: a.MegaCredits + b.MegaCredits,
		Steel:       a.Steel + b.Steel,
		Titanium:    a.Titanium + b.Titanium,
		Plants:      a.Plants + b.Plants,
		Energy:      a.Energy + b.Energy,
		Heat:        a.Heat + b.Heat,
	}
}

// Negate returns -u.
func Negate(u types.Units) types.Units {
	return types.Units{
		MegaCredits: -u.MegaCredits,
		Steel:       -u.Steel,
		Titanium:    -u.Titanium,
		Plants:      -u.Plants,
		Energy:      -u.Energy,
		Heat:        -u.Heat,
	}
}

// IsEmpty reports whether every component is zero.
func IsEmpty(u types.Units) bool {
	return u == Empty
}

// HasNegative reports whether any component is below zero.
func HasNegative(u types.Units) bool {
	for _, r := range resources {
		if Get(u, r) < 0 {
			return true
		}
	}
	return false
}

// ToMap returns the non-zero components keyed by resource name.
func ToMap(u types.Units) map[string]int {
	m := map[string]int{}
	for _, r := range resources {
		if n := Get(u, r); n != 0 {
			m[string(r)] = n
		}
	}
	return m
}

// String formats the non-zero components, e.g. "megacredits:2 steel:-1".
func String(u types.Units) string {
	var parts []string
	for _, r := range resources {
		if n := Get(u, r); n != 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", r, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
