// Package globals implements the shared game-wide parameter tracks
// (temperature, oxygen, venus).
package globals

import "fmt"

// Track names.
const (
	Temperature = "temperature"
	Oxygen      = "oxygen"
	Venus       = "venus"
)

// Spec configures a track.
type Spec struct {
	Min  int `yaml:"min" json:"min"`
	Max  int `yaml:"max" json:"max"`
	Step int `yaml:"step" json:"step"`
}

// Track is a single global parameter. Value moves from Min to Max in
// increments of Step and never exceeds Max.
type Track struct {
	Name  string
	Value int
	Min   int
	Max   int
	Step  int
}

// NewTrack creates a track at its minimum.
func NewTrack(name string, spec Spec) *Track {
	step := spec.Step
	if step <= 0 {
		step = 1
	}
	return &Track{Name: name, Value: spec.Min, Min: spec.Min, Max: spec.Max, Step: step}
}

// StepsRemaining returns how many steps can still be applied before Max.
func (t *Track) StepsRemaining() int {
	if t.Value >= t.Max {
		return 0
	}
	return (t.Max - t.Value) / t.Step
}

// IsMaxed reports whether the track is at its ceiling.
func (t *Track) IsMaxed() bool {
	return t.StepsRemaining() == 0
}

// Raise advances the track by up to steps, clamped at Max. Returns the
// number of steps actually applied.
func (t *Track) Raise(steps int) int {
	if steps <= 0 {
		return 0
	}
	applied := min(steps, t.StepsRemaining())
	t.Value += applied * t.Step
	return applied
}

// Set places the track at value, clamped to [Min, Max].
func (t *Track) Set(value int) {
	t.Value = max(t.Min, min(value, t.Max))
}

// Parameters holds every global track of a game.
type Parameters struct {
	Temperature *Track
	Oxygen      *Track
	Venus       *Track
}

// New creates the three tracks from their specs.
func New(temperature, oxygen, venus Spec) *Parameters {
	return &Parameters{
		Temperature: NewTrack(Temperature, temperature),
		Oxygen:      NewTrack(Oxygen, oxygen),
		Venus:       NewTrack(Venus, venus),
	}
}

// Track returns the track with the given name.
func (p *Parameters) Track(name string) (*Track, error) {
	switch name {
	case Temperature:
		return p.Temperature, nil
	case Oxygen:
		return p.Oxygen, nil
	case Venus:
		return p.Venus, nil
	default:
		return nil, fmt.Errorf("unknown global parameter %q", name)
	}
}

// All returns the tracks in a stable order.
func (p *Parameters) All() []*Track {
	return []*Track{p.Temperature, p.Oxygen, p.Venus}
}
