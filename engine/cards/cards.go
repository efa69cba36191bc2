// Package cards implements runtime card instances, their resource counters,
// and the draw deck.
package cards

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/terracore/types"
)

var (
	// ErrCannotHold is returned when resources are placed on a card that
	// has no resource type.
	ErrCannotHold = errors.New("card cannot hold resources")
	// ErrNegativeCount is returned when removing more resources than a
	// card holds.
	ErrNegativeCount = errors.New("card resource count would go negative")
)

// Instance is a card in play or in a deck.
type Instance struct {
	ID            string
	Def           *types.CardDef
	ResourceType  types.CardResource // declared type; empty falls back to Def.Resource
	ResourceCount int
}

// New creates an instance of def with a fresh ID.
func New(def *types.CardDef) *Instance {
	return &Instance{ID: uuid.NewString(), Def: def}
}

// Key returns the catalog ID of the card.
func (c *Instance) Key() string {
	return c.Def.ID
}

// Name returns the display name of the card.
func (c *Instance) Name() string {
	if c.Def.Name != "" {
		return c.Def.Name
	}
	return c.Def.ID
}

// HasTag reports whether the card carries tag.
func (c *Instance) HasTag(tag types.Tag) bool {
	for _, t := range c.Def.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// EffectiveResourceType returns the declared type, or the fixed catalog
// type when none has been declared yet.
func (c *Instance) EffectiveResourceType() types.CardResource {
	if c.ResourceType != types.ResourceNone {
		return c.ResourceType
	}
	return c.Def.Resource
}

// CanHold reports whether the card can hold resources of type r.
func (c *Instance) CanHold(r types.CardResource) bool {
	if r == types.ResourceNone {
		return false
	}
	return c.EffectiveResourceType() == r
}

// AddResources changes the resource count by n, declaring the card's
// resource type from its catalog type when unset.
func (c *Instance) AddResources(n int) error {
	if c.ResourceType == types.ResourceNone {
		if c.Def.Resource == types.ResourceNone {
			return fmt.Errorf("%s: %w", c.Name(), ErrCannotHold)
		}
		c.ResourceType = c.Def.Resource
	}
	if c.ResourceCount+n < 0 {
		return fmt.Errorf("%s holds %d: %w", c.Name(), c.ResourceCount, ErrNegativeCount)
	}
	c.ResourceCount += n
	return nil
}

// Filter selects cards by tag and type. Zero fields match anything.
type Filter struct {
	Tag  types.Tag
	Type types.CardType
}

// IsZero reports whether the filter matches every card.
func (f Filter) IsZero() bool {
	return f.Tag == "" && f.Type == ""
}

// Matches reports whether c satisfies every set field of the filter.
func (f Filter) Matches(c *Instance) bool {
	if f.Tag != "" && !c.HasTag(f.Tag) {
		return false
	}
	if f.Type != "" && c.Def.Type != f.Type {
		return false
	}
	return true
}
