package loader

import (
	"fmt"
	"strings"

	"github.com/nathoo/terracore/engine/requirements"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

// ValidationError collects all validation errors and warnings.
type ValidationError struct {
	Errors   []string
	Warnings []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed with %d error(s):\n  %s",
		len(e.Errors), strings.Join(e.Errors, "\n  "))
}

var validCardTypes = map[types.CardType]bool{
	types.CardAutomated:   true,
	types.CardActive:      true,
	types.CardEvent:       true,
	types.CardCorporation: true,
	types.CardPrelude:     true,
}

var validTags = map[types.Tag]bool{
	types.TagBuilding: true,
	types.TagSpace:    true,
	types.TagScience:  true,
	types.TagEnergy:   true,
	types.TagEarth:    true,
	types.TagJovian:   true,
	types.TagVenus:    true,
	types.TagPlant:    true,
	types.TagMicrobe:  true,
	types.TagAnimal:   true,
	types.TagCity:     true,
	types.TagEvent:    true,
	types.TagWild:     true,
}

var validResources = map[types.CardResource]bool{
	types.ResourceMicrobe:  true,
	types.ResourceAnimal:   true,
	types.ResourceFloater:  true,
	types.ResourceScience:  true,
	types.ResourceFighter:  true,
	types.ResourceAsteroid: true,
	types.ResourceData:     true,
}

// validate checks the compiled catalog for consistency. Warnings are
// returned even when validation fails.
func validate(defs *state.Defs) ([]string, error) {
	ve := &ValidationError{}

	if defs.Game.Title == "" {
		ve.Errors = append(ve.Errors, "Game.Title is required")
	}
	if len(defs.Order) == 0 {
		ve.Errors = append(ve.Errors, "catalog defines no cards")
	}

	checker, err := requirements.New()
	if err != nil {
		return nil, fmt.Errorf("building requirement checker: %w", err)
	}

	for _, id := range defs.Order {
		def := defs.Cards[id]
		errorf := func(format string, args ...any) {
			ve.Errors = append(ve.Errors, fmt.Sprintf("card %q: ", id)+fmt.Sprintf(format, args...))
		}

		if !validCardTypes[def.Type] {
			errorf("unknown type %q", def.Type)
		}
		for _, tag := range def.Tags {
			if !validTags[tag] {
				errorf("unknown tag %q", tag)
			}
		}
		if def.Resource != types.ResourceNone && !validResources[def.Resource] {
			errorf("unknown resource %q", def.Resource)
		}
		if def.Cost < 0 {
			errorf("cost %d is negative", def.Cost)
		}
		if def.Requires != "" {
			if err := checker.Compile(def.Requires); err != nil {
				errorf("requires: %v", err)
			}
		}
		if def.Behavior != nil {
			validateBehavior(def, errorf)
		}

		if def.Name == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q has no name", id))
		}
		if def.Behavior == nil && def.Text == "" {
			ve.Warnings = append(ve.Warnings, fmt.Sprintf("card %q has neither behavior nor text", id))
		}
	}

	if len(ve.Errors) > 0 {
		return ve.Warnings, ve
	}
	return ve.Warnings, nil
}

func validateBehavior(def *types.CardDef, errorf func(string, ...any)) {
	b := def.Behavior

	if dc := b.DrawCard; dc != nil {
		if dc.Count <= 0 {
			errorf("drawCard count must be positive, got %d", dc.Count)
		}
		if dc.Keep < 0 || dc.Keep > dc.Count {
			errorf("drawCard keep %d out of range 0..%d", dc.Keep, dc.Count)
		}
		if dc.Tag != "" && !validTags[dc.Tag] {
			errorf("drawCard tag %q is unknown", dc.Tag)
		}
		if dc.Type != "" && !validCardTypes[dc.Type] {
			errorf("drawCard type %q is unknown", dc.Type)
		}
		if dc.Resource != types.ResourceNone && !validResources[dc.Resource] {
			errorf("drawCard resource %q is unknown", dc.Resource)
		}
	}

	if b.AddResources != 0 && def.Resource == types.ResourceNone {
		errorf("addResources needs a card resource type")
	}

	if ac := b.AddResourcesToAnyCard; ac != nil {
		if !validResources[ac.Type] {
			errorf("addResourcesToAnyCard type %q is unknown", ac.Type)
		}
		if ac.Count <= 0 {
			errorf("addResourcesToAnyCard count must be positive, got %d", ac.Count)
		}
		if ac.Tag != "" && !validTags[ac.Tag] {
			errorf("addResourcesToAnyCard tag %q is unknown", ac.Tag)
		}
	}

	for _, v := range []struct {
		name string
		n    int
	}{
		{"steelValue", b.SteelValue},
		{"titaniumValue", b.TitaniumValue},
		{"greeneryDiscount", b.GreeneryDiscount},
	} {
		if v.n < 0 {
			errorf("%s must not be negative, got %d", v.name, v.n)
		}
	}
}
