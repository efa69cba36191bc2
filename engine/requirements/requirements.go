// Package requirements evaluates card requirement expressions. Expressions
// are CEL over the playing player's tags, resources and terraform rating
// and the global tracks, e.g. "tags.energy >= 2" or "oxygen >= 5".
package requirements

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/nathoo/terracore/engine/globals"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// ErrNotBool is returned when an expression does not produce a boolean.
var ErrNotBool = errors.New("requirement must evaluate to a bool")

// allTags are present in every evaluation so missing tags read as zero.
var allTags = []types.Tag{
	types.TagBuilding, types.TagSpace, types.TagScience, types.TagEnergy,
	types.TagEarth, types.TagJovian, types.TagVenus, types.TagPlant,
	types.TagMicrobe, types.TagAnimal, types.TagCity, types.TagEvent,
	types.TagWild,
}

// Checker compiles requirement expressions once and evaluates them against
// game state.
type Checker struct {
	env *cel.Env

	mu       sync.Mutex
	programs map[string]cel.Program
}

// New creates a checker with the requirement variables declared.
func New() (*Checker, error) {
	env, err := cel.NewEnv(
		cel.Variable("tags", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("stock", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("production", cel.MapType(cel.StringType, cel.IntType)),
		cel.Variable("tr", cel.IntType),
		cel.Variable("temperature", cel.IntType),
		cel.Variable("oxygen", cel.IntType),
		cel.Variable("venus", cel.IntType),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}
	return &Checker{env: env, programs: map[string]cel.Program{}}, nil
}

// Compile type-checks expr and caches its program.
func (c *Checker) Compile(expr string) error {
	_, err := c.program(expr)
	return err
}

func (c *Checker) program(expr string) (cel.Program, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prg, ok := c.programs[expr]; ok {
		return prg, nil
	}

	ast, issues := c.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling %q: %w", expr, issues.Err())
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("%q yields %s: %w", expr, ast.OutputType(), ErrNotBool)
	}
	prg, err := c.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building program for %q: %w", expr, err)
	}
	c.programs[expr] = prg
	return prg, nil
}

// Eval evaluates expr against vars. An empty expression is always met.
func (c *Checker) Eval(expr string, vars map[string]any) (bool, error) {
	if expr == "" {
		return true, nil
	}
	prg, err := c.program(expr)
	if err != nil {
		return false, err
	}
	out, _, err := prg.Eval(vars)
	if err != nil {
		return false, fmt.Errorf("evaluating %q: %w", expr, err)
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("%q: %w", expr, ErrNotBool)
	}
	return ok, nil
}

// Met reports whether player satisfies expr in the current game.
func (c *Checker) Met(expr string, p *state.Player, params *globals.Parameters) (bool, error) {
	if expr == "" {
		return true, nil
	}
	return c.Eval(expr, Vars(p, params))
}

// Vars builds the evaluation context for p.
func Vars(p *state.Player, params *globals.Parameters) map[string]any {
	tags := make(map[string]int64, len(allTags))
	counts := p.Tags()
	for _, t := range allTags {
		tags[string(t)] = int64(counts[string(t)])
	}
	return map[string]any{
		"tags":        tags,
		"stock":       unitsToAny(p.Stock.Units()),
		"production":  unitsToAny(p.Production.Units()),
		"tr":          int64(p.TR),
		"temperature": int64(params.Temperature.Value),
		"oxygen":      int64(params.Oxygen.Value),
		"venus":       int64(params.Venus.Value),
	}
}

// unitsToAny converts a resource vector to a CEL-friendly map.
func unitsToAny(u types.Units) map[string]int64 {
	out := make(map[string]int64, 6)
	for _, r := range units.Resources() {
		out[string(r)] = int64(units.Get(u, r))
	}
	return out
}
