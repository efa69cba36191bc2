// Package loader loads the Lua card catalog into Go structs at load time.
// The Lua VM is discarded after loading: zero Lua at runtime.
package loader

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// rawCard holds a card table before compilation.
type rawCard struct {
	id       string
	cardType types.CardType // set by typed constructors
	table    *lua.LTable
	order    int
}

// getString returns a string field from a Lua table, or "" if missing.
func getString(tbl *lua.LTable, key string) string {
	v := tbl.RawGetString(key)
	if s, ok := v.(lua.LString); ok {
		return string(s)
	}
	return ""
}

// getBool returns a bool field from a Lua table, or the default if missing.
func getBool(tbl *lua.LTable, key string, def bool) bool {
	v := tbl.RawGetString(key)
	if b, ok := v.(lua.LBool); ok {
		return bool(b)
	}
	return def
}

// getInt returns an integer field, 0 if missing. Fractions and non-numbers
// are errors.
func getInt(tbl *lua.LTable, key string) (int, error) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return 0, nil
	}
	return toInt(v, key)
}

func toInt(v lua.LValue, what string) (int, error) {
	n, ok := v.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("%s: expected a number, got %s", what, v.Type())
	}
	f := float64(n)
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("%s: expected an integer, got %v", what, f)
	}
	return int(f), nil
}

// getTable returns a table field from a Lua table, or nil if missing.
func getTable(tbl *lua.LTable, key string) *lua.LTable {
	v := tbl.RawGetString(key)
	if t, ok := v.(*lua.LTable); ok {
		return t
	}
	return nil
}

// getStrings returns an array-of-strings field.
func getStrings(tbl *lua.LTable, key string) ([]string, error) {
	v := tbl.RawGetString(key)
	if v == lua.LNil {
		return nil, nil
	}
	arr, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list", key)
	}
	var out []string
	for i := 1; i <= arr.MaxN(); i++ {
		s, ok := arr.RawGetInt(i).(lua.LString)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a string", key, i)
		}
		out = append(out, string(s))
	}
	return out, nil
}

// checkKeys rejects string keys outside allowed.
func checkKeys(tbl *lua.LTable, what string, allowed ...string) error {
	ok := map[string]bool{}
	for _, a := range allowed {
		ok[a] = true
	}
	var bad []string
	tbl.ForEach(func(k, _ lua.LValue) {
		ks, isStr := k.(lua.LString)
		if !isStr || !ok[string(ks)] {
			bad = append(bad, k.String())
		}
	})
	if len(bad) > 0 {
		sort.Strings(bad)
		return fmt.Errorf("%s: unknown field(s) %v", what, bad)
	}
	return nil
}

// compile converts all collected Lua data into a Defs struct.
func compile(coll *collector) (*state.Defs, error) {
	defs := &state.Defs{Cards: map[string]*types.CardDef{}}

	if coll.game == nil {
		return nil, fmt.Errorf("no Game{} definition found")
	}
	defs.Game = compileGame(coll.game)

	sort.SliceStable(coll.cards, func(i, j int) bool {
		return coll.cards[i].order < coll.cards[j].order
	})
	for _, raw := range coll.cards {
		if _, dup := defs.Cards[raw.id]; dup {
			return nil, fmt.Errorf("duplicate card ID %q", raw.id)
		}
		def, err := compileCard(raw)
		if err != nil {
			return nil, fmt.Errorf("compiling card %s: %w", raw.id, err)
		}
		defs.Cards[def.ID] = def
		defs.Order = append(defs.Order, def.ID)
	}
	return defs, nil
}

func compileGame(tbl *lua.LTable) types.GameDef {
	return types.GameDef{
		Title:   getString(tbl, "title"),
		Author:  getString(tbl, "author"),
		Version: getString(tbl, "version"),
	}
}

func compileCard(raw rawCard) (*types.CardDef, error) {
	tbl := raw.table
	if err := checkKeys(tbl, "card", "name", "cost", "type", "tags", "resource", "requires", "text", "behavior"); err != nil {
		return nil, err
	}

	cost, err := getInt(tbl, "cost")
	if err != nil {
		return nil, err
	}
	tags, err := getStrings(tbl, "tags")
	if err != nil {
		return nil, err
	}
	def := &types.CardDef{
		ID:       raw.id,
		Name:     getString(tbl, "name"),
		Cost:     cost,
		Type:     raw.cardType,
		Resource: types.CardResource(getString(tbl, "resource")),
		Requires: getString(tbl, "requires"),
		Text:     getString(tbl, "text"),
	}
	if t := getString(tbl, "type"); t != "" {
		def.Type = types.CardType(t)
	}
	for _, t := range tags {
		def.Tags = append(def.Tags, types.Tag(t))
	}

	if b := getTable(tbl, "behavior"); b != nil {
		def.Behavior, err = compileBehavior(b)
		if err != nil {
			return nil, fmt.Errorf("behavior: %w", err)
		}
	}
	return def, nil
}

func compileBehavior(tbl *lua.LTable) (*types.Behavior, error) {
	if err := checkKeys(tbl, "behavior",
		"production", "stock", "steelValue", "titaniumValue", "greeneryDiscount",
		"drawCard", "global", "tr", "addResources", "addResourcesToAnyCard",
	); err != nil {
		return nil, err
	}

	b := &types.Behavior{}
	var err error
	for _, f := range []struct {
		key string
		dst **types.Units
	}{
		{"production", &b.Production},
		{"stock", &b.Stock},
	} {
		if t := getTable(tbl, f.key); t != nil {
			u, err := compileUnits(t)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.key, err)
			}
			*f.dst = &u
		}
	}

	for _, f := range []struct {
		key string
		dst *int
	}{
		{"steelValue", &b.SteelValue},
		{"titaniumValue", &b.TitaniumValue},
		{"greeneryDiscount", &b.GreeneryDiscount},
		{"tr", &b.TR},
		{"addResources", &b.AddResources},
	} {
		if *f.dst, err = getInt(tbl, f.key); err != nil {
			return nil, err
		}
	}

	if v := tbl.RawGetString("drawCard"); v != lua.LNil {
		if b.DrawCard, err = compileDrawCard(v); err != nil {
			return nil, fmt.Errorf("drawCard: %w", err)
		}
	}
	if t := getTable(tbl, "global"); t != nil {
		if b.Global, err = compileGlobal(t); err != nil {
			return nil, fmt.Errorf("global: %w", err)
		}
	}
	if t := getTable(tbl, "addResourcesToAnyCard"); t != nil {
		if b.AddResourcesToAnyCard, err = compileAddToAny(t); err != nil {
			return nil, fmt.Errorf("addResourcesToAnyCard: %w", err)
		}
	}
	return b, nil
}

// compileUnits reads a partial resource table such as { energy = 3 }.
func compileUnits(tbl *lua.LTable) (types.Units, error) {
	partial := map[string]int{}
	var err error
	tbl.ForEach(func(k, v lua.LValue) {
		if err != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("resource keys must be names, got %s", k.String())
			return
		}
		partial[string(ks)], err = toInt(v, string(ks))
	})
	if err != nil {
		return units.Empty, err
	}
	return units.Of(partial)
}

// compileDrawCard accepts a bare count or a table.
func compileDrawCard(v lua.LValue) (*types.DrawCard, error) {
	if _, ok := v.(lua.LNumber); ok {
		n, err := toInt(v, "count")
		if err != nil {
			return nil, err
		}
		return &types.DrawCard{Count: n}, nil
	}
	tbl, ok := v.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("expected a number or table, got %s", v.Type())
	}
	if err := checkKeys(tbl, "drawCard", "count", "tag", "type", "resource", "keep", "pay"); err != nil {
		return nil, err
	}
	count, err := getInt(tbl, "count")
	if err != nil {
		return nil, err
	}
	keep, err := getInt(tbl, "keep")
	if err != nil {
		return nil, err
	}
	return &types.DrawCard{
		Count:    count,
		Tag:      types.Tag(getString(tbl, "tag")),
		Type:     types.CardType(getString(tbl, "type")),
		Resource: types.CardResource(getString(tbl, "resource")),
		Keep:     keep,
		Pay:      getBool(tbl, "pay", false),
	}, nil
}

func compileGlobal(tbl *lua.LTable) (*types.GlobalParams, error) {
	if err := checkKeys(tbl, "global", "temperature", "oxygen", "venus"); err != nil {
		return nil, err
	}
	g := &types.GlobalParams{}
	var err error
	if g.Temperature, err = getInt(tbl, "temperature"); err != nil {
		return nil, err
	}
	if g.Oxygen, err = getInt(tbl, "oxygen"); err != nil {
		return nil, err
	}
	if g.Venus, err = getInt(tbl, "venus"); err != nil {
		return nil, err
	}
	return g, nil
}

func compileAddToAny(tbl *lua.LTable) (*types.AddResourcesToAnyCard, error) {
	if err := checkKeys(tbl, "addResourcesToAnyCard", "count", "type", "tag"); err != nil {
		return nil, err
	}
	count, err := getInt(tbl, "count")
	if err != nil {
		return nil, err
	}
	return &types.AddResourcesToAnyCard{
		Count: count,
		Type:  types.CardResource(getString(tbl, "type")),
		Tag:   types.Tag(getString(tbl, "tag")),
	}, nil
}

// sortedLuaFiles returns .lua files in a directory, with game.lua first
// and the rest sorted alphabetically.
func sortedLuaFiles(files []string) []string {
	var gameFile string
	var others []string
	for _, f := range files {
		if f == "game.lua" {
			gameFile = f
		} else {
			others = append(others, f)
		}
	}
	sort.Strings(others)
	if gameFile != "" {
		return append([]string{gameFile}, others...)
	}
	return others
}
