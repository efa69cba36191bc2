package loader

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/terracore/types"
)

// registerAPI registers all Lua constructors and helpers as globals.
func registerAPI(L *lua.LState, coll *collector) {
	registerConstructors(L, coll)
	registerBehaviorHelpers(L)
}

// cardConstructor returns a curried constructor: Name "id" { ... }. A
// non-empty cardType is applied unless the table sets its own.
func cardConstructor(coll *collector, cardType types.CardType) lua.LGFunction {
	return func(L *lua.LState) int {
		id := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			tbl := L.CheckTable(1)
			coll.cards = append(coll.cards, rawCard{
				id:       id,
				cardType: cardType,
				table:    tbl,
				order:    coll.nextSourceOrder(),
			})
			return 0
		}))
		return 1
	}
}

func registerConstructors(L *lua.LState, coll *collector) {
	// Game { title = "...", ... }
	L.SetGlobal("Game", L.NewFunction(func(L *lua.LState) int {
		tbl := L.CheckTable(1)
		coll.game = tbl
		return 0
	}))

	// Card "id" { type = "...", ... }
	L.SetGlobal("Card", L.NewFunction(cardConstructor(coll, "")))

	// Typed shorthands: Automated "id" { ... } etc.
	L.SetGlobal("Automated", L.NewFunction(cardConstructor(coll, types.CardAutomated)))
	L.SetGlobal("Active", L.NewFunction(cardConstructor(coll, types.CardActive)))
	L.SetGlobal("Event", L.NewFunction(cardConstructor(coll, types.CardEvent)))
	L.SetGlobal("Corporation", L.NewFunction(cardConstructor(coll, types.CardCorporation)))
	L.SetGlobal("Prelude", L.NewFunction(cardConstructor(coll, types.CardPrelude)))
}

func registerBehaviorHelpers(L *lua.LState) {
	// Production { energy = 3 } → { production = { energy = 3 } }
	L.SetGlobal("Production", wrapper(L, "production"))

	// Stock { plants = 2 } → { stock = { plants = 2 } }
	L.SetGlobal("Stock", wrapper(L, "stock"))

	// Global { oxygen = 1 } → { global = { oxygen = 1 } }
	L.SetGlobal("Global", wrapper(L, "global"))

	// Draw(n) or Draw(n, { tag = "space", keep = 1 })
	L.SetGlobal("Draw", L.NewFunction(func(L *lua.LState) int {
		count := L.CheckNumber(1)
		dc := L.NewTable()
		if opts, ok := L.Get(2).(*lua.LTable); ok {
			opts.ForEach(func(k, v lua.LValue) { dc.RawSet(k, v) })
		}
		dc.RawSetString("count", count)
		tbl := L.NewTable()
		tbl.RawSetString("drawCard", dc)
		L.Push(tbl)
		return 1
	}))

	// AddToAnyCard(n, "microbe") or AddToAnyCard(n, "microbe", "science")
	L.SetGlobal("AddToAnyCard", L.NewFunction(func(L *lua.LState) int {
		inner := L.NewTable()
		inner.RawSetString("count", L.CheckNumber(1))
		inner.RawSetString("type", lua.LString(L.CheckString(2)))
		if tag := L.OptString(3, ""); tag != "" {
			inner.RawSetString("tag", lua.LString(tag))
		}
		tbl := L.NewTable()
		tbl.RawSetString("addResourcesToAnyCard", inner)
		L.Push(tbl)
		return 1
	}))

	// Behavior(a, b, ...) merges helper tables into one behavior.
	L.SetGlobal("Behavior", L.NewFunction(func(L *lua.LState) int {
		out := L.NewTable()
		for i := 1; i <= L.GetTop(); i++ {
			part := L.CheckTable(i)
			part.ForEach(func(k, v lua.LValue) {
				if out.RawGet(k) != lua.LNil {
					L.ArgError(i, "duplicate behavior field "+k.String())
				}
				out.RawSet(k, v)
			})
		}
		L.Push(out)
		return 1
	}))
}

// wrapper returns a helper that nests its table argument under key.
func wrapper(L *lua.LState, key string) *lua.LFunction {
	return L.NewFunction(func(L *lua.LState) int {
		inner := L.CheckTable(1)
		tbl := L.NewTable()
		tbl.RawSetString(key, inner)
		L.Push(tbl)
		return 1
	})
}
