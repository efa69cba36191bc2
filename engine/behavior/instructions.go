package behavior

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/globals"
	"github.com/nathoo/terracore/engine/input"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// instruction binds one descriptor field to its check, transition and undo.
type instruction struct {
	name string
	// reversible instructions are standing modifiers, undone on discard.
	reversible bool
	present    func(b *types.Behavior) bool
	canExecute func(c *call) bool // nil: always legal
	execute    func(c *call) (*input.Request, error)
	undo       func(c *call)
	describe   func(b *types.Behavior) string
}

// instructions is the field table in application order.
var instructions = []instruction{
	{
		name:    "production",
		present: func(b *types.Behavior) bool { return b.Production != nil },
		canExecute: func(c *call) bool {
			return c.player.Production.CanAdd(*c.b.Production)
		},
		execute: func(c *call) (*input.Request, error) {
			if err := c.player.Production.AddUnits(*c.b.Production); err != nil {
				return nil, err
			}
			c.emit("production_changed", map[string]any{"delta": units.ToMap(*c.b.Production)})
			return nil, nil
		},
		describe: func(b *types.Behavior) string { return "production " + units.String(*b.Production) },
	},
	{
		name:    "stock",
		present: func(b *types.Behavior) bool { return b.Stock != nil },
		canExecute: func(c *call) bool {
			return c.player.Stock.CanAdd(*c.b.Stock)
		},
		execute: func(c *call) (*input.Request, error) {
			if err := c.player.Stock.AddUnits(*c.b.Stock); err != nil {
				return nil, err
			}
			c.emit("stock_changed", map[string]any{"delta": units.ToMap(*c.b.Stock)})
			return nil, nil
		},
		describe: func(b *types.Behavior) string { return "stock " + units.String(*b.Stock) },
	},
	{
		name:       "steelValue",
		reversible: true,
		present:    func(b *types.Behavior) bool { return b.SteelValue != 0 },
		execute: func(c *call) (*input.Request, error) {
			c.player.SteelBonus += c.b.SteelValue
			c.emit("steel_value_changed", map[string]any{"delta": c.b.SteelValue, "value": c.player.SteelValue()})
			return nil, nil
		},
		undo: func(c *call) {
			c.player.SteelBonus -= c.b.SteelValue
			c.emit("steel_value_changed", map[string]any{"delta": -c.b.SteelValue, "value": c.player.SteelValue()})
		},
		describe: func(b *types.Behavior) string { return fmt.Sprintf("steel value %+d", b.SteelValue) },
	},
	{
		name:       "titaniumValue",
		reversible: true,
		present:    func(b *types.Behavior) bool { return b.TitaniumValue != 0 },
		execute: func(c *call) (*input.Request, error) {
			c.player.TitaniumBonus += c.b.TitaniumValue
			c.emit("titanium_value_changed", map[string]any{"delta": c.b.TitaniumValue, "value": c.player.TitaniumValue()})
			return nil, nil
		},
		undo: func(c *call) {
			c.player.TitaniumBonus -= c.b.TitaniumValue
			c.emit("titanium_value_changed", map[string]any{"delta": -c.b.TitaniumValue, "value": c.player.TitaniumValue()})
		},
		describe: func(b *types.Behavior) string { return fmt.Sprintf("titanium value %+d", b.TitaniumValue) },
	},
	{
		name:       "greeneryDiscount",
		reversible: true,
		present:    func(b *types.Behavior) bool { return b.GreeneryDiscount != 0 },
		execute: func(c *call) (*input.Request, error) {
			c.player.GreeneryDiscount += c.b.GreeneryDiscount
			c.emit("greenery_discount_changed", map[string]any{"delta": c.b.GreeneryDiscount, "cost": c.player.GreeneryCost()})
			return nil, nil
		},
		undo: func(c *call) {
			c.player.GreeneryDiscount -= c.b.GreeneryDiscount
			c.emit("greenery_discount_changed", map[string]any{"delta": -c.b.GreeneryDiscount, "cost": c.player.GreeneryCost()})
		},
		describe: func(b *types.Behavior) string { return fmt.Sprintf("greenery discount %d", b.GreeneryDiscount) },
	},
	{
		name:     "drawCard",
		present:  func(b *types.Behavior) bool { return b.DrawCard != nil },
		execute:  (*call).drawCards,
		describe: describeDraw,
	},
	{
		name:     "global",
		present:  func(b *types.Behavior) bool { return b.Global != nil },
		execute:  (*call).raiseGlobals,
		describe: describeGlobal,
	},
	{
		name:    "tr",
		present: func(b *types.Behavior) bool { return b.TR != 0 },
		execute: func(c *call) (*input.Request, error) {
			c.player.TR += c.b.TR
			c.emit("tr_changed", map[string]any{"delta": c.b.TR, "tr": c.player.TR})
			return nil, nil
		},
		describe: func(b *types.Behavior) string { return fmt.Sprintf("tr %+d", b.TR) },
	},
	{
		name:    "addResources",
		present: func(b *types.Behavior) bool { return b.AddResources != 0 },
		canExecute: func(c *call) bool {
			if c.card == nil || c.card.EffectiveResourceType() == types.ResourceNone {
				return false
			}
			return c.card.ResourceCount+c.b.AddResources >= 0
		},
		execute: func(c *call) (*input.Request, error) {
			if c.card == nil {
				return nil, ErrNoCard
			}
			if err := c.card.AddResources(c.b.AddResources); err != nil {
				return nil, err
			}
			c.emitResourcesAdded(c.card, c.b.AddResources)
			return nil, nil
		},
		describe: func(b *types.Behavior) string { return fmt.Sprintf("add %d resource(s) to this card", b.AddResources) },
	},
	{
		name:     "addResourcesToAnyCard",
		present:  func(b *types.Behavior) bool { return b.AddResourcesToAnyCard != nil },
		execute:  (*call).addToAnyCard,
		describe: describeAddToAny,
	},
}

// drawCards draws the requested cards, then either hands them over, asks
// the player which to keep, or asks which to buy.
func (c *call) drawCards() (*input.Request, error) {
	dc := c.b.DrawCard
	deck := c.in.game.Deck
	drawn, exhausted := deck.DrawMatching(dc.Count, cards.Filter{Tag: dc.Tag, Type: dc.Type})
	if exhausted {
		c.in.log.Warn("deck exhausted during draw",
			zap.String("player", c.player.ID),
			zap.Int("requested", dc.Count),
			zap.Int("drawn", len(drawn)))
	}
	if dc.Resource != types.ResourceNone {
		for _, d := range drawn {
			d.ResourceType = dc.Resource
		}
	}
	c.emit("cards_drawn", map[string]any{"requested": dc.Count, "drawn": len(drawn), "exhausted": exhausted})
	if len(drawn) == 0 {
		return nil, nil
	}

	keep := dc.Keep
	if keep == 0 || keep > len(drawn) {
		keep = len(drawn)
	}

	switch {
	case dc.Pay:
		cost := c.in.game.Config.CardCost
		affordable := len(drawn)
		if cost > 0 {
			affordable = c.player.Stock.Get(types.MegaCredits) / cost
		}
		limit := min(keep, affordable)
		title := fmt.Sprintf("Select up to %d card(s) to buy (%d M€ each)", limit, cost)
		return input.NewSelectCard(c.player.ID, title, drawn, 0, limit, func(selected []*cards.Instance) error {
			if err := c.player.Stock.Add(types.MegaCredits, -cost*len(selected)); err != nil {
				return err
			}
			c.player.Hand = append(c.player.Hand, selected...)
			deck.Discard(notSelected(drawn, selected)...)
			c.emit("cards_bought", map[string]any{"count": len(selected), "paid": cost * len(selected)})
			return nil
		}), nil

	case keep < len(drawn):
		title := fmt.Sprintf("Select %d card(s) to keep", keep)
		return input.NewSelectCard(c.player.ID, title, drawn, keep, keep, func(selected []*cards.Instance) error {
			c.player.Hand = append(c.player.Hand, selected...)
			deck.Discard(notSelected(drawn, selected)...)
			c.emit("cards_kept", map[string]any{"count": len(selected)})
			return nil
		}), nil

	default:
		c.player.Hand = append(c.player.Hand, drawn...)
		c.emit("cards_kept", map[string]any{"count": len(drawn)})
		return nil, nil
	}
}

// raiseGlobals raises each requested track and credits one TR per step
// actually applied.
func (c *call) raiseGlobals() (*input.Request, error) {
	g := c.b.Global
	params := c.in.game.Globals
	for _, req := range []struct {
		track *globals.Track
		steps int
	}{
		{params.Temperature, g.Temperature},
		{params.Oxygen, g.Oxygen},
		{params.Venus, g.Venus},
	} {
		if req.steps <= 0 {
			continue
		}
		applied := req.track.Raise(req.steps)
		c.player.TR += applied
		c.emit("global_raised", map[string]any{
			"parameter": req.track.Name,
			"steps":     req.steps,
			"applied":   applied,
			"value":     req.track.Value,
		})
		if applied > 0 {
			c.emit("tr_changed", map[string]any{"delta": applied, "tr": c.player.TR})
		}
	}
	return nil, nil
}

// addToAnyCard places resources on the only eligible played card, or asks
// the player to choose when several qualify.
func (c *call) addToAnyCard() (*input.Request, error) {
	a := c.b.AddResourcesToAnyCard
	var eligible []*cards.Instance
	for _, p := range c.player.Played {
		if !p.CanHold(a.Type) {
			continue
		}
		if a.Tag != "" && !p.HasTag(a.Tag) {
			continue
		}
		eligible = append(eligible, p)
	}

	switch len(eligible) {
	case 0:
		return nil, nil
	case 1:
		if err := eligible[0].AddResources(a.Count); err != nil {
			return nil, err
		}
		c.emitResourcesAdded(eligible[0], a.Count)
		return nil, nil
	default:
		title := fmt.Sprintf("Select card to add %d %s(s)", a.Count, a.Type)
		return input.NewSelectCard(c.player.ID, title, eligible, 1, 1, func(selected []*cards.Instance) error {
			if err := selected[0].AddResources(a.Count); err != nil {
				return err
			}
			c.emitResourcesAdded(selected[0], a.Count)
			return nil
		}), nil
	}
}

func (c *call) emitResourcesAdded(card *cards.Instance, n int) {
	c.emit("resources_added", map[string]any{
		"card":     card.Name(),
		"resource": string(card.ResourceType),
		"count":    n,
		"total":    card.ResourceCount,
	})
}

func describeDraw(b *types.Behavior) string {
	dc := b.DrawCard
	s := fmt.Sprintf("draw %d", dc.Count)
	if dc.Tag != "" {
		s += " " + string(dc.Tag)
	}
	if dc.Type != "" {
		s += " " + string(dc.Type)
	}
	s += " card(s)"
	if dc.Keep > 0 && dc.Keep < dc.Count {
		s += fmt.Sprintf(", keep %d", dc.Keep)
	}
	if dc.Pay {
		s += ", buy"
	}
	if dc.Resource != "" {
		s += " as " + string(dc.Resource)
	}
	return s
}

func describeGlobal(b *types.Behavior) string {
	g := b.Global
	s := "raise"
	if g.Temperature > 0 {
		s += fmt.Sprintf(" temperature %d", g.Temperature)
	}
	if g.Oxygen > 0 {
		s += fmt.Sprintf(" oxygen %d", g.Oxygen)
	}
	if g.Venus > 0 {
		s += fmt.Sprintf(" venus %d", g.Venus)
	}
	return s
}

func describeAddToAny(b *types.Behavior) string {
	a := b.AddResourcesToAnyCard
	s := fmt.Sprintf("add %d %s(s) to a card", a.Count, a.Type)
	if a.Tag != "" {
		s += " with a " + string(a.Tag) + " tag"
	}
	return s
}
