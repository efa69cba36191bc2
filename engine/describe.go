package engine

import (
	"fmt"
	"strings"

	"github.com/nathoo/terracore/engine/behavior"
	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/input"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

func describeHand(p *state.Player) []string {
	if len(p.Hand) == 0 {
		return []string{"Your hand is empty."}
	}
	out := []string{fmt.Sprintf("Hand (%d):", len(p.Hand))}
	for i, c := range p.Hand {
		out = append(out, fmt.Sprintf("  %d. %s", i+1, describeCard(c)))
	}
	return out
}

func describePlayed(p *state.Player) []string {
	if len(p.Played) == 0 {
		return []string{"You have no cards in play."}
	}
	out := []string{fmt.Sprintf("In play (%d):", len(p.Played))}
	for i, c := range p.Played {
		line := fmt.Sprintf("  %d. %s", i+1, c.Name())
		if rt := c.EffectiveResourceType(); rt != types.ResourceNone {
			line += fmt.Sprintf(" [%d %s]", c.ResourceCount, rt)
		}
		out = append(out, line)
	}
	return out
}

func describeCard(c *cards.Instance) string {
	s := fmt.Sprintf("%s (%d M€, %s", c.Name(), c.Def.Cost, c.Def.Type)
	if len(c.Def.Tags) > 0 {
		tags := make([]string, len(c.Def.Tags))
		for i, t := range c.Def.Tags {
			tags[i] = string(t)
		}
		s += "; " + strings.Join(tags, " ")
	}
	s += ")"
	if c.Def.Requires != "" {
		s += " requires " + c.Def.Requires
	}
	if sum := behavior.Summary(c.Def.Behavior); sum != "" {
		s += ": " + sum
	}
	return s
}

func describeStatus(g *state.Game, p *state.Player) []string {
	out := []string{
		fmt.Sprintf("%s (turn %d, %s to act)  TR %d", p.ID, g.Turn+1, g.ActivePlayer().ID, p.TR),
		"  stock:      " + units.String(p.Stock.Units()),
		"  production: " + units.String(p.Production.Units()),
		fmt.Sprintf("  steel %d M€  titanium %d M€  greenery %d plants",
			p.SteelValue(), p.TitaniumValue(), p.GreeneryCost()),
	}
	var tracks []string
	for _, t := range g.Globals.All() {
		tracks = append(tracks, fmt.Sprintf("%s %d/%d", t.Name, t.Value, t.Max))
	}
	out = append(out, "  globals:    "+strings.Join(tracks, "  "))
	out = append(out, fmt.Sprintf("  hand %d  played %d  deck %d", len(p.Hand), len(p.Played), g.Deck.Size()))
	return out
}

func describeRequest(req *input.Request) []string {
	out := []string{req.Title + ":"}
	for i, c := range req.Cards {
		out = append(out, fmt.Sprintf("  %d. %s", i+1, describeCard(c)))
	}
	switch {
	case req.Min == req.Max:
		out = append(out, fmt.Sprintf("Choose %d with: select <card>[, <card>...]", req.Min))
	case req.Min == 0:
		out = append(out, fmt.Sprintf("Choose up to %d with: select <card>[, <card>...] (or select none)", req.Max))
	default:
		out = append(out, fmt.Sprintf("Choose %d to %d with: select <card>[, <card>...]", req.Min, req.Max))
	}
	return out
}

func describePayment(pay types.Payment) string {
	var parts []string
	if pay.MegaCredits > 0 {
		parts = append(parts, fmt.Sprintf("%d M€", pay.MegaCredits))
	}
	if pay.Steel > 0 {
		parts = append(parts, fmt.Sprintf("%d steel", pay.Steel))
	}
	if pay.Titanium > 0 {
		parts = append(parts, fmt.Sprintf("%d titanium", pay.Titanium))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, " and ")
}

func joinNames(list []*cards.Instance) string {
	names := make([]string, len(list))
	for i, c := range list {
		names[i] = c.Name()
	}
	return strings.Join(names, ", ")
}
