// Package state holds the mutable game state: players with their ledgers
// and cards, the shared global tracks, and the deck.
package state

import (
	"fmt"

	"github.com/nathoo/terracore/config"
	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/events"
	"github.com/nathoo/terracore/engine/globals"
	"github.com/nathoo/terracore/engine/input"
	"github.com/nathoo/terracore/engine/ledger"
	"github.com/nathoo/terracore/engine/rng"
	"github.com/nathoo/terracore/types"
)

// Defs holds the immutable card catalog loaded from Lua.
type Defs struct {
	Game  types.GameDef
	Cards map[string]*types.CardDef
	Order []string // catalog IDs in source order
}

// Card returns the catalog definition with the given ID.
func (d *Defs) Card(id string) (*types.CardDef, bool) {
	def, ok := d.Cards[id]
	return def, ok
}

// Player is one seat at the table.
type Player struct {
	ID               string
	Stock            *ledger.Ledger
	Production       *ledger.Ledger
	TR               int
	SteelBonus       int // added to the base steel value
	TitaniumBonus    int // added to the base titanium value
	GreeneryDiscount int
	Hand             []*cards.Instance
	Played           []*cards.Instance
	Input            input.Queue

	baseSteel    int
	baseTitanium int
	greeneryCost int
}

// NewPlayer creates a player with the starting values from cfg.
func NewPlayer(id string, cfg config.Config) *Player {
	p := &Player{
		ID:           id,
		Stock:        ledger.New(),
		Production:   ledger.WithFloors(cfg.ProductionFloors),
		TR:           cfg.StartingTR,
		baseSteel:    cfg.SteelValue,
		baseTitanium: cfg.TitaniumValue,
		greeneryCost: cfg.GreeneryPlantCost,
	}
	p.Stock.Restore(cfg.StartingStock)
	return p
}

// SteelValue returns megacredits per steel when paying for building cards.
func (p *Player) SteelValue() int {
	return p.baseSteel + p.SteelBonus
}

// TitaniumValue returns megacredits per titanium when paying for space cards.
func (p *Player) TitaniumValue() int {
	return p.baseTitanium + p.TitaniumBonus
}

// PayingAmount returns the megacredit worth of a payment.
func (p *Player) PayingAmount(pay types.Payment) int {
	return pay.MegaCredits + pay.Steel*p.SteelValue() + pay.Titanium*p.TitaniumValue()
}

// GreeneryCost returns how many plants a greenery costs this player.
func (p *Player) GreeneryCost() int {
	return max(0, p.greeneryCost-p.GreeneryDiscount)
}

// CanPlaceGreenery reports whether the player has enough plants for a
// greenery.
func (p *Player) CanPlaceGreenery() bool {
	return p.Stock.Get(types.Plants) >= p.GreeneryCost()
}

// TagCount counts tags on played non-event cards.
func (p *Player) TagCount(tag types.Tag) int {
	n := 0
	for _, c := range p.Played {
		if c.Def.Type == types.CardEvent {
			continue
		}
		for _, t := range c.Def.Tags {
			if t == tag {
				n++
			}
		}
	}
	return n
}

// Tags returns the count of every tag on played non-event cards.
func (p *Player) Tags() map[string]int {
	m := map[string]int{}
	for _, c := range p.Played {
		if c.Def.Type == types.CardEvent {
			continue
		}
		for _, t := range c.Def.Tags {
			m[string(t)]++
		}
	}
	return m
}

// FindInHand returns the card in hand with the given instance ID or key.
func (p *Player) FindInHand(id string) *cards.Instance {
	return find(p.Hand, id)
}

// FindPlayed returns the played card with the given instance ID or key.
func (p *Player) FindPlayed(id string) *cards.Instance {
	return find(p.Played, id)
}

// RemoveFromHand takes c out of the hand. Returns false if absent.
func (p *Player) RemoveFromHand(c *cards.Instance) bool {
	var ok bool
	p.Hand, ok = remove(p.Hand, c)
	return ok
}

// RemovePlayed takes c out of the played cards. Returns false if absent.
func (p *Player) RemovePlayed(c *cards.Instance) bool {
	var ok bool
	p.Played, ok = remove(p.Played, c)
	return ok
}

// Pending returns the player's outstanding input request, or nil.
func (p *Player) Pending() *input.Request {
	return p.Input.Pending()
}

func find(list []*cards.Instance, id string) *cards.Instance {
	for _, c := range list {
		if c.ID == id {
			return c
		}
	}
	for _, c := range list {
		if c.Key() == id {
			return c
		}
	}
	return nil
}

func remove(list []*cards.Instance, c *cards.Instance) ([]*cards.Instance, bool) {
	for i, v := range list {
		if v == c {
			return append(list[:i], list[i+1:]...), true
		}
	}
	return list, false
}

// Game is the complete mutable state of one game.
type Game struct {
	Config  config.Config
	Defs    *Defs
	Players []*Player
	Globals *globals.Parameters
	Deck    *cards.Deck
	RNG     *rng.RNG
	Events  *events.Log
	Active  int // index into Players
	Turn    int
}

// NewGame seats the configured players and shuffles one instance of every
// project card in the catalog into the deck.
func NewGame(defs *Defs, cfg config.Config) *Game {
	g := &Game{
		Config: cfg,
		Defs:   defs,
		Globals: globals.New(
			cfg.Globals.Temperature,
			cfg.Globals.Oxygen,
			cfg.Globals.Venus,
		),
		RNG:    rng.New(cfg.Seed),
		Events: events.NewLog(),
	}
	for _, id := range cfg.Players {
		g.Players = append(g.Players, NewPlayer(id, cfg))
	}
	var deck []*cards.Instance
	for _, id := range defs.Order {
		def := defs.Cards[id]
		if def.Type == types.CardCorporation || def.Type == types.CardPrelude {
			continue
		}
		deck = append(deck, cards.New(def))
	}
	g.Deck = cards.NewDeck(deck, g.RNG)
	return g
}

// Player returns the player with the given ID.
func (g *Game) Player(id string) (*Player, error) {
	for _, p := range g.Players {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, fmt.Errorf("unknown player %q", id)
}

// ActivePlayer returns the player whose turn it is.
func (g *Game) ActivePlayer() *Player {
	return g.Players[g.Active]
}

// Pass hands the turn to the next player.
func (g *Game) Pass() *Player {
	g.Active = (g.Active + 1) % len(g.Players)
	if g.Active == 0 {
		g.Turn++
	}
	return g.ActivePlayer()
}
