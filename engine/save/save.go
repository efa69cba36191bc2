// Package save implements JSON serialization and deserialization of game state.
package save

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/nathoo/terracore/config"
	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/rng"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

// ErrPendingInput is returned when saving while a player owes an answer.
// Continuations are closures and cannot be serialized.
var ErrPendingInput = errors.New("cannot save while input is pending")

// SaveData is the JSON-serializable save format.
type SaveData struct {
	Version     string       `json:"version"`
	Game        string       `json:"game"`
	Turn        int          `json:"turn"`
	Active      int          `json:"active"`
	RNGSeed     int64        `json:"rng_seed"`
	RNGPosition int64        `json:"rng_position"`
	Globals     GlobalsData  `json:"globals"`
	Players     []PlayerData `json:"players"`
	DrawPile    []CardData   `json:"draw_pile"`
	DiscardPile []CardData   `json:"discard_pile"`
	CommandLog  []string     `json:"command_log"`
}

// GlobalsData holds the track values.
type GlobalsData struct {
	Temperature int `json:"temperature"`
	Oxygen      int `json:"oxygen"`
	Venus       int `json:"venus"`
}

// PlayerData is one saved seat.
type PlayerData struct {
	ID               string      `json:"id"`
	Stock            types.Units `json:"stock"`
	Production       types.Units `json:"production"`
	TR               int         `json:"tr"`
	SteelBonus       int         `json:"steel_bonus"`
	TitaniumBonus    int         `json:"titanium_bonus"`
	GreeneryDiscount int         `json:"greenery_discount"`
	Hand             []CardData  `json:"hand"`
	Played           []CardData  `json:"played"`
}

// CardData is one saved card instance.
type CardData struct {
	ID            string             `json:"id"`
	Key           string             `json:"key"`
	ResourceType  types.CardResource `json:"resource_type,omitempty"`
	ResourceCount int                `json:"resource_count,omitempty"`
}

// Save serializes game state to JSON bytes.
func Save(g *state.Game, commandLog []string) ([]byte, error) {
	for _, p := range g.Players {
		if p.Pending() != nil {
			return nil, fmt.Errorf("player %s: %w", p.ID, ErrPendingInput)
		}
	}
	data := SaveData{
		Version:     g.Defs.Game.Version,
		Game:        g.Defs.Game.Title,
		Turn:        g.Turn,
		Active:      g.Active,
		RNGSeed:     g.RNG.Seed(),
		RNGPosition: g.RNG.Position(),
		Globals: GlobalsData{
			Temperature: g.Globals.Temperature.Value,
			Oxygen:      g.Globals.Oxygen.Value,
			Venus:       g.Globals.Venus.Value,
		},
		DrawPile:    toCardData(g.Deck.DrawPile()),
		DiscardPile: toCardData(g.Deck.DiscardPile()),
		CommandLog:  commandLog,
	}
	for _, p := range g.Players {
		data.Players = append(data.Players, PlayerData{
			ID:               p.ID,
			Stock:            p.Stock.Units(),
			Production:       p.Production.Units(),
			TR:               p.TR,
			SteelBonus:       p.SteelBonus,
			TitaniumBonus:    p.TitaniumBonus,
			GreeneryDiscount: p.GreeneryDiscount,
			Hand:             toCardData(p.Hand),
			Played:           toCardData(p.Played),
		})
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into SaveData.
func Load(data []byte) (*SaveData, error) {
	var sd SaveData
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	if len(sd.Players) == 0 {
		return nil, fmt.Errorf("save has no players")
	}
	if sd.CommandLog == nil {
		sd.CommandLog = []string{}
	}
	return &sd, nil
}

// Restore rebuilds a game from loaded save data. Card keys must exist in
// defs. Deck order and RNG position are restored exactly.
func Restore(sd *SaveData, defs *state.Defs, cfg config.Config) (*state.Game, error) {
	cfg.Players = nil
	for _, pd := range sd.Players {
		cfg.Players = append(cfg.Players, pd.ID)
	}
	g := state.NewGame(defs, cfg)

	g.RNG = rng.Restore(sd.RNGSeed, sd.RNGPosition)
	draw, err := fromCardData(sd.DrawPile, defs)
	if err != nil {
		return nil, fmt.Errorf("draw pile: %w", err)
	}
	discard, err := fromCardData(sd.DiscardPile, defs)
	if err != nil {
		return nil, fmt.Errorf("discard pile: %w", err)
	}
	g.Deck = cards.RestoreDeck(draw, discard, g.RNG)

	g.Globals.Temperature.Set(sd.Globals.Temperature)
	g.Globals.Oxygen.Set(sd.Globals.Oxygen)
	g.Globals.Venus.Set(sd.Globals.Venus)

	for i, pd := range sd.Players {
		p := g.Players[i]
		p.Stock.Restore(pd.Stock)
		p.Production.Restore(pd.Production)
		p.TR = pd.TR
		p.SteelBonus = pd.SteelBonus
		p.TitaniumBonus = pd.TitaniumBonus
		p.GreeneryDiscount = pd.GreeneryDiscount
		if p.Hand, err = fromCardData(pd.Hand, defs); err != nil {
			return nil, fmt.Errorf("player %s hand: %w", pd.ID, err)
		}
		if p.Played, err = fromCardData(pd.Played, defs); err != nil {
			return nil, fmt.Errorf("player %s played: %w", pd.ID, err)
		}
	}

	if sd.Active < 0 || sd.Active >= len(g.Players) {
		return nil, fmt.Errorf("active player %d out of range", sd.Active)
	}
	g.Active = sd.Active
	g.Turn = sd.Turn
	return g, nil
}

func toCardData(list []*cards.Instance) []CardData {
	out := make([]CardData, 0, len(list))
	for _, c := range list {
		out = append(out, CardData{
			ID:            c.ID,
			Key:           c.Key(),
			ResourceType:  c.ResourceType,
			ResourceCount: c.ResourceCount,
		})
	}
	return out
}

func fromCardData(list []CardData, defs *state.Defs) ([]*cards.Instance, error) {
	out := make([]*cards.Instance, 0, len(list))
	for _, cd := range list {
		def, ok := defs.Card(cd.Key)
		if !ok {
			return nil, fmt.Errorf("unknown card %q", cd.Key)
		}
		out = append(out, &cards.Instance{
			ID:            cd.ID,
			Def:           def,
			ResourceType:  cd.ResourceType,
			ResourceCount: cd.ResourceCount,
		})
	}
	return out, nil
}
