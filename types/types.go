// Package types defines the shared data structures for the TerraCore engine.
// This package contains only type definitions. It has no logic and no methods.
package types

// Resource is a standard resource kind held in a player's stock and production.
type Resource string

const (
	MegaCredits Resource = "megacredits"
	Steel       Resource = "steel"
	Titanium    Resource = "titanium"
	Plants      Resource = "plants"
	Energy      Resource = "energy"
	Heat        Resource = "heat"
)

// Units is a quantity or delta across every standard resource.
// The field set is closed: there are no other resource kinds.
type Units struct {
	MegaCredits int `json:"megacredits" yaml:"megacredits"`
	Steel       int `json:"steel" yaml:"steel"`
	Titanium    int `json:"titanium" yaml:"titanium"`
	Plants      int `json:"plants" yaml:"plants"`
	Energy      int `json:"energy" yaml:"energy"`
	Heat        int `json:"heat" yaml:"heat"`
}

// Tag is a card tag (building, space, science, ...).
type Tag string

const (
	TagBuilding Tag = "building"
	TagSpace    Tag = "space"
	TagScience  Tag = "science"
	TagEnergy   Tag = "energy"
	TagEarth    Tag = "earth"
	TagJovian   Tag = "jovian"
	TagVenus    Tag = "venus"
	TagPlant    Tag = "plant"
	TagMicrobe  Tag = "microbe"
	TagAnimal   Tag = "animal"
	TagCity     Tag = "city"
	TagEvent    Tag = "event"
	TagWild     Tag = "wild"
)

// CardType is the play category of a card.
type CardType string

const (
	CardAutomated   CardType = "automated"
	CardActive      CardType = "active"
	CardEvent       CardType = "event"
	CardCorporation CardType = "corporation"
	CardPrelude     CardType = "prelude"
)

// CardResource is the kind of token a card can hold (microbes, animals, ...).
// The empty value means "no resource".
type CardResource string

const (
	ResourceNone     CardResource = ""
	ResourceMicrobe  CardResource = "microbe"
	ResourceAnimal   CardResource = "animal"
	ResourceFloater  CardResource = "floater"
	ResourceScience  CardResource = "science"
	ResourceFighter  CardResource = "fighter"
	ResourceAsteroid CardResource = "asteroid"
	ResourceData     CardResource = "data"
)

// DrawCard draws cards from the deck. Only cards matching every set filter
// (Tag, Type) qualify. Keep < Count asks the player to choose; Pay asks the
// player which drawn cards to buy.
type DrawCard struct {
	Count    int
	Tag      Tag
	Type     CardType
	Resource CardResource
	Keep     int // 0 means keep all
	Pay      bool
}

// GlobalParams holds step counts for each global track.
type GlobalParams struct {
	Temperature int
	Oxygen      int
	Venus       int
}

// AddResourcesToAnyCard places Count tokens of Type on one played card
// chosen among the eligible ones.
type AddResourcesToAnyCard struct {
	Count int
	Type  CardResource
	Tag   Tag // optional: eligible cards must carry this tag
}

// Behavior is a declarative card effect. Every field is independently
// optional; nil pointers and zero integers mean "absent".
type Behavior struct {
	Production            *Units
	Stock                 *Units
	SteelValue            int
	TitaniumValue         int
	GreeneryDiscount      int
	DrawCard              *DrawCard
	Global                *GlobalParams
	TR                    int
	AddResources          int
	AddResourcesToAnyCard *AddResourcesToAnyCard
}

// CardDef is the immutable catalog definition of a card.
type CardDef struct {
	ID       string
	Name     string
	Cost     int
	Type     CardType
	Tags     []Tag
	Resource CardResource // fixed resource type this card holds, if any
	Requires string       // requirement expression, empty for none
	Text     string
	Behavior *Behavior
}

// GameDef holds catalog metadata from Lua.
type GameDef struct {
	Title   string
	Author  string
	Version string
}

// Payment describes how a cost is paid.
type Payment struct {
	MegaCredits int `json:"megacredits"`
	Steel       int `json:"steel"`
	Titanium    int `json:"titanium"`
}

// Intent is the parsed representation of a player command.
type Intent struct {
	Verb string
	Args []string
}

// Event is emitted whenever game state changes.
type Event struct {
	Type   string
	Player string
	Data   map[string]any
}

// Result is the output of a single game step.
type Result struct {
	Events []Event
	Output []string
}
