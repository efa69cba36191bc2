package cards

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nathoo/terracore/engine/rng"
	"github.com/nathoo/terracore/types"
)

var (
	tardigrades = &types.CardDef{ID: "tardigrades", Name: "Tardigrades", Type: types.CardActive,
		Tags: []types.Tag{types.TagMicrobe}, Resource: types.ResourceMicrobe}
	mine = &types.CardDef{ID: "mine", Name: "Mine", Type: types.CardAutomated,
		Tags: []types.Tag{types.TagBuilding}}
	satellite = &types.CardDef{ID: "satellite", Name: "Satellite", Type: types.CardEvent,
		Tags: []types.Tag{types.TagSpace}}
)

func TestNew_UniqueIDs(t *testing.T) {
	a, b := New(mine), New(mine)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Key() != "mine" || a.Name() != "Mine" {
		t.Errorf("Key/Name = %q/%q", a.Key(), a.Name())
	}
}

func TestCanHold(t *testing.T) {
	c := New(tardigrades)
	if !c.CanHold(types.ResourceMicrobe) {
		t.Error("tardigrades should hold microbes")
	}
	if c.CanHold(types.ResourceAnimal) {
		t.Error("tardigrades should not hold animals")
	}
	if New(mine).CanHold(types.ResourceMicrobe) {
		t.Error("mine holds nothing")
	}
	if c.CanHold(types.ResourceNone) {
		t.Error("no card holds the empty resource")
	}
}

func TestCanHold_DeclaredOverridesFixed(t *testing.T) {
	c := New(mine)
	c.ResourceType = types.ResourceFloater
	if !c.CanHold(types.ResourceFloater) {
		t.Error("declared type should be holdable")
	}
}

func TestAddResources_InitializesType(t *testing.T) {
	c := New(tardigrades)
	if err := c.AddResources(3); err != nil {
		t.Fatalf("AddResources failed: %v", err)
	}
	if c.ResourceType != types.ResourceMicrobe || c.ResourceCount != 3 {
		t.Errorf("got %s x%d", c.ResourceType, c.ResourceCount)
	}
}

func TestAddResources_NoTypeFails(t *testing.T) {
	c := New(mine)
	if err := c.AddResources(1); !errors.Is(err, ErrCannotHold) {
		t.Errorf("expected ErrCannotHold, got %v", err)
	}
	if c.ResourceCount != 0 {
		t.Errorf("count changed to %d", c.ResourceCount)
	}
}

func TestAddResources_NegativeBelowZeroFails(t *testing.T) {
	c := New(tardigrades)
	c.ResourceCount = 1
	if err := c.AddResources(-2); !errors.Is(err, ErrNegativeCount) {
		t.Errorf("expected ErrNegativeCount, got %v", err)
	}
}

func TestFilter_Matches(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		card   *types.CardDef
		want   bool
	}{
		{"zero matches all", Filter{}, mine, true},
		{"tag match", Filter{Tag: types.TagBuilding}, mine, true},
		{"tag miss", Filter{Tag: types.TagSpace}, mine, false},
		{"tag and type", Filter{Tag: types.TagSpace, Type: types.CardEvent}, satellite, true},
		{"tag ok type miss", Filter{Tag: types.TagSpace, Type: types.CardAutomated}, satellite, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Matches(New(tt.card)); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func testDeck(t *testing.T, defs ...*types.CardDef) *Deck {
	t.Helper()
	var instances []*Instance
	for _, d := range defs {
		instances = append(instances, New(d))
	}
	return NewDeck(instances, rng.New(1))
}

func TestDeck_Draw(t *testing.T) {
	d := testDeck(t, mine, mine, satellite)
	got := d.Draw(2)
	if len(got) != 2 {
		t.Fatalf("drew %d, want 2", len(got))
	}
	if d.Size() != 1 {
		t.Errorf("size = %d, want 1", d.Size())
	}
}

func TestDeck_Draw_ShortWhenExhausted(t *testing.T) {
	d := testDeck(t, mine)
	if got := d.Draw(3); len(got) != 1 {
		t.Errorf("drew %d, want 1", len(got))
	}
	if got := d.Draw(1); len(got) != 0 {
		t.Errorf("drew %d from empty deck", len(got))
	}
}

func TestDeck_Draw_ReshufflesDiscard(t *testing.T) {
	d := testDeck(t, mine)
	first := d.Draw(1)
	d.Discard(first...)
	again := d.Draw(1)
	if len(again) != 1 || again[0] != first[0] {
		t.Errorf("expected discarded card to be redrawn")
	}
}

func TestDeck_DrawMatching(t *testing.T) {
	d := testDeck(t, mine, satellite, mine, satellite, mine, satellite)
	got, exhausted := d.DrawMatching(3, Filter{Tag: types.TagSpace})
	if exhausted {
		t.Error("unexpected exhaustion")
	}
	if len(got) != 3 {
		t.Fatalf("drew %d, want 3", len(got))
	}
	for _, c := range got {
		if !c.HasTag(types.TagSpace) {
			t.Errorf("drew non-matching %s", c.Key())
		}
	}
	if d.Size() != 3 {
		t.Errorf("non-matching cards should stay in the deck, size = %d", d.Size())
	}
}

func TestDeck_DrawMatching_Exhausted(t *testing.T) {
	d := testDeck(t, mine, mine, satellite)
	got, exhausted := d.DrawMatching(2, Filter{Tag: types.TagSpace})
	if !exhausted {
		t.Error("expected exhaustion")
	}
	if len(got) != 1 {
		t.Errorf("drew %d, want 1", len(got))
	}
	if len(d.DiscardPile()) != 2 {
		t.Errorf("set-aside cards should be discarded, discard = %d", len(d.DiscardPile()))
	}
}

func TestDeck_DrawMatching_NoMatchTerminates(t *testing.T) {
	var defs []*types.CardDef
	for i := 0; i < 10; i++ {
		defs = append(defs, &types.CardDef{ID: fmt.Sprintf("c%d", i), Type: types.CardAutomated})
	}
	d := testDeck(t, defs...)
	got, exhausted := d.DrawMatching(1, Filter{Type: types.CardEvent})
	if len(got) != 0 || !exhausted {
		t.Errorf("got %d cards, exhausted=%v", len(got), exhausted)
	}
	if d.Size() != 10 {
		t.Errorf("deck lost cards: size = %d", d.Size())
	}
}

func TestNewDeck_Deterministic(t *testing.T) {
	var a, b []*Instance
	for i := 0; i < 8; i++ {
		def := &types.CardDef{ID: fmt.Sprintf("c%d", i)}
		a = append(a, &Instance{ID: def.ID, Def: def})
		b = append(b, &Instance{ID: def.ID, Def: def})
	}
	da := NewDeck(a, rng.New(42))
	db := NewDeck(b, rng.New(42))
	for i := range da.DrawPile() {
		if da.DrawPile()[i].ID != db.DrawPile()[i].ID {
			t.Fatalf("decks differ at %d", i)
		}
	}
}
