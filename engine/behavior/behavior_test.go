package behavior

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nathoo/terracore/config"
	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/input"
	"github.com/nathoo/terracore/engine/ledger"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

// testDefs builds a catalog with enough tagged cards for filtered draws.
func testDefs() *state.Defs {
	defs := &state.Defs{Cards: map[string]*types.CardDef{}}
	add := func(def *types.CardDef) {
		defs.Cards[def.ID] = def
		defs.Order = append(defs.Order, def.ID)
	}
	for i := 0; i < 6; i++ {
		add(&types.CardDef{ID: fmt.Sprintf("factory_%d", i), Type: types.CardAutomated, Tags: []types.Tag{types.TagBuilding}})
		add(&types.CardDef{ID: fmt.Sprintf("comet_%d", i), Type: types.CardEvent, Tags: []types.Tag{types.TagSpace}})
		add(&types.CardDef{ID: fmt.Sprintf("probe_%d", i), Type: types.CardAutomated, Tags: []types.Tag{types.TagSpace}})
	}
	return defs
}

var (
	tardigradesDef    = &types.CardDef{ID: "tardigrades", Name: "Tardigrades", Type: types.CardActive, Tags: []types.Tag{types.TagMicrobe}, Resource: types.ResourceMicrobe}
	antsDef           = &types.CardDef{ID: "ants", Name: "Ants", Type: types.CardActive, Tags: []types.Tag{types.TagMicrobe}, Resource: types.ResourceMicrobe}
	regolithEatersDef = &types.CardDef{ID: "regolith_eaters", Name: "Regolith Eaters", Type: types.CardActive, Tags: []types.Tag{types.TagScience, types.TagMicrobe}, Resource: types.ResourceMicrobe}
	livestockDef      = &types.CardDef{ID: "livestock", Name: "Livestock", Type: types.CardActive, Tags: []types.Tag{types.TagAnimal}, Resource: types.ResourceAnimal}
	mineDef           = &types.CardDef{ID: "mine", Name: "Mine", Type: types.CardAutomated, Tags: []types.Tag{types.TagBuilding}}
)

func testSetup(t *testing.T) (*Interpreter, *state.Game, *state.Player) {
	t.Helper()
	cfg := config.Default()
	cfg.Seed = 1
	g := state.NewGame(testDefs(), cfg)
	return New(g, nil), g, g.Players[0]
}

// mustExecute applies b and fails the test on any error.
func mustExecute(t *testing.T, in *Interpreter, b *types.Behavior, p *state.Player, c *cards.Instance) {
	t.Helper()
	if err := in.Execute(b, p, c); err != nil {
		t.Fatalf("Execute(%s) failed: %v", Summary(b), err)
	}
}

func popRequest(t *testing.T, p *state.Player) *input.Request {
	t.Helper()
	req := p.Input.Pop()
	if req == nil {
		t.Fatal("expected a pending request")
	}
	return req
}

func TestProduction_Simple(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{Production: &types.Units{MegaCredits: 2}}

	if !in.CanExecute(b, p, nil) {
		t.Fatal("positive production should always be executable")
	}
	if err := in.Execute(b, p, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := p.Production.Units(); got != (types.Units{MegaCredits: 2}) {
		t.Errorf("production = %+v", got)
	}
}

func TestProduction_Negative(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{Production: &types.Units{MegaCredits: 2, Steel: -1}}

	if in.CanExecute(b, p, nil) {
		t.Fatal("expected negative steel production to be refused")
	}

	_ = p.Production.Add(types.Steel, 1)

	if !in.CanExecute(b, p, nil) {
		t.Fatal("expected behavior to be executable with steel production")
	}
	if err := in.Execute(b, p, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := p.Production.Units(); got != (types.Units{MegaCredits: 2, Steel: 0}) {
		t.Errorf("production = %+v", got)
	}
}

func TestStock_Simple(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.Steel, 2)
	p.Stock.Set(types.Heat, 5)

	if err := in.Execute(&types.Behavior{Stock: &types.Units{Steel: 3, Heat: 2}}, p, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if got := p.Stock.Units(); got != (types.Units{Steel: 5, Heat: 7}) {
		t.Errorf("stock = %+v", got)
	}
}

func TestStock_NegativeLegality(t *testing.T) {
	tests := []struct {
		have int
		take int
		want bool
	}{
		{have: 0, take: 1, want: false},
		{have: 2, take: 3, want: false},
		{have: 3, take: 3, want: true},
		{have: 5, take: 3, want: true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("have %d take %d", tt.have, tt.take), func(t *testing.T) {
			in, _, p := testSetup(t)
			p.Stock.Set(types.Plants, tt.have)
			b := &types.Behavior{Stock: &types.Units{Plants: -tt.take}}
			if got := in.CanExecute(b, p, nil); got != tt.want {
				t.Errorf("CanExecute = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStock_IllegalExecuteIsGuarded(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.Titanium, 1)
	b := &types.Behavior{Stock: &types.Units{Titanium: -2}}

	err := in.Execute(b, p, nil)
	if !errors.Is(err, ledger.ErrInsufficient) {
		t.Errorf("expected ErrInsufficient, got %v", err)
	}
	if p.Stock.Get(types.Titanium) != 1 {
		t.Errorf("titanium = %d, want unchanged 1", p.Stock.Get(types.Titanium))
	}
}

func TestSteelValue_RoundTrip(t *testing.T) {
	in, _, p := testSetup(t)
	pay := types.Payment{Steel: 4}
	b := &types.Behavior{SteelValue: 1}

	if got := p.PayingAmount(pay); got != 8 {
		t.Fatalf("paying amount = %d, want 8", got)
	}
	mustExecute(t, in, b, p, nil)
	if got := p.PayingAmount(pay); got != 12 {
		t.Errorf("after execute = %d, want 12", got)
	}
	in.OnDiscard(b, p, nil)
	if got := p.PayingAmount(pay); got != 8 {
		t.Errorf("after discard = %d, want 8", got)
	}
}

func TestTitaniumValue_RoundTrip(t *testing.T) {
	in, _, p := testSetup(t)
	pay := types.Payment{Titanium: 4}
	b := &types.Behavior{TitaniumValue: 1}

	if got := p.PayingAmount(pay); got != 12 {
		t.Fatalf("paying amount = %d, want 12", got)
	}
	mustExecute(t, in, b, p, nil)
	if got := p.PayingAmount(pay); got != 16 {
		t.Errorf("after execute = %d, want 16", got)
	}
	in.OnDiscard(b, p, nil)
	if got := p.PayingAmount(pay); got != 12 {
		t.Errorf("after discard = %d, want 12", got)
	}
}

func TestGreeneryDiscount(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{GreeneryDiscount: 1}

	p.Stock.Set(types.Plants, 8)
	if !p.CanPlaceGreenery() {
		t.Fatal("8 plants should place a greenery")
	}
	p.Stock.Set(types.Plants, 7)
	if p.CanPlaceGreenery() {
		t.Fatal("7 plants should not place a greenery")
	}

	mustExecute(t, in, b, p, nil)
	if !p.CanPlaceGreenery() {
		t.Error("7 plants should suffice after one discount")
	}

	p.Stock.Set(types.Plants, 6)
	if p.CanPlaceGreenery() {
		t.Error("6 plants should not suffice after one discount")
	}

	mustExecute(t, in, b, p, nil)
	if !p.CanPlaceGreenery() {
		t.Error("6 plants should suffice after two discounts")
	}

	in.OnDiscard(b, p, nil)
	if p.CanPlaceGreenery() {
		t.Error("6 plants should not suffice after discarding one discount")
	}

	p.Stock.Set(types.Plants, 7)
	if !p.CanPlaceGreenery() {
		t.Error("7 plants should suffice with one discount left")
	}
}

func TestOnDiscard_OneTimeEffectsStay(t *testing.T) {
	in, g, p := testSetup(t)
	b := &types.Behavior{
		Production: &types.Units{MegaCredits: 2},
		Stock:      &types.Units{Heat: 3},
		Global:     &types.GlobalParams{Oxygen: 1},
		TR:         1,
	}
	mustExecute(t, in, b, p, nil)
	in.OnDiscard(b, p, nil)

	if p.Production.Get(types.MegaCredits) != 2 {
		t.Errorf("production reversed: %d", p.Production.Get(types.MegaCredits))
	}
	if p.Stock.Get(types.Heat) != 3 {
		t.Errorf("stock reversed: %d", p.Stock.Get(types.Heat))
	}
	if g.Globals.Oxygen.Value != 1 {
		t.Errorf("oxygen reversed: %d", g.Globals.Oxygen.Value)
	}
	if p.TR != 22 {
		t.Errorf("tr = %d, want 22", p.TR)
	}
}

func TestDrawCard_Simple(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 5)

	if err := in.Execute(&types.Behavior{DrawCard: &types.DrawCard{Count: 3}}, p, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(p.Hand) != 3 {
		t.Errorf("hand = %d, want 3", len(p.Hand))
	}
	if p.Stock.Get(types.MegaCredits) != 5 {
		t.Errorf("megacredits = %d, want 5", p.Stock.Get(types.MegaCredits))
	}
	if p.Pending() != nil {
		t.Error("plain draw should not ask for input")
	}
}

func TestDrawCard_ResourceType(t *testing.T) {
	in, _, p := testSetup(t)
	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 3, Resource: types.ResourceMicrobe}}, p, nil)

	if len(p.Hand) != 3 {
		t.Fatalf("hand = %d, want 3", len(p.Hand))
	}
	for _, c := range p.Hand {
		if c.ResourceType != types.ResourceMicrobe {
			t.Errorf("%s resource type = %q", c.Key(), c.ResourceType)
		}
	}
}

func TestDrawCard_Tag(t *testing.T) {
	in, _, p := testSetup(t)
	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 3, Tag: types.TagBuilding}}, p, nil)

	if len(p.Hand) != 3 {
		t.Fatalf("hand = %d, want 3", len(p.Hand))
	}
	for _, c := range p.Hand {
		if !c.HasTag(types.TagBuilding) {
			t.Errorf("%s lacks the building tag", c.Key())
		}
	}
}

func TestDrawCard_TypeAndTag(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 5)
	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 3, Tag: types.TagSpace, Type: types.CardEvent}}, p, nil)

	if len(p.Hand) != 3 {
		t.Fatalf("hand = %d, want 3", len(p.Hand))
	}
	for _, c := range p.Hand {
		if !c.HasTag(types.TagSpace) || c.Def.Type != types.CardEvent {
			t.Errorf("%s is not a space event", c.Key())
		}
	}
	if p.Stock.Get(types.MegaCredits) != 5 {
		t.Errorf("megacredits = %d, want 5", p.Stock.Get(types.MegaCredits))
	}
}

func TestDrawCard_KeepSome(t *testing.T) {
	in, g, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 5)
	discardBefore := len(g.Deck.DiscardPile())

	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 3, Tag: types.TagSpace, Type: types.CardEvent, Keep: 2}}, p, nil)

	if len(p.Hand) != 0 {
		t.Fatalf("cards reached hand before choice: %d", len(p.Hand))
	}
	req := popRequest(t, p)
	if len(req.Cards) != 3 {
		t.Errorf("offered %d cards, want 3", len(req.Cards))
	}
	if req.Min != 2 || req.Max != 2 {
		t.Errorf("min/max = %d/%d, want 2/2", req.Min, req.Max)
	}
	if err := req.Resolve(req.Cards[:2]); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(p.Hand) != 2 {
		t.Errorf("hand = %d, want 2", len(p.Hand))
	}
	if p.Stock.Get(types.MegaCredits) != 5 {
		t.Errorf("megacredits = %d, want 5", p.Stock.Get(types.MegaCredits))
	}
	if p.FindInHand(req.Cards[2].ID) != nil {
		t.Error("unchosen card should not be in hand")
	}
	if got := len(g.Deck.DiscardPile()) - discardBefore; got < 1 {
		t.Errorf("unchosen card should be discarded, discard grew by %d", got)
	}
}

func TestDrawCard_Pay(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 5)

	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 1, Pay: true}}, p, nil)

	req := popRequest(t, p)
	if req.Min != 0 || req.Max != 1 {
		t.Errorf("min/max = %d/%d, want 0/1", req.Min, req.Max)
	}
	if err := req.Resolve([]*cards.Instance{req.Cards[0]}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(p.Hand) != 1 {
		t.Errorf("hand = %d, want 1", len(p.Hand))
	}
	if p.Stock.Get(types.MegaCredits) != 2 {
		t.Errorf("megacredits = %d, want 2", p.Stock.Get(types.MegaCredits))
	}
}

func TestDrawCard_PayDeclined(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 5)

	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 2, Pay: true}}, p, nil)

	req := popRequest(t, p)
	if err := req.Resolve(nil); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(p.Hand) != 0 || p.Stock.Get(types.MegaCredits) != 5 {
		t.Errorf("hand = %d, megacredits = %d", len(p.Hand), p.Stock.Get(types.MegaCredits))
	}
}

func TestDrawCard_PayLimitedByFunds(t *testing.T) {
	in, _, p := testSetup(t)
	p.Stock.Set(types.MegaCredits, 4)

	mustExecute(t, in, &types.Behavior{DrawCard: &types.DrawCard{Count: 3, Pay: true}}, p, nil)

	req := popRequest(t, p)
	if req.Max != 1 {
		t.Errorf("max = %d, want 1 (only one card affordable)", req.Max)
	}
}

func TestDrawCard_ShortDeck(t *testing.T) {
	in, _, p := testSetup(t)
	// The catalog has six space events; ask for more.
	err := in.Execute(&types.Behavior{DrawCard: &types.DrawCard{Count: 8, Tag: types.TagSpace, Type: types.CardEvent}}, p, nil)
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(p.Hand) != 6 {
		t.Errorf("hand = %d, want 6", len(p.Hand))
	}
}

func TestGlobalParameters(t *testing.T) {
	in, g, p := testSetup(t)
	levels := func() [3]int {
		return [3]int{g.Globals.Temperature.Value, g.Globals.Oxygen.Value, g.Globals.Venus.Value}
	}

	if got := levels(); got != [3]int{-30, 0, 0} {
		t.Fatalf("start = %v", got)
	}

	steps := []struct {
		global types.GlobalParams
		want   [3]int
	}{
		{types.GlobalParams{Temperature: 2}, [3]int{-26, 0, 0}},
		{types.GlobalParams{Oxygen: 1}, [3]int{-26, 1, 0}},
		{types.GlobalParams{Venus: 1}, [3]int{-26, 1, 2}},
		{types.GlobalParams{Temperature: 1, Oxygen: 2, Venus: 3}, [3]int{-24, 3, 8}},
	}
	for _, s := range steps {
		global := s.global
		mustExecute(t, in, &types.Behavior{Global: &global}, p, nil)
		if got := levels(); got != s.want {
			t.Errorf("after %+v: levels = %v, want %v", s.global, got, s.want)
		}
	}
	// 2 + 1 + 1 + 6 steps.
	if p.TR != 30 {
		t.Errorf("tr = %d, want 30", p.TR)
	}
}

func TestGlobalParameters_ClampsAndCreditsAppliedSteps(t *testing.T) {
	in, g, p := testSetup(t)
	mustExecute(t, in, &types.Behavior{Global: &types.GlobalParams{Oxygen: 20}}, p, nil)

	if g.Globals.Oxygen.Value != 14 {
		t.Errorf("oxygen = %d, want 14", g.Globals.Oxygen.Value)
	}
	if p.TR != 20+14 {
		t.Errorf("tr = %d, want 34", p.TR)
	}

	mustExecute(t, in, &types.Behavior{Global: &types.GlobalParams{Oxygen: 1}}, p, nil)
	if p.TR != 34 {
		t.Errorf("maxed track credited TR: %d", p.TR)
	}
}

func TestTR(t *testing.T) {
	in, _, p := testSetup(t)
	if p.TR != 20 {
		t.Fatalf("starting tr = %d", p.TR)
	}
	mustExecute(t, in, &types.Behavior{TR: 2}, p, nil)
	if p.TR != 22 {
		t.Errorf("tr = %d, want 22", p.TR)
	}
	mustExecute(t, in, &types.Behavior{TR: -1}, p, nil)
	if p.TR != 21 {
		t.Errorf("tr = %d, want 21", p.TR)
	}
}

func TestAddResources_RequiresCard(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{AddResources: 3}

	if in.CanExecute(b, p, nil) {
		t.Error("addResources without a card should not be executable")
	}
	if err := in.Execute(b, p, nil); !errors.Is(err, ErrNoCard) {
		t.Errorf("expected ErrNoCard, got %v", err)
	}
}

func TestAddResources_SpecificCard(t *testing.T) {
	in, _, p := testSetup(t)
	card := cards.New(tardigradesDef)
	card.ResourceCount = 2

	if err := in.Execute(&types.Behavior{AddResources: 3}, p, card); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if card.ResourceCount != 5 {
		t.Errorf("count = %d, want 5", card.ResourceCount)
	}
	if card.ResourceType != types.ResourceMicrobe {
		t.Errorf("resource type = %q, want microbe", card.ResourceType)
	}
}

func TestAddResources_CardCannotHold(t *testing.T) {
	in, _, p := testSetup(t)
	err := in.Execute(&types.Behavior{AddResources: 1}, p, cards.New(mineDef))
	if !errors.Is(err, cards.ErrCannotHold) {
		t.Errorf("expected ErrCannotHold, got %v", err)
	}
}

func TestExecute_IntegrityCheckedBeforeMutation(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{Production: &types.Units{Heat: 1}, AddResources: 1}

	if err := in.Execute(b, p, nil); err == nil {
		t.Fatal("expected integrity error")
	}
	if p.Production.Get(types.Heat) != 0 {
		t.Error("production applied despite integrity error")
	}
}

func TestExecute_MalformedDraw(t *testing.T) {
	in, _, p := testSetup(t)
	err := in.Execute(&types.Behavior{DrawCard: &types.DrawCard{Count: 1, Keep: 2}}, p, nil)
	if !errors.Is(err, ErrMalformed) {
		t.Errorf("expected ErrMalformed, got %v", err)
	}
}

func TestExecute_MalformedAnyCardCount(t *testing.T) {
	in, _, p := testSetup(t)
	b := &types.Behavior{
		Production:            &types.Units{Heat: 1},
		AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: -1, Type: types.ResourceMicrobe},
	}
	if err := in.Execute(b, p, nil); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
	if p.Production.Get(types.Heat) != 0 {
		t.Error("production applied despite malformed count")
	}
	if err := Validate(&types.Behavior{AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Type: types.ResourceMicrobe}}, nil); !errors.Is(err, ErrMalformed) {
		t.Errorf("zero count: expected ErrMalformed, got %v", err)
	}
}

func TestAddResourcesToAnyCard(t *testing.T) {
	in, _, p := testSetup(t)
	tardigrades := cards.New(tardigradesDef)
	ants := cards.New(antsDef)
	regolithEaters := cards.New(regolithEatersDef)
	livestock := cards.New(livestockDef)
	p.Played = []*cards.Instance{tardigrades, ants, regolithEaters, livestock}

	counts := func() [4]int {
		return [4]int{tardigrades.ResourceCount, ants.ResourceCount, regolithEaters.ResourceCount, livestock.ResourceCount}
	}

	// No floater cards.
	mustExecute(t, in, &types.Behavior{AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: 2, Type: types.ResourceFloater}}, p, nil)
	if p.Pending() != nil {
		t.Error("no eligible card should not ask for input")
	}
	if got := counts(); got != [4]int{0, 0, 0, 0} {
		t.Errorf("counts = %v", got)
	}

	// One animal card: applied directly.
	mustExecute(t, in, &types.Behavior{AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: 2, Type: types.ResourceAnimal}}, p, nil)
	if p.Pending() != nil {
		t.Error("single eligible card should not ask for input")
	}
	if got := counts(); got != [4]int{0, 0, 0, 2} {
		t.Errorf("counts = %v", got)
	}

	// Three microbe cards: the player chooses.
	mustExecute(t, in, &types.Behavior{AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: 1, Type: types.ResourceMicrobe}}, p, nil)
	req := popRequest(t, p)
	if len(req.Cards) != 3 || req.Min != 1 || req.Max != 1 {
		t.Fatalf("offered %d cards, min/max %d/%d", len(req.Cards), req.Min, req.Max)
	}
	for _, want := range []*cards.Instance{tardigrades, ants, regolithEaters} {
		if req.Find(want.ID) == nil {
			t.Errorf("%s not offered", want.Name())
		}
	}
	if err := req.Resolve([]*cards.Instance{ants}); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got := counts(); got != [4]int{0, 1, 0, 2} {
		t.Errorf("counts = %v", got)
	}
}

func TestAddResourcesToAnyCard_TagFilter(t *testing.T) {
	in, _, p := testSetup(t)
	tardigrades := cards.New(tardigradesDef)
	regolithEaters := cards.New(regolithEatersDef)
	p.Played = []*cards.Instance{tardigrades, regolithEaters}

	mustExecute(t, in, &types.Behavior{AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: 2, Type: types.ResourceMicrobe, Tag: types.TagScience}}, p, nil)

	if p.Pending() != nil {
		t.Error("only one card has the science tag")
	}
	if regolithEaters.ResourceCount != 2 || tardigrades.ResourceCount != 0 {
		t.Errorf("counts = %d/%d", tardigrades.ResourceCount, regolithEaters.ResourceCount)
	}
}

func TestExecute_SequentialSuspension(t *testing.T) {
	in, _, p := testSetup(t)
	p.Played = []*cards.Instance{cards.New(tardigradesDef), cards.New(antsDef)}
	b := &types.Behavior{
		DrawCard:              &types.DrawCard{Count: 2, Keep: 1},
		TR:                    1,
		AddResourcesToAnyCard: &types.AddResourcesToAnyCard{Count: 1, Type: types.ResourceMicrobe},
	}

	if err := in.Execute(b, p, nil); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if p.TR != 20 {
		t.Errorf("tr applied before the first request resolved: %d", p.TR)
	}
	first := popRequest(t, p)
	if len(first.Remaining) != 2 || first.Remaining[0] != "tr" || first.Remaining[1] != "addResourcesToAnyCard" {
		t.Errorf("remaining = %v", first.Remaining)
	}

	if err := first.Resolve(first.Cards[:1]); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.TR != 21 {
		t.Errorf("tr = %d, want 21 after resume", p.TR)
	}
	second := popRequest(t, p)
	if len(second.Cards) != 2 {
		t.Errorf("second request offers %d cards", len(second.Cards))
	}
	if err := second.Resolve(second.Cards[1:]); err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if p.Played[1].ResourceCount != 1 {
		t.Errorf("ants count = %d, want 1", p.Played[1].ResourceCount)
	}
}

func TestExecute_NilBehavior(t *testing.T) {
	in, _, p := testSetup(t)
	if !in.CanExecute(nil, p, nil) {
		t.Error("nil behavior should be executable")
	}
	if err := in.Execute(nil, p, nil); err != nil {
		t.Errorf("Execute(nil) = %v", err)
	}
	in.OnDiscard(nil, p, nil)
}

func TestExecute_EmitsEvents(t *testing.T) {
	in, g, p := testSetup(t)
	mustExecute(t, in, &types.Behavior{Production: &types.Units{Energy: 1}, TR: 1}, p, nil)

	evts := g.Events.Drain()
	if len(evts) != 2 {
		t.Fatalf("events = %d, want 2", len(evts))
	}
	if evts[0].Type != "production_changed" || evts[1].Type != "tr_changed" {
		t.Errorf("event order = %s, %s", evts[0].Type, evts[1].Type)
	}
	if evts[0].Player != p.ID {
		t.Errorf("event player = %q", evts[0].Player)
	}
}

func TestReversible(t *testing.T) {
	got := Reversible()
	want := []string{"steelValue", "titaniumValue", "greeneryDiscount"}
	if len(got) != len(want) {
		t.Fatalf("Reversible = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Reversible[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSummary(t *testing.T) {
	b := &types.Behavior{
		Production: &types.Units{Energy: 3},
		DrawCard:   &types.DrawCard{Count: 3, Keep: 2, Tag: types.TagSpace},
		TR:         1,
	}
	want := "production energy:3; draw 3 space card(s), keep 2; tr +1"
	if got := Summary(b); got != want {
		t.Errorf("Summary = %q, want %q", got, want)
	}
}
