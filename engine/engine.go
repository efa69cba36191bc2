// Package engine provides the orchestrator that wires together parsing,
// card resolution, requirements, payment and the behavior interpreter into
// player commands.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/nathoo/terracore/config"
	"github.com/nathoo/terracore/engine/behavior"
	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/input"
	"github.com/nathoo/terracore/engine/parser"
	"github.com/nathoo/terracore/engine/requirements"
	"github.com/nathoo/terracore/engine/resolve"
	"github.com/nathoo/terracore/engine/save"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

var (
	// ErrNotYourTurn is returned when a player acts out of turn.
	ErrNotYourTurn = errors.New("not your turn")
	// ErrInputPending is returned when a player must answer a request
	// before doing anything else.
	ErrInputPending = errors.New("answer the pending request first")
	// ErrNoPending is returned when answering without a request.
	ErrNoPending = errors.New("nothing to select")
	// ErrCannotAfford is returned when a card's cost cannot be paid.
	ErrCannotAfford = errors.New("cannot afford card")
	// ErrRequirement is returned when a card's requirement is not met.
	ErrRequirement = errors.New("requirement not met")
	// ErrUnplayable is returned when a card's behavior cannot be applied.
	ErrUnplayable = errors.New("card behavior cannot be applied")
)

// Engine holds the card catalog and the mutable game. Public methods are
// safe to call from several goroutines.
type Engine struct {
	mu sync.Mutex

	Defs       *state.Defs
	Config     config.Config
	Game       *state.Game
	CommandLog []string

	behavior *behavior.Interpreter
	reqs     *requirements.Checker
	log      *zap.Logger
}

// New creates an engine and deals the configured starting hands. A nil
// logger disables logging.
func New(defs *state.Defs, cfg config.Config, log *zap.Logger) (*Engine, error) {
	if log == nil {
		log = zap.NewNop()
	}
	reqs, err := requirements.New()
	if err != nil {
		return nil, err
	}
	e := &Engine{Defs: defs, Config: cfg, reqs: reqs, log: log}
	e.attach(state.NewGame(defs, cfg))
	for _, p := range e.Game.Players {
		p.Hand = append(p.Hand, e.Game.Deck.Draw(cfg.StartingHand)...)
	}
	e.Game.Events.Drain()
	return e, nil
}

// attach makes g the current game.
func (e *Engine) attach(g *state.Game) {
	e.Game = g
	e.behavior = behavior.New(g, e.log)
	g.Events.On("", func(ev types.Event) {
		e.log.Debug("event",
			zap.String("type", ev.Type),
			zap.String("player", ev.Player),
			zap.Any("data", ev.Data))
	})
}

// Actor returns the player expected to act next: the first player owing an
// answer, otherwise the active player.
func (e *Engine) Actor() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.actor()
}

func (e *Engine) actor() string {
	for _, p := range e.Game.Players {
		if p.Pending() != nil {
			return p.ID
		}
	}
	return e.Game.ActivePlayer().ID
}

// Pending returns the player's outstanding request, or nil.
func (e *Engine) Pending(playerID string) (*input.Request, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return nil, err
	}
	return p.Pending(), nil
}

// Step processes one player command and returns the result.
func (e *Engine) Step(playerID, command string) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	var result types.Result

	// 1. Parse input.
	intent := parser.Parse(command)

	// 2. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// 3. Log the command.
	e.CommandLog = append(e.CommandLog, command)
	e.log.Debug("command", zap.String("player", playerID), zap.String("input", command))

	p, err := e.Game.Player(playerID)
	if err != nil {
		result.Output = append(result.Output, err.Error())
		return result
	}

	// 4. Dispatch.
	var out []string
	switch intent.Verb {
	case "play":
		out, err = e.stepPlay(p, intent)
	case "select":
		out, err = e.stepSelect(p, intent)
	case "discard":
		out, err = e.stepDiscard(p, intent)
	case "deal":
		out, err = e.stepDeal(p, intent)
	case "pass":
		out, err = e.stepPass(p)
	case "hand":
		out = describeHand(p)
	case "played":
		out = describePlayed(p)
	case "status":
		out = describeStatus(e.Game, p)
	default:
		out = []string{fmt.Sprintf("I don't know how to %q.", intent.Verb)}
	}
	if err != nil {
		out = append(out, err.Error())
	}
	result.Output = append(result.Output, out...)

	// 5. Prompt for any decision the command left open.
	if req := p.Pending(); req != nil && intent.Verb != "hand" && intent.Verb != "played" && intent.Verb != "status" {
		result.Output = append(result.Output, describeRequest(req)...)
	}

	// 6. Collect events.
	result.Events = e.Game.Events.Drain()
	return result
}

func (e *Engine) stepPlay(p *state.Player, intent types.Intent) ([]string, error) {
	if len(intent.Args) == 0 {
		return []string{"Play which card?"}, nil
	}
	c, err := resolve.Card(intent.Args[0], p.Hand)
	if err != nil {
		return nil, err
	}
	pay, err := e.playCard(p, c)
	if err != nil {
		return nil, err
	}
	out := []string{fmt.Sprintf("You play %s, paying %s.", c.Name(), describePayment(pay))}
	if s := behavior.Summary(c.Def.Behavior); s != "" {
		out = append(out, "  "+s)
	}
	return out, nil
}

func (e *Engine) stepSelect(p *state.Player, intent types.Intent) ([]string, error) {
	req := p.Pending()
	if req == nil {
		return nil, ErrNoPending
	}
	selected, err := resolve.Cards(intent.Args, req.Cards)
	if err != nil {
		return nil, err
	}
	if err := e.resolve(p, selected); err != nil {
		return nil, err
	}
	if len(selected) == 0 {
		return []string{"You select nothing."}, nil
	}
	return []string{"You select " + joinNames(selected) + "."}, nil
}

func (e *Engine) stepDiscard(p *state.Player, intent types.Intent) ([]string, error) {
	if len(intent.Args) == 0 {
		return []string{"Discard which card?"}, nil
	}
	c, err := resolve.Card(intent.Args[0], p.Played)
	if err != nil {
		return nil, err
	}
	if err := e.discardPlayed(p, c); err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s leaves play.", c.Name())}, nil
}

func (e *Engine) stepDeal(p *state.Player, intent types.Intent) ([]string, error) {
	n := 1
	if len(intent.Args) > 0 {
		v, err := strconv.Atoi(intent.Args[0])
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("deal needs a positive count, got %q", intent.Args[0])
		}
		n = v
	}
	drawn := e.dealHand(p, n)
	if len(drawn) == 0 {
		return []string{"The deck is empty."}, nil
	}
	return []string{fmt.Sprintf("You draw %s.", joinNames(drawn))}, nil
}

func (e *Engine) stepPass(p *state.Player) ([]string, error) {
	next, err := e.pass(p)
	if err != nil {
		return nil, err
	}
	return []string{fmt.Sprintf("%s passes. It is %s's turn.", p.ID, next.ID)}, nil
}

// PlayCard plays a card from the player's hand.
func (e *Engine) PlayCard(playerID, cardRef string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return err
	}
	c, err := resolve.Card(cardRef, p.Hand)
	if err != nil {
		return err
	}
	_, err = e.playCard(p, c)
	return err
}

// playCard checks every precondition before touching state.
func (e *Engine) playCard(p *state.Player, c *cards.Instance) (types.Payment, error) {
	if err := e.checkTurn(p); err != nil {
		return types.Payment{}, err
	}
	if ok, err := e.reqs.Met(c.Def.Requires, p, e.Game.Globals); err != nil {
		return types.Payment{}, fmt.Errorf("%s: %w", c.Name(), err)
	} else if !ok {
		return types.Payment{}, fmt.Errorf("%s requires %s: %w", c.Name(), c.Def.Requires, ErrRequirement)
	}
	if err := behavior.Validate(c.Def.Behavior, c); err != nil {
		return types.Payment{}, fmt.Errorf("%s: %w", c.Name(), err)
	}
	if !e.behavior.CanExecute(c.Def.Behavior, p, c) {
		return types.Payment{}, fmt.Errorf("%s: %w", c.Name(), ErrUnplayable)
	}
	pay, ok := PlanPayment(p, c)
	if !ok {
		return types.Payment{}, fmt.Errorf("%s costs %d: %w", c.Name(), c.Def.Cost, ErrCannotAfford)
	}

	// The behavior is checked again against the stock left after paying.
	before := p.Stock.Units()
	if err := p.Stock.AddUnits(types.Units{
		MegaCredits: -pay.MegaCredits,
		Steel:       -pay.Steel,
		Titanium:    -pay.Titanium,
	}); err != nil {
		return types.Payment{}, err
	}
	if !e.behavior.CanExecute(c.Def.Behavior, p, c) {
		p.Stock.Restore(before)
		return types.Payment{}, fmt.Errorf("%s after paying %d: %w", c.Name(), c.Def.Cost, ErrUnplayable)
	}
	p.RemoveFromHand(c)
	p.Played = append(p.Played, c)
	e.Game.Events.Emit("card_played", p.ID, map[string]any{
		"card":        c.Name(),
		"cost":        c.Def.Cost,
		"megacredits": pay.MegaCredits,
		"steel":       pay.Steel,
		"titanium":    pay.Titanium,
	})
	e.log.Info("card played",
		zap.String("player", p.ID),
		zap.String("card", c.Key()),
		zap.Int("megacredits", pay.MegaCredits),
		zap.Int("steel", pay.Steel),
		zap.Int("titanium", pay.Titanium))

	if err := e.behavior.Execute(c.Def.Behavior, p, c); err != nil {
		return pay, err
	}
	return pay, nil
}

// PlanPayment picks how p pays for c: steel on building cards and titanium
// on space cards first, then megacredits. Materials may overpay by one unit
// when megacredits fall short.
func PlanPayment(p *state.Player, c *cards.Instance) (types.Payment, bool) {
	var pay types.Payment
	remaining := c.Def.Cost
	if remaining <= 0 {
		return pay, true
	}
	mc := p.Stock.Get(types.MegaCredits)

	type material struct {
		use   bool
		have  int
		value int
		n     *int
	}
	mats := []material{
		{c.HasTag(types.TagBuilding), p.Stock.Get(types.Steel), p.SteelValue(), &pay.Steel},
		{c.HasTag(types.TagSpace), p.Stock.Get(types.Titanium), p.TitaniumValue(), &pay.Titanium},
	}
	for _, m := range mats {
		if !m.use || m.value <= 0 {
			continue
		}
		n := min(m.have, remaining/m.value)
		*m.n = n
		remaining -= n * m.value
	}
	if mc >= remaining {
		pay.MegaCredits = remaining
		return pay, true
	}
	for _, m := range mats {
		if m.use && m.value > 0 && m.have > *m.n {
			*m.n++
			remaining = max(0, remaining-m.value)
			if mc >= remaining {
				pay.MegaCredits = remaining
				return pay, true
			}
		}
	}
	return types.Payment{}, false
}

// Resolve answers the player's pending request with the referenced cards.
func (e *Engine) Resolve(playerID string, cardRefs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return err
	}
	req := p.Pending()
	if req == nil {
		return ErrNoPending
	}
	selected, err := resolve.Cards(cardRefs, req.Cards)
	if err != nil {
		return err
	}
	return e.resolve(p, selected)
}

// resolve validates first so an invalid answer leaves the request open,
// then pops before resolving so the continuation may push the next one.
func (e *Engine) resolve(p *state.Player, selected []*cards.Instance) error {
	req := p.Pending()
	if err := req.Validate(selected); err != nil {
		return err
	}
	p.Input.Pop()
	e.log.Debug("resolving request",
		zap.String("player", p.ID),
		zap.String("request", req.ID),
		zap.Int("selected", len(selected)))
	return req.Resolve(selected)
}

// DiscardPlayed removes a played card and reverses its standing modifiers.
func (e *Engine) DiscardPlayed(playerID, cardRef string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return err
	}
	c, err := resolve.Card(cardRef, p.Played)
	if err != nil {
		return err
	}
	return e.discardPlayed(p, c)
}

func (e *Engine) discardPlayed(p *state.Player, c *cards.Instance) error {
	if p.Pending() != nil {
		return ErrInputPending
	}
	if !p.RemovePlayed(c) {
		return fmt.Errorf("%s is not in play", c.Name())
	}
	e.behavior.OnDiscard(c.Def.Behavior, p, c)
	e.Game.Deck.Discard(c)
	e.Game.Events.Emit("card_discarded", p.ID, map[string]any{"card": c.Name()})
	return nil
}

// DealHand draws up to n cards into the player's hand.
func (e *Engine) DealHand(playerID string, n int) ([]*cards.Instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return nil, err
	}
	return e.dealHand(p, n), nil
}

func (e *Engine) dealHand(p *state.Player, n int) []*cards.Instance {
	drawn := e.Game.Deck.Draw(n)
	p.Hand = append(p.Hand, drawn...)
	e.Game.Events.Emit("cards_dealt", p.ID, map[string]any{"requested": n, "drawn": len(drawn)})
	return drawn
}

// Pass ends the player's turn.
func (e *Engine) Pass(playerID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	p, err := e.Game.Player(playerID)
	if err != nil {
		return err
	}
	_, err = e.pass(p)
	return err
}

func (e *Engine) pass(p *state.Player) (*state.Player, error) {
	if err := e.checkTurn(p); err != nil {
		return nil, err
	}
	next := e.Game.Pass()
	e.Game.Events.Emit("turn_passed", p.ID, map[string]any{"next": next.ID, "turn": e.Game.Turn})
	return next, nil
}

func (e *Engine) checkTurn(p *state.Player) error {
	if p.Pending() != nil {
		return ErrInputPending
	}
	if e.Game.ActivePlayer() != p {
		return fmt.Errorf("%s: %w", p.ID, ErrNotYourTurn)
	}
	return nil
}

// Snapshot serializes the game. It fails while any request is pending.
func (e *Engine) Snapshot() ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return save.Save(e.Game, e.CommandLog)
}

// Restore replaces the game with a snapshot.
func (e *Engine) Restore(data []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	sd, err := save.Load(data)
	if err != nil {
		return err
	}
	g, err := save.Restore(sd, e.Defs, e.Config)
	if err != nil {
		return err
	}
	e.attach(g)
	e.CommandLog = sd.CommandLog
	return nil
}
