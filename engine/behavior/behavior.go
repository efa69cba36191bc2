// Package behavior interprets declarative card behaviors: it checks whether
// a behavior can be applied, applies it, and reverses its standing
// modifiers when the card leaves play.
//
// Each descriptor field maps to one instruction with its own legality
// check, transition and, for standing modifiers, an undo. Instructions run
// in table order. An instruction that needs a player decision returns an
// input request; the remaining instructions become the request's
// continuation and run only after the player answers.
package behavior

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/terracore/engine/cards"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

var (
	// ErrNoCard is returned when a card-targeted instruction runs without
	// a target card.
	ErrNoCard = errors.New("behavior requires a target card")
	// ErrMalformed is returned for descriptors that can never be valid.
	ErrMalformed = errors.New("malformed behavior")
)

// Interpreter applies behaviors to one game.
type Interpreter struct {
	game *state.Game
	log  *zap.Logger
}

// New creates an interpreter for g. A nil logger disables logging.
func New(g *state.Game, log *zap.Logger) *Interpreter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Interpreter{game: g, log: log}
}

// call is one evaluation of a behavior for a player and optional card.
type call struct {
	in     *Interpreter
	b      *types.Behavior
	player *state.Player
	card   *cards.Instance
}

func (c *call) emit(eventType string, data map[string]any) {
	c.in.game.Events.Emit(eventType, c.player.ID, data)
}

// CanExecute reports whether every instruction in b can be applied for
// player (and card, when given) without breaking an invariant. It never
// mutates state.
func (in *Interpreter) CanExecute(b *types.Behavior, player *state.Player, card *cards.Instance) bool {
	if b == nil {
		return true
	}
	c := &call{in: in, b: b, player: player, card: card}
	for _, ins := range instructions {
		if !ins.present(b) || ins.canExecute == nil {
			continue
		}
		if !ins.canExecute(c) {
			in.log.Debug("behavior not executable",
				zap.String("player", player.ID),
				zap.String("instruction", ins.name))
			return false
		}
	}
	return true
}

// Execute applies b. Callers gate with CanExecute first. Descriptor
// integrity errors are reported before anything is mutated. When an
// instruction needs a decision, a request is pushed on the player's input
// queue and Execute returns; the rest of the behavior runs when the
// request is resolved.
func (in *Interpreter) Execute(b *types.Behavior, player *state.Player, card *cards.Instance) error {
	if b == nil {
		return nil
	}
	c := &call{in: in, b: b, player: player, card: card}
	if err := c.checkIntegrity(); err != nil {
		in.log.Error("malformed behavior",
			zap.String("player", player.ID),
			zap.String("card", cardName(card)),
			zap.Error(err))
		return err
	}
	var steps []instruction
	for _, ins := range instructions {
		if ins.present(b) {
			steps = append(steps, ins)
		}
	}
	return c.run(steps)
}

// OnDiscard reverses the standing modifiers of b. One-time effects
// (production, stock, draws, global raises, TR, resource placement) stay.
func (in *Interpreter) OnDiscard(b *types.Behavior, player *state.Player, card *cards.Instance) {
	if b == nil {
		return
	}
	c := &call{in: in, b: b, player: player, card: card}
	for _, ins := range instructions {
		if ins.reversible && ins.present(b) {
			ins.undo(c)
			in.log.Debug("reversed instruction",
				zap.String("player", player.ID),
				zap.String("instruction", ins.name))
		}
	}
}

// run applies steps in order, suspending at the first request.
func (c *call) run(steps []instruction) error {
	for i, ins := range steps {
		c.in.log.Debug("applying instruction",
			zap.String("player", c.player.ID),
			zap.String("card", cardName(c.card)),
			zap.String("instruction", ins.name))

		req, err := ins.execute(c)
		if err != nil {
			return fmt.Errorf("%s: %w", ins.name, err)
		}
		if req == nil {
			continue
		}

		rest := steps[i+1:]
		for _, r := range rest {
			req.Remaining = append(req.Remaining, r.name)
		}
		req.Then(func() error { return c.run(rest) })
		if err := c.player.Input.Push(req); err != nil {
			return fmt.Errorf("%s: %w", ins.name, err)
		}
		c.emit("input_requested", map[string]any{
			"request": req.ID, "title": req.Title, "min": req.Min, "max": req.Max,
		})
		c.in.log.Debug("behavior suspended",
			zap.String("player", c.player.ID),
			zap.String("request", req.ID),
			zap.Strings("remaining", req.Remaining))
		return nil
	}
	return nil
}

// Validate reports the integrity errors Execute would return for b and
// card, without applying anything.
func Validate(b *types.Behavior, card *cards.Instance) error {
	if b == nil {
		return nil
	}
	c := &call{b: b, card: card}
	return c.checkIntegrity()
}

// checkIntegrity rejects descriptors that are wrong regardless of game
// state.
func (c *call) checkIntegrity() error {
	b := c.b
	if b.AddResources != 0 {
		if c.card == nil {
			return fmt.Errorf("addResources: %w", ErrNoCard)
		}
		if c.card.EffectiveResourceType() == types.ResourceNone {
			return fmt.Errorf("addResources on %s: %w", c.card.Name(), cards.ErrCannotHold)
		}
	}
	if dc := b.DrawCard; dc != nil {
		if dc.Count <= 0 {
			return fmt.Errorf("drawCard count %d: %w", dc.Count, ErrMalformed)
		}
		if dc.Keep < 0 || dc.Keep > dc.Count {
			return fmt.Errorf("drawCard keep %d of %d: %w", dc.Keep, dc.Count, ErrMalformed)
		}
	}
	if a := b.AddResourcesToAnyCard; a != nil {
		if a.Type == types.ResourceNone {
			return fmt.Errorf("addResourcesToAnyCard without a type: %w", ErrMalformed)
		}
		if a.Count <= 0 {
			return fmt.Errorf("addResourcesToAnyCard count %d: %w", a.Count, ErrMalformed)
		}
	}
	return nil
}

// Summary describes the present instructions of b, e.g.
// "production energy:3; tr +1".
func Summary(b *types.Behavior) string {
	if b == nil {
		return ""
	}
	var parts []string
	for _, ins := range instructions {
		if ins.present(b) {
			parts = append(parts, ins.describe(b))
		}
	}
	return strings.Join(parts, "; ")
}

// Reversible returns the names of instructions undone on discard.
func Reversible() []string {
	var out []string
	for _, ins := range instructions {
		if ins.reversible {
			out = append(out, ins.name)
		}
	}
	return out
}

// notSelected returns the offered cards that were not chosen.
func notSelected(offered, selected []*cards.Instance) []*cards.Instance {
	chosen := map[*cards.Instance]bool{}
	for _, s := range selected {
		chosen[s] = true
	}
	var rest []*cards.Instance
	for _, o := range offered {
		if !chosen[o] {
			rest = append(rest, o)
		}
	}
	return rest
}

func cardName(c *cards.Instance) string {
	if c == nil {
		return ""
	}
	return c.Name()
}
