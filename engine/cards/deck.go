package cards

import "github.com/nathoo/terracore/engine/rng"

// Deck is the shared draw pile plus its discard pile.
type Deck struct {
	draw    []*Instance // top of the pile is the last element
	discard []*Instance
	rng     *rng.RNG
}

// NewDeck shuffles cards into a fresh draw pile.
func NewDeck(cards []*Instance, r *rng.RNG) *Deck {
	d := &Deck{draw: append([]*Instance(nil), cards...), rng: r}
	d.shuffle()
	return d
}

// RestoreDeck rebuilds a deck with piles in the given order, without
// shuffling.
func RestoreDeck(draw, discard []*Instance, r *rng.RNG) *Deck {
	return &Deck{
		draw:    append([]*Instance(nil), draw...),
		discard: append([]*Instance(nil), discard...),
		rng:     r,
	}
}

func (d *Deck) shuffle() {
	d.rng.Shuffle(len(d.draw), func(i, j int) {
		d.draw[i], d.draw[j] = d.draw[j], d.draw[i]
	})
}

// Size returns the number of cards in both piles.
func (d *Deck) Size() int {
	return len(d.draw) + len(d.discard)
}

// DrawPile returns the draw pile, bottom first.
func (d *Deck) DrawPile() []*Instance {
	return d.draw
}

// DiscardPile returns the discard pile, oldest first.
func (d *Deck) DiscardPile() []*Instance {
	return d.discard
}

// drawOne takes the top card, reshuffling the discard pile into the draw
// pile when it runs out.
func (d *Deck) drawOne() (*Instance, bool) {
	if len(d.draw) == 0 {
		if len(d.discard) == 0 {
			return nil, false
		}
		d.draw, d.discard = d.discard, nil
		d.shuffle()
	}
	top := d.draw[len(d.draw)-1]
	d.draw = d.draw[:len(d.draw)-1]
	return top, true
}

// Draw takes up to n cards. A short result means the deck is exhausted.
func (d *Deck) Draw(n int) []*Instance {
	var out []*Instance
	for len(out) < n {
		c, ok := d.drawOne()
		if !ok {
			break
		}
		out = append(out, c)
	}
	return out
}

// DrawMatching draws until n cards matching f are found. Cards that do not
// match are set aside and discarded once drawing stops, so every card is
// examined at most once. exhausted is true when fewer than n were found.
func (d *Deck) DrawMatching(n int, f Filter) (drawn []*Instance, exhausted bool) {
	if f.IsZero() {
		drawn = d.Draw(n)
		return drawn, len(drawn) < n
	}
	var aside []*Instance
	for len(drawn) < n {
		c, ok := d.drawOne()
		if !ok {
			break
		}
		if f.Matches(c) {
			drawn = append(drawn, c)
		} else {
			aside = append(aside, c)
		}
	}
	d.Discard(aside...)
	return drawn, len(drawn) < n
}

// Discard puts cards on the discard pile.
func (d *Deck) Discard(cards ...*Instance) {
	d.discard = append(d.discard, cards...)
}
