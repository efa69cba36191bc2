// Package input implements pending player decisions. A request carries the
// choice offered to a player and the continuation that resumes the
// suspended behavior once the player answers.
package input

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/nathoo/terracore/engine/cards"
)

var (
	// ErrPending is returned when a second request is pushed while one is
	// still outstanding.
	ErrPending = errors.New("input request already pending")
	// ErrResolved is returned when a request is answered twice.
	ErrResolved = errors.New("input request already resolved")
	// ErrInvalidSelection is returned for answers outside the offered
	// choice or its bounds. The request stays answerable.
	ErrInvalidSelection = errors.New("invalid selection")
)

// Request asks one player to pick between Min and Max of Cards.
type Request struct {
	ID        string
	PlayerID  string
	Title     string
	Cards     []*cards.Instance
	Min       int
	Max       int
	Remaining []string // instructions that run after this request resolves

	onSelect func(selected []*cards.Instance) error
	then     func() error
	resolved bool
}

// NewSelectCard creates a card selection request.
func NewSelectCard(playerID, title string, options []*cards.Instance, min, max int, onSelect func(selected []*cards.Instance) error) *Request {
	return &Request{
		ID:       uuid.NewString(),
		PlayerID: playerID,
		Title:    title,
		Cards:    options,
		Min:      min,
		Max:      max,
		onSelect: onSelect,
	}
}

// Then appends a continuation that runs after the selection callback.
func (r *Request) Then(next func() error) {
	prev := r.then
	if prev == nil {
		r.then = next
		return
	}
	r.then = func() error {
		if err := prev(); err != nil {
			return err
		}
		return next()
	}
}

// Find returns the offered card with the given instance ID or catalog key.
func (r *Request) Find(id string) *cards.Instance {
	for _, c := range r.Cards {
		if c.ID == id {
			return c
		}
	}
	for _, c := range r.Cards {
		if c.Key() == id {
			return c
		}
	}
	return nil
}

// Resolved reports whether the request has been answered.
func (r *Request) Resolved() bool {
	return r.resolved
}

// Validate checks an answer without resolving the request.
func (r *Request) Validate(selected []*cards.Instance) error {
	if len(selected) < r.Min || len(selected) > r.Max {
		return fmt.Errorf("select between %d and %d cards, got %d: %w",
			r.Min, r.Max, len(selected), ErrInvalidSelection)
	}
	seen := map[*cards.Instance]bool{}
	for _, s := range selected {
		if seen[s] {
			return fmt.Errorf("%s selected twice: %w", s.Name(), ErrInvalidSelection)
		}
		seen[s] = true
		if !r.offers(s) {
			return fmt.Errorf("%s was not offered: %w", s.Name(), ErrInvalidSelection)
		}
	}
	return nil
}

// Resolve answers the request, then runs the selection callback and the
// continuation. A request resolves at most once.
func (r *Request) Resolve(selected []*cards.Instance) error {
	if r.resolved {
		return ErrResolved
	}
	if err := r.Validate(selected); err != nil {
		return err
	}
	r.resolved = true
	if r.onSelect != nil {
		if err := r.onSelect(selected); err != nil {
			return err
		}
	}
	if r.then != nil {
		return r.then()
	}
	return nil
}

func (r *Request) offers(c *cards.Instance) bool {
	for _, o := range r.Cards {
		if o == c {
			return true
		}
	}
	return false
}

// Queue is a player's pending requests. It holds at most one outstanding
// request: behaviors suspend one decision at a time.
type Queue struct {
	items []*Request
}

// Push enqueues r, refusing when a request is already outstanding.
func (q *Queue) Push(r *Request) error {
	if len(q.items) > 0 {
		return fmt.Errorf("%q waits on %q: %w", r.Title, q.items[0].Title, ErrPending)
	}
	q.items = append(q.items, r)
	return nil
}

// Pending returns the outstanding request without removing it, or nil.
func (q *Queue) Pending() *Request {
	if len(q.items) == 0 {
		return nil
	}
	return q.items[0]
}

// Pop removes and returns the outstanding request, or nil.
func (q *Queue) Pop() *Request {
	if len(q.items) == 0 {
		return nil
	}
	r := q.items[0]
	q.items = q.items[1:]
	return r
}

// Len returns the number of outstanding requests.
func (q *Queue) Len() int {
	return len(q.items)
}
