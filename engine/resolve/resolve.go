// Package resolve maps player-typed card references to card instances.
package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/nathoo/terracore/engine/cards"
)

// maxSuggestDistance bounds how far off a typo may be and still get a
// suggestion.
const maxSuggestDistance = 3

// AmbiguityError indicates multiple cards matched a reference.
type AmbiguityError struct {
	Ref        string
	Candidates []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("which %s? (%s)", e.Ref, strings.Join(e.Candidates, ", "))
}

// NotFoundError indicates no card matched a reference.
type NotFoundError struct {
	Ref        string
	Suggestion string // closest card name, if any is close enough
}

func (e *NotFoundError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("no card %q here. Did you mean %q?", e.Ref, e.Suggestion)
	}
	return fmt.Sprintf("no card %q here", e.Ref)
}

// Card resolves ref against candidates. A reference is tried as an
// instance ID or catalog key, then as a 1-based index, then as a
// case-insensitive name or a word of a name.
func Card(ref string, candidates []*cards.Instance) (*cards.Instance, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, &NotFoundError{Ref: ref}
	}

	// 1. Exact instance ID or catalog key.
	for _, c := range candidates {
		if c.ID == ref {
			return c, nil
		}
	}
	var matches []*cards.Instance
	for _, c := range candidates {
		if c.Key() == ref {
			matches = append(matches, c)
		}
	}
	// Duplicate copies of one catalog card are interchangeable.
	if len(matches) > 0 {
		return matches[0], nil
	}

	// 2. 1-based index.
	if n, err := strconv.Atoi(ref); err == nil {
		if n >= 1 && n <= len(candidates) {
			return candidates[n-1], nil
		}
		return nil, &NotFoundError{Ref: ref}
	}

	// 3. Name match.
	refLower := strings.ToLower(ref)
	for _, c := range candidates {
		if matchesName(c, refLower) {
			matches = append(matches, c)
		}
	}

	switch len(distinctKeys(matches)) {
	case 0:
		return nil, &NotFoundError{Ref: ref, Suggestion: suggest(refLower, candidates)}
	case 1:
		return matches[0], nil
	default:
		return nil, &AmbiguityError{Ref: ref, Candidates: names(matches)}
	}
}

// Cards resolves each reference, rejecting the same card twice.
func Cards(refs []string, candidates []*cards.Instance) ([]*cards.Instance, error) {
	var out []*cards.Instance
	seen := map[*cards.Instance]bool{}
	for _, ref := range refs {
		c, err := Card(ref, candidates)
		if err != nil {
			return nil, err
		}
		if seen[c] {
			return nil, fmt.Errorf("%s listed twice", c.Name())
		}
		seen[c] = true
		out = append(out, c)
	}
	return out, nil
}

// matchesName checks the display name (exact or any word) and the
// catalog key with spaces normalized to underscores.
func matchesName(c *cards.Instance, refLower string) bool {
	nameLower := strings.ToLower(c.Name())
	if nameLower == refLower {
		return true
	}
	for _, word := range strings.Fields(nameLower) {
		if word == refLower {
			return true
		}
	}
	keyLower := strings.ToLower(c.Key())
	return keyLower == refLower || strings.ReplaceAll(refLower, " ", "_") == keyLower
}

// suggest returns the candidate name closest to ref, if close enough.
func suggest(refLower string, candidates []*cards.Instance) string {
	best, bestDist := "", maxSuggestDistance+1
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(refLower, strings.ToLower(c.Name()))
		if d < bestDist {
			best, bestDist = c.Name(), d
		}
	}
	return best
}

func distinctKeys(list []*cards.Instance) map[string]bool {
	keys := map[string]bool{}
	for _, c := range list {
		keys[c.Key()] = true
	}
	return keys
}

func names(list []*cards.Instance) []string {
	var out []string
	seen := map[string]bool{}
	for _, c := range list {
		if !seen[c.Key()] {
			seen[c.Key()] = true
			out = append(out, c.Name())
		}
	}
	return out
}
