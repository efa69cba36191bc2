// Package parser converts command strings into Intent structs.
// Intentionally dumb: verbs, aliases and argument splitting only.
package parser

import (
	"strings"

	"github.com/nathoo/terracore/types"
)

var verbAliases = map[string]string{
	// Play
	"p":    "play",
	"cast": "play",

	// Select
	"s":      "select",
	"choose": "select",
	"pick":   "select",
	"keep":   "select",
	"buy":    "select",

	// Discard
	"d":      "discard",
	"scrap":  "discard",
	"remove": "discard",
	"sell":   "discard",
	"trash":  "discard",

	// Listings
	"h":       "hand",
	"cards":   "hand",
	"tableau": "played",
	"board":   "played",
	"st":      "status",
	"stats":   "status",
	"info":    "status",

	// Turn
	"draw": "deal",
	"end":  "pass",
	"done": "pass",
	"skip": "pass",
}

// fillers are dropped from card references.
var fillers = map[string]bool{
	"the": true, "a": true, "an": true, "card": true, "cards": true,
}

// Parse converts a raw command string into an Intent.
func Parse(input string) types.Intent {
	input = strings.TrimSpace(input)
	if input == "" {
		return types.Intent{}
	}

	words := strings.Fields(strings.ToLower(input))
	words = expandMultiWordVerbs(words)

	if alias, ok := verbAliases[words[0]]; ok {
		words[0] = alias
	}

	verb := words[0]
	rest := stripFillers(words[1:])

	switch verb {
	case "select":
		return types.Intent{Verb: verb, Args: splitSelection(rest)}
	case "deal", "hand", "played", "status", "pass":
		return types.Intent{Verb: verb, Args: rest}
	default:
		// One card reference; multi-word names stay together.
		if len(rest) == 0 {
			return types.Intent{Verb: verb}
		}
		return types.Intent{Verb: verb, Args: []string{strings.Join(rest, " ")}}
	}
}

// expandMultiWordVerbs handles "play card", "pass turn" and similar phrases.
func expandMultiWordVerbs(words []string) []string {
	if len(words) < 2 {
		return words
	}
	switch words[0] {
	case "end", "pass":
		if words[1] == "turn" {
			return append([]string{"pass"}, words[2:]...)
		}
	case "show", "list":
		switch words[1] {
		case "hand":
			return append([]string{"hand"}, words[2:]...)
		case "played", "tableau":
			return append([]string{"played"}, words[2:]...)
		case "status":
			return append([]string{"status"}, words[2:]...)
		}
	}
	return words
}

// splitSelection splits a selection into card references. Commas separate
// multi-word names; without commas, a run of indexes is split per word.
// "none" selects nothing.
func splitSelection(words []string) []string {
	if len(words) == 0 || (len(words) == 1 && words[0] == "none") {
		return nil
	}
	joined := strings.Join(words, " ")
	if strings.Contains(joined, ",") {
		var refs []string
		for _, part := range strings.Split(joined, ",") {
			if part = strings.TrimSpace(part); part != "" {
				refs = append(refs, part)
			}
		}
		return refs
	}
	for _, w := range words {
		if !isNumber(w) {
			return []string{joined}
		}
	}
	return words
}

func stripFillers(words []string) []string {
	result := make([]string, 0, len(words))
	for _, w := range words {
		if !fillers[w] {
			result = append(result, w)
		}
	}
	return result
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
