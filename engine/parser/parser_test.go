package parser

import (
	"reflect"
	"testing"

	"github.com/nathoo/terracore/types"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  types.Intent
	}{
		// Empty / whitespace
		{
			name:  "empty string",
			input: "",
			want:  types.Intent{},
		},
		{
			name:  "whitespace only",
			input: "   ",
			want:  types.Intent{},
		},

		// Bare verbs
		{
			name:  "hand",
			input: "hand",
			want:  types.Intent{Verb: "hand", Args: []string{}},
		},
		{
			name:  "status",
			input: "STATUS",
			want:  types.Intent{Verb: "status", Args: []string{}},
		},
		{
			name:  "play without card",
			input: "play",
			want:  types.Intent{Verb: "play"},
		},

		// Aliases
		{
			name:  "h → hand",
			input: "h",
			want:  types.Intent{Verb: "hand", Args: []string{}},
		},
		{
			name:  "st → status",
			input: "st",
			want:  types.Intent{Verb: "status", Args: []string{}},
		},
		{
			name:  "p 2 → play 2",
			input: "p 2",
			want:  types.Intent{Verb: "play", Args: []string{"2"}},
		},
		{
			name:  "choose → select",
			input: "choose ants",
			want:  types.Intent{Verb: "select", Args: []string{"ants"}},
		},
		{
			name:  "done → pass",
			input: "done",
			want:  types.Intent{Verb: "pass", Args: []string{}},
		},

		// Card references
		{
			name:  "multi-word card name",
			input: "play Fusion Power",
			want:  types.Intent{Verb: "play", Args: []string{"fusion power"}},
		},
		{
			name:  "fillers stripped",
			input: "play the card mine",
			want:  types.Intent{Verb: "play", Args: []string{"mine"}},
		},
		{
			name:  "discard by name",
			input: "discard regolith eaters",
			want:  types.Intent{Verb: "discard", Args: []string{"regolith eaters"}},
		},

		// Selections
		{
			name:  "select indexes",
			input: "select 1 3",
			want:  types.Intent{Verb: "select", Args: []string{"1", "3"}},
		},
		{
			name:  "select comma list",
			input: "select ants, regolith eaters",
			want:  types.Intent{Verb: "select", Args: []string{"ants", "regolith eaters"}},
		},
		{
			name:  "select multi-word name",
			input: "pick regolith eaters",
			want:  types.Intent{Verb: "select", Args: []string{"regolith eaters"}},
		},
		{
			name:  "select none",
			input: "select none",
			want:  types.Intent{Verb: "select"},
		},
		{
			name:  "bare select",
			input: "select",
			want:  types.Intent{Verb: "select"},
		},

		// Multi-word verbs
		{
			name:  "end turn",
			input: "end turn",
			want:  types.Intent{Verb: "pass", Args: []string{}},
		},
		{
			name:  "show played",
			input: "show played",
			want:  types.Intent{Verb: "played", Args: []string{}},
		},
		{
			name:  "deal count",
			input: "deal 4",
			want:  types.Intent{Verb: "deal", Args: []string{"4"}},
		},

		// Unknown verbs pass through
		{
			name:  "unknown verb",
			input: "dance wildly",
			want:  types.Intent{Verb: "dance", Args: []string{"wildly"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Parse(tt.input)
			if got.Verb != tt.want.Verb {
				t.Errorf("Parse(%q).Verb = %q, want %q", tt.input, got.Verb, tt.want.Verb)
			}
			if len(got.Args) != len(tt.want.Args) || (len(got.Args) > 0 && !reflect.DeepEqual(got.Args, tt.want.Args)) {
				t.Errorf("Parse(%q).Args = %q, want %q", tt.input, got.Args, tt.want.Args)
			}
		})
	}
}
