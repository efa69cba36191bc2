package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("52")).
			Foreground(lipgloss.Color("223")).
			Bold(true)

	styleStatusPending = lipgloss.NewStyle().
				Background(lipgloss.Color("130")).
				Foreground(lipgloss.Color("230")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("208"))

	styleOutput = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	stylePlay = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleHeading = lipgloss.NewStyle().
			Bold(true)

	styleListing = lipgloss.NewStyle().
			Foreground(lipgloss.Color("250"))

	stylePrompt = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("208"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindOutput lineKind = iota
	kindPlay
	kindHeading
	kindListing
	kindPrompt
	kindSystem
	kindError
	kindTrace
)

// errorMarkers are fragments of the engine's refusal messages.
var errorMarkers = []string{
	"not your turn",
	"cannot afford",
	"requirement not met",
	"cannot be applied",
	"answer the pending request",
	"nothing to select",
	"invalid selection",
	"no card",
	"ambiguous",
	"I don't know how",
	"unknown player",
}

// classifyLine determines what kind of output line this is.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "You play "):
		return kindPlay
	case strings.HasPrefix(line, "Choose "):
		return kindPrompt
	case strings.HasPrefix(line, "  "):
		return kindListing
	case strings.HasSuffix(line, ":"):
		return kindHeading
	case isError(line):
		return kindError
	default:
		return kindOutput
	}
}

func isError(line string) bool {
	for _, m := range errorMarkers {
		if strings.Contains(line, m) {
			return true
		}
	}
	return false
}

// styledPlayerInput renders the echoed player input with the seat prompt.
func styledPlayerInput(seat, input string) string {
	return stylePlayerInput.Render(seat + "> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}
