package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nathoo/terracore/engine/globals"
	"github.com/nathoo/terracore/engine/state"
	"github.com/nathoo/terracore/types"
)

// resourceLabels are the short names shown in the status bar.
var resourceLabels = []struct {
	r     types.Resource
	label string
}{
	{types.MegaCredits, "M€"},
	{types.Steel, "St"},
	{types.Titanium, "Ti"},
	{types.Plants, "Pl"},
	{types.Energy, "En"},
	{types.Heat, "He"},
}

// trackLabels abbreviate the global parameters.
var trackLabels = map[string]string{
	globals.Temperature: "°C",
	globals.Oxygen:      "O₂",
	globals.Venus:       "Ve",
}

// resourceSummary renders "M€ 16+1 St 0+1 ..." as stock plus production.
func resourceSummary(p *state.Player) string {
	parts := make([]string, 0, len(resourceLabels))
	for _, rl := range resourceLabels {
		parts = append(parts, fmt.Sprintf("%s %d%+d", rl.label, p.Stock.Get(rl.r), p.Production.Get(rl.r)))
	}
	return strings.Join(parts, " ")
}

// globalsSummary renders the global tracks, e.g. "°C -28 O₂ 1 Ve 0".
func globalsSummary(g *state.Game) string {
	var parts []string
	for _, t := range g.Globals.All() {
		label, ok := trackLabels[t.Name]
		if !ok {
			label = t.Name
		}
		parts = append(parts, fmt.Sprintf("%s %d", label, t.Value))
	}
	return strings.Join(parts, " ")
}

// renderStatusBar produces a full-width status line for the seat expected
// to act: its stock and production, TR, the globals and the turn. A pending
// choice switches the bar to the pending style.
func (m Model) renderStatusBar() string {
	g := m.engine.Game
	p, err := g.Player(m.engine.Actor())
	if err != nil {
		return styleStatusBar.Width(m.width).Render(" " + err.Error())
	}

	left := fmt.Sprintf(" %s | TR %d | %s", p.ID, p.TR, resourceSummary(p))
	right := fmt.Sprintf("%s | T:%d ", globalsSummary(g), g.Turn+1)

	// Drop the resources if the bar does not fit.
	if lipgloss.Width(left)+lipgloss.Width(right)+2 > m.width {
		left = fmt.Sprintf(" %s | TR %d | M€ %d", p.ID, p.TR, p.Stock.Get(types.MegaCredits))
	}

	style := styleStatusBar
	if req := p.Pending(); req != nil {
		right = "choose: " + req.Title + " | " + right
		style = styleStatusPending
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	bar := left + strings.Repeat(" ", gap) + right
	return style.Width(m.width).Render(bar)
}
