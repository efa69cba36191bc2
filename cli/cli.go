// Package cli runs a hot-seat TerraCore table on plain line I/O.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nathoo/terracore/engine"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// CLI handles terminal interaction for every seat at the table. Commands
// are issued on behalf of whoever the engine expects to act next.
type CLI struct {
	Engine    *engine.Engine
	In        io.Reader
	Out       io.Writer
	SaveDir   string
	Trace     bool
	EchoInput bool // echo input after the prompt when replaying scripts
	lastCmd   string
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	home, _ := os.UserHomeDir()
	saveDir := filepath.Join(home, ".terracore", "saves")
	return &CLI{
		Engine:  eng,
		In:      os.Stdin,
		Out:     os.Stdout,
		SaveDir: saveDir,
	}
}

// Run reads commands until EOF or /quit, prompting the seat expected to act.
func (c *CLI) Run() {
	game := c.Engine.Defs.Game
	c.printLine(game.Title)
	if game.Version != "" {
		c.printSystem("version " + game.Version)
	}
	c.printLine("")
	c.printResult(c.Engine.Step(c.Engine.Actor(), "status"))

	scanner := bufio.NewScanner(c.In)
	for {
		c.print(c.Engine.Actor() + "> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Scripts may carry # comments.
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}

		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(c.Engine.Actor(), input)
		c.printResult(result)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta runs a slash command. It reports whether to exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/load":
		c.cmdLoad(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

func (c *CLI) cmdSave(name string) {
	if name == "" {
		name = "quicksave"
	}

	data, err := c.Engine.Snapshot()
	if err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	if err := os.MkdirAll(c.SaveDir, 0o755); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	path := filepath.Join(c.SaveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}

	c.printSystem(fmt.Sprintf("Game saved to %s.", name))
}

func (c *CLI) cmdLoad(name string) {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(c.SaveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}

	if err := c.Engine.Restore(data); err != nil {
		c.printSystem(fmt.Sprintf("Load failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Game loaded from %s (turn %d).", name, c.Engine.Game.Turn+1))

	c.printResult(c.Engine.Step(c.Engine.Actor(), "status"))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [name]  — Save game (default: quicksave)",
		"  /load [name]  — Load game (default: quicksave)",
		"  /quit         — Exit game",
		"  /help         — Show this help",
		"  /state        — Debug: dump every player",
		"  /trace        — Toggle event trace output",
		"",
		"Game commands:",
		"  play <card> (p)           — Pay for a card in hand and apply it",
		"  select <card>[, <card>]   — Answer a pending choice (or: select none)",
		"  discard <card> (d)        — Discard a played card, undoing what it can",
		"  deal [n]                  — Draw n cards into your hand",
		"  hand (h)                  — List your hand",
		"  played                    — List your cards in play",
		"  status (st)               — Show resources, TR and globals",
		"  pass (end turn)           — Hand the turn to the next player",
		"  again (g)                 — Repeat your last command",
		"",
		"Cards may be named by ID, name, a word of the name, or their number in the list.",
	}
	for _, line := range help {
		c.printLine(line)
	}
}

func (c *CLI) cmdState() {
	g := c.Engine.Game
	c.printSystem(fmt.Sprintf("Turn: %d, active: %s", g.Turn+1, g.ActivePlayer().ID))
	var tracks []string
	for _, t := range g.Globals.All() {
		tracks = append(tracks, fmt.Sprintf("%s=%d", t.Name, t.Value))
	}
	c.printSystem("Globals: " + strings.Join(tracks, " "))
	c.printSystem(fmt.Sprintf("Deck: %d draw, %d discard; rng %d@%d",
		g.Deck.Size(), len(g.Deck.DiscardPile()), g.RNG.Seed(), g.RNG.Position()))
	for _, p := range g.Players {
		c.printSystem(fmt.Sprintf("%s: TR %d, hand %d, played %d",
			p.ID, p.TR, len(p.Hand), len(p.Played)))
		c.printSystem("  stock " + units.String(p.Stock.Units()))
		c.printSystem("  production " + units.String(p.Production.Units()))
		if req := p.Pending(); req != nil {
			c.printSystem(fmt.Sprintf("  pending %q (%d of %d cards)", req.Title, req.Min, len(req.Cards)))
		}
	}
}

func (c *CLI) printTrace(result types.Result) {
	if len(result.Events) == 0 {
		return
	}
	c.printSystem(fmt.Sprintf("[trace] Events: %d", len(result.Events)))
	for _, e := range result.Events {
		c.printSystem(fmt.Sprintf("[trace]   %s %s%s", e.Type, e.Player, formatData(e.Data)))
	}
}

// formatData renders event data with sorted keys.
func formatData(data map[string]any) string {
	if len(data) == 0 {
		return ""
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, data[k])
	}
	return b.String()
}

func (c *CLI) printResult(result types.Result) {
	for _, line := range result.Output {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}
