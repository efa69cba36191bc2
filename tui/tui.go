package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/terracore/engine"
	"github.com/nathoo/terracore/engine/units"
	"github.com/nathoo/terracore/types"
)

// rawLine is one unstyled scrollback line, kept for re-wrapping on resize.
type rawLine struct {
	text     string
	kind     lineKind
	seat     string // seat that typed an echoed input line
	isInput  bool
	isSystem bool
}

// Model is the Bubble Tea model for the TerraCore TUI.
type Model struct {
	engine *engine.Engine

	viewport viewport.Model
	input    textinput.Model
	history  *History

	rawLines []rawLine

	width    int
	height   int
	ready    bool
	trace    bool
	quitting bool
	lastCmd  string
	saveDir  string
}

// gameOutputMsg is the engine's answer to one submitted line.
type gameOutputMsg struct {
	seat     string   // seat that issued the input
	input    string   // echoed input (empty for the opening status)
	lines    []string // output lines
	isSystem bool
}

// New creates a TUI model wired to the given engine.
func New(eng *engine.Engine) Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 256
	ti.PromptStyle = styleInputPrompt

	home, _ := os.UserHomeDir()
	m := Model{
		engine:  eng,
		input:   ti,
		history: NewHistory(100),
		saveDir: filepath.Join(home, ".terracore", "saves"),
	}
	m.syncSeat()
	return m
}

// Run starts the Bubble Tea program.
func Run(eng *engine.Engine) error {
	m := New(eng)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err := p.Run()
	return err
}

// Init prints the catalog title and the opening status.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.initialOutput())
}

func (m Model) initialOutput() tea.Cmd {
	return func() tea.Msg {
		game := m.engine.Defs.Game
		title := game.Title
		if game.Version != "" {
			title += " v" + game.Version
		}
		if game.Author != "" {
			title += " by " + game.Author
		}
		lines := []string{title, ""}

		result := m.engine.Step(m.engine.Actor(), "status")
		lines = append(lines, result.Output...)

		return gameOutputMsg{lines: lines}
	}
}

// syncSeat points the prompt and history at the seat expected to act.
func (m *Model) syncSeat() {
	seat := m.engine.Actor()
	m.input.Prompt = seat + "> "
	m.history.Seat(seat)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		vpHeight := m.height - 2 // status bar and input line
		if vpHeight < 1 {
			vpHeight = 1
		}

		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.KeyMap = viewportKeyMap()
			m.ready = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}

		m.refreshViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "enter":
			return m.handleEnter()

		case "up":
			if prev, ok := m.history.Prev(); ok {
				m.input.SetValue(prev)
				m.input.CursorEnd()
			}
			return m, nil

		case "down":
			if next, ok := m.history.Next(); ok {
				m.input.SetValue(next)
				m.input.CursorEnd()
			} else {
				m.input.SetValue("")
				m.history.ResetCursor()
			}
			return m, nil

		case "pgup", "pgdown":
			var vpCmd tea.Cmd
			m.viewport, vpCmd = m.viewport.Update(msg)
			return m, vpCmd
		}

	case gameOutputMsg:
		m = m.appendOutput(msg)
	}

	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	cmds = append(cmds, inputCmd)

	return m, tea.Batch(cmds...)
}

// handleEnter processes the submitted input line on behalf of the seat
// expected to act.
func (m Model) handleEnter() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	m.input.SetValue("")

	if input == "" {
		return m, nil
	}

	seat := m.engine.Actor()
	m.history.Push(input)
	m.history.ResetCursor()

	lower := strings.ToLower(input)
	if lower == "again" || lower == "g" {
		if m.lastCmd == "" {
			m = m.appendOutput(gameOutputMsg{
				seat: seat, input: input, lines: []string{"Nothing to repeat."}, isSystem: true,
			})
			return m, nil
		}
		input = m.lastCmd
	} else {
		m.lastCmd = input
	}

	if strings.HasPrefix(input, "/") {
		output, quit := m.handleMeta(input)
		m = m.appendOutput(gameOutputMsg{seat: seat, input: input, lines: output, isSystem: true})
		if quit {
			m.quitting = true
			return m, tea.Quit
		}
		m.syncSeat()
		return m, nil
	}

	result := m.engine.Step(seat, input)
	output := result.Output
	if m.trace {
		output = append(output, formatTrace(result)...)
	}
	m = m.appendOutput(gameOutputMsg{seat: seat, input: input, lines: output})
	m.syncSeat()
	return m, nil
}

// appendOutput adds lines to the scrollback and refreshes the viewport.
func (m Model) appendOutput(msg gameOutputMsg) Model {
	if msg.input != "" {
		m.rawLines = append(m.rawLines, rawLine{
			text: msg.input, seat: msg.seat, isInput: true,
		})
	}

	for _, line := range msg.lines {
		rl := rawLine{text: line, isSystem: msg.isSystem}
		if !msg.isSystem {
			rl.kind = classifyLine(line)
		}
		m.rawLines = append(m.rawLines, rl)
	}

	m.rawLines = append(m.rawLines, rawLine{})

	m.refreshViewport()

	return m
}

// refreshViewport re-renders the scrollback at the current width.
func (m *Model) refreshViewport() {
	if !m.ready {
		return
	}

	width := m.width
	if width < 10 {
		width = 10
	}

	var styled []string
	for _, rl := range m.rawLines {
		if rl.text == "" {
			styled = append(styled, "")
			continue
		}

		switch {
		case rl.isInput:
			styled = append(styled, styledPlayerInput(rl.seat, wordWrap(rl.text, width)))
		case rl.isSystem:
			styled = append(styled, styledSystemMsg(wordWrap(rl.text, width)))
		default:
			styled = append(styled, renderLineKind(wordWrap(rl.text, width), rl.kind))
		}
	}

	m.viewport.SetContent(strings.Join(styled, "\n"))
	m.viewport.GotoBottom()
}

func renderLineKind(line string, kind lineKind) string {
	switch kind {
	case kindPlay:
		return stylePlay.Render(line)
	case kindHeading:
		return styleHeading.Render(line)
	case kindListing:
		return styleListing.Render(line)
	case kindPrompt:
		return stylePrompt.Render(line)
	case kindSystem:
		return styleSystem.Render(line)
	case kindError:
		return styleError.Render(line)
	case kindTrace:
		return styleTrace.Render(line)
	default:
		return styleOutput.Render(line)
	}
}

// wordWrap wraps text to fit within the given width, breaking at word
// boundaries. Leading indentation is kept on the first line.
func wordWrap(text string, width int) string {
	if width <= 0 || len([]rune(text)) <= width {
		return text
	}

	indent := text[:len(text)-len(strings.TrimLeft(text, " "))]
	var result strings.Builder
	result.WriteString(indent)
	lineLen := len(indent)

	for i, word := range strings.Fields(text) {
		wLen := len([]rune(word))

		if i == 0 {
			result.WriteString(word)
			lineLen += wLen
			continue
		}

		if lineLen+1+wLen > width {
			result.WriteString("\n")
			result.WriteString(word)
			lineLen = wLen
		} else {
			result.WriteString(" ")
			result.WriteString(word)
			lineLen += 1 + wLen
		}
	}

	return result.String()
}

// View stacks the scrollback, the status bar and the prompt.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	return m.viewport.View() + "\n" + m.renderStatusBar() + "\n" + m.input.View()
}

// handleMeta runs a slash command for the table. The bool asks to quit.
func (m *Model) handleMeta(input string) ([]string, bool) {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = parts[1]
	}

	switch cmd {
	case "/quit", "/exit":
		return []string{"Goodbye."}, true

	case "/save":
		return m.cmdSave(arg), false

	case "/load":
		return m.cmdLoad(arg), false

	case "/help":
		return cmdHelp(), false

	case "/state":
		return m.cmdState(), false

	case "/trace":
		m.trace = !m.trace
		if m.trace {
			return []string{"Trace output enabled."}, false
		}
		return []string{"Trace output disabled."}, false

	default:
		return []string{fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd)}, false
	}
}

func (m *Model) cmdSave(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	data, err := m.engine.Snapshot()
	if err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	if err := os.MkdirAll(m.saveDir, 0o755); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	path := filepath.Join(m.saveDir, name+".json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return []string{fmt.Sprintf("Save failed: %v", err)}
	}

	return []string{fmt.Sprintf("Game saved to %s.", name)}
}

func (m *Model) cmdLoad(name string) []string {
	if name == "" {
		name = "quicksave"
	}

	path := filepath.Join(m.saveDir, name+".json")
	data, err := os.ReadFile(path)
	if err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	if err := m.engine.Restore(data); err != nil {
		return []string{fmt.Sprintf("Load failed: %v", err)}
	}

	output := []string{fmt.Sprintf("Game loaded from %s (turn %d).", name, m.engine.Game.Turn+1)}
	result := m.engine.Step(m.engine.Actor(), "status")
	output = append(output, result.Output...)
	return output
}

func cmdHelp() []string {
	return []string{
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
		"  hand (h) / played         — List your hand or your cards in play",
		"  status (st)               — Show resources, TR and globals",
		"  pass (end turn)           — Hand the turn to the next player",
		"  again (g)                 — Repeat your last command",
		"",
		"Navigation: PgUp/PgDn to scroll, Up/Down for your command history",
	}
}

func (m *Model) cmdState() []string {
	g := m.engine.Game
	output := []string{
		fmt.Sprintf("Turn: %d, active: %s", g.Turn+1, g.ActivePlayer().ID),
		fmt.Sprintf("Deck: %d draw, %d discard; rng %d@%d",
			g.Deck.Size(), len(g.Deck.DiscardPile()), g.RNG.Seed(), g.RNG.Position()),
	}
	for _, p := range g.Players {
		output = append(output,
			fmt.Sprintf("%s: TR %d, hand %d, played %d", p.ID, p.TR, len(p.Hand), len(p.Played)),
			"  stock "+units.String(p.Stock.Units()),
			"  production "+units.String(p.Production.Units()),
		)
		if req := p.Pending(); req != nil {
			output = append(output, fmt.Sprintf("  pending %q", req.Title))
		}
	}
	return output
}

func formatTrace(result types.Result) []string {
	if len(result.Events) == 0 {
		return nil
	}
	lines := []string{fmt.Sprintf("[trace] Events: %d", len(result.Events))}
	for _, e := range result.Events {
		lines = append(lines, fmt.Sprintf("[trace]   %s %s", e.Type, e.Player))
	}
	return lines
}

// viewportKeyMap leaves Up and Down to the per-seat history.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
