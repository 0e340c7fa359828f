package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gazeink/internal/ui/theme"
)

// PaletteSubmitMsg carries the command line the user confirmed with enter.
type PaletteSubmitMsg struct{ Input string }

// PaletteCancelMsg is sent when the prompt is dismissed with esc.
type PaletteCancelMsg struct{}

const (
	maxHints   = 5
	maxHistory = 32
)

var (
	promptFrame = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderTop(true).
			BorderForeground(theme.Peach).
			Foreground(theme.Text).
			Padding(0, 1)

	hintStyle = lipgloss.NewStyle().Foreground(theme.Subtext0)
)

// Palette is the ":" prompt used for commands that take an argument, such as
// an exact pen color. Submitted lines are kept for recall with up/down.
type Palette struct {
	input   textinput.Model
	hints   []string
	history []string
	recall  int
	visible bool
	width   int
}

func NewPalette(hints []string) Palette {
	ti := textinput.New()
	ti.Prompt = ": "
	ti.Placeholder = "color #ff0000"
	ti.CharLimit = 128
	return Palette{input: ti, hints: hints}
}

func (p Palette) Visible() bool { return p.visible }

// Open shows an empty prompt and returns the cursor blink command.
func (p *Palette) Open() tea.Cmd {
	p.visible = true
	p.recall = len(p.history)
	p.input.SetValue("")
	return p.input.Focus()
}

func (p *Palette) SetWidth(w int) { p.width = w }

func (p Palette) Update(msg tea.Msg) (Palette, tea.Cmd) {
	if !p.visible {
		return p, nil
	}
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		p.input, cmd = p.input.Update(msg)
		return p, cmd
	}
	switch key.Type {
	case tea.KeyEsc:
		p.close()
		return p, func() tea.Msg { return PaletteCancelMsg{} }
	case tea.KeyEnter:
		line := strings.TrimSpace(p.input.Value())
		p.close()
		p.remember(line)
		return p, func() tea.Msg { return PaletteSubmitMsg{Input: line} }
	case tea.KeyTab:
		p.complete()
		return p, nil
	case tea.KeyUp:
		p.step(-1)
		return p, nil
	case tea.KeyDown:
		p.step(1)
		return p, nil
	}
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return p, cmd
}

// Matching returns up to five hints whose command word starts with the input.
func (p Palette) Matching() []string {
	prefix := strings.ToLower(strings.TrimSpace(p.input.Value()))
	matching := make([]string, 0, maxHints)
	for _, h := range p.hints {
		if !strings.HasPrefix(h, prefix) && !strings.HasPrefix(prefix, command(h)+" ") {
			continue
		}
		matching = append(matching, h)
		if len(matching) == maxHints {
			break
		}
	}
	return matching
}

func (p Palette) View() string {
	if !p.visible {
		return ""
	}
	lines := []string{p.input.View()}
	for _, h := range p.Matching() {
		lines = append(lines, hintStyle.Render("  "+h))
	}
	w := p.width
	if w < 20 {
		w = 64
	}
	return promptFrame.Width(w - 2).Render(strings.Join(lines, "\n"))
}

func (p *Palette) close() {
	p.visible = false
	p.input.Blur()
}

func (p *Palette) remember(line string) {
	if line == "" || (len(p.history) > 0 && p.history[len(p.history)-1] == line) {
		return
	}
	p.history = append(p.history, line)
	if len(p.history) > maxHistory {
		p.history = p.history[len(p.history)-maxHistory:]
	}
}

// step moves through submitted lines; stepping past the newest clears the
// prompt.
func (p *Palette) step(delta int) {
	next := p.recall + delta
	if next < 0 || next > len(p.history) {
		return
	}
	p.recall = next
	if next == len(p.history) {
		p.input.SetValue("")
		return
	}
	p.input.SetValue(p.history[next])
	p.input.CursorEnd()
}

// complete fills in the command word when exactly one hint matches.
func (p *Palette) complete() {
	matching := p.Matching()
	if len(matching) != 1 {
		return
	}
	word := command(matching[0])
	if strings.HasPrefix(p.input.Value(), word+" ") {
		return
	}
	p.input.SetValue(word + " ")
	p.input.CursorEnd()
}

func command(hint string) string {
	if i := strings.IndexByte(hint, ' '); i >= 0 {
		return hint[:i]
	}
	return hint
}
