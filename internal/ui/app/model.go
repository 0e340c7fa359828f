package app

import (
	"context"
	"fmt"
	"image"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	capturedto "gazeink/internal/modules/capture/dto"
	gazedto "gazeink/internal/modules/gaze/dto"
	surfacedto "gazeink/internal/modules/surface/dto"
	"gazeink/internal/ui/components"
	"gazeink/internal/ui/theme"
)

// ─── ports ───────────────────────────────────────────────────────────────────

type capturePort interface {
	StartTrial() capturedto.TrialOutput
	EndTrial() (capturedto.TrialOutput, error)
	CurrentTrial() capturedto.TrialOutput
	SetGeometry(canvasW, canvasH, dpr float64)
	Summary() capturedto.SummaryOutput
	Export(ctx context.Context, input capturedto.ExportInput) (capturedto.ExportOutput, error)
}

type surfacePort interface {
	Press(x, y float64, primary bool) error
	Drag(x, y float64, primary bool) error
	Release(x, y float64, primary bool) error
	Leave(x, y float64) error
	Enable()
	Disable()
	Undo() error
	Clear() error
	Reset()
	Resize(cssWidth, cssHeight, dpr float64) error
	SetTool(tool string) error
	SetColor(color string)
	SetThickness(thickness float64) error
	Status() surfacedto.StatusOutput
	Snapshot() image.Image
}

type gazePort interface {
	SetTracking(on bool)
	Status() gazedto.StatusOutput
	Deliver(x, y float64) error
}

// ─── messages ────────────────────────────────────────────────────────────────

// GazeMsg carries one estimate from the estimator goroutine into the update
// loop, where it is delivered to the capture record.
type GazeMsg struct{ X, Y float64 }

// GazeReadyMsg reports the outcome of starting the estimator.
type GazeReadyMsg struct{ Err error }

type tickMsg time.Time

type exportedMsg struct {
	out capturedto.ExportOutput
	err error
}

// ─── key bindings ────────────────────────────────────────────────────────────

type keyMap struct {
	Trial   key.Binding
	Pen     key.Binding
	Eraser  key.Binding
	Color   key.Binding
	Thicker key.Binding
	Thinner key.Binding
	Undo    key.Binding
	Clear   key.Binding
	Gaze    key.Binding
	Export  key.Binding
	Palette key.Binding
	Help    key.Binding
	Quit    key.Binding
}

const thicknessStep = 1

func defaultKeys() keyMap {
	return keyMap{
		Trial:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "start/end trial")),
		Pen:     key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pen")),
		Eraser:  key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "eraser")),
		Color:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next color")),
		Thicker: key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "thickness")),
		Thinner: key.NewBinding(key.WithKeys("-"), key.WithHelp("+/-", "thickness")),
		Undo:    key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear")),
		Gaze:    key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gaze tracking")),
		Export:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "export")),
		Palette: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Trial, k.Undo, k.Gaze, k.Export, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Trial, k.Export, k.Gaze},
		{k.Pen, k.Eraser, k.Color, k.Thicker},
		{k.Undo, k.Clear},
		{k.Palette, k.Help, k.Quit},
	}
}

var paletteHints = []string{
	"color <#rrggbb>",
	"thickness <px>",
	"tool <pen|eraser>",
	"export [json] [sqlite] [note]",
	"gaze <on|off>",
}

// ─── model ───────────────────────────────────────────────────────────────────

// Options fixes how terminal cells map onto CSS pixels.
type Options struct {
	CellWidth        float64
	CellHeight       float64
	DevicePixelRatio float64
}

// Model is the recorder front end. Terminal cells under the canvas area map
// to CSS pixels at their centre; the left button is the primary pointer.
type Model struct {
	capture capturePort
	surface surfacePort
	gaze    gazePort
	opts    Options

	keys     keyMap
	help     help.Model
	showHelp bool
	palette  components.Palette

	width, height  int
	canvasCols     int
	canvasRows     int
	colorIdx       int
	drawing        bool
	trialStartedAt time.Time
	now            time.Time
	gazeErr        error
	status         string
	preview        string
}

func NewModel(capture capturePort, surface surfacePort, gaze gazePort, opts Options) Model {
	if opts.CellWidth <= 0 {
		opts.CellWidth = 8
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = 16
	}
	if opts.DevicePixelRatio <= 0 {
		opts.DevicePixelRatio = 1
	}
	return Model{
		capture: capture,
		surface: surface,
		gaze:    gaze,
		opts:    opts,
		keys:    defaultKeys(),
		help:    help.New(),
		palette: components.NewPalette(paletteHints),
		status:  "press t to start a trial",
	}
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// ─── update ──────────────────────────────────────────────────────────────────

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case GazeMsg:
		_ = m.gaze.Deliver(msg.X, msg.Y)
		return m, nil

	case GazeReadyMsg:
		m.gazeErr = msg.Err
		if msg.Err != nil {
			m.gaze.SetTracking(false)
			m.status = "gaze unavailable: " + msg.Err.Error()
		}
		return m, nil

	case tickMsg:
		m.now = time.Time(msg)
		return m, tick()

	case exportedMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
			return m, nil
		}
		locations := make([]string, 0, len(msg.out.Written))
		for _, w := range msg.out.Written {
			locations = append(locations, w.Location)
		}
		m.status = fmt.Sprintf("exported %d trial(s): %s", msg.out.Trials, strings.Join(locations, ", "))
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.palette.SetWidth(min(m.width-4, 64))
		m.resize()
		return m, nil

	case components.PaletteSubmitMsg:
		return m.executePalette(msg.Input)

	case components.PaletteCancelMsg:
		return m, nil
	}

	if m.palette.Visible() {
		var cmd tea.Cmd
		m.palette, cmd = m.palette.Update(msg)
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.mouse(msg)
	case tea.KeyMsg:
		return m.keypress(msg)
	}
	return m, nil
}

func (m Model) keypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help) || msg.String() == "esc" {
			m.showHelp = false
		}
		return m, nil
	}
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Palette):
		return m, m.palette.Open()
	case key.Matches(msg, m.keys.Trial):
		m.toggleTrial()
	case key.Matches(msg, m.keys.Pen):
		m.setTool("pen")
	case key.Matches(msg, m.keys.Eraser):
		m.setTool("eraser")
	case key.Matches(msg, m.keys.Color):
		m.colorIdx = (m.colorIdx + 1) % len(theme.PenColors)
		m.surface.SetColor(theme.PenColors[m.colorIdx])
	case key.Matches(msg, m.keys.Thicker):
		m.setThickness(m.surface.Status().Style.Thickness + thicknessStep)
	case key.Matches(msg, m.keys.Thinner):
		m.setThickness(m.surface.Status().Style.Thickness - thicknessStep)
	case key.Matches(msg, m.keys.Undo):
		m.report(m.surface.Undo())
		m.refresh()
	case key.Matches(msg, m.keys.Clear):
		m.report(m.surface.Clear())
		m.refresh()
	case key.Matches(msg, m.keys.Gaze):
		m.toggleGaze(!m.gaze.Status().Tracking)
	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd(nil)
	}
	return m, nil
}

func (m *Model) mouse(msg tea.MouseMsg) {
	x, y, inside := m.toCSS(msg.X, msg.Y)
	primary := msg.Button == tea.MouseButtonLeft
	switch msg.Action {
	case tea.MouseActionPress:
		if !inside || !primary {
			return
		}
		m.report(m.surface.Press(x, y, true))
		m.drawing = m.surface.Status().State == "capturing"
	case tea.MouseActionMotion:
		if !m.drawing {
			return
		}
		if !inside {
			m.report(m.surface.Leave(x, y))
			m.drawing = false
			break
		}
		m.report(m.surface.Drag(x, y, true))
	case tea.MouseActionRelease:
		if !m.drawing {
			return
		}
		// Terminals report releases without a button in X10 mode.
		if msg.Button != tea.MouseButtonLeft && msg.Button != tea.MouseButtonNone {
			return
		}
		m.report(m.surface.Release(x, y, true))
		m.drawing = false
	default:
		return
	}
	m.refresh()
}

// toCSS maps a cell to the CSS pixel at its centre. The canvas starts below
// the one-line header.
func (m Model) toCSS(col, row int) (float64, float64, bool) {
	row--
	inside := col >= 0 && row >= 0 && col < m.canvasCols && row < m.canvasRows
	return (float64(col) + 0.5) * m.opts.CellWidth, (float64(row) + 0.5) * m.opts.CellHeight, inside
}

func (m *Model) resize() {
	m.canvasCols = max(m.width, 1)
	m.canvasRows = max(m.height-3, 1)
	w := float64(m.canvasCols) * m.opts.CellWidth
	h := float64(m.canvasRows) * m.opts.CellHeight
	if err := m.surface.Resize(w, h, m.opts.DevicePixelRatio); err != nil {
		m.status = "resize: " + err.Error()
		return
	}
	m.capture.SetGeometry(w, h, m.opts.DevicePixelRatio)
	m.refresh()
}

func (m *Model) toggleTrial() {
	current := m.capture.CurrentTrial()
	if current.Open {
		if m.drawing {
			m.report(m.surface.Leave(0, 0))
			m.drawing = false
		}
		out, err := m.capture.EndTrial()
		if err != nil {
			m.status = "end trial: " + err.Error()
			return
		}
		m.surface.Disable()
		m.status = fmt.Sprintf("trial %d ended", out.TrialNumber)
		return
	}
	m.surface.Reset()
	m.surface.Enable()
	out := m.capture.StartTrial()
	m.trialStartedAt = time.Now()
	m.now = m.trialStartedAt
	m.status = fmt.Sprintf("trial %d recording", out.TrialNumber)
	m.refresh()
}

func (m *Model) toggleGaze(on bool) {
	if on && m.gazeErr != nil {
		m.status = "gaze unavailable: " + m.gazeErr.Error()
		return
	}
	m.gaze.SetTracking(on)
	if on {
		m.status = "gaze tracking on"
	} else {
		m.status = "gaze tracking off"
	}
}

func (m *Model) setTool(tool string) {
	if err := m.surface.SetTool(tool); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) setThickness(v float64) {
	if err := m.surface.SetThickness(v); err != nil {
		m.status = err.Error()
	}
}

func (m *Model) report(err error) {
	if err != nil {
		m.status = err.Error()
	}
}

func (m *Model) refresh() {
	m.preview = components.Preview(m.surface.Snapshot(), m.canvasCols, m.canvasRows)
}

func (m Model) exportCmd(sinks []string) tea.Cmd {
	capture := m.capture
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		out, err := capture.Export(ctx, capturedto.ExportInput{Sinks: sinks})
		return exportedMsg{out: out, err: err}
	}
}

// ─── palette execution ───────────────────────────────────────────────────────

func (m Model) executePalette(input string) (tea.Model, tea.Cmd) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return m, nil
	}
	switch parts[0] {
	case "color":
		if len(parts) != 2 || !strings.HasPrefix(parts[1], "#") {
			m.status = "usage: color <#rrggbb>"
			return m, nil
		}
		m.surface.SetColor(parts[1])
	case "thickness":
		if len(parts) != 2 {
			m.status = "usage: thickness <px>"
			return m, nil
		}
		v, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			m.status = "invalid thickness"
			return m, nil
		}
		m.setThickness(v)
	case "tool":
		if len(parts) != 2 {
			m.status = "usage: tool <pen|eraser>"
			return m, nil
		}
		m.setTool(parts[1])
	case "export":
		return m, m.exportCmd(parts[1:])
	case "gaze":
		if len(parts) != 2 || (parts[1] != "on" && parts[1] != "off") {
			m.status = "usage: gaze <on|off>"
			return m, nil
		}
		m.toggleGaze(parts[1] == "on")
	default:
		m.status = "unknown command: " + parts[0]
	}
	return m, nil
}

// ─── view ────────────────────────────────────────────────────────────────────

func (m Model) View() string {
	header := m.renderHeader()
	footer := m.renderStatusBar() + "\n" + m.help.View(m.keys)

	var content string
	switch {
	case m.showHelp:
		content = lipgloss.NewStyle().Width(m.width).Height(m.canvasRows).Render(m.help.FullHelpView(m.keys.FullHelp()))
	case m.palette.Visible():
		content = lipgloss.Place(m.width, m.canvasRows, lipgloss.Center, lipgloss.Center, m.palette.View())
	default:
		content = m.preview
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (m Model) renderHeader() string {
	left := theme.Title.Render("gazeink")
	trial := m.capture.CurrentTrial()
	if trial.Open {
		elapsed := m.now.Sub(m.trialStartedAt).Truncate(time.Second)
		if elapsed < 0 {
			elapsed = 0
		}
		left += "  " + theme.Live.Render(fmt.Sprintf("● trial %d  %s", trial.TrialNumber, elapsed))
	} else {
		left += "  " + theme.Muted.Render(fmt.Sprintf("%d trial(s)", len(m.capture.Summary().Trials)))
	}

	style := m.surface.Status().Style
	right := fmt.Sprintf("%s %s %.0fpx", style.Tool, style.Color, style.Thickness)
	gaze := m.gaze.Status()
	switch {
	case m.gazeErr != nil:
		right += "  " + theme.Muted.Render("gaze n/a")
	case gaze.Tracking:
		right += "  " + theme.Ok.Render(fmt.Sprintf("gaze %d", gaze.Delivered))
	default:
		right += "  " + theme.Muted.Render("gaze off")
	}
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return theme.Bar.Width(max(m.width, 1)).Render(left + strings.Repeat(" ", gap) + right)
}

func (m Model) renderStatusBar() string {
	return theme.Bar.Width(max(m.width, 1)).Render(theme.Hot.Render("» ") + m.status)
}
