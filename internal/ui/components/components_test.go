package components

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestDownsampleCompositesOverWhite(t *testing.T) {
	t.Parallel()
	src := image.NewRGBA(image.Rect(0, 0, 40, 40))
	for y := 0; y < 20; y++ {
		for x := 0; x < 40; x++ {
			src.SetRGBA(x, y, color.RGBA{A: 0xff})
		}
	}
	px := Downsample(src, 4, 2)
	if b := px.Bounds(); b.Dx() != 4 || b.Dy() != 4 {
		t.Fatalf("expected 4x4 pixels, got %v", b)
	}
	if c := px.RGBAAt(1, 0); c.R > 0x20 {
		t.Fatalf("top half should be dark, got %+v", c)
	}
	if c := px.RGBAAt(1, 3); c != (color.RGBA{0xff, 0xff, 0xff, 0xff}) {
		t.Fatalf("transparent pixels should show white, got %+v", c)
	}
}

func TestPreviewHasOneLinePerRow(t *testing.T) {
	t.Parallel()
	out := Preview(image.NewRGBA(image.Rect(0, 0, 10, 10)), 6, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if strings.Count(lines[0], upperHalf) != 6 {
		t.Fatalf("expected 6 cells in a row, got %q", lines[0])
	}
	if Preview(nil, 0, 0) != "" {
		t.Fatalf("empty preview should render nothing")
	}
}

func TestPaletteSubmitAndHints(t *testing.T) {
	t.Parallel()
	p := NewPalette([]string{"color <hex>", "thickness <px>", "tool <pen|eraser>"})
	_ = p.Open()
	for _, r := range "th" {
		p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	if got := p.Matching(); len(got) != 1 || got[0] != "thickness <px>" {
		t.Fatalf("unexpected hints %v", got)
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if p.Visible() || cmd == nil {
		t.Fatalf("enter should close the palette and submit")
	}
	if msg, ok := cmd().(PaletteSubmitMsg); !ok || msg.Input != "th" {
		t.Fatalf("unexpected submit %+v", msg)
	}

	_ = p.Open()
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if _, ok := cmd().(PaletteCancelMsg); !ok || p.Visible() {
		t.Fatalf("esc should cancel")
	}
}

func TestPaletteCompletesAndRecalls(t *testing.T) {
	t.Parallel()
	p := NewPalette([]string{"color <hex>", "thickness <px>", "tool <pen|eraser>"})
	_ = p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("co")})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("#00ff00")})
	if got := p.Matching(); len(got) != 1 || got[0] != "color <hex>" {
		t.Fatalf("argument should keep the command hint, got %v", got)
	}
	p, cmd := p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(PaletteSubmitMsg); msg.Input != "color #00ff00" {
		t.Fatalf("tab should complete the command word, got %q", msg.Input)
	}

	_ = p.Open()
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyTab})
	p, _ = p.Update(tea.KeyMsg{Type: tea.KeyUp})
	p, cmd = p.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if msg := cmd().(PaletteSubmitMsg); msg.Input != "color #00ff00" {
		t.Fatalf("up should recall the last command, got %q", msg.Input)
	}
	if len(p.history) != 1 {
		t.Fatalf("repeated command should be stored once, got %v", p.history)
	}
}
