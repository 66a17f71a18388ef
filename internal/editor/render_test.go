package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/multicur/internal/config"
)

func newRenderEditor(t *testing.T, text string) (*Editor, tcell.SimulationScreen) {
	t.Helper()
	cfg := config.Default()
	cfg.Editor.LineNumbers = "none"
	e := New(&cfg)
	e.SetText(text)

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(20, 5)
	return e, s
}

func bgAt(t *testing.T, s tcell.SimulationScreen, x, y int) tcell.Color {
	t.Helper()
	cells, w, _ := s.GetContents()
	_, bg, _ := cells[y*w+x].Style.Decompose()
	return bg
}

func TestRenderFakeCursorMidLine(t *testing.T) {
	e, s := newRenderEditor(t, "abc")
	e.SetOverlayFunc(func() []Overlay {
		return []Overlay{{Cursor: Point{0, 1}}}
	})

	e.Render(s)
	if bgAt(t, s, 1, 0) == bgAt(t, s, 0, 0) {
		t.Fatalf("fake cursor background not applied mid-line")
	}
	cells, w, _ := s.GetContents()
	if r := cells[0*w+1].Runes; len(r) == 0 || r[0] != 'b' {
		t.Fatalf("cell under fake cursor = %q, want 'b'", r)
	}
}

func TestRenderFakeCursorAtLineEnd(t *testing.T) {
	e, s := newRenderEditor(t, "abc")
	e.SetOverlayFunc(func() []Overlay {
		return []Overlay{{Cursor: Point{0, 3}}}
	})

	e.Render(s)
	if bgAt(t, s, 3, 0) == bgAt(t, s, 0, 0) {
		t.Fatalf("fake cursor at end of line not painted after the text")
	}
	cells, w, _ := s.GetContents()
	if r := cells[0*w+3].Runes; len(r) > 0 && r[0] != ' ' {
		t.Fatalf("end-of-line cursor cell = %q, want blank", r)
	}
}

func TestRenderFakeSelectionBackground(t *testing.T) {
	e, s := newRenderEditor(t, "abc")
	e.SetOverlayFunc(func() []Overlay {
		return []Overlay{{
			Cursor: Point{0, 2},
			Region: &OverlayRegion{Start: Point{0, 0}, End: Point{0, 2}},
		}}
	})

	e.Render(s)
	if bgAt(t, s, 0, 0) == bgAt(t, s, 2, 0) {
		t.Fatalf("fake selection background not applied")
	}
}

func TestRenderStatusExtraRightAligned(t *testing.T) {
	e, s := newRenderEditor(t, "abc")
	e.SetStatusExtra(func() string { return "main" })

	e.Render(s)
	cells, w, h := s.GetContents()
	statusRow := h - 2
	got := make([]rune, 0, 4)
	for x := w - 5; x < w-1; x++ {
		c := cells[statusRow*w+x]
		if len(c.Runes) > 0 {
			got = append(got, c.Runes[0])
		}
	}
	if string(got) != "main" {
		t.Fatalf("status extra = %q, want %q", string(got), "main")
	}
}
