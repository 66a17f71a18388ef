package editor

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
)

// Overlay is an extra cursor drawn during render. A zero-width cursor
// at end of line paints the cell after the text; mid-line it paints the
// character under it. Region, when set, is a fake selection.
type Overlay struct {
	Cursor Point
	Region *OverlayRegion
}

type OverlayRegion struct {
	Start Point
	End   Point
}

// HighlightSpan is one styled run inside a row, columns in runes.
type HighlightSpan struct {
	StartCol int
	EndCol   int
	Style    tcell.Style
}

// SetHighlightFunc installs the per-row syntax highlight provider.
func (e *Editor) SetHighlightFunc(fn func(row int) []HighlightSpan) {
	e.highlightFn = fn
}

// SetStatusExtra installs a provider of extra right-side status text,
// such as the git branch and the live cursor count.
func (e *Editor) SetStatusExtra(fn func() string) { e.statusExtra = fn }

func (e *Editor) theme() themeStyles {
	t := e.cfg.Theme
	return themeStyles{
		text:       styleFromColor(t.Foreground, t.Background),
		lineNo:     styleFromColor(t.LineNumberForeground, t.Background),
		status:     styleFromColor(t.StatuslineForeground, t.StatuslineBackground),
		minibuffer: styleFromColor(t.MinibufferForeground, t.MinibufferBackground),
		selection:  styleFromColor(t.SelectionForeground, t.SelectionBackground),
		fakeCursor: styleFromColor(t.FakeCursorForeground, t.FakeCursorBackground),
		fakeSel:    styleFromColor("", t.FakeSelectionBackground),
	}
}

type themeStyles struct {
	text       tcell.Style
	lineNo     tcell.Style
	status     tcell.Style
	minibuffer tcell.Style
	selection  tcell.Style
	fakeCursor tcell.Style
	fakeSel    tcell.Style
}

func styleFromColor(fg, bg string) tcell.Style {
	st := tcell.StyleDefault
	if fg != "" {
		st = st.Foreground(tcell.GetColor(fg))
	}
	if bg != "" {
		st = st.Background(tcell.GetColor(bg))
	}
	return st
}

// Render draws the buffer, overlays, status line and minibuffer.
func (e *Editor) Render(screen tcell.Screen) {
	screen.Clear()
	w, h := screen.Size()
	if w == 0 || h < 3 {
		return
	}
	textRows := h - 2
	th := e.theme()

	gutter := 0
	if e.cfg.Editor.LineNumbers != "none" {
		gutter = numWidth(len(e.lines)) + 1
	}
	e.scrollIntoView(textRows, w-gutter)

	var overlays []Overlay
	if e.overlayFn != nil {
		overlays = e.overlayFn()
	}
	selStart, selEnd, selOK := e.Region()

	for y := 0; y < textRows; y++ {
		row := e.offsetRow + y
		if row >= len(e.lines) {
			break
		}
		if gutter > 0 {
			num := fmt.Sprintf("%*d ", gutter-1, row+1)
			drawText(screen, 0, y, th.lineNo, num)
		}
		line := e.lines[row]
		spans := e.rowSpans(row)
		for x := 0; x < w-gutter; x++ {
			col := e.offsetCol + x
			ch := ' '
			if col < len(line) {
				ch = line[col]
			} else if col > len(line) {
				break
			}
			st := styleAt(spans, col, th.text)
			p := Point{row, col}
			if selOK && !p.Less(selStart) && p.Less(selEnd) {
				st = th.selection
			}
			for _, ov := range overlays {
				if ov.Region != nil && !p.Less(ov.Region.Start) && p.Less(ov.Region.End) {
					st = th.fakeSel
				}
			}
			for _, ov := range overlays {
				if ov.Cursor == p {
					st = th.fakeCursor
				}
			}
			screen.SetContent(gutter+x, y, ch, nil, st)
		}
	}

	e.drawStatus(screen, w, textRows, th)
	drawText(screen, 0, h-1, th.minibuffer, e.message)
	screen.ShowCursor(gutter+e.point.Col-e.offsetCol, e.point.Row-e.offsetRow)
	screen.Show()
}

func (e *Editor) rowSpans(row int) []HighlightSpan {
	if e.highlightFn == nil {
		return nil
	}
	return e.highlightFn(row)
}

func styleAt(spans []HighlightSpan, col int, def tcell.Style) tcell.Style {
	for _, s := range spans {
		if col >= s.StartCol && col < s.EndCol {
			return s.Style
		}
	}
	return def
}

func (e *Editor) drawStatus(screen tcell.Screen, w, y int, th themeStyles) {
	name := e.filePath
	if name == "" {
		name = "[no file]"
	}
	mod := ""
	if e.modified {
		mod = " *"
	}
	left := fmt.Sprintf(" %s%s  %d:%d", name, mod, e.point.Row+1, e.point.Col+1)
	right := ""
	if e.statusExtra != nil {
		right = e.statusExtra()
	}
	for x := 0; x < w; x++ {
		screen.SetContent(x, y, ' ', nil, th.status)
	}
	drawText(screen, 0, y, th.status, left)
	if right != "" {
		drawText(screen, w-len([]rune(right))-1, y, th.status, right)
	}
}

// scrollIntoView keeps the point inside the viewport.
func (e *Editor) scrollIntoView(rows, cols int) {
	if rows <= 0 || cols <= 0 {
		return
	}
	if e.point.Row < e.offsetRow {
		e.offsetRow = e.point.Row
	}
	if e.point.Row >= e.offsetRow+rows {
		e.offsetRow = e.point.Row - rows + 1
	}
	if e.point.Col < e.offsetCol {
		e.offsetCol = e.point.Col
	}
	if e.point.Col >= e.offsetCol+cols {
		e.offsetCol = e.point.Col - cols + 1
	}
}

func drawText(screen tcell.Screen, x, y int, st tcell.Style, text string) {
	for i, ch := range []rune(text) {
		screen.SetContent(x+i, y, ch, nil, st)
	}
}

func numWidth(n int) int {
	w := 1
	for n >= 10 {
		n /= 10
		w++
	}
	return w
}
