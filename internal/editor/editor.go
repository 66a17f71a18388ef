// Package editor implements the host text editor: a line buffer with a
// point and mark, a kill ring, a grouped undo log, a named command
// registry with pre and post command hooks, and anchored position
// tracking. Everything a cursor-replication layer needs is exposed as
// explicit operations so it can drive the editor the same way the key
// dispatch loop does.
package editor

import (
	"fmt"
	"os"
	"strings"

	"github.com/kobzarvs/multicur/internal/anchor"
	"github.com/kobzarvs/multicur/internal/config"
	"github.com/kobzarvs/multicur/internal/logger"
)

// Point is a buffer position, row and column in runes.
type Point struct {
	Row int
	Col int
}

// Less reports whether p precedes q in buffer order.
func (p Point) Less(q Point) bool {
	if p.Row != q.Row {
		return p.Row < q.Row
	}
	return p.Col < q.Col
}

// Edit describes one applied buffer mutation in both coordinate systems
// consumers need: points for anchors and overlays, bytes for the syntax
// engine's incremental reparse.
type Edit struct {
	Start      Point
	OldEnd     Point
	NewEnd     Point
	StartByte  int
	OldEndByte int
	NewEndByte int
}

// CharReader supplies the next interactive character for commands that
// prompt mid-execution. The reader is swappable so a replication pass
// can interpose a caching reader in front of the real one.
type CharReader interface {
	ReadChar() (rune, error)
}

// CharReaderFunc adapts a function to CharReader.
type CharReaderFunc func() (rune, error)

func (f CharReaderFunc) ReadChar() (rune, error) { return f() }

// Editor is a single open buffer plus the interactive machinery around
// it. It has no event loop of its own; the app feeds it key events and
// asks it to render.
type Editor struct {
	cfg      *config.Config
	filePath string
	lines    [][]rune
	modified bool

	point      Point
	mark       Point
	markActive bool
	desiredCol int

	offsetRow int
	offsetCol int

	killRing *KillRing
	anchors  *anchor.Arena

	undoStack []action
	redoStack []action
	undoGroup uint64
	undoDepth int

	commands  map[string]func(*Editor) error
	preHooks  []func(*Editor, string) error
	postHooks []func(*Editor, string)
	onEdit    func(Edit)

	thisCommand   string
	lastCommand   string
	inputChar     rune
	editSeq       uint64
	lastYankStart Point
	lastYankEnd   Point
	killRect      []string

	reader    CharReader
	vars      map[string]any
	pasteHook func()
	suspended map[string]int

	overlayFn   func() []Overlay
	highlightFn func(row int) []HighlightSpan
	statusExtra func() string
	message     string
	quit        bool
}

// New creates an empty single-line buffer with the built-in command set
// registered.
func New(cfg *config.Config) *Editor {
	e := &Editor{
		cfg:       cfg,
		lines:     [][]rune{{}},
		killRing:  NewKillRing(cfg.Editor.KillRingMax),
		anchors:   anchor.NewArena(),
		commands:  make(map[string]func(*Editor) error),
		vars:      make(map[string]any),
		suspended: make(map[string]int),
	}
	e.registerBuiltins()
	return e
}

// Open loads a file into the buffer. A missing file starts an empty
// buffer bound to that path.
func (e *Editor) Open(path string) error {
	e.filePath = path
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			e.lines = [][]rune{{}}
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	e.SetText(string(data))
	e.modified = false
	return nil
}

// Save writes the buffer back to its file.
func (e *Editor) Save() error {
	if e.filePath == "" {
		return fmt.Errorf("buffer has no file")
	}
	if err := os.WriteFile(e.filePath, []byte(e.Text()), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", e.filePath, err)
	}
	e.modified = false
	logger.Debug("buffer saved", "path", e.filePath)
	return nil
}

func (e *Editor) FilePath() string { return e.filePath }
func (e *Editor) Modified() bool   { return e.modified }
func (e *Editor) Quit() bool       { return e.quit }

// SetText replaces the whole buffer content, resetting point, history
// and anchors.
func (e *Editor) SetText(text string) {
	rows := strings.Split(text, "\n")
	e.lines = make([][]rune, len(rows))
	for i, row := range rows {
		e.lines[i] = []rune(row)
	}
	if len(e.lines) == 0 {
		e.lines = [][]rune{{}}
	}
	e.point = Point{}
	e.markActive = false
	e.undoStack = nil
	e.redoStack = nil
	e.anchors = anchor.NewArena()
	e.modified = true
}

// Text returns the buffer joined with newlines.
func (e *Editor) Text() string {
	var b strings.Builder
	for i, line := range e.lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(line))
	}
	return b.String()
}

func (e *Editor) LineCount() int { return len(e.lines) }

// Line returns a copy of one row's runes, nil for out-of-range rows.
func (e *Editor) Line(row int) []rune {
	if row < 0 || row >= len(e.lines) {
		return nil
	}
	out := make([]rune, len(e.lines[row]))
	copy(out, e.lines[row])
	return out
}

func (e *Editor) lineLen(row int) int {
	if row < 0 || row >= len(e.lines) {
		return 0
	}
	return len(e.lines[row])
}

// Point returns the current cursor position.
func (e *Editor) Point() Point { return e.point }

// SetPoint moves the cursor, clamping into the buffer.
func (e *Editor) SetPoint(p Point) {
	e.point = e.clamp(p)
	e.desiredCol = e.point.Col
}

func (e *Editor) clamp(p Point) Point {
	if p.Row < 0 {
		p.Row = 0
	}
	if p.Row >= len(e.lines) {
		p.Row = len(e.lines) - 1
	}
	if p.Col < 0 {
		p.Col = 0
	}
	if n := e.lineLen(p.Row); p.Col > n {
		p.Col = n
	}
	return p
}

// Mark returns the mark position and whether the mark is active.
func (e *Editor) Mark() (Point, bool) { return e.mark, e.markActive }

func (e *Editor) SetMark(p Point) {
	e.mark = e.clamp(p)
	e.markActive = true
}

func (e *Editor) DeactivateMark() { e.markActive = false }

// Region returns the active region sorted in buffer order.
func (e *Editor) Region() (start, end Point, ok bool) {
	if !e.markActive {
		return Point{}, Point{}, false
	}
	start, end = e.mark, e.point
	if end.Less(start) {
		start, end = end, start
	}
	return start, end, true
}

// Anchors exposes the position-tracking arena. Every buffer mutation
// made through the editor keeps it up to date.
func (e *Editor) Anchors() *anchor.Arena { return e.anchors }

// KillRing exposes the shared kill ring.
func (e *Editor) KillRing() *KillRing { return e.killRing }

// ScrollOffset returns the viewport origin.
func (e *Editor) ScrollOffset() (row, col int) { return e.offsetRow, e.offsetCol }

func (e *Editor) SetScrollOffset(row, col int) {
	e.offsetRow, e.offsetCol = row, col
}

// SetCharReader installs a reader for interactive prompts and returns
// the previous one.
func (e *Editor) SetCharReader(r CharReader) CharReader {
	old := e.reader
	e.reader = r
	return old
}

// ReadChar prompts in the minibuffer and blocks on the installed
// reader for one character.
func (e *Editor) ReadChar(prompt string) (rune, error) {
	if e.reader == nil {
		return 0, fmt.Errorf("read %q: no input source", prompt)
	}
	e.message = prompt
	ch, err := e.reader.ReadChar()
	e.message = ""
	return ch, err
}

// Var returns a named extension variable.
func (e *Editor) Var(name string) (any, bool) {
	v, ok := e.vars[name]
	return v, ok
}

func (e *Editor) SetVar(name string, v any) { e.vars[name] = v }

func (e *Editor) DeleteVar(name string) { delete(e.vars, name) }

// SetPasteHook arms a one-shot callback that runs after the next yank
// completes, then clears itself. Part of the per-cursor state a
// replication pass saves and restores.
func (e *Editor) SetPasteHook(fn func()) { e.pasteHook = fn }

// PasteHook returns the armed paste hook, nil when none is pending.
func (e *Editor) PasteHook() func() { return e.pasteHook }

func (e *Editor) firePasteHook() {
	if hook := e.pasteHook; hook != nil {
		e.pasteHook = nil
		hook()
	}
}

// SuspendFeature disables a named editor feature. Calls nest; the
// feature resumes once every suspension has been released.
func (e *Editor) SuspendFeature(name string) { e.suspended[name]++ }

func (e *Editor) ResumeFeature(name string) {
	if e.suspended[name] > 0 {
		e.suspended[name]--
	}
	if e.suspended[name] == 0 {
		delete(e.suspended, name)
	}
}

func (e *Editor) FeatureSuspended(name string) bool { return e.suspended[name] > 0 }

// SetOverlayFunc installs the provider of extra cursor overlays drawn
// during render.
func (e *Editor) SetOverlayFunc(fn func() []Overlay) { e.overlayFn = fn }

// SetMessage shows a transient minibuffer message.
func (e *Editor) SetMessage(format string, args ...any) {
	e.message = fmt.Sprintf(format, args...)
}

func (e *Editor) Message() string { return e.message }

// LastCommand returns the name of the previously executed command,
// empty for anonymous functions.
func (e *Editor) LastCommand() string { return e.lastCommand }

// InputChar returns the character that triggered the current
// self-insert, so replication re-runs it with the same input.
func (e *Editor) InputChar() rune { return e.inputChar }

func (e *Editor) SetInputChar(ch rune) { e.inputChar = ch }

// notifyEdit reports a completed mutation to the anchor arena and the
// external edit listener, and relocates point and mark the same way
// anchors move. Point carries right bias so typing pushes it past the
// inserted text.
func (e *Editor) notifyEdit(ed Edit) {
	e.anchors.Apply(anchor.Edit{
		Start:  anchor.Point(ed.Start),
		OldEnd: anchor.Point(ed.OldEnd),
		NewEnd: anchor.Point(ed.NewEnd),
	})
	e.point = relocate(e.point, ed, true)
	e.mark = relocate(e.mark, ed, false)
	if e.onEdit != nil {
		e.onEdit(ed)
	}
	e.editSeq++
	e.modified = true
}

func relocate(p Point, ed Edit, biasRight bool) Point {
	if p.Less(ed.Start) {
		return p
	}
	if p == ed.Start {
		if ed.Start == ed.OldEnd && biasRight {
			return ed.NewEnd
		}
		return p
	}
	if p.Less(ed.OldEnd) {
		return ed.Start
	}
	if p.Row == ed.OldEnd.Row {
		return Point{Row: ed.NewEnd.Row, Col: ed.NewEnd.Col + (p.Col - ed.OldEnd.Col)}
	}
	return Point{Row: p.Row + (ed.NewEnd.Row - ed.OldEnd.Row), Col: p.Col}
}

// SetEditListener installs a callback invoked after every buffer
// mutation, used for incremental syntax reparse.
func (e *Editor) SetEditListener(fn func(Edit)) { e.onEdit = fn }

// byteOffset converts a point to a byte offset in the buffer text.
func (e *Editor) byteOffset(p Point) int {
	off := 0
	for row := 0; row < p.Row && row < len(e.lines); row++ {
		off += len(string(e.lines[row])) + 1
	}
	if p.Row < len(e.lines) {
		line := e.lines[p.Row]
		col := p.Col
		if col > len(line) {
			col = len(line)
		}
		off += len(string(line[:col]))
	}
	return off
}

// InsertTextAt inserts text (may contain newlines) at p and returns the
// end position of the inserted span. The insertion is recorded on the
// undo log.
func (e *Editor) InsertTextAt(p Point, text string) Point {
	p = e.clamp(p)
	was := e.point
	end := e.insertRaw(p, text)
	e.record(action{kind: editDelete, start: p, end: end, pointBefore: was, pointAfter: e.point})
	return end
}

// insertRaw splices text into the buffer without touching the undo log.
func (e *Editor) insertRaw(p Point, text string) Point {
	startByte := e.byteOffset(p)
	rows := strings.Split(text, "\n")
	line := e.lines[p.Row]
	head := append([]rune{}, line[:p.Col]...)
	tail := append([]rune{}, line[p.Col:]...)

	var end Point
	if len(rows) == 1 {
		e.lines[p.Row] = append(append(head, []rune(rows[0])...), tail...)
		end = Point{p.Row, p.Col + len([]rune(rows[0]))}
	} else {
		newLines := make([][]rune, 0, len(rows))
		newLines = append(newLines, append(head, []rune(rows[0])...))
		for i := 1; i < len(rows)-1; i++ {
			newLines = append(newLines, []rune(rows[i]))
		}
		last := []rune(rows[len(rows)-1])
		end = Point{p.Row + len(rows) - 1, len(last)}
		newLines = append(newLines, append(last, tail...))

		after := make([][]rune, 0, len(e.lines)+len(newLines)-1)
		after = append(after, e.lines[:p.Row]...)
		after = append(after, newLines...)
		after = append(after, e.lines[p.Row+1:]...)
		e.lines = after
	}
	e.notifyEdit(Edit{
		Start: p, OldEnd: p, NewEnd: end,
		StartByte: startByte, OldEndByte: startByte,
		NewEndByte: startByte + len(text),
	})
	return end
}

// TextInRange returns the buffer text between start and end.
func (e *Editor) TextInRange(start, end Point) string {
	start, end = e.clamp(start), e.clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	if start.Row == end.Row {
		return string(e.lines[start.Row][start.Col:end.Col])
	}
	var b strings.Builder
	b.WriteString(string(e.lines[start.Row][start.Col:]))
	for row := start.Row + 1; row < end.Row; row++ {
		b.WriteByte('\n')
		b.WriteString(string(e.lines[row]))
	}
	b.WriteByte('\n')
	b.WriteString(string(e.lines[end.Row][:end.Col]))
	return b.String()
}

// DeleteRange removes the text between start and end, records the
// deletion on the undo log, and returns the removed text.
func (e *Editor) DeleteRange(start, end Point) string {
	start, end = e.clamp(start), e.clamp(end)
	if end.Less(start) {
		start, end = end, start
	}
	was := e.point
	text := e.deleteRaw(start, end)
	if text != "" {
		e.record(action{kind: editInsert, start: start, text: text, pointBefore: was, pointAfter: e.point})
	}
	return text
}

// deleteRaw removes a span without touching the undo log.
func (e *Editor) deleteRaw(start, end Point) string {
	if start == end {
		return ""
	}
	text := e.TextInRange(start, end)
	startByte := e.byteOffset(start)
	oldEndByte := e.byteOffset(end)

	if start.Row == end.Row {
		line := e.lines[start.Row]
		e.lines[start.Row] = append(append([]rune{}, line[:start.Col]...), line[end.Col:]...)
	} else {
		head := e.lines[start.Row][:start.Col]
		tail := e.lines[end.Row][end.Col:]
		merged := append(append([]rune{}, head...), tail...)
		after := make([][]rune, 0, len(e.lines)-(end.Row-start.Row))
		after = append(after, e.lines[:start.Row]...)
		after = append(after, merged)
		after = append(after, e.lines[end.Row+1:]...)
		e.lines = after
	}
	e.notifyEdit(Edit{
		Start: start, OldEnd: end, NewEnd: start,
		StartByte: startByte, OldEndByte: oldEndByte, NewEndByte: startByte,
	})
	return text
}
