package editor

import (
	"errors"
	"fmt"

	"github.com/kobzarvs/multicur/internal/logger"
)

// ErrUnknownCommand is returned when a command name resolves to
// nothing in the registry.
var ErrUnknownCommand = errors.New("unknown command")

// Register binds a name to a command. Later registrations shadow
// earlier ones.
func (e *Editor) Register(name string, fn func(*Editor) error) {
	e.commands[name] = fn
}

// Lookup reports whether a command name is registered, after remap
// resolution.
func (e *Editor) Lookup(name string) bool {
	_, ok := e.commands[e.ResolveCommand(name)]
	return ok
}

// ResolveCommand follows the user's remap table. Remaps resolve before
// any hook sees the command, so every layer agrees on the identity
// being run. Chains are followed with a bounded depth to survive
// remap cycles in user config.
func (e *Editor) ResolveCommand(name string) string {
	for i := 0; i < 8; i++ {
		next, ok := e.cfg.Remap[name]
		if !ok || next == name {
			return name
		}
		name = next
	}
	return name
}

// AddPreCommandHook installs a hook that runs before every command.
// A non-nil error vetoes execution entirely.
func (e *Editor) AddPreCommandHook(fn func(*Editor, string) error) {
	e.preHooks = append(e.preHooks, fn)
}

// AddPostCommandHook installs a hook that runs after every successful
// command, inside the same undo group.
func (e *Editor) AddPostCommandHook(fn func(*Editor, string)) {
	e.postHooks = append(e.postHooks, fn)
}

// ExecuteCommand resolves name and runs it through the full command
// pipeline: remap, pre-command hooks (which may veto), the command
// body, then post-command hooks. The whole pipeline shares one undo
// group, so a command plus everything its hooks do undoes as a single
// step.
func (e *Editor) ExecuteCommand(name string) error {
	name = e.ResolveCommand(name)
	fn, ok := e.commands[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return e.runPipeline(name, fn)
}

// ExecuteAnonymous runs an unnamed function through the command
// pipeline. Hooks see an empty command name.
func (e *Editor) ExecuteAnonymous(fn func(*Editor) error) error {
	return e.runPipeline("", fn)
}

func (e *Editor) runPipeline(name string, fn func(*Editor) error) error {
	for _, h := range e.preHooks {
		if err := h(e, name); err != nil {
			return err
		}
	}
	e.BeginUndoGroup()
	defer e.EndUndoGroup()

	e.thisCommand = name
	before := e.editSeq
	err := fn(e)
	if err != nil {
		logger.Debug("command failed", "command", name, "err", err)
		e.lastCommand = name
		return err
	}
	for _, h := range e.postHooks {
		h(e, name)
	}
	if e.editSeq != before && !preservesMark[name] {
		e.markActive = false
	}
	e.lastCommand = name
	return nil
}

// preservesMark lists commands whose edits keep the region active.
var preservesMark = map[string]bool{
	"set-mark":                true,
	"exchange-point-and-mark": true,
	"undo":                    true,
	"redo":                    true,
}

func (e *Editor) registerBuiltins() {
	e.Register("forward-char", (*Editor).cmdForwardChar)
	e.Register("backward-char", (*Editor).cmdBackwardChar)
	e.Register("next-line", (*Editor).cmdNextLine)
	e.Register("previous-line", (*Editor).cmdPreviousLine)
	e.Register("move-beginning-of-line", func(e *Editor) error {
		e.SetPoint(Point{e.point.Row, 0})
		return nil
	})
	e.Register("move-end-of-line", func(e *Editor) error {
		e.SetPoint(Point{e.point.Row, e.lineLen(e.point.Row)})
		return nil
	})
	e.Register("self-insert-command", (*Editor).cmdSelfInsert)
	e.Register("newline", func(e *Editor) error {
		e.InsertTextAt(e.point, "\n")
		return nil
	})
	e.Register("delete-backward-char", (*Editor).cmdDeleteBackward)
	e.Register("delete-char", (*Editor).cmdDeleteChar)
	e.Register("kill-line", (*Editor).cmdKillLine)
	e.Register("kill-region", (*Editor).cmdKillRegion)
	e.Register("copy-region-as-kill", (*Editor).cmdCopyRegion)
	e.Register("yank", (*Editor).cmdYank)
	e.Register("yank-pop", (*Editor).cmdYankPop)
	e.Register("yank-rectangle", (*Editor).cmdYankRectangle)
	e.Register("set-mark", func(e *Editor) error {
		e.SetMark(e.point)
		return nil
	})
	e.Register("exchange-point-and-mark", func(e *Editor) error {
		if !e.markActive {
			return nil
		}
		e.point, e.mark = e.mark, e.point
		return nil
	})
	e.Register("undo", func(e *Editor) error {
		if !e.Undo() {
			e.SetMessage("no further undo")
		}
		return nil
	})
	e.Register("redo", func(e *Editor) error {
		if !e.Redo() {
			e.SetMessage("no further redo")
		}
		return nil
	})
	e.Register("save-buffer", func(e *Editor) error { return e.Save() })
	e.Register("revert-buffer", func(e *Editor) error {
		if e.filePath == "" {
			return fmt.Errorf("buffer has no file")
		}
		return e.Open(e.filePath)
	})
	e.Register("zap-to-char", (*Editor).cmdZapToChar)
	e.Register("keyboard-quit", func(e *Editor) error {
		e.markActive = false
		e.SetMessage("quit")
		return nil
	})
	e.Register("quit", func(e *Editor) error {
		e.quit = true
		return nil
	})
}

func (e *Editor) cmdForwardChar() error {
	p := e.point
	if p.Col < e.lineLen(p.Row) {
		p.Col++
	} else if p.Row < len(e.lines)-1 {
		p = Point{p.Row + 1, 0}
	}
	e.SetPoint(p)
	return nil
}

func (e *Editor) cmdBackwardChar() error {
	p := e.point
	if p.Col > 0 {
		p.Col--
	} else if p.Row > 0 {
		p = Point{p.Row - 1, e.lineLen(p.Row - 1)}
	}
	e.SetPoint(p)
	return nil
}

func (e *Editor) cmdNextLine() error {
	if e.point.Row >= len(e.lines)-1 {
		return nil
	}
	e.moveToRow(e.point.Row + 1)
	return nil
}

func (e *Editor) cmdPreviousLine() error {
	if e.point.Row == 0 {
		return nil
	}
	e.moveToRow(e.point.Row - 1)
	return nil
}

// moveToRow keeps the column the user is aiming for across short lines.
func (e *Editor) moveToRow(row int) {
	col := e.desiredCol
	if n := e.lineLen(row); col > n {
		col = n
	}
	e.point = Point{row, col}
}

func (e *Editor) cmdSelfInsert() error {
	if e.inputChar == 0 {
		return nil
	}
	e.InsertTextAt(e.point, string(e.inputChar))
	return nil
}

func (e *Editor) cmdDeleteBackward() error {
	p := e.point
	if p.Col > 0 {
		e.DeleteRange(Point{p.Row, p.Col - 1}, p)
	} else if p.Row > 0 {
		e.DeleteRange(Point{p.Row - 1, e.lineLen(p.Row - 1)}, p)
	}
	return nil
}

func (e *Editor) cmdDeleteChar() error {
	p := e.point
	if p.Col < e.lineLen(p.Row) {
		e.DeleteRange(p, Point{p.Row, p.Col + 1})
	} else if p.Row < len(e.lines)-1 {
		e.DeleteRange(p, Point{p.Row + 1, 0})
	}
	return nil
}

// killCommands marks commands whose consecutive kills append to the
// kill ring head instead of pushing new entries.
var killCommands = map[string]bool{
	"kill-line":   true,
	"kill-region": true,
	"zap-to-char": true,
}

func (e *Editor) pushKill(text string) {
	if killCommands[e.lastCommand] && e.thisCommand == e.lastCommand {
		e.killRing.AppendToHead(text)
		return
	}
	e.killRing.Push(text)
}

func (e *Editor) cmdKillLine() error {
	p := e.point
	end := Point{p.Row, e.lineLen(p.Row)}
	if p == end && p.Row < len(e.lines)-1 {
		end = Point{p.Row + 1, 0}
	}
	if text := e.DeleteRange(p, end); text != "" {
		e.pushKill(text)
	}
	return nil
}

func (e *Editor) cmdKillRegion() error {
	start, end, ok := e.Region()
	if !ok {
		return nil
	}
	if text := e.DeleteRange(start, end); text != "" {
		e.pushKill(text)
	}
	e.markActive = false
	return nil
}

func (e *Editor) cmdCopyRegion() error {
	start, end, ok := e.Region()
	if !ok {
		return nil
	}
	if text := e.TextInRange(start, end); text != "" {
		e.killRing.Push(text)
	}
	e.markActive = false
	return nil
}

func (e *Editor) cmdYank() error {
	text, ok := e.killRing.Head()
	if !ok {
		e.SetMessage("kill ring is empty")
		return nil
	}
	e.lastYankStart = e.point
	e.lastYankEnd = e.InsertTextAt(e.point, text)
	e.SetPoint(e.lastYankEnd)
	e.firePasteHook()
	return nil
}

func (e *Editor) cmdYankPop() error {
	if e.lastCommand != "yank" && e.lastCommand != "yank-pop" {
		e.SetMessage("previous command was not a yank")
		return nil
	}
	text, ok := e.killRing.Rotate()
	if !ok {
		return nil
	}
	e.DeleteRange(e.lastYankStart, e.lastYankEnd)
	e.lastYankEnd = e.InsertTextAt(e.lastYankStart, text)
	e.SetPoint(e.lastYankEnd)
	return nil
}

// cmdYankRectangle inserts the stashed rectangle one line per row
// starting at point, each at the same column.
func (e *Editor) cmdYankRectangle() error {
	if len(e.killRect) == 0 {
		e.SetMessage("no rectangle to yank")
		return nil
	}
	origin := e.point
	for i, text := range e.killRect {
		row := origin.Row + i
		for row >= len(e.lines) {
			e.InsertTextAt(Point{len(e.lines) - 1, e.lineLen(len(e.lines) - 1)}, "\n")
		}
		col := origin.Col
		if n := e.lineLen(row); col > n {
			e.InsertTextAt(Point{row, n}, pad(col-n))
		}
		e.InsertTextAt(Point{row, col}, text)
	}
	return nil
}

func pad(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}

func (e *Editor) cmdZapToChar() error {
	ch, err := e.ReadChar("Zap to char: ")
	if err != nil {
		return fmt.Errorf("zap-to-char: %w", err)
	}
	p := e.point
	for row := p.Row; row < len(e.lines); row++ {
		startCol := 0
		if row == p.Row {
			startCol = p.Col
		}
		line := e.lines[row]
		for col := startCol; col < len(line); col++ {
			if line[col] == ch {
				text := e.DeleteRange(p, Point{row, col + 1})
				e.pushKill(text)
				return nil
			}
		}
	}
	e.SetMessage("char not found: %c", ch)
	return nil
}

// SetKillRectangle stashes rectangle lines for yank-rectangle.
func (e *Editor) SetKillRectangle(lines []string) {
	e.killRect = append([]string(nil), lines...)
}

func (e *Editor) KillRectangle() []string {
	return append([]string(nil), e.killRect...)
}
