// Package app runs the terminal frontend: it owns the tcell screen and
// the event loop, and wires the editor to cursor replication, syntax
// highlighting, git status and session persistence.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/multicur/internal/config"
	"github.com/kobzarvs/multicur/internal/editor"
	"github.com/kobzarvs/multicur/internal/gitinfo"
	"github.com/kobzarvs/multicur/internal/multicursor"
	"github.com/kobzarvs/multicur/internal/session"
	"github.com/kobzarvs/multicur/internal/syntax"
)

// App is the top-level runtime for multicur.
type App struct {
	args []string
}

func New(args []string) *App {
	return &App{args: args}
}

func (a *App) Run() error {
	runtime.LockOSThread()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	langs, err := config.LoadLanguages()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ed := editor.New(&cfg)
	ed.SetCharReader(screenReader{screen: screen, ed: ed})

	var openPath string
	if len(a.args) > 0 {
		openPath = a.args[0]
		if err := ed.Open(openPath); err != nil {
			return err
		}
		if abs, err := filepath.Abs(openPath); err == nil {
			openPath = abs
		}
	}

	mc, err := multicursor.NewSession(ed, &cfg)
	if err != nil {
		return err
	}
	defer mc.Close()

	engine := syntax.New()
	highlighting := openPath != "" && engine.SetFile(openPath, langs)
	var rowSpans map[int][]editor.HighlightSpan
	if highlighting {
		engine.ParseSync(ed.Text())
		ed.SetEditListener(func(edit editor.Edit) {
			engine.Reparse(ed.Text(), edit.StartByte, edit.OldEndByte, edit.NewEndByte)
		})
		ed.SetHighlightFunc(func(row int) []editor.HighlightSpan {
			return rowSpans[row]
		})
	}

	gitPath := openPath
	if gitPath == "" {
		if cwd, err := os.Getwd(); err == nil {
			gitPath = cwd
		}
	}
	branch := gitinfo.Branch(gitPath)
	ed.SetStatusExtra(func() string {
		right := ""
		if mc.Enabled() {
			right = fmt.Sprintf("[%d cursors] ", mc.Count()+1)
		}
		if branch != "" {
			right += cfg.Editor.GitBranchSymbol + branch
		}
		return right
	})

	sm, err := session.NewManager()
	if err != nil {
		return err
	}
	defer sm.Stop()
	if openPath != "" {
		restoreFileState(ed, sm, openPath)
		defer func() { sm.SetFileState(openPath, captureFileState(ed)) }()
	}

	stopTick := make(chan struct{})
	defer close(stopTick)
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-stopTick:
				return
			case <-ticker.C:
				_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()

	theme := syntaxTheme(cfg.Theme)
	render := func() {
		if highlighting {
			start, _ := ed.ScrollOffset()
			_, h := screen.Size()
			end := start + h
			if n := ed.LineCount(); end >= n {
				end = n - 1
			}
			rowSpans = convertSpans(engine.Highlights(start, end), theme)
		}
		ed.Render(screen)
	}

	render()
	for {
		switch ev := screen.PollEvent().(type) {
		case *tcell.EventKey:
			if err := ed.HandleKey(ev); err != nil {
				ed.SetMessage("%v", err)
			}
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventInterrupt:
			branch = gitinfo.Branch(gitPath)
			if cfg.Editor.Autosave && ed.Modified() && !ed.FeatureSuspended("autosave") {
				if err := ed.Save(); err != nil {
					ed.SetMessage("autosave: %v", err)
				}
			}
		}
		if ed.Quit() {
			return nil
		}
		if openPath != "" {
			sm.SetFileState(openPath, captureFileState(ed))
		}
		render()
	}
}

func restoreFileState(ed *editor.Editor, sm *session.Manager, path string) {
	fs, ok := sm.FileState(path)
	if !ok {
		return
	}
	ed.SetPoint(editor.Point{Row: fs.PointRow, Col: fs.PointCol})
	ed.SetScrollOffset(fs.ScrollRow, fs.ScrollCol)
	if fs.MarkSet {
		ed.SetMark(editor.Point{Row: fs.MarkRow, Col: fs.MarkCol})
	}
}

func captureFileState(ed *editor.Editor) session.FileState {
	p := ed.Point()
	row, col := ed.ScrollOffset()
	fs := session.FileState{
		PointRow:  p.Row,
		PointCol:  p.Col,
		ScrollRow: row,
		ScrollCol: col,
	}
	if mark, active := ed.Mark(); active {
		fs.MarkSet = true
		fs.MarkRow = mark.Row
		fs.MarkCol = mark.Col
	}
	return fs
}

// syntaxTheme maps highlight capture kinds to styles. Kinds without a
// theme color render as plain text.
func syntaxTheme(t config.Theme) map[string]tcell.Style {
	style := func(fg string) tcell.Style {
		return tcell.StyleDefault.
			Foreground(tcell.GetColor(fg)).
			Background(tcell.GetColor(t.Background))
	}
	return map[string]tcell.Style{
		"keyword":  style(t.SyntaxKeyword),
		"string":   style(t.SyntaxString),
		"comment":  style(t.SyntaxComment),
		"type":     style(t.SyntaxType),
		"function": style(t.SyntaxFunction),
		"number":   style(t.SyntaxNumber),
		"constant": style(t.SyntaxNumber),
		"field":    style(t.SyntaxType),
		"variable": style(t.Foreground),
	}
}

func convertSpans(spans map[int][]syntax.Span, theme map[string]tcell.Style) map[int][]editor.HighlightSpan {
	if spans == nil {
		return nil
	}
	out := make(map[int][]editor.HighlightSpan, len(spans))
	for row, list := range spans {
		dst := make([]editor.HighlightSpan, 0, len(list))
		for _, s := range list {
			st, ok := theme[s.Kind]
			if !ok {
				continue
			}
			dst = append(dst, editor.HighlightSpan{StartCol: s.StartCol, EndCol: s.EndCol, Style: st})
		}
		if len(dst) > 0 {
			out[row] = dst
		}
	}
	return out
}

// screenReader answers interactive ReadChar prompts from the terminal.
// It shows the prompt in the minibuffer and blocks on the next rune key;
// escape or ctrl+g abandons the prompt.
type screenReader struct {
	screen tcell.Screen
	ed     *editor.Editor
}

func (r screenReader) ReadChar() (rune, error) {
	r.ed.Render(r.screen)
	for {
		ev, ok := r.screen.PollEvent().(*tcell.EventKey)
		if !ok {
			continue
		}
		switch {
		case ev.Key() == tcell.KeyEsc || ev.Key() == tcell.KeyCtrlG:
			return 0, fmt.Errorf("prompt abandoned")
		case ev.Key() == tcell.KeyRune:
			return ev.Rune(), nil
		}
	}
}
