package multicursor

import (
	"fmt"
	"strings"

	"github.com/kobzarvs/multicur/internal/config"
	"github.com/kobzarvs/multicur/internal/editor"
	"github.com/kobzarvs/multicur/internal/logger"
)

// Session wires cursor replication into one editor: it owns the cursor
// store, classifies commands as they execute, replicates the ones that
// should run everywhere, and tears everything down when the user is
// done. Hooks and mc- commands are registered once at construction;
// the session stays dormant until the first cursor is added.
type Session struct {
	ed         *editor.Editor
	cfg        *config.Config
	store      *Store
	classifier *Classifier
	decisions  *DecisionStore
	coord      *UndoCoordinator
	exec       *Executor

	enabled     bool
	replicating bool
	suspended   bool
}

func NewSession(ed *editor.Editor, cfg *config.Config) (*Session, error) {
	s := &Session{
		ed:         ed,
		cfg:        cfg,
		store:      NewStore(ed, cfg.Multicursor.MaxCursors),
		classifier: NewClassifier(),
	}
	s.coord = NewUndoCoordinator(ed, s.store)
	s.exec = NewExecutor(ed, s.store, s.coord)

	path := cfg.Multicursor.DecisionsFile
	if path == "" {
		var err error
		if path, err = config.DecisionsPath(); err != nil {
			return nil, err
		}
	}
	s.decisions = NewDecisionStore(path)
	if err := s.decisions.Load(s.classifier); err != nil {
		logger.Warn("loading command decisions failed", "err", err)
	}
	// Every answered prompt is written out immediately so a crashed
	// session loses nothing and other instances can pick it up.
	s.classifier.OnLearn(func() {
		if err := s.decisions.Save(s.classifier); err != nil {
			logger.Warn("saving command decisions failed", "err", err)
		}
	})
	// Undo replay can bring cursors back after the session ended; the
	// session wakes up so they are owned and removable again.
	s.coord.SetReviveFunc(s.Enable)
	if cfg.Multicursor.WatchDecisions {
		if err := s.decisions.Watch(s.classifier); err != nil {
			logger.Warn("watching command decisions failed", "err", err)
		}
	}

	ed.AddPreCommandHook(s.beforeCommand)
	ed.AddPostCommandHook(s.afterCommand)
	ed.SetOverlayFunc(s.store.Overlays)

	ed.Register("mc-add-cursor", func(e *editor.Editor) error { return s.cmdAddCursor(e) })
	ed.Register("mc-edit-lines", func(e *editor.Editor) error { return s.cmdEditLines(e) })
	ed.Register("mc-confirm", func(e *editor.Editor) error { return s.cmdConfirm(e) })
	ed.Register("mc-keyboard-quit", func(e *editor.Editor) error { return s.cmdKeyboardQuit(e) })
	return s, nil
}

// Enabled reports whether fake cursors are active.
func (s *Session) Enabled() bool { return s.enabled }

// Count returns the number of fake cursors.
func (s *Session) Count() int { return s.store.Len() }

// Store exposes the cursor store for rendering and extensions.
func (s *Session) Store() *Store { return s.store }

// Classifier exposes the command classifier.
func (s *Session) Classifier() *Classifier { return s.classifier }

// Enable activates the session. Autosave is suspended for the
// duration: a write mid-pass would observe half-replicated text.
func (s *Session) Enable() {
	if s.enabled {
		return
	}
	s.enabled = true
	s.ed.SuspendFeature("autosave")
	s.suspended = true
	logger.Info("multicursor session enabled")
}

// Disable ends the session: clipboards are merged, cursors dropped,
// suspended features resumed, and learned decisions persisted.
func (s *Session) Disable() {
	if !s.enabled {
		return
	}
	MergeClipboards(s.ed, s.exec)
	s.store.Clear()
	s.exec.RemoveCache()
	if s.suspended {
		s.ed.ResumeFeature("autosave")
		s.suspended = false
	}
	s.enabled = false
	if err := s.decisions.Save(s.classifier); err != nil {
		logger.Warn("saving command decisions failed", "err", err)
	}
	logger.Info("multicursor session disabled")
}

// Close releases the session's background resources.
func (s *Session) Close() {
	s.Disable()
	s.decisions.Close()
}

// beforeCommand vetoes unsupported commands while cursors are active
// and interposes the input replay cache so interactive reads made by
// the real actor can be replayed at every cursor.
func (s *Session) beforeCommand(_ *editor.Editor, name string) error {
	if !s.enabled || s.replicating {
		return nil
	}
	if reason, ok := s.classifier.UnsupportedReason(name); ok {
		return fmt.Errorf("%w: %s (%s)", ErrUnsupportedCommand, name, reason)
	}
	if s.store.Len() > 0 && !strings.HasPrefix(name, "mc-") {
		s.exec.RemoveCache() // drop input recorded by an aborted command
		s.exec.InstallCache()
	}
	return nil
}

// afterCommand replicates the just-executed command at every cursor
// when its class says so. It is the outermost replication driver:
// whatever goes wrong inside is reported in the minibuffer and logged,
// never propagated into the host command loop.
func (s *Session) afterCommand(e *editor.Editor, name string) {
	if !s.enabled || s.replicating || name == "" {
		return
	}
	defer s.exec.RemoveCache()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("replication pass panicked", "command", name, "panic", r)
			e.SetMessage("multicursor: %s failed: %v", name, r)
		}
	}()
	if s.store.Len() == 0 || strings.HasPrefix(name, "mc-") {
		return
	}

	decision, err := s.classifier.Decide(name, s.promptChar)
	if err != nil {
		// Abandoned prompt: the command ran once and nothing was
		// learned. That is the answer, not an error to surface.
		e.SetMessage("%s ran at the real cursor only", name)
		return
	}
	if decision != RunForAll {
		return
	}

	s.replicating = true
	defer func() { s.replicating = false }()
	results := s.exec.ReplicateForAll(func(ed *editor.Editor) error {
		return ed.ExecuteCommand(name)
	})
	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	if failed > 0 {
		e.SetMessage("%s failed at %d of %d cursors", name, failed, len(results))
	}
}

// promptChar asks the user one character, bypassing the replay cache
// so a classification answer never leaks into cursor input.
func (s *Session) promptChar(prompt string) (rune, error) {
	return s.exec.ReadCharUncached(prompt)
}

// Do runs an anonymous function as one replicated operation: once on
// the real actor, then at every cursor, all in a single undo step.
// Anonymous operations have no name to classify, so they replicate
// unconditionally.
func (s *Session) Do(fn func(*editor.Editor) error) error {
	if !s.enabled || s.store.Len() == 0 {
		return s.ed.ExecuteAnonymous(fn)
	}
	s.replicating = true
	defer func() { s.replicating = false }()
	return s.ed.ExecuteAnonymous(func(e *editor.Editor) error {
		if err := fn(e); err != nil {
			return err
		}
		s.exec.ReplicateForAll(fn)
		return nil
	})
}

// cmdAddCursor drops a fake cursor at point, enabling the session on
// first use.
func (s *Session) cmdAddCursor(e *editor.Editor) error {
	s.Enable()
	if _, err := s.store.Add(e.Point()); err != nil {
		return err
	}
	e.SetMessage("%d cursors", s.store.Len()+1)
	return nil
}

// cmdEditLines puts one cursor on every line of the active region at
// point's column, the real actor taking the last line.
func (s *Session) cmdEditLines(e *editor.Editor) error {
	start, end, ok := e.Region()
	if !ok {
		e.SetMessage("mc-edit-lines needs an active region")
		return nil
	}
	lastRow := end.Row
	if end.Col == 0 && end.Row > start.Row {
		lastRow-- // region ending at column 0 does not include that line
	}
	if lastRow == start.Row {
		e.SetMessage("region covers a single line")
		return nil
	}
	col := e.Point().Col
	s.Enable()
	e.DeactivateMark()
	for row := start.Row; row < lastRow; row++ {
		at := editor.Point{Row: row, Col: col}
		if n := len(e.Line(row)); col > n {
			at.Col = n
		}
		if _, err := s.store.Add(at); err != nil {
			return err
		}
	}
	last := editor.Point{Row: lastRow, Col: col}
	if n := len(e.Line(lastRow)); col > n {
		last.Col = n
	}
	e.SetPoint(last)
	e.SetMessage("%d cursors", s.store.Len()+1)
	return nil
}

// cmdConfirm ends the session, keeping all edits.
func (s *Session) cmdConfirm(*editor.Editor) error {
	s.Disable()
	return nil
}

// cmdKeyboardQuit drops the selection if one is active, otherwise ends
// the session. Two quits in a row always get the user out.
func (s *Session) cmdKeyboardQuit(e *editor.Editor) error {
	if _, active := e.Mark(); active {
		e.DeactivateMark()
		return nil
	}
	s.Disable()
	return nil
}
