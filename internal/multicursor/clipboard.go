package multicursor

import (
	"github.com/kobzarvs/multicur/internal/editor"
	"github.com/kobzarvs/multicur/internal/logger"
)

// MergeClipboards reconciles per-cursor kill rings when a session
// ends. Every actor is visited in ascending buffer order, real actor
// included, and its kill ring head collected. If every actor killed
// the same text nothing needs doing; if they diverged the heads become
// the editor's kill rectangle, one line per actor, ready for
// yank-rectangle.
func MergeClipboards(ed *editor.Editor, exec *Executor) {
	var heads []string
	exec.ForEachCursorOrdered(func(e *editor.Editor) error {
		if head, ok := e.KillRing().Head(); ok {
			heads = append(heads, head)
		}
		return nil
	})
	if len(heads) < 2 {
		return
	}

	identical := true
	for i := 1; i < len(heads); i++ {
		if heads[i] != heads[0] {
			identical = false
			break
		}
	}
	if identical {
		return
	}

	ed.SetKillRectangle(heads)
	ed.SetMessage("kill rings diverged; saved as rectangle (%d lines)", len(heads))
	logger.Debug("clipboards merged into rectangle", "lines", len(heads))
}
