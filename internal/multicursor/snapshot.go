// Package multicursor replicates host editor commands across virtual
// cursors. One real actor edits; every fake cursor replays the same
// command at its own anchored position with its own saved state, and
// the whole round undoes as a single step.
package multicursor

import "github.com/kobzarvs/multicur/internal/editor"

// Snapshot is the per-cursor slice of editor state that must travel
// with a cursor: everything a command reads or writes besides the
// buffer itself. Positions are not part of it, those live in anchors
// so edits keep them current. The pending input character is not
// either: it is command context shared by the whole replication pass.
type Snapshot struct {
	KillRing  []string
	YankIndex int
	PasteHook func()
	Vars      map[string]any
}

// trackedVars lists the extension variables saved and restored per
// cursor. Extensions that keep per-cursor state register their
// variable names here via TrackVar.
var trackedVars = []string{}

// TrackVar adds an extension variable to every future snapshot.
func TrackVar(name string) {
	for _, v := range trackedVars {
		if v == name {
			return
		}
	}
	trackedVars = append(trackedVars, name)
}

// capture copies the tracked state out of the editor.
func capture(ed *editor.Editor) Snapshot {
	s := Snapshot{
		KillRing:  ed.KillRing().Entries(),
		YankIndex: ed.KillRing().YankIndex(),
		PasteHook: ed.PasteHook(),
	}
	if len(trackedVars) > 0 {
		s.Vars = make(map[string]any, len(trackedVars))
		for _, name := range trackedVars {
			if v, ok := ed.Var(name); ok {
				s.Vars[name] = v
			}
		}
	}
	return s
}

// restore writes the tracked state back into the editor.
func (s Snapshot) restore(ed *editor.Editor) {
	ed.KillRing().Restore(s.KillRing)
	ed.KillRing().SetYankIndex(s.YankIndex)
	ed.SetPasteHook(s.PasteHook)
	for _, name := range trackedVars {
		if v, ok := s.Vars[name]; ok {
			ed.SetVar(name, v)
		} else {
			ed.DeleteVar(name)
		}
	}
}

// Head returns the snapshot's kill ring head.
func (s Snapshot) Head() (string, bool) {
	if len(s.KillRing) == 0 {
		return "", false
	}
	return s.KillRing[0], true
}
