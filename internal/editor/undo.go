package editor

// actionKind discriminates undo log entries. Edit entries describe how
// to reverse a mutation; marker entries carry callbacks that restore
// out-of-buffer state as the log is walked.
type actionKind int

const (
	// editInsert re-inserts text at start (reverses a deletion).
	editInsert actionKind = iota
	// editDelete removes [start, end) (reverses an insertion).
	editDelete
	// editMarker fires onUndo / onRedo as the log walk crosses it.
	editMarker
)

type action struct {
	kind        actionKind
	start       Point
	end         Point
	text        string
	pointBefore Point
	pointAfter  Point
	group       uint64
	onUndo      func()
	onRedo      func()
}

// BeginUndoGroup opens an undo group. Groups nest: entries recorded at
// any depth belong to the outermost group, so one host-level command
// plus everything replicated inside it undoes as a single step.
func (e *Editor) BeginUndoGroup() {
	if e.undoDepth == 0 {
		e.undoGroup++
	}
	e.undoDepth++
}

func (e *Editor) EndUndoGroup() {
	if e.undoDepth > 0 {
		e.undoDepth--
	}
}

// record pushes one inverse action onto the undo log. The caller sets
// pointBefore and pointAfter so undo and redo land the cursor exactly
// where it was on either side of the edit. Fresh edits invalidate the
// redo stack.
func (e *Editor) record(a action) {
	a.group = e.currentGroup()
	e.undoStack = append(e.undoStack, a)
	e.redoStack = nil
}

func (e *Editor) currentGroup() uint64 {
	if e.undoDepth == 0 {
		e.undoGroup++
	}
	return e.undoGroup
}

// PushMarker records a marker entry in the current group. During undo
// the walk calls onUndo when it crosses the marker; during redo it
// calls onRedo. Markers must be pushed inside an open group so they
// travel with the edits they bracket. A marker alone does not clear
// the redo stack; only edits do.
func (e *Editor) PushMarker(onUndo, onRedo func()) {
	a := action{kind: editMarker, group: e.currentGroup(), onUndo: onUndo, onRedo: onRedo}
	e.undoStack = append(e.undoStack, a)
}

// PopMarkerIfTop removes the newest undo entry if it is a marker in the
// current group, reporting whether it did. A command that made no edits
// leaves a dangling marker pair; the caller strips it so undo never
// lands on an empty step.
func (e *Editor) PopMarkerIfTop() bool {
	if e.undoDepth == 0 || len(e.undoStack) == 0 {
		return false
	}
	top := e.undoStack[len(e.undoStack)-1]
	if top.kind != editMarker || top.group != e.undoGroup {
		return false
	}
	e.undoStack = e.undoStack[:len(e.undoStack)-1]
	return true
}

// CanUndo reports whether the undo log has entries.
func (e *Editor) CanUndo() bool { return len(e.undoStack) > 0 }

func (e *Editor) CanRedo() bool { return len(e.redoStack) > 0 }

// Undo reverses the newest group: inverse edits are applied newest
// first and marker callbacks fire in the same walk, so state saved at
// the end of a bracketed span is restored before its edits unwind and
// the state from before the span is restored after.
func (e *Editor) Undo() bool {
	if len(e.undoStack) == 0 {
		return false
	}
	group := e.undoStack[len(e.undoStack)-1].group
	for len(e.undoStack) > 0 {
		a := e.undoStack[len(e.undoStack)-1]
		if a.group != group {
			break
		}
		e.undoStack = e.undoStack[:len(e.undoStack)-1]
		if a.kind == editMarker {
			if a.onUndo != nil {
				a.onUndo()
			}
			e.redoStack = append(e.redoStack, a)
			continue
		}
		inv := e.applyAction(a, false)
		e.redoStack = append(e.redoStack, inv)
	}
	return true
}

// Redo re-applies the newest undone group.
func (e *Editor) Redo() bool {
	if len(e.redoStack) == 0 {
		return false
	}
	group := e.redoStack[len(e.redoStack)-1].group
	for len(e.redoStack) > 0 {
		a := e.redoStack[len(e.redoStack)-1]
		if a.group != group {
			break
		}
		e.redoStack = e.redoStack[:len(e.redoStack)-1]
		if a.kind == editMarker {
			if a.onRedo != nil {
				a.onRedo()
			}
			e.undoStack = append(e.undoStack, a)
			continue
		}
		inv := e.applyAction(a, true)
		e.undoStack = append(e.undoStack, inv)
	}
	return true
}

// applyAction performs one inverse edit and returns the action that
// reverses it. Undoing lands the point where it was before the
// original edit; redoing lands it where the edit left it.
func (e *Editor) applyAction(a action, redo bool) action {
	var inv action
	switch a.kind {
	case editInsert:
		end := e.insertRaw(a.start, a.text)
		inv = action{kind: editDelete, start: a.start, end: end}
	case editDelete:
		text := e.deleteRaw(a.start, a.end)
		inv = action{kind: editInsert, start: a.start, text: text}
	default:
		return a
	}
	if redo {
		e.point = e.clamp(a.pointAfter)
	} else {
		e.point = e.clamp(a.pointBefore)
	}
	inv.group = a.group
	inv.pointBefore = a.pointBefore
	inv.pointAfter = a.pointAfter
	return inv
}
