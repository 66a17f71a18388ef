package multicursor

import "github.com/kobzarvs/multicur/internal/editor"

// UndoCoordinator brackets each replicated span with undo log markers
// so host undo and redo replay the demote/recreate dance around the
// span's edits. Undoing a group therefore restores every cursor's
// position and state, not just the buffer text.
type UndoCoordinator struct {
	ed     *editor.Editor
	store  *Store
	revive func()
}

func NewUndoCoordinator(ed *editor.Editor, store *Store) *UndoCoordinator {
	return &UndoCoordinator{ed: ed, store: store}
}

// SetReviveFunc installs a hook fired whenever marker replay recreates
// a cursor. Markers outlive the session that wrote them; the hook lets
// it wake back up when undo or redo brings cursors back.
func (u *UndoCoordinator) SetReviveFunc(fn func()) { u.revive = fn }

func (u *UndoCoordinator) recreate(id int, held **Held) {
	if u.revive != nil {
		u.revive()
	}
	u.store.Recreate(id)
	if *held != nil {
		(*held).Restore()
		*held = nil
	}
}

// WrapStep runs one cursor's replication span between two markers.
// Marker callbacks fire as the undo walk crosses them:
//
//	undo: post marker parks the real state and demotes to the cursor,
//	      the inverse edits unwind at the cursor's positions, then the
//	      pre marker recreates the cursor and unparks the real state.
//	redo: the same trip in the opposite direction.
//
// A span whose command made no edits leaves no trace: the pre marker
// is stripped again and no post marker is pushed.
func (u *UndoCoordinator) WrapStep(id int, run func() error) error {
	var held *Held

	u.ed.PushMarker(
		func() { u.recreate(id, &held) },
		func() {
			held = u.store.Hold()
			u.store.Demote(id)
		},
	)

	err := run()

	if u.ed.PopMarkerIfTop() {
		return err
	}
	u.ed.PushMarker(
		func() {
			held = u.store.Hold()
			u.store.Demote(id)
		},
		func() { u.recreate(id, &held) },
	)
	return err
}
