package multicursor

import (
	"fmt"
	"sort"

	"github.com/kobzarvs/multicur/internal/anchor"
	"github.com/kobzarvs/multicur/internal/editor"
)

// Cursor is one fake cursor: an anchored caret, an optional anchored
// mark forming a fake selection, and the saved editor state the cursor
// carries between commands.
type Cursor struct {
	ID         int
	caret      *anchor.Range
	mark       *anchor.Range
	markActive bool
	state      Snapshot
}

// Point returns the cursor's current buffer position.
func (c *Cursor) Point() editor.Point {
	return editor.Point(c.caret.Start)
}

// Mark returns the cursor's mark position and whether it is active.
func (c *Cursor) Mark() (editor.Point, bool) {
	if c.mark == nil {
		return editor.Point{}, false
	}
	return editor.Point(c.mark.Start), c.markActive
}

// State returns the cursor's saved editor state.
func (c *Cursor) State() Snapshot { return c.state }

// Store owns the fake cursors of one editor. Ids are monotonically
// increasing ints; a released id is never reused for a new cursor, but
// undo replay recreates released cursors under their original ids.
type Store struct {
	ed      *editor.Editor
	cursors map[int]*Cursor
	order   []int
	nextID  int
	max     int
}

func NewStore(ed *editor.Editor, maxCursors int) *Store {
	return &Store{
		ed:      ed,
		cursors: make(map[int]*Cursor),
		nextID:  1,
		max:     maxCursors,
	}
}

// Add creates a fake cursor at the given position, carrying the
// editor's current tracked state.
func (s *Store) Add(at editor.Point) (*Cursor, error) {
	id := s.nextID
	return s.AddWithID(id, at)
}

// AddWithID creates a cursor under a caller-chosen id. Used by undo
// replay, which must bring a cursor back under the id the undo log
// recorded.
func (s *Store) AddWithID(id int, at editor.Point) (*Cursor, error) {
	if s.max > 0 && len(s.cursors) >= s.max {
		return nil, fmt.Errorf("%w: limit %d", ErrTooManyCursors, s.max)
	}
	if _, exists := s.cursors[id]; exists {
		return nil, fmt.Errorf("cursor %d already exists", id)
	}
	if id >= s.nextID {
		s.nextID = id + 1
	}
	p := anchor.Point(at)
	c := &Cursor{
		ID:    id,
		caret: s.ed.Anchors().Create(p, p, true),
		state: capture(s.ed),
	}
	if mark, active := s.ed.Mark(); active {
		mp := anchor.Point(mark)
		c.mark = s.ed.Anchors().Create(mp, mp, false)
		c.markActive = true
	}
	s.cursors[id] = c
	s.order = append(s.order, id)
	return c, nil
}

// Remove releases a cursor and its anchors. Removing an unknown id is
// a no-op.
func (s *Store) Remove(id int) {
	c, ok := s.cursors[id]
	if !ok {
		return
	}
	s.releaseAnchors(c)
	delete(s.cursors, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *Store) releaseAnchors(c *Cursor) {
	s.ed.Anchors().Release(c.caret.ID())
	if c.mark != nil {
		s.ed.Anchors().Release(c.mark.ID())
	}
}

// Clear drops every cursor.
func (s *Store) Clear() {
	for _, c := range s.cursors {
		s.releaseAnchors(c)
	}
	s.cursors = make(map[int]*Cursor)
	s.order = nil
}

func (s *Store) Get(id int) *Cursor { return s.cursors[id] }

func (s *Store) Len() int { return len(s.cursors) }

// All returns cursors in creation order.
func (s *Store) All() []*Cursor {
	out := make([]*Cursor, 0, len(s.order))
	for _, id := range s.order {
		if c, ok := s.cursors[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Ordered returns cursors sorted ascending by buffer position, ties by
// id. Replication and state merges traverse in this order so results
// are deterministic.
func (s *Store) Ordered() []*Cursor {
	out := s.All()
	sort.Slice(out, func(i, j int) bool {
		pi, pj := out[i].Point(), out[j].Point()
		if pi != pj {
			return pi.Less(pj)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Demote turns the editor into the given cursor: restores the cursor's
// saved state, moves point to its caret, installs its mark, and removes
// the cursor from the store. The inverse of Recreate.
func (s *Store) Demote(id int) error {
	c, ok := s.cursors[id]
	if !ok {
		return fmt.Errorf("demote: no cursor %d", id)
	}
	c.state.restore(s.ed)
	s.ed.SetPoint(c.Point())
	if p, active := c.Mark(); active {
		s.ed.SetMark(p)
	} else {
		s.ed.DeactivateMark()
	}
	s.Remove(id)
	return nil
}

// Recreate captures the editor's current point, mark and tracked state
// into a fresh cursor under the given id.
func (s *Store) Recreate(id int) (*Cursor, error) {
	return s.AddWithID(id, s.ed.Point())
}

// Held is a real-actor state parked while the editor impersonates fake
// cursors. The point is kept as an anchor so buffer edits made in the
// meantime relocate it correctly.
type Held struct {
	store     *Store
	caret     *anchor.Range
	mark      *anchor.Range
	marked    bool
	state     Snapshot
	scrollRow int
	scrollCol int
}

// Hold parks the editor's current state.
func (s *Store) Hold() *Held {
	p := anchor.Point(s.ed.Point())
	h := &Held{
		store: s,
		caret: s.ed.Anchors().Create(p, p, true),
		state: capture(s.ed),
	}
	if mark, active := s.ed.Mark(); active {
		mp := anchor.Point(mark)
		h.mark = s.ed.Anchors().Create(mp, mp, false)
		h.marked = true
	}
	h.scrollRow, h.scrollCol = s.ed.ScrollOffset()
	return h
}

// Restore puts the parked state back and releases its anchors.
func (h *Held) Restore() {
	ed := h.store.ed
	h.state.restore(ed)
	ed.SetPoint(editor.Point(h.caret.Start))
	if h.marked {
		ed.SetMark(editor.Point(h.mark.Start))
	} else {
		ed.DeactivateMark()
	}
	ed.SetScrollOffset(h.scrollRow, h.scrollCol)
	ed.Anchors().Release(h.caret.ID())
	if h.mark != nil {
		ed.Anchors().Release(h.mark.ID())
	}
}

// Overlays renders the store as fake cursor overlays for the editor.
func (s *Store) Overlays() []editor.Overlay {
	out := make([]editor.Overlay, 0, len(s.cursors))
	for _, c := range s.Ordered() {
		ov := editor.Overlay{Cursor: c.Point()}
		if mark, active := c.Mark(); active {
			start, end := mark, c.Point()
			if end.Less(start) {
				start, end = end, start
			}
			ov.Region = &editor.OverlayRegion{Start: start, End: end}
		}
		out = append(out, ov)
	}
	return out
}
