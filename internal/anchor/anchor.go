// Package anchor maintains position-tracking ranges over a line/column
// buffer. Ranges keep their place while the text around them is edited,
// are addressable by stable integer ids, and can be listed in buffer
// order without consulting the buffer itself.
package anchor

import "sort"

// Point is a line/column position in the buffer.
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

// Edit describes one buffer mutation: the text between Start and OldEnd
// was replaced by text ending at NewEnd. A pure insertion has
// Start == OldEnd; a pure deletion has Start == NewEnd.
type Edit struct {
	Start  Point
	OldEnd Point
	NewEnd Point
}

// Range is an anchored span. A zero-width Range (Start == End) marks a
// cursor position. GrowsRight controls the insertion-growth policy:
// when text is inserted exactly at the range, the start boundary stays
// put and the end boundary advances past the insertion, so the marker
// remains in front of the typed text.
type Range struct {
	id         int
	Start      Point
	End        Point
	GrowsRight bool
}

// ID returns the stable identifier assigned at creation.
func (r *Range) ID() int { return r.id }

// Width returns the covered column span on a single row, 0 for
// zero-width cursor markers.
func (r *Range) Width() int {
	if r.Start.Row != r.End.Row {
		return -1
	}
	return r.End.Col - r.Start.Col
}

// Arena owns a set of ranges over one buffer.
type Arena struct {
	ranges map[int]*Range
	order  []int // creation order, the "discovery" sequence
	nextID int
}

func NewArena() *Arena {
	return &Arena{
		ranges: make(map[int]*Range),
		nextID: 1,
	}
}

// Create allocates a range with the next free id.
func (a *Arena) Create(start, end Point, growsRight bool) *Range {
	id := a.nextID
	a.nextID++
	return a.CreateWithID(id, start, end, growsRight)
}

// CreateWithID allocates a range reusing a caller-chosen id. Undo
// replay recreates released cursors under their original ids, so ids
// are never recycled automatically: the internal counter always stays
// above every id ever seen.
func (a *Arena) CreateWithID(id int, start, end Point, growsRight bool) *Range {
	if id >= a.nextID {
		a.nextID = id + 1
	}
	r := &Range{id: id, Start: start, End: end, GrowsRight: growsRight}
	a.ranges[id] = r
	a.order = append(a.order, id)
	return r
}

// Release removes a range. Releasing an unknown or already released
// id is a no-op.
func (a *Arena) Release(id int) {
	if _, ok := a.ranges[id]; !ok {
		return
	}
	delete(a.ranges, id)
	for i, oid := range a.order {
		if oid == id {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
}

// Get returns the range with the given id, or nil.
func (a *Arena) Get(id int) *Range {
	return a.ranges[id]
}

// Len returns the number of live ranges.
func (a *Arena) Len() int { return len(a.ranges) }

// All returns live ranges in discovery (creation) order. Callers that
// need buffer order must use Ordered; the two sequences are not
// interchangeable.
func (a *Arena) All() []*Range {
	out := make([]*Range, 0, len(a.order))
	for _, id := range a.order {
		if r, ok := a.ranges[id]; ok {
			out = append(out, r)
		}
	}
	return out
}

// Ordered returns live ranges sorted ascending by start position,
// ties broken by id.
func (a *Arena) Ordered() []*Range {
	out := a.All()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start.Less(out[j].Start)
		}
		return out[i].id < out[j].id
	})
	return out
}

// Apply shifts every range to account for one buffer edit.
func (a *Arena) Apply(e Edit) {
	for _, r := range a.ranges {
		r.Start = adjust(r.Start, e, false)
		r.End = adjust(r.End, e, r.GrowsRight)
		if r.End.Less(r.Start) {
			r.End = r.Start
		}
	}
}

// adjust relocates one boundary point across an edit. biasRight makes
// a boundary sitting exactly at the insertion point advance past the
// inserted text.
func adjust(p Point, e Edit, biasRight bool) Point {
	if p.Less(e.Start) {
		return p
	}
	if p == e.Start {
		if e.Start == e.OldEnd && biasRight {
			return e.NewEnd // insertion at the boundary
		}
		return p
	}
	if p.Less(e.OldEnd) {
		// Inside the replaced region: collapse to its start.
		return e.Start
	}
	// At or beyond the old end: translate by the edit's net effect.
	if p.Row == e.OldEnd.Row {
		return Point{Row: e.NewEnd.Row, Col: e.NewEnd.Col + (p.Col - e.OldEnd.Col)}
	}
	return Point{Row: p.Row + (e.NewEnd.Row - e.OldEnd.Row), Col: p.Col}
}
