package multicursor

import (
	"fmt"

	"github.com/kobzarvs/multicur/internal/editor"
	"github.com/kobzarvs/multicur/internal/logger"
)

// StepResult reports the outcome of one cursor's replication step.
type StepResult struct {
	ID  int
	Err error
}

// Executor replays a command at every fake cursor. The editor is
// temporarily turned into each cursor in buffer order; the real
// actor's state is parked in anchors for the duration so the pass's
// edits relocate it like everything else.
type Executor struct {
	ed    *editor.Editor
	store *Store
	coord *UndoCoordinator
	cache *cachingReader
}

func NewExecutor(ed *editor.Editor, store *Store, coord *UndoCoordinator) *Executor {
	return &Executor{ed: ed, store: store, coord: coord}
}

// ReplicateForAll runs one command body at every fake cursor, ascending
// buffer order. A failing step is reported in its StepResult and the
// pass continues; one cursor's error never strands the rest. Returns
// one result per cursor attempted.
func (x *Executor) ReplicateForAll(run func(*editor.Editor) error) []StepResult {
	if x.store.Len() == 0 {
		return nil
	}
	held := x.store.Hold()
	defer held.Restore()

	// The session may have interposed the cache before the real actor
	// ran; only interpose here if nobody has yet.
	if x.cache == nil || !x.cache.installed {
		x.beginInputReplay()
		defer x.endInputReplay()
	}

	ids := make([]int, 0, x.store.Len())
	for _, c := range x.store.Ordered() {
		ids = append(ids, c.ID)
	}

	results := make([]StepResult, 0, len(ids))
	for _, id := range ids {
		x.cache.rewind()
		err := x.coord.WrapStep(id, func() error {
			return x.runAt(id, run)
		})
		if err != nil {
			logger.Warn("replication step failed", "cursor", id, "err", err)
		}
		results = append(results, StepResult{ID: id, Err: err})
	}
	return results
}

// runAt impersonates one cursor around the command body and captures
// the resulting position and state back into the store under the same
// id.
func (x *Executor) runAt(id int, run func(*editor.Editor) error) (err error) {
	if demoteErr := x.store.Demote(id); demoteErr != nil {
		return demoteErr
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("cursor %d: panic: %v", id, r)
		}
		if _, createErr := x.store.Recreate(id); createErr != nil && err == nil {
			err = createErr
		}
	}()
	return run(x.ed)
}

// ForEachCursorOrdered visits the real actor and every fake cursor in
// ascending buffer order, impersonating each in turn. The real actor
// participates as a temporary anchored entry so the traversal is
// uniform. Traversal continues past per-cursor errors.
func (x *Executor) ForEachCursorOrdered(fn func(*editor.Editor) error) []StepResult {
	real, err := x.store.Add(x.ed.Point())
	if err != nil {
		return []StepResult{{ID: 0, Err: err}}
	}
	realID := real.ID

	results := make([]StepResult, 0, x.store.Len())
	for _, c := range x.store.Ordered() {
		id := c.ID
		err := x.runAt(id, fn)
		results = append(results, StepResult{ID: id, Err: err})
	}

	// The real actor resumes from its visited entry.
	if err := x.store.Demote(realID); err != nil {
		logger.Warn("restoring real actor failed", "cursor", realID, "err", err)
		results = append(results, StepResult{ID: realID, Err: err})
	}
	return results
}

// beginInputReplay interposes a caching reader so an interactive read
// answered during the real actor's run, or during the first cursor's,
// is replayed to every later cursor instead of prompting again.
func (x *Executor) beginInputReplay() {
	if x.cache == nil {
		x.cache = &cachingReader{}
	}
	x.cache.inner = x.ed.SetCharReader(x.cache)
}

func (x *Executor) endInputReplay() {
	x.ed.SetCharReader(x.cache.inner)
	x.cache.inner = nil
	x.cache.reset()
}

// InstallCache interposes the caching reader early, before the real
// actor runs, so its interactive reads are recorded. Safe to call when
// already installed.
func (x *Executor) InstallCache() {
	if x.cache != nil && x.cache.installed {
		return
	}
	x.beginInputReplay()
	x.cache.installed = true
}

// ReadCharUncached prompts through the underlying reader, bypassing
// the replay cache so the answer is not fed back to cursors.
func (x *Executor) ReadCharUncached(prompt string) (rune, error) {
	if x.cache != nil && x.cache.installed {
		prev := x.ed.SetCharReader(x.cache.inner)
		defer x.ed.SetCharReader(prev)
	}
	return x.ed.ReadChar(prompt)
}

// RemoveCache undoes InstallCache and clears recorded input.
func (x *Executor) RemoveCache() {
	if x.cache == nil || !x.cache.installed {
		return
	}
	x.cache.installed = false
	x.endInputReplay()
}

// cachingReader records characters read through it and can replay them
// from the start. One instance lives for one replication pass.
type cachingReader struct {
	inner     editor.CharReader
	buf       []rune
	pos       int
	installed bool
}

func (r *cachingReader) ReadChar() (rune, error) {
	if r.pos < len(r.buf) {
		ch := r.buf[r.pos]
		r.pos++
		return ch, nil
	}
	if r.inner == nil {
		return 0, fmt.Errorf("no input source")
	}
	ch, err := r.inner.ReadChar()
	if err != nil {
		return 0, err
	}
	r.buf = append(r.buf, ch)
	r.pos++
	return ch, nil
}

func (r *cachingReader) rewind() { r.pos = 0 }

func (r *cachingReader) reset() {
	r.buf = nil
	r.pos = 0
}
