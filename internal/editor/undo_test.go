package editor

import "testing"

func TestUndoRedoSingleEdit(t *testing.T) {
	e := newEditor(t, "abc")
	e.InsertTextAt(Point{0, 3}, "def")
	if !e.Undo() {
		t.Fatal("Undo() = false")
	}
	if e.Text() != "abc" {
		t.Fatalf("after undo: %q, want %q", e.Text(), "abc")
	}
	if !e.Redo() {
		t.Fatal("Redo() = false")
	}
	if e.Text() != "abcdef" {
		t.Fatalf("after redo: %q, want %q", e.Text(), "abcdef")
	}
}

func TestUndoGroupRevertsAllEdits(t *testing.T) {
	e := newEditor(t, "aaa\nbbb\nccc")
	e.BeginUndoGroup()
	e.InsertTextAt(Point{0, 0}, "X")
	e.InsertTextAt(Point{1, 0}, "X")
	e.InsertTextAt(Point{2, 0}, "X")
	e.EndUndoGroup()

	if e.Text() != "Xaaa\nXbbb\nXccc" {
		t.Fatalf("Text() = %q", e.Text())
	}
	e.Undo()
	if e.Text() != "aaa\nbbb\nccc" {
		t.Fatalf("after undo: %q, want all three edits reverted", e.Text())
	}
	e.Redo()
	if e.Text() != "Xaaa\nXbbb\nXccc" {
		t.Fatalf("after redo: %q", e.Text())
	}
}

func TestNestedGroupsShareOneStep(t *testing.T) {
	e := newEditor(t, "ab")
	e.BeginUndoGroup()
	e.InsertTextAt(Point{0, 0}, "1")
	e.BeginUndoGroup()
	e.InsertTextAt(Point{0, 1}, "2")
	e.EndUndoGroup()
	e.EndUndoGroup()

	e.Undo()
	if e.Text() != "ab" {
		t.Fatalf("after undo: %q, want %q", e.Text(), "ab")
	}
}

func TestSeparateEditsUndoSeparately(t *testing.T) {
	e := newEditor(t, "")
	e.InsertTextAt(Point{0, 0}, "a")
	e.InsertTextAt(Point{0, 1}, "b")
	e.Undo()
	if e.Text() != "a" {
		t.Fatalf("after first undo: %q, want %q", e.Text(), "a")
	}
	e.Undo()
	if e.Text() != "" {
		t.Fatalf("after second undo: %q, want empty", e.Text())
	}
}

func TestFreshEditClearsRedo(t *testing.T) {
	e := newEditor(t, "")
	e.InsertTextAt(Point{0, 0}, "a")
	e.Undo()
	e.InsertTextAt(Point{0, 0}, "b")
	if e.CanRedo() {
		t.Fatal("redo stack should be empty after a fresh edit")
	}
}

func TestMarkerCallbacksFireInWalkOrder(t *testing.T) {
	e := newEditor(t, "")
	var trace []string

	e.BeginUndoGroup()
	e.PushMarker(
		func() { trace = append(trace, "pre-undo") },
		func() { trace = append(trace, "pre-redo") },
	)
	e.InsertTextAt(Point{0, 0}, "x")
	e.PushMarker(
		func() { trace = append(trace, "post-undo") },
		func() { trace = append(trace, "post-redo") },
	)
	e.EndUndoGroup()

	e.Undo()
	if len(trace) != 2 || trace[0] != "post-undo" || trace[1] != "pre-undo" {
		t.Fatalf("undo trace = %v, want [post-undo pre-undo]", trace)
	}
	if e.Text() != "" {
		t.Fatalf("after undo: %q, want empty", e.Text())
	}

	trace = nil
	e.Redo()
	if len(trace) != 2 || trace[0] != "pre-redo" || trace[1] != "post-redo" {
		t.Fatalf("redo trace = %v, want [pre-redo post-redo]", trace)
	}
	if e.Text() != "x" {
		t.Fatalf("after redo: %q, want %q", e.Text(), "x")
	}
}

func TestPopMarkerIfTopStripsEmptySpan(t *testing.T) {
	e := newEditor(t, "seed")
	e.InsertTextAt(Point{0, 4}, "!")

	e.BeginUndoGroup()
	e.PushMarker(func() {}, func() {})
	// no edits happened between the markers
	if !e.PopMarkerIfTop() {
		t.Fatal("PopMarkerIfTop() = false, want true")
	}
	e.EndUndoGroup()

	e.Undo()
	if e.Text() != "seed" {
		t.Fatalf("after undo: %q, want %q", e.Text(), "seed")
	}
}

func TestPopMarkerIfTopRefusesAfterEdit(t *testing.T) {
	e := newEditor(t, "")
	e.BeginUndoGroup()
	e.PushMarker(func() {}, func() {})
	e.InsertTextAt(Point{0, 0}, "x")
	if e.PopMarkerIfTop() {
		t.Fatal("PopMarkerIfTop() = true after an edit")
	}
	e.EndUndoGroup()
}

func TestUndoRestoresPoint(t *testing.T) {
	e := newEditor(t, "hello")
	e.SetPoint(Point{0, 5})
	e.InsertTextAt(e.Point(), " world")
	e.SetPoint(Point{0, 0})
	e.Undo()
	if e.Point() != (Point{0, 5}) {
		t.Fatalf("Point() = %v, want {0 5}", e.Point())
	}
}

func TestUndoCommandFormsOwnStep(t *testing.T) {
	e := newEditor(t, "")
	e.SetInputChar('a')
	mustRun(t, e, "self-insert-command")
	e.SetInputChar('b')
	mustRun(t, e, "self-insert-command")
	mustRun(t, e, "undo")
	if e.Text() != "a" {
		t.Fatalf("after undo command: %q, want %q", e.Text(), "a")
	}
	mustRun(t, e, "redo")
	if e.Text() != "ab" {
		t.Fatalf("after redo command: %q, want %q", e.Text(), "ab")
	}
}
