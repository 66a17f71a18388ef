package session

import (
	"testing"
)

func newManager(t *testing.T) *Manager {
	t.Helper()
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	t.Cleanup(m.Stop)
	return m
}

func TestFileStateRoundTrip(t *testing.T) {
	stateHome := t.TempDir()
	t.Setenv("XDG_STATE_HOME", stateHome)

	m, err := NewManager()
	if err != nil {
		t.Fatalf("NewManager() = %v", err)
	}
	m.SetFileState("/tmp/a.go", FileState{
		PointRow: 4, PointCol: 7,
		ScrollRow: 2,
		MarkSet:   true, MarkRow: 1, MarkCol: 3,
	})
	m.Stop()

	m2, err := NewManager()
	if err != nil {
		t.Fatalf("second NewManager() = %v", err)
	}
	defer m2.Stop()

	s, ok := m2.FileState("/tmp/a.go")
	if !ok {
		t.Fatal("file state not persisted")
	}
	if s.PointRow != 4 || s.PointCol != 7 || s.ScrollRow != 2 {
		t.Fatalf("state = %+v", s)
	}
	if !s.MarkSet || s.MarkRow != 1 || s.MarkCol != 3 {
		t.Fatalf("mark = %+v", s)
	}
	if m2.ActiveFile() != "/tmp/a.go" {
		t.Fatalf("ActiveFile() = %q", m2.ActiveFile())
	}
}

func TestUnknownFileHasNoState(t *testing.T) {
	m := newManager(t)
	if _, ok := m.FileState("/nowhere"); ok {
		t.Fatal("state for file never seen")
	}
}

func TestSaveWithoutChangesWritesNothing(t *testing.T) {
	m := newManager(t)
	if err := m.Save(); err != nil {
		t.Fatalf("Save() = %v", err)
	}
}
