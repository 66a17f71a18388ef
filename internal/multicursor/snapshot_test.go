package multicursor

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/kobzarvs/multicur/internal/config"
	"github.com/kobzarvs/multicur/internal/editor"
)

func newSnapshotEditor(t *testing.T) *editor.Editor {
	t.Helper()
	cfg := config.Default()
	ed := editor.New(&cfg)
	ed.SetText("snapshot me")
	return ed
}

func TestSnapshotCarriesRingCursorAndPasteHook(t *testing.T) {
	ed := newSnapshotEditor(t)
	ed.KillRing().Push("old")
	ed.KillRing().Push("new")
	ed.KillRing().Rotate()
	fired := false
	ed.SetPasteHook(func() { fired = true })

	snap := capture(ed)

	ed.KillRing().Push("other")
	ed.SetPasteHook(nil)

	snap.restore(ed)
	if cur, _ := ed.KillRing().Current(); cur != "old" {
		t.Fatalf("Current() = %q, want yank cursor restored to %q", cur, "old")
	}
	if ed.PasteHook() == nil {
		t.Fatal("paste hook not restored")
	}
	ed.PasteHook()()
	if !fired {
		t.Fatal("restored hook is not the captured one")
	}
}

func TestSnapshotTracksRegisteredVars(t *testing.T) {
	TrackVar("snapshot-test-var")
	ed := newSnapshotEditor(t)
	ed.SetVar("snapshot-test-var", 7)
	ed.SetVar("untracked", "x")

	snap := capture(ed)
	ed.SetVar("snapshot-test-var", 99)
	ed.DeleteVar("untracked")

	snap.restore(ed)
	if v, _ := ed.Var("snapshot-test-var"); v != 7 {
		t.Fatalf("tracked var = %v, want 7", v)
	}
	if _, ok := ed.Var("untracked"); ok {
		t.Fatal("untracked var resurrected by restore")
	}
}

func TestSnapshotRoundTripsKillRing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		ed := newSnapshotEditor(t)
		entries := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 10).Draw(rt, "entries")
		for _, e := range entries {
			ed.KillRing().Push(e)
		}
		snap := capture(ed)

		churn := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,8}`), 0, 5).Draw(rt, "churn")
		for _, e := range churn {
			ed.KillRing().Push(e)
		}

		snap.restore(ed)
		got := ed.KillRing().Entries()
		if len(got) != len(entries) {
			rt.Fatalf("ring len = %d, want %d", len(got), len(entries))
		}
		for i := range entries {
			// Push prepends, so Entries is newest first.
			want := entries[len(entries)-1-i]
			if got[i] != want {
				rt.Fatalf("Entries()[%d] = %q, want %q", i, got[i], want)
			}
		}
	})
}
