package multicursor

import (
	"errors"
	"testing"
)

func TestDefaultsPreClassified(t *testing.T) {
	c := NewClassifier()
	if d, ok := c.Lookup("self-insert-command"); !ok || d != RunForAll {
		t.Fatalf("self-insert-command = %v, %v, want RunForAll", d, ok)
	}
	if d, ok := c.Lookup("undo"); !ok || d != RunOnce {
		t.Fatalf("undo = %v, %v, want RunOnce", d, ok)
	}
	if d, ok := c.Lookup("revert-buffer"); !ok || d != Unsupported {
		t.Fatalf("revert-buffer = %v, %v, want Unsupported", d, ok)
	}
}

func TestAnonymousReplicatesOptimistically(t *testing.T) {
	c := NewClassifier()
	if d, ok := c.Lookup(""); !ok || d != RunForAll {
		t.Fatalf("anonymous = %v, %v, want RunForAll", d, ok)
	}
}

func TestDecidePromptsOnceAndLearns(t *testing.T) {
	c := NewClassifier()
	prompts := 0
	ask := func(string) (rune, error) { prompts++; return 'y', nil }

	d, err := c.Decide("my-ext-command", ask)
	if err != nil || d != RunForAll {
		t.Fatalf("Decide() = %v, %v, want RunForAll", d, err)
	}
	d, err = c.Decide("my-ext-command", ask)
	if err != nil || d != RunForAll {
		t.Fatalf("second Decide() = %v, %v", d, err)
	}
	if prompts != 1 {
		t.Fatalf("prompts = %d, want 1", prompts)
	}
}

func TestDecideNoMeansRunOnce(t *testing.T) {
	c := NewClassifier()
	d, err := c.Decide("noisy-command", func(string) (rune, error) { return 'n', nil })
	if err != nil || d != RunOnce {
		t.Fatalf("Decide() = %v, %v, want RunOnce", d, err)
	}
	if d, ok := c.Lookup("noisy-command"); !ok || d != RunOnce {
		t.Fatalf("Lookup() = %v, %v after learning", d, ok)
	}
}

func TestDecideRetriesOnGarbageAnswer(t *testing.T) {
	c := NewClassifier()
	answers := []rune{'x', '?', 'y'}
	i := 0
	d, err := c.Decide("fussy", func(string) (rune, error) {
		ch := answers[i]
		i++
		return ch, nil
	})
	if err != nil || d != RunForAll {
		t.Fatalf("Decide() = %v, %v, want RunForAll", d, err)
	}
	if i != 3 {
		t.Fatalf("reads = %d, want 3", i)
	}
}

func TestAbandonedPromptRunsOnceWithoutLearning(t *testing.T) {
	c := NewClassifier()
	bail := errors.New("aborted")
	d, err := c.Decide("mystery", func(string) (rune, error) { return 0, bail })
	if !errors.Is(err, ErrPromptAbandoned) {
		t.Fatalf("err = %v, want ErrPromptAbandoned", err)
	}
	if d != RunOnce {
		t.Fatalf("Decide() = %v, want RunOnce fallback", d)
	}
	if _, ok := c.Lookup("mystery"); ok {
		t.Fatal("abandoned prompt was persisted")
	}
	forAll, once := c.Learned()
	if len(forAll)+len(once) != 0 {
		t.Fatalf("Learned() = %v, %v, want empty", forAll, once)
	}
}

func TestOnLearnFiresPerDecision(t *testing.T) {
	c := NewClassifier()
	fired := 0
	c.OnLearn(func() { fired++ })

	c.Learn("tool", RunOnce)
	if fired != 1 {
		t.Fatalf("fired = %d after Learn, want 1", fired)
	}
	if _, err := c.Decide("other", func(string) (rune, error) { return 'y', nil }); err != nil {
		t.Fatalf("Decide() = %v", err)
	}
	if fired != 2 {
		t.Fatalf("fired = %d after Decide, want 2", fired)
	}
	// Looking a learned command back up does not re-fire the hook.
	if _, err := c.Decide("other", nil); err != nil {
		t.Fatalf("second Decide() = %v", err)
	}
	if fired != 2 {
		t.Fatalf("fired = %d after lookup, want 2", fired)
	}
}

func TestMergeKeepsExistingDecisions(t *testing.T) {
	c := NewClassifier()
	c.Learn("tool", RunOnce)
	c.Merge([]string{"tool", "other"}, nil)

	if d, _ := c.Lookup("tool"); d != RunOnce {
		t.Fatalf("tool = %v, want locally learned RunOnce", d)
	}
	if d, ok := c.Lookup("other"); !ok || d != RunForAll {
		t.Fatalf("other = %v, %v, want merged RunForAll", d, ok)
	}
}

func TestLearnedListsAreSorted(t *testing.T) {
	c := NewClassifier()
	c.Learn("zeta", RunForAll)
	c.Learn("alpha", RunForAll)
	c.Learn("mid", RunOnce)

	forAll, once := c.Learned()
	if len(forAll) != 2 || forAll[0] != "alpha" || forAll[1] != "zeta" {
		t.Fatalf("forAll = %v, want [alpha zeta]", forAll)
	}
	if len(once) != 1 || once[0] != "mid" {
		t.Fatalf("once = %v, want [mid]", once)
	}
}
