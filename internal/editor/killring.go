package editor

// KillRing holds killed text newest first, with a rotating yank cursor
// for yank-pop. Consecutive kills can append to the head so a run of
// kill-line commands yanks back as one block.
type KillRing struct {
	entries []string
	max     int
	yankIdx int
}

func NewKillRing(max int) *KillRing {
	if max <= 0 {
		max = 60
	}
	return &KillRing{max: max}
}

// Push adds text as the new head and resets the yank cursor.
func (k *KillRing) Push(text string) {
	if text == "" {
		return
	}
	k.entries = append([]string{text}, k.entries...)
	if len(k.entries) > k.max {
		k.entries = k.entries[:k.max]
	}
	k.yankIdx = 0
}

// AppendToHead extends the newest entry in place, creating it if the
// ring is empty.
func (k *KillRing) AppendToHead(text string) {
	if text == "" {
		return
	}
	if len(k.entries) == 0 {
		k.Push(text)
		return
	}
	k.entries[0] += text
	k.yankIdx = 0
}

// Head returns the newest entry.
func (k *KillRing) Head() (string, bool) {
	if len(k.entries) == 0 {
		return "", false
	}
	return k.entries[0], true
}

// Current returns the entry under the yank cursor.
func (k *KillRing) Current() (string, bool) {
	if len(k.entries) == 0 {
		return "", false
	}
	return k.entries[k.yankIdx], true
}

// Rotate advances the yank cursor and returns the next older entry,
// wrapping around.
func (k *KillRing) Rotate() (string, bool) {
	if len(k.entries) == 0 {
		return "", false
	}
	k.yankIdx = (k.yankIdx + 1) % len(k.entries)
	return k.entries[k.yankIdx], true
}

func (k *KillRing) Len() int { return len(k.entries) }

// YankIndex returns the yank cursor position, 0 meaning the head.
func (k *KillRing) YankIndex() int { return k.yankIdx }

// SetYankIndex repositions the yank cursor, clamping into the ring.
func (k *KillRing) SetYankIndex(i int) {
	if i < 0 || i >= len(k.entries) {
		i = 0
	}
	k.yankIdx = i
}

// Entries returns a copy of the ring contents newest first.
func (k *KillRing) Entries() []string {
	out := make([]string, len(k.entries))
	copy(out, k.entries)
	return out
}

// Restore replaces the ring contents, newest first, and resets the
// yank cursor. Cursor replication swaps per-cursor ring state through
// this.
func (k *KillRing) Restore(entries []string) {
	k.entries = make([]string, 0, len(entries))
	for _, s := range entries {
		if s != "" {
			k.entries = append(k.entries, s)
		}
	}
	if len(k.entries) > k.max {
		k.entries = k.entries[:k.max]
	}
	k.yankIdx = 0
}
