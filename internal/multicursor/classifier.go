package multicursor

import (
	"fmt"
	"sort"
	"sync"

	"github.com/kobzarvs/multicur/internal/logger"
)

// Decision is the replication class of one command.
type Decision int

const (
	// RunForAll replays the command at every fake cursor.
	RunForAll Decision = iota
	// RunOnce runs the command on the real actor only.
	RunOnce
	// Unsupported blocks the command entirely while cursors are active.
	Unsupported
)

// Classifier decides what to do with each command while cursors are
// active. Built-in commands come pre-classified; unknown commands are
// resolved by asking the user once and remembering the answer.
type Classifier struct {
	mu          sync.Mutex
	forAll      map[string]bool
	once        map[string]bool
	unsupported map[string]string
	learned     map[string]Decision
	onLearn     func()
}

func NewClassifier() *Classifier {
	c := &Classifier{
		forAll:      make(map[string]bool),
		once:        make(map[string]bool),
		unsupported: make(map[string]string),
		learned:     make(map[string]Decision),
	}
	for _, name := range defaultForAll {
		c.forAll[name] = true
	}
	for _, name := range defaultOnce {
		c.once[name] = true
	}
	for name, reason := range defaultUnsupported {
		c.unsupported[name] = reason
	}
	return c
}

var defaultForAll = []string{
	"self-insert-command",
	"newline",
	"forward-char", "backward-char", "next-line", "previous-line",
	"move-beginning-of-line", "move-end-of-line",
	"delete-backward-char", "delete-char",
	"kill-line", "kill-region", "copy-region-as-kill",
	"yank", "yank-pop",
	"set-mark", "exchange-point-and-mark",
	"zap-to-char",
	"keyboard-quit",
}

var defaultOnce = []string{
	"undo", "redo",
	"save-buffer",
	"yank-rectangle",
	"quit",
	"mc-add-cursor", "mc-edit-lines", "mc-confirm", "mc-keyboard-quit",
}

var defaultUnsupported = map[string]string{
	"revert-buffer": "discards cursor anchors and edit history",
}

// UnsupportedReason reports whether a command is blocked and why.
// Checked from the pre-command hook, before the real actor runs.
func (c *Classifier) UnsupportedReason(name string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	reason, ok := c.unsupported[name]
	return reason, ok
}

// Lookup returns the known class of a command without prompting.
// Anonymous commands (empty name) replicate optimistically: there is
// no identity to remember a decision under, and replaying the function
// is the useful default.
func (c *Classifier) Lookup(name string) (Decision, bool) {
	if name == "" {
		return RunForAll, true
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.unsupported[name]; ok {
		return Unsupported, true
	}
	if c.once[name] {
		return RunOnce, true
	}
	if c.forAll[name] {
		return RunForAll, true
	}
	if d, ok := c.learned[name]; ok {
		return d, true
	}
	return RunOnce, false
}

// Decide resolves a command's class, prompting through ask for unknown
// commands. ask returns 'y' to replicate at every cursor or 'n' to run
// once. An abandoned prompt means the command runs once this time and
// nothing is learned.
func (c *Classifier) Decide(name string, ask func(prompt string) (rune, error)) (Decision, error) {
	if d, ok := c.Lookup(name); ok {
		return d, nil
	}
	prompt := fmt.Sprintf("Run %q at all cursors? (y/n) ", name)
	for {
		ch, err := ask(prompt)
		if err != nil {
			logger.Debug("classification prompt abandoned", "command", name, "err", err)
			return RunOnce, fmt.Errorf("%w: %s", ErrPromptAbandoned, name)
		}
		switch ch {
		case 'y', 'Y':
			c.Learn(name, RunForAll)
			return RunForAll, nil
		case 'n', 'N':
			c.Learn(name, RunOnce)
			return RunOnce, nil
		}
	}
}

// OnLearn installs a hook fired after each newly recorded decision.
// Runs outside the classifier's lock so the hook may read it back.
func (c *Classifier) OnLearn(fn func()) { c.onLearn = fn }

// Learn records a decision for an unknown command.
func (c *Classifier) Learn(name string, d Decision) {
	if name == "" {
		return
	}
	c.mu.Lock()
	c.learned[name] = d
	c.mu.Unlock()
	logger.Info("command classified", "command", name, "run_for_all", d == RunForAll)
	if c.onLearn != nil {
		c.onLearn()
	}
}

// Learned returns the learned decisions split into sorted lists for
// persistence. Defaults are not included; only what the user taught.
func (c *Classifier) Learned() (forAll, once []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, d := range c.learned {
		if d == RunForAll {
			forAll = append(forAll, name)
		} else {
			once = append(once, name)
		}
	}
	sort.Strings(forAll)
	sort.Strings(once)
	return forAll, once
}

// Merge folds externally learned decisions in. Existing learned
// entries win so an in-flight session is not flipped under the user.
func (c *Classifier) Merge(forAll, once []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range forAll {
		if _, ok := c.learned[name]; !ok {
			c.learned[name] = RunForAll
		}
	}
	for _, name := range once {
		if _, ok := c.learned[name]; !ok {
			c.learned[name] = RunOnce
		}
	}
}
