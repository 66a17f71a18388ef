package multicursor

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"

	"github.com/kobzarvs/multicur/internal/logger"
)

// decisionsFile is the on-disk shape of learned command decisions.
// Lists are kept alphabetically sorted so the file diffs cleanly.
type decisionsFile struct {
	RunForAll []string `toml:"run-for-all"`
	RunOnce   []string `toml:"run-once"`
}

// DecisionStore persists learned classifications to a TOML file and
// can watch it for edits made by other editor instances.
type DecisionStore struct {
	path    string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

func NewDecisionStore(path string) *DecisionStore {
	return &DecisionStore{path: path}
}

// Load reads the file into the classifier. A missing file is fine.
func (d *DecisionStore) Load(c *Classifier) error {
	var f decisionsFile
	if _, err := toml.DecodeFile(d.path, &f); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("load decisions %s: %w", d.path, err)
	}
	c.Merge(f.RunForAll, f.RunOnce)
	logger.Debug("decisions loaded",
		"path", d.path, "for_all", len(f.RunForAll), "once", len(f.RunOnce))
	return nil
}

// Save writes the classifier's learned decisions out.
func (d *DecisionStore) Save(c *Classifier) error {
	forAll, once := c.Learned()
	if len(forAll) == 0 && len(once) == 0 {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o755); err != nil {
		return fmt.Errorf("save decisions: %w", err)
	}
	f, err := os.Create(d.path)
	if err != nil {
		return fmt.Errorf("save decisions: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(decisionsFile{RunForAll: forAll, RunOnce: once}); err != nil {
		return fmt.Errorf("save decisions: %w", err)
	}
	return nil
}

// Watch reloads the file into the classifier whenever another process
// rewrites it. Stop with Close.
func (d *DecisionStore) Watch(c *Classifier) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch decisions: %w", err)
	}
	// Watch the directory: editors typically replace the file, which
	// drops a watch set on the file itself.
	if err := w.Add(filepath.Dir(d.path)); err != nil {
		w.Close()
		return fmt.Errorf("watch decisions: %w", err)
	}
	d.watcher = w
	d.done = make(chan struct{})

	go func() {
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if ev.Name != d.path {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
					continue
				}
				if err := d.Load(c); err != nil {
					logger.Warn("decisions reload failed", "err", err)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("decisions watcher error", "err", err)
			case <-d.done:
				return
			}
		}
	}()
	return nil
}

// Close stops the watcher if one is running.
func (d *DecisionStore) Close() {
	if d.watcher != nil {
		close(d.done)
		d.watcher.Close()
		d.watcher = nil
	}
}
