// Package session persists where the user was between runs: point,
// scroll and mark per file, plus the last active file.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the remembered position inside one file.
type FileState struct {
	PointRow  int  `json:"point_row"`
	PointCol  int  `json:"point_col"`
	ScrollRow int  `json:"scroll_row"`
	ScrollCol int  `json:"scroll_col"`
	MarkSet   bool `json:"mark_set,omitempty"`
	MarkRow   int  `json:"mark_row,omitempty"`
	MarkCol   int  `json:"mark_col,omitempty"`
}

type state struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
	LastSaved  time.Time            `json:"last_saved"`
}

// Manager loads and saves the session file, flushing dirty state in
// the background.
type Manager struct {
	mu    sync.RWMutex
	state state
	path  string
	dirty bool
	stop  chan struct{}
}

func NewManager() (*Manager, error) {
	path, err := statePath()
	if err != nil {
		return nil, err
	}
	m := &Manager{
		state: state{Files: make(map[string]FileState)},
		path:  path,
		stop:  make(chan struct{}),
	}
	m.load()
	go m.flushLoop()
	return m, nil
}

func statePath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	dir = filepath.Join(dir, "multicur")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "session.json"), nil
}

// load reads the previous session; a missing or corrupt file starts
// fresh.
func (m *Manager) load() {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return
	}
	var s state
	if err := json.Unmarshal(data, &s); err != nil {
		return
	}
	if s.Files == nil {
		s.Files = make(map[string]FileState)
	}
	m.state = s
}

// Save writes the session out if anything changed.
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.dirty {
		return nil
	}
	m.state.LastSaved = time.Now()
	data, err := json.MarshalIndent(m.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(m.path, data, 0o644); err != nil {
		return err
	}
	m.dirty = false
	return nil
}

// FileState returns the remembered position for a file.
func (m *Manager) FileState(absPath string) (FileState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.state.Files[absPath]
	return s, ok
}

// SetFileState remembers a file's position and makes it the active
// file.
func (m *Manager) SetFileState(absPath string, s FileState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Files[absPath] = s
	m.state.ActiveFile = absPath
	m.dirty = true
}

// ActiveFile returns the file the user had open last.
func (m *Manager) ActiveFile() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.ActiveFile
}

func (m *Manager) flushLoop() {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			_ = m.Save()
		case <-m.stop:
			return
		}
	}
}

// Stop ends the background flush and writes the final state.
func (m *Manager) Stop() {
	close(m.stop)
	m.mu.Lock()
	m.dirty = true
	m.mu.Unlock()
	_ = m.Save()
}
