// Package session remembers per-file view state between runs: the caret and
// whatever the editor returns from SaveState.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileState is the view state of one file.
type FileState struct {
	Line  int            `json:"line"`
	Col   int            `json:"col"`
	View  map[string]int `json:"view,omitempty"`
	Saved time.Time      `json:"saved"`
}

type state struct {
	Files      map[string]FileState `json:"files"`
	ActiveFile string               `json:"active_file,omitempty"`
}

// Store holds the session in memory and writes it back on Save.
type Store struct {
	mu    sync.RWMutex
	path  string
	state state
	dirty bool
}

// DefaultPath is $XDG_STATE_HOME/nedit/session.json, falling back to
// ~/.local/state.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "nedit", "session.json"), nil
}

// Open loads the session at path. A missing file gives an empty session; a
// corrupt one is reported but still yields a usable empty store.
func Open(path string) (*Store, error) {
	s := &Store{path: path, state: state{Files: map[string]FileState{}}}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return s, err
	}
	var st state
	if err := json.Unmarshal(data, &st); err != nil {
		return s, fmt.Errorf("session %s: %w", path, err)
	}
	if st.Files == nil {
		st.Files = map[string]FileState{}
	}
	s.state = st
	return s, nil
}

func key(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func (s *Store) Lookup(path string) (FileState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fs, ok := s.state.Files[key(path)]
	return fs, ok
}

// Remember records fs for path and makes it the active file.
func (s *Store) Remember(path string, fs FileState) {
	if path == "" {
		return
	}
	fs.Saved = time.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key(path)
	s.state.Files[k] = fs
	s.state.ActiveFile = k
	s.dirty = true
}

func (s *Store) ActiveFile() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.ActiveFile
}

// Save writes the session if anything changed since the last save.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.dirty {
		return nil
	}
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return err
	}
	s.dirty = false
	return nil
}
