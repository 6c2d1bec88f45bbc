package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/turnip-editor/turnip/internal/errors"
)

// MaxRecentGroups caps the recent-groups history.
const MaxRecentGroups = 10

// StateFileName is the JSON file holding mutable workspace state. It lives
// next to the auto-session file, not in the viper config, because it is
// written by the program rather than edited by the user.
const StateFileName = "state.json"

// State is the workspace state that survives between runs.
type State struct {
	RecentGroups []string `json:"recent_groups,omitempty"`
	LastFolder   string   `json:"last_folder,omitempty"`
	AutoSession  bool     `json:"auto_session"`
}

// DefaultState returns the state used on first run.
func DefaultState() *State {
	return &State{AutoSession: true}
}

// AddRecentGroup records path as the most recently used group, deduplicating
// and trimming the history to MaxRecentGroups.
func (s *State) AddRecentGroup(path string) {
	out := make([]string, 0, len(s.RecentGroups)+1)
	out = append(out, path)
	for _, p := range s.RecentGroups {
		if p != path {
			out = append(out, p)
		}
	}
	if len(out) > MaxRecentGroups {
		out = out[:MaxRecentGroups]
	}
	s.RecentGroups = out
}

// PruneRecentGroups drops history entries whose files no longer exist.
func (s *State) PruneRecentGroups() {
	out := s.RecentGroups[:0]
	for _, p := range s.RecentGroups {
		if _, err := os.Stat(p); err == nil {
			out = append(out, p)
		}
	}
	s.RecentGroups = out
}

// StateStore reads and writes the state file. Safe for concurrent use.
type StateStore struct {
	path string
	mu   sync.Mutex
}

// NewStateStore creates a store for the state file under dir. The directory
// is created if it does not exist.
func NewStateStore(dir string) (*StateStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.Wrap(err, "failed to create state directory")
	}
	return &StateStore{path: filepath.Join(dir, StateFileName)}, nil
}

// Load reads the state file, returning defaults when it does not exist.
// A corrupt state file is replaced by defaults rather than aborting startup.
func (ss *StateStore) Load() (*State, error) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	data, err := os.ReadFile(ss.path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultState(), nil
		}
		return nil, errors.Wrap(err, "failed to read state file")
	}

	state := DefaultState()
	if err := json.Unmarshal(data, state); err != nil {
		return DefaultState(), nil
	}
	return state, nil
}

// Save persists the state atomically.
func (ss *StateStore) Save(state *State) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal state")
	}
	return atomicWriteFile(ss.path, append(data, '\n'), 0644)
}

// atomicWriteFile writes data to a file atomically by writing to a temporary
// file first, then renaming. This ensures the target file is never in a
// partially-written state.
func atomicWriteFile(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	tmpFile, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create temp file")
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to write temp file")
	}

	if err := tmpFile.Sync(); err != nil {
		tmpFile.Close()
		return errors.Wrap(err, "failed to sync temp file")
	}

	if err := tmpFile.Close(); err != nil {
		return errors.Wrap(err, "failed to close temp file")
	}

	if err := os.Chmod(tmpPath, perm); err != nil {
		return errors.Wrap(err, "failed to set permissions")
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Wrap(err, "failed to rename temp file")
	}

	success = true
	return nil
}
