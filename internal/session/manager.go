package session

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/turnip-editor/turnip/internal/errors"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/tabs"
)

// AutoSessionFileName is the tab group written on exit and restored on the
// next start when no explicit group file is given.
const AutoSessionFileName = "session.tabs"

// Manager owns the relationship between the in-memory tab store and the
// .tabs file it was loaded from. It tracks a baseline of the last
// loaded or saved state so "has the group changed" is answered by
// comparison, not by counting mutations.
type Manager struct {
	store *tabs.Store
	bus   *event.Bus

	file     string // current .tabs file, empty for an unnamed group
	name     string // group name, empty when unnamed
	baseline []byte // encoded snapshot at last load/save
}

// NewManager creates a manager for the given store. The bus may be nil.
func NewManager(store *tabs.Store, bus *event.Bus) *Manager {
	return &Manager{store: store, bus: bus}
}

// File returns the path of the current group file, or empty when the group
// has never been saved.
func (m *Manager) File() string { return m.file }

// Name returns the current group name, or empty when unnamed.
func (m *Manager) Name() string { return m.name }

// LoadGroup reads and decodes path, then replaces the store contents with
// the decoded group. The decoded selection survives the pinned-first
// reordering that happens on insert because it is resolved to a record
// before insertion begins.
func (m *Manager) LoadGroup(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewSessionError("cannot open tab group", errors.ErrSessionNotFound).WithFile(path)
		}
		return errors.NewSessionError("cannot read tab group", err).WithFile(path)
	}

	doc, err := Decode(data)
	if err != nil {
		if sessErr, ok := err.(*errors.SessionError); ok {
			return sessErr.WithFile(path)
		}
		return err
	}

	m.Restore(doc)
	m.file = path
	m.name = doc.Name
	m.rebaseline()

	if m.bus != nil {
		m.bus.Publish(event.NewSessionLoadedEvent(path, doc.Name, len(doc.Tabs)))
	}
	return nil
}

// Restore replaces the store contents with the document's entries. Records
// are inserted in document order, so pinned entries gather at the front
// while keeping their relative order.
func (m *Manager) Restore(doc *Document) {
	for m.store.Len() > 0 {
		_ = m.store.Remove(m.store.At(0))
	}

	var active *tabs.Record
	for i, t := range doc.Tabs {
		rec := &tabs.Record{
			Path:        t.Path,
			Pinned:      t.Pinned,
			Icon:        t.Icon,
			Emoji:       t.Emoji,
			DisplayName: t.DisplayName,
		}
		if _, err := m.store.Insert(rec); err != nil {
			continue // duplicate path entries in a hand-edited file
		}
		if i == doc.Current {
			active = rec
		}
	}
	if active != nil {
		_ = m.store.Activate(active)
	}
}

// SaveGroup encodes the current store state and writes it to path
// atomically, making path the current group file.
func (m *Manager) SaveGroup(path, name string) error {
	if err := m.writeGroup(path, name); err != nil {
		return err
	}
	m.file = path
	m.name = name
	m.rebaseline()

	if m.bus != nil {
		m.bus.Publish(event.NewSessionSavedEvent(path, m.store.Len()))
	}
	return nil
}

// SaveCurrent re-saves the group to its current file.
func (m *Manager) SaveCurrent() error {
	if m.file == "" {
		return errors.NewSessionError("group has no file yet", nil).
			WithSeverity(errors.SeverityWarning)
	}
	return m.SaveGroup(m.file, m.name)
}

// AutoSave writes the current group to the auto-session file in dir without
// touching the current group file or the baseline.
func (m *Manager) AutoSave(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.NewSessionError("cannot create session directory", err)
	}
	return m.writeGroup(filepath.Join(dir, AutoSessionFileName), m.name)
}

// RestoreAutoSession loads the auto-session file from dir if one exists.
// A missing file is not an error; the editor simply starts empty.
func (m *Manager) RestoreAutoSession(dir string) error {
	path := filepath.Join(dir, AutoSessionFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := m.LoadGroup(path); err != nil {
		return err
	}
	// The auto-session is a scratch copy, not a named group file.
	m.file = ""
	return nil
}

func (m *Manager) writeGroup(path, name string) error {
	data, err := Encode(m.store.Snapshot(), name)
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data, 0644); err != nil {
		return errors.NewSessionError("cannot write tab group", err).WithFile(path)
	}
	return nil
}

// GroupModified reports whether the set, order, pin state, or selection of
// tabs differs from the last loaded or saved state. Buffer edits do not
// count; those are tracked per record.
func (m *Manager) GroupModified() bool {
	current, err := Encode(m.store.Snapshot(), m.name)
	if err != nil {
		return true
	}
	return string(current) != string(m.baseline)
}

func (m *Manager) rebaseline() {
	m.baseline, _ = Encode(m.store.Snapshot(), m.name)
}

// WindowTitle derives the title for the terminal window: the group name,
// falling back to the group file's base name, falling back to "Untitled".
// A leading asterisk marks unsaved buffer changes.
func (m *Manager) WindowTitle() string {
	label := m.name
	if label == "" && m.file != "" {
		label = strings.TrimSuffix(filepath.Base(m.file), filepath.Ext(m.file))
	}
	if label == "" {
		label = "Untitled"
	}
	if m.store.AnyModified() {
		label = "*" + label
	}
	return label + " - Turnip"
}
