package session

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/turnip-editor/turnip/internal/errors"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/tabs"
)

func writeGroupFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func storePaths(s *tabs.Store) []string {
	out := make([]string, s.Len())
	for i := 0; i < s.Len(); i++ {
		out[i] = s.At(i).Path
	}
	return out
}

// Restoring a mixed group: pinned entries gather at the front in file order,
// and the persisted selection follows its record through the reordering.
func TestLoadGroupPinnedFirst(t *testing.T) {
	path := writeGroupFile(t, t.TempDir(), "work.tabs", `<tabs version="1.0" current="1" name="work">
  <tab path="/a.txt" pinned="False"></tab>
  <tab path="/b.txt" pinned="True" emoji="★"></tab>
  <tab path="/c.txt" pinned="False"></tab>
</tabs>
`)

	store := tabs.NewStore(nil)
	m := NewManager(store, nil)
	if err := m.LoadGroup(path); err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}

	want := []string{"/b.txt", "/a.txt", "/c.txt"}
	got := storePaths(store)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}

	active, idx := store.Active()
	if active == nil || active.Path != "/b.txt" || idx != 0 {
		t.Errorf("active = (%v, %d), want /b.txt at 0", active, idx)
	}
	if active.Emoji != "★" {
		t.Errorf("emoji = %q, want ★", active.Emoji)
	}

	if m.Name() != "work" || m.File() != path {
		t.Errorf("manager = (%q, %q), want (work, %q)", m.Name(), m.File(), path)
	}
	if m.GroupModified() {
		t.Error("freshly loaded group should not be modified")
	}
}

func TestLoadGroupMissingFile(t *testing.T) {
	m := NewManager(tabs.NewStore(nil), nil)
	err := m.LoadGroup(filepath.Join(t.TempDir(), "nope.tabs"))
	if !errors.Is(err, errors.ErrSessionNotFound) {
		t.Errorf("LoadGroup(missing) = %v, want ErrSessionNotFound", err)
	}
}

func TestLoadGroupBadFormatCarriesFile(t *testing.T) {
	path := writeGroupFile(t, t.TempDir(), "old.tabs",
		`<tabs version="0.9" current="0"></tabs>`)

	m := NewManager(tabs.NewStore(nil), nil)
	err := m.LoadGroup(path)
	if !errors.Is(err, errors.ErrBadFormat) {
		t.Fatalf("LoadGroup(old version) = %v, want ErrBadFormat", err)
	}

	var sessErr *errors.SessionError
	if !errors.As(err, &sessErr) || sessErr.File != path {
		t.Errorf("error should carry the group file path, got %v", err)
	}
}

func TestLoadGroupReplacesExistingTabs(t *testing.T) {
	store := tabs.NewStore(nil)
	m := NewManager(store, nil)
	if _, err := store.Insert(&tabs.Record{Path: "/old.txt"}); err != nil {
		t.Fatal(err)
	}

	path := writeGroupFile(t, t.TempDir(), "new.tabs",
		`<tabs version="1.0" current="0"><tab path="/new.txt" pinned="False"></tab></tabs>`)
	if err := m.LoadGroup(path); err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}

	if store.Len() != 1 || store.At(0).Path != "/new.txt" {
		t.Errorf("store = %v, want only /new.txt", storePaths(store))
	}
}

func TestSaveGroupRoundTrip(t *testing.T) {
	store := tabs.NewStore(nil)
	m := NewManager(store, nil)

	p := &tabs.Record{Path: "/p.txt", Pinned: true}
	a := &tabs.Record{Path: "/a.txt", DisplayName: "Notes"}
	for _, r := range []*tabs.Record{p, a} {
		if _, err := store.Insert(r); err != nil {
			t.Fatal(err)
		}
	}
	if err := store.Activate(a); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "out.tabs")
	if err := m.SaveGroup(path, "saved"); err != nil {
		t.Fatalf("SaveGroup: %v", err)
	}

	other := tabs.NewStore(nil)
	m2 := NewManager(other, nil)
	if err := m2.LoadGroup(path); err != nil {
		t.Fatalf("LoadGroup: %v", err)
	}

	if other.Len() != 2 || other.At(0).Path != "/p.txt" || !other.At(0).Pinned {
		t.Errorf("restored order = %v", storePaths(other))
	}
	active, _ := other.Active()
	if active == nil || active.Path != "/a.txt" || active.DisplayName != "Notes" {
		t.Errorf("restored active = %+v, want /a.txt with display name", active)
	}
	if m2.Name() != "saved" {
		t.Errorf("restored name = %q, want saved", m2.Name())
	}
}

func TestSaveCurrentRequiresFile(t *testing.T) {
	m := NewManager(tabs.NewStore(nil), nil)
	if err := m.SaveCurrent(); err == nil {
		t.Error("SaveCurrent on an unnamed group should fail")
	}
}

func TestGroupModifiedTracking(t *testing.T) {
	store := tabs.NewStore(nil)
	m := NewManager(store, nil)

	a := &tabs.Record{Path: "/a.txt"}
	if _, err := store.Insert(a); err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(t.TempDir(), "g.tabs")
	if err := m.SaveGroup(path, "g"); err != nil {
		t.Fatal(err)
	}
	if m.GroupModified() {
		t.Error("group should be clean right after save")
	}

	b := &tabs.Record{Path: "/b.txt"}
	if _, err := store.Insert(b); err != nil {
		t.Fatal(err)
	}
	if !m.GroupModified() {
		t.Error("adding a tab should mark the group modified")
	}

	// Undoing the change restores the baseline comparison.
	if err := store.Remove(b); err != nil {
		t.Fatal(err)
	}
	if m.GroupModified() {
		t.Error("removing the added tab should make the group clean again")
	}
}

func TestAutoSaveAndRestore(t *testing.T) {
	dir := t.TempDir()

	store := tabs.NewStore(nil)
	m := NewManager(store, nil)
	if _, err := store.Insert(&tabs.Record{Path: "/a.txt"}); err != nil {
		t.Fatal(err)
	}
	if err := m.AutoSave(dir); err != nil {
		t.Fatalf("AutoSave: %v", err)
	}

	other := tabs.NewStore(nil)
	m2 := NewManager(other, nil)
	if err := m2.RestoreAutoSession(dir); err != nil {
		t.Fatalf("RestoreAutoSession: %v", err)
	}
	if other.Len() != 1 || other.At(0).Path != "/a.txt" {
		t.Errorf("restored store = %v, want /a.txt", storePaths(other))
	}
	// The auto-session never becomes the named group file.
	if m2.File() != "" {
		t.Errorf("file = %q, want empty after auto-session restore", m2.File())
	}
}

func TestRestoreAutoSessionMissingIsNoop(t *testing.T) {
	m := NewManager(tabs.NewStore(nil), nil)
	if err := m.RestoreAutoSession(t.TempDir()); err != nil {
		t.Errorf("missing auto-session should be silent, got %v", err)
	}
}

func TestWindowTitle(t *testing.T) {
	store := tabs.NewStore(nil)
	m := NewManager(store, nil)

	if got := m.WindowTitle(); got != "Untitled - Turnip" {
		t.Errorf("title = %q, want Untitled - Turnip", got)
	}

	a := &tabs.Record{Path: "/a.txt"}
	if _, err := store.Insert(a); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "work.tabs")
	if err := m.SaveGroup(path, ""); err != nil {
		t.Fatal(err)
	}
	if got := m.WindowTitle(); got != "work - Turnip" {
		t.Errorf("title = %q, want work - Turnip", got)
	}

	if err := store.SetModified(a, true); err != nil {
		t.Fatal(err)
	}
	if got := m.WindowTitle(); got != "*work - Turnip" {
		t.Errorf("title = %q, want *work - Turnip", got)
	}
}

func TestLoadGroupPublishesEvent(t *testing.T) {
	bus := event.NewBus()
	var loaded []event.SessionLoadedEvent
	bus.Subscribe("session.loaded", func(e event.Event) {
		loaded = append(loaded, e.(event.SessionLoadedEvent))
	})

	path := writeGroupFile(t, t.TempDir(), "g.tabs",
		`<tabs version="1.0" current="0" name="g"><tab path="/a.txt" pinned="False"></tab></tabs>`)

	m := NewManager(tabs.NewStore(bus), bus)
	if err := m.LoadGroup(path); err != nil {
		t.Fatal(err)
	}

	if len(loaded) != 1 || loaded[0].Name != "g" || loaded[0].TabCount != 1 {
		t.Errorf("events = %+v, want one session.loaded for g", loaded)
	}
}
