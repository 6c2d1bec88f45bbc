package tui

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnip-editor/turnip/internal/config"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/fileio"
	"github.com/turnip-editor/turnip/internal/logging"
	"github.com/turnip-editor/turnip/internal/session"
	"github.com/turnip-editor/turnip/internal/tabs"
	"github.com/turnip-editor/turnip/internal/watcher"
)

func newTestModel(t *testing.T) Model {
	t.Helper()

	cfg := config.Default()
	bus := event.NewBus()
	store := tabs.NewStore(bus)
	manager := session.NewManager(store, bus)
	loader := fileio.NewLoader()

	w, err := watcher.New(bus, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Stop)

	m := NewModel(store, manager, loader, w, cfg, logging.NopLogger(), bus)
	m.width = 120
	m.height = 40
	m.ready = true
	return m
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestOpenFileCreatesTab(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "hello")

	m.openFile(path, false)

	if m.tabCount() != 1 {
		t.Fatalf("tab count = %d, want 1", m.tabCount())
	}
	rec := m.activeRecord()
	if rec == nil || rec.Path != path {
		t.Fatalf("active = %v, want %s", rec, path)
	}
	if got := m.textarea.Value(); got != "hello" {
		t.Errorf("textarea = %q, want %q", got, "hello")
	}
}

func TestOpenFileTwiceActivatesExistingTab(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "aaa")
	b := writeTempFile(t, "b.txt", "bbb")

	m.openFile(a, false)
	m.openFile(b, false)
	m.openFile(a, false)

	if m.tabCount() != 2 {
		t.Fatalf("tab count = %d, want 2", m.tabCount())
	}
	if rec := m.activeRecord(); rec == nil || rec.Path != a {
		t.Errorf("active = %v, want %s", rec, a)
	}
}

func TestOpenMissingFileReportsError(t *testing.T) {
	m := newTestModel(t)

	m.openFile(filepath.Join(t.TempDir(), "missing.txt"), false)

	if m.tabCount() != 0 {
		t.Errorf("tab count = %d, want 0", m.tabCount())
	}
	if m.errorMessage == "" {
		t.Error("expected an error message")
	}
}

func TestOpenLargeFileAsksForConfirmation(t *testing.T) {
	m := newTestModel(t)
	m.loader = &fileio.Loader{SoftLimit: 4, HardLimit: 1 << 20}
	path := writeTempFile(t, "big.txt", "well over four bytes")

	m.openFile(path, false)

	if m.mode != modeConfirmLarge {
		t.Fatalf("mode = %v, want confirm-large", m.mode)
	}
	if m.tabCount() != 0 {
		t.Errorf("tab count = %d, want 0 before confirmation", m.tabCount())
	}

	// Confirming opens the file anyway.
	model, _ := m.handleConfirmInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = model.(Model)
	if m.tabCount() != 1 {
		t.Errorf("tab count = %d, want 1 after confirmation", m.tabCount())
	}
}

func TestCloseModifiedTabAsksForConfirmation(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)

	m.textarea.SetValue("two")
	m.closeActive(false)

	if m.mode != modeConfirmClose {
		t.Fatalf("mode = %v, want confirm-close", m.mode)
	}
	if m.tabCount() != 1 {
		t.Errorf("tab closed before confirmation")
	}

	model, _ := m.handleConfirmInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	m = model.(Model)
	if m.tabCount() != 1 {
		t.Errorf("declining the confirmation closed the tab")
	}

	m.closeActive(false)
	model, _ = m.handleConfirmInput(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("y")})
	m = model.(Model)
	if m.tabCount() != 0 {
		t.Errorf("tab count = %d, want 0 after confirmed close", m.tabCount())
	}
}

func TestClosePinnedTabAsksForConfirmation(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)
	m.togglePin()

	m.closeActive(false)
	if m.mode != modeConfirmClose {
		t.Errorf("closing a pinned tab should ask first")
	}
}

func TestCloseCleanTabIsImmediate(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)

	m.closeActive(false)
	if m.tabCount() != 0 {
		t.Errorf("tab count = %d, want 0", m.tabCount())
	}
	if m.mode != modeEdit {
		t.Errorf("mode = %v, want edit", m.mode)
	}
}

func TestTogglePinMovesTabToPinnedSection(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "a")
	b := writeTempFile(t, "b.txt", "b")
	m.openFile(a, false)
	m.openFile(b, false)

	// b is active; pinning moves it to the front.
	m.togglePin()

	if m.store.PinnedCount() != 1 {
		t.Fatalf("pinned count = %d, want 1", m.store.PinnedCount())
	}
	if got := m.store.At(0).Path; got != b {
		t.Errorf("first tab = %s, want %s", got, b)
	}
}

func TestSaveActiveWritesBufferToDisk(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)

	m.textarea.SetValue("two")
	m.saveActive()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "two" {
		t.Errorf("file = %q, want %q", data, "two")
	}
	if rec := m.activeRecord(); rec.Modified {
		t.Error("tab should be clean after save")
	}
}

func TestSaveAllOnlyTouchesModifiedTabs(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "a")
	b := writeTempFile(t, "b.txt", "b")
	m.openFile(a, false)
	m.openFile(b, false)

	m.textarea.SetValue("b changed")
	m.flushTextarea()
	m.saveAll()

	dataA, _ := os.ReadFile(a)
	dataB, _ := os.ReadFile(b)
	if string(dataA) != "a" {
		t.Errorf("a = %q, want untouched", dataA)
	}
	if string(dataB) != "b changed" {
		t.Errorf("b = %q, want %q", dataB, "b changed")
	}
}

func TestCycleTabWrapsAndKeepsBuffers(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "aaa")
	b := writeTempFile(t, "b.txt", "bbb")
	m.openFile(a, false)
	m.openFile(b, false)

	m.cycleTab(1) // wraps from b back to a
	if rec := m.activeRecord(); rec.Path != a {
		t.Errorf("active = %s, want %s", rec.Path, a)
	}
	if got := m.textarea.Value(); got != "aaa" {
		t.Errorf("textarea = %q, want %q", got, "aaa")
	}

	m.cycleTab(-1)
	if rec := m.activeRecord(); rec.Path != b {
		t.Errorf("active = %s, want %s", rec.Path, b)
	}
}

func TestEditsSurviveTabSwitch(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "aaa")
	b := writeTempFile(t, "b.txt", "bbb")
	m.openFile(a, false)
	m.openFile(b, false)

	m.textarea.SetValue("bbb edited")
	m.cycleTab(1)
	m.cycleTab(1)

	if got := m.textarea.Value(); got != "bbb edited" {
		t.Errorf("textarea = %q, want the unsaved edit back", got)
	}
	if rec := m.activeRecord(); !rec.Modified {
		t.Error("tab should still be marked modified")
	}
}

func TestMoveTabStaysInPartition(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "a")
	b := writeTempFile(t, "b.txt", "b")
	m.openFile(a, false)
	m.openFile(b, false)

	m.moveTab(-1) // b moves above a
	if got := m.store.At(0).Path; got != b {
		t.Errorf("first tab = %s, want %s", got, b)
	}

	m.moveTab(-1) // already first; ignored
	if got := m.store.At(0).Path; got != b {
		t.Errorf("first tab = %s after no-op move, want %s", got, b)
	}
}

func TestExternalChangeReloadsCleanBuffer(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)

	if err := os.WriteFile(path, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}
	m.handleFileChanged(path)

	if got := m.textarea.Value(); got != "two" {
		t.Errorf("textarea = %q, want reloaded content", got)
	}
	if rec := m.activeRecord(); rec.Modified {
		t.Error("reloaded tab should be clean")
	}
}

func TestExternalChangeKeepsDirtyBuffer(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)
	m.textarea.SetValue("local edit")

	if err := os.WriteFile(path, []byte("two"), 0644); err != nil {
		t.Fatal(err)
	}
	m.handleFileChanged(path)

	if got := m.textarea.Value(); got != "local edit" {
		t.Errorf("textarea = %q, local edits were lost", got)
	}
	if m.errorMessage == "" {
		t.Error("expected a conflict warning")
	}
}

func TestFileRemovedMarksTabModified(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)

	m.handleFileRemoved(path)

	if rec := m.activeRecord(); !rec.Modified {
		t.Error("tab should be marked modified when its file disappears")
	}
}

func TestFindAndReplaceAll(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "cat Cat CAT")
	m.openFile(path, false)

	m.runFind("cat")
	if len(m.searchMatches) != 3 {
		t.Fatalf("matches = %d, want 3", len(m.searchMatches))
	}
	m.findNext()
	if m.searchCurrent != 1 {
		t.Errorf("current = %d, want 1", m.searchCurrent)
	}
	m.findPrev()
	m.findPrev()
	if m.searchCurrent != 2 {
		t.Errorf("current = %d, want wraparound to 2", m.searchCurrent)
	}

	m.replaceQuery = "cat"
	m.runReplaceAll("dog")
	if got := m.textarea.Value(); got != "dog dog dog" {
		t.Errorf("textarea = %q, want %q", got, "dog dog dog")
	}
	if rec := m.activeRecord(); !rec.Modified {
		t.Error("replace should mark the tab modified")
	}
}

func TestGroupSaveAndLoadRoundTrip(t *testing.T) {
	m := newTestModel(t)
	a := writeTempFile(t, "a.txt", "aaa")
	b := writeTempFile(t, "b.txt", "bbb")
	m.openFile(a, false)
	m.openFile(b, false)

	group := filepath.Join(t.TempDir(), "work.tabs")
	m.saveGroupAs(group)
	if _, err := os.Stat(group); err != nil {
		t.Fatalf("group file not written: %v", err)
	}

	m2 := newTestModel(t)
	m2.loadGroup(group)
	if m2.tabCount() != 2 {
		t.Fatalf("tab count = %d, want 2", m2.tabCount())
	}
	if got := m2.textarea.Value(); got != "bbb" {
		t.Errorf("textarea = %q, want active tab content restored", got)
	}
}

func TestWindowSizeMarksReady(t *testing.T) {
	m := newTestModel(t)
	m.ready = false

	model, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = model.(Model)

	if !m.ready || m.width != 100 || m.height != 30 {
		t.Errorf("model = ready %v %dx%d, want ready 100x30", m.ready, m.width, m.height)
	}
}

func TestQuitWithUnsavedChangesNeedsTwoPresses(t *testing.T) {
	m := newTestModel(t)
	path := writeTempFile(t, "a.txt", "one")
	m.openFile(path, false)
	m.textarea.SetValue("two")

	model, cmd := m.handleKeypress(tea.KeyMsg{Type: tea.KeyCtrlQ})
	m = model.(Model)
	if cmd != nil || !m.confirmQuit {
		t.Fatal("first ctrl+q should warn, not quit")
	}

	_, cmd = m.handleKeypress(tea.KeyMsg{Type: tea.KeyCtrlQ})
	if cmd == nil {
		t.Error("second ctrl+q should quit")
	}
}

func TestStartupOpensFileArgument(t *testing.T) {
	m := newTestModel(t)
	m.startupPath = writeTempFile(t, "a.txt", "hello")

	m.handleStartup()

	if m.tabCount() != 1 {
		t.Fatalf("tab count = %d, want 1", m.tabCount())
	}
}

func TestStartupLoadsGroupArgument(t *testing.T) {
	setup := newTestModel(t)
	a := writeTempFile(t, "a.txt", "aaa")
	setup.openFile(a, false)
	group := filepath.Join(t.TempDir(), "work.tabs")
	setup.saveGroupAs(group)

	m := newTestModel(t)
	m.startupPath = group
	m.handleStartup()

	if m.tabCount() != 1 {
		t.Fatalf("tab count = %d, want 1", m.tabCount())
	}
	if got := m.textarea.Value(); got != "aaa" {
		t.Errorf("textarea = %q, want group content", got)
	}
}

func TestStartupRestoresAutoSession(t *testing.T) {
	dir := t.TempDir()

	setup := newTestModel(t)
	setup.cfg.Session.Dir = dir
	a := writeTempFile(t, "a.txt", "aaa")
	setup.openFile(a, false)
	if err := setup.manager.AutoSave(dir); err != nil {
		t.Fatal(err)
	}

	m := newTestModel(t)
	m.cfg.Session.Dir = dir
	m.handleStartup()

	if m.tabCount() != 1 {
		t.Fatalf("tab count = %d, want 1", m.tabCount())
	}
	if m.manager.File() != "" {
		t.Error("auto-session restore should not bind a group file")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"short", 10, "short"},
		{"exactly-10", 10, "exactly-10"},
		{"a-very-long-name.txt", 10, "a-very-lo…"},
		{"日本語のファイル.txt", 8, "日本語…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.width); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestTabTitleUsesEmoji(t *testing.T) {
	rec := &tabs.Record{Path: "/tmp/a.txt", Emoji: "🔥"}
	if got := tabTitle(rec); got != "🔥 a.txt" {
		t.Errorf("tabTitle = %q", got)
	}
	rec.Emoji = ""
	if got := tabTitle(rec); got != "a.txt" {
		t.Errorf("tabTitle = %q", got)
	}
}

func TestEditorDimensions(t *testing.T) {
	w, h := editorDimensions(120, 40, 28)
	if w != 120-28-EditorWidthOffset || h != 40-EditorHeightOffset {
		t.Errorf("dimensions = %dx%d", w, h)
	}

	// Narrow terminals fall back to the minimum sidebar.
	w, _ = editorDimensions(60, 40, 28)
	if w != 60-SidebarMinWidth-EditorWidthOffset {
		t.Errorf("narrow width = %d", w)
	}

	// Degenerate sizes never go non-positive.
	w, h = editorDimensions(5, 3, 28)
	if w < 1 || h < 1 {
		t.Errorf("degenerate dimensions = %dx%d", w, h)
	}
}
