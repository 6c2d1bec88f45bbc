package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"

	"github.com/turnip-editor/turnip/internal/config"
	"github.com/turnip-editor/turnip/internal/editor"
	"github.com/turnip-editor/turnip/internal/errors"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/fileio"
	"github.com/turnip-editor/turnip/internal/logging"
	"github.com/turnip-editor/turnip/internal/session"
	"github.com/turnip-editor/turnip/internal/tabs"
	"github.com/turnip-editor/turnip/internal/watcher"
)

// mode selects which surface owns the keyboard.
type mode int

const (
	modeEdit mode = iota
	modeOpen
	modeFind
	modeReplace
	modeReplaceWith
	modeGroupLoad
	modeGroupSave
	modeConfirmClose
	modeConfirmLarge
)

// Model is the Bubbletea model for the editor
type Model struct {
	store   *tabs.Store
	manager *session.Manager
	loader  *fileio.Loader
	watcher *watcher.Watcher
	bus     *event.Bus
	cfg     *config.Config
	logger  *logging.Logger

	textarea textarea.Model
	prompt   textinput.Model

	// buffers holds the text of every open tab, keyed by path. The
	// textarea only ever shows the active tab's buffer.
	buffers map[string]*editor.Buffer

	mode     mode
	width    int
	height   int
	ready    bool
	quitting bool
	showHelp bool

	sidebarScrollOffset int

	errorMessage string
	infoMessage  string

	// Pending state for the two-step interactions
	pendingClose *tabs.Record // tab awaiting close confirmation
	pendingOpen  string       // path awaiting large-file confirmation
	confirmQuit  bool         // set after the first quit attempt with unsaved tabs

	searchQuery   string
	searchMatches []editor.Match
	searchCurrent int
	replaceQuery  string // find query captured before the replacement prompt

	// startupPath is the command-line argument, opened once the program
	// is running. A .tabs file loads as a group, anything else as a tab.
	startupPath string
}

// NewModel creates the initial model
func NewModel(store *tabs.Store, manager *session.Manager, loader *fileio.Loader, w *watcher.Watcher, cfg *config.Config, logger *logging.Logger, bus *event.Bus) Model {
	ta := textarea.New()
	ta.ShowLineNumbers = cfg.Editor.LineNumbers
	ta.CharLimit = 0
	ta.Focus()

	prompt := textinput.New()
	prompt.CharLimit = 0

	m := Model{
		store:    store,
		manager:  manager,
		loader:   loader,
		watcher:  w,
		bus:      bus,
		cfg:      cfg,
		logger:   logger,
		textarea: ta,
		prompt:   prompt,
		buffers:  make(map[string]*editor.Buffer),
	}
	m.syncTextarea()
	return m
}

// tabCount returns the number of open tabs
func (m Model) tabCount() int {
	return m.store.Len()
}

// activeRecord returns the currently active tab, or nil
func (m Model) activeRecord() *tabs.Record {
	rec, _ := m.store.Active()
	return rec
}

// activeBuffer returns the buffer of the active tab, or nil
func (m Model) activeBuffer() *editor.Buffer {
	rec := m.activeRecord()
	if rec == nil {
		return nil
	}
	return m.buffers[rec.Path]
}

// flushTextarea copies the textarea's text back into the active buffer and
// keeps the tab's modified flag in sync. Call before anything that reads
// buffers or switches tabs.
func (m *Model) flushTextarea() {
	rec := m.activeRecord()
	if rec == nil {
		return
	}
	buf := m.buffers[rec.Path]
	if buf == nil {
		return
	}
	buf.SetContent(m.textarea.Value())
	_ = m.store.SetModified(rec, buf.Modified())
}

// syncTextarea loads the active buffer into the textarea
func (m *Model) syncTextarea() {
	buf := m.activeBuffer()
	if buf == nil {
		m.textarea.SetValue("")
		return
	}
	m.textarea.SetValue(buf.Content())
}

// ensureActiveVisible adjusts the sidebar scroll offset so the active tab
// stays on screen
func (m *Model) ensureActiveVisible() {
	_, idx := m.store.Active()
	if idx < 0 {
		return
	}
	slots := m.sidebarSlots()
	if idx < m.sidebarScrollOffset {
		m.sidebarScrollOffset = idx
	}
	if idx >= m.sidebarScrollOffset+slots {
		m.sidebarScrollOffset = idx - slots + 1
	}
	if m.sidebarScrollOffset < 0 {
		m.sidebarScrollOffset = 0
	}
}

// userFacingMessage turns an error into the line shown in the status bar.
// Internal errors get a generic message; the details go to the log.
func (m *Model) userFacingMessage(err error) string {
	if err == nil {
		return ""
	}
	m.logger.Error("operation failed", "error", err.Error())
	if errors.IsUserFacing(err) {
		return err.Error()
	}
	return "something went wrong; see the log for details"
}

// ---- Tab operations ----

// openFile opens path in a new tab, or activates the existing tab for it.
// With force set the soft size limit is waived.
func (m *Model) openFile(path string, force bool) {
	abs, err := filepath.Abs(path)
	if err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}

	if existing := m.store.Find(abs); existing != nil {
		m.flushTextarea()
		_ = m.store.Activate(existing)
		m.syncTextarea()
		m.ensureActiveVisible()
		return
	}

	var content string
	if force {
		content, err = m.loader.LoadAnyway(abs)
	} else {
		content, err = m.loader.Load(abs)
	}
	if err != nil {
		if errors.Is(err, errors.ErrNeedsConfirm) {
			m.pendingOpen = abs
			m.mode = modeConfirmLarge
			m.infoMessage = err.Error()
			return
		}
		m.errorMessage = m.userFacingMessage(err)
		return
	}

	m.flushTextarea()
	rec := &tabs.Record{Path: abs}
	if _, err := m.store.Insert(rec); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	m.buffers[abs] = editor.NewBuffer(content)
	_ = m.store.Activate(rec)
	m.syncTextarea()
	m.ensureActiveVisible()

	if m.cfg.Watcher.Enabled {
		if err := m.watcher.Watch(abs); err != nil {
			m.logger.Warn("watch failed", "path", abs, "error", err.Error())
		}
	}
	m.logger.Info("opened tab", "path", abs)
}

// saveRecord writes one tab's buffer to disk
func (m *Model) saveRecord(rec *tabs.Record) error {
	buf := m.buffers[rec.Path]
	if buf == nil {
		return errors.NewTabError("tab has no buffer", nil).WithPath(rec.Path)
	}
	m.watcher.SuppressNext(rec.Path)
	if err := fileio.Save(rec.Path, buf.Content()); err != nil {
		return err
	}
	buf.MarkSaved()
	_ = m.store.SetModified(rec, false)
	m.logger.Info("saved tab", "path", rec.Path)
	return nil
}

// saveActive saves the active tab
func (m *Model) saveActive() {
	m.flushTextarea()
	rec := m.activeRecord()
	if rec == nil {
		m.infoMessage = "no tab to save"
		return
	}
	if err := m.saveRecord(rec); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	m.infoMessage = fmt.Sprintf("saved %s", rec.Label())
}

// saveAll saves every modified tab
func (m *Model) saveAll() {
	m.flushTextarea()
	saved := 0
	for i := 0; i < m.store.Len(); i++ {
		rec := m.store.At(i)
		if !rec.Modified {
			continue
		}
		if err := m.saveRecord(rec); err != nil {
			m.errorMessage = m.userFacingMessage(err)
			return
		}
		saved++
	}
	if saved == 0 {
		m.infoMessage = "nothing to save"
	} else {
		m.infoMessage = fmt.Sprintf("saved %d tab(s)", saved)
	}
}

// closeActive closes the active tab. Pinned or modified tabs require
// confirmation unless force is set.
func (m *Model) closeActive(force bool) {
	m.flushTextarea()
	rec := m.activeRecord()
	if rec == nil {
		return
	}
	if !force && (rec.Pinned || rec.Modified) {
		m.pendingClose = rec
		m.mode = modeConfirmClose
		return
	}
	m.removeRecord(rec)
}

// removeRecord drops a tab, its buffer, and its watch
func (m *Model) removeRecord(rec *tabs.Record) {
	if err := m.store.Remove(rec); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	delete(m.buffers, rec.Path)
	m.watcher.Unwatch(rec.Path)
	m.syncTextarea()
	m.ensureActiveVisible()
	m.logger.Info("closed tab", "path", rec.Path)
}

// togglePin flips the active tab's pinned state
func (m *Model) togglePin() {
	rec := m.activeRecord()
	if rec == nil {
		return
	}
	if err := m.store.SetPinned(rec, !rec.Pinned); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	m.ensureActiveVisible()
}

// moveTab shifts the active tab by delta within its partition. Moves that
// would cross the pinned boundary are ignored.
func (m *Model) moveTab(delta int) {
	rec := m.activeRecord()
	if rec == nil {
		return
	}
	idx := m.store.IndexOf(rec)
	moved, err := m.store.Reorder(rec, idx+delta)
	if err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	if moved {
		m.ensureActiveVisible()
	}
}

// cycleTab activates the next (delta 1) or previous (delta -1) tab
func (m *Model) cycleTab(delta int) {
	n := m.tabCount()
	if n == 0 {
		return
	}
	m.flushTextarea()
	_, idx := m.store.Active()
	if idx < 0 {
		idx = 0
	} else {
		idx = (idx + delta + n) % n
	}
	_ = m.store.Activate(m.store.At(idx))
	m.syncTextarea()
	m.ensureActiveVisible()
}

// ---- Group operations ----

// loadGroup replaces the open tabs with a saved tab group
func (m *Model) loadGroup(path string) {
	m.flushTextarea()
	if err := m.manager.LoadGroup(path); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}

	m.restoreBuffers()
	m.infoMessage = fmt.Sprintf("loaded group %s (%d tabs)", filepath.Base(path), m.store.Len())
}

// restoreBuffers rebuilds the buffer and watch for every tab in the store.
// Used after a group load or an auto-session restore, when the store was
// repopulated behind the TUI's back.
func (m *Model) restoreBuffers() {
	for p := range m.buffers {
		m.watcher.Unwatch(p)
		delete(m.buffers, p)
	}
	for i := 0; i < m.store.Len(); i++ {
		rec := m.store.At(i)
		content, err := m.loader.LoadAnyway(rec.Path)
		if err != nil {
			// Keep the tab; an empty buffer beats losing the entry.
			m.logger.Warn("could not load tab content", "path", rec.Path, "error", err.Error())
			content = ""
		}
		m.buffers[rec.Path] = editor.NewBuffer(content)
		if m.cfg.Watcher.Enabled {
			_ = m.watcher.Watch(rec.Path)
		}
	}
	m.sidebarScrollOffset = 0
	m.syncTextarea()
	m.ensureActiveVisible()
}

// handleStartup opens the command-line argument, or restores the previous
// auto-session when there is none.
func (m *Model) handleStartup() {
	if m.startupPath != "" {
		if strings.HasSuffix(m.startupPath, ".tabs") {
			m.loadGroup(m.startupPath)
		} else {
			m.openFile(m.startupPath, false)
		}
		return
	}
	if !m.cfg.Session.AutoSession {
		return
	}
	if err := m.manager.RestoreAutoSession(m.cfg.Session.ResolveSessionDir()); err != nil {
		m.logger.Warn("auto-session restore failed", "error", err.Error())
		return
	}
	if m.store.Len() > 0 {
		m.restoreBuffers()
	}
}

// saveGroupAs writes the current tabs to a .tabs file
func (m *Model) saveGroupAs(path string) {
	m.flushTextarea()
	if !strings.HasSuffix(path, ".tabs") {
		path += ".tabs"
	}
	name := strings.TrimSuffix(filepath.Base(path), ".tabs")
	if err := m.manager.SaveGroup(path, name); err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	m.infoMessage = fmt.Sprintf("saved group %s", filepath.Base(path))
}

// ---- Find and replace ----

// searchOptions are fixed for now: case-insensitive substring search
func (m Model) searchOptions() editor.Options {
	return editor.Options{}
}

// runFind searches the active buffer and records the matches
func (m *Model) runFind(query string) {
	m.flushTextarea()
	m.searchQuery = query
	m.searchMatches = nil
	m.searchCurrent = 0

	buf := m.activeBuffer()
	if buf == nil || query == "" {
		return
	}
	m.searchMatches = editor.FindAll(buf.Content(), query, m.searchOptions())
	if len(m.searchMatches) == 0 {
		m.infoMessage = fmt.Sprintf("no matches for %q", query)
		return
	}
	m.infoMessage = fmt.Sprintf("match 1/%d", len(m.searchMatches))
}

// findNext advances to the next match, wrapping around
func (m *Model) findNext() {
	if len(m.searchMatches) == 0 {
		return
	}
	m.searchCurrent = (m.searchCurrent + 1) % len(m.searchMatches)
	m.infoMessage = fmt.Sprintf("match %d/%d", m.searchCurrent+1, len(m.searchMatches))
}

// findPrev steps back to the previous match, wrapping around
func (m *Model) findPrev() {
	if len(m.searchMatches) == 0 {
		return
	}
	m.searchCurrent = (m.searchCurrent - 1 + len(m.searchMatches)) % len(m.searchMatches)
	m.infoMessage = fmt.Sprintf("match %d/%d", m.searchCurrent+1, len(m.searchMatches))
}

// runReplaceAll replaces every occurrence of the captured query in the
// active buffer
func (m *Model) runReplaceAll(replacement string) {
	m.flushTextarea()
	buf := m.activeBuffer()
	if buf == nil || m.replaceQuery == "" {
		return
	}
	replaced, n := editor.ReplaceAll(buf.Content(), m.replaceQuery, replacement, m.searchOptions())
	if n == 0 {
		m.infoMessage = fmt.Sprintf("no matches for %q", m.replaceQuery)
		return
	}
	buf.SetContent(replaced)
	if rec := m.activeRecord(); rec != nil {
		_ = m.store.SetModified(rec, buf.Modified())
	}
	m.syncTextarea()
	m.searchMatches = nil
	m.infoMessage = fmt.Sprintf("replaced %d occurrence(s)", n)
}
