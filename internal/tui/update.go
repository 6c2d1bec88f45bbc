package tui

import (
	"fmt"
	"runtime/debug"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, func() tea.Msg { return startupMsg{} })
}

// Update handles messages and updates the model. A panic in any handler is
// contained here so a rendering or bookkeeping bug cannot take down the
// terminal with unsaved buffers in memory.
func (m Model) Update(msg tea.Msg) (model tea.Model, cmd tea.Cmd) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Error("panic in update", "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
			m.errorMessage = "internal error; see the log for details"
			model = m
			cmd = nil
		}
	}()

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeypress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		w, h := editorDimensions(m.width, m.height, m.cfg.TUI.SidebarWidth)
		m.textarea.SetWidth(w)
		m.textarea.SetHeight(h)
		m.ensureActiveVisible()
		return m, nil

	case fileChangedMsg:
		m.handleFileChanged(msg.path)
		return m, nil

	case fileRemovedMsg:
		m.handleFileRemoved(msg.path)
		return m, nil

	case startupMsg:
		m.handleStartup()
		return m, nil
	}

	return m, nil
}

// handleFileChanged reacts to an external change to an open file. Clean
// buffers are reloaded in place; dirty ones keep the local edits and warn.
func (m *Model) handleFileChanged(path string) {
	rec := m.store.Find(path)
	buf := m.buffers[path]
	if rec == nil || buf == nil {
		return
	}

	active := m.activeRecord()
	if rec == active {
		m.flushTextarea()
	}

	if buf.Modified() {
		m.errorMessage = fmt.Sprintf("%s changed on disk; saving will overwrite it", rec.Label())
		return
	}

	content, err := m.loader.LoadAnyway(path)
	if err != nil {
		m.errorMessage = m.userFacingMessage(err)
		return
	}
	buf.Reload(content)
	_ = m.store.SetModified(rec, false)
	if rec == active {
		m.syncTextarea()
	}
	m.infoMessage = fmt.Sprintf("%s reloaded from disk", rec.Label())
	m.logger.Info("reloaded tab after external change", "path", path)
}

// handleFileRemoved marks a tab whose file disappeared from disk. The
// buffer lives on in memory; saving recreates the file.
func (m *Model) handleFileRemoved(path string) {
	rec := m.store.Find(path)
	if rec == nil {
		return
	}
	_ = m.store.SetModified(rec, true)
	m.errorMessage = fmt.Sprintf("%s was deleted on disk", rec.Label())
	m.logger.Warn("open file removed on disk", "path", path)
}

// handleKeypress processes keyboard input
func (m Model) handleKeypress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case modeOpen, modeFind, modeReplace, modeReplaceWith, modeGroupLoad, modeGroupSave:
		return m.handlePromptInput(msg)
	case modeConfirmClose, modeConfirmLarge:
		return m.handleConfirmInput(msg)
	}

	// Any keypress after a quit warning other than a second quit resets it
	if m.confirmQuit && msg.String() != "ctrl+q" {
		m.confirmQuit = false
	}

	switch msg.String() {
	case "ctrl+q":
		m.flushTextarea()
		if m.store.AnyModified() && !m.confirmQuit {
			m.confirmQuit = true
			m.errorMessage = "unsaved changes; press ctrl+q again to quit"
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case "ctrl+o":
		return m.openPrompt(modeOpen, "Open file: ", ""), nil

	case "ctrl+s":
		m.saveActive()
		return m, nil

	case "alt+s":
		m.saveAll()
		return m, nil

	case "ctrl+w":
		m.closeActive(false)
		return m, nil

	case "ctrl+p":
		m.togglePin()
		return m, nil

	case "alt+up":
		m.moveTab(-1)
		return m, nil

	case "alt+down":
		m.moveTab(1)
		return m, nil

	case "ctrl+right":
		m.cycleTab(1)
		return m, nil

	case "ctrl+left":
		m.cycleTab(-1)
		return m, nil

	case "ctrl+f":
		return m.openPrompt(modeFind, "Find: ", m.searchQuery), nil

	case "alt+n":
		m.findNext()
		return m, nil

	case "alt+p":
		m.findPrev()
		return m, nil

	case "ctrl+r":
		return m.openPrompt(modeReplace, "Replace: ", m.searchQuery), nil

	case "ctrl+l":
		return m.openPrompt(modeGroupLoad, "Load group: ", ""), nil

	case "alt+l":
		return m.openPrompt(modeGroupSave, "Save group as: ", m.manager.File()), nil

	case "alt+h":
		m.showHelp = !m.showHelp
		return m, nil

	case "esc":
		m.errorMessage = ""
		m.infoMessage = ""
		m.searchMatches = nil
		m.showHelp = false
		return m, nil
	}

	// Everything else belongs to the text itself
	if m.activeRecord() == nil {
		return m, nil
	}
	var cmd tea.Cmd
	m.textarea, cmd = m.textarea.Update(msg)
	m.flushTextarea()
	return m, cmd
}

// openPrompt switches the keyboard to a one-line input
func (m Model) openPrompt(target mode, label, initial string) Model {
	m.mode = target
	m.prompt.Prompt = label
	m.prompt.SetValue(initial)
	m.prompt.CursorEnd()
	m.prompt.Focus()
	m.textarea.Blur()
	return m
}

// closePrompt returns the keyboard to the editor
func (m *Model) closePrompt() {
	m.mode = modeEdit
	m.prompt.Blur()
	m.prompt.SetValue("")
	m.textarea.Focus()
}

// handlePromptInput drives the one-line input overlays
func (m Model) handlePromptInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.replaceQuery = ""
		m.closePrompt()
		return m, nil

	case tea.KeyEnter:
		value := m.prompt.Value()
		submitted := m.mode
		m.closePrompt()

		switch submitted {
		case modeOpen:
			if value != "" {
				m.openFile(value, false)
			}
		case modeFind:
			m.runFind(value)
		case modeReplace:
			if value == "" {
				return m, nil
			}
			m.replaceQuery = value
			return m.openPrompt(modeReplaceWith, "Replace with: ", ""), nil
		case modeReplaceWith:
			m.runReplaceAll(value)
			m.replaceQuery = ""
		case modeGroupLoad:
			if value != "" {
				m.loadGroup(value)
			}
		case modeGroupSave:
			if value != "" {
				m.saveGroupAs(value)
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// handleConfirmInput drives the yes/no banners
func (m Model) handleConfirmInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		switch m.mode {
		case modeConfirmClose:
			rec := m.pendingClose
			m.pendingClose = nil
			m.mode = modeEdit
			if rec != nil {
				m.removeRecord(rec)
			}
		case modeConfirmLarge:
			path := m.pendingOpen
			m.pendingOpen = ""
			m.mode = modeEdit
			m.infoMessage = ""
			if path != "" {
				m.openFile(path, true)
			}
		}
		return m, nil

	case "n", "N", "esc":
		m.pendingClose = nil
		m.pendingOpen = ""
		m.infoMessage = ""
		m.mode = modeEdit
		return m, nil
	}
	return m, nil
}
