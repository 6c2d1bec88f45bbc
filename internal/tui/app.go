package tui

import (
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/turnip-editor/turnip/internal/config"
	"github.com/turnip-editor/turnip/internal/event"
	"github.com/turnip-editor/turnip/internal/fileio"
	"github.com/turnip-editor/turnip/internal/logging"
	"github.com/turnip-editor/turnip/internal/session"
	"github.com/turnip-editor/turnip/internal/tabs"
	"github.com/turnip-editor/turnip/internal/watcher"
)

// App wraps the Bubbletea program
type App struct {
	program *tea.Program
	model   Model
	bus     *event.Bus
	watcher *watcher.Watcher
}

// New creates a new TUI application. startupPath is the optional
// command-line argument: a .tabs file to load as a group, or a file to open.
func New(store *tabs.Store, manager *session.Manager, loader *fileio.Loader, w *watcher.Watcher, cfg *config.Config, logger *logging.Logger, bus *event.Bus, startupPath string) *App {
	model := NewModel(store, manager, loader, w, cfg, logger, bus)
	model.startupPath = startupPath
	return &App{
		model:   model,
		bus:     bus,
		watcher: w,
	}
}

// Run starts the TUI application
func (a *App) Run() error {
	a.program = tea.NewProgram(
		a.model,
		tea.WithAltScreen(),
	)

	// Forward watcher events into the Bubbletea loop
	changedSub := a.bus.Subscribe("file.changed", func(e event.Event) {
		if ev, ok := e.(event.FileChangedEvent); ok && a.program != nil {
			a.program.Send(fileChangedMsg{path: ev.Path})
		}
	})
	removedSub := a.bus.Subscribe("file.removed", func(e event.Event) {
		if ev, ok := e.(event.FileRemovedEvent); ok && a.program != nil {
			a.program.Send(fileRemovedMsg{path: ev.Path})
		}
	})
	defer a.bus.Unsubscribe(changedSub)
	defer a.bus.Unsubscribe(removedSub)

	if a.model.cfg.Watcher.Enabled {
		a.watcher.Start()
		defer a.watcher.Stop()
	}

	// Graceful shutdown on signals so the auto-session still gets written
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	go func() {
		<-sigChan
		if a.program != nil {
			a.program.Send(tea.Quit())
		}
	}()

	_, err := a.program.Run()
	signal.Stop(sigChan)
	return err
}

// Layout constants
const (
	SidebarMinWidth = 20 // Sidebar width on narrow terminals

	// Offsets for the editor area calculation
	EditorWidthOffset  = 4 // sidebar gap + editor border
	EditorHeightOffset = 6 // header + status bar + borders
)

// editorDimensions returns the text area size for a terminal of the given
// size and the configured sidebar width.
func editorDimensions(termWidth, termHeight, sidebarWidth int) (w, h int) {
	if termWidth < 80 {
		sidebarWidth = SidebarMinWidth
	}
	w = termWidth - sidebarWidth - EditorWidthOffset
	h = termHeight - EditorHeightOffset
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return w, h
}

// Messages

type fileChangedMsg struct {
	path string
}

type fileRemovedMsg struct {
	path string
}

// startupMsg triggers the initial open or auto-session restore once the
// program loop is running
type startupMsg struct{}
