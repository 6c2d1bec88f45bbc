// Package event defines event types for decoupling components in Turnip.
// These events enable communication between the tab store, session manager,
// file watcher, and the presentation layer without direct dependencies.
package event

import "time"

// Event is the interface that all events must implement.
// It provides a common way to identify and timestamp events.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "tab.opened", "session.saved")
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// newBaseEvent creates a baseEvent with the current time.
func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// -----------------------------------------------------------------------------
// Tab Lifecycle Events
// -----------------------------------------------------------------------------

// TabOpenedEvent is emitted when a record is inserted into the tab store.
type TabOpenedEvent struct {
	baseEvent
	Path   string // Absolute file path, empty for unsaved buffers
	Index  int    // Position the record was inserted at
	Pinned bool   // Whether the record entered the pinned section
}

// NewTabOpenedEvent creates a TabOpenedEvent.
func NewTabOpenedEvent(path string, index int, pinned bool) TabOpenedEvent {
	return TabOpenedEvent{
		baseEvent: newBaseEvent("tab.opened"),
		Path:      path,
		Index:     index,
		Pinned:    pinned,
	}
}

// TabClosedEvent is emitted when a record is removed from the tab store.
type TabClosedEvent struct {
	baseEvent
	Path      string // Path of the removed record
	Index     int    // Position the record held before removal
	NextIndex int    // Index of the record that became active, -1 if none
}

// NewTabClosedEvent creates a TabClosedEvent.
func NewTabClosedEvent(path string, index, nextIndex int) TabClosedEvent {
	return TabClosedEvent{
		baseEvent: newBaseEvent("tab.closed"),
		Path:      path,
		Index:     index,
		NextIndex: nextIndex,
	}
}

// TabPinnedEvent is emitted when a record's pinned state changes.
type TabPinnedEvent struct {
	baseEvent
	Path     string // Path of the record
	Pinned   bool   // New pinned state
	NewIndex int    // Position the record moved to
}

// NewTabPinnedEvent creates a TabPinnedEvent.
func NewTabPinnedEvent(path string, pinned bool, newIndex int) TabPinnedEvent {
	return TabPinnedEvent{
		baseEvent: newBaseEvent("tab.pinned"),
		Path:      path,
		Pinned:    pinned,
		NewIndex:  newIndex,
	}
}

// TabReorderedEvent is emitted when a record moves within its partition.
type TabReorderedEvent struct {
	baseEvent
	Path      string // Path of the moved record
	FromIndex int    // Position before the move
	ToIndex   int    // Position after the move
}

// NewTabReorderedEvent creates a TabReorderedEvent.
func NewTabReorderedEvent(path string, fromIndex, toIndex int) TabReorderedEvent {
	return TabReorderedEvent{
		baseEvent: newBaseEvent("tab.reordered"),
		Path:      path,
		FromIndex: fromIndex,
		ToIndex:   toIndex,
	}
}

// TabActivatedEvent is emitted when the active record changes.
type TabActivatedEvent struct {
	baseEvent
	Path  string // Path of the newly active record
	Index int    // Position of the newly active record
}

// NewTabActivatedEvent creates a TabActivatedEvent.
func NewTabActivatedEvent(path string, index int) TabActivatedEvent {
	return TabActivatedEvent{
		baseEvent: newBaseEvent("tab.activated"),
		Path:      path,
		Index:     index,
	}
}

// TabModifiedEvent is emitted when a record's modified flag changes.
type TabModifiedEvent struct {
	baseEvent
	Path     string // Path of the record
	Modified bool   // New modified state
}

// NewTabModifiedEvent creates a TabModifiedEvent.
func NewTabModifiedEvent(path string, modified bool) TabModifiedEvent {
	return TabModifiedEvent{
		baseEvent: newBaseEvent("tab.modified"),
		Path:      path,
		Modified:  modified,
	}
}

// -----------------------------------------------------------------------------
// Session Events
// -----------------------------------------------------------------------------

// SessionLoadedEvent is emitted when a tab group is restored from disk.
type SessionLoadedEvent struct {
	baseEvent
	File     string // Path of the .tabs file
	Name     string // Group name, empty if unnamed
	TabCount int    // Number of records restored
}

// NewSessionLoadedEvent creates a SessionLoadedEvent.
func NewSessionLoadedEvent(file, name string, tabCount int) SessionLoadedEvent {
	return SessionLoadedEvent{
		baseEvent: newBaseEvent("session.loaded"),
		File:      file,
		Name:      name,
		TabCount:  tabCount,
	}
}

// SessionSavedEvent is emitted when a tab group is written to disk.
type SessionSavedEvent struct {
	baseEvent
	File     string // Path of the .tabs file
	TabCount int    // Number of records written
}

// NewSessionSavedEvent creates a SessionSavedEvent.
func NewSessionSavedEvent(file string, tabCount int) SessionSavedEvent {
	return SessionSavedEvent{
		baseEvent: newBaseEvent("session.saved"),
		File:      file,
		TabCount:  tabCount,
	}
}

// -----------------------------------------------------------------------------
// File Watcher Events
// -----------------------------------------------------------------------------

// FileChangedEvent is emitted when an open file is modified outside the editor.
type FileChangedEvent struct {
	baseEvent
	Path string // Path of the changed file
}

// NewFileChangedEvent creates a FileChangedEvent.
func NewFileChangedEvent(path string) FileChangedEvent {
	return FileChangedEvent{
		baseEvent: newBaseEvent("file.changed"),
		Path:      path,
	}
}

// FileRemovedEvent is emitted when an open file is deleted or renamed away.
type FileRemovedEvent struct {
	baseEvent
	Path string // Path of the removed file
}

// NewFileRemovedEvent creates a FileRemovedEvent.
func NewFileRemovedEvent(path string) FileRemovedEvent {
	return FileRemovedEvent{
		baseEvent: newBaseEvent("file.removed"),
		Path:      path,
	}
}
