// Package event provides a pub-sub event bus for decoupled inter-component
// communication in Turnip.
//
// This package enables loose coupling between the tab store, session manager,
// file watcher, and the presentation layer by allowing them to communicate
// through events rather than direct method calls. Components can publish
// events without knowing who will receive them, and subscribe to events
// without knowing who will produce them.
//
// # Main Types
//
//   - [Event]: Interface that all events must implement, providing EventType() and Timestamp()
//   - [Bus]: Synchronous pub-sub event dispatcher with thread-safe operations
//   - [Handler]: Function type for event handlers (func(Event))
//
// # Event Categories
//
// Tab Lifecycle:
//   - [TabOpenedEvent]: Emitted when a record is inserted into the store
//   - [TabClosedEvent]: Emitted when a record is removed
//   - [TabPinnedEvent]: Emitted when a record's pinned state changes
//   - [TabReorderedEvent]: Emitted when a record moves within its partition
//   - [TabActivatedEvent]: Emitted when the active record changes
//   - [TabModifiedEvent]: Emitted when a record's modified flag changes
//
// Session Events:
//   - [SessionLoadedEvent]: Emitted when a tab group is restored from disk
//   - [SessionSavedEvent]: Emitted when a tab group is written to disk
//
// File Watcher Events:
//   - [FileChangedEvent]: Emitted when an open file changes on disk
//   - [FileRemovedEvent]: Emitted when an open file is deleted externally
//
// # Thread Safety
//
// The [Bus] type is safe for concurrent use, though the editor itself runs
// its mutations on a single goroutine. Handlers are called synchronously and
// protected against panics: a panicking handler will not prevent other
// handlers from being called.
//
// # Basic Usage
//
//	bus := event.NewBus()
//
//	// Subscribe to specific event types
//	bus.Subscribe("tab.opened", func(e event.Event) {
//	    opened := e.(event.TabOpenedEvent)
//	    log.Printf("opened %s at %d", opened.Path, opened.Index)
//	})
//
//	// Subscribe to all events (useful for logging)
//	bus.SubscribeAll(func(e event.Event) {
//	    log.Printf("event: %s at %v", e.EventType(), e.Timestamp())
//	})
//
//	// Publish events
//	bus.Publish(event.NewTabOpenedEvent("/notes/todo.md", 2, false))
//
//	// Unsubscribe when done
//	id := bus.Subscribe("session.saved", handler)
//	bus.Unsubscribe(id)
//
// # Event Type Naming Convention
//
// Event types follow the pattern "category.action":
//   - tab.opened, tab.closed, tab.pinned, tab.reordered, tab.activated, tab.modified
//   - session.loaded, session.saved
//   - file.changed, file.removed
package event
