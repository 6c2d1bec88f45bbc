// Package tabs maintains the ordered collection of open files in a window.
//
// The central type is [Store], an ordered list of [Record] values in which
// pinned records always form a contiguous prefix. All mutations preserve that
// partition, and each mutation publishes an event on the window's bus so the
// presentation layer can redraw. The store itself has no UI dependency and is
// not safe for concurrent use; the editor drives it from a single goroutine.
package tabs

import (
	"github.com/turnip-editor/turnip/internal/errors"
	"github.com/turnip-editor/turnip/internal/event"
)

// Record describes one open file in the sidebar.
//
// Path is the absolute path of the backing file, or empty for a buffer that
// has never been saved. The cosmetic fields (DisplayName, Emoji, Icon) are
// optional per-tab overrides and round-trip through session files untouched.
type Record struct {
	Path        string
	Modified    bool
	Pinned      bool
	DisplayName string
	Emoji       string
	Icon        string
}

// Label returns the text the sidebar should show for this record:
// the display name override when set, otherwise the base name of the path,
// otherwise a placeholder for unsaved buffers.
func (r *Record) Label() string {
	if r.DisplayName != "" {
		return r.DisplayName
	}
	if r.Path != "" {
		return baseName(r.Path)
	}
	return "(untitled)"
}

// baseName returns the final path element without importing path/filepath
// semantics for Windows separators; session files always store slash paths.
func baseName(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[i+1:]
		}
	}
	return path
}

// Store is the ordered collection of open records.
//
// Invariant: records[0:pinnedCount] are exactly the pinned records, in order.
// At most one record is active at a time.
type Store struct {
	records []*Record
	active  *Record
	bus     *event.Bus
}

// NewStore creates an empty store. The bus may be nil, in which case
// mutations are silent; every non-nil bus receives one event per mutation.
func NewStore(bus *event.Bus) *Store {
	return &Store{bus: bus}
}

// Len returns the number of records in the store.
func (s *Store) Len() int {
	return len(s.records)
}

// PinnedCount returns the length of the pinned prefix.
func (s *Store) PinnedCount() int {
	n := 0
	for _, r := range s.records {
		if !r.Pinned {
			break
		}
		n++
	}
	return n
}

// At returns the record at index i, or nil when i is out of range.
func (s *Store) At(i int) *Record {
	if i < 0 || i >= len(s.records) {
		return nil
	}
	return s.records[i]
}

// IndexOf returns the position of rec, or -1 when rec is not in the store.
// Identity is pointer identity so that several unsaved buffers can coexist.
func (s *Store) IndexOf(rec *Record) int {
	for i, r := range s.records {
		if r == rec {
			return i
		}
	}
	return -1
}

// Find returns the record whose path equals path, or nil when no record
// matches. Unsaved buffers (empty path) are never matched.
func (s *Store) Find(path string) *Record {
	if path == "" {
		return nil
	}
	for _, r := range s.records {
		if r.Path == path {
			return r
		}
	}
	return nil
}

// Active returns the active record and its index, or (nil, -1) when the
// store is empty or nothing is active.
func (s *Store) Active() (*Record, int) {
	if s.active == nil {
		return nil, -1
	}
	return s.active, s.IndexOf(s.active)
}

// Insert adds rec at the end of its partition: pinned records go to the end
// of the pinned prefix, unpinned records to the end of the list. Returns the
// index the record landed at.
func (s *Store) Insert(rec *Record) (int, error) {
	if rec == nil {
		return -1, errors.NewValidationError("record cannot be nil")
	}
	if s.IndexOf(rec) != -1 {
		return -1, errors.NewTabError("record already in store", nil).WithPath(rec.Path)
	}

	idx := len(s.records)
	if rec.Pinned {
		idx = s.PinnedCount()
	}
	s.records = append(s.records, nil)
	copy(s.records[idx+1:], s.records[idx:])
	s.records[idx] = rec

	s.publish(event.NewTabOpenedEvent(rec.Path, idx, rec.Pinned))
	return idx, nil
}

// Activate makes rec the active record. It is an error to activate a record
// that is not in the store.
func (s *Store) Activate(rec *Record) error {
	idx := s.IndexOf(rec)
	if idx == -1 {
		return errors.NewTabError("cannot activate", errors.ErrTabNotFound).WithPath(pathOf(rec))
	}
	if s.active == rec {
		return nil
	}
	s.active = rec
	s.publish(event.NewTabActivatedEvent(rec.Path, idx))
	return nil
}

// SetPinned changes rec's pinned state and moves it to its new partition:
// pinning moves the record to the end of the pinned prefix, unpinning moves
// it to the start of the unpinned suffix. The relative order of all other
// records is preserved. A no-op when the state already matches.
func (s *Store) SetPinned(rec *Record, pinned bool) error {
	idx := s.IndexOf(rec)
	if idx == -1 {
		return errors.NewTabError("cannot change pin state", errors.ErrTabNotFound).WithPath(pathOf(rec))
	}
	if rec.Pinned == pinned {
		return nil
	}

	// Remove, flip, reinsert at the partition edge. Pinning lands at the end
	// of the pinned prefix; unpinning lands at the start of the unpinned
	// suffix. Both positions equal PinnedCount after removal.
	s.records = append(s.records[:idx], s.records[idx+1:]...)
	rec.Pinned = pinned
	target := s.PinnedCount()
	s.records = append(s.records, nil)
	copy(s.records[target+1:], s.records[target:])
	s.records[target] = rec

	s.publish(event.NewTabPinnedEvent(rec.Path, pinned, target))
	return nil
}

// Reorder moves rec to targetIndex within its own partition. A move that
// would cross the pinned boundary, or whose target is out of range, is a
// no-op: the caller pins or unpins first if it wants to cross. Returns true
// when the record actually moved.
func (s *Store) Reorder(rec *Record, targetIndex int) (bool, error) {
	idx := s.IndexOf(rec)
	if idx == -1 {
		return false, errors.NewTabError("cannot reorder", errors.ErrTabNotFound).WithPath(pathOf(rec))
	}
	if targetIndex < 0 || targetIndex >= len(s.records) || targetIndex == idx {
		return false, nil
	}

	// Both endpoints must sit in the same partition.
	pinned := s.PinnedCount()
	if (idx < pinned) != (targetIndex < pinned) {
		return false, nil
	}

	s.records = append(s.records[:idx], s.records[idx+1:]...)
	s.records = append(s.records, nil)
	copy(s.records[targetIndex+1:], s.records[targetIndex:])
	s.records[targetIndex] = rec

	s.publish(event.NewTabReorderedEvent(rec.Path, idx, targetIndex))
	return true, nil
}

// Remove deletes rec from the store. When rec was active, the right
// neighbor becomes active, falling back to the left neighbor, falling back
// to no active record when the store empties.
func (s *Store) Remove(rec *Record) error {
	idx := s.IndexOf(rec)
	if idx == -1 {
		return errors.NewTabError("cannot close", errors.ErrTabNotFound).WithPath(pathOf(rec))
	}

	wasActive := s.active == rec
	s.records = append(s.records[:idx], s.records[idx+1:]...)

	nextIndex := -1
	if wasActive {
		switch {
		case idx < len(s.records):
			s.active = s.records[idx] // right neighbor slid into idx
			nextIndex = idx
		case len(s.records) > 0:
			s.active = s.records[len(s.records)-1]
			nextIndex = len(s.records) - 1
		default:
			s.active = nil
		}
	} else if s.active != nil {
		nextIndex = s.IndexOf(s.active)
	}

	s.publish(event.NewTabClosedEvent(rec.Path, idx, nextIndex))
	if wasActive && s.active != nil {
		s.publish(event.NewTabActivatedEvent(s.active.Path, nextIndex))
	}
	return nil
}

// SetModified updates rec's modified flag. A no-op when the flag already
// matches; otherwise an event is published so the sidebar can redraw the
// dirty indicator.
func (s *Store) SetModified(rec *Record, modified bool) error {
	if s.IndexOf(rec) == -1 {
		return errors.NewTabError("cannot mark modified", errors.ErrTabNotFound).WithPath(pathOf(rec))
	}
	if rec.Modified == modified {
		return nil
	}
	rec.Modified = modified
	s.publish(event.NewTabModifiedEvent(rec.Path, modified))
	return nil
}

// Snapshot is a read-only view of the store at a point in time.
type Snapshot struct {
	Records     []Record // copies, in display order
	ActiveIndex int      // -1 when nothing is active
}

// Snapshot returns a copy of the current order and the active index.
// Mutating the returned records does not affect the store.
func (s *Store) Snapshot() Snapshot {
	snap := Snapshot{
		Records:     make([]Record, len(s.records)),
		ActiveIndex: -1,
	}
	for i, r := range s.records {
		snap.Records[i] = *r
		if r == s.active {
			snap.ActiveIndex = i
		}
	}
	return snap
}

// AnyModified reports whether any record carries unsaved changes.
func (s *Store) AnyModified() bool {
	for _, r := range s.records {
		if r.Modified {
			return true
		}
	}
	return false
}

func (s *Store) publish(e event.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

func pathOf(rec *Record) string {
	if rec == nil {
		return ""
	}
	return rec.Path
}
