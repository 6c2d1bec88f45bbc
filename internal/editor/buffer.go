// Package editor holds the text-level state of an open document: the buffer
// with its saved baseline, and the find/replace engine. Both are pure string
// logic with no UI or filesystem dependencies.
package editor

// Buffer is the content of one open document. Modified is not a flag that
// gets set and cleared; it is derived by comparing the content against the
// baseline captured at the last load or save, so undoing back to the saved
// text makes the buffer clean again.
type Buffer struct {
	content  string
	baseline string
}

// NewBuffer creates a buffer whose baseline is the given content, i.e. a
// freshly loaded, unmodified document.
func NewBuffer(content string) *Buffer {
	return &Buffer{content: content, baseline: content}
}

// Content returns the current text.
func (b *Buffer) Content() string { return b.content }

// SetContent replaces the current text. The baseline is untouched.
func (b *Buffer) SetContent(content string) { b.content = content }

// Modified reports whether the content differs from the saved baseline.
func (b *Buffer) Modified() bool { return b.content != b.baseline }

// MarkSaved captures the current content as the new baseline, typically
// right after a successful save.
func (b *Buffer) MarkSaved() { b.baseline = b.content }

// Revert discards edits, restoring the content to the baseline.
func (b *Buffer) Revert() { b.content = b.baseline }

// Reload replaces both content and baseline, as when the file changed on
// disk and the user chose to re-read it.
func (b *Buffer) Reload(content string) {
	b.content = content
	b.baseline = content
}
