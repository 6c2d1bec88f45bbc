// Package session persists tab groups as .tabs files and tracks workspace
// state between runs. The codec half of the package converts between store
// snapshots and the XML wire format; the manager half owns the current group
// file, the recent-groups history, and the auto-saved session.
package session

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/turnip-editor/turnip/internal/errors"
	"github.com/turnip-editor/turnip/internal/tabs"
)

// FormatVersion is the only session file version this build reads or writes.
const FormatVersion = "1.0"

// Tab is one persisted entry of a tab group. Field order mirrors the
// attribute order written to disk.
type Tab struct {
	Path        string
	Pinned      bool
	Icon        string
	Emoji       string
	DisplayName string
}

// Document is a decoded tab group: the entries in display order plus the
// index of the selected entry, -1 when nothing is selected.
type Document struct {
	Name    string
	Current int
	Tabs    []Tab
}

// xmlDocument mirrors the on-disk shape. Unknown attributes are dropped by
// encoding/xml, which gives forward compatibility for free.
type xmlDocument struct {
	XMLName xml.Name `xml:"tabs"`
	Version string   `xml:"version,attr"`
	Current string   `xml:"current,attr"`
	Name    string   `xml:"name,attr,omitempty"`
	Tabs    []xmlTab `xml:"tab"`
}

type xmlTab struct {
	Path        string `xml:"path,attr"`
	Pinned      string `xml:"pinned,attr"`
	Icon        string `xml:"icon,attr,omitempty"`
	Emoji       string `xml:"emoji,attr,omitempty"`
	DisplayName string `xml:"display_name,attr,omitempty"`
}

// Encode serializes a store snapshot as a .tabs document. The output is
// pretty-printed with two-space indentation. An empty snapshot produces a
// root element with no children and current="-1".
func Encode(snap tabs.Snapshot, name string) ([]byte, error) {
	doc := xmlDocument{
		Version: FormatVersion,
		Current: strconv.Itoa(snap.ActiveIndex),
		Name:    name,
	}
	for _, r := range snap.Records {
		doc.Tabs = append(doc.Tabs, xmlTab{
			Path:        r.Path,
			Pinned:      formatBool(r.Pinned),
			Icon:        r.Icon,
			Emoji:       r.Emoji,
			DisplayName: r.DisplayName,
		})
	}

	data, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, errors.NewSessionError("failed to encode tab group", err)
	}
	return append(data, '\n'), nil
}

// Decode parses a .tabs document. It returns ErrBadFormat (wrapped in a
// SessionError) when the root element is not <tabs> or the version is not
// supported. Entries without a path are skipped; a missing pinned attribute
// means unpinned; a current index outside the entry range decodes as no
// selection. Referenced paths are not checked against the filesystem.
func Decode(data []byte) (*Document, error) {
	var raw xmlDocument
	if err := xml.Unmarshal(data, &raw); err != nil {
		return nil, errors.NewSessionError("failed to decode tab group", errors.ErrBadFormat).
			WithSeverity(errors.SeverityWarning)
	}
	if raw.Version != FormatVersion {
		return nil, errors.NewSessionError(
			"unsupported session file version "+strconv.Quote(raw.Version), errors.ErrBadFormat)
	}

	doc := &Document{
		Name:    raw.Name,
		Current: -1,
	}
	for _, t := range raw.Tabs {
		if t.Path == "" {
			continue
		}
		doc.Tabs = append(doc.Tabs, Tab{
			Path:        t.Path,
			Pinned:      parseBool(t.Pinned),
			Icon:        t.Icon,
			Emoji:       t.Emoji,
			DisplayName: t.DisplayName,
		})
	}

	if n, err := strconv.Atoi(raw.Current); err == nil && n >= 0 && n < len(doc.Tabs) {
		doc.Current = n
	}
	return doc, nil
}

// Session files spell booleans "True" and "False". Accept any casing on the
// way in for tolerance toward hand-edited files.
func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) bool {
	return strings.EqualFold(s, "true")
}
