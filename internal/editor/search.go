package editor

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Options control how a search query matches.
type Options struct {
	CaseSensitive bool
	WholeWords    bool
}

// Match is one occurrence of a query, as byte offsets into the searched
// text, with End exclusive.
type Match struct {
	Start int
	End   int
}

// FindAll returns every non-overlapping occurrence of query in text, in
// order. An empty query matches nothing.
func FindAll(text, query string, opts Options) []Match {
	if query == "" {
		return nil
	}

	var matches []Match
	if opts.CaseSensitive {
		from := 0
		for {
			i := strings.Index(text[from:], query)
			if i < 0 {
				break
			}
			m := Match{Start: from + i, End: from + i + len(query)}
			if !opts.WholeWords || isWholeWord(text, m) {
				matches = append(matches, m)
				from = m.End
			} else {
				from = m.Start + 1
			}
		}
		return matches
	}

	// Case-insensitive matching folds rune by rune rather than lowering the
	// whole text, so byte offsets stay valid even when folding changes a
	// rune's encoded length.
	tr := []rune(text)
	qr := []rune(query)
	for i := range qr {
		qr[i] = unicode.ToLower(qr[i])
	}

	// Byte offset of each rune, plus a sentinel for the end of text.
	offsets := make([]int, len(tr)+1)
	pos := 0
	for i, r := range tr {
		offsets[i] = pos
		pos += len(string(r))
	}
	offsets[len(tr)] = pos

	for i := 0; i+len(qr) <= len(tr); i++ {
		matched := true
		for j, q := range qr {
			if unicode.ToLower(tr[i+j]) != q {
				matched = false
				break
			}
		}
		if !matched {
			continue
		}
		m := Match{Start: offsets[i], End: offsets[i+len(qr)]}
		if opts.WholeWords && !isWholeWord(text, m) {
			continue
		}
		if n := len(matches); n > 0 && m.Start < matches[n-1].End {
			continue // overlaps the previous match
		}
		matches = append(matches, m)
	}
	return matches
}

// isWholeWord reports whether the match is delimited by non-word runes
// (or the text edges) on both sides.
func isWholeWord(text string, m Match) bool {
	before, beforeSize := utf8.DecodeLastRuneInString(text[:m.Start])
	after, afterSize := utf8.DecodeRuneInString(text[m.End:])
	return (beforeSize == 0 || !isWordRune(before)) &&
		(afterSize == 0 || !isWordRune(after))
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Next returns the first match starting at or after the byte position from,
// wrapping to the first match when none follows. ok is false when matches
// is empty.
func Next(matches []Match, from int) (m Match, ok bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	for _, c := range matches {
		if c.Start >= from {
			return c, true
		}
	}
	return matches[0], true
}

// Prev returns the last match starting before the byte position from,
// wrapping to the final match when none precedes it.
func Prev(matches []Match, from int) (m Match, ok bool) {
	if len(matches) == 0 {
		return Match{}, false
	}
	for i := len(matches) - 1; i >= 0; i-- {
		if matches[i].Start < from {
			return matches[i], true
		}
	}
	return matches[len(matches)-1], true
}

// Replace substitutes replacement for the matched range and returns the new
// text. The match must refer to offsets within text.
func Replace(text string, m Match, replacement string) string {
	return text[:m.Start] + replacement + text[m.End:]
}

// ReplaceAll substitutes replacement for every occurrence of query and
// returns the new text and the number of replacements.
func ReplaceAll(text, query, replacement string, opts Options) (string, int) {
	matches := FindAll(text, query, opts)
	if len(matches) == 0 {
		return text, 0
	}

	var b strings.Builder
	last := 0
	for _, m := range matches {
		b.WriteString(text[last:m.Start])
		b.WriteString(replacement)
		last = m.End
	}
	b.WriteString(text[last:])
	return b.String(), len(matches)
}
