// Package strtab interns texture and flat names into stable integer offsets.
//
// Offsets are never reused for different text and never invalidated while
// the table lives. Clearing a document does not clear its table: the
// clipboard may still hold offsets that must keep resolving.
package strtab

import (
	"strings"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Table maps strings to offsets and back.
type Table struct {
	ids  map[string]int
	strs []string
}

// New creates a table. Offset 0 is always the empty string.
func New() *Table {
	t := &Table{ids: make(map[string]int)}
	t.Clear()
	return t
}

// Add interns s and returns its offset.
func (t *Table) Add(s string) int {
	if id, ok := t.ids[s]; ok {
		return id
	}
	id := len(t.strs)
	t.strs = append(t.strs, s)
	t.ids[s] = id
	return id
}

// AddShort interns at most maxLen bytes of s, stopping at a NUL. Used for
// fixed-width lump names.
func (t *Table) AddShort(s string, maxLen int) int {
	if len(s) > maxLen {
		s = s[:maxLen]
	}
	if i := strings.IndexByte(s, 0); i >= 0 {
		s = s[:i]
	}
	return t.Add(s)
}

// Get returns the text behind an offset.
func (t *Table) Get(offset int) string {
	if offset < 0 || offset >= len(t.strs) {
		level.Bugf(level.ErrIndexOutOfRange, "strtab: offset %d (size %d)", offset, len(t.strs))
	}
	return t.strs[offset]
}

// Len returns the number of distinct strings, including the empty string.
func (t *Table) Len() int {
	return len(t.strs)
}

// Clear forgets every string. Only safe when no record or clipboard still
// holds an offset.
func (t *Table) Clear() {
	clear(t.ids)
	t.strs = t.strs[:0]
	t.Add("")
}
