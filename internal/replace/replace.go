// Package replace implements find and replace over map objects.
//
// A Finder searches one object kind by a match expression: a NumberGroup
// of thing, linedef or sector types, or a wildcard texture name. An
// optional tag filter and a thing skill/mode filter narrow the matches.
// Results are reported through the document Host and reflected in a
// selection.
package replace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/match"

	"github.com/dshills/mapedit/internal/engine"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/selection"
)

var (
	// ErrBadMatch indicates a malformed match or tag expression.
	ErrBadMatch = errors.New("bad match expression")

	// ErrBadReplace indicates a replacement that does not suit the mode.
	ErrBadReplace = errors.New("bad replacement")
)

// Mode selects what the Finder searches.
type Mode int

// Search modes.
const (
	ModeThings Mode = iota
	ModeLineTextures
	ModeSectorFlats
	ModeLineTypes
	ModeSectorTypes
)

var modeNames = []string{"things", "textures", "flats", "linetypes", "sectortypes"}

// String returns the mode name.
func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ParseMode looks a mode up by name.
func ParseMode(s string) (Mode, bool) {
	s = strings.ToLower(s)
	for i, n := range modeNames {
		if n == s {
			return Mode(i), true
		}
	}
	return 0, false
}

// Kind returns the object kind searched in this mode.
func (m Mode) Kind() level.ObjType {
	switch m {
	case ModeThings:
		return level.Things
	case ModeLineTextures, ModeLineTypes:
		return level.LineDefs
	default:
		return level.Sectors
	}
}

func (m Mode) byName() bool {
	return m == ModeLineTextures || m == ModeSectorFlats
}

// Tri is a three-state filter check: don't care, must be set, must be clear.
type Tri int

// Filter states.
const (
	TriAny Tri = iota
	TriOn
	TriOff
)

// ThingFilter restricts thing matches by skill and game mode.
type ThingFilter struct {
	Easy, Medium, Hard Tri
	SP, Coop, DM       Tri
}

// FlagMask turns the filter into an options mask and the value the masked
// options must equal. Game modes are stored as "not in" flags, so their
// sense is inverted. Without separate coop/dm flags (vanilla Doom) only DM
// applies, as the multiplayer-only flag.
func (f ThingFilter) FlagMask(coopDMFlags bool) (mask, value int) {
	flag := func(t Tri, invert bool, bit int) {
		if t == TriAny {
			return
		}
		mask |= bit
		if (t == TriOn) != invert {
			value |= bit
		}
	}

	flag(f.Easy, false, level.MTFEasy)
	flag(f.Medium, false, level.MTFMedium)
	flag(f.Hard, false, level.MTFHard)

	if coopDMFlags {
		flag(f.SP, true, level.MTFNotSP)
		flag(f.Coop, true, level.MTFNotCoop)
		flag(f.DM, true, level.MTFNotDM)
	} else {
		flag(f.DM, false, level.MTFNotSP)
	}
	return mask, value
}

// Finder walks a document looking for matching objects.
type Finder struct {
	doc *engine.Document
	sel *selection.Set

	mode Mode

	match   string
	numbers NumberGroup
	pattern string

	replacement string
	repNumber   int

	filter  bool
	tags    NumberGroup
	Options ThingFilter

	// CoopDMFlags selects Boom-style separate not-coop/not-dm flags.
	CoopDMFlags bool

	cur int

	optMask, optValue int
}

// New creates a Finder over doc. sel, if not nil, receives the matches.
func New(doc *engine.Document, sel *selection.Set) *Finder {
	return &Finder{doc: doc, sel: sel, cur: -1}
}

// Mode returns the search mode.
func (f *Finder) Mode() Mode { return f.mode }

// SetMode switches the search mode and forgets the match.
func (f *Finder) SetMode(m Mode) {
	f.mode = m
	f.match = ""
	f.numbers.Clear()
	f.pattern = ""
	f.replacement = ""
	f.cur = -1
}

// Current returns the index of the last object found, or -1.
func (f *Finder) Current() int { return f.cur }

// SetMatch sets what to look for: a NumberGroup for type modes, a texture
// name with * and ? wildcards for texture modes.
func (f *Finder) SetMatch(s string) error {
	s = strings.TrimSpace(s)
	f.cur = -1
	f.match = ""

	if f.mode.byName() {
		if s == "" {
			return fmt.Errorf("empty name: %w", ErrBadMatch)
		}
		f.pattern = strings.ToUpper(s)
		f.match = s
		return nil
	}

	f.numbers.Clear()
	if err := f.numbers.Parse(s); err != nil {
		return err
	}
	f.match = s
	return nil
}

// SetReplacement sets the replacement: a type number, or a texture name
// of at most eight characters.
func (f *Finder) SetReplacement(s string) error {
	s = strings.TrimSpace(s)
	f.replacement = ""

	if f.mode.byName() {
		if s == "" || len(s) > 8 || strings.ContainsAny(s, "*?") {
			return fmt.Errorf("%q: %w", s, ErrBadReplace)
		}
		f.replacement = strings.ToUpper(s)
		return nil
	}

	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q: %w", s, ErrBadReplace)
	}
	f.replacement = s
	f.repNumber = n
	return nil
}

// SetTagFilter restricts matches to the given tags. An empty string turns
// the filter off.
func (f *Finder) SetTagFilter(s string) error {
	f.tags.Clear()
	f.filter = false
	if strings.TrimSpace(s) == "" {
		return nil
	}
	if err := f.tags.Parse(s); err != nil {
		return err
	}
	f.filter = true
	return nil
}

func (f *Finder) prepare() bool {
	if f.match == "" {
		f.doc.Host().Beep("No find active!")
		return false
	}
	f.optMask, f.optValue = f.Options.FlagMask(f.CoopDMFlags)
	return true
}

func (f *Finder) resetSelection() {
	if f.sel == nil {
		return
	}
	if f.sel.Kind() != f.mode.Kind() {
		f.sel.ChangeType(f.mode.Kind())
	} else {
		f.sel.ClearAll()
	}
}

// FindNext looks for the next match after the current object.
func (f *Finder) FindNext() bool {
	if !f.prepare() {
		return false
	}
	f.resetSelection()

	first := f.cur < 0
	st := f.doc.Store()
	total := st.Count(f.mode.Kind())

	for idx := f.cur + 1; idx < total; idx++ {
		if f.matches(st, idx) {
			f.cur = idx
			if f.sel != nil {
				f.sel.Set(idx)
			}
			f.doc.Host().Status(fmt.Sprintf("Found #%d", idx))
			return true
		}
	}

	f.cur = -1
	if first {
		f.doc.Host().Beep("Nothing found")
	} else {
		f.doc.Host().Beep("No more found")
	}
	return false
}

// Replace applies the replacement to the current object in its own
// transaction, then moves on to the next match.
func (f *Finder) Replace() bool {
	if f.match == "" || f.replacement == "" {
		f.doc.Host().Beep("Bad replace")
		return false
	}
	if f.cur < 0 || f.cur >= f.doc.Store().Count(f.mode.Kind()) {
		f.doc.Host().Beep("No object to replace")
		return false
	}

	f.doc.Begin()
	f.doc.Message("replaced %s #%d", f.mode.Kind(), f.cur)
	f.apply(f.doc.Store(), f.cur)
	f.doc.End()

	f.FindNext()
	return true
}

// All selects every match, and with replace set also replaces them all in
// one transaction. It returns the number of matches.
func (f *Finder) All(replace bool) int {
	if !f.prepare() {
		return 0
	}
	if replace && f.replacement == "" {
		f.doc.Host().Beep("Bad replace")
		return 0
	}

	kind := f.mode.Kind()
	if replace {
		f.doc.Begin()
	}
	if f.sel != nil {
		f.sel.ChangeType(kind)
	}

	st := f.doc.Store()
	total := st.Count(kind)
	count := 0

	for idx := 0; idx < total; idx++ {
		if !f.matches(st, idx) {
			continue
		}
		count++
		if replace {
			f.apply(st, idx)
		}
		if f.sel != nil {
			f.sel.Set(idx)
		}
	}

	if count == 0 {
		f.doc.Host().Beep("Nothing found")
	} else {
		f.doc.Host().Status(fmt.Sprintf("Found %d objects", count))
	}

	if replace {
		f.doc.Message("replaced %d %s", count, kind.Name(count != 1))
		f.doc.End()
		f.cur = -1
	}
	return count
}

func (f *Finder) matches(st *level.Store, idx int) bool {
	switch f.mode {
	case ModeThings:
		T := st.Thing(idx)
		if !f.numbers.Get(T.Type) {
			return false
		}
		return T.Options&f.optMask == f.optValue

	case ModeLineTypes:
		L := st.LineDef(idx)
		return f.numbers.Get(L.Type) && f.filterTag(L.Tag)

	case ModeSectorTypes:
		S := st.Sector(idx)
		return f.numbers.Get(S.Type) && f.filterTag(S.Tag)

	case ModeLineTextures:
		L := st.LineDef(idx)
		if !f.filterTag(L.Tag) {
			return false
		}
		return len(f.lineFields(st, L)) > 0

	case ModeSectorFlats:
		S := st.Sector(idx)
		if !f.filterTag(S.Tag) {
			return false
		}
		return len(f.sectorFields(S)) > 0
	}
	return false
}

func (f *Finder) filterTag(tag int) bool {
	if !f.filter {
		return true
	}
	return f.tags.Get(tag)
}

func (f *Finder) nameMatches(offset int) bool {
	return match.Match(strings.ToUpper(f.doc.Lookup(offset)), f.pattern)
}

type sideField struct {
	side  int
	field level.Field
}

// lineFields lists the texture slots of L's sides that match.
func (f *Finder) lineFields(st *level.Store, L *level.LineDef) []sideField {
	var out []sideField
	for _, sd := range []level.Ref{L.Right, L.Left} {
		if !sd.IsSet() {
			continue
		}
		S := st.SideDef(int(sd))
		for _, fld := range []level.Field{level.SideUpperTex, level.SideMidTex, level.SideLowerTex} {
			if f.nameMatches(S.Get(fld)) {
				out = append(out, sideField{side: int(sd), field: fld})
			}
		}
	}
	return out
}

func (f *Finder) sectorFields(S *level.Sector) []level.Field {
	var out []level.Field
	for _, fld := range []level.Field{level.SectorFloorTex, level.SectorCeilTex} {
		if f.nameMatches(S.Get(fld)) {
			out = append(out, fld)
		}
	}
	return out
}

func (f *Finder) apply(st *level.Store, idx int) {
	switch f.mode {
	case ModeThings:
		f.doc.ChangeThing(idx, level.ThingType, f.repNumber)

	case ModeLineTypes:
		f.doc.ChangeLineDef(idx, level.LineType, f.repNumber)

	case ModeSectorTypes:
		f.doc.ChangeSector(idx, level.SectorType, f.repNumber)

	case ModeLineTextures:
		tex := f.doc.Intern(f.replacement)
		for _, sf := range f.lineFields(st, st.LineDef(idx)) {
			f.doc.ChangeSideDef(sf.side, sf.field, tex)
		}

	case ModeSectorFlats:
		tex := f.doc.Intern(f.replacement)
		for _, fld := range f.sectorFields(st.Sector(idx)) {
			f.doc.ChangeSector(idx, fld, tex)
		}
	}
}
