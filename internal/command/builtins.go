package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/mapedit/internal/clipboard"
	"github.com/dshills/mapedit/internal/engine/level"
	"github.com/dshills/mapedit/internal/replace"
)

// Builtins returns a registry holding the standard editing commands.
func Builtins() *Registry {
	r := NewRegistry()

	r.Register("begin", cmdBegin, ContextNone, "begin [message]")
	r.Register("end", cmdEnd, ContextNone, "end")
	r.Register("abort", cmdAbort, ContextNone, "abort [keep]")
	r.Register("message", cmdMessage, ContextNone, "message <text>")
	r.Register("undo", cmdUndo, ContextNone, "undo")
	r.Register("redo", cmdRedo, ContextNone, "redo")

	r.Register("mode", cmdMode, ContextNone, "mode <kind>")
	r.Register("new", cmdNew, ContextNone, "new <kind> [args...]")
	r.Register("delete", cmdDelete, ContextNone, "delete [<kind> <index>]")
	r.Register("set", cmdSet, ContextNone, "set <kind> <index> <field> <value>")
	r.Register("get", cmdGet, ContextNone, "get <kind> <index> <field>")
	r.Register("move", cmdMove, ContextNone, "move <dx> <dy>")
	r.Register("spin", cmdSpin, ContextThings, "spin <degrees>")

	r.Register("select", cmdSelect, ContextNone, "select all|none|<index>...")
	r.Register("copy", cmdCopy, ContextNone, "copy")
	r.Register("paste", cmdPaste, ContextNone, "paste [dx dy]")

	r.Register("find", cmdFind, ContextNone, "find <mode> <match> [tags]")
	r.Register("next", cmdNext, ContextNone, "next")
	r.Register("find-all", cmdFindAll, ContextNone, "find-all")
	r.Register("replace", cmdReplace, ContextNone, "replace <value>")
	r.Register("replace-all", cmdReplaceAll, ContextNone, "replace-all <value>")

	r.Register("checksum", cmdChecksum, ContextNone, "checksum")
	r.Register("count", cmdCount, ContextNone, "count")
	r.Register("bounds", cmdBounds, ContextNone, "bounds")
	r.Register("history", cmdHistory, ContextNone, "history")
	r.Register("validate", cmdValidate, ContextNone, "validate")
	r.Register("clear", cmdClear, ContextNone, "clear")

	return r
}

func badArgs(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrBadArgs)
}

func wantArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return badArgs("usage: %s", usage)
	}
	return nil
}

func parseKind(s string) (level.ObjType, error) {
	kind, ok := level.ParseObjType(s)
	if !ok {
		return 0, badArgs("unknown kind %q", s)
	}
	return kind, nil
}

func parseInt(s string) (int, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, badArgs("bad number %q", s)
	}
	return int(n), nil
}

func parseInts(args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		n, err := parseInt(a)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

// index parses an index and checks that it addresses a live record.
func (s *Session) index(kind level.ObjType, arg string) (int, error) {
	n, err := parseInt(arg)
	if err != nil {
		return 0, err
	}
	if !s.Doc.Store().Has(kind, n) {
		return 0, badArgs("no %s #%d", kind, n)
	}
	return n, nil
}

// fieldValue parses a field value. Texture fields take a name; reference
// fields accept "-" for none and must address a live record.
func (s *Session) fieldValue(kind level.ObjType, field level.Field, arg string) (int, error) {
	if level.IsTextureField(kind, field) {
		return s.Doc.InternShort(strings.ToUpper(arg), 8), nil
	}
	v := int(level.NoRef)
	if arg != "-" {
		n, err := parseInt(arg)
		if err != nil {
			return 0, err
		}
		v = n
	}
	if err := s.Doc.CheckValue(kind, field, v); err != nil {
		return 0, badArgs("%v", err)
	}
	return v, nil
}

func cmdBegin(s *Session, args []string) error {
	if s.Doc.InTransaction() {
		return badArgs("transaction already open")
	}
	s.Doc.Begin()
	if len(args) > 0 {
		s.Doc.Message("%s", strings.Join(args, " "))
	}
	return nil
}

func cmdEnd(s *Session, _ []string) error {
	if !s.Doc.InTransaction() {
		return badArgs("no transaction open")
	}
	s.Doc.End()
	return nil
}

func cmdAbort(s *Session, args []string) error {
	if !s.Doc.InTransaction() {
		return badArgs("no transaction open")
	}
	s.Doc.Abort(len(args) > 0 && args[0] == "keep")
	return nil
}

func cmdMessage(s *Session, args []string) error {
	if !s.Doc.InTransaction() {
		return badArgs("no transaction open")
	}
	s.Doc.Message("%s", strings.Join(args, " "))
	return nil
}

func cmdUndo(s *Session, _ []string) error {
	if s.Doc.InTransaction() {
		return badArgs("cannot undo inside a transaction")
	}
	s.Doc.Undo()
	return nil
}

func cmdRedo(s *Session, _ []string) error {
	if s.Doc.InTransaction() {
		return badArgs("cannot redo inside a transaction")
	}
	s.Doc.Redo()
	return nil
}

func cmdMode(s *Session, args []string) error {
	if err := wantArgs(args, 1, "mode <kind>"); err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	s.SetMode(kind)
	return nil
}

func cmdNew(s *Session, args []string) error {
	if err := wantArgs(args, 1, "new <kind> [args...]"); err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	nums, err := parseInts(args[1:])
	if err != nil {
		return err
	}
	arg := func(i int) int {
		if i < len(nums) {
			return nums[i]
		}
		return 0
	}

	st := s.Doc.Store()
	switch kind {
	case level.SideDefs:
		if len(nums) < 1 {
			return badArgs("usage: new sidedef <sector> [two-sided]")
		}
		if !st.Has(level.Sectors, nums[0]) {
			return badArgs("no sector #%d", nums[0])
		}
	case level.LineDefs:
		if len(nums) < 2 {
			return badArgs("usage: new linedef <start> <end>")
		}
		if !st.Has(level.Vertices, nums[0]) || !st.Has(level.Vertices, nums[1]) {
			return badArgs("no such vertex")
		}
	}

	var n int
	err = s.Edit("added "+kind.Name(false), func() error {
		switch kind {
		case level.Things:
			n = s.Doc.NewThing(arg(0), arg(1))
		case level.Vertices:
			n = s.Doc.NewVertex(arg(0), arg(1))
		case level.Sectors:
			n = s.Doc.NewSector()
		case level.SideDefs:
			n = s.Doc.NewSideDef(level.Ref(arg(0)), arg(1) != 0)
		case level.LineDefs:
			n = s.Doc.NewLineDef(level.Ref(nums[0]), level.Ref(nums[1]))
		}
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "%s #%d\n", kind, n)
	return nil
}

func cmdDelete(s *Session, args []string) error {
	if len(args) >= 2 {
		kind, err := parseKind(args[0])
		if err != nil {
			return err
		}
		n, err := s.index(kind, args[1])
		if err != nil {
			return err
		}
		return s.Edit(fmt.Sprintf("deleted %s #%d", kind, n), func() error {
			s.Doc.Delete(kind, n)
			return nil
		})
	}

	if s.Sel.Empty() {
		s.Doc.Host().Beep("Nothing selected")
		return nil
	}
	kind := s.Sel.Kind()
	items := s.Sel.Items()

	return s.Edit("", func() error {
		s.Doc.MessageForSel("deleted", s.Sel, "")
		// highest first so the remaining indices stay put
		for i := len(items) - 1; i >= 0; i-- {
			if s.Doc.Store().Has(kind, items[i]) {
				s.Doc.Delete(kind, items[i])
			}
		}
		return nil
	})
}

func cmdSet(s *Session, args []string) error {
	if err := wantArgs(args, 4, "set <kind> <index> <field> <value>"); err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	n, err := s.index(kind, args[1])
	if err != nil {
		return err
	}
	field, ok := level.ParseField(kind, args[2])
	if !ok {
		return badArgs("%s has no field %q", kind, args[2])
	}
	value, err := s.fieldValue(kind, field, args[3])
	if err != nil {
		return err
	}

	label := fmt.Sprintf("edited %s of %s #%d", level.FieldName(kind, field), kind, n)
	return s.Edit(label, func() error {
		s.Doc.SetChange(kind, n, field, value)
		return nil
	})
}

func cmdGet(s *Session, args []string) error {
	if err := wantArgs(args, 3, "get <kind> <index> <field>"); err != nil {
		return err
	}
	kind, err := parseKind(args[0])
	if err != nil {
		return err
	}
	n, err := s.index(kind, args[1])
	if err != nil {
		return err
	}
	field, ok := level.ParseField(kind, args[2])
	if !ok {
		return badArgs("%s has no field %q", kind, args[2])
	}

	v := s.Doc.Store().Get(kind, n).Get(field)
	if level.IsTextureField(kind, field) {
		fmt.Fprintln(s.Out, s.Doc.Lookup(v))
	} else {
		fmt.Fprintln(s.Out, v)
	}
	return nil
}

func cmdMove(s *Session, args []string) error {
	if err := wantArgs(args, 2, "move <dx> <dy>"); err != nil {
		return err
	}
	d, err := parseInts(args[:2])
	if err != nil {
		return err
	}
	if s.Sel.Empty() {
		s.Doc.Host().Beep("Nothing selected")
		return nil
	}

	var xf, yf level.Field
	switch s.Sel.Kind() {
	case level.Things:
		xf, yf = level.ThingX, level.ThingY
	case level.Vertices:
		xf, yf = level.VertexX, level.VertexY
	default:
		return badArgs("cannot move %s", s.Sel.Kind().Name(true))
	}

	st := s.Doc.Store()
	kind := s.Sel.Kind()
	return s.Edit("", func() error {
		s.Doc.MessageForSel("moved", s.Sel, "")
		for _, n := range s.Sel.Items() {
			rec := st.Get(kind, n)
			s.Doc.Change(kind, n, xf, rec.Get(xf)+d[0])
			s.Doc.Change(kind, n, yf, rec.Get(yf)+d[1])
		}
		return nil
	})
}

func cmdSpin(s *Session, args []string) error {
	if err := wantArgs(args, 1, "spin <degrees>"); err != nil {
		return err
	}
	deg, err := parseInt(args[0])
	if err != nil {
		return err
	}
	if s.Sel.Empty() || s.Sel.Kind() != level.Things {
		s.Doc.Host().Beep("No things selected")
		return nil
	}

	st := s.Doc.Store()
	return s.Edit("", func() error {
		s.Doc.MessageForSel("spun", s.Sel, "")
		for _, n := range s.Sel.Items() {
			angle := (st.Thing(n).Angle + deg) % 360
			if angle < 0 {
				angle += 360
			}
			s.Doc.ChangeThing(n, level.ThingAngle, angle)
		}
		return nil
	})
}

func cmdSelect(s *Session, args []string) error {
	if err := wantArgs(args, 1, "select all|none|<index>..."); err != nil {
		return err
	}
	if s.Sel.Kind() != s.Mode {
		s.Sel.ChangeType(s.Mode)
	}
	switch args[0] {
	case "all":
		s.Sel.SetAll(s.Doc.Store().Count(s.Mode))
		return nil
	case "none":
		s.Sel.ClearAll()
		return nil
	}

	for _, a := range args {
		n, err := s.index(s.Mode, a)
		if err != nil {
			return err
		}
		s.Sel.Set(n)
	}
	return nil
}

func cmdCopy(s *Session, _ []string) error {
	if err := s.Clip.Copy(s.Doc.Store(), s.Sel); err != nil {
		if err == clipboard.ErrEmpty {
			s.Doc.Host().Beep("Nothing to copy")
			return nil
		}
		return err
	}
	fmt.Fprintf(s.Out, "copied %d %s\n", s.Clip.Count(), s.Clip.Kind().Name(s.Clip.Count() != 1))
	return nil
}

func cmdPaste(s *Session, args []string) error {
	var dx, dy int
	if len(args) >= 2 {
		d, err := parseInts(args[:2])
		if err != nil {
			return err
		}
		dx, dy = d[0], d[1]
	}
	if s.Doc.InTransaction() {
		return badArgs("cannot paste inside a transaction")
	}

	created, err := s.Clip.Paste(s.Doc, dx, dy)
	if err == clipboard.ErrEmpty {
		s.Doc.Host().Beep("Clipboard is empty")
		return nil
	}
	if err != nil {
		return err
	}

	s.SetMode(s.Clip.Kind())
	for _, n := range created {
		s.Sel.Set(n)
	}
	return nil
}

func cmdFind(s *Session, args []string) error {
	if err := wantArgs(args, 2, "find <mode> <match> [tags]"); err != nil {
		return err
	}
	mode, ok := replace.ParseMode(args[0])
	if !ok {
		return badArgs("unknown find mode %q", args[0])
	}
	s.Finder.SetMode(mode)
	if err := s.Finder.SetMatch(args[1]); err != nil {
		return err
	}
	tags := ""
	if len(args) > 2 {
		tags = args[2]
	}
	if err := s.Finder.SetTagFilter(tags); err != nil {
		return err
	}
	s.Mode = mode.Kind()
	s.Finder.FindNext()
	return nil
}

func cmdNext(s *Session, _ []string) error {
	s.Finder.FindNext()
	return nil
}

func cmdFindAll(s *Session, _ []string) error {
	n := s.Finder.All(false)
	fmt.Fprintf(s.Out, "found %d\n", n)
	return nil
}

func cmdReplace(s *Session, args []string) error {
	if err := wantArgs(args, 1, "replace <value>"); err != nil {
		return err
	}
	if s.Doc.InTransaction() {
		return badArgs("cannot replace inside a transaction")
	}
	if err := s.Finder.SetReplacement(args[0]); err != nil {
		return err
	}
	s.Finder.Replace()
	return nil
}

func cmdReplaceAll(s *Session, args []string) error {
	if err := wantArgs(args, 1, "replace-all <value>"); err != nil {
		return err
	}
	if s.Doc.InTransaction() {
		return badArgs("cannot replace inside a transaction")
	}
	if err := s.Finder.SetReplacement(args[0]); err != nil {
		return err
	}
	n := s.Finder.All(true)
	fmt.Fprintf(s.Out, "replaced %d\n", n)
	return nil
}

func cmdChecksum(s *Session, _ []string) error {
	fmt.Fprintf(s.Out, "%016x\n", s.Doc.Checksum())
	return nil
}

func cmdCount(s *Session, _ []string) error {
	st := s.Doc.Store()
	for _, kind := range level.AllObjTypes {
		fmt.Fprintf(s.Out, "%-9s %d\n", kind.Name(true), st.Count(kind))
	}
	return nil
}

func cmdBounds(s *Session, _ []string) error {
	b, ok := s.Cache.Bounds()
	if !ok {
		fmt.Fprintln(s.Out, "empty")
		return nil
	}
	fmt.Fprintf(s.Out, "%d %d %d %d\n", b.MinX, b.MinY, b.MaxX, b.MaxY)
	return nil
}

func cmdHistory(s *Session, _ []string) error {
	h := s.Doc.History()
	for i, info := range h.UndoInfo() {
		fmt.Fprintf(s.Out, "%3d  %s (%d)\n", i+1, info.Description, info.Operations)
	}
	if h.CanRedo() {
		fmt.Fprintf(s.Out, "     %d to redo\n", h.RedoCount())
	}
	return nil
}

func cmdValidate(s *Session, _ []string) error {
	if err := s.Doc.Validate(); err != nil {
		return err
	}
	fmt.Fprintln(s.Out, "ok")
	return nil
}

func cmdClear(s *Session, _ []string) error {
	if s.Doc.InTransaction() {
		return badArgs("cannot clear inside a transaction")
	}
	s.Doc.ClearAll()
	s.Sel.ClearAll()
	s.Finder.SetMode(s.Finder.Mode())
	return nil
}
