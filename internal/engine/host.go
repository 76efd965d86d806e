package engine

// Host receives user-facing feedback from the document.
type Host interface {
	// Status shows a one-line message, e.g. "Undo: moved 3 things".
	Status(msg string)

	// Beep signals a non-fatal failure.
	Beep(msg string)

	// RedrawMap is called when a batch really changed the map.
	RedrawMap()
}

type nopHost struct{}

func (nopHost) Status(string) {}
func (nopHost) Beep(string)   {}
func (nopHost) RedrawMap()    {}

// HostFuncs adapts optional functions to a Host. Nil fields are skipped.
type HostFuncs struct {
	StatusFunc func(msg string)
	BeepFunc   func(msg string)
	RedrawFunc func()
}

func (h HostFuncs) Status(msg string) {
	if h.StatusFunc != nil {
		h.StatusFunc(msg)
	}
}

func (h HostFuncs) Beep(msg string) {
	if h.BeepFunc != nil {
		h.BeepFunc(msg)
	}
}

func (h HostFuncs) RedrawMap() {
	if h.RedrawFunc != nil {
		h.RedrawFunc()
	}
}
