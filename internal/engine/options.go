package engine

import (
	"github.com/dshills/mapedit/internal/config"
)

// Option configures a Document during creation.
type Option func(*Document)

// WithConfig sets the object defaults, history depth and recent list size.
func WithConfig(cfg config.Config) Option {
	return func(d *Document) {
		d.cfg = cfg
	}
}

// WithHost sets the status/beep/redraw collaborator.
func WithHost(h Host) Option {
	return func(d *Document) {
		if h != nil {
			d.host = h
		}
	}
}

// WithMaxUndo overrides the configured undo depth. Zero keeps everything.
func WithMaxUndo(max int) Option {
	return func(d *Document) {
		if max >= 0 {
			d.maxUndo = &max
		}
	}
}
