// Package mapcache holds derived map data that is expensive to recompute:
// the map bounding box and per-vertex linedef counts.
//
// The cache listens on the document bus and marks itself stale on relevant
// edits; values are rebuilt on the next query.
package mapcache

import (
	"math"

	"github.com/golang/glog"

	"github.com/dshills/mapedit/internal/engine/level"
)

// Bounds is an axis-aligned box in map units.
type Bounds struct {
	MinX, MinY int
	MaxX, MaxY int
}

// Cache derives data from a store.
type Cache struct {
	st *level.Store

	bounds      Bounds
	boundsValid bool

	usage      []int
	usageValid bool

	// Recalcs counts rebuilds, for tests and diagnostics.
	Recalcs int
}

// New creates a cache over st.
func New(st *level.Store) *Cache {
	return &Cache{st: st}
}

// Bounds returns the box enclosing every vertex; ok is false for an empty map.
func (c *Cache) Bounds() (b Bounds, ok bool) {
	if len(c.st.Vertices) == 0 {
		return Bounds{}, false
	}
	if !c.boundsValid {
		c.calcBounds()
	}
	return c.bounds, true
}

func (c *Cache) calcBounds() {
	b := Bounds{MinX: math.MaxInt, MinY: math.MaxInt, MaxX: math.MinInt, MaxY: math.MinInt}
	for _, V := range c.st.Vertices {
		b.MinX = min(b.MinX, V.X)
		b.MinY = min(b.MinY, V.Y)
		b.MaxX = max(b.MaxX, V.X)
		b.MaxY = max(b.MaxY, V.Y)
	}
	c.bounds = b
	c.boundsValid = true
	c.Recalcs++
	glog.V(3).Infof("[mapcache]bounds %+v\n", b)
}

// VertexUsage returns how many linedef ends use vertex v.
func (c *Cache) VertexUsage(v int) int {
	if !c.usageValid {
		c.calcUsage()
	}
	if v < 0 || v >= len(c.usage) {
		return 0
	}
	return c.usage[v]
}

func (c *Cache) calcUsage() {
	c.usage = make([]int, len(c.st.Vertices))
	for _, L := range c.st.LineDefs {
		if L.Start.Valid(len(c.usage)) && L.Start.IsSet() {
			c.usage[L.Start]++
		}
		if L.End.Valid(len(c.usage)) && L.End.IsSet() {
			c.usage[L.End]++
		}
	}
	c.usageValid = true
	c.Recalcs++
}

// Invalidate drops every cached value.
func (c *Cache) Invalidate() {
	c.boundsValid = false
	c.usageValid = false
}

func (c *Cache) NotifyBegin() {}
func (c *Cache) NotifyEnd()   {}

func (c *Cache) NotifyInsert(kind level.ObjType, _ int) {
	c.touch(kind)
}

func (c *Cache) NotifyDelete(kind level.ObjType, _ int) {
	c.touch(kind)
}

func (c *Cache) NotifyChange(kind level.ObjType, _ int, field level.Field) {
	switch kind {
	case level.Vertices:
		c.boundsValid = false
	case level.LineDefs:
		if field == level.LineStart || field == level.LineEnd {
			c.usageValid = false
		}
	}
}

func (c *Cache) touch(kind level.ObjType) {
	switch kind {
	case level.Vertices:
		c.boundsValid = false
		c.usageValid = false
	case level.LineDefs:
		c.usageValid = false
	}
}

// ClearLocals drops everything when the document is cleared.
func (c *Cache) ClearLocals() {
	c.Invalidate()
}
