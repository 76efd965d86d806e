package recent

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestInsertMovesToFront(t *testing.T) {
	l := New[string](3)
	l.Insert("GRAY1")
	l.Insert("STARTAN3")
	l.Insert("GRAY1")

	assert.Equal(t, []string{"GRAY1", "STARTAN3"}, l.Items())
}

func TestEvictsOldest(t *testing.T) {
	l := New[int](3)
	for _, v := range []int{1, 2, 3, 4} {
		l.Insert(v)
	}
	assert.Equal(t, []int{4, 3, 2}, l.Items())

	l.Insert(2)
	assert.Equal(t, []int{2, 4, 3}, l.Items())
}

func TestDefaultSizeAndClear(t *testing.T) {
	l := New[int](0)
	for i := 0; i < 40; i++ {
		l.Insert(i)
	}
	assert.Equal(t, DefaultSize, l.Len())

	l.Clear()
	assert.Equal(t, 0, l.Len())
}
