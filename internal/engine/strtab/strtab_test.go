package strtab

import (
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestAddAndGet(t *testing.T) {
	tab := New()

	a := tab.Add("GRAY1")
	b := tab.Add("FLAT1")
	c := tab.Add("GRAY1")

	assert.Equal(t, a, c)
	assert.NotEqual(t, a, b)
	assert.Equal(t, "GRAY1", tab.Get(a))
	assert.Equal(t, "FLAT1", tab.Get(b))
	assert.Equal(t, "", tab.Get(0))
	assert.Equal(t, 3, tab.Len())
}

func TestAddShort(t *testing.T) {
	tab := New()

	tests := []struct {
		in   string
		want string
	}{
		{"STARTAN3", "STARTAN3"},
		{"BIGDOOR2XYZ", "BIGDOOR2"},
		{"SKY1\x00\x00\x00\x00", "SKY1"},
		{"-", "-"},
	}
	for _, tt := range tests {
		got := tab.Get(tab.AddShort(tt.in, 8))
		if got != tt.want {
			t.Errorf("AddShort(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOffsetsStableAcrossGrowth(t *testing.T) {
	tab := New()
	first := tab.Add("NUKAGE1")
	for i := 0; i < 1000; i++ {
		tab.Add(string(rune('A'+i%26)) + string(rune('a'+i/26%26)))
	}
	assert.Equal(t, "NUKAGE1", tab.Get(first))
}

func TestClear(t *testing.T) {
	tab := New()
	tab.Add("FLOOR4_8")
	tab.Clear()
	assert.Equal(t, 1, tab.Len())
	assert.Equal(t, 1, tab.Add("CEIL3_5"))
}

func TestGetBadOffsetPanics(t *testing.T) {
	tab := New()
	defer func() {
		if recover() == nil {
			t.Error("expected panic for unknown offset")
		}
	}()
	tab.Get(5)
}
