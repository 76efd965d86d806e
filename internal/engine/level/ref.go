package level

import "golang.org/x/exp/constraints"

// Ref is a positional reference to another record. NoRef marks an absent
// optional reference; any other value must lie in [0, count) of the
// referenced kind.
type Ref int

// NoRef is the absent reference.
const NoRef Ref = -1

// IsSet reports whether the reference points at a record.
func (r Ref) IsSet() bool {
	return r >= 0
}

// Valid reports whether r is NoRef or addresses one of count records.
func (r Ref) Valid(count int) bool {
	return r == NoRef || (r >= 0 && int(r) < count)
}

// shiftUp moves a reference past a slot opened at index.
func shiftUp[T constraints.Signed](ref *T, index T) {
	if *ref >= index {
		*ref++
	}
}

// shiftDown closes the gap left by a slot removed at index. The removed
// slot's own referents are the caller's concern.
func shiftDown[T constraints.Signed](ref *T, index T) {
	if *ref > index {
		*ref--
	}
}
