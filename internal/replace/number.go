package replace

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// MaxRanges bounds a NumberGroup; further ranges are silently dropped.
const MaxRanges = 40

// NumberGroup is a small set of numbers and inclusive ranges, as typed
// into a match box: "1,3-5,9", "0x10..0x1f", "*".
type NumberGroup struct {
	ranges     [][2]int
	everything bool
}

// Clear empties the group.
func (g *NumberGroup) Clear() {
	g.ranges = g.ranges[:0]
	g.everything = false
}

// Empty reports whether the group holds nothing.
func (g *NumberGroup) Empty() bool {
	return len(g.ranges) == 0
}

// IsSingle reports whether the group is exactly one number.
func (g *NumberGroup) IsSingle() bool {
	return len(g.ranges) == 1 && g.ranges[0][0] == g.ranges[0][1]
}

// IsEverything reports whether the group was "*".
func (g *NumberGroup) IsEverything() bool {
	return g.everything
}

// First returns the low end of the first range, or 0.
func (g *NumberGroup) First() int {
	if len(g.ranges) == 0 {
		return 0
	}
	return g.ranges[0][0]
}

func (g *NumberGroup) insert(low, high int) {
	if len(g.ranges) >= MaxRanges {
		return
	}
	g.ranges = append(g.ranges, [2]int{low, high})
}

// Get reports whether n is in the group.
func (g *NumberGroup) Get(n int) bool {
	for _, r := range g.ranges {
		if r[0] <= n && n <= r[1] {
			return true
		}
	}
	return false
}

// Parse adds the numbers and ranges in s to the group. Numbers may be
// decimal, 0x hex or 0 octal; ranges use "-" or ".."; items are separated
// by ",", "/" or "|". A leading "*" matches everything. Empty and malformed
// strings fail with ErrBadMatch.
func (g *NumberGroup) Parse(s string) error {
	rest := s
	for {
		if strings.HasPrefix(rest, "*") {
			g.insert(math.MinInt, math.MaxInt)
			g.everything = true
			return nil
		}

		low, tail, ok := leadingNumber(rest)
		if !ok {
			return fmt.Errorf("%q: %w", s, ErrBadMatch)
		}
		high := low
		rest = strings.TrimLeft(tail, " \t")

		if strings.HasPrefix(rest, "-") || strings.HasPrefix(rest, "..") {
			if rest[0] == '-' {
				rest = rest[1:]
			} else {
				rest = rest[2:]
			}
			rest = strings.TrimLeft(rest, " \t")

			high, tail, ok = leadingNumber(rest)
			if !ok || high < low {
				return fmt.Errorf("%q: %w", s, ErrBadMatch)
			}
			rest = strings.TrimLeft(tail, " \t")
		}

		g.insert(low, high)

		if rest == "" {
			return nil
		}
		switch rest[0] {
		case ',', '/', '|':
			rest = rest[1:]
		default:
			return fmt.Errorf("%q: %w", s, ErrBadMatch)
		}
	}
}

// leadingNumber parses an optionally signed integer at the start of s,
// after leading blanks, and returns the remainder.
func leadingNumber(s string) (int, string, bool) {
	s = strings.TrimLeft(s, " \t")

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if i+1 < len(s) && s[i] == '0' && (s[i+1] == 'x' || s[i+1] == 'X') {
		i += 2
		for i < len(s) && isHex(s[i]) {
			i++
		}
	} else {
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
	}

	n, err := strconv.ParseInt(s[:i], 0, 64)
	if err != nil {
		return 0, s, false
	}
	return int(n), s[i:], true
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
