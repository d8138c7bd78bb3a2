// Package source prints a window of source text around the line a debuggee
// is paused at.
package source

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultLines is the window size on either side when no argument is given.
const DefaultLines = 10

// Bounds is the number of lines shown before and after the current line.
type Bounds struct {
	Lower int
	Upper int
}

// DefaultBounds returns the window used when the command has no arguments.
func DefaultBounds() Bounds {
	return Bounds{Lower: DefaultLines, Upper: DefaultLines}
}

// ParseBounds reads "[lower] [upper]" from args. Missing values come from
// defaults. Lower is made non-negative; upper is taken as given.
func ParseBounds(args string, defaults Bounds) (Bounds, error) {
	b := defaults

	fields := strings.Fields(args)
	if len(fields) == 0 {
		return b, nil
	}

	lower, err := strconv.Atoi(fields[0])
	if err != nil || lower == math.MinInt {
		return Bounds{}, fmt.Errorf("%w %q", ErrInvalidLowerBound, fields[0])
	}
	if lower < 0 {
		lower = -lower
	}
	b.Lower = lower

	rest := strings.TrimSpace(strings.Join(fields[1:], " "))
	if rest == "" {
		return b, nil
	}

	upper, err := strconv.Atoi(rest)
	if err != nil {
		return Bounds{}, fmt.Errorf("%w %q", ErrInvalidUpperBound, rest)
	}
	b.Upper = upper

	return b, nil
}
