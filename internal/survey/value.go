package survey

import (
	"errors"
	"strconv"
	"strings"
)

// Value is an optional numeric cell. OK is false when the source cell was
// blank or could not be parsed; a present zero has OK set.
type Value struct {
	V  float64
	OK bool
}

// Some returns a present value.
func Some(v float64) Value { return Value{V: v, OK: true} }

// None returns an absent value.
func None() Value { return Value{} }

// ParseValue trims s and parses it as a float. Blank or malformed input is absent.
// Magnitudes beyond float64 range are kept as ±Inf.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	if s == "" {
		return None()
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return None()
	}
	return Some(f)
}
