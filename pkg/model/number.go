package model

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
)

// Number is a numeric setting as the admin tool stores it: a JSON number,
// a string with a leading integer ("15", "15s"), or anything else, which
// leaves it unset. Unset numbers fall back to their default.
type Number struct {
	value float64
	set   bool
}

// NumberOf returns a set Number.
func NumberOf(v float64) Number {
	return Number{value: v, set: !math.IsNaN(v)}
}

// Value reports the number and whether it is set.
func (n Number) Value() (float64, bool) {
	return n.value, n.set
}

var leadingInt = regexp.MustCompile(`^\s*[+-]?\d+`)

// UnmarshalJSON never fails; values it cannot read leave n unset.
func (n *Number) UnmarshalJSON(data []byte) error {
	*n = Number{}
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	switch v := raw.(type) {
	case float64:
		*n = NumberOf(v)
	case string:
		m := leadingInt.FindString(v)
		if m == "" {
			return nil
		}
		// out of range digit runs parse to ±Inf and clamp like any other value
		f, _ := strconv.ParseFloat(m, 64)
		*n = NumberOf(f)
	}
	return nil
}

// MarshalJSON writes null for an unset number.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.set || math.IsInf(n.value, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(n.value)
}

// Clamp truncates n to an int within [lo, hi], or returns def when unset.
// Limits apply before the conversion so huge values land on hi.
func (n Number) Clamp(def, lo, hi int) int {
	if !n.set {
		return Clamp(def, lo, hi)
	}
	return int(math.Max(float64(lo), math.Min(float64(hi), n.value)))
}
