package features

import (
	"strconv"
)

// Kind tags the variant held by a Value.
type Kind int

const (
	KindString Kind = iota
	KindNumber
)

// Value is a per-request feature value: either a raw string or a number.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric Value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind reports which variant v holds.
func (v Value) Kind() Kind {
	return v.kind
}

// Text returns the string form of v. Numbers are formatted the shortest way.
func (v Value) Text() string {
	if v.kind == KindNumber {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Float returns the number held by v. String values are never coerced here:
// categorical strings must be encoded before they reach the vector.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// parseFloat is the lenient parse used by categorization; it accepts both variants.
func (v Value) parseFloat() (float64, bool) {
	if v.kind == KindNumber {
		return v.num, true
	}
	f, err := strconv.ParseFloat(v.str, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Record maps a feature name to its value for the lifetime of one request.
type Record map[string]Value
