package vm

import (
	"math"
	"strconv"
)

// Kind identifies the active variant of a Value.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	default:
		return "unknown"
	}
}

// Value is a script value. Its dynamic type is always one of Int, Float,
// String or Bool; the unexported method keeps other packages from adding
// variants.
type Value interface {
	Kind() Kind
	value()
}

// Int is a signed 64-bit integer value.
type Int int64

// Float is a double precision value.
type Float float64

// String is a text value.
type String string

// Bool is a boolean value.
type Bool bool

func (Int) Kind() Kind    { return KindInt }
func (Float) Kind() Kind  { return KindFloat }
func (String) Kind() Kind { return KindString }
func (Bool) Kind() Kind   { return KindBool }

func (Int) value()    {}
func (Float) value()  {}
func (String) value() {}
func (Bool) value()   {}

// Number coerces a value to a double.
// Bool is 1 or 0; strings are never numerically meaningful and yield 0.
func Number(v Value) float64 {
	switch v := v.(type) {
	case Int:
		return float64(v)
	case Float:
		return float64(v)
	case Bool:
		if v {
			return 1
		}
		return 0
	case String:
		return 0
	default:
		return 0
	}
}

// Render returns the text used when a value is interpolated into output.
// Integers print in decimal, floats in %g form with six significant digits,
// strings verbatim and booleans as a single + or - glyph.
func Render(v Value) string {
	switch v := v.(type) {
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Float:
		return formatFloat(float64(v))
	case String:
		return string(v)
	case Bool:
		if v {
			return "+"
		}
		return "-"
	default:
		return ""
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', 6, 64)
}
