// value.go — the Minilux runtime value model.
//
// A Value is a tagged sum over int, text, list-of-values, and the absent
// value Nil. All operations here are pure and total: division and modulo
// by zero yield Nil, type-mismatched arithmetic yields Nil, and mixed-type
// comparisons either coerce or report "incomparable". Nothing in this file
// can fail.
package minilux

import (
	"strconv"
	"strings"
)

// ValueTag enumerates the runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil ValueTag = iota // absent (no payload)
	VTInt
	VTStr
	VTArray
)

// Value is the tagged runtime value. For VTInt the payload is Num, for
// VTStr it is Text, for VTArray it is Elems. VTNil carries nothing.
type Value struct {
	Tag   ValueTag
	Num   int64
	Text  string
	Elems []Value
}

// Nil is the absent value. Distinct from every error condition: a caller
// cannot tell "divide by zero" from "no input".
var Nil = Value{Tag: VTNil}

// Int wraps an integer.
func Int(n int64) Value { return Value{Tag: VTInt, Num: n} }

// Str wraps a text value.
func Str(s string) Value { return Value{Tag: VTStr, Text: s} }

// Arr wraps a list value. The slice is owned by the returned Value.
func Arr(xs []Value) Value { return Value{Tag: VTArray, Elems: xs} }

// Bool renders a truth as the canonical int 1/0.
func Bool(b bool) Value {
	if b {
		return Int(1)
	}
	return Int(0)
}

// Clone returns a structurally independent deep copy. Values are always
// copied across variable slots and list elements; no aliasing.
func (v Value) Clone() Value {
	if v.Tag != VTArray {
		return v
	}
	elems := make([]Value, len(v.Elems))
	for i, e := range v.Elems {
		elems[i] = e.Clone()
	}
	return Arr(elems)
}

// String renders the value for output: ints in decimal, text verbatim,
// lists as "[a, b]", Nil as "nil".
func (v Value) String() string {
	switch v.Tag {
	case VTInt:
		return strconv.FormatInt(v.Num, 10)
	case VTStr:
		return v.Text
	case VTArray:
		items := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			items[i] = e.String()
		}
		return "[" + strings.Join(items, ", ") + "]"
	}
	return "nil"
}

// ToInt coerces to an integer: text parses as a decimal int or 0, lists
// and Nil are 0.
func (v Value) ToInt() int64 {
	switch v.Tag {
	case VTInt:
		return v.Num
	case VTStr:
		n, err := strconv.ParseInt(v.Text, 10, 64)
		if err != nil {
			return 0
		}
		return n
	}
	return 0
}

// Truthy reports whether the value counts as true: nonzero int, non-empty
// text, non-empty list. Nil is always false.
func (v Value) Truthy() bool {
	switch v.Tag {
	case VTInt:
		return v.Num != 0
	case VTStr:
		return v.Text != ""
	case VTArray:
		return len(v.Elems) > 0
	}
	return false
}

// Equals compares two values, coercing int<->text via string conversion.
// Lists never compare equal to anything, including other lists.
func (v Value) Equals(o Value) bool {
	switch {
	case v.Tag == VTInt && o.Tag == VTInt:
		return v.Num == o.Num
	case v.Tag == VTStr && o.Tag == VTStr:
		return v.Text == o.Text
	case v.Tag == VTNil && o.Tag == VTNil:
		return true
	case v.Tag == VTInt && o.Tag == VTStr:
		return strconv.FormatInt(v.Num, 10) == o.Text
	case v.Tag == VTStr && o.Tag == VTInt:
		return v.Text == strconv.FormatInt(o.Num, 10)
	}
	return false
}

// Compare orders two values, returning (-1|0|1, true) when they are
// comparable. A mixed int/text pair parses the text operand as an integer
// and is incomparable — not equal, not less, not greater — when the parse
// fails. Callers treating incomparable as false must do so explicitly.
func (v Value) Compare(o Value) (int, bool) {
	switch {
	case v.Tag == VTInt && o.Tag == VTInt:
		return cmpInt(v.Num, o.Num), true
	case v.Tag == VTStr && o.Tag == VTStr:
		return strings.Compare(v.Text, o.Text), true
	case v.Tag == VTInt && o.Tag == VTStr:
		n, err := strconv.ParseInt(o.Text, 10, 64)
		if err != nil {
			return 0, false
		}
		return cmpInt(v.Num, n), true
	case v.Tag == VTStr && o.Tag == VTInt:
		n, err := strconv.ParseInt(v.Text, 10, 64)
		if err != nil {
			return 0, false
		}
		return cmpInt(n, o.Num), true
	}
	return 0, false
}

func cmpInt(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Add adds two ints, or concatenates when either operand is text (int
// operands stringified). Lists and Nil yield Nil.
func (v Value) Add(o Value) Value {
	switch {
	case v.Tag == VTInt && o.Tag == VTInt:
		return Int(v.Num + o.Num)
	case v.Tag == VTStr && o.Tag == VTStr,
		v.Tag == VTInt && o.Tag == VTStr,
		v.Tag == VTStr && o.Tag == VTInt:
		return Str(v.String() + o.String())
	}
	return Nil
}

// Sub subtracts ints; any other pairing yields Nil.
func (v Value) Sub(o Value) Value {
	if v.Tag == VTInt && o.Tag == VTInt {
		return Int(v.Num - o.Num)
	}
	return Nil
}

// Mul multiplies ints; any other pairing yields Nil.
func (v Value) Mul(o Value) Value {
	if v.Tag == VTInt && o.Tag == VTInt {
		return Int(v.Num * o.Num)
	}
	return Nil
}

// Div performs truncating integer division; division by zero and
// non-int operands yield Nil.
func (v Value) Div(o Value) Value {
	if v.Tag == VTInt && o.Tag == VTInt {
		if o.Num == 0 {
			return Nil
		}
		return Int(v.Num / o.Num)
	}
	return Nil
}

// Mod takes the integer remainder; modulo by zero and non-int operands
// yield Nil.
func (v Value) Mod(o Value) Value {
	if v.Tag == VTInt && o.Tag == VTInt {
		if o.Num == 0 {
			return Nil
		}
		return Int(v.Num % o.Num)
	}
	return Nil
}
