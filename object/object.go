package object

import (
	"math"
	"strconv"
	"strings"
)

// ObjectType is a string representation of an object's type.
type ObjectType string

const (
	NUMBER_OBJ       ObjectType = "NUMBER"
	STRING_OBJ       ObjectType = "STRING"
	BOOLEAN_OBJ      ObjectType = "BOOLEAN"
	ARRAY_OBJ        ObjectType = "ARRAY"
	UNDEFINED_OBJ    ObjectType = "UNDEFINED"
	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
)

// Object is the interface that all value types in the interpreter will implement.
type Object interface {
	// Type returns the type of the object.
	Type() ObjectType
	// Inspect returns a string representation of the object's value.
	Inspect() string
}

// --- Number Object ---

// Number represents a double-precision numeric value.
type Number struct {
	Value float64
}

// Type returns the type of the Number object.
func (n *Number) Type() ObjectType { return NUMBER_OBJ }

// Inspect formats the number the way a script author would write it:
// integral values without a fraction, NaN and Infinity by name.
func (n *Number) Inspect() string { return FormatNumber(n.Value) }

// FormatNumber renders f using the shortest representation that round-trips.
func FormatNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0" // also -0
	}
	if abs := math.Abs(f); abs >= 1e-6 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	// "1e-07" -> "1e-7", "1e+21" stays
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	return mant + "e" + sign + digits
}

// --- String Object ---

// String represents a string value.
type String struct {
	Value string
}

// Type returns the type of the String object.
func (s *String) Type() ObjectType { return STRING_OBJ }

// Inspect returns a string representation of the String's value.
func (s *String) Inspect() string { return s.Value }

// --- Boolean Object ---

// Boolean represents a boolean value. Use TRUE and FALSE.
type Boolean struct {
	Value bool
}

// Type returns the type of the Boolean object.
func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }

// Inspect returns a string representation of the Boolean's value.
func (b *Boolean) Inspect() string { return strconv.FormatBool(b.Value) }

// --- Array Object ---

// Array is an ordered sequence of values. Arrays are never mutated after
// construction, and two arrays are equal only if they are the same *Array.
type Array struct {
	Elements []Object
}

// Type returns the type of the Array object.
func (a *Array) Type() ObjectType { return ARRAY_OBJ }

// Inspect returns a string representation of the Array's elements.
func (a *Array) Inspect() string {
	var b strings.Builder
	b.WriteString("[")
	for i, e := range a.Elements {
		if i > 0 {
			b.WriteString(", ")
		}
		if s, ok := e.(*String); ok {
			b.WriteString(strconv.Quote(s.Value))
			continue
		}
		b.WriteString(e.Inspect())
	}
	b.WriteString("]")
	return b.String()
}

// --- Undefined Object ---

// Undefined is the absence of a value. Use UNDEFINED.
type Undefined struct{}

// Type returns the type of the Undefined object.
func (u *Undefined) Type() ObjectType { return UNDEFINED_OBJ }

// Inspect returns "undefined".
func (u *Undefined) Inspect() string { return "undefined" }

// --- ReturnValue Object ---

// ReturnValue wraps the value of a return statement while it propagates out
// of the enclosing blocks. It never escapes an evaluation.
type ReturnValue struct {
	Value Object
}

// Type returns the type of the ReturnValue object.
func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }

// Inspect returns a string representation of the wrapped value.
func (rv *ReturnValue) Inspect() string { return rv.Value.Inspect() }

var (
	TRUE      = &Boolean{Value: true}
	FALSE     = &Boolean{Value: false}
	UNDEFINED = &Undefined{}
)

// NativeBool converts a Go bool to the TRUE or FALSE singleton.
func NativeBool(b bool) *Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// Truthy reports whether obj counts as true in a condition. false, 0, -0,
// NaN, "" and undefined are falsy; everything else, arrays included, is truthy.
func Truthy(obj Object) bool {
	switch o := obj.(type) {
	case *Boolean:
		return o.Value
	case *Number:
		return o.Value != 0 && !math.IsNaN(o.Value)
	case *String:
		return o.Value != ""
	case *Undefined, nil:
		return false
	}
	return true
}
