package object

import (
	"fmt"
	"reflect"
)

// FromGo converts a Go value into an Object.
//
// Supported inputs are nil, bool, string, all integer and float kinds, and
// slices or arrays of supported values. An Object is returned unchanged.
func FromGo(v any) (Object, error) {
	if v == nil {
		return UNDEFINED, nil
	}
	if obj, ok := v.(Object); ok {
		return obj, nil
	}
	return fromValue(reflect.ValueOf(v))
}

func fromValue(rv reflect.Value) (Object, error) {
	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return UNDEFINED, nil
		}
		if obj, ok := rv.Interface().(Object); ok {
			return obj, nil
		}
		return fromValue(rv.Elem())
	case reflect.Bool:
		return NativeBool(rv.Bool()), nil
	case reflect.String:
		return &String{Value: rv.String()}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return &Number{Value: float64(rv.Int())}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &Number{Value: float64(rv.Uint())}, nil
	case reflect.Float32, reflect.Float64:
		return &Number{Value: rv.Float()}, nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return &Array{}, nil
		}
		elems := make([]Object, rv.Len())
		for i := range rv.Len() {
			e, err := fromValue(rv.Index(i))
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			elems[i] = e
		}
		return &Array{Elements: elems}, nil
	case reflect.Invalid:
		return UNDEFINED, nil
	}
	return nil, fmt.Errorf("unsupported Go type %s", rv.Type())
}

// ToGo converts an Object into a plain Go value: float64, string, bool,
// []any, or nil for undefined. A ReturnValue is unwrapped.
func ToGo(obj Object) any {
	switch o := obj.(type) {
	case *Number:
		return o.Value
	case *String:
		return o.Value
	case *Boolean:
		return o.Value
	case *Array:
		out := make([]any, len(o.Elements))
		for i, e := range o.Elements {
			out[i] = ToGo(e)
		}
		return out
	case *ReturnValue:
		return ToGo(o.Value)
	}
	return nil
}
