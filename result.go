package exprbox

import (
	"fmt"
	"math"
	"reflect"

	"github.com/podhmo/exprbox/object"
)

// Result holds the value a snippet returned.
type Result struct {
	Value object.Object
}

// Interface returns the value as a plain Go value (see object.ToGo).
func (r *Result) Interface() any {
	return object.ToGo(r.Value)
}

func (r *Result) String() string {
	return r.Value.Inspect()
}

// As unmarshals the result into a Go variable.
// The target must be a pointer to a Go variable.
// It uses reflection to populate the target, similar to how
// `json.Unmarshal` works.
func (r *Result) As(target any) error {
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}
	dstVal := reflect.ValueOf(target)
	if dstVal.Kind() != reflect.Ptr || dstVal.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, but got %T", target)
	}
	return unmarshal(r.Value, dstVal.Elem())
}

// unmarshal is a recursive helper function that populates a Go `reflect.Value` (dst)
// from an `object.Object` (src).
func unmarshal(src object.Object, dst reflect.Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("cannot set destination value of type %s", dst.Type())
	}
	if _, ok := src.(*object.Undefined); ok {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	for dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		if v := object.ToGo(src); v != nil {
			dst.Set(reflect.ValueOf(v))
		}
		return nil
	}

	switch s := src.(type) {
	case *object.Number:
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if s.Value != math.Trunc(s.Value) || math.IsInf(s.Value, 0) {
				return fmt.Errorf("cannot unmarshal non-integer number %s into %s", s.Inspect(), dst.Type())
			}
			if dst.OverflowInt(int64(s.Value)) {
				return fmt.Errorf("number %s overflows %s", s.Inspect(), dst.Type())
			}
			dst.SetInt(int64(s.Value))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if s.Value != math.Trunc(s.Value) || s.Value < 0 || math.IsInf(s.Value, 0) {
				return fmt.Errorf("cannot unmarshal number %s into %s", s.Inspect(), dst.Type())
			}
			if dst.OverflowUint(uint64(s.Value)) {
				return fmt.Errorf("number %s overflows %s", s.Inspect(), dst.Type())
			}
			dst.SetUint(uint64(s.Value))
		case reflect.Float32, reflect.Float64:
			dst.SetFloat(s.Value)
		default:
			return fmt.Errorf("cannot unmarshal number into %s", dst.Type())
		}
		return nil
	case *object.String:
		if dst.Kind() != reflect.String {
			return fmt.Errorf("cannot unmarshal string into %s", dst.Type())
		}
		dst.SetString(s.Value)
		return nil
	case *object.Boolean:
		if dst.Kind() != reflect.Bool {
			return fmt.Errorf("cannot unmarshal boolean into %s", dst.Type())
		}
		dst.SetBool(s.Value)
		return nil
	case *object.Array:
		switch dst.Kind() {
		case reflect.Slice:
			newSlice := reflect.MakeSlice(dst.Type(), len(s.Elements), len(s.Elements))
			for i, elem := range s.Elements {
				if err := unmarshal(elem, newSlice.Index(i)); err != nil {
					return fmt.Errorf("error in slice element %d: %w", i, err)
				}
			}
			dst.Set(newSlice)
		case reflect.Array:
			if len(s.Elements) > dst.Len() {
				return fmt.Errorf("array has %d elements, destination %s holds %d", len(s.Elements), dst.Type(), dst.Len())
			}
			for i, elem := range s.Elements {
				if err := unmarshal(elem, dst.Index(i)); err != nil {
					return fmt.Errorf("error in array element %d: %w", i, err)
				}
			}
		default:
			return fmt.Errorf("cannot unmarshal array into non-slice type %s", dst.Type())
		}
		return nil
	}
	return fmt.Errorf("unsupported source object type: %s", src.Type())
}
