package nxtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// ErrNoValue is returned by the value converters for null or missing values.
var ErrNoValue = errors.New("no value")

// IsSet reports whether v holds a known, non-null value.
func IsSet(v cty.Value) bool {
	if v.IsNull() {
		return false
	}
	return v.IsWhollyKnown()
}

// ToFloat converts a scalar (or single-element list) value to float64.
func ToFloat(v cty.Value) (float64, error) {
	if !IsSet(v) {
		return 0, ErrNoValue
	}
	if isSequence(v) {
		if v.LengthInt() != 1 {
			return 0, fmt.Errorf("expected a single number, got %d values", v.LengthInt())
		}
		return ToFloat(first(v))
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("value is not numeric: %w", err)
	}
	var f float64
	if err := gocty.FromCtyValue(nv, &f); err != nil {
		return 0, fmt.Errorf("value is not representable as float: %w", err)
	}
	return f, nil
}

// ToInt converts a scalar value to int. Non-whole numbers are an error.
func ToInt(v cty.Value) (int, error) {
	if !IsSet(v) {
		return 0, ErrNoValue
	}
	if isSequence(v) {
		if v.LengthInt() != 1 {
			return 0, fmt.Errorf("expected a single integer, got %d values", v.LengthInt())
		}
		return ToInt(first(v))
	}
	if v.Type() == cty.String {
		// Accept "42 " as written by some acquisition systems.
		v = cty.StringVal(strings.TrimSpace(v.AsString()))
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("value is not numeric: %w", err)
	}
	var i int
	if err := gocty.FromCtyValue(nv, &i); err != nil {
		return 0, fmt.Errorf("value is not an integer: %w", err)
	}
	return i, nil
}

// ToString converts a primitive value to its string form.
func ToString(v cty.Value) (string, error) {
	if !IsSet(v) {
		return "", ErrNoValue
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil {
		return "", fmt.Errorf("value is not a string: %w", err)
	}
	return sv.AsString(), nil
}

// ToFloats flattens a (possibly nested) numeric list into row-major order.
// A scalar number yields a one-element slice.
func ToFloats(v cty.Value) ([]float64, error) {
	if !IsSet(v) {
		return nil, ErrNoValue
	}
	var out []float64
	var walk func(cty.Value) error
	walk = func(cur cty.Value) error {
		if isSequence(cur) {
			for it := cur.ElementIterator(); it.Next(); {
				_, elem := it.Element()
				if err := walk(elem); err != nil {
					return err
				}
			}
			return nil
		}
		f, err := ToFloat(cur)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	}
	if err := walk(v); err != nil {
		return nil, err
	}
	return out, nil
}

// ToInts is ToFloats for whole numbers.
func ToInts(v cty.Value) ([]int, error) {
	fs, err := ToFloats(v)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fs))
	for i, f := range fs {
		if f != float64(int(f)) {
			return nil, fmt.Errorf("value %v at position %d is not an integer", f, i)
		}
		out[i] = int(f)
	}
	return out, nil
}

// Shape infers dimensions, slowest first, from the nesting of list values.
// Scalars have no dimensions.
func Shape(v cty.Value) []int {
	if !IsSet(v) || !isSequence(v) {
		return nil
	}
	n := v.LengthInt()
	if n == 0 {
		return []int{0}
	}
	return append([]int{n}, Shape(first(v))...)
}

func isSequence(v cty.Value) bool {
	t := v.Type()
	return t.IsListType() || t.IsTupleType() || t.IsSetType()
}

func first(v cty.Value) cty.Value {
	it := v.ElementIterator()
	it.Next()
	_, elem := it.Element()
	return elem
}
