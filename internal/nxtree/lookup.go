package nxtree

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ChildByName returns the first direct child with the given name, or nil.
func ChildByName(n Node, name string) Node {
	if n == nil {
		return nil
	}
	name = strings.TrimSpace(name)
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil && c.Name() == name {
			return c
		}
	}
	return nil
}

// ChildrenOfClass returns the direct children of the given class in order.
func ChildrenOfClass(n Node, class string) []Node {
	if n == nil {
		return nil
	}
	var out []Node
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil && c.Class() == class {
			out = append(out, c)
		}
	}
	return out
}

// FirstOfClass returns the first direct child of the given class, or nil.
func FirstOfClass(n Node, class string) Node {
	if n == nil {
		return nil
	}
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil && c.Class() == class {
			return c
		}
	}
	return nil
}

// FieldValue returns the value of the named leaf child.
func FieldValue(n Node, name string) (cty.Value, bool) {
	c := ChildByName(n, name)
	if c == nil || c.Class() != ClassField {
		return cty.NilVal, false
	}
	v := c.Value()
	return v, IsSet(v)
}

// Float reads a numeric leaf. A missing leaf reports ok=false without error;
// a present but non-numeric leaf is an error.
func Float(n Node, name string) (float64, bool, error) {
	v, ok := FieldValue(n, name)
	if !ok {
		return 0, false, nil
	}
	f, err := ToFloat(v)
	if err != nil {
		return 0, false, fmt.Errorf("field %q: %w", name, err)
	}
	return f, true, nil
}

// Int reads an integer leaf with the same conventions as Float.
func Int(n Node, name string) (int, bool, error) {
	v, ok := FieldValue(n, name)
	if !ok {
		return 0, false, nil
	}
	i, err := ToInt(v)
	if err != nil {
		return 0, false, fmt.Errorf("field %q: %w", name, err)
	}
	return i, true, nil
}

// String reads a leaf as a trimmed string. Missing or empty leaves report ok=false.
func String(n Node, name string) (string, bool) {
	v, ok := FieldValue(n, name)
	if !ok {
		return "", false
	}
	s, err := ToString(v)
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// AttrString reads a node attribute as a trimmed string.
func AttrString(n Node, attr string) (string, bool) {
	if n == nil {
		return "", false
	}
	s, err := ToString(n.Attr(attr))
	if err != nil {
		return "", false
	}
	s = strings.TrimSpace(s)
	return s, s != ""
}

// AttrFloat reads a numeric node attribute. Absent attributes report ok=false.
func AttrFloat(n Node, attr string) (float64, bool) {
	if n == nil {
		return 0, false
	}
	f, err := ToFloat(n.Attr(attr))
	if err != nil {
		return 0, false
	}
	return f, true
}

// Units returns the "units" attribute of the named leaf, if any.
func Units(n Node, name string) string {
	s, _ := AttrString(ChildByName(n, name), "units")
	return s
}

// FloatsOf reads the named leaf as a flat float slice.
func FloatsOf(n Node, name string) ([]float64, bool, error) {
	v, ok := FieldValue(n, name)
	if !ok {
		return nil, false, nil
	}
	fs, err := ToFloats(v)
	if errors.Is(err, ErrNoValue) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("field %q: %w", name, err)
	}
	return fs, true, nil
}
