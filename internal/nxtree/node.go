package nxtree

import (
	"github.com/zclconf/go-cty/cty"
)

// Class names for groups and leaves.
const (
	ClassRoot       = "root"
	ClassEntry      = "entry"
	ClassData       = "data"
	ClassInstrument = "instrument"
	ClassDetector   = "detector"
	ClassMonitor    = "monitor"
	ClassSample     = "sample"
	ClassBeam       = "beam"
	ClassLog        = "log"
	ClassSource     = "source"
	ClassField      = "field"
)

// Node is a read-only handle into a source tree.
type Node interface {
	// Class returns the node class, one of the Class* constants.
	Class() string
	// Name returns the node name; groups may be unnamed.
	Name() string
	// NumChildren returns the number of direct children.
	NumChildren() int
	// Child returns the i-th child in document order.
	Child(i int) Node
	// Value returns the leaf value, or cty.NilVal for groups.
	Value() cty.Value
	// Attr returns the named attribute, or cty.NilVal when absent.
	Attr(name string) cty.Value
	// Dims returns the stored dimensions of a leaf, slowest first.
	Dims() []int
}

// Group is an in-memory group node.
type Group struct {
	class    string
	name     string
	children []Node
	attrs    map[string]cty.Value
}

// NewGroup creates a group with the given class, name and children.
func NewGroup(class, name string, children ...Node) *Group {
	g := &Group{class: class, name: name}
	g.Add(children...)
	return g
}

// Add appends children, skipping nil ones, and returns the group.
func (g *Group) Add(children ...Node) *Group {
	for _, c := range children {
		if c != nil {
			g.children = append(g.children, c)
		}
	}
	return g
}

// SetAttr sets a group attribute and returns the group.
func (g *Group) SetAttr(name string, v cty.Value) *Group {
	if g.attrs == nil {
		g.attrs = make(map[string]cty.Value)
	}
	g.attrs[name] = v
	return g
}

func (g *Group) Class() string { return g.class }
func (g *Group) Name() string { return g.name }
func (g *Group) NumChildren() int { return len(g.children) }
func (g *Group) Value() cty.Value { return cty.NilVal }
func (g *Group) Dims() []int { return nil }

func (g *Group) Child(i int) Node {
	if i < 0 || i >= len(g.children) {
		return nil
	}
	return g.children[i]
}

func (g *Group) Attr(name string) cty.Value {
	if v, ok := g.attrs[name]; ok {
		return v
	}
	return cty.NilVal
}

// Field is an in-memory leaf node.
type Field struct {
	name  string
	value cty.Value
	dims  []int
	attrs map[string]cty.Value
}

// NewField creates a leaf whose dimensions are inferred from the nesting of v.
func NewField(name string, v cty.Value) *Field {
	return &Field{name: name, value: v, dims: Shape(v)}
}

// WithAttr sets a field attribute and returns the field.
func (f *Field) WithAttr(name string, v cty.Value) *Field {
	if f.attrs == nil {
		f.attrs = make(map[string]cty.Value)
	}
	f.attrs[name] = v
	return f
}

// WithDims overrides the inferred dimensions and returns the field.
func (f *Field) WithDims(dims ...int) *Field {
	f.dims = append([]int(nil), dims...)
	return f
}

func (f *Field) Class() string { return ClassField }
func (f *Field) Name() string { return f.name }
func (f *Field) NumChildren() int { return 0 }
func (f *Field) Child(int) Node { return nil }
func (f *Field) Value() cty.Value { return f.value }
func (f *Field) Dims() []int { return append([]int(nil), f.dims...) }

func (f *Field) Attr(name string) cty.Value {
	if v, ok := f.attrs[name]; ok {
		return v
	}
	return cty.NilVal
}

// NumberList is a convenience constructor for a numeric list value.
func NumberList(values ...float64) cty.Value {
	if len(values) == 0 {
		return cty.ListValEmpty(cty.Number)
	}
	vals := make([]cty.Value, len(values))
	for i, v := range values {
		vals[i] = cty.NumberFloatVal(v)
	}
	return cty.TupleVal(vals)
}
