package testutil

import (
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/zclconf/go-cty/cty"
)

// Entry builds an entry group.
func Entry(name string, children ...nxtree.Node) *nxtree.Group {
	return nxtree.NewGroup(nxtree.ClassEntry, name, children...)
}

// Data builds a data group.
func Data(name string, children ...nxtree.Node) *nxtree.Group {
	return nxtree.NewGroup(nxtree.ClassData, name, children...)
}

// Group builds a group of any class.
func Group(class, name string, children ...nxtree.Node) *nxtree.Group {
	return nxtree.NewGroup(class, name, children...)
}

// Num builds a scalar numeric leaf.
func Num(name string, v float64) *nxtree.Field {
	return nxtree.NewField(name, cty.NumberFloatVal(v))
}

// Str builds a string leaf.
func Str(name, v string) *nxtree.Field {
	return nxtree.NewField(name, cty.StringVal(v))
}

// Nums builds a one-dimensional numeric leaf.
func Nums(name string, values ...float64) *nxtree.Field {
	return nxtree.NewField(name, nxtree.NumberList(values...))
}

// Counts builds a signal leaf holding values in row-major order with the
// given stored dimensions.
func Counts(name string, dims []int, values []float64) *nxtree.Field {
	return nxtree.NewField(name, nxtree.NumberList(values...)).
		WithDims(dims...).
		WithAttr("signal", cty.NumberIntVal(1))
}

// Seq returns n values 0..n-1.
func Seq(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = float64(i)
	}
	return out
}
