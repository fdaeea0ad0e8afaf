package process

import (
	"fmt"
	"math"
	"strings"

	"github.com/specialistvlad/nxload/internal/axis"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/units"
)

const (
	fieldTimeOfFlight   = "time_of_flight"
	fieldErrors         = "errors"
	attrAxes            = "axes"
	attrAxis            = "axis"
	attrSignal          = "signal"
	attrUnits           = "units"
	attrHistogramOffset = "histogram_offset"
)

// signalField returns the leaf holding the counts of a data group: the one
// flagged with signal=1, else the one named "data".
func signalField(group nxtree.Node) nxtree.Node {
	for i := 0; i < group.NumChildren(); i++ {
		c := group.Child(i)
		if c == nil || c.Class() != nxtree.ClassField {
			continue
		}
		if v, ok := nxtree.AttrFloat(c, attrSignal); ok && v == 1 {
			return c
		}
	}
	if c := nxtree.ChildByName(group, "data"); c != nil && c.Class() == nxtree.ClassField {
		return c
	}
	return nil
}

// axisNames splits the signal's axes attribute, slowest first.
func axisNames(signal nxtree.Node) []string {
	s, ok := nxtree.AttrString(signal, attrAxes)
	if !ok {
		return nil
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ':' || r == ',' })
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// timeAxisNode locates the leaf holding the time axis of group.
func timeAxisNode(group nxtree.Node, names []string, a axis.Assignment, ndims int) (nxtree.Node, error) {
	if len(names) > 0 {
		idx := len(names) - 1
		if len(names) == ndims {
			if i := axis.DimIndex(a.Time, ndims); i != axis.None {
				idx = i
			}
		}
		n := nxtree.ChildByName(group, names[idx])
		if n == nil {
			return nil, fmt.Errorf("time axis %q named by %s is missing", names[idx], attrAxes)
		}
		return n, nil
	}
	for i := 0; i < group.NumChildren(); i++ {
		c := group.Child(i)
		if v, ok := nxtree.AttrFloat(c, attrAxis); ok && v == 1 {
			return c, nil
		}
	}
	if n := nxtree.ChildByName(group, fieldTimeOfFlight); n != nil {
		return n, nil
	}
	return nil, fmt.Errorf("no time axis in %q", group.Name())
}

// timeValues reads the time axis in microseconds. A histogram_offset turns
// bin centres into bin boundaries. The result has bins or bins+1 values.
func timeValues(node nxtree.Node, bins int) ([]float64, error) {
	xs, err := nxtree.ToFloats(node.Value())
	if err != nil {
		return nil, fmt.Errorf("time axis %q: %w", node.Name(), err)
	}
	if off, ok := nxtree.AttrFloat(node, attrHistogramOffset); ok {
		xs = makeHistogram(xs, off)
	}
	from, _ := nxtree.AttrString(node, attrUnits)
	units.Adjust(xs, from, units.Microseconds)

	if len(xs) != bins && len(xs) != bins+1 {
		return nil, fmt.Errorf("time axis %q has %d values for %d bins", node.Name(), len(xs), bins)
	}
	return xs, nil
}

// makeHistogram converts centres into boundaries given the distance from the
// first centre to the left edge.
func makeHistogram(centres []float64, offset float64) []float64 {
	if len(centres) == 0 || offset == 0 || math.IsNaN(offset) {
		return centres
	}
	out := make([]float64, len(centres)+1)
	left := centres[0] - offset
	out[0] = left
	for i, c := range centres {
		right := 2*c - left
		out[i+1] = right
		left = right
	}
	return out
}
