package process

import (
	"fmt"

	"github.com/specialistvlad/nxload/internal/axis"
)

// Layout interprets a flattened signal array as a set of spectra. The
// variants differ in their index arithmetic, not just their parameters.
type Layout interface {
	Name() string
	NumSpectra() int
	TimeBins() int
	// Index returns the position of (spectrum, bin) in the row-major array.
	Index(spectrum, bin int) int
	// RowCol returns 1-based pixel coordinates when the layout has them.
	RowCol(spectrum int) (row, col int, ok bool)
}

// selectLayout picks the interpretation of dims (slowest first) for the
// given role assignment.
func selectLayout(dims []int, a axis.Assignment, changed bool) (Layout, error) {
	for i, d := range dims {
		if d <= 0 {
			return nil, fmt.Errorf("dimension %d has size %d", i, d)
		}
	}
	switch {
	case len(dims) <= 1:
		n := 1
		if len(dims) == 1 {
			n = dims[0]
		}
		return flatLayout{bins: n}, nil
	case !changed:
		return newContiguousLayout(dims), nil
	default:
		return newAxisLayout(dims, a)
	}
}

// flatLayout holds a single spectrum.
type flatLayout struct {
	bins int
}

func (l flatLayout) Name() string { return "flat" }
func (l flatLayout) NumSpectra() int { return 1 }
func (l flatLayout) TimeBins() int { return l.bins }
func (l flatLayout) Index(_, bin int) int { return bin }
func (l flatLayout) RowCol(int) (int, int, bool) { return 0, 0, false }

// contiguousLayout has time on the fastest dimension, so spectrum i
// occupies [i*n, (i+1)*n).
type contiguousLayout struct {
	bins    int
	spectra int
	cols    int
	rows    int
}

func newContiguousLayout(dims []int) contiguousLayout {
	nd := len(dims)
	l := contiguousLayout{bins: dims[nd-1], spectra: 1, cols: dims[nd-2], rows: 1}
	for _, d := range dims[:nd-1] {
		l.spectra *= d
	}
	if nd >= 3 {
		l.rows = dims[nd-3]
	}
	return l
}

func (l contiguousLayout) Name() string { return "contiguous" }
func (l contiguousLayout) NumSpectra() int { return l.spectra }
func (l contiguousLayout) TimeBins() int { return l.bins }
func (l contiguousLayout) Index(spectrum, bin int) int { return spectrum*l.bins + bin }

func (l contiguousLayout) RowCol(spectrum int) (int, int, bool) {
	col := spectrum % l.cols
	row := (spectrum / l.cols) % l.rows
	return row + 1, col + 1, true
}

// axisLayout handles arbitrary role positions. Spectra enumerate the column
// fastest, then the row, then the remaining dimensions fastest to slowest.
type axisLayout struct {
	bins       int
	timeStride int
	offsets    []int
	rows       []int
	cols       []int
	hasRows    bool
	hasCols    bool
}

func newAxisLayout(dims []int, a axis.Assignment) (axisLayout, error) {
	nd := len(dims)
	ti := axis.DimIndex(a.Time, nd)
	if ti == axis.None {
		return axisLayout{}, fmt.Errorf("time axis position %d is outside %d dimensions", a.Time, nd)
	}
	ci := axis.DimIndex(a.Column, nd)
	ri := axis.DimIndex(a.Row, nd)
	if ci == ti {
		ci = axis.None
	}
	if ri == ti || ri == ci {
		ri = axis.None
	}

	strides := make([]int, nd)
	stride := 1
	for i := nd - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= dims[i]
	}

	order := make([]int, 0, nd-1)
	if ci != axis.None {
		order = append(order, ci)
	}
	if ri != axis.None {
		order = append(order, ri)
	}
	for i := nd - 1; i >= 0; i-- {
		if i != ti && i != ci && i != ri {
			order = append(order, i)
		}
	}

	spectra := 1
	for _, d := range order {
		spectra *= dims[d]
	}

	l := axisLayout{
		bins:       dims[ti],
		timeStride: strides[ti],
		offsets:    make([]int, spectra),
		hasRows:    ri != axis.None,
		hasCols:    ci != axis.None,
	}
	if l.hasCols {
		l.cols = make([]int, spectra)
	}
	if l.hasRows {
		l.rows = make([]int, spectra)
	}
	for s := 0; s < spectra; s++ {
		rem := s
		off := 0
		for _, d := range order {
			coord := rem % dims[d]
			rem /= dims[d]
			off += coord * strides[d]
			switch d {
			case ci:
				l.cols[s] = coord + 1
			case ri:
				l.rows[s] = coord + 1
			}
		}
		l.offsets[s] = off
	}
	return l, nil
}

func (l axisLayout) Name() string { return "axis" }
func (l axisLayout) NumSpectra() int { return len(l.offsets) }
func (l axisLayout) TimeBins() int { return l.bins }

func (l axisLayout) Index(spectrum, bin int) int {
	return l.offsets[spectrum] + bin*l.timeStride
}

func (l axisLayout) RowCol(spectrum int) (int, int, bool) {
	if !l.hasCols && !l.hasRows {
		return 0, 0, false
	}
	row, col := 1, 1
	if l.hasRows {
		row = l.rows[spectrum]
	}
	if l.hasCols {
		col = l.cols[spectrum]
	}
	return row, col, true
}
