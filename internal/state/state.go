// Package state holds the facts discovered while descending a source tree.
//
// Frames are pushed when a subtree is first visited and popped when its
// processing returns. Callers pair the two with
//
//	defer st.Push(frame)()
//
// so the stack is balanced on every exit path.
package state

import (
	"fmt"

	"github.com/specialistvlad/nxload/internal/nxtree"
)

// Kind discriminates frame variants.
type Kind int

const (
	KindEntry Kind = iota + 1
	KindData
	KindInstrument
	KindDetector
)

func (k Kind) String() string {
	switch k {
	case KindEntry:
		return "entry"
	case KindData:
		return "data"
	case KindInstrument:
		return "instrument"
	case KindDetector:
		return "detector"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Frame is one scoped set of facts.
type Frame interface {
	Kind() Kind
}

// EntryContext describes the entry being converted.
type EntryContext struct {
	Name     string
	Facility string
}

// DataContext describes one data group.
type DataContext struct {
	Name string
	// Dims are the stored dimensions of the signal array, slowest first.
	Dims []int
	// AxisNames lists the axis fields declared on the signal, slowest first.
	AxisNames []string
	// LinkName is the name used to find the matching detector.
	LinkName string
}

// InstrumentContext describes the instrument of the current entry. It is
// resolved once per entry and shared by every data group below it.
type InstrumentContext struct {
	Name     string
	InstType string
	// SourceDistance is in meters, signed as stored; HasSource reports
	// whether the tree or the override document supplied one.
	SourceDistance float64
	HasSource      bool
	// Detectors are the instrument's detector groups keyed by name.
	Detectors map[string]nxtree.Node
}

// DetectorContext describes the detector linked to the current data group.
type DetectorContext struct {
	Name   string
	Layout string
	Node   nxtree.Node
}

func (*EntryContext) Kind() Kind { return KindEntry }
func (*DataContext) Kind() Kind { return KindData }
func (*InstrumentContext) Kind() Kind { return KindInstrument }
func (*DetectorContext) Kind() Kind { return KindDetector }

// Stack is a LIFO of frames owned by a single conversion call tree. It is
// not safe for concurrent use.
type Stack struct {
	frames []Frame
}

// New returns an empty stack.
func New() *Stack {
	return &Stack{}
}

// Push appends f and returns a function that pops it. The returned function
// panics if the top of the stack is no longer f, which means an inner call
// left the stack unbalanced.
func (s *Stack) Push(f Frame) func() {
	if f == nil {
		panic("state: push of nil frame")
	}
	s.frames = append(s.frames, f)
	depth := len(s.frames)
	return func() {
		if len(s.frames) != depth || s.frames[depth-1] != f {
			panic(fmt.Sprintf("state: unbalanced stack popping %s frame: depth %d, want %d", f.Kind(), len(s.frames), depth))
		}
		s.Pop()
	}
}

// Pop removes and returns the most recent frame, or nil when empty.
func (s *Stack) Pop() Frame {
	if len(s.frames) == 0 {
		return nil
	}
	last := len(s.frames) - 1
	f := s.frames[last]
	s.frames[last] = nil
	s.frames = s.frames[:last]
	return f
}

// Depth returns the number of frames on the stack.
func (s *Stack) Depth() int {
	return len(s.frames)
}

// Find returns the nearest frame of the given kind, scanning from the top.
func (s *Stack) Find(kind Kind) (Frame, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind() == kind {
			return s.frames[i], true
		}
	}
	return nil, false
}

// FindEntry returns the nearest entry frame.
func (s *Stack) FindEntry() (*EntryContext, bool) {
	f, ok := s.Find(KindEntry)
	if !ok {
		return nil, false
	}
	return f.(*EntryContext), true
}

// FindData returns the nearest data frame.
func (s *Stack) FindData() (*DataContext, bool) {
	f, ok := s.Find(KindData)
	if !ok {
		return nil, false
	}
	return f.(*DataContext), true
}

// FindInstrument returns the nearest instrument frame.
func (s *Stack) FindInstrument() (*InstrumentContext, bool) {
	f, ok := s.Find(KindInstrument)
	if !ok {
		return nil, false
	}
	return f.(*InstrumentContext), true
}

// FindDetector returns the nearest detector frame.
func (s *Stack) FindDetector() (*DetectorContext, bool) {
	f, ok := s.Find(KindDetector)
	if !ok {
		return nil, false
	}
	return f.(*DetectorContext), true
}
