package process

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies conversion failures.
type Kind int

const (
	// MissingRequiredInput: entry node or target record absent. Always fatal.
	MissingRequiredInput Kind = iota + 1
	// DataGroupProcessingFailed: layout population or the detector pass failed.
	DataGroupProcessingFailed
	// SubProcessorFailed: an instrument, sample or beam sub-processor failed.
	// Accumulated and reported once the entry is complete.
	SubProcessorFailed
	// DetectorNotFound: recoverable, logged and otherwise ignored.
	DetectorNotFound
)

func (k Kind) String() string {
	switch k {
	case MissingRequiredInput:
		return "missing required input"
	case DataGroupProcessingFailed:
		return "data group processing failed"
	case SubProcessorFailed:
		return "sub-processor failed"
	case DetectorNotFound:
		return "detector not found"
	default:
		return "unknown"
	}
}

// Error is a classified conversion error.
type Error struct {
	Kind Kind
	// Op names the processing step, e.g. "sample" or "data bank1".
	Op  string
	Msg string
	Err error
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		fmt.Fprintf(&b, "%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with
// errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// Sentinels for errors.Is.
var (
	ErrMissingInput     = &Error{Kind: MissingRequiredInput}
	ErrDataGroup        = &Error{Kind: DataGroupProcessingFailed}
	ErrSubProcessor     = &Error{Kind: SubProcessorFailed}
	ErrDetectorNotFound = &Error{Kind: DetectorNotFound}
)

func newError(kind Kind, op, format string, args ...any) *Error {
	return &Error{Kind: kind, Op: op, Msg: fmt.Sprintf(format, args...)}
}

func wrapError(kind Kind, op string, err error) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// IsFatal reports whether err aborts a conversion immediately.
func IsFatal(err error) bool {
	var e *Error
	if !errors.As(err, &e) {
		return err != nil
	}
	return e.Kind == MissingRequiredInput || e.Kind == DataGroupProcessingFailed
}

// accumulator collects non-fatal failures in the order they happen.
type accumulator struct {
	errs []error
}

func (a *accumulator) add(err error) {
	if err != nil {
		a.errs = append(a.errs, err)
	}
}

func (a *accumulator) err() error {
	if len(a.errs) == 0 {
		return nil
	}
	return &accumulated{errs: append([]error(nil), a.errs...)}
}

// accumulated joins sub-processor failures with "; ".
type accumulated struct {
	errs []error
}

func (a *accumulated) Error() string {
	parts := make([]string, len(a.errs))
	for i, err := range a.errs {
		parts[i] = err.Error()
	}
	return strings.Join(parts, "; ")
}

func (a *accumulated) Unwrap() []error {
	return a.errs
}
