// Package axis decides which stored array dimension plays the time, row and
// column role of a data group.
//
// Positions are counted from the fastest-varying dimension: position 0 is
// the last stored dimension. -1 means the role has no axis.
package axis

import (
	"context"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/override"
)

// Role is the meaning given to one array dimension.
type Role int

const (
	Unused Role = iota
	Time
	Row
	Column
)

func (r Role) String() string {
	switch r {
	case Time:
		return "time"
	case Row:
		return "row"
	case Column:
		return "column"
	default:
		return "unused"
	}
}

// Override field names, looked up below the "data" class.
const (
	FieldTime   = "time_dimension"
	FieldRow    = "row_dimension"
	FieldColumn = "col_dimension"
)

// None marks a role without an axis.
const None = -1

// Assignment maps roles to dimension positions.
type Assignment struct {
	Time   int
	Column int
	Row    int
}

// Default returns the assignment used when nothing overrides it: time on the
// fastest dimension, then column, then row. Arrays with at most one
// dimension have no rows or columns.
func Default(ndims int) Assignment {
	if ndims <= 1 {
		return Assignment{Time: 0, Column: None, Row: None}
	}
	return Assignment{Time: 0, Column: 1, Row: 2}
}

// RoleOf returns the role held by position.
func (a Assignment) RoleOf(position int) Role {
	switch {
	case position < 0:
		return Unused
	case position == a.Time:
		return Time
	case position == a.Row:
		return Row
	case position == a.Column:
		return Column
	default:
		return Unused
	}
}

// DimIndex converts a position into an index into the stored dimension
// list (slowest first). Out of range positions give None.
func DimIndex(position, ndims int) int {
	if position < 0 || position >= ndims {
		return None
	}
	return ndims - 1 - position
}

// Lookup returns the override value for one field, or a negative number
// when there is none.
type Lookup func(field string) int

// OverrideLookup resolves fields from doc using base as the template query.
// A nil doc yields a lookup that never matches.
func OverrideLookup(doc *override.Document, base override.Query) Lookup {
	if doc == nil {
		return nil
	}
	return func(field string) int {
		q := base
		q.Path = []string{"data", field}
		if base.Names != nil {
			q.Names = append([]string(nil), base.Names...)
		}
		return override.ResolveInt(doc, q)
	}
}

// Resolve starts from Default and applies each of the three override
// fields independently. changed reports whether the result differs from
// the default in any role.
func Resolve(ctx context.Context, ndims int, lookup Lookup) (Assignment, bool) {
	a := Default(ndims)
	if ndims <= 1 || lookup == nil {
		return a, false
	}
	logger := ctxlog.FromContext(ctx)

	changed := false
	apply := func(field string, target *int) {
		v := lookup(field)
		if v < 0 {
			return
		}
		if v >= ndims {
			v = None
		}
		// A default outside the data is already no axis.
		cur := *target
		if cur >= ndims {
			cur = None
		}
		if v == cur {
			return
		}
		logger.Debug("Axis role overridden.", "field", field, "from", *target, "to", v)
		*target = v
		changed = true
	}
	apply(FieldTime, &a.Time)
	apply(FieldRow, &a.Row)
	apply(FieldColumn, &a.Column)

	return a, changed
}
