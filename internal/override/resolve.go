package override

import (
	"math"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// Absent is returned by ResolveInt when no tier produced a usable value.
const Absent = math.MinInt32

// Tier identifies which search step produced a match.
type Tier int

const (
	TierNone Tier = iota
	// TierRun: named entry inside the run section of the file, exact names.
	TierRun
	// TierCommon: named entry inside the common section, exact names.
	TierCommon
	// TierNoNameEntry: unlabeled entries, run section first.
	TierNoNameEntry
	// TierNoNameSubfields: named entry, unlabeled blocks accepted at flagged levels.
	TierNoNameSubfields
	// TierWildcard: any entry, any names.
	TierWildcard
)

func (t Tier) String() string {
	switch t {
	case TierRun:
		return "run"
	case TierCommon:
		return "common"
	case TierNoNameEntry:
		return "no-name-entry"
	case TierNoNameSubfields:
		return "no-name-subfields"
	case TierWildcard:
		return "wildcard"
	default:
		return "none"
	}
}

// Query describes one field to resolve.
//
// Path is the field-class path below the entry, outermost first; its last
// element is the attribute holding the value. Names[i] is the required name
// label of the block at Path[i]; an empty or missing name matches any block
// of that class. SearchNoNameSubfields[i] lets tier 4 accept an unlabeled
// block at level i.
type Query struct {
	Entry                 string
	Path                  []string
	Names                 []string
	FileName              string
	SearchNoNameEntry     bool
	SearchNoNameSubfields []bool
}

// Match is a successful lookup.
type Match struct {
	Value cty.Value
	Tier  Tier
}

// entryRule selects entry blocks within a section.
type entryRule int

const (
	entryNamed entryRule = iota
	entryUnnamed
	entryAny
)

// levelRule selects class blocks at one path level.
type levelRule int

const (
	levelExact levelRule = iota
	levelExactOrUnnamed
	levelAny
)

// Find runs the tiers in order and returns the first match. A nil document
// never matches.
func (d *Document) Find(q Query) (Match, bool) {
	if d == nil || len(q.Path) == 0 {
		return Match{}, false
	}
	sections := d.sections(q.FileName)
	run, common := sections[0], sections[1]

	exact := q.levels(func(int) levelRule { return levelExact })

	if v, ok := search(run, q.Entry, entryNamed, q.Path, q.Names, exact); ok {
		return Match{Value: v, Tier: TierRun}, true
	}
	if v, ok := search(common, q.Entry, entryNamed, q.Path, q.Names, exact); ok {
		return Match{Value: v, Tier: TierCommon}, true
	}
	if q.SearchNoNameEntry {
		for _, sec := range sections {
			if v, ok := search(sec, "", entryUnnamed, q.Path, q.Names, exact); ok {
				return Match{Value: v, Tier: TierNoNameEntry}, true
			}
		}
	}
	if q.hasNoNameSubfields() {
		relaxed := q.levels(func(i int) levelRule {
			if i < len(q.SearchNoNameSubfields) && q.SearchNoNameSubfields[i] {
				return levelExactOrUnnamed
			}
			return levelExact
		})
		for _, sec := range sections {
			if v, ok := search(sec, q.Entry, entryNamed, q.Path, q.Names, relaxed); ok {
				return Match{Value: v, Tier: TierNoNameSubfields}, true
			}
		}
	}
	wild := q.levels(func(int) levelRule { return levelAny })
	for _, sec := range sections {
		if v, ok := search(sec, "", entryAny, q.Path, q.Names, wild); ok {
			return Match{Value: v, Tier: TierWildcard}, true
		}
	}
	return Match{}, false
}

// Lookup returns the resolved value, or false when every tier missed.
func (d *Document) Lookup(q Query) (cty.Value, bool) {
	m, ok := d.Find(q)
	return m.Value, ok
}

// ResolveInt resolves q to an integer. A miss or a non-integer value yields
// Absent.
func ResolveInt(d *Document, q Query) int {
	v, ok := d.Lookup(q)
	if !ok {
		return Absent
	}
	if v.Type() == cty.String {
		v = cty.StringVal(strings.TrimSpace(v.AsString()))
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil || nv.IsNull() {
		return Absent
	}
	var i int
	if err := gocty.FromCtyValue(nv, &i); err != nil {
		return Absent
	}
	return i
}

// ResolveFloat resolves q to a float.
func ResolveFloat(d *Document, q Query) (float64, bool) {
	v, ok := d.Lookup(q)
	if !ok {
		return 0, false
	}
	if v.Type() == cty.String {
		v = cty.StringVal(strings.TrimSpace(v.AsString()))
	}
	nv, err := convert.Convert(v, cty.Number)
	if err != nil || nv.IsNull() {
		return 0, false
	}
	var f float64
	if err := gocty.FromCtyValue(nv, &f); err != nil {
		return 0, false
	}
	return f, true
}

// ResolveString resolves q to a trimmed, non-empty string.
func ResolveString(d *Document, q Query) (string, bool) {
	v, ok := d.Lookup(q)
	if !ok {
		return "", false
	}
	sv, err := convert.Convert(v, cty.String)
	if err != nil || sv.IsNull() {
		return "", false
	}
	s := strings.TrimSpace(sv.AsString())
	return s, s != ""
}

// sections returns the run section for fileName and the common section.
// Either may be nil.
func (d *Document) sections(fileName string) [2]*node {
	var run *node
	if key := baseName(fileName); key != "" {
		run = d.runs[key]
	}
	return [2]*node{run, d.common}
}

func (q Query) levels(rule func(int) levelRule) []levelRule {
	out := make([]levelRule, len(q.Path)-1)
	for i := range out {
		out[i] = rule(i)
	}
	return out
}

func (q Query) hasNoNameSubfields() bool {
	for _, b := range q.SearchNoNameSubfields {
		if b {
			return true
		}
	}
	return false
}

func (q Query) name(i int) string {
	if i < len(q.Names) {
		return strings.TrimSpace(q.Names[i])
	}
	return ""
}

// search walks the entries of one section in document order and returns
// the first leaf reachable under the given rules.
func search(section *node, entryName string, er entryRule, path, names []string, rules []levelRule) (cty.Value, bool) {
	if section == nil {
		return cty.NilVal, false
	}
	q := Query{Path: path, Names: names}
	for _, entry := range section.children {
		if entry.class != blockEntry || !entryMatches(entry, entryName, er) {
			continue
		}
		if v, ok := descend(entry, q, rules, 0); ok {
			return v, true
		}
	}
	return cty.NilVal, false
}

func entryMatches(entry *node, name string, er entryRule) bool {
	switch er {
	case entryUnnamed:
		return entry.name == ""
	case entryAny:
		return true
	default:
		return entry.name == strings.TrimSpace(name)
	}
}

func descend(n *node, q Query, rules []levelRule, level int) (cty.Value, bool) {
	if level == len(q.Path)-1 {
		v, ok := n.attrs[q.Path[level]]
		if !ok || v.IsNull() {
			return cty.NilVal, false
		}
		return v, true
	}
	class := q.Path[level]
	want := q.name(level)
	for _, child := range n.children {
		if child.class != class || !levelMatches(child, want, rules[level]) {
			continue
		}
		if v, ok := descend(child, q, rules, level+1); ok {
			return v, true
		}
	}
	return cty.NilVal, false
}

func levelMatches(n *node, want string, rule levelRule) bool {
	if want == "" || rule == levelAny {
		return true
	}
	if rule == levelExactOrUnnamed && n.name == "" {
		return true
	}
	return n.name == want
}
