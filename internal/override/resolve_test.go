package override

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tieredDoc = `
common {
  entry "run042" {
    data {
      time_dimension = 7
    }
  }
  entry {
    data {
      row_dimension = 1
    }
    source {
      distance = 11.5
    }
  }
}

run "C:\\data\\ENGINX00042.nxs" {
  entry "run042" {
    data {
      row_dimension = 2
    }
    detector "bank1" {
      layout = "panel"
    }
    detector {
      distance = 1.25
    }
  }
  entry {
    facility = " ISIS "
  }
}
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse([]byte(src), "override.hcl")
	require.NoError(t, err)
	return doc
}

func TestFind_Tiers(t *testing.T) {
	doc := mustParse(t, tieredDoc)
	file := "/archive/ENGINX00042.nxs"

	testCases := []struct {
		name     string
		query    Query
		wantTier Tier
		wantOK   bool
	}{
		{
			name:     "exact run match wins over looser no-name match",
			query:    Query{Entry: "run042", FileName: file, Path: []string{"data", "row_dimension"}, SearchNoNameEntry: true},
			wantTier: TierRun,
			wantOK:   true,
		},
		{
			name:     "common section when run section has no value",
			query:    Query{Entry: "run042", FileName: file, Path: []string{"data", "time_dimension"}},
			wantTier: TierCommon,
			wantOK:   true,
		},
		{
			name:     "no-name entry only when requested",
			query:    Query{Entry: "other", FileName: file, Path: []string{"source", "distance"}, SearchNoNameEntry: true},
			wantTier: TierNoNameEntry,
			wantOK:   true,
		},
		{
			name:     "no-name subfield inside named entry",
			query:    Query{Entry: "run042", FileName: file, Path: []string{"detector", "distance"}, Names: []string{"bank9"}, SearchNoNameSubfields: []bool{true}},
			wantTier: TierNoNameSubfields,
			wantOK:   true,
		},
		{
			name:     "wildcard catches everything else",
			query:    Query{Entry: "elsewhere", FileName: "unrelated.nxs", Path: []string{"source", "distance"}},
			wantTier: TierWildcard,
			wantOK:   true,
		},
		{
			name:   "missing field",
			query:  Query{Entry: "run042", FileName: file, Path: []string{"beam", "incident_energy"}},
			wantOK: false,
		},
		{
			name:   "empty path",
			query:  Query{Entry: "run042", FileName: file},
			wantOK: false,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m, ok := doc.Find(tc.query)
			assert.Equal(t, tc.wantOK, ok)
			assert.Equal(t, tc.wantTier, m.Tier)
		})
	}
}

func TestResolveInt(t *testing.T) {
	doc := mustParse(t, tieredDoc)
	file := `D:\runs\ENGINX00042.nxs`

	assert.Equal(t, 2, ResolveInt(doc, Query{Entry: "run042", FileName: file, Path: []string{"data", "row_dimension"}}))
	assert.Equal(t, Absent, ResolveInt(doc, Query{Entry: "run042", FileName: file, Path: []string{"detector", "layout"}, Names: []string{"bank1"}}))
	assert.Equal(t, Absent, ResolveInt(nil, Query{Entry: "run042", Path: []string{"data", "row_dimension"}}))
}

func TestResolveFloatAndString(t *testing.T) {
	doc := mustParse(t, tieredDoc)
	file := "ENGINX00042.nxs"

	f, ok := ResolveFloat(doc, Query{Entry: "x", FileName: file, Path: []string{"source", "distance"}, SearchNoNameEntry: true})
	assert.True(t, ok)
	assert.Equal(t, 11.5, f)

	s, ok := ResolveString(doc, Query{Entry: "x", FileName: file, Path: []string{"facility"}, SearchNoNameEntry: true})
	assert.True(t, ok)
	assert.Equal(t, "ISIS", s)

	s, ok = ResolveString(doc, Query{Entry: "run042", FileName: file, Path: []string{"detector", "layout"}, Names: []string{"bank1"}})
	assert.True(t, ok)
	assert.Equal(t, "panel", s)

	_, ok = ResolveFloat(doc, Query{Entry: "run042", FileName: file, Path: []string{"detector", "layout"}, Names: []string{"bank1"}})
	assert.False(t, ok)
}

func TestNilDocument(t *testing.T) {
	var doc *Document
	_, ok := doc.Lookup(Query{Entry: "e", Path: []string{"x"}})
	assert.False(t, ok)
	assert.False(t, doc.HasCommon())
	assert.Empty(t, doc.Runs())
}

func TestParse_Structure(t *testing.T) {
	doc := mustParse(t, tieredDoc)
	assert.True(t, doc.HasCommon())
	assert.Equal(t, []string{"ENGINX00042.nxs"}, doc.Runs())
}

func TestParse_Errors(t *testing.T) {
	testCases := []struct {
		name string
		src  string
	}{
		{name: "duplicate common", src: "common {}\ncommon {}"},
		{name: "duplicate run", src: "run \"a/x.nxs\" {}\nrun \"b/x.nxs\" {}"},
		{name: "top-level attribute", src: `x = 1`},
		{name: "run without label", src: `run {}`},
		{name: "two labels", src: "common {\n  entry \"a\" \"b\" {}\n}\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.src), "bad.hcl")
			assert.Error(t, err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.hcl")
	require.NoError(t, os.WriteFile(path, []byte(tieredDoc), 0o644))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.True(t, doc.HasCommon())

	_, err = Load(filepath.Join(t.TempDir(), "missing.hcl"))
	assert.Error(t, err)
}
