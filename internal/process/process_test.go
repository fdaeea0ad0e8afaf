package process

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
	"github.com/specialistvlad/nxload/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

// bankEntry is a 2x4 pixel panel with three time bins per pixel.
func bankEntry(extra ...nxtree.Node) (*nxtree.Group, *nxtree.Group) {
	data := testutil.Data("bank1",
		testutil.Counts("counts", []int{2, 4, 3}, testutil.Seq(24)),
		testutil.Nums("time_of_flight", 10, 20, 30, 40),
	)
	children := []nxtree.Node{
		testutil.Num("run_number", 42),
		testutil.Num("duration", 10),
		data,
		testutil.Group(nxtree.ClassInstrument, "ENGINX",
			testutil.Group(nxtree.ClassSource, "", testutil.Num("distance", -12.5)),
			testutil.Group(nxtree.ClassDetector, "bank1", testutil.Num("distance", -1.5)),
		),
	}
	return testutil.Entry("run042", append(children, extra...)...), data
}

func parseOverride(t *testing.T, src string) *override.Document {
	t.Helper()
	doc, err := override.Parse([]byte(src), "override.hcl")
	require.NoError(t, err)
	return doc
}

func TestConvert_EndToEnd(t *testing.T) {
	ctx, _ := testutil.Context(t)
	entry, data := bankEntry()
	rec := dataset.New("")

	err := Converter{FileName: "ENGINX00042.nxs"}.Convert(ctx, entry, data, rec, 100)
	require.NoError(t, err)

	assert.Equal(t, "bank1", rec.Title)
	require.Equal(t, 8, rec.Len())
	assert.Equal(t, []int{100, 101, 102, 103, 104, 105, 106, 107}, rec.GroupIDs())
	assert.Equal(t, []float64{0, 1, 2}, rec.Spectrum(0).Y)
	assert.Equal(t, []float64{21, 22, 23}, rec.Spectrum(7).Y)
	assert.Equal(t, []float64{10, 20, 30, 40}, rec.Spectrum(3).X)

	total, ok := rec.Spectrum(7).Attrs.Float(dataset.TotalCount)
	assert.True(t, ok)
	assert.Equal(t, 66.0, total)

	row, _ := rec.Spectrum(5).Attrs.Int(dataset.PixelRow)
	col, _ := rec.Spectrum(5).Attrs.Int(dataset.PixelCol)
	assert.Equal(t, 2, row)
	assert.Equal(t, 2, col)

	name, _ := rec.Attrs.String(dataset.FileName)
	assert.Equal(t, "ENGINX00042.nxs", name)
	inst, _ := rec.Attrs.String(dataset.InstName)
	assert.Equal(t, "ENGINX", inst)
	assert.Contains(t, rec.Operators, "IntegrateGroup")
}

func TestConvert_BroadcastsRecordAttributes(t *testing.T) {
	ctx, _ := testutil.Context(t)
	entry, data := bankEntry()
	rec := dataset.New("")
	require.NoError(t, Converter{}.Convert(ctx, entry, data, rec, 0))

	for i := 0; i < rec.Len(); i++ {
		sp := rec.Spectrum(i)
		run, ok := sp.Attrs.IntList(dataset.RunNum)
		require.True(t, ok, "spectrum %d", i)
		assert.Equal(t, []int{42}, run)
		pulses, _ := sp.Attrs.Float(dataset.NumberOfPulses)
		assert.Equal(t, 300.0, pulses)
		path, _ := sp.Attrs.Float(dataset.InitialPath)
		assert.Equal(t, 12.5, path)
		dist, _ := sp.Attrs.Float(dataset.DetectorDistance)
		assert.Equal(t, 1.5, dist)
		det, _ := sp.Attrs.String(dataset.DetectorName)
		assert.Equal(t, "bank1", det)
	}

	// Broadcast values are copies.
	run, _ := rec.Spectrum(0).Attrs.IntList(dataset.RunNum)
	run[0] = 7
	other, _ := rec.Spectrum(1).Attrs.IntList(dataset.RunNum)
	recRun, _ := rec.Attrs.IntList(dataset.RunNum)
	assert.Equal(t, []int{42}, other)
	assert.Equal(t, []int{42}, recRun)
}

func TestProcess_StackBalance(t *testing.T) {
	goodEntry, goodData := bankEntry()
	brokenData := testutil.Data("broken", testutil.Nums("time_of_flight", 1, 2))
	badSample := testutil.Group(nxtree.ClassSample, "", testutil.Str("temperature", "hot"))
	sampleEntry, sampleData := bankEntry(badSample)

	testCases := []struct {
		name    string
		entry   nxtree.Node
		data    nxtree.Node
		rec     *dataset.DataSet
		wantErr error
	}{
		{name: "success", entry: goodEntry, data: goodData, rec: dataset.New("")},
		{name: "nil entry", entry: nil, data: goodData, rec: dataset.New(""), wantErr: ErrMissingInput},
		{name: "nil record", entry: goodEntry, data: goodData, rec: nil, wantErr: ErrMissingInput},
		{name: "data group without signal", entry: testutil.Entry("e", brokenData), data: brokenData, rec: dataset.New(""), wantErr: ErrDataGroup},
		{name: "sub-processor failure", entry: sampleEntry, data: sampleData, rec: dataset.New(""), wantErr: ErrSubProcessor},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			st := state.New()
			defer st.Push(&state.EntryContext{Name: "outer"})()
			require.Equal(t, 1, st.Depth())

			err := Converter{}.Process(ctx, st, tc.rec, tc.entry, tc.data, 0)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, st.Depth())
			outer, ok := st.FindEntry()
			require.True(t, ok)
			assert.Equal(t, "outer", outer.Name)
		})
	}
}

func TestConvert_AxisOverride(t *testing.T) {
	testCases := []struct {
		name    string
		doc     string
		wantY1  []float64
		wantRow int
		wantCol int
	}{
		{
			name:    "no override keeps the contiguous layout",
			wantY1:  []float64{3, 4, 5},
			wantRow: 1,
			wantCol: 2,
		},
		{
			name: "override equal to the defaults",
			doc: `run "ENGINX00042.nxs" {
  entry "run042" {
    data "bank1" {
      row_dimension = 2
      col_dimension = 1
    }
  }
}`,
			wantY1:  []float64{3, 4, 5},
			wantRow: 1,
			wantCol: 2,
		},
		{
			name: "row and column swapped",
			doc: `run "ENGINX00042.nxs" {
  entry "run042" {
    data "bank1" {
      row_dimension = 1
      col_dimension = 2
    }
  }
}`,
			wantY1:  []float64{12, 13, 14},
			wantRow: 1,
			wantCol: 2,
		},
		{
			name: "common section applies without a run section",
			doc: `common {
  entry {
    data {
      row_dimension = 1
      col_dimension = 2
    }
  }
}`,
			wantY1:  []float64{12, 13, 14},
			wantRow: 1,
			wantCol: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			c := Converter{FileName: "ENGINX00042.nxs"}
			if tc.doc != "" {
				c.Override = parseOverride(t, tc.doc)
			}
			entry, data := bankEntry()
			rec := dataset.New("")
			require.NoError(t, c.Convert(ctx, entry, data, rec, 0))
			require.Equal(t, 8, rec.Len())

			sp := rec.Spectrum(1)
			assert.Equal(t, tc.wantY1, sp.Y)
			row, _ := sp.Attrs.Int(dataset.PixelRow)
			col, _ := sp.Attrs.Int(dataset.PixelCol)
			assert.Equal(t, tc.wantRow, row)
			assert.Equal(t, tc.wantCol, col)
		})
	}
}

func TestConvert_OverrideFillsMissingFields(t *testing.T) {
	ctx, _ := testutil.Context(t)
	doc := parseOverride(t, `
common {
  entry {
    facility = "ISIS"
    source {
      distance = 9
    }
    sample {
      temperature = 290
    }
  }
}

run "ENGINX00042.nxs" {
  entry "run042" {
    detector "bank1" {
      layout = "panel"
    }
  }
}
`)
	entry, data := bankEntry()
	rec := dataset.New("")
	require.NoError(t, Converter{Override: doc, FileName: "ENGINX00042.nxs"}.Convert(ctx, entry, data, rec, 0))

	path, _ := rec.Attrs.Float(dataset.InitialPath)
	assert.Equal(t, 9.0, path, "override replaces the source distance")
	temp, _ := rec.Attrs.Float(dataset.SampleTemperature)
	assert.Equal(t, 290.0, temp)
	facility, _ := rec.Attrs.String(dataset.FacilityName)
	assert.Equal(t, "ISIS", facility)
	layout, _ := rec.Spectrum(0).Attrs.String(dataset.DetectorLayout)
	assert.Equal(t, "panel", layout)
}

func TestProcess_SubProcessorFailuresAccumulate(t *testing.T) {
	ctx, buf := testutil.Context(t)
	entry, data := bankEntry(
		testutil.Group(nxtree.ClassSample, "", testutil.Str("temperature", "hot")),
		testutil.Group(nxtree.ClassBeam, "", testutil.Num("incident_energy", 25).WithAttr("units", cty.StringVal("meV"))),
	)
	rec := dataset.New("")

	err := Converter{}.Process(ctx, state.New(), rec, entry, data, 0)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSubProcessor)
	assert.False(t, IsFatal(err))
	assert.Contains(t, err.Error(), "sample")
	assert.Contains(t, err.Error(), "temperature")

	energy, ok := rec.Attrs.Float(dataset.EnergyIn)
	assert.True(t, ok, "later sub-processors still run")
	assert.Equal(t, 25.0, energy)
	assert.Equal(t, 8, rec.Len())
	assert.True(t, rec.Spectrum(0).Attrs.Has(dataset.RunNum), "broadcast still happens")
	assert.Contains(t, buf.String(), "Sub-processor failed.")
}

func TestProcess_MissingDetectorWarns(t *testing.T) {
	ctx, buf := testutil.Context(t)
	data := testutil.Data("bank1",
		testutil.Counts("counts", []int{2, 3}, testutil.Seq(6)),
		testutil.Nums("time_of_flight", 1, 2, 3),
	)
	entry := testutil.Entry("e", data, testutil.Group(nxtree.ClassInstrument, "", testutil.Group(nxtree.ClassDetector, "bank9")))
	rec := dataset.New("")

	require.NoError(t, Converter{}.Convert(ctx, entry, data, rec, 0))
	assert.Equal(t, 2, rec.Len())
	assert.False(t, rec.Spectrum(0).Attrs.Has(dataset.DetectorName))
	assert.Contains(t, buf.String(), "No detector linked")
	assert.Contains(t, buf.String(), DetectorNotFound.String())
}

func TestProcess_DetectorGeometry(t *testing.T) {
	testCases := []struct {
		name    string
		field   *nxtree.Field
		wantErr bool
		check   func(t *testing.T, rec *dataset.DataSet)
	}{
		{
			name:  "one value per spectrum",
			field: testutil.Nums("polar_angle", 0, 90, 180).WithAttr("units", cty.StringVal("degrees")),
			check: func(t *testing.T, rec *dataset.DataSet) {
				a, _ := rec.Spectrum(1).Attrs.Float(dataset.RawAngle)
				assert.InDelta(t, math.Pi/2, a, 1e-12)
				a, _ = rec.Spectrum(2).Attrs.Float(dataset.RawAngle)
				assert.InDelta(t, math.Pi, a, 1e-12)
			},
		},
		{
			name:  "single value applies to all",
			field: testutil.Num("solid_angle", 0.25),
			check: func(t *testing.T, rec *dataset.DataSet) {
				for i := 0; i < rec.Len(); i++ {
					v, _ := rec.Spectrum(i).Attrs.Float(dataset.SolidAngle)
					assert.Equal(t, 0.25, v)
				}
			},
		},
		{
			name:    "value count mismatch",
			field:   testutil.Nums("azimuthal_angle", 1, 2),
			wantErr: true,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctx, _ := testutil.Context(t)
			data := testutil.Data("bank1",
				testutil.Counts("counts", []int{3, 2}, testutil.Seq(6)),
				testutil.Nums("time_of_flight", 1, 2, 3),
			)
			det := testutil.Group(nxtree.ClassDetector, "bank1", tc.field)
			entry := testutil.Entry("e", data, testutil.Group(nxtree.ClassInstrument, "", det))
			rec := dataset.New("")

			err := Converter{}.Convert(ctx, entry, data, rec, 0)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrDataGroup)
				assert.True(t, IsFatal(err))
				return
			}
			require.NoError(t, err)
			require.Equal(t, 3, rec.Len())
			tc.check(t, rec)
		})
	}
}

func TestConvert_MonitorEntry(t *testing.T) {
	ctx, _ := testutil.Context(t)
	mon := func(name string, dist float64) *nxtree.Group {
		return testutil.Group(nxtree.ClassMonitor, name,
			testutil.Nums("data", 1, 2, 3),
			testutil.Nums("time_of_flight", 0, 1, 2, 3),
			testutil.Num("distance", dist),
		)
	}
	entry := testutil.Entry("run042",
		testutil.Str("definition", "TOFNPD"),
		testutil.Num("run_number", 42),
		mon("mon1", -2),
		mon("mon2", 3),
		testutil.Group(nxtree.ClassInstrument, "", testutil.Group(nxtree.ClassSource, "", testutil.Num("distance", 10))),
	)
	rec := dataset.New("")

	require.NoError(t, Converter{}.Convert(ctx, entry, nil, rec, 1))
	assert.Equal(t, "Mon_run042", rec.Title)
	assert.Equal(t, []int{1, 2}, rec.GroupIDs())
	assert.Contains(t, rec.Operators, "MonitorTofToWavelength")

	name, _ := rec.Spectrum(1).Attrs.String(dataset.MonitorName)
	assert.Equal(t, "mon2", name)
	d, _ := rec.Spectrum(0).Attrs.Float(dataset.DetectorDistance)
	assert.Equal(t, 2.0, d)
	run, _ := rec.Spectrum(1).Attrs.IntList(dataset.RunNum)
	assert.Equal(t, []int{42}, run)
	assert.False(t, rec.Attrs.Has(dataset.InitialPath), "instrument is skipped for monitors")
	typ, _ := rec.Attrs.String(dataset.InstType)
	assert.Equal(t, dataset.InstTypeFor("TOFNPD"), typ)
}

func TestConvert_MonitorFailureIsFatal(t *testing.T) {
	ctx, _ := testutil.Context(t)
	entry := testutil.Entry("e", testutil.Group(nxtree.ClassMonitor, "mon1", testutil.Num("distance", 1)))
	err := Converter{}.Convert(ctx, entry, nil, dataset.New(""), 0)
	assert.ErrorIs(t, err, ErrDataGroup)
}

func TestConvertFile_AllocatesContiguousIDs(t *testing.T) {
	ctx, _ := testutil.Context(t)
	root, err := nxtree.Parse([]byte(`
file_name     = "HRPD00001.nxs"
NeXus_version = "4.3.0"

entry "run1" {
  run_number = 1

  monitor "mon1" {
    field "data" { value = [5, 6] }
    field "time_of_flight" { value = [0, 1, 2] }
  }

  data "bank1" {
    field "counts" {
      value  = [[1, 2], [3, 4], [5, 6]]
      signal = 1
    }
    field "time_of_flight" { value = [0, 1, 2] }
  }

  data "broken" {
    field "counts" {
      value  = [1, 2, 3]
      signal = 1
    }
  }

  data "bank2" {
    field "counts" {
      value  = [[7, 8]]
      signal = 1
    }
    field "time_of_flight" { value = [0, 1] }
  }
}
`), "HRPD00001.nxs.hcl")
	require.NoError(t, err)

	records, err := Converter{}.ConvertFile(ctx, root, 10)
	require.Error(t, err, "the broken data group is reported")
	assert.ErrorIs(t, err, ErrDataGroup)

	require.Len(t, records, 3)
	assert.Equal(t, "Mon_run1", records[0].Title)
	assert.Equal(t, []int{10}, records[0].GroupIDs())
	assert.Equal(t, "bank1", records[1].Title)
	assert.Equal(t, []int{11, 12, 13}, records[1].GroupIDs())
	assert.Equal(t, "bank2", records[2].Title)
	assert.Equal(t, []int{14}, records[2].GroupIDs())

	name, _ := records[1].Attrs.String(dataset.FileName)
	assert.Equal(t, "HRPD00001.nxs", name)
}

func TestConvertFile_NilRoot(t *testing.T) {
	_, err := Converter{}.ConvertFile(context.Background(), nil, 0)
	assert.ErrorIs(t, err, ErrMissingInput)
}

func TestConverter_ConcurrentUse(t *testing.T) {
	ctx, _ := testutil.Context(t)
	c := Converter{
		FileName: "ENGINX00042.nxs",
		Override: parseOverride(t, `common {
  entry {
    data {
      row_dimension = 1
      col_dimension = 2
    }
  }
}`),
	}

	const workers = 8
	recs := make([]*dataset.DataSet, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			entry, data := bankEntry()
			recs[i] = dataset.New("")
			errs[i] = c.Convert(ctx, entry, data, recs[i], i*100)
		}(i)
	}
	wg.Wait()

	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, i*100, recs[i].GroupIDs()[0])
		assert.Equal(t, recs[0].Spectrum(1).Y, recs[i].Spectrum(1).Y)
	}
}

func TestErrors_KindsAndAccumulation(t *testing.T) {
	err := wrapError(DataGroupProcessingFailed, "data bank1", errors.New("boom"))
	assert.ErrorIs(t, err, ErrDataGroup)
	assert.NotErrorIs(t, err, ErrSubProcessor)
	assert.True(t, IsFatal(err))
	assert.Contains(t, err.Error(), "data bank1")
	assert.Contains(t, err.Error(), "boom")

	var acc accumulator
	assert.NoError(t, acc.err())
	first := errors.New("first")
	acc.add(first)
	acc.add(nil)
	acc.add(errors.New("second"))
	joined := acc.err()
	require.Error(t, joined)
	assert.Equal(t, "first; second", joined.Error())
	assert.ErrorIs(t, joined, first)
}

func TestProcessDataGroup_ReadsInstrumentFrame(t *testing.T) {
	ctx, _ := testutil.Context(t)
	data := testutil.Data("bank1",
		testutil.Counts("counts", []int{2, 3}, testutil.Seq(6)),
		testutil.Nums("time_of_flight", 1, 2, 3, 4),
	)
	// The tree has no instrument; the detector is only known to the frame.
	entry := testutil.Entry("run042", data)
	st := state.New()
	defer st.Push(&state.EntryContext{Name: "run042"})()
	defer st.Push(&state.InstrumentContext{
		Detectors: map[string]nxtree.Node{
			"bank1": testutil.Group(nxtree.ClassDetector, "bank1", testutil.Num("distance", 4)),
		},
	})()
	rec := dataset.New("")

	added, err := Converter{}.processDataGroup(ctx, st, entry, data, rec, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, added)
	assert.Equal(t, 2, st.Depth())
	for i := 0; i < rec.Len(); i++ {
		name, _ := rec.Spectrum(i).Attrs.String(dataset.DetectorName)
		assert.Equal(t, "bank1", name)
		dist, _ := rec.Spectrum(i).Attrs.Float(dataset.DetectorDistance)
		assert.Equal(t, 4.0, dist)
	}
}

func TestProcessInstrument_PrefersInstrumentFrame(t *testing.T) {
	node := testutil.Group(nxtree.ClassInstrument, "TREE",
		testutil.Group(nxtree.ClassSource, "", testutil.Num("distance", 99)),
	)

	t.Run("frame in scope", func(t *testing.T) {
		st := state.New()
		defer st.Push(&state.InstrumentContext{Name: "HRPD", SourceDistance: -7, HasSource: true})()
		rec := dataset.New("")

		require.NoError(t, processInstrument(Converter{}, st, "e", node, rec))
		name, _ := rec.Attrs.String(dataset.InstName)
		assert.Equal(t, "HRPD", name)
		path, _ := rec.Attrs.Float(dataset.InitialPath)
		assert.Equal(t, 7.0, path)
	})

	t.Run("no frame reads the node", func(t *testing.T) {
		rec := dataset.New("")
		require.NoError(t, processInstrument(Converter{}, state.New(), "e", node, rec))
		name, _ := rec.Attrs.String(dataset.InstName)
		assert.Equal(t, "TREE", name)
		path, _ := rec.Attrs.Float(dataset.InitialPath)
		assert.Equal(t, 99.0, path)
	})
}

func TestConvert_LinkedDetectorReachesSpectra(t *testing.T) {
	ctx, _ := testutil.Context(t)
	data := testutil.Data("counts_a",
		testutil.Counts("counts", []int{2, 3}, testutil.Seq(6)),
		testutil.Nums("time_of_flight", 1, 2, 3, 4),
		testutil.Str("link", "panelA"),
	)
	entry := testutil.Entry("e", data,
		testutil.Group(nxtree.ClassInstrument, "",
			testutil.Group(nxtree.ClassDetector, "panelA", testutil.Str("layout", "flat")),
		),
	)
	rec := dataset.New("")

	require.NoError(t, Converter{}.Convert(ctx, entry, data, rec, 0))
	require.Equal(t, 2, rec.Len())
	for i := 0; i < rec.Len(); i++ {
		name, _ := rec.Spectrum(i).Attrs.String(dataset.DetectorName)
		assert.Equal(t, "panelA", name)
		layout, _ := rec.Spectrum(i).Attrs.String(dataset.DetectorLayout)
		assert.Equal(t, "flat", layout)
	}
}

func TestConvert_MalformedSourceDistanceAccumulates(t *testing.T) {
	ctx, _ := testutil.Context(t)
	data := testutil.Data("bank1",
		testutil.Counts("counts", []int{2, 3}, testutil.Seq(6)),
		testutil.Nums("time_of_flight", 1, 2, 3, 4),
	)
	entry := testutil.Entry("e", data,
		testutil.Group(nxtree.ClassInstrument, "ENGINX",
			testutil.Group(nxtree.ClassSource, "", testutil.Str("distance", "far")),
		),
	)
	rec := dataset.New("")

	err := Converter{}.Convert(ctx, entry, data, rec, 0)
	assert.ErrorIs(t, err, ErrSubProcessor)
	assert.Contains(t, err.Error(), "source")
	assert.Equal(t, 2, rec.Len())
	name, _ := rec.Attrs.String(dataset.InstName)
	assert.Equal(t, "ENGINX", name)
	assert.False(t, rec.Attrs.Has(dataset.InitialPath))
}

func TestProcess_LaterEntryDoesNotInheritBroadcastValues(t *testing.T) {
	ctx, _ := testutil.Context(t)
	first, firstData := bankEntry()
	secondData := testutil.Data("bank2",
		testutil.Counts("counts", []int{2, 3}, testutil.Seq(6)),
		testutil.Nums("time_of_flight", 1, 2, 3, 4),
	)
	second := testutil.Entry("run043", testutil.Num("run_number", 43), secondData)
	rec := dataset.New("")
	st := state.New()

	require.NoError(t, Converter{}.Process(ctx, st, rec, first, firstData, 0))
	require.NoError(t, Converter{}.Process(ctx, st, rec, second, secondData, 8))
	require.Equal(t, 10, rec.Len())

	run, _ := rec.Spectrum(0).Attrs.IntList(dataset.RunNum)
	assert.Equal(t, []int{42}, run)
	pulses, ok := rec.Spectrum(0).Attrs.Float(dataset.NumberOfPulses)
	assert.True(t, ok)
	assert.Equal(t, 300.0, pulses)

	run, _ = rec.Spectrum(8).Attrs.IntList(dataset.RunNum)
	assert.Equal(t, []int{43}, run)
	assert.False(t, rec.Spectrum(8).Attrs.Has(dataset.NumberOfPulses))
	assert.False(t, rec.Spectrum(8).Attrs.Has(dataset.InitialPath))
	assert.False(t, rec.Attrs.Has(dataset.NumberOfPulses))
}

func TestConvert_SpectraOwnTheirTimeAxis(t *testing.T) {
	ctx, _ := testutil.Context(t)
	entry, data := bankEntry()
	rec := dataset.New("")
	require.NoError(t, Converter{}.Convert(ctx, entry, data, rec, 0))

	rec.Spectrum(0).X[0] = -1
	assert.Equal(t, 10.0, rec.Spectrum(1).X[0])
}
