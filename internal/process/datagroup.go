package process

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/specialistvlad/nxload/internal/axis"
	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
)

const (
	fieldLink   = "link"
	fieldLayout = "layout"
	attrTarget  = "target"
)

// processDataGroup converts one data group into spectra with group ids
// starting at start. It returns the number of spectra added. Frames it
// pushes are popped before it returns.
func (c Converter) processDataGroup(ctx context.Context, st *state.Stack, entry, data nxtree.Node, rec *dataset.DataSet, start int) (int, error) {
	logger := ctxlog.FromContext(ctx).With("data_group", data.Name())
	op := "data " + data.Name()

	ec, ok := st.FindEntry()
	if !ok || ec.Name != entry.Name() {
		ec = c.entryContext(entry)
		defer st.Push(ec)()
	}

	signal := signalField(data)
	if signal == nil {
		return 0, newError(DataGroupProcessingFailed, op, "no signal field")
	}

	dc, ok := st.FindData()
	if !ok || dc.Name != data.Name() {
		dc = &state.DataContext{
			Name:      data.Name(),
			Dims:      signal.Dims(),
			AxisNames: axisNames(signal),
			LinkName:  linkName(data, signal),
		}
		defer st.Push(dc)()
	}

	assignment, changed := axis.Resolve(ctx, len(dc.Dims), axis.OverrideLookup(c.Override, c.query(ec.Name, data.Name())))
	layout, err := selectLayout(dc.Dims, assignment, changed)
	if err != nil {
		return 0, wrapError(DataGroupProcessingFailed, op, err)
	}
	logger.Debug("Layout selected.", "layout", layout.Name(), "dims", dc.Dims, "spectra", layout.NumSpectra(), "axes_changed", changed)

	ic, ok := st.FindInstrument()
	if !ok {
		instType, _ := rec.Attrs.String(dataset.InstType)
		ic, _ = c.instrumentContext(ec.Name, nxtree.FirstOfClass(entry, nxtree.ClassInstrument), instType)
		defer st.Push(ic)()
	}
	detector := ic.Detectors[dc.LinkName]
	if detector == nil {
		logger.Warn("No detector linked to data group; continuing without detector geometry.",
			"link", dc.LinkName, "kind", DetectorNotFound.String())
	} else {
		defer st.Push(&state.DetectorContext{
			Name:   dc.LinkName,
			Layout: c.detectorLayout(ec.Name, dc.LinkName, detector),
			Node:   detector,
		})()
	}

	from := rec.Len()
	if err := c.populate(st, data, signal, layout, assignment, rec, start); err != nil {
		return rec.Len() - from, wrapError(DataGroupProcessingFailed, op, err)
	}

	if detector != nil || c.Override != nil {
		if err := c.attachDetector(ec.Name, dc.LinkName, detector, rec.Spectra(from)); err != nil {
			return rec.Len() - from, wrapError(DataGroupProcessingFailed, op, err)
		}
	}

	added := rec.Len() - from
	logger.Debug("Data group converted.", "spectra", added, "first_group_id", start)
	return added, nil
}

// populate adds one spectrum per layout element to rec. The data group's
// dimensions and its detector come from the nearest frames on st.
func (c Converter) populate(st *state.Stack, data, signal nxtree.Node, layout Layout, a axis.Assignment, rec *dataset.DataSet, start int) error {
	dc, ok := st.FindData()
	if !ok {
		return fmt.Errorf("no data group in scope")
	}
	det, ok := st.FindDetector()
	if ok && det.Name != dc.LinkName {
		det = nil
	}

	values, err := nxtree.ToFloats(signal.Value())
	if err != nil {
		return fmt.Errorf("signal %q: %w", signal.Name(), err)
	}
	want := layout.NumSpectra() * layout.TimeBins()
	if len(values) != want {
		return fmt.Errorf("signal %q has %d values, dimensions %v need %d", signal.Name(), len(values), dc.Dims, want)
	}

	tnode, err := timeAxisNode(data, dc.AxisNames, a, len(dc.Dims))
	if err != nil {
		return err
	}
	xs, err := timeValues(tnode, layout.TimeBins())
	if err != nil {
		return err
	}

	var errs []float64
	if en := nxtree.ChildByName(data, fieldErrors); en != nil && en.Class() == nxtree.ClassField {
		errs, err = nxtree.ToFloats(en.Value())
		if err != nil {
			return fmt.Errorf("errors: %w", err)
		}
		if len(errs) != len(values) {
			return fmt.Errorf("errors has %d values, signal has %d", len(errs), len(values))
		}
	}

	bins := layout.TimeBins()
	for s := 0; s < layout.NumSpectra(); s++ {
		sp := &dataset.Spectrum{GroupID: start + s, X: append([]float64(nil), xs...), Y: make([]float64, bins)}
		if errs != nil {
			sp.Errors = make([]float64, bins)
		}
		total := 0.0
		for b := 0; b < bins; b++ {
			idx := layout.Index(s, b)
			sp.Y[b] = values[idx]
			total += values[idx]
			if errs != nil {
				sp.Errors[b] = errs[idx]
			}
		}
		sp.Attrs.Set(dataset.TotalCount, total)
		if row, col, ok := layout.RowCol(s); ok {
			sp.Attrs.Set(dataset.PixelRow, row)
			sp.Attrs.Set(dataset.PixelCol, col)
		}
		if det != nil {
			sp.Attrs.Set(dataset.DetectorName, det.Name)
			if det.Layout != "" {
				sp.Attrs.Set(dataset.DetectorLayout, det.Layout)
			}
		}
		if err := rec.AddSpectrum(sp); err != nil {
			return err
		}
	}
	return nil
}

// linkName is the name used to find the detector of a data group.
func linkName(data, signal nxtree.Node) string {
	if s, ok := nxtree.String(data, fieldLink); ok {
		return s
	}
	if t, ok := nxtree.AttrString(signal, attrTarget); ok {
		t = strings.TrimRight(t, "/")
		// The target is a path like /entry/instrument/bank1/data.
		parts := strings.Split(t, "/")
		if len(parts) >= 2 {
			return parts[len(parts)-2]
		}
		return path.Base(t)
	}
	return data.Name()
}

// detectorLayout reads the detector's layout field, falling back to the
// override document.
func (c Converter) detectorLayout(entryName, link string, detector nxtree.Node) string {
	if s, ok := nxtree.String(detector, fieldLayout); ok {
		return s
	}
	q := c.query(entryName, link)
	q.Path = []string{"detector", fieldLayout}
	s, _ := override.ResolveString(c.Override, q)
	return s
}

// query is the template for override lookups below one named class.
func (c Converter) query(entryName, name string) override.Query {
	return override.Query{
		Entry:                 entryName,
		FileName:              c.FileName,
		Names:                 []string{name},
		SearchNoNameEntry:     true,
		SearchNoNameSubfields: []bool{true},
	}
}
