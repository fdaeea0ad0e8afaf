package process

import (
	"context"
	"strconv"

	"github.com/specialistvlad/nxload/internal/ctxlog"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
	"github.com/specialistvlad/nxload/internal/units"
)

// pulsesPerSecond converts a run duration into a pulse count.
const pulsesPerSecond = 30

// broadcastKeys are copied from the record onto every spectrum added by a
// conversion. They describe a single entry, so values left on the record
// by an earlier entry are cleared first.
var broadcastKeys = []dataset.Key{dataset.RunNum, dataset.NumberOfPulses, dataset.InitialPath, dataset.ProtonCharge}

// Process converts one entry into rec using the caller's stack. A nil data
// group makes it a monitor entry. The stack depth is unchanged on return.
func (c Converter) Process(ctx context.Context, st *state.Stack, rec *dataset.DataSet, entry, data nxtree.Node, start int) error {
	if entry == nil {
		return newError(MissingRequiredInput, "", "entry node is required")
	}
	if rec == nil {
		return newError(MissingRequiredInput, "", "target record is required")
	}
	if st == nil {
		st = state.New()
	}
	logger := ctxlog.FromContext(ctx).With("entry", entry.Name())
	ctx = ctxlog.WithLogger(ctx, logger)
	op := "entry " + entry.Name()

	ec := c.entryContext(entry)
	defer st.Push(ec)()

	if !rec.Attrs.Has(dataset.InstType) {
		rec.Attrs.Set(dataset.InstType, instTypeOf(entry))
	}
	instType, _ := rec.Attrs.String(dataset.InstType)
	if c.FileName != "" {
		rec.Attrs.Set(dataset.FileName, c.FileName)
	}
	for _, k := range broadcastKeys {
		rec.Attrs.Delete(k)
	}

	var acc accumulator
	from := rec.Len()
	monitorEntry := data == nil
	if monitorEntry {
		rec.Title = "Mon_" + entry.Name()
		rec.AddOperators(dataset.MonitorOperators(instType)...)
		id := start
		for _, m := range nxtree.ChildrenOfClass(entry, nxtree.ClassMonitor) {
			n, err := processMonitor(m, rec, id)
			if err != nil {
				return wrapError(DataGroupProcessingFailed, op, err)
			}
			id += n
		}
	} else {
		rec.Title = data.Name()
		rec.AddOperators(dataset.HistogramOperators(instType)...)
		ic, err := c.instrumentContext(entry.Name(), nxtree.FirstOfClass(entry, nxtree.ClassInstrument), instType)
		if err != nil {
			logger.Warn("Sub-processor failed.", "class", nxtree.ClassInstrument, "error", err)
			acc.add(wrapError(SubProcessorFailed, nxtree.ClassInstrument, err))
		}
		defer st.Push(ic)()
		if _, err := c.processDataGroup(ctx, st, entry, data, rec, start); err != nil {
			return err
		}
	}

	c.entryFields(entry, ec, rec)

	for _, step := range subSteps {
		if monitorEntry && step.skipMonitor {
			continue
		}
		nodes := nxtree.ChildrenOfClass(entry, step.class)
		if len(nodes) == 0 {
			nodes = []nxtree.Node{nil}
		}
		for _, n := range nodes {
			if err := step.run(c, st, entry.Name(), n, rec); err != nil {
				logger.Warn("Sub-processor failed.", "class", step.class, "error", err)
				acc.add(wrapError(SubProcessorFailed, step.class, err))
			}
		}
	}

	for _, sp := range rec.Spectra(from) {
		sp.Attrs.CopyFrom(&rec.Attrs, broadcastKeys...)
	}

	if err := acc.err(); err != nil {
		return &Error{Kind: SubProcessorFailed, Op: op, Err: err}
	}
	logger.Info("Entry converted.", "title", rec.Title, "spectra", rec.Len()-from)
	return nil
}

// entryFields reads the optional entry-level fields into rec.
func (c Converter) entryFields(entry nxtree.Node, ec *state.EntryContext, rec *dataset.DataSet) {
	if s, ok := nxtree.String(entry, "run_number"); ok {
		if run, err := strconv.Atoi(s); err == nil && run >= 0 {
			rec.Attrs.Set(dataset.RunNum, []int{run})
		}
	}
	if s, ok := nxtree.String(entry, "title"); ok {
		rec.Attrs.Set(dataset.Title, s)
	}
	if d, ok, err := nxtree.Float(entry, "duration"); ok && err == nil {
		rec.Attrs.Set(dataset.NumberOfPulses, d*pulsesPerSecond)
	}
	if q, ok, err := nxtree.Float(entry, "proton_charge"); ok && err == nil {
		rec.Attrs.Set(dataset.ProtonCharge, q*units.Factor(nxtree.Units(entry, "proton_charge"), units.PicoCoulomb))
	}
	if ec.Facility != "" {
		rec.Attrs.Set(dataset.FacilityName, ec.Facility)
	}
}

// entryContext collects what is known about entry before any child is
// visited.
func (c Converter) entryContext(entry nxtree.Node) *state.EntryContext {
	ec := &state.EntryContext{Name: entry.Name()}
	if s, ok := nxtree.String(entry, "facility"); ok {
		ec.Facility = s
	} else if s, ok := override.ResolveString(c.Override, override.Query{
		Entry:             entry.Name(),
		FileName:          c.FileName,
		Path:              []string{"facility"},
		SearchNoNameEntry: true,
	}); ok {
		ec.Facility = s
	}
	return ec
}

func instTypeOf(entry nxtree.Node) string {
	for _, name := range []string{"definition", "analysis"} {
		if s, ok := nxtree.String(entry, name); ok {
			if t := dataset.InstTypeFor(s); t != dataset.InstUnknown {
				return t
			}
		}
	}
	return dataset.InstUnknown
}
