package process

import (
	"math"

	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
	"github.com/specialistvlad/nxload/internal/units"
)

// subProcessor copies metadata from one entry child onto the record. node
// is nil when the entry has no child of that class, so override values can
// still fill the gap.
type subProcessor func(c Converter, st *state.Stack, entryName string, node nxtree.Node, rec *dataset.DataSet) error

type subStep struct {
	class       string
	run         subProcessor
	skipMonitor bool
}

// subSteps run in this order after the data has been converted.
var subSteps = []subStep{
	{class: nxtree.ClassSample, run: processSample},
	{class: nxtree.ClassInstrument, run: processInstrument, skipMonitor: true},
	{class: nxtree.ClassBeam, run: processBeam, skipMonitor: true},
}

func processSample(c Converter, _ *state.Stack, entryName string, node nxtree.Node, rec *dataset.DataSet) error {
	if s, ok := c.stringField(entryName, node, nxtree.ClassSample, "name"); ok {
		rec.Attrs.Set(dataset.SampleName, s)
	}
	if s, ok := c.stringField(entryName, node, nxtree.ClassSample, "chemical_formula"); ok {
		rec.Attrs.Set(dataset.SampleChemicalFormula, s)
	}
	t, ok, err := c.floatField(entryName, node, nxtree.ClassSample, "temperature", units.Kelvin)
	if err != nil {
		return err
	}
	if ok {
		rec.Attrs.Set(dataset.SampleTemperature, t)
	}
	return nil
}

// processInstrument records the instrument name and the initial flight
// path. It reads the entry's instrument frame and only walks node itself
// when no frame is in scope.
func processInstrument(c Converter, st *state.Stack, entryName string, node nxtree.Node, rec *dataset.DataSet) error {
	ic, ok := st.FindInstrument()
	var err error
	if !ok {
		instType, _ := rec.Attrs.String(dataset.InstType)
		ic, err = c.instrumentContext(entryName, node, instType)
	}
	if ic.Name != "" {
		rec.Attrs.Set(dataset.InstName, ic.Name)
	}
	if ic.HasSource {
		rec.Attrs.Set(dataset.InitialPath, math.Abs(ic.SourceDistance))
	}
	return err
}

func processBeam(c Converter, _ *state.Stack, entryName string, node nxtree.Node, rec *dataset.DataSet) error {
	e, ok, err := c.floatField(entryName, node, nxtree.ClassBeam, "incident_energy", units.MilliEV)
	if err != nil {
		return err
	}
	if ok {
		rec.Attrs.Set(dataset.EnergyIn, e)
	}
	return nil
}

// floatField reads a numeric leaf converted to std, falling back to the
// override document under class. A present but malformed leaf is an error.
func (c Converter) floatField(entryName string, node nxtree.Node, class, name, std string) (float64, bool, error) {
	v, ok, err := nxtree.Float(node, name)
	if err != nil {
		return 0, false, err
	}
	if ok {
		return v * units.Factor(nxtree.Units(node, name), std), true, nil
	}
	q := c.classQuery(entryName, node, class, name)
	v, ok = override.ResolveFloat(c.Override, q)
	return v, ok, nil
}

func (c Converter) stringField(entryName string, node nxtree.Node, class, name string) (string, bool) {
	if s, ok := nxtree.String(node, name); ok {
		return s, true
	}
	return override.ResolveString(c.Override, c.classQuery(entryName, node, class, name))
}

func (c Converter) classQuery(entryName string, node nxtree.Node, class, name string) override.Query {
	label := ""
	if node != nil {
		label = node.Name()
	}
	return override.Query{
		Entry:                 entryName,
		FileName:              c.FileName,
		Path:                  []string{class, name},
		Names:                 []string{label},
		SearchNoNameEntry:     true,
		SearchNoNameSubfields: []bool{true},
	}
}
