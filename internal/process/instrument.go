package process

import (
	"fmt"

	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/state"
	"github.com/specialistvlad/nxload/internal/units"
)

// instrumentContext resolves the instrument facts of one entry. The
// override document's source distance wins over the tree's. A malformed
// source distance is returned as an error next to a usable context.
func (c Converter) instrumentContext(entryName string, instrument nxtree.Node, instType string) (*state.InstrumentContext, error) {
	ic := &state.InstrumentContext{InstType: instType}
	if instrument != nil {
		ic.Name = instrument.Name()
		if n, ok := nxtree.String(instrument, "name"); ok {
			ic.Name = n
		}
		for _, d := range nxtree.ChildrenOfClass(instrument, nxtree.ClassDetector) {
			if ic.Detectors == nil {
				ic.Detectors = make(map[string]nxtree.Node)
			}
			// First detector of a name wins.
			if _, dup := ic.Detectors[d.Name()]; !dup {
				ic.Detectors[d.Name()] = d
			}
		}
	}

	var err error
	source := nxtree.FirstOfClass(instrument, nxtree.ClassSource)
	d, ok, derr := nxtree.Float(source, "distance")
	switch {
	case derr != nil:
		err = fmt.Errorf("source: %w", derr)
	case ok:
		ic.SourceDistance = d * units.Factor(nxtree.Units(source, "distance"), units.Meters)
		ic.HasSource = true
	}
	if v, found := override.ResolveFloat(c.Override, override.Query{
		Entry:             entryName,
		FileName:          c.FileName,
		Path:              []string{nxtree.ClassSource, "distance"},
		SearchNoNameEntry: true,
	}); found {
		ic.SourceDistance, ic.HasSource = v, true
	}
	return ic, err
}
