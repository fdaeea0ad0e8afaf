package process

import (
	"fmt"
	"math"

	"github.com/specialistvlad/nxload/internal/axis"
	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/units"
)

// processMonitor converts one monitor group into spectra starting at id.
func processMonitor(monitor nxtree.Node, rec *dataset.DataSet, id int) (int, error) {
	signal := signalField(monitor)
	if signal == nil {
		return 0, fmt.Errorf("monitor %q has no data", monitor.Name())
	}
	dims := signal.Dims()
	layout, err := selectLayout(dims, axis.Default(len(dims)), false)
	if err != nil {
		return 0, fmt.Errorf("monitor %q: %w", monitor.Name(), err)
	}
	values, err := nxtree.ToFloats(signal.Value())
	if err != nil {
		return 0, fmt.Errorf("monitor %q: %w", monitor.Name(), err)
	}
	if len(values) != layout.NumSpectra()*layout.TimeBins() {
		return 0, fmt.Errorf("monitor %q has %d values for dimensions %v", monitor.Name(), len(values), dims)
	}
	tnode, err := timeAxisNode(monitor, axisNames(signal), axis.Default(len(dims)), len(dims))
	if err != nil {
		return 0, err
	}
	xs, err := timeValues(tnode, layout.TimeBins())
	if err != nil {
		return 0, err
	}

	distance, hasDistance, err := nxtree.Float(monitor, "distance")
	if err != nil {
		return 0, fmt.Errorf("monitor %q: %w", monitor.Name(), err)
	}
	distance = math.Abs(distance * units.Factor(nxtree.Units(monitor, "distance"), units.Meters))

	for s := 0; s < layout.NumSpectra(); s++ {
		sp := &dataset.Spectrum{GroupID: id + s, X: xs, Y: make([]float64, layout.TimeBins())}
		total := 0.0
		for b := range sp.Y {
			sp.Y[b] = values[layout.Index(s, b)]
			total += sp.Y[b]
		}
		sp.Attrs.Set(dataset.MonitorName, monitor.Name())
		sp.Attrs.Set(dataset.TotalCount, total)
		if hasDistance {
			sp.Attrs.Set(dataset.DetectorDistance, distance)
		}
		if err := rec.AddSpectrum(sp); err != nil {
			return s, err
		}
	}
	return layout.NumSpectra(), nil
}
