package process

import (
	"fmt"

	"github.com/specialistvlad/nxload/internal/dataset"
	"github.com/specialistvlad/nxload/internal/nxtree"
	"github.com/specialistvlad/nxload/internal/override"
	"github.com/specialistvlad/nxload/internal/units"
)

// detectorField maps a detector leaf to the spectrum attribute it fills.
type detectorField struct {
	name string
	key  dataset.Key
	std  string
	abs  bool
}

var detectorFields = []detectorField{
	{name: "distance", key: dataset.DetectorDistance, std: units.Meters, abs: true},
	{name: "polar_angle", key: dataset.RawAngle, std: units.Radians},
	{name: "azimuthal_angle", key: dataset.AzimuthalAngle, std: units.Radians},
	{name: "solid_angle", key: dataset.SolidAngle},
}

// attachDetector copies detector geometry onto spectra, which are the
// spectra added by the current data group in order. Values come from the
// detector node, else from the override document. A single value applies
// to every spectrum.
func (c Converter) attachDetector(entryName, link string, detector nxtree.Node, spectra []*dataset.Spectrum) error {
	for _, f := range detectorFields {
		values, err := c.detectorValues(entryName, link, detector, f)
		if err != nil {
			return err
		}
		if values == nil {
			continue
		}
		switch len(values) {
		case 1:
			for _, sp := range spectra {
				sp.Attrs.Set(f.key, values[0])
			}
		case len(spectra):
			for i, sp := range spectra {
				sp.Attrs.Set(f.key, values[i])
			}
		default:
			return fmt.Errorf("detector %q field %q has %d values for %d spectra", link, f.name, len(values), len(spectra))
		}
	}
	return nil
}

func (c Converter) detectorValues(entryName, link string, detector nxtree.Node, f detectorField) ([]float64, error) {
	values, ok, err := nxtree.FloatsOf(detector, f.name)
	if err != nil {
		return nil, fmt.Errorf("detector %q: %w", link, err)
	}
	if ok {
		if f.std != "" {
			units.Adjust(values, nxtree.Units(detector, f.name), f.std)
		}
	} else {
		q := c.query(entryName, link)
		q.Path = []string{"detector", f.name}
		v, found := override.ResolveFloat(c.Override, q)
		if !found {
			return nil, nil
		}
		values = []float64{v}
	}
	if f.abs {
		for i, v := range values {
			if v < 0 {
				values[i] = -v
			}
		}
	}
	return values, nil
}
