package dataset

import (
	"fmt"
)

// Spectrum is one indexed sequence of samples, e.g. one detector pixel's
// time-binned counts.
type Spectrum struct {
	GroupID int
	// X holds the bin boundaries (len(Y)+1) or centres (len(Y)).
	X      []float64
	Y      []float64
	Errors []float64
	Attrs  Attributes
}

// DataSet is the measurement record a conversion fills. It is owned by one
// conversion at a time.
type DataSet struct {
	Title     string
	Attrs     Attributes
	Operators []string
	spectra   []*Spectrum
	ids       map[int]struct{}
}

// New returns an empty record with the given title.
func New(title string) *DataSet {
	return &DataSet{Title: title}
}

// AddSpectrum appends s. Group ids must be unique within the record.
func (d *DataSet) AddSpectrum(s *Spectrum) error {
	if s == nil {
		return fmt.Errorf("nil spectrum")
	}
	if _, dup := d.ids[s.GroupID]; dup {
		return fmt.Errorf("duplicate group id %d", s.GroupID)
	}
	if d.ids == nil {
		d.ids = make(map[int]struct{})
	}
	d.ids[s.GroupID] = struct{}{}
	d.spectra = append(d.spectra, s)
	return nil
}

// Len returns the number of spectra.
func (d *DataSet) Len() int {
	return len(d.spectra)
}

// Spectrum returns the i-th spectrum in insertion order, or nil.
func (d *DataSet) Spectrum(i int) *Spectrum {
	if i < 0 || i >= len(d.spectra) {
		return nil
	}
	return d.spectra[i]
}

// Spectra returns the spectra added at or after position from.
func (d *DataSet) Spectra(from int) []*Spectrum {
	if from < 0 {
		from = 0
	}
	if from >= len(d.spectra) {
		return nil
	}
	return append([]*Spectrum(nil), d.spectra[from:]...)
}

// GroupIDs returns the group ids in insertion order.
func (d *DataSet) GroupIDs() []int {
	ids := make([]int, len(d.spectra))
	for i, s := range d.spectra {
		ids[i] = s.GroupID
	}
	return ids
}

// AddOperators appends operator names that are not already attached.
func (d *DataSet) AddOperators(names ...string) {
	seen := make(map[string]struct{}, len(d.Operators))
	for _, n := range d.Operators {
		seen[n] = struct{}{}
	}
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		d.Operators = append(d.Operators, n)
	}
}

// Summary is a serialisable view of a record.
type Summary struct {
	Title      string         `json:"title"`
	Spectra    int            `json:"spectra"`
	GroupIDs   []int          `json:"group_ids,omitempty"`
	TimeBins   int            `json:"time_bins"`
	TotalCount float64        `json:"total_count"`
	Operators  int            `json:"operators"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Summary returns a compact description of the record.
func (d *DataSet) Summary() Summary {
	s := Summary{
		Title:      d.Title,
		Spectra:    len(d.spectra),
		GroupIDs:   d.GroupIDs(),
		Operators:  len(d.Operators),
		Attributes: d.Attrs.Map(),
	}
	for _, sp := range d.spectra {
		if len(sp.Y) > s.TimeBins {
			s.TimeBins = len(sp.Y)
		}
		for _, y := range sp.Y {
			s.TotalCount += y
		}
	}
	return s
}
