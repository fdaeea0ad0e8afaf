// Package dataset is the in-memory measurement record that conversions fill:
// an ordered collection of spectra plus descriptive attributes.
package dataset

import (
	"fmt"
	"sort"
)

// Key names a record or spectrum attribute.
type Key string

const (
	RunNum                Key = "RUN_NUM"
	Title                 Key = "TITLE"
	NumberOfPulses        Key = "NUMBER_OF_PULSES"
	InitialPath           Key = "INITIAL_PATH"
	InstType              Key = "INST_TYPE"
	InstName              Key = "INST_NAME"
	FacilityName          Key = "FACILITY_NAME"
	ProtonCharge          Key = "PROTON_CHARGE"
	FileName              Key = "FILE_NAME"
	SampleName            Key = "SAMPLE_NAME"
	SampleChemicalFormula Key = "SAMPLE_CHEMICAL_FORMULA"
	SampleTemperature     Key = "SAMPLE_TEMPERATURE"
	EnergyIn              Key = "ENERGY_IN"
	DetectorDistance      Key = "DETECTOR_DISTANCE"
	RawAngle              Key = "RAW_ANGLE"
	AzimuthalAngle        Key = "AZIMUTHAL_ANGLE"
	SolidAngle            Key = "SOLID_ANGLE"
	PixelRow              Key = "PIXEL_ROW"
	PixelCol              Key = "PIXEL_COL"
	DetectorName          Key = "DETECTOR_NAME"
	DetectorLayout        Key = "DETECTOR_LAYOUT"
	MonitorName           Key = "MONITOR_NAME"
	TotalCount            Key = "TOTAL_COUNT"
)

var knownKeys = map[Key]struct{}{
	RunNum: {}, Title: {}, NumberOfPulses: {}, InitialPath: {}, InstType: {}, InstName: {},
	FacilityName: {}, ProtonCharge: {}, FileName: {}, SampleName: {}, SampleChemicalFormula: {},
	SampleTemperature: {}, EnergyIn: {}, DetectorDistance: {}, RawAngle: {}, AzimuthalAngle: {},
	SolidAngle: {}, PixelRow: {}, PixelCol: {}, DetectorName: {}, DetectorLayout: {},
	MonitorName: {}, TotalCount: {},
}

// Valid reports whether k belongs to the attribute vocabulary.
func (k Key) Valid() bool {
	_, ok := knownKeys[k]
	return ok
}

// Attributes is a set of uniquely keyed values. The zero value is ready to use.
type Attributes struct {
	m map[Key]any
}

// Set stores v under k, replacing any previous value. Keys outside the
// vocabulary panic.
func (a *Attributes) Set(k Key, v any) {
	if !k.Valid() {
		panic(fmt.Sprintf("dataset: unknown attribute key %q", k))
	}
	if a.m == nil {
		a.m = make(map[Key]any)
	}
	a.m[k] = v
}

// Get returns the raw value stored under k.
func (a *Attributes) Get(k Key) (any, bool) {
	v, ok := a.m[k]
	return v, ok
}

// Has reports whether k is set.
func (a *Attributes) Has(k Key) bool {
	_, ok := a.m[k]
	return ok
}

// Delete removes k.
func (a *Attributes) Delete(k Key) {
	delete(a.m, k)
}

// Len returns the number of attributes.
func (a *Attributes) Len() int {
	return len(a.m)
}

// Keys returns the set keys in lexical order.
func (a *Attributes) Keys() []Key {
	keys := make([]Key, 0, len(a.m))
	for k := range a.m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Int returns an integer attribute.
func (a *Attributes) Int(k Key) (int, bool) {
	switch v := a.m[k].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// Float returns a numeric attribute as float64.
func (a *Attributes) Float(k Key) (float64, bool) {
	switch v := a.m[k].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// String returns a string attribute.
func (a *Attributes) String(k Key) (string, bool) {
	v, ok := a.m[k].(string)
	return v, ok
}

// IntList returns an integer list attribute.
func (a *Attributes) IntList(k Key) ([]int, bool) {
	v, ok := a.m[k].([]int)
	return v, ok
}

// CopyFrom copies the given keys from src. Slices are copied, so later
// changes to src do not show through. Keys missing from src are skipped.
func (a *Attributes) CopyFrom(src *Attributes, keys ...Key) {
	if src == nil {
		return
	}
	for _, k := range keys {
		v, ok := src.m[k]
		if !ok {
			continue
		}
		a.Set(k, cloneValue(v))
	}
}

// Map returns a copy of the attributes keyed by name.
func (a *Attributes) Map() map[string]any {
	out := make(map[string]any, len(a.m))
	for k, v := range a.m {
		out[string(k)] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []int:
		return append([]int(nil), t...)
	case []float64:
		return append([]float64(nil), t...)
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
