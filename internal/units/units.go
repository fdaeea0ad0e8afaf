// Package units converts the unit strings found in source files into
// multiplication factors towards the standard units used in assembled records.
//
// A unit string may start with a numeric multiplier ("10us", "0.5 mm"); the
// multiplier is folded into the returned factor. Unknown units yield a factor
// of 1 so that values pass through unchanged.
package units

import (
	"math"
	"strconv"
	"strings"
)

// Standard units understood by Factor.
const (
	Meters       = "meters"
	Microseconds = "us"
	Radians      = "radians"
	Kelvin       = "Kelvin"
	PicoCoulomb  = "picoCoulomb"
	MilliEV      = "meV"
)

var lengthFactors = map[string]float64{
	"m": 1, "meter": 1, "meters": 1, "met": 1, "metre": 1, "metres": 1,
	"cm": 0.01, "centim": 0.01, "centimeter": 0.01, "centimeters": 0.01, "cmeter": 0.01,
	"mm": 0.001, "millim": 0.001, "millimeter": 0.001, "millimeters": 0.001,
	"um": 1e-6, "umet": 1e-6, "umeter": 1e-6, "umeters": 1e-6, "micron": 1e-6,
	"in": 0.0254, "inch": 0.0254, "inches": 0.0254,
	"ft": 0.3048, "foot": 0.3048, "feet": 0.3048,
}

var timeFactors = map[string]float64{
	"s": 1e6, "sec": 1e6, "second": 1e6, "seconds": 1e6,
	"ms": 1e3, "msec": 1e3, "millisecond": 1e3, "milliseconds": 1e3, "millis": 1e3,
	"us": 1, "usec": 1, "microsecond": 1, "microseconds": 1, "microsec": 1,
	"ns": 1e-3, "nsec": 1e-3, "nanosecond": 1e-3, "nanoseconds": 1e-3,
}

var angleFactors = map[string]float64{
	"rad": 1, "radian": 1, "radians": 1,
	"deg": math.Pi / 180, "degree": math.Pi / 180, "degrees": math.Pi / 180,
}

var chargeFactors = map[string]float64{
	"pc": 1, "picocoulomb": 1, "picocoulombs": 1,
	"nc": 1e3, "nanocoulomb": 1e3, "nanocoulombs": 1e3,
	"uc": 1e6, "microcoulomb": 1e6, "microcoulombs": 1e6,
	"mc": 1e9, "millicoulomb": 1e9, "millicoulombs": 1e9,
	"c": 1e12, "coulomb": 1e12, "coulombs": 1e12,
}

var energyFactors = map[string]float64{
	"mev": 1, "millielectronvolt": 1,
	"ev": 1e3, "electronvolt": 1e3,
	"uev": 1e-3, "microelectronvolt": 1e-3,
}

// Factor returns the value that a quantity expressed in `from` must be
// multiplied by to be expressed in the standard unit `std`.
func Factor(from, std string) float64 {
	mult, unit := splitMultiplier(from)
	if unit == "" {
		return mult
	}

	var table map[string]float64
	key := unit
	switch std {
	case Meters:
		table = lengthFactors
	case Microseconds:
		table = timeFactors
	case Radians:
		table = angleFactors
	case PicoCoulomb:
		table = chargeFactors
		key = strings.ToLower(unit)
	case MilliEV:
		// "MeV" and "meV" differ only by case, so match it first.
		if unit == "MeV" {
			return mult * 1e9
		}
		table = energyFactors
		key = strings.ToLower(unit)
	default:
		return mult
	}

	if f, ok := table[key]; ok {
		return mult * f
	}
	return mult
}

// Adjust multiplies every value in place by the conversion factor.
func Adjust(values []float64, from, std string) {
	if from == "" || len(values) == 0 {
		return
	}
	f := Factor(from, std)
	if f == 1 {
		return
	}
	for i := range values {
		values[i] *= f
	}
}

// splitMultiplier separates a leading numeric multiplier from the unit name.
func splitMultiplier(s string) (float64, string) {
	s = strings.TrimSpace(s)
	n := 0
	for n < len(s) && (s[n] >= '0' && s[n] <= '9' || s[n] == '.' || (n == 0 && (s[n] == '-' || s[n] == '+'))) {
		n++
	}
	mult := 1.0
	if n > 0 {
		if v, err := strconv.ParseFloat(s[:n], 64); err == nil {
			mult = v
		}
	}
	unit := strings.TrimSpace(s[n:])
	unit = strings.TrimPrefix(unit, "*")
	return mult, unit
}
