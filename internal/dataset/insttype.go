package dataset

import "strings"

// Instrument types stored under InstType.
const (
	InstUnknown                 = "UNKNOWN"
	InstTOFDiffractometer       = "TOF_DIFFRACTOMETER"
	InstTOFSCD                  = "TOF_SCD"
	InstTOFSAD                  = "TOF_SAD"
	InstTOFReflectometer        = "TOF_REFLECTOMETER"
	InstTOFDGSpectrometer       = "TOF_DG_SPECTROMETER"
	InstTOFIDGSpectrometer      = "TOF_IDG_SPECTROMETER"
	InstTripleAxisSpectrometer  = "TRIPLE_AXIS_SPECTROMETER"
	InstMonoChromDiffractometer = "MONO_CHROM_DIFFRACTOMETER"
	InstMonoChromSCD            = "MONO_CHROM_SCD"
	InstMonoChromSAD            = "MONO_CHROM_SAD"
	InstMonoChromReflectometer  = "MONO_CHROM_REFLECTOMETER"
)

// analysisNames maps the definition/analysis names used in source files to
// instrument types.
var analysisNames = map[string]string{
	"TOFNPD":    InstTOFDiffractometer,
	"TOFNSCD":   InstTOFSCD,
	"TOFNSAS":   InstTOFSAD,
	"TOFNREF":   InstTOFReflectometer,
	"TOFNDGS":   InstTOFDGSpectrometer,
	"TOFNIGS":   InstTOFIDGSpectrometer,
	"MONONXTAS": InstTripleAxisSpectrometer,
	"MONONXPD":  InstMonoChromDiffractometer,
	"MONONXSCD": InstMonoChromSCD,
	"MONONXSAS": InstMonoChromSAD,
	"MONONXREF": InstMonoChromReflectometer,
}

// InstTypeFor returns the instrument type for an analysis name, or
// InstUnknown.
func InstTypeFor(analysis string) string {
	if t, ok := analysisNames[strings.ToUpper(strings.TrimSpace(analysis))]; ok {
		return t
	}
	return InstUnknown
}

var baseOperators = []string{
	"DataSetScalarAdd", "DataSetScalarSubtract", "DataSetScalarMultiply", "DataSetScalarDivide",
	"DataBlockScalarAdd", "DataBlockScalarSubtract", "DataBlockScalarMultiply", "DataBlockScalarDivide",
	"DataSetAdd", "DataSetSubtract", "DataSetMultiply", "DataSetDivide",
	"IntegrateGroup",
}

var histogramOperators = map[string][]string{
	InstTOFDiffractometer: {
		"GetPixelInfo", "DiffractometerTofToD", "DiffractometerTofToQ", "DiffractometerTofToEnergy",
		"DiffractometerTofToWavelength", "TrueAngle", "LoadOffsets", "LoadGsasCalib",
	},
	InstTOFSCD: {
		"GetPixelInfo", "DiffractometerTofToD", "DiffractometerTofToQ", "SCDQxyz", "DiffractometerTofToEnergy",
		"DiffractometerTofToWavelength", "TrueAngle", "LoadOrientation", "LoadSCDCalib", "IntegratePt",
	},
	InstTOFSAD: {
		"GetPixelInfo", "DiffractometerTofToD", "DiffractometerTofToQ", "DiffractometerQxyz",
		"DiffractometerTofToEnergy", "DiffractometerTofToWavelength", "TrueAngle",
	},
	InstTOFDGSpectrometer: {
		"GetPixelInfo", "SpectrometerTofToEnergyLoss", "SpectrometerTofToEnergy", "SpectrometerTofToWavelength",
		"SumByAttributeNormSA", "SpectrometerTofToQE", "SpectrometerTofToQ2E", "TrueAngle",
	},
	InstTOFIDGSpectrometer: {"GetPixelInfo", "TrueAngle"},
	InstTOFReflectometer:   {"GetPixelInfo", "TrueAngle"},
}

// HistogramOperators returns the operator names for a histogram record of
// the given instrument type. Types without a dedicated set get the base set.
func HistogramOperators(instType string) []string {
	out := append([]string(nil), baseOperators...)
	return append(out, histogramOperators[instType]...)
}

// MonitorOperators returns the operator names for a monitor record.
func MonitorOperators(instType string) []string {
	out := append([]string(nil), baseOperators...)
	switch instType {
	case InstTOFDGSpectrometer:
		out = append(out, "EnergyFromMonitorDS", "MonitorPeakArea")
	case InstTOFDiffractometer:
		out = append(out, "FocusIncidentSpectrum")
	}
	return append(out, "MonitorTofToEnergy", "MonitorTofToWavelength")
}
