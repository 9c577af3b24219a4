// Package hazard classifies a sensor reading into a discrete danger level.
package hazard

import "rescue-gcs/internal/telemetry"

// Level is ordered by severity; higher is worse.
type Level int

const (
	Green Level = iota
	Yellow
	Orange
	Red
)

func (l Level) String() string {
	switch l {
	case Red:
		return "red"
	case Orange:
		return "orange"
	case Yellow:
		return "yellow"
	default:
		return "green"
	}
}

// Color returns the map overlay color for the level.
func (l Level) Color() string {
	switch l {
	case Red:
		return "#d32f2f"
	case Orange:
		return "#f57c00"
	case Yellow:
		return "#fbc02d"
	default:
		return "#388e3c"
	}
}

// Classify maps a reading to a level with red-first threshold checks, so when
// gas and vibration cross different bands the higher severity wins. Absent
// fields count as zero. Pressure is carried in the reading but takes no part
// in the thresholds; that is a known limitation of the current policy, not
// an oversight to patch here.
func Classify(r telemetry.SensorReading) Level {
	gas := 0.0
	if r.GasPpm != nil {
		gas = *r.GasPpm
	}
	vib := 0.0
	if r.VibrationG != nil {
		vib = *r.VibrationG
	}

	switch {
	case gas > 800 || vib > 3.0:
		return Red
	case gas > 500 || vib > 2.0:
		return Orange
	case gas > 250 || vib > 1.0:
		return Yellow
	default:
		return Green
	}
}
