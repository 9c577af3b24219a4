package telemetry

import (
	"encoding/json"
	"math"
	"strconv"
)

// SensorReading is one normalized sensor poll. Every field may be absent;
// nil means the backend did not report a usable value. Readings are never
// mutated after creation, the next poll supersedes them wholesale.
type SensorReading struct {
	Temperature *float64
	GasPpm      *float64
	PressureHpa *float64
	VibrationG  *float64
	Latitude    *float64
	Longitude   *float64
	BatteryPct  *float64
	Mode        string
	Survivors   *int
	Quality     *float64
	RSSIDbm     *float64
}

// NetworkReading is one normalized network poll.
type NetworkReading struct {
	RSSIDbm *float64
	Quality *float64
}

// HasPosition reports whether both coordinates are present and plausible.
// Lat/lng are only trusted as a pair.
func (r SensorReading) HasPosition() bool {
	return r.Latitude != nil && r.Longitude != nil &&
		CoordsValid(*r.Latitude, *r.Longitude)
}

// CoordsValid rejects the null island default and out-of-range coordinates.
func CoordsValid(lat, lng float64) bool {
	if lat == 0 && lng == 0 {
		return false
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return false
	}
	return true
}

// asFloat coerces a decoded JSON value to a finite float. Anything that does
// not parse as a finite number counts as absent, not as zero.
func asFloat(v any) *float64 {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(n, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

func asInt(v any) *int {
	f := asFloat(v)
	if f == nil {
		return nil
	}
	n := int(math.Floor(*f))
	return &n
}

// ParseSensor normalizes a raw /sensor_data payload. Malformed JSON yields
// the empty reading; consumers render absent fields as placeholders.
func ParseSensor(body []byte) SensorReading {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return SensorReading{}
	}
	return sensorFromMap(raw)
}

func sensorFromMap(raw map[string]any) SensorReading {
	r := SensorReading{
		Temperature: asFloat(raw["temp"]),
		GasPpm:      asFloat(raw["gas"]),
		PressureHpa: asFloat(raw["pressure"]),
		VibrationG:  asFloat(raw["vibration"]),
		Latitude:    asFloat(raw["latitude"]),
		Longitude:   asFloat(raw["longitude"]),
		BatteryPct:  asFloat(raw["battery"]),
		Quality:     asFloat(raw["quality"]),
		RSSIDbm:     asFloat(raw["rssi"]),
	}
	if mode, ok := raw["mode"].(string); ok {
		r.Mode = mode
	}
	// Older firmware reports "people" instead of "survivors".
	if s := asInt(raw["survivors"]); s != nil {
		r.Survivors = s
	} else {
		r.Survivors = asInt(raw["people"])
	}
	return r
}

// ParseNetwork normalizes a raw /network payload.
func ParseNetwork(body []byte) NetworkReading {
	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return NetworkReading{}
	}
	return NetworkReading{
		RSSIDbm: asFloat(raw["rssi"]),
		Quality: asFloat(raw["quality"]),
	}
}

// IsEmpty reports whether no field of the reading carries a value.
func (r SensorReading) IsEmpty() bool {
	return r.Temperature == nil && r.GasPpm == nil && r.PressureHpa == nil &&
		r.VibrationG == nil && r.Latitude == nil && r.Longitude == nil &&
		r.BatteryPct == nil && r.Mode == "" && r.Survivors == nil &&
		r.Quality == nil && r.RSSIDbm == nil
}
