package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSensorCoercion(t *testing.T) {
	r := ParseSensor([]byte(`{
		"temp": 24.5,
		"gas": "310",
		"pressure": null,
		"vibration": "not-a-number",
		"latitude": 35.68,
		"longitude": 139.76,
		"battery": 91,
		"mode": "auto",
		"survivors": 3.7
	}`))

	require.NotNil(t, r.Temperature)
	assert.Equal(t, 24.5, *r.Temperature)
	// Numeric strings coerce; garbage does not.
	require.NotNil(t, r.GasPpm)
	assert.Equal(t, 310.0, *r.GasPpm)
	assert.Nil(t, r.PressureHpa)
	assert.Nil(t, r.VibrationG)
	assert.Equal(t, "auto", r.Mode)
	// Fractional survivor counts floor.
	require.NotNil(t, r.Survivors)
	assert.Equal(t, 3, *r.Survivors)
	assert.True(t, r.HasPosition())
}

func TestParseSensorMalformed(t *testing.T) {
	assert.True(t, ParseSensor([]byte(`not json`)).IsEmpty())
	assert.True(t, ParseSensor([]byte(`{}`)).IsEmpty())
}

func TestParseSensorPeopleAlias(t *testing.T) {
	r := ParseSensor([]byte(`{"people": 5}`))
	require.NotNil(t, r.Survivors)
	assert.Equal(t, 5, *r.Survivors)

	// "survivors" wins when both are present.
	r = ParseSensor([]byte(`{"people": 5, "survivors": 2}`))
	require.NotNil(t, r.Survivors)
	assert.Equal(t, 2, *r.Survivors)
}

func TestHasPosition(t *testing.T) {
	lat, lng := 35.68, 139.76
	zero := 0.0

	assert.True(t, SensorReading{Latitude: &lat, Longitude: &lng}.HasPosition())
	assert.False(t, SensorReading{Latitude: &lat}.HasPosition())
	assert.False(t, SensorReading{}.HasPosition())
	// Null island is a missing fix, not a position.
	assert.False(t, SensorReading{Latitude: &zero, Longitude: &zero}.HasPosition())

	bad := 123.0
	assert.False(t, SensorReading{Latitude: &bad, Longitude: &lng}.HasPosition())
}

func TestParseNetwork(t *testing.T) {
	n := ParseNetwork([]byte(`{"rssi": -65, "quality": 78}`))
	require.NotNil(t, n.RSSIDbm)
	assert.Equal(t, -65.0, *n.RSSIDbm)
	require.NotNil(t, n.Quality)
	assert.Equal(t, 78.0, *n.Quality)

	n = ParseNetwork([]byte(`broken`))
	assert.Nil(t, n.RSSIDbm)
	assert.Nil(t, n.Quality)
}
