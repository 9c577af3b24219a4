// Package renderer owns one dashboard session: the latest readings, the
// bounded position trail, the current hazard zone and the derived panel
// values. It is the only writer to the map backend, and all cross-component
// session state lives here with an explicit init/reset lifecycle.
package renderer

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"rescue-gcs/internal/forecast"
	"rescue-gcs/internal/hazard"
	"rescue-gcs/internal/linkquality"
	"rescue-gcs/internal/mapview"
	"rescue-gcs/internal/pathplan"
	"rescue-gcs/internal/predict"
	"rescue-gcs/internal/spark"
	"rescue-gcs/internal/telemetry"
)

// assumeHealthyBattery is the display default when the vehicle does not
// report charge. A dash would read as an empty battery to an operator under
// stress, so the panel assumes healthy until told otherwise.
const assumeHealthyBattery = 80.0

// Heatmap geometry: a square grid of 5 m cells centered on the first valid
// position.
const (
	heatmapCells    = 64
	heatmapCellM    = 5.0
	heatmapDecay    = 0.01
	metersPerDegLat = 111320.0
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TelemetrySnapshot is what the telemetry panel renders. Nil numeric fields
// mean unknown and show as placeholders, never as zeros.
type TelemetrySnapshot struct {
	SessionID   string    `json:"sessionId"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Temperature *float64  `json:"temperature"`
	GasPpm      *float64  `json:"gasPpm"`
	PressureHpa *float64  `json:"pressureHpa"`
	VibrationG  *float64  `json:"vibrationG"`
	VibrationSm *float64  `json:"vibrationSmoothed"`
	BatteryPct  float64   `json:"batteryPct"`
	Mode        string    `json:"mode"`
	Position    *Point    `json:"position"`
	Hazard      string    `json:"hazard"`
	Survivors   *int      `json:"survivors"`
	Rescuers    *int      `json:"rescuers"`
}

// LinkSnapshot is what the comms panel renders.
type LinkSnapshot struct {
	Live     bool                `json:"live"`
	RSSIDbm  *float64            `json:"rssiDbm"`
	Bundle   *linkquality.Bundle `json:"bundle"`
	Forecast *float64            `json:"forecastQuality"`
}

// Session wires readings through the derivation pipeline and into the map
// backend. One Session lives per process run.
type Session struct {
	ID      string
	Backend mapview.Backend
	Spark   *spark.Recorder
	Heatmap *pathplan.Heatmap

	log      *slog.Logger
	trailMax int
	zoneR    float64

	vibKalman *forecast.Kalman1D
	qualEMA   *forecast.EMA

	// OnSnapshot, when set, receives every applied telemetry snapshot
	// (redis mirror, downstream feed).
	OnSnapshot func(TelemetrySnapshot)

	mu          sync.Mutex
	reading     telemetry.SensorReading
	vibSmoothed *float64
	link        LinkSnapshot
	lastPos     *Point
	lastPosAt   time.Time
	origin      *Point
	speedSink   func(mps float64)
}

func NewSession(backend mapview.Backend, trailMax int, zoneRadius float64, log *slog.Logger) *Session {
	s := &Session{
		ID:        uuid.NewString(),
		Backend:   backend,
		Spark:     spark.NewRecorder(),
		Heatmap:   pathplan.NewHeatmap(heatmapCells, heatmapCells, heatmapDecay),
		log:       log.With("component", "session"),
		trailMax:  trailMax,
		zoneR:     zoneRadius,
		vibKalman: forecast.NewKalman1D(1e-3, 1e-2),
		qualEMA:   forecast.NewEMA(0.3),
	}
	backend.Initialize(0, 0, 17)
	s.log.Info("session started", "session", s.ID, "backend", backend.Name())
	return s
}

// ApplySensor ingests one completed sensor poll. Last-write-wins ordering is
// enforced upstream; by the time a reading lands here it is the newest.
func (s *Session) ApplySensor(r telemetry.SensorReading) {
	var smoothed *float64
	if r.VibrationG != nil {
		v := s.vibKalman.Update(*r.VibrationG)
		smoothed = &v
	}

	s.mu.Lock()
	s.reading = r
	s.vibSmoothed = smoothed
	s.mu.Unlock()

	if r.HasPosition() {
		s.applyPosition(*r.Latitude, *r.Longitude, hazard.Classify(r))
	}

	if s.OnSnapshot != nil {
		s.OnSnapshot(s.Telemetry())
	}
}

func (s *Session) applyPosition(lat, lng float64, level hazard.Level) {
	s.Backend.SetMarkerPosition(lat, lng)
	s.Backend.AppendTrailPoint(lat, lng)
	s.Backend.TrimTrail(s.trailMax)
	s.Backend.DrawZone(lat, lng, s.zoneR, level)

	s.mu.Lock()
	if s.origin == nil {
		s.origin = &Point{lat, lng}
		s.Backend.Initialize(lat, lng, 17)
	}
	prev, prevAt := s.lastPos, s.lastPosAt
	now := time.Now()
	s.lastPos = &Point{lat, lng}
	s.lastPosAt = now
	origin := *s.origin
	s.mu.Unlock()

	if prev != nil {
		dt := now.Sub(prevAt).Seconds()
		if dt > 0 {
			d := mapview.HaversineMeters(prev.Lat, prev.Lng, lat, lng)
			s.recordSpeed(d / dt)
		}
	}

	if level > hazard.Green {
		if cell, ok := s.cellFor(origin, lat, lng); ok {
			s.Heatmap.Reinforce([]pathplan.Cell{cell}, riskAmount(level))
		}
	}
}

func (s *Session) recordSpeed(mps float64) {
	s.mu.Lock()
	sink := s.speedSink
	s.mu.Unlock()
	if sink != nil {
		sink(mps)
	}
}

// SetSpeedSink registers the consumer of observed ground-speed samples;
// main wires it to the route estimator's adaptive window.
func (s *Session) SetSpeedSink(sink func(mps float64)) {
	s.mu.Lock()
	s.speedSink = sink
	s.mu.Unlock()
}

// ApplyNetwork ingests one completed network poll, recomputing the link
// bundle and feeding the sparkline. A poll with neither quality nor RSSI
// degrades the panel to its disabled state.
func (s *Session) ApplyNetwork(r telemetry.NetworkReading) {
	var q *float64
	switch {
	case r.Quality != nil:
		clamped := math.Min(100, math.Max(0, *r.Quality))
		q = &clamped
	case r.RSSIDbm != nil:
		derived := linkquality.QualityFromRSSI(*r.RSSIDbm)
		q = &derived
	}

	snap := LinkSnapshot{RSSIDbm: r.RSSIDbm}
	if q != nil {
		b := linkquality.Synthesize(*q)
		snap.Live = true
		snap.Bundle = &b
		s.Spark.Push(*q)
		f := s.qualEMA.Update(*q)
		snap.Forecast = &f
	}

	s.mu.Lock()
	s.link = snap
	s.mu.Unlock()
}

// Telemetry assembles the current telemetry panel snapshot.
func (s *Session) Telemetry() TelemetrySnapshot {
	s.mu.Lock()
	r := s.reading
	smoothed := s.vibSmoothed
	pos := s.lastPos
	s.mu.Unlock()

	snap := TelemetrySnapshot{
		SessionID:   s.ID,
		UpdatedAt:   time.Now(),
		Temperature: r.Temperature,
		GasPpm:      r.GasPpm,
		PressureHpa: r.PressureHpa,
		VibrationG:  r.VibrationG,
		Mode:        r.Mode,
		Hazard:      hazard.Classify(r).String(),
		Survivors:   r.Survivors,
		BatteryPct:  assumeHealthyBattery,
	}
	if r.BatteryPct != nil {
		snap.BatteryPct = *r.BatteryPct
	}
	snap.VibrationSm = smoothed
	if pos != nil {
		p := *pos
		snap.Position = &p
	}
	if r.Survivors != nil {
		n := predict.Recommend(float64(*r.Survivors))
		snap.Rescuers = &n
	}
	return snap
}

// Link returns the current comms panel snapshot.
func (s *Session) Link() LinkSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.link
}

// LastPosition implements route.LastPositionFunc.
func (s *Session) LastPosition() (float64, float64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastPos == nil {
		return 0, 0, false
	}
	return s.lastPos.Lat, s.lastPos.Lng, true
}

// Reset clears all session state; the map backend selection survives, the
// overlays do not.
func (s *Session) Reset() {
	s.mu.Lock()
	s.reading = telemetry.SensorReading{}
	s.vibSmoothed = nil
	s.link = LinkSnapshot{}
	s.lastPos = nil
	s.lastPosAt = time.Time{}
	s.origin = nil
	s.mu.Unlock()

	s.vibKalman = forecast.NewKalman1D(1e-3, 1e-2)
	s.qualEMA = forecast.NewEMA(0.3)
	s.Backend.Reset()
	s.Spark = spark.NewRecorder()
	s.Heatmap = pathplan.NewHeatmap(heatmapCells, heatmapCells, heatmapDecay)
}

// PlanSafeRoute runs the risk-aware grid planner from the vehicle's last
// position to the target, weighting cells by the decayed hazard heatmap.
// It reports ok=false when there is no position yet or either endpoint
// falls outside the planning grid; the caller falls back to the straight
// route.
func (s *Session) PlanSafeRoute(targetLat, targetLng float64) ([]Point, float64, bool) {
	s.mu.Lock()
	origin := s.origin
	last := s.lastPos
	s.mu.Unlock()
	if origin == nil || last == nil {
		return nil, 0, false
	}

	start, ok := s.cellFor(*origin, last.Lat, last.Lng)
	if !ok {
		return nil, 0, false
	}
	goal, ok := s.cellFor(*origin, targetLat, targetLng)
	if !ok {
		return nil, 0, false
	}

	occ := make(pathplan.Grid, heatmapCells)
	for r := range occ {
		occ[r] = make([]float64, heatmapCells)
	}
	cells, cost := pathplan.FindPath(occ, start, goal, pathplan.Options{
		Risk:            s.Heatmap.Snapshot(),
		RiskWeight:      0.5,
		DiagonalPenalty: 0.05,
	})
	if cells == nil {
		return nil, 0, false
	}

	pts := make([]Point, len(cells))
	for i, c := range cells {
		pts[i] = s.cellToLatLng(*origin, c)
	}
	return pts, cost, true
}

func (s *Session) cellToLatLng(origin Point, c pathplan.Cell) Point {
	dy := float64(c.Row-heatmapCells/2) * heatmapCellM
	dx := float64(c.Col-heatmapCells/2) * heatmapCellM
	return Point{
		Lat: origin.Lat + dy/metersPerDegLat,
		Lng: origin.Lng + dx/(metersPerDegLat*math.Cos(origin.Lat*math.Pi/180)),
	}
}

// cellFor maps a coordinate into the heatmap grid around the session
// origin using an equirectangular approximation, fine at sub-kilometer
// scale.
func (s *Session) cellFor(origin Point, lat, lng float64) (pathplan.Cell, bool) {
	dy := (lat - origin.Lat) * metersPerDegLat
	dx := (lng - origin.Lng) * metersPerDegLat * math.Cos(origin.Lat*math.Pi/180)

	row := heatmapCells/2 + int(math.Round(dy/heatmapCellM))
	col := heatmapCells/2 + int(math.Round(dx/heatmapCellM))
	if row < 0 || row >= heatmapCells || col < 0 || col >= heatmapCells {
		return pathplan.Cell{}, false
	}
	return pathplan.Cell{Row: row, Col: col}, true
}

func riskAmount(level hazard.Level) float64 {
	switch level {
	case hazard.Red:
		return 4
	case hazard.Orange:
		return 2
	default:
		return 1
	}
}
