// Package mapview abstracts the operator map behind one capability
// interface with two backends: a commercial map SDK and a self-hosted tile
// map. The backend is chosen once at startup and never switches mid-session;
// nothing outside this package branches on which one is live.
package mapview

import (
	"log/slog"

	"rescue-gcs/internal/hazard"
)

// ClickHandler receives the coordinates of an operator map click.
type ClickHandler func(lat, lng float64)

// Backend is the capability contract shared by both map implementations.
// Trail bounding is the caller's policy: AppendTrailPoint only appends, and
// the owner trims with TrimTrail when its configured maximum is exceeded.
type Backend interface {
	Name() string
	Initialize(centerLat, centerLng float64, zoom int)
	SetMarkerPosition(lat, lng float64)
	AppendTrailPoint(lat, lng float64)
	TrimTrail(max int)
	// DrawZone replaces any existing zone; the map shows current danger,
	// not zone history.
	DrawZone(lat, lng, radiusMeters float64, level hazard.Level)
	// DrawRoute replaces any existing route and returns the geodesic
	// distance in meters.
	DrawRoute(fromLat, fromLng, toLat, toLng float64) float64
	ClearRoute()
	OnUserClick(h ClickHandler)
	// Click dispatches an operator click to the registered handler.
	Click(lat, lng float64)
	// Scene returns a JSON-marshalable snapshot for the console.
	Scene() any
	Reset()
}

// Select picks the commercial SDK when a key is configured and reachable,
// otherwise the tile backend. The choice is permanent for the session.
func Select(sdkKey, sdkBase string, log *slog.Logger) Backend {
	if b, err := NewSDK(sdkKey, sdkBase); err == nil {
		log.Info("map backend selected", "backend", b.Name())
		return b
	} else {
		log.Warn("map SDK unavailable, using tile backend", "err", err)
	}
	return NewTile()
}
