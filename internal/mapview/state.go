package mapview

import (
	"sync"

	"rescue-gcs/internal/hazard"
)

type point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type zone struct {
	Center point   `json:"center"`
	Radius float64 `json:"radiusMeters"`
	Level  string  `json:"level"`
	Color  string  `json:"color"`
}

type route struct {
	From      point   `json:"from"`
	To        point   `json:"to"`
	DistanceM float64 `json:"distanceMeters"`
}

// mapState is the display state shared by both backends: marker, trail,
// the single current zone, the single current route. All access is
// mutex-guarded because poll completions and console requests interleave.
type mapState struct {
	mu      sync.Mutex
	center  point
	zoom    int
	marker  *point
	trail   []point
	zone    *zone
	route   *route
	onClick ClickHandler
}

func (s *mapState) Initialize(centerLat, centerLng float64, zoom int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.center = point{centerLat, centerLng}
	s.zoom = zoom
}

func (s *mapState) SetMarkerPosition(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker = &point{lat, lng}
}

func (s *mapState) AppendTrailPoint(lat, lng float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trail = append(s.trail, point{lat, lng})
}

func (s *mapState) TrimTrail(max int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if max > 0 && len(s.trail) > max {
		s.trail = append(s.trail[:0:0], s.trail[len(s.trail)-max:]...)
	}
}

func (s *mapState) DrawZone(lat, lng, radiusMeters float64, level hazard.Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.zone = &zone{
		Center: point{lat, lng},
		Radius: radiusMeters,
		Level:  level.String(),
		Color:  level.Color(),
	}
}

func (s *mapState) DrawRoute(fromLat, fromLng, toLat, toLng float64) float64 {
	d := HaversineMeters(fromLat, fromLng, toLat, toLng)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = &route{
		From:      point{fromLat, fromLng},
		To:        point{toLat, toLng},
		DistanceM: d,
	}
	return d
}

func (s *mapState) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.route = nil
}

func (s *mapState) OnUserClick(h ClickHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onClick = h
}

func (s *mapState) Click(lat, lng float64) {
	s.mu.Lock()
	h := s.onClick
	s.mu.Unlock()
	if h != nil {
		h(lat, lng)
	}
}

func (s *mapState) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.marker = nil
	s.trail = nil
	s.zone = nil
	s.route = nil
}

// snapshot copies the display state out under the lock.
func (s *mapState) snapshot() (point, int, *point, []point, *zone, *route) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trail := append([]point(nil), s.trail...)
	var m *point
	if s.marker != nil {
		c := *s.marker
		m = &c
	}
	var z *zone
	if s.zone != nil {
		c := *s.zone
		z = &c
	}
	var r *route
	if s.route != nil {
		c := *s.route
		r = &c
	}
	return s.center, s.zoom, m, trail, z, r
}
