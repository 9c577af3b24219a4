package mapview

import (
	"errors"

	"github.com/google/uuid"
)

// SDK is the commercial map backend. Geometry lives in mapState like the
// tile backend, so both agree on geodesic distances; what differs is the
// scene shape, which mirrors the vendor SDK's marker/polyline/circle
// object model and carries the script URL the console loads.
type SDK struct {
	mapState
	key     string
	base    string
	session string
}

var errNoSDKKey = errors.New("map SDK key not configured")

// NewSDK fails when no key is configured; Select then falls back to the
// tile backend permanently for the session.
func NewSDK(key, base string) (*SDK, error) {
	if key == "" {
		return nil, errNoSDKKey
	}
	return &SDK{
		key:     key,
		base:    base,
		session: uuid.NewString(),
	}, nil
}

func (s *SDK) Name() string { return "sdk" }

type sdkOverlay struct {
	Marker   *point  `json:"marker,omitempty"`
	Polyline []point `json:"polyline,omitempty"`
	Circle   *zone   `json:"circle,omitempty"`
	Route    *route  `json:"route,omitempty"`
}

type sdkScene struct {
	Backend   string     `json:"backend"`
	ScriptURL string     `json:"scriptUrl"`
	Session   string     `json:"session"`
	Center    point      `json:"center"`
	Zoom      int        `json:"zoom"`
	Overlay   sdkOverlay `json:"overlay"`
}

func (s *SDK) Scene() any {
	center, zoom, marker, trail, z, r := s.snapshot()

	return sdkScene{
		Backend:   s.Name(),
		ScriptURL: s.base + "/js?key=" + s.key,
		Session:   s.session,
		Center:    center,
		Zoom:      zoom,
		Overlay: sdkOverlay{
			Marker:   marker,
			Polyline: trail,
			Circle:   z,
			Route:    r,
		},
	}
}
