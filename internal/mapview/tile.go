package mapview

import (
	geojson "github.com/paulmach/go.geojson"
)

// Tile is the self-hosted tile map backend. Its scene is a GeoJSON
// FeatureCollection a Leaflet-style console can drop straight onto the map;
// the zone circle rides along as a point feature with a radius property,
// the usual Leaflet convention since GeoJSON has no circle geometry.
type Tile struct {
	mapState
	tileURL string
}

func NewTile() *Tile {
	return &Tile{
		tileURL: "https://tile.openstreetmap.org/{z}/{x}/{y}.png",
	}
}

func (t *Tile) Name() string { return "tile" }

type tileScene struct {
	Backend string                     `json:"backend"`
	TileURL string                     `json:"tileUrl"`
	Center  point                      `json:"center"`
	Zoom    int                        `json:"zoom"`
	Scene   *geojson.FeatureCollection `json:"scene"`
}

func (t *Tile) Scene() any {
	center, zoom, marker, trail, z, r := t.snapshot()

	fc := geojson.NewFeatureCollection()

	if marker != nil {
		f := geojson.NewPointFeature([]float64{marker.Lng, marker.Lat})
		f.SetProperty("kind", "vehicle")
		fc.AddFeature(f)
	}
	if len(trail) >= 2 {
		coords := make([][]float64, 0, len(trail))
		for _, p := range trail {
			coords = append(coords, []float64{p.Lng, p.Lat})
		}
		f := geojson.NewLineStringFeature(coords)
		f.SetProperty("kind", "trail")
		fc.AddFeature(f)
	}
	if z != nil {
		f := geojson.NewPointFeature([]float64{z.Center.Lng, z.Center.Lat})
		f.SetProperty("kind", "hazard-zone")
		f.SetProperty("radiusMeters", z.Radius)
		f.SetProperty("level", z.Level)
		f.SetProperty("color", z.Color)
		fc.AddFeature(f)
	}
	if r != nil {
		f := geojson.NewLineStringFeature([][]float64{
			{r.From.Lng, r.From.Lat},
			{r.To.Lng, r.To.Lat},
		})
		f.SetProperty("kind", "route")
		f.SetProperty("dash", "8 6")
		f.SetProperty("distanceMeters", r.DistanceM)
		fc.AddFeature(f)
	}

	return tileScene{
		Backend: t.Name(),
		TileURL: t.tileURL,
		Center:  center,
		Zoom:    zoom,
		Scene:   fc,
	}
}
