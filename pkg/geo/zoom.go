package geo

import "github.com/weininghu1012/NextBus/pkg/model"

// microdegrees per degree, the unit map spans are expressed in
const e6 = 1e6

// Viewport is the map camera position that encloses a set of points.
type Viewport struct {
	Center    model.LatLon `json:"center"`
	LatSpanE6 int          `json:"latSpanE6"`
	LonSpanE6 int          `json:"lonSpanE6"`
}

// ZoomToFit computes the center and span of the bounding box around points.
// Spans are in microdegrees, truncated. The caller must pass at least one
// point; ZoomToFit panics otherwise.
func ZoomToFit(points []model.LatLon) Viewport {
	if len(points) == 0 {
		panic("geo: ZoomToFit needs at least one point")
	}

	minLat, maxLat := points[0].Latitude, points[0].Latitude
	minLon, maxLon := points[0].Longitude, points[0].Longitude

	for _, p := range points[1:] {
		if p.Latitude > maxLat {
			maxLat = p.Latitude
		}
		if p.Latitude < minLat {
			minLat = p.Latitude
		}
		if p.Longitude > maxLon {
			maxLon = p.Longitude
		}
		if p.Longitude < minLon {
			minLon = p.Longitude
		}
	}

	return Viewport{
		Center: model.LatLon{
			Latitude:  (maxLat + minLat) / 2,
			Longitude: (maxLon + minLon) / 2,
		},
		LatSpanE6: int((maxLat - minLat) * e6),
		LonSpanE6: int((maxLon - minLon) * e6),
	}
}
