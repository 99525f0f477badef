package models

import (
	geom "github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"
)

// RouteInfo is the singleton route-level summary. Labels are free text, units are not enforced.
type RouteInfo struct {
	Distance     string `json:"distance"`
	Duration     string `json:"duration"`
	Difficulty   string `json:"difficulty"`
	Description  string `json:"description"`
	PartnerLogos Logos  `json:"partnerLogos"`
}

// RoutePath is the fixed, ordered itinerary from Start to End.
type RoutePath struct {
	Start  string
	End    string
	Points []Coordinate
}

// DefaultRoutePath returns the built-in itinerary (Châtillon-sur-Cher to Gièvres).
func DefaultRoutePath() RoutePath {
	return RoutePath{
		Start: "Châtillon-sur-Cher",
		End:   "Gièvres",
		Points: []Coordinate{
			{Lat: 47.271956, Lng: 1.492724},
			{Lat: 47.27222, Lng: 1.49465},
			{Lat: 47.272509, Lng: 1.49547},
			{Lat: 47.273174, Lng: 1.497042},
			{Lat: 47.273386, Lng: 1.497669},
			{Lat: 47.273448, Lng: 1.497933},
			{Lat: 47.273561, Lng: 1.498535},
			{Lat: 47.273605, Lng: 1.499857},
			{Lat: 47.273688, Lng: 1.500821},
			{Lat: 47.27406, Lng: 1.504097},
			{Lat: 47.274177, Lng: 1.504844},
			{Lat: 47.274461, Lng: 1.506524},
			{Lat: 47.274577, Lng: 1.506986},
			{Lat: 47.275443, Lng: 1.509893},
			{Lat: 47.275605, Lng: 1.510503},
			{Lat: 47.275641, Lng: 1.510909},
			{Lat: 47.275654, Lng: 1.511384},
			{Lat: 47.275589, Lng: 1.51191},
			{Lat: 47.275502, Lng: 1.512274},
			{Lat: 47.275339, Lng: 1.512716},
			{Lat: 47.275133, Lng: 1.513095},
			{Lat: 47.274929, Lng: 1.5133},
			{Lat: 47.274671, Lng: 1.513753},
			{Lat: 47.274616, Lng: 1.513969},
			{Lat: 47.274257, Lng: 1.514772},
			{Lat: 47.274061, Lng: 1.516167},
			{Lat: 47.273813, Lng: 1.5196},
			{Lat: 47.273548, Lng: 1.522894},
			{Lat: 47.273431, Lng: 1.523811},
			{Lat: 47.273287, Lng: 1.524511},
		},
	}
}

// GeoJSON encodes the path as a GeoJSON LineString in [lng, lat] order.
func (rp RoutePath) GeoJSON() ([]byte, error) {
	coords := make([]geom.Coord, 0, len(rp.Points))
	for _, p := range rp.Points {
		coords = append(coords, geom.Coord{p.Lng, p.Lat})
	}

	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return nil, err
	}

	return geojson.Marshal(line)
}
