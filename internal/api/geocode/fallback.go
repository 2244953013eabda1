package geocode

import (
	"hash/fnv"
	"strings"
)

// DefaultCenter is used when a city is unknown to both the geocoder and the
// fallback table.
var DefaultCenter = Point{Lat: 48.8566, Lon: 2.3522} // Paris

// jitterSpan is the maximum offset in degrees applied around a city center.
const jitterSpan = 0.02

var fallbackCities = []struct {
	key   string
	point Point
}{
	{"paris", Point{48.8566, 2.3522}},
	{"tokyo", Point{35.6762, 139.6503}},
	{"new york", Point{40.7128, -74.0060}},
	{"london", Point{51.5074, -0.1278}},
	{"san francisco", Point{37.7749, -122.4194}},
	{"los angeles", Point{34.0522, -118.2437}},
	{"rome", Point{41.9028, 12.4964}},
	{"barcelona", Point{41.3851, 2.1734}},
	{"singapore", Point{1.3521, 103.8198}},
	{"sydney", Point{-33.8688, 151.2093}},
	{"dubai", Point{25.2048, 55.2708}},
	{"bangkok", Point{13.7563, 100.5018}},
	{"hong kong", Point{22.3193, 114.1694}},
	{"berlin", Point{52.5200, 13.4050}},
	{"amsterdam", Point{52.3676, 4.9041}},
	{"madrid", Point{40.4168, -3.7038}},
}

// FallbackCity returns the table entry whose key appears in city, so
// "Paris, France" resolves to Paris.
func FallbackCity(city string) (Point, bool) {
	c := strings.ToLower(city)
	for _, fc := range fallbackCities {
		if strings.Contains(c, fc.key) {
			return fc.point, true
		}
	}
	return Point{}, false
}

// Jitter offsets center by up to ±0.02° in each axis, derived from name so
// the same attraction always lands on the same spot.
func Jitter(center Point, name string) Point {
	h := fnv.New64a()
	_, _ = h.Write([]byte(strings.ToLower(strings.TrimSpace(name))))
	sum := h.Sum64()

	unit := func(bits uint64) float64 {
		return float64(bits&0xFFFFFFFF)/float64(0xFFFFFFFF)*2 - 1
	}
	return Point{
		Lat: center.Lat + unit(sum)*jitterSpan,
		Lon: center.Lon + unit(sum>>32)*jitterSpan,
	}
}
