// Package polyline provides encoding and decoding for Google's polyline
// algorithm, plus haversine length computation over a coordinate path.
package polyline

import (
	"math"
)

// Coordinate is a geographic point.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Encode encodes coordinates as a polyline string at precision 5.
func Encode(coords []Coordinate) string {
	if len(coords) == 0 {
		return ""
	}

	encoded := make([]byte, 0, len(coords)*4)
	prevLat := 0
	prevLng := 0

	for _, coord := range coords {
		lat := int(math.Round(coord.Lat * 1e5))
		lng := int(math.Round(coord.Lng * 1e5))

		encoded = encodeValue(encoded, lat-prevLat)
		encoded = encodeValue(encoded, lng-prevLng)

		prevLat = lat
		prevLng = lng
	}

	return string(encoded)
}

// Decode decodes a precision-5 polyline string into coordinates.
func Decode(encoded string) []Coordinate {
	if encoded == "" {
		return nil
	}

	var coords []Coordinate
	index := 0
	lat := 0
	lng := 0

	for index < len(encoded) {
		latDelta, next := decodeValue(encoded, index)
		index = next
		lat += latDelta

		lngDelta, next := decodeValue(encoded, index)
		index = next
		lng += lngDelta

		coords = append(coords, Coordinate{
			Lat: float64(lat) / 1e5,
			Lng: float64(lng) / 1e5,
		})
	}

	return coords
}

// Length returns the total path length in meters using the haversine formula.
func Length(coords []Coordinate) float64 {
	if len(coords) < 2 {
		return 0
	}

	var total float64
	for i := 1; i < len(coords); i++ {
		total += haversineDistance(coords[i-1], coords[i])
	}
	return total
}

func encodeValue(buf []byte, value int) []byte {
	if value < 0 {
		value = ^(value << 1)
	} else {
		value <<= 1
	}

	for value >= 0x20 {
		buf = append(buf, byte((value&0x1f)|0x20)+63)
		value >>= 5
	}
	return append(buf, byte(value)+63)
}

func decodeValue(encoded string, index int) (int, int) {
	shift := 0
	result := 0

	for index < len(encoded) {
		b := int(encoded[index]) - 63
		index++
		result |= (b & 0x1f) << shift
		shift += 5
		if b < 0x20 {
			break
		}
	}

	if result&1 != 0 {
		return ^(result >> 1), index
	}
	return result >> 1, index
}

const earthRadiusMeters = 6371000

func haversineDistance(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLng := (b.Lng - a.Lng) * math.Pi / 180

	sinDLat := math.Sin(dLat / 2)
	sinDLng := math.Sin(dLng / 2)

	h := sinDLat*sinDLat + math.Cos(lat1)*math.Cos(lat2)*sinDLng*sinDLng
	return 2 * earthRadiusMeters * math.Asin(math.Sqrt(h))
}
