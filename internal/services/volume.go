package services

import (
	"math"
	"strconv"
	"strings"
)

// SafeFloat parses a form value as a float, returning nil when it is empty
// or unparseable.
func SafeFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}

// CalculateVolume computes the volume in cm³ for a shape and its raw
// dimension strings. ok is false when the shape is unknown or any required
// dimension is missing or unparseable; callers must distinguish that from a
// legitimate zero volume.
func CalculateVolume(shape string, dims map[string]string) (float64, bool) {
	switch shape {
	case "rectangular":
		l := SafeFloat(dims["length"])
		w := SafeFloat(dims["width"])
		h := SafeFloat(dims["height"])
		if l != nil && w != nil && h != nil {
			return *l * *w * *h, true
		}

	case "cylinder":
		r := SafeFloat(dims["radius"])
		h := SafeFloat(dims["height"])
		if r != nil && h != nil {
			return math.Pi * *r * *r * *h, true
		}

	case "sphere":
		r := SafeFloat(dims["radius"])
		if r != nil {
			return (4.0 / 3.0) * math.Pi * *r * *r * *r, true
		}

	case "other":
		v := SafeFloat(dims["volume"])
		if v != nil {
			return *v, true
		}
	}

	return 0, false
}

// VolumeOf is CalculateVolume with a nullable result for storage.
func VolumeOf(shape string, dims map[string]string) *float64 {
	if v, ok := CalculateVolume(shape, dims); ok {
		return &v
	}
	return nil
}
