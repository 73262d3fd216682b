package utils

import (
	"fmt"
	"strings"

	"propagent/internal/model"
)

// Conversion factors. These match the constants the data pipeline was seeded
// with; changing them silently breaks recorded distances.
const (
	KmToMiles     = 0.621371
	SqmToSqft     = 10.7639
	MetersPerMile = 1609.344
)

// ToMiles converts a distance value to miles. An empty unit means the value
// is already canonical.
func ToMiles(value float64, unit string) (float64, error) {
	switch normalizeUnit(unit) {
	case "", "mi", "mile", "miles":
		return value, nil
	case "km", "kilometer", "kilometers", "kilometre", "kilometres":
		return value * KmToMiles, nil
	default:
		return 0, fmt.Errorf("%w: %q is not a distance unit", model.ErrInvalidUnit, unit)
	}
}

// ToSqft converts an area value to square feet. An empty unit means the value
// is already canonical.
func ToSqft(value float64, unit string) (float64, error) {
	switch normalizeUnit(unit) {
	case "", "sqft", "sq ft", "square feet":
		return value, nil
	case "sqm", "sq m", "m2", "square meters", "square metres":
		return value * SqmToSqft, nil
	default:
		return 0, fmt.Errorf("%w: %q is not an area unit", model.ErrInvalidUnit, unit)
	}
}

// MilesToMeters converts miles to meters for the spatial-query boundary. The
// conversation layer only ever sees miles.
func MilesToMeters(miles float64) float64 {
	return miles * MetersPerMile
}

func normalizeUnit(unit string) string {
	return strings.ToLower(strings.TrimSpace(unit))
}
