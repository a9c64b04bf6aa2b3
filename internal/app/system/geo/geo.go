// internal/app/system/geo/geo.go

// Package geo implements the in-process radius filter used by the search
// endpoints. There is no database-side geo index: callers load the full
// candidate set and filter here, preserving the collection's natural order.
package geo

import (
	"math"

	"github.com/eventra/eventra/internal/domain/apperr"
	"github.com/eventra/eventra/internal/domain/models"
)

// earthRadiusKm is the mean Earth radius used by the haversine formula.
const earthRadiusKm = 6371

// ValidateCoordinates rejects out-of-range latitude/longitude.
func ValidateCoordinates(lat, lng float64) error {
	if math.IsNaN(lat) || lat < -90 || lat > 90 {
		return apperr.New(apperr.KindValidation, "latitude must be within [-90, 90]")
	}
	if math.IsNaN(lng) || lng < -180 || lng > 180 {
		return apperr.New(apperr.KindValidation, "longitude must be within [-180, 180]")
	}
	return nil
}

// ValidateRadius rejects a negative search radius.
func ValidateRadius(radiusKm float64) error {
	if math.IsNaN(radiusKm) || radiusKm < 0 {
		return apperr.New(apperr.KindValidation, "radius must be non-negative")
	}
	return nil
}

// DistanceKm computes the great-circle distance between two coordinates
// via the haversine formula.
func DistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// WithinRadius reports whether pos lies within radiusKm of (lat, lng).
// A point at exactly radiusKm is included.
func WithinRadius(lat, lng, radiusKm float64, pos models.Position) bool {
	return DistanceKm(lat, lng, pos.Lat, pos.Lng) <= radiusKm
}

// FilterWithin returns the subset of items whose position lies within
// radiusKm of (lat, lng), in the input order. Validation errors are
// returned before any filtering; an empty result is not an error.
func FilterWithin[T any](items []T, position func(T) models.Position, lat, lng, radiusKm float64) ([]T, error) {
	if err := ValidateCoordinates(lat, lng); err != nil {
		return nil, err
	}
	if err := ValidateRadius(radiusKm); err != nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if WithinRadius(lat, lng, radiusKm, position(it)) {
			out = append(out, it)
		}
	}
	return out, nil
}
