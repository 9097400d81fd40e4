package scoring

import (
	"math"

	"civicgrid/models"
)

const earthRadiusKm = 6371

// DefaultNearbyRadiusKm is used when the caller doesn't pass a radius.
const DefaultNearbyRadiusKm = 10.0

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// DistanceKm returns the great-circle distance between two coordinates via
// the haversine formula.
func DistanceKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

// FilterNearby keeps tasks within radiusKm of the given point, preserving
// the input order.
func FilterNearby(tasks []models.Task, lat, lon, radiusKm float64) []models.Task {
	nearby := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		if DistanceKm(lat, lon, t.Latitude, t.Longitude) <= radiusKm {
			nearby = append(nearby, t)
		}
	}
	return nearby
}
