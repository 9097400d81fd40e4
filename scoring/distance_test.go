package scoring

import (
	"math"
	"testing"

	"civicgrid/models"
)

func TestDistanceKmSamePoint(t *testing.T) {
	if d := DistanceKm(28.6139, 77.2090, 28.6139, 77.2090); d != 0 {
		t.Fatalf("expected zero distance for identical points, got %f", d)
	}
}

func TestDistanceKmOneDegreeLatitude(t *testing.T) {
	// One degree of latitude is roughly 111 km everywhere on the globe.
	d := DistanceKm(28.6139, 77.2090, 29.6139, 77.2090)
	if math.Abs(d-111.19) > 1.0 {
		t.Fatalf("expected ~111 km, got %f", d)
	}
}

func TestFilterNearby(t *testing.T) {
	center := models.Task{ID: 1, Latitude: 28.6139, Longitude: 77.2090}
	near := models.Task{ID: 2, Latitude: 28.62, Longitude: 77.21}
	far := models.Task{ID: 3, Latitude: 29.6139, Longitude: 77.2090}

	in := []models.Task{far, center, near}

	got := FilterNearby(in, 28.6139, 77.2090, DefaultNearbyRadiusKm)
	if len(got) != 2 {
		t.Fatalf("expected 2 tasks within 10 km, got %d", len(got))
	}
	// input order must be preserved
	if got[0].ID != 1 || got[1].ID != 2 {
		t.Fatalf("expected order [1 2], got [%d %d]", got[0].ID, got[1].ID)
	}

	wide := FilterNearby(in, 28.6139, 77.2090, 150)
	if len(wide) != 3 {
		t.Fatalf("expected all tasks within 150 km, got %d", len(wide))
	}
}
