package tasks

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"civicgrid/models"
	"civicgrid/utils"

	"gorm.io/gorm"
)

func seedLocatedUser(t *testing.T, db *gorm.DB, name string, lat, lon float64) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@test.local", Password: "x", Latitude: &lat, Longitude: &lon}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func fetchNearby(t *testing.T, userID uint, query string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/v1/tasks/nearby"+query, nil)
	r = r.WithContext(context.WithValue(r.Context(), utils.UserIDKey, userID))
	w := httptest.NewRecorder()
	NearbyTasksHandler(w, r)
	return w
}

func nearbyTaskIDs(t *testing.T, w *httptest.ResponseRecorder) map[uint]bool {
	t.Helper()
	var resp struct {
		Data struct {
			Tasks []struct {
				ID uint `json:"id"`
			} `json:"tasks"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	ids := make(map[uint]bool, len(resp.Data.Tasks))
	for _, task := range resp.Data.Tasks {
		ids[task.ID] = true
	}
	return ids
}

func TestNearbyRequiresStoredLocation(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "nomad")
	if w := fetchNearby(t, user.ID, ""); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without a stored location, got %d: %s", w.Code, w.Body.String())
	}
}

func TestNearbyAcceptsLargeRadius(t *testing.T) {
	db := testDB(t)
	user := seedLocatedUser(t, db, "resident", 28.6139, 77.2090)
	creator := seedUser(t, db, "creator")
	// ~1100 km north of the caller
	far := seedTask(t, db, creator.ID, models.TaskStatusPending, 38.6139, 77.2090)

	w := fetchNearby(t, user.ID, "?radius=20000")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for a large radius, got %d: %s", w.Code, w.Body.String())
	}
	if !nearbyTaskIDs(t, w)[far.ID] {
		t.Fatalf("expected task %d within a 20000 km radius: %s", far.ID, w.Body.String())
	}

	if w := fetchNearby(t, user.ID, "?radius=0"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero radius, got %d", w.Code)
	}
	if w := fetchNearby(t, user.ID, "?radius=abc"); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-numeric radius, got %d", w.Code)
	}
}

func TestNearbyDefaultRadiusFilters(t *testing.T) {
	db := testDB(t)
	user := seedLocatedUser(t, db, "resident", 28.6139, 77.2090)
	creator := seedUser(t, db, "creator")
	near := seedTask(t, db, creator.ID, models.TaskStatusPending, 28.62, 77.21)
	far := seedTask(t, db, creator.ID, models.TaskStatusPending, 29.6139, 77.2090)
	open := seedTask(t, db, creator.ID, models.TaskStatusOpen, 28.62, 77.21)

	w := fetchNearby(t, user.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	ids := nearbyTaskIDs(t, w)
	if !ids[near.ID] {
		t.Fatalf("expected nearby pending task %d in response: %s", near.ID, w.Body.String())
	}
	if ids[far.ID] {
		t.Fatalf("expected distant task %d filtered out: %s", far.ID, w.Body.String())
	}
	if ids[open.ID] {
		t.Fatalf("expected open task %d excluded from verification feed: %s", open.ID, w.Body.String())
	}
}
