package tasks

import (
	"net/http"
	"strconv"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/scoring"
	"civicgrid/utils"
)

// NearbyTasksHandler lists reports awaiting verification within a radius of
// the caller's stored home location. Radius defaults to 10 km.
func NearbyTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.User
	if err := db.Select("id, latitude, longitude").First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}
	if !user.HasLocation() {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Set your location before browsing nearby reports"})
		return
	}

	radius := scoring.DefaultNearbyRadiusKm
	if s := r.URL.Query().Get("radius"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid radius"})
			return
		}
		radius = v
	}

	var pending []models.Task
	if err := db.Preload("Creator").
		Where("status = ?", models.TaskStatusPending).
		Order("created_at DESC").
		Find(&pending).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	nearby := scoring.FilterNearby(pending, *user.Latitude, *user.Longitude, radius)

	tallies, err := voteTallies(db, nearby)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(nearby))
	for _, t := range nearby {
		tally := tallies[t.ID]
		entry := taskPayload(t, tally.Valid, tally.Invalid)
		entry["distance_km"] = scoring.DistanceKm(*user.Latitude, *user.Longitude, t.Latitude, t.Longitude)
		payload = append(payload, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Nearby tasks fetched",
		Data: map[string]interface{}{
			"tasks":     payload,
			"radius_km": radius,
		},
	})
}
