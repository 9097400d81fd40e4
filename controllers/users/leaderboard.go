package users

import (
	"net/http"
	"strconv"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"
)

// LeaderboardHandler lists users ordered by civic score, paginated.
func LeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	db := database.DB

	var total int64
	if err := db.Model(&models.User{}).Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var top []models.User
	if err := db.Select("id, name, avatar, civic_score, rank").
		Order("civic_score DESC, id ASC").
		Offset(offset).Limit(limit).
		Find(&top).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	entries := make([]map[string]interface{}, 0, len(top))
	for i, u := range top {
		entries = append(entries, map[string]interface{}{
			"position":    offset + i + 1,
			"id":          u.ID,
			"name":        u.Name,
			"avatar":      u.Avatar,
			"civic_score": u.CivicScore,
		})
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Leaderboard fetched",
		Data: map[string]interface{}{
			"entries": entries,
			"page":    page,
			"limit":   limit,
			"total":   total,
		},
	})
}
