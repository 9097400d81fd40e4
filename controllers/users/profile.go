package users

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"civicgrid/database"
	"civicgrid/middleware"
	"civicgrid/models"
	"civicgrid/utils"

	"gorm.io/gorm"
)

// MeHandler returns the authenticated user's profile with badges and
// contribution counts.
func MeHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var user models.User
	if err := db.Preload("Badges").First(&user, uid).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[users] DB error fetching user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var taskCount int64
	db.Model(&models.Task{}).Where("creator_id = ?", uid).Count(&taskCount)
	var voteCount int64
	db.Model(&models.Vote{}).Where("voter_id = ?", uid).Count(&voteCount)

	badgeNames := make([]string, 0, len(user.Badges))
	for _, b := range user.Badges {
		badgeNames = append(badgeNames, b.Name)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile fetched",
		Data: map[string]interface{}{
			"id":          user.ID,
			"name":        user.Name,
			"email":       user.Email,
			"avatar":      user.Avatar,
			"civic_score": user.CivicScore,
			"rank":        user.Rank,
			"role":        user.Role,
			"latitude":    user.Latitude,
			"longitude":   user.Longitude,
			"badges":      badgeNames,
			"tasks":       taskCount,
			"votes":       voteCount,
		},
	})
}

type UpdateProfileRequest struct {
	Name      *string  `json:"name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// UpdateProfileHandler updates name, email and home location. At least one
// field must be provided.
func UpdateProfileHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var req UpdateProfileRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Name == nil && req.Email == nil && req.Latitude == nil && req.Longitude == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "No fields to update"})
		return
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "latitude and longitude must be provided together"})
		return
	}

	db := database.DB

	updates := map[string]interface{}{}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" || len(name) > 100 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid name"})
			return
		}
		updates["name"] = name
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid email"})
			return
		}
		var existing models.User
		if err := db.Where("email = ? AND id <> ?", email, uid).First(&existing).Error; err == nil {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "Email is already registered"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
			return
		}
		updates["email"] = email
	}

	if req.Latitude != nil {
		if *req.Latitude < -90 || *req.Latitude > 90 || *req.Longitude < -180 || *req.Longitude > 180 {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid coordinates"})
			return
		}
		updates["latitude"] = *req.Latitude
		updates["longitude"] = *req.Longitude
	}

	if err := db.Model(&models.User{}).Where("id = ?", uid).Updates(updates).Error; err != nil {
		log.Printf("[users] DB error updating user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var user models.User
	if err := db.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Profile updated",
		Data: map[string]interface{}{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"latitude":  user.Latitude,
			"longitude": user.Longitude,
		},
	})
}
