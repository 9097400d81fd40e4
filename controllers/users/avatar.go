package users

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"
)

const maxAvatarBytes = 5 << 20

// UploadAvatarHandler replaces the authenticated user's avatar. The new
// image is uploaded before the DB row changes; the previous object is
// deleted best-effort afterwards.
func UploadAvatarHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxAvatarBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}

	file, header, err := r.FormFile("avatar")
	if err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "avatar file is required"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
	default:
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported image type"})
		return
	}

	var user models.User
	if err := database.DB.First(&user, uid).Error; err != nil {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	objectName := fmt.Sprintf("avatars/%d-%d%s", uid, time.Now().UnixNano(), ext)
	publicURL, err := utils.UploadImage(objectName, file)
	if err != nil {
		log.Printf("[users] avatar upload failed for user %d: %v", uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
		return
	}

	oldAvatar := user.Avatar
	if err := database.DB.Model(&models.User{}).Where("id = ?", uid).Update("avatar", publicURL).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if old := utils.GetStringValue(oldAvatar); old != "" {
		if err := utils.DeleteFromS3ByURL(old); err != nil {
			log.Printf("[users] failed to delete old avatar for user %d: %v", uid, err)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Avatar updated",
		Data:    map[string]interface{}{"avatar": publicURL},
	})
}
