package rewards

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

const maxRewardImageBytes = 8 << 20

// CreateRewardHandler lets an admin publish a redeemable reward. Accepts a
// multipart form so an image can be attached in the same request.
func CreateRewardHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxRewardImageBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	description := strings.TrimSpace(r.FormValue("description"))
	pointsStr := strings.TrimSpace(r.FormValue("points_req"))

	if name == "" || pointsStr == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "name and points_req are required"})
		return
	}
	points, err := strconv.Atoi(pointsStr)
	if err != nil || points <= 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "points_req must be a positive integer"})
		return
	}

	var imageURL *string
	if file, header, err := r.FormFile("image"); err == nil {
		defer file.Close()
		ext := strings.ToLower(filepath.Ext(header.Filename))
		switch ext {
		case ".jpg", ".jpeg", ".png", ".webp":
		default:
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unsupported image type"})
			return
		}
		objectName := fmt.Sprintf("rewards/%d%s", time.Now().UnixNano(), ext)
		publicURL, err := utils.UploadImage(objectName, file)
		if err != nil {
			log.Printf("[rewards] image upload failed: %v", err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
			return
		}
		imageURL = &publicURL
	}

	reward := models.Reward{
		Name:        name,
		Description: description,
		PointsReq:   points,
		ImageURL:    imageURL,
	}
	if err := database.DB.Create(&reward).Error; err != nil {
		log.Printf("[rewards] DB Create reward error: %v", err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Reward created",
		Data:    rewardPayload(reward),
	})
}

// ListRewardsHandler returns the reward catalog, cheapest first.
func ListRewardsHandler(w http.ResponseWriter, r *http.Request) {
	var list []models.Reward
	if err := database.DB.Order("points_req ASC, id ASC").Find(&list).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(list))
	for _, rw := range list {
		payload = append(payload, rewardPayload(rw))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Rewards fetched",
		Data:    map[string]interface{}{"rewards": payload},
	})
}

// DeleteRewardHandler removes a reward and its claims. The catalog image is
// deleted from object storage best-effort after the rows are gone.
func DeleteRewardHandler(w http.ResponseWriter, r *http.Request) {
	rewardID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || rewardID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid reward id"})
		return
	}

	db := database.DB

	var reward models.Reward
	if err := db.First(&reward, uint(rewardID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Reward not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reward_id = ?", reward.ID).Delete(&models.RewardClaim{}).Error; err != nil {
			return err
		}
		return tx.Delete(&reward).Error
	})
	if err != nil {
		log.Printf("[rewards] delete failed for reward %d: %v", reward.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	if img := utils.GetStringValue(reward.ImageURL); img != "" {
		if derr := utils.DeleteFromS3ByURL(img); derr != nil {
			log.Printf("[rewards] failed to delete image for reward %d: %v", reward.ID, derr)
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{Success: true, Message: "Reward deleted"})
}

func rewardPayload(rw models.Reward) map[string]interface{} {
	return map[string]interface{}{
		"id":          rw.ID,
		"name":        rw.Name,
		"description": rw.Description,
		"points_req":  rw.PointsReq,
		"image_url":   rw.ImageURL,
	}
}
