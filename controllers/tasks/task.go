package tasks

import (
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/scoring"
	"civicgrid/utils"

	"gorm.io/gorm"
)

const maxTaskImageBytes = 8 << 20

// CreateTaskHandler accepts a multipart form with title, description,
// latitude, longitude and an optional photo. The reporter earns civic score
// for the submission; the task starts in community verification.
func CreateTaskHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	if err := r.ParseMultipartForm(maxTaskImageBytes); err != nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid multipart form"})
		return
	}

	title := strings.TrimSpace(r.FormValue("title"))
	description := strings.TrimSpace(r.FormValue("description"))
	latStr := strings.TrimSpace(r.FormValue("latitude"))
	lonStr := strings.TrimSpace(r.FormValue("longitude"))

	if title == "" || description == "" || latStr == "" || lonStr == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "title, description, latitude and longitude are required"})
		return
	}
	if len(title) > 150 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Title must be at most 150 characters"})
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid latitude"})
		return
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil || lon < -180 || lon > 180 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid longitude"})
		return
	}

	// Upload before the transaction so a storage failure never leaves a
	// half-created task.
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
		objectName := fmt.Sprintf("tasks/%d-%d%s", uid, time.Now().UnixNano(), ext)
		publicURL, err := utils.UploadImage(objectName, file)
		if err != nil {
			log.Printf("[tasks] image upload failed for user %d: %v", uid, err)
			utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Upload failed"})
			return
		}
		imageURL = &publicURL
	}

	task := models.Task{
		Title:       title,
		Description: description,
		ImageURL:    imageURL,
		Latitude:    lat,
		Longitude:   lon,
		Status:      models.TaskStatusPending,
		CreatorID:   uid,
	}

	var newScore int
	err = database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&task).Error; err != nil {
			return err
		}
		score, err := scoring.AwardPoints(tx, uid, scoring.TaskCreationPoints)
		if err != nil {
			return err
		}
		newScore = score
		return nil
	})
	if err != nil {
		log.Printf("[tasks] DB error creating task for user %d: %v", uid, err)
		if imageURL != nil {
			if derr := utils.DeleteFromS3ByURL(*imageURL); derr != nil {
				log.Printf("[tasks] failed to delete orphaned image %s: %v", *imageURL, derr)
			}
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Failed to create report"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Report submitted for community verification",
		Data: map[string]interface{}{
			"task":        taskPayload(task, 0, 0),
			"civic_score": newScore,
		},
	})
}

// ListTasksHandler returns tasks newest first with vote tallies. Supports
// ?status= filtering and pagination.
func ListTasksHandler(w http.ResponseWriter, r *http.Request) {
	db := database.DB

	q := db.Model(&models.Task{})
	status := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("status")))
	if status != "" {
		if status != models.TaskStatusPending && status != models.TaskStatusOpen {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Unknown status filter"})
			return
		}
		q = q.Where("status = ?", status)
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var list []models.Task
	if err := q.Preload("Creator").
		Order("created_at DESC").
		Offset((page - 1) * limit).Limit(limit).
		Find(&list).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	tallies, err := voteTallies(db, list)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(list))
	for _, t := range list {
		tally := tallies[t.ID]
		payload = append(payload, taskPayload(t, tally.Valid, tally.Invalid))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Tasks fetched",
		Data: map[string]interface{}{
			"tasks": payload,
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// MyTasksHandler lists the authenticated user's own reports.
func MyTasksHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	db := database.DB

	var list []models.Task
	if err := db.Where("creator_id = ?", uid).
		Order("created_at DESC").
		Find(&list).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	tallies, err := voteTallies(db, list)
	if err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(list))
	for _, t := range list {
		tally := tallies[t.ID]
		payload = append(payload, taskPayload(t, tally.Valid, tally.Invalid))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Tasks fetched",
		Data:    map[string]interface{}{"tasks": payload},
	})
}

// voteTallies loads valid/invalid counts for a task slice in one grouped query.
func voteTallies(db *gorm.DB, list []models.Task) (map[uint]scoring.Tally, error) {
	out := make(map[uint]scoring.Tally, len(list))
	if len(list) == 0 {
		return out, nil
	}
	ids := make([]uint, 0, len(list))
	for _, t := range list {
		ids = append(ids, t.ID)
	}

	var rows []struct {
		TaskID  uint
		Valid   int
		Invalid int
	}
	err := db.Model(&models.Vote{}).
		Select("task_id, SUM(value = true) AS valid, SUM(value = false) AS invalid").
		Where("task_id IN ?", ids).
		Group("task_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.TaskID] = scoring.Tally{Valid: row.Valid, Invalid: row.Invalid}
	}
	return out, nil
}

func taskPayload(t models.Task, trueVotes, falseVotes int) map[string]interface{} {
	out := map[string]interface{}{
		"id":          t.ID,
		"title":       t.Title,
		"description": t.Description,
		"image_url":   t.ImageURL,
		"latitude":    t.Latitude,
		"longitude":   t.Longitude,
		"status":      t.Status,
		"creator_id":  t.CreatorID,
		"created_at":  t.CreatedAt.UTC().Format(time.RFC3339),
		"true_votes":  trueVotes,
		"false_votes": falseVotes,
	}
	if t.Creator != nil {
		out["creator"] = map[string]interface{}{
			"id":     t.Creator.ID,
			"name":   t.Creator.Name,
			"avatar": t.Creator.Avatar,
		}
	}
	return out
}
