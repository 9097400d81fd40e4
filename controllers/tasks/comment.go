package tasks

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civicgrid/database"
	"civicgrid/middleware"
	"civicgrid/models"
	"civicgrid/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type CommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// CreateCommentHandler adds a discussion comment to a task.
func CreateCommentHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || taskID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	var req CommentRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Content = strings.TrimSpace(req.Content)
	if req.Content == "" {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Comment must not be empty"})
		return
	}
	if len(req.Content) > 2000 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Comment must be at most 2000 characters"})
		return
	}

	db := database.DB

	var task models.Task
	if err := db.Select("id").First(&task, uint(taskID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	comment := models.Comment{TaskID: uint(taskID), AuthorID: uid, Content: req.Content}
	if err := db.Create(&comment).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Comment added",
		Data: map[string]interface{}{
			"id":         comment.ID,
			"task_id":    comment.TaskID,
			"content":    comment.Content,
			"created_at": comment.CreatedAt.UTC().Format(time.RFC3339),
		},
	})
}

// ListCommentsHandler returns a task's comments oldest first with authors.
func ListCommentsHandler(w http.ResponseWriter, r *http.Request) {
	taskID, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil || taskID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "Invalid task id"})
		return
	}

	db := database.DB

	var task models.Task
	if err := db.Select("id").First(&task, uint(taskID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var comments []models.Comment
	if err := db.Preload("Author").
		Where("task_id = ?", uint(taskID)).
		Order("created_at ASC").
		Find(&comments).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(comments))
	for _, c := range comments {
		entry := map[string]interface{}{
			"id":         c.ID,
			"content":    c.Content,
			"created_at": c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if c.Author != nil {
			entry["author"] = map[string]interface{}{
				"id":     c.Author.ID,
				"name":   c.Author.Name,
				"avatar": c.Author.Avatar,
			}
		}
		payload = append(payload, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Comments fetched",
		Data:    map[string]interface{}{"comments": payload},
	})
}
