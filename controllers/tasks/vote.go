package tasks

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"civicgrid/database"
	"civicgrid/middleware"
	"civicgrid/models"
	"civicgrid/scoring"
	"civicgrid/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type VoteRequest struct {
	Value *bool `json:"value"`
}

// VoteHandler records a validity vote and immediately re-evaluates the task
// from the committed vote rows. A rejection cascade or a promotion happens
// inside the same transaction as the vote insert.
func VoteHandler(w http.ResponseWriter, r *http.Request) {
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

	var req VoteRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.Value == nil {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "value is required and must be true or false"})
		return
	}

	db := database.DB

	var task models.Task
	if err := db.First(&task, uint(taskID)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "Task not found"})
			return
		}
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}
	// Votes are accepted regardless of status: an OPEN task can still be
	// rejected by the community, and promotion is idempotent.

	// Pre-check gives a clean 409; the unique index on (task_id, voter_id)
	// still backstops concurrent duplicates.
	var existing models.Vote
	if err := db.Where("task_id = ? AND voter_id = ?", uint(taskID), uid).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already voted on this task"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var outcome scoring.Outcome
	err = db.Transaction(func(tx *gorm.DB) error {
		vote := models.Vote{TaskID: uint(taskID), VoterID: uid, Value: *req.Value}
		if err := tx.Create(&vote).Error; err != nil {
			return err
		}
		out, err := scoring.EvaluateTask(tx, uint(taskID))
		if err != nil {
			return err
		}
		outcome = out
		return nil
	})
	if err != nil {
		if isDuplicateKeyError(err) {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already voted on this task"})
			return
		}
		log.Printf("[tasks] vote failed for task %d user %d: %v", taskID, uid, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	// Object storage cleanup happens only after the delete committed.
	outcome.CleanupImages()

	switch {
	case outcome.Rejected:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Vote recorded; report was rejected by the community",
			Data:    map[string]interface{}{"task_id": taskID, "rejected": true},
		})
	case outcome.Promoted:
		utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
			Success: true,
			Message: "Vote recorded; report verified and opened",
			Data:    map[string]interface{}{"task_id": taskID, "status": models.TaskStatusOpen},
		})
	default:
		utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
			Success: true,
			Message: "Vote recorded",
			Data:    map[string]interface{}{"task_id": taskID, "status": models.TaskStatusPending},
		})
	}
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return err != nil && strings.Contains(err.Error(), "Duplicate entry")
}
