package users

import (
	"errors"
	"log"
	"net/http"

	"civicgrid/database"
	"civicgrid/middleware"
	"civicgrid/scoring"
	"civicgrid/utils"

	"gorm.io/gorm"
)

type AdjustScoreRequest struct {
	UserID uint `json:"user_id"`
	Points int  `json:"points"`
}

// AdjustScoreHandler lets an admin credit or debit civic score directly.
// Badge thresholds are re-evaluated on the resulting total.
func AdjustScoreHandler(w http.ResponseWriter, r *http.Request) {
	var req AdjustScoreRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	if req.UserID == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "user_id is required"})
		return
	}
	if req.Points == 0 {
		utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{Success: false, Message: "points must not be zero"})
		return
	}

	var newScore int
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		score, err := scoring.AwardPoints(tx, req.UserID, req.Points)
		if err != nil {
			return err
		}
		newScore = score
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.WriteJSON(w, http.StatusNotFound, utils.APIResponse{Success: false, Message: "User not found"})
			return
		}
		log.Printf("[users] score adjustment failed for user %d: %v", req.UserID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Score adjusted",
		Data:    map[string]interface{}{"user_id": req.UserID, "civic_score": newScore},
	})
}

// RecomputeRanksHandler rewrites every user's rank from the civic score
// ordering. Ties break by earlier registration.
func RecomputeRanksHandler(w http.ResponseWriter, r *http.Request) {
	res := database.DB.Exec("UPDATE users u JOIN (SELECT id, ROW_NUMBER() OVER (ORDER BY civic_score DESC, id ASC) AS new_rank FROM users) ranked ON ranked.id = u.id SET u.`rank` = ranked.new_rank")
	if res.Error != nil {
		log.Printf("[users] rank recompute failed: %v", res.Error)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Ranks recomputed",
		Data:    map[string]interface{}{"users_updated": res.RowsAffected},
	})
}
