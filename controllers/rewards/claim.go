package rewards

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var errInsufficientScore = errors.New("insufficient civic score")

// ClaimRewardHandler redeems a reward. The balance check, score debit and
// claim insert happen in one transaction with the user row locked, so two
// concurrent claims cannot both spend the same points.
func ClaimRewardHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

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

	// Pre-check gives a clean 409; the unique index on (user_id, reward_id)
	// still backstops concurrent duplicates.
	var existing models.RewardClaim
	if err := db.Where("user_id = ? AND reward_id = ?", uid, reward.ID).First(&existing).Error; err == nil {
		utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already claimed this reward"})
		return
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	var remaining int
	var claim models.RewardClaim
	err = db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, uid).Error; err != nil {
			return err
		}
		if user.CivicScore < reward.PointsReq {
			return errInsufficientScore
		}
		if err := tx.Model(&models.User{}).Where("id = ?", uid).
			Update("civic_score", gorm.Expr("civic_score - ?", reward.PointsReq)).Error; err != nil {
			return err
		}
		remaining = user.CivicScore - reward.PointsReq

		claim = models.RewardClaim{UserID: uid, RewardID: reward.ID}
		return tx.Create(&claim).Error
	})
	if err != nil {
		if errors.Is(err, errInsufficientScore) {
			utils.WriteJSON(w, http.StatusBadRequest, utils.APIResponse{
				Success: false,
				Message: "Not enough civic score to claim this reward",
				Data:    map[string]interface{}{"points_req": reward.PointsReq},
			})
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry") {
			utils.WriteJSON(w, http.StatusConflict, utils.APIResponse{Success: false, Message: "You have already claimed this reward"})
			return
		}
		log.Printf("[rewards] claim failed for user %d reward %d: %v", uid, reward.ID, err)
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Reward claimed",
		Data: map[string]interface{}{
			"claim_id":    claim.ID,
			"reward":      rewardPayload(reward),
			"civic_score": remaining,
		},
	})
}

// MyClaimsHandler lists the authenticated user's claims, newest first.
func MyClaimsHandler(w http.ResponseWriter, r *http.Request) {
	uid, ok := utils.GetUserID(r)
	if !ok || uid == 0 {
		utils.WriteJSON(w, http.StatusUnauthorized, utils.APIResponse{Success: false, Message: "Unauthorized"})
		return
	}

	var claims []models.RewardClaim
	if err := database.DB.Preload("Reward").
		Where("user_id = ?", uid).
		Order("created_at DESC").
		Find(&claims).Error; err != nil {
		utils.WriteJSON(w, http.StatusInternalServerError, utils.APIResponse{Success: false, Message: "Server error"})
		return
	}

	payload := make([]map[string]interface{}, 0, len(claims))
	for _, c := range claims {
		entry := map[string]interface{}{
			"id":         c.ID,
			"claimed_at": c.CreatedAt.UTC().Format(time.RFC3339),
		}
		if c.Reward != nil {
			entry["reward"] = rewardPayload(*c.Reward)
		}
		payload = append(payload, entry)
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Claims fetched",
		Data:    map[string]interface{}{"claims": payload},
	})
}
