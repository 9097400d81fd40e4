package rewards

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"civicgrid/database"
	"civicgrid/models"
	"civicgrid/utils"

	"github.com/gorilla/mux"
	gormmysql "gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDB opens the MySQL database named by TEST_DB_DSN, resets the tables and
// points the package-global handle at it. Skipped when the variable is unset.
func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set; skipping database tests")
	}
	db, err := gorm.Open(gormmysql.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Badge{}, &models.Reward{}, &models.RewardClaim{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	for _, tbl := range []string{"reward_claims", "rewards", "user_badges", "badges", "users"} {
		if err := db.Exec("DELETE FROM " + tbl).Error; err != nil {
			t.Fatalf("clean %s: %v", tbl, err)
		}
	}
	database.DB = db
	return db
}

func seedScoredUser(t *testing.T, db *gorm.DB, name string, score int) models.User {
	t.Helper()
	u := models.User{Name: name, Email: name + "@test.local", Password: "x", CivicScore: score}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("seed user %s: %v", name, err)
	}
	return u
}

func seedReward(t *testing.T, db *gorm.DB, name string, pointsReq int) models.Reward {
	t.Helper()
	rw := models.Reward{Name: name, PointsReq: pointsReq}
	if err := db.Create(&rw).Error; err != nil {
		t.Fatalf("seed reward %s: %v", name, err)
	}
	return rw
}

func claimReward(t *testing.T, userID, rewardID uint) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/v1/rewards/%d/claims", rewardID), nil)
	r = mux.SetURLVars(r, map[string]string{"id": fmt.Sprintf("%d", rewardID)})
	r = r.WithContext(context.WithValue(r.Context(), utils.UserIDKey, userID))
	w := httptest.NewRecorder()
	ClaimRewardHandler(w, r)
	return w
}

func TestClaimDebitsScoreAndInsertsClaim(t *testing.T) {
	db := testDB(t)
	user := seedScoredUser(t, db, "redeemer", 300)
	reward := seedReward(t, db, "Tote Bag", 250)

	w := claimReward(t, user.ID, reward.ID)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.CivicScore != 50 {
		t.Fatalf("expected score debited to 50, got %d", got.CivicScore)
	}

	var claimCount int64
	db.Model(&models.RewardClaim{}).
		Where("user_id = ? AND reward_id = ?", user.ID, reward.ID).
		Count(&claimCount)
	if claimCount != 1 {
		t.Fatalf("expected 1 claim row, got %d", claimCount)
	}
}

func TestClaimInsufficientScore(t *testing.T) {
	db := testDB(t)
	user := seedScoredUser(t, db, "saver", 100)
	reward := seedReward(t, db, "Tote Bag", 250)

	w := claimReward(t, user.ID, reward.ID)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	// nothing may change: no debit, no claim row
	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.CivicScore != 100 {
		t.Fatalf("expected score untouched at 100, got %d", got.CivicScore)
	}
	var claimCount int64
	db.Model(&models.RewardClaim{}).Where("user_id = ?", user.ID).Count(&claimCount)
	if claimCount != 0 {
		t.Fatalf("expected no claim rows, got %d", claimCount)
	}
}

func TestClaimDuplicateConflict(t *testing.T) {
	db := testDB(t)
	user := seedScoredUser(t, db, "repeater", 600)
	reward := seedReward(t, db, "Tote Bag", 250)

	if w := claimReward(t, user.ID, reward.ID); w.Code != http.StatusCreated {
		t.Fatalf("first claim: expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if w := claimReward(t, user.ID, reward.ID); w.Code != http.StatusConflict {
		t.Fatalf("second claim: expected 409, got %d: %s", w.Code, w.Body.String())
	}

	// debited exactly once
	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.CivicScore != 350 {
		t.Fatalf("expected single debit leaving 350, got %d", got.CivicScore)
	}
	var claimCount int64
	db.Model(&models.RewardClaim{}).Where("user_id = ?", user.ID).Count(&claimCount)
	if claimCount != 1 {
		t.Fatalf("expected exactly 1 claim row, got %d", claimCount)
	}
}

func TestClaimMissingReward(t *testing.T) {
	db := testDB(t)
	user := seedScoredUser(t, db, "redeemer", 300)
	if w := claimReward(t, user.ID, 999999); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
}
