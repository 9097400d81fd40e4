package scoring

import (
	"errors"
	"testing"

	"civicgrid/models"

	"gorm.io/gorm"
)

func award(t *testing.T, db *gorm.DB, userID uint, delta int) int {
	t.Helper()
	var score int
	err := db.Transaction(func(tx *gorm.DB) error {
		s, err := AwardPoints(tx, userID, delta)
		if err != nil {
			return err
		}
		score = s
		return nil
	})
	if err != nil {
		t.Fatalf("award %d to user %d: %v", delta, userID, err)
	}
	return score
}

func badgeLinkCount(t *testing.T, db *gorm.DB, userID uint, badgeName string) int64 {
	t.Helper()
	var count int64
	err := db.Table("user_badges").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ? AND badges.name = ?", userID, badgeName).
		Count(&count).Error
	if err != nil {
		t.Fatalf("count badge links: %v", err)
	}
	return count
}

func TestAwardPointsCreatesBadgeLazily(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "earner", 245)

	if score := award(t, db, user.ID, 10); score != 255 {
		t.Fatalf("expected score 255, got %d", score)
	}

	var badge models.Badge
	if err := db.Where("name = ?", "Active Citizen").First(&badge).Error; err != nil {
		t.Fatalf("expected badge row created on first crossing: %v", err)
	}
	if got := badgeLinkCount(t, db, user.ID, "Active Citizen"); got != 1 {
		t.Fatalf("expected 1 badge link, got %d", got)
	}

	// a second award over the same threshold must not duplicate the grant
	award(t, db, user.ID, 10)
	if got := badgeLinkCount(t, db, user.ID, "Active Citizen"); got != 1 {
		t.Fatalf("expected badge grant to stay single, got %d links", got)
	}
}

func TestAwardPointsGrantsHighestTier(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "champion", 0)

	if score := award(t, db, user.ID, 800); score != 800 {
		t.Fatalf("expected score 800, got %d", score)
	}
	if got := badgeLinkCount(t, db, user.ID, "Civic Champion"); got != 1 {
		t.Fatalf("expected Civic Champion granted, got %d links", got)
	}
	// only the highest crossed tier is granted per evaluation
	if got := badgeLinkCount(t, db, user.ID, "Active Citizen"); got != 0 {
		t.Fatalf("expected lower tier not granted, got %d links", got)
	}
}

func TestAwardPointsClampsAtZero(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "debited", 30)

	if score := award(t, db, user.ID, -100); score != 0 {
		t.Fatalf("expected score clamped at 0, got %d", score)
	}

	var got models.User
	if err := db.First(&got, user.ID).Error; err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if got.CivicScore != 0 {
		t.Fatalf("expected stored score 0, got %d", got.CivicScore)
	}
}

func TestAwardPointsBadgesAreMonotonic(t *testing.T) {
	db := testDB(t)
	user := seedUser(t, db, "dropper", 0)

	award(t, db, user.ID, 300)
	if got := badgeLinkCount(t, db, user.ID, "Active Citizen"); got != 1 {
		t.Fatalf("expected badge granted, got %d links", got)
	}

	// score falls back below the threshold; the badge stays
	if score := award(t, db, user.ID, -300); score != 0 {
		t.Fatalf("expected score 0 after debit, got %d", score)
	}
	if got := badgeLinkCount(t, db, user.ID, "Active Citizen"); got != 1 {
		t.Fatalf("expected badge kept after score drop, got %d links", got)
	}
}

func TestAwardPointsMissingUser(t *testing.T) {
	db := testDB(t)
	err := db.Transaction(func(tx *gorm.DB) error {
		_, err := AwardPoints(tx, 999999, 10)
		return err
	})
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}
