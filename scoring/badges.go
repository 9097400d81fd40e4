package scoring

import (
	"civicgrid/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TaskCreationPoints is awarded to the creator when a task is accepted.
const TaskCreationPoints = 10

// BadgeThreshold maps a civic-score floor to a badge name.
type BadgeThreshold struct {
	Score int
	Name  string
}

// BadgeThresholds is evaluated highest-first; a user earns the single
// highest badge their score has crossed. Data, not branches, so tests and
// future tiers don't touch the evaluation code.
var BadgeThresholds = []BadgeThreshold{
	{750, "Civic Champion"},
	{500, "Community Leader"},
	{250, "Active Citizen"},
}

// HighestBadgeFor returns the badge name for the highest threshold crossed.
func HighestBadgeFor(score int) (string, bool) {
	for _, bt := range BadgeThresholds {
		if score >= bt.Score {
			return bt.Name, true
		}
	}
	return "", false
}

// AwardPoints adds delta (possibly negative) to the user's civic score,
// clamped at zero, and re-evaluates badges. The user row is locked so
// concurrent awards don't lose updates. Returns the new score;
// gorm.ErrRecordNotFound when the user is absent.
func AwardPoints(tx *gorm.DB, userID uint, delta int) (int, error) {
	var user models.User
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
		return 0, err
	}

	newScore := user.CivicScore + delta
	if newScore < 0 {
		newScore = 0
	}
	if err := tx.Model(&user).Update("civic_score", newScore).Error; err != nil {
		return 0, err
	}

	if err := evaluateBadges(tx, &user, newScore); err != nil {
		return 0, err
	}
	return newScore, nil
}

// evaluateBadges grants the highest badge the score has crossed, creating
// the badge row lazily on first use. Grants are additive only: badges are
// never revoked, even if the score later drops below the threshold.
func evaluateBadges(tx *gorm.DB, user *models.User, score int) error {
	name, ok := HighestBadgeFor(score)
	if !ok {
		return nil
	}

	var badge models.Badge
	if err := tx.Where("name = ?", name).FirstOrCreate(&badge, models.Badge{Name: name}).Error; err != nil {
		return err
	}

	var held int64
	if err := tx.Table("user_badges").
		Where("user_id = ? AND badge_id = ?", user.ID, badge.ID).
		Count(&held).Error; err != nil {
		return err
	}
	if held > 0 {
		return nil
	}
	return tx.Model(user).Association("Badges").Append(&badge)
}
