package database

import (
	"strings"

	"gorm.io/gorm"
)

// EnsureConstraints makes sure the uniqueness rules the voting and reward
// engines rely on exist even when AutoMigrate is skipped (production). Both
// engines pre-check for duplicates, but these indexes are what makes the
// one-vote-per-voter and one-claim-per-reward rules hold under concurrency.
func EnsureConstraints(db *gorm.DB) error {
	stmts := []string{
		"CREATE UNIQUE INDEX idx_task_voter ON votes (task_id, voter_id)",
		"CREATE UNIQUE INDEX idx_user_reward ON reward_claims (user_id, reward_id)",
		"CREATE TABLE IF NOT EXISTS revoked_tokens (id VARCHAR(64) PRIMARY KEY, revoked_at DATETIME NOT NULL)",
	}
	for _, s := range stmts {
		if err := db.Exec(s).Error; err != nil {
			if strings.Contains(err.Error(), "Duplicate key name") {
				continue
			}
			return err
		}
	}
	return nil
}
