package models

import "time"

// Vote records one user's verdict on a task. The composite unique index is
// the source of truth for the one-vote-per-voter rule; handlers pre-check it
// but the index catches concurrent duplicates.
type Vote struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_task_voter" json:"task_id"`
	VoterID   uint      `gorm:"not null;uniqueIndex:idx_task_voter" json:"voter_id"`
	Value     bool      `gorm:"not null" json:"value"`
	CreatedAt time.Time `json:"created_at"`
}

func (Vote) TableName() string {
	return "votes"
}
