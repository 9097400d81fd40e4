package models

import "time"

// Reward is redeemable merchandise managed by admins.
type Reward struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"size:150;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PointsReq   int       `gorm:"not null" json:"points_req"`
	ImageURL    *string   `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Reward) TableName() string {
	return "rewards"
}

// RewardClaim represents a user redeeming a reward. One claim per
// (user, reward) pair, enforced by the composite unique index.
type RewardClaim struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_user_reward" json:"user_id"`
	RewardID  uint      `gorm:"not null;uniqueIndex:idx_user_reward" json:"reward_id"`
	CreatedAt time.Time `json:"created_at"`

	// Associations
	Reward *Reward `gorm:"foreignKey:RewardID" json:"reward,omitempty"`
	User   *User   `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (RewardClaim) TableName() string {
	return "reward_claims"
}
