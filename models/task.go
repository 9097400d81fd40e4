package models

import "time"

const (
	TaskStatusPending = "PENDING_VERIFICATION"
	TaskStatusOpen    = "OPEN"
)

// Task is a geotagged civic-issue report awaiting community verification.
type Task struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:150;not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	ImageURL    *string   `gorm:"type:varchar(512)" json:"image_url,omitempty"`
	Latitude    float64   `gorm:"type:decimal(10,7);not null" json:"latitude"`
	Longitude   float64   `gorm:"type:decimal(10,7);not null" json:"longitude"`
	Status      string    `gorm:"type:enum('PENDING_VERIFICATION','OPEN');default:'PENDING_VERIFICATION'" json:"status"`
	CreatorID   uint      `gorm:"not null;index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`

	// Associations
	Creator  *User     `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Votes    []Vote    `gorm:"foreignKey:TaskID" json:"votes,omitempty"`
	Comments []Comment `gorm:"foreignKey:TaskID" json:"comments,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}
