package models

// Badge is created lazily the first time any user crosses its score
// threshold, then shared by every user who earns it.
type Badge struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;uniqueIndex;not null" json:"name"`
}

func (Badge) TableName() string {
	return "badges"
}
