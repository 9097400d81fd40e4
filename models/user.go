package models

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

type User struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password   string    `gorm:"size:255;not null" json:"-"`
	Avatar     *string   `gorm:"type:varchar(512)" json:"avatar,omitempty"`
	CivicScore int       `gorm:"not null;default:0" json:"civic_score"`
	Rank       int       `gorm:"not null;default:0" json:"rank"`
	Latitude   *float64  `gorm:"type:decimal(10,7)" json:"latitude,omitempty"`
	Longitude  *float64  `gorm:"type:decimal(10,7)" json:"longitude,omitempty"`
	Role       string    `gorm:"type:enum('USER','ADMIN');default:'USER'" json:"role"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"-"`

	// Associations
	Badges []Badge `gorm:"many2many:user_badges" json:"badges,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// HasLocation reports whether the user has stored coordinates. Nearby-task
// queries require it.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}
