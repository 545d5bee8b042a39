package models

import "time"

// User represents a registered account.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)" validate:"omitempty,uuid"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(150);not null" validate:"required,max=150,username"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null" validate:"required,email,max=255"`
	FirstName string    `json:"first_name" gorm:"type:varchar(150);not null" validate:"required,max=150"`
	LastName  string    `json:"last_name" gorm:"type:varchar(150);not null" validate:"required,max=150"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null"` // bcrypt hash, never serialized
	Avatar    string    `json:"-" gorm:"type:varchar(255)"`          // storage reference
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// Follow is a directed subscription edge from UserID to FollowingID.
type Follow struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	UserID      string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair"`
	FollowingID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_follow_pair;index"`
	User        User      `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Following   User      `gorm:"foreignKey:FollowingID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}
