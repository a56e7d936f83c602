package entity

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
)

// Roles lists every canonical role.
var Roles = []Role{RoleStudent, RoleTeacher, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin:
		return true
	}
	return false
}

// User is the UserProfile record: identity plus credential.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:255;not null" json:"name"`
	Email          string     `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash   string     `gorm:"column:password;size:255;not null" json:"-"`
	Role           Role       `gorm:"size:50;not null;index" json:"role"`
	DateJoined     time.Time  `gorm:"not null" json:"date_joined"`
	LastLogin      *time.Time `json:"last_login"`
	ProfilePicture *string    `gorm:"size:255" json:"profile_picture"`
	Bio            *string    `gorm:"type:text" json:"bio"`
}

func (u *User) TableName() string {
	return "user_profiles"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.DateJoined.IsZero() {
		u.DateJoined = time.Now().UTC()
	}
	if u.Role == "" {
		u.Role = RoleStudent
	}
	return nil
}

// Identity returns the claim embedded in tokens minted for this user.
func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, Role: u.Role}
}
