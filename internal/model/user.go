package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role is the permission level of a user.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User represents an authenticated user in the system.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Username     string    `json:"username" gorm:"uniqueIndex;size:30;not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	Role         Role      `json:"role" gorm:"type:varchar(20);not null;default:'user'"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID and default role before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// AuthorRef is the public projection of a user embedded in blogs and comments.
type AuthorRef struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

// Ref returns the public projection of u.
func (u *User) Ref() *AuthorRef {
	if u == nil {
		return nil
	}
	return &AuthorRef{ID: u.ID, Username: u.Username}
}
