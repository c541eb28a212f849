package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student is a flat student record. Any authenticated user may manage it.
type Student struct {
	ID        uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name      string    `json:"name" gorm:"size:255;not null;index"`
	Age       *int      `json:"age,omitempty"`
	Email     string    `json:"email,omitempty" gorm:"size:255"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BeforeCreate sets UUID before creating the record.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
