package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Student represents a UVic student account.
// Students are never deleted; deactivation flips IsActive instead.
type Student struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	PublicID      string    `gorm:"uniqueIndex;not null" json:"public_id"`
	Email         string    `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName   string    `gorm:"not null" json:"display_name"`
	StudentNumber string    `gorm:"uniqueIndex" json:"student_number,omitempty"`
	AvatarURL     string    `json:"avatar_url,omitempty"`
	IsActive      bool      `gorm:"default:true" json:"is_active"`

	// Relationships
	Memberships   []GroupMembership `gorm:"foreignKey:StudentID" json:"memberships,omitempty"`
	CreatedEvents []Event           `gorm:"foreignKey:CreatorID" json:"created_events,omitempty"`
	Invitations   []EventInvitation `gorm:"foreignKey:StudentID" json:"invitations,omitempty"`
}

// BeforeCreate assigns the opaque public identifier exposed to clients.
func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.PublicID == "" {
		s.PublicID = uuid.NewString()
	}
	return nil
}
