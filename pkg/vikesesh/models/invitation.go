package models

import "time"

// InviteStatus is the lifecycle state of an invitation
type InviteStatus string

const (
	InviteStatusPending  InviteStatus = "pending"
	InviteStatusAccepted InviteStatus = "accepted"
	InviteStatusDeclined InviteStatus = "declined"
)

// EventInvitation tracks who has been invited to a specific event.
//
// For public-group events a row is created for every group member at event
// creation time (InvitedByID = nil, system-generated). For invited-only
// events rows exist only for explicitly invited students.
//
// Exactly one row may exist per (event, student) pair; idx_event_student
// enforces that at the storage layer. Rows are never deleted.
// CreatedAt doubles as the invited-at timestamp.
type EventInvitation struct {
	ID          uint         `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time    `json:"invited_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	EventID     uint         `gorm:"not null;uniqueIndex:idx_event_student" json:"event_id"`
	StudentID   uint         `gorm:"not null;uniqueIndex:idx_event_student;index" json:"student_id"`
	InvitedByID *uint        `json:"invited_by_id,omitempty"` // nil = system-generated
	Status      InviteStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	RespondedAt *time.Time   `json:"responded_at,omitempty"`

	// Relationships
	Event     Event    `gorm:"foreignKey:EventID" json:"event,omitempty"`
	Student   Student  `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	InvitedBy *Student `gorm:"foreignKey:InvitedByID" json:"invited_by,omitempty"`
}
