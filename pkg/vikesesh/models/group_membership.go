package models

import (
	"time"
)

// GroupRole represents a student's role within a specific group
type GroupRole string

const (
	GroupRoleOwner  GroupRole = "owner"
	GroupRoleAdmin  GroupRole = "admin"
	GroupRoleMember GroupRole = "member"
)

// GroupMembership represents the many-to-many relationship between students
// and groups. A student has at most one membership per group, enforced by
// idx_student_group. Leaving a group hard-deletes the row, so there is no
// soft-delete column here. CreatedAt doubles as the joined-at timestamp.
type GroupMembership struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"joined_at"`
	UpdatedAt time.Time `json:"updated_at"`
	StudentID uint      `gorm:"not null;uniqueIndex:idx_student_group" json:"student_id"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_student_group" json:"group_id"`
	Role      GroupRole `gorm:"type:varchar(20);default:'member'" json:"role"`

	// Relationships
	Student Student `gorm:"foreignKey:StudentID" json:"student,omitempty"`
	Group   Group   `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
