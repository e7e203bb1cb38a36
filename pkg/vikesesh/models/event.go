package models

import "time"

// EventVisibility controls who sees an event's map pin
type EventVisibility string

const (
	// VisibilityPublicGroup makes the pin visible to every member of the
	// event's group, without individual invitations being consulted.
	VisibilityPublicGroup EventVisibility = "public_group"
	// VisibilityInvitedOnly restricts the pin to students holding a
	// non-declined invitation row.
	VisibilityInvitedOnly EventVisibility = "invited_only"
)

// Valid reports whether v is one of the known visibility modes
func (v EventVisibility) Valid() bool {
	return v == VisibilityPublicGroup || v == VisibilityInvitedOnly
}

// Event is an event created within a group.
// Visibility is fixed at creation; changing it afterwards would invalidate
// the invitations fanned out at create time and is rejected.
type Event struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `json:"description"`
	CreatorID   uint       `gorm:"not null" json:"creator_id"`
	GroupID     uint       `gorm:"not null;index" json:"group_id"`
	LocationID  *uint      `gorm:"index" json:"location_id,omitempty"`
	StartTime   time.Time  `gorm:"not null" json:"start_time"`
	EndTime     *time.Time `json:"end_time,omitempty"`

	// RFC 5545 RRULE string for recurring events, e.g.
	// "FREQ=WEEKLY;BYDAY=TU;COUNT=10". Stored opaquely, never expanded
	// here. Empty means a one-time occurrence.
	RecurrenceRule string `json:"recurrence_rule,omitempty"`

	Visibility  EventVisibility `gorm:"type:varchar(20);not null;default:'public_group'" json:"visibility"`
	IsCancelled bool            `gorm:"default:false" json:"is_cancelled"`

	// Relationships
	Creator     Student           `gorm:"foreignKey:CreatorID" json:"creator,omitempty"`
	Group       Group             `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Location    *CampusLocation   `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Invitations []EventInvitation `gorm:"foreignKey:EventID" json:"invitations,omitempty"`
}
