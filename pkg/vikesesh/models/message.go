package models

import "time"

// MessageType distinguishes student posts from auto-generated notices
type MessageType string

const (
	MessageTypeUser   MessageType = "user"
	MessageTypeSystem MessageType = "system"
)

// Message is a post on a group's message board.
//
// Type = system rows are created by the backend when students join or
// leave a group; AuthorID is nil for those. Messages are soft-deleted via
// IsDeleted and never hard-deleted.
type Message struct {
	ID        uint        `gorm:"primarykey" json:"id"`
	CreatedAt time.Time   `gorm:"index" json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	GroupID   uint        `gorm:"not null;index" json:"group_id"`
	AuthorID  *uint       `json:"author_id,omitempty"` // nil for system messages
	Content   string      `gorm:"not null" json:"content"`
	Type      MessageType `gorm:"column:message_type;type:varchar(20);not null;default:'user'" json:"message_type"`
	IsDeleted bool        `gorm:"default:false" json:"is_deleted"`

	// Relationships
	Group  Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
	Author *Student `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
}
