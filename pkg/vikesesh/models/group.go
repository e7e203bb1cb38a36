package models

import (
	"time"

	"gorm.io/gorm"
)

// Group is a group students can join (e.g. "MATH 100", "UVic Chess Club").
// Events are scoped to groups. A group may reference a parent group; the
// hierarchy is stored but visibility logic never traverses it.
type Group struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
	Name          string         `gorm:"not null" json:"name"`
	Description   string         `json:"description"`
	CourseCode    string         `gorm:"index" json:"course_code,omitempty"` // e.g. "MATH100", empty for clubs
	IconURL       string         `json:"icon_url,omitempty"`
	IsPublic      bool           `gorm:"default:true" json:"is_public"` // can anyone join?
	CreatedByID   uint           `json:"created_by_id"`
	ParentGroupID *uint          `gorm:"index" json:"parent_group_id,omitempty"`

	// Relationships
	ParentGroup *Group            `gorm:"foreignKey:ParentGroupID" json:"parent_group,omitempty"`
	Subgroups   []Group           `gorm:"foreignKey:ParentGroupID" json:"subgroups,omitempty"`
	Members     []GroupMembership `gorm:"foreignKey:GroupID" json:"members,omitempty"`
	Events      []Event           `gorm:"foreignKey:GroupID" json:"events,omitempty"`
}
