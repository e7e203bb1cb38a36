package models

import "time"

// CampusLocation is a named spot on campus (building, courtyard, etc.).
// Events with a location appear as map pins in the frontend.
type CampusLocation struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Name      string    `gorm:"not null" json:"name"`     // e.g. "Clearihue A110"
	Building  string    `json:"building,omitempty"`       // e.g. "Clearihue"
	Room      string    `json:"room,omitempty"`           // e.g. "A110"
	Latitude  float64   `gorm:"not null" json:"latitude"` // for map pin placement
	Longitude float64   `gorm:"not null" json:"longitude"`

	// Relationships
	Events []Event `gorm:"foreignKey:LocationID" json:"events,omitempty"`
}
