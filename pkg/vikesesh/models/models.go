package models

import "gorm.io/gorm"

// AllModels returns all models for migration
// Note: Student and Group must be migrated before the relation tables
func AllModels() []interface{} {
	return []interface{}{
		&Student{},
		&Group{},
		&GroupMembership{},
		&CampusLocation{},
		&Event{},
		&EventInvitation{},
		&Message{},
	}
}

// AutoMigrate runs GORM auto-migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}
