package database

import (
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the database and returns the handle. The handle is passed
// explicitly into each handler and store constructor rather than held as
// package state. Uses SQLite; can be swapped to Postgres later via GORM
// driver.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	return db, nil
}
