package events

import (
	"errors"
	"time"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Registry owns event records. Creation always goes through the
// Orchestrator so the invitation fan-out stays atomic with the event
// insert; the Registry covers reads and post-creation changes.
type Registry struct {
	db *gorm.DB
}

// NewRegistry creates an event registry on the given database handle
func NewRegistry(db *gorm.DB) *Registry {
	return &Registry{db: db}
}

// EventUpdate carries the mutable event fields. Nil means "leave as is".
// Visibility is present only so an attempted change can be rejected.
type EventUpdate struct {
	Title          *string
	Description    *string
	LocationID     *uint
	StartTime      *time.Time
	EndTime        *time.Time
	RecurrenceRule *string
	Visibility     *models.EventVisibility
}

// Get returns the event by ID
func (r *Registry) Get(eventID uint) (*models.Event, error) {
	var event models.Event
	if err := r.db.Preload("Location").Preload("Group").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, err
	}
	return &event, nil
}

// Cancel marks the event cancelled. Cancelling an already-cancelled event
// is a no-op, not an error. Cancelled events never show as map pins.
func (r *Registry) Cancel(eventID uint) error {
	var event models.Event
	if err := r.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("event")
		}
		return err
	}
	if event.IsCancelled {
		return nil
	}
	return r.db.Model(&event).Update("is_cancelled", true).Error
}

// ListByGroup returns all events in the group, cancelled ones included
func (r *Registry) ListByGroup(groupID uint) ([]models.Event, error) {
	var events []models.Event
	err := r.db.Preload("Location").Where("group_id = ?", groupID).Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// Update applies the mutable fields. An attempt to change the visibility
// mode fails with ImmutableFieldError; the invitations fanned out at
// creation would be invalidated by a mode switch.
func (r *Registry) Update(eventID uint, upd EventUpdate) (*models.Event, error) {
	var event models.Event
	if err := r.db.First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("event")
		}
		return nil, err
	}

	if upd.Visibility != nil && *upd.Visibility != event.Visibility {
		return nil, &apperr.ImmutableFieldError{Field: "visibility"}
	}

	if upd.Title != nil {
		event.Title = *upd.Title
	}
	if upd.Description != nil {
		event.Description = *upd.Description
	}
	if upd.LocationID != nil {
		event.LocationID = upd.LocationID
	}
	if upd.StartTime != nil {
		event.StartTime = *upd.StartTime
	}
	if upd.EndTime != nil {
		event.EndTime = upd.EndTime
	}
	if upd.RecurrenceRule != nil {
		event.RecurrenceRule = *upd.RecurrenceRule
	}

	if err := r.db.Save(&event).Error; err != nil {
		return nil, err
	}
	return &event, nil
}
