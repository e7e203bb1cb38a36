package pins

import (
	"errors"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Resolver computes the set of events a student should currently see.
// Pure read path over memberships, events and invitations.
type Resolver struct {
	db *gorm.DB
}

// NewResolver creates a visibility resolver on the given database handle
func NewResolver(db *gorm.DB) *Resolver {
	return &Resolver{db: db}
}

// VisibleEvents returns every non-cancelled event visible to the student:
// public-group events in groups they belong to, plus invited-only events
// where their invitation is pending or accepted (declined excludes).
//
// The public branch checks membership only and never consults invitation
// rows. That is deliberate: fan-out snapshots membership at event
// creation, so a student who joined the group afterwards has no
// invitation row but must still see the pin.
//
// A student with no memberships sees nothing. Events without a location
// are still returned; filtering to renderable pins is the presentation
// layer's job. Order is unspecified.
func (r *Resolver) VisibleEvents(studentID uint) ([]models.Event, error) {
	var student models.Student
	if err := r.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("student")
		}
		return nil, err
	}

	var memberships []models.GroupMembership
	if err := r.db.Where("student_id = ?", studentID).Find(&memberships).Error; err != nil {
		return nil, err
	}
	if len(memberships) == 0 {
		return []models.Event{}, nil
	}
	groupIDs := make([]uint, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
	}

	// Branch A: public events in the student's groups
	var publicEvents []models.Event
	err := r.db.Preload("Location").Preload("Group").
		Where("group_id IN ? AND visibility = ? AND is_cancelled = ?",
			groupIDs, models.VisibilityPublicGroup, false).
		Find(&publicEvents).Error
	if err != nil {
		return nil, err
	}

	// Branch B: invited-only events with a live invitation for the student
	var invitedEvents []models.Event
	err = r.db.Preload("Location").Preload("Group").
		Joins("JOIN event_invitations ON event_invitations.event_id = events.id").
		Where("event_invitations.student_id = ? AND event_invitations.status IN ?",
			studentID, []models.InviteStatus{models.InviteStatusPending, models.InviteStatusAccepted}).
		Where("events.visibility = ? AND events.is_cancelled = ?",
			models.VisibilityInvitedOnly, false).
		Find(&invitedEvents).Error
	if err != nil {
		return nil, err
	}

	// Union, deduplicated by event ID. An event cannot be both modes, but
	// dedup keeps the result a set regardless.
	seen := make(map[uint]bool)
	visible := make([]models.Event, 0, len(publicEvents)+len(invitedEvents))
	for _, event := range publicEvents {
		if !seen[event.ID] {
			seen[event.ID] = true
			visible = append(visible, event)
		}
	}
	for _, event := range invitedEvents {
		if !seen[event.ID] {
			seen[event.ID] = true
			visible = append(visible, event)
		}
	}
	return visible, nil
}
