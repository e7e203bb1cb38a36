package events

import (
	"errors"
	"time"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Orchestrator creates an event together with its initial invitation set.
// The event insert, the membership snapshot read and every invitation
// insert run in one transaction: either all rows exist afterwards or none
// do. Partial fan-out is never observable.
type Orchestrator struct {
	db *gorm.DB
}

// NewOrchestrator creates an orchestrator on the given database handle
func NewOrchestrator(db *gorm.DB) *Orchestrator {
	return &Orchestrator{db: db}
}

// CreateEventInput carries the attributes of the event to create.
// InviteeIDs is only consulted when Visibility is invited_only.
type CreateEventInput struct {
	Title          string
	Description    string
	GroupID        uint
	LocationID     *uint
	StartTime      time.Time
	EndTime        *time.Time
	RecurrenceRule string
	Visibility     models.EventVisibility
	InviteeIDs     []uint
}

// CreateEvent inserts the event and fans out its invitations.
//
// public_group: every member of the group at this instant gets a pending
// invitation with no inviter (system-generated). Students who join the
// group later get no retroactive row; the visibility resolver covers them
// through its membership check.
//
// invited_only: exactly the listed students get a pending invitation with
// the creator as inviter. The creator is not auto-invited unless listed.
// An unknown invitee fails the whole operation; nothing is persisted.
func (o *Orchestrator) CreateEvent(creatorID uint, in CreateEventInput) (*models.Event, error) {
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublicGroup
	}
	if !in.Visibility.Valid() {
		return nil, apperr.Validationf("unknown visibility mode %q", in.Visibility)
	}
	if in.Title == "" {
		return nil, apperr.Validationf("title is required")
	}
	if in.StartTime.IsZero() {
		return nil, apperr.Validationf("start_time is required")
	}

	var created models.Event
	err := o.db.Transaction(func(tx *gorm.DB) error {
		var group models.Group
		if err := tx.First(&group, in.GroupID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperr.Validationf("group %d does not exist", in.GroupID)
			}
			return err
		}
		if in.LocationID != nil {
			if err := tx.First(&models.CampusLocation{}, *in.LocationID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return apperr.Validationf("location %d does not exist", *in.LocationID)
				}
				return err
			}
		}

		event := models.Event{
			Title:          in.Title,
			Description:    in.Description,
			CreatorID:      creatorID,
			GroupID:        in.GroupID,
			LocationID:     in.LocationID,
			StartTime:      in.StartTime,
			EndTime:        in.EndTime,
			RecurrenceRule: in.RecurrenceRule,
			Visibility:     in.Visibility,
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		var invitations []models.EventInvitation
		switch in.Visibility {
		case models.VisibilityPublicGroup:
			// Snapshot of the membership inside this transaction; concurrent
			// join/leave on the group is either fully before or fully after.
			var memberships []models.GroupMembership
			if err := tx.Where("group_id = ?", in.GroupID).Find(&memberships).Error; err != nil {
				return err
			}
			for _, m := range memberships {
				invitations = append(invitations, models.EventInvitation{
					EventID:   event.ID,
					StudentID: m.StudentID,
					Status:    models.InviteStatusPending,
				})
			}
		case models.VisibilityInvitedOnly:
			seen := make(map[uint]bool)
			for _, studentID := range in.InviteeIDs {
				if seen[studentID] {
					continue
				}
				seen[studentID] = true

				var count int64
				if err := tx.Model(&models.Student{}).Where("id = ?", studentID).Count(&count).Error; err != nil {
					return err
				}
				if count == 0 {
					return apperr.Validationf("invitee %d does not exist", studentID)
				}

				inviter := creatorID
				invitations = append(invitations, models.EventInvitation{
					EventID:     event.ID,
					StudentID:   studentID,
					InvitedByID: &inviter,
					Status:      models.InviteStatusPending,
				})
			}
		}

		if len(invitations) > 0 {
			if err := tx.Create(&invitations).Error; err != nil {
				return err
			}
		}

		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}
