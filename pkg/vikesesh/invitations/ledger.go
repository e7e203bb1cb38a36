package invitations

import (
	"errors"
	"time"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Ledger is the only place invitation state lives. Rows are created by
// event-creation fan-out or a manual invite, mutated by Respond, and
// never deleted.
type Ledger struct {
	db *gorm.DB

	// LockResponses makes accept/decline a one-way choice: once a student
	// has responded, a further Respond call fails instead of overwriting.
	// Off by default - a student may change their mind.
	LockResponses bool
}

// NewLedger creates an invitation ledger on the given database handle
func NewLedger(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// Invite creates a pending invitation for the (event, student) pair.
// invitedBy is nil for system-generated rows. A second invitation for the
// same pair fails with DuplicateInvitationError; the unique index on
// (event_id, student_id) closes the race between concurrent calls, so
// exactly one wins.
func (l *Ledger) Invite(eventID, studentID uint, invitedBy *uint) (*models.EventInvitation, error) {
	if err := l.db.First(&models.Event{}, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validationf("event %d does not exist", eventID)
		}
		return nil, err
	}
	if err := l.db.First(&models.Student{}, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Validationf("student %d does not exist", studentID)
		}
		return nil, err
	}

	var existing models.EventInvitation
	if err := l.db.Where("event_id = ? AND student_id = ?", eventID, studentID).First(&existing).Error; err == nil {
		return nil, &apperr.DuplicateInvitationError{EventID: eventID, StudentID: studentID}
	}

	invitation := models.EventInvitation{
		EventID:     eventID,
		StudentID:   studentID,
		InvitedByID: invitedBy,
		Status:      models.InviteStatusPending,
	}
	if err := l.db.Create(&invitation).Error; err != nil {
		// The unique index is the only constraint that can fail here; a
		// concurrent invite for the same pair won the race.
		return nil, &apperr.DuplicateInvitationError{EventID: eventID, StudentID: studentID}
	}
	return &invitation, nil
}

// Respond records the student's accept or decline. Status and
// responded_at are written in one statement. Fails with NotFoundError if
// no invitation exists for the pair.
func (l *Ledger) Respond(eventID, studentID uint, accept bool) (*models.EventInvitation, error) {
	var invitation models.EventInvitation
	if err := l.db.Where("event_id = ? AND student_id = ?", eventID, studentID).First(&invitation).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("invitation")
		}
		return nil, err
	}

	if l.LockResponses && invitation.Status != models.InviteStatusPending {
		return nil, apperr.Validationf("invitation has already been %s", invitation.Status)
	}

	status := models.InviteStatusDeclined
	if accept {
		status = models.InviteStatusAccepted
	}
	now := time.Now().UTC()

	err := l.db.Model(&invitation).Updates(map[string]interface{}{
		"status":       status,
		"responded_at": now,
	}).Error
	if err != nil {
		return nil, err
	}

	invitation.Status = status
	invitation.RespondedAt = &now
	return &invitation, nil
}

// StatusOf returns the invitation status for the pair, and whether a row
// exists at all
func (l *Ledger) StatusOf(eventID, studentID uint) (models.InviteStatus, bool, error) {
	var invitation models.EventInvitation
	err := l.db.Where("event_id = ? AND student_id = ?", eventID, studentID).First(&invitation).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return invitation.Status, true, nil
}

// ListForStudent returns all invitations held by the student
func (l *Ledger) ListForStudent(studentID uint) ([]models.EventInvitation, error) {
	var invitations []models.EventInvitation
	err := l.db.Preload("Event").Where("student_id = ?", studentID).Find(&invitations).Error
	if err != nil {
		return nil, err
	}
	return invitations, nil
}
