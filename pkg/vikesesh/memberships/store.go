package memberships

import (
	"errors"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Store holds the group-student relation. It is the leaf dependency of
// the visibility resolver and the event creation fan-out.
type Store struct {
	db *gorm.DB
}

// NewStore creates a membership store on the given database handle
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// IsMember reports whether the student currently belongs to the group
func (s *Store) IsMember(studentID, groupID uint) (bool, error) {
	var count int64
	err := s.db.Model(&models.GroupMembership{}).
		Where("student_id = ? AND group_id = ?", studentID, groupID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// GroupsOf returns the IDs of all groups the student belongs to
func (s *Store) GroupsOf(studentID uint) ([]uint, error) {
	var memberships []models.GroupMembership
	if err := s.db.Where("student_id = ?", studentID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	groupIDs := make([]uint, len(memberships))
	for i, m := range memberships {
		groupIDs[i] = m.GroupID
	}
	return groupIDs, nil
}

// MembersOf returns the IDs of all students currently in the group
func (s *Store) MembersOf(groupID uint) ([]uint, error) {
	var memberships []models.GroupMembership
	if err := s.db.Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		return nil, err
	}

	studentIDs := make([]uint, len(memberships))
	for i, m := range memberships {
		studentIDs[i] = m.StudentID
	}
	return studentIDs, nil
}

// Join adds the student to the group with the default member role and
// posts a system notice to the group's message board. Joining a group the
// student already belongs to is a no-op.
func (s *Store) Join(studentID, groupID uint) error {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("student")
		}
		return err
	}
	var group models.Group
	if err := s.db.First(&group, groupID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("group")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.GroupMembership
		err := tx.Where("student_id = ? AND group_id = ?", studentID, groupID).First(&existing).Error
		if err == nil {
			return nil // already a member
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		membership := models.GroupMembership{
			StudentID: studentID,
			GroupID:   groupID,
			Role:      models.GroupRoleMember,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		notice := models.Message{
			GroupID: groupID,
			Content: student.DisplayName + " joined the group.",
			Type:    models.MessageTypeSystem,
		}
		return tx.Create(&notice).Error
	})
}

// Leave removes the student's membership row. The relation row is
// hard-deleted; the student and group stay. Leaving a group the student
// is not in is a no-op.
func (s *Store) Leave(studentID, groupID uint) error {
	var student models.Student
	if err := s.db.First(&student, studentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.NotFound("student")
		}
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("student_id = ? AND group_id = ?", studentID, groupID).
			Delete(&models.GroupMembership{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil // was not a member
		}

		notice := models.Message{
			GroupID: groupID,
			Content: student.DisplayName + " left the group.",
			Type:    models.MessageTypeSystem,
		}
		return tx.Create(&notice).Error
	})
}
