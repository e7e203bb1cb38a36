// Package seed populates a development database with the fixture set the
// team works against: five students, four groups (one subgroup), six
// campus locations, five events (one cancelled, one recurring, one
// invite-only) and a sample message board. Never run against production.
package seed

import (
	"log"
	"time"

	"github.com/vikesesh/vikesesh/pkg/vikesesh/events"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/invitations"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Run seeds the database. It is a no-op when students already exist, so
// the server can call it on every dev start.
func Run(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Student{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil // already seeded
	}

	students := []*models.Student{
		{Email: "alice@uvic.ca", DisplayName: "Alice Chen", StudentNumber: "V00111111"},
		{Email: "bob@uvic.ca", DisplayName: "Bob Martins", StudentNumber: "V00222222"},
		{Email: "carol@uvic.ca", DisplayName: "Carol Singh", StudentNumber: "V00333333"},
		{Email: "dan@uvic.ca", DisplayName: "Dan Kowalski", StudentNumber: "V00444444"},
		{Email: "eve@uvic.ca", DisplayName: "Eve Thompson", StudentNumber: "V00555555"},
	}
	for _, s := range students {
		if err := db.Create(s).Error; err != nil {
			return err
		}
	}
	alice, bob, carol, dan, eve := students[0], students[1], students[2], students[3], students[4]

	locs := []*models.CampusLocation{
		{Name: "Clearihue A110", Building: "Clearihue", Room: "A110", Latitude: 48.4636, Longitude: -123.3117},
		{Name: "Elliott 168", Building: "Elliott", Room: "168", Latitude: 48.4629, Longitude: -123.3104},
		{Name: "McPherson Library", Building: "McPherson Library", Latitude: 48.4634, Longitude: -123.3096},
		{Name: "Student Union Building", Building: "SUB", Latitude: 48.4641, Longitude: -123.3131},
		{Name: "Cornett A128", Building: "Cornett", Room: "A128", Latitude: 48.4625, Longitude: -123.3109},
		{Name: "Petch Fountain", Building: "Outdoor", Latitude: 48.4638, Longitude: -123.3122},
	}
	for _, l := range locs {
		if err := db.Create(l).Error; err != nil {
			return err
		}
	}
	clearihue, elliott, library, sub, cornett := locs[0], locs[1], locs[2], locs[3], locs[4]

	math100 := &models.Group{Name: "MATH 100", CourseCode: "MATH100", Description: "Calculus 1 - all sections", IsPublic: true, CreatedByID: alice.ID}
	chessClub := &models.Group{Name: "Chess Club", Description: "Weekly chess meetups on campus", IsPublic: true, CreatedByID: bob.ID}
	barCrawl := &models.Group{Name: "Bar Crawl Nights 2025", Description: "Monthly bar crawl crew", IsPublic: false, CreatedByID: carol.ID}
	for _, g := range []*models.Group{math100, chessClub, barCrawl} {
		if err := db.Create(g).Error; err != nil {
			return err
		}
	}
	math100Smith := &models.Group{Name: "MATH 100 - Dr. Smith", CourseCode: "MATH100", Description: "Dr. Smith's Tuesday/Thursday section", IsPublic: true, CreatedByID: alice.ID, ParentGroupID: &math100.ID}
	if err := db.Create(math100Smith).Error; err != nil {
		return err
	}

	type member struct {
		group   *models.Group
		student *models.Student
		role    models.GroupRole
	}
	for _, m := range []member{
		{math100, alice, models.GroupRoleOwner},
		{math100, bob, models.GroupRoleMember},
		{math100, carol, models.GroupRoleMember},
		{math100Smith, alice, models.GroupRoleOwner},
		{math100Smith, bob, models.GroupRoleMember},
		{chessClub, bob, models.GroupRoleOwner},
		{chessClub, dan, models.GroupRoleMember},
		{chessClub, eve, models.GroupRoleMember},
		{barCrawl, carol, models.GroupRoleOwner},
		{barCrawl, dan, models.GroupRoleMember},
		{barCrawl, eve, models.GroupRoleMember},
	} {
		membership := models.GroupMembership{StudentID: m.student.ID, GroupID: m.group.ID, Role: m.role}
		if err := db.Create(&membership).Error; err != nil {
			return err
		}
	}

	// Events go through the orchestrator so the seeded invitations come
	// from the same fan-out as production ones
	orchestrator := events.NewOrchestrator(db)
	registry := events.NewRegistry(db)
	now := time.Now().UTC()

	hours := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}

	midterm, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:       "MATH 100 Midterm Review",
		Description: "Group study session before the midterm. Bring practice problems.",
		GroupID:     math100.ID,
		LocationID:  &clearihue.ID,
		StartTime:   now.Add(2*24*time.Hour + 14*time.Hour),
		EndTime:     hours(2*24*time.Hour + 16*time.Hour),
		Visibility:  models.VisibilityPublicGroup,
	})
	if err != nil {
		return err
	}

	if _, err := orchestrator.CreateEvent(bob.ID, events.CreateEventInput{
		Title:          "Weekly MATH 100 Study Group",
		Description:    "Every Tuesday at the library. All welcome.",
		GroupID:        math100.ID,
		LocationID:     &library.ID,
		StartTime:      now.Add(24*time.Hour + 13*time.Hour),
		EndTime:        hours(24*time.Hour + 15*time.Hour),
		RecurrenceRule: "FREQ=WEEKLY;BYDAY=TU;COUNT=10",
		Visibility:     models.VisibilityPublicGroup,
	}); err != nil {
		return err
	}

	if _, err := orchestrator.CreateEvent(carol.ID, events.CreateEventInput{
		Title:       "October Bar Crawl",
		Description: "Starting at the Grad House, ending wherever.",
		GroupID:     barCrawl.ID,
		LocationID:  &sub.ID,
		StartTime:   now.Add(5*24*time.Hour + 21*time.Hour),
		EndTime:     hours(5*24*time.Hour + 23*time.Hour + 59*time.Minute),
		Visibility:  models.VisibilityInvitedOnly,
		InviteeIDs:  []uint{carol.ID, dan.ID},
	}); err != nil {
		return err
	}

	if _, err := orchestrator.CreateEvent(dan.ID, events.CreateEventInput{
		Title:       "Chess Club Tournament",
		Description: "Single elimination. Bring your own clock if you have one.",
		GroupID:     chessClub.ID,
		LocationID:  &cornett.ID,
		StartTime:   now.Add(3*24*time.Hour + 10*time.Hour),
		EndTime:     hours(3*24*time.Hour + 13*time.Hour),
		Visibility:  models.VisibilityPublicGroup,
	}); err != nil {
		return err
	}

	cancelled, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:       "Cancelled Study Session",
		Description: "This was cancelled.",
		GroupID:     math100.ID,
		LocationID:  &elliott.ID,
		StartTime:   now.Add(24 * time.Hour),
		Visibility:  models.VisibilityPublicGroup,
	})
	if err != nil {
		return err
	}
	if err := registry.Cancel(cancelled.ID); err != nil {
		return err
	}

	// Alice accepts the midterm review
	ledger := invitations.NewLedger(db)
	if _, err := ledger.Respond(midterm.ID, alice.ID, true); err != nil {
		return err
	}

	board := []models.Message{
		{GroupID: math100.ID, Content: "Alice Chen joined the group.", Type: models.MessageTypeSystem},
		{GroupID: math100.ID, AuthorID: &alice.ID, Content: "Hey everyone! Midterm review session is booked for Thursday - Clearihue A110.", Type: models.MessageTypeUser},
		{GroupID: math100.ID, AuthorID: &bob.ID, Content: "Thanks Alice! I'll be there.", Type: models.MessageTypeUser},
		{GroupID: chessClub.ID, AuthorID: &dan.ID, Content: "Tournament brackets are up - check the events tab!", Type: models.MessageTypeUser},
		{GroupID: chessClub.ID, AuthorID: &eve.ID, Content: "Can't wait, been practicing all week.", Type: models.MessageTypeUser},
	}
	for i := range board {
		if err := db.Create(&board[i]).Error; err != nil {
			return err
		}
	}

	log.Println("Seed complete: 5 students, 4 groups, 6 locations, 5 events, 5 messages")
	return nil
}
