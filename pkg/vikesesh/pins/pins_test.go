package pins

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/events"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/invitations"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/memberships"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	models.AutoMigrate(db)
	return db
}

func createTestStudent(t *testing.T, db *gorm.DB, email string) models.Student {
	student := models.Student{
		Email:         email,
		DisplayName:   "Test Student",
		StudentNumber: "V-" + email,
		IsActive:      true,
	}
	if err := db.Create(&student).Error; err != nil {
		t.Fatalf("Failed to create test student: %v", err)
	}
	return student
}

func createTestGroup(t *testing.T, db *gorm.DB, name string) models.Group {
	group := models.Group{Name: name, IsPublic: true}
	if err := db.Create(&group).Error; err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return group
}

func createTestLocation(t *testing.T, db *gorm.DB, name string) models.CampusLocation {
	location := models.CampusLocation{Name: name, Latitude: 48.4634, Longitude: -123.3117}
	if err := db.Create(&location).Error; err != nil {
		t.Fatalf("Failed to create test location: %v", err)
	}
	return location
}

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	authed := r.Group("")
	authed.Use(identity.Middleware())
	handler.RegisterRoutes(authed)

	return r
}

func getAuthHeader(student models.Student) string {
	token, _ := identity.MintToken(student.ID, student.Email)
	return "Bearer " + token
}

func visibleIDs(t *testing.T, db *gorm.DB, studentID uint) map[uint]bool {
	resolver := NewResolver(db)
	visible, err := resolver.VisibleEvents(studentID)
	if err != nil {
		t.Fatalf("VisibleEvents failed: %v", err)
	}
	ids := make(map[uint]bool, len(visible))
	for _, event := range visible {
		ids[event.ID] = true
	}
	return ids
}

func TestPublicEventVisibleToAllMembers(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	bob := createTestStudent(t, db, "bob@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	store.Join(alice.ID, group.ID)
	store.Join(bob.ID, group.ID)

	event, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Midterm Review",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityPublicGroup,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if !visibleIDs(t, db, alice.ID)[event.ID] {
		t.Error("Expected alice to see the public event")
	}
	if !visibleIDs(t, db, bob.ID)[event.ID] {
		t.Error("Expected bob to see the public event")
	}
}

func TestInvitedOnlyExcludesUninvitedMember(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	bob := createTestStudent(t, db, "bob@uvic.ca")
	carol := createTestStudent(t, db, "carol@uvic.ca")
	group := createTestGroup(t, db, "Bar Crawl")
	store.Join(alice.ID, group.ID)
	store.Join(bob.ID, group.ID)
	store.Join(carol.ID, group.ID)

	event, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "October Crawl",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityInvitedOnly,
		InviteeIDs: []uint{bob.ID},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if !visibleIDs(t, db, bob.ID)[event.ID] {
		t.Error("Expected invited bob to see the event")
	}
	// Group membership alone grants nothing for invited_only events
	if visibleIDs(t, db, carol.ID)[event.ID] {
		t.Error("Expected uninvited carol not to see the event")
	}
	// Not even the creator, unless they invited themselves
	if visibleIDs(t, db, alice.ID)[event.ID] {
		t.Error("Expected uninvited creator not to see the event")
	}
}

func TestDeclineExcludesEvent(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)
	ledger := invitations.NewLedger(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	bob := createTestStudent(t, db, "bob@uvic.ca")
	group := createTestGroup(t, db, "Bar Crawl")
	store.Join(alice.ID, group.ID)
	store.Join(bob.ID, group.ID)

	event, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "October Crawl",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityInvitedOnly,
		InviteeIDs: []uint{bob.ID},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	if !visibleIDs(t, db, bob.ID)[event.ID] {
		t.Fatal("Expected pending invitation to grant visibility")
	}

	if _, err := ledger.Respond(event.ID, bob.ID, false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if visibleIDs(t, db, bob.ID)[event.ID] {
		t.Error("Expected declined event to disappear")
	}

	// Accepting again brings it back
	if _, err := ledger.Respond(event.ID, bob.ID, true); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	if !visibleIDs(t, db, bob.ID)[event.ID] {
		t.Error("Expected accepted event to be visible again")
	}
}

func TestCancelledEventInvisible(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)
	registry := events.NewRegistry(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	store.Join(alice.ID, group.ID)

	event, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Doomed Session",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityPublicGroup,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if !visibleIDs(t, db, alice.ID)[event.ID] {
		t.Fatal("Expected event to be visible before cancellation")
	}

	if err := registry.Cancel(event.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if visibleIDs(t, db, alice.ID)[event.ID] {
		t.Error("Expected cancelled event to be invisible")
	}
}

func TestStudentWithNoMembershipsSeesNothing(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	loner := createTestStudent(t, db, "loner@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	store.Join(alice.ID, group.ID)

	if _, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Members Only View",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityPublicGroup,
	}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	resolver := NewResolver(db)
	visible, err := resolver.VisibleEvents(loner.ID)
	if err != nil {
		t.Fatalf("VisibleEvents failed: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("Expected empty result for student with no memberships, got %d events", len(visible))
	}
}

func TestJoinAfterCreationSeesPublicEvent(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	late := createTestStudent(t, db, "late@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	store.Join(alice.ID, group.ID)

	event, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Before The Join",
		GroupID:    group.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityPublicGroup,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	store.Join(late.ID, group.ID)

	// The late joiner has no invitation row but still sees the pin;
	// visibility for public events rides on membership, not fan-out
	if !visibleIDs(t, db, late.ID)[event.ID] {
		t.Error("Expected the late joiner to see the public event")
	}
	var count int64
	db.Model(&models.EventInvitation{}).
		Where("event_id = ? AND student_id = ?", event.ID, late.ID).
		Count(&count)
	if count != 0 {
		t.Errorf("Expected no retroactive invitation, got %d", count)
	}
}

func TestVisibleEventsUnknownStudent(t *testing.T) {
	db := setupTestDB(t)
	resolver := NewResolver(db)

	_, err := resolver.VisibleEvents(999)
	var notFoundErr *apperr.NotFoundError
	if !errors.As(err, &notFoundErr) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

// Full lifecycle: two students in a course group, one public and one
// invited-only event, a decline at the end.
func TestVisibilityLifecycle(t *testing.T) {
	db := setupTestDB(t)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)
	ledger := invitations.NewLedger(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	bob := createTestStudent(t, db, "bob@uvic.ca")
	math := createTestGroup(t, db, "MATH 100")
	store.Join(alice.ID, math.ID)
	store.Join(bob.ID, math.ID)

	// Public event fans out to both members
	study, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Study Session",
		GroupID:    math.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
		Visibility: models.VisibilityPublicGroup,
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	var pending int64
	db.Model(&models.EventInvitation{}).
		Where("event_id = ? AND status = ?", study.ID, models.InviteStatusPending).
		Count(&pending)
	if pending != 2 {
		t.Fatalf("Expected 2 pending invitations, got %d", pending)
	}
	if !visibleIDs(t, db, alice.ID)[study.ID] || !visibleIDs(t, db, bob.ID)[study.ID] {
		t.Fatal("Expected both members to see the public event")
	}

	// Invited-only event for bob alone
	party, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "After Party",
		GroupID:    math.ID,
		StartTime:  time.Now().Add(48 * time.Hour),
		Visibility: models.VisibilityInvitedOnly,
		InviteeIDs: []uint{bob.ID},
	})
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	var invitation models.EventInvitation
	db.Where("event_id = ?", party.ID).First(&invitation)
	if invitation.InvitedByID == nil || *invitation.InvitedByID != alice.ID {
		t.Error("Expected alice as inviter on the manual invitation")
	}
	if visibleIDs(t, db, alice.ID)[party.ID] {
		t.Error("Expected the uninvited creator not to see the invited-only event")
	}
	if !visibleIDs(t, db, bob.ID)[party.ID] {
		t.Error("Expected invited bob to see the invited-only event")
	}

	// Bob declines and the event drops out of his view
	if _, err := ledger.Respond(party.ID, bob.ID, false); err != nil {
		t.Fatalf("Respond failed: %v", err)
	}
	bobView := visibleIDs(t, db, bob.ID)
	if bobView[party.ID] {
		t.Error("Expected declined event to be excluded")
	}
	if !bobView[study.ID] {
		t.Error("Expected the public event to stay visible after the decline")
	}
}

func TestMapPinsSkipsEventsWithoutLocation(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	location := createTestLocation(t, db, "Clearihue A110")
	store.Join(alice.ID, group.ID)

	if _, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:      "Pinned",
		GroupID:    group.ID,
		LocationID: &location.ID,
		StartTime:  time.Now().Add(24 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}
	if _, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
		Title:     "Unpinnable",
		GroupID:   group.ID,
		StartTime: time.Now().Add(48 * time.Hour),
	}); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	req, _ := http.NewRequest("GET", "/map-pins", nil)
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var pins []PinResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &pins); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(pins) != 1 {
		t.Fatalf("Expected 1 pin, got %d", len(pins))
	}
	if pins[0].Title != "Pinned" {
		t.Errorf("Expected the located event, got %q", pins[0].Title)
	}
	if pins[0].LocationName != "Clearihue A110" {
		t.Errorf("Expected location name on the pin, got %q", pins[0].LocationName)
	}
	if pins[0].GroupName != "MATH 100" {
		t.Errorf("Expected group name on the pin, got %q", pins[0].GroupName)
	}
}

func TestMapPinsSortedByStartTime(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	store := memberships.NewStore(db)
	orchestrator := events.NewOrchestrator(db)

	alice := createTestStudent(t, db, "alice@uvic.ca")
	group := createTestGroup(t, db, "MATH 100")
	location := createTestLocation(t, db, "Clearihue A110")
	store.Join(alice.ID, group.ID)

	base := time.Now().UTC().Truncate(time.Second)
	for _, event := range []struct {
		title string
		start time.Time
	}{
		{"Third", base.Add(72 * time.Hour)},
		{"First", base.Add(24 * time.Hour)},
		{"Second", base.Add(48 * time.Hour)},
	} {
		if _, err := orchestrator.CreateEvent(alice.ID, events.CreateEventInput{
			Title:      event.title,
			GroupID:    group.ID,
			LocationID: &location.ID,
			StartTime:  event.start,
		}); err != nil {
			t.Fatalf("CreateEvent failed: %v", err)
		}
	}

	req, _ := http.NewRequest("GET", "/map-pins", nil)
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	var pins []PinResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &pins); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(pins) != 3 {
		t.Fatalf("Expected 3 pins, got %d", len(pins))
	}
	for i, want := range []string{"First", "Second", "Third"} {
		if pins[i].Title != want {
			t.Errorf("Expected pin %d to be %q, got %q", i, want, pins[i].Title)
		}
	}
}

func TestMapPinsRequiresToken(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)

	req, _ := http.NewRequest("GET", "/map-pins", nil)
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401, got %d", resp.Code)
	}
}
