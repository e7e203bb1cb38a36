package groups

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
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

func setupTestRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(db)

	groups := r.Group("/groups")
	groups.Use(identity.Middleware())
	handler.RegisterRoutes(groups)

	return r
}

func getAuthHeader(student models.Student) string {
	token, _ := identity.MintToken(student.ID, student.Email)
	return "Bearer " + token
}

func jsonBody(t *testing.T, v interface{}) *bytes.Buffer {
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("Failed to marshal request body: %v", err)
	}
	return bytes.NewBuffer(data)
}

func TestCreateGroupMakesCreatorOwner(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestStudent(t, db, "alice@uvic.ca")

	req, _ := http.NewRequest("POST", "/groups", jsonBody(t, CreateGroupRequest{
		Name:       "MATH 100",
		CourseCode: "MATH100",
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var body GroupResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if body.Role != string(models.GroupRoleOwner) {
		t.Errorf("Expected owner role, got %s", body.Role)
	}

	var membership models.GroupMembership
	if err := db.Where("student_id = ? AND group_id = ?", alice.ID, body.ID).First(&membership).Error; err != nil {
		t.Fatal("Expected owner membership row to exist")
	}
	if membership.Role != models.GroupRoleOwner {
		t.Errorf("Expected owner role on membership, got %s", membership.Role)
	}
}

func TestCreateGroupUnknownParent(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestStudent(t, db, "alice@uvic.ca")

	parentID := uint(999)
	req, _ := http.NewRequest("POST", "/groups", jsonBody(t, CreateGroupRequest{
		Name:          "MATH 100 - Dr. Smith",
		ParentGroupID: &parentID,
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", resp.Code)
	}
}

func TestListFiltersByCourseCode(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestStudent(t, db, "alice@uvic.ca")

	db.Create(&models.Group{Name: "MATH 100", CourseCode: "MATH100", IsPublic: true})
	db.Create(&models.Group{Name: "CSC 110", CourseCode: "CSC110", IsPublic: true})
	db.Create(&models.Group{Name: "Secret Society", IsPublic: false})

	req, _ := http.NewRequest("GET", "/groups?course_code=MATH100", nil)
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	var body []GroupResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(body) != 1 || body[0].Name != "MATH 100" {
		t.Errorf("Expected only MATH 100, got %+v", body)
	}
}

func TestListHidesPrivateGroups(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	alice := createTestStudent(t, db, "alice@uvic.ca")

	db.Create(&models.Group{Name: "Open Club", IsPublic: true})
	db.Create(&models.Group{Name: "Secret Society", IsPublic: false})

	req, _ := http.NewRequest("GET", "/groups", nil)
	req.Header.Set("Authorization", getAuthHeader(alice))
	resp := httptest.NewRecorder()

	router.ServeHTTP(resp, req)

	var body []GroupResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to parse response: %v", err)
	}
	if len(body) != 1 || body[0].Name != "Open Club" {
		t.Errorf("Expected only the public group, got %+v", body)
	}
}

func TestGetPrivateGroupHiddenFromNonMembers(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	member := createTestStudent(t, db, "member@uvic.ca")
	outsider := createTestStudent(t, db, "outsider@uvic.ca")

	group := models.Group{Name: "Secret Society", IsPublic: false}
	db.Create(&group)
	db.Create(&models.GroupMembership{StudentID: member.ID, GroupID: group.ID, Role: models.GroupRoleOwner})

	get := func(student models.Student) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("GET", "/groups/1", nil)
		req.Header.Set("Authorization", getAuthHeader(student))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	if resp := get(outsider); resp.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for non-member, got %d", resp.Code)
	}
	if resp := get(member); resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for member, got %d", resp.Code)
	}
}

func TestUpdateRequiresAdminRole(t *testing.T) {
	db := setupTestDB(t)
	router := setupTestRouter(db)
	owner := createTestStudent(t, db, "owner@uvic.ca")
	member := createTestStudent(t, db, "member@uvic.ca")

	group := models.Group{Name: "MATH 100", IsPublic: true}
	db.Create(&group)
	db.Create(&models.GroupMembership{StudentID: owner.ID, GroupID: group.ID, Role: models.GroupRoleOwner})
	db.Create(&models.GroupMembership{StudentID: member.ID, GroupID: group.ID, Role: models.GroupRoleMember})

	update := func(student models.Student) *httptest.ResponseRecorder {
		req, _ := http.NewRequest("PUT", "/groups/1", jsonBody(t, UpdateGroupRequest{Description: "Updated"}))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", getAuthHeader(student))
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		return resp
	}

	if resp := update(member); resp.Code != http.StatusForbidden {
		t.Errorf("Expected status 403 for plain member, got %d", resp.Code)
	}
	if resp := update(owner); resp.Code != http.StatusOK {
		t.Errorf("Expected status 200 for owner, got %d", resp.Code)
	}

	var loaded models.Group
	db.First(&loaded, group.ID)
	if loaded.Description != "Updated" {
		t.Errorf("Expected description to be updated, got %q", loaded.Description)
	}
}
