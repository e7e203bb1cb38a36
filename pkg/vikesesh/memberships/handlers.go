package memberships

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles membership-related requests
type Handler struct {
	db    *gorm.DB
	store *Store
}

// NewHandler creates a new memberships handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, store: NewStore(db)}
}

// MemberResponse represents a group member in API responses
type MemberResponse struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	JoinedAt    string `json:"joined_at"`
}

// GroupSummary represents one of the caller's groups
type GroupSummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	CourseCode string `json:"course_code,omitempty"`
	Role       string `json:"role"`
}

// UpdateMemberRequest represents a request to change a member's role
type UpdateMemberRequest struct {
	Role string `json:"role" binding:"required,oneof=owner admin member"`
}

// Join adds the calling student to a group
// @Summary Join a group
// @Router /groups/{id}/join [post]
func (h *Handler) Join(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.store.Join(studentID, uint(groupID)); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "joined"})
}

// Leave removes the calling student from a group
// @Summary Leave a group
// @Router /groups/{id}/leave [post]
func (h *Handler) Leave(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.store.Leave(studentID, uint(groupID)); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "left"})
}

// MyGroups returns all groups the calling student belongs to
// @Summary List my groups
// @Router /me/groups [get]
func (h *Handler) MyGroups(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)

	var memberships []models.GroupMembership
	if err := h.db.Preload("Group").Where("student_id = ?", studentID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	groups := make([]GroupSummary, len(memberships))
	for i, m := range memberships {
		groups[i] = GroupSummary{
			ID:         m.Group.ID,
			Name:       m.Group.Name,
			CourseCode: m.Group.CourseCode,
			Role:       string(m.Role),
		}
	}

	c.JSON(http.StatusOK, groups)
}

// ListMembers returns all members of a group
func (h *Handler) ListMembers(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	// Check membership
	if err := h.db.Where("student_id = ? AND group_id = ?", studentID, groupID).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberships []models.GroupMembership
	if err := h.db.Preload("Student").Where("group_id = ?", groupID).Find(&memberships).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch members"})
		return
	}

	members := make([]MemberResponse, len(memberships))
	for i, m := range memberships {
		members[i] = MemberResponse{
			ID:          m.Student.ID,
			Email:       m.Student.Email,
			DisplayName: m.Student.DisplayName,
			Role:        string(m.Role),
			JoinedAt:    m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
	}

	c.JSON(http.StatusOK, members)
}

// UpdateMember promotes or demotes a member (group admins and owners only)
func (h *Handler) UpdateMember(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	memberID, err := strconv.ParseUint(c.Param("studentId"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	// Check admin or owner membership
	if err := h.db.Where("student_id = ? AND group_id = ? AND role IN ?", studentID, groupID,
		[]models.GroupRole{models.GroupRoleOwner, models.GroupRoleAdmin}).
		First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req UpdateMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var membership models.GroupMembership
	if err := h.db.Preload("Student").Where("student_id = ? AND group_id = ?", memberID, groupID).First(&membership).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Member not found"})
		return
	}

	membership.Role = models.GroupRole(req.Role)
	if err := h.db.Save(&membership).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update member"})
		return
	}

	c.JSON(http.StatusOK, MemberResponse{
		ID:          membership.Student.ID,
		Email:       membership.Student.Email,
		DisplayName: membership.Student.DisplayName,
		Role:        string(membership.Role),
		JoinedAt:    membership.CreatedAt.Format("2006-01-02T15:04:05Z"),
	})
}

// RegisterRoutes registers membership routes on the groups route group
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/join", h.Join)
	rg.POST("/:id/leave", h.Leave)
	rg.GET("/:id/members", h.ListMembers)
	rg.PUT("/:id/members/:studentId", h.UpdateMember)
}

// RegisterMeRoutes registers the caller-scoped routes
func (h *Handler) RegisterMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/groups", h.MyGroups)
}
