package groups

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles group-related requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new groups handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name          string `json:"name" binding:"required"`
	Description   string `json:"description"`
	CourseCode    string `json:"course_code"`
	IconURL       string `json:"icon_url"`
	IsPublic      *bool  `json:"is_public"`
	ParentGroupID *uint  `json:"parent_group_id"`
}

// UpdateGroupRequest represents the request to update a group
type UpdateGroupRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	CourseCode  string `json:"course_code"`
	IconURL     string `json:"icon_url"`
}

// GroupResponse represents a group in API responses
type GroupResponse struct {
	ID            uint   `json:"id"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	CourseCode    string `json:"course_code,omitempty"`
	IconURL       string `json:"icon_url,omitempty"`
	IsPublic      bool   `json:"is_public"`
	ParentGroupID *uint  `json:"parent_group_id,omitempty"`
	Role          string `json:"role,omitempty"` // caller's role in this group
	MemberCount   int    `json:"member_count,omitempty"`
}

// List returns all public groups, for discovery
// @Summary List public groups
// @Router /groups [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Where("is_public = ?", true)
	if course := c.Query("course_code"); course != "" {
		query = query.Where("course_code = ?", course)
	}

	var groups []models.Group
	if err := query.Find(&groups).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}

	responses := make([]GroupResponse, len(groups))
	for i, g := range groups {
		var memberCount int64
		h.db.Model(&models.GroupMembership{}).Where("group_id = ?", g.ID).Count(&memberCount)

		responses[i] = GroupResponse{
			ID:            g.ID,
			Name:          g.Name,
			Description:   g.Description,
			CourseCode:    g.CourseCode,
			IconURL:       g.IconURL,
			IsPublic:      g.IsPublic,
			ParentGroupID: g.ParentGroupID,
			MemberCount:   int(memberCount),
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Create creates a new group and adds the creator as owner
// @Summary Create a group
// @Router /groups [post]
func (h *Handler) Create(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)

	var req CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.ParentGroupID != nil {
		if err := h.db.First(&models.Group{}, *req.ParentGroupID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Parent group does not exist"})
			return
		}
	}

	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	// Create group and owner membership in a transaction
	var group models.Group
	err := h.db.Transaction(func(tx *gorm.DB) error {
		group = models.Group{
			Name:          req.Name,
			Description:   req.Description,
			CourseCode:    req.CourseCode,
			IconURL:       req.IconURL,
			IsPublic:      isPublic,
			CreatedByID:   studentID,
			ParentGroupID: req.ParentGroupID,
		}
		if err := tx.Create(&group).Error; err != nil {
			return err
		}

		membership := models.GroupMembership{
			StudentID: studentID,
			GroupID:   group.ID,
			Role:      models.GroupRoleOwner,
		}
		return tx.Create(&membership).Error
	})

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		return
	}

	c.JSON(http.StatusCreated, GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		CourseCode:    group.CourseCode,
		IconURL:       group.IconURL,
		IsPublic:      group.IsPublic,
		ParentGroupID: group.ParentGroupID,
		Role:          string(models.GroupRoleOwner),
		MemberCount:   1,
	})
}

// Get returns a specific group. Private groups are only visible to their
// members.
// @Summary Get a group
// @Router /groups/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var membership models.GroupMembership
	memberErr := h.db.Where("student_id = ? AND group_id = ?", studentID, groupID).First(&membership).Error
	if !group.IsPublic && errors.Is(memberErr, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var memberCount int64
	h.db.Model(&models.GroupMembership{}).Where("group_id = ?", groupID).Count(&memberCount)

	c.JSON(http.StatusOK, GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		CourseCode:    group.CourseCode,
		IconURL:       group.IconURL,
		IsPublic:      group.IsPublic,
		ParentGroupID: group.ParentGroupID,
		Role:          string(membership.Role),
		MemberCount:   int(memberCount),
	})
}

// Update updates a group (admin or owner only)
// @Summary Update a group
// @Router /groups/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var membership models.GroupMembership
	if err := h.db.Where("student_id = ? AND group_id = ? AND role IN ?", studentID, groupID,
		[]models.GroupRole{models.GroupRoleOwner, models.GroupRoleAdmin}).
		First(&membership).Error; err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
		return
	}

	var req UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var group models.Group
	if err := h.db.First(&group, groupID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	// Update fields if provided
	if req.Name != "" {
		group.Name = req.Name
	}
	if req.Description != "" {
		group.Description = req.Description
	}
	if req.CourseCode != "" {
		group.CourseCode = req.CourseCode
	}
	if req.IconURL != "" {
		group.IconURL = req.IconURL
	}

	if err := h.db.Save(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update group"})
		return
	}

	var memberCount int64
	h.db.Model(&models.GroupMembership{}).Where("group_id = ?", groupID).Count(&memberCount)

	c.JSON(http.StatusOK, GroupResponse{
		ID:            group.ID,
		Name:          group.Name,
		Description:   group.Description,
		CourseCode:    group.CourseCode,
		IconURL:       group.IconURL,
		IsPublic:      group.IsPublic,
		ParentGroupID: group.ParentGroupID,
		Role:          string(membership.Role),
		MemberCount:   int(memberCount),
	})
}

// RegisterRoutes registers group routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", h.Update)
}
