package students

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles student account requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new students handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateStudentRequest represents the request to provision a student
type CreateStudentRequest struct {
	Email         string `json:"email" binding:"required,email"`
	DisplayName   string `json:"display_name" binding:"required"`
	StudentNumber string `json:"student_number" binding:"required"`
	AvatarURL     string `json:"avatar_url"`
}

// StudentResponse represents a student in API responses
type StudentResponse struct {
	ID            uint   `json:"id"`
	PublicID      string `json:"public_id"`
	Email         string `json:"email"`
	DisplayName   string `json:"display_name"`
	StudentNumber string `json:"student_number,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
	IsActive      bool   `json:"is_active"`
	CreatedAt     string `json:"created_at"`
	GroupCount    int64  `json:"group_count"`
}

func (h *Handler) toResponse(student models.Student) StudentResponse {
	var groupCount int64
	h.db.Model(&models.GroupMembership{}).Where("student_id = ?", student.ID).Count(&groupCount)

	return StudentResponse{
		ID:            student.ID,
		PublicID:      student.PublicID,
		Email:         student.Email,
		DisplayName:   student.DisplayName,
		StudentNumber: student.StudentNumber,
		AvatarURL:     student.AvatarURL,
		IsActive:      student.IsActive,
		CreatedAt:     student.CreatedAt.Format("2006-01-02T15:04:05Z"),
		GroupCount:    groupCount,
	}
}

// List returns all students, with optional search
// @Summary List students
// @Router /students [get]
func (h *Handler) List(c *gin.Context) {
	query := h.db.Order("created_at DESC")

	// Optional search by email or display name
	if search := c.Query("q"); search != "" {
		query = query.Where("email LIKE ? OR display_name LIKE ?", "%"+search+"%", "%"+search+"%")
	}

	var students []models.Student
	if err := query.Find(&students).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch students"})
		return
	}

	responses := make([]StudentResponse, len(students))
	for i, student := range students {
		responses[i] = h.toResponse(student)
	}

	c.JSON(http.StatusOK, responses)
}

// Create provisions a new student account
// @Summary Provision a student
// @Router /students [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Check uniqueness up front for a clean error; the unique indexes on
	// email and student_number still hold the invariant under races
	var existing models.Student
	if err := h.db.Where("email = ? OR student_number = ?", req.Email, req.StudentNumber).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Student already registered"})
		return
	}

	student := models.Student{
		Email:         req.Email,
		DisplayName:   req.DisplayName,
		StudentNumber: req.StudentNumber,
		AvatarURL:     req.AvatarURL,
		IsActive:      true,
	}
	if err := h.db.Create(&student).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Student already registered"})
		return
	}

	c.JSON(http.StatusCreated, h.toResponse(student))
}

// Get returns a single student by ID
// @Summary Get a student
// @Router /students/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var student models.Student
	if err := h.db.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	c.JSON(http.StatusOK, h.toResponse(student))
}

// Deactivate flips the student's active flag. Students are never deleted;
// deactivating twice is a no-op.
// @Summary Deactivate a student
// @Router /students/{id} [delete]
func (h *Handler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid student ID"})
		return
	}

	var student models.Student
	if err := h.db.First(&student, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
		return
	}

	if student.IsActive {
		if err := h.db.Model(&student).Update("is_active", false).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate student"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"status": "deactivated"})
}

// RegisterRoutes registers student routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
	rg.DELETE("/:id", h.Deactivate)
}
