package messages

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles group message board requests. The board is an
// append-only log per group; deleting a message only flips its soft
// delete flag. Board content never affects event visibility.
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new messages handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// PostMessageRequest represents a new board message
type PostMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// MessageResponse represents a board message in API responses
type MessageResponse struct {
	ID         uint   `json:"id"`
	GroupID    uint   `json:"group_id"`
	AuthorID   *uint  `json:"author_id,omitempty"`
	AuthorName string `json:"author_name,omitempty"`
	Content    string `json:"content"`
	Type       string `json:"message_type"`
	CreatedAt  string `json:"created_at"`
}

func messageToResponse(message models.Message) MessageResponse {
	resp := MessageResponse{
		ID:        message.ID,
		GroupID:   message.GroupID,
		AuthorID:  message.AuthorID,
		Content:   message.Content,
		Type:      string(message.Type),
		CreatedAt: message.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if message.Author != nil {
		resp.AuthorName = message.Author.DisplayName
	}
	return resp
}

// List returns the group's board, oldest first, hiding deleted messages
func (h *Handler) List(c *gin.Context) {
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

	var msgs []models.Message
	err = h.db.Preload("Author").
		Where("group_id = ? AND is_deleted = ?", groupID, false).
		Order("created_at").
		Find(&msgs).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch messages"})
		return
	}

	responses := make([]MessageResponse, len(msgs))
	for i, message := range msgs {
		responses[i] = messageToResponse(message)
	}

	c.JSON(http.StatusOK, responses)
}

// Post appends a message to the group's board (members only)
func (h *Handler) Post(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	if err := h.db.Where("student_id = ? AND group_id = ?", studentID, groupID).First(&models.GroupMembership{}).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}

	var req PostMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	message := models.Message{
		GroupID:  uint(groupID),
		AuthorID: &studentID,
		Content:  req.Content,
		Type:     models.MessageTypeUser,
	}
	if err := h.db.Create(&message).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to post message"})
		return
	}

	var student models.Student
	h.db.First(&student, studentID)
	message.Author = &student

	c.JSON(http.StatusCreated, messageToResponse(message))
}

// Delete soft-deletes the caller's own message. The row stays on the
// board's log with is_deleted set.
func (h *Handler) Delete(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	messageID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid message ID"})
		return
	}

	var message models.Message
	if err := h.db.First(&message, messageID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Message not found"})
		return
	}

	if message.AuthorID == nil || *message.AuthorID != studentID {
		c.JSON(http.StatusForbidden, gin.H{"error": "Can only delete your own messages"})
		return
	}

	if !message.IsDeleted {
		if err := h.db.Model(&message).Update("is_deleted", true).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete message"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Message deleted"})
}

// RegisterGroupRoutes registers the group-scoped board routes
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id/messages", h.List)
	rg.POST("/:id/messages", h.Post)
}

// RegisterRoutes registers the message routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.DELETE("/:id", h.Delete)
}
