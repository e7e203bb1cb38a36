package invitations

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles invitation-related requests
type Handler struct {
	db     *gorm.DB
	ledger *Ledger
}

// NewHandler creates a new invitations handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, ledger: NewLedger(db)}
}

// InviteRequest represents a manual invitation to an event
type InviteRequest struct {
	StudentID uint `json:"student_id" binding:"required"`
}

// RespondRequest represents a student's answer to an invitation.
// Accept is a pointer so that an explicit false still binds.
type RespondRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

// InvitationResponse represents an invitation in API responses
type InvitationResponse struct {
	ID          uint   `json:"id"`
	EventID     uint   `json:"event_id"`
	EventTitle  string `json:"event_title,omitempty"`
	StudentID   uint   `json:"student_id"`
	InvitedByID *uint  `json:"invited_by_id,omitempty"`
	Status      string `json:"status"`
	InvitedAt   string `json:"invited_at"`
	RespondedAt string `json:"responded_at,omitempty"`
}

func invitationToResponse(invitation models.EventInvitation) InvitationResponse {
	resp := InvitationResponse{
		ID:          invitation.ID,
		EventID:     invitation.EventID,
		EventTitle:  invitation.Event.Title,
		StudentID:   invitation.StudentID,
		InvitedByID: invitation.InvitedByID,
		Status:      string(invitation.Status),
		InvitedAt:   invitation.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if invitation.RespondedAt != nil {
		resp.RespondedAt = invitation.RespondedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

// Invite invites a student to an event, with the caller as inviter
// @Summary Invite a student to an event
// @Router /events/{id}/invitations [post]
func (h *Handler) Invite(c *gin.Context) {
	callerID, _ := identity.GetStudentID(c)
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req InviteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.ledger.Invite(uint(eventID), req.StudentID, &callerID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, invitationToResponse(*invitation))
}

// Respond records the calling student's accept or decline
// @Summary Respond to an invitation
// @Router /events/{id}/respond [post]
func (h *Handler) Respond(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req RespondRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.ledger.Respond(uint(eventID), studentID, *req.Accept)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, invitationToResponse(*invitation))
}

// MyInvitations returns all invitations held by the calling student
// @Summary List my invitations
// @Router /me/invitations [get]
func (h *Handler) MyInvitations(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)

	invitations, err := h.ledger.ListForStudent(studentID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch invitations"})
		return
	}

	responses := make([]InvitationResponse, len(invitations))
	for i, invitation := range invitations {
		responses[i] = invitationToResponse(invitation)
	}

	c.JSON(http.StatusOK, responses)
}

// RegisterEventRoutes registers the event-scoped invitation routes
func (h *Handler) RegisterEventRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/invitations", h.Invite)
	rg.POST("/:id/respond", h.Respond)
}

// RegisterMeRoutes registers the caller-scoped routes
func (h *Handler) RegisterMeRoutes(rg *gin.RouterGroup) {
	rg.GET("/invitations", h.MyInvitations)
}
