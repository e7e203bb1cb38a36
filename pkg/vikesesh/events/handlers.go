package events

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

// Handler handles event-related requests
type Handler struct {
	db           *gorm.DB
	registry     *Registry
	orchestrator *Orchestrator
}

// NewHandler creates a new events handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		db:           db,
		registry:     NewRegistry(db),
		orchestrator: NewOrchestrator(db),
	}
}

// CreateEventRequest represents the request to create an event
type CreateEventRequest struct {
	Title          string     `json:"title" binding:"required"`
	Description    string     `json:"description"`
	LocationID     *uint      `json:"location_id"`
	StartTime      time.Time  `json:"start_time" binding:"required"`
	EndTime        *time.Time `json:"end_time"`
	RecurrenceRule string     `json:"recurrence_rule"`
	Visibility     string     `json:"visibility" binding:"omitempty,oneof=public_group invited_only"`
	InviteeIDs     []uint     `json:"invitee_ids"`
}

// UpdateEventRequest represents the request to update an event's mutable
// fields. Visibility is accepted only so a change attempt gets a proper
// error instead of being silently dropped.
type UpdateEventRequest struct {
	Title          *string    `json:"title"`
	Description    *string    `json:"description"`
	LocationID     *uint      `json:"location_id"`
	StartTime      *time.Time `json:"start_time"`
	EndTime        *time.Time `json:"end_time"`
	RecurrenceRule *string    `json:"recurrence_rule"`
	Visibility     *string    `json:"visibility" binding:"omitempty,oneof=public_group invited_only"`
}

// EventResponse represents an event in API responses
type EventResponse struct {
	ID             uint   `json:"id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	CreatorID      uint   `json:"creator_id"`
	GroupID        uint   `json:"group_id"`
	LocationID     *uint  `json:"location_id,omitempty"`
	StartTime      string `json:"start_time"`
	EndTime        string `json:"end_time,omitempty"`
	RecurrenceRule string `json:"recurrence_rule,omitempty"`
	Visibility     string `json:"visibility"`
	IsCancelled    bool   `json:"is_cancelled"`
	CreatedAt      string `json:"created_at"`
}

func eventToResponse(event models.Event) EventResponse {
	resp := EventResponse{
		ID:             event.ID,
		Title:          event.Title,
		Description:    event.Description,
		CreatorID:      event.CreatorID,
		GroupID:        event.GroupID,
		LocationID:     event.LocationID,
		StartTime:      event.StartTime.UTC().Format(time.RFC3339),
		RecurrenceRule: event.RecurrenceRule,
		Visibility:     string(event.Visibility),
		IsCancelled:    event.IsCancelled,
		CreatedAt:      event.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if event.EndTime != nil {
		resp.EndTime = event.EndTime.UTC().Format(time.RFC3339)
	}
	return resp
}

// Create creates an event in a group and fans out its invitations
// @Summary Create an event
// @Router /groups/{id}/events [post]
func (h *Handler) Create(c *gin.Context) {
	creatorID, _ := identity.GetStudentID(c)
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.orchestrator.CreateEvent(creatorID, CreateEventInput{
		Title:          req.Title,
		Description:    req.Description,
		GroupID:        uint(groupID),
		LocationID:     req.LocationID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RecurrenceRule: req.RecurrenceRule,
		Visibility:     models.EventVisibility(req.Visibility),
		InviteeIDs:     req.InviteeIDs,
	})
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, eventToResponse(*event))
}

// Get returns a single event
// @Summary Get an event
// @Router /events/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	event, err := h.registry.Get(uint(eventID))
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(*event))
}

// Update changes an event's mutable fields
// @Summary Update an event
// @Router /events/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd := EventUpdate{
		Title:          req.Title,
		Description:    req.Description,
		LocationID:     req.LocationID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		RecurrenceRule: req.RecurrenceRule,
	}
	if req.Visibility != nil {
		visibility := models.EventVisibility(*req.Visibility)
		upd.Visibility = &visibility
	}

	event, err := h.registry.Update(uint(eventID), upd)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, eventToResponse(*event))
}

// Cancel marks an event cancelled
// @Summary Cancel an event
// @Router /events/{id}/cancel [post]
func (h *Handler) Cancel(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	if err := h.registry.Cancel(uint(eventID)); err != nil {
		apperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "cancelled"})
}

// ListByGroup returns all events in a group
// @Summary List a group's events
// @Router /groups/{id}/events [get]
func (h *Handler) ListByGroup(c *gin.Context) {
	groupID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	events, err := h.registry.ListByGroup(uint(groupID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch events"})
		return
	}

	responses := make([]EventResponse, len(events))
	for i, event := range events {
		responses[i] = eventToResponse(event)
	}

	c.JSON(http.StatusOK, responses)
}

// RegisterGroupRoutes registers the group-scoped event routes
func (h *Handler) RegisterGroupRoutes(rg *gin.RouterGroup) {
	rg.POST("/:id/events", h.Create)
	rg.GET("/:id/events", h.ListByGroup)
}

// RegisterRoutes registers the event routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.POST("/:id/cancel", h.Cancel)
}
