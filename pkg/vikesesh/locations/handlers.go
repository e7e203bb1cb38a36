package locations

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"gorm.io/gorm"
)

// Handler handles campus location requests
type Handler struct {
	db *gorm.DB
}

// NewHandler creates a new locations handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db}
}

// CreateLocationRequest represents the request to register a location
type CreateLocationRequest struct {
	Name      string   `json:"name" binding:"required"`
	Building  string   `json:"building"`
	Room      string   `json:"room"`
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// LocationResponse represents a campus location in API responses
type LocationResponse struct {
	ID         uint    `json:"id"`
	Name       string  `json:"name"`
	Building   string  `json:"building,omitempty"`
	Room       string  `json:"room,omitempty"`
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	EventCount int64   `json:"event_count,omitempty"`
}

// List returns all campus locations
// @Summary List campus locations
// @Router /locations [get]
func (h *Handler) List(c *gin.Context) {
	var locs []models.CampusLocation
	if err := h.db.Order("name").Find(&locs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch locations"})
		return
	}

	responses := make([]LocationResponse, len(locs))
	for i, loc := range locs {
		var eventCount int64
		h.db.Model(&models.Event{}).Where("location_id = ?", loc.ID).Count(&eventCount)

		responses[i] = LocationResponse{
			ID:         loc.ID,
			Name:       loc.Name,
			Building:   loc.Building,
			Room:       loc.Room,
			Latitude:   loc.Latitude,
			Longitude:  loc.Longitude,
			EventCount: eventCount,
		}
	}

	c.JSON(http.StatusOK, responses)
}

// Create registers a new campus location
// @Summary Register a campus location
// @Router /locations [post]
func (h *Handler) Create(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	loc := models.CampusLocation{
		Name:      req.Name,
		Building:  req.Building,
		Room:      req.Room,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
	}
	if err := h.db.Create(&loc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create location"})
		return
	}

	c.JSON(http.StatusCreated, LocationResponse{
		ID:        loc.ID,
		Name:      loc.Name,
		Building:  loc.Building,
		Room:      loc.Room,
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
	})
}

// Get returns a single campus location
func (h *Handler) Get(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid location ID"})
		return
	}

	var loc models.CampusLocation
	if err := h.db.First(&loc, id).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Location not found"})
		return
	}

	var eventCount int64
	h.db.Model(&models.Event{}).Where("location_id = ?", loc.ID).Count(&eventCount)

	c.JSON(http.StatusOK, LocationResponse{
		ID:         loc.ID,
		Name:       loc.Name,
		Building:   loc.Building,
		Room:       loc.Room,
		Latitude:   loc.Latitude,
		Longitude:  loc.Longitude,
		EventCount: eventCount,
	})
}

// RegisterRoutes registers location routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.Get)
}
