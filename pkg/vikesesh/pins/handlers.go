package pins

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/apperr"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"gorm.io/gorm"
)

// Handler handles map pin requests
type Handler struct {
	db       *gorm.DB
	resolver *Resolver
}

// NewHandler creates a new pins handler
func NewHandler(db *gorm.DB) *Handler {
	return &Handler{db: db, resolver: NewResolver(db)}
}

// PinResponse is one map pin: a visible event with a campus coordinate
type PinResponse struct {
	EventID      uint    `json:"event_id"`
	Title        string  `json:"title"`
	StartTime    string  `json:"start_time"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name"`
	GroupName    string  `json:"group_name"`
	Visibility   string  `json:"visibility"`
}

// MapPins returns the map pins for the calling student: their visible
// events narrowed to those with a renderable campus location, sorted by
// start time
// @Summary Map pins for the calling student
// @Router /map-pins [get]
func (h *Handler) MapPins(c *gin.Context) {
	studentID, _ := identity.GetStudentID(c)

	events, err := h.resolver.VisibleEvents(studentID)
	if err != nil {
		apperr.Respond(c, err)
		return
	}

	pins := make([]PinResponse, 0, len(events))
	for _, event := range events {
		if event.Location == nil {
			continue // visible, but nothing to pin on the map
		}
		pins = append(pins, PinResponse{
			EventID:      event.ID,
			Title:        event.Title,
			StartTime:    event.StartTime.UTC().Format(time.RFC3339),
			Latitude:     event.Location.Latitude,
			Longitude:    event.Location.Longitude,
			LocationName: event.Location.Name,
			GroupName:    event.Group.Name,
			Visibility:   string(event.Visibility),
		})
	}

	// The resolver makes no ordering guarantee; the map wants start order
	sort.Slice(pins, func(i, j int) bool {
		return pins[i].StartTime < pins[j].StartTime
	})

	c.JSON(http.StatusOK, pins)
}

// RegisterRoutes registers the map pin routes
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/map-pins", h.MapPins)
}
