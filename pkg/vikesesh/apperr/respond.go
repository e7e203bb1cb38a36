package apperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Respond writes err as a JSON error response with the HTTP status its
// kind maps to: validation 400, not-found 404, duplicate invitation and
// immutable field 409. Anything else is a 500.
func Respond(c *gin.Context, err error) {
	var (
		validation *ValidationError
		notFound   *NotFoundError
		duplicate  *DuplicateInvitationError
		immutable  *ImmutableFieldError
	)
	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &duplicate):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &immutable):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
