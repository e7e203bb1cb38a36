package identity

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	// ContextKeyStudentID is the key for the student ID in gin context
	ContextKeyStudentID = "student_id"
	// ContextKeyEmail is the key for the student email in gin context
	ContextKeyEmail = "email"
)

// Middleware decodes the gateway bearer token and sets the student
// identity in context
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		// Expect "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := DecodeToken(parts[1])
		if err != nil {
			if err == ErrExpiredToken {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Token has expired"})
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			}
			c.Abort()
			return
		}

		c.Set(ContextKeyStudentID, claims.StudentID)
		c.Set(ContextKeyEmail, claims.Email)

		c.Next()
	}
}

// GetStudentID returns the calling student's ID from the gin context
func GetStudentID(c *gin.Context) (uint, bool) {
	studentID, exists := c.Get(ContextKeyStudentID)
	if !exists {
		return 0, false
	}
	return studentID.(uint), true
}

// GetEmail returns the calling student's email from the gin context
func GetEmail(c *gin.Context) (string, bool) {
	email, exists := c.Get(ContextKeyEmail)
	if !exists {
		return "", false
	}
	return email.(string), true
}
