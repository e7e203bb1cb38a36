package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/database"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/events"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/groups"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/identity"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/invitations"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/locations"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/memberships"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/messages"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/models"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/pins"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/seed"
	"github.com/vikesesh/vikesesh/pkg/vikesesh/students"
)

func main() {
	// Get database path from environment or use default
	dbPath := os.Getenv("VIKESESH_DB_PATH")
	if dbPath == "" {
		dbPath = "vikesesh.db"
	}

	// Connect to database
	db, err := database.Connect(dbPath)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Seed dev fixtures when asked
	if os.Getenv("VIKESESH_SEED") == "1" {
		if err := seed.Run(db); err != nil {
			log.Fatalf("Failed to seed database: %v", err)
		}
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "vikesesh",
			})
		})

		// Everything below carries a student identity resolved by the
		// campus SSO gateway token
		authed := api.Group("", identity.Middleware())

		studentsHandler := students.NewHandler(db)
		studentsHandler.RegisterRoutes(authed.Group("/students"))

		locationsHandler := locations.NewHandler(db)
		locationsHandler.RegisterRoutes(authed.Group("/locations"))

		groupsGroup := authed.Group("/groups")
		groupsHandler := groups.NewHandler(db)
		groupsHandler.RegisterRoutes(groupsGroup)

		membershipsHandler := memberships.NewHandler(db)
		membershipsHandler.RegisterRoutes(groupsGroup)

		eventsHandler := events.NewHandler(db)
		eventsHandler.RegisterGroupRoutes(groupsGroup)
		eventsGroup := authed.Group("/events")
		eventsHandler.RegisterRoutes(eventsGroup)

		invitationsHandler := invitations.NewHandler(db)
		invitationsHandler.RegisterEventRoutes(eventsGroup)

		messagesHandler := messages.NewHandler(db)
		messagesHandler.RegisterGroupRoutes(groupsGroup)
		messagesHandler.RegisterRoutes(authed.Group("/messages"))

		meGroup := authed.Group("/me")
		membershipsHandler.RegisterMeRoutes(meGroup)
		invitationsHandler.RegisterMeRoutes(meGroup)

		pinsHandler := pins.NewHandler(db)
		pinsHandler.RegisterRoutes(authed)
	}

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting VikeSesh server on :%s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
