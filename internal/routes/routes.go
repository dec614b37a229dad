package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/jlobacci/goout-backend/internal/handler"
	"github.com/jlobacci/goout-backend/internal/middleware"
	"github.com/jlobacci/goout-backend/pkg/jwt"
)

// Setup configures all API routes
func Setup(
	router *gin.Engine,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	applicationHandler *handler.ApplicationHandler,
	messageHandler *handler.MessageHandler,
	dmHandler *handler.DMHandler,
	notificationHandler *handler.NotificationHandler,
	wsHandler *handler.WSHandler,
	jwtManager *jwt.Manager,
) {
	api := router.Group("/api/v1")

	// Authentication endpoints (no auth required)
	auth := api.Group("/auth")
	auth.POST("/token", authHandler.IssueToken)
	auth.GET("/me", middleware.JWTAuth(jwtManager), authHandler.GetCurrentUser)

	// Events (listing and detail are public, the rest requires auth)
	events := api.Group("/events")
	events.GET("", eventHandler.ListEvents)
	events.GET("/:id", eventHandler.GetEvent)
	events.POST("", middleware.JWTAuth(jwtManager), eventHandler.CreateEvent)
	events.DELETE("/:id", middleware.JWTAuth(jwtManager), eventHandler.DeleteEvent)

	// Applications nested under events
	eventApps := events.Group("/:id/applications", middleware.JWTAuth(jwtManager))
	{
		eventApps.POST("", applicationHandler.Apply)
		eventApps.GET("", applicationHandler.ListByEvent)
	}

	applications := api.Group("/applications", middleware.JWTAuth(jwtManager))
	applications.GET("", applicationHandler.ListMine)
	applications.PATCH("/:id", applicationHandler.Decide)

	// Event thread messages
	eventMessages := events.Group("/:id/messages", middleware.JWTAuth(jwtManager))
	{
		eventMessages.GET("", messageHandler.ListEventMessages)
		eventMessages.POST("", messageHandler.SendEventMessage)
	}

	// Read markers span both thread kinds
	api.POST("/messages/read", middleware.JWTAuth(jwtManager), messageHandler.MarkRead)

	// Direct messages
	dm := api.Group("/dm", middleware.JWTAuth(jwtManager))
	{
		dm.POST("/threads", dmHandler.ResolveThread)
		dm.GET("/threads", dmHandler.ListThreads)
		dm.GET("/threads/:id/messages", dmHandler.ListDMMessages)
		dm.POST("/threads/:id/messages", dmHandler.SendDMMessage)
	}

	// Notification feed
	notifications := api.Group("/notifications", middleware.JWTAuth(jwtManager))
	{
		notifications.GET("", notificationHandler.GetFeed)
		notifications.GET("/badge", notificationHandler.GetBadge)
		notifications.POST("/dismiss", notificationHandler.Dismiss)
	}

	// Live updates (token authenticated inside the handler)
	router.GET("/ws", wsHandler.Serve)
}
