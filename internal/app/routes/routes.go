package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Nnadozi/kram-backend/internal/app/controllers"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/middleware"
	"github.com/Nnadozi/kram-backend/internal/pkg/websocket"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	userController *controllers.UserController,
	groupController *controllers.GroupController,
	meetupController *controllers.MeetupController,
	messageController *controllers.MessageController,
	feedbackController *controllers.FeedbackController,
	chatHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
		auth.POST("/refresh", authController.RefreshToken)
		auth.POST("/logout", authController.Logout)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.PUT("/auth/password", authController.ChangePassword)

		users := authenticated.Group("/users/me")
		{
			users.GET("", userController.GetProfile)
			users.PUT("", userController.UpdateProfile)
			users.DELETE("", userController.DeleteAccount)
			users.GET("/meetups", meetupController.GetMyMeetups)
		}

		groups := authenticated.Group("/groups")
		{
			groups.GET("", groupController.GetMyGroups)
			groups.POST("", groupController.CreateGroup)
			groups.GET("/:id", groupController.GetGroup)
			groups.PUT("/:id", groupController.UpdateGroup)
			groups.DELETE("/:id", groupController.DeleteGroup)
			groups.PUT("/:id/owner", groupController.TransferOwnership)

			// Membership
			groups.GET("/:id/members", groupController.GetMembers)
			groups.POST("/:id/members", groupController.JoinGroup)
			groups.DELETE("/:id/members", groupController.LeaveGroup)

			// Meetups scoped to a group
			groups.GET("/:id/meetups", meetupController.GetGroupMeetups)
			groups.POST("/:id/meetups", meetupController.CreateMeetup)

			// Chat history, a snapshot stream for clients without a
			// websocket, plus the live websocket itself
			groups.GET("/:id/messages", messageController.GetMessages)
			groups.POST("/:id/messages", messageController.SendMessage)
			groups.GET("/:id/messages/stream", messageController.StreamMessages)
			groups.GET("/:id/chat/ws", chatHandler.HandleConnection)
		}

		meetups := authenticated.Group("/meetups")
		{
			meetups.GET("/:id", meetupController.GetMeetup)
			meetups.PUT("/:id", meetupController.UpdateMeetup)
			meetups.DELETE("/:id", meetupController.DeleteMeetup)
			meetups.POST("/:id/cancel", meetupController.CancelMeetup)
			meetups.POST("/:id/attendees", meetupController.Attend)
			meetups.DELETE("/:id/attendees", meetupController.Unattend)
		}

		authenticated.DELETE("/messages/:messageId", messageController.DeleteMessage)
		authenticated.POST("/feedback", feedbackController.SubmitFeedback)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(200, dto.APIResponse{
			Data: gin.H{"status": "ok"},
		})
	})

	// Prometheus scrape endpoint
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
