package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/yigit/collegeportal/internal/app/controllers"
	"github.com/yigit/collegeportal/internal/middleware"
	"github.com/yigit/collegeportal/internal/pkg/websocket"
)

// Controllers groups the HTTP handlers mounted by SetupRouter
type Controllers struct {
	Auth      *controllers.AuthController
	Users     *controllers.UserController
	Chat      *controllers.ChatController
	Content   *controllers.ContentController
	Stories   *controllers.StoryController
	Portal    *controllers.PortalController
	Assistant *controllers.AssistantController
	Admin     *controllers.AdminController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	wsHandler *websocket.Handler,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/signup", ctrl.Auth.Signup)
		auth.POST("/login", ctrl.Auth.Login)
		auth.POST("/forgot-password", ctrl.Auth.ForgotPassword)
		auth.POST("/reset-password", ctrl.Auth.ResetPassword)
	}

	// the theme is a device preference, stored without a session
	v1.GET("/theme", ctrl.Auth.GetTheme)
	v1.PUT("/theme", ctrl.Auth.SetTheme)

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	session := authenticated.Group("/auth")
	{
		session.POST("/logout", ctrl.Auth.Logout)
		session.GET("/me", ctrl.Auth.Me)
		session.PATCH("/me", ctrl.Auth.UpdateProfile)
	}

	friends := authenticated.Group("/friends")
	{
		friends.GET("", ctrl.Users.Friends)
		friends.GET("/requests/incoming", ctrl.Users.IncomingRequests)
		friends.GET("/requests/outgoing", ctrl.Users.OutgoingRequests)
		friends.GET("/suggestions", ctrl.Users.Suggestions)
		friends.POST("/:userId/request", ctrl.Users.SendRequest)
		friends.POST("/:userId/accept", ctrl.Users.AcceptRequest)
		friends.POST("/:userId/decline", ctrl.Users.DeclineRequest)
		friends.DELETE("/:userId", ctrl.Users.RemoveFriend)
	}

	conversations := authenticated.Group("/conversations")
	{
		conversations.GET("", ctrl.Chat.Conversations)
		conversations.GET("/:userId", ctrl.Chat.GetConversation)
		conversations.POST("/:userId/messages", ctrl.Chat.SendMessage)
	}

	notifications := authenticated.Group("/notifications")
	{
		notifications.GET("", ctrl.Portal.Notifications)
		notifications.GET("/unread-count", ctrl.Portal.UnreadCount)
		notifications.POST("/read", ctrl.Portal.MarkAllRead)
	}

	authenticated.GET("/search", ctrl.Portal.Search)
	authenticated.GET("/feed", ctrl.Portal.HomeFeed)

	notices := authenticated.Group("/notices")
	{
		notices.GET("", ctrl.Content.Notices)
		notices.POST("", ctrl.Content.CreateNotice)
		notices.PATCH("/:id", ctrl.Content.UpdateNotice)
		notices.DELETE("/:id", ctrl.Content.DeleteNotice)
	}

	topics := authenticated.Group("/topics")
	{
		topics.GET("", ctrl.Content.Topics)
		topics.POST("", ctrl.Content.CreateTopic)
		topics.GET("/:id", ctrl.Content.GetTopic)
		topics.PATCH("/:id", ctrl.Content.UpdateTopic)
		topics.DELETE("/:id", ctrl.Content.DeleteTopic)
		topics.POST("/:id/replies", ctrl.Content.CreateReply)
		topics.POST("/:id/like", ctrl.Content.ToggleTopicLike)
		topics.POST("/:id/vote", ctrl.Content.VoteTopic)
		topics.POST("/:id/replies/:replyId/vote", ctrl.Content.VoteReply)
	}
	authenticated.GET("/users/:userId/topics", ctrl.Content.TopicsByAuthor)

	resources := authenticated.Group("/resources")
	{
		resources.GET("", ctrl.Content.Resources)
		resources.POST("", ctrl.Content.CreateResource)
		resources.DELETE("/:id", ctrl.Content.DeleteResource)
	}

	events := authenticated.Group("/events")
	{
		events.GET("", ctrl.Content.Events)
		events.POST("", ctrl.Content.CreateEvent)
		events.PATCH("/:id", ctrl.Content.UpdateEvent)
		events.DELETE("/:id", ctrl.Content.DeleteEvent)
		events.POST("/:id/rsvp", ctrl.Content.ToggleRSVP)
	}

	market := authenticated.Group("/marketplace")
	{
		market.GET("", ctrl.Content.MarketItems)
		market.POST("", ctrl.Content.CreateMarketItem)
		market.DELETE("/:id", ctrl.Content.DeleteMarketItem)
	}

	placements := authenticated.Group("/placements")
	{
		placements.GET("", ctrl.Content.Placements)
		placements.POST("", ctrl.Content.CreatePlacement)
		placements.PATCH("/:id", ctrl.Content.UpdatePlacement)
		placements.DELETE("/:id", ctrl.Content.DeletePlacement)
		placements.POST("/:id/interest", ctrl.Content.ToggleInterest)
	}

	stories := authenticated.Group("/stories")
	{
		stories.GET("", ctrl.Stories.Feed)
		stories.POST("", ctrl.Stories.CreateStory)
		stories.POST("/:id/view", ctrl.Stories.ViewStory)
		stories.DELETE("/:id", ctrl.Stories.DeleteStory)
	}

	notes := authenticated.Group("/notes")
	{
		notes.GET("", ctrl.Stories.Notes)
		notes.PUT("", ctrl.Stories.SetNote)
		notes.DELETE("", ctrl.Stories.DeleteNote)
	}

	assistant := authenticated.Group("/assistant")
	{
		assistant.GET("/capabilities", ctrl.Assistant.Capabilities)
		assistant.POST("/ask", ctrl.Assistant.Ask)
		assistant.POST("/chat", ctrl.Assistant.Chat)
		assistant.POST("/image", ctrl.Assistant.GenerateImage)
	}

	// --- Admin routes ---
	admin := authenticated.Group("/admin")
	admin.Use(authMiddleware.AdminRequired())
	{
		admin.GET("/stats", ctrl.Admin.Stats)
		admin.GET("/users", ctrl.Admin.Users)
		admin.POST("/users/:userId/admin", ctrl.Admin.ToggleAdmin)
		admin.DELETE("/users/:userId", ctrl.Admin.DeleteUser)
		admin.DELETE("/content/:kind/:id", ctrl.Admin.DeleteContent)
	}

	// Realtime notifications and direct messages
	authenticated.GET("/ws", wsHandler.HandleConnection)
}
