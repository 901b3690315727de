package server

import (
	"github.com/gin-gonic/gin"
	"github.com/thereayou/warbler/internal/handlers"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/middleware"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	Users     *handlers.UserHandler
	Messages  *handlers.MessageHandler
	WebSocket *handlers.WebSocketHandler
	Health    *handlers.HealthHandler
}

// APIEndpoints registers every route. session must run before any handler
// that reads the identity.
func APIEndpoints(r *gin.Engine, h *Handlers, session gin.HandlerFunc) {
	r.GET("/metrics", metrics.Handler())
	r.GET("/healthz", h.Health.Healthz)

	app := r.Group("/", session)
	loginRequired := middleware.RequireIdentity()

	// Auth endpoints
	app.POST("/signup", h.Auth.Signup)
	app.POST("/login", h.Auth.Login)
	app.POST("/logout", h.Auth.Logout)

	app.GET("/", h.Messages.Home)

	users := app.Group("/users")
	{
		users.GET("", h.Users.ListUsers)
		users.GET("/:id", h.Users.GetUser)
		users.GET("/:id/following", loginRequired, h.Users.Following)
		users.GET("/:id/followers", loginRequired, h.Users.Followers)
		users.GET("/:id/likes", loginRequired, h.Users.Likes)

		users.POST("/follow/:id", loginRequired, h.Users.Follow)
		users.POST("/stop-following/:id", loginRequired, h.Users.StopFollowing)
		users.POST("/profile", loginRequired, h.Users.UpdateProfile)
		users.POST("/delete", loginRequired, h.Users.DeleteUser)
	}

	messages := app.Group("/messages")
	{
		messages.POST("/new", loginRequired, h.Messages.CreateMessage)
		messages.GET("/:id", h.Messages.GetMessage)
		messages.POST("/:id/delete", loginRequired, h.Messages.DeleteMessage)
		messages.POST("/:id/like", loginRequired, h.Messages.ToggleLike)
	}

	app.GET("/ws", loginRequired, h.WebSocket.HandleWebSocket)
}
