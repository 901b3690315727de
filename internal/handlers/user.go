package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/thereayou/warbler/internal/handlers/dto"
	"github.com/thereayou/warbler/internal/middleware"
	"github.com/thereayou/warbler/internal/services"
)

type UserHandler struct {
	users   *services.UserService
	follows *services.FollowService
	auth    *AuthHandler
}

func NewUserHandler(users *services.UserService, follows *services.FollowService, authH *AuthHandler) *UserHandler {
	return &UserHandler{users: users, follows: follows, auth: authH}
}

// ListUsers returns all users, filtered by ?q= on username.
func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.users.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": dto.NewUserInfos(users)})
}

// GetUser returns a profile with its messages and counters.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := pathID(c, "User")
	if !ok {
		return
	}

	p, err := h.users.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":            dto.NewUserInfo(p.User),
		"messages":        dto.NewMessageResponses(p.Messages, nil),
		"message_count":   p.MessageCount,
		"follower_count":  p.FollowerCount,
		"following_count": p.FollowingCount,
		"like_count":      p.LikeCount,
	})
}

func (h *UserHandler) Following(c *gin.Context) {
	userID, ok := pathID(c, "User")
	if !ok {
		return
	}
	h.respondFollowing(c, userID)
}

func (h *UserHandler) Followers(c *gin.Context) {
	userID, ok := pathID(c, "User")
	if !ok {
		return
	}

	user, followers, err := h.follows.Followers(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      dto.NewUserInfo(user),
		"followers": dto.NewUserInfos(followers),
	})
}

// Likes lists the messages a user likes.
func (h *UserHandler) Likes(c *gin.Context) {
	userID, ok := pathID(c, "User")
	if !ok {
		return
	}

	user, messages, err := h.users.Likes(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":     dto.NewUserInfo(user),
		"messages": dto.NewMessageResponses(messages, nil),
	})
}

// Follow makes the current user follow :id and returns the current user's following list.
func (h *UserHandler) Follow(c *gin.Context) {
	targetID, ok := pathID(c, "User")
	if !ok {
		return
	}

	identity := middleware.Identity(c)
	if err := h.follows.Follow(c.Request.Context(), identity, targetID); err != nil {
		respondError(c, err)
		return
	}
	h.respondFollowing(c, identity.ID)
}

func (h *UserHandler) StopFollowing(c *gin.Context) {
	targetID, ok := pathID(c, "User")
	if !ok {
		return
	}

	identity := middleware.Identity(c)
	if err := h.follows.Unfollow(c.Request.Context(), identity, targetID); err != nil {
		respondError(c, err)
		return
	}
	h.respondFollowing(c, identity.ID)
}

// UpdateProfile edits the current user's profile. The current password is required.
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	changes := services.ProfileChanges{
		Username:       req.Username,
		Email:          req.Email,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	}
	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.Identity(c), changes, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserInfo(user)})
}

// DeleteUser removes the current user's account and logs out.
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), middleware.Identity(c)); err != nil {
		respondError(c, err)
		return
	}
	h.auth.dropSession(c)
	h.auth.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

func (h *UserHandler) respondFollowing(c *gin.Context, userID uuid.UUID) {
	user, following, err := h.follows.Following(c.Request.Context(), middleware.Identity(c), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":      dto.NewUserInfo(user),
		"following": dto.NewUserInfos(following),
	})
}
