package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/warbler/internal/handlers/dto"
	"github.com/thereayou/warbler/internal/middleware"
	"github.com/thereayou/warbler/internal/services"
)

type MessageHandler struct {
	messages *services.MessageService
}

func NewMessageHandler(messages *services.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

// Home is the timeline of the current user. Anonymous visitors get an empty list.
func (h *MessageHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	identity := middleware.Identity(c)

	messages, err := h.messages.Timeline(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	liked, err := h.messages.LikedIDs(ctx, identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"messages": dto.NewMessageResponses(messages, liked)})
}

func (h *MessageHandler) CreateMessage(c *gin.Context) {
	var req dto.MessageRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	identity := middleware.Identity(c)
	msg, err := h.messages.Create(c.Request.Context(), identity, req.Text)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Location", "/users/"+identity.ID.String())
	c.JSON(http.StatusCreated, dto.NewMessageResponse(msg))
}

func (h *MessageHandler) GetMessage(c *gin.Context) {
	messageID, ok := pathID(c, "Message")
	if !ok {
		return
	}

	view, err := h.messages.Show(c.Request.Context(), middleware.Identity(c), messageID)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := dto.NewMessageResponse(view.Message)
	resp.Liked = view.Liked
	resp.Likes = view.Likes
	c.JSON(http.StatusOK, resp)
}

// DeleteMessage removes a message owned by the current user.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	messageID, ok := pathID(c, "Message")
	if !ok {
		return
	}

	if err := h.messages.Delete(c.Request.Context(), middleware.Identity(c), messageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "message deleted successfully"})
}

// ToggleLike likes or unlikes a message and returns the new state.
func (h *MessageHandler) ToggleLike(c *gin.Context) {
	messageID, ok := pathID(c, "Message")
	if !ok {
		return
	}

	liked, err := h.messages.ToggleLike(c.Request.Context(), middleware.Identity(c), messageID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": messageID, "liked": liked})
}
