package dto

import (
	"time"

	"github.com/google/uuid"
	"github.com/thereayou/warbler/internal/models"
)

type MessageRequest struct {
	Text string `json:"text" form:"text" binding:"required"`
}

type MessageResponse struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Liked     bool      `json:"liked,omitempty"`
	Likes     int64     `json:"likes,omitempty"`
	User      *UserInfo `json:"user,omitempty"`
}

// UserInfo is the public view of a user.
type UserInfo struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	ImageURL       string    `json:"image_url,omitempty"`
	HeaderImageURL string    `json:"header_image_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	Location       string    `json:"location,omitempty"`
}

func NewUserInfo(u *models.User) UserInfo {
	return UserInfo{
		ID:             u.ID,
		Username:       u.Username,
		ImageURL:       u.ImageURL,
		HeaderImageURL: u.HeaderImageURL,
		Bio:            u.Bio,
		Location:       u.Location,
	}
}

func NewUserInfos(users []models.User) []UserInfo {
	out := make([]UserInfo, len(users))
	for i := range users {
		out[i] = NewUserInfo(&users[i])
	}
	return out
}

func NewMessageResponse(m *models.Message) MessageResponse {
	resp := MessageResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Text:      m.Text,
		Timestamp: m.Timestamp,
	}
	// User is only populated when the query preloaded it.
	if m.User.ID != uuid.Nil {
		info := NewUserInfo(&m.User)
		resp.User = &info
	}
	return resp
}

// NewMessageResponses converts messages, marking those whose id is in liked.
func NewMessageResponses(messages []models.Message, liked []uuid.UUID) []MessageResponse {
	likedSet := make(map[uuid.UUID]struct{}, len(liked))
	for _, id := range liked {
		likedSet[id] = struct{}{}
	}

	out := make([]MessageResponse, len(messages))
	for i := range messages {
		out[i] = NewMessageResponse(&messages[i])
		_, out[i].Liked = likedSet[messages[i].ID]
	}
	return out
}
