package dto

type SignupRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Email    string `json:"email" form:"email" binding:"required,email"`
	Password string `json:"password" form:"password" binding:"required,min=6,max=72"`
	ImageURL string `json:"image_url" form:"image_url"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}

// SessionResponse is returned by signup and login. The token is also set as a cookie.
type SessionResponse struct {
	User           UserInfo `json:"user"`
	Token          string   `json:"token"`
	TokenExpiresAt string   `json:"tokenExpiresAt"`
	Message        string   `json:"message,omitempty"`
}

// ProfileRequest fields left out of the request keep their current value.
type ProfileRequest struct {
	Username       *string `json:"username" form:"username"`
	Email          *string `json:"email" form:"email" binding:"omitempty,email"`
	ImageURL       *string `json:"image_url" form:"image_url"`
	HeaderImageURL *string `json:"header_image_url" form:"header_image_url"`
	Bio            *string `json:"bio" form:"bio"`
	Location       *string `json:"location" form:"location"`
	Password       string  `json:"password" form:"password" binding:"required"`
}
