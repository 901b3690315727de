package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/warbler/internal/handlers/dto"
	"github.com/thereayou/warbler/internal/metrics"
	"github.com/thereayou/warbler/internal/middleware"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/internal/services"
	"github.com/thereayou/warbler/internal/sessions"
	"github.com/thereayou/warbler/pkg/auth"
)

type AuthHandler struct {
	accounts     *services.AccountService
	store        *sessions.Store
	jwtManager   *auth.JWTManager
	cookieSecure bool
}

func NewAuthHandler(accounts *services.AccountService, store *sessions.Store, jwtMgr *auth.JWTManager, cookieSecure bool) *AuthHandler {
	return &AuthHandler{accounts: accounts, store: store, jwtManager: jwtMgr, cookieSecure: cookieSecure}
}

// Signup creates the account and logs it in.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.accounts.Register(c.Request.Context(), req.Username, req.Email, req.Password, req.ImageURL)
	if err != nil {
		if models.Code(err) == models.CodeIntegrity {
			c.JSON(http.StatusConflict, gin.H{"error": "Username or email already taken"})
			return
		}
		respondError(c, err)
		return
	}

	resp, err := h.startSession(c, user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		bindError(c, err)
		return
	}

	res, err := h.accounts.Authenticate(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if !res.Found() {
		metrics.AuthFailures.WithLabelValues("bad_credentials").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials."})
		return
	}

	resp, err := h.startSession(c, res.User())
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Message = "Hello, " + res.User().Username + "!"
	c.JSON(http.StatusOK, resp)
}

// Logout ends the current session and revokes its token until it would have expired.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.dropSession(c)
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "You have successfully logged out."})
}

func (h *AuthHandler) startSession(c *gin.Context, user *models.User) (*dto.SessionResponse, error) {
	ctx := c.Request.Context()

	// A login replaces whatever session the client was carrying.
	h.dropSession(c)

	sid, err := h.store.Create(ctx, map[string]string{sessions.CurrUserKey: user.ID.String()})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	token, expiresAt, err := h.jwtManager.Issue(sid)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	maxAge := int(h.jwtManager.TTL().Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessions.CookieName, token, maxAge, "/", "", h.cookieSecure, true)

	return &dto.SessionResponse{
		User:           dto.NewUserInfo(user),
		Token:          token,
		TokenExpiresAt: expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

func (h *AuthHandler) dropSession(c *gin.Context) {
	ctx := c.Request.Context()
	if sid := middleware.SessionID(c); sid != "" {
		if err := h.store.Delete(ctx, sid); err != nil {
			slog.WarnContext(ctx, "could not delete session", "session_id", sid, "error", err)
		}
	}
	if token := middleware.SessionToken(c); token != "" {
		h.revoke(ctx, token)
	}
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetCookie(sessions.CookieName, "", -1, "/", "", h.cookieSecure, true)
}

func (h *AuthHandler) revoke(ctx context.Context, token string) {
	if err := h.store.Blacklist(ctx, token, h.jwtManager.Remaining(token)); err != nil {
		slog.WarnContext(ctx, "could not blacklist token", "error", err)
	}
}
