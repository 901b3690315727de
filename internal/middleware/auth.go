package middleware

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/thereayou/warbler/internal/models"
	"github.com/thereayou/warbler/internal/services"
	"github.com/thereayou/warbler/internal/sessions"
	"github.com/thereayou/warbler/pkg/auth"
)

const (
	IdentityKey  = "identity"
	SessionIDKey = "sessionID"
	TokenKey     = "sessionToken"
)

// Session resolves the request's identity from its session token. It never
// rejects a request: a missing, invalid, revoked or stale session simply leaves
// the identity nil, and RequireIdentity decides per route.
func Session(jwtManager *auth.JWTManager, store *sessions.Store, users services.UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			c.Next()
			return
		}
		ctx := c.Request.Context()

		revoked, err := store.IsBlacklisted(ctx, token)
		if err != nil {
			slog.WarnContext(ctx, "blacklist lookup failed", "error", err)
			c.Next()
			return
		}
		if revoked {
			c.Next()
			return
		}

		claims, err := jwtManager.Verify(token)
		if err != nil {
			c.Next()
			return
		}
		sid := claims.SessionID()
		c.Set(TokenKey, token)
		c.Set(SessionIDKey, sid)

		userID, err := store.Get(ctx, sid, sessions.CurrUserKey)
		if err != nil {
			slog.WarnContext(ctx, "session lookup failed", "session_id", sid, "error", err)
			c.Next()
			return
		}

		identity, err := services.ResolveIdentity(ctx, users, userID)
		if err != nil {
			slog.ErrorContext(ctx, "identity lookup failed", "session_id", sid, "error", err)
		}
		if identity != nil {
			c.Set(IdentityKey, identity)
		}
		c.Next()
	}
}

// RequireIdentity rejects requests without a logged-in user.
func RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.RequireIdentity(Identity(c)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": models.UnauthorizedMessage})
			return
		}
		c.Next()
	}
}

// Identity returns the logged-in user, or nil.
func Identity(c *gin.Context) *models.User {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return nil
	}
	u, _ := v.(*models.User)
	return u
}

// SessionID returns the id of the session carried by the request, or "".
func SessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// SessionToken returns the verified session token, or "".
func SessionToken(c *gin.Context) string {
	return c.GetString(TokenKey)
}

func tokenFromRequest(c *gin.Context) string {
	if cookie, err := c.Cookie(sessions.CookieName); err == nil && cookie != "" {
		return cookie
	}
	if token, ok := auth.BearerToken(c.GetHeader("Authorization")); ok {
		return token
	}
	// Browsers cannot set headers on a WebSocket handshake.
	return c.Query("token")
}
