package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"net/http"
	"time"
	"tripplanner/pkg/utils"
)

const (
	SessionCookieName = "trip_session"
	SessionIDKey      = "session_id"
)

// SessionMiddleware resolves the planner session from a signed cookie and
// issues a fresh one when it is missing, expired or tampered with.
func SessionMiddleware(key []byte, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := c.Cookie(SessionCookieName); err == nil && raw != "" {
			claims, err := utils.ValidateSessionToken(raw, key)
			if err == nil {
				c.Set(SessionIDKey, claims.SessionID)
				c.Next()
				return
			}
			logger.Debug("discarding session cookie", zap.Error(err))
		}

		sessionID := uuid.New().String()
		token, err := utils.CreateSessionToken(sessionID, key, ttl)
		if err != nil {
			logger.Error("failed to sign session token", zap.Error(err))
			utils.RespondError(c, http.StatusInternalServerError, "Could not start session")
			c.Abort()
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(SessionCookieName, token, int(ttl.Seconds()), "/", "", false, true)
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}
