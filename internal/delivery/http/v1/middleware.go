package v1

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/adanyl0v/taskboard/internal/services"
)

const (
	userIDCtxKey    = "user_id"
	sessionIDCtxKey = "session_id"
)

// accessToken reads the bearer token, falling back to the access token
// cookie for websocket upgrades where browsers can't set headers.
func accessToken(c *gin.Context) (string, bool) {
	const authHeader = "Authorization"
	header := c.GetHeader(authHeader)
	if header == "" {
		token, err := c.Cookie(accessTokenCookie)
		return token, err == nil && token != ""
	}

	const bearerPrefix = "Bearer"
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != bearerPrefix {
		return "", false
	}
	return parts[1], true
}

func (h *handlerImpl) HandleAuthMiddleware(c *gin.Context) {
	token, ok := accessToken(c)
	if !ok {
		h.logger.Error().Msg("access token required")
		abort(c, newUnauthorizedError("access token required"))
		return
	}

	claims, err := h.auth.ParseJWTToken(token)
	if err != nil {
		if !errors.Is(err, jwt.ErrTokenExpired) {
			h.logger.Error().
				Err(err).
				Msg("failed to parse token")
			abort(c, newUnauthorizedError("invalid access token"))
			return
		}

		result, ok := h.refreshSession(c)
		if !ok {
			return
		}

		claims, err = h.auth.ParseJWTToken(result.AccessToken)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to parse fresh token")
			abort(c, newUnauthorizedError("invalid access token"))
			return
		}
	}

	session, err := h.sessions.GetSessionByID(c, claims.Subject)
	if err != nil {
		if errors.Is(err, services.ErrSessionNotFound) {
			abort(c, newUnauthorizedError(services.ErrSessionNotFound.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to fetch session")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	browserFingerprint, err := generateFingerprint(c)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to generate fingerprint")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if browserFingerprint != session.Fingerprint {
		h.logger.Error().
			Str("session_id", session.ID).
			Msg("fingerprint mismatch")
		abort(c, newUnauthorizedError("fingerprint mismatch"))
		return
	}

	c.Set(userIDCtxKey, session.UserID)
	c.Set(sessionIDCtxKey, session.ID)
	c.Next()
}

// HandleAdminMiddleware must run after HandleAuthMiddleware.
func (h *handlerImpl) HandleAdminMiddleware(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	user, err := h.users.GetUserByID(c, userID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("user_id", userID).
			Msg("failed to fetch user")
		if errors.Is(err, services.ErrUserNotFound) {
			abort(c, newUnauthorizedError(err.Error()))
			return
		}
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if !user.IsAdmin() {
		h.logger.Warn().
			Str("user_id", userID).
			Msg("admin access denied")
		abort(c, newForbiddenError("admin access required"))
		return
	}
	c.Next()
}
