package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Cart session transport defaults and context key
const (
	DefaultSessionHeader = "X-Cart-Session"
	DefaultSessionCookie = "cart_session"
	SessionIDKey         = "cart_session_id"
)

// SessionTokens issues and validates cart session tokens
type SessionTokens interface {
	Issue() (*auth.SessionToken, error)
	Validate(token string) (string, error)
	Expiration() time.Duration
}

// CartSessionConfig holds configuration for the cart session middleware
type CartSessionConfig struct {
	Tokens     SessionTokens
	HeaderName string
	CookieName string
	Secure     bool
	SameSite   http.SameSite
	Logger     *zap.Logger
}

// CartSession resolves the shopper's cart session from the session header
// or cookie. A missing or invalid token starts a new session whose token
// is returned in both the cookie and the header.
func CartSession(cfg CartSessionConfig) gin.HandlerFunc {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultSessionHeader
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultSessionCookie
	}
	if cfg.SameSite == 0 {
		cfg.SameSite = http.SameSiteLaxMode
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		token := c.GetHeader(cfg.HeaderName)
		if token == "" {
			token, _ = c.Cookie(cfg.CookieName)
		}

		if token != "" {
			sessionID, err := cfg.Tokens.Validate(token)
			if err == nil {
				setSession(c, sessionID)
				c.Next()
				return
			}
			logger.For(c.Request.Context(), cfg.Logger).Debug("discarding cart session token", zap.Error(err))
		}

		minted, err := cfg.Tokens.Issue()
		if err != nil {
			logger.For(c.Request.Context(), cfg.Logger).Error("failed to issue cart session", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeInternal, "Could not start a cart session", GetRequestID(c)))
			return
		}

		c.SetSameSite(cfg.SameSite)
		c.SetCookie(cfg.CookieName, minted.Token, int(cfg.Tokens.Expiration().Seconds()), "/", "", cfg.Secure, true)
		c.Header(cfg.HeaderName, minted.Token)
		setSession(c, minted.SessionID)
		c.Next()
	}
}

func setSession(c *gin.Context, sessionID string) {
	c.Set(SessionIDKey, sessionID)
	c.Request = c.Request.WithContext(logger.WithSessionID(c.Request.Context(), sessionID))
}

// GetSessionID returns the cart session id set by CartSession
func GetSessionID(c *gin.Context) string {
	return c.GetString(SessionIDKey)
}

// ParseSameSite maps a config value (strict, lax, none) to http.SameSite
func ParseSameSite(s string) http.SameSite {
	switch strings.ToLower(s) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
