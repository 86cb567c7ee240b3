package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reliabot/internal/auth"
)

// UserIDKey is the gin context key holding the authenticated user id (string).
const UserIDKey = "userID"

var (
	errNoCredentials = errors.New("Authorization header is required")
	errBadFormat     = errors.New("Authorization header format must be Bearer {token}")
	errBadToken      = errors.New("Invalid or expired token")
	errBadUserID     = errors.New("Invalid user ID in token")
)

// JWTAuthMiddleware rejects requests without a valid session token. The token
// is read from the Authorization header, falling back to the session cookie
// when cookieName is set.
func JWTAuthMiddleware(secret string, cookieName ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := ExtractUserID(c, secret, cookieName...)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
			return
		}

		c.Set(UserIDKey, userID)
		c.Next()
	}
}

// OptionalAuth sets UserIDKey when the request carries a valid token and lets
// every request through.
func OptionalAuth(secret string, cookieName ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, err := ExtractUserID(c, secret, cookieName...); err == nil {
			c.Set(UserIDKey, userID)
		}
		c.Next()
	}
}

// ExtractUserID resolves the caller's user id from the request credentials.
func ExtractUserID(c *gin.Context, secret string, cookieName ...string) (string, error) {
	token, err := bearerToken(c, cookieName...)
	if err != nil {
		return "", err
	}

	userID, err := auth.ParseToken(secret, token)
	switch {
	case errors.Is(err, auth.ErrInvalidClaims):
		return "", errBadUserID
	case err != nil:
		return "", errBadToken
	}
	return userID, nil
}

func bearerToken(c *gin.Context, cookieName ...string) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		for _, name := range cookieName {
			if name == "" {
				continue
			}
			if cookie, err := c.Cookie(name); err == nil && cookie != "" {
				return cookie, nil
			}
		}
		return "", errNoCredentials
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", errBadFormat
	}
	return strings.TrimSpace(parts[1]), nil
}
