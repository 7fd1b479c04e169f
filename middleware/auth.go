package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// userIDKey is the gin context key the authenticated user is stored under
const userIDKey = "userID"

// TokenVerifier validates a session token and resolves its user
type TokenVerifier interface {
	VerifyToken(tokenString string) (uuid.UUID, error)
}

// AuthMiddleware rejects unauthenticated requests before any handler
// or store query runs
type AuthMiddleware struct {
	verifier TokenVerifier
}

// NewAuthMiddleware creates an auth middleware over a token verifier
func NewAuthMiddleware(verifier TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{verifier: verifier}
}

// RequireAuth extracts and verifies the bearer token, storing the user
// ID in the request context; missing or invalid tokens yield 401
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractBearerToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		userID, err := m.verifier.VerifyToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// UserID returns the authenticated user for a request, or false when
// the request did not pass RequireAuth
func UserID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(userIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok
}

func extractBearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return header[7:]
	}
	return ""
}
