package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// claimsKey is the gin context key holding the verified identity.
const claimsKey = "auth.claims"

// UserRequired rejects requests that do not carry a valid user token. The
// verified claims are stored on the context for the handler.
func UserRequired(s *Service) gin.HandlerFunc {
	return requireKind(s, KindUser, "user must be logged in")
}

// AdminRequired rejects requests that do not carry a valid admin token.
func AdminRequired(s *Service) gin.HandlerFunc {
	return requireKind(s, KindAdmin, "admin privileges required, please login")
}

func requireKind(s *Service, kind, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(s, c)
		if !ok || claims.Kind != kind {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": message})
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

// bearerClaims extracts and verifies the token from the Authorization header
// ("Bearer <token>").
func bearerClaims(s *Service, c *gin.Context) (*Claims, bool) {
	header := c.GetHeader("Authorization")
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, false
	}
	claims, err := s.VerifyToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}

// Identity returns the verified claims set by the middleware, or nil when the
// request was not authenticated.
func Identity(c *gin.Context) *Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*Claims)
	if !ok {
		return nil
	}
	return claims
}
