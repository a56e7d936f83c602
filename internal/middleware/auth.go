package middleware

import (
	"net/http"
	"strings"

	"campuscrafter.id/academy/internal/auth"
	"campuscrafter.id/academy/pkg/apperror"
	"campuscrafter.id/academy/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type AuthMiddleware struct {
	tokens *auth.TokenManager
}

func NewAuthMiddleware(tokens *auth.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// RequireAuth verifies the bearer token and stores the identity claim under response.IdentityKey.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")

		if authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
				tokenString = strings.TrimSpace(parts[1])
			}
		}

		// Fallback to query parameter "token" (browsers cannot set headers on websockets)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			response.ResponseError(c, apperror.New(http.StatusUnauthorized, "Authorization required", apperror.ErrUnauthorized))
			c.Abort()
			return
		}

		identity, err := m.tokens.Verify(tokenString)
		if err != nil {
			response.ResponseError(c, apperror.New(http.StatusUnauthorized, "Invalid or expired token", err))
			c.Abort()
			return
		}

		c.Set(response.IdentityKey, identity)

		// Enrich the request logger with the caller.
		ctx := c.Request.Context()
		logger := zerolog.Ctx(ctx).With().Uint("user_id", identity.ID).Str("role", string(identity.Role)).Logger()
		c.Request = c.Request.WithContext(logger.WithContext(ctx))

		c.Next()
	}
}
