package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/domain/user"
	"jobboard/internal/pkg/jwt"
)

const (
	CtxUserIDKey = "user_id"
	CtxEmailKey  = "email"
	CtxRoleKey   = "role"
)

type AuthMiddleware struct {
	jwt jwt.Service
}

func NewAuthMiddleware(jwtSvc jwt.Service) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwtSvc}
}

// Middleware requires a valid access token and stores its claims in locals.
func (m *AuthMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return NewAppError(fiber.StatusUnauthorized, "Token expired", nil, err)
			}
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, err)
		}
		if claims.TokenType != jwt.TokenTypeAccess {
			return NewAppError(fiber.StatusUnauthorized, "Invalid token", nil, nil)
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxEmailKey, claims.Email)
		c.Locals(CtxRoleKey, user.Role(claims.Role))
		return c.Next()
	}
}

// RequireJobPoster lets through roles allowed to publish postings. It must
// run after Middleware.
func RequireJobPoster() fiber.Handler {
	return func(c fiber.Ctx) error {
		role, _ := c.Locals(CtxRoleKey).(user.Role)
		if !role.CanPostJobs() {
			return NewAppError(fiber.StatusForbidden, "Only employers can post jobs", nil, nil)
		}
		return c.Next()
	}
}

func BearerToken(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}
