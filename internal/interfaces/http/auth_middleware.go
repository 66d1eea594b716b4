package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/taxpayer-registry/internal/application/auth"
	"github.com/jhoicas/taxpayer-registry/internal/domain"
	"github.com/jhoicas/taxpayer-registry/internal/domain/entity"
)

// LocalUser is the Fiber Locals key holding the authenticated *entity.User.
const LocalUser = "user"

// tokenResolver is the slice of the identity service the middleware needs.
type tokenResolver interface {
	Resolve(ctx context.Context, token string) (*entity.User, error)
}

// AuthMiddleware validates the Bearer token, loads the current user and stores it in c.Locals.
func AuthMiddleware(identity tokenResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return writeError(c, domain.Unauthorized("not authenticated"))
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return writeError(c, domain.Unauthorized("authorization header must be: Bearer <token>"))
		}
		token := strings.TrimSpace(parts[1])
		if token == "" {
			return writeError(c, domain.Unauthorized("not authenticated"))
		}
		user, err := identity.Resolve(c.UserContext(), token)
		if err != nil {
			return writeError(c, err)
		}
		c.Locals(LocalUser, user)
		return c.Next()
	}
}

// GetUser returns the user stored by AuthMiddleware, or nil.
func GetUser(c *fiber.Ctx) *entity.User {
	u, _ := c.Locals(LocalUser).(*entity.User)
	return u
}

// RequireRole lets the request through only when the current user holds one of roles.
// It must run after AuthMiddleware.
func RequireRole(roles ...entity.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user := GetUser(c)
		if user == nil {
			return writeError(c, domain.Unauthorized("not authenticated"))
		}
		if err := auth.RequireRole(user, roles...); err != nil {
			return writeError(c, err)
		}
		return c.Next()
	}
}
