package middleware

import (
	"strings"

	"qc-registry/models"

	"github.com/gofiber/fiber/v2"
)

const userLocalKey = "user"

// TokenResolver turns a bearer token into the worker it was issued to.
type TokenResolver interface {
	Resolve(token string) (models.Worker, error)
}

// NewAuthMiddleware resolves the caller from the Authorization header and
// stores it in the request locals. Requests without a header run as the guest
// worker; a malformed or invalid token is rejected.
func NewAuthMiddleware(resolver TokenResolver) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		authHeader := ctx.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			ctx.Locals(userLocalKey, models.GuestWorker())
			return ctx.Next()
		}

		tokenParts := strings.Split(authHeader, " ")
		if len(tokenParts) != 2 || strings.ToLower(tokenParts[0]) != "bearer" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Invalid Authorization header format",
			})
		}

		user, err := resolver.Resolve(tokenParts[1])
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: Invalid token",
				"error":   err.Error(),
			})
		}

		ctx.Locals(userLocalKey, user)
		return ctx.Next()
	}
}

// RequireLogin rejects the guest worker.
func RequireLogin(ctx *fiber.Ctx) error {
	if CurrentUser(ctx).IsGuest() {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"message": "Login required",
		})
	}
	return ctx.Next()
}

// CurrentUser returns the caller resolved by the auth middleware, or the guest.
func CurrentUser(ctx *fiber.Ctx) models.Worker {
	if user, ok := ctx.Locals(userLocalKey).(models.Worker); ok {
		return user
	}
	return models.GuestWorker()
}
