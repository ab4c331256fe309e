package controllers

import (
	"qc-registry/middleware"
	"qc-registry/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type AuthController struct {
	auth     *services.AuthService
	chats    *services.ChatService
	validate *validator.Validate
	log      *zap.Logger
}

func NewAuthController(auth *services.AuthService, chats *services.ChatService, log *zap.Logger) *AuthController {
	return &AuthController{auth: auth, chats: chats, validate: services.NewValidator(), log: log}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input services.LoginInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}
	if err := c.validate.Struct(input); err != nil {
		return badRequest(ctx, "Mobile number, employee code or admin id is required", err)
	}

	token, user, err := c.auth.Login(ctx.Context(), input)
	if err != nil {
		return fail(ctx, c.log, err)
	}

	return ok(ctx, fiber.StatusOK, "Login successful", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	if err := c.auth.Logout(ctx.Context(), middleware.CurrentUser(ctx)); err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// Me returns the caller, which is the guest worker when no token was sent.
func (c *AuthController) Me(ctx *fiber.Ctx) error {
	user := middleware.CurrentUser(ctx)
	return ok(ctx, fiber.StatusOK, "", fiber.Map{
		"user":   user.Public(),
		"guest":  user.IsGuest(),
		"unread": c.chats.UnreadCount(user),
	})
}
