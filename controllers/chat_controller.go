package controllers

import (
	"qc-registry/middleware"
	"qc-registry/models"
	"qc-registry/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ChatController struct {
	chats    *services.ChatService
	validate *validator.Validate
	log      *zap.Logger
}

func NewChatController(chats *services.ChatService, log *zap.Logger) *ChatController {
	return &ChatController{chats: chats, validate: services.NewValidator(), log: log}
}

type editMessageInput struct {
	Text string `json:"text" validate:"required"`
}

func (c *ChatController) GetMessages(ctx *fiber.Ctx) error {
	messages, err := c.chats.Conversation(ctx.Context(), middleware.CurrentUser(ctx), ctx.Query("with"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "", messages)
}

func (c *ChatController) SendMessage(ctx *fiber.Ctx) error {
	var input models.ChatMessageInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}
	if err := c.validate.Struct(input); err != nil {
		return badRequest(ctx, "Receiver is required", err)
	}

	msg, err := c.chats.Send(ctx.Context(), middleware.CurrentUser(ctx), input)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusCreated, "", msg)
}

func (c *ChatController) EditMessage(ctx *fiber.Ctx) error {
	var input editMessageInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}
	if err := c.validate.Struct(input); err != nil {
		return badRequest(ctx, "Text is required", err)
	}

	msg, err := c.chats.Edit(ctx.Context(), middleware.CurrentUser(ctx), ctx.Params("id"), input.Text)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "", msg)
}

func (c *ChatController) DeleteMessage(ctx *fiber.Ctx) error {
	msg, err := c.chats.Delete(ctx.Context(), middleware.CurrentUser(ctx), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "Message deleted", msg)
}

func (c *ChatController) Unread(ctx *fiber.Ctx) error {
	return ok(ctx, fiber.StatusOK, "", fiber.Map{"count": c.chats.UnreadCount(middleware.CurrentUser(ctx))})
}

func (c *ChatController) Contacts(ctx *fiber.Ctx) error {
	return ok(ctx, fiber.StatusOK, "", c.chats.Contacts(middleware.CurrentUser(ctx)))
}

func (c *ChatController) People(ctx *fiber.Ctx) error {
	return ok(ctx, fiber.StatusOK, "", c.chats.People(middleware.CurrentUser(ctx), ctx.Query("q")))
}
