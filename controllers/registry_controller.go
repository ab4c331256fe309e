package controllers

import (
	"encoding/json"

	"qc-registry/middleware"
	"qc-registry/models"
	"qc-registry/services"

	"github.com/go-playground/validator"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type RegistryController struct {
	registry *services.RegistryService
	validate *validator.Validate
	log      *zap.Logger
}

func NewRegistryController(registry *services.RegistryService, log *zap.Logger) *RegistryController {
	return &RegistryController{registry: registry, validate: services.NewValidator(), log: log}
}

type fieldUpdateInput struct {
	Field string `json:"field" validate:"required"`
	Value string `json:"value"`
}

type bulkSaveInput struct {
	Rows []json.RawMessage `json:"rows" validate:"required"`
}

// OpenDraft mounts the grid of a category for the caller.
func (c *RegistryController) OpenDraft(ctx *fiber.Ctx) error {
	category, err := models.ParseCategorySegment(ctx.Params("category"))
	if err != nil {
		return badRequest(ctx, "Unknown registry", err)
	}
	view, err := c.registry.OpenDraft(middleware.CurrentUser(ctx), category)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusCreated, "", view)
}

func (c *RegistryController) GetDraft(ctx *fiber.Ctx) error {
	view, err := c.registry.GetDraft(middleware.CurrentUser(ctx), ctx.Params("id"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "", view)
}

func (c *RegistryController) DiscardDraft(ctx *fiber.Ctx) error {
	if err := c.registry.DiscardDraft(middleware.CurrentUser(ctx), ctx.Params("id")); err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Draft discarded"})
}

func (c *RegistryController) UpdateField(ctx *fiber.Ctx) error {
	var input fieldUpdateInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}
	if err := c.validate.Struct(input); err != nil {
		return badRequest(ctx, "Field name is required", err)
	}

	row, err := c.registry.UpdateField(middleware.CurrentUser(ctx), ctx.Params("id"), ctx.Params("rowID"), input.Field, input.Value)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "", row)
}

func (c *RegistryController) AddRow(ctx *fiber.Ctx) error {
	row, err := c.registry.AddRow(middleware.CurrentUser(ctx), ctx.Params("id"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusCreated, "", row)
}

func (c *RegistryController) RemoveRow(ctx *fiber.Ctx) error {
	err := c.registry.RemoveRow(middleware.CurrentUser(ctx), ctx.Params("id"), ctx.Params("rowID"), ctx.QueryBool("confirm"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{"success": true, "message": "Row removed"})
}

func (c *RegistryController) SaveDraft(ctx *fiber.Ctx) error {
	batch, err := c.registry.SaveDraft(ctx.Context(), middleware.CurrentUser(ctx), ctx.Params("id"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "Registry saved successfully", batch)
}

// BulkSave accepts the whole grid held by the client and saves it in one call.
func (c *RegistryController) BulkSave(ctx *fiber.Ctx) error {
	category, err := models.ParseCategorySegment(ctx.Params("category"))
	if err != nil {
		return badRequest(ctx, "Unknown registry", err)
	}
	var input bulkSaveInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}
	if err := c.validate.Struct(input); err != nil {
		return badRequest(ctx, "Rows are required", err)
	}

	batch, err := c.registry.BulkSave(ctx.Context(), middleware.CurrentUser(ctx), category, input.Rows)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "Registry saved successfully", batch)
}
