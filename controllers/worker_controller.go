package controllers

import (
	"qc-registry/middleware"
	"qc-registry/models"
	"qc-registry/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WorkerController struct {
	workers *services.WorkerService
	log     *zap.Logger
}

func NewWorkerController(workers *services.WorkerService, log *zap.Logger) *WorkerController {
	return &WorkerController{workers: workers, log: log}
}

func (c *WorkerController) GetAllWorkers(ctx *fiber.Ctx) error {
	workers, err := c.workers.List(middleware.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    workers,
		"total":   len(workers),
	})
}

func (c *WorkerController) CreateWorker(ctx *fiber.Ctx) error {
	var input models.WorkerInput
	if err := ctx.BodyParser(&input); err != nil {
		return badRequest(ctx, "Invalid request body", err)
	}

	worker, err := c.workers.Enroll(ctx.Context(), middleware.CurrentUser(ctx), input)
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusCreated, "New personnel enrolled successfully", worker)
}

func (c *WorkerController) DeleteWorker(ctx *fiber.Ctx) error {
	err := c.workers.Delete(ctx.Context(), middleware.CurrentUser(ctx), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Worker removed successfully",
	})
}
