package controllers

import (
	"errors"

	"qc-registry/grid"
	"qc-registry/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidCredentials),
		errors.Is(err, services.ErrInvalidToken):
		return fiber.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, grid.ErrUnauthorized),
		errors.Is(err, grid.ErrReadOnly),
		errors.Is(err, grid.ErrAdminOnly),
		errors.Is(err, grid.ErrDraftForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, services.ErrNotFound),
		errors.Is(err, grid.ErrRowNotFound),
		errors.Is(err, grid.ErrDraftNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, grid.ErrClosed):
		return fiber.StatusConflict
	case errors.Is(err, services.ErrNotConfirmed),
		errors.Is(err, grid.ErrNotConfirmed):
		return fiber.StatusPreconditionRequired
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, grid.ErrEmptySave),
		errors.Is(err, grid.ErrUnknownField),
		errors.Is(err, grid.ErrDerivedField),
		errors.Is(err, grid.ErrInvalidCategory):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

// fail writes the error envelope. Unexpected errors are logged and their
// details kept out of the response.
func fail(ctx *fiber.Ctx, log *zap.Logger, err error) error {
	status := statusOf(err)
	if status == fiber.StatusInternalServerError {
		log.Error("request failed", zap.String("path", ctx.Path()), zap.Error(err))
		return ctx.Status(status).JSON(fiber.Map{
			"success": false,
			"message": "Internal server error",
		})
	}
	return ctx.Status(status).JSON(fiber.Map{
		"success": false,
		"message": err.Error(),
		"error":   err.Error(),
	})
}

func badRequest(ctx *fiber.Ctx, message string, err error) error {
	body := fiber.Map{"success": false, "message": message}
	if err != nil {
		body["error"] = err.Error()
	}
	return ctx.Status(fiber.StatusBadRequest).JSON(body)
}

func ok(ctx *fiber.Ctx, status int, message string, data any) error {
	body := fiber.Map{"success": true, "data": data}
	if message != "" {
		body["message"] = message
	}
	return ctx.Status(status).JSON(body)
}
