package controllers

import (
	"bytes"
	"fmt"

	"qc-registry/middleware"
	"qc-registry/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DashboardController struct {
	ledger   *services.LedgerService
	registry *services.RegistryService
	log      *zap.Logger
}

func NewDashboardController(ledger *services.LedgerService, registry *services.RegistryService, log *zap.Logger) *DashboardController {
	return &DashboardController{ledger: ledger, registry: registry, log: log}
}

func (c *DashboardController) Dashboard(ctx *fiber.Ctx) error {
	d := c.ledger.Dashboard(middleware.CurrentUser(ctx), ctx.Query("q"))
	return ok(ctx, fiber.StatusOK, "", d)
}

func (c *DashboardController) GetRecords(ctx *fiber.Ctx) error {
	records, err := c.ledger.Search(middleware.CurrentUser(ctx), ctx.Query("q"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    records,
		"total":   len(records),
	})
}

func (c *DashboardController) Summary(ctx *fiber.Ctx) error {
	summary, err := c.ledger.Summary(middleware.CurrentUser(ctx))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ok(ctx, fiber.StatusOK, "", summary)
}

func (c *DashboardController) DeleteRecord(ctx *fiber.Ctx) error {
	err := c.registry.DeleteRecord(ctx.Context(), middleware.CurrentUser(ctx), ctx.Params("id"), ctx.QueryBool("confirm"))
	if err != nil {
		return fail(ctx, c.log, err)
	}
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Record deleted successfully",
	})
}

func (c *DashboardController) ExportExcel(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := c.ledger.ExportExcel(middleware.CurrentUser(ctx), &buf); err != nil {
		return fail(ctx, c.log, err)
	}

	ctx.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportFileName))
	return ctx.Send(buf.Bytes())
}

func (c *DashboardController) ExportCSV(ctx *fiber.Ctx) error {
	var buf bytes.Buffer
	if err := c.ledger.ExportCSV(middleware.CurrentUser(ctx), &buf); err != nil {
		return fail(ctx, c.log, err)
	}

	ctx.Set("Content-Type", "text/csv; charset=utf-8")
	ctx.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, services.ExportCSVName))
	return ctx.Send(buf.Bytes())
}
