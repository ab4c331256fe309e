package routes

import (
	"qc-registry/config"
	"qc-registry/controllers"

	"github.com/gofiber/fiber/v2"
)

func SetupDashboardRoutes(app *fiber.App, controller *controllers.DashboardController, auth fiber.Handler) {
	dashboard := app.Group(config.MAIN_ROUTES+"/dashboard", auth)
	dashboard.Get("/", controller.Dashboard)

	records := app.Group(config.MAIN_ROUTES+"/records", auth)
	records.Get("/", controller.GetRecords)
	records.Get("/summary", controller.Summary)
	records.Get("/export.xlsx", controller.ExportExcel)
	records.Get("/export.csv", controller.ExportCSV)
	records.Delete("/:id", controller.DeleteRecord)
}
