package routes

import (
	"qc-registry/config"
	"qc-registry/controllers"
	"qc-registry/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupWorkerRoutes(app *fiber.App, controller *controllers.WorkerController, auth fiber.Handler) {
	api := app.Group(config.MAIN_ROUTES+"/admin/workers", auth, middleware.RequireLogin)
	api.Get("/", controller.GetAllWorkers)
	api.Post("/", controller.CreateWorker)
	api.Delete("/:id", controller.DeleteWorker)
}
