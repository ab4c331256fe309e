package routes

import (
	"qc-registry/controllers"

	"github.com/gofiber/fiber/v2"
)

type Controllers struct {
	Auth      *controllers.AuthController
	Dashboard *controllers.DashboardController
	Registry  *controllers.RegistryController
	Worker    *controllers.WorkerController
	Chat      *controllers.ChatController
}

// SetupRoutes mounts every API group under config.MAIN_ROUTES. auth resolves
// the caller for each request.
func SetupRoutes(app *fiber.App, c Controllers, auth fiber.Handler) {
	SetupAuthRoutes(app, c.Auth, auth)
	SetupDashboardRoutes(app, c.Dashboard, auth)
	SetupRegistryRoutes(app, c.Registry, auth)
	SetupWorkerRoutes(app, c.Worker, auth)
	SetupChatRoutes(app, c.Chat, auth)
}
