package routes

import (
	"qc-registry/config"
	"qc-registry/controllers"
	"qc-registry/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App, controller *controllers.AuthController, auth fiber.Handler) {
	api := app.Group(config.MAIN_ROUTES+"/auth", auth)
	api.Post("/login", controller.Login)
	api.Post("/logout", middleware.RequireLogin, controller.Logout)
	api.Get("/me", controller.Me)
}
