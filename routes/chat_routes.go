package routes

import (
	"qc-registry/config"
	"qc-registry/controllers"
	"qc-registry/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupChatRoutes(app *fiber.App, controller *controllers.ChatController, auth fiber.Handler) {
	api := app.Group(config.MAIN_ROUTES+"/chat", auth, middleware.RequireLogin)
	api.Get("/messages", controller.GetMessages)
	api.Post("/messages", controller.SendMessage)
	api.Patch("/messages/:id", controller.EditMessage)
	api.Delete("/messages/:id", controller.DeleteMessage)
	api.Get("/unread", controller.Unread)
	api.Get("/contacts", controller.Contacts)
	api.Get("/people", controller.People)
}
