package routes

import (
	"qc-registry/config"
	"qc-registry/controllers"

	"github.com/gofiber/fiber/v2"
)

// SetupRegistryRoutes mounts the grid editor. The category segment must be
// percent-encoded since category names contain spaces and slashes.
func SetupRegistryRoutes(app *fiber.App, controller *controllers.RegistryController, auth fiber.Handler) {
	registry := app.Group(config.MAIN_ROUTES+"/registry", auth)
	registry.Post("/:category/drafts", controller.OpenDraft)
	registry.Put("/:category", controller.BulkSave)

	drafts := app.Group(config.MAIN_ROUTES+"/drafts", auth)
	drafts.Get("/:id", controller.GetDraft)
	drafts.Delete("/:id", controller.DiscardDraft)
	drafts.Post("/:id/rows", controller.AddRow)
	drafts.Patch("/:id/rows/:rowID", controller.UpdateField)
	drafts.Delete("/:id/rows/:rowID", controller.RemoveRow)
	drafts.Post("/:id/save", controller.SaveDraft)
}
