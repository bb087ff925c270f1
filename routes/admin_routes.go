package routes

import (
	"github.com/Alexandr290700/online-tutor/handlers"
	"github.com/Alexandr290700/online-tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())
	admin.Get("/users", handlers.ListAccounts)
	admin.Put("/users/:id/status", handlers.ToggleAccountStatus)
	admin.Get("/payments", handlers.ListAllPayments)
}
